package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"ledgerdash/internal/core"
	"ledgerdash/internal/ledger"
	"ledgerdash/internal/services"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
)

const noData = "Нет данных для отображения."

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(int, int) lipgloss.Style { return cellStyle }).
		Headers(headers...)
}

func amount(d decimal.Decimal) string {
	s := ledger.FormatAmount(d)
	if d.IsNegative() {
		return negativeStyle.Render(s)
	}
	return s
}

func cell(n decimal.NullDecimal) string {
	if !n.Valid {
		return ""
	}
	return n.Decimal.String()
}

func renderSummary(w io.Writer, res services.QueryResult) {
	s := res.Summary
	fmt.Fprintln(w, titleStyle.Render("Summary"))
	t := newTable("Metric", "Value").
		Row("Общий профит", amount(s.TotalProfit)+" $").
		Row("Средний спред", ledger.FormatPercent(s.AverageSpreadPercent)+" %").
		Row("Общий объём", amount(s.TotalVolume)+" $").
		Row("Чистый доход", amount(s.NetIncome)+" $").
		Row("Общая сумма трат", amount(s.TotalExpenses)+" $")
	fmt.Fprintln(w, t.Render())

	if len(s.ExpenseByCategory) == 0 {
		return
	}
	fmt.Fprintln(w, titleStyle.Render("Expenses by category"))
	bt := newTable("Category", "Amount")
	for _, c := range s.ExpenseByCategory {
		bt.Row(c.Name, amount(c.Amount)+" $")
	}
	fmt.Fprintln(w, bt.Render())
}

func renderView(w io.Writer, records []core.Record, vocab core.Vocabulary, loc *time.Location) {
	if len(records) == 0 {
		fmt.Fprintln(w, mutedStyle.Render(noData))
		return
	}
	t := newTable("Дата", "Команда", "Сотрудник", "Операция", "Сумма", "Объем", "Профит", "Спред")
	for _, r := range records {
		op := r.Operation
		if vocab.Classify(op) == core.ClassNeutral {
			op = mutedStyle.Render(op)
		}
		t.Row(
			ledger.FormatTimestamp(r.Timestamp, loc),
			r.Team, r.Employee, op,
			cell(r.Amount), cell(r.Volume), cell(r.Profit), cell(r.Spread),
		)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, mutedStyle.Render(strconv.Itoa(len(records))+" records"))
}

func renderSeries(w io.Writer, points []core.SeriesPoint, loc *time.Location) {
	if len(points) == 0 {
		fmt.Fprintln(w, mutedStyle.Render(noData))
		return
	}
	t := newTable("Дата", "Профит")
	for _, p := range points {
		profit := "-"
		if !math.IsNaN(p.Profit) {
			profit = strconv.FormatFloat(p.Profit, 'f', -1, 64)
		}
		ts := ""
		if !p.Timestamp.IsZero() {
			ts = p.Timestamp.In(loc).Format(time.RFC3339)
		}
		t.Row(ts, profit)
	}
	fmt.Fprintln(w, t.Render())
}

func renderTeams(w io.Writer, idx ledger.Index) {
	teams := idx.Teams()
	if len(teams) == 0 {
		fmt.Fprintln(w, mutedStyle.Render(noData))
		return
	}
	t := newTable("Команда", "Сотрудники")
	for _, team := range teams {
		t.Row(team, strings.Join(idx.Employees(team), ", "))
	}
	fmt.Fprintln(w, t.Render())
}
