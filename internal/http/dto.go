package http

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"ledgerdash/internal/core"
	"ledgerdash/internal/ledger"
	"ledgerdash/internal/services"
)

// amountDTO carries a figure both as a number and as its display string
type amountDTO struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

type categoryAmountDTO struct {
	Category string    `json:"category"`
	Amount   amountDTO `json:"amount"`
}

type summaryDTO struct {
	TotalProfit          amountDTO           `json:"total_profit"`
	AverageSpreadPercent amountDTO           `json:"average_spread_percent"`
	TotalVolume          amountDTO           `json:"total_volume"`
	NetIncome            amountDTO           `json:"net_income"`
	TotalExpenses        amountDTO           `json:"total_expenses"`
	ExpenseByCategory    []categoryAmountDTO `json:"expense_by_category"`
}

// cellDTO is a record value as the source provided it; absent values are null
type cellDTO struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type recordDTO struct {
	Timestamp string   `json:"timestamp"`
	Display   string   `json:"display_time"`
	Team      string   `json:"team"`
	Employee  string   `json:"employee"`
	Operation string   `json:"operation"`
	Class     string   `json:"class"`
	Amount    *cellDTO `json:"amount"`
	Volume    *cellDTO `json:"volume"`
	Profit    *cellDTO `json:"profit"`
	Spread    *cellDTO `json:"spread"`
}

type seriesPointDTO struct {
	Label  string   `json:"label"`
	Profit *float64 `json:"profit"`
}

type criteriaDTO struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Team     string `json:"team"`
	Employee string `json:"employee"`
}

type sortDTO struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

type categoryDTO struct {
	Label  string `json:"label"`
	Class  string `json:"class"`
	Active bool   `json:"active"`
}

type teamDTO struct {
	Team      string   `json:"team"`
	Employees []string `json:"employees"`
}

type dashboardResponse struct {
	Generation uint64           `json:"generation"`
	LoadedAt   string           `json:"loaded_at,omitempty"`
	Records    int              `json:"records"`
	Filtered   int              `json:"filtered"`
	HasData    bool             `json:"has_data"`
	Criteria   *criteriaDTO     `json:"criteria"`
	Summary    summaryDTO       `json:"summary"`
	View       []recordDTO      `json:"view"`
	Series     []seriesPointDTO `json:"series"`
	Sort       sortDTO          `json:"sort"`
	Categories []categoryDTO    `json:"categories"`
	Teams      []teamDTO        `json:"teams"`
}

type queryResponse struct {
	Generation uint64           `json:"generation"`
	Filtered   int              `json:"filtered"`
	HasData    bool             `json:"has_data"`
	Criteria   criteriaDTO      `json:"criteria"`
	Summary    summaryDTO       `json:"summary"`
	View       []recordDTO      `json:"view"`
	Series     []seriesPointDTO `json:"series"`
}

func newAmount(d decimal.Decimal) amountDTO {
	return amountDTO{Value: d.InexactFloat64(), Display: ledger.FormatAmount(d)}
}

func newPercent(d decimal.Decimal) amountDTO {
	return amountDTO{Value: d.InexactFloat64(), Display: ledger.FormatPercent(d)}
}

func newCell(n decimal.NullDecimal) *cellDTO {
	if !n.Valid {
		return nil
	}
	return &cellDTO{Value: n.Decimal.InexactFloat64(), Text: n.Decimal.String()}
}

func newSummary(s core.Summary) summaryDTO {
	out := summaryDTO{
		TotalProfit:          newAmount(s.TotalProfit),
		AverageSpreadPercent: newPercent(s.AverageSpreadPercent),
		TotalVolume:          newAmount(s.TotalVolume),
		NetIncome:            newAmount(s.NetIncome),
		TotalExpenses:        newAmount(s.TotalExpenses),
		ExpenseByCategory:    make([]categoryAmountDTO, 0, len(s.ExpenseByCategory)),
	}
	for _, c := range s.ExpenseByCategory {
		out.ExpenseByCategory = append(out.ExpenseByCategory, categoryAmountDTO{Category: c.Name, Amount: newAmount(c.Amount)})
	}
	return out
}

func newRecords(records []core.Record, vocab core.Vocabulary, loc *time.Location) []recordDTO {
	out := make([]recordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, recordDTO{
			Timestamp: isoTime(r.Timestamp, loc),
			Display:   ledger.FormatTimestamp(r.Timestamp, loc),
			Team:      r.Team,
			Employee:  r.Employee,
			Operation: r.Operation,
			Class:     vocab.Classify(r.Operation).String(),
			Amount:    newCell(r.Amount),
			Volume:    newCell(r.Volume),
			Profit:    newCell(r.Profit),
			Spread:    newCell(r.Spread),
		})
	}
	return out
}

// newSeries keeps input order; a missing profit becomes null so charts leave a gap
func newSeries(points []core.SeriesPoint, loc *time.Location) []seriesPointDTO {
	out := make([]seriesPointDTO, 0, len(points))
	for _, p := range points {
		dto := seriesPointDTO{Label: isoTime(p.Timestamp, loc)}
		if !math.IsNaN(p.Profit) {
			v := p.Profit
			dto.Profit = &v
		}
		out = append(out, dto)
	}
	return out
}

func newCriteria(c ledger.Criteria, loc *time.Location) criteriaDTO {
	return criteriaDTO{
		Start:    isoTime(c.Start, loc),
		End:      isoTime(c.End, loc),
		Team:     c.Team,
		Employee: c.Employee,
	}
}

func newCategories(vocab core.Vocabulary, active []string) []categoryDTO {
	on := make(map[string]bool, len(active))
	for _, a := range active {
		on[a] = true
	}
	labels := vocab.Labels()
	out := make([]categoryDTO, 0, len(labels))
	for _, l := range labels {
		out = append(out, categoryDTO{Label: l, Class: vocab.Classify(l).String(), Active: on[l]})
	}
	return out
}

func newTeams(idx ledger.Index) []teamDTO {
	teams := idx.Teams()
	out := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamDTO{Team: t, Employees: idx.Employees(t)})
	}
	return out
}

func newDashboardResponse(s services.Snapshot, vocab core.Vocabulary, loc *time.Location) dashboardResponse {
	resp := dashboardResponse{
		Generation: s.Generation,
		Records:    s.Records,
		Filtered:   s.Filtered,
		HasData:    s.HasData,
		Summary:    newSummary(s.Summary),
		View:       newRecords(s.View, vocab, loc),
		Series:     newSeries(s.Series, loc),
		Sort:       sortDTO{Column: string(s.Sort.Column), Direction: string(s.Sort.Direction)},
		Categories: newCategories(vocab, s.Active),
		Teams:      newTeams(s.Index),
	}
	if !s.LoadedAt.IsZero() {
		resp.LoadedAt = s.LoadedAt.UTC().Format(time.RFC3339)
	}
	if s.Criteria != nil {
		c := newCriteria(*s.Criteria, loc)
		resp.Criteria = &c
	}
	return resp
}

func newQueryResponse(r services.QueryResult, vocab core.Vocabulary, loc *time.Location) queryResponse {
	return queryResponse{
		Generation: r.Generation,
		Filtered:   r.Filtered,
		HasData:    r.HasData,
		Criteria:   newCriteria(r.Criteria, loc),
		Summary:    newSummary(r.Summary),
		View:       newRecords(r.View, vocab, loc),
		Series:     newSeries(r.Series, loc),
	}
}

func isoTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(time.RFC3339)
}
