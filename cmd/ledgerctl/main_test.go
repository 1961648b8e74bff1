package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const ledgerCSV = "Дата,Команда,Сотрудник,Операция,Сумма,Профит,Спред,Объем\n" +
	"2024-05-01 09:00,A,ivan,Зарплаты,100,10.5,0.02,1000\n" +
	"2024-05-02 09:00,A,olga,Доход от рефералов,50,-2.25,,500\n" +
	"2024-05-03 09:00,B,petr,Еда,30.10,4,0.04,250.5\n" +
	"2024-05-04 09:00,B,ivan,Перевод,999,1,,10\n" +
	"2024-05-05 09:00,A,ivan,Зарплаты,20,,0.03,\n"

func writeLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.csv")
	if err := os.WriteFile(path, []byte(ledgerCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BUSINESS_TIMEZONE", "UTC")
	t.Setenv("VOCABULARY_FILE", "")
	t.Setenv("AMQP_URL", "")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummary(t *testing.T) {
	out, err := run(t, "summary", "--csv", writeLedger(t), "--start", "2024-05-01", "--end", "2024-05-31")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{"13.25", "3,00", "1 760.50", "-100.10", "150.10", "Зарплаты", "120.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}

func TestView(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "no category selected",
			args: nil,
			want: []string{"Нет данных"},
		},
		{
			name:    "one category sorted by amount",
			args:    []string{"--category", "Зарплаты", "--sort", "amount", "--desc"},
			want:    []string{"01.05.2024 09:00", "05.05.2024 09:00", "2 records"},
			notWant: []string{"Еда"},
		},
		{
			name:    "team filter with all categories",
			args:    []string{"--all-categories", "--team", "B"},
			want:    []string{"petr", "1 records"},
			notWant: []string{"olga", "Перевод"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"view", "--csv", writeLedger(t)}, tt.args...)
			out, err := run(t, args...)
			if err != nil {
				t.Fatalf("view: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestView_SortOrder(t *testing.T) {
	out, err := run(t, "view", "--csv", writeLedger(t), "--category", "Зарплаты", "--sort", "amount", "--desc")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Index(out, "01.05.2024") > strings.Index(out, "05.05.2024") {
		t.Fatalf("amount 100 must come before 20 when descending:\n%s", out)
	}
}

func TestSeries(t *testing.T) {
	out, err := run(t, "series", "--csv", writeLedger(t))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "2024-05-01T09:00:00Z") || !strings.Contains(out, "-2.25") {
		t.Fatalf("unexpected series output:\n%s", out)
	}
}

func TestErrors(t *testing.T) {
	csv := writeLedger(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no source", []string{"summary"}, "--csv or --sqlite"},
		{"both sources", []string{"summary", "--csv", csv, "--sqlite", "x.db"}, "mutually exclusive"},
		{"bad date", []string{"summary", "--csv", csv, "--start", "1 May"}, "invalid date range"},
		{"bad sort", []string{"view", "--csv", csv, "--sort", "colour"}, "unknown sort column"},
		{"import needs both", []string{"import", "--csv", csv}, "--csv and --sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestImportThenQuerySQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")

	out, err := run(t, "import", "--csv", writeLedger(t), "--sqlite", db)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "imported 5 records") {
		t.Fatalf("import output = %q", out)
	}

	out, err = run(t, "teams", "--sqlite", db)
	if err != nil {
		t.Fatalf("teams: %v", err)
	}
	if !strings.Contains(out, "ivan, olga") || !strings.Contains(out, "ivan, petr") {
		t.Fatalf("teams output:\n%s", out)
	}
}
