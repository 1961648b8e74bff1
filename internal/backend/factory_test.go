package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ledgerdash/internal/config"
	"ledgerdash/internal/core"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil, time.UTC); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "ftp"}, time.UTC); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", DataDir: "d"}, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "x.db" || cfg.DataDirectory != "d" || cfg.Location != time.UTC {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.Columns) == 0 {
		t.Error("columns should default to the built-in map")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sheets without id", Config{Type: SheetsBackend}, true},
		{"unknown", Config{Type: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_Memory(t *testing.T) {
	dir := t.TempDir()
	csv := "Дата,Операция,Сумма\n2024-05-01,Еда,10\n"
	if err := os.WriteFile(filepath.Join(dir, "ledger.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:          MemoryBackend,
		DataDirectory: dir,
		Columns:       core.DefaultColumnMap(),
		Location:      time.UTC,
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Close()

	records, err := res.Source.LoadRecords(context.Background())
	if err != nil || len(records) != 1 {
		t.Fatalf("LoadRecords = %v, %v", records, err)
	}
	if res.Writer == nil {
		t.Error("memory backend should be writable")
	}
}

func TestFactory_SQLite(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "ledger.db"),
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Close()

	if err := res.Writer.ReplaceRecords(ctx, []core.Record{{Operation: "Еда"}}); err != nil {
		t.Fatal(err)
	}
	records, err := res.Source.LoadRecords(ctx)
	if err != nil || len(records) != 1 {
		t.Fatalf("LoadRecords = %v, %v", records, err)
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 3 || got[0] != "sqlite" {
		t.Errorf("GetBackendTypeStrings() = %v", got)
	}
}
