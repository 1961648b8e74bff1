package ledger

import (
	"reflect"
	"testing"

	"ledgerdash/internal/core"
)

func TestBuildIndex(t *testing.T) {
	idx := BuildIndex(sampleRecords())
	if got := idx.Teams(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("teams: %v", got)
	}
	if got := idx.Employees("A"); !reflect.DeepEqual(got, []string{"ivan", "olga"}) {
		t.Fatalf("employees A: %v", got)
	}
	if got := idx.Employees(AllTeams); !reflect.DeepEqual(got, []string{"ivan", "olga", "petr"}) {
		t.Fatalf("employees ALL: %v", got)
	}
	if got := idx.Employees("missing"); len(got) != 0 {
		t.Fatalf("employees of unknown team: %v", got)
	}
	if !idx.Has("B", "ivan") || idx.Has("B", "olga") {
		t.Fatalf("unexpected membership")
	}
}

func TestBuildIndexEmptyKeys(t *testing.T) {
	idx := BuildIndex([]core.Record{{}, {Employee: "x"}})
	if len(idx) != 1 {
		t.Fatalf("expected one empty-string team, got %v", idx.Teams())
	}
	if got := idx.Employees(""); !reflect.DeepEqual(got, []string{"", "x"}) {
		t.Fatalf("employees of empty team: %q", got)
	}
	if len(BuildIndex(nil)) != 0 {
		t.Fatalf("empty input should give empty index")
	}
}
