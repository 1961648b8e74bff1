package ledger

import (
	"sort"

	"ledgerdash/internal/core"
)

// Index maps a team to the set of employees seen under it.
type Index map[string]map[string]struct{}

// BuildIndex builds the team to employee index of a record set.
func BuildIndex(records []core.Record) Index {
	idx := make(Index)
	for _, r := range records {
		set, ok := idx[r.Team]
		if !ok {
			set = make(map[string]struct{})
			idx[r.Team] = set
		}
		set[r.Employee] = struct{}{}
	}
	return idx
}

// Teams returns the distinct teams, sorted.
func (idx Index) Teams() []string {
	out := make([]string, 0, len(idx))
	for team := range idx {
		out = append(out, team)
	}
	sort.Strings(out)
	return out
}

// Employees returns the sorted employees of a team. AllTeams yields every
// employee of every team; an unknown team yields none.
func (idx Index) Employees(team string) []string {
	seen := make(map[string]struct{})
	if team == AllTeams {
		for _, set := range idx {
			for e := range set {
				seen[e] = struct{}{}
			}
		}
	} else {
		seen = idx[team]
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Has reports whether employee appears under team.
func (idx Index) Has(team, employee string) bool {
	_, ok := idx[team][employee]
	return ok
}
