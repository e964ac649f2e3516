package filters

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/rufinoratti/zonadepor-api/models"
)

func sampleMatches() []models.Match {
	return []models.Match{
		{
			ID:       "m1",
			SportID:  "futbol",
			Address:  "Av. Libertador 1500",
			Zone:     &models.Zone{ID: "z1", Name: "Palermo"},
			MinLevel: 1,
			MaxLevel: 2,
		},
		{
			ID:       "m2",
			SportID:  "padel",
			Address:  "Calle Falsa 123",
			Zone:     &models.Zone{ID: "z2", Name: "Belgrano"},
			MinLevel: 3,
			MaxLevel: 3,
		},
		{
			ID:       "m3",
			SportID:  "futbol",
			Address:  "Club Palermo Norte",
			Zone:     &models.Zone{ID: "z2", Name: "Belgrano"},
			MinLevel: 2,
			MaxLevel: 3,
		},
	}
}

func ids(matches []models.Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter MatchFilter
		want   []string
	}{
		{"zero filter keeps everything", MatchFilter{}, []string{"m1", "m2", "m3"}},
		{"sport equality", MatchFilter{SportID: "futbol"}, []string{"m1", "m3"}},
		{"location matches address", MatchFilter{Location: "libertador"}, []string{"m1"}},
		{"location matches zone name", MatchFilter{Location: "belgrano"}, []string{"m2", "m3"}},
		{"location is case-insensitive", MatchFilter{Location: "PALERMO"}, []string{"m1", "m3"}},
		{"level compares min level", MatchFilter{Level: 3}, []string{"m2"}},
		{"combined predicates are ANDed", MatchFilter{SportID: "futbol", Location: "belgrano"}, []string{"m3"}},
		{"no match", MatchFilter{SportID: "tenis"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.filter.Apply(sampleMatches()))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Avanzado (rank 3) must exclude a match whose nivelMinimo is 1, even though
// its nivelMaximo would admit advanced players.
func TestLevelFilterExcludesLowerMinimum(t *testing.T) {
	matches := []models.Match{{ID: "m1", MinLevel: 1, MaxLevel: 2}}
	got := MatchFilter{Level: models.LevelAdvanced}.Apply(matches)
	if len(got) != 0 {
		t.Errorf("level 3 filter should exclude a match with nivelMinimo 1, got %v", ids(got))
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	filter := MatchFilter{SportID: "futbol", Location: "palermo"}
	once := filter.Apply(sampleMatches())
	twice := filter.Apply(once)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("re-applying the same filter changed the result: %v vs %v", ids(once), ids(twice))
	}
}

func TestApplyReturnsSubsetInOrder(t *testing.T) {
	all := sampleMatches()
	filtered := MatchFilter{SportID: "futbol"}.Apply(all)

	pos := -1
	for _, m := range filtered {
		found := false
		for i := range all {
			if all[i].ID == m.ID {
				if i <= pos {
					t.Fatalf("filter reordered matches: %v", ids(filtered))
				}
				pos = i
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("filtered match %s is not in the input set", m.ID)
		}
	}
}

func TestQueryRoundTrip(t *testing.T) {
	tests := []MatchFilter{
		{},
		{SportID: "futbol"},
		{Location: "palermo"},
		{Level: 1},
		{Level: 3},
		{SportID: "padel", Location: "belgrano"},
		{SportID: "futbol", Location: "av. corrientes", Level: 2},
	}

	for _, f := range tests {
		if got := ParseQuery(f.Values()); got != f {
			t.Errorf("round-trip of %+v produced %+v", f, got)
		}
	}
}

func TestParseQueryIgnoresInvalidLevel(t *testing.T) {
	for _, raw := range []string{"0", "4", "-1", "abc"} {
		values := url.Values{"level": {raw}}
		if f := ParseQuery(values); f.Level != 0 {
			t.Errorf("level=%q should be treated as the any-level sentinel, got %d", raw, f.Level)
		}
	}
}

func TestLevelVocabulary(t *testing.T) {
	for i, name := range LevelNames {
		if LevelRank(name) != i+1 {
			t.Errorf("LevelRank(%q) = %d, want %d", name, LevelRank(name), i+1)
		}
	}
	if LevelRank("Cualquier nivel") != 0 {
		t.Error("unknown name should map to rank 0")
	}
}

func TestParseQueryAcceptsLevelNames(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"Principiante", 1},
		{"Intermedio", 2},
		{"Avanzado", 3},
		{"2", 2},
	}

	for _, tt := range tests {
		values := url.Values{"level": {tt.raw}}
		if f := ParseQuery(values); f.Level != tt.want {
			t.Errorf("level=%q parsed to %d, want %d", tt.raw, f.Level, tt.want)
		}
	}
}
