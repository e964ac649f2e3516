// Package filters реализует фильтрацию списка партидов по спорту, локации и
// уровню, с сериализацией состояния фильтров в query string, чтобы
// отфильтрованные выборки можно было шарить по ссылке.
package filters

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rufinoratti/zonadepor-api/models"
)

// LevelNames — фиксированный словарь уровней, ранги 1..3.
var LevelNames = []string{"Principiante", "Intermedio", "Avanzado"}

// LevelRank maps a display name back to its 1..3 rank, 0 when unknown.
func LevelRank(name string) int {
	for i, n := range LevelNames {
		if n == name {
			return i + 1
		}
	}
	return 0
}

// MatchFilter — набор независимых предикатов над списком партидов.
// Нулевые значения — сентинелы "все виды спорта" / "любая локация" /
// "любой уровень": соответствующая проверка пропускается.
type MatchFilter struct {
	SportID  string
	Location string
	Level    int
}

// IsZero reports whether every predicate is bypassed.
func (f MatchFilter) IsZero() bool {
	return f.SportID == "" && f.Location == "" && f.Level == 0
}

// Matches applies the AND of the active predicates to a single match.
// The two location sub-checks (direccion, zone name) are ORed.
func (f MatchFilter) Matches(m *models.Match) bool {
	if f.SportID != "" && m.SportID != f.SportID {
		return false
	}

	if f.Location != "" {
		term := strings.ToLower(f.Location)
		address := strings.ToLower(m.Address)
		zone := ""
		if m.Zone != nil {
			zone = strings.ToLower(m.Zone.Name)
		}
		if !strings.Contains(address, term) && !strings.Contains(zone, term) {
			return false
		}
	}

	if f.Level != 0 && m.MinLevel != f.Level {
		return false
	}

	return true
}

// Apply returns the filtered subsequence preserving the original ordering.
// The result is always a fresh slice; the input is never reordered.
func (f MatchFilter) Apply(matches []models.Match) []models.Match {
	filtered := make([]models.Match, 0, len(matches))
	for i := range matches {
		if f.Matches(&matches[i]) {
			filtered = append(filtered, matches[i])
		}
	}
	return filtered
}

// ParseQuery restores a filter from query parameters. The level accepts both
// the numeric rank and the display name (level=2, level=Intermedio); an
// out-of-vocabulary value is treated as the "any level" sentinel, not an error.
func ParseQuery(values url.Values) MatchFilter {
	f := MatchFilter{
		SportID:  values.Get("sport"),
		Location: values.Get("location"),
	}
	if levelStr := values.Get("level"); levelStr != "" {
		if level, err := strconv.Atoi(levelStr); err == nil && models.IsValidLevel(level) {
			f.Level = level
		} else {
			f.Level = LevelRank(levelStr)
		}
	}
	return f
}

// Values serializes the filter back to query parameters. Bypassed predicates
// produce no parameter, so ParseQuery(f.Values()) == f for every legal filter.
func (f MatchFilter) Values() url.Values {
	values := url.Values{}
	if f.SportID != "" {
		values.Set("sport", f.SportID)
	}
	if f.Location != "" {
		values.Set("location", f.Location)
	}
	if f.Level != 0 {
		values.Set("level", strconv.Itoa(f.Level))
	}
	return values
}
