package awards

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
)

// rankTop sorts a copy of items with less and keeps the first n. Ties keep
// input order, which is standings order.
func rankTop(items []Award, n int, less func(a, b Award) bool) []Award {
	out := append([]Award(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func byScoreDesc(a, b Award) bool { return a.Score > b.Score }

func byScoreAsc(a, b Award) bool { return a.Score < b.Score }

func eachFinishedRound(dm *season.DataMap, fn func(round season.Round)) {
	for _, round := range dm.FinishedRounds {
		fn(round)
	}
}

func newAward(m *season.ManagerData, score float64, display string, ctx map[string]any) Award {
	return Award{
		EntryID:  m.EntryID,
		Name:     m.Name,
		TeamName: m.TeamName,
		Score:    score,
		Display:  display,
		Context:  ctx,
	}
}

// nullableRound renders an unset round as JSON null.
func nullableRound(round season.Round) any {
	if round <= 0 {
		return nil
	}
	return round
}

// playerLabel is the element's full name or fallback formatted with its id.
func playerLabel(dm *season.DataMap, element season.ElementID, fallback string) string {
	if p, ok := dm.Meta.Players[element]; ok && p.FullName != "" {
		return p.FullName
	}
	return fmt.Sprintf(fallback, element)
}

// groupThousands renders n with comma separators.
func groupThousands(n int) string {
	raw := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, raw = "-", raw[1:]
	}
	if len(raw) <= 3 {
		return sign + raw
	}

	out := make([]byte, 0, len(raw)+len(raw)/3)
	lead := len(raw) % 3
	if lead > 0 {
		out = append(out, raw[:lead]...)
	}
	for i := lead; i < len(raw); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, raw[i:i+3]...)
	}
	return sign + string(out)
}

// maxByKey returns the key with the largest positive value, first key in
// ascending order on ties. ok is false when no value is positive.
func maxByKey(m map[season.ElementID]int) (key season.ElementID, value int, ok bool) {
	keys := make([]season.ElementID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	for _, k := range keys {
		if m[k] > value {
			key, value, ok = k, m[k], true
		}
	}
	return key, value, ok
}
