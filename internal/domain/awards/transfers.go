package awards

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
)

// MostTransfers ranks managers by transfers made.
func MostTransfers(dm *season.DataMap, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		if len(m.History) == 0 {
			continue
		}
		total := 0
		for _, row := range m.History {
			total += row.Transfers
		}
		out = append(out, newAward(m, float64(total), strconv.Itoa(total), map[string]any{
			"totalTransfers": total,
		}))
	}
	return rankTop(out, n, byScoreDesc)
}

// MostHits ranks managers by points spent on extra transfers.
func MostHits(dm *season.DataMap, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		if len(m.History) == 0 {
			continue
		}
		total, worstRound, worstCost := 0, 0, 0
		for _, row := range m.History {
			total += row.TransferCost
			if row.TransferCost > worstCost {
				worstRound, worstCost = row.Round, row.TransferCost
			}
		}
		out = append(out, newAward(m, float64(total), strconv.Itoa(total), map[string]any{
			"gw":     nullableRound(worstRound),
			"hits":   worstCost / 4,
			"points": worstCost,
		}))
	}
	return rankTop(out, n, byScoreDesc)
}

// transferLeads returns how long before its round deadline each transfer was
// made. Transfers in rounds without a known deadline are dropped.
func transferLeads(dm *season.DataMap, m *season.ManagerData) []time.Duration {
	out := make([]time.Duration, 0, len(m.Transfers))
	for _, t := range m.Transfers {
		deadline, ok := dm.Meta.Deadlines[t.Round]
		if !ok || t.Time.IsZero() {
			continue
		}
		out = append(out, deadline.Sub(t.Time))
	}
	return out
}

func averageLeadHours(leads []time.Duration) float64 {
	sum := 0.0
	for _, lead := range leads {
		sum += lead.Hours()
	}
	return sum / float64(len(leads))
}

// EarlyBird ranks managers by average hours between transfer and deadline,
// earliest first.
func EarlyBird(dm *season.DataMap, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		leads := transferLeads(dm, m)
		if len(leads) == 0 {
			continue
		}
		earliest := leads[0]
		for _, lead := range leads[1:] {
			if lead >= earliest {
				earliest = lead
			}
		}

		avg := averageLeadHours(leads)
		out = append(out, newAward(m, avg, fmt.Sprintf("%.1fh", avg), map[string]any{
			"earliestFormatted": formatDaysHoursMinutes(earliest),
		}))
	}
	return rankTop(out, n, byScoreDesc)
}

// LateOwl ranks managers by average hours between transfer and deadline,
// latest first.
func LateOwl(dm *season.DataMap, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		leads := transferLeads(dm, m)
		if len(leads) == 0 {
			continue
		}
		latest := leads[0]
		for _, lead := range leads[1:] {
			if lead <= latest {
				latest = lead
			}
		}

		avg := averageLeadHours(leads)
		out = append(out, newAward(m, avg, fmt.Sprintf("%.1fh", avg), map[string]any{
			"latestFormatted": formatHoursMinutesSeconds(latest),
		}))
	}
	return rankTop(out, n, byScoreAsc)
}

func formatDaysHoursMinutes(lead time.Duration) string {
	total := int(math.Floor(lead.Minutes()))
	days := floorDiv(total, 1440)
	hours := floorDiv(total%1440, 60)
	return fmt.Sprintf("%dd %dh %dm before deadline", days, hours, total%60)
}

func formatHoursMinutesSeconds(lead time.Duration) string {
	total := int(math.Floor(lead.Seconds()))
	hours := floorDiv(total, 3600)
	minutes := floorDiv(total%3600, 60)
	return fmt.Sprintf("%dh %dm %ds before deadline", hours, minutes, total%60)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
