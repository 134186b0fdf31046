package awards

import (
	"fmt"
	"math"
	"strconv"

	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
)

// LeagueLeaders ranks managers by season points.
func LeagueLeaders(dm *season.DataMap, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		if len(m.History) == 0 {
			continue
		}
		total, low := 0, m.History[0].Points
		for _, row := range m.History {
			total += row.Points
			low = min(low, row.Points)
		}
		out = append(out, newAward(m, float64(total), strconv.Itoa(total), map[string]any{
			"lowScore": low,
		}))
	}
	return rankTop(out, n, byScoreDesc)
}

// OneHitWonders ranks managers by their single best round.
func OneHitWonders(dm *season.DataMap, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		if len(m.History) == 0 {
			continue
		}
		bestPoints, bestRound := 0, 0
		for _, row := range m.History {
			if row.Points > bestPoints {
				bestPoints, bestRound = row.Points, row.Round
			}
		}
		out = append(out, newAward(m, float64(bestPoints), strconv.Itoa(bestPoints), map[string]any{
			"gw":     nullableRound(bestRound),
			"points": bestPoints,
		}))
	}
	return rankTop(out, n, byScoreDesc)
}

// HotStreak ranks managers by their longest run of consecutive overall rank
// improvements. An unchanged or worse rank ends the run.
func HotStreak(dm *season.DataMap, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		if len(m.History) == 0 {
			continue
		}
		length, start, end := longestImprovement(m.History)
		out = append(out, newAward(m, float64(length), strconv.Itoa(length), map[string]any{
			"start":  nullableRound(start),
			"end":    nullableRound(end),
			"length": length,
		}))
	}
	return rankTop(out, n, byScoreDesc)
}

// longestImprovement returns the longest strict improvement run, the round
// before its first improvement and its last round. Unranked rows are skipped.
func longestImprovement(history []season.RoundSummary) (best int, bestStart, bestEnd season.Round) {
	current, start := 0, 0
	lastRank, prevRound := 0, 0

	for _, row := range history {
		if row.OverallRank <= 0 {
			continue
		}
		if lastRank > 0 && row.OverallRank < lastRank {
			current++
			if current == 1 {
				start = prevRound
			}
			if current > best {
				best, bestStart, bestEnd = current, start, row.Round
			}
		} else {
			current = 0
		}
		lastRank, prevRound = row.OverallRank, row.Round
	}
	return best, bestStart, bestEnd
}

// MostConsistent ranks managers by the population standard deviation of their
// distance from each round's league average, lowest first.
func MostConsistent(dm *season.DataMap, n int) []Award {
	sums := map[season.Round]int{}
	counts := map[season.Round]int{}
	for _, m := range dm.Managers {
		for _, row := range m.History {
			sums[row.Round] += row.Points
			counts[row.Round]++
		}
	}

	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		if len(m.History) == 0 {
			continue
		}

		diffs := make([]float64, 0, len(m.History))
		closestRound, closest := 0, math.Inf(1)
		for _, row := range m.History {
			avg := float64(sums[row.Round]) / float64(counts[row.Round])
			diff := float64(row.Points) - avg
			diffs = append(diffs, diff)
			if math.Abs(diff) < closest {
				closest, closestRound = math.Abs(diff), row.Round
			}
		}

		stdev := populationStdDev(diffs)
		out = append(out, newAward(m, stdev, fmt.Sprintf("%.1f", stdev), map[string]any{
			"closestGw":    nullableRound(closestRound),
			"closestStdev": closest,
		}))
	}
	return rankTop(out, n, byScoreAsc)
}

func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}

// MostMinutes ranks managers by minutes played by their starters.
func MostMinutes(dm *season.DataMap, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		byPlayer := map[season.ElementID]int{}
		total := 0
		eachFinishedRound(dm, func(round season.Round) {
			for _, pick := range m.Picks[round] {
				if !pick.Started() {
					continue
				}
				minutes := dm.Minutes(round, pick.Element)
				byPlayer[pick.Element] += minutes
				total += minutes
			}
		})

		var player any
		id, minutes, ok := maxByKey(byPlayer)
		if ok {
			player = playerLabel(dm, id, "Player %d")
		}
		out = append(out, newAward(m, float64(total), groupThousands(total), map[string]any{
			"player":  player,
			"minutes": minutes,
		}))
	}
	return rankTop(out, n, byScoreDesc)
}

// MostCards ranks managers by card points (yellow 1, red 3) collected by
// starters who played.
func MostCards(dm *season.DataMap, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		yellow, red := 0, 0
		eachFinishedRound(dm, func(round season.Round) {
			for _, pick := range m.Picks[round] {
				stat, ok := dm.Stat(round, pick.Element)
				if !ok || !pick.Started() || stat.Minutes <= 0 {
					continue
				}
				yellow += stat.YellowCards
				red += stat.RedCards
			}
		})

		points := yellow + red*3
		out = append(out, newAward(m, float64(points), strconv.Itoa(points), map[string]any{
			"yellow": yellow,
			"red":    red,
		}))
	}
	return rankTop(out, n, byScoreDesc)
}

// MostBps ranks managers by bonus points from starters, captaincy included.
func MostBps(dm *season.DataMap, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		byPlayer := map[season.ElementID]int{}
		total := 0
		eachFinishedRound(dm, func(round season.Round) {
			for _, pick := range m.Picks[round] {
				stat, ok := dm.Stat(round, pick.Element)
				if !ok || !pick.Started() || stat.Minutes <= 0 {
					continue
				}
				bonus := stat.Bonus * pick.Multiplier
				byPlayer[pick.Element] += bonus
				total += bonus
			}
		})

		var player any
		id, bps, ok := maxByKey(byPlayer)
		if ok {
			player = playerLabel(dm, id, "#%d")
		}
		out = append(out, newAward(m, float64(total), strconv.Itoa(total), map[string]any{
			"player": player,
			"bps":    bps,
		}))
	}
	return rankTop(out, n, byScoreDesc)
}

// PuntOwnershipLimit is the selected-by percentage below which a pick counts
// as a punt.
const PuntOwnershipLimit = 5.0

// BestPunt ranks managers by their best single-round return from a low
// ownership starter. Managers without a scoring punt are left out.
func BestPunt(dm *season.DataMap, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		best, bestRound := 0, 0
		var bestElement season.ElementID

		eachFinishedRound(dm, func(round season.Round) {
			for _, pick := range m.Picks[round] {
				meta, known := dm.Meta.Players[pick.Element]
				if !known || !meta.OwnershipKnown || meta.SelectedByPercent >= PuntOwnershipLimit {
					continue
				}
				stat, ok := dm.Stat(round, pick.Element)
				if !ok || stat.Minutes <= 0 || !pick.Started() {
					continue
				}
				if score := stat.TotalPoints * pick.Multiplier; score > best {
					best, bestRound, bestElement = score, round, pick.Element
				}
			}
		})

		if best <= 0 {
			continue
		}
		out = append(out, newAward(m, float64(best), fmt.Sprintf("%d pts", best), map[string]any{
			"player": dm.FullName(bestElement),
			"gw":     bestRound,
			"points": best,
		}))
	}
	return rankTop(out, n, byScoreDesc)
}
