package awards

import (
	"strconv"

	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
)

// NeverGetFancy measures what captaining anyone but the reference player cost
// each manager. A round without a doubled or tripled pick is skipped. Score is
// the negated point difference, so the biggest losers rank first.
func NeverGetFancy(dm *season.DataMap, reference season.ElementID, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		fancyWeeks, totalDiff, weeksLost := 0, 0, 0
		worstLoss, worstRound := 0, 0
		var worstPlayer any

		eachFinishedRound(dm, func(round season.Round) {
			picks, ok := m.Picks[round]
			if !ok {
				return
			}
			captain, ok := doubledPick(picks)
			if !ok || captain == reference {
				return
			}

			fancyWeeks++
			diff := dm.Points(round, captain) - dm.Points(round, reference)
			totalDiff += diff
			if diff < 0 {
				weeksLost++
				if -diff > worstLoss {
					worstLoss, worstRound = -diff, round
					worstPlayer = playerLabel(dm, captain, "ID %d")
				}
			}
		})

		out = append(out, newAward(m, float64(-totalDiff), strconv.Itoa(totalDiff), map[string]any{
			"fancyWeeksCount": fancyWeeks,
			"totalPointsDiff": totalDiff,
			"weeksLostCount":  weeksLost,
			"worstGw":         nullableRound(worstRound),
			"worstPlayer":     worstPlayer,
			"worstPointsLost": worstLoss,
		}))
	}
	return rankTop(out, n, byScoreDesc)
}

// doubledPick returns the first pick scoring double or triple.
func doubledPick(picks []season.Pick) (season.ElementID, bool) {
	for _, p := range picks {
		if p.Multiplier == 2 || p.Multiplier == 3 {
			return p.Element, true
		}
	}
	return 0, false
}
