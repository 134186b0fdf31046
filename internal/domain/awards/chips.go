package awards

import (
	"strconv"

	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
)

type chipRound struct {
	round  season.Round
	points int
}

type chipOutcome struct {
	manager     *season.ManagerData
	best, worst chipRound
}

func chipOutcomes(dm *season.DataMap, chip season.Chip) []chipOutcome {
	out := make([]chipOutcome, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		rounds := m.Chips[chip]
		if len(rounds) == 0 {
			continue
		}

		var best, worst chipRound
		for i, round := range rounds {
			row, _ := m.HistoryAt(round)
			played := chipRound{round: round, points: row.Points}
			if i == 0 || played.points > best.points {
				best = played
			}
			if i == 0 || played.points < worst.points {
				worst = played
			}
		}
		out = append(out, chipOutcome{manager: m, best: best, worst: worst})
	}
	return out
}

func chipAward(m *season.ManagerData, played chipRound) Award {
	return newAward(m, float64(played.points), strconv.Itoa(played.points), map[string]any{
		"gw":     played.round,
		"points": played.points,
	})
}

// ChipPlays ranks each manager's best round on chip, highest first, and worst
// round on chip, lowest first. Managers who never played it are left out.
func ChipPlays(dm *season.DataMap, chip season.Chip, n int) (best, worst []Award) {
	outcomes := chipOutcomes(dm, chip)

	bestAwards := make([]Award, 0, len(outcomes))
	worstAwards := make([]Award, 0, len(outcomes))
	for _, o := range outcomes {
		bestAwards = append(bestAwards, chipAward(o.manager, o.best))
		worstAwards = append(worstAwards, chipAward(o.manager, o.worst))
	}
	return rankTop(bestAwards, n, byScoreDesc), rankTop(worstAwards, n, byScoreAsc)
}

func Wildcards(dm *season.DataMap, n int) (best, worst []Award) {
	return ChipPlays(dm, season.ChipWildcard, n)
}

func FreeHits(dm *season.DataMap, n int) (best, worst []Award) {
	return ChipPlays(dm, season.ChipFreeHit, n)
}

// BenchDisaster ranks managers by points left on the bench. Bench boost rounds
// count towards neither the total nor the worst round.
func BenchDisaster(dm *season.DataMap, n int) []Award {
	out := make([]Award, 0, len(dm.Managers))
	for _, m := range dm.Managers {
		total, worstRound, worstPoints := 0, 0, 0
		eachFinishedRound(dm, func(round season.Round) {
			if m.Chips.Used(season.ChipBenchBoost, round) {
				return
			}
			points := m.BenchPoints[round]
			total += points
			if points > worstPoints {
				worstRound, worstPoints = round, points
			}
		})

		out = append(out, newAward(m, float64(total), strconv.Itoa(total), map[string]any{
			"gw":     nullableRound(worstRound),
			"points": worstPoints,
		}))
	}
	return rankTop(out, n, byScoreDesc)
}
