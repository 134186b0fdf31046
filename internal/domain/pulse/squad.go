package pulse

import (
	"math"
	"sort"

	"github.com/riskibarqy/fpl-pulse/internal/domain/narrative"
	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
)

// mostCounted returns the id with the highest count, ties to the lower id.
func mostCounted(counts map[season.ElementID]int) (season.ElementID, int, bool) {
	bestID, best := 0, 0
	for id, n := range counts {
		if n > best || (n == best && n > 0 && id < bestID) {
			bestID, best = id, n
		}
	}
	return bestID, best, best > 0
}

func ownedIn(picks []season.Pick, element season.ElementID) bool {
	for _, p := range picks {
		if p.Element == element {
			return true
		}
	}
	return false
}

func loyaltyPage(dm *season.DataMap, m *season.ManagerData) Page {
	owned := map[season.ElementID]int{}
	benched := map[season.ElementID]int{}
	for _, round := range dm.FinishedRounds {
		for _, p := range m.Picks[round] {
			owned[p.Element]++
			if !p.Started() {
				benched[p.Element]++
			}
		}
	}

	var stats LoyaltyStats
	var ownedLine, benchedLine *narrative.Owned
	if id, weeks, ok := mostCounted(owned); ok {
		stats.MostWeeksOwned = &WeeksCount{PlayerID: id, PlayerName: dm.FullName(id), Weeks: weeks}
		ownedLine = &narrative.Owned{Player: stats.MostWeeksOwned.PlayerName, Weeks: weeks}
	}
	if id, weeks, ok := mostCounted(benched); ok {
		stats.MostWeeksBenched = &WeeksCount{PlayerID: id, PlayerName: dm.FullName(id), Weeks: weeks}
		benchedLine = &narrative.Owned{Player: stats.MostWeeksBenched.PlayerName, Weeks: weeks}
	}

	ins := map[season.ElementID]int{}
	roundsIn := map[season.ElementID][]season.Round{}
	for _, t := range m.Transfers {
		ins[t.ElementIn]++
		roundsIn[t.ElementIn] = append(roundsIn[t.ElementIn], t.Round)
	}

	var inLine *narrative.TransferredIn
	if id, times, ok := mostCounted(ins); ok {
		total, weeks := 0, 0
		for _, from := range roundsIn[id] {
			for round := from; round <= dm.LastFinishedRound(); round++ {
				if !ownedIn(m.Picks[round], id) {
					break
				}
				total += dm.Points(round, id)
				weeks++
			}
		}
		avg := 0.0
		if weeks > 0 {
			avg = math.Round(float64(total)/float64(weeks)*10) / 10
		}
		stats.MostTransferredIn = &TransferredIn{
			PlayerID:           id,
			PlayerName:         dm.FullName(id),
			TimesTransferredIn: times,
			TotalPointsAfterIn: total,
			WeeksPlayedAfterIn: weeks,
			AvgPointsPerWeek:   avg,
		}
		inLine = &narrative.TransferredIn{Player: dm.FullName(id), Times: times, Points: total, AvgPerWeek: avg}
	}

	return Page{
		Number:    7,
		Title:     "Player Loyalty",
		Stats:     stats,
		Narrative: narrative.Loyalty(ownedLine, benchedLine, inLine, len(m.Transfers)),
	}
}

type roundScore struct {
	round  season.Round
	points int
}

// compareChip summarises a chip played in round for actual points against the
// candidate rounds. The best candidate is the highest, ties to the earlier
// round.
func compareChip(round season.Round, actual int, candidates []roundScore) ChipSummary {
	summary := ChipSummary{Used: round > 0, Round: round, Points: actual}
	for _, c := range candidates {
		if c.points > actual {
			summary.BetterWeeks++
		}
		if summary.BestPossibleWeek == 0 || c.points > summary.BestPossiblePoints {
			summary.BestPossibleWeek, summary.BestPossiblePoints = c.round, c.points
		}
	}
	return summary
}

func firstUse(m *season.ManagerData, chip season.Chip) season.Round {
	if rounds := m.Chips[chip]; len(rounds) > 0 {
		return rounds[0]
	}
	return 0
}

// TripleCaptain compares the first triple captain against every other round's
// captain scoring three times.
func TripleCaptain(dm *season.DataMap, m *season.ManagerData) ChipSummary {
	tcRound := firstUse(m, season.ChipTripleCaptain)
	actual := 0
	var candidates []roundScore
	for _, round := range dm.FinishedRounds {
		captain, ok := m.Captain[round]
		if !ok {
			continue
		}
		potential := dm.Points(round, captain) * 3
		if round == tcRound {
			actual = potential
			continue
		}
		candidates = append(candidates, roundScore{round: round, points: potential})
	}
	return compareChip(tcRound, actual, candidates)
}

// BenchBoost compares the first bench boost, scored over squad positions 12
// and up, against the benched points of every other finished round.
func BenchBoost(dm *season.DataMap, m *season.ManagerData) ChipSummary {
	bbRound := firstUse(m, season.ChipBenchBoost)
	actual := 0
	var candidates []roundScore
	for _, round := range dm.FinishedRounds {
		points := 0
		for _, p := range m.Picks[round] {
			switch {
			case round == bbRound && p.Position >= 12:
				points += dm.Points(round, p.Element)
			case round != bbRound && !p.Started():
				points += dm.Points(round, p.Element)
			}
		}
		if round == bbRound {
			actual = points
			continue
		}
		candidates = append(candidates, roundScore{round: round, points: points})
	}
	return compareChip(bbRound, actual, candidates)
}

func toChipPlay(s ChipSummary) narrative.ChipPlay {
	return narrative.ChipPlay{
		Used:        s.Used,
		Round:       s.Round,
		Points:      s.Points,
		BetterWeeks: s.BetterWeeks,
		BestRound:   s.BestPossibleWeek,
		BestPoints:  s.BestPossiblePoints,
	}
}

func chipsPage(dm *season.DataMap, m *season.ManagerData) Page {
	stats := ChipStats{
		TripleCaptain: TripleCaptain(dm, m),
		BenchBoost:    BenchBoost(dm, m),
	}
	return Page{
		Number:    8,
		Title:     "Benching & Chip Fails",
		Stats:     stats,
		Narrative: narrative.Chips(toChipPlay(stats.TripleCaptain), toChipPlay(stats.BenchBoost)),
	}
}

// Formations are tried in order after the goalkeeper; the first that the
// squad can fill wins.
var Formations = [][3]int{
	{3, 5, 2},
	{3, 4, 3},
	{4, 4, 2},
	{4, 5, 1},
	{5, 4, 1},
	{4, 3, 3},
	{5, 3, 2},
}

// SquadPlayers scores every player the manager started at least once. Points
// count only in started rounds, doubled when captained. The result is sorted
// by total points then average per owned round.
func SquadPlayers(dm *season.DataMap, m *season.ManagerData) []SquadPlayer {
	byID := map[season.ElementID]*SquadPlayer{}
	started := map[season.ElementID]bool{}

	for _, round := range dm.FinishedRounds {
		for _, p := range m.Picks[round] {
			sp, ok := byID[p.Element]
			if !ok {
				position, _ := dm.PositionOf(p.Element)
				sp = &SquadPlayer{
					PlayerID:    p.Element,
					PlayerName:  dm.FullName(p.Element),
					DisplayName: dm.WebName(p.Element),
					Position:    position,
				}
				byID[p.Element] = sp
			}
			sp.WeeksOwned++

			points := dm.Points(round, p.Element)
			switch {
			case p.Multiplier >= 2:
				sp.TotalPoints += points * 2
				sp.Caps++
				started[p.Element] = true
			case p.Started():
				sp.TotalPoints += points
				started[p.Element] = true
			default:
				sp.WeeksBenched++
			}
		}
	}

	ids := make([]season.ElementID, 0, len(byID))
	for id := range byID {
		if started[id] {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	out := make([]SquadPlayer, 0, len(ids))
	for _, id := range ids {
		sp := *byID[id]
		sp.AvgPointsPerWeek = math.Round(float64(sp.TotalPoints)/float64(sp.WeeksOwned)*10) / 10
		out = append(out, sp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].AvgPointsPerWeek > out[j].AvgPointsPerWeek
	})
	return out
}

func takePosition(players []SquadPlayer, position season.Position, n int) []SquadPlayer {
	out := make([]SquadPlayer, 0, n)
	for _, p := range players {
		if len(out) == n {
			break
		}
		if p.Position == position {
			out = append(out, p)
		}
	}
	return out
}

// BestXI picks a goalkeeper and the first fillable formation. It returns a nil
// formation when no formation can be filled.
func BestXI(players []SquadPlayer) ([]int, []SquadPlayer) {
	for _, f := range Formations {
		xi := takePosition(players, season.PositionGoalkeeper, 1)
		xi = append(xi, takePosition(players, season.PositionDefender, f[0])...)
		xi = append(xi, takePosition(players, season.PositionMidfielder, f[1])...)
		xi = append(xi, takePosition(players, season.PositionForward, f[2])...)
		if len(xi) == 11 {
			return []int{1, f[0], f[1], f[2]}, xi
		}
	}
	return nil, []SquadPlayer{}
}

func toStandout(p *SquadPlayer) *narrative.Standout {
	if p == nil {
		return nil
	}
	return &narrative.Standout{
		Player:      p.PlayerName,
		TotalPoints: p.TotalPoints,
		WeeksOwned:  p.WeeksOwned,
		AvgPerWeek:  p.AvgPointsPerWeek,
	}
}

func teamOfTheYearPage(dm *season.DataMap, m *season.ManagerData) Page {
	players := SquadPlayers(dm, m)
	formation, xi := BestXI(players)

	var talisman, unsung, flop *SquadPlayer
	for i := range players {
		p := &players[i]
		if i == 0 {
			talisman = p
			continue
		}
		if unsung == nil && p.WeeksOwned >= 10 && p.AvgPointsPerWeek >= 5 {
			unsung = p
		}
	}
	for i := range players {
		p := &players[i]
		if p.WeeksOwned >= 8 && p.TotalPoints < 60 && p.AvgPointsPerWeek < 5 {
			flop = p
			break
		}
	}

	return Page{
		Number:    9,
		Title:     "Team of the Year",
		Stats:     TeamOfTheYearStats{Formation: formation, TeamXI: xi},
		Narrative: narrative.TeamOfTheYear(toStandout(talisman), toStandout(unsung), toStandout(flop)),
	}
}
