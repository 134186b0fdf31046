package pulse

import (
	"math"
	"sort"

	"github.com/riskibarqy/fpl-pulse/internal/domain/narrative"
	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
)

// buildStints walks the finished rounds and groups consecutive ownership into
// stints. Free hit rounds and rounds without picks neither start, extend nor
// close a stint. Stints still open at the end close at the last finished round.
func buildStints(dm *season.DataMap, m *season.ManagerData, prices PriceHistory) []Stint {
	var closed []Stint
	var active []*Stint
	lastCounted := 0

	for _, round := range dm.FinishedRounds {
		if m.Chips.Used(season.ChipFreeHit, round) {
			continue
		}
		picks, ok := m.Picks[round]
		if !ok {
			continue
		}

		owned := make(map[season.ElementID]bool, len(picks))
		for _, p := range picks {
			owned[p.Element] = true
		}

		still := active[:0]
		for _, s := range active {
			if owned[s.PlayerID] {
				still = append(still, s)
				continue
			}
			s.GWOut = lastCounted
			closed = append(closed, *s)
		}
		active = still

		held := make(map[season.ElementID]*Stint, len(active))
		for _, s := range active {
			held[s.PlayerID] = s
		}

		for _, p := range picks {
			points := dm.Points(round, p.Element)
			if s, ok := held[p.Element]; ok {
				s.WeeksHeld++
				s.Points += points
				continue
			}

			bank := 0
			if row, ok := m.HistoryAt(round); ok {
				bank = row.Bank
			}
			s := &Stint{
				PlayerID:    p.Element,
				PlayerName:  dm.WebName(p.Element),
				GWIn:        round,
				WeeksHeld:   1,
				Points:      points,
				PriceAtGWIn: exactPrice(prices, p.Element, round),
				BankAtGWIn:  bank,
			}
			active = append(active, s)
			held[p.Element] = s
		}
		lastCounted = round
	}

	for _, s := range active {
		s.GWOut = dm.LastFinishedRound()
		closed = append(closed, *s)
	}

	for i := range closed {
		closed[i].PointsPerWeek = round2(float64(closed[i].Points) / float64(closed[i].WeeksHeld))
	}
	return closed
}

func exactPrice(prices PriceHistory, element season.ElementID, round season.Round) *int {
	price, ok := prices[element][round]
	if !ok {
		return nil
	}
	return &price
}

// forwardFilledPrice is the most recent known price at or before round.
func forwardFilledPrice(prices PriceHistory, element season.ElementID, round season.Round) (int, bool) {
	history := prices[element]
	for r := round; r >= 1; r-- {
		if price, ok := history[r]; ok {
			return price, true
		}
	}
	return 0, false
}

// bestAlternative finds the highest scoring affordable same-position player
// over s's window. Rounds where a candidate was in the squad in a stint of its
// own are not counted for that candidate.
func bestAlternative(dm *season.DataMap, s Stint, stints []Stint, prices PriceHistory) *Alternative {
	position, ok := dm.PositionOf(s.PlayerID)
	if !ok {
		return nil
	}
	limit := s.BankAtGWIn
	if s.PriceAtGWIn != nil {
		limit += *s.PriceAtGWIn
	}

	window := s.GWOut - s.GWIn + 1
	if window <= 0 {
		return nil
	}

	var best *Alternative
	for _, id := range dm.Meta.Order {
		if id == s.PlayerID {
			continue
		}
		if p := dm.Meta.Players[id]; p.Position != position {
			continue
		}
		price, ok := forwardFilledPrice(prices, id, s.GWIn)
		if !ok || price > limit {
			continue
		}

		points, available := 0, 0
		for round := s.GWIn; round <= s.GWOut; round++ {
			if heldInStint(stints, id, round) {
				continue
			}
			points += dm.Points(round, id)
			available++
		}

		if best != nil && points <= best.Points {
			continue
		}

		ppwDiff := 0.0
		if available > 0 {
			ppwDiff = round2(float64(points)/float64(available) - float64(s.Points)/float64(window))
		}
		best = &Alternative{
			PlayerID:    id,
			PlayerName:  dm.FullName(id),
			PriceAtGWIn: price,
			Points:      points,
			PointsDiff:  points - s.Points,
			PPWDiff:     ppwDiff,
		}
	}
	return best
}

func heldInStint(stints []Stint, element season.ElementID, round season.Round) bool {
	for _, s := range stints {
		if s.PlayerID == element && round >= s.GWIn && round <= s.GWOut {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// HitsAndMisses returns every stint with its best alternative, in the order
// the stints closed.
func HitsAndMisses(dm *season.DataMap, m *season.ManagerData, prices PriceHistory) []Stint {
	stints := buildStints(dm, m, prices)
	for i := range stints {
		stints[i].BestAlt = bestAlternative(dm, stints[i], stints, prices)
	}
	return stints
}

func bestStintBy(stints []Stint, better func(a, b *Alternative) bool) *Stint {
	var best *Stint
	for i := range stints {
		if stints[i].BestAlt == nil {
			continue
		}
		if best == nil || better(stints[i].BestAlt, best.BestAlt) {
			s := stints[i]
			best = &s
		}
	}
	return best
}

func hitsAndMissesPage(dm *season.DataMap, m *season.ManagerData, prices PriceHistory) Page {
	stints := HitsAndMisses(dm, m, prices)

	top := append([]Stint(nil), stints...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Points > top[j].Points })
	if len(top) > 5 {
		top = top[:5]
	}
	for i := range top {
		top[i].BestAlt = nil
	}

	stats := HitsAndMissesStats{
		Top5Stints:          top,
		BestPointsDiffStint: bestStintBy(stints, func(a, b *Alternative) bool { return a.PointsDiff > b.PointsDiff }),
		BestPPWDiffStint:    bestStintBy(stints, func(a, b *Alternative) bool { return a.PPWDiff > b.PPWDiff }),
	}

	var regret *narrative.Regret
	if s := stats.BestPointsDiffStint; s != nil {
		regret = &narrative.Regret{
			Player:     s.PlayerName,
			Alt:        s.BestAlt.PlayerName,
			RoundIn:    s.GWIn,
			RoundOut:   s.GWOut,
			PointsDiff: s.BestAlt.PointsDiff,
		}
	}
	var punt *narrative.PuntRegret
	if s := stats.BestPPWDiffStint; s != nil {
		punt = &narrative.PuntRegret{
			Player:  s.PlayerName,
			Alt:     s.BestAlt.PlayerName,
			RoundIn: s.GWIn,
			PPWDiff: s.BestAlt.PPWDiff,
		}
	}

	return Page{
		Number:    5,
		Title:     "Your Transfer Hits & Misses",
		Stats:     stats,
		Narrative: narrative.HitsAndMisses(regret, punt),
	}
}
