package pulse

import (
	"fmt"
	"math"
	"sort"

	"github.com/riskibarqy/fpl-pulse/internal/domain/narrative"
	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
)

// Generate builds the ten pulse pages for entryID. It fails only when the
// entry is missing from dm; thin data produces empty stats.
func Generate(dm *season.DataMap, entryID int, in Inputs) (Pulse, error) {
	m, ok := dm.Manager(entryID)
	if !ok {
		return Pulse{}, fmt.Errorf("%w: entry=%d", ErrEntryNotFound, entryID)
	}

	return Pulse{
		EntryID: entryID,
		Pages: []Page{
			introPage(dm, m, in),
			rankJourneyPage(m),
			builtAroundPage(dm, m),
			transferTimingPage(dm, m),
			hitsAndMissesPage(dm, m, in.Prices),
			streaksPage(m),
			loyaltyPage(dm, m),
			chipsPage(dm, m),
			teamOfTheYearPage(dm, m),
			{Number: 10, Title: "See You Next Season?", Narrative: narrative.CTA()},
		},
	}, nil
}

// seasonLabel renders the season from the first round deadline, e.g. 2025/26.
func seasonLabel(dm *season.DataMap) string {
	first, ok := dm.Meta.Deadlines[1]
	if !ok {
		return ""
	}
	year := first.Year()
	return fmt.Sprintf("%d/%02d", year, (year+1)%100)
}

func introPage(dm *season.DataMap, m *season.ManagerData, in Inputs) Page {
	stats := IntroStats{TeamName: m.TeamName}
	if n := len(m.History); n > 0 {
		stats.TotalPoints = m.History[n-1].TotalPoints
		stats.FinalRank = m.History[n-1].OverallRank
	}
	if s := in.Summary; s != nil {
		stats.TotalPoints = s.SummaryOverallPoints
		stats.FinalRank = s.SummaryOverallRank
		if s.Name != "" {
			stats.TeamName = s.Name
		}
	}
	if stats.TeamName == "" {
		stats.TeamName = "Your Team"
	}

	title := "Your FPL Season"
	if label := seasonLabel(dm); label != "" {
		title += " " + label
	}

	return Page{
		Number:    1,
		Title:     title,
		Stats:     stats,
		Narrative: narrative.Intro(stats.FinalRank),
	}
}

func rankedHistory(m *season.ManagerData) []season.RoundSummary {
	out := make([]season.RoundSummary, 0, len(m.History))
	for _, row := range m.History {
		if row.OverallRank > 0 {
			out = append(out, row)
		}
	}
	return out
}

func rankJourneyPage(m *season.ManagerData) Page {
	page := Page{Number: 2, Title: "Rank Journey", Narrative: ""}

	rows := rankedHistory(m)
	if len(rows) == 0 {
		page.Stats = RankJourneyStats{Ranks: []int{}}
		return page
	}

	ranks := make([]int, 0, len(rows))
	for _, row := range rows {
		ranks = append(ranks, row.OverallRank)
	}

	stats := RankJourneyStats{
		PeakRank:  ranks[0],
		WorstRank: ranks[0],
		FinalRank: ranks[len(ranks)-1],
		Ranks:     ranks,
	}
	mean := 0.0
	for _, r := range ranks {
		stats.PeakRank = min(stats.PeakRank, r)
		stats.WorstRank = max(stats.WorstRank, r)
		mean += float64(r)
	}
	mean /= float64(len(ranks))

	variance := 0.0
	for _, r := range ranks {
		variance += (float64(r) - mean) * (float64(r) - mean)
	}
	variance /= float64(len(ranks))
	stats.StdDev = int(math.Round(math.Sqrt(variance)))

	last8 := ranks[max(0, len(ranks)-8):]
	stats.Last8Delta = last8[0] - last8[len(last8)-1]

	page.Stats = stats
	page.Narrative = narrative.RankJourney(narrative.RankShape{
		Final:      stats.FinalRank,
		Peak:       stats.PeakRank,
		Worst:      stats.WorstRank,
		Variance:   variance,
		Last8Delta: stats.Last8Delta,
	})
	return page
}

func topPlayerPoints(dm *season.DataMap, points, missed map[season.ElementID]int) []PlayerPoints {
	ids := make([]season.ElementID, 0, len(points))
	for id := range points {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]PlayerPoints, 0, len(ids))
	for _, id := range ids {
		out = append(out, PlayerPoints{
			PlayerID:  id,
			Player:    dm.WebName(id),
			Points:    points[id],
			GWsMissed: missed[id],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func builtAroundPage(dm *season.DataMap, m *season.ManagerData) Page {
	earned := map[season.ElementID]int{}
	missedPoints := map[season.ElementID]int{}
	missedRounds := map[season.ElementID]int{}

	for _, round := range dm.FinishedRounds {
		owned := map[season.ElementID]bool{}
		for _, pick := range m.Picks[round] {
			owned[pick.Element] = true
			if stat, ok := dm.Stat(round, pick.Element); ok {
				earned[pick.Element] += stat.TotalPoints * pick.Multiplier
			}
		}
		for id, stat := range dm.Live[round] {
			if owned[id] {
				continue
			}
			missedPoints[id] += stat.TotalPoints
			missedRounds[id]++
		}
	}

	return Page{
		Number: 3,
		Title:  "Who You Built Around",
		Stats: BuiltAroundStats{
			Top5Earned: topPlayerPoints(dm, earned, nil),
			Top5Missed: topPlayerPoints(dm, missedPoints, missedRounds),
		},
		Narrative: narrative.BuiltAround(),
	}
}

func transferTimingPage(dm *season.DataMap, m *season.ManagerData) Page {
	var stats TransferTimingStats
	profile := ""

	sum, count := 0.0, 0
	for _, t := range m.Transfers {
		deadline, ok := dm.Meta.Deadlines[t.Round]
		if !ok || t.Time.IsZero() {
			continue
		}
		sum += deadline.Sub(t.Time).Hours()
		count++
	}
	if count > 0 {
		avg := math.Round(sum/float64(count)*10) / 10
		profile = narrative.TransferProfile(avg)
		stats.AvgHoursBeforeDeadline = &avg
		stats.Profile = &profile
	}

	return Page{
		Number:    4,
		Title:     "Working the Transfer Market",
		Stats:     stats,
		Narrative: narrative.TransferTiming(profile),
	}
}

// rankStreaks finds the longest runs of strictly improving (green) and
// strictly worsening (red) overall rank. An unchanged rank ends both.
func rankStreaks(m *season.ManagerData) (green, red *RankStreak) {
	var longestGreen, longestRed, currentGreen, currentRed RankStreak
	lastRank, lastRound := 0, 0

	for _, row := range rankedHistory(m) {
		if lastRank > 0 {
			switch {
			case row.OverallRank < lastRank:
				currentGreen.Length++
				if currentGreen.Length == 1 {
					currentGreen.StartGW, currentGreen.StartRank = lastRound, lastRank
				}
				currentGreen.EndGW, currentGreen.EndRank = row.Round, row.OverallRank
				currentRed.Length = 0
				if currentGreen.Length > longestGreen.Length {
					longestGreen = currentGreen
				}
			case row.OverallRank > lastRank:
				currentRed.Length++
				if currentRed.Length == 1 {
					currentRed.StartGW, currentRed.StartRank = lastRound, lastRank
				}
				currentRed.EndGW, currentRed.EndRank = row.Round, row.OverallRank
				currentGreen.Length = 0
				if currentRed.Length > longestRed.Length {
					longestRed = currentRed
				}
			default:
				currentGreen.Length, currentRed.Length = 0, 0
			}
		}
		lastRank, lastRound = row.OverallRank, row.Round
	}

	if longestGreen.Length > 0 {
		green = &longestGreen
	}
	if longestRed.Length > 0 {
		red = &longestRed
	}
	return green, red
}

func toNarrativeStreak(s *RankStreak) *narrative.Streak {
	if s == nil {
		return nil
	}
	return &narrative.Streak{StartRound: s.StartGW, EndRound: s.EndGW, Length: s.Length}
}

func streaksPage(m *season.ManagerData) Page {
	green, red := rankStreaks(m)
	return Page{
		Number:    6,
		Title:     "Hot & Cold Streaks",
		Stats:     StreakStats{LongestGreenStreak: green, LongestRedStreak: red},
		Narrative: narrative.Streaks(toNarrativeStreak(green), toNarrativeStreak(red)),
	}
}
