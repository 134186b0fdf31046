package pulse

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fpl-pulse/internal/domain/narrative"
	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
	"github.com/riskibarqy/fpl-pulse/internal/domain/upstream"
)

const testEntry = 7

var baseDeadline = time.Date(2025, 8, 15, 17, 30, 0, 0, time.UTC)

func deadline(round int) time.Time {
	return baseDeadline.Add(time.Duration(round-1) * 7 * 24 * time.Hour)
}

func live(points map[int]int) *upstream.LiveRound {
	out := &upstream.LiveRound{}
	for _, id := range []int{1, 10, 11, 12} {
		out.Elements = append(out.Elements, upstream.LiveElement{ID: id, Stats: upstream.LiveStats{TotalPoints: points[id], Minutes: 90}})
	}
	return out
}

func squad(chip string, starter, starterMultiplier, keeperMultiplier int) *upstream.EntryPicks {
	return &upstream.EntryPicks{
		ActiveChip: chip,
		Picks: []upstream.Pick{
			{Element: starter, Position: 1, Multiplier: starterMultiplier, IsCaptain: true},
			{Element: 1, Position: 12, Multiplier: keeperMultiplier},
		},
	}
}

// testSeason is four finished rounds. Alpha (10) is held in rounds 1 and 3
// around a free hit on Charlie (12) in round 2, then swapped for Bravo (11).
func testSeason(t *testing.T) *season.DataMap {
	t.Helper()

	bootstrap := &upstream.Bootstrap{
		Elements: []upstream.Element{
			{ID: 1, FirstName: "Kee", SecondName: "Per", WebName: "Keeper", ElementType: 1, SelectedByPercent: "10.0"},
			{ID: 10, FirstName: "Alpha", SecondName: "A", WebName: "Alpha", ElementType: 3, SelectedByPercent: "30.0"},
			{ID: 11, FirstName: "Bravo", SecondName: "B", WebName: "Bravo", ElementType: 3, SelectedByPercent: "3.0"},
			{ID: 12, FirstName: "Charlie", SecondName: "C", WebName: "Charlie", ElementType: 3, SelectedByPercent: "50.0"},
		},
	}
	for round := 1; round <= 4; round++ {
		bootstrap.Events = append(bootstrap.Events, upstream.Event{ID: round, DeadlineTime: deadline(round), Finished: true})
	}

	history := []upstream.HistoryRow{
		{Event: 1, Points: 10, TotalPoints: 10, OverallRank: 1000, Bank: 5},
		{Event: 2, Points: 20, TotalPoints: 30, OverallRank: 800},
		{Event: 3, Points: 12, TotalPoints: 42, OverallRank: 900},
		{Event: 4, Points: 20, TotalPoints: 62, OverallRank: 700},
	}

	src := season.Incremental{
		Standings: []upstream.StandingRow{{Entry: testEntry, PlayerName: "Pat", EntryName: "Pat FC", Rank: 1}},
		Bootstrap: bootstrap,
		Live: map[int]*upstream.LiveRound{
			1: live(map[int]int{1: 3, 10: 5, 11: 2, 12: 8}),
			2: live(map[int]int{1: 2, 10: 6, 11: 1, 12: 10}),
			3: live(map[int]int{1: 1, 10: 4, 11: 9, 12: 3}),
			4: live(map[int]int{1: 6, 10: 2, 11: 7, 12: 4}),
		},
		Managers: []season.IncrementalManager{{
			EntryID: testEntry,
			History: &upstream.EntryHistory{Current: history},
			Picks: map[int]*upstream.EntryPicks{
				1: squad("", 10, 2, 0),
				2: squad("freehit", 12, 2, 0),
				3: squad("3xc", 10, 3, 0),
				4: squad("bboost", 11, 2, 1),
			},
			Transfers: []upstream.Transfer{
				{Event: 4, ElementIn: 11, ElementOut: 10, Time: deadline(4).Add(-48 * time.Hour)},
			},
		}},
	}

	dm, err := season.Normalize(src, season.Options{})
	require.NoError(t, err)
	return dm
}

var testPrices = PriceHistory{
	1:  {1: 45},
	10: {1: 80},
	11: {1: 60},
	12: {1: 90},
}

func generate(t *testing.T) Pulse {
	t.Helper()
	p, err := Generate(testSeason(t), testEntry, Inputs{Prices: testPrices})
	require.NoError(t, err)
	require.Len(t, p.Pages, 10)
	return p
}

func TestGenerateUnknownEntry(t *testing.T) {
	t.Parallel()

	_, err := Generate(testSeason(t), 999, Inputs{})
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrEntryNotFound)
	}
}

func TestGeneratePagesInOrder(t *testing.T) {
	t.Parallel()

	p := generate(t)
	for i, page := range p.Pages {
		if page.Number != i+1 {
			t.Fatalf("unexpected page number: got=%d want=%d", page.Number, i+1)
		}
	}
	assert.Equal(t, "See You Next Season?", p.Pages[9].Title)
	assert.Equal(t, narrative.CTA(), p.Pages[9].Narrative)
}

func TestIntroAndRankJourney(t *testing.T) {
	t.Parallel()

	p := generate(t)

	assert.Equal(t, "Your FPL Season 2025/26", p.Pages[0].Title)
	assert.Equal(t, IntroStats{TotalPoints: 62, FinalRank: 700, TeamName: "Pat FC"}, p.Pages[0].Stats)

	journey := p.Pages[1].Stats.(RankJourneyStats)
	assert.Equal(t, RankJourneyStats{
		PeakRank:   700,
		WorstRank:  1000,
		FinalRank:  700,
		StdDev:     112,
		Last8Delta: 300,
		Ranks:      []int{1000, 800, 900, 700},
	}, journey)
}

func TestIntroPrefersSummary(t *testing.T) {
	t.Parallel()

	summary := &upstream.EntrySummary{ID: testEntry, Name: "Renamed", SummaryOverallPoints: 70, SummaryOverallRank: 650}
	p, err := Generate(testSeason(t), testEntry, Inputs{Summary: summary})
	require.NoError(t, err)
	assert.Equal(t, IntroStats{TotalPoints: 70, FinalRank: 650, TeamName: "Renamed"}, p.Pages[0].Stats)
}

func TestBuiltAround(t *testing.T) {
	t.Parallel()

	stats := generate(t).Pages[2].Stats.(BuiltAroundStats)

	assert.Equal(t, []PlayerPoints{
		{PlayerID: 10, Player: "Alpha", Points: 22},
		{PlayerID: 12, Player: "Charlie", Points: 20},
		{PlayerID: 11, Player: "Bravo", Points: 14},
		{PlayerID: 1, Player: "Keeper", Points: 6},
	}, stats.Top5Earned)
	assert.Equal(t, []PlayerPoints{
		{PlayerID: 12, Player: "Charlie", Points: 15, GWsMissed: 3},
		{PlayerID: 11, Player: "Bravo", Points: 12, GWsMissed: 3},
		{PlayerID: 10, Player: "Alpha", Points: 8, GWsMissed: 2},
	}, stats.Top5Missed)
}

func TestTransferTiming(t *testing.T) {
	t.Parallel()

	stats := generate(t).Pages[3].Stats.(TransferTimingStats)
	require.NotNil(t, stats.AvgHoursBeforeDeadline)
	assert.Equal(t, 48.0, *stats.AvgHoursBeforeDeadline)
	assert.Equal(t, narrative.ProfileBloom, *stats.Profile)
}

func TestStintsSkipFreeHit(t *testing.T) {
	t.Parallel()

	dm := testSeason(t)
	m, _ := dm.Manager(testEntry)
	stints := HitsAndMisses(dm, m, testPrices)
	require.Len(t, stints, 3)

	alpha := stints[0]
	assert.Equal(t, 10, alpha.PlayerID)
	assert.Equal(t, 1, alpha.GWIn)
	assert.Equal(t, 3, alpha.GWOut)
	assert.Equal(t, 2, alpha.WeeksHeld)
	assert.Equal(t, 9, alpha.Points)
	assert.Equal(t, 4.5, alpha.PointsPerWeek)
	require.NotNil(t, alpha.PriceAtGWIn)
	assert.Equal(t, 80, *alpha.PriceAtGWIn)
	assert.Equal(t, 5, alpha.BankAtGWIn)

	// Charlie costs 90 against a limit of 85, so Bravo is the only option.
	require.NotNil(t, alpha.BestAlt)
	assert.Equal(t, Alternative{
		PlayerID:    11,
		PlayerName:  "Bravo B",
		PriceAtGWIn: 60,
		Points:      12,
		PointsDiff:  3,
		PPWDiff:     1,
	}, *alpha.BestAlt)

	keeper := stints[1]
	assert.Equal(t, 1, keeper.PlayerID)
	assert.Equal(t, 4, keeper.GWOut)
	assert.Equal(t, 3, keeper.WeeksHeld)
	assert.Nil(t, keeper.BestAlt)

	bravo := stints[2]
	assert.Equal(t, 4, bravo.GWIn)
	assert.Nil(t, bravo.PriceAtGWIn)
	assert.Nil(t, bravo.BestAlt)
}

func TestAlternativeWindowExcludesOwnStint(t *testing.T) {
	t.Parallel()

	dm := testSeason(t)
	stint := Stint{PlayerID: 12, GWIn: 1, GWOut: 4, Points: 20, BankAtGWIn: 100}
	own := []Stint{{PlayerID: 10, GWIn: 1, GWOut: 3}, stint}

	alt := bestAlternative(dm, stint, own, testPrices)
	require.NotNil(t, alt)
	// Alpha only counts round 4; Bravo counts all four rounds.
	assert.Equal(t, 11, alt.PlayerID)
	assert.Equal(t, 19, alt.Points)
	assert.Equal(t, -1, alt.PointsDiff)
	assert.Equal(t, -0.25, alt.PPWDiff)
}

func TestForwardFilledPrice(t *testing.T) {
	t.Parallel()

	prices := PriceHistory{5: {2: 50, 6: 55}}
	_, ok := forwardFilledPrice(prices, 5, 1)
	assert.False(t, ok)

	price, ok := forwardFilledPrice(prices, 5, 5)
	assert.True(t, ok)
	assert.Equal(t, 50, price)

	price, _ = forwardFilledPrice(prices, 5, 6)
	assert.Equal(t, 55, price)
}

func TestHitsAndMissesPage(t *testing.T) {
	t.Parallel()

	page := generate(t).Pages[4]
	stats := page.Stats.(HitsAndMissesStats)

	require.Len(t, stats.Top5Stints, 3)
	// The keeper's 10 points across the free hit edge Alpha's 9.
	assert.Equal(t, 1, stats.Top5Stints[0].PlayerID)
	assert.Equal(t, 10, stats.Top5Stints[1].PlayerID)
	for _, s := range stats.Top5Stints {
		assert.Nil(t, s.BestAlt)
	}
	require.NotNil(t, stats.BestPointsDiffStint)
	assert.Equal(t, 10, stats.BestPointsDiffStint.PlayerID)
	require.NotNil(t, stats.BestPPWDiffStint)

	lines := page.Narrative.(narrative.HitsAndMissesLines)
	assert.Contains(t, lines.RegretLine, "Bravo B instead of Alpha from GW1 to GW3")
}

func TestRankStreaks(t *testing.T) {
	t.Parallel()

	stats := generate(t).Pages[5].Stats.(StreakStats)
	assert.Equal(t, &RankStreak{Length: 1, StartGW: 1, StartRank: 1000, EndGW: 2, EndRank: 800}, stats.LongestGreenStreak)
	assert.Equal(t, &RankStreak{Length: 1, StartGW: 2, StartRank: 800, EndGW: 3, EndRank: 900}, stats.LongestRedStreak)
}

func TestLoyalty(t *testing.T) {
	t.Parallel()

	stats := generate(t).Pages[6].Stats.(LoyaltyStats)
	assert.Equal(t, &WeeksCount{PlayerID: 1, PlayerName: "Kee Per", Weeks: 4}, stats.MostWeeksOwned)
	assert.Equal(t, &WeeksCount{PlayerID: 1, PlayerName: "Kee Per", Weeks: 3}, stats.MostWeeksBenched)
	assert.Equal(t, &TransferredIn{
		PlayerID:           11,
		PlayerName:         "Bravo B",
		TimesTransferredIn: 1,
		TotalPointsAfterIn: 7,
		WeeksPlayedAfterIn: 1,
		AvgPointsPerWeek:   7,
	}, stats.MostTransferredIn)
}

func TestChips(t *testing.T) {
	t.Parallel()

	stats := generate(t).Pages[7].Stats.(ChipStats)
	assert.Equal(t, ChipSummary{
		Used:               true,
		Round:              3,
		Points:             12,
		BestPossibleWeek:   2,
		BestPossiblePoints: 30,
		BetterWeeks:        3,
	}, stats.TripleCaptain)
	assert.Equal(t, ChipSummary{
		Used:               true,
		Round:              4,
		Points:             6,
		BestPossibleWeek:   1,
		BestPossiblePoints: 3,
	}, stats.BenchBoost)
}

func TestChipsUnused(t *testing.T) {
	t.Parallel()

	summary := compareChip(0, 0, []roundScore{{round: 1, points: 4}, {round: 2, points: 9}, {round: 3, points: 9}})
	assert.False(t, summary.Used)
	assert.Equal(t, 3, summary.BetterWeeks)
	assert.Equal(t, 2, summary.BestPossibleWeek)
	assert.Equal(t, 9, summary.BestPossiblePoints)
}

func TestSquadPlayers(t *testing.T) {
	t.Parallel()

	dm := testSeason(t)
	m, _ := dm.Manager(testEntry)
	players := SquadPlayers(dm, m)
	require.Len(t, players, 4)

	ids := []int{players[0].PlayerID, players[1].PlayerID, players[2].PlayerID, players[3].PlayerID}
	assert.Equal(t, []int{12, 10, 11, 1}, ids)

	alpha := players[1]
	assert.Equal(t, 18, alpha.TotalPoints)
	assert.Equal(t, 2, alpha.Caps)
	assert.Equal(t, 9.0, alpha.AvgPointsPerWeek)

	keeper := players[3]
	assert.Equal(t, 6, keeper.TotalPoints)
	assert.Equal(t, 4, keeper.WeeksOwned)
	assert.Equal(t, 3, keeper.WeeksBenched)
	assert.Equal(t, 1.5, keeper.AvgPointsPerWeek)

	stats := generate(t).Pages[8].Stats.(TeamOfTheYearStats)
	assert.Nil(t, stats.Formation)
	assert.Empty(t, stats.TeamXI)
}

func TestBestXI(t *testing.T) {
	t.Parallel()

	var players []SquadPlayer
	add := func(position season.Position, n int) {
		for i := 0; i < n; i++ {
			players = append(players, SquadPlayer{PlayerID: len(players) + 1, Position: position, TotalPoints: 100 - len(players)})
		}
	}
	add(season.PositionGoalkeeper, 2)
	add(season.PositionDefender, 5)
	add(season.PositionMidfielder, 4)
	add(season.PositionForward, 3)

	formation, xi := BestXI(players)
	assert.Equal(t, []int{1, 3, 4, 3}, formation)
	require.Len(t, xi, 11)
	assert.Equal(t, 1, xi[0].PlayerID)
	assert.Equal(t, season.PositionDefender, xi[1].Position)
	assert.Equal(t, season.PositionForward, xi[10].Position)

	formation, xi = BestXI(players[:6])
	assert.Nil(t, formation)
	assert.Empty(t, xi)
}
