package season

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fpl-pulse/internal/domain/upstream"
)

type rawManager struct {
	row       upstream.StandingRow
	history   []upstream.HistoryRow
	picks     map[Round]upstream.EntryPicks
	transfers []upstream.Transfer
}

func testBootstrap() *upstream.Bootstrap {
	deadline := time.Date(2025, 8, 15, 17, 30, 0, 0, time.UTC)
	return &upstream.Bootstrap{
		Elements: []upstream.Element{
			{ID: 1, FirstName: "Jordan", SecondName: "Pickford", WebName: "Pickford", ElementType: 1, SelectedByPercent: "12.5"},
			{ID: 2, FirstName: "Erling", SecondName: "Haaland", WebName: "Haaland", ElementType: 4, SelectedByPercent: "60.1"},
			{ID: 3, FirstName: "Mo", SecondName: "Salah", WebName: "Salah", ElementType: 3, SelectedByPercent: "not-a-number"},
		},
		Events: []upstream.Event{
			{ID: 1, DeadlineTime: deadline, Finished: true},
			{ID: 2, DeadlineTime: deadline.Add(7 * 24 * time.Hour), Finished: true},
			{ID: 3, DeadlineTime: deadline.Add(14 * 24 * time.Hour)},
		},
	}
}

func testManagers() []rawManager {
	return []rawManager{
		{
			row: upstream.StandingRow{Entry: 10, PlayerName: "Alice", EntryName: "Alice XI"},
			history: []upstream.HistoryRow{
				{Event: 2, Points: 70, TotalPoints: 130, Rank: 41000, OverallRank: 1000, Value: 1003, Bank: 7, EventTransfers: 2, EventTransfersCost: 4},
				{Event: 1, Points: 60, TotalPoints: 60, Rank: 52000, OverallRank: 5000, Value: 1000, Bank: 5, EventTransfers: 0, EventTransfersCost: 0},
			},
			picks: map[Round]upstream.EntryPicks{
				1: {ActiveChip: "bboost", EntryHistory: upstream.HistoryRow{PointsOnBench: 9}, Picks: []upstream.Pick{
					{Element: 1, Position: 1, Multiplier: 1, IsViceCaptain: true, IsVice: true},
					{Element: 2, Position: 2, Multiplier: 2, IsCaptain: true},
				}},
				2: {ActiveChip: "wildcard", EntryHistory: upstream.HistoryRow{PointsOnBench: 3}, Picks: []upstream.Pick{
					{Element: 1, Position: 1, Multiplier: 1},
					{Element: 3, Position: 2, Multiplier: 2, IsCaptain: true},
				}},
			},
			transfers: []upstream.Transfer{{Event: 2, ElementIn: 3, ElementOut: 2, Time: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)}},
		},
		{
			row:     upstream.StandingRow{Entry: 20, PlayerName: "Bob", EntryName: "Bob FC"},
			history: []upstream.HistoryRow{
				{Event: 1, Points: 50, TotalPoints: 50, Rank: 88000, OverallRank: 9000, Value: 998, Bank: 12, EventTransfers: 1, EventTransfersCost: 0},
				{Event: 2, Points: 44, TotalPoints: 94, Rank: 130000, OverallRank: 8800, Value: 999, Bank: 11, EventTransfers: 6, EventTransfersCost: 8},
			},
			picks: map[Round]upstream.EntryPicks{
				1: {ActiveChip: "3xc", Picks: []upstream.Pick{{Element: 2, Position: 1, Multiplier: 3, IsCaptain: true}}},
				2: {ActiveChip: "freehit", EntryHistory: upstream.HistoryRow{PointsOnBench: 6}, Picks: []upstream.Pick{
					{Element: 3, Position: 1, Multiplier: 2, IsCaptain: true},
					{Element: 1, Position: 12, Multiplier: 0, IsViceCaptain: true, IsVice: true},
				}},
			},
			transfers: []upstream.Transfer{},
		},
	}
}

func testLive() map[Round][]upstream.LiveElement {
	return map[Round][]upstream.LiveElement{
		1: {{ID: 1, Stats: upstream.LiveStats{TotalPoints: 6, Minutes: 90}}, {ID: 2, Stats: upstream.LiveStats{TotalPoints: 13, Minutes: 88, Bonus: 3}}},
		2: {{ID: 1, Stats: upstream.LiveStats{TotalPoints: 2, Minutes: 90, YellowCards: 1}}, {ID: 3, Stats: upstream.LiveStats{TotalPoints: 8, Minutes: 90}}},
	}
}

func incrementalSource(managers []rawManager) Incremental {
	src := Incremental{Bootstrap: testBootstrap(), Live: map[Round]*upstream.LiveRound{}}
	for round, elements := range testLive() {
		src.Live[round] = &upstream.LiveRound{Elements: elements}
	}
	for _, m := range managers {
		src.Standings = append(src.Standings, m.row)
		picks := make(map[Round]*upstream.EntryPicks, len(m.picks))
		for round, p := range m.picks {
			p := p
			picks[round] = &p
		}
		src.Managers = append(src.Managers, IncrementalManager{
			EntryID:   m.row.Entry,
			History:   &upstream.EntryHistory{Current: m.history},
			Picks:     picks,
			Transfers: m.transfers,
		})
	}
	return src
}

func bulkSource(managers []rawManager) Bulk {
	src := Bulk{
		Bootstrap: testBootstrap(),
		Pack:      &upstream.EntriesPack{Entries: map[string]*upstream.EntryBlob{}},
		Elements:  &upstream.SeasonElements{GWs: map[string]upstream.SeasonRound{}},
	}
	for round, elements := range testLive() {
		src.Elements.GWs[strconv.Itoa(round)] = upstream.SeasonRound{Elements: elements}
	}
	for _, m := range managers {
		src.Standings = append(src.Standings, m.row)
		blob := &upstream.EntryBlob{
			GWSummaries: map[string]upstream.GWSummary{},
			PicksByGW:   map[string]upstream.BlobPicks{},
			Transfers:   m.transfers,
		}
		for _, h := range m.history {
			blob.GWSummaries[strconv.Itoa(h.Event)] = upstream.GWSummary{
				Points:             h.Points,
				Total:              h.TotalPoints,
				GWRank:             h.Rank,
				OverallRank:        h.OverallRank,
				Value:              h.Value,
				Bank:               h.Bank,
				EventTransfers:     h.EventTransfers,
				EventTransfersCost: h.EventTransfersCost,
			}
		}
		for round, p := range m.picks {
			blob.PicksByGW[strconv.Itoa(round)] = upstream.BlobPicks{
				ActiveChip:    p.ActiveChip,
				PointsOnBench: p.EntryHistory.PointsOnBench,
				Picks:         p.Picks,
			}
		}
		src.Pack.Entries[strconv.Itoa(m.row.Entry)] = blob
	}
	return src
}

func TestNormalize_IncrementalAndBulkAgree(t *testing.T) {
	t.Parallel()

	fromIncremental, err := Normalize(incrementalSource(testManagers()), Options{})
	require.NoError(t, err)
	fromBulk, err := Normalize(bulkSource(testManagers()), Options{})
	require.NoError(t, err)

	assert.Equal(t, fromIncremental, fromBulk)

	for name, dm := range map[string]*DataMap{"incremental": fromIncremental, "bulk": fromBulk} {
		bob, ok := dm.Manager(20)
		require.True(t, ok, name)
		require.Len(t, bob.History, 2, name)
		assert.Equal(t, RoundSummary{
			Round: 2, Points: 44, TotalPoints: 94, RoundRank: 130000, OverallRank: 8800,
			Value: 999, Bank: 11, Transfers: 6, TransferCost: 8,
		}, bob.History[1], name)
		assert.Equal(t, []Round{2}, bob.Chips[ChipFreeHit], name)
		assert.Equal(t, 6, bob.BenchPoints[2], name)
		assert.Equal(t, 1, bob.ViceCaptain[2], name)

		alice, ok := dm.Manager(10)
		require.True(t, ok, name)
		assert.Equal(t, []Round{2}, alice.Chips[ChipWildcard], name)
		assert.Equal(t, 41000, alice.History[1].RoundRank, name)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	src := incrementalSource(testManagers())
	first, err := Normalize(src, Options{})
	require.NoError(t, err)
	second, err := Normalize(src, Options{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalize_BuildsCanonicalView(t *testing.T) {
	t.Parallel()

	dm, err := Normalize(incrementalSource(testManagers()), Options{})
	require.NoError(t, err)

	assert.Equal(t, []Round{1, 2}, dm.FinishedRounds)
	assert.Equal(t, DefaultSeasonLength, dm.SeasonLength)
	assert.Equal(t, 2, dm.LastFinishedRound())
	require.Len(t, dm.Managers, 2)

	alice, ok := dm.Manager(10)
	require.True(t, ok)
	assert.Equal(t, "Alice XI", alice.TeamName)
	assert.Equal(t, []Round{1, 2}, []Round{alice.History[0].Round, alice.History[1].Round})
	assert.Equal(t, 130, alice.TotalPointsByRound[2])
	assert.Equal(t, 2, alice.Captain[1])
	assert.Equal(t, 1, alice.ViceCaptain[1])
	assert.Equal(t, 9, alice.BenchPoints[1])
	assert.Equal(t, []Round{1}, alice.Chips[ChipBenchBoost])
	assert.Equal(t, []Round{2}, alice.Chips[ChipWildcard])
	assert.Len(t, alice.Transfers, 1)

	bob, ok := dm.Manager(20)
	require.True(t, ok)
	assert.True(t, bob.Chips.Used(ChipTripleCaptain, 1))

	assert.Equal(t, 13, dm.Points(1, 2))
	assert.Equal(t, 1, dm.Live[2][1].YellowCards)
	assert.Equal(t, "Erling Haaland", dm.FullName(2))
	assert.Equal(t, "Player 99", dm.FullName(99))
	assert.Equal(t, "#99", dm.WebName(99))
	assert.False(t, dm.Meta.Players[3].OwnershipKnown)
	assert.InDelta(t, 12.5, dm.Meta.Players[1].SelectedByPercent, 0.001)
	assert.Contains(t, dm.Meta.Deadlines, 3)
}

func TestNormalize_DegradedLiveRoundIsEmpty(t *testing.T) {
	t.Parallel()

	src := incrementalSource(testManagers())
	delete(src.Live, 2)

	dm, err := Normalize(src, Options{})
	require.NoError(t, err)

	stats, ok := dm.Live[2]
	require.True(t, ok)
	assert.Empty(t, stats)
	assert.Equal(t, 0, dm.Points(2, 3))
}

func TestNormalize_ExcludesManagersWithoutData(t *testing.T) {
	t.Parallel()

	inc := incrementalSource(testManagers())
	inc.Managers[1].History = nil
	dm, err := Normalize(inc, Options{})
	require.NoError(t, err)
	require.Len(t, dm.Managers, 1)
	_, ok := dm.Manager(20)
	assert.False(t, ok)

	bulk := bulkSource(testManagers())
	bulk.Pack.Entries["20"] = nil
	dm, err = Normalize(bulk, Options{})
	require.NoError(t, err)
	assert.Len(t, dm.Managers, 1)
}

func TestNormalize_MissingPicksLeaveRoundAbsent(t *testing.T) {
	t.Parallel()

	src := incrementalSource(testManagers())
	delete(src.Managers[0].Picks, 2)

	dm, err := Normalize(src, Options{})
	require.NoError(t, err)

	alice, _ := dm.Manager(10)
	_, ok := alice.Picks[2]
	assert.False(t, ok)
	_, ok = alice.Captain[2]
	assert.False(t, ok)
}

func TestNormalize_FoundationalFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  Source
	}{
		{name: "missing bootstrap", src: Incremental{Standings: []upstream.StandingRow{}}},
		{name: "missing standings", src: Incremental{Bootstrap: testBootstrap()}},
		{name: "missing pack", src: Bulk{Bootstrap: testBootstrap(), Standings: []upstream.StandingRow{}}},
		{name: "nil pointer source", src: (*Bulk)(nil)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Normalize(tt.src, Options{})
			if !errors.Is(err, ErrFoundationalData) {
				t.Fatalf("unexpected error: got=%v want=%v", err, ErrFoundationalData)
			}
		})
	}
}

func TestNormalize_SeasonLengthBoundsRounds(t *testing.T) {
	t.Parallel()

	dm, err := Normalize(incrementalSource(testManagers()), Options{SeasonLength: 1})
	require.NoError(t, err)

	assert.Equal(t, []Round{1}, dm.FinishedRounds)
	alice, _ := dm.Manager(10)
	assert.Len(t, alice.History, 1)
}

func TestSampleStandings(t *testing.T) {
	t.Parallel()

	rows := []upstream.StandingRow{{Entry: 1}, {Entry: 2}, {Entry: 3}}

	sampled, dropped := SampleStandings(rows, 2)
	assert.True(t, dropped)
	assert.Equal(t, []upstream.StandingRow{{Entry: 1}, {Entry: 2}}, sampled)

	all, dropped := SampleStandings(rows, 0)
	assert.False(t, dropped)
	assert.Len(t, all, 3)

	all[0].Entry = 99
	assert.Equal(t, 1, rows[0].Entry)
}
