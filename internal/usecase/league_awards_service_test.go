package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fpl-pulse/internal/domain/awards"
	"github.com/riskibarqy/fpl-pulse/internal/domain/upstream"
	usecasemock "github.com/riskibarqy/fpl-pulse/internal/mocks/usecase"
	"github.com/riskibarqy/fpl-pulse/internal/platform/logging"
)

var (
	alice = upstream.StandingRow{Entry: 101, PlayerName: "Alice", EntryName: "Alice FC", Rank: 1, LastRank: 2, Total: 130}
	bob   = upstream.StandingRow{Entry: 102, PlayerName: "Bob", EntryName: "Bob FC", Rank: 2, LastRank: 1, Total: 110}
)

// Alice scores 60 then 70, Bob 80 then 30. Round 3 is not finished.
var seasonPoints = map[int][]int{
	alice.Entry: {60, 70},
	bob.Entry:   {80, 30},
}

func testBootstrap() *upstream.Bootstrap {
	deadline := time.Date(2025, 8, 15, 17, 30, 0, 0, time.UTC)
	return &upstream.Bootstrap{
		Elements: []upstream.Element{
			{ID: 1, FirstName: "Jordan", SecondName: "Pickford", WebName: "Pickford", ElementType: 1, SelectedByPercent: "12.5"},
			{ID: 2, FirstName: "Erling", SecondName: "Haaland", WebName: "Haaland", ElementType: 4, SelectedByPercent: "60.1"},
			{ID: 3, FirstName: "Mo", SecondName: "Salah", WebName: "Salah", ElementType: 3, SelectedByPercent: "30.0"},
		},
		Events: []upstream.Event{
			{ID: 1, DeadlineTime: deadline, Finished: true},
			{ID: 2, DeadlineTime: deadline.Add(7 * 24 * time.Hour), Finished: true},
			{ID: 3, DeadlineTime: deadline.Add(14 * 24 * time.Hour)},
		},
	}
}

func testStandings(rows ...upstream.StandingRow) *upstream.LeagueStandings {
	return &upstream.LeagueStandings{
		League:    upstream.League{ID: 7, Name: "Office League"},
		Standings: upstream.Standings{Results: rows},
	}
}

func testPicks() []upstream.Pick {
	return []upstream.Pick{
		{Element: 1, Position: 1, Multiplier: 1},
		{Element: 2, Position: 2, Multiplier: 2, IsCaptain: true},
		{Element: 3, Position: 12, Multiplier: 0, IsViceCaptain: true, IsVice: true},
	}
}

func testLive() map[int][]upstream.LiveElement {
	return map[int][]upstream.LiveElement{
		1: {{ID: 1, Stats: upstream.LiveStats{TotalPoints: 6, Minutes: 90}}, {ID: 2, Stats: upstream.LiveStats{TotalPoints: 13, Minutes: 88}}},
		2: {{ID: 1, Stats: upstream.LiveStats{TotalPoints: 2, Minutes: 90}}, {ID: 3, Stats: upstream.LiveStats{TotalPoints: 8, Minutes: 90}}},
	}
}

func testSeasonElements() *upstream.SeasonElements {
	out := &upstream.SeasonElements{GWs: map[string]upstream.SeasonRound{}}
	for round, elements := range testLive() {
		out.GWs[strconv.Itoa(round)] = upstream.SeasonRound{Elements: elements}
	}
	return out
}

func testBlob(row upstream.StandingRow) *upstream.EntryBlob {
	blob := &upstream.EntryBlob{
		Summary:     upstream.EntrySummary{ID: row.Entry, Name: row.EntryName, PlayerFirstName: row.PlayerName, SummaryOverallPoints: row.Total},
		GWSummaries: map[string]upstream.GWSummary{},
		PicksByGW:   map[string]upstream.BlobPicks{},
		Transfers:   []upstream.Transfer{},
	}
	total := 0
	for i, points := range seasonPoints[row.Entry] {
		key := strconv.Itoa(i + 1)
		total += points
		blob.GWSummaries[key] = upstream.GWSummary{Points: points, Total: total, OverallRank: 1000 * (i + 1), Bank: 5}
		blob.PicksByGW[key] = upstream.BlobPicks{Picks: testPicks()}
	}
	return blob
}

func testPack(rows ...upstream.StandingRow) *upstream.EntriesPack {
	pack := &upstream.EntriesPack{Entries: map[string]*upstream.EntryBlob{}}
	for _, row := range rows {
		pack.Entries[strconv.Itoa(row.Entry)] = testBlob(row)
		pack.Members = append(pack.Members, upstream.PackMember{Entry: row.Entry, PlayerName: row.PlayerName, EntryName: row.EntryName})
	}
	return pack
}

func testHistory(entry int) *upstream.EntryHistory {
	history := &upstream.EntryHistory{}
	total := 0
	for i, points := range seasonPoints[entry] {
		total += points
		history.Current = append(history.Current, upstream.HistoryRow{Event: i + 1, Points: points, TotalPoints: total, OverallRank: 1000 * (i + 1)})
	}
	return history
}

// expectIncremental wires every per-manager and per-round fetch for rows.
func expectIncremental(source *usecasemock.Upstream, rows ...upstream.StandingRow) {
	for _, row := range rows {
		source.On("EntryHistory", mock.Anything, row.Entry).Return(testHistory(row.Entry), nil).Once()
		source.On("EntryTransfers", mock.Anything, row.Entry).Return([]upstream.Transfer{}, nil).Once()
		for round := 1; round <= 2; round++ {
			source.On("EntryPicks", mock.Anything, row.Entry, round).Return(&upstream.EntryPicks{Picks: testPicks()}, nil).Once()
		}
	}
	for round, elements := range testLive() {
		source.On("LiveRound", mock.Anything, round).Return(&upstream.LiveRound{Elements: elements}, nil).Once()
	}
}

func newAwardsService(source Upstream, cfg EngineConfig) *LeagueAwardsService {
	return NewLeagueAwardsService(source, cfg, logging.NewNop(), nil)
}

func leaderNames(results awards.Results) []string {
	var out []string
	for _, a := range results[awards.KeyLeagueLeaders] {
		out = append(out, a.Name)
	}
	return out
}

func TestLeagueAwardsService_Compute_BulkSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := usecasemock.NewUpstream(t)
	source.On("Bootstrap", mock.Anything).Return(testBootstrap(), nil).Once()
	source.On("LeagueStandings", mock.Anything, 7).Return(testStandings(alice, bob), nil).Once()
	source.On("EntriesPack", mock.Anything, 7).Return(testPack(alice, bob), nil).Once()
	source.On("SeasonElements", mock.Anything).Return(testSeasonElements(), nil).Once()

	service := newAwardsService(source, EngineConfig{})
	got, err := service.Compute(ctx, LeagueAwardsInput{LeagueID: 7})
	require.NoError(t, err)

	assert.Equal(t, SourceBulk, got.Source)
	assert.Equal(t, 7, got.LeagueID)
	assert.Equal(t, 2, got.Managers)
	assert.False(t, got.Sampled)
	assert.NotEmpty(t, got.RunID)
	assert.Nil(t, got.Summary)
	assert.Empty(t, got.Profiles)
	assert.Len(t, got.Awards, len(awards.Keys))

	assert.Equal(t, []string{"Alice", "Bob"}, leaderNames(got.Awards))
	leaders := got.Awards[awards.KeyLeagueLeaders]
	assert.Equal(t, 130.0, leaders[0].Score)
	assert.Equal(t, 30, leaders[1].Context["lowScore"])
}

func TestLeagueAwardsService_Compute_FallsBackToIncremental(t *testing.T) {
	t.Parallel()

	source := usecasemock.NewUpstream(t)
	source.On("Bootstrap", mock.Anything).Return(testBootstrap(), nil).Once()
	source.On("LeagueStandings", mock.Anything, 7).Return(testStandings(alice, bob), nil).Once()
	source.On("EntriesPack", mock.Anything, 7).Return(nil, errors.New("pack still building")).Once()
	source.On("SeasonElements", mock.Anything).Return(testSeasonElements(), nil).Once()
	expectIncremental(source, alice, bob)

	got, err := newAwardsService(source, EngineConfig{MaxWorkers: 3}).Compute(context.Background(), LeagueAwardsInput{LeagueID: 7, Source: "BULK"})
	require.NoError(t, err)

	assert.Equal(t, SourceIncremental, got.Source)
	assert.Equal(t, 2, got.Managers)
	assert.Equal(t, []string{"Alice", "Bob"}, leaderNames(got.Awards))
}

func TestLeagueAwardsService_Compute_IncrementalDegrades(t *testing.T) {
	t.Parallel()

	source := usecasemock.NewUpstream(t)
	source.On("Bootstrap", mock.Anything).Return(testBootstrap(), nil).Once()
	source.On("LeagueStandings", mock.Anything, 7).Return(testStandings(alice, bob), nil).Once()
	expectIncremental(source, alice)
	source.On("EntryHistory", mock.Anything, bob.Entry).Return(nil, errors.New("upstream 500")).Once()
	source.On("EntryTransfers", mock.Anything, bob.Entry).Return(nil, errors.New("upstream 500")).Once()
	source.On("EntryPicks", mock.Anything, bob.Entry, mock.Anything).Return(nil, errors.New("upstream 500")).Twice()

	got, err := newAwardsService(source, EngineConfig{}).Compute(context.Background(), LeagueAwardsInput{LeagueID: 7, Source: SourceIncremental})
	require.NoError(t, err)

	assert.Equal(t, SourceIncremental, got.Source)
	assert.Equal(t, 1, got.Managers)
	assert.Equal(t, []string{"Alice"}, leaderNames(got.Awards))
}

func TestLeagueAwardsService_Compute_SamplesLargeLeagues(t *testing.T) {
	t.Parallel()

	source := usecasemock.NewUpstream(t)
	source.On("Bootstrap", mock.Anything).Return(testBootstrap(), nil).Once()
	source.On("LeagueStandings", mock.Anything, 7).Return(testStandings(alice, bob), nil).Once()
	source.On("EntriesPack", mock.Anything, 7).Return(testPack(alice, bob), nil).Once()
	source.On("SeasonElements", mock.Anything).Return(testSeasonElements(), nil).Once()

	got, err := newAwardsService(source, EngineConfig{MaxSampledManagers: 1}).Compute(context.Background(), LeagueAwardsInput{LeagueID: 7})
	require.NoError(t, err)

	assert.True(t, got.Sampled)
	assert.Equal(t, 1, got.Managers)
	assert.Equal(t, []string{"Alice"}, leaderNames(got.Awards))
}

func TestLeagueAwardsService_Compute_ProfilesAndSummary(t *testing.T) {
	t.Parallel()

	source := usecasemock.NewUpstream(t)
	source.On("Bootstrap", mock.Anything).Return(testBootstrap(), nil).Once()
	source.On("LeagueStandings", mock.Anything, 7).Return(testStandings(alice, bob), nil).Once()
	source.On("EntriesPack", mock.Anything, 7).Return(testPack(alice, bob), nil).Once()
	source.On("SeasonElements", mock.Anything).Return(testSeasonElements(), nil).Once()
	source.On("EntrySummary", mock.Anything, alice.Entry).
		Return(&upstream.EntrySummary{ID: alice.Entry, SummaryOverallRank: 1200, SummaryOverallPoints: 130}, nil).Once()
	source.On("EntrySummary", mock.Anything, bob.Entry).
		Return(&upstream.EntrySummary{ID: bob.Entry, SummaryOverallRank: 54000, SummaryOverallPoints: 110}, nil).Once()

	got, err := newAwardsService(source, EngineConfig{TopNProfiles: 1}).
		Compute(context.Background(), LeagueAwardsInput{LeagueID: 7, FocusEntry: bob.Entry})
	require.NoError(t, err)

	require.Len(t, got.Profiles, 1)
	assert.Equal(t, ManagerProfile{EntryID: alice.Entry, Name: "Alice", TeamName: "Alice FC", OverallRank: 1200, OverallPoints: 130}, got.Profiles[0])

	require.NotNil(t, got.Summary)
	assert.Equal(t, "Office League", got.Summary.LeagueName)
	assert.Equal(t, 2, got.Summary.CurrentRound)
	require.NotNil(t, got.Summary.EntryRank)
	assert.Equal(t, 2, *got.Summary.EntryRank)
	require.NotNil(t, got.Summary.RankChange)
	assert.Equal(t, -1, *got.Summary.RankChange)
	require.NotNil(t, got.Summary.EntryOverallRank)
	assert.Equal(t, 54000, *got.Summary.EntryOverallRank)
}

func TestLeagueAwardsService_Compute_ProfileFailureIsDropped(t *testing.T) {
	t.Parallel()

	source := usecasemock.NewUpstream(t)
	source.On("Bootstrap", mock.Anything).Return(testBootstrap(), nil).Once()
	source.On("LeagueStandings", mock.Anything, 7).Return(testStandings(alice, bob), nil).Once()
	source.On("EntriesPack", mock.Anything, 7).Return(testPack(alice, bob), nil).Once()
	source.On("SeasonElements", mock.Anything).Return(nil, errors.New("timeout")).Once()
	source.On("EntrySummary", mock.Anything, alice.Entry).Return(nil, errors.New("upstream 500")).Once()
	source.On("EntrySummary", mock.Anything, bob.Entry).
		Return(&upstream.EntrySummary{ID: bob.Entry, SummaryOverallRank: 9}, nil).Once()

	got, err := newAwardsService(source, EngineConfig{TopNProfiles: 2}).Compute(context.Background(), LeagueAwardsInput{LeagueID: 7})
	require.NoError(t, err)

	require.Len(t, got.Profiles, 1)
	assert.Equal(t, bob.Entry, got.Profiles[0].EntryID)
	assert.Equal(t, 2, got.Managers)
}

func TestLeagueAwardsService_Compute_InvalidInput(t *testing.T) {
	t.Parallel()

	cases := []LeagueAwardsInput{
		{LeagueID: 0},
		{LeagueID: -3},
		{LeagueID: 7, FocusEntry: -1},
		{LeagueID: 7, Source: "spreadsheet"},
	}
	for _, in := range cases {
		source := usecasemock.NewUpstream(t)
		_, err := newAwardsService(source, EngineConfig{}).Compute(context.Background(), in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestLeagueAwardsService_Compute_FoundationalFailures(t *testing.T) {
	t.Parallel()

	t.Run("bootstrap down", func(t *testing.T) {
		t.Parallel()
		source := usecasemock.NewUpstream(t)
		source.On("Bootstrap", mock.Anything).Return(nil, errors.New("connection refused")).Once()

		_, err := newAwardsService(source, EngineConfig{}).Compute(context.Background(), LeagueAwardsInput{LeagueID: 7})
		if !errors.Is(err, ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
		}
	})

	t.Run("league missing", func(t *testing.T) {
		t.Parallel()
		source := usecasemock.NewUpstream(t)
		source.On("Bootstrap", mock.Anything).Return(testBootstrap(), nil).Once()
		source.On("LeagueStandings", mock.Anything, 7).Return(nil, ErrNotFound).Once()

		_, err := newAwardsService(source, EngineConfig{}).Compute(context.Background(), LeagueAwardsInput{LeagueID: 7})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		assert.NotErrorIs(t, err, ErrDependencyUnavailable)
	})

	t.Run("standings missing", func(t *testing.T) {
		t.Parallel()
		source := usecasemock.NewUpstream(t)
		source.On("Bootstrap", mock.Anything).Return(testBootstrap(), nil).Once()
		source.On("LeagueStandings", mock.Anything, 7).Return(testStandings(), nil).Once()
		source.On("EntriesPack", mock.Anything, 7).Return(testPack(), nil).Once()
		source.On("SeasonElements", mock.Anything).Return(testSeasonElements(), nil).Once()

		_, err := newAwardsService(source, EngineConfig{}).Compute(context.Background(), LeagueAwardsInput{LeagueID: 7})
		if !errors.Is(err, ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		source := usecasemock.NewUpstream(t)
		source.On("Bootstrap", mock.Anything).Return(nil, ctx.Err()).Once()

		_, err := newAwardsService(source, EngineConfig{}).Compute(ctx, LeagueAwardsInput{LeagueID: 7})
		require.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrDependencyUnavailable)
	})
}

func TestFoundational(t *testing.T) {
	t.Parallel()

	err := foundational("fetch bootstrap", errors.New("boom"))
	require.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.Contains(t, err.Error(), "fetch bootstrap")

	wrapped := foundational("fetch league", ErrNotFound)
	require.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrDependencyUnavailable)

	assert.Equal(t, context.DeadlineExceeded, foundational("x", context.DeadlineExceeded))
}

func TestEngineConfig_Normalize(t *testing.T) {
	t.Parallel()

	got := EngineConfig{TopNProfiles: -2, DefaultSource: "nope"}.normalize()
	assert.Equal(t, 16, got.MaxWorkers)
	assert.Equal(t, 30, got.MaxSampledManagers)
	assert.Equal(t, 0, got.TopNProfiles)
	assert.Equal(t, awards.DefaultReferencePlayer, got.ReferencePlayerID)
	assert.Equal(t, SourceBulk, got.DefaultSource)
	assert.Equal(t, 38, got.SeasonLength)

	assert.Equal(t, SourceIncremental, EngineConfig{DefaultSource: SourceIncremental}.normalize().DefaultSource)
}
