package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fpl-pulse/internal/domain/awards"
	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
	"github.com/riskibarqy/fpl-pulse/internal/domain/upstream"
	"github.com/riskibarqy/fpl-pulse/internal/platform/logging"
	"github.com/riskibarqy/fpl-pulse/internal/platform/metrics"
)

const (
	SourceBulk        = "bulk"
	SourceIncremental = "incremental"
)

type EngineConfig struct {
	MaxWorkers         int
	MaxSampledManagers int
	TopNProfiles       int
	ReferencePlayerID  int
	DefaultSource      string
	SeasonLength       int
	PriceHistory       bool
}

func (c EngineConfig) normalize() EngineConfig {
	if c.MaxWorkers < 1 {
		c.MaxWorkers = 16
	}
	if c.MaxSampledManagers < 1 {
		c.MaxSampledManagers = 30
	}
	if c.TopNProfiles < 0 {
		c.TopNProfiles = 0
	}
	if c.ReferencePlayerID < 1 {
		c.ReferencePlayerID = awards.DefaultReferencePlayer
	}
	if c.DefaultSource != SourceIncremental {
		c.DefaultSource = SourceBulk
	}
	if c.SeasonLength < 1 {
		c.SeasonLength = season.DefaultSeasonLength
	}
	return c
}

type LeagueAwardsInput struct {
	LeagueID   int
	FocusEntry int
	Source     string
}

// ManagerProfile is the public summary of one of the league's top entries.
type ManagerProfile struct {
	EntryID       int    `json:"entryId"`
	Name          string `json:"name"`
	TeamName      string `json:"teamName"`
	OverallRank   int    `json:"overallRank"`
	OverallPoints int    `json:"overallPoints"`
}

type LeagueAwards struct {
	RunID      string                `json:"runId"`
	LeagueID   int                   `json:"leagueId"`
	Source     string                `json:"source"`
	Awards     awards.Results        `json:"awards"`
	Sampled    bool                  `json:"sampled"`
	Managers   int                   `json:"managers"`
	Summary    *awards.LeagueSummary `json:"summary"`
	Profiles   []ManagerProfile      `json:"profiles"`
	ComputedAt time.Time             `json:"computedAt"`
}

type LeagueAwardsService struct {
	upstream Upstream
	cfg      EngineConfig
	logger   *logging.Logger
	metrics  *metrics.Manager
	degrade  degrader
	now      func() time.Time
}

func NewLeagueAwardsService(source Upstream, cfg EngineConfig, logger *logging.Logger, m *metrics.Manager) *LeagueAwardsService {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("awards")
	return &LeagueAwardsService{
		upstream: source,
		cfg:      cfg.normalize(),
		logger:   logger,
		metrics:  m,
		degrade:  degrader{logger: logger, metrics: m},
		now:      time.Now,
	}
}

// Compute fetches the league, normalizes at most MaxSampledManagers entries
// and runs every award calculator. Sub-fetch failures degrade; bootstrap and
// standings failures fail the request.
func (s *LeagueAwardsService) Compute(ctx context.Context, in LeagueAwardsInput) (result LeagueAwards, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueAwardsService.Compute",
		attribute.Int("league.id", in.LeagueID),
		attribute.String("source", in.Source),
	)
	defer func() { endSpan(span, err) }()

	start := s.now()
	defer func() { s.metrics.ObserveComputation("awards", computationOutcome(err), s.now().Sub(start)) }()

	if in.LeagueID <= 0 {
		return LeagueAwards{}, fmt.Errorf("%w: league id must be > 0", ErrInvalidInput)
	}
	if in.FocusEntry < 0 {
		return LeagueAwards{}, fmt.Errorf("%w: entry id must be >= 0", ErrInvalidInput)
	}
	source := strings.ToLower(strings.TrimSpace(in.Source))
	switch source {
	case "":
		source = s.cfg.DefaultSource
	case SourceBulk, SourceIncremental:
	default:
		return LeagueAwards{}, fmt.Errorf("%w: source must be %s or %s", ErrInvalidInput, SourceBulk, SourceIncremental)
	}

	bootstrap, err := s.upstream.Bootstrap(ctx)
	if err != nil {
		return LeagueAwards{}, foundational("fetch bootstrap", err)
	}
	standings, err := s.upstream.LeagueStandings(ctx, in.LeagueID)
	if err != nil {
		return LeagueAwards{}, foundational("fetch league standings", err)
	}

	rows, sampled := season.SampleStandings(standings.Standings.Results, s.cfg.MaxSampledManagers)
	if sampled {
		s.logger.InfoContext(ctx, "league sampled",
			"league_id", in.LeagueID,
			"members", len(standings.Standings.Results),
			"sampled", len(rows),
		)
	}

	dm, used, err := s.normalize(ctx, in.LeagueID, source, bootstrap, rows)
	if err != nil {
		return LeagueAwards{}, err
	}
	s.metrics.ObserveNormalizedManagers(len(dm.Managers))

	results := awards.Compute(dm, awards.Config{ReferencePlayer: s.cfg.ReferencePlayerID})

	profiles, overallRanks, err := s.profiles(ctx, rows, in.FocusEntry)
	if err != nil {
		return LeagueAwards{}, err
	}

	var summary *awards.LeagueSummary
	if in.FocusEntry > 0 {
		out := awards.Summarize(dm, awards.SummaryInput{
			LeagueName:   standings.League.Name,
			Standings:    rows,
			FocusEntry:   in.FocusEntry,
			OverallRanks: overallRanks,
		})
		summary = &out
	}

	return LeagueAwards{
		RunID:      uuid.NewString(),
		LeagueID:   in.LeagueID,
		Source:     used,
		Awards:     results,
		Sampled:    sampled,
		Managers:   len(dm.Managers),
		Summary:    summary,
		Profiles:   profiles,
		ComputedAt: s.now().UTC(),
	}, nil
}

// normalize prefers the requested source. A bulk fetch that cannot produce a
// pack falls back to the incremental path.
func (s *LeagueAwardsService) normalize(ctx context.Context, leagueID int, source string, bootstrap *upstream.Bootstrap, rows []upstream.StandingRow) (*season.DataMap, string, error) {
	opts := season.Options{SeasonLength: s.cfg.SeasonLength}

	if source == SourceBulk {
		src, err := s.fetchBulk(ctx, leagueID, bootstrap, rows)
		if err != nil {
			return nil, "", err
		}
		if src.Pack != nil && src.Pack.Entries != nil {
			dm, err := season.Normalize(src, opts)
			if err != nil {
				return nil, "", foundational("normalize bulk season", err)
			}
			return dm, SourceBulk, nil
		}
		s.logger.WarnContext(ctx, "bulk source unavailable, falling back to incremental", "league_id", leagueID)
	}

	src, err := s.fetchIncremental(ctx, bootstrap, rows)
	if err != nil {
		return nil, "", err
	}
	dm, err := season.Normalize(src, opts)
	if err != nil {
		return nil, "", foundational("normalize incremental season", err)
	}
	return dm, SourceIncremental, nil
}

func (s *LeagueAwardsService) fetchBulk(ctx context.Context, leagueID int, bootstrap *upstream.Bootstrap, rows []upstream.StandingRow) (season.Bulk, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueAwardsService.fetchBulk")
	defer span.End()

	src := season.Bulk{Standings: rows, Bootstrap: bootstrap}
	tasks := []func(context.Context){
		func(ctx context.Context) {
			pack, err := s.upstream.EntriesPack(ctx, leagueID)
			s.degrade.record(ctx, "entries_pack", err, "league_id", leagueID)
			src.Pack = pack
		},
		func(ctx context.Context) {
			elements, err := s.upstream.SeasonElements(ctx)
			s.degrade.record(ctx, "season_elements", err)
			src.Elements = elements
		},
	}
	if err := fanOut(ctx, s.cfg.MaxWorkers, tasks, func(ctx context.Context, task func(context.Context)) { task(ctx) }); err != nil {
		return season.Bulk{}, err
	}
	return src, nil
}

func (s *LeagueAwardsService) fetchIncremental(ctx context.Context, bootstrap *upstream.Bootstrap, rows []upstream.StandingRow) (season.Incremental, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueAwardsService.fetchIncremental", attribute.Int("managers", len(rows)))
	defer span.End()

	rounds := finishedRounds(bootstrap, s.cfg.SeasonLength)
	src := season.Incremental{
		Standings: rows,
		Bootstrap: bootstrap,
		Managers:  make([]season.IncrementalManager, len(rows)),
		Live:      make(map[season.Round]*upstream.LiveRound, len(rounds)),
	}

	type job struct {
		manager int
		round   season.Round
		kind    string
	}
	var jobs []job
	for i, row := range rows {
		src.Managers[i] = season.IncrementalManager{EntryID: row.Entry, Picks: make(map[season.Round]*upstream.EntryPicks, len(rounds))}
		jobs = append(jobs, job{manager: i, kind: "entry_history"}, job{manager: i, kind: "entry_transfers"})
		for _, round := range rounds {
			jobs = append(jobs, job{manager: i, round: round, kind: "entry_picks"})
		}
	}
	for _, round := range rounds {
		jobs = append(jobs, job{manager: -1, round: round, kind: "live_round"})
	}

	var mu sync.Mutex
	err := fanOut(ctx, s.cfg.MaxWorkers, jobs, func(ctx context.Context, j job) {
		switch j.kind {
		case "live_round":
			live, err := s.upstream.LiveRound(ctx, j.round)
			s.degrade.record(ctx, j.kind, err, "round", j.round)
			mu.Lock()
			src.Live[j.round] = live
			mu.Unlock()
		case "entry_history":
			entry := rows[j.manager].Entry
			history, err := s.upstream.EntryHistory(ctx, entry)
			s.degrade.record(ctx, j.kind, err, "entry_id", entry)
			mu.Lock()
			src.Managers[j.manager].History = history
			mu.Unlock()
		case "entry_transfers":
			entry := rows[j.manager].Entry
			transfers, err := s.upstream.EntryTransfers(ctx, entry)
			s.degrade.record(ctx, j.kind, err, "entry_id", entry)
			mu.Lock()
			src.Managers[j.manager].Transfers = transfers
			mu.Unlock()
		case "entry_picks":
			entry := rows[j.manager].Entry
			picks, err := s.upstream.EntryPicks(ctx, entry, j.round)
			s.degrade.record(ctx, j.kind, err, "entry_id", entry, "round", j.round)
			if picks == nil {
				return
			}
			mu.Lock()
			src.Managers[j.manager].Picks[j.round] = picks
			mu.Unlock()
		}
	})
	if err != nil {
		return season.Incremental{}, err
	}
	return src, nil
}

// profiles fetches entry summaries for the top rows and the focus entry. A
// failed profile is left out.
func (s *LeagueAwardsService) profiles(ctx context.Context, rows []upstream.StandingRow, focus int) ([]ManagerProfile, map[int]int, error) {
	targets := make([]upstream.StandingRow, 0, s.cfg.TopNProfiles+1)
	seen := map[int]bool{}
	for _, row := range rows {
		if len(targets) >= s.cfg.TopNProfiles {
			break
		}
		targets = append(targets, row)
		seen[row.Entry] = true
	}
	if focus > 0 && !seen[focus] {
		for _, row := range rows {
			if row.Entry == focus {
				targets = append(targets, row)
				break
			}
		}
	}

	summaries := make([]*upstream.EntrySummary, len(targets))
	indexes := make([]int, len(targets))
	for i := range indexes {
		indexes[i] = i
	}
	err := fanOut(ctx, s.cfg.MaxWorkers, indexes, func(ctx context.Context, i int) {
		summary, err := s.upstream.EntrySummary(ctx, targets[i].Entry)
		s.degrade.record(ctx, "entry_summary", err, "entry_id", targets[i].Entry)
		summaries[i] = summary
	})
	if err != nil {
		return nil, nil, err
	}

	profiles := make([]ManagerProfile, 0, len(targets))
	ranks := make(map[int]int, len(targets))
	for i, summary := range summaries {
		if summary == nil {
			continue
		}
		ranks[targets[i].Entry] = summary.SummaryOverallRank
		if i >= s.cfg.TopNProfiles {
			continue
		}
		profiles = append(profiles, ManagerProfile{
			EntryID:       targets[i].Entry,
			Name:          targets[i].PlayerName,
			TeamName:      targets[i].EntryName,
			OverallRank:   summary.SummaryOverallRank,
			OverallPoints: summary.SummaryOverallPoints,
		})
	}
	return profiles, ranks, nil
}

func finishedRounds(bootstrap *upstream.Bootstrap, seasonLength int) []season.Round {
	var rounds []season.Round
	for _, ev := range bootstrap.Events {
		if ev.Finished && ev.ID >= 1 && ev.ID <= seasonLength {
			rounds = append(rounds, ev.ID)
		}
	}
	return rounds
}

// foundational classifies a failure the request cannot survive.
func foundational(what string, err error) error {
	switch {
	case isCanceled(err):
		return err
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotReady), errors.Is(err, ErrDependencyUnavailable):
		return fmt.Errorf("%s: %w", what, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, what, err)
	}
}

func computationOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case isCanceled(err):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}
