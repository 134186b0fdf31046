package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fpl-pulse/internal/domain/pulse"
	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
	"github.com/riskibarqy/fpl-pulse/internal/domain/upstream"
	"github.com/riskibarqy/fpl-pulse/internal/platform/logging"
	"github.com/riskibarqy/fpl-pulse/internal/platform/metrics"
)

type ManagerPulse struct {
	RunID      string       `json:"runId"`
	EntryID    int          `json:"entryId"`
	Pages      []pulse.Page `json:"pages"`
	ComputedAt time.Time    `json:"computedAt"`
}

type PulseService struct {
	upstream Upstream
	cfg      EngineConfig
	logger   *logging.Logger
	metrics  *metrics.Manager
	degrade  degrader
	now      func() time.Time
}

func NewPulseService(source Upstream, cfg EngineConfig, logger *logging.Logger, m *metrics.Manager) *PulseService {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("pulse")
	return &PulseService{
		upstream: source,
		cfg:      cfg.normalize(),
		logger:   logger,
		metrics:  m,
		degrade:  degrader{logger: logger, metrics: m},
		now:      time.Now,
	}
}

// Generate builds the season recap for one entry from its season blob. The
// blob and bootstrap are required; live stats and prices degrade to empty.
func (s *PulseService) Generate(ctx context.Context, entryID int) (result ManagerPulse, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PulseService.Generate", attribute.Int("entry.id", entryID))
	defer func() { endSpan(span, err) }()

	start := s.now()
	defer func() { s.metrics.ObserveComputation("pulse", computationOutcome(err), s.now().Sub(start)) }()

	if entryID <= 0 {
		return ManagerPulse{}, fmt.Errorf("%w: entry id must be > 0", ErrInvalidInput)
	}

	bootstrap, err := s.upstream.Bootstrap(ctx)
	if err != nil {
		return ManagerPulse{}, foundational("fetch bootstrap", err)
	}
	blob, err := s.upstream.EntryBlob(ctx, entryID)
	if err != nil {
		return ManagerPulse{}, foundational("fetch entry blob", err)
	}

	elements, err := s.upstream.SeasonElements(ctx)
	if err != nil {
		if isCanceled(err) {
			return ManagerPulse{}, err
		}
		s.degrade.record(ctx, "season_elements", err)
	}

	key := strconv.Itoa(entryID)
	src := season.Bulk{
		Standings: []upstream.StandingRow{{
			Entry:      entryID,
			EntryName:  blob.Summary.Name,
			PlayerName: strings.TrimSpace(blob.Summary.PlayerFirstName + " " + blob.Summary.PlayerLastName),
		}},
		Bootstrap: bootstrap,
		Pack:      &upstream.EntriesPack{Entries: map[string]*upstream.EntryBlob{key: blob}},
		Elements:  elements,
	}
	dm, err := season.Normalize(src, season.Options{SeasonLength: s.cfg.SeasonLength})
	if err != nil {
		return ManagerPulse{}, foundational("normalize entry season", err)
	}

	var prices pulse.PriceHistory
	if s.cfg.PriceHistory {
		if prices, err = s.priceHistory(ctx, bootstrap); err != nil {
			return ManagerPulse{}, err
		}
	}

	summary := blob.Summary
	out, err := pulse.Generate(dm, entryID, pulse.Inputs{Summary: &summary, Prices: prices})
	if err != nil {
		if errors.Is(err, pulse.ErrEntryNotFound) {
			return ManagerPulse{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return ManagerPulse{}, fmt.Errorf("generate pulse: %w", err)
	}

	return ManagerPulse{
		RunID:      uuid.NewString(),
		EntryID:    entryID,
		Pages:      out.Pages,
		ComputedAt: s.now().UTC(),
	}, nil
}

// priceHistory fetches the element summary of every bootstrap player, since
// any of them can be a counterfactual alternative. Failed elements leave gaps
// that pulse forward-fills.
func (s *PulseService) priceHistory(ctx context.Context, bootstrap *upstream.Bootstrap) (pulse.PriceHistory, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PulseService.priceHistory", attribute.Int("elements", len(bootstrap.Elements)))
	defer span.End()

	ids := make([]int, 0, len(bootstrap.Elements))
	for _, el := range bootstrap.Elements {
		ids = append(ids, el.ID)
	}

	prices := make(pulse.PriceHistory, len(ids))
	var mu sync.Mutex
	err := fanOut(ctx, s.cfg.MaxWorkers, ids, func(ctx context.Context, id int) {
		summary, err := s.upstream.ElementSummary(ctx, id)
		if err != nil {
			s.degrade.record(ctx, "element_summary", err, "element_id", id)
			return
		}

		// Double gameweeks repeat the round; the later fixture's price wins.
		byRound := make(map[season.Round]int, len(summary.History))
		for _, row := range summary.History {
			byRound[row.Round] = row.Value
		}
		mu.Lock()
		prices[id] = byRound
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	return prices, nil
}
