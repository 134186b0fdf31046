package usecase

import (
	"context"

	"github.com/riskibarqy/fpl-pulse/internal/domain/upstream"
)

// Upstream is the FPL data source. Implementations apply their own retry and
// circuit breaking; callers decide what is foundational and what degrades.
type Upstream interface {
	Bootstrap(ctx context.Context) (*upstream.Bootstrap, error)
	LeagueStandings(ctx context.Context, leagueID int) (*upstream.LeagueStandings, error)
	EntrySummary(ctx context.Context, entryID int) (*upstream.EntrySummary, error)
	EntryHistory(ctx context.Context, entryID int) (*upstream.EntryHistory, error)
	EntryPicks(ctx context.Context, entryID, round int) (*upstream.EntryPicks, error)
	EntryTransfers(ctx context.Context, entryID int) ([]upstream.Transfer, error)
	LiveRound(ctx context.Context, round int) (*upstream.LiveRound, error)
	ElementSummary(ctx context.Context, elementID int) (*upstream.ElementSummary, error)
	EntryBlob(ctx context.Context, entryID int) (*upstream.EntryBlob, error)
	EntriesPack(ctx context.Context, leagueID int) (*upstream.EntriesPack, error)
	SeasonElements(ctx context.Context) (*upstream.SeasonElements, error)
}
