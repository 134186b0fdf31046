package httpapi

import (
	"time"

	"github.com/riskibarqy/fpl-pulse/internal/domain/awards"
	"github.com/riskibarqy/fpl-pulse/internal/domain/pulse"
	"github.com/riskibarqy/fpl-pulse/internal/usecase"
)

type leagueAwardsDTO struct {
	RunID      string                   `json:"runId"`
	LeagueID   int                      `json:"leagueId"`
	Source     string                   `json:"source"`
	Awards     awards.Results           `json:"awards"`
	Sampled    bool                     `json:"sampled"`
	Managers   int                      `json:"managers"`
	Summary    *awards.LeagueSummary    `json:"summary"`
	Profiles   []usecase.ManagerProfile `json:"profiles"`
	ComputedAt string                   `json:"computedAt"`
}

type pulseDTO struct {
	RunID      string       `json:"runId"`
	EntryID    int          `json:"entryId"`
	Pages      []pulse.Page `json:"pages"`
	ComputedAt string       `json:"computedAt"`
}

func leagueAwardsToDTO(v usecase.LeagueAwards) leagueAwardsDTO {
	profiles := v.Profiles
	if profiles == nil {
		profiles = []usecase.ManagerProfile{}
	}
	return leagueAwardsDTO{
		RunID:      v.RunID,
		LeagueID:   v.LeagueID,
		Source:     v.Source,
		Awards:     v.Awards,
		Sampled:    v.Sampled,
		Managers:   v.Managers,
		Summary:    v.Summary,
		Profiles:   profiles,
		ComputedAt: v.ComputedAt.UTC().Format(time.RFC3339),
	}
}

func pulseToDTO(v usecase.ManagerPulse) pulseDTO {
	return pulseDTO{
		RunID:      v.RunID,
		EntryID:    v.EntryID,
		Pages:      v.Pages,
		ComputedAt: v.ComputedAt.UTC().Format(time.RFC3339),
	}
}
