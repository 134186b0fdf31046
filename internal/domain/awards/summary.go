package awards

import (
	"math"
	"sort"

	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
	"github.com/riskibarqy/fpl-pulse/internal/domain/upstream"
)

// LeagueSummary describes the focus entry's position in the league. Pointer
// fields are nil when the entry or the data behind them is missing.
type LeagueSummary struct {
	LeagueName         string `json:"leagueName"`
	CurrentRound       int    `json:"currentRound"`
	EntryRank          *int   `json:"entryRank"`
	EntryRankPrev      *int   `json:"entryRankPrev"`
	RankChange         *int   `json:"rankChange"`
	Top5AvgRank        *int   `json:"top5AvgRank"`
	Top5AvgRankPrev    *int   `json:"top5AvgRankPrev"`
	PointsBehind       *int   `json:"pointsBehind"`
	PointsBehindPrev   *int   `json:"pointsBehindPrev"`
	PointsBehindChange *int   `json:"pointsBehindChange"`
	EntryOverallRank   *int   `json:"entryOverallRank"`
}

type SummaryInput struct {
	LeagueName string
	Standings  []upstream.StandingRow
	FocusEntry int

	// OverallRanks holds summary_overall_rank for the profiled top entries.
	OverallRanks map[int]int
}

// Summarize builds the league summary for in.FocusEntry. CurrentRound is the
// last finished round.
func Summarize(dm *season.DataMap, in SummaryInput) LeagueSummary {
	summary := LeagueSummary{
		LeagueName:      in.LeagueName,
		CurrentRound:    dm.LastFinishedRound(),
		Top5AvgRank:     Top5AvgRank(dm, in.Standings, -1),
		Top5AvgRankPrev: Top5AvgRank(dm, in.Standings, -2),
	}

	var focus *upstream.StandingRow
	for i := range in.Standings {
		if in.Standings[i].Entry == in.FocusEntry {
			focus = &in.Standings[i]
			break
		}
	}
	if focus == nil {
		return summary
	}

	summary.EntryRank = intPtr(focus.Rank)
	summary.EntryRankPrev = intPtr(focus.LastRank)
	summary.RankChange = intPtr(focus.LastRank - focus.Rank)
	if rank, ok := in.OverallRanks[focus.Entry]; ok {
		summary.EntryOverallRank = intPtr(rank)
	}

	leader, ok := leaderRow(in.Standings)
	if !ok {
		return summary
	}
	user, userOK := dm.Manager(focus.Entry)
	top, topOK := dm.Manager(leader.Entry)
	if !userOK || !topOK {
		return summary
	}

	now, prev := summary.CurrentRound, summary.CurrentRound-1
	behind := top.TotalPointsByRound[now] - user.TotalPointsByRound[now]
	behindPrev := top.TotalPointsByRound[prev] - user.TotalPointsByRound[prev]
	summary.PointsBehind = intPtr(behind)
	summary.PointsBehindPrev = intPtr(behindPrev)
	summary.PointsBehindChange = intPtr(behind - behindPrev)

	return summary
}

// Top5AvgRank is the rounded mean overall rank of the five best ranked
// managers, read offset rows from the end of each history (-1 is the latest).
// Managers with fewer rows are ignored.
func Top5AvgRank(dm *season.DataMap, standings []upstream.StandingRow, offset int) *int {
	need := offset
	if need < 0 {
		need = -need
	}
	if need == 0 {
		return nil
	}

	ranks := make([]int, 0, len(standings))
	for _, row := range standings {
		m, ok := dm.Manager(row.Entry)
		if !ok || len(m.History) < need {
			continue
		}
		if rank := m.History[len(m.History)-need].OverallRank; rank > 0 {
			ranks = append(ranks, rank)
		}
	}
	if len(ranks) == 0 {
		return nil
	}

	sort.Ints(ranks)
	if len(ranks) > 5 {
		ranks = ranks[:5]
	}
	sum := 0
	for _, r := range ranks {
		sum += r
	}
	avg := int(math.Round(float64(sum) / float64(len(ranks))))
	return &avg
}

// leaderRow is the standings row with the lowest league rank.
func leaderRow(standings []upstream.StandingRow) (upstream.StandingRow, bool) {
	if len(standings) == 0 {
		return upstream.StandingRow{}, false
	}
	sorted := append([]upstream.StandingRow(nil), standings...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })
	return sorted[0], true
}

func intPtr(v int) *int {
	return &v
}
