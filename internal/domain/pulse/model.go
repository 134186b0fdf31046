// Package pulse derives the ten page season recap for a single manager.
package pulse

import (
	"errors"

	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
	"github.com/riskibarqy/fpl-pulse/internal/domain/upstream"
)

var ErrEntryNotFound = errors.New("entry not found in season data")

// PriceHistory holds element prices in tenths of a million by round.
type PriceHistory map[season.ElementID]map[season.Round]int

// Inputs are the pulse sources beyond the DataMap. Both are optional.
type Inputs struct {
	Summary *upstream.EntrySummary
	Prices  PriceHistory
}

type Page struct {
	Number    int    `json:"page"`
	Title     string `json:"title"`
	Stats     any    `json:"stats,omitempty"`
	Narrative any    `json:"narrative"`
}

type Pulse struct {
	EntryID int    `json:"entryId"`
	Pages   []Page `json:"pages"`
}

type IntroStats struct {
	TotalPoints int    `json:"totalPoints"`
	FinalRank   int    `json:"finalRank"`
	TeamName    string `json:"teamName"`
}

type RankJourneyStats struct {
	PeakRank   int   `json:"peakRank"`
	WorstRank  int   `json:"worstRank"`
	FinalRank  int   `json:"finalRank"`
	StdDev     int   `json:"stdDev"`
	Last8Delta int   `json:"last8Delta"`
	Ranks      []int `json:"ranks"`
}

type PlayerPoints struct {
	PlayerID  season.ElementID `json:"playerId"`
	Player    string           `json:"player"`
	Points    int              `json:"points"`
	GWsMissed int              `json:"gwsMissed,omitempty"`
}

type BuiltAroundStats struct {
	Top5Earned []PlayerPoints `json:"top5Earned"`
	Top5Missed []PlayerPoints `json:"top5Missed"`
}

// TransferTimingStats has nil fields when no transfer could be timed.
type TransferTimingStats struct {
	AvgHoursBeforeDeadline *float64 `json:"avgHoursBeforeDeadline"`
	Profile                *string  `json:"profile"`
}

// Stint is an unbroken run of rounds a player spent in the squad.
type Stint struct {
	PlayerID      season.ElementID `json:"playerId"`
	PlayerName    string           `json:"playerName"`
	GWIn          season.Round     `json:"gwIn"`
	GWOut         season.Round     `json:"gwOut"`
	WeeksHeld     int              `json:"weeksHeld"`
	Points        int              `json:"points"`
	PointsPerWeek float64          `json:"pointsPerWeek"`
	PriceAtGWIn   *int             `json:"priceAtGwIn"`
	BankAtGWIn    int              `json:"bankAtGwIn"`
	BestAlt       *Alternative     `json:"bestAlt,omitempty"`
}

// Alternative is the best same-position, affordable player over a stint's
// window.
type Alternative struct {
	PlayerID    season.ElementID `json:"playerId"`
	PlayerName  string           `json:"playerName"`
	PriceAtGWIn int              `json:"priceAtGwIn"`
	Points      int              `json:"points"`
	PointsDiff  int              `json:"pointsDiff"`
	PPWDiff     float64          `json:"ppwDiff"`
}

type HitsAndMissesStats struct {
	Top5Stints          []Stint `json:"top5Stints"`
	BestPointsDiffStint *Stint  `json:"bestPointsDiffStint"`
	BestPPWDiffStint    *Stint  `json:"bestPpwDiffStint"`
}

type RankStreak struct {
	Length    int          `json:"length"`
	StartGW   season.Round `json:"startGW"`
	StartRank int          `json:"startRank"`
	EndGW     season.Round `json:"endGW"`
	EndRank   int          `json:"endRank"`
}

type StreakStats struct {
	LongestGreenStreak *RankStreak `json:"longestGreenStreak"`
	LongestRedStreak   *RankStreak `json:"longestRedStreak"`
}

type WeeksCount struct {
	PlayerID   season.ElementID `json:"playerId"`
	PlayerName string           `json:"playerName"`
	Weeks      int              `json:"weeks"`
}

type TransferredIn struct {
	PlayerID           season.ElementID `json:"playerId"`
	PlayerName         string           `json:"playerName"`
	TimesTransferredIn int              `json:"timesTransferredIn"`
	TotalPointsAfterIn int              `json:"totalPointsAfterIn"`
	WeeksPlayedAfterIn int              `json:"weeksPlayedAfterIn"`
	AvgPointsPerWeek   float64          `json:"avgPointsPerWeek"`
}

type LoyaltyStats struct {
	MostWeeksOwned    *WeeksCount    `json:"mostWeeksOwned"`
	MostWeeksBenched  *WeeksCount    `json:"mostWeeksBenched"`
	MostTransferredIn *TransferredIn `json:"mostTransferredIn"`
}

// ChipSummary compares the round a chip was played with the best round it
// could have been played. Round is zero when the chip was not used.
type ChipSummary struct {
	Used               bool         `json:"used"`
	Round              season.Round `json:"round"`
	Points             int          `json:"points"`
	BestPossibleWeek   season.Round `json:"bestPossibleWeek"`
	BestPossiblePoints int          `json:"bestPossiblePoints"`
	BetterWeeks        int          `json:"betterWeeksThanPlayed"`
}

type ChipStats struct {
	TripleCaptain ChipSummary `json:"tcSummary"`
	BenchBoost    ChipSummary `json:"bbSummary"`
}

type SquadPlayer struct {
	PlayerID         season.ElementID `json:"playerId"`
	PlayerName       string           `json:"playerName"`
	DisplayName      string           `json:"displayName"`
	Position         season.Position  `json:"position"`
	TotalPoints      int              `json:"totalPoints"`
	Caps             int              `json:"caps"`
	WeeksOwned       int              `json:"weeksOwned"`
	WeeksBenched     int              `json:"weeksBenched"`
	AvgPointsPerWeek float64          `json:"avgPointsPerWeek"`
}

type TeamOfTheYearStats struct {
	Formation []int         `json:"formation"`
	TeamXI    []SquadPlayer `json:"teamXI"`
}
