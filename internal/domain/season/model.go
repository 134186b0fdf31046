// Package season builds the canonical per-request view of a league's season
// that every award and pulse calculator reads from.
package season

import (
	"fmt"
	"strings"
	"time"
)

// DefaultSeasonLength is the number of rounds in a standard season.
const DefaultSeasonLength = 38

// Round is a 1-based gameweek number.
type Round = int

// ElementID identifies a footballer in the bootstrap player list.
type ElementID = int

// Position is the bootstrap element_type.
type Position int

const (
	PositionGoalkeeper Position = 1
	PositionDefender   Position = 2
	PositionMidfielder Position = 3
	PositionForward    Position = 4
)

// RoundSummary is one row of a manager's round-by-round history.
type RoundSummary struct {
	Round        Round `json:"round"`
	Points       int   `json:"points"`
	TotalPoints  int   `json:"totalPoints"`
	RoundRank    int   `json:"roundRank"`
	OverallRank  int   `json:"overallRank"`
	Value        int   `json:"value"`
	Bank         int   `json:"bank"`
	Transfers    int   `json:"transfers"`
	TransferCost int   `json:"transferCost"`
}

// Pick is one of the fifteen squad slots for a round.
type Pick struct {
	Element       ElementID `json:"element"`
	Position      int       `json:"position"`
	Multiplier    int       `json:"multiplier"`
	IsCaptain     bool      `json:"isCaptain"`
	IsViceCaptain bool      `json:"isViceCaptain"`
}

// Started reports whether the pick scored for the manager that round.
func (p Pick) Started() bool {
	return p.Multiplier > 0
}

type Chip string

const (
	ChipWildcard      Chip = "wildcard"
	ChipFreeHit       Chip = "freehit"
	ChipBenchBoost    Chip = "bench_boost"
	ChipTripleCaptain Chip = "triple_captain"
)

var allChips = []Chip{ChipWildcard, ChipFreeHit, ChipBenchBoost, ChipTripleCaptain}

// ParseChip maps an upstream chip name, including the bboost and 3xc aliases.
func ParseChip(raw string) (Chip, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "wildcard":
		return ChipWildcard, true
	case "freehit", "free_hit":
		return ChipFreeHit, true
	case "bench_boost", "bboost":
		return ChipBenchBoost, true
	case "triple_captain", "3xc":
		return ChipTripleCaptain, true
	default:
		return "", false
	}
}

// ChipUsage lists the rounds each chip was active, ascending.
type ChipUsage map[Chip][]Round

func newChipUsage() ChipUsage {
	out := make(ChipUsage, len(allChips))
	for _, chip := range allChips {
		out[chip] = []Round{}
	}
	return out
}

// Used reports whether chip was active in round.
func (c ChipUsage) Used(chip Chip, round Round) bool {
	for _, r := range c[chip] {
		if r == round {
			return true
		}
	}
	return false
}

type Transfer struct {
	Round      Round     `json:"round"`
	ElementIn  ElementID `json:"elementIn"`
	ElementOut ElementID `json:"elementOut"`
	Time       time.Time `json:"time"`
}

type LiveStat struct {
	TotalPoints int `json:"totalPoints"`
	Minutes     int `json:"minutes"`
	YellowCards int `json:"yellowCards"`
	RedCards    int `json:"redCards"`
	Bonus       int `json:"bonus"`
}

// LiveTable holds per-round player stats. Every finished round has an entry,
// empty when the round's live data could not be fetched.
type LiveTable map[Round]map[ElementID]LiveStat

// PlayerMeta is one bootstrap element. OwnershipKnown is false when
// selected_by_percent did not parse, in which case SelectedByPercent is zero.
type PlayerMeta struct {
	ID                ElementID `json:"id"`
	FullName          string    `json:"fullName"`
	WebName           string    `json:"webName"`
	Position          Position  `json:"position"`
	SelectedByPercent float64   `json:"selectedByPercent"`
	OwnershipKnown    bool      `json:"ownershipKnown"`
}

// Meta is the bootstrap-derived lookup shared by all managers. Order keeps the
// bootstrap element order for iteration that must be deterministic.
type Meta struct {
	Players   map[ElementID]PlayerMeta `json:"players"`
	Order     []ElementID              `json:"order"`
	Deadlines map[Round]time.Time      `json:"deadlines"`
}

// ManagerData is everything known about one entry for the season.
type ManagerData struct {
	EntryID            int                 `json:"entryId"`
	Name               string              `json:"name"`
	TeamName           string              `json:"teamName"`
	History            []RoundSummary      `json:"history"`
	Picks              map[Round][]Pick    `json:"picks"`
	Chips              ChipUsage           `json:"chips"`
	Transfers          []Transfer          `json:"transfers"`
	Captain            map[Round]ElementID `json:"captain"`
	ViceCaptain        map[Round]ElementID `json:"viceCaptain"`
	BenchPoints        map[Round]int       `json:"benchPoints"`
	TotalPointsByRound map[Round]int       `json:"totalPointsByRound"`
}

// HistoryAt returns the history row for round.
func (m *ManagerData) HistoryAt(round Round) (RoundSummary, bool) {
	for _, row := range m.History {
		if row.Round == round {
			return row, true
		}
	}
	return RoundSummary{}, false
}

// DataMap is the canonical, read-only season view. Managers keep standings
// order, which is the tie-break order for every ranking.
type DataMap struct {
	Managers       []*ManagerData `json:"managers"`
	Live           LiveTable      `json:"live"`
	FinishedRounds []Round        `json:"finishedRounds"`
	SeasonLength   int            `json:"seasonLength"`
	Meta           Meta           `json:"meta"`

	byEntry map[int]*ManagerData
}

func (dm *DataMap) Manager(entryID int) (*ManagerData, bool) {
	if dm == nil {
		return nil, false
	}
	m, ok := dm.byEntry[entryID]
	return m, ok
}

// Stat returns the live stat of element in round.
func (dm *DataMap) Stat(round Round, element ElementID) (LiveStat, bool) {
	stat, ok := dm.Live[round][element]
	return stat, ok
}

// Points returns the element's base points for round, zero when unknown.
func (dm *DataMap) Points(round Round, element ElementID) int {
	return dm.Live[round][element].TotalPoints
}

// Minutes returns minutes played by element in round, zero when unknown.
func (dm *DataMap) Minutes(round Round, element ElementID) int {
	return dm.Live[round][element].Minutes
}

// LastFinishedRound is zero before the season starts.
func (dm *DataMap) LastFinishedRound() Round {
	if len(dm.FinishedRounds) == 0 {
		return 0
	}
	return dm.FinishedRounds[len(dm.FinishedRounds)-1]
}

func (dm *DataMap) IsFinished(round Round) bool {
	for _, r := range dm.FinishedRounds {
		if r == round {
			return true
		}
	}
	return false
}

// FullName falls back to "Player <id>" for unknown elements.
func (dm *DataMap) FullName(element ElementID) string {
	if p, ok := dm.Meta.Players[element]; ok && strings.TrimSpace(p.FullName) != "" {
		return p.FullName
	}
	return fmt.Sprintf("Player %d", element)
}

// WebName falls back to "#<id>" for unknown elements.
func (dm *DataMap) WebName(element ElementID) string {
	if p, ok := dm.Meta.Players[element]; ok && p.WebName != "" {
		return p.WebName
	}
	return fmt.Sprintf("#%d", element)
}

func (dm *DataMap) PositionOf(element ElementID) (Position, bool) {
	p, ok := dm.Meta.Players[element]
	if !ok {
		return 0, false
	}
	return p.Position, true
}

func (dm *DataMap) index() {
	dm.byEntry = make(map[int]*ManagerData, len(dm.Managers))
	for _, m := range dm.Managers {
		dm.byEntry[m.EntryID] = m
	}
}
