// Package upstream holds the wire shapes returned by the FPL proxy. Field tags
// follow the upstream JSON exactly; validate tags describe the structural
// minimum the normalizer relies on.
package upstream

import "time"

type Bootstrap struct {
	Elements []Element `json:"elements" validate:"required,min=1,dive"`
	Events   []Event   `json:"events" validate:"required,min=1,dive"`
}

type Element struct {
	ID                int    `json:"id" validate:"required,gt=0"`
	FirstName         string `json:"first_name"`
	SecondName        string `json:"second_name"`
	WebName           string `json:"web_name"`
	ElementType       int    `json:"element_type" validate:"gte=1,lte=4"`
	SelectedByPercent string `json:"selected_by_percent"`
	NowCost           int    `json:"now_cost"`
}

type Event struct {
	ID           int       `json:"id" validate:"required,gt=0"`
	Name         string    `json:"name"`
	DeadlineTime time.Time `json:"deadline_time"`
	Finished     bool      `json:"finished"`
	IsCurrent    bool      `json:"is_current"`
}

type LeagueStandings struct {
	League     League     `json:"league"`
	Standings  Standings  `json:"standings"`
	NewEntries NewEntries `json:"new_entries"`
}

type League struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Standings struct {
	HasNext bool          `json:"has_next"`
	Page    int           `json:"page"`
	Results []StandingRow `json:"results" validate:"required,dive"`
}

type NewEntries struct {
	HasNext *bool `json:"has_next"`
}

type StandingRow struct {
	ID         int    `json:"id"`
	Entry      int    `json:"entry" validate:"required,gt=0"`
	EntryName  string `json:"entry_name"`
	PlayerName string `json:"player_name"`
	Rank       int    `json:"rank"`
	LastRank   int    `json:"last_rank"`
	Total      int    `json:"total"`
	EventTotal int    `json:"event_total"`
}

type EntrySummary struct {
	ID                   int    `json:"id" validate:"required,gt=0"`
	Name                 string `json:"name"`
	PlayerFirstName      string `json:"player_first_name"`
	PlayerLastName       string `json:"player_last_name"`
	SummaryOverallPoints int    `json:"summary_overall_points"`
	SummaryOverallRank   int    `json:"summary_overall_rank"`
	CurrentEvent         int    `json:"current_event"`
}

type EntryHistory struct {
	Current []HistoryRow `json:"current" validate:"required,dive"`
	Chips   []ChipPlay   `json:"chips"`
}

type HistoryRow struct {
	Event              int `json:"event" validate:"required,gt=0"`
	Points             int `json:"points"`
	TotalPoints        int `json:"total_points"`
	Rank               int `json:"rank"`
	OverallRank        int `json:"overall_rank"`
	Value              int `json:"value"`
	Bank               int `json:"bank"`
	EventTransfers     int `json:"event_transfers"`
	EventTransfersCost int `json:"event_transfers_cost"`
	PointsOnBench      int `json:"points_on_bench"`
}

type ChipPlay struct {
	Name  string    `json:"name"`
	Event int       `json:"event"`
	Time  time.Time `json:"time"`
}

type EntryPicks struct {
	ActiveChip   string     `json:"active_chip"`
	EntryHistory HistoryRow `json:"entry_history"`
	Picks        []Pick     `json:"picks" validate:"required,dive"`
}

// Pick carries both vice-captain spellings: the per-round endpoint sends
// is_vice_captain and the season blob sends is_vice.
type Pick struct {
	Element       int  `json:"element" validate:"required,gt=0"`
	Position      int  `json:"position" validate:"gte=1,lte=15"`
	Multiplier    int  `json:"multiplier" validate:"gte=0,lte=3"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
	IsVice        bool `json:"is_vice"`
}

type Transfer struct {
	Entry          int       `json:"entry"`
	Event          int       `json:"event"`
	ElementIn      int       `json:"element_in"`
	ElementInCost  int       `json:"element_in_cost"`
	ElementOut     int       `json:"element_out"`
	ElementOutCost int       `json:"element_out_cost"`
	Time           time.Time `json:"time"`
}

type LiveRound struct {
	Elements []LiveElement `json:"elements" validate:"required,dive"`
}

type LiveElement struct {
	ID    int       `json:"id" validate:"required,gt=0"`
	Stats LiveStats `json:"stats"`
}

type LiveStats struct {
	Minutes     int `json:"minutes"`
	TotalPoints int `json:"total_points"`
	YellowCards int `json:"yellow_cards"`
	RedCards    int `json:"red_cards"`
	Bonus       int `json:"bonus"`
	BPS         int `json:"bps"`
}

type ElementSummary struct {
	History []ElementRound `json:"history" validate:"required,dive"`
}

// ElementRound is one fixture row; Value is the price in tenths of a million.
type ElementRound struct {
	Element     int `json:"element"`
	Round       int `json:"round" validate:"required,gt=0"`
	Value       int `json:"value"`
	TotalPoints int `json:"total_points"`
}

// EntryBlob is the precomputed season document for one entry. Map keys are
// round numbers rendered as strings.
type EntryBlob struct {
	Summary     EntrySummary         `json:"summary"`
	GWSummaries map[string]GWSummary `json:"gw_summaries" validate:"required"`
	PicksByGW   map[string]BlobPicks `json:"picks_by_gw" validate:"required"`
	Transfers   []Transfer           `json:"transfers" validate:"required"`
}

type GWSummary struct {
	Points             int `json:"points"`
	Total              int `json:"total"`
	GWRank             int `json:"gw_rank"`
	OverallRank        int `json:"overall_rank"`
	Value              int `json:"value"`
	Bank               int `json:"bank"`
	EventTransfers     int `json:"event_transfers"`
	EventTransfersCost int `json:"event_transfers_cost"`
}

type BlobPicks struct {
	ActiveChip    string `json:"active_chip"`
	PointsOnBench int    `json:"points_on_bench"`
	Picks         []Pick `json:"picks" validate:"required,dive"`
}

// EntryBuildState is the body of a 202 from the entry blob endpoint.
type EntryBuildState struct {
	Status          string `json:"status"`
	LastGWProcessed int    `json:"last_gw_processed"`
}

type EntriesPack struct {
	Entries map[string]*EntryBlob `json:"entries" validate:"required"`
	Members []PackMember          `json:"members" validate:"required"`
}

type PackMember struct {
	Entry      int    `json:"entry"`
	PlayerName string `json:"player_name"`
	EntryName  string `json:"entry_name"`
}

type SeasonElements struct {
	GWs map[string]SeasonRound `json:"gws" validate:"required"`
}

type SeasonRound struct {
	Elements []LiveElement `json:"elements"`
}
