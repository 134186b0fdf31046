// Package awards ranks the managers of a league across the season's award
// categories. Every calculator is a pure function of a season.DataMap.
package awards

// Award keys, in presentation order.
const (
	KeyLeagueLeaders  = "leagueLeaders"
	KeyOneHitWonders  = "oneHitWonders"
	KeyHotStreak      = "hotStreak"
	KeyMostConsistent = "mostConsistent"
	KeyMostTransfers  = "mostTransfers"
	KeyMostHits       = "mostHits"
	KeyBestWildcard   = "bestWildcard"
	KeyWorstWildcard  = "worstWildcard"
	KeyNeverGetFancy  = "neverGetFancy"
	KeyBenchDisaster  = "benchDisaster"
	KeyEarlyBird      = "earlyBird"
	KeyLateOwl        = "lateOwl"
	KeyBestFreeHit    = "bestFreeHit"
	KeyWorstFreeHit   = "worstFreeHit"
	KeyMostMinutes    = "mostMinutes"
	KeyMostCards      = "mostCards"
	KeyMostBps        = "mostBps"
	KeyBestPunt       = "bestPunt"
)

// Keys lists every award key in presentation order.
var Keys = []string{
	KeyLeagueLeaders, KeyOneHitWonders, KeyHotStreak, KeyMostConsistent,
	KeyMostTransfers, KeyMostHits, KeyBestWildcard, KeyWorstWildcard,
	KeyNeverGetFancy, KeyBenchDisaster, KeyEarlyBird, KeyLateOwl,
	KeyBestFreeHit, KeyWorstFreeHit, KeyMostMinutes, KeyMostCards,
	KeyMostBps, KeyBestPunt,
}

// DefaultReferencePlayer is the element the captaincy award compares against.
const DefaultReferencePlayer = 328

// Award is one ranked manager in an award category.
type Award struct {
	EntryID  int            `json:"entryId"`
	Name     string         `json:"name"`
	TeamName string         `json:"teamName"`
	Score    float64        `json:"score"`
	Display  string         `json:"display"`
	Context  map[string]any `json:"context"`
}

// Results maps an award key to its ranked winners.
type Results map[string][]Award

type Config struct {
	TopN            int
	ReferencePlayer int
}

func DefaultConfig() Config {
	return Config{
		TopN:            3,
		ReferencePlayer: DefaultReferencePlayer,
	}
}

func (c Config) normalize() Config {
	if c.TopN <= 0 {
		c.TopN = 3
	}
	if c.ReferencePlayer <= 0 {
		c.ReferencePlayer = DefaultReferencePlayer
	}
	return c
}
