// Package narrative turns computed pulse statistics into the copy shown on
// each page. Every function is pure and depends only on its arguments.
package narrative

import (
	"fmt"
	"math"

	"github.com/valyala/bytebufferpool"
)

// Intro describes the season by final overall rank.
func Intro(finalRank int) string {
	switch {
	case finalRank <= 10_000:
		return "A title-winning season for the ages. You'll be telling people about this one."
	case finalRank <= 50_000:
		return "Champions League football secured, no creative PSR accounting needed next season."
	case finalRank <= 100_000:
		return "So close... Europa League next season, but you'll be thinking about what might have been."
	case finalRank <= 250_000:
		return "Thursday Night Conference League. It counts, but only just."
	case finalRank <= 500_000:
		return "Top half of the table. Safely clear of drama, but nobody's writing books about it."
	case finalRank <= 1_000_000:
		return `Mid table. No Europe, no relegation... just a bit "meh".`
	case finalRank <= 3_000_000:
		return "The great escape... or was it more of a stumble across the line?"
	case finalRank <= 6_000_000:
		return "Relegated. The board has issued a dreaded vote of confidence."
	default:
		return "Be honest, was this an abandoned squad, or a masterclass in patience?"
	}
}

// RankShape summarises an overall rank series.
type RankShape struct {
	Final      int
	Peak       int
	Worst      int
	Variance   float64
	Last8Delta int
}

type clubProfile struct {
	match func(RankShape) bool
	line  string
}

// clubProfiles is ordered; the first match wins.
var clubProfiles = []clubProfile{
	{
		match: func(r RankShape) bool { return r.Final > 6_000_000 },
		line:  "Southampton. You gave up. They gave up. Nobody even noticed. Mutual self-destruction at its bleakest.",
	},
	{
		match: func(r RankShape) bool { return r.Final > 3_000_000 },
		line:  "Ipswich. Started like a fairytale, ended like a Netflix cancellation. The survival arc was over by Episode 2.",
	},
	{
		match: func(r RankShape) bool { return r.Peak < 500_000 && r.Final > 2_000_000 },
		line:  "Spurs. Great start. Great collapse. 'It's just who we are mate'. At least there's a trophy... somewhere.",
	},
	{
		match: func(r RankShape) bool { return r.Final > 1_000_000 && r.Last8Delta < 0 },
		line:  "Man Utd. 38 games of hatewatching and 'surely it can't get worse'. Until it did.",
	},
	{
		match: func(r RankShape) bool { return r.Variance > math.Pow(2_000_000, 2) },
		line:  "Newcastle. Chaos merchants. Points everywhere, clean sheets nowhere. Entertaining? Absolutely. Reliable? Never.",
	},
	{
		match: func(r RankShape) bool { return r.Peak < 250_000 && r.Last8Delta < -200_000 },
		line:  "Forest. Sprinkled early-season stardust, then vanished when the curtain rose. Final act? Disappearing trick.",
	},
	{
		match: func(r RankShape) bool { return r.Peak > 500_000 && r.Final < 500_000 },
		line:  "Chelsea. Opened like a drama, ended like a heist. Rallied late, while flogging hotels to fund another transfer window.",
	},
	{
		match: func(r RankShape) bool { return r.Final <= 10_000 },
		line:  "Liverpool. Laser-focused. No gimmicks. Just blood, thunder, and a locked-in top 10k finish.",
	},
	{
		match: func(r RankShape) bool { return r.Final <= 50_000 && r.Peak <= 50_000 },
		line:  "Arsenal. So nearly... again. Next year. Definitely. If hope was a trophy, you'd be invincibles.",
	},
	{
		match: func(r RankShape) bool { return r.Final <= 50_000 && r.Peak < 10_000 },
		line:  "Man City. Glimpses of god-mode, then a mysterious autopilot. Still elite, just... less terrifying.",
	},
	{
		match: func(r RankShape) bool { return r.Final <= 500_000 },
		line:  "Brighton. Tactical, tidy, no drama. A thinking person's fantasy team. Top half, no fuss.",
	},
	{
		match: func(RankShape) bool { return true },
		line:  "Brentford. Always there. Never loud. Your fantasy equivalent of beans on toast: solid, unspectacular, dependable.",
	},
}

// RankJourney matches the rank series to a club profile.
func RankJourney(r RankShape) string {
	for _, p := range clubProfiles {
		if p.match(r) {
			return p.line
		}
	}
	return ""
}

type BuiltAroundLines struct {
	TitleMVP       string `json:"titleMVP"`
	TitleMissed    string `json:"titleMissed"`
	SubtitleMVP    string `json:"subtitleMVP"`
	SubtitleMissed string `json:"subtitleMissed"`
}

func BuiltAround() BuiltAroundLines {
	return BuiltAroundLines{
		TitleMVP:       "Star Players",
		TitleMissed:    "The Ones That Got Away",
		SubtitleMVP:    "Who did you build around this season?",
		SubtitleMissed: "Which players did you refuse to bring in?",
	}
}

// Transfer timing profiles.
const (
	ProfileEdwards = "Michael Edwards"
	ProfileBloom   = "Tony Bloom"
	ProfileLevy    = "Daniel Levy"
)

// TransferProfile names the director of football that matches the average
// hours a manager moved before the deadline.
func TransferProfile(avgHours float64) string {
	switch {
	case avgHours > 72:
		return ProfileEdwards
	case avgHours > 24:
		return ProfileBloom
	default:
		return ProfileLevy
	}
}

// TransferTiming is the page copy for profile; an empty profile means no timed
// transfers.
func TransferTiming(profile string) string {
	switch profile {
	case "":
		return "We couldn't get a read on your transfer style this season."
	case ProfileEdwards:
		return "You moved earlier than most. Sharp, decisive. Michael Edwards has you on the shortlist."
	case ProfileBloom:
		return "Smart, patient, value-led. A true Tony Bloom operator. Brighton would approve."
	default:
		return "Your late moves each week had Daniel Levy wondering if it's time to bring 'Arry back for deadline day."
	}
}

// Regret is the stint whose best alternative gained the most points.
type Regret struct {
	Player     string
	Alt        string
	RoundIn    int
	RoundOut   int
	PointsDiff int
}

// PuntRegret is the stint whose best alternative gained the most per round.
type PuntRegret struct {
	Player  string
	Alt     string
	RoundIn int
	PPWDiff float64
}

type HitsAndMissesLines struct {
	IntroLine      string `json:"introLine"`
	InspiredLine   string `json:"inspiredLine"`
	RegretLine     string `json:"regretLine"`
	PuntRegretLine string `json:"puntRegretLine"`
}

func HitsAndMisses(regret *Regret, punt *PuntRegret) HitsAndMissesLines {
	lines := HitsAndMissesLines{
		IntroLine:    "Some inspired moves... and a few you'd probably rather forget.",
		InspiredLine: "Here are the transfers that truly paid off:",
	}

	if regret != nil {
		lines.RegretLine = fmt.Sprintf(
			"If only the FPL gods had whispered in your ear. Picking %s instead of %s from GW%d to GW%d would've netted you an extra %d points.",
			regret.Alt, regret.Player, regret.RoundIn, regret.RoundOut, regret.PointsDiff,
		)
	}
	if punt != nil {
		lines.PuntRegretLine = fmt.Sprintf(
			"We all love a punt... but that swing in GW%d for %s? Look away now... %s hauled %s more points per week. Oof.",
			punt.RoundIn, punt.Player, punt.Alt, compactDecimal(math.Abs(punt.PPWDiff)),
		)
	}
	return lines
}

// compactDecimal prints whole numbers without decimals and anything else to
// one decimal place.
func compactDecimal(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// Streak is a run of consecutive rank movements in one direction.
type Streak struct {
	StartRound int
	EndRound   int
	Length     int
}

type StreakLines struct {
	IntroLine      string `json:"introLine"`
	HotStreakLine  string `json:"hotStreakLine"`
	ColdStreakLine string `json:"coldStreakLine"`
}

var months = []string{
	"August", "September", "October", "November", "December",
	"January", "February", "March", "April",
}

// MonthOf maps a round to its calendar month in blocks of four, starting with
// August. Round 37 onwards is May.
func MonthOf(round int) string {
	switch {
	case round < 1:
		return ""
	case round >= 37:
		return "May"
	default:
		return months[(round-1)/4]
	}
}

func monthPhrase(s Streak) string {
	start, end := MonthOf(s.StartRound), MonthOf(s.EndRound)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if start == end {
		_, _ = buf.WriteString("in ")
		_, _ = buf.WriteString(start)
	} else {
		_, _ = fmt.Fprintf(buf, "between %s and %s", start, end)
	}
	return buf.String()
}

func Streaks(hot, cold *Streak) StreakLines {
	lines := StreakLines{
		IntroLine: "A season of streaks. Here's when you caught fire, and when the wheels came off.",
	}

	if hot != nil {
		phrase := monthPhrase(*hot)
		switch {
		case hot.Length <= 2:
			lines.HotStreakLine = fmt.Sprintf("Blink and you missed it: %d green arrows %s was as good as it got.", hot.Length, phrase)
		case hot.Length <= 5:
			lines.HotStreakLine = fmt.Sprintf("Your team hit top gear %s, stacking %d green arrows on the bounce.", phrase, hot.Length)
		default:
			lines.HotStreakLine = fmt.Sprintf("Blistering form %s, with %d consecutive weeks of green arrows.", phrase, hot.Length)
		}
	}

	if cold != nil {
		phrase := monthPhrase(*cold)
		switch {
		case cold.Length <= 3:
			lines.ColdStreakLine = fmt.Sprintf("Bit of a Sunday League wobble %s. %d red arrows, but no lasting damage.", phrase, cold.Length)
		case cold.Length <= 6:
			lines.ColdStreakLine = fmt.Sprintf("Rumours of the sack were swirling %s. %d straight red arrows didn't help.", phrase, cold.Length)
		default:
			lines.ColdStreakLine = fmt.Sprintf("Freefall %s: %d straight red arrows. Erik ten Hag was sacked for less. Ouch.", phrase, cold.Length)
		}
	}

	return lines
}
