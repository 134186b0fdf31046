package narrative

import (
	"fmt"

	"github.com/valyala/bytebufferpool"
)

type Owned struct {
	Player string
	Weeks  int
}

type TransferredIn struct {
	Player     string
	Times      int
	Points     int
	AvgPerWeek float64
}

type LoyaltyLines struct {
	IntroLine     string `json:"introLine"`
	LoyaltyLine   string `json:"loyaltyLine"`
	BenchLine     string `json:"benchLine"`
	TransfersLine string `json:"transfersLine"`
	DeadTeamLine  string `json:"deadTeamLine"`
}

// Loyalty writes the page copy for squad regulars. transferCount is the
// number of transfers made all season.
func Loyalty(owned, benched *Owned, in *TransferredIn, transferCount int) LoyaltyLines {
	lines := LoyaltyLines{
		IntroLine: "Behind every FPL manager is a cast of regulars, benchwarmers, and serial comebacks. Here's yours.",
	}

	if owned != nil {
		lines.LoyaltyLine = fmt.Sprintf("You worshipped at the FPL throne of %s. They spent %d weeks in your squad.", owned.Player, owned.Weeks)
	}
	if benched != nil {
		lines.BenchLine = fmt.Sprintf("%s warmed your bench for %d weeks this season. Now that's loyalty.", benched.Player, benched.Weeks)
	}

	if in != nil {
		avg := fmt.Sprintf("%.1f", in.AvgPerWeek)
		switch {
		case in.AvgPerWeek >= 5:
			lines.TransfersLine = fmt.Sprintf("You rode the hot hand with %s: %d transfers, %d points (%s pts/week).", in.Player, in.Times, in.Points, avg)
		case in.AvgPerWeek >= 2.5:
			lines.TransfersLine = fmt.Sprintf("Steady if unspectacular. %s earned %d points (%s pts/week) across %d transfers in.", in.Player, in.Points, avg, in.Times)
		default:
			lines.TransfersLine = fmt.Sprintf(`"Fool me once..." %s found their way into your squad %d times, stumbling to just %d points (%s pts/week).`, in.Player, in.Times, in.Points, avg)
		}
	}

	if in == nil && transferCount == 0 {
		lines.DeadTeamLine = "A true set-and-forget manager. Not a single transfer all season!"
	}

	return lines
}

// ChipPlay compares a chip's actual return with the best round it could have
// been played in.
type ChipPlay struct {
	Used        bool
	Round       int
	Points      int
	BetterWeeks int
	BestRound   int
	BestPoints  int
}

type ChipLines struct {
	IntroLine  string `json:"introLine"`
	TCLine     string `json:"tcLine"`
	TCSubtitle string `json:"tcSubtitle"`
	BBLine     string `json:"bbLine"`
	BBSubtitle string `json:"bbSubtitle"`
}

func Chips(tc, bb ChipPlay) ChipLines {
	return ChipLines{
		IntroLine:  "Did you target the doubles (with a little help from Ben Crellin), or swing for the fences? Here's how your chips played out.",
		TCLine:     tripleCaptainLine(tc),
		TCSubtitle: chipSubtitle("Triple Captain", tc),
		BBLine:     benchBoostLine(bb),
		BBSubtitle: chipSubtitle("Bench Boost", bb),
	}
}

func tripleCaptainLine(c ChipPlay) string {
	if !c.Used {
		if c.BestRound == 0 {
			return "You never used your triple captain."
		}
		return fmt.Sprintf("You never used your triple captain. Here are the points you missed out on: %d pts in GW%d.", c.BestPoints, c.BestRound)
	}

	switch {
	case c.BetterWeeks == 0:
		return fmt.Sprintf("Nailed it. Your triple captain in GW%d returned %d points, and there wasn't a better week all season.", c.Round, c.Points)
	case c.BetterWeeks <= 2:
		return fmt.Sprintf("Right idea, wrong week. GW%d triple captain for %d pts, but %d other weeks had more upside (best: %d pts in GW%d).", c.Round, c.Points, c.BetterWeeks, c.BestPoints, c.BestRound)
	case c.BetterWeeks <= 5:
		return fmt.Sprintf("Not good, but not bad either. You played triple captain in GW%d for %d points, though %d better weeks slipped by (best: %d pts in GW%d).", c.Round, c.Points, c.BetterWeeks, c.BestPoints, c.BestRound)
	default:
		return fmt.Sprintf("You'll want this chip back. %d weeks would've outdone your GW%d triple captain (%d pts). Best chance? %d pts in GW%d.", c.BetterWeeks, c.Round, c.Points, c.BestPoints, c.BestRound)
	}
}

func benchBoostLine(c ChipPlay) string {
	if !c.Used {
		if c.BestRound == 0 {
			return "You never used your bench boost."
		}
		return fmt.Sprintf("You never used your bench boost. Here's what you missed: %d pts in GW%d.", c.BestPoints, c.BestRound)
	}

	switch {
	case c.BetterWeeks == 0:
		return fmt.Sprintf("Great call. Your bench boost in GW%d delivered %d points, couldn't have played it any better.", c.Round, c.Points)
	case c.BetterWeeks <= 2:
		return fmt.Sprintf("Close, but not quite. GW%d bench boost scored %d pts, but %d other weeks had bigger benches (best: %d pts in GW%d).", c.Round, c.Points, c.BetterWeeks, c.BestPoints, c.BestRound)
	case c.BetterWeeks <= 5:
		return fmt.Sprintf("An average shout. Bench boost in GW%d scored %d pts, though %d stronger bench weeks slipped through (best: %d pts in GW%d).", c.Round, c.Points, c.BetterWeeks, c.BestPoints, c.BestRound)
	default:
		return fmt.Sprintf("You'll want this chip back. %d weeks would've outscored your GW%d bench boost (%d pts). Best bench? %d pts in GW%d.", c.BetterWeeks, c.Round, c.Points, c.BestPoints, c.BestRound)
	}
}

func chipSubtitle(name string, c ChipPlay) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(name)
	if c.Used {
		_, _ = fmt.Fprintf(buf, ": GW%d, %d pts", c.Round, c.Points)
	} else {
		_, _ = buf.WriteString(": not used")
	}
	return buf.String()
}

// Standout is a squad player singled out on the team of the year page.
type Standout struct {
	Player      string
	TotalPoints int
	WeeksOwned  int
	AvgPerWeek  float64
}

type TeamOfTheYearLines struct {
	IntroLine      string `json:"introLine"`
	TalismanLine   string `json:"talismanLine"`
	UnsungHeroLine string `json:"unsungHeroLine"`
	BenchFlopLine  string `json:"benchFlopLine"`
}

func TeamOfTheYear(talisman, unsungHero, benchFlop *Standout) TeamOfTheYearLines {
	lines := TeamOfTheYearLines{
		IntroLine: "Here's the XI that carried your season: your FPL Pulse Team of the Year.",
	}
	if talisman != nil {
		lines.TalismanLine = fmt.Sprintf("%s led the charge: %d points over %d weeks (%.1f pts/week).", talisman.Player, talisman.TotalPoints, talisman.WeeksOwned, talisman.AvgPerWeek)
	}
	if unsungHero != nil {
		lines.UnsungHeroLine = fmt.Sprintf("%s proved a brilliant pick: %d points with an impressive %.1f pts/week.", unsungHero.Player, unsungHero.TotalPoints, unsungHero.AvgPerWeek)
	}
	if benchFlop != nil {
		lines.BenchFlopLine = fmt.Sprintf("One to forget. %s limped to %d points despite %d appearances.", benchFlop.Player, benchFlop.TotalPoints, benchFlop.WeeksOwned)
	}
	return lines
}

type CTALines struct {
	IntroLine string `json:"introLine"`
}

func CTA() CTALines {
	return CTALines{IntroLine: "Thanks for playing. Here's to another year of chaos and glory."}
}
