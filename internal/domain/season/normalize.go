package season

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-pulse/internal/domain/upstream"
)

// ErrFoundationalData means bootstrap or standings data is missing, so no
// trustworthy DataMap can be built.
var ErrFoundationalData = errors.New("foundational season data unavailable")

type Options struct {
	SeasonLength int
}

// Source is the upstream payload set a DataMap is built from. It is either
// Incremental or Bulk.
type Source interface {
	source()
}

// Incremental is the per-manager, per-round fetch shape. Any payload may be nil
// when its fetch failed.
type Incremental struct {
	Standings []upstream.StandingRow
	Bootstrap *upstream.Bootstrap
	Managers  []IncrementalManager
	Live      map[Round]*upstream.LiveRound
}

type IncrementalManager struct {
	EntryID   int
	History   *upstream.EntryHistory
	Picks     map[Round]*upstream.EntryPicks
	Transfers []upstream.Transfer
}

// Bulk is the precomputed shape: one entries pack for the league and one
// season-wide live table.
type Bulk struct {
	Standings []upstream.StandingRow
	Bootstrap *upstream.Bootstrap
	Pack      *upstream.EntriesPack
	Elements  *upstream.SeasonElements
}

func (Incremental) source() {}
func (Bulk) source()        {}

// Normalize converts either source shape into the same DataMap. It never
// mutates its input and returns equal maps for equal input.
func Normalize(src Source, opts Options) (*DataMap, error) {
	switch s := src.(type) {
	case Incremental:
		return normalizeIncremental(s, opts)
	case *Incremental:
		if s == nil {
			return nil, fmt.Errorf("%w: nil incremental source", ErrFoundationalData)
		}
		return normalizeIncremental(*s, opts)
	case Bulk:
		return normalizeBulk(s, opts)
	case *Bulk:
		if s == nil {
			return nil, fmt.Errorf("%w: nil bulk source", ErrFoundationalData)
		}
		return normalizeBulk(*s, opts)
	default:
		return nil, fmt.Errorf("unsupported season source %T", src)
	}
}

// SampleStandings keeps the first limit rows in standings order. sampled is
// true when rows were dropped. A limit <= 0 keeps everything.
func SampleStandings(results []upstream.StandingRow, limit int) ([]upstream.StandingRow, bool) {
	if limit <= 0 || len(results) <= limit {
		return append([]upstream.StandingRow(nil), results...), false
	}
	return append([]upstream.StandingRow(nil), results[:limit]...), true
}

func normalizeIncremental(src Incremental, opts Options) (*DataMap, error) {
	dm, err := newDataMap(src.Bootstrap, src.Standings, opts)
	if err != nil {
		return nil, err
	}

	for _, round := range dm.FinishedRounds {
		if live := src.Live[round]; live != nil {
			dm.Live[round] = liveStats(live.Elements)
		}
	}

	byEntry := make(map[int]IncrementalManager, len(src.Managers))
	for _, m := range src.Managers {
		if _, seen := byEntry[m.EntryID]; !seen {
			byEntry[m.EntryID] = m
		}
	}

	for _, row := range src.Standings {
		raw, ok := byEntry[row.Entry]
		if !ok || raw.History == nil {
			continue
		}

		m := newManagerData(row)
		rows := make([]RoundSummary, 0, len(raw.History.Current))
		for _, h := range raw.History.Current {
			rows = append(rows, RoundSummary{
				Round:        h.Event,
				Points:       h.Points,
				TotalPoints:  h.TotalPoints,
				RoundRank:    h.Rank,
				OverallRank:  h.OverallRank,
				Value:        h.Value,
				Bank:         h.Bank,
				Transfers:    h.EventTransfers,
				TransferCost: h.EventTransfersCost,
			})
		}
		m.setHistory(rows, dm.SeasonLength)

		for _, round := range dm.FinishedRounds {
			picks := raw.Picks[round]
			if picks == nil || picks.Picks == nil {
				continue
			}
			m.addRound(round, picks.ActiveChip, picks.EntryHistory.PointsOnBench, picks.Picks, func(p upstream.Pick) bool {
				return p.IsViceCaptain
			})
		}

		m.setTransfers(raw.Transfers)
		dm.Managers = append(dm.Managers, m)
	}

	dm.index()
	return dm, nil
}

func normalizeBulk(src Bulk, opts Options) (*DataMap, error) {
	dm, err := newDataMap(src.Bootstrap, src.Standings, opts)
	if err != nil {
		return nil, err
	}
	if src.Pack == nil || src.Pack.Entries == nil {
		return nil, fmt.Errorf("%w: entries pack missing", ErrFoundationalData)
	}

	if src.Elements != nil {
		for _, round := range dm.FinishedRounds {
			if gw, ok := src.Elements.GWs[strconv.Itoa(round)]; ok && gw.Elements != nil {
				dm.Live[round] = liveStats(gw.Elements)
			}
		}
	}

	for _, row := range src.Standings {
		blob := src.Pack.Entries[strconv.Itoa(row.Entry)]
		if blob == nil || blob.GWSummaries == nil {
			continue
		}

		m := newManagerData(row)
		rows := make([]RoundSummary, 0, len(blob.GWSummaries))
		for key, s := range blob.GWSummaries {
			round, err := strconv.Atoi(strings.TrimSpace(key))
			if err != nil {
				continue
			}
			rows = append(rows, RoundSummary{
				Round:        round,
				Points:       s.Points,
				TotalPoints:  s.Total,
				RoundRank:    s.GWRank,
				OverallRank:  s.OverallRank,
				Value:        s.Value,
				Bank:         s.Bank,
				Transfers:    s.EventTransfers,
				TransferCost: s.EventTransfersCost,
			})
		}
		m.setHistory(rows, dm.SeasonLength)

		for _, round := range dm.FinishedRounds {
			picks, ok := blob.PicksByGW[strconv.Itoa(round)]
			if !ok || picks.Picks == nil {
				continue
			}
			m.addRound(round, picks.ActiveChip, picks.PointsOnBench, picks.Picks, func(p upstream.Pick) bool {
				return p.IsVice
			})
		}

		m.setTransfers(blob.Transfers)
		dm.Managers = append(dm.Managers, m)
	}

	dm.index()
	return dm, nil
}

func newDataMap(bootstrap *upstream.Bootstrap, standings []upstream.StandingRow, opts Options) (*DataMap, error) {
	if bootstrap == nil || len(bootstrap.Elements) == 0 || len(bootstrap.Events) == 0 {
		return nil, fmt.Errorf("%w: bootstrap missing elements or events", ErrFoundationalData)
	}
	if standings == nil {
		return nil, fmt.Errorf("%w: standings missing", ErrFoundationalData)
	}

	seasonLength := opts.SeasonLength
	if seasonLength <= 0 {
		seasonLength = DefaultSeasonLength
	}

	dm := &DataMap{
		Managers:       make([]*ManagerData, 0, len(standings)),
		Live:           make(LiveTable),
		FinishedRounds: []Round{},
		SeasonLength:   seasonLength,
		Meta: Meta{
			Players:   make(map[ElementID]PlayerMeta, len(bootstrap.Elements)),
			Order:     make([]ElementID, 0, len(bootstrap.Elements)),
			Deadlines: make(map[Round]time.Time, len(bootstrap.Events)),
		},
	}

	for _, el := range bootstrap.Elements {
		if _, dup := dm.Meta.Players[el.ID]; dup {
			continue
		}
		ownership, err := strconv.ParseFloat(strings.TrimSpace(el.SelectedByPercent), 64)
		dm.Meta.Players[el.ID] = PlayerMeta{
			ID:                el.ID,
			FullName:          strings.TrimSpace(el.FirstName + " " + el.SecondName),
			WebName:           el.WebName,
			Position:          Position(el.ElementType),
			SelectedByPercent: ownership,
			OwnershipKnown:    err == nil,
		}
		dm.Meta.Order = append(dm.Meta.Order, el.ID)
	}

	for _, ev := range bootstrap.Events {
		if ev.ID < 1 || ev.ID > seasonLength {
			continue
		}
		if !ev.DeadlineTime.IsZero() {
			dm.Meta.Deadlines[ev.ID] = ev.DeadlineTime
		}
		if ev.Finished {
			dm.FinishedRounds = append(dm.FinishedRounds, ev.ID)
		}
	}
	sort.Ints(dm.FinishedRounds)
	dm.FinishedRounds = dedupeSorted(dm.FinishedRounds)

	for _, round := range dm.FinishedRounds {
		dm.Live[round] = map[ElementID]LiveStat{}
	}

	return dm, nil
}

func newManagerData(row upstream.StandingRow) *ManagerData {
	return &ManagerData{
		EntryID:            row.Entry,
		Name:               row.PlayerName,
		TeamName:           row.EntryName,
		History:            []RoundSummary{},
		Picks:              map[Round][]Pick{},
		Chips:              newChipUsage(),
		Transfers:          []Transfer{},
		Captain:            map[Round]ElementID{},
		ViceCaptain:        map[Round]ElementID{},
		BenchPoints:        map[Round]int{},
		TotalPointsByRound: map[Round]int{},
	}
}

func (m *ManagerData) setHistory(rows []RoundSummary, seasonLength int) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Round < rows[j].Round })

	for _, row := range rows {
		if row.Round < 1 || row.Round > seasonLength {
			continue
		}
		if n := len(m.History); n > 0 && m.History[n-1].Round == row.Round {
			continue
		}
		m.History = append(m.History, row)
		m.TotalPointsByRound[row.Round] = row.TotalPoints
	}
}

// addRound records one finished round's squad. Rounds must be added in
// ascending order so chip rounds stay sorted.
func (m *ManagerData) addRound(round Round, activeChip string, bench int, raw []upstream.Pick, isVice func(upstream.Pick) bool) {
	picks := make([]Pick, 0, len(raw))
	for _, p := range raw {
		pick := Pick{
			Element:       p.Element,
			Position:      p.Position,
			Multiplier:    p.Multiplier,
			IsCaptain:     p.IsCaptain,
			IsViceCaptain: isVice(p),
		}
		picks = append(picks, pick)

		if pick.IsCaptain {
			if _, set := m.Captain[round]; !set {
				m.Captain[round] = pick.Element
			}
		}
		if pick.IsViceCaptain {
			if _, set := m.ViceCaptain[round]; !set {
				m.ViceCaptain[round] = pick.Element
			}
		}
	}

	m.Picks[round] = picks
	m.BenchPoints[round] = bench
	if chip, ok := ParseChip(activeChip); ok {
		m.Chips[chip] = append(m.Chips[chip], round)
	}
}

func (m *ManagerData) setTransfers(raw []upstream.Transfer) {
	for _, t := range raw {
		if t.Event < 1 {
			continue
		}
		m.Transfers = append(m.Transfers, Transfer{
			Round:      t.Event,
			ElementIn:  t.ElementIn,
			ElementOut: t.ElementOut,
			Time:       t.Time,
		})
	}
}

func liveStats(elements []upstream.LiveElement) map[ElementID]LiveStat {
	out := make(map[ElementID]LiveStat, len(elements))
	for _, el := range elements {
		out[el.ID] = LiveStat{
			TotalPoints: el.Stats.TotalPoints,
			Minutes:     el.Stats.Minutes,
			YellowCards: el.Stats.YellowCards,
			RedCards:    el.Stats.RedCards,
			Bonus:       el.Stats.Bonus,
		}
	}
	return out
}

func dedupeSorted(rounds []Round) []Round {
	out := rounds[:0]
	for i, r := range rounds {
		if i > 0 && r == rounds[i-1] {
			continue
		}
		out = append(out, r)
	}
	return out
}
