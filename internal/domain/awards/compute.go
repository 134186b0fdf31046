package awards

import (
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/fpl-pulse/internal/domain/season"
)

// Compute runs every calculator concurrently against dm. dm must not be
// modified while Compute runs.
func Compute(dm *season.DataMap, cfg Config) Results {
	cfg = cfg.normalize()
	n := cfg.TopN

	results := make(Results, len(Keys))
	var mu sync.Mutex
	set := func(key string, awards []Award) {
		mu.Lock()
		defer mu.Unlock()
		results[key] = awards
	}

	single := map[string]func() []Award{
		KeyLeagueLeaders:  func() []Award { return LeagueLeaders(dm, n) },
		KeyOneHitWonders:  func() []Award { return OneHitWonders(dm, n) },
		KeyHotStreak:      func() []Award { return HotStreak(dm, n) },
		KeyMostConsistent: func() []Award { return MostConsistent(dm, n) },
		KeyMostTransfers:  func() []Award { return MostTransfers(dm, n) },
		KeyMostHits:       func() []Award { return MostHits(dm, n) },
		KeyNeverGetFancy:  func() []Award { return NeverGetFancy(dm, cfg.ReferencePlayer, n) },
		KeyBenchDisaster:  func() []Award { return BenchDisaster(dm, n) },
		KeyEarlyBird:      func() []Award { return EarlyBird(dm, n) },
		KeyLateOwl:        func() []Award { return LateOwl(dm, n) },
		KeyMostMinutes:    func() []Award { return MostMinutes(dm, n) },
		KeyMostCards:      func() []Award { return MostCards(dm, n) },
		KeyMostBps:        func() []Award { return MostBps(dm, n) },
		KeyBestPunt:       func() []Award { return BestPunt(dm, n) },
	}

	var wg conc.WaitGroup
	for key, calc := range single {
		wg.Go(func() { set(key, calc()) })
	}
	wg.Go(func() {
		best, worst := Wildcards(dm, n)
		set(KeyBestWildcard, best)
		set(KeyWorstWildcard, worst)
	})
	wg.Go(func() {
		best, worst := FreeHits(dm, n)
		set(KeyBestFreeHit, best)
		set(KeyWorstFreeHit, worst)
	})
	wg.Wait()

	return results
}
