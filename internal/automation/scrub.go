package automation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/pacer/internal/pacer"
)

// ScrubConfig defines randomized scrubbing trials
type ScrubConfig struct {
	NumTrials int
	Updates   int
	Margin    float64
	Seed      int64
}

// ScrubResult holds the outcome of one trial
type ScrubResult struct {
	TrialID    int
	Times      []float64
	KeyEvents  int
	Expected   int
	Consistent bool // every guaranteed keyframe fired once per crossing
}

// RunScrub drives fresh tracks from build through random, non-monotonic
// update sequences spanning the track range plus margin on both sides, and
// checks that every guaranteed keyframe fired exactly once for each time the
// cursor crossed it.
func RunScrub(ctx context.Context, cfg *ScrubConfig, build func() (*pacer.Track, error)) ([]ScrubResult, error) {
	results := make([]ScrubResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		tr, err := build()
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		fired := make(map[*pacer.Keyframe]int)
		tr.AddObserver(pacer.ObserverFunc(func(e pacer.Event) {
			if e.Kind == pacer.EventKey {
				fired[e.Key]++
			}
		}))

		lo := tr.TimeStart() - cfg.Margin
		hi := tr.TimeStop() + cfg.Margin
		times := make([]float64, cfg.Updates)
		for i := range times {
			times[i] = lo + rng.Float64()*(hi-lo)
		}

		prev := tr.TimeCursor()
		expected := make(map[*pacer.Keyframe]int)
		for _, now := range times {
			for _, k := range tr.Keys() {
				if k.Guaranteed() && crosses(prev, now, k.TimeAbsolute()) {
					expected[k]++
				}
			}
			tr.Update(now)
			prev = now
		}

		res := ScrubResult{TrialID: trial, Times: times, Consistent: true}
		for _, k := range tr.Keys() {
			if !k.Guaranteed() {
				continue
			}
			res.KeyEvents += fired[k]
			res.Expected += expected[k]
			if fired[k] != expected[k] {
				res.Consistent = false
			}
		}
		results = append(results, res)
	}

	return results, nil
}

// crosses reports whether moving from prev to now passes time t, where a key
// counts as reached once now >= t going forward and left once now < t going
// backward.
func crosses(prev, now, t float64) bool {
	if now > prev {
		return prev < t && t <= now
	}
	return now < t && t <= prev
}

// ScrubStats counts consistent and inconsistent trials
func ScrubStats(results []ScrubResult) (consistent int, inconsistent int) {
	for _, r := range results {
		if r.Consistent {
			consistent++
		} else {
			inconsistent++
		}
	}
	return
}
