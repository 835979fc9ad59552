// Package prompt picks the show titles used to phrase vote survey questions.
// It is purely cosmetic and has no influence on usage scores.
package prompt

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Prompt pairs a service with the title to ask about.
type Prompt struct {
	ServiceID string
	Title     string
}

// Sampler draws one title per service from its pool.
type Sampler struct {
	rng   *rand.Rand
	pools map[string][]string
	mu    sync.Mutex
}

// NewSampler creates a sampler. A zero seed seeds from the clock.
func NewSampler(seed uint64, pools map[string][]string) *Sampler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	copied := make(map[string][]string, len(pools))
	for id, titles := range pools {
		copied[id] = append([]string(nil), titles...)
	}

	return &Sampler{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		pools: copied,
	}
}

// Sample returns a prompt for each service with a non-empty pool, in the
// order the ids were given. Services without titles are skipped.
func (s *Sampler) Sample(serviceIDs []string) []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompts := make([]Prompt, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		titles := s.pools[id]
		if len(titles) == 0 {
			continue
		}
		prompts = append(prompts, Prompt{
			ServiceID: id,
			Title:     titles[s.rng.IntN(len(titles))],
		})
	}
	return prompts
}
