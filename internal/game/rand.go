package game

import (
	"math/rand"
	"sync"
)

// Rand is the source of randomness for word picks, distractor draws and
// shuffles. Tests inject a seeded or scripted implementation.
type Rand interface {
	// Intn returns a value in [0, n). n is always > 0.
	Intn(n int) int
}

// lockedRand serializes access to a *rand.Rand so one generator can be
// shared between the engine and request handlers.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// NewRand returns a seeded pseudo-random generator that is safe for
// concurrent use
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}
