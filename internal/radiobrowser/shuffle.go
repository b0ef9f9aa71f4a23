package radiobrowser

import (
	"math/rand"
	"sync"
	"time"
)

// Shuffler reorders mirror hosts in place before a listing query.
type Shuffler func(hosts []string)

// randomSource is shared by every client that does not inject a Shuffler.
var randomSource = rand.New(&lockedRandSource{
	Source: rand.NewSource(time.Now().UnixNano()),
})

// lockedRandSource guards the underlying source so concurrent queries can
// shuffle without racing.
type lockedRandSource struct {
	sync.Mutex
	rand.Source
}

// Int63 satisfies rand.Source.
func (r *lockedRandSource) Int63() int64 {
	r.Lock()
	defer r.Unlock()
	return r.Source.Int63()
}

// Seed satisfies rand.Source.
func (r *lockedRandSource) Seed(seed int64) {
	r.Lock()
	defer r.Unlock()
	r.Source.Seed(seed)
}

// RandomShuffler spreads load across mirrors with a uniform permutation.
func RandomShuffler(hosts []string) {
	randomSource.Shuffle(len(hosts), func(i, j int) {
		hosts[i], hosts[j] = hosts[j], hosts[i]
	})
}

// KeepOrder leaves hosts as discovery returned them.
func KeepOrder([]string) {}
