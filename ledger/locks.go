package ledger

import "sync"

// pairLocks serializes mutations per (portfolio, stock) pair. Distinct pairs
// proceed in parallel; the same pair runs its whole
// validate/write/recompute cascade under one lock. Entries are never
// reclaimed; the universe of pairs is bounded by portfolio size.
type pairLocks struct {
	mu    sync.Mutex
	locks map[pairKey]*sync.Mutex
}

type pairKey struct {
	portfolioID uint
	stockID     uint
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[pairKey]*sync.Mutex)}
}

// Lock acquires the pair's mutex and returns its unlock func.
func (p *pairLocks) Lock(portfolioID, stockID uint) func() {
	key := pairKey{portfolioID, stockID}

	p.mu.Lock()
	m, ok := p.locks[key]
	if !ok {
		m = &sync.Mutex{}
		p.locks[key] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m.Unlock
}
