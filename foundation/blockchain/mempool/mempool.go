// Package mempool maintains the pool of transactions waiting to be sealed
// into the next block.
package mempool

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Mempool represents the ordered set of pending transactions. Transactions
// are kept in submission order. A Mempool is owned by the state package,
// which serializes access to it, so it does no locking of its own.
type Mempool struct {
	pool []database.Tx
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{
		pool: []database.Tx{},
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the new
// number of transactions in the pool.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.pool = append(mp.pool, tx)
	return len(mp.pool)
}

// Drain hands back every pending transaction in submission order and leaves
// a fresh empty pool in its place. The caller owns the returned slice.
func (mp *Mempool) Drain() []database.Tx {
	trans := mp.pool
	mp.pool = []database.Tx{}

	return trans
}

// Copy returns a copy of the pending transactions.
func (mp *Mempool) Copy() []database.Tx {
	trans := make([]database.Tx, len(mp.pool))
	copy(trans, mp.pool)
	return trans
}
