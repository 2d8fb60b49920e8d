package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// SubmitTransaction adds a new transaction to the mempool and returns the
// index of the block the transaction is expected to be sealed in.
func (s *State) SubmitTransaction(tx database.Tx) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.mempool.Add(tx)
	s.evHandler("state: SubmitTransaction: tx[%s]: pending[%d]", tx, n)

	return uint64(s.chain.Len()) + 1
}
