package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// RetrieveNodeID returns the identity of this node.
func (s *State) RetrieveNodeID() string {
	return s.nodeID
}

// RetrieveChain returns a copy of the chain.
func (s *State) RetrieveChain() []database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Copy()
}

// RetrieveBlock returns the block with the specified number. Block numbers
// start at 1. memory.ErrNotFound is returned when the chain is shorter.
func (s *State) RetrieveBlock(num uint64) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.GetBlock(num)
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() (database.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.LatestBlock()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.knownPeers.Copy()
}

// RetrieveStatus returns the current status of this node.
func (s *State) RetrieveStatus() peer.PeerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hash string
	if latestBlock, exists := s.chain.LatestBlock(); exists {
		hash = latestBlock.Hash()
	}

	return peer.PeerStatus{
		NodeID:          s.nodeID,
		Length:          s.chain.Len(),
		LatestBlockHash: hash,
		Pending:         s.mempool.Count(),
		KnownPeers:      s.knownPeers.Copy(),
	}
}
