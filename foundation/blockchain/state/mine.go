package state

import (
	"context"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// MineNewBlock solves the proof of work against the latest block and seals
// the mempool into a new block. The reward for this node is added to the
// mempool before it is drained so the reward lands in the mined block.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	latestBlock, exists := s.chain.LatestBlock()
	if !exists {
		return database.Block{}, ErrEmptyChain
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW: blk[%d]", latestBlock.Index+1)

	proof, err := database.POW(ctx, latestBlock.Proof, s.evHandler)
	if err != nil {
		return database.Block{}, fmt.Errorf("performing pow: %w", err)
	}

	s.evHandler("state: MineNewBlock: MINING: add reward: node[%s]", s.nodeID)

	s.mempool.Add(database.NewRewardTx(s.nodeID))

	prevHash := latestBlock.Hash()
	return s.newBlock(proof, &prevHash)
}

// NewBlock seals the mempool into a new block with the specified proof and
// previous hash and appends it to the chain.
func (s *State) NewBlock(proof uint64, previousHash *string) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.newBlock(proof, previousHash)
}

// =============================================================================

// newBlock performs the work of draining the mempool and appending the new
// block. The caller must hold the state lock.
func (s *State) newBlock(proof uint64, previousHash *string) (database.Block, error) {
	trans := s.mempool.Drain()
	block := database.NewBlock(uint64(s.chain.Len())+1, trans, proof, previousHash)

	if err := s.chain.Write(block); err != nil {
		return database.Block{}, fmt.Errorf("writing block: %w", err)
	}

	s.evHandler("state: newBlock: blk[%d]: trans[%d]: hash[%s]", block.Index, len(trans), block.Hash())

	return block, nil
}
