// Package memory implements the in-memory chain of blocks using a slice.
// Nothing is persisted, the chain lives only as long as the process.
package memory

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ErrNotFound is returned when a block number doesn't exist in the chain.
var ErrNotFound = errors.New("block does not exist")

// Memory represents the chain of blocks held in a slice. Blocks are only ever
// appended, or the whole sequence is replaced. A Memory value is not safe for
// concurrent use, the state package serializes all access.
type Memory struct {
	blocks []database.Block
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{}
}

// Write appends the specified block to the end of the chain.
func (m *Memory) Write(block database.Block) error {
	l := uint64(len(m.blocks))
	if l+1 != block.Index {
		return fmt.Errorf("block is out of order, got %d, exp %d", block.Index, l+1)
	}

	m.blocks = append(m.blocks, block)

	return nil
}

// GetBlock searches the chain to locate and return the contents of
// the specified block by number. Block numbers start at 1.
func (m *Memory) GetBlock(num uint64) (database.Block, error) {
	l := uint64(len(m.blocks))
	if num == 0 || num > l {
		return database.Block{}, ErrNotFound
	}

	return m.blocks[num-1], nil
}

// LatestBlock returns the tail of the chain if there is one.
func (m *Memory) LatestBlock() (database.Block, bool) {
	if len(m.blocks) == 0 {
		return database.Block{}, false
	}

	return m.blocks[len(m.blocks)-1], true
}

// Len returns the number of blocks in the chain.
func (m *Memory) Len() int {
	return len(m.blocks)
}

// Copy returns a copy of the chain. Blocks are immutable once written so the
// transactions are shared with the copy.
func (m *Memory) Copy() []database.Block {
	blocks := make([]database.Block, len(m.blocks))
	copy(blocks, m.blocks)
	return blocks
}

// Reset replaces the entire chain with the specified blocks. This is used
// when consensus finds a longer valid chain on a peer.
func (m *Memory) Reset(blocks []database.Block) {
	m.blocks = make([]database.Block, len(blocks))
	copy(m.blocks, blocks)
}
