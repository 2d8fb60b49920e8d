// Package database handles the blocks and transactions that make up the
// blockchain along with the hashing and proof of work rules that bind them.
package database

import (
	"errors"
	"fmt"
	"time"
)

// Genesis block values. Every node mints its own genesis block at startup.
const (
	GenesisProof        uint64 = 1
	GenesisPreviousHash string = "100"
)

// ErrEmptyChain is returned when a chain without any blocks is validated.
var ErrEmptyChain = errors.New("candidate chain is empty")

// =============================================================================

// Block represents a group of transactions batched together. The field order
// is the canonical order used when the block is hashed.
type Block struct {
	Index        uint64  `json:"index"`
	TimeStamp    uint64  `json:"timestamp"`
	Transactions []Tx    `json:"transactions"`
	Proof        uint64  `json:"proof"`
	PreviousHash *string `json:"previous_hash"`
}

// NewBlock constructs a block for the specified position in the chain,
// stamped with the current time.
func NewBlock(index uint64, trans []Tx, proof uint64, previousHash *string) Block {
	if trans == nil {
		trans = []Tx{}
	}

	return Block{
		Index:        index,
		TimeStamp:    Now(),
		Transactions: trans,
		Proof:        proof,
		PreviousHash: previousHash,
	}
}

// NewGenesisBlock constructs the first block of a chain.
func NewGenesisBlock() Block {
	prevHash := GenesisPreviousHash
	return NewBlock(1, nil, GenesisProof, &prevHash)
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	return HashValue(b)
}

// PrevHash returns the previous hash or an empty string when the block
// doesn't carry one.
func (b Block) PrevHash() string {
	if b.PreviousHash == nil {
		return ""
	}
	return *b.PreviousHash
}

// ValidateBlock checks the block can follow the specified previous block.
func (b Block) ValidateBlock(previousBlock Block) error {
	if b.Index != previousBlock.Index+1 {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Index, previousBlock.Index+1)
	}

	if b.PreviousHash == nil {
		return fmt.Errorf("block %d has no previous hash", b.Index)
	}

	if hash := previousBlock.Hash(); *b.PreviousHash != hash {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", *b.PreviousHash, hash)
	}

	if !ValidProof(previousBlock.Proof, b.Proof) {
		return fmt.Errorf("block %d proof %d is not valid against parent proof %d", b.Index, b.Proof, previousBlock.Proof)
	}

	return nil
}

// =============================================================================

// ValidateChain checks every block links to the block before it by hash and
// proof and sits at its own position. The first block is only checked for
// its position since every node creates its own genesis block. A block must
// carry a list of transactions, even an empty one, and can't be repaired
// once adopted without changing its hash.
func ValidateChain(chain []Block) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}

	if chain[0].Index != 1 {
		return fmt.Errorf("first block is not the next number, got %d, exp 1", chain[0].Index)
	}

	for _, block := range chain {
		if block.Transactions == nil {
			return fmt.Errorf("block %d has no transaction list", block.Index)
		}
	}

	for i := 1; i < len(chain); i++ {
		if err := chain[i].ValidateBlock(chain[i-1]); err != nil {
			return err
		}
	}

	return nil
}

// Now returns the current time in seconds since the unix epoch. A clock set
// before the epoch can't produce a block timestamp and is fatal.
func Now() uint64 {
	now := time.Now().Unix()
	if now < 0 {
		panic("database: system time is before the unix epoch")
	}
	return uint64(now)
}

// =============================================================================

// ChainData represents the chain as it is exchanged between nodes.
type ChainData struct {
	Chain  []Block `json:"chain"`
	Length int     `json:"length"`
}

// NewChainData constructs the value to serialize over the network.
func NewChainData(chain []Block) ChainData {
	if chain == nil {
		chain = []Block{}
	}

	return ChainData{
		Chain:  chain,
		Length: len(chain),
	}
}
