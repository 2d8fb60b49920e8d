// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
)

// ErrEmptyChain is returned when a block is requested to be mined and the
// chain has no block to build on.
var ErrEmptyChain = errors.New("no block to mine on")

// Defaults used when the configuration leaves a value unset.
const (
	defaultPeerTimeout   = 10 * time.Second
	defaultMaxChainBytes = 32 << 20
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the blockchain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing background support for consensus.
type Worker interface {
	Shutdown()
	SignalResolve()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	NodeID      string
	KnownPeers  *peer.PeerSet
	PeerTimeout   time.Duration
	MaxChainBytes int64
	EvHandler     EventHandler
}

// State manages the blockchain. A single mutex guards the chain, the
// mempool and the known peers. Consensus releases it while peers are asked.
type State struct {
	nodeID        string
	evHandler     EventHandler
	client        *http.Client
	maxChainBytes int64
	mu            sync.Mutex

	knownPeers *peer.PeerSet
	mempool    *mempool.Mempool
	chain      *memory.Memory

	Worker Worker
}

// New constructs a new blockchain with its genesis block.
func New(cfg Config) (*State, error) {
	if cfg.NodeID == "" {
		return nil, errors.New("node id is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	timeout := cfg.PeerTimeout
	if timeout <= 0 {
		timeout = defaultPeerTimeout
	}

	maxChainBytes := cfg.MaxChainBytes
	if maxChainBytes <= 0 {
		maxChainBytes = defaultMaxChainBytes
	}

	// Every chain starts with a genesis block using the sentinel proof
	// and previous hash.
	chain := memory.New()
	if err := chain.Write(database.NewGenesisBlock()); err != nil {
		return nil, err
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		nodeID:        cfg.NodeID,
		evHandler:     ev,
		client:        &http.Client{Timeout: timeout},
		maxChainBytes: maxChainBytes,

		knownPeers: knownPeers,
		mempool:    mempool.New(),
		chain:      chain,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all background consensus activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
