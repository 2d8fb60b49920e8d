// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/validate"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Mine solves the next proof of work and seals the pending transactions,
// along with the reward for this node, into a new block.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	block, err := h.State.MineNewBlock(ctx)
	if err != nil {
		if errors.Is(err, state.ErrEmptyChain) {
			return web.Respond(ctx, w, mineError{Error: true}, http.StatusInternalServerError)
		}
		return err
	}

	metrics.AddBlocks()
	h.Log.Infow("mined block", "traceid", v.TraceID, "index", block.Index, "proof", block.Proof, "trans", len(block.Transactions))

	return web.Respond(ctx, w, block, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the mempool and returns the
// index of the block it will be sealed in.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tx := ntx.toTx()

	h.Log.Infow("add tran", "traceid", v.TraceID, "sender", tx.Sender, "recipient", tx.Recipient, "amount", tx.Amount)
	index := h.State.SubmitTransaction(tx)

	return web.Respond(ctx, w, index, http.StatusOK)
}

// Mempool returns the set of transactions waiting to be sealed.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveMempool(), http.StatusOK)
}

// Chain returns the full chain held by this node.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, database.NewChainData(h.State.RetrieveChain()), http.StatusOK)
}

// Block returns the block with the specified number.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	num, err := strconv.ParseUint(web.Param(r, "num"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block number: %w", err), http.StatusBadRequest)
	}

	block, err := h.State.RetrieveBlock(num)
	if err != nil {
		if errors.Is(err, memory.ErrNotFound) {
			return errs.NewTrusted(fmt.Errorf("block %d: %w", num, err), http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// RegisterNodes adds the hosts of the specified URLs to the known peers.
// Addresses that are not absolute URLs with a host are ignored.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var addresses []string
	if err := web.Decode(r, &addresses); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := registerResponse{
		Message:    "New nodes have been added",
		TotalNodes: h.State.RegisterNodes(addresses),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Resolve runs consensus against the known peers and returns the chain this
// node ends up with.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, chain := h.State.ResolveConflicts(ctx)

	resp := resolveResponse{
		NewChain: replaced,
		Chain:    chain,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Nodes returns the list of known peers.
func (h Handlers) Nodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	peers := h.State.RetrieveKnownPeers()

	hosts := make([]string, len(peers))
	for i, pr := range peers {
		hosts[i] = pr.Host
	}

	resp := nodesResponse{
		Nodes:      hosts,
		TotalNodes: len(hosts),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveStatus(), http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// This provides a channel for receiving events from the blockchain.
	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	// Starting a ticker to send a ping message over the websocket.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Block waiting for events from the blockchain or ticker.
	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
