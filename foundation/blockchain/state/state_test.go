package state_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/ledger/foundation/logger"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const nodeID = "5c0f8d8a3b1e4b7e9a2f6d4c8b0e1a3f"

// proofs holds the chain of smallest valid proofs starting from the genesis
// proof, solved ahead of time so tests don't pay for the search.
var proofs = []uint64{8719932, 55726821, 2232635, 25433258}

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func newState(t *testing.T) *state.State {
	log, err := logger.New("TEST")
	ifErrFailNow(t, err)
	t.Cleanup(func() { log.Sync() })

	ev := func(v string, args ...any) {
		log.Debugf(v, args...)
	}

	st, err := state.New(state.Config{
		NodeID:      nodeID,
		KnownPeers:  peer.NewPeerSet(),
		PeerTimeout: time.Second,
		EvHandler:   ev,
	})
	ifErrFailNow(t, err)

	return st
}

// extend appends n blocks to the state using the precomputed proofs.
func extend(t *testing.T, st *state.State, n int) {
	for i := 0; i < n; i++ {
		latest, _ := st.RetrieveLatestBlock()
		hash := latest.Hash()
		_, err := st.NewBlock(proofs[latest.Index-1], &hash)
		ifErrFailNow(t, err)
	}
}

// buildChain constructs a valid chain of the specified length. The tag ends
// up in the second block so chains of equal length can be told apart.
func buildChain(length int, tag string) []database.Block {
	chain := []database.Block{database.NewGenesisBlock()}
	for i := 1; i < length; i++ {
		var trans []database.Tx
		if i == 1 {
			trans = []database.Tx{database.NewTx(tag, "peer", "1")}
		}
		hash := chain[i-1].Hash()
		chain = append(chain, database.NewBlock(uint64(i+1), trans, proofs[i-1], &hash))
	}
	return chain
}

// buildNullChain constructs a chain that links by hash and proof but whose
// blocks carry no transaction list, so it is served as null.
func buildNullChain(length int) []database.Block {
	genesis := database.NewGenesisBlock()
	genesis.Transactions = nil

	chain := []database.Block{genesis}
	for i := 1; i < length; i++ {
		hash := chain[i-1].Hash()
		block := database.NewBlock(uint64(i+1), nil, proofs[i-1], &hash)
		block.Transactions = nil
		chain = append(chain, block)
	}
	return chain
}

// newPeer starts a node that serves the specified chain.
func newPeer(t *testing.T, chain []database.Block) *httptest.Server {
	h := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chain" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(database.NewChainData(chain))
	}

	srv := httptest.NewServer(http.HandlerFunc(h))
	t.Cleanup(srv.Close)

	return srv
}

func sameChain(a []database.Block, b []database.Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Hash() != b[i].Hash() {
			return false
		}
	}
	return true
}

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start a new chain.")
	{
		st := newState(t)
		chain := st.RetrieveChain()

		if len(chain) != 1 {
			t.Fatalf("\t%s\tShould have a single block, got %d.", failed, len(chain))
		}
		t.Logf("\t%s\tShould have a single block.", success)

		genesis := chain[0]
		if genesis.Index != 1 || genesis.Proof != 1 || genesis.PrevHash() != "100" {
			t.Fatalf("\t%s\tShould have the genesis values, got %+v.", failed, genesis)
		}
		t.Logf("\t%s\tShould have the genesis values.", success)

		if genesis.Transactions == nil || len(genesis.Transactions) != 0 {
			t.Fatalf("\t%s\tShould have an empty list of transactions.", failed)
		}
		t.Logf("\t%s\tShould have an empty list of transactions.", success)

		if _, err := state.New(state.Config{}); err == nil {
			t.Fatalf("\t%s\tShould require a node id.", failed)
		}
		t.Logf("\t%s\tShould require a node id.", success)
	}
}

func Test_SubmitAndSeal(t *testing.T) {
	t.Log("Given the need to seal submitted transactions into a block.")
	{
		st := newState(t)

		txs := []database.Tx{
			database.NewTx("A", "B", "5"),
			database.NewTx("B", "C", "0.25"),
		}

		for _, tx := range txs {
			if index := st.SubmitTransaction(tx); index != 2 {
				t.Fatalf("\t%s\tShould get back index 2, got %d.", failed, index)
			}
		}
		t.Logf("\t%s\tShould get back the index of the next block.", success)

		if n := len(st.RetrieveMempool()); n != len(txs) {
			t.Fatalf("\t%s\tShould have %d pending transactions, got %d.", failed, len(txs), n)
		}
		t.Logf("\t%s\tShould have the pending transactions.", success)

		genesis, _ := st.RetrieveLatestBlock()
		hash := genesis.Hash()

		block, err := st.NewBlock(proofs[0], &hash)
		ifErrFailNow(t, err)

		if block.Index != 2 || block.Proof != proofs[0] || block.PrevHash() != hash {
			t.Fatalf("\t%s\tShould get back the new block values, got %+v.", failed, block)
		}
		t.Logf("\t%s\tShould get back the new block values.", success)

		if len(block.Transactions) != len(txs) {
			t.Fatalf("\t%s\tShould seal %d transactions, got %d.", failed, len(txs), len(block.Transactions))
		}
		for i := range txs {
			if block.Transactions[i] != txs[i] {
				t.Fatalf("\t%s\tShould seal transactions in submission order.", failed)
			}
		}
		t.Logf("\t%s\tShould seal transactions in submission order.", success)

		if n := len(st.RetrieveMempool()); n != 0 {
			t.Fatalf("\t%s\tShould have an empty mempool, got %d.", failed, n)
		}
		t.Logf("\t%s\tShould have an empty mempool.", success)

		if index := st.SubmitTransaction(database.NewTx("C", "A", "1")); index != 3 {
			t.Fatalf("\t%s\tShould get back index 3, got %d.", failed, index)
		}
		t.Logf("\t%s\tShould get back index 3 after the block is sealed.", success)
	}
}

func Test_ChainInvariants(t *testing.T) {
	t.Log("Given the need to keep the chain linked.")
	{
		st := newState(t)
		extend(t, st, len(proofs))

		chain := st.RetrieveChain()
		for k, block := range chain {
			if block.Index != uint64(k+1) {
				t.Fatalf("\t%s\tShould have index %d at position %d, got %d.", failed, k+1, k, block.Index)
			}
		}
		t.Logf("\t%s\tShould have every block at its own position.", success)

		for k := 1; k < len(chain); k++ {
			if chain[k].PrevHash() != chain[k-1].Hash() {
				t.Fatalf("\t%s\tShould link block %d to its parent hash.", failed, k+1)
			}
			if !database.ValidProof(chain[k-1].Proof, chain[k].Proof) {
				t.Fatalf("\t%s\tShould link block %d to its parent proof.", failed, k+1)
			}
		}
		t.Logf("\t%s\tShould link every block to its parent.", success)

		if err := database.ValidateChain(chain); err != nil {
			t.Fatalf("\t%s\tShould produce a valid chain: %s", failed, err)
		}
		t.Logf("\t%s\tShould produce a valid chain.", success)
	}
}

func Test_MineNewBlock(t *testing.T) {
	if testing.Short() {
		t.Skip("proof of work search skipped in short mode")
	}

	t.Log("Given the need to mine a block with the node reward.")
	{
		st := newState(t)
		tx := database.NewTx("A", "B", "5")
		st.SubmitTransaction(tx)

		genesis, _ := st.RetrieveLatestBlock()

		block, err := st.MineNewBlock(context.Background())
		ifErrFailNow(t, err)
		t.Logf("\t%s\tShould be able to mine a block.", success)

		if block.Proof != proofs[0] || block.PrevHash() != genesis.Hash() || block.Index != 2 {
			t.Fatalf("\t%s\tShould get back the solved block, got %+v.", failed, block)
		}
		t.Logf("\t%s\tShould get back the solved block.", success)

		exp := []database.Tx{tx, database.NewRewardTx(nodeID)}
		if len(block.Transactions) != len(exp) {
			t.Fatalf("\t%s\tShould seal %d transactions, got %d.", failed, len(exp), len(block.Transactions))
		}
		for i := range exp {
			if block.Transactions[i] != exp[i] {
				t.Logf("\t%s\tgot: %s", failed, block.Transactions[i])
				t.Logf("\t%s\texp: %s", failed, exp[i])
				t.Fatalf("\t%s\tShould seal the reward after the submitted transactions.", failed)
			}
		}
		t.Logf("\t%s\tShould seal the reward after the submitted transactions.", success)

		if n := len(st.RetrieveMempool()); n != 0 {
			t.Fatalf("\t%s\tShould have an empty mempool, got %d.", failed, n)
		}
		t.Logf("\t%s\tShould have an empty mempool.", success)
	}
}

func Test_MineCancelled(t *testing.T) {
	t.Log("Given the need to abandon mining.")
	{
		st := newState(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := st.MineNewBlock(ctx); err == nil {
			t.Fatalf("\t%s\tShould get back an error when cancelled.", failed)
		}
		t.Logf("\t%s\tShould get back an error when cancelled.", success)

		if len(st.RetrieveChain()) != 1 || len(st.RetrieveMempool()) != 0 {
			t.Fatalf("\t%s\tShould leave the chain and mempool untouched.", failed)
		}
		t.Logf("\t%s\tShould leave the chain and mempool untouched.", success)
	}
}

func Test_RegisterNodes(t *testing.T) {
	t.Log("Given the need to register peers.")
	{
		st := newState(t)

		total := st.RegisterNodes([]string{
			"http://example.com:8080/path",
			"not a url",
			"file:///x",
			"http://example.com:8080",
		})

		if total != 2 {
			t.Fatalf("\t%s\tShould have 2 known peers, got %d.", failed, total)
		}
		t.Logf("\t%s\tShould ignore addresses without a host.", success)

		peers := st.RetrieveKnownPeers()
		for _, pr := range peers {
			if pr.Host != "example.com:8080" {
				t.Fatalf("\t%s\tShould store the host and port, got %s.", failed, pr.Host)
			}
		}
		t.Logf("\t%s\tShould keep duplicate hosts.", success)

		status := st.RetrieveStatus()
		if status.NodeID != nodeID || status.Length != 1 || len(status.KnownPeers) != 2 {
			t.Fatalf("\t%s\tShould report the node status, got %+v.", failed, status)
		}
		t.Logf("\t%s\tShould report the node status.", success)
	}
}

func Test_ResolveReplace(t *testing.T) {
	t.Log("Given the need to adopt a longer valid chain from a peer.")
	{
		st := newState(t)
		peerChain := buildChain(3, "peer")
		srv := newPeer(t, peerChain)

		st.RegisterNodes([]string{srv.URL})

		replaced, chain := st.ResolveConflicts(context.Background())
		if !replaced {
			t.Fatalf("\t%s\tShould replace the local chain.", failed)
		}
		t.Logf("\t%s\tShould replace the local chain.", success)

		if !sameChain(st.RetrieveChain(), peerChain) {
			t.Fatalf("\t%s\tShould hold the peer chain block for block.", failed)
		}
		t.Logf("\t%s\tShould hold the peer chain block for block.", success)

		if !sameChain(chain, peerChain) {
			t.Fatalf("\t%s\tShould return the chain it adopted.", failed)
		}
		t.Logf("\t%s\tShould return the chain it adopted.", success)

		replaced, chain = st.ResolveConflicts(context.Background())
		if replaced {
			t.Fatalf("\t%s\tShould not replace the chain a second time.", failed)
		}
		if !sameChain(chain, peerChain) || !sameChain(st.RetrieveChain(), peerChain) {
			t.Fatalf("\t%s\tShould leave the chain unchanged.", failed)
		}
		t.Logf("\t%s\tShould be idempotent once the chains agree.", success)
	}
}

func Test_ResolveReject(t *testing.T) {
	badProof := buildChain(5, "bad")
	badProof[4].Proof++

	broken := buildChain(5, "broken")
	broken[2].Transactions = []database.Tx{database.NewTx("x", "y", "1000")}

	nullTrans := buildNullChain(5)

	type table struct {
		name  string
		chain []database.Block
	}

	tt := []table{
		{name: "equal-length", chain: buildChain(3, "equal")},
		{name: "shorter", chain: buildChain(2, "short")},
		{name: "invalid-proof", chain: badProof},
		{name: "tampered-block", chain: broken},
		{name: "null-transactions", chain: nullTrans},
	}

	t.Log("Given the need to reject chains that are not longer and valid.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s chain.", testID, tst.name)
			{
				f := func(t *testing.T) {
					st := newState(t)
					extend(t, st, 2)
					before := st.RetrieveChain()

					srv := newPeer(t, tst.chain)
					st.RegisterNodes([]string{srv.URL})

					replaced, chain := st.ResolveConflicts(context.Background())
					if replaced {
						t.Fatalf("\t%s\tTest %d:\tShould not replace the local chain.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not replace the local chain.", success, testID)

					if !sameChain(st.RetrieveChain(), before) || !sameChain(chain, before) {
						t.Fatalf("\t%s\tTest %d:\tShould leave the local chain unchanged.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould leave the local chain unchanged.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_ResolveSkipsBadPeers(t *testing.T) {
	t.Log("Given the need to skip peers that fail.")
	{
		st := newState(t)

		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer failing.Close()

		garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}))
		defer garbage.Close()

		gone := httptest.NewServer(http.NotFoundHandler())
		goneURL := gone.URL
		gone.Close()

		first := buildChain(3, "first")
		last := buildChain(3, "last")
		good1 := newPeer(t, first)
		good2 := newPeer(t, last)

		st.RegisterNodes([]string{failing.URL, good1.URL, garbage.URL, goneURL, good2.URL})

		if replaced, _ := st.ResolveConflicts(context.Background()); !replaced {
			t.Fatalf("\t%s\tShould replace the local chain.", failed)
		}
		t.Logf("\t%s\tShould replace the local chain despite failing peers.", success)

		if !sameChain(st.RetrieveChain(), last) {
			t.Fatalf("\t%s\tShould adopt the last chain of the longest length.", failed)
		}
		t.Logf("\t%s\tShould adopt the last chain of the longest length.", success)
	}
}

func Test_ResolveNullTransactions(t *testing.T) {
	t.Log("Given the need to only serve blocks with a list of transactions.")
	{
		st := newState(t)
		srv := newPeer(t, buildNullChain(2))
		st.RegisterNodes([]string{srv.URL})

		if replaced, _ := st.ResolveConflicts(context.Background()); replaced {
			t.Fatalf("\t%s\tShould reject a chain with null transactions.", failed)
		}
		t.Logf("\t%s\tShould reject a chain with null transactions.", success)

		data, err := json.Marshal(database.NewChainData(st.RetrieveChain()))
		ifErrFailNow(t, err)

		if strings.Contains(string(data), `"transactions":null`) {
			t.Fatalf("\t%s\tShould never serve null transactions: %s", failed, data)
		}
		t.Logf("\t%s\tShould never serve null transactions.", success)
	}
}

func Test_ResolveSizeLimit(t *testing.T) {
	t.Log("Given the need to bound what a peer can make the node read.")
	{
		peerChain := buildChain(5, "large")
		data, err := json.Marshal(database.NewChainData(peerChain))
		ifErrFailNow(t, err)

		type table struct {
			name     string
			maxBytes int64
			replaced bool
		}

		tt := []table{
			{name: "over-limit", maxBytes: int64(len(data)) / 2, replaced: false},
			{name: "within-limit", maxBytes: int64(len(data)) * 2, replaced: true},
		}

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen the limit is %d bytes for a %d byte chain.", testID, tst.maxBytes, len(data))
			{
				f := func(t *testing.T) {
					st, err := state.New(state.Config{
						NodeID:        nodeID,
						PeerTimeout:   time.Second,
						MaxChainBytes: tst.maxBytes,
					})
					ifErrFailNow(t, err)

					srv := newPeer(t, peerChain)
					st.RegisterNodes([]string{srv.URL})

					if replaced, _ := st.ResolveConflicts(context.Background()); replaced != tst.replaced {
						t.Fatalf("\t%s\tTest %d:\tShould get replaced=%v, got %v.", failed, testID, tst.replaced, replaced)
					}
					t.Logf("\t%s\tTest %d:\tShould get replaced=%v.", success, testID, tst.replaced)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_RetrieveBlock(t *testing.T) {
	t.Log("Given the need to fetch a block by number.")
	{
		st := newState(t)
		extend(t, st, 1)

		block, err := st.RetrieveBlock(2)
		ifErrFailNow(t, err)
		if block.Index != 2 || block.Proof != proofs[0] {
			t.Fatalf("\t%s\tShould get back block 2, got %+v.", failed, block)
		}
		t.Logf("\t%s\tShould get back block 2.", success)

		for _, num := range []uint64{0, 3} {
			if _, err := st.RetrieveBlock(num); !errors.Is(err, memory.ErrNotFound) {
				t.Fatalf("\t%s\tShould not find block %d, got %v.", failed, num, err)
			}
		}
		t.Logf("\t%s\tShould not find blocks outside the chain.", success)
	}
}

func Test_EmptyChainErrors(t *testing.T) {
	t.Log("Given the need to tell a mining failure from a validation failure.")
	{
		if errors.Is(state.ErrEmptyChain, database.ErrEmptyChain) || state.ErrEmptyChain.Error() == database.ErrEmptyChain.Error() {
			t.Fatalf("\t%s\tShould report distinct errors.", failed)
		}
		t.Logf("\t%s\tShould report distinct errors.", success)

		if err := database.ValidateChain(nil); !errors.Is(err, database.ErrEmptyChain) {
			t.Fatalf("\t%s\tShould reject an empty candidate with the validation error, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject an empty candidate with the validation error.", success)
	}
}
