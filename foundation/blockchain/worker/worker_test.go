package worker_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_SignalResolve(t *testing.T) {
	t.Log("Given the need to run consensus in the background.")
	{
		genesis := database.NewGenesisBlock()
		hash := genesis.Hash()
		peerChain := []database.Block{genesis, database.NewBlock(2, nil, 8719932, &hash)}

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(database.NewChainData(peerChain))
		}))
		defer srv.Close()

		ev := func(v string, args ...any) {}

		st, err := state.New(state.Config{
			NodeID:    "node",
			EvHandler: ev,
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the state: %s", failed, err)
		}
		st.RegisterNodes([]string{srv.URL})

		w := worker.Run(st, 0, ev)
		w.SignalResolve()

		deadline := time.Now().Add(5 * time.Second)
		for len(st.RetrieveChain()) != len(peerChain) {
			if time.Now().After(deadline) {
				t.Fatalf("\t%s\tShould adopt the peer chain after a signal.", failed)
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Logf("\t%s\tShould adopt the peer chain after a signal.", success)

		if err := st.Shutdown(); err != nil {
			t.Fatalf("\t%s\tShould be able to shutdown: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to shutdown.", success)
	}
}
