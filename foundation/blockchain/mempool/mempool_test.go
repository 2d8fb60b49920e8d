package mempool_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		txs  []database.Tx
	}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				database.NewTx("bill", "ana", "10"),
				database.NewTx("ana", "ceasar", "2.5"),
				database.NewTx("0", "miner", "1"),
			},
		},
		{
			name: "empty",
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for i, tx := range tst.txs {
						if n := mp.Add(tx); n != i+1 {
							t.Fatalf("\t%s\tTest %d:\tShould get back the pool length %d, got %d.", failed, testID, i+1, n)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould be able to add new transactions.", success, testID)

					if mp.Count() != len(tst.txs) {
						t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, mp.Count())
						t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, len(tst.txs))
						t.Fatalf("\t%s\tTest %d:\tShould get back the right count.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the right count.", success, testID)

					for i, tx := range mp.Copy() {
						if tx != tst.txs[i] {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.txs[i])
							t.Fatalf("\t%s\tTest %d:\tShould get back transactions in submission order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back transactions in submission order.", success, testID)

					trans := mp.Drain()
					if trans == nil || len(trans) != len(tst.txs) {
						t.Fatalf("\t%s\tTest %d:\tShould drain every transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould drain every transaction.", success, testID)

					if mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould have an empty pool after a drain.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould have an empty pool after a drain.", success, testID)

					mp.Add(database.NewTx("late", "tx", "1"))
					if len(trans) != len(tst.txs) {
						t.Fatalf("\t%s\tTest %d:\tShould not change drained transactions after new adds.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not change drained transactions after new adds.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
