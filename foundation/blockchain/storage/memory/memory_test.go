package memory_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_WriteRead(t *testing.T) {
	t.Log("Given the need to keep blocks in memory.")
	{
		m := memory.New()

		if _, exists := m.LatestBlock(); exists {
			t.Fatalf("\t%s\tShould not have a latest block when empty.", failed)
		}
		t.Logf("\t%s\tShould not have a latest block when empty.", success)

		genesis := database.NewGenesisBlock()
		if err := m.Write(genesis); err != nil {
			t.Fatalf("\t%s\tShould be able to write the genesis block: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to write the genesis block.", success)

		if err := m.Write(database.NewBlock(3, nil, 0, nil)); err == nil {
			t.Fatalf("\t%s\tShould not be able to write a block out of order.", failed)
		}
		t.Logf("\t%s\tShould not be able to write a block out of order.", success)

		block, err := m.GetBlock(1)
		if err != nil || block.Index != 1 {
			t.Fatalf("\t%s\tShould be able to read back block 1: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to read back block 1.", success)

		if _, err := m.GetBlock(2); !errors.Is(err, memory.ErrNotFound) {
			t.Fatalf("\t%s\tShould not find block 2: %v", failed, err)
		}
		t.Logf("\t%s\tShould not find block 2.", success)

		replacement := []database.Block{
			database.NewGenesisBlock(),
			database.NewBlock(2, nil, 0, nil),
		}
		m.Reset(replacement)
		replacement[1].Proof = 99

		if m.Len() != 2 {
			t.Fatalf("\t%s\tShould have 2 blocks after reset, got %d.", failed, m.Len())
		}
		t.Logf("\t%s\tShould have 2 blocks after reset.", success)

		latest, _ := m.LatestBlock()
		if latest.Index != 2 || latest.Proof != 0 {
			t.Fatalf("\t%s\tShould own a copy of the replacement chain.", failed)
		}
		t.Logf("\t%s\tShould own a copy of the replacement chain.", success)
	}
}
