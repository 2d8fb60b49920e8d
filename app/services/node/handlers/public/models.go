package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/validate"
)

// newTx is what a client submits to add a transaction. Every field must be
// present but may be empty, so pointers are used to tell the two apart.
type newTx struct {
	Sender    *string `json:"sender" validate:"required"`
	Recipient *string `json:"recipient" validate:"required"`
	Amount    *string `json:"amount" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (ntx newTx) Validate() error {
	return validate.Check(ntx)
}

// toTx converts the request into a database transaction.
func (ntx newTx) toTx() database.Tx {
	return database.NewTx(*ntx.Sender, *ntx.Recipient, *ntx.Amount)
}

type registerResponse struct {
	Message    string `json:"message"`
	TotalNodes int    `json:"total_nodes"`
}

type resolveResponse struct {
	NewChain bool             `json:"new_chain"`
	Chain    []database.Block `json:"chain"`
}

type nodesResponse struct {
	Nodes      []string `json:"nodes"`
	TotalNodes int      `json:"total_nodes"`
}

type mineError struct {
	Error bool `json:"error"`
}
