package database

import "fmt"

// RewardSender is the sender used for the transaction that pays the miner.
const RewardSender = "0"

// RewardAmount is the amount paid to the miner for each mined block.
const RewardAmount = "1"

// =============================================================================

// Tx is the transactional information between two parties. The amount is a
// decimal quantity kept as text, no arithmetic is performed on it.
type Tx struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, amount string) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
}

// NewRewardTx constructs the transaction that pays the specified node for
// mining a block.
func NewRewardTx(nodeID string) Tx {
	return NewTx(RewardSender, nodeID, RewardAmount)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%s", tx.Sender, tx.Recipient, tx.Amount)
}
