package models

import "time"

// TransactionType is the business reason a balance changed.
type TransactionType string

const (
	TxPurchase    TransactionType = "purchase"
	TxTip         TransactionType = "tip"
	TxTipReceived TransactionType = "tip-received"
	TxAdminAdjust TransactionType = "admin-adjust"
)

// Transaction is one immutable row of the coin ledger. Rows are only
// ever inserted; there is no update or delete path anywhere in the
// codebase. Amount is signed from the owning user's point of view.
type Transaction struct {
	ID             string          `bson:"_id" json:"id"`
	UserID         string          `bson:"user_id" json:"user_id"`
	Type           TransactionType `bson:"type" json:"type"`
	Amount         int64           `bson:"amount" json:"amount"`
	CounterpartyID string          `bson:"counterparty_id,omitempty" json:"counterparty_id,omitempty"`
	MangaID        string          `bson:"manga_id,omitempty" json:"manga_id,omitempty"`
	CreatedAt      time.Time       `bson:"created_at" json:"created_at"`
}
