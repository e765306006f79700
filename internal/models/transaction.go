package models

import (
	"strconv"
)

// ClientID is a distinct type so client and transaction ids can't be mixed
// up at call sites
type ClientID uint16

func (id ClientID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// TransactionID is globally unique among deposits and withdrawals
type TransactionID uint32

func (id TransactionID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindDispute    TransactionKind = "dispute"
	KindResolve    TransactionKind = "resolve"
	KindChargeback TransactionKind = "chargeback"
)

// TransactionStatus tracks the dispute lifecycle of a recorded deposit or
// withdrawal. Transitions: alive -> disputed -> alive or charged back;
// charged back is terminal.
type TransactionStatus string

const (
	StatusAlive       TransactionStatus = "alive"
	StatusDisputed    TransactionStatus = "disputed"
	StatusChargedBack TransactionStatus = "charged_back"
)

type Transaction struct {
	ID       TransactionID
	ClientID ClientID
	Kind     TransactionKind

	// Amount is meaningful for deposits and withdrawals only. Dispute,
	// resolve and chargeback rows reference the amount of the transaction
	// they point at.
	Amount Amount

	Status TransactionStatus
}

func NewTransaction(id TransactionID, clientID ClientID, kind TransactionKind, amount Amount) Transaction {
	return Transaction{
		ID:       id,
		ClientID: clientID,
		Kind:     kind,
		Amount:   amount,
		Status:   StatusAlive,
	}
}
