package ledger

import (
	"fmt"

	"github.com/nkiryanov/payengine/internal/apperrors"
	"github.com/nkiryanov/payengine/internal/logger"
	"github.com/nkiryanov/payengine/internal/models"
)

// Ledger applies a chronologically ordered stream of transactions to a set
// of client accounts. It owns all account and transaction state; callers
// never hold references into it.
//
// Partner-side anomalies (unknown dispute targets, disputes of transactions
// in the wrong state, withdrawals that can't be honored) are swallowed:
// the partner's view of the world may legitimately diverge from ours.
// Internal inconsistencies (duplicate primary keys, a provably missing
// account) break the contract and abort the run.
type Ledger struct {
	// Recorded deposits and withdrawals, keyed by transaction id. Control
	// transactions (dispute, resolve, chargeback) are never recorded.
	transactions map[models.TransactionID]*models.Transaction

	accounts map[models.ClientID]*models.Account

	logger logger.Logger
}

func New(log logger.Logger) *Ledger {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Ledger{
		transactions: make(map[models.TransactionID]*models.Transaction),
		accounts:     make(map[models.ClientID]*models.Account),
		logger:       log,
	}
}

// Apply processes a single transaction. Transactions must be applied in
// input order; after Apply returns an error the ledger must not be used
// further.
func (l *Ledger) Apply(tx models.Transaction) error {
	switch tx.Kind {
	case models.KindDeposit:
		account := l.account(tx.ClientID)

		// Deposits post even into a locked account
		account.Available = account.Available.Add(tx.Amount)

		return l.record(tx)

	case models.KindWithdrawal:
		account := l.account(tx.ClientID)

		if account.Locked {
			// Dropped entirely: not recorded either, so it can never be
			// disputed later
			l.logger.Debug("withdrawal against locked account dropped", "tx", tx.ID, "client", tx.ClientID)
			return nil
		}

		if account.Available >= tx.Amount {
			account.Available = account.Available.Sub(tx.Amount)
		} else {
			l.logger.Debug("withdrawal exceeds available funds", "tx", tx.ID, "client", tx.ClientID)
		}

		// Recorded even without a balance effect, so the partner may still
		// reference it in a dispute
		return l.record(tx)

	case models.KindDispute:
		return l.dispute(tx.ID)

	case models.KindResolve:
		return l.resolve(tx.ID)

	case models.KindChargeback:
		return l.chargeback(tx.ID)

	default:
		return fmt.Errorf("%w: %q", apperrors.ErrKindUnknown, tx.Kind)
	}
}

// Snapshot returns the final state of every known account. Order of the
// returned slice is not specified.
func (l *Ledger) Snapshot() []models.AccountSnapshot {
	snapshots := make([]models.AccountSnapshot, 0, len(l.accounts))

	for clientID, account := range l.accounts {
		snapshots = append(snapshots, models.AccountSnapshot{
			ClientID:  clientID,
			Available: account.Available,
			Held:      account.Held,
			Total:     account.Available.Add(account.Held),
			Locked:    account.Locked,
		})
	}

	return snapshots
}

func (l *Ledger) dispute(id models.TransactionID) error {
	disputed, account, amount, err := l.referenced(id, models.StatusAlive)
	if disputed == nil || err != nil {
		return err
	}

	disputed.Status = models.StatusDisputed
	account.Available = account.Available.Sub(amount)
	account.Held = account.Held.Add(amount)

	return nil
}

func (l *Ledger) resolve(id models.TransactionID) error {
	disputed, account, amount, err := l.referenced(id, models.StatusDisputed)
	if disputed == nil || err != nil {
		return err
	}

	disputed.Status = models.StatusAlive
	account.Available = account.Available.Add(amount)
	account.Held = account.Held.Sub(amount)

	return nil
}

func (l *Ledger) chargeback(id models.TransactionID) error {
	disputed, account, amount, err := l.referenced(id, models.StatusDisputed)
	if disputed == nil || err != nil {
		return err
	}

	disputed.Status = models.StatusChargedBack
	account.Held = account.Held.Sub(amount)
	account.Locked = true

	return nil
}

// referenced resolves the target of a dispute-family transaction. A nil
// transaction with nil error means the reference should be silently skipped
// (partner-side inconsistency). The returned amount is the disputed amount:
// a withdrawal's amount is negated so reversing it mirrors reversing a
// deposit.
//
// The account is always the referenced transaction's client, not the
// client on the disputing row. Whether those must match is unclear in the
// upstream contract; we ignore the disputing row's client.
func (l *Ledger) referenced(id models.TransactionID, required models.TransactionStatus) (*models.Transaction, *models.Account, models.Amount, error) {
	disputed, ok := l.transactions[id]
	if !ok {
		// Error on partner side
		l.logger.Debug("referenced transaction unknown, skipping", "tx", id)
		return nil, nil, 0, nil
	}

	if disputed.Status != required {
		l.logger.Debug("referenced transaction in wrong state, skipping",
			"tx", id, "status", disputed.Status, "required", required)
		return nil, nil, 0, nil
	}

	var amount models.Amount
	switch disputed.Kind {
	case models.KindDeposit:
		amount = disputed.Amount
	case models.KindWithdrawal:
		amount = disputed.Amount.Neg()
	default:
		// Unreachable while record only stores deposits and withdrawals,
		// but the contract must hold even if that changes
		return nil, nil, 0, fmt.Errorf("%w: %s", apperrors.ErrDisputeTargetInvalid, id)
	}

	// The stream is chronological, so the account must have been created
	// when the referenced transaction was applied
	account, ok := l.accounts[disputed.ClientID]
	if !ok {
		return nil, nil, 0, fmt.Errorf("%w: %s", apperrors.ErrDisputedClientMissing, disputed.ClientID)
	}

	return disputed, account, amount, nil
}

// record stores a deposit or withdrawal in history so it can be referenced
// by later disputes. Transaction ids are assumed globally unique; a reused
// id is fatal.
func (l *Ledger) record(tx models.Transaction) error {
	if _, ok := l.transactions[tx.ID]; ok {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateTransactionID, tx.ID)
	}

	tx.Status = models.StatusAlive
	l.transactions[tx.ID] = &tx

	return nil
}

func (l *Ledger) account(clientID models.ClientID) *models.Account {
	account, ok := l.accounts[clientID]
	if !ok {
		account = &models.Account{}
		l.accounts[clientID] = account
	}

	return account
}
