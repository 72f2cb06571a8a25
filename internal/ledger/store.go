// Package ledger holds the in-memory double-entry ledger. Store is the only
// mutator of ledger state and rejects every change that would break an
// accounting invariant.
package ledger

import (
	"slices"
	"time"

	"github.com/kkb-dev/kkb/internal/accounts"
	"github.com/kkb-dev/kkb/internal/id"
	"github.com/kkb-dev/kkb/internal/model"
)

// Store owns the accounts and transactions of one ledger. Every mutation
// either applies fully or returns an error and leaves the state untouched.
// A Store is not safe for concurrent use.
type Store struct {
	data  model.Snapshot
	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the generator used for new account and transaction ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{now: id.Now, newID: id.New}
	for _, opt := range opts {
		opt(s)
	}
	s.data = model.Snapshot{
		Version:      model.DataVersion,
		LastModified: s.now(),
	}
	return s
}

// Version returns the snapshot format version of the loaded data.
func (s *Store) Version() string { return s.data.Version }

// LastModified returns the time of the last successful mutation or load.
func (s *Store) LastModified() time.Time { return s.data.LastModified }

func (s *Store) touch() {
	s.data.LastModified = s.now()
}

func (s *Store) chart() *accounts.Index {
	return accounts.NewIndex(s.data.Accounts)
}

// ==================== Accounts ====================

// CreateAccount validates in and appends a new account.
func (s *Store) CreateAccount(in model.AccountInput) (model.Account, error) {
	now := s.now()
	acct := model.Account{
		ID:        s.newID(),
		Name:      in.Name,
		Type:      in.Type,
		ParentID:  in.ParentID,
		Currency:  in.Currency,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if acct.Currency == "" {
		acct.Currency = model.DefaultCurrency
	}
	if in.IsActive != nil {
		acct.IsActive = *in.IsActive
	}

	if err := validateAccount(acct, s.chart()); err != nil {
		return model.Account{}, err
	}

	s.data.Accounts = append(slices.Clip(s.data.Accounts), acct)
	s.touch()
	return acct, nil
}

// UpdateAccount merges upd into the account and re-validates the result.
// The account type cannot change after creation.
func (s *Store) UpdateAccount(accountID string, upd model.AccountUpdate) (model.Account, error) {
	i := slices.IndexFunc(s.data.Accounts, func(a model.Account) bool { return a.ID == accountID })
	if i < 0 {
		return model.Account{}, invalid(RuleNotFound, "Account not found: %s", accountID)
	}

	existing := s.data.Accounts[i]
	acct := existing
	if upd.Name != nil {
		acct.Name = *upd.Name
	}
	if upd.Type != nil {
		acct.Type = *upd.Type
	}
	if upd.ParentID != nil {
		acct.ParentID = *upd.ParentID
	}
	if upd.Currency != nil {
		acct.Currency = *upd.Currency
		if acct.Currency == "" {
			acct.Currency = model.DefaultCurrency
		}
	}
	if upd.IsActive != nil {
		acct.IsActive = *upd.IsActive
	}
	acct.UpdatedAt = s.now()

	if acct.Type != existing.Type {
		return model.Account{}, invalid(RuleImmutableType, "Account type cannot be changed (%s → %s)", existing.Type, acct.Type)
	}

	chart := s.chart()
	if err := validateAccount(acct, chart); err != nil {
		return model.Account{}, err
	}
	if acct.ParentID != existing.ParentID {
		if err := validateParentChain(acct, chart); err != nil {
			return model.Account{}, err
		}
	}

	next := slices.Clone(s.data.Accounts)
	next[i] = acct
	s.data.Accounts = next
	s.touch()
	return acct, nil
}

// DeleteAccount removes an account. It reports false for an unknown id.
// An account with an active child cannot be deleted. An account referenced by
// any transaction entry is deactivated instead of removed. So is an
// unreferenced account that still parents inactive children: removing it
// would leave those children with a parent_id that no longer resolves, and a
// snapshot holding them could not be loaded again.
func (s *Store) DeleteAccount(accountID string) (bool, error) {
	chart := s.chart()
	if !chart.Exists(accountID) {
		return false, nil
	}

	if chart.HasActiveChild(accountID) {
		return false, invalid(RuleActiveChildren, "Cannot delete account with active child accounts. Deactivate children first.")
	}

	referenced := slices.ContainsFunc(s.data.Transactions, func(t model.Transaction) bool {
		return t.References(accountID)
	})

	if referenced || len(chart.Children(accountID)) > 0 {
		inactive := false
		if _, err := s.UpdateAccount(accountID, model.AccountUpdate{IsActive: &inactive}); err != nil {
			return false, err
		}
		return true, nil
	}

	s.data.Accounts = slices.DeleteFunc(slices.Clone(s.data.Accounts), func(a model.Account) bool {
		return a.ID == accountID
	})
	s.touch()
	return true, nil
}

// Account returns the account with the given id.
func (s *Store) Account(accountID string) (model.Account, bool) {
	return s.chart().Get(accountID)
}

// Accounts returns all accounts in insertion order, optionally only active ones.
func (s *Store) Accounts(activeOnly bool) []model.Account {
	if !activeOnly {
		return slices.Clone(s.data.Accounts)
	}
	var result []model.Account
	for _, a := range s.data.Accounts {
		if a.IsActive {
			result = append(result, a)
		}
	}
	return result
}

// Children returns the direct children of an account.
func (s *Store) Children(accountID string) []model.Account {
	return s.chart().Children(accountID)
}

// IsDescendant reports whether accountID sits below ancestorID in the chart.
func (s *Store) IsDescendant(accountID, ancestorID string) bool {
	return s.chart().IsDescendant(accountID, ancestorID)
}

// ==================== Transactions ====================

// CreateTransaction validates in and appends a new transaction. The date
// keeps only its calendar day; any clock time is dropped.
func (s *Store) CreateTransaction(in model.TransactionInput) (model.Transaction, error) {
	now := s.now()
	txn := model.Transaction{
		ID:          s.newID(),
		Date:        id.DateOf(in.Date),
		Description: in.Description,
		Entries:     slices.Clone(in.Entries),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := validateTransaction(txn, s.chart()); err != nil {
		return model.Transaction{}, err
	}

	s.data.Transactions = append(slices.Clip(s.data.Transactions), txn)
	s.touch()
	return txn.Clone(), nil
}

// UpdateTransaction merges upd into the transaction and re-validates the
// whole result exactly as CreateTransaction does.
func (s *Store) UpdateTransaction(txnID string, upd model.TransactionUpdate) (model.Transaction, error) {
	i := slices.IndexFunc(s.data.Transactions, func(t model.Transaction) bool { return t.ID == txnID })
	if i < 0 {
		return model.Transaction{}, invalid(RuleNotFound, "Transaction not found: %s", txnID)
	}

	txn := s.data.Transactions[i].Clone()
	if upd.Date != nil {
		txn.Date = id.DateOf(*upd.Date)
	}
	if upd.Description != nil {
		txn.Description = *upd.Description
	}
	if upd.Entries != nil {
		txn.Entries = slices.Clone(upd.Entries)
	}
	txn.UpdatedAt = s.now()

	if err := validateTransaction(txn, s.chart()); err != nil {
		return model.Transaction{}, err
	}

	next := slices.Clone(s.data.Transactions)
	next[i] = txn
	s.data.Transactions = next
	s.touch()
	return txn.Clone(), nil
}

// DeleteTransaction removes a transaction. It reports false for an unknown id.
func (s *Store) DeleteTransaction(txnID string) bool {
	i := slices.IndexFunc(s.data.Transactions, func(t model.Transaction) bool { return t.ID == txnID })
	if i < 0 {
		return false
	}
	s.data.Transactions = slices.Delete(slices.Clone(s.data.Transactions), i, i+1)
	s.touch()
	return true
}

// Transaction returns the transaction with the given id.
func (s *Store) Transaction(txnID string) (model.Transaction, bool) {
	for _, t := range s.data.Transactions {
		if t.ID == txnID {
			return t.Clone(), true
		}
	}
	return model.Transaction{}, false
}

// Transactions returns all transactions in insertion order.
func (s *Store) Transactions() []model.Transaction {
	result := make([]model.Transaction, len(s.data.Transactions))
	for i, t := range s.data.Transactions {
		result[i] = t.Clone()
	}
	return result
}

// ==================== Snapshots ====================

// Snapshot returns a deep copy of the ledger state.
func (s *Store) Snapshot() model.Snapshot {
	return s.data.Clone()
}

// LoadSnapshot replaces the ledger state with snap. Every account and
// transaction is validated against snap itself first; on any failure the
// current state is kept. Transaction dates are reduced to their calendar day.
func (s *Store) LoadSnapshot(snap model.Snapshot) error {
	snap = snap.Clone()
	for i := range snap.Transactions {
		snap.Transactions[i].Date = id.DateOf(snap.Transactions[i].Date)
	}
	chart := accounts.NewIndex(snap.Accounts)

	seen := make(map[string]bool, len(snap.Accounts))
	for _, a := range snap.Accounts {
		if err := validateAccount(a, chart); err != nil {
			return err
		}
		if seen[a.ID] {
			return invalid(RuleDuplicateID, "Duplicate account id: %s", a.ID)
		}
		seen[a.ID] = true
		if chart.IsDescendant(a.ID, a.ID) {
			return invalid(RuleParentCycle, "Account is its own ancestor: %s", a.ID)
		}
	}

	seen = make(map[string]bool, len(snap.Transactions))
	for _, t := range snap.Transactions {
		if err := validateTransaction(t, chart); err != nil {
			return err
		}
		if seen[t.ID] {
			return invalid(RuleDuplicateID, "Duplicate transaction id: %s", t.ID)
		}
		seen[t.ID] = true
	}

	if snap.Version == "" {
		snap.Version = model.DataVersion
	}
	s.data = snap
	return nil
}
