package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one line of a transaction. Exactly one of Debit and Credit is positive.
type Entry struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// Transaction is a balanced set of entries posted on one calendar date.
type Transaction struct {
	ID          string
	Date        time.Time // calendar date, UTC midnight
	Description string
	Entries     []Entry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a copy that shares no memory with t.
func (t Transaction) Clone() Transaction {
	t.Entries = slices.Clone(t.Entries)
	return t
}

// Totals returns the sum of debits and the sum of credits.
func (t Transaction) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range t.Entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}

// References reports whether any entry posts to accountID.
func (t Transaction) References(accountID string) bool {
	return slices.ContainsFunc(t.Entries, func(e Entry) bool { return e.AccountID == accountID })
}

// TransactionInput holds the caller-supplied fields of a new transaction.
type TransactionInput struct {
	Date        time.Time
	Description string
	Entries     []Entry
}

// TransactionUpdate is a partial update; nil fields are left unchanged.
type TransactionUpdate struct {
	Date        *time.Time
	Description *string
	Entries     []Entry // nil = unchanged
}
