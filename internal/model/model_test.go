package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountTypeValid(t *testing.T) {
	for _, at := range AccountTypes {
		assert.True(t, at.Valid(), "%s should be valid", at)
	}
	assert.False(t, AccountType("").Valid())
	assert.False(t, AccountType("income").Valid())
}

func TestAccountTypeDebitNormal(t *testing.T) {
	tests := []struct {
		typ  AccountType
		want bool
	}{
		{AccountTypeAsset, true},
		{AccountTypeExpense, true},
		{AccountTypeLiability, false},
		{AccountTypeEquity, false},
		{AccountTypeRevenue, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.DebitNormal(), "DebitNormal(%s)", tt.typ)
	}
}

func TestTransactionTotals(t *testing.T) {
	txn := Transaction{Entries: []Entry{
		{AccountID: "a", Debit: decimal.RequireFromString("60")},
		{AccountID: "b", Debit: decimal.RequireFromString("40")},
		{AccountID: "c", Credit: decimal.RequireFromString("100")},
	}}
	debit, credit := txn.Totals()
	assert.True(t, debit.Equal(decimal.NewFromInt(100)))
	assert.True(t, credit.Equal(decimal.NewFromInt(100)))
	assert.True(t, txn.References("b"))
	assert.False(t, txn.References("z"))
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	snap := Snapshot{
		Version:  DataVersion,
		Accounts: []Account{{ID: "a", Name: "Cash"}},
		Transactions: []Transaction{{ID: "t", Entries: []Entry{
			{AccountID: "a", Debit: decimal.NewFromInt(1)},
		}}},
	}
	c := snap.Clone()
	c.Accounts[0].Name = "changed"
	c.Transactions[0].Entries[0].AccountID = "changed"
	c.Transactions[0].Description = "changed"

	assert.Equal(t, "Cash", snap.Accounts[0].Name)
	assert.Equal(t, "a", snap.Transactions[0].Entries[0].AccountID)
	assert.Empty(t, snap.Transactions[0].Description)
}
