package model

import "time"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every account type in statement order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// DefaultCurrency is used when an account is created without one.
const DefaultCurrency = "JPY"

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether debits increase the balance of accounts of this
// type (asset, expense). Liability, equity and revenue are credit-normal.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Label returns the Japanese display label for the type.
func (t AccountType) Label() string {
	switch t {
	case AccountTypeAsset:
		return "資産"
	case AccountTypeLiability:
		return "負債"
	case AccountTypeEquity:
		return "純資産"
	case AccountTypeRevenue:
		return "収益"
	case AccountTypeExpense:
		return "費用"
	}
	return string(t)
}

// Account is a node in the chart of accounts.
type Account struct {
	ID        string
	Name      string
	Type      AccountType
	ParentID  string // "" = root
	Currency  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot reports whether the account has no parent.
func (a Account) IsRoot() bool {
	return a.ParentID == ""
}

// AccountInput holds the caller-supplied fields of a new account.
// Currency defaults to DefaultCurrency and IsActive to true.
type AccountInput struct {
	Name     string
	Type     AccountType
	ParentID string
	Currency string
	IsActive *bool
}

// AccountUpdate is a partial update; nil fields are left unchanged.
// A non-nil ParentID pointing at "" detaches the account to the root.
type AccountUpdate struct {
	Name     *string
	Type     *AccountType
	ParentID *string
	Currency *string
	IsActive *bool
}
