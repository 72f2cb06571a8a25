// Package report derives balances and financial statements from a set of
// accounts and transactions. Every function is pure: callers pass whatever
// slice they want considered, so pre-filtering by date composes freely.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kkb-dev/kkb/internal/accounts"
	"github.com/kkb-dev/kkb/internal/id"
	"github.com/kkb-dev/kkb/internal/model"
)

// Line is one account's balance on a statement.
type Line struct {
	AccountID   string
	AccountName string
	Balance     decimal.Decimal
}

// IncomeStatement (損益計算書) covers a closed date range.
type IncomeStatement struct {
	StartDate    time.Time
	EndDate      time.Time
	Revenue      []Line
	Expense      []Line
	TotalRevenue decimal.Decimal
	TotalExpense decimal.Decimal
	NetIncome    decimal.Decimal
}

// BalanceSheet (貸借対照表) is taken as of a date, inclusive.
type BalanceSheet struct {
	AsOf             time.Time
	Assets           []Line
	Liabilities      []Line
	Equity           []Line
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	TotalEquity      decimal.Decimal
}

var tolerance = decimal.RequireFromString("0.01")

// IsBalanced reports whether assets equal liabilities plus equity within 0.01.
// Nothing guarantees it: a sheet built from a partial chart can be off.
func (b BalanceSheet) IsBalanced() bool {
	return b.TotalAssets.Sub(b.TotalLiabilities.Add(b.TotalEquity)).Abs().LessThanOrEqual(tolerance)
}

// Through returns the transactions dated on or before asOf. Dates are
// compared by calendar day.
func Through(txns []model.Transaction, asOf time.Time) []model.Transaction {
	asOf = id.DateOf(asOf)
	var out []model.Transaction
	for _, t := range txns {
		if !id.DateOf(t.Date).After(asOf) {
			out = append(out, t)
		}
	}
	return out
}

// Between returns the transactions dated within [start, end], by calendar day.
func Between(txns []model.Transaction, start, end time.Time) []model.Transaction {
	start, end = id.DateOf(start), id.DateOf(end)
	var out []model.Transaction
	for _, t := range txns {
		d := id.DateOf(t.Date)
		if !d.Before(start) && !d.After(end) {
			out = append(out, t)
		}
	}
	return out
}

// Balance returns the balance of an account over all given transactions, in
// the account's normal direction: debits minus credits for asset and expense
// accounts, credits minus debits for liability, equity and revenue accounts.
// An unknown account has a zero balance.
func Balance(accountID string, accts []model.Account, txns []model.Transaction) decimal.Decimal {
	acct, ok := accounts.NewIndex(accts).Get(accountID)
	if !ok {
		return decimal.Zero
	}
	return normalBalance(acct, txns)
}

// BalanceAsOf is Balance restricted to transactions dated on or before asOf.
func BalanceAsOf(accountID string, accts []model.Account, txns []model.Transaction, asOf time.Time) decimal.Decimal {
	return Balance(accountID, accts, Through(txns, asOf))
}

func normalBalance(acct model.Account, txns []model.Transaction) decimal.Decimal {
	debit, credit := decimal.Zero, decimal.Zero
	for _, t := range txns {
		for _, e := range t.Entries {
			if e.AccountID == acct.ID {
				debit = debit.Add(e.Debit)
				credit = credit.Add(e.Credit)
			}
		}
	}
	switch {
	case !acct.Type.Valid():
		return decimal.Zero
	case acct.Type.DebitNormal():
		return debit.Sub(credit)
	default:
		return credit.Sub(debit)
	}
}

// section collects the non-zero balances of the active accounts of one type.
func section(accts []model.Account, txns []model.Transaction, typ model.AccountType) ([]Line, decimal.Decimal) {
	var lines []Line
	total := decimal.Zero
	for _, a := range accts {
		if a.Type != typ || !a.IsActive {
			continue
		}
		bal := normalBalance(a, txns)
		if bal.IsZero() {
			continue
		}
		lines = append(lines, Line{AccountID: a.ID, AccountName: a.Name, Balance: bal})
		total = total.Add(bal)
	}
	return lines, total
}

// NewIncomeStatement computes revenue and expense for transactions dated
// within [start, end].
func NewIncomeStatement(accts []model.Account, txns []model.Transaction, start, end time.Time) IncomeStatement {
	period := Between(txns, start, end)
	is := IncomeStatement{StartDate: start, EndDate: end}
	is.Revenue, is.TotalRevenue = section(accts, period, model.AccountTypeRevenue)
	is.Expense, is.TotalExpense = section(accts, period, model.AccountTypeExpense)
	is.NetIncome = is.TotalRevenue.Sub(is.TotalExpense)
	return is
}

// NewBalanceSheet computes asset, liability and equity balances as of asOf.
func NewBalanceSheet(accts []model.Account, txns []model.Transaction, asOf time.Time) BalanceSheet {
	upTo := Through(txns, asOf)
	bs := BalanceSheet{AsOf: asOf}
	bs.Assets, bs.TotalAssets = section(accts, upTo, model.AccountTypeAsset)
	bs.Liabilities, bs.TotalLiabilities = section(accts, upTo, model.AccountTypeLiability)
	bs.Equity, bs.TotalEquity = section(accts, upTo, model.AccountTypeEquity)
	return bs
}

// AccountName returns the name of accountID, or a placeholder label when the
// account does not exist.
func AccountName(accts []model.Account, accountID string) string {
	return accounts.NewIndex(accts).Name(accountID)
}
