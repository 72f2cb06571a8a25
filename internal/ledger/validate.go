package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kkb-dev/kkb/internal/accounts"
	"github.com/kkb-dev/kkb/internal/model"
)

// balanceTolerance is how far debit and credit totals may drift apart.
var balanceTolerance = decimal.RequireFromString("0.01")

// validateAccount checks a fully populated account against the chart it will
// live in.
func validateAccount(a model.Account, chart *accounts.Index) error {
	if a.ID == "" || strings.TrimSpace(a.Name) == "" || a.Type == "" {
		return invalid(RuleRequired, "Account missing required fields")
	}

	if !a.Type.Valid() {
		return invalid(RuleAccountType, "Invalid account type: %s", a.Type)
	}

	if a.ParentID != "" {
		parent, ok := chart.Get(a.ParentID)
		if !ok {
			return invalid(RuleParentNotFound, "Parent account not found: %s", a.ParentID)
		}
		if parent.Type != a.Type {
			return invalid(RuleParentType, "Child account type (%s) must match parent type (%s)", a.Type, parent.Type)
		}
	}
	return nil
}

// validateParentChain rejects a parent assignment that would make a its own
// ancestor.
func validateParentChain(a model.Account, chart *accounts.Index) error {
	if a.ParentID == "" {
		return nil
	}
	if a.ParentID == a.ID || chart.IsDescendant(a.ParentID, a.ID) {
		return invalid(RuleParentCycle, "Account cannot be moved under itself or one of its descendants: %s", a.ParentID)
	}
	return nil
}

// validateTransaction checks, in order: required fields, entry count, each
// entry, the balance, and finally that every entry's account exists. Later
// checks rely on the earlier ones having passed.
func validateTransaction(t model.Transaction, chart *accounts.Index) error {
	if t.ID == "" || t.Date.IsZero() || strings.TrimSpace(t.Description) == "" {
		return invalid(RuleRequired, "Transaction missing required fields")
	}

	if len(t.Entries) < 2 {
		return invalid(RuleEntryCount, "Transaction must have at least 2 entries")
	}

	for _, e := range t.Entries {
		if err := validateEntry(e); err != nil {
			return err
		}
	}

	debit, credit := t.Totals()
	if debit.Sub(credit).Abs().GreaterThan(balanceTolerance) {
		return invalid(RuleBalance, "Transaction not balanced: debits (%s) ≠ credits (%s)", debit, credit)
	}

	for _, e := range t.Entries {
		if !chart.Exists(e.AccountID) {
			return invalid(RuleUnknownAccount, "Transaction references non-existent account: %s", e.AccountID)
		}
	}
	return nil
}

func validateEntry(e model.Entry) error {
	if e.AccountID == "" {
		return invalid(RuleEntry, "Entry missing account_id")
	}
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return invalid(RuleEntry, "Entry debit and credit must be non-negative")
	}
	if e.Debit.IsPositive() && e.Credit.IsPositive() {
		return invalid(RuleEntry, "Entry cannot have both debit and credit (use separate entries)")
	}
	if e.Debit.IsZero() && e.Credit.IsZero() {
		return invalid(RuleEntry, "Entry must have either debit or credit > 0")
	}
	return nil
}
