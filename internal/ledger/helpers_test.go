package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kkb-dev/kkb/internal/model"
)

var epoch = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// newTestStore returns a Store whose clock ticks one second per call and whose
// ids are sequential.
func newTestStore() *Store {
	tick := 0
	seq := 0
	return New(
		WithClock(func() time.Time {
			tick++
			return epoch.Add(time.Duration(tick) * time.Second)
		}),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func debit(accountID, amount string) model.Entry {
	return model.Entry{AccountID: accountID, Debit: dec(amount)}
}

func credit(accountID, amount string) model.Entry {
	return model.Entry{AccountID: accountID, Credit: dec(amount)}
}

func mustAccount(t *testing.T, s *Store, name string, typ model.AccountType, parentID string) model.Account {
	t.Helper()
	a, err := s.CreateAccount(model.AccountInput{Name: name, Type: typ, ParentID: parentID})
	require.NoError(t, err)
	return a
}

func mustTransaction(t *testing.T, s *Store, d time.Time, desc string, entries ...model.Entry) model.Transaction {
	t.Helper()
	txn, err := s.CreateTransaction(model.TransactionInput{Date: d, Description: desc, Entries: entries})
	require.NoError(t, err)
	return txn
}

func ptr[T any](v T) *T { return &v }
