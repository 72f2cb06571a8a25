package journal

import (
	"fmt"

	"github.com/kkb-dev/kkb/internal/ledger"
	"github.com/kkb-dev/kkb/internal/model"
)

// Import posts txns to s as new transactions. The ids in txns are only
// used for error messages; the Store assigns fresh ones. Nothing is
// posted unless every transaction is accepted.
func Import(s *ledger.Store, txns []model.Transaction) ([]model.Transaction, error) {
	// Dry run against a copy so a bad row leaves s untouched.
	scratch := ledger.New()
	if err := scratch.LoadSnapshot(s.Snapshot()); err != nil {
		return nil, err
	}
	for _, t := range txns {
		if _, err := scratch.CreateTransaction(inputOf(t)); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
	}

	created := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		c, err := s.CreateTransaction(inputOf(t))
		if err != nil {
			return created, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		created = append(created, c)
	}
	return created, nil
}

func inputOf(t model.Transaction) model.TransactionInput {
	return model.TransactionInput{
		Date:        t.Date,
		Description: t.Description,
		Entries:     t.Entries,
	}
}
