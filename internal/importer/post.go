package importer

import (
	"fmt"

	"github.com/kkb-dev/kkb/internal/ledger"
	"github.com/kkb-dev/kkb/internal/model"
)

// Poster is the part of ledger.Store that Post writes through.
type Poster interface {
	CreateTransaction(in model.TransactionInput) (model.Transaction, error)
}

// Post creates one two-entry transaction per row. Money in debits the bank
// account and credits the offset; money out does the reverse. Posting
// stops at the first rejected row; the transactions created before it are
// returned along with the error.
func Post(s Poster, rows []Row, bankAccountID, offsetAccountID string) ([]model.Transaction, error) {
	created := make([]model.Transaction, 0, len(rows))
	for i, row := range rows {
		t, err := s.CreateTransaction(Input(row, bankAccountID, offsetAccountID))
		if err != nil {
			if ledger.IsValidation(err) {
				return created, fmt.Errorf("row %d (%s %q): %w", i+1, row.Date.Format("2006-01-02"), row.Description, err)
			}
			return created, err
		}
		created = append(created, t)
	}
	return created, nil
}

// Input builds the transaction for a single statement row.
func Input(row Row, bankAccountID, offsetAccountID string) model.TransactionInput {
	amount := row.Amount.Abs()
	bank := model.Entry{AccountID: bankAccountID}
	offset := model.Entry{AccountID: offsetAccountID}
	if row.Amount.IsNegative() {
		offset.Debit = amount
		bank.Credit = amount
	} else {
		bank.Debit = amount
		offset.Credit = amount
	}
	return model.TransactionInput{
		Date:        row.Date,
		Description: row.Description,
		Entries:     []model.Entry{bank, offset},
	}
}
