// Package journal reads and writes transactions as CSV, one row per entry.
package journal

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/kkb-dev/kkb/internal/id"
	"github.com/kkb-dev/kkb/internal/model"
)

// Header is the CSV header for journal files.
var Header = []string{"transaction_id", "date", "description", "account_id", "debit", "credit"}

const (
	numFields = 6
	colTxnID  = 0
	colDate   = 1
	colDesc   = 2
	colAcctID = 3
	colDebit  = 4
	colCredit = 5
)

// Row is one entry of a transaction together with its header fields.
type Row struct {
	TransactionID string
	Date          string
	Description   string
	Entry         model.Entry
}

// ReadTransactions reads a journal CSV and groups rows back into
// transactions by transaction_id, in first-seen order. Rows of one
// transaction must agree on date and description.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var txns []model.Transaction
	index := make(map[string]int)
	for i, rec := range records[1:] {
		line := i + 2
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if row.TransactionID == "" {
			return nil, fmt.Errorf("row %d: missing transaction_id", line)
		}

		j, seen := index[row.TransactionID]
		if !seen {
			date, err := id.ParseDate(row.Date)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", line, err)
			}
			index[row.TransactionID] = len(txns)
			txns = append(txns, model.Transaction{
				ID:          row.TransactionID,
				Date:        date,
				Description: row.Description,
			})
			j = len(txns) - 1
		}

		t := &txns[j]
		if seen && (row.Date != id.FormatDate(t.Date) || row.Description != t.Description) {
			return nil, fmt.Errorf("row %d: transaction %s has conflicting date or description", line, row.TransactionID)
		}
		t.Entries = append(t.Entries, row.Entry)
	}
	return txns, nil
}

// WriteTransactions writes txns as a journal CSV (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	line := 2
	for _, t := range txns {
		for _, e := range t.Entries {
			row := Row{
				TransactionID: t.ID,
				Date:          id.FormatDate(t.Date),
				Description:   t.Description,
				Entry:         e,
			}
			if err := cw.Write(MarshalRow(row)); err != nil {
				return fmt.Errorf("writing row %d: %w", line, err)
			}
			line++
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a Row to CSV fields. Zero amounts are left blank.
func MarshalRow(row Row) []string {
	rec := make([]string, numFields)
	rec[colTxnID] = row.TransactionID
	rec[colDate] = row.Date
	rec[colDesc] = row.Description
	rec[colAcctID] = row.Entry.AccountID

	if !row.Entry.Debit.IsZero() {
		rec[colDebit] = row.Entry.Debit.String()
	}
	if !row.Entry.Credit.IsZero() {
		rec[colCredit] = row.Entry.Credit.String()
	}
	return rec
}

// UnmarshalRow converts CSV fields to a Row. Blank amounts are zero.
func UnmarshalRow(record []string) (Row, error) {
	if len(record) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var debit, credit decimal.Decimal
	var err error

	if record[colDebit] != "" {
		debit, err = decimal.NewFromString(record[colDebit])
		if err != nil {
			return Row{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	}

	if record[colCredit] != "" {
		credit, err = decimal.NewFromString(record[colCredit])
		if err != nil {
			return Row{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	}

	return Row{
		TransactionID: record[colTxnID],
		Date:          record[colDate],
		Description:   record[colDesc],
		Entry: model.Entry{
			AccountID: record[colAcctID],
			Debit:     debit,
			Credit:    credit,
		},
	}, nil
}
