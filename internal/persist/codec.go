package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kkb-dev/kkb/internal/id"
	"github.com/kkb-dev/kkb/internal/model"
)

// Wire shapes. Field names are part of the stored format and must not change.

type snapshotJSON struct {
	Version      string            `json:"version"`
	LastModified string            `json:"lastModified"`
	Accounts     []accountJSON     `json:"accounts"`
	Transactions []transactionJSON `json:"transactions"`
}

type accountJSON struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	ParentID  *string `json:"parent_id"`
	Currency  string  `json:"currency"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type entryJSON struct {
	AccountID string      `json:"account_id"`
	Debit     json.RawMessage `json:"debit"`
	Credit    json.RawMessage `json:"credit"`
}

type transactionJSON struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Entries     []entryJSON `json:"entries"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
}

// Encode writes snap as indented JSON.
func Encode(w io.Writer, snap model.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(toJSON(snap)); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// Marshal returns snap as indented JSON.
func Marshal(snap model.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(toJSON(snap), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Decode reads a snapshot. It checks only the shape of the data; ledger
// invariants are left to ledger.Store.LoadSnapshot.
func Decode(r io.Reader) (model.Snapshot, error) {
	var raw snapshotJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return model.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return fromJSON(raw)
}

// Unmarshal parses a snapshot from data.
func Unmarshal(data []byte) (model.Snapshot, error) {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return fromJSON(raw)
}

func toJSON(snap model.Snapshot) snapshotJSON {
	out := snapshotJSON{
		Version:      snap.Version,
		LastModified: id.FormatTimestamp(snap.LastModified),
		Accounts:     make([]accountJSON, 0, len(snap.Accounts)),
		Transactions: make([]transactionJSON, 0, len(snap.Transactions)),
	}
	for _, a := range snap.Accounts {
		aj := accountJSON{
			ID:        a.ID,
			Name:      a.Name,
			Type:      string(a.Type),
			Currency:  a.Currency,
			IsActive:  a.IsActive,
			CreatedAt: formatTime(a.CreatedAt),
			UpdatedAt: formatTime(a.UpdatedAt),
		}
		if a.ParentID != "" {
			parent := a.ParentID
			aj.ParentID = &parent
		}
		out.Accounts = append(out.Accounts, aj)
	}
	for _, t := range snap.Transactions {
		tj := transactionJSON{
			ID:          t.ID,
			Description: t.Description,
			Entries:     make([]entryJSON, 0, len(t.Entries)),
			CreatedAt:   formatTime(t.CreatedAt),
			UpdatedAt:   formatTime(t.UpdatedAt),
		}
		if !t.Date.IsZero() {
			tj.Date = id.FormatDate(t.Date)
		}
		for _, e := range t.Entries {
			tj.Entries = append(tj.Entries, entryJSON{
				AccountID: e.AccountID,
				Debit:     json.RawMessage(e.Debit.String()),
				Credit:    json.RawMessage(e.Credit.String()),
			})
		}
		out.Transactions = append(out.Transactions, tj)
	}
	return out
}

func fromJSON(raw snapshotJSON) (model.Snapshot, error) {
	lastModified, err := parseTime(raw.LastModified)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("lastModified: %w", err)
	}
	snap := model.Snapshot{
		Version:      raw.Version,
		LastModified: lastModified,
	}

	for i, aj := range raw.Accounts {
		acct, err := accountFromJSON(aj)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("account %d: %w", i, err)
		}
		snap.Accounts = append(snap.Accounts, acct)
	}

	for i, tj := range raw.Transactions {
		txn, err := transactionFromJSON(tj)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		snap.Transactions = append(snap.Transactions, txn)
	}
	return snap, nil
}

func accountFromJSON(aj accountJSON) (model.Account, error) {
	created, err := parseTime(aj.CreatedAt)
	if err != nil {
		return model.Account{}, fmt.Errorf("created_at: %w", err)
	}
	updated, err := parseTime(aj.UpdatedAt)
	if err != nil {
		return model.Account{}, fmt.Errorf("updated_at: %w", err)
	}
	acct := model.Account{
		ID:        aj.ID,
		Name:      aj.Name,
		Type:      model.AccountType(aj.Type),
		Currency:  aj.Currency,
		IsActive:  aj.IsActive,
		CreatedAt: created,
		UpdatedAt: updated,
	}
	if aj.ParentID != nil {
		acct.ParentID = *aj.ParentID
	}
	return acct, nil
}

func transactionFromJSON(tj transactionJSON) (model.Transaction, error) {
	txn := model.Transaction{
		ID:          tj.ID,
		Description: tj.Description,
	}
	if tj.Date != "" {
		d, err := id.ParseDate(tj.Date)
		if err != nil {
			return model.Transaction{}, err
		}
		txn.Date = d
	}

	var err error
	if txn.CreatedAt, err = parseTime(tj.CreatedAt); err != nil {
		return model.Transaction{}, fmt.Errorf("created_at: %w", err)
	}
	if txn.UpdatedAt, err = parseTime(tj.UpdatedAt); err != nil {
		return model.Transaction{}, fmt.Errorf("updated_at: %w", err)
	}

	for i, ej := range tj.Entries {
		debit, err := parseAmount(ej.Debit)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("entry %d debit: %w", i, err)
		}
		credit, err := parseAmount(ej.Credit)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("entry %d credit: %w", i, err)
		}
		txn.Entries = append(txn.Entries, model.Entry{AccountID: ej.AccountID, Debit: debit, Credit: credit})
	}
	return txn, nil
}

var errNotNumber = errors.New("entry debit and credit must be numbers")

// parseAmount accepts only a JSON number literal. Quoted amounts and null
// are rejected.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	lit := strings.TrimSpace(string(raw))
	if lit == "" || lit == "null" || strings.HasPrefix(lit, `"`) {
		return decimal.Decimal{}, errNotNumber
	}
	d, err := decimal.NewFromString(lit)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", errNotNumber, lit)
	}
	return d, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return id.FormatTimestamp(t)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return id.ParseTimestamp(s)
}
