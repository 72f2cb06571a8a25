package model

import (
	"slices"
	"time"
)

// DataVersion is the snapshot format version written by this build.
const DataVersion = "1.0.0"

// Snapshot is the full ledger state and the unit of persistence.
type Snapshot struct {
	Version      string
	LastModified time.Time
	Accounts     []Account
	Transactions []Transaction
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Version:      s.Version,
		LastModified: s.LastModified,
		Accounts:     slices.Clone(s.Accounts),
	}
	if s.Transactions != nil {
		out.Transactions = make([]Transaction, len(s.Transactions))
		for i, t := range s.Transactions {
			out.Transactions[i] = t.Clone()
		}
	}
	return out
}
