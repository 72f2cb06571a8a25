package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kkb-dev/kkb/internal/model"
)

// Ledger is the part of ledger.Store the adapter needs.
type Ledger interface {
	Snapshot() model.Snapshot
	LoadSnapshot(snap model.Snapshot) error
}

// SaveHook runs after a snapshot has been written. message describes the
// mutation that triggered the save.
type SaveHook func(ctx context.Context, message string) error

// Adapter loads a ledger from a Blob at startup and writes it back after
// each successful mutation.
type Adapter struct {
	blob  Blob
	log   zerolog.Logger
	hooks []SaveHook
}

// NewAdapter creates an Adapter over blob.
func NewAdapter(blob Blob, log zerolog.Logger) *Adapter {
	return &Adapter{blob: blob, log: log}
}

// OnSave registers a hook run after every successful Save.
func (a *Adapter) OnSave(hook SaveHook) {
	a.hooks = append(a.hooks, hook)
}

// Load fills l from the blob and reports whether anything was loaded. A
// missing, unreadable, unparsable or invalid blob leaves l empty; it is
// logged and never returned as an error.
func (a *Adapter) Load(ctx context.Context, l Ledger) bool {
	data, err := a.blob.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		a.log.Debug().Msg("no stored ledger, starting empty")
		return false
	}
	if err != nil {
		a.log.Error().Err(err).Msg("reading stored ledger failed, starting empty")
		return false
	}

	snap, err := Unmarshal(data)
	if err != nil {
		a.log.Warn().Err(err).Msg("stored ledger is unparsable, starting empty")
		return false
	}

	if err := l.LoadSnapshot(snap); err != nil {
		a.log.Warn().Err(err).Msg("stored ledger is invalid, starting empty")
		return false
	}

	a.log.Debug().
		Int("accounts", len(snap.Accounts)).
		Int("transactions", len(snap.Transactions)).
		Msg("ledger loaded")
	return true
}

// Save writes l's current snapshot and then runs the save hooks.
func (a *Adapter) Save(ctx context.Context, l Ledger, message string) error {
	data, err := Marshal(l.Snapshot())
	if err != nil {
		return err
	}
	if err := a.blob.Write(ctx, data); err != nil {
		a.log.Error().Err(err).Msg("saving ledger failed")
		return fmt.Errorf("saving ledger: %w", err)
	}
	a.log.Debug().Int("bytes", len(data)).Str("change", message).Msg("ledger saved")

	for _, hook := range a.hooks {
		if err := hook(ctx, message); err != nil {
			return fmt.Errorf("after save: %w", err)
		}
	}
	return nil
}
