package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/kkb-dev/kkb/internal/id"
	"github.com/kkb-dev/kkb/internal/ledger"
	"github.com/kkb-dev/kkb/internal/model"
)

// formatMoney renders amount in the currency's own style, e.g. ¥1,200 or
// $12.50. Amounts are rounded to the currency's minor unit. Codes go-money
// does not know are printed as "1200.00 XYZ".
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// render writes a Markdown document, styled by glamour when stdout is a
// terminal and verbatim otherwise.
func render(cmd *cobra.Command, md string) error {
	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
		if err == nil {
			styled, err := r.Render(md)
			if err == nil {
				md = styled
			}
		}
	}
	_, err := io.WriteString(out, md)
	return err
}

// mdEscape keeps user text from breaking a Markdown table row.
func mdEscape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

// resolveAccount finds an account by id, falling back to an exact name
// match. A name shared by several accounts must be given by id.
func resolveAccount(s *ledger.Store, ref string) (model.Account, error) {
	if a, ok := s.Account(ref); ok {
		return a, nil
	}
	var found []model.Account
	for _, a := range s.Accounts(false) {
		if a.Name == ref {
			found = append(found, a)
		}
	}
	switch len(found) {
	case 0:
		return model.Account{}, fmt.Errorf("no account with id or name %q", ref)
	case 1:
		return found[0], nil
	default:
		return model.Account{}, fmt.Errorf("account name %q is ambiguous, use its id", ref)
	}
}

// parseEntries turns --debit/--credit values of the form ACCOUNT=AMOUNT
// into entries, debits first.
func parseEntries(s *ledger.Store, debits, credits []string) ([]model.Entry, error) {
	var entries []model.Entry
	for _, side := range []struct {
		specs []string
		debit bool
	}{{debits, true}, {credits, false}} {
		for _, arg := range side.specs {
			ref, raw, ok := strings.Cut(arg, "=")
			if !ok {
				return nil, fmt.Errorf("entry %q: want ACCOUNT=AMOUNT", arg)
			}
			acct, err := resolveAccount(s, strings.TrimSpace(ref))
			if err != nil {
				return nil, err
			}
			amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
			if err != nil {
				return nil, fmt.Errorf("entry %q: invalid amount", arg)
			}
			e := model.Entry{AccountID: acct.ID}
			if side.debit {
				e.Debit = amount
			} else {
				e.Credit = amount
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// parseDateFlag parses a YYYY-MM-DD flag value, using def when empty.
func parseDateFlag(name, value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	d, err := id.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

// writeTo opens path for writing, or returns stdout when path is empty.
func writeTo(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, f.Close, nil
}
