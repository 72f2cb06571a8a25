package commands

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kkb-dev/kkb/internal/accounts"
	"github.com/kkb-dev/kkb/internal/id"
	"github.com/kkb-dev/kkb/internal/journal"
	"github.com/kkb-dev/kkb/internal/model"
	"github.com/kkb-dev/kkb/internal/report"
)

func newTxCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Record and inspect transactions",
	}
	cmd.AddCommand(
		newTxAddCommand(opts),
		newTxListCommand(opts),
		newTxShowCommand(opts),
		newTxUpdateCommand(opts),
		newTxDeleteCommand(opts),
		newTxExportCommand(opts),
		newTxImportCommand(opts),
	)
	return cmd
}

func newTxAddCommand(opts *options) *cobra.Command {
	var date, desc string
	var debits, credits []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Example: `  kkb tx add --date 2025-01-15 --desc "スーパー" --debit 食費=1200 --credit 現金=1200
  kkb tx add --desc "給与" --debit 普通預金=250000 --credit 給与=250000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			d, err := parseDateFlag("date", date, id.Today())
			if err != nil {
				return err
			}
			entries, err := parseEntries(e.store, debits, credits)
			if err != nil {
				return err
			}

			txn, err := e.store.CreateTransaction(model.TransactionInput{
				Date:        d,
				Description: desc,
				Entries:     entries,
			})
			if err != nil {
				return err
			}
			if err := e.save(cmd, "tx: add "+txn.Description); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded transaction %s (%s)\n", txn.ID, id.FormatDate(txn.Date))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&desc, "desc", "m", "", "description")
	cmd.Flags().StringArrayVar(&debits, "debit", nil, "debit entry ACCOUNT=AMOUNT (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "credit", nil, "credit entry ACCOUNT=AMOUNT (repeatable)")
	return cmd
}

func newTxListCommand(opts *options) *cobra.Command {
	var from, to, account string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			start, err := parseDateFlag("from", from, time.Time{})
			if err != nil {
				return err
			}
			end, err := parseDateFlag("to", to, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC))
			if err != nil {
				return err
			}

			txns := report.Between(e.store.Transactions(), start, end)
			if account != "" {
				acct, err := resolveAccount(e.store, account)
				if err != nil {
					return err
				}
				txns = slices.DeleteFunc(txns, func(t model.Transaction) bool { return !t.References(acct.ID) })
			}
			slices.SortStableFunc(txns, func(a, b model.Transaction) int { return a.Date.Compare(b.Date) })

			chart := accounts.NewIndex(e.store.Accounts(false))
			currency := e.cfg.Ledger.DefaultCurrency

			var b strings.Builder
			b.WriteString("| 日付 | 摘要 | 借方 | 貸方 | 金額 | ID |\n")
			b.WriteString("|---|---|---|---|---:|---|\n")
			for _, t := range txns {
				var dr, cr []string
				for _, en := range t.Entries {
					if en.Debit.IsPositive() {
						dr = append(dr, chart.Name(en.AccountID))
					}
					if en.Credit.IsPositive() {
						cr = append(cr, chart.Name(en.AccountID))
					}
				}
				debit, _ := t.Totals()
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | `%s` |\n",
					id.FormatDate(t.Date), mdEscape(t.Description),
					mdEscape(strings.Join(dr, ", ")), mdEscape(strings.Join(cr, ", ")),
					formatMoney(debit, currency), t.ID)
			}
			return render(cmd, b.String())
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date YYYY-MM-DD")
	cmd.Flags().StringVar(&account, "account", "", "only transactions touching this account")
	return cmd
}

func newTxShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a transaction's entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			t, ok := e.store.Transaction(args[0])
			if !ok {
				return fmt.Errorf("transaction not found: %s", args[0])
			}

			accts := e.store.Accounts(false)
			chart := accounts.NewIndex(accts)
			currency := e.cfg.Ledger.DefaultCurrency

			var b strings.Builder
			fmt.Fprintf(&b, "# %s %s\n\n", id.FormatDate(t.Date), mdEscape(t.Description))
			b.WriteString("| 勘定科目 | 借方 | 貸方 |\n|---|---:|---:|\n")
			for _, en := range t.Entries {
				dr, cr := "", ""
				if en.Debit.IsPositive() {
					dr = formatMoney(en.Debit, currency)
				}
				if en.Credit.IsPositive() {
					cr = formatMoney(en.Credit, currency)
				}
				fmt.Fprintf(&b, "| %s | %s | %s |\n", mdEscape(chart.Name(en.AccountID)), dr, cr)
			}
			debit, credit := t.Totals()
			fmt.Fprintf(&b, "| **合計** | **%s** | **%s** |\n\n", formatMoney(debit, currency), formatMoney(credit, currency))
			fmt.Fprintf(&b, "ID `%s`, created %s, updated %s\n", t.ID, id.FormatTimestamp(t.CreatedAt), id.FormatTimestamp(t.UpdatedAt))
			return render(cmd, b.String())
		},
	}
}

func newTxUpdateCommand(opts *options) *cobra.Command {
	var date, desc string
	var debits, credits []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a transaction; --debit/--credit replace all entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			var upd model.TransactionUpdate
			flags := cmd.Flags()
			if flags.Changed("date") {
				d, err := id.ParseDate(date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				upd.Date = &d
			}
			if flags.Changed("desc") {
				upd.Description = &desc
			}
			if flags.Changed("debit") || flags.Changed("credit") {
				entries, err := parseEntries(e.store, debits, credits)
				if err != nil {
					return err
				}
				upd.Entries = entries
				if upd.Entries == nil {
					upd.Entries = []model.Entry{}
				}
			}

			txn, err := e.store.UpdateTransaction(args[0], upd)
			if err != nil {
				return err
			}
			if err := e.save(cmd, "tx: update "+txn.Description); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %s\n", txn.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "new date YYYY-MM-DD")
	cmd.Flags().StringVarP(&desc, "desc", "m", "", "new description")
	cmd.Flags().StringArrayVar(&debits, "debit", nil, "debit entry ACCOUNT=AMOUNT (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "credit", nil, "credit entry ACCOUNT=AMOUNT (repeatable)")
	return cmd
}

func newTxDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if !e.store.DeleteTransaction(args[0]) {
				return fmt.Errorf("transaction not found: %s", args[0])
			}
			if err := e.save(cmd, "tx: delete "+args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", args[0])
			return nil
		},
	}
}

func newTxExportCommand(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all transactions as journal CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			w, done, err := writeTo(cmd, out)
			if err != nil {
				return err
			}
			if err := journal.WriteTransactions(w, e.store.Transactions()); err != nil {
				done()
				return err
			}
			return done()
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newTxImportCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add the transactions of a journal CSV; nothing is added if any is invalid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening journal: %w", err)
			}
			defer f.Close()

			txns, err := journal.ReadTransactions(f)
			if err != nil {
				return err
			}
			created, err := journal.Import(e.store, txns)
			if err != nil {
				return err
			}
			if err := e.save(cmd, fmt.Sprintf("tx: import %d transactions", len(created))); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions\n", len(created))
			return nil
		},
	}
}
