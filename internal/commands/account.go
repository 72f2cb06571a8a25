package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kkb-dev/kkb/internal/accounts"
	"github.com/kkb-dev/kkb/internal/model"
	"github.com/kkb-dev/kkb/internal/report"
)

func newAccountCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"accounts"},
		Short:   "Manage the chart of accounts",
	}
	cmd.AddCommand(
		newAccountAddCommand(opts),
		newAccountListCommand(opts),
		newAccountUpdateCommand(opts),
		newAccountDeleteCommand(opts),
		newAccountTreeCommand(opts),
		newAccountExportCommand(opts),
	)
	return cmd
}

func newAccountAddCommand(opts *options) *cobra.Command {
	var typ, parent, currency string
	var inactive bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			in := model.AccountInput{
				Name:     args[0],
				Type:     model.AccountType(typ),
				Currency: currency,
			}
			if in.Currency == "" {
				in.Currency = e.cfg.Ledger.DefaultCurrency
			}
			if parent != "" {
				p, err := resolveAccount(e.store, parent)
				if err != nil {
					return err
				}
				in.ParentID = p.ID
			}
			if inactive {
				active := false
				in.IsActive = &active
			}

			acct, err := e.store.CreateAccount(in)
			if err != nil {
				return err
			}
			if err := e.save(cmd, "account: add "+acct.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added account %s (%s)\n", acct.Name, acct.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "account type: asset, liability, equity, revenue or expense")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent account id or name")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default from kkb.yaml)")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the account inactive")
	return cmd
}

func newAccountListCommand(opts *options) *cobra.Command {
	var all bool
	var typ string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			accts := e.store.Accounts(!all)
			txns := e.store.Transactions()
			chart := accounts.NewIndex(e.store.Accounts(false))

			var b strings.Builder
			b.WriteString("| ID | 名称 | 種別 | 親 | 通貨 | 残高 | 状態 |\n")
			b.WriteString("|---|---|---|---|---|---:|---|\n")
			for _, a := range accts {
				if typ != "" && string(a.Type) != typ {
					continue
				}
				parent := ""
				if !a.IsRoot() {
					parent = chart.Name(a.ParentID)
				}
				status := "有効"
				if !a.IsActive {
					status = "無効"
				}
				bal := report.Balance(a.ID, accts, txns)
				fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s | %s | %s |\n",
					a.ID, mdEscape(a.Name), a.Type.Label(), mdEscape(parent), a.Currency,
					formatMoney(bal, a.Currency), status)
			}
			return render(cmd, b.String())
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include inactive accounts")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "only accounts of this type")
	return cmd
}

func newAccountUpdateCommand(opts *options) *cobra.Command {
	var name, typ, parent, currency string
	var active bool

	cmd := &cobra.Command{
		Use:   "update <account>",
		Short: "Change an account's name, parent, currency or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			acct, err := resolveAccount(e.store, args[0])
			if err != nil {
				return err
			}

			var upd model.AccountUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				upd.Name = &name
			}
			if flags.Changed("type") {
				t := model.AccountType(typ)
				upd.Type = &t
			}
			if flags.Changed("parent") {
				parentID := ""
				if parent != "" {
					p, err := resolveAccount(e.store, parent)
					if err != nil {
						return err
					}
					parentID = p.ID
				}
				upd.ParentID = &parentID
			}
			if flags.Changed("currency") {
				upd.Currency = &currency
			}
			if flags.Changed("active") {
				upd.IsActive = &active
			}

			updated, err := e.store.UpdateAccount(acct.ID, upd)
			if err != nil {
				return err
			}
			if err := e.save(cmd, "account: update "+updated.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated account %s (%s)\n", updated.Name, updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "account type (cannot be changed)")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", `new parent account id or name ("" for top level)`)
	cmd.Flags().StringVar(&currency, "currency", "", "new currency code")
	cmd.Flags().BoolVar(&active, "active", true, "set active (--active=false deactivates)")
	return cmd
}

func newAccountDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account>",
		Short: "Delete an account, or deactivate it if it is in use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			acct, err := resolveAccount(e.store, args[0])
			if err != nil {
				return err
			}
			ok, err := e.store.DeleteAccount(acct.ID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("account not found: %s", acct.ID)
			}

			// Referenced accounts survive as inactive.
			verb := "Deleted"
			if _, kept := e.store.Account(acct.ID); kept {
				verb = "Deactivated"
			}
			if err := e.save(cmd, "account: "+strings.ToLower(verb)+" "+acct.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s account %s (%s)\n", verb, acct.Name, acct.ID)
			return nil
		},
	}
}

func newAccountTreeCommand(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the account hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			accts := e.store.Accounts(!all)
			txns := e.store.Transactions()
			chart := accounts.NewIndex(accts)

			var b strings.Builder
			var walk func(a model.Account, depth int)
			walk = func(a model.Account, depth int) {
				fmt.Fprintf(&b, "%s- %s %s\n", strings.Repeat("  ", depth), mdEscape(a.Name),
					formatMoney(report.Balance(a.ID, accts, txns), a.Currency))
				for _, c := range chart.Children(a.ID) {
					walk(c, depth+1)
				}
			}

			for _, t := range model.AccountTypes {
				roots := 0
				for _, a := range chart.ByType(t) {
					// Accounts whose parent is filtered out are shown as roots.
					if !a.IsRoot() && chart.Exists(a.ParentID) {
						continue
					}
					if roots == 0 {
						fmt.Fprintf(&b, "\n## %s\n\n", t.Label())
					}
					roots++
					walk(a, 0)
				}
			}
			return render(cmd, strings.TrimPrefix(b.String(), "\n"))
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include inactive accounts")
	return cmd
}

func newAccountExportCommand(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the chart of accounts as CSV",
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
			if err := accounts.WriteAccounts(w, e.store.Accounts(false)); err != nil {
				done()
				return err
			}
			return done()
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
