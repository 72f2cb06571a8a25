package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/kkb-dev/kkb/internal/id"
	"github.com/kkb-dev/kkb/internal/model"
	"github.com/kkb-dev/kkb/internal/report"
)

func newReportCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Balances and financial statements",
	}
	cmd.AddCommand(
		newReportBalanceCommand(opts),
		newReportIncomeCommand(opts),
		newReportBalanceSheetCommand(opts),
	)
	return cmd
}

func newReportBalanceCommand(opts *options) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "balance <account>",
		Short: "Show one account's balance",
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

			accts, txns := e.store.Accounts(false), e.store.Transactions()
			bal := report.Balance(acct.ID, accts, txns)
			if asOf != "" {
				d, err := id.ParseDate(asOf)
				if err != nil {
					return fmt.Errorf("--as-of: %w", err)
				}
				bal = report.BalanceAsOf(acct.ID, accts, txns, d)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", acct.Name, formatMoney(bal, acct.Currency))
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "only transactions on or before this date")
	return cmd
}

func newReportIncomeCommand(opts *options) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "income",
		Short: "Income statement for a period (default: this month)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			today := id.Today()
			monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
			start, err := parseDateFlag("from", from, monthStart)
			if err != nil {
				return err
			}
			end, err := parseDateFlag("to", to, monthStart.AddDate(0, 1, -1))
			if err != nil {
				return err
			}

			is := report.NewIncomeStatement(e.store.Accounts(false), e.store.Transactions(), start, end)
			return render(cmd, incomeMarkdown(is, e.store.Accounts(false), e.cfg.Ledger.DefaultCurrency))
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date YYYY-MM-DD")
	return cmd
}

func newReportBalanceSheetCommand(opts *options) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:     "balance-sheet",
		Aliases: []string{"bs"},
		Short:   "Balance sheet as of a date (default: today)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			d, err := parseDateFlag("as-of", asOf, id.Today())
			if err != nil {
				return err
			}

			bs := report.NewBalanceSheet(e.store.Accounts(false), e.store.Transactions(), d)
			return render(cmd, balanceSheetMarkdown(bs, e.store.Accounts(false), e.cfg.Ledger.DefaultCurrency))
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "statement date YYYY-MM-DD")
	return cmd
}

// section writes one statement section as a two-column table.
func section(b *strings.Builder, title string, lines []report.Line, total decimal.Decimal, accts []model.Account, currency string) {
	fmt.Fprintf(b, "## %s\n\n| 勘定科目 | 金額 |\n|---|---:|\n", title)
	for _, l := range lines {
		fmt.Fprintf(b, "| %s | %s |\n", mdEscape(l.AccountName), formatMoney(l.Balance, lineCurrency(accts, l.AccountID, currency)))
	}
	fmt.Fprintf(b, "| **合計** | **%s** |\n\n", formatMoney(total, currency))
}

func lineCurrency(accts []model.Account, accountID, fallback string) string {
	for _, a := range accts {
		if a.ID == accountID && a.Currency != "" {
			return a.Currency
		}
	}
	return fallback
}

func incomeMarkdown(is report.IncomeStatement, accts []model.Account, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 損益計算書\n\n%s 〜 %s\n\n", id.FormatDate(is.StartDate), id.FormatDate(is.EndDate))
	section(&b, model.AccountTypeRevenue.Label(), is.Revenue, is.TotalRevenue, accts, currency)
	section(&b, model.AccountTypeExpense.Label(), is.Expense, is.TotalExpense, accts, currency)
	fmt.Fprintf(&b, "**当期純利益: %s**\n", formatMoney(is.NetIncome, currency))
	return b.String()
}

func balanceSheetMarkdown(bs report.BalanceSheet, accts []model.Account, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 貸借対照表\n\n%s 時点\n\n", id.FormatDate(bs.AsOf))
	section(&b, model.AccountTypeAsset.Label(), bs.Assets, bs.TotalAssets, accts, currency)
	section(&b, model.AccountTypeLiability.Label(), bs.Liabilities, bs.TotalLiabilities, accts, currency)
	section(&b, model.AccountTypeEquity.Label(), bs.Equity, bs.TotalEquity, accts, currency)
	fmt.Fprintf(&b, "**負債・純資産合計: %s**\n", formatMoney(bs.TotalLiabilities.Add(bs.TotalEquity), currency))
	if !bs.IsBalanced() {
		b.WriteString("\n> 警告: 資産合計と負債・純資産合計が一致しません。\n")
	}
	return b.String()
}
