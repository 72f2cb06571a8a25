package accounts

import "github.com/kkb-dev/kkb/internal/model"

// DefaultChart returns the starter chart of accounts for a household ledger.
func DefaultChart() []model.AccountInput {
	return []model.AccountInput{
		{Name: "現金", Type: model.AccountTypeAsset, Currency: model.DefaultCurrency},
		{Name: "普通預金", Type: model.AccountTypeAsset, Currency: model.DefaultCurrency},
		{Name: "クレジットカード", Type: model.AccountTypeLiability, Currency: model.DefaultCurrency},
		{Name: "開始残高", Type: model.AccountTypeEquity, Currency: model.DefaultCurrency},
		{Name: "給与", Type: model.AccountTypeRevenue, Currency: model.DefaultCurrency},
		{Name: "食費", Type: model.AccountTypeExpense, Currency: model.DefaultCurrency},
		{Name: "交通費", Type: model.AccountTypeExpense, Currency: model.DefaultCurrency},
		{Name: "光熱費", Type: model.AccountTypeExpense, Currency: model.DefaultCurrency},
	}
}
