package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkb-dev/kkb/internal/model"
)

// testChart builds:
//
//	cash (asset)
//	└── wallet
//	    └── coins
//	bank (asset)
//	card (liability)
//	food (expense, inactive)
func testChart() []model.Account {
	return []model.Account{
		{ID: "cash", Name: "現金", Type: model.AccountTypeAsset, IsActive: true},
		{ID: "wallet", Name: "財布", Type: model.AccountTypeAsset, ParentID: "cash", IsActive: true},
		{ID: "coins", Name: "小銭", Type: model.AccountTypeAsset, ParentID: "wallet", IsActive: true},
		{ID: "bank", Name: "普通預金", Type: model.AccountTypeAsset, IsActive: true},
		{ID: "card", Name: "クレジットカード", Type: model.AccountTypeLiability, IsActive: true},
		{ID: "food", Name: "食費", Type: model.AccountTypeExpense},
	}
}

func TestGetExists(t *testing.T) {
	x := NewIndex(testChart())

	acct, ok := x.Get("bank")
	assert.True(t, ok)
	assert.Equal(t, "普通預金", acct.Name)

	_, ok = x.Get("nope")
	assert.False(t, ok)

	assert.True(t, x.Exists("cash"))
	assert.False(t, x.Exists("nope"))
	assert.Len(t, x.All(), 6)
}

func TestName(t *testing.T) {
	x := NewIndex(testChart())
	assert.Equal(t, "現金", x.Name("cash"))
	assert.Equal(t, UnknownAccountName, x.Name("nope"))
}

func TestByType(t *testing.T) {
	x := NewIndex(testChart())
	assets := x.ByType(model.AccountTypeAsset)
	assert.Len(t, assets, 4)
	for _, a := range assets {
		assert.Equal(t, model.AccountTypeAsset, a.Type)
	}
	assert.Empty(t, x.ByType(model.AccountTypeRevenue))
}

func TestChildren(t *testing.T) {
	x := NewIndex(testChart())
	children := x.Children("cash")
	require.Len(t, children, 1)
	assert.Equal(t, "wallet", children[0].ID)
	assert.Empty(t, x.Children(""), "roots are not children of the empty id")
	assert.True(t, x.HasActiveChild("wallet"))
	assert.False(t, x.HasActiveChild("coins"))
}

func TestAncestors(t *testing.T) {
	x := NewIndex(testChart())
	chain := x.Ancestors("coins")
	require.Len(t, chain, 2)
	assert.Equal(t, "wallet", chain[0].ID)
	assert.Equal(t, "cash", chain[1].ID)
	assert.Empty(t, x.Ancestors("cash"))
	assert.Empty(t, x.Ancestors("nope"))
}

func TestIsDescendant(t *testing.T) {
	x := NewIndex(testChart())
	tests := []struct {
		id, ancestor string
		want         bool
	}{
		{"coins", "cash", true},
		{"coins", "wallet", true},
		{"wallet", "cash", true},
		{"cash", "wallet", false},
		{"cash", "cash", false},
		{"bank", "cash", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, x.IsDescendant(tt.id, tt.ancestor), "IsDescendant(%s, %s)", tt.id, tt.ancestor)
	}
}

func TestAncestors_StopsOnCycle(t *testing.T) {
	x := NewIndex([]model.Account{
		{ID: "a", ParentID: "b"},
		{ID: "b", ParentID: "a"},
	})
	assert.LessOrEqual(t, len(x.Ancestors("a")), 3)
}

func TestPotentialParents(t *testing.T) {
	x := NewIndex(testChart())

	ids := func(accts []model.Account) []string {
		var out []string
		for _, a := range accts {
			out = append(out, a.ID)
		}
		return out
	}

	assert.Equal(t, []string{"cash", "wallet", "coins", "bank"}, ids(x.PotentialParents(model.AccountTypeAsset, "")))
	assert.Equal(t, []string{"bank"}, ids(x.PotentialParents(model.AccountTypeAsset, "cash")))
	assert.Equal(t, []string{"cash", "bank"}, ids(x.PotentialParents(model.AccountTypeAsset, "wallet")))
	assert.Empty(t, x.PotentialParents(model.AccountTypeExpense, ""), "inactive accounts are never offered")
}

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart()
	require.Len(t, chart, 8)

	types := make(map[model.AccountType]bool)
	for _, in := range chart {
		assert.NotEmpty(t, in.Name)
		assert.Equal(t, model.DefaultCurrency, in.Currency)
		assert.Empty(t, in.ParentID)
		types[in.Type] = true
	}
	for _, at := range model.AccountTypes {
		assert.True(t, types[at], "default chart should cover %s", at)
	}
}
