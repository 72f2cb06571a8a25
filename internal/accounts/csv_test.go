package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkb-dev/kkb/internal/model"
)

func TestRoundTrip(t *testing.T) {
	accounts := []model.Account{
		{ID: "cash", Name: "現金", Type: model.AccountTypeAsset, Currency: "JPY", IsActive: true},
		{ID: "wallet", Name: "財布", Type: model.AccountTypeAsset, ParentID: "cash", Currency: "JPY"},
	}

	var buf bytes.Buffer
	err := WriteAccounts(&buf, accounts)
	require.NoError(t, err)

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, accounts[0].ID, got[0].ID)
	assert.Equal(t, accounts[0].Name, got[0].Name)
	assert.Equal(t, accounts[0].Type, got[0].Type)
	assert.True(t, got[0].IsActive)

	assert.Equal(t, "cash", got[1].ParentID)
	assert.False(t, got[1].IsActive)
}

func TestReadAccounts_EmptyActiveMeansActive(t *testing.T) {
	in := strings.Join(Header, ",") + "\n" +
		"1,Cash,asset,,JPY,\n"
	got, err := ReadAccounts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsActive)
	assert.True(t, got[0].IsRoot())
}

func TestReadAccounts_Errors(t *testing.T) {
	badInputs := []string{
		"account_id,account_name\n1,Cash\n",
		strings.Join(Header, ",") + "\n1,Cash,asset,,JPY,maybe\n",
	}
	for _, input := range badInputs {
		_, err := ReadAccounts(strings.NewReader(input))
		assert.Error(t, err, "expected error for input: %q", input)
	}
}

func TestReadAccounts_Empty(t *testing.T) {
	got, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAllAccountTypes(t *testing.T) {
	for _, at := range model.AccountTypes {
		acct := model.Account{ID: "x", Name: "Test", Type: at, IsActive: true}

		var buf bytes.Buffer
		err := WriteAccounts(&buf, []model.Account{acct})
		require.NoError(t, err)

		got, err := ReadAccounts(&buf)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, at, got[0].Type, "account type %q should survive round-trip", at)
	}
}
