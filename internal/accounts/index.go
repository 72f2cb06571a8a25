package accounts

import "github.com/kkb-dev/kkb/internal/model"

// UnknownAccountName is shown in place of a name for ids that resolve to nothing.
const UnknownAccountName = "不明な勘定科目"

// Index provides in-memory lookup and tree queries over the chart of accounts.
type Index struct {
	accounts []model.Account
	byID     map[string]int
}

// NewIndex creates an Index from a slice of accounts. The slice is not copied.
func NewIndex(accounts []model.Account) *Index {
	byID := make(map[string]int, len(accounts))
	for i, a := range accounts {
		byID[a.ID] = i
	}
	return &Index{accounts: accounts, byID: byID}
}

// All returns all accounts in insertion order.
func (x *Index) All() []model.Account {
	return x.accounts
}

// Get returns an account by ID.
func (x *Index) Get(id string) (model.Account, bool) {
	i, ok := x.byID[id]
	if !ok {
		return model.Account{}, false
	}
	return x.accounts[i], true
}

// Exists reports whether an account ID exists.
func (x *Index) Exists(id string) bool {
	_, ok := x.byID[id]
	return ok
}

// Name returns the account's name, or UnknownAccountName.
func (x *Index) Name(id string) string {
	if a, ok := x.Get(id); ok {
		return a.Name
	}
	return UnknownAccountName
}

// ByType returns all accounts of the given type.
func (x *Index) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range x.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Children returns the direct children of id.
func (x *Index) Children(id string) []model.Account {
	var result []model.Account
	for _, a := range x.accounts {
		if a.ParentID == id && id != "" {
			result = append(result, a)
		}
	}
	return result
}

// HasActiveChild reports whether id has at least one active direct child.
func (x *Index) HasActiveChild(id string) bool {
	for _, a := range x.Children(id) {
		if a.IsActive {
			return true
		}
	}
	return false
}

// Ancestors returns the parent chain of id, nearest first. The walk stops at a
// root or at a parent_id that resolves to nothing.
func (x *Index) Ancestors(id string) []model.Account {
	var chain []model.Account
	a, ok := x.Get(id)
	for ok && a.ParentID != "" && len(chain) <= len(x.accounts) {
		a, ok = x.Get(a.ParentID)
		if ok {
			chain = append(chain, a)
		}
	}
	return chain
}

// IsDescendant reports whether id sits somewhere below ancestorID.
func (x *Index) IsDescendant(id, ancestorID string) bool {
	for _, a := range x.Ancestors(id) {
		if a.ID == ancestorID {
			return true
		}
	}
	return false
}

// PotentialParents returns the accounts that may become the parent of an
// account of type t: same type, active, and neither self nor one of self's
// descendants. self may be "" for an account not yet created.
func (x *Index) PotentialParents(t model.AccountType, self string) []model.Account {
	var result []model.Account
	for _, a := range x.accounts {
		if a.Type != t || !a.IsActive {
			continue
		}
		if self != "" && (a.ID == self || x.IsDescendant(a.ID, self)) {
			continue
		}
		result = append(result, a)
	}
	return result
}
