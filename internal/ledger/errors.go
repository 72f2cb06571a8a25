package ledger

import (
	"errors"
	"fmt"
)

// Rule names the invariant a ValidationError reports.
type Rule string

const (
	RuleRequired       Rule = "required"
	RuleAccountType    Rule = "account-type"
	RuleImmutableType  Rule = "immutable-type"
	RuleParentNotFound Rule = "parent-not-found"
	RuleParentType     Rule = "parent-type"
	RuleParentCycle    Rule = "parent-cycle"
	RuleDuplicateID    Rule = "duplicate-id"
	RuleEntryCount     Rule = "entry-count"
	RuleEntry          Rule = "entry"
	RuleBalance        Rule = "balance"
	RuleUnknownAccount Rule = "unknown-account"
	RuleNotFound       Rule = "not-found"
	RuleActiveChildren Rule = "active-children"
)

// ValidationError is returned for every invariant violation. Message is
// meant to be shown to the end user as is.
type ValidationError struct {
	Rule    Rule
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

func invalid(rule Rule, format string, args ...any) error {
	return ValidationError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// RuleOf returns the rule of a ValidationError in err's chain, or "".
func RuleOf(err error) Rule {
	var ve ValidationError
	if errors.As(err, &ve) {
		return ve.Rule
	}
	return ""
}
