package investments

import (
	"fmt"
	"strings"

	"github.com/rpgo/wealth-planner/internal/domain"
)

// AccountSelector names one of the three accounts.
type AccountSelector string

const (
	SelectTFSA         AccountSelector = "tfsa"
	SelectRRSP         AccountSelector = "rrsp"
	SelectUnregistered AccountSelector = "unregistered"
)

// AllAccounts lists every selector in canonical order.
var AllAccounts = []AccountSelector{SelectTFSA, SelectRRSP, SelectUnregistered}

// ParseSelector resolves an account name, case-insensitively.
func ParseSelector(name string) (AccountSelector, error) {
	switch s := AccountSelector(strings.ToLower(strings.TrimSpace(name))); s {
	case SelectTFSA, SelectRRSP, SelectUnregistered:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown account %q", domain.ErrInvalidInput, name)
	}
}

// ParseOrder resolves and validates an account order.
func ParseOrder(names []string) ([]AccountSelector, error) {
	order := make([]AccountSelector, 0, len(names))
	for _, n := range names {
		s, err := ParseSelector(n)
		if err != nil {
			return nil, err
		}
		order = append(order, s)
	}
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ValidateOrder checks that an order is non-empty, known and free of
// duplicates.
func ValidateOrder(order []AccountSelector) error {
	if len(order) == 0 {
		return fmt.Errorf("%w: account order is empty", domain.ErrInvalidInput)
	}
	seen := make(map[AccountSelector]bool, len(order))
	for _, s := range order {
		switch s {
		case SelectTFSA, SelectRRSP, SelectUnregistered:
		default:
			return fmt.Errorf("%w: unknown account %q", domain.ErrInvalidInput, s)
		}
		if seen[s] {
			return fmt.Errorf("%w: account %q repeated in order", domain.ErrInvalidInput, s)
		}
		seen[s] = true
	}
	return nil
}

// CompleteOrder returns order followed by every account it omits.
func CompleteOrder(order []AccountSelector) []AccountSelector {
	out := append([]AccountSelector(nil), order...)
	for _, s := range AllAccounts {
		found := false
		for _, o := range order {
			if o == s {
				found = true
				break
			}
		}
		if !found {
			out = append(out, s)
		}
	}
	return out
}

// Strings renders an order for reports.
func Strings(order []AccountSelector) []string {
	out := make([]string, len(order))
	for i, s := range order {
		out[i] = string(s)
	}
	return out
}
