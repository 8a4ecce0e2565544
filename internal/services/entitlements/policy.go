package entitlements

import "strings"

// Grant is the outcome of classifying a product descriptor: how long the
// entitlement lasts and whether it is a trial.
type Grant struct {
	Days  int
	Trial bool
}

// DurationPolicy maps a free-text product descriptor (line-item description
// or plan name) to a grant duration.
type DurationPolicy interface {
	Classify(descriptor string) Grant
}

// SubstringPolicy classifies descriptors by case-insensitive substring
// matching, first rule wins:
//
//	contains "7"    -> 7 days, trial
//	contains "30"   -> 30 days
//	contains "year" -> 365 days
//	otherwise       -> 30 days
//
// The matching is deliberately blunt ("2027" and "$7.00" both classify as
// trials); descriptors come from plan names we control, and the behavior is
// kept compatible with existing products.
type SubstringPolicy struct{}

func (SubstringPolicy) Classify(descriptor string) Grant {
	d := strings.ToLower(descriptor)

	switch {
	case strings.Contains(d, "7"):
		return Grant{Days: 7, Trial: true}
	case strings.Contains(d, "30"):
		return Grant{Days: 30}
	case strings.Contains(d, "year"):
		return Grant{Days: 365}
	default:
		return Grant{Days: 30}
	}
}
