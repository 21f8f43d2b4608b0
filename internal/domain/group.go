package domain

import (
	"errors"
	"strings"
)

// ErrInvalidGroup is returned for blank group labels.
var ErrInvalidGroup = errors.New("group label must not be empty")

// DefaultGroup is used when an entry is added without an active filter.
const DefaultGroup = "🌎 General"

// DefaultGroups is the stock set of presentation categories. The set is open:
// any non-empty label is accepted by the stores.
var DefaultGroups = []string{"🌎 General", "📺 Watch", "🧪 Learn", "🎧 Listen"}

// ValidateGroup checks that a label is usable as a group.
func ValidateGroup(group string) error {
	if strings.TrimSpace(group) == "" {
		return ErrInvalidGroup
	}
	return nil
}

// GroupOrDefault returns the active filter when set, otherwise def.
func GroupOrDefault(filter, def string) string {
	if filter != "" {
		return filter
	}
	if def != "" {
		return def
	}
	return DefaultGroup
}
