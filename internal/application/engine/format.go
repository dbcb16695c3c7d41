package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/catalog"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// as unwraps an action delivered either by value or by pointer
func as[T Action](action Action) (T, error) {
	if a, ok := action.(T); ok {
		return a, nil
	}
	if p, ok := any(action).(*T); ok && p != nil {
		return *p, nil
	}
	var zero T
	return zero, fmt.Errorf("unexpected payload %T for %s", action, action.Type())
}

// checkAmount bounds a player-supplied multiplier
func checkAmount(n int) error {
	if n > MaxActionAmount {
		return shared.NewValidationError("amount", fmt.Sprintf("at most %d at a time", MaxActionAmount))
	}
	return nil
}

// describe renders a resource map as "2 Wood, 1 Stone" in key order
func describe(cat *catalog.Catalog, items map[string]int) string {
	keys := make([]string, 0, len(items))
	for k, v := range items {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "nothing"
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d %s", items[k], cat.DisplayName(k))
	}
	return strings.Join(parts, ", ")
}
