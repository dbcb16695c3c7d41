package inventory

import (
	"fmt"
	"math"
	"sort"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// Costs is a bill of materials: resource key to required quantity.
type Costs map[string]int

// Scale returns a copy with every quantity multiplied by n. Non-positive
// entries are dropped. A negative n or a product that would overflow is a
// validation error.
func (c Costs) Scale(n int) (Costs, error) {
	if n < 0 {
		return nil, shared.NewValidationError("amount", "must not be negative")
	}
	out := make(Costs, len(c))
	for k, v := range c {
		if v <= 0 {
			continue
		}
		if n > math.MaxInt/v {
			return nil, shared.NewValidationError("amount", fmt.Sprintf("%d x %d %s is too large", n, v, k))
		}
		out[k] = v * n
	}
	return out, nil
}

// Keys returns the resource keys in stable order.
func (c Costs) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Inventory maps a resource or item key to a non-negative quantity.
//
// Invariants:
//   - 0 <= qty <= cap for every key; Add clamps and Debit checks first
//   - keys with zero quantity are removed
type Inventory map[string]int

// New creates an empty inventory
func New() Inventory {
	return make(Inventory)
}

// Get returns the quantity held for key (0 if absent)
func (inv Inventory) Get(key string) int {
	return inv[key]
}

// Clone returns an independent copy
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// SpaceFor returns how many more units of key fit under limit
func (inv Inventory) SpaceFor(key string, limit int) int {
	space := limit - inv[key]
	if space < 0 {
		return 0
	}
	return space
}

// Add credits qty units of key, clamped to limit. Returns the amount actually added.
func (inv Inventory) Add(key string, qty int, limit int) int {
	if qty <= 0 {
		return 0
	}
	added := min(qty, inv.SpaceFor(key, limit))
	if added > 0 {
		inv[key] += added
	}
	return added
}

// Credit adds every entry of items, clamping each to limit.
// Returns what was actually credited, omitting keys that did not fit at all.
func (inv Inventory) Credit(items map[string]int, limit int) map[string]int {
	credited := make(map[string]int, len(items))
	for k, v := range items {
		if n := inv.Add(k, v, limit); n > 0 {
			credited[k] = n
		}
	}
	return credited
}

// Missing returns the shortfall per key for costs, or nil when everything is available
func (inv Inventory) Missing(costs Costs) map[string]int {
	var missing map[string]int
	for k, need := range costs {
		if need <= 0 {
			continue
		}
		if have := inv[k]; have < need {
			if missing == nil {
				missing = make(map[string]int)
			}
			missing[k] = need - have
		}
	}
	return missing
}

// Has reports whether every cost can be paid at once
func (inv Inventory) Has(costs Costs) bool {
	return inv.Missing(costs) == nil
}

// Debit removes all costs atomically. Nothing is removed if any key is short.
func (inv Inventory) Debit(costs Costs) error {
	if missing := inv.Missing(costs); missing != nil {
		return shared.NewInsufficientResourcesError(missing)
	}
	for k, need := range costs {
		if need <= 0 {
			continue
		}
		inv[k] -= need
		if inv[k] == 0 {
			delete(inv, k)
		}
	}
	return nil
}

// Remove takes qty units of a single key, failing without mutation when short
func (inv Inventory) Remove(key string, qty int) error {
	return inv.Debit(Costs{key: qty})
}

// Clamp forces every quantity into [0, limit]. Used when adopting external snapshots.
func (inv Inventory) Clamp(limit int) {
	for k, v := range inv {
		switch {
		case v <= 0:
			delete(inv, k)
		case v > limit:
			inv[k] = limit
		}
	}
}

// Total returns the sum of all quantities
func (inv Inventory) Total() int {
	total := 0
	for _, v := range inv {
		total += v
	}
	return total
}
