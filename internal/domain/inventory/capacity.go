package inventory

// Capacity derives the per-key inventory cap from upgrade and skill levels.
type Capacity struct {
	Base             int `yaml:"base" json:"base"`
	PerStorageLevel  int `yaml:"per_storage_level" json:"per_storage_level"`
	PerPackMuleLevel int `yaml:"per_pack_mule_level" json:"per_pack_mule_level"`
}

// DefaultCapacity is the capacity curve used when no data table overrides it
var DefaultCapacity = Capacity{Base: 50, PerStorageLevel: 25, PerPackMuleLevel: 10}

// For computes cap = base + storageLevel*step + packMuleLevel*bonus
func (c Capacity) For(storageLevel, packMuleLevel int) int {
	total := c.Base + max(0, storageLevel)*c.PerStorageLevel + max(0, packMuleLevel)*c.PerPackMuleLevel
	if total < 0 {
		return 0
	}
	return total
}
