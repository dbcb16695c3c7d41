package machine

// GridParams are the per-tick tuning values derived from skills and upgrades
type GridParams struct {
	// BurnerCapacity is the power each running burner adds to the pool
	BurnerCapacity float64
	// BaseDemand is the draw of each consumer before skill reduction
	BaseDemand float64
	// DemandReduction is subtracted from BaseDemand, never going below 1
	DemandReduction float64
	// BufferCap bounds every key of the output buffer
	BufferCap int
	// SpeedMultiplier is the progress added per powered tick
	SpeedMultiplier float64
}

// GridReport summarises one network update
type GridReport struct {
	Capacity   float64
	Demand     float64
	Efficiency float64
	Cycles     int
	Produced   map[string]int
	Statuses   map[Status]int
}

// MinEfficiency is the grid efficiency below which consumers stall
const MinEfficiency = 0.5

// Efficiency is capacity/demand clamped to [0,1]; zero capacity means zero efficiency
func Efficiency(capacity, demand float64) float64 {
	if capacity <= 0 {
		return 0
	}
	if demand <= 0 {
		return 1
	}
	return min(1, capacity/demand)
}

// Demand returns the skill-reduced draw of one consumer
func (p GridParams) Demand() float64 {
	return max(1, p.BaseDemand-p.DemandReduction)
}

// UpdateNetwork runs one tick of the machine network in two passes.
//
// Pass A settles fuel and sums the power pool and demand.
// Pass B advances every consumer given the resulting grid efficiency.
// Statuses are fully re-derived; only buffers, progress and fuel carry over between ticks.
func UpdateNetwork(machines []Machine, recipes map[string]Recipe, p GridParams) GridReport {
	report := GridReport{
		Produced: make(map[string]int),
		Statuses: make(map[Status]int),
	}

	// Pass A
	for i := range machines {
		m := &machines[i]
		if !m.Type.IsBurner() {
			report.Demand += p.Demand()
			continue
		}
		if m.FuelLevel > 0 {
			m.FuelLevel--
			m.Status = StatusRunning
			report.Capacity += p.BurnerCapacity
		} else {
			m.Status = StatusNoFuel
		}
	}

	report.Efficiency = Efficiency(report.Capacity, report.Demand)

	// Pass B
	for i := range machines {
		m := &machines[i]
		if !m.Type.IsBurner() {
			if advance(m, recipes, report.Efficiency, p) {
				report.Cycles++
				for k, v := range recipes[m.Recipe].Outputs {
					report.Produced[k] += v
				}
			}
		}
		report.Statuses[m.Status]++
	}

	return report
}

// advance moves a single consumer through its cycle. Returns true when a cycle completed.
func advance(m *Machine, recipes map[string]Recipe, efficiency float64, p GridParams) bool {
	recipe, ok := recipes[m.Recipe]
	if m.Recipe == "" || !ok || recipe.Ticks <= 0 {
		m.Status = StatusIdle
		return false
	}

	if efficiency < MinEfficiency {
		m.Status = StatusNoPower
		return false
	}

	if len(recipe.Inputs) > 0 && !m.InputBuffer.Has(recipe.Inputs) {
		m.Status = StatusInputStarved
		m.Progress = 0
		return false
	}

	for k, v := range recipe.Outputs {
		if m.OutputBuffer.Get(k)+v > p.BufferCap {
			m.Status = StatusOutputFull
			return false
		}
	}

	m.Progress += p.SpeedMultiplier
	m.Status = StatusRunning
	if m.Progress < recipe.Ticks {
		return false
	}

	// Inputs were checked above, so the debit cannot fail
	_ = m.InputBuffer.Debit(recipe.Inputs)
	for k, v := range recipe.Outputs {
		m.OutputBuffer.Add(k, v, p.BufferCap)
	}
	m.Progress = 0
	return true
}
