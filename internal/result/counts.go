package result

// Counts holds the three-way tally shared by every hierarchy level.
// A fresh Counts reports FailedPct = 100 until Compute runs.
type Counts struct {
	Skipped int
	Passed  int
	Failed  int
	Total   int

	SkippedPct float64
	PassedPct  float64
	FailedPct  float64
}

func newCounts() Counts {
	return Counts{FailedPct: 100}
}

func (c *Counts) reset() {
	*c = Counts{}
}

// add accumulates the integer tallies of other. Percentages are derived
// afterwards by finish.
func (c *Counts) add(other Counts) {
	c.Skipped += other.Skipped
	c.Passed += other.Passed
	c.Failed += other.Failed
	c.Total += other.Total
}

func (c *Counts) finish() {
	if c.Total == 0 {
		c.SkippedPct, c.PassedPct, c.FailedPct = 0, 0, 0
		return
	}
	total := float64(c.Total)
	c.SkippedPct = float64(c.Skipped) * 100 / total
	c.PassedPct = float64(c.Passed) * 100 / total
	c.FailedPct = float64(c.Failed) * 100 / total
}

