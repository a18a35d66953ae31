package scoring

// Accuracy accumulates fractional letter credit across a whole game.
type Accuracy struct {
	Attempted int
	Credit    float64
}

// Add records one scored guess.
func (a *Accuracy) Add(m Match) {
	a.Attempted += len(m.Marks)
	a.Credit += m.Credit()
}

// Percent returns credit/attempted as a percentage, 100 when nothing has
// been attempted yet.
func (a Accuracy) Percent() float64 {
	if a.Attempted == 0 {
		return 100
	}
	return a.Credit / float64(a.Attempted) * 100
}
