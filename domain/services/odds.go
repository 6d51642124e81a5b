package services

// Odds is the display percentage split between the two sides of a prediction
type Odds struct {
	PctA int
	PctB int
}

// CalculateOdds turns the pool sizes into a display percentage split.
// An empty market returns a neutral 50/50. Each side's percentage is its
// independently rounded share of the total, so the two values are not
// guaranteed to sum to 100; callers display them as-is.
func CalculateOdds(poolA, poolB int64) Odds {
	total := poolA + poolB
	if total == 0 {
		return Odds{PctA: 50, PctB: 50}
	}
	return Odds{
		PctA: roundedShare(poolA, total),
		PctB: roundedShare(poolB, total),
	}
}

// roundedShare returns pool/total as a percentage rounded to the nearest integer
func roundedShare(pool, total int64) int {
	return int((pool*100 + total/2) / total)
}
