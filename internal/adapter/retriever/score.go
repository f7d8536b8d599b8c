package retriever

import (
	"math"
	"strconv"
)

// NormalizeScore maps a cosine distance in [0, 2] onto [0, 1], where 1 is a
// perfect match, rounded to three decimals. Rounding works on the exact
// decimal value of the float, and exact ties go to the even digit.
func NormalizeScore(distance float64) float64 {
	sim := 1 - distance
	norm := (sim + 1) / 2
	norm = math.Max(0, math.Min(1, norm))
	return roundDecimals(norm, 3)
}

func roundDecimals(v float64, places int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
