package pricing

import "github.com/shopspring/decimal"

// Round2 rounds a dollar figure to cents, half away from zero. Only output
// boundaries call it; calculations carry full precision.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Sum adds dollar figures without accumulating float error.
func Sum(vs ...float64) float64 {
	total := decimal.Zero
	for _, v := range vs {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Float64()
	return f
}
