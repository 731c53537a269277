package domain

import "github.com/shopspring/decimal"

// Projection is the expected return of an investment at its plan terms.
type Projection struct {
	DailyMicros int64
	TotalMicros int64
}

// ProjectProfit computes daily and total profit for an amount invested at a
// daily rate (percent) over a duration in days. Pure; rounds down to micros.
func ProjectProfit(amountMicros int64, dailyRate decimal.Decimal, durationDays int) Projection {
	daily := decimal.NewFromInt(amountMicros).
		Mul(dailyRate).
		Div(decimal.NewFromInt(100))
	total := daily.Mul(decimal.NewFromInt(int64(durationDays)))
	return Projection{
		DailyMicros: daily.IntPart(),
		TotalMicros: total.IntPart(),
	}
}

// ClampAmount bounds an investment amount to [min, max]. Callers use it to
// keep the amount control inside the plan minimum and the spendable balance.
func ClampAmount(amountMicros, minMicros, maxMicros int64) int64 {
	if amountMicros < minMicros {
		return minMicros
	}
	if amountMicros > maxMicros {
		return maxMicros
	}
	return amountMicros
}
