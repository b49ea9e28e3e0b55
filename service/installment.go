package service

import "math"

func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// EstimateInstallment returns the level monthly payment that repays amount
// over termYears at annualRate percent. It is informational only and never
// influences the decision.
func EstimateInstallment(amount int64, annualRate float64, termYears int) float64 {
	if amount <= 0 || termYears <= 0 {
		return 0
	}

	n := float64(termYears * monthsPerYear)
	principal := float64(amount)

	if annualRate == 0 {
		return roundTo2Decimals(principal / n)
	}

	monthlyRate := (annualRate / 100) / monthsPerYear
	payment := principal * (monthlyRate / (1 - math.Pow(1+monthlyRate, -n)))
	return roundTo2Decimals(payment)
}
