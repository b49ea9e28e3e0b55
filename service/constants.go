package service

import "time"

const (
	// Thresholds used to explain a rejection.
	DefaultMinCreditScore  = 550
	DefaultMaxLoanToAsset  = 1.0 // loan_amount / total assets
	DefaultMinIncomeToLoan = 0.2 // income_annum / loan_amount

	// Annual rate (percent) used only for the informational instalment.
	DefaultReferenceAnnualRate = 9.5

	DefaultCacheTTL = 10 * time.Minute

	monthsPerYear = 12
)

const (
	summaryApproved         = "Approved"
	summaryRejected         = "Rejected"
	summaryNoIncomeNoAssets = "Rejected (No Income and No Assets)"
)
