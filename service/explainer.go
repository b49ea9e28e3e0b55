package service

import (
	"fmt"

	"loan-predictor/domain"
)

// Rules are the fixed thresholds layered on top of the model's verdict.
type Rules struct {
	MinCreditScore      int     `json:"min_credit_score"`
	MaxLoanToAsset      float64 `json:"max_loan_to_asset"`
	MinIncomeToLoan     float64 `json:"min_income_to_loan"`
	ReferenceAnnualRate float64 `json:"reference_annual_rate"`
}

func DefaultRules() Rules {
	return Rules{
		MinCreditScore:      DefaultMinCreditScore,
		MaxLoanToAsset:      DefaultMaxLoanToAsset,
		MinIncomeToLoan:     DefaultMinIncomeToLoan,
		ReferenceAnnualRate: DefaultReferenceAnnualRate,
	}
}

func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	r := num / den
	return &r
}

// ComputeMetrics derives the figures the rules compare against.
func (r Rules) ComputeMetrics(a domain.Applicant) domain.Metrics {
	total := a.TotalAssets()
	installment := EstimateInstallment(a.LoanAmount, r.ReferenceAnnualRate, a.LoanTerm)

	return domain.Metrics{
		TotalAssets:              total,
		LoanToAssetRatio:         ratio(float64(a.LoanAmount), float64(total)),
		IncomeToLoanRatio:        ratio(float64(a.IncomeAnnum), float64(a.LoanAmount)),
		MonthlyInstallment:       installment,
		InstallmentToIncomeRatio: ratio(installment, float64(a.IncomeAnnum)/monthsPerYear),
	}
}

// Explain lists the threshold checks a rejected applicant fails. The checks
// are independent; the result is empty when none of them fire.
func (r Rules) Explain(a domain.Applicant, m domain.Metrics) []domain.Reason {
	var reasons []domain.Reason

	if a.CibilScore < r.MinCreditScore {
		reasons = append(reasons, domain.Reason{
			Code:    domain.ReasonLowCreditScore,
			Message: fmt.Sprintf("CIBIL score %d is below the minimum of %d", a.CibilScore, r.MinCreditScore),
		})
	}

	if a.LoanAmount > 0 {
		switch {
		case m.LoanToAssetRatio == nil:
			reasons = append(reasons, domain.Reason{
				Code:    domain.ReasonHighLoanToAsset,
				Message: "loan amount is not backed by any assets",
			})
		case *m.LoanToAssetRatio > r.MaxLoanToAsset:
			reasons = append(reasons, domain.Reason{
				Code: domain.ReasonHighLoanToAsset,
				Message: fmt.Sprintf("loan amount is %.2fx total assets, above the limit of %.2fx",
					*m.LoanToAssetRatio, r.MaxLoanToAsset),
			})
		}

		if m.IncomeToLoanRatio != nil && *m.IncomeToLoanRatio < r.MinIncomeToLoan {
			reasons = append(reasons, domain.Reason{
				Code: domain.ReasonLowIncomeToLoan,
				Message: fmt.Sprintf("annual income covers %.0f%% of the loan amount, below the minimum of %.0f%%",
					*m.IncomeToLoanRatio*100, r.MinIncomeToLoan*100),
			})
		}
	}

	return reasons
}

func noIncomeNoAssets(a domain.Applicant) bool {
	return a.IncomeAnnum == 0 && a.TotalAssets() == 0
}
