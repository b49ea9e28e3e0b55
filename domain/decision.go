package domain

// Label is the classifier's class encoding.
type Label int

const (
	LabelApproved Label = 0
	LabelRejected Label = 1
)

type Status string

const (
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

type Prediction struct {
	Label        Label   `json:"label"`
	Confidence   float64 `json:"confidence"`
	ModelVersion string  `json:"model_version"`
}

type ReasonCode string

const (
	ReasonNoIncomeNoAssets ReasonCode = "no_income_no_assets"
	ReasonLowCreditScore   ReasonCode = "low_credit_score"
	ReasonHighLoanToAsset  ReasonCode = "high_loan_to_asset"
	ReasonLowIncomeToLoan  ReasonCode = "low_income_to_loan"
	ReasonModelRisk        ReasonCode = "model_risk"
)

type Reason struct {
	Code    ReasonCode `json:"code"`
	Message string     `json:"message"`
}

// Metrics are the derived figures the explanation rules look at. Ratios with a
// zero denominator are nil.
type Metrics struct {
	TotalAssets              int64    `json:"total_assets"`
	LoanToAssetRatio         *float64 `json:"loan_to_asset_ratio"`
	IncomeToLoanRatio        *float64 `json:"income_to_loan_ratio"`
	MonthlyInstallment       float64  `json:"monthly_installment"`
	InstallmentToIncomeRatio *float64 `json:"installment_to_income_ratio"`
}

type Decision struct {
	Status     Status      `json:"status"`
	Summary    string      `json:"summary"`
	Reasons    []Reason    `json:"reasons,omitempty"`
	Metrics    Metrics     `json:"metrics"`
	Prediction *Prediction `json:"prediction,omitempty"`
	Input      FeatureRow  `json:"input,omitempty"`
}
