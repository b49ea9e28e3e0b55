package domain

const (
	EducationGraduate    = "Graduate"
	EducationNotGraduate = "Not Graduate"

	SelfEmployedYes = "Yes"
	SelfEmployedNo  = "No"

	// MaxAmount caps every INR field so the asset total cannot overflow.
	// Keep in sync with the max= validate tags below.
	MaxAmount int64 = 1_000_000_000_000_000
)

// FeatureNames is the column order the classifier was trained on.
var FeatureNames = []string{
	"no_of_dependents",
	"education",
	"self_employed",
	"income_annum",
	"loan_amount",
	"loan_term",
	"cibil_score",
	"residential_assets_value",
	"commercial_assets_value",
	"luxury_assets_value",
	"bank_asset_value",
}

// Applicant is the record assembled for one loan submission. Amounts are INR,
// LoanTerm is in years.
type Applicant struct {
	Dependents             int    `json:"no_of_dependents" validate:"min=0,max=5"`
	Education              string `json:"education" validate:"oneof='Graduate' 'Not Graduate'"`
	SelfEmployed           string `json:"self_employed" validate:"oneof=Yes No"`
	IncomeAnnum            int64  `json:"income_annum" validate:"min=0,max=1000000000000000"`
	LoanAmount             int64  `json:"loan_amount" validate:"min=0,max=1000000000000000"`
	LoanTerm               int    `json:"loan_term" validate:"min=2,max=20"`
	CibilScore             int    `json:"cibil_score" validate:"min=300,max=900"`
	ResidentialAssetsValue int64  `json:"residential_assets_value" validate:"min=0,max=1000000000000000"`
	CommercialAssetsValue  int64  `json:"commercial_assets_value" validate:"min=0,max=1000000000000000"`
	LuxuryAssetsValue      int64  `json:"luxury_assets_value" validate:"min=0,max=1000000000000000"`
	BankAssetValue         int64  `json:"bank_asset_value" validate:"min=0,max=1000000000000000"`
}

// DefaultApplicant returns the values the application form starts with.
func DefaultApplicant() Applicant {
	return Applicant{
		Dependents:             2,
		Education:              EducationGraduate,
		SelfEmployed:           SelfEmployedYes,
		IncomeAnnum:            5_000_000,
		LoanAmount:             10_000_000,
		LoanTerm:               10,
		CibilScore:             600,
		ResidentialAssetsValue: 5_000_000,
		CommercialAssetsValue:  2_000_000,
		LuxuryAssetsValue:      10_000_000,
		BankAssetValue:         3_000_000,
	}
}

func (a Applicant) TotalAssets() int64 {
	return a.ResidentialAssetsValue + a.CommercialAssetsValue +
		a.LuxuryAssetsValue + a.BankAssetValue
}

// Features encodes the applicant into the model's input row, ordered as
// FeatureNames.
func (a Applicant) Features() Features {
	education := 1.0
	if a.Education == EducationGraduate {
		education = 0
	}
	selfEmployed := 0.0
	if a.SelfEmployed == SelfEmployedYes {
		selfEmployed = 1
	}

	return Features{
		float64(a.Dependents),
		education,
		selfEmployed,
		float64(a.IncomeAnnum),
		float64(a.LoanAmount),
		float64(a.LoanTerm),
		float64(a.CibilScore),
		float64(a.ResidentialAssetsValue),
		float64(a.CommercialAssetsValue),
		float64(a.LuxuryAssetsValue),
		float64(a.BankAssetValue),
	}
}

// Features is one encoded input row.
type Features []float64

// Row pairs each value with its feature name.
func (f Features) Row() FeatureRow {
	row := make(FeatureRow, len(FeatureNames))
	for i, name := range FeatureNames {
		if i < len(f) {
			row[name] = f[i]
		}
	}
	return row
}

type FeatureRow map[string]float64
