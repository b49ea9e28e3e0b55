package service

import "loan-predictor/domain"

// FieldSpec describes one input of the application form.
type FieldSpec struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Min     *int64   `json:"min,omitempty"`
	Max     *int64   `json:"max,omitempty"`
	Step    int64    `json:"step,omitempty"`
	Options []string `json:"options,omitempty"`
	Default any      `json:"default"`
}

type Schema struct {
	Fields   []FieldSpec `json:"fields"`
	Features []string    `json:"features"`
	Rules    Rules       `json:"rules"`
}

func bound(v int64) *int64 { return &v }

func integer(name, label string, min, max *int64, step int64, def int64) FieldSpec {
	return FieldSpec{Name: name, Label: label, Type: "integer", Min: min, Max: max, Step: step, Default: def}
}

func choice(name, label string, def string, options ...string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Type: "string", Options: options, Default: def}
}

// Schema lists the form inputs with their ranges and starting values.
func (s *DecisionService) Schema() Schema {
	d := domain.DefaultApplicant()
	const money = 100_000

	return Schema{
		Fields: []FieldSpec{
			integer("no_of_dependents", "Number of Dependents", bound(0), bound(5), 1, int64(d.Dependents)),
			choice("education", "Education Level", d.Education, domain.EducationGraduate, domain.EducationNotGraduate),
			choice("self_employed", "Self-Employed", d.SelfEmployed, domain.SelfEmployedYes, domain.SelfEmployedNo),
			integer("income_annum", "Annual Income (INR)", bound(0), bound(domain.MaxAmount), money, d.IncomeAnnum),
			integer("loan_amount", "Loan Amount (INR)", bound(0), bound(domain.MaxAmount), money, d.LoanAmount),
			integer("loan_term", "Loan Term (Years)", bound(2), bound(20), 1, int64(d.LoanTerm)),
			integer("cibil_score", "CIBIL Score", bound(300), bound(900), 1, int64(d.CibilScore)),
			integer("residential_assets_value", "Residential Assets Value", bound(0), bound(domain.MaxAmount), money, d.ResidentialAssetsValue),
			integer("commercial_assets_value", "Commercial Assets Value", bound(0), bound(domain.MaxAmount), money, d.CommercialAssetsValue),
			integer("luxury_assets_value", "Luxury Assets Value", bound(0), bound(domain.MaxAmount), money, d.LuxuryAssetsValue),
			integer("bank_asset_value", "Bank Asset Value", bound(0), bound(domain.MaxAmount), money, d.BankAssetValue),
		},
		Features: domain.FeatureNames,
		Rules:    s.rules,
	}
}
