package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"loan-predictor/config"
	"loan-predictor/domain"
	"loan-predictor/service"
)

func newPredictCmd(configPath *string) *cobra.Command {
	applicant := domain.DefaultApplicant()
	var includeInput bool

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Decide a single application given on the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := configureLogger(cfg.Log); err != nil {
				return err
			}
			// a one-shot run has nothing to share a cache with
			cfg.Cache.Backend = "none"

			a, err := newApp(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			decision, err := a.service.Decide(cmd.Context(), applicant, service.DecideOptions{
				IncludeInput: includeInput,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(decision)
		},
	}

	f := cmd.Flags()
	f.IntVar(&applicant.Dependents, "dependents", applicant.Dependents, "number of dependents (0-5)")
	f.StringVar(&applicant.Education, "education", applicant.Education, `"Graduate" or "Not Graduate"`)
	f.StringVar(&applicant.SelfEmployed, "self-employed", applicant.SelfEmployed, `"Yes" or "No"`)
	f.Int64Var(&applicant.IncomeAnnum, "income", applicant.IncomeAnnum, "annual income (INR)")
	f.Int64Var(&applicant.LoanAmount, "loan-amount", applicant.LoanAmount, "loan amount (INR)")
	f.IntVar(&applicant.LoanTerm, "loan-term", applicant.LoanTerm, "loan term in years (2-20)")
	f.IntVar(&applicant.CibilScore, "cibil", applicant.CibilScore, "CIBIL score (300-900)")
	f.Int64Var(&applicant.ResidentialAssetsValue, "residential-assets", applicant.ResidentialAssetsValue, "residential assets value (INR)")
	f.Int64Var(&applicant.CommercialAssetsValue, "commercial-assets", applicant.CommercialAssetsValue, "commercial assets value (INR)")
	f.Int64Var(&applicant.LuxuryAssetsValue, "luxury-assets", applicant.LuxuryAssetsValue, "luxury assets value (INR)")
	f.Int64Var(&applicant.BankAssetValue, "bank-assets", applicant.BankAssetValue, "bank asset value (INR)")
	f.BoolVar(&includeInput, "show-input", false, "include the encoded input row in the output")

	return cmd
}
