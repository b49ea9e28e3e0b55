package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"loan-predictor/classifier"
	"loan-predictor/config"
)

func newModelCmd(configPath *string) *cobra.Command {
	model := &cobra.Command{
		Use:   "model",
		Short: "Work with model artifacts",
	}

	model.AddCommand(&cobra.Command{
		Use:   "inspect [artifact]",
		Short: "Validate an artifact and print its summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := config.Load(*configPath)
				if err != nil {
					return err
				}
				path = cfg.Model.Path
			}

			forest, err := classifier.LoadForest(path)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(forest.Summary())
		},
	})
	return model
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
