package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/druggraph/internal/normalize"
)

func init() {
	validateCmd.AddCommand(newValidateCmd("atc", "Check WHO ATC codes", normalize.IsATCCode))
	validateCmd.AddCommand(newValidateCmd("nct", "Check ClinicalTrials.gov NCT numbers", normalize.IsNCTNumber))
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check identifiers with the pipeline's validators",
	Long: `Check identifiers with the same rules the pipeline uses to drop rows.

Exits with code 3 if any code is invalid.`,
}

// CodeCheck is one entry in a validate response.
type CodeCheck struct {
	Code  string `json:"code"`
	Valid bool   `json:"valid"`
}

// ValidateResult is the response for the validate commands.
type ValidateResult struct {
	Kind    string      `json:"kind"`
	Valid   int         `json:"valid"`
	Invalid int         `json:"invalid"`
	Codes   []CodeCheck `json:"codes"`
}

func newValidateCmd(kind, short string, valid func(string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <code>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := checkCodes(kind, args, valid)

			if humanOutput {
				for _, c := range result.Codes {
					status := "valid"
					if !c.Valid {
						status = "invalid"
					}
					fmt.Printf("%-14s %s\n", c.Code, status)
				}
			} else {
				outputJSON(result)
			}

			if result.Invalid > 0 {
				os.Exit(ExitDataError)
			}
			return nil
		},
	}
}

// checkCodes runs valid over every code, keeping argument order.
func checkCodes(kind string, codes []string, valid func(string) bool) ValidateResult {
	result := ValidateResult{Kind: kind, Codes: make([]CodeCheck, 0, len(codes))}
	for _, code := range codes {
		ok := valid(code)
		if ok {
			result.Valid++
		} else {
			result.Invalid++
		}
		result.Codes = append(result.Codes, CodeCheck{Code: code, Valid: ok})
	}
	return result
}
