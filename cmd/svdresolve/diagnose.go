package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/svdkit/svdkit/internal/resolve"
	"github.com/svdkit/svdkit/internal/svdxml"
	"github.com/svdkit/svdkit/internal/svdxml/xsdcheck"
	"github.com/svdkit/svdkit/pkg/diag"
)

func init() {
	rootCmd.AddCommand(newDiagnoseCmd())
}

func newDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose <file.svd>",
		Short: "Dump every structural, derivation and resolver diagnostic for an SVD file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(args[0])
		},
	}
}

// runDiagnose runs the same schema, decode and resolve stages as validate
// (without the HTML option) and prints the diagnostics grouped by severity;
// a failed stage is recorded as an error diagnostic, and resolve runs only
// when decode succeeded.
func runDiagnose(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		printError("reading %s: %v\n", path, err)
		return err
	}

	report := diag.NewReport()
	for _, d := range xsdcheck.Validate(content) {
		report.Add(d)
	}

	f, err := os.Open(path)
	if err != nil {
		printError("opening %s: %v\n", path, err)
		return err
	}
	defer f.Close()

	device, err := svdxml.Decode(f, report)
	if err != nil {
		report.Addf(diag.SeverityError, diag.KindSchemaViolation, "", err.Error())
	} else {
		processed, warnings, rerr := resolve.Resolve(device, resolveOptions())
		if rerr != nil {
			report.Addf(diag.SeverityError, diag.KindResolveCycle, "", rerr.Error())
		} else {
			for _, w := range warnings {
				report.Addf(diag.SeverityWarning, diag.Kind(w.Kind), w.Path, w.Msg)
			}
			printVerbose("resolved %d peripherals\n", len(processed.Peripherals))
		}
	}

	if jsonOut {
		return printJSON(report)
	}

	grouped := report.BySeverity()
	for _, sev := range []diag.Severity{diag.SeverityError, diag.SeverityWarning, diag.SeverityInfo} {
		for _, d := range grouped[sev] {
			printInfo("%s: %s: %s: %s\n", d.Severity, d.Kind, d.Path, d.Message)
		}
	}
	if report.HasErrors() {
		os.Exit(1)
	}
	return nil
}
