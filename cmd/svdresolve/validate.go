package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/svdkit/svdkit/internal/resolve"
	"github.com/svdkit/svdkit/internal/svdxml"
	"github.com/svdkit/svdkit/internal/svdxml/xsdcheck"
	"github.com/svdkit/svdkit/pkg/diag"
	"github.com/svdkit/svdkit/pkg/diag/htmlreport"
)

var validateHTMLOut string

func init() {
	cmd := newValidateCmd()
	cmd.Flags().StringVar(&validateHTMLOut, "html", "", "Write an HTML diagnostics report to this path")
	rootCmd.AddCommand(cmd)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.svd>",
		Short: "Run structural and resolver checks without emitting a resolved tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func runValidate(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		printError("reading %s: %v\n", path, err)
		return err
	}

	report := diag.NewReport()
	for _, d := range xsdcheck.Validate(content) {
		report.Add(d)
	}

	device, err := svdxml.Decode(bytes.NewReader(content), report)
	if err == nil {
		if _, warnings, rerr := resolve.Resolve(device, resolveOptions()); rerr != nil {
			report.Addf(diag.SeverityError, diag.KindResolveCycle, "", rerr.Error())
		} else {
			for _, w := range warnings {
				report.Addf(diag.SeverityWarning, diag.Kind(w.Kind), w.Path, w.Msg)
			}
		}
	} else {
		report.Addf(diag.SeverityError, diag.KindSchemaViolation, "", err.Error())
	}

	if validateHTMLOut != "" {
		f, ferr := os.Create(validateHTMLOut)
		if ferr != nil {
			printError("creating %s: %v\n", validateHTMLOut, ferr)
			return ferr
		}
		defer f.Close()
		if rerr := htmlreport.Render(f, report); rerr != nil {
			printError("rendering html report: %v\n", rerr)
			return rerr
		}
		printInfo("wrote %s\n", validateHTMLOut)
	}

	if jsonOut {
		data, jerr := report.JSON()
		if jerr != nil {
			return jerr
		}
		os.Stdout.Write(data)
		os.Stdout.Write([]byte("\n"))
	} else {
		for _, d := range report.Diagnostics {
			printInfo("%s: %s: %s: %s\n", d.Severity, d.Kind, d.Path, d.Message)
		}
	}

	if report.HasErrors() {
		os.Exit(1)
	}
	return nil
}
