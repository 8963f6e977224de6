package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/svdkit/svdkit/internal/resolve"
	"github.com/svdkit/svdkit/internal/svdxml"
	"github.com/svdkit/svdkit/pkg/diag"
)

var resolveOutPath string

func init() {
	cmd := newResolveCmd()
	cmd.Flags().StringVarP(&resolveOutPath, "out", "o", "", "Write resolved SVD XML to this path instead of stdout")
	rootCmd.AddCommand(cmd)
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file.svd>",
		Short: "Resolve derivations, dim expansion and enum wildcards in an SVD file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(args[0])
		},
	}
}

func runResolve(path string) error {
	f, err := os.Open(path)
	if err != nil {
		printError("opening %s: %v\n", path, err)
		return err
	}
	defer f.Close()

	report := diag.NewReport()
	printVerbose("decoding %s\n", path)
	device, err := svdxml.Decode(f, report)
	if err != nil {
		printError("decoding %s: %v\n", path, err)
		return err
	}
	for _, d := range report.Diagnostics {
		printInfo("%s: %s: %s: %s\n", d.Severity, d.Kind, d.Path, d.Message)
	}

	printVerbose("resolving %s\n", path)
	processed, warnings, err := resolve.Resolve(device, resolveOptions())
	if err != nil {
		printError("resolving %s: %v\n", path, err)
		return err
	}
	for _, w := range warnings {
		printInfo("warning: %s: %s: %s\n", w.Kind, w.Path, w.Msg)
	}

	out := os.Stdout
	if resolveOutPath != "" {
		f, err := os.Create(resolveOutPath)
		if err != nil {
			printError("creating %s: %v\n", resolveOutPath, err)
			return err
		}
		defer f.Close()
		out = f
	}

	if err := svdxml.Encode(out, processed); err != nil {
		printError("encoding result: %v\n", err)
		return err
	}
	if resolveOutPath != "" {
		printInfo("wrote %s\n", resolveOutPath)
	}
	return nil
}
