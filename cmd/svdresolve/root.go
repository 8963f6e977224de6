// Command svdresolve is svdkit's CLI: a Cobra command tree laid out the
// way the teacher's cmd/hivectl is (a rootCmd with persistent flags, one
// file per subcommand, shared printInfo/printError/printVerbose output
// helpers), pointed at CMSIS-SVD files instead of registry hives.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/svdkit/svdkit/internal/resolve"
)

var (
	verbose    bool
	quiet      bool
	jsonOut    bool
	strictMode bool
	maxRounds  int
)

var rootCmd = &cobra.Command{
	Use:     "svdresolve",
	Short:   "Resolve CMSIS-SVD register descriptions",
	Long:    `svdresolve reads a CMSIS-SVD file, runs the derivation/dim resolver over it, and reports the fully resolved register map or diagnostics.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&strictMode, "strict", false, "Escalate resolver warnings into fatal errors")
	rootCmd.PersistentFlags().IntVar(&maxRounds, "max-rounds", 0, "Cap the resolver's fixed-point loop (0 = default)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	execute()
}

func resolveOptions() resolve.Options {
	if verbose {
		resolve.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	return resolve.Options{MaxRounds: maxRounds, Strict: strictMode}
}

func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
