package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/svdkit/svdkit/internal/resolve"
	"github.com/svdkit/svdkit/internal/svdxml"
	"github.com/svdkit/svdkit/pkg/diag"
	"github.com/svdkit/svdkit/pkg/regmap"
)

func init() {
	rootCmd.AddCommand(newMapCmd())
}

func newMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map <file.svd>",
		Short: "Print the flat, address-sorted register map for an SVD file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(args[0])
		},
	}
}

func runMap(path string) error {
	f, err := os.Open(path)
	if err != nil {
		printError("opening %s: %v\n", path, err)
		return err
	}
	defer f.Close()

	device, err := svdxml.Decode(f, diag.NewReport())
	if err != nil {
		printError("decoding %s: %v\n", path, err)
		return err
	}

	processed, warnings, err := resolve.Resolve(device, resolveOptions())
	if err != nil {
		printError("resolving %s: %v\n", path, err)
		return err
	}
	for _, w := range warnings {
		printVerbose("warning: %s: %s: %s\n", w.Kind, w.Path, w.Msg)
	}

	peripherals, err := regmap.Build(processed)
	if err != nil {
		printError("building register map: %v\n", err)
		return err
	}

	if jsonOut {
		return printJSON(peripherals)
	}

	for _, p := range peripherals {
		fmt.Printf("%-20s 0x%08X - 0x%08X  %s\n", p.Name, p.AllocatedBegin, p.AllocatedEnd, p.Description)
		for _, r := range p.Registers {
			fmt.Printf("  0x%08X  %-40s %s\n", r.Address, r.Path, r.Description)
		}
	}
	return nil
}
