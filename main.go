package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/cperf/slowplot/slowplot"
)

var (
	BuildName       = "\b"
	BuildAnnotation = "git"
)

type CmdOpts struct {
	exportPNG bool
}

func main() {
	cmdOpts := CmdOpts{}

	cmd := &cobra.Command{
		Use:     "slowplot <log_dir> [title]",
		Short:   "Plot RTT slowdown and short-message CDF charts from benchmark logs",
		Long:    "slowplot reads the dump files written by a latency benchmark run\n(unloaded.txt, loaded-*.txt, tcp-*.txt) from the given log directory,\nprints a per-bucket digest table, and writes slowdown.pdf and\nshort_cdf.pdf next to the logs.",
		Version: fmt.Sprintf("%s (%s)", BuildName, BuildAnnotation),
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bad argument counts are caught before this point and still get
			// the usage text; failures past here are plain errors.
			cmd.SilenceUsage = true

			title := ""
			if len(args) > 1 {
				title = args[1]
			}

			printer := log.New(os.Stdout, "", 0)

			return slowplot.RunAndPrint(printer, args[0], title, cmdOpts.exportPNG)
		},
	}

	cmd.Flags().BoolVar(&cmdOpts.exportPNG, "png", false, "Also export the charts as PNG files")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
