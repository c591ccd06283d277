package main

import (
	"fmt"
	"io"

	"artifactplan/internal/invocation"
	"artifactplan/internal/pipeline"

	"github.com/spf13/cobra"
)

func newArgsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "args [list|run]",
		Short: "Print the cargo invocations resolve would run",
		Long: `Prints the nextest listing invocation ("list") and the artifact manifest
invocation ("run") assembled from configuration, without running either.
With no argument both are printed.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"list", "run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			req, err := pipeline.RequestFromConfig(cfg, defaultHost())
			if err != nil {
				return err
			}

			invocations := map[string]invocation.Invocation{}
			which := ""
			if len(args) == 1 {
				which = args[0]
			}
			if which == "" || which == "list" {
				invocations["list"] = req.List.Invocation()
			}
			if which == "" || which == "run" {
				invocations["run"] = req.Run.Invocation()
			}

			return emit(cmd, invocations, func(w io.Writer) error {
				for _, name := range []string{"list", "run"} {
					inv, ok := invocations[name]
					if !ok {
						continue
					}
					if _, err := fmt.Fprintf(w, "%s: %s\n", name, inv); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
