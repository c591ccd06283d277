package main

import (
	"io"

	"artifactplan/internal/artifact"
	"artifactplan/internal/render"
	"artifactplan/internal/selection"

	"github.com/spf13/cobra"
)

// tableRow is the serialized form of a selection.Rule.
type tableRow struct {
	Name        string                        `json:"name" yaml:"name"`
	IDs         []artifact.ID                 `json:"ids" yaml:"ids"`
	Toggles     []selection.Toggle            `json:"toggles" yaml:"toggles"`
	HostToggles map[string][]selection.Toggle `json:"host_toggles,omitempty" yaml:"host_toggles,omitempty"`
}

func newTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the artifact classification table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := selection.Table()

			rows := make([]tableRow, len(rules))
			for i, r := range rules {
				rows[i] = tableRow{Name: r.Name, IDs: r.IDs, Toggles: r.Toggles.Members()}
				if len(r.HostToggles) > 0 {
					rows[i].HostToggles = make(map[string][]selection.Toggle, len(r.HostToggles))
					for host, s := range r.HostToggles {
						rows[i].HostToggles[string(host)] = s.Members()
					}
				}
			}

			return emit(cmd, rows, func(w io.Writer) error {
				return render.Table(w, rules)
			})
		},
	}
}
