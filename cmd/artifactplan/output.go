package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"artifactplan/internal/render"
	"artifactplan/internal/resolve"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// emit writes v in the selected format. text is called for --format text.
func emit(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	var buf bytes.Buffer

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
	case "text":
		if outputPath == "" {
			return text(cmd.OutOrStdout())
		}
		if err := text(&buf); err != nil {
			return err
		}
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

func emitPlan(cmd *cobra.Command, plan *resolve.Plan) error {
	return emit(cmd, plan, func(w io.Writer) error {
		return render.Plan(w, plan)
	})
}
