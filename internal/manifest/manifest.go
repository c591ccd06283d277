// Package manifest parses the artifact-requirement manifest a test binary
// prints when run with --list-required-artifacts=json.
//
// The manifest is newline-delimited: each non-blank line is a JSON array of
// {"name", "required", "optional"} records. One bad line fails the whole
// manifest.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"artifactplan/internal/artifact"
	"artifactplan/internal/logging"
	"artifactplan/internal/planerr"
)

// Source names this input in errors.
const Source = "artifact manifest"

var errNotArray = errors.New("expected a JSON array of test records")

// wireRecord mirrors artifact.TestRecord with presence tracking.
type wireRecord struct {
	Name     *string        `json:"name"`
	Required *[]artifact.ID `json:"required"`
	Optional *[]artifact.ID `json:"optional"`
}

func (w wireRecord) validate() error {
	switch {
	case w.Name == nil || *w.Name == "":
		return fmt.Errorf("missing field `name`")
	case w.Required == nil:
		return fmt.Errorf("record %q: missing field `required`", *w.Name)
	case w.Optional == nil:
		return fmt.Errorf("record %q: missing field `optional`", *w.Name)
	}
	return nil
}

// Parse decodes manifest output into records, in line order.
// Blank lines are skipped. A malformed line yields a *planerr.ParseError
// carrying the line's raw content and the decoder error.
func Parse(output string) ([]artifact.TestRecord, error) {
	var records []artifact.TestRecord

	for i, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "[") {
			return nil, &planerr.ParseError{Source: Source, Line: i + 1, Content: line, Err: errNotArray}
		}
		var wire []wireRecord
		if err := json.Unmarshal([]byte(line), &wire); err != nil {
			return nil, &planerr.ParseError{Source: Source, Line: i + 1, Content: line, Err: err}
		}
		if wire == nil {
			return nil, &planerr.ParseError{Source: Source, Line: i + 1, Content: line, Err: errNotArray}
		}

		for _, w := range wire {
			if err := w.validate(); err != nil {
				return nil, &planerr.ParseError{Source: Source, Line: i + 1, Content: line, Err: err}
			}
			records = append(records, artifact.TestRecord{
				Name:     *w.Name,
				Required: *w.Required,
				Optional: *w.Optional,
			})
		}
		logging.ManifestDebug("Line %d: %d test records", i+1, len(wire))
	}

	logging.Manifest("Parsed %d test records from manifest", len(records))
	return records, nil
}
