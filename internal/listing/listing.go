// Package listing extracts the tests selected by a filter expression from the
// JSON output of `cargo nextest list --message-format json`.
package listing

import (
	"encoding/json"
	"sort"

	"artifactplan/internal/logging"
	"artifactplan/internal/planerr"
)

// Source names this input in errors.
const Source = "nextest list"

// MatchStatus is a testcase's filter-match status.
type MatchStatus string

const (
	StatusMatches  MatchStatus = "matches"
	StatusMismatch MatchStatus = "mismatch"
)

// FilterMatchResult maps suite name -> test name -> match status.
type FilterMatchResult map[string]map[string]MatchStatus

// Names is a set of test names.
type Names map[string]struct{}

// NewNames builds a set from names.
func NewNames(names ...string) Names {
	n := make(Names, len(names))
	for _, name := range names {
		n[name] = struct{}{}
	}
	return n
}

// Has reports membership.
func (n Names) Has(name string) bool {
	_, ok := n[name]
	return ok
}

// Sorted returns the names in ascending order.
func (n Names) Sorted() []string {
	out := make([]string, 0, len(n))
	for name := range n {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type listDocument struct {
	RustSuites map[string]suite `json:"rust-suites"`
}

type suite struct {
	BinaryID  string              `json:"binary-id"`
	Testcases map[string]testcase `json:"testcases"`
}

type testcase struct {
	Ignored     bool         `json:"ignored"`
	FilterMatch *filterMatch `json:"filter-match"`
}

type filterMatch struct {
	Status *MatchStatus `json:"status"`
	Reason string      `json:"reason,omitempty"`
}

// Parse decodes listing output. Malformed JSON is a *planerr.ParseError; a
// missing rust-suites, testcases, filter-match or filter-match status key is a
// *planerr.SchemaError.
func Parse(output []byte) (FilterMatchResult, error) {
	var doc listDocument
	if err := json.Unmarshal(output, &doc); err != nil {
		return nil, &planerr.ParseError{Source: Source, Content: string(output), Err: err}
	}
	if doc.RustSuites == nil {
		return nil, &planerr.SchemaError{Source: Source, Key: "rust-suites"}
	}

	result := make(FilterMatchResult, len(doc.RustSuites))
	for suiteName, s := range doc.RustSuites {
		if s.Testcases == nil {
			return nil, &planerr.SchemaError{Source: Source, Key: "rust-suites." + suiteName + ".testcases"}
		}
		tests := make(map[string]MatchStatus, len(s.Testcases))
		for testName, tc := range s.Testcases {
			key := "rust-suites." + suiteName + ".testcases." + testName + ".filter-match"
			if tc.FilterMatch == nil {
				return nil, &planerr.SchemaError{Source: Source, Key: key}
			}
			if tc.FilterMatch.Status == nil {
				return nil, &planerr.SchemaError{Source: Source, Key: key + ".status"}
			}
			tests[testName] = *tc.FilterMatch.Status
		}
		result[suiteName] = tests
	}

	logging.ListingDebug("Decoded %d suites from %d bytes of listing output", len(result), len(output))
	return result, nil
}

// MatchedNames returns every test, across all suites, whose status is
// "matches". Suite boundaries are discarded.
func (r FilterMatchResult) MatchedNames() Names {
	names := NewNames()
	for _, tests := range r {
		for name, status := range tests {
			if status == StatusMatches {
				names[name] = struct{}{}
			}
		}
	}
	return names
}

// ExtractMatched parses listing output and returns the matched test names.
func ExtractMatched(output []byte, filterExpr string) (Names, error) {
	result, err := Parse(output)
	if err != nil {
		return nil, err
	}
	names := result.MatchedNames()
	logging.Listing("Matched %d tests with filter: %s", len(names), filterExpr)
	return names, nil
}
