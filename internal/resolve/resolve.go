// Package resolve correlates the tests a filter selected with the artifacts
// each test declared, and turns the union of those artifacts into a build
// plan.
package resolve

import (
	"sort"

	"artifactplan/internal/artifact"
	"artifactplan/internal/listing"
	"artifactplan/internal/logging"
	"artifactplan/internal/selection"
)

// Plan is the outcome of one resolution request. Only Selections is
// consumed by the build scheduler; the remaining fields are diagnostics.
type Plan struct {
	RequestID string             `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	Host      selection.Platform `json:"host" yaml:"host"`

	Selections selection.BuildSelections `json:"selections" yaml:"selections"`

	// MatchedTests are the tests the filter selected, sorted.
	MatchedTests []string `json:"matched_tests" yaml:"matched_tests"`

	// Required and Optional are the distinct artifacts declared by matched
	// tests, sorted.
	Required []artifact.ID `json:"required" yaml:"required"`
	Optional []artifact.ID `json:"optional" yaml:"optional"`

	// Unclassified are catalog artifacts with no classification table entry.
	// Unknown are artifacts missing from the catalog altogether. Neither
	// sets a toggle.
	Unclassified []artifact.ID `json:"unclassified,omitempty" yaml:"unclassified,omitempty"`
	Unknown      []artifact.ID `json:"unknown,omitempty" yaml:"unknown,omitempty"`

	// Undeclared are matched tests absent from the manifest.
	Undeclared []string `json:"undeclared,omitempty" yaml:"undeclared,omitempty"`
}

// Resolve computes the plan for host. Records whose name is not in matched
// are ignored entirely. Required and optional artifacts are treated alike:
// either may set a toggle. The result depends only on the set of matched
// records, never on input order.
func Resolve(matched listing.Names, records []artifact.TestRecord, host selection.Platform) Plan {
	timer := logging.StartTimer(logging.CategoryResolve, "Resolve build plan")
	defer timer.Stop()

	required := artifact.NewSet()
	optional := artifact.NewSet()
	declared := make(map[string]struct{}, len(records))

	for _, rec := range records {
		if !matched.Has(rec.Name) {
			continue
		}
		declared[rec.Name] = struct{}{}
		required.Union(rec.RequiredSet())
		optional.Union(rec.OptionalSet())
	}

	combined := artifact.NewSet()
	combined.Union(required)
	combined.Union(optional)

	sel, unclassified := selection.Classify(combined.Sorted(), host)
	unmapped, unknown := splitUnclassified(unclassified)

	plan := Plan{
		Host:         host,
		Selections:   sel,
		MatchedTests: matched.Sorted(),
		Required:     required.Sorted(),
		Optional:     optional.Sorted(),
		Unclassified: unmapped,
		Unknown:      unknown,
	}
	for _, name := range plan.MatchedTests {
		if _, ok := declared[name]; !ok {
			plan.Undeclared = append(plan.Undeclared, name)
		}
	}
	sort.Strings(plan.Undeclared)

	logging.Resolve("Matched %d tests; %d unique required artifacts, %d unique optional artifacts",
		len(plan.MatchedTests), required.Len(), optional.Len())
	if len(plan.Unclassified) > 0 {
		logging.ResolveWarn("%d catalog artifacts have no classification entry: %v", len(plan.Unclassified), plan.Unclassified)
	}
	if len(plan.Unknown) > 0 {
		logging.ResolveWarn("%d artifacts are not in the catalog: %v", len(plan.Unknown), plan.Unknown)
	}
	if len(plan.Undeclared) > 0 {
		logging.ResolveDebug("%d matched tests declared no artifacts: %v", len(plan.Undeclared), plan.Undeclared)
	}
	if sel.IsEmpty() {
		logging.Resolve("Nothing to build on %s", host)
	} else {
		logging.Resolve("Build selections on %s: [%s]", host, sel.Toggles())
	}

	return plan
}

// splitUnclassified separates catalog artifacts the table does not map from
// identifiers the catalog has never heard of. Input order is kept.
func splitUnclassified(ids []artifact.ID) (unmapped, unknown []artifact.ID) {
	for _, id := range ids {
		if artifact.Known(id) {
			unmapped = append(unmapped, id)
		} else {
			unknown = append(unknown, id)
		}
	}
	return unmapped, unknown
}
