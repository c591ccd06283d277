package listing

import (
	"errors"
	"testing"

	"artifactplan/internal/planerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleListing = `{
  "rust-build-meta": {"target-directory": "/work/target"},
  "test-count": 4,
  "rust-suites": {
    "vmm_tests::tests": {
      "binary-id": "vmm_tests::tests",
      "testcases": {
        "x86_64::boot_uefi": {"ignored": false, "filter-match": {"status": "matches"}},
        "x86_64::boot_linux": {"ignored": false, "filter-match": {"status": "mismatch", "reason": "expression"}},
        "aarch64::boot_uefi": {"ignored": true, "filter-match": {"status": "mismatch", "reason": "ignored"}}
      }
    },
    "vmm_tests::tmks": {
      "binary-id": "vmm_tests::tmks",
      "testcases": {
        "tmk::simple": {"ignored": false, "filter-match": {"status": "matches"}},
        "x86_64::boot_uefi": {"ignored": false, "filter-match": {"status": "matches"}}
      }
    },
    "empty_suite": {"binary-id": "empty_suite", "testcases": {}}
  }
}`

func TestParse(t *testing.T) {
	result, err := Parse([]byte(sampleListing))
	require.NoError(t, err)

	require.Len(t, result, 3)
	assert.Equal(t, StatusMatches, result["vmm_tests::tests"]["x86_64::boot_uefi"])
	assert.Equal(t, StatusMismatch, result["vmm_tests::tests"]["x86_64::boot_linux"])
	assert.Empty(t, result["empty_suite"])
}

func TestMatchedNamesFlattensAndDeduplicates(t *testing.T) {
	result, err := Parse([]byte(sampleListing))
	require.NoError(t, err)

	names := result.MatchedNames()
	assert.Equal(t, []string{"tmk::simple", "x86_64::boot_uefi"}, names.Sorted())
	assert.False(t, names.Has("x86_64::boot_linux"))
}

func TestOtherStatusesAreNotMatches(t *testing.T) {
	out := `{"rust-suites": {"s": {"testcases": {
		"a": {"filter-match": {"status": "matches"}},
		"b": {"filter-match": {"status": "skipped-by-partition"}},
		"c": {"filter-match": {"status": ""}}
	}}}}`

	names, err := ExtractMatched([]byte(out), "all()")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names.Sorted())
}

func TestParseMalformedJSON(t *testing.T) {
	out := `{"rust-suites": {`
	_, err := Parse([]byte(out))

	var pe *planerr.ParseError
	require.True(t, errors.As(err, &pe), "expected ParseError, got %T", err)
	assert.Equal(t, Source, pe.Source)
	assert.Equal(t, out, pe.Content)
	assert.Zero(t, pe.Line)
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		out  string
		key  string
	}{
		{"no rust-suites", `{"test-count": 0}`, "rust-suites"},
		{"null rust-suites", `{"rust-suites": null}`, "rust-suites"},
		{"no testcases", `{"rust-suites": {"s": {"binary-id": "s"}}}`, "rust-suites.s.testcases"},
		{"no filter-match", `{"rust-suites": {"s": {"testcases": {"t": {"ignored": false}}}}}`, "rust-suites.s.testcases.t.filter-match"},
		{"no status", `{"rust-suites": {"s": {"testcases": {"t": {"filter-match": {}}}}}}`, "rust-suites.s.testcases.t.filter-match.status"},
		{"null status", `{"rust-suites": {"s": {"testcases": {"t": {"filter-match": {"status": null}}}}}}`, "rust-suites.s.testcases.t.filter-match.status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractMatched([]byte(tt.out), "all()")

			var se *planerr.SchemaError
			require.True(t, errors.As(err, &se), "expected SchemaError, got %v", err)
			assert.Equal(t, tt.key, se.Key)
		})
	}
}

func TestEmptySuitesMatchNothing(t *testing.T) {
	names, err := ExtractMatched([]byte(`{"rust-suites": {}}`), "none()")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSuiteOrderDoesNotMatter(t *testing.T) {
	a := `{"rust-suites": {"one": {"testcases": {"t1": {"filter-match": {"status": "matches"}}}},
		"two": {"testcases": {"t2": {"filter-match": {"status": "matches"}}}}}}`
	b := `{"rust-suites": {"two": {"testcases": {"t2": {"filter-match": {"status": "matches"}}}},
		"one": {"testcases": {"t1": {"filter-match": {"status": "matches"}}}}}}`

	na, err := ExtractMatched([]byte(a), "")
	require.NoError(t, err)
	nb, err := ExtractMatched([]byte(b), "")
	require.NoError(t, err)
	assert.Equal(t, na, nb)
}

func TestNewNames(t *testing.T) {
	n := NewNames("b", "a", "b")
	assert.Len(t, n, 2)
	assert.Equal(t, []string{"a", "b"}, n.Sorted())
}
