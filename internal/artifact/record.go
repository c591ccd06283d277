package artifact

// TestRecord is one test's self-reported artifact dependencies, as emitted on
// a single manifest line. Records are never mutated after decoding.
type TestRecord struct {
	// Name is the test name, unique within a manifest.
	Name string `json:"name"`

	// Required artifacts must be built for the test to run.
	Required []ID `json:"required"`

	// Optional artifacts are used when present.
	Optional []ID `json:"optional"`
}

// RequiredSet returns the distinct required identifiers.
func (r TestRecord) RequiredSet() *Set {
	return NewSet(r.Required...)
}

// OptionalSet returns the distinct optional identifiers.
func (r TestRecord) OptionalSet() *Set {
	return NewSet(r.Optional...)
}
