package ddi

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrParse indicates a corpus document is not well-formed XML.
	ErrParse = errors.New("ddi: malformed document")

	// ErrMissingAttribute indicates a required attribute is absent on a corpus element.
	ErrMissingAttribute = errors.New("ddi: missing required attribute")

	// ErrInvalidAttribute indicates an attribute holds a value outside its domain.
	ErrInvalidAttribute = errors.New("ddi: invalid attribute value")

	// ErrUnresolvedEntity indicates a pair references an entity id unknown to the split's lookup.
	ErrUnresolvedEntity = errors.New("ddi: unresolved entity reference")

	// ErrUnknownSplit indicates a split name other than train, test_ner or test_ddi.
	ErrUnknownSplit = errors.New("ddi: unknown split")
)
