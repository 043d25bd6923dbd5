package carto

import "errors"

// Sentinel errors shared by the map packages. Callers match them with
// errors.Is; the packages wrap them with the offending identifier.
var (
	// ErrUnresolvedColourReference is returned when a spot colour or a symbol
	// colour reference has no entry in the map's colour set.
	ErrUnresolvedColourReference = errors.New("carto: unresolved colour reference")

	// ErrDuplicateIdentifier is returned when an insert collides with an
	// existing identifier.
	ErrDuplicateIdentifier = errors.New("carto: duplicate identifier")

	// ErrSymbolInUse is returned when removing a symbol still referenced by
	// at least one instance.
	ErrSymbolInUse = errors.New("carto: symbol in use")

	// ErrColourInUse is returned when removing a colour still referenced by
	// a symbol.
	ErrColourInUse = errors.New("carto: colour in use")

	// ErrUnsupportedSymbolKind is returned when an instance's geometry kind
	// and its symbol kind do not combine.
	ErrUnsupportedSymbolKind = errors.New("carto: unsupported symbol kind")

	// ErrInvalidHoleGeometry is returned when a hole is not strictly inside
	// its outer boundary.
	ErrInvalidHoleGeometry = errors.New("carto: invalid hole geometry")

	// ErrUnknownSymbol is returned when a symbol reference does not resolve.
	ErrUnknownSymbol = errors.New("carto: unknown symbol")

	// ErrUnknownInstance is returned when an instance identifier does not
	// resolve.
	ErrUnknownInstance = errors.New("carto: unknown instance")
)
