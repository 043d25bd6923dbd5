package model

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/cartokit/carto"
	"github.com/cartokit/carto/colour"
	"github.com/cartokit/carto/symbol"
)

// entry records the symbol an instance was counted against, so releasing
// it does not depend on fields the caller can still edit.
type entry struct {
	inst   Instance
	seq    uint64
	symbol symbol.ID
}

// Map owns the colour set, the symbol catalog and the instances, and keeps
// every reference between them resolvable.
//
// A Map is not safe for concurrent mutation. Concurrent reads, including
// rendering, are safe.
type Map struct {
	Name string

	// ScaleDenominator is the N in a 1:N map scale.
	ScaleDenominator int
	Notes            string

	colours     map[symbol.ColourRef]colour.Colour
	colourOrder []symbol.ColourRef
	colourUsers map[symbol.ColourRef]int
	spots       colour.SpotMap

	symbols       *symbol.Catalog
	symbolUsers   map[symbol.ID]int
	symbolColours map[symbol.ID][]symbol.ColourRef

	instances map[ID]entry
	seq       uint64

	table       *colour.CalibrationTable
	fingerprint string
}

// NewMap creates an empty map calibrated with colour.NaiveProfile.
func NewMap(name string) *Map {
	return &Map{
		Name:          name,
		colours:       make(map[symbol.ColourRef]colour.Colour),
		colourUsers:   make(map[symbol.ColourRef]int),
		spots:         make(colour.SpotMap),
		symbols:       symbol.NewCatalog(),
		symbolUsers:   make(map[symbol.ID]int),
		symbolColours: make(map[symbol.ID][]symbol.ColourRef),
		instances:     make(map[ID]entry),
		table:         colour.NewCalibrationTable(nil),
	}
}

// AddColour registers c under ref.
func (m *Map) AddColour(ref symbol.ColourRef, c colour.Colour) error {
	if ref == "" || c == nil {
		return fmt.Errorf("colour %q: %w", ref, carto.ErrUnresolvedColourReference)
	}
	if _, ok := m.colours[ref]; ok {
		return fmt.Errorf("colour %q: %w", ref, carto.ErrDuplicateIdentifier)
	}
	m.colours[ref] = c
	m.colourOrder = append(m.colourOrder, ref)
	return nil
}

// RemoveColour deletes the colour ref. It fails with carto.ErrColourInUse
// while a symbol references it.
func (m *Map) RemoveColour(ref symbol.ColourRef) error {
	if _, ok := m.colours[ref]; !ok {
		return fmt.Errorf("colour %q: %w", ref, carto.ErrUnresolvedColourReference)
	}
	if n := m.colourUsers[ref]; n > 0 {
		return fmt.Errorf("colour %q used by %d symbols: %w", ref, n, carto.ErrColourInUse)
	}
	for _, s := range m.symbols.All() {
		if s.UsesColour(ref) {
			return fmt.Errorf("colour %q used by symbol %q: %w", ref, s.ID, carto.ErrColourInUse)
		}
	}
	delete(m.colours, ref)
	m.colourOrder = slices.DeleteFunc(m.colourOrder, func(r symbol.ColourRef) bool { return r == ref })
	return nil
}

// Colour returns the colour registered under ref.
func (m *Map) Colour(ref symbol.ColourRef) (colour.Colour, bool) {
	c, ok := m.colours[ref]
	return c, ok
}

// ColourRefs returns the colour references in insertion order.
func (m *Map) ColourRefs() []symbol.ColourRef {
	return slices.Clone(m.colourOrder)
}

// DefineSpot sets the process or device equivalent of a spot colour.
func (m *Map) DefineSpot(name string, def colour.Colour) error {
	if _, ok := m.spots[name]; ok {
		return fmt.Errorf("spot %q: %w", name, carto.ErrDuplicateIdentifier)
	}
	m.spots[name] = def
	return nil
}

// SpotDefinition implements colour.SpotTable.
func (m *Map) SpotDefinition(name string) (colour.Colour, bool) {
	return m.spots.SpotDefinition(name)
}

// AddSymbol inserts s into the catalog. Every colour s references must
// already be registered.
func (m *Map) AddSymbol(s *symbol.Symbol) error {
	if s == nil {
		return fmt.Errorf("nil symbol: %w", carto.ErrUnknownSymbol)
	}
	if _, ok := m.symbols.Get(s.ID); ok {
		return fmt.Errorf("symbol %q: %w", s.ID, carto.ErrDuplicateIdentifier)
	}
	refs := s.ColourRefs()
	for _, ref := range refs {
		if _, ok := m.colours[ref]; !ok {
			return fmt.Errorf("symbol %q colour %q: %w", s.ID, ref, carto.ErrUnresolvedColourReference)
		}
	}
	if err := m.symbols.Add(s); err != nil {
		return err
	}
	for _, ref := range refs {
		m.colourUsers[ref]++
	}
	m.symbolColours[s.ID] = refs
	return nil
}

// RemoveSymbol deletes the symbol id. It fails with carto.ErrSymbolInUse
// while any instance refers to it.
func (m *Map) RemoveSymbol(id symbol.ID) error {
	if _, ok := m.symbols.Get(id); !ok {
		return fmt.Errorf("symbol %q: %w", id, carto.ErrUnknownSymbol)
	}
	if n := m.symbolUsers[id]; n > 0 {
		return fmt.Errorf("symbol %q used by %d instances: %w", id, n, carto.ErrSymbolInUse)
	}
	// Instances edited in place without ReassignSymbol still count.
	for iid, e := range m.instances {
		if e.inst.Common().Symbol == id {
			return fmt.Errorf("symbol %q used by instance %q: %w", id, iid, carto.ErrSymbolInUse)
		}
	}
	m.symbols.Remove(id)
	delete(m.symbolUsers, id)
	for _, ref := range m.symbolColours[id] {
		if m.colourUsers[ref]--; m.colourUsers[ref] <= 0 {
			delete(m.colourUsers, ref)
		}
	}
	delete(m.symbolColours, id)
	return nil
}

// Symbol returns the symbol with the given id.
func (m *Map) Symbol(id symbol.ID) (*symbol.Symbol, bool) {
	return m.symbols.Get(id)
}

// SymbolByName looks up a symbol by exact, case-sensitive name.
func (m *Map) SymbolByName(name string) (*symbol.Symbol, bool) {
	return m.symbols.ByName(name)
}

// SymbolByCode looks up a symbol by its exact code.
func (m *Map) SymbolByCode(code symbol.Code) (*symbol.Symbol, bool) {
	return m.symbols.ByCode(code)
}

// Symbols returns the symbols in catalog order.
func (m *Map) Symbols() []*symbol.Symbol {
	return m.symbols.All()
}

// SymbolUsers returns the number of instances referring to id.
func (m *Map) SymbolUsers(id symbol.ID) int {
	return m.symbolUsers[id]
}

// AddInstance inserts inst. Its symbol must exist and be of the kind the
// instance type carries.
func (m *Map) AddInstance(inst Instance) error {
	if inst == nil {
		return fmt.Errorf("nil instance: %w", carto.ErrUnknownInstance)
	}
	b := inst.Common()
	if _, ok := m.instances[b.ID]; ok {
		return fmt.Errorf("instance %q: %w", b.ID, carto.ErrDuplicateIdentifier)
	}
	if err := m.checkSymbol(inst, b.Symbol); err != nil {
		return err
	}
	m.seq++
	m.instances[b.ID] = entry{inst: inst, seq: m.seq, symbol: b.Symbol}
	m.symbolUsers[b.Symbol]++
	return nil
}

func (m *Map) checkSymbol(inst Instance, id symbol.ID) error {
	s, ok := m.symbols.Get(id)
	if !ok {
		return fmt.Errorf("instance %q symbol %q: %w", inst.Common().ID, id, carto.ErrUnknownSymbol)
	}
	if s.Style == nil || s.Kind() != inst.Kind() {
		return fmt.Errorf("instance %q (%s) with symbol %q: %w",
			inst.Common().ID, inst.Kind(), id, carto.ErrUnsupportedSymbolKind)
	}
	return nil
}

// RemoveInstance deletes the instance id.
func (m *Map) RemoveInstance(id ID) error {
	e, ok := m.instances[id]
	if !ok {
		return fmt.Errorf("instance %q: %w", id, carto.ErrUnknownInstance)
	}
	delete(m.instances, id)
	m.release(e.symbol)
	return nil
}

func (m *Map) release(id symbol.ID) {
	if m.symbolUsers[id]--; m.symbolUsers[id] <= 0 {
		delete(m.symbolUsers, id)
	}
}

// Instance returns the instance with the given id.
func (m *Map) Instance(id ID) (Instance, bool) {
	e, ok := m.instances[id]
	return e.inst, ok
}

// Len returns the number of instances.
func (m *Map) Len() int {
	return len(m.instances)
}

// ReassignSymbol points instance id at another symbol. A path instance
// moving between line and area symbols is converted with ClonePath and
// keeps its paint position.
func (m *Map) ReassignSymbol(id ID, sym symbol.ID) error {
	e, ok := m.instances[id]
	if !ok {
		return fmt.Errorf("instance %q: %w", id, carto.ErrUnknownInstance)
	}
	s, ok := m.symbols.Get(sym)
	if !ok {
		return fmt.Errorf("instance %q symbol %q: %w", id, sym, carto.ErrUnknownSymbol)
	}

	inst := e.inst
	if p, ok := inst.(PathInstance); ok && s.Style != nil && s.Kind() != inst.Kind() {
		conv, err := ClonePath(p, s)
		if err != nil {
			return err
		}
		inst = conv
	}
	if err := m.checkSymbol(inst, sym); err != nil {
		return err
	}

	inst.Common().Symbol = sym
	m.instances[id] = entry{inst: inst, seq: e.seq, symbol: sym}
	m.symbolUsers[sym]++
	m.release(e.symbol)
	return nil
}

// Instances returns every instance in paint order: ascending layer, then
// insertion order within a layer. Later instances paint on top.
func (m *Map) Instances() []Instance {
	es := make([]entry, 0, len(m.instances))
	for _, e := range m.instances {
		es = append(es, e)
	}
	slices.SortFunc(es, func(a, b entry) int {
		if c := cmp.Compare(a.inst.Common().Layer, b.inst.Common().Layer); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	out := make([]Instance, len(es))
	for i, e := range es {
		out[i] = e.inst
	}
	return out
}

// SetProfile calibrates the map with profile. When fingerprint is not
// empty and matches the current profile's, the populated table is kept.
func (m *Map) SetProfile(profile colour.Profile, fingerprint string) {
	if fingerprint != "" && fingerprint == m.fingerprint {
		return
	}
	carto.Logger().Debug("replacing calibration table",
		"map", m.Name, "fingerprint", fingerprint, "cached", m.table.Len())
	m.table = colour.NewCalibrationTable(profile)
	m.fingerprint = fingerprint
}

// Calibration returns the map's calibration table.
func (m *Map) Calibration() *colour.CalibrationTable {
	return m.table
}

// Resolver returns a colour resolver over the map's calibration table and
// spot definitions.
func (m *Map) Resolver() *colour.Resolver {
	return colour.NewResolver(m.table, m)
}

// ResolveRef resolves the colour registered under ref to device colour.
func (m *Map) ResolveRef(ref symbol.ColourRef) (colour.RGBA, error) {
	c, ok := m.colours[ref]
	if !ok {
		return colour.RGBA{}, fmt.Errorf("colour %q: %w", ref, carto.ErrUnresolvedColourReference)
	}
	return m.Resolver().Resolve(c)
}

// Validate checks the references a loader must guarantee: every colour
// resolves, every symbol's colours exist and every instance's symbol
// exists with a matching kind. All problems are reported together.
func (m *Map) Validate() error {
	var errs []error
	r := m.Resolver()
	for _, ref := range m.colourOrder {
		if _, err := r.Resolve(m.colours[ref]); err != nil {
			errs = append(errs, fmt.Errorf("colour %q: %w", ref, err))
		}
	}
	for _, s := range m.symbols.All() {
		for _, ref := range s.ColourRefs() {
			if _, ok := m.colours[ref]; !ok {
				errs = append(errs, fmt.Errorf("symbol %q colour %q: %w", s.ID, ref, carto.ErrUnresolvedColourReference))
			}
		}
	}
	for _, inst := range m.Instances() {
		if err := m.checkSymbol(inst, inst.Common().Symbol); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
