// Package symbol provides the minimal symbol table the matcher needs:
// lookup-or-create by folded name, flavor bookkeeping and block symbols
// for newly opened constructs. Full resolution lives downstream.
package symbol

import (
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/fortgo/fmatch/ast"
)

// Flavor is what kind of entity a symbol stands for. The matcher only
// records what the syntax reveals; a flavor can be sharpened later but
// never contradicted.
type Flavor int

const (
	FlavorUnknown Flavor = iota
	FlavorVariable
	FlavorParameter
	FlavorProcedure
	FlavorDerivedType
	FlavorNamelist
	FlavorCommon
	FlavorBlock // named construct or program unit
	FlavorLabel // construct name defined by name:
)

func (f Flavor) String() string {
	switch f {
	case FlavorVariable:
		return "variable"
	case FlavorParameter:
		return "parameter"
	case FlavorProcedure:
		return "procedure"
	case FlavorDerivedType:
		return "derived type"
	case FlavorNamelist:
		return "namelist"
	case FlavorCommon:
		return "common block"
	case FlavorBlock:
		return "block"
	case FlavorLabel:
		return "construct name"
	}
	return "unknown"
}

// Symbol represents a named entity seen during matching.
type Symbol struct {
	name   string // stored folded to lower case
	flavor Flavor
	where  ast.Loc
	refs   int
}

// Name returns the (lower-cased) symbol name.
func (s *Symbol) Name() string { return s.name }

// Flavor returns the symbol flavor.
func (s *Symbol) Flavor() Flavor { return s.flavor }

// Where returns the location of the first reference.
func (s *Symbol) Where() ast.Loc { return s.where }

// Refs returns how many times the symbol was looked up.
func (s *Symbol) Refs() int { return s.refs }

// SetFlavor records the flavor. Returns false when the symbol already
// has a different, incompatible flavor.
func (s *Symbol) SetFlavor(f Flavor) bool {
	if s.flavor == FlavorUnknown || s.flavor == f {
		s.flavor = f
		return true
	}
	return false
}

// Table is a declaration-ordered symbol table. Iteration order is the
// order names were first seen, which keeps diagnostics and dumps
// stable between runs.
type Table struct {
	syms *linkedhashmap.Map // folded name -> *Symbol
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{syms: linkedhashmap.New()}
}

// Fold normalizes a Fortran name for table lookup.
func Fold(name string) string { return strings.ToLower(name) }

// Lookup finds or creates the symbol for name. The boolean reports
// whether the symbol already existed.
func (t *Table) Lookup(name string, at ast.Loc) (sym *Symbol, existed bool) {
	key := Fold(name)
	if v, ok := t.syms.Get(key); ok {
		sym = v.(*Symbol)
		sym.refs++
		return sym, true
	}
	sym = &Symbol{name: key, where: at, refs: 1}
	t.syms.Put(key, sym)
	return sym, false
}

// Find returns the symbol for name without creating it.
func (t *Table) Find(name string) (*Symbol, bool) {
	v, ok := t.syms.Get(Fold(name))
	if !ok {
		return nil, false
	}
	return v.(*Symbol), true
}

// NewBlock creates (or retrieves) the block symbol for a freshly
// opened named construct and marks it as a block.
func (t *Table) NewBlock(name string, at ast.Loc) *Symbol {
	sym, _ := t.Lookup(name, at)
	sym.SetFlavor(FlavorBlock)
	return sym
}

// Len returns the number of distinct names seen.
func (t *Table) Len() int { return t.syms.Size() }

// Names returns all names in first-seen order.
func (t *Table) Names() []string {
	names := make([]string, 0, t.syms.Size())
	it := t.syms.Iterator()
	for it.Next() {
		names = append(names, it.Key().(string))
	}
	return names
}
