package symbol

import (
	"strings"
	"testing"

	"github.com/fortgo/fmatch/ast"
)

func TestLookupFoldsAndCounts(t *testing.T) {
	tab := NewTable()
	at := ast.Loc{Source: "test.f90", Line: 1, Col: 1}

	s1, existed := tab.Lookup("Alpha", at)
	if existed {
		t.Error("first lookup reported existing symbol")
	}
	if s1.Name() != "alpha" {
		t.Errorf("name = %q, want folded %q", s1.Name(), "alpha")
	}
	s2, existed := tab.Lookup("ALPHA", at)
	if !existed || s2 != s1 {
		t.Error("case-folded lookup did not find the same symbol")
	}
	if s1.Refs() != 2 {
		t.Errorf("refs = %d, want 2", s1.Refs())
	}
	if _, ok := tab.Find("beta"); ok {
		t.Error("Find created a symbol")
	}
	if tab.Len() != 1 {
		t.Errorf("len = %d, want 1", tab.Len())
	}
}

func TestSetFlavor(t *testing.T) {
	tab := NewTable()
	s, _ := tab.Lookup("f", ast.Loc{})
	if !s.SetFlavor(FlavorProcedure) {
		t.Fatal("flavor on unknown symbol rejected")
	}
	if !s.SetFlavor(FlavorProcedure) {
		t.Error("re-asserting the same flavor rejected")
	}
	if s.SetFlavor(FlavorDerivedType) {
		t.Error("contradicting flavor accepted")
	}
	if s.Flavor() != FlavorProcedure {
		t.Errorf("flavor = %v", s.Flavor())
	}
}

func TestNamesKeepFirstSeenOrder(t *testing.T) {
	tab := NewTable()
	for _, n := range []string{"zeta", "alpha", "mid"} {
		tab.Lookup(n, ast.Loc{})
	}
	tab.Lookup("ZETA", ast.Loc{}) // re-reference must not reorder
	if got := strings.Join(tab.Names(), ","); got != "zeta,alpha,mid" {
		t.Errorf("names = %q", got)
	}
}

func TestNewBlock(t *testing.T) {
	tab := NewTable()
	s := tab.NewBlock("outer", ast.Loc{})
	if s.Flavor() != FlavorBlock {
		t.Errorf("flavor = %v, want block", s.Flavor())
	}
}
