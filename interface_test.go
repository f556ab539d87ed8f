package fmatch

import (
	"testing"

	"github.com/fortgo/fmatch/ast"
	"github.com/fortgo/fmatch/token"
)

func TestMatchInterface(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, st *ast.InterfaceStmt)
	}{
		{name: "plain", src: "interface", check: func(t *testing.T, st *ast.InterfaceStmt) {
			if st.Abstract || st.Spec != nil {
				t.Errorf("plain interface = %+v", st)
			}
		}},
		{name: "abstract", src: "abstract interface", check: func(t *testing.T, st *ast.InterfaceStmt) {
			if !st.Abstract {
				t.Error("abstract flag not set")
			}
		}},
		{name: "generic name", src: "interface swap", check: func(t *testing.T, st *ast.InterfaceStmt) {
			if st.Spec == nil || st.Spec.Kind != ast.GenericName || st.Spec.Name != "swap" {
				t.Errorf("spec = %+v", st.Spec)
			}
		}},
		{name: "operator", src: "interface operator (*)", check: func(t *testing.T, st *ast.InterfaceStmt) {
			if st.Spec == nil || st.Spec.Kind != ast.GenericOperator || st.Spec.Op != token.OpTimes {
				t.Errorf("spec = %+v", st.Spec)
			}
		}},
		{name: "defined operator", src: "interface operator (.cross.)", check: func(t *testing.T, st *ast.InterfaceStmt) {
			if st.Spec == nil || st.Spec.Kind != ast.GenericDefinedOp || st.Spec.Name != "cross" {
				t.Errorf("spec = %+v", st.Spec)
			}
			if st.Spec != nil && st.Spec.Op != token.OpUser {
				t.Errorf("defined operator op = %v", st.Spec.Op)
			}
		}},
		{name: "assignment", src: "interface assignment (=)", check: func(t *testing.T, st *ast.InterfaceStmt) {
			if st.Spec == nil || st.Spec.Kind != ast.GenericAssignment {
				t.Errorf("spec = %+v", st.Spec)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			st, m := p.MatchInterface()
			if m != Yes {
				t.Fatalf("MatchInterface(%q) = %s, want yes", tt.src, m)
			}
			tt.check(t, st.(*ast.InterfaceStmt))
		})
	}
}

func TestMatchInterfaceBacksOut(t *testing.T) {
	p := freeParser(t, "interface swap extra")
	before := p.cur.StatementText()
	if _, m := p.MatchInterface(); m != No {
		t.Fatalf("trailing text = %s, want no", m)
	}
	if p.cur.StatementText() != before {
		t.Error("cursor moved on No")
	}
}

func TestMatchEndInterface(t *testing.T) {
	p := freeParser(t, "end interface")
	st, m := p.MatchEndInterface()
	if m != Yes {
		t.Fatalf("MatchEndInterface = %s, want yes", m)
	}
	if st.(*ast.EndInterfaceStmt).Spec != nil {
		t.Error("plain end interface carries a spec")
	}

	q := freeParser(t, "end interface swap")
	st, m = q.MatchEndInterface()
	if m != Yes {
		t.Fatalf("named end interface = %s, want yes", m)
	}
	spec := st.(*ast.EndInterfaceStmt).Spec
	if spec == nil || spec.Kind != ast.GenericName || spec.Name != "swap" {
		t.Errorf("spec = %+v", spec)
	}
}
