package fmatch

import (
	"strings"
	"testing"

	"github.com/fortgo/fmatch/ast"
	"github.com/fortgo/fmatch/symbol"
)

// matchExpr matches a full expression and requires end of statement.
func matchExpr(t *testing.T, p *Parser) ast.Expression {
	t.Helper()
	e, m := p.MatchExpr()
	if m != Yes {
		t.Fatalf("MatchExpr = %s, want yes (diags %v)", m, diags(p))
	}
	if p.MatchEOS() != Yes {
		t.Fatalf("expression left %q unconsumed", p.cur.StatementText())
	}
	return e
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "mult binds tighter than add", src: "a + b*c", want: "(a+(b*c))"},
		{name: "add is left associative", src: "a - b + c", want: "((a-b)+c)"},
		{name: "power is right associative", src: "a**b**c", want: "(a**(b**c))"},
		{name: "unary minus on first operand", src: "-a + b", want: "(-a+b)"},
		{name: "unary minus binds whole term", src: "-a*b", want: "-(a*b)"},
		{name: "concat left associative", src: "a // b // c", want: "((a//b)//c)"},
		{name: "explicit parens preserved", src: "(a + b)*c", want: "(((a+b))*c)"},
		{name: "relational below concat", src: "a // b == c", want: "((a//b).eq.c)"},
		{name: "not binds before and", src: ".not. a .and. b", want: "(.not.a.and.b)"},
		{name: "and binds before or", src: "a .or. b .and. c", want: "(a.or.(b.and.c))"},
		{name: "eqv lowest", src: "a .or. b .eqv. c", want: "((a.or.b).eqv.c)"},
		{name: "eqv left associative", src: "a .eqv. b .neqv. c", want: "((a.eqv.b).neqv.c)"},
		{name: "symbolic and dotted equal", src: "a .eq. b", want: "(a.eq.b)"},
		{name: "symbolic spelling", src: "a == b", want: "(a.eq.b)"},
		{name: "defined binary lowest", src: "a .cross. b + c", want: "(a.cross.(b+c))"},
		{name: "defined binary left associative", src: "a .cross. b .cross. c", want: "((a.cross.b).cross.c)"},
		{name: "defined unary highest", src: ".inv. a + b", want: "(.inv.a+b)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			if got := exprString(matchExpr(t, p)); got != tt.want {
				t.Errorf("%q parsed as %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestRelationalDoesNotChain(t *testing.T) {
	p := freeParser(t, "a < b < c")
	e, m := p.MatchExpr()
	if m != Yes {
		t.Fatalf("MatchExpr = %s", m)
	}
	if got := exprString(e); got != "(a.lt.b)" {
		t.Errorf("expr = %q, want (a.lt.b)", got)
	}
	if rest := strings.TrimSpace(p.cur.StatementText()); !strings.HasPrefix(rest, "<") {
		t.Errorf("second relational consumed; rest = %q", rest)
	}
}

func TestTrailingOperatorLeftForCaller(t *testing.T) {
	// An operator whose right operand does not parse belongs to the
	// surrounding statement: DATA value lists end on '/', old-style
	// array constructors close with '/)'.
	tests := []struct {
		name string
		src  string
		want string
		rest string
	}{
		{name: "slash ends value list", src: "x /", want: "x", rest: "/"},
		{name: "slash-paren closes constructor", src: "2 /)", want: "2", rest: "/)"},
		{name: "trailing plus", src: "a + b +", want: "(a+b)", rest: "+"},
		{name: "trailing and", src: "a .and.", want: "a", rest: ".and."},
		{name: "trailing eqv", src: "a .eqv.", want: "a", rest: ".eqv."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			e, m := p.MatchExpr()
			if m != Yes {
				t.Fatalf("MatchExpr(%q) = %s, want yes (diags %v)", tt.src, m, diags(p))
			}
			if got := exprString(e); got != tt.want {
				t.Errorf("expr = %q, want %q", got, tt.want)
			}
			rest := strings.TrimSpace(p.cur.StatementText())
			if !strings.HasPrefix(rest, tt.rest) {
				t.Errorf("operator consumed; rest = %q, want prefix %q", rest, tt.rest)
			}
		})
	}
}

func TestRealLiteralVsDottedOperator(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "dot op after integer", src: "1.eq.2", want: "(1.eq.2)"},
		{name: "dot and after integer", src: "1.and.k", want: "(1.and.k)"},
		{name: "real with exponent", src: "1.e5", want: "100000"},
		{name: "real then operator", src: "1.5.lt.x", want: "(1.5.lt.x)"},
		{name: "bare decimal point", src: "1. + 2.", want: "(1+2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			if got := exprString(matchExpr(t, p)); got != tt.want {
				t.Errorf("%q parsed as %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestLiteralConstants(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, e ast.Expression)
	}{
		{
			name: "integer with kind",
			src:  "42_8",
			check: func(t *testing.T, e ast.Expression) {
				lit, ok := e.(*ast.IntLit)
				if !ok {
					t.Fatalf("got %T", e)
				}
				if lit.Value != 42 || lit.Kind != "8" {
					t.Errorf("lit = %d_%s", lit.Value, lit.Kind)
				}
			},
		},
		{
			name: "real with named kind",
			src:  "3.14_dp",
			check: func(t *testing.T, e ast.Expression) {
				lit, ok := e.(*ast.RealLit)
				if !ok {
					t.Fatalf("got %T", e)
				}
				if lit.Kind != "dp" || lit.Raw != "3.14" {
					t.Errorf("raw %q kind %q", lit.Raw, lit.Kind)
				}
			},
		},
		{
			name: "double precision exponent letter",
			src:  "1.5d0",
			check: func(t *testing.T, e ast.Expression) {
				lit, ok := e.(*ast.RealLit)
				if !ok {
					t.Fatalf("got %T", e)
				}
				if lit.Raw != "1.5d0" {
					t.Errorf("raw spelling %q, want 1.5d0", lit.Raw)
				}
				if lit.Value.String() != "1.5" {
					t.Errorf("value %s, want 1.5", lit.Value)
				}
			},
		},
		{
			name: "binary boz",
			src:  "b'1010'",
			check: func(t *testing.T, e ast.Expression) {
				lit, ok := e.(*ast.BOZLit)
				if !ok {
					t.Fatalf("got %T", e)
				}
				if lit.Value != 10 || lit.Base != 2 {
					t.Errorf("boz = %d base %d", lit.Value, lit.Base)
				}
			},
		},
		{
			name: "hex boz",
			src:  "z'ff'",
			check: func(t *testing.T, e ast.Expression) {
				lit := e.(*ast.BOZLit)
				if lit.Value != 255 || lit.Base != 16 {
					t.Errorf("boz = %d base %d", lit.Value, lit.Base)
				}
			},
		},
		{
			name: "doubled quote in character literal",
			src:  "'it''s'",
			check: func(t *testing.T, e ast.Expression) {
				lit, ok := e.(*ast.StringLit)
				if !ok {
					t.Fatalf("got %T", e)
				}
				if lit.Value != "it's" {
					t.Errorf("value %q, want it's", lit.Value)
				}
			},
		},
		{
			name: "kind-prefixed character literal",
			src:  "4_'abc'",
			check: func(t *testing.T, e ast.Expression) {
				lit := e.(*ast.StringLit)
				if lit.Value != "abc" || lit.Kind != "4" {
					t.Errorf("lit = %s_%q", lit.Kind, lit.Value)
				}
			},
		},
		{
			name: "logical literal",
			src:  ".true.",
			check: func(t *testing.T, e ast.Expression) {
				lit, ok := e.(*ast.LogicalLit)
				if !ok {
					t.Fatalf("got %T", e)
				}
				if !lit.Value {
					t.Error("value false")
				}
			},
		},
		{
			name: "complex constant",
			src:  "(1.0, -2.5)",
			check: func(t *testing.T, e ast.Expression) {
				lit, ok := e.(*ast.ComplexLit)
				if !ok {
					t.Fatalf("got %T", e)
				}
				if lit.Re == nil || lit.Im == nil {
					t.Error("missing parts")
				}
			},
		},
		{
			name: "complex with named constant part",
			src:  "(zero, one)",
			check: func(t *testing.T, e ast.Expression) {
				if _, ok := e.(*ast.ComplexLit); !ok {
					t.Fatalf("got %T", e)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			tt.check(t, matchExpr(t, p))
		})
	}
}

func TestDesignators(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "element", src: "a(1)", want: "a(1)"},
		{name: "section with stride", src: "a(1:5:2)", want: "a(1:5:2)"},
		{name: "bare colon", src: "a(:)", want: "a(:)"},
		{name: "upper bound only", src: "a(:5)", want: "a(:5)"},
		{name: "component chain", src: "a%b%c", want: "a%b%c"},
		{name: "component of element", src: "a(i)%b", want: "a(i)%b"},
		{name: "multi dimension", src: "m(i, j)", want: "m(i,j)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			e := matchExpr(t, p)
			v, ok := e.(*ast.VarRef)
			if !ok {
				t.Fatalf("got %T, want *ast.VarRef", e)
			}
			if got := exprString(v); got != tt.want {
				t.Errorf("designator %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCallForms(t *testing.T) {
	// Empty parentheses and keyword arguments force a function
	// reference; a plain subscript stays a designator.
	p := freeParser(t, "f()")
	if _, ok := matchExpr(t, p).(*ast.Call); !ok {
		t.Error("f() did not produce a call")
	}
	p = freeParser(t, "f(x = 1)")
	e := matchExpr(t, p)
	call, ok := e.(*ast.Call)
	if !ok {
		t.Fatalf("got %T, want *ast.Call", e)
	}
	if len(call.Args) != 1 || call.Args[0].Keyword != "x" {
		t.Errorf("args = %+v", call.Args)
	}
	p = freeParser(t, "f(1)")
	if _, ok := matchExpr(t, p).(*ast.VarRef); !ok {
		t.Error("f(1) did not stay a designator")
	}
}

func TestStructureConstructor(t *testing.T) {
	p := freeParser(t, "point(1, 2)")
	sym, _ := p.Symbols().Lookup("point", ast.Loc{Source: "test.f90", Line: 1, Col: 1})
	sym.SetFlavor(symbol.FlavorDerivedType)
	e := matchExpr(t, p)
	ctor, ok := e.(*ast.StructCtor)
	if !ok {
		t.Fatalf("got %T, want *ast.StructCtor", e)
	}
	if ctor.TypeName != "point" || len(ctor.Args) != 2 {
		t.Errorf("ctor = %s with %d args", ctor.TypeName, len(ctor.Args))
	}
}

func TestArrayConstructors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "bracket form", src: "[1, 2, 3]", want: "[1,2,3]"},
		{name: "slash form", src: "(/ 1, 2 /)", want: "[1,2]"},
		{name: "implied do", src: "[(i*i, i = 1, 4)]", want: "[((i*i),i=1,4)]"},
		{name: "typed empty", src: "[integer ::]", want: "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			e := matchExpr(t, p)
			ctor, ok := e.(*ast.ArrayCtor)
			if !ok {
				t.Fatalf("got %T, want *ast.ArrayCtor", e)
			}
			if got := exprString(ctor); got != tt.want {
				t.Errorf("ctor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmptyArrayCtorNeedsTypeSpec(t *testing.T) {
	p := freeParser(t, "[]")
	if _, m := p.MatchExpr(); m != Err {
		t.Fatalf("untyped empty constructor = %s, want error", m)
	}
	if len(diags(p)) == 0 {
		t.Error("no diagnostic for empty constructor")
	}
}

func TestMatchVariableRejectsNonVariables(t *testing.T) {
	for _, src := range []string{"1 + 2", "'str'", ".true."} {
		p := freeParser(t, src)
		before := p.cur.StatementText()
		if _, m := p.MatchVariable(); m != No {
			t.Errorf("MatchVariable(%q) = %s, want no", src, m)
			continue
		}
		if p.cur.StatementText() != before {
			t.Errorf("cursor moved on No for %q", src)
		}
	}
}

func TestNullInitializer(t *testing.T) {
	p := freeParser(t, "null()")
	if _, ok := matchExpr(t, p).(*ast.Null); !ok {
		t.Error("null() not recognized")
	}
	p = freeParser(t, "null(ptr)")
	n, ok := matchExpr(t, p).(*ast.Null)
	if !ok || n.Mold == nil {
		t.Error("null(mold) lost its mold")
	}
}

func TestInitExprDelegates(t *testing.T) {
	p := freeParser(t, "2 * 3 + 1")
	e, m := p.MatchInitExpr()
	if m != Yes {
		t.Fatalf("MatchInitExpr = %s", m)
	}
	if got := exprString(e); got != "((2*3)+1)" {
		t.Errorf("expr = %q", got)
	}
}
