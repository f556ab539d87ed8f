package fmatch

import (
	"strings"
	"testing"

	"github.com/fortgo/fmatch/symbol"
)

func TestMatchNameLimits(t *testing.T) {
	long := strings.Repeat("a", 63)
	tests := []struct {
		name string
		src  string
		want Match
		out  string
	}{
		{name: "simple", src: "foo", want: Yes, out: "foo"},
		{name: "keeps case", src: "FooBar_2", want: Yes, out: "FooBar_2"},
		{name: "underscore and digits", src: "a1_b2", want: Yes, out: "a1_b2"},
		{name: "leading digit is no name", src: "1abc", want: No},
		{name: "leading underscore is no name", src: "_abc", want: No},
		{name: "63 characters fit", src: long, want: Yes, out: long},
		{name: "64 characters overflow", src: long + "a", want: Err},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			got, m := p.MatchName()
			if m != tt.want {
				t.Fatalf("MatchName(%q) = %s, want %s", tt.src, m, tt.want)
			}
			if m == Yes && got != tt.out {
				t.Errorf("name = %q, want %q", got, tt.out)
			}
		})
	}
}

func TestMatchStLabel(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  Match
		value int
	}{
		{name: "one digit", src: "5", want: Yes, value: 5},
		{name: "five digits", src: "99999", want: Yes, value: 99999},
		{name: "zero label rejected", src: "0", want: Err},
		{name: "all-zero label rejected", src: "00000", want: Err},
		{name: "six digits rejected", src: "123456", want: Err},
		{name: "not a digit", src: "x", want: No},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			v, m := p.MatchStLabel()
			if m != tt.want {
				t.Fatalf("MatchStLabel(%q) = %s, want %s", tt.src, m, tt.want)
			}
			if m == Yes && v != tt.value {
				t.Errorf("value = %d, want %d", v, tt.value)
			}
			if m == Err && len(diags(p)) == 0 {
				t.Error("Err without a diagnostic")
			}
		})
	}
}

func TestMatchConstructLabel(t *testing.T) {
	p := freeParser(t, "outer: do i = 1, 5")
	name, m := p.MatchLabel()
	if m != Yes || name != "outer" {
		t.Fatalf("MatchLabel = %q/%s", name, m)
	}
	// The bare match is syntactic; no flavor until a construct opener
	// claims the name.
	if sym, ok := p.Symbols().Find("outer"); ok && sym.Flavor() == symbol.FlavorLabel {
		t.Error("unclaimed construct name already flavored")
	}
}

func TestMatchLabelRejectsDoubleColon(t *testing.T) {
	p := freeParser(t, "integer :: x")
	before := p.cur.StatementText()
	if _, m := p.MatchLabel(); m != No {
		t.Fatalf("MatchLabel on '::' = %s, want no", m)
	}
	if p.cur.StatementText() != before {
		t.Error("cursor moved on No")
	}
	if sym, ok := p.Symbols().Find("integer"); ok && sym.Flavor() != symbol.FlavorUnknown {
		t.Errorf("No path changed the symbol table: %v", sym.Flavor())
	}
}

func TestMatchSmallLiteralIntOverflow(t *testing.T) {
	p := freeParser(t, "99999999999")
	if _, _, m := p.MatchSmallLiteralInt(); m != Err {
		t.Fatalf("overflowing literal = %s, want error", m)
	}
}

func TestMatchDefinedOpName(t *testing.T) {
	tests := []struct {
		src  string
		want Match
		name string
	}{
		{src: ".cross.", want: Yes, name: "cross"},
		{src: ".Dot.", want: Yes, name: "dot"},
		{src: ".and.", want: No},  // intrinsic spelling
		{src: ".true.", want: No}, // logical literal
		{src: ".a1.", want: Err},  // digits not allowed
		{src: "..", want: No},
	}
	for _, tt := range tests {
		p := freeParser(t, tt.src)
		name, m := p.MatchDefinedOpName()
		if m != tt.want {
			t.Errorf("MatchDefinedOpName(%q) = %s, want %s", tt.src, m, tt.want)
			continue
		}
		if m == Yes && name != tt.name {
			t.Errorf("name for %q = %q, want %q", tt.src, name, tt.name)
		}
	}
}

func TestMatchMemberSep(t *testing.T) {
	if p := freeParser(t, "%comp"); p.MatchMemberSep() != Yes {
		t.Error("percent separator rejected")
	}
	if p := freeParser(t, ".comp"); p.MatchMemberSep() != No {
		t.Error("dot separator accepted without DEC extensions")
	}
	p := optParser(t, ".comp", Options{Form: FormFree, DECExtensions: true})
	if p.MatchMemberSep() != Yes {
		t.Error("dot separator rejected with DEC extensions")
	}
	// A dot that starts an operator or a logical literal is not a
	// member separator.
	for _, src := range []string{".and. b", ".eq. b", ".cross. b", ".true.", ".false."} {
		p = optParser(t, src, Options{Form: FormFree, DECExtensions: true})
		before := p.cur.StatementText()
		if p.MatchMemberSep() != No {
			t.Errorf("%q taken as member separator", src)
			continue
		}
		if p.cur.StatementText() != before {
			t.Errorf("cursor moved on No for %q", src)
		}
	}
	// DEC members spelled like operator words still work when the
	// closing dot is absent.
	p = optParser(t, ".android", Options{Form: FormFree, DECExtensions: true})
	if p.MatchMemberSep() != Yes {
		t.Error("member name with operator prefix rejected")
	}
	if got := p.cur.StatementText(); got != "android" {
		t.Errorf("separator consumed %q, rest = %q", ".", got)
	}
}

func TestMatchIterator(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Match
		str  string
	}{
		{name: "plain", src: "i = 1, 10", want: Yes, str: "i=1,10"},
		{name: "with step", src: "i = 1, 10, 2", want: Yes, str: "i=1,10,2"},
		{name: "expressions", src: "k = n+1, 2*n", want: Yes, str: "k=(n+1),(2*n)"},
		{name: "assignment backs out", src: "i = 1", want: No},
		{name: "missing end is an error", src: "i = 1,", want: Err},
		{name: "missing step is an error", src: "i = 1, 10,", want: Err},
		{name: "no equals", src: "i + 1", want: No},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			before := p.cur.StatementText()
			it, m := p.MatchIterator(false)
			if m != tt.want {
				t.Fatalf("MatchIterator(%q) = %s, want %s", tt.src, m, tt.want)
			}
			switch m {
			case Yes:
				got := it.Var + "=" + exprString(it.Start) + "," + exprString(it.End)
				if it.Step != nil {
					got += "," + exprString(it.Step)
				}
				if got != tt.str {
					t.Errorf("iterator = %q, want %q", got, tt.str)
				}
			case No:
				if p.cur.StatementText() != before {
					t.Error("cursor moved on No")
				}
			case Err:
				if len(diags(p)) == 0 {
					t.Error("Err without diagnostic")
				}
			}
		})
	}
}

func TestMatchParens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Match
	}{
		{name: "balanced", src: "f(a(1), b(2:3))", want: Yes},
		{name: "missing close", src: "f(a(1)", want: Err},
		{name: "missing open", src: "f a)", want: Err},
		{name: "parens in strings ignored", src: "write '(' // fmt", want: Yes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			before := p.cur.StatementText()
			if m := p.MatchParens(); m != tt.want {
				t.Fatalf("MatchParens(%q) = %s, want %s", tt.src, m, tt.want)
			}
			if p.cur.StatementText() != before {
				t.Error("MatchParens moved the cursor")
			}
		})
	}
}

func TestMatchEOS(t *testing.T) {
	q := freeParser(t, "x   ")
	q.nextCh()
	if q.MatchEOS() != Yes {
		t.Error("trailing blanks not treated as EOS")
	}
	r := freeParser(t, "x y")
	r.nextCh()
	before := r.cur.StatementText()
	if r.MatchEOS() != No {
		t.Error("EOS matched before end")
	}
	if r.cur.StatementText() != before {
		t.Error("cursor moved on failed EOS")
	}
}
