package fmatch

import (
	"strings"
	"testing"

	"github.com/fortgo/fmatch/ast"
	"github.com/fortgo/fmatch/symbol"
	"github.com/fortgo/fmatch/token"
)

// freeParser builds a parser over one free-form statement, positioned
// at its start.
func freeParser(t *testing.T, src string) *Parser {
	t.Helper()
	return optParser(t, src, Options{Form: FormFree})
}

func fixedParser(t *testing.T, src string) *Parser {
	t.Helper()
	return optParser(t, src, Options{Form: FormFixed})
}

func optParser(t *testing.T, src string, opts Options) *Parser {
	t.Helper()
	if opts.Form == FormFixed && !strings.Contains(src, "\n") {
		src = "      " + src
	}
	p, err := NewParser("test.f90", strings.NewReader(src+"\n"), opts, nil)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if !p.cur.NextStatement() {
		t.Fatalf("no statement normalized from %q", src)
	}
	return p
}

// diags pulls the collected diagnostics out of a test parser.
func diags(p *Parser) []Diagnostic {
	return p.Sink().(*CollectSink).Diags
}

// exprString renders an expression in the fully parenthesized form the
// AST printer produces.
func exprString(e ast.Expression) string {
	if e == nil {
		return "<nil>"
	}
	return string(e.AppendString(nil))
}

func TestMatchLiteralKeyword(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		pattern string
		opts    Options
		want    Match
	}{
		{name: "exact lower", src: "integer", pattern: " integer", want: Yes},
		{name: "upper folds", src: "INTEGER", pattern: " integer", want: Yes},
		{name: "mixed folds", src: "InTeGeR", pattern: " integer", want: Yes},
		{name: "leading blanks", src: "   integer", pattern: " integer", want: Yes},
		{name: "wrong word", src: "integra", pattern: " integer", want: No},
		{
			name: "free form blanks inside keyword reject",
			src:  "int eger", pattern: " integer", want: No,
		},
		{
			name: "fixed form blanks inside keyword accepted",
			src:  "int eger", pattern: " integer",
			opts: Options{Form: FormFixed}, want: Yes,
		},
		{name: "punctuation skips blanks", src: "  ( x", pattern: " ( x", want: Yes},
		{name: "literal percent", src: "a % b", pattern: " a %% b", want: Yes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := optParser(t, tt.src, tt.opts)
			if got := p.match(tt.pattern); got != tt.want {
				t.Errorf("match(%q) on %q = %s, want %s", tt.pattern, tt.src, got, tt.want)
			}
		})
	}
}

func TestMatchRestoresCursorOnNo(t *testing.T) {
	p := freeParser(t, "integer function")
	before := p.cur.StatementText()
	if m := p.match(" integer% procedure"); m != No {
		t.Fatalf("match = %s, want no", m)
	}
	if got := p.cur.StatementText(); got != before {
		t.Errorf("cursor moved on No: %q, want %q", got, before)
	}
	// The partial progress through "integer" must not stick either.
	if m := p.match(" integer% function%t"); m != Yes {
		t.Errorf("re-match after restore = %s, want yes", m)
	}
}

func TestMatchOutputsWrittenOnlyOnYes(t *testing.T) {
	p := freeParser(t, "call foo")
	name := "untouched"
	if m := p.match(" call% %n ( )", &name); m != No {
		t.Fatalf("match = %s, want no", m)
	}
	if name != "untouched" {
		t.Errorf("out-param written on No: %q", name)
	}
	if m := p.match(" call% %n%t", &name); m != Yes {
		t.Fatalf("match = %s, want yes", m)
	}
	if name != "foo" {
		t.Errorf("name = %q, want foo", name)
	}
}

func TestMatchNameDirective(t *testing.T) {
	p := freeParser(t, "Result_Value = 1")
	var name string
	if m := p.match(" %n =", &name); m != Yes {
		t.Fatalf("match = %s, want yes", m)
	}
	if name != "Result_Value" {
		t.Errorf("name = %q, want original spelling", name)
	}
}

func TestMatchSymbolDirective(t *testing.T) {
	p := freeParser(t, "Counter")
	var sym *symbol.Symbol
	if m := p.match(" %s%t", &sym); m != Yes {
		t.Fatalf("match = %s, want yes", m)
	}
	if sym == nil || sym.Name() != "counter" {
		t.Fatalf("symbol not entered folded: %v", sym)
	}
	if _, ok := p.Symbols().Find("COUNTER"); !ok {
		t.Error("symbol table lookup by any case failed")
	}
}

func TestMatchLabelDirective(t *testing.T) {
	p := freeParser(t, "go to 100")
	var lab int
	if m := p.match(" go to %l%t", &lab); m != Yes {
		t.Fatalf("match = %s, want yes", m)
	}
	if lab != 100 {
		t.Errorf("label = %d, want 100", lab)
	}
}

func TestMatchExprDirective(t *testing.T) {
	p := freeParser(t, "a + b*c")
	var e ast.Expression
	if m := p.match(" %e%t", &e); m != Yes {
		t.Fatalf("match = %s, want yes", m)
	}
	if got := exprString(e); got != "(a+(b*c))" {
		t.Errorf("expr = %q", got)
	}
}

func TestMatchOperatorDirective(t *testing.T) {
	tests := []struct {
		src  string
		want token.Op
	}{
		{".eq.", token.OpEQ},
		{"==", token.OpEQ},
		{".and.", token.OpAnd},
		{"**", token.OpPower},
	}
	for _, tt := range tests {
		p := freeParser(t, tt.src)
		var op token.Op
		if m := p.match(" %o", &op); m != Yes {
			t.Fatalf("match %%o on %q = no", tt.src)
		}
		if op != tt.want {
			t.Errorf("op for %q = %s, want %s", tt.src, op, tt.want)
		}
	}
}

func TestMatchRequiredSpace(t *testing.T) {
	if p := freeParser(t, "endfunction"); p.match(" end% function") != No {
		t.Error("free form accepted missing separator")
	}
	if p := freeParser(t, "end function"); p.match(" end% function") != Yes {
		t.Error("free form rejected separated keywords")
	}
	if p := fixedParser(t, "endfunction"); p.match(" end% function") != Yes {
		t.Error("fixed form rejected blank-free keywords")
	}
}

func TestMatchCommitTurnsFailureIntoError(t *testing.T) {
	p := freeParser(t, "allocate x")
	p.stName = "ALLOCATE"
	if m := p.match(" allocate %c ("); m != Err {
		t.Fatalf("match = %s, want error", m)
	}
	ds := diags(p)
	if len(ds) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(ds))
	}
	if want := "Syntax error in ALLOCATE statement"; ds[0].Message != want {
		t.Errorf("diagnostic = %q, want %q", ds[0].Message, want)
	}
	if !p.cur.AtEOS() {
		t.Error("cursor not skipped to EOS after committed failure")
	}
}

func TestSeqCommitPoint(t *testing.T) {
	p := freeParser(t, "lock (")
	var v ast.Expression
	m := p.seq("LOCK",
		func() Match { return p.match(" lock (") },
		nil, // commit
		func() Match { return p.match(" %v )", &v) },
		func() Match { return p.match(" %t") },
	)
	if m != Err {
		t.Fatalf("seq = %s, want error", m)
	}
	ds := diags(p)
	if len(ds) != 1 || ds[0].Message != "Syntax error in LOCK" {
		t.Errorf("diagnostics = %v", ds)
	}
	if !p.cur.AtEOS() {
		t.Error("cursor not skipped to EOS after committed failure")
	}
}

func TestSeqRestoresBeforeCommit(t *testing.T) {
	p := freeParser(t, "lockstep = 1")
	before := p.cur.StatementText()
	m := p.seq("LOCK",
		func() Match { return p.match(" lock (") },
		nil,
		func() Match { return p.match(" %t") },
	)
	if m != No {
		t.Fatalf("seq = %s, want no", m)
	}
	if got := p.cur.StatementText(); got != before {
		t.Errorf("cursor not restored: %q", got)
	}
	if len(diags(p)) != 0 {
		t.Errorf("diagnostics emitted on No: %v", diags(p))
	}
}

func TestAltStopsOnErr(t *testing.T) {
	p := freeParser(t, "stop 'reason")
	_ = p
	calls := 0
	m := p.alt(
		func() Match { return No },
		func() Match { calls++; p.error("boom"); return Err },
		func() Match { calls++; return Yes },
	)
	if m != Err {
		t.Fatalf("alt = %s, want error", m)
	}
	if calls != 1 {
		t.Errorf("alternatives tried after Err: %d calls", calls)
	}
}

func TestErrorSuppressionWithinStatement(t *testing.T) {
	p := freeParser(t, "x")
	p.error("first")
	p.error("second")
	if n := len(diags(p)); n != 1 {
		t.Fatalf("got %d diagnostics, want only the first", n)
	}
	if p.ErrCount() != 2 {
		t.Errorf("ErrCount = %d, want 2 (suppressed errors still count)", p.ErrCount())
	}
	p.warning("warned")
	if n := len(diags(p)); n != 2 {
		t.Errorf("warning suppressed along with errors: %d diagnostics", n)
	}
}
