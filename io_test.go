package fmatch

import (
	"strconv"
	"strings"
	"testing"

	"github.com/fortgo/fmatch/ast"
)

func specString(s ast.IOSpec) string {
	switch {
	case s.Star:
		return s.Keyword + "=*"
	case s.Label != 0:
		return s.Keyword + "=" + strconv.Itoa(s.Label)
	case s.Value != nil:
		return s.Keyword + "=" + exprString(s.Value)
	}
	return s.Keyword
}

func specsString(specs []ast.IOSpec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = specString(s)
	}
	return strings.Join(parts, ",")
}

func itemsString(items []ast.Expression) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = exprString(it)
	}
	return strings.Join(parts, ",")
}

func TestMatchRead(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		specs string
		items string
	}{
		{name: "control list", src: "read (5, *) x, y",
			specs: "unit=5,fmt=*", items: "x,y"},
		{name: "keyword specs", src: "read (unit=5, fmt='(i5)', err=99, end=100) n",
			specs: "unit=5,fmt='(i5)',err=99,end=100", items: "n"},
		{name: "no item list", src: "read (5)",
			specs: "unit=5"},
		{name: "short star form", src: "read *, x",
			specs: "unit=*,fmt=*", items: "x"},
		{name: "short label form", src: "read 100, a(i)",
			specs: "unit=*,fmt=100", items: "a(i)"},
		{name: "short variable format", src: "read fmt_str, x",
			specs: "unit=*,fmt=fmt_str", items: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			st, m := p.MatchRead()
			if m != Yes {
				t.Fatalf("MatchRead(%q) = %s, want yes", tt.src, m)
			}
			rd := st.(*ast.ReadStmt)
			if got := specsString(rd.Specs); got != tt.specs {
				t.Errorf("specs = %q, want %q", got, tt.specs)
			}
			if got := itemsString(rd.Items); got != tt.items {
				t.Errorf("items = %q, want %q", got, tt.items)
			}
		})
	}
}

func TestMatchReadImpliedDo(t *testing.T) {
	p := freeParser(t, "read (5, *) (a(i), i = 1, n)")
	st, m := p.MatchRead()
	if m != Yes {
		t.Fatalf("MatchRead = %s, want yes", m)
	}
	rd := st.(*ast.ReadStmt)
	if len(rd.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(rd.Items))
	}
	if _, ok := rd.Items[0].(*ast.ImpliedDo); !ok {
		t.Errorf("item is %T, want implied-do", rd.Items[0])
	}
}

func TestMatchReadBacksOut(t *testing.T) {
	p := freeParser(t, "read = 1")
	before := p.cur.StatementText()
	if _, m := p.MatchRead(); m != No {
		t.Fatalf("MatchRead on assignment = %s, want no", m)
	}
	if p.cur.StatementText() != before {
		t.Error("cursor moved on No")
	}
}

func TestMatchWrite(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		specs string
		items string
	}{
		{name: "star unit char format", src: "write (*, '(a)') 'hello'",
			specs: "unit=*,fmt='(a)'", items: "'hello'"},
		{name: "label format", src: "write (6, 200) x",
			specs: "unit=6,fmt=200", items: "x"},
		{name: "no item list", src: "write (6)",
			specs: "unit=6"},
		{name: "keyword specs", src: "write (nunit, rec=3, iostat=ios) buf",
			specs: "unit=nunit,rec=3,iostat=ios", items: "buf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			st, m := p.MatchWrite()
			if m != Yes {
				t.Fatalf("MatchWrite(%q) = %s, want yes", tt.src, m)
			}
			wr := st.(*ast.WriteStmt)
			if got := specsString(wr.Specs); got != tt.specs {
				t.Errorf("specs = %q, want %q", got, tt.specs)
			}
			if got := itemsString(wr.Items); got != tt.items {
				t.Errorf("items = %q, want %q", got, tt.items)
			}
		})
	}
}

func TestMatchWriteNeedsControlList(t *testing.T) {
	p := freeParser(t, "write x")
	before := p.cur.StatementText()
	if _, m := p.MatchWrite(); m != No {
		t.Fatalf("MatchWrite without control list = %s, want no", m)
	}
	if p.cur.StatementText() != before {
		t.Error("cursor moved on No")
	}
}

func TestMatchPrint(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format string
		items  string
	}{
		{name: "list directed", src: "print *, i, 2*i", format: "fmt=*", items: "i,(2*i)"},
		{name: "label only", src: "print 100", format: "fmt=100"},
		{name: "variable format", src: "print fmt_str, x", format: "fmt=fmt_str", items: "x"},
		{name: "star no items", src: "print *", format: "fmt=*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			st, m := p.MatchPrint()
			if m != Yes {
				t.Fatalf("MatchPrint(%q) = %s, want yes", tt.src, m)
			}
			pr := st.(*ast.PrintStmt)
			if got := specString(pr.Format); got != tt.format {
				t.Errorf("format = %q, want %q", got, tt.format)
			}
			if got := itemsString(pr.Items); got != tt.items {
				t.Errorf("items = %q, want %q", got, tt.items)
			}
		})
	}
}

func TestMatchPrintNeedsFormat(t *testing.T) {
	p := freeParser(t, "print")
	before := p.cur.StatementText()
	if _, m := p.MatchPrint(); m != No {
		t.Fatalf("bare PRINT = %s, want no", m)
	}
	if p.cur.StatementText() != before {
		t.Error("cursor moved on No")
	}
}

func TestMatchOpenClose(t *testing.T) {
	p := freeParser(t, "open (10, file='data.txt', status='old', iostat=ios)")
	st, m := p.MatchOpen()
	if m != Yes {
		t.Fatalf("MatchOpen = %s, want yes", m)
	}
	op := st.(*ast.OpenStmt)
	if got := specsString(op.Specs); got != "unit=10,file='data.txt',status='old',iostat=ios" {
		t.Errorf("specs = %q", got)
	}
	if sp := ast.FindSpec(op.Specs, "file"); sp == nil || exprString(sp.Value) != "'data.txt'" {
		t.Errorf("FindSpec(file) = %v", sp)
	}

	q := freeParser(t, "open 10")
	if _, m := q.MatchOpen(); m != No {
		t.Errorf("OPEN without parens = %s, want no", m)
	}

	r := freeParser(t, "close (10, status='keep')")
	st, m = r.MatchClose()
	if m != Yes {
		t.Fatalf("MatchClose = %s, want yes", m)
	}
	cl := st.(*ast.CloseStmt)
	if got := specsString(cl.Specs); got != "unit=10,status='keep'" {
		t.Errorf("close specs = %q", got)
	}
}

func TestFilePositioning(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		match func(*Parser) (ast.Statement, Match)
		specs string
	}{
		{name: "rewind bare unit", src: "rewind 10",
			match: (*Parser).MatchRewind, specs: "unit=10"},
		{name: "rewind control list", src: "rewind (unit=k, err=99)",
			match: (*Parser).MatchRewind, specs: "unit=k,err=99"},
		{name: "backspace", src: "backspace n",
			match: (*Parser).MatchBackspace, specs: "unit=n"},
		{name: "endfile one word", src: "endfile 4",
			match: (*Parser).MatchEndfile, specs: "unit=4"},
		{name: "end file two words", src: "end file 4",
			match: (*Parser).MatchEndfile, specs: "unit=4"},
		{name: "flush", src: "flush 6",
			match: (*Parser).MatchFlushStmt, specs: "unit=6"},
		{name: "wait", src: "wait (unit=9, id=idv)",
			match: (*Parser).MatchWaitStmt, specs: "unit=9,id=idv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := freeParser(t, tt.src)
			st, m := tt.match(p)
			if m != Yes {
				t.Fatalf("match(%q) = %s, want yes", tt.src, m)
			}
			var specs []ast.IOSpec
			switch s := st.(type) {
			case *ast.RewindStmt:
				specs = s.Specs
			case *ast.BackspaceStmt:
				specs = s.Specs
			case *ast.EndfileStmt:
				specs = s.Specs
			case *ast.FlushStmt:
				specs = s.Specs
			case *ast.WaitStmt:
				specs = s.Specs
			default:
				t.Fatalf("unexpected statement type %T", st)
			}
			if got := specsString(specs); got != tt.specs {
				t.Errorf("specs = %q, want %q", got, tt.specs)
			}
		})
	}
}

func TestWaitNeedsControlList(t *testing.T) {
	p := freeParser(t, "wait 9")
	if _, m := p.MatchWaitStmt(); m != No {
		t.Errorf("WAIT with bare unit = %s, want no", m)
	}
}

func TestMatchInquire(t *testing.T) {
	p := freeParser(t, "inquire (file='x.dat', exist=ex)")
	st, m := p.MatchInquire()
	if m != Yes {
		t.Fatalf("MatchInquire = %s, want yes", m)
	}
	iq := st.(*ast.InquireStmt)
	if got := specsString(iq.Specs); got != "file='x.dat',exist=ex" {
		t.Errorf("specs = %q", got)
	}

	q := freeParser(t, "inquire (iolength = n) a, b")
	st, m = q.MatchInquire()
	if m != Yes {
		t.Fatalf("IOLENGTH form = %s, want yes", m)
	}
	iq = st.(*ast.InquireStmt)
	if iq.Length == nil || exprString(iq.Length) != "n" {
		t.Errorf("length = %v", iq.Length)
	}
	if got := itemsString(iq.Items); got != "a,b" {
		t.Errorf("items = %q", got)
	}

	r := freeParser(t, "inquire exist")
	if _, m := r.MatchInquire(); m != No {
		t.Errorf("INQUIRE without parens = %s, want no", m)
	}
}

func TestMatchFormat(t *testing.T) {
	p := freeParser(t, "format (i5, 2x, a)")
	p.stLabel = 10
	st, m := p.MatchFormat()
	if m != Yes {
		t.Fatalf("MatchFormat = %s, want yes", m)
	}
	if got := st.(*ast.FormatStmt).Text; got != "(i5, 2x, a)" {
		t.Errorf("text = %q", got)
	}
}

func TestMatchFormatNeedsLabel(t *testing.T) {
	p := freeParser(t, "format (i5)")
	if _, m := p.MatchFormat(); m != Err {
		t.Fatalf("unlabeled FORMAT = %s, want error", m)
	}
	ds := diags(p)
	if len(ds) == 0 || !strings.Contains(ds[0].Message, "does not have a statement label") {
		t.Errorf("diagnostics = %v", ds)
	}
}

func TestMatchFormatUnbalanced(t *testing.T) {
	p := freeParser(t, "format (i5")
	p.stLabel = 20
	if _, m := p.MatchFormat(); m != Err {
		t.Fatalf("unbalanced FORMAT = %s, want error", m)
	}
	if len(diags(p)) == 0 {
		t.Error("Err without diagnostic")
	}
}

func TestMatchFormatNeedsParens(t *testing.T) {
	p := freeParser(t, "format x")
	before := p.cur.StatementText()
	if _, m := p.MatchFormat(); m != No {
		t.Fatalf("FORMAT without parens = %s, want no", m)
	}
	if p.cur.StatementText() != before {
		t.Error("cursor moved on No")
	}
}
