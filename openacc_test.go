package fmatch

import (
	"strings"
	"testing"

	"github.com/fortgo/fmatch/ast"
)

func accParser(t *testing.T, body string) *Parser {
	t.Helper()
	return optParser(t, "!$acc "+body, Options{Form: FormFree, OpenACC: true})
}

func accDir(t *testing.T, body string) *ast.AccDirective {
	t.Helper()
	p := accParser(t, body)
	st, m := p.MatchAccDirective()
	if m != Yes {
		t.Fatalf("MatchAccDirective(%q) = %s, want yes (diags %v)", body, m, diags(p))
	}
	return st.(*ast.AccDirective)
}

func TestAccDirectiveTable(t *testing.T) {
	st := accDir(t, "parallel loop gang vector collapse(2) private(i)")
	if st.Kind != ast.AccParallelLoop {
		t.Fatalf("kind = %v", st.Kind)
	}
	c := st.Clauses
	if !c.Gang || !c.Vector || c.Collapse != 2 {
		t.Errorf("loop controls = %+v", c)
	}
	if got := strings.Join(c.Lists[ast.ListPrivate], ","); got != "i" {
		t.Errorf("private = %q", got)
	}

	st = accDir(t, "kernels async(1) wait(2, 3)")
	if st.Kind != ast.AccKernels || !st.Clauses.AsyncSet {
		t.Fatalf("kernels = %+v", st.Clauses)
	}
	if exprString(st.Clauses.Async) != "1" {
		t.Errorf("async = %q", exprString(st.Clauses.Async))
	}
	if len(st.Clauses.WaitArgs) != 2 || exprString(st.Clauses.WaitArgs[1]) != "3" {
		t.Errorf("wait args = %v", st.Clauses.WaitArgs)
	}

	st = accDir(t, "data copyin(a) copyout(b) create(c)")
	if st.Kind != ast.AccData {
		t.Fatalf("kind = %v", st.Kind)
	}
	c = st.Clauses
	for _, tt := range []struct {
		kind ast.ListKind
		want string
	}{
		{ast.ListCopyin, "a"}, {ast.ListCopyout, "b"}, {ast.ListCreate, "c"},
	} {
		if got := strings.Join(c.Lists[tt.kind], ","); got != tt.want {
			t.Errorf("list %d = %q, want %q", tt.kind, got, tt.want)
		}
	}

	if st := accDir(t, "enter data copyin(a)"); st.Kind != ast.AccEnterData {
		t.Errorf("enter data kind = %v", st.Kind)
	}
	if st := accDir(t, "exit data delete(a)"); st.Kind != ast.AccExitData {
		t.Errorf("exit data kind = %v", st.Kind)
	}

	st = accDir(t, "host_data use_device(p)")
	if st.Kind != ast.AccHostData {
		t.Fatalf("kind = %v", st.Kind)
	}
	if got := strings.Join(st.Clauses.Lists[ast.ListUseDevice], ","); got != "p" {
		t.Errorf("use_device = %q", got)
	}

	st = accDir(t, "declare device_resident(buf)")
	if st.Kind != ast.AccDeclare {
		t.Fatalf("kind = %v", st.Kind)
	}
	if got := strings.Join(st.Clauses.Lists[ast.ListDeviceResident], ","); got != "buf" {
		t.Errorf("device_resident = %q", got)
	}

	st = accDir(t, "parallel default(present) num_gangs(16)")
	if st.Clauses.Default != ast.DefaultPresent || exprString(st.Clauses.NumGangs) != "16" {
		t.Errorf("parallel = %+v", st.Clauses)
	}
}

func TestAccLoopControls(t *testing.T) {
	st := accDir(t, "loop gang(num: 4) worker(2) vector(length: 8) independent")
	c := st.Clauses
	if !c.Gang || exprString(c.GangNum) != "4" {
		t.Errorf("gang = %v %v", c.Gang, c.GangNum)
	}
	if !c.Worker || exprString(c.WorkerNum) != "2" {
		t.Errorf("worker = %v %v", c.Worker, c.WorkerNum)
	}
	if !c.Vector || exprString(c.VectorNum) != "8" {
		t.Errorf("vector = %v %v", c.Vector, c.VectorNum)
	}
	if !c.Independent {
		t.Error("independent not set")
	}

	st = accDir(t, "loop tile(2, *) seq")
	if len(st.Clauses.Tile) != 2 || st.Clauses.Tile[1] != nil {
		t.Errorf("tile = %v", st.Clauses.Tile)
	}
	if exprString(st.Clauses.Tile[0]) != "2" {
		t.Errorf("tile[0] = %q", exprString(st.Clauses.Tile[0]))
	}
	if !st.Clauses.Seq {
		t.Error("seq not set")
	}
}

func TestAccUpdateListMappings(t *testing.T) {
	st := accDir(t, "update host(a) device(b) self(c)")
	if st.Kind != ast.AccUpdate {
		t.Fatalf("kind = %v", st.Kind)
	}
	c := st.Clauses
	if got := strings.Join(c.Lists[ast.ListHost], ","); got != "a" {
		t.Errorf("host = %q", got)
	}
	if got := strings.Join(c.Lists[ast.ListTo], ","); got != "b" {
		t.Errorf("device = %q", got)
	}
	if got := strings.Join(c.Lists[ast.ListSelf], ","); got != "c" {
		t.Errorf("self = %q", got)
	}
}

func TestAccSpecialForms(t *testing.T) {
	st := accDir(t, "atomic capture")
	if st.Kind != ast.AccAtomic || st.Name != "capture" {
		t.Errorf("atomic = %+v", st)
	}

	st = accDir(t, "cache (a(i), b)")
	if st.Kind != ast.AccCache {
		t.Fatalf("cache kind = %v", st.Kind)
	}
	if got := strings.Join(st.Clauses.Lists[ast.ListCache], ","); got != "a,b" {
		t.Errorf("cache = %q", got)
	}

	st = accDir(t, "routine (saxpy) seq")
	if st.Kind != ast.AccRoutine || st.Name != "saxpy" || !st.Clauses.Seq {
		t.Errorf("routine = %+v", st)
	}

	st = accDir(t, "wait(1) async")
	if st.Kind != ast.AccWait || !st.Clauses.AsyncSet {
		t.Errorf("wait = %+v", st.Clauses)
	}
	if len(st.Clauses.WaitArgs) != 1 || exprString(st.Clauses.WaitArgs[0]) != "1" {
		t.Errorf("wait args = %v", st.Clauses.WaitArgs)
	}
}

func TestAccEndDirectives(t *testing.T) {
	tests := []struct {
		body string
		name string
	}{
		{"end kernels", "kernels"},
		{"end parallel loop", "parallel loop"},
		{"end host_data", "host_data"},
	}
	for _, tt := range tests {
		st := accDir(t, tt.body)
		if st.Kind != ast.AccEndDirective || st.Name != tt.name {
			t.Errorf("%q = kind %v name %q", tt.body, st.Kind, st.Name)
		}
	}

	p := accParser(t, "end frobnicate")
	if _, m := p.MatchAccDirective(); m != Err {
		t.Fatalf("unknown end = %s, want error", m)
	}
	ds := diags(p)
	if len(ds) == 0 || !strings.Contains(ds[0].Message, "Unclassifiable OpenACC directive") {
		t.Errorf("diagnostics = %v", ds)
	}
}

func TestAccDisallowedClause(t *testing.T) {
	p := accParser(t, "loop copyin(a)")
	if _, m := p.MatchAccDirective(); m != Err {
		t.Fatalf("disallowed clause = %s, want error", m)
	}
	ds := diags(p)
	if len(ds) == 0 || !strings.Contains(ds[0].Message, "Failed to match clause") {
		t.Errorf("diagnostics = %v", ds)
	}
}
