package fmatch

import (
	"strings"
	"testing"

	"github.com/fortgo/fmatch/ast"
)

// ompParser normalizes one !$OMP line and leaves the cursor on the
// directive body, sentinel stripped.
func ompParser(t *testing.T, body string) *Parser {
	t.Helper()
	return optParser(t, "!$omp "+body, Options{Form: FormFree, OpenMP: true})
}

func ompDir(t *testing.T, body string) *ast.OmpDirective {
	t.Helper()
	p := ompParser(t, body)
	st, m := p.MatchOmpDirective()
	if m != Yes {
		t.Fatalf("MatchOmpDirective(%q) = %s, want yes (diags %v)", body, m, diags(p))
	}
	return st.(*ast.OmpDirective)
}

func TestOmpDirectiveTable(t *testing.T) {
	st := ompDir(t, "parallel private(a, b) shared(c) num_threads(4)")
	if st.Kind != ast.OmpParallel {
		t.Fatalf("kind = %v", st.Kind)
	}
	c := st.Clauses
	if got := strings.Join(c.Lists[ast.ListPrivate], ","); got != "a,b" {
		t.Errorf("private = %q", got)
	}
	if got := strings.Join(c.Lists[ast.ListShared], ","); got != "c" {
		t.Errorf("shared = %q", got)
	}
	if c.NumThreads == nil || exprString(c.NumThreads) != "4" {
		t.Errorf("num_threads = %v", c.NumThreads)
	}

	st = ompDir(t, "parallel do schedule(static, 4) reduction(+: sum)")
	if st.Kind != ast.OmpParallelDo {
		t.Fatalf("kind = %v", st.Kind)
	}
	c = st.Clauses
	if c.Schedule != ast.ScheduleStatic || exprString(c.Chunk) != "4" {
		t.Errorf("schedule = %v chunk %v", c.Schedule, c.Chunk)
	}
	if len(c.Reductions) != 1 || c.Reductions[0].Op != "+" ||
		strings.Join(c.Reductions[0].Vars, ",") != "sum" {
		t.Errorf("reductions = %+v", c.Reductions)
	}

	st = ompDir(t, "do collapse(2) ordered")
	if st.Kind != ast.OmpDo || st.Clauses.Collapse != 2 || !st.Clauses.Ordered {
		t.Errorf("do clauses = %+v", st.Clauses)
	}

	st = ompDir(t, "simd safelen(8) aligned(a, b: 16)")
	if st.Kind != ast.OmpSimd || exprString(st.Clauses.Safelen) != "8" {
		t.Errorf("simd = %+v", st.Clauses)
	}
	if got := strings.Join(st.Clauses.Lists[ast.ListAligned], ","); got != "a,b" {
		t.Errorf("aligned = %q", got)
	}

	st = ompDir(t, "task depend(out: x) if(n > 0) untied")
	if st.Kind != ast.OmpTask || !st.Clauses.Untied {
		t.Errorf("task = %+v", st.Clauses)
	}
	if got := strings.Join(st.Clauses.Lists[ast.ListDepend], ","); got != "x" {
		t.Errorf("depend = %q", got)
	}
	if exprString(st.Clauses.If) != "(n.gt.0)" {
		t.Errorf("if = %q", exprString(st.Clauses.If))
	}

	st = ompDir(t, "target map(tofrom: a, b) device(1)")
	if st.Kind != ast.OmpTarget || exprString(st.Clauses.Device) != "1" {
		t.Errorf("target = %+v", st.Clauses)
	}
	if got := strings.Join(st.Clauses.Lists[ast.ListMap], ","); got != "a,b" {
		t.Errorf("map = %q", got)
	}

	// TASK must not shadow its longer siblings.
	if st := ompDir(t, "taskwait"); st.Kind != ast.OmpTaskwait {
		t.Errorf("taskwait kind = %v", st.Kind)
	}
	if st := ompDir(t, "taskgroup"); st.Kind != ast.OmpTaskgroup {
		t.Errorf("taskgroup kind = %v", st.Kind)
	}
	if st := ompDir(t, "taskyield"); st.Kind != ast.OmpTaskyield {
		t.Errorf("taskyield kind = %v", st.Kind)
	}
}

func TestOmpDistScheduleStaticOnly(t *testing.T) {
	st := ompDir(t, "distribute dist_schedule(static, 4)")
	if st.Kind != ast.OmpDistribute {
		t.Fatalf("kind = %v", st.Kind)
	}
	if st.Clauses.Schedule != ast.ScheduleStatic || exprString(st.Clauses.Chunk) != "4" {
		t.Errorf("dist_schedule = %v chunk %v", st.Clauses.Schedule, st.Clauses.Chunk)
	}

	p := ompParser(t, "distribute dist_schedule(dynamic)")
	if _, m := p.MatchOmpDirective(); m != Err {
		t.Fatalf("dist_schedule(dynamic) = %s, want error", m)
	}
	ds := diags(p)
	if len(ds) == 0 || !strings.Contains(ds[0].Message, "Failed to match clause") {
		t.Errorf("diagnostics = %v", ds)
	}
}

func TestOmpCompositeWinsOverPrefix(t *testing.T) {
	tests := []struct {
		body string
		kind ast.OmpKind
	}{
		{"target teams distribute parallel do simd", ast.OmpTargetTeamsDistributeParallelDoSimd},
		{"teams distribute simd", ast.OmpTeamsDistributeSimd},
		{"parallel workshare", ast.OmpParallelWorkshare},
		{"do simd", ast.OmpDoSimd},
		{"sections", ast.OmpSections},
		{"section", ast.OmpSection},
	}
	for _, tt := range tests {
		if st := ompDir(t, tt.body); st.Kind != tt.kind {
			t.Errorf("%q kind = %v, want %v", tt.body, st.Kind, tt.kind)
		}
	}
}

func TestOmpDisallowedClause(t *testing.T) {
	p := ompParser(t, "do num_threads(2)")
	if _, m := p.MatchOmpDirective(); m != Err {
		t.Fatalf("disallowed clause = %s, want error", m)
	}
	ds := diags(p)
	if len(ds) == 0 || !strings.Contains(ds[0].Message, "Failed to match clause") {
		t.Errorf("diagnostics = %v", ds)
	}
}

func TestOmpUnclassifiable(t *testing.T) {
	p := ompParser(t, "frobnicate")
	if _, m := p.MatchOmpDirective(); m != Err {
		t.Fatalf("unknown directive = %s, want error", m)
	}
	ds := diags(p)
	if len(ds) == 0 || !strings.Contains(ds[0].Message, "Unclassifiable OpenMP directive") {
		t.Errorf("diagnostics = %v", ds)
	}
}

func TestOmpSpecialForms(t *testing.T) {
	st := ompDir(t, "atomic update seq_cst")
	if st.Kind != ast.OmpAtomic || st.Name != "update" || !st.Clauses.SeqCst {
		t.Errorf("atomic = %+v", st)
	}

	st = ompDir(t, "critical (lock_name)")
	if st.Kind != ast.OmpCritical || st.Name != "lock_name" {
		t.Errorf("critical = %+v", st)
	}
	if st := ompDir(t, "critical"); st.Name != "" {
		t.Errorf("bare critical carries name %q", st.Name)
	}

	st = ompDir(t, "cancellation point parallel")
	if st.Kind != ast.OmpCancellationPoint || st.Name != "parallel" {
		t.Errorf("cancellation point = %+v", st)
	}

	st = ompDir(t, "cancel do if(flag)")
	if st.Kind != ast.OmpCancel || st.Name != "do" || st.Clauses.If == nil {
		t.Errorf("cancel = %+v", st)
	}

	st = ompDir(t, "flush(a, b)")
	if st.Kind != ast.OmpFlush {
		t.Fatalf("flush kind = %v", st.Kind)
	}
	if got := strings.Join(st.Clauses.Lists[ast.ListFlush], ","); got != "a,b" {
		t.Errorf("flush list = %q", got)
	}
	if st := ompDir(t, "flush"); st.Kind != ast.OmpFlush {
		t.Errorf("bare flush kind = %v", st.Kind)
	}

	st = ompDir(t, "threadprivate(x, y)")
	if got := strings.Join(st.Clauses.Lists[ast.ListThreadprivate], ","); got != "x,y" {
		t.Errorf("threadprivate = %q", got)
	}

	st = ompDir(t, "declare simd (f) uniform(a) notinbranch")
	if st.Kind != ast.OmpDeclareSimd || st.Name != "f" || !st.Clauses.Notinbranch {
		t.Errorf("declare simd = %+v", st)
	}
	if got := strings.Join(st.Clauses.Lists[ast.ListUniform], ","); got != "a" {
		t.Errorf("uniform = %q", got)
	}

	st = ompDir(t, "declare target(sub1, sub2)")
	if st.Kind != ast.OmpDeclareTarget {
		t.Fatalf("declare target kind = %v", st.Kind)
	}
	if got := strings.Join(st.Clauses.Lists[ast.ListTo], ","); got != "sub1,sub2" {
		t.Errorf("declare target list = %q", got)
	}
}

func TestOmpDeclareReduction(t *testing.T) {
	st := ompDir(t, "declare reduction (foo : integer : x = x + y) initializer(x = 0)")
	if st.Kind != ast.OmpDeclareReduction || st.Name != "foo" {
		t.Errorf("declare reduction = %+v", st)
	}

	st = ompDir(t, "declare reduction (+ : real : omp_out = omp_out + omp_in)")
	if st.Name != "+" {
		t.Errorf("intrinsic op name = %q", st.Name)
	}

	p := ompParser(t, "declare reduction (foo : integer)")
	if _, m := p.MatchOmpDirective(); m != Err {
		t.Errorf("missing combiner = %s, want error", m)
	}
}

func TestOmpEndDirectives(t *testing.T) {
	p := ompParser(t, "end parallel")
	st, m := p.MatchOmpDirective()
	if m != Yes {
		t.Fatalf("end parallel = %s", m)
	}
	if e := st.(*ast.OmpEndNowait); e.Kind != ast.OmpParallel || e.Nowait {
		t.Errorf("end parallel = %+v", e)
	}

	p = ompParser(t, "end do nowait")
	st, m = p.MatchOmpDirective()
	if m != Yes {
		t.Fatalf("end do nowait = %s", m)
	}
	if e := st.(*ast.OmpEndNowait); e.Kind != ast.OmpDo || !e.Nowait {
		t.Errorf("end do = %+v", e)
	}

	p = ompParser(t, "end single copyprivate(x)")
	st, m = p.MatchOmpDirective()
	if m != Yes {
		t.Fatalf("end single = %s", m)
	}
	es := st.(*ast.OmpEndSingle)
	if got := strings.Join(es.Clauses.Lists[ast.ListCopyprivate], ","); got != "x" {
		t.Errorf("copyprivate = %q", got)
	}

	if st := ompDir(t, "end critical (lock_name)"); st.Kind != ast.OmpEndCritical || st.Name != "lock_name" {
		t.Errorf("end critical = %+v", st)
	}

	p = ompParser(t, "end taskgroup")
	st, m = p.MatchOmpDirective()
	if m != Yes {
		t.Fatalf("end taskgroup = %s", m)
	}
	if e := st.(*ast.OmpEndNowait); e.Kind != ast.OmpTaskgroup {
		t.Errorf("end taskgroup = %+v", e)
	}
}

func TestOmpListsReduceSectionsToBase(t *testing.T) {
	st := ompDir(t, "parallel private(a(1:n), b)")
	if got := strings.Join(st.Clauses.Lists[ast.ListPrivate], ","); got != "a,b" {
		t.Errorf("private = %q", got)
	}
}

func TestOmpPerKindEntryPoints(t *testing.T) {
	p := ompParser(t, "parallel num_threads(8)")
	st, m := p.MatchOmpParallel()
	if m != Yes {
		t.Fatalf("MatchOmpParallel = %s", m)
	}
	if st.(*ast.OmpDirective).Kind != ast.OmpParallel {
		t.Errorf("kind = %v", st.(*ast.OmpDirective).Kind)
	}

	q := ompParser(t, "do schedule(dynamic)")
	if _, m := q.MatchOmpParallel(); m != No {
		t.Errorf("MatchOmpParallel on DO = %s, want no", m)
	}
	if _, m := q.MatchOmpDo(); m != Yes {
		t.Errorf("MatchOmpDo after failed attempt = %s, want yes", m)
	}
}
