package fmatch

import (
	"strings"

	"github.com/fortgo/fmatch/ast"
)

// ompClause is a bitmask of the clauses a directive accepts. Each
// directive names its set; the clause matcher is shared.
type ompClause uint64

const (
	clausePrivate ompClause = 1 << iota
	clauseFirstprivate
	clauseLastprivate
	clauseCopyin
	clauseCopyprivate
	clauseShared
	clauseReduction
	clauseIf
	clauseNumThreads
	clauseSchedule
	clauseDefault
	clauseOrdered
	clauseCollapse
	clauseNowait
	clauseFinal
	clauseUntied
	clauseMergeable
	clauseProcBind
	clauseSafelen
	clauseSimdlen
	clauseAligned
	clauseLinear
	clauseUniform
	clauseInbranch
	clauseNotinbranch
	clauseDepend
	clauseMap
	clauseTo
	clauseFrom
	clauseDevice
	clauseThreadLimit
	clauseNumTeams
	clauseDistSchedule
	clauseGrainsize
	clauseNumTasks
	clausePriority
	clauseSeqCst
)

const (
	ompParallelClauses = clausePrivate | clauseFirstprivate | clauseShared |
		clauseCopyin | clauseReduction | clauseIf | clauseNumThreads |
		clauseDefault | clauseProcBind
	ompDoClauses = clausePrivate | clauseFirstprivate | clauseLastprivate |
		clauseReduction | clauseSchedule | clauseOrdered | clauseCollapse
	ompSimdClauses = clausePrivate | clauseLastprivate | clauseReduction |
		clauseSafelen | clauseSimdlen | clauseAligned | clauseLinear | clauseCollapse
	ompSectionsClauses = clausePrivate | clauseFirstprivate | clauseLastprivate |
		clauseReduction
	ompTaskClauses = clausePrivate | clauseFirstprivate | clauseShared |
		clauseIf | clauseDefault | clauseDepend | clauseFinal | clauseUntied |
		clauseMergeable | clausePriority
	ompTargetClauses = clauseIf | clauseDevice | clauseMap | clauseDepend
	ompTeamsClauses  = clausePrivate | clauseFirstprivate | clauseShared |
		clauseReduction | clauseDefault | clauseNumTeams | clauseThreadLimit
	ompDistributeClauses = clausePrivate | clauseFirstprivate | clauseLastprivate |
		clauseCollapse | clauseDistSchedule
	ompTaskloopClauses = ompTaskClauses | clauseCollapse | clauseGrainsize |
		clauseNumTasks
)

// ompDirectives orders the directive spellings longest first, so the
// composite forms win over their prefixes.
var ompDirectives = []struct {
	pattern string
	kind    ast.OmpKind
	mask    ompClause
}{
	{" target% teams% distribute% parallel% do% simd", ast.OmpTargetTeamsDistributeParallelDoSimd,
		ompTargetClauses | ompTeamsClauses | ompDistributeClauses | ompParallelClauses | ompDoClauses | ompSimdClauses},
	{" target% teams% distribute% parallel% do", ast.OmpTargetTeamsDistributeParallelDo,
		ompTargetClauses | ompTeamsClauses | ompDistributeClauses | ompParallelClauses | ompDoClauses},
	{" target% teams% distribute% simd", ast.OmpTargetTeamsDistributeSimd,
		ompTargetClauses | ompTeamsClauses | ompDistributeClauses | ompSimdClauses},
	{" target% teams% distribute", ast.OmpTargetTeamsDistribute,
		ompTargetClauses | ompTeamsClauses | ompDistributeClauses},
	{" target% teams", ast.OmpTargetTeams, ompTargetClauses | ompTeamsClauses},
	{" target% data", ast.OmpTargetData, clauseIf | clauseDevice | clauseMap},
	{" target% update", ast.OmpTargetUpdate, clauseIf | clauseDevice | clauseTo | clauseFrom},
	{" target", ast.OmpTarget, ompTargetClauses},
	{" teams% distribute% parallel% do% simd", ast.OmpTeamsDistributeParallelDoSimd,
		ompTeamsClauses | ompDistributeClauses | ompParallelClauses | ompDoClauses | ompSimdClauses},
	{" teams% distribute% parallel% do", ast.OmpTeamsDistributeParallelDo,
		ompTeamsClauses | ompDistributeClauses | ompParallelClauses | ompDoClauses},
	{" teams% distribute% simd", ast.OmpTeamsDistributeSimd,
		ompTeamsClauses | ompDistributeClauses | ompSimdClauses},
	{" teams% distribute", ast.OmpTeamsDistribute, ompTeamsClauses | ompDistributeClauses},
	{" teams", ast.OmpTeams, ompTeamsClauses},
	{" distribute% parallel% do% simd", ast.OmpDistributeParallelDoSimd,
		ompDistributeClauses | ompParallelClauses | ompDoClauses | ompSimdClauses},
	{" distribute% parallel% do", ast.OmpDistributeParallelDo,
		ompDistributeClauses | ompParallelClauses | ompDoClauses},
	{" distribute% simd", ast.OmpDistributeSimd, ompDistributeClauses | ompSimdClauses},
	{" distribute", ast.OmpDistribute, ompDistributeClauses},
	{" parallel% do% simd", ast.OmpParallelDoSimd, ompParallelClauses | ompDoClauses | ompSimdClauses},
	{" parallel% do", ast.OmpParallelDo, ompParallelClauses | ompDoClauses},
	{" parallel% sections", ast.OmpParallelSections, ompParallelClauses | ompSectionsClauses},
	{" parallel% workshare", ast.OmpParallelWorkshare, ompParallelClauses},
	{" parallel", ast.OmpParallel, ompParallelClauses},
	{" do% simd", ast.OmpDoSimd, ompDoClauses | ompSimdClauses},
	{" do", ast.OmpDo, ompDoClauses},
	{" simd", ast.OmpSimd, ompSimdClauses},
	{" sections", ast.OmpSections, ompSectionsClauses},
	{" section", ast.OmpSection, 0},
	{" single", ast.OmpSingle, clausePrivate | clauseFirstprivate},
	{" workshare", ast.OmpWorkshare, 0},
	{" taskgroup", ast.OmpTaskgroup, 0},
	{" taskwait", ast.OmpTaskwait, 0},
	{" taskyield", ast.OmpTaskyield, 0},
	{" task", ast.OmpTask, ompTaskClauses},
	{" master", ast.OmpMaster, 0},
	{" ordered", ast.OmpOrdered, 0},
	{" barrier", ast.OmpBarrier, 0},
}

// matchOmpVarList matches "( name, name, ... )" into the given list.
func (p *Parser) matchOmpVarList(c *ast.DirClauses, kind ast.ListKind) Match {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return No
	}
	for {
		name, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return No
		}
		// Array sections in list items are consumed and reduced to the
		// base name.
		if p.MatchChar('(') == Yes {
			depth := 1
			for depth > 0 {
				switch p.cur.Advance() {
				case '(':
					depth++
				case ')':
					depth--
				case 0:
					p.cur.Restore(cp)
					return No
				}
			}
		}
		c.Lists[kind] = append(c.Lists[kind], strings.ToLower(name))
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return No
	}
	return Yes
}

// matchOmpModifiedList matches "( [modifier :] names )" for DEPEND and
// MAP; the modifier itself is dropped after validation.
func (p *Parser) matchOmpModifiedList(c *ast.DirClauses, kind ast.ListKind, modifiers ...string) Match {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return No
	}
	mcp := p.cur.Save()
	var mod string
	if p.match(" %n :", &mod) == Yes {
		valid := false
		for _, want := range modifiers {
			if strings.ToLower(mod) == want {
				valid = true
				break
			}
		}
		// A name followed by ':' that is not a known modifier is a
		// list item of an array section; back off and let the list
		// matcher have it.
		if !valid {
			p.cur.Restore(mcp)
		}
	} else {
		p.cur.Restore(mcp)
	}
	for {
		name, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return No
		}
		if p.MatchChar('(') == Yes {
			depth := 1
			for depth > 0 {
				switch p.cur.Advance() {
				case '(':
					depth++
				case ')':
					depth--
				case 0:
					p.cur.Restore(cp)
					return No
				}
			}
		}
		c.Lists[kind] = append(c.Lists[kind], strings.ToLower(name))
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return No
	}
	return Yes
}

// matchReductionClause matches "reduction( op : names )".
func (p *Parser) matchReductionClause(c *ast.DirClauses) Match {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return No
	}
	var op string
	if o, m := p.matchIntrinsicOp(); m == Yes {
		op = o.String()
	} else {
		name, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return No
		}
		op = strings.ToLower(name)
	}
	if p.MatchChar(':') != Yes {
		p.cur.Restore(cp)
		return No
	}
	red := ast.Reduction{Op: op}
	for {
		name, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return No
		}
		red.Vars = append(red.Vars, strings.ToLower(name))
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return No
	}
	c.Reductions = append(c.Reductions, red)
	return Yes
}

func (p *Parser) matchClauseExpr(dst *ast.Expression) Match {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return No
	}
	e, m := p.MatchExpr()
	if m == Err {
		return Err
	}
	if m == No || p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return No
	}
	*dst = e
	return Yes
}

func (p *Parser) matchClauseInt(dst *int) Match {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return No
	}
	v, m := p.MatchSmallInt()
	if m == Err {
		return Err
	}
	if m == No || p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return No
	}
	*dst = v
	return Yes
}

// matchOmpClauses matches the clause tail of a directive against the
// given mask. Unknown or disallowed clauses are errors; the whole
// directive line must be consumed.
func (p *Parser) matchOmpClauses(mask ompClause) (*ast.DirClauses, Match) {
	c := &ast.DirClauses{}
	for {
		p.MatchChar(',')
		if p.MatchEOS() == Yes {
			return c, Yes
		}
		at := p.cur.Where()
		var kw string
		if p.match(" %n", &kw) != Yes {
			p.errorAt(at, "Failed to match clause at %s", at.String())
			p.cur.SkipToEOS()
			return nil, Err
		}
		m := No
		switch strings.ToLower(kw) {
		case "private":
			if mask&clausePrivate != 0 {
				m = p.matchOmpVarList(c, ast.ListPrivate)
			}
		case "firstprivate":
			if mask&clauseFirstprivate != 0 {
				m = p.matchOmpVarList(c, ast.ListFirstprivate)
			}
		case "lastprivate":
			if mask&clauseLastprivate != 0 {
				m = p.matchOmpVarList(c, ast.ListLastprivate)
			}
		case "shared":
			if mask&clauseShared != 0 {
				m = p.matchOmpVarList(c, ast.ListShared)
			}
		case "copyin":
			if mask&clauseCopyin != 0 {
				m = p.matchOmpVarList(c, ast.ListCopyin)
			}
		case "copyprivate":
			if mask&clauseCopyprivate != 0 {
				m = p.matchOmpVarList(c, ast.ListCopyprivate)
			}
		case "uniform":
			if mask&clauseUniform != 0 {
				m = p.matchOmpVarList(c, ast.ListUniform)
			}
		case "aligned":
			if mask&clauseAligned != 0 {
				m = p.matchAlignedClause(c, ast.ListAligned)
			}
		case "linear":
			if mask&clauseLinear != 0 {
				m = p.matchAlignedClause(c, ast.ListLinear)
			}
		case "depend":
			if mask&clauseDepend != 0 {
				m = p.matchOmpModifiedList(c, ast.ListDepend, "in", "out", "inout")
			}
		case "map":
			if mask&clauseMap != 0 {
				m = p.matchOmpModifiedList(c, ast.ListMap, "alloc", "to", "from", "tofrom", "release", "delete")
			}
		case "to":
			if mask&clauseTo != 0 {
				m = p.matchOmpVarList(c, ast.ListTo)
			}
		case "from":
			if mask&clauseFrom != 0 {
				m = p.matchOmpVarList(c, ast.ListFrom)
			}
		case "reduction":
			if mask&clauseReduction != 0 {
				m = p.matchReductionClause(c)
			}
		case "if":
			if mask&clauseIf != 0 {
				m = p.matchClauseExpr(&c.If)
			}
		case "final":
			if mask&clauseFinal != 0 {
				m = p.matchClauseExpr(&c.Final)
			}
		case "num_threads":
			if mask&clauseNumThreads != 0 {
				m = p.matchClauseExpr(&c.NumThreads)
			}
		case "num_teams":
			if mask&clauseNumTeams != 0 {
				m = p.matchClauseExpr(&c.NumTeams)
			}
		case "thread_limit":
			if mask&clauseThreadLimit != 0 {
				m = p.matchClauseExpr(&c.ThreadLimit)
			}
		case "device":
			if mask&clauseDevice != 0 {
				m = p.matchClauseExpr(&c.Device)
			}
		case "priority":
			if mask&clausePriority != 0 {
				m = p.matchClauseExpr(&c.Priority)
			}
		case "grainsize":
			if mask&clauseGrainsize != 0 {
				m = p.matchClauseExpr(&c.Grainsize)
			}
		case "num_tasks":
			if mask&clauseNumTasks != 0 {
				m = p.matchClauseExpr(&c.NumTasks)
			}
		case "safelen":
			if mask&clauseSafelen != 0 {
				m = p.matchClauseExpr(&c.Safelen)
			}
		case "simdlen":
			if mask&clauseSimdlen != 0 {
				m = p.matchClauseExpr(&c.Simdlen)
			}
		case "collapse":
			if mask&clauseCollapse != 0 {
				m = p.matchClauseInt(&c.Collapse)
			}
		case "ordered":
			if mask&clauseOrdered != 0 {
				c.Ordered = true
				m = Yes
				if p.peekSig() == '(' {
					m = p.matchClauseInt(&c.OrderedN)
				}
			}
		case "nowait":
			if mask&clauseNowait != 0 {
				c.Nowait = true
				m = Yes
			}
		case "untied":
			if mask&clauseUntied != 0 {
				c.Untied = true
				m = Yes
			}
		case "mergeable":
			if mask&clauseMergeable != 0 {
				c.Mergeable = true
				m = Yes
			}
		case "inbranch":
			if mask&clauseInbranch != 0 {
				c.Inbranch = true
				m = Yes
			}
		case "notinbranch":
			if mask&clauseNotinbranch != 0 {
				c.Notinbranch = true
				m = Yes
			}
		case "seq_cst":
			if mask&clauseSeqCst != 0 {
				c.SeqCst = true
				m = Yes
			}
		case "default":
			if mask&clauseDefault != 0 {
				m = p.matchDefaultClause(c)
			}
		case "proc_bind":
			if mask&clauseProcBind != 0 {
				m = p.matchProcBindClause(c)
			}
		case "schedule":
			if mask&clauseSchedule != 0 {
				m = p.matchScheduleClause(c)
			}
		case "dist_schedule":
			if mask&clauseDistSchedule != 0 {
				m = p.matchDistScheduleClause(c)
			}
		}
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.errorAt(at, "Failed to match clause at %s", at.String())
			p.cur.SkipToEOS()
			return nil, Err
		}
	}
}

// matchAlignedClause matches "( names [: expr] )"; the alignment or
// step expression is validated and dropped.
func (p *Parser) matchAlignedClause(c *ast.DirClauses, kind ast.ListKind) Match {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return No
	}
	for {
		name, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return No
		}
		c.Lists[kind] = append(c.Lists[kind], strings.ToLower(name))
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchChar(':') == Yes {
		if _, m := p.MatchExpr(); m != Yes {
			p.cur.Restore(cp)
			return No
		}
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return No
	}
	return Yes
}

func (p *Parser) matchDefaultClause(c *ast.DirClauses) Match {
	switch {
	case p.match(" ( none )") == Yes:
		c.Default = ast.DefaultNone
	case p.match(" ( shared )") == Yes:
		c.Default = ast.DefaultShared
	case p.match(" ( private )") == Yes:
		c.Default = ast.DefaultPrivate
	case p.match(" ( firstprivate )") == Yes:
		c.Default = ast.DefaultFirstprivate
	default:
		return No
	}
	return Yes
}

func (p *Parser) matchProcBindClause(c *ast.DirClauses) Match {
	switch {
	case p.match(" ( master )") == Yes:
		c.ProcBind = ast.ProcBindMaster
	case p.match(" ( close )") == Yes:
		c.ProcBind = ast.ProcBindClose
	case p.match(" ( spread )") == Yes:
		c.ProcBind = ast.ProcBindSpread
	default:
		return No
	}
	return Yes
}

func (p *Parser) matchScheduleClause(c *ast.DirClauses) Match {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return No
	}
	switch {
	case p.match(" static") == Yes:
		c.Schedule = ast.ScheduleStatic
	case p.match(" dynamic") == Yes:
		c.Schedule = ast.ScheduleDynamic
	case p.match(" guided") == Yes:
		c.Schedule = ast.ScheduleGuided
	case p.match(" runtime") == Yes:
		c.Schedule = ast.ScheduleRuntime
	case p.match(" auto") == Yes:
		c.Schedule = ast.ScheduleAuto
	default:
		p.cur.Restore(cp)
		return No
	}
	if p.MatchChar(',') == Yes {
		e, m := p.MatchExpr()
		if m != Yes {
			p.cur.Restore(cp)
			return No
		}
		c.Chunk = e
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return No
	}
	return Yes
}

// matchDistScheduleClause matches "( static [, chunk] )"; STATIC is
// the only kind DIST_SCHEDULE admits.
func (p *Parser) matchDistScheduleClause(c *ast.DirClauses) Match {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return No
	}
	if p.match(" static") != Yes {
		p.cur.Restore(cp)
		return No
	}
	c.Schedule = ast.ScheduleStatic
	if p.MatchChar(',') == Yes {
		e, m := p.MatchExpr()
		if m != Yes {
			p.cur.Restore(cp)
			return No
		}
		c.Chunk = e
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return No
	}
	return Yes
}

// MatchOmpEOS verifies that nothing follows on the directive line.
func (p *Parser) MatchOmpEOS() Match {
	return p.MatchEOS()
}

func (p *Parser) ompDirective(kind ast.OmpKind, at ast.Loc, c *ast.DirClauses, name string) ast.Statement {
	st := &ast.OmpDirective{Kind: kind, Name: name, Clauses: c}
	st.Loc = at
	return st
}

// MatchOmpDirective matches the body of a !$OMP line, sentinel already
// stripped. Directive keywords are tried longest first.
func (p *Parser) MatchOmpDirective() (ast.Statement, Match) {
	at := p.cur.Where()
	p.stName = "!$OMP"
	// The special forms come before the table-driven ones.
	if st, m := p.matchOmpSpecial(at); m != No {
		return st, m
	}
	if st, m := p.matchOmpEnd(at); m != No {
		return st, m
	}
	for _, d := range ompDirectives {
		cp := p.cur.Save()
		if p.match(d.pattern) != Yes {
			continue
		}
		c, m := p.matchOmpClauses(d.mask)
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			continue
		}
		return p.ompDirective(d.kind, at, c, ""), Yes
	}
	p.error("Unclassifiable OpenMP directive at %s", at.String())
	p.cur.SkipToEOS()
	return nil, Err
}

// matchOmpSpecial handles the directives that do not fit the
// keyword-plus-clauses scheme.
func (p *Parser) matchOmpSpecial(at ast.Loc) (ast.Statement, Match) {
	switch {
	case p.match(" atomic") == Yes:
		name := ""
		switch {
		case p.match(" update") == Yes:
			name = "update"
		case p.match(" read") == Yes:
			name = "read"
		case p.match(" write") == Yes:
			name = "write"
		case p.match(" capture") == Yes:
			name = "capture"
		}
		c, m := p.matchOmpClauses(clauseSeqCst)
		if m != Yes {
			return nil, Err
		}
		return p.ompDirective(ast.OmpAtomic, at, c, name), Yes

	case p.match(" critical") == Yes:
		name := ""
		var n string
		if p.match(" ( %n )", &n) == Yes {
			name = strings.ToLower(n)
		}
		if p.MatchOmpEOS() != Yes {
			p.syntaxError()
			return nil, Err
		}
		return p.ompDirective(ast.OmpCritical, at, nil, name), Yes

	case p.match(" cancellation% point") == Yes:
		var n string
		if p.match(" %n%t", &n) != Yes {
			p.syntaxError()
			return nil, Err
		}
		return p.ompDirective(ast.OmpCancellationPoint, at, nil, strings.ToLower(n)), Yes

	case p.match(" cancel") == Yes:
		var n string
		if p.match(" %n", &n) != Yes {
			p.syntaxError()
			return nil, Err
		}
		c, m := p.matchOmpClauses(clauseIf)
		if m != Yes {
			return nil, Err
		}
		return p.ompDirective(ast.OmpCancel, at, c, strings.ToLower(n)), Yes

	case p.match(" flush") == Yes:
		c := &ast.DirClauses{}
		if p.peekSig() == '(' {
			if p.matchOmpVarList(c, ast.ListFlush) != Yes {
				p.syntaxError()
				return nil, Err
			}
		}
		if p.MatchOmpEOS() != Yes {
			p.syntaxError()
			return nil, Err
		}
		return p.ompDirective(ast.OmpFlush, at, c, ""), Yes

	case p.match(" threadprivate") == Yes:
		c := &ast.DirClauses{}
		if p.matchOmpVarList(c, ast.ListThreadprivate) != Yes || p.MatchOmpEOS() != Yes {
			p.syntaxError()
			return nil, Err
		}
		return p.ompDirective(ast.OmpThreadprivate, at, c, ""), Yes

	case p.match(" declare% reduction") == Yes:
		return p.matchOmpDeclareReduction(at)

	case p.match(" declare% simd") == Yes:
		var n string
		name := ""
		if p.match(" ( %n )", &n) == Yes {
			name = strings.ToLower(n)
		}
		c, m := p.matchOmpClauses(clauseSimdlen | clauseLinear | clauseAligned |
			clauseUniform | clauseInbranch | clauseNotinbranch)
		if m != Yes {
			return nil, Err
		}
		return p.ompDirective(ast.OmpDeclareSimd, at, c, name), Yes

	case p.match(" declare% target") == Yes:
		c := &ast.DirClauses{}
		if p.peekSig() == '(' {
			if p.matchOmpVarList(c, ast.ListTo) != Yes {
				p.syntaxError()
				return nil, Err
			}
		}
		if p.MatchOmpEOS() != Yes {
			p.syntaxError()
			return nil, Err
		}
		return p.ompDirective(ast.OmpDeclareTarget, at, c, ""), Yes
	}
	return nil, No
}

// matchOmpDeclareReduction matches
// "declare reduction (op : types : combiner) [initializer(...)]".
func (p *Parser) matchOmpDeclareReduction(at ast.Loc) (ast.Statement, Match) {
	if p.MatchChar('(') != Yes {
		p.syntaxError()
		return nil, Err
	}
	var op string
	if o, m := p.matchIntrinsicOp(); m == Yes {
		op = o.String()
	} else if name, m := p.matchName(); m == Yes {
		op = strings.ToLower(name)
	} else {
		p.syntaxError()
		return nil, Err
	}
	if p.MatchChar(':') != Yes {
		p.syntaxError()
		return nil, Err
	}
	for {
		if ts, m := p.MatchTypeSpec(); m == Err {
			return nil, Err
		} else if m == No {
			_ = ts
			p.syntaxError()
			return nil, Err
		}
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchChar(':') != Yes {
		p.syntaxError()
		return nil, Err
	}
	// The combiner is an assignment or a call.
	if st, m := p.matchActionStmtInParens(); m != Yes {
		_ = st
		p.syntaxError()
		return nil, Err
	}
	if p.MatchChar(')') != Yes {
		p.syntaxError()
		return nil, Err
	}
	if p.match(" initializer (") == Yes {
		if st, m := p.matchActionStmtInParens(); m != Yes {
			_ = st
			p.syntaxError()
			return nil, Err
		}
		if p.MatchChar(')') != Yes {
			p.syntaxError()
			return nil, Err
		}
	}
	if p.MatchOmpEOS() != Yes {
		p.syntaxError()
		return nil, Err
	}
	return p.ompDirective(ast.OmpDeclareReduction, at, nil, op), Yes
}

// matchActionStmtInParens matches "lhs = expr" or "call name(...)"
// without requiring end-of-statement, as used in combiner positions.
func (p *Parser) matchActionStmtInParens() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var name string
	if p.match(" call% %n", &name) == Yes {
		st := &ast.CallStmt{Name: strings.ToLower(name)}
		st.Loc = at
		if args, m := p.MatchActualArglist(false); m == Err {
			return nil, Err
		} else if m == Yes {
			st.Args = args
		}
		return st, Yes
	}
	p.cur.Restore(cp)
	lhs, m := p.MatchVariable()
	if m != Yes {
		return nil, m
	}
	if p.MatchChar('=') != Yes || p.peekCh() == '=' || p.peekCh() == '>' {
		p.cur.Restore(cp)
		return nil, No
	}
	rhs, m := p.MatchExpr()
	if m != Yes {
		p.cur.Restore(cp)
		return nil, m
	}
	st := &ast.Assignment{LHS: lhs, RHS: rhs}
	st.Loc = at
	return st, Yes
}

// ompEndNowait lists the END directives that accept NOWAIT.
var ompEndNowait = []struct {
	pattern string
	kind    ast.OmpKind
}{
	{" do% simd", ast.OmpDoSimd},
	{" do", ast.OmpDo},
	{" sections", ast.OmpSections},
	{" workshare", ast.OmpWorkshare},
	{" target% data", ast.OmpTargetData},
	{" target", ast.OmpTarget},
}

// ompEndPlain lists the END directives that take nothing at all.
var ompEndPlain = []struct {
	pattern string
	kind    ast.OmpKind
}{
	{" parallel% do% simd", ast.OmpParallelDoSimd},
	{" parallel% do", ast.OmpParallelDo},
	{" parallel% sections", ast.OmpParallelSections},
	{" parallel% workshare", ast.OmpParallelWorkshare},
	{" parallel", ast.OmpParallel},
	{" teams% distribute% parallel% do% simd", ast.OmpTeamsDistributeParallelDoSimd},
	{" teams% distribute% parallel% do", ast.OmpTeamsDistributeParallelDo},
	{" teams% distribute% simd", ast.OmpTeamsDistributeSimd},
	{" teams% distribute", ast.OmpTeamsDistribute},
	{" teams", ast.OmpTeams},
	{" target% teams% distribute% parallel% do% simd", ast.OmpTargetTeamsDistributeParallelDoSimd},
	{" target% teams% distribute% parallel% do", ast.OmpTargetTeamsDistributeParallelDo},
	{" target% teams% distribute% simd", ast.OmpTargetTeamsDistributeSimd},
	{" target% teams% distribute", ast.OmpTargetTeamsDistribute},
	{" target% teams", ast.OmpTargetTeams},
	{" distribute% parallel% do% simd", ast.OmpDistributeParallelDoSimd},
	{" distribute% parallel% do", ast.OmpDistributeParallelDo},
	{" distribute% simd", ast.OmpDistributeSimd},
	{" distribute", ast.OmpDistribute},
	{" simd", ast.OmpSimd},
	{" master", ast.OmpMaster},
	{" ordered", ast.OmpOrdered},
	{" taskgroup", ast.OmpTaskgroup},
	{" task", ast.OmpTask},
	{" atomic", ast.OmpAtomic},
}

// matchOmpEnd matches the !$OMP END family.
func (p *Parser) matchOmpEnd(at ast.Loc) (ast.Statement, Match) {
	cp := p.cur.Save()
	if p.match(" end") != Yes {
		return nil, No
	}
	if p.match(" single") == Yes {
		c, m := p.matchOmpClauses(clauseCopyprivate | clauseNowait)
		if m != Yes {
			return nil, Err
		}
		st := &ast.OmpEndSingle{Clauses: c}
		st.Loc = at
		return st, Yes
	}
	if p.match(" critical") == Yes {
		name := ""
		var n string
		if p.match(" ( %n )", &n) == Yes {
			name = strings.ToLower(n)
		}
		if p.MatchOmpEOS() != Yes {
			p.syntaxError()
			return nil, Err
		}
		return p.ompDirective(ast.OmpEndCritical, at, nil, name), Yes
	}
	for _, d := range ompEndNowait {
		if p.match(d.pattern) != Yes {
			continue
		}
		st := &ast.OmpEndNowait{Kind: d.kind}
		st.Loc = at
		if p.match(" nowait") == Yes {
			st.Nowait = true
		}
		if p.MatchOmpEOS() != Yes {
			p.syntaxError()
			return nil, Err
		}
		return st, Yes
	}
	for _, d := range ompEndPlain {
		if p.match(d.pattern) != Yes {
			continue
		}
		if p.MatchOmpEOS() != Yes {
			p.syntaxError()
			return nil, Err
		}
		st := &ast.OmpEndNowait{Kind: d.kind}
		st.Loc = at
		return st, Yes
	}
	p.cur.Restore(cp)
	return nil, No
}

// Per-directive entry points, for callers that know what they expect.

func (p *Parser) matchOmpKind(kind ast.OmpKind) (ast.Statement, Match) {
	for _, d := range ompDirectives {
		if d.kind != kind {
			continue
		}
		cp := p.cur.Save()
		if p.match(d.pattern) != Yes {
			return nil, No
		}
		at := p.cur.Where()
		c, m := p.matchOmpClauses(d.mask)
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		return p.ompDirective(d.kind, at, c, ""), Yes
	}
	return nil, No
}

func (p *Parser) MatchOmpParallel() (ast.Statement, Match) { return p.matchOmpKind(ast.OmpParallel) }
func (p *Parser) MatchOmpParallelDo() (ast.Statement, Match) {
	return p.matchOmpKind(ast.OmpParallelDo)
}
func (p *Parser) MatchOmpDo() (ast.Statement, Match)   { return p.matchOmpKind(ast.OmpDo) }
func (p *Parser) MatchOmpSimd() (ast.Statement, Match) { return p.matchOmpKind(ast.OmpSimd) }
func (p *Parser) MatchOmpTask() (ast.Statement, Match) { return p.matchOmpKind(ast.OmpTask) }
func (p *Parser) MatchOmpTarget() (ast.Statement, Match) {
	return p.matchOmpKind(ast.OmpTarget)
}
func (p *Parser) MatchOmpTeams() (ast.Statement, Match) { return p.matchOmpKind(ast.OmpTeams) }
func (p *Parser) MatchOmpSections() (ast.Statement, Match) {
	return p.matchOmpKind(ast.OmpSections)
}
func (p *Parser) MatchOmpSingle() (ast.Statement, Match) { return p.matchOmpKind(ast.OmpSingle) }
