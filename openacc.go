package fmatch

import (
	"strings"

	"github.com/fortgo/fmatch/ast"
)

// accClause is the OpenACC analogue of ompClause.
type accClause uint64

const (
	accIf accClause = 1 << iota
	accAsync
	accWait
	accNumGangs
	accNumWorkers
	accVectorLength
	accReduction
	accCopy
	accCopyin
	accCopyout
	accCreate
	accDelete
	accPresent
	accDeviceptr
	accPrivate
	accFirstprivate
	accDeviceResident
	accUseDevice
	accHost
	accDeviceList
	accSelfList
	accGang
	accWorker
	accVector
	accSeq
	accIndependent
	accAuto
	accCollapse
	accTile
	accDefault
)

const (
	accComputeClauses = accIf | accAsync | accWait | accNumGangs |
		accNumWorkers | accVectorLength | accReduction | accCopy |
		accCopyin | accCopyout | accCreate | accPresent | accDeviceptr |
		accPrivate | accFirstprivate | accDefault
	accLoopClauses = accCollapse | accGang | accWorker | accVector |
		accSeq | accIndependent | accAuto | accTile | accPrivate |
		accReduction
	accDataClauses = accIf | accCopy | accCopyin | accCopyout |
		accCreate | accPresent | accDeviceptr
)

var accDirectives = []struct {
	pattern string
	kind    ast.AccKind
	mask    accClause
}{
	{" parallel% loop", ast.AccParallelLoop, accComputeClauses | accLoopClauses},
	{" parallel", ast.AccParallel, accComputeClauses},
	{" kernels% loop", ast.AccKernelsLoop, accComputeClauses | accLoopClauses},
	{" kernels", ast.AccKernels, accComputeClauses},
	{" data", ast.AccData, accDataClauses},
	{" enter% data", ast.AccEnterData, accIf | accAsync | accWait | accCopyin | accCreate},
	{" exit% data", ast.AccExitData, accIf | accAsync | accWait | accCopyout | accDelete},
	{" host_data", ast.AccHostData, accUseDevice},
	{" loop", ast.AccLoop, accLoopClauses},
	{" declare", ast.AccDeclare, accDataClauses | accDeviceResident},
	{" update", ast.AccUpdate, accIf | accAsync | accWait | accHost | accDeviceList | accSelfList},
}

// matchAccClauses matches the clause tail of an OpenACC directive.
func (p *Parser) matchAccClauses(mask accClause) (*ast.DirClauses, Match) {
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
		case "if":
			if mask&accIf != 0 {
				m = p.matchClauseExpr(&c.If)
			}
		case "async":
			if mask&accAsync != 0 {
				c.AsyncSet = true
				m = Yes
				if p.peekSig() == '(' {
					m = p.matchClauseExpr(&c.Async)
				}
			}
		case "wait":
			if mask&accWait != 0 {
				m = p.matchAccWaitArgs(c)
			}
		case "num_gangs":
			if mask&accNumGangs != 0 {
				m = p.matchClauseExpr(&c.NumGangs)
			}
		case "num_workers":
			if mask&accNumWorkers != 0 {
				m = p.matchClauseExpr(&c.NumWorkers)
			}
		case "vector_length":
			if mask&accVectorLength != 0 {
				m = p.matchClauseExpr(&c.VectorLength)
			}
		case "reduction":
			if mask&accReduction != 0 {
				m = p.matchReductionClause(c)
			}
		case "copy":
			if mask&accCopy != 0 {
				m = p.matchOmpVarList(c, ast.ListCopy)
			}
		case "copyin":
			if mask&accCopyin != 0 {
				m = p.matchOmpVarList(c, ast.ListCopyin)
			}
		case "copyout":
			if mask&accCopyout != 0 {
				m = p.matchOmpVarList(c, ast.ListCopyout)
			}
		case "create":
			if mask&accCreate != 0 {
				m = p.matchOmpVarList(c, ast.ListCreate)
			}
		case "delete":
			if mask&accDelete != 0 {
				m = p.matchOmpVarList(c, ast.ListDelete)
			}
		case "present":
			if mask&accPresent != 0 {
				m = p.matchOmpVarList(c, ast.ListPresent)
			}
		case "deviceptr":
			if mask&accDeviceptr != 0 {
				m = p.matchOmpVarList(c, ast.ListDeviceptr)
			}
		case "private":
			if mask&accPrivate != 0 {
				m = p.matchOmpVarList(c, ast.ListPrivate)
			}
		case "firstprivate":
			if mask&accFirstprivate != 0 {
				m = p.matchOmpVarList(c, ast.ListFirstprivate)
			}
		case "device_resident":
			if mask&accDeviceResident != 0 {
				m = p.matchOmpVarList(c, ast.ListDeviceResident)
			}
		case "use_device":
			if mask&accUseDevice != 0 {
				m = p.matchOmpVarList(c, ast.ListUseDevice)
			}
		case "host":
			if mask&accHost != 0 {
				m = p.matchOmpVarList(c, ast.ListHost)
			}
		case "device":
			if mask&accDeviceList != 0 {
				m = p.matchOmpVarList(c, ast.ListTo)
			}
		case "self":
			if mask&accSelfList != 0 {
				m = p.matchOmpVarList(c, ast.ListSelf)
			}
		case "gang":
			if mask&accGang != 0 {
				c.Gang = true
				m = Yes
				if p.peekSig() == '(' {
					m = p.matchAccSizedClause(&c.GangNum, "num", "static")
				}
			}
		case "worker":
			if mask&accWorker != 0 {
				c.Worker = true
				m = Yes
				if p.peekSig() == '(' {
					m = p.matchAccSizedClause(&c.WorkerNum, "num")
				}
			}
		case "vector":
			if mask&accVector != 0 {
				c.Vector = true
				m = Yes
				if p.peekSig() == '(' {
					m = p.matchAccSizedClause(&c.VectorNum, "length")
				}
			}
		case "seq":
			if mask&accSeq != 0 {
				c.Seq = true
				m = Yes
			}
		case "independent":
			if mask&accIndependent != 0 {
				c.Independent = true
				m = Yes
			}
		case "auto":
			if mask&accAuto != 0 {
				c.AutoLoop = true
				m = Yes
			}
		case "collapse":
			if mask&accCollapse != 0 {
				m = p.matchClauseInt(&c.Collapse)
			}
		case "tile":
			if mask&accTile != 0 {
				m = p.matchAccTile(c)
			}
		case "default":
			if mask&accDefault != 0 {
				switch {
				case p.match(" ( none )") == Yes:
					c.Default = ast.DefaultNone
					m = Yes
				case p.match(" ( present )") == Yes:
					c.Default = ast.DefaultPresent
					m = Yes
				}
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

// matchAccSizedClause matches "( [keyword:] expr )" for GANG, WORKER
// and VECTOR size arguments.
func (p *Parser) matchAccSizedClause(dst *ast.Expression, keywords ...string) Match {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return No
	}
	kcp := p.cur.Save()
	var kw string
	if p.match(" %n :", &kw) == Yes {
		ok := false
		for _, want := range keywords {
			if strings.ToLower(kw) == want {
				ok = true
				break
			}
		}
		if !ok {
			p.cur.Restore(kcp)
		}
	} else {
		p.cur.Restore(kcp)
	}
	e, m := p.MatchExpr()
	if m != Yes || p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return No
	}
	*dst = e
	return Yes
}

// matchAccTile matches "tile( expr-or-*, ... )".
func (p *Parser) matchAccTile(c *ast.DirClauses) Match {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return No
	}
	for {
		if p.MatchChar('*') == Yes {
			c.Tile = append(c.Tile, nil)
		} else {
			e, m := p.MatchExpr()
			if m != Yes {
				p.cur.Restore(cp)
				return No
			}
			c.Tile = append(c.Tile, e)
		}
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

// matchAccWaitArgs matches WAIT and its optional queue expressions.
func (p *Parser) matchAccWaitArgs(c *ast.DirClauses) Match {
	if p.peekSig() != '(' {
		return Yes
	}
	cp := p.cur.Save()
	p.MatchChar('(')
	for {
		e, m := p.MatchExpr()
		if m != Yes {
			p.cur.Restore(cp)
			return No
		}
		c.WaitArgs = append(c.WaitArgs, e)
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

func (p *Parser) accDirective(kind ast.AccKind, at ast.Loc, c *ast.DirClauses, name string) ast.Statement {
	st := &ast.AccDirective{Kind: kind, Name: name, Clauses: c}
	st.Loc = at
	return st
}

// accEnds pairs END spellings with the construct they terminate.
var accEnds = []struct {
	pattern string
	name    string
}{
	{" parallel% loop", "parallel loop"},
	{" parallel", "parallel"},
	{" kernels% loop", "kernels loop"},
	{" kernels", "kernels"},
	{" data", "data"},
	{" host_data", "host_data"},
	{" atomic", "atomic"},
}

// MatchAccDirective matches the body of a !$ACC line, sentinel already
// stripped.
func (p *Parser) MatchAccDirective() (ast.Statement, Match) {
	at := p.cur.Where()
	p.stName = "!$ACC"
	if p.match(" end") == Yes {
		for _, e := range accEnds {
			if p.match(e.pattern) != Yes {
				continue
			}
			if p.MatchEOS() != Yes {
				p.syntaxError()
				return nil, Err
			}
			return p.accDirective(ast.AccEndDirective, at, nil, e.name), Yes
		}
		p.error("Unclassifiable OpenACC directive at %s", at.String())
		p.cur.SkipToEOS()
		return nil, Err
	}
	if st, m := p.matchAccSpecial(at); m != No {
		return st, m
	}
	for _, d := range accDirectives {
		cp := p.cur.Save()
		if p.match(d.pattern) != Yes {
			continue
		}
		c, m := p.matchAccClauses(d.mask)
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			continue
		}
		return p.accDirective(d.kind, at, c, ""), Yes
	}
	p.error("Unclassifiable OpenACC directive at %s", at.String())
	p.cur.SkipToEOS()
	return nil, Err
}

func (p *Parser) matchAccSpecial(at ast.Loc) (ast.Statement, Match) {
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
		if p.MatchEOS() != Yes {
			p.syntaxError()
			return nil, Err
		}
		return p.accDirective(ast.AccAtomic, at, nil, name), Yes

	case p.match(" cache (") == Yes:
		c := &ast.DirClauses{}
		for {
			name, m := p.matchName()
			if m != Yes {
				p.syntaxError()
				return nil, Err
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
						p.syntaxError()
						return nil, Err
					}
				}
			}
			c.Lists[ast.ListCache] = append(c.Lists[ast.ListCache], strings.ToLower(name))
			if p.MatchChar(',') == Yes {
				continue
			}
			break
		}
		if p.MatchChar(')') != Yes || p.MatchEOS() != Yes {
			p.syntaxError()
			return nil, Err
		}
		return p.accDirective(ast.AccCache, at, c, ""), Yes

	case p.match(" routine") == Yes:
		name := ""
		var n string
		if p.match(" ( %n )", &n) == Yes {
			name = strings.ToLower(n)
		}
		c, m := p.matchAccClauses(accGang | accWorker | accVector | accSeq)
		if m != Yes {
			return nil, Err
		}
		return p.accDirective(ast.AccRoutine, at, c, name), Yes

	case p.match(" wait") == Yes:
		c := &ast.DirClauses{}
		if p.matchAccWaitArgs(c) != Yes {
			p.syntaxError()
			return nil, Err
		}
		cc, m := p.matchAccClauses(accAsync)
		if m != Yes {
			return nil, Err
		}
		cc.WaitArgs = c.WaitArgs
		return p.accDirective(ast.AccWait, at, cc, ""), Yes
	}
	return nil, No
}
