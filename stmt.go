package fmatch

import (
	"strings"

	"github.com/fortgo/fmatch/ast"
	"github.com/fortgo/fmatch/symbol"
)

// MatchAssignment matches "lhs = rhs". A '=' that is part of '==' or
// '=>' does not count.
func (p *Parser) MatchAssignment() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	lhs, m := p.MatchVariable()
	if m != Yes {
		p.cur.Restore(cp)
		return nil, m
	}
	if p.MatchChar('=') != Yes || p.peekCh() == '=' || p.peekCh() == '>' {
		p.cur.Restore(cp)
		return nil, No
	}
	rhs, m := p.MatchExpr()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.Assignment{LHS: lhs, RHS: rhs}
	st.Loc = at
	return st, Yes
}

// MatchPointerAssignment matches "lhs => rhs". The matching flag makes
// designator matching tolerate bounds-spec lists on the left side.
func (p *Parser) MatchPointerAssignment() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	p.matchingPtrAssignment = true
	defer func() { p.matchingPtrAssignment = false }()
	lhs, m := p.MatchVariable()
	if m != Yes {
		p.cur.Restore(cp)
		return nil, m
	}
	if p.match(" =>") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	rhs, m := p.MatchExpr()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.PointerAssignment{LHS: lhs, RHS: rhs}
	st.Loc = at
	return st, Yes
}

// MatchPtrFcnAssign matches "f(args) = expr" where f is known to be a
// procedure, assigning through a pointer-valued function result.
func (p *Parser) MatchPtrFcnAssign() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	p.matchingProcPtrAssignment = true
	defer func() { p.matchingProcPtrAssignment = false }()
	var name string
	if p.match(" %n (", &name) != Yes {
		return nil, No
	}
	sym, ok := p.symtab.Find(name)
	if !ok || sym.Flavor() != symbol.FlavorProcedure {
		p.cur.Restore(cp)
		return nil, No
	}
	p.cur.Restore(cp)
	lhs, m := p.matchRvalue()
	if m != Yes {
		p.cur.Restore(cp)
		return nil, m
	}
	if p.MatchChar('=') != Yes || p.peekCh() == '=' || p.peekCh() == '>' {
		p.cur.Restore(cp)
		return nil, No
	}
	rhs, m := p.MatchExpr()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.Assignment{LHS: lhs, RHS: rhs}
	st.Loc = at
	return st, Yes
}

// MatchIf matches all three IF forms: arithmetic, block and logical.
func (p *Parser) MatchIf() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var cond ast.Expression
	if p.match(" if ( %e )", &cond) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	var l1, l2, l3 int
	if p.match(" %l , %l , %l%t", &l1, &l2, &l3) == Yes {
		st := &ast.ArithmeticIf{Cond: cond, NegLabel: l1, ZeroLabel: l2, PosLabel: l3}
		st.Loc = at
		return st, Yes
	}
	if p.match(" then%t") == Yes {
		st := &ast.IfThen{Name: p.takeBlockName(), Cond: cond}
		st.Loc = at
		return st, Yes
	}
	body, m := p.matchActionStmt()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.stName = "IF"
		p.syntaxError()
		return nil, Err
	}
	st := &ast.LogicalIf{Cond: cond, Body: body}
	st.Loc = at
	return st, Yes
}

// MatchElseIf matches ELSE IF (cond) THEN [name].
func (p *Parser) MatchElseIf() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var cond ast.Expression
	if p.match(" else if ( %e ) then", &cond) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.ElseIfStmt{Cond: cond}
	st.Loc = at
	var name string
	if p.match(" %n", &name) == Yes {
		st.Name = strings.ToLower(name)
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchElse matches ELSE [name].
func (p *Parser) MatchElse() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" else") != Yes {
		return nil, No
	}
	st := &ast.ElseStmt{}
	st.Loc = at
	var name string
	if p.match(" %n", &name) == Yes {
		st.Name = strings.ToLower(name)
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchDo matches the DO statement: infinite, WHILE and counted
// forms, with an optional terminal statement label.
func (p *Parser) MatchDo() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" do") != Yes {
		return nil, No
	}
	st := &ast.DoStmt{Name: p.takeBlockName()}
	st.Loc = at
	if lab, m := p.MatchStLabel(); m == Err {
		return nil, Err
	} else if m == Yes {
		st.EndLabel = lab
	}
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	p.MatchChar(',')
	var while ast.Expression
	if p.match(" while ( %e )%t", &while) == Yes {
		st.While = while
		return st, Yes
	}
	iter, m := p.MatchIterator(false)
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		p.pendingName = st.Name
		return nil, No
	}
	st.Iter = iter
	return st, Yes
}

// MatchCycle matches CYCLE [name].
func (p *Parser) MatchCycle() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" cycle") != Yes {
		return nil, No
	}
	st := &ast.CycleStmt{}
	st.Loc = at
	var name string
	if p.match(" %n", &name) == Yes {
		st.Name = strings.ToLower(name)
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchExit matches EXIT [name].
func (p *Parser) MatchExit() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" exit") != Yes {
		return nil, No
	}
	st := &ast.ExitStmt{}
	st.Loc = at
	var name string
	if p.match(" %n", &name) == Yes {
		st.Name = strings.ToLower(name)
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchGoto matches the unconditional, computed and assigned GOTO
// forms.
func (p *Parser) MatchGoto() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" go to") != Yes {
		return nil, No
	}
	st := &ast.GotoStmt{}
	st.Loc = at
	if lab, m := p.MatchStLabel(); m == Err {
		return nil, Err
	} else if m == Yes {
		if p.MatchEOS() != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Label = lab
		return st, Yes
	}
	if p.MatchChar('(') == Yes {
		// Computed GOTO.
		for {
			lab, m := p.MatchStLabel()
			if m == Err {
				return nil, Err
			}
			if m == No {
				p.cur.Restore(cp)
				return nil, No
			}
			st.Labels = append(st.Labels, lab)
			if p.MatchChar(',') == Yes {
				continue
			}
			break
		}
		if p.MatchChar(')') != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		p.MatchChar(',')
		e, m := p.MatchExpr()
		if m == Err {
			return nil, Err
		}
		if m == No || p.MatchEOS() != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Selector = e
		return st, Yes
	}
	// Assigned GOTO.
	v, m := p.MatchVariable()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Assigned = true
	st.Selector = v
	p.MatchChar(',')
	if p.MatchChar('(') == Yes {
		for {
			lab, m := p.MatchStLabel()
			if m == Err {
				return nil, Err
			}
			if m == No {
				p.cur.Restore(cp)
				return nil, No
			}
			st.Labels = append(st.Labels, lab)
			if p.MatchChar(',') == Yes {
				continue
			}
			break
		}
		if p.MatchChar(')') != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	p.warning("Assigned GOTO at %s is a deleted feature", at.String())
	return st, Yes
}

// MatchAssignStmt matches the deleted ASSIGN label TO variable
// statement.
func (p *Parser) MatchAssignStmt() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var lab int
	var name string
	if p.match(" assign% %l to %n%t", &lab, &name) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.AssignStmt{TargetLabel: lab, Var: strings.ToLower(name)}
	st.Loc = at
	p.warning("ASSIGN statement at %s is a deleted feature", at.String())
	return st, Yes
}

// MatchReturn matches RETURN with an optional alternate-return
// selector.
func (p *Parser) MatchReturn() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" return") != Yes {
		return nil, No
	}
	st := &ast.ReturnStmt{}
	st.Loc = at
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	e, m := p.MatchExpr()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Value = e
	return st, Yes
}

// MatchCall matches a CALL statement.
func (p *Parser) MatchCall() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var name string
	if p.match(" call% %n", &name) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.CallStmt{Name: strings.ToLower(name)}
	st.Loc = at
	if args, m := p.MatchActualArglist(true); m == Err {
		return nil, Err
	} else if m == Yes {
		st.Args = args
	}
	if p.MatchEOS() != Yes {
		p.stName = "CALL"
		p.syntaxError()
		return nil, Err
	}
	sym, _ := p.symtab.Lookup(name, at)
	sym.SetFlavor(symbol.FlavorProcedure)
	return st, Yes
}

func (p *Parser) MatchContinue() (ast.Statement, Match) {
	at := p.cur.Where()
	if p.match(" continue%t") != Yes {
		return nil, No
	}
	st := &ast.ContinueStmt{}
	st.Loc = at
	return st, Yes
}

// MatchPause matches the deleted PAUSE statement.
func (p *Parser) MatchPause() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" pause") != Yes {
		return nil, No
	}
	st := &ast.PauseStmt{}
	st.Loc = at
	if p.MatchEOS() != Yes {
		e, m := p.MatchExpr()
		if m == Err {
			return nil, Err
		}
		if m == No || p.MatchEOS() != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Code = e
	}
	p.warning("PAUSE statement at %s is a deleted feature", at.String())
	return st, Yes
}

// MatchStop matches STOP and ERROR STOP with an optional stop code.
func (p *Parser) MatchStop() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	errorStop := false
	if p.match(" error% stop") == Yes {
		errorStop = true
	} else if p.match(" stop") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.StopStmt{ErrorStop: errorStop}
	st.Loc = at
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	e, m := p.MatchExpr()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Code = e
	return st, Yes
}

// matchStatSpecList matches "keyword = value" items from the given
// keyword set, comma separated. Returns No without consuming when the
// first item does not start with a known keyword.
func (p *Parser) matchStatSpecList(keywords ...string) ([]ast.StatSpec, Match) {
	var specs []ast.StatSpec
	for {
		cp := p.cur.Save()
		var kw string
		if p.match(" %n =", &kw) != Yes || p.peekCh() == '=' {
			p.cur.Restore(cp)
			if specs == nil {
				return nil, No
			}
			return specs, Yes
		}
		kw = strings.ToLower(kw)
		known := false
		for _, want := range keywords {
			if kw == want {
				known = true
				break
			}
		}
		if !known {
			p.cur.Restore(cp)
			if specs == nil {
				return nil, No
			}
			return specs, Yes
		}
		var e ast.Expression
		var m Match
		if kw == "stat" || kw == "errmsg" || kw == "acquired_lock" {
			e, m = p.MatchVariable()
		} else {
			e, m = p.MatchExpr()
		}
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.error("Expected a value for %s= at %s", strings.ToUpper(kw), p.cur.Where().String())
			p.cur.SkipToEOS()
			return nil, Err
		}
		specs = append(specs, ast.StatSpec{Keyword: kw, Value: e})
		if p.MatchChar(',') == Yes {
			continue
		}
		return specs, Yes
	}
}

// MatchCritical matches CRITICAL [(sync-stat-list)].
func (p *Parser) MatchCritical() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" critical") != Yes {
		return nil, No
	}
	st := &ast.CriticalStmt{Name: p.takeBlockName()}
	st.Loc = at
	if p.MatchChar('(') == Yes {
		if specs, m := p.matchStatSpecList("stat", "errmsg"); m == Err {
			return nil, Err
		} else if m == Yes {
			st.Specs = specs
		}
		if p.MatchChar(')') != Yes {
			p.cur.Restore(cp)
			p.pendingName = st.Name
			return nil, No
		}
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		p.pendingName = st.Name
		return nil, No
	}
	return st, Yes
}

// MatchBlockConstruct matches the BLOCK statement.
func (p *Parser) MatchBlockConstruct() (ast.Statement, Match) {
	at := p.cur.Where()
	if p.match(" block%t") != Yes {
		return nil, No
	}
	st := &ast.BlockStmt{Name: p.takeBlockName()}
	st.Loc = at
	return st, Yes
}

// MatchAssociate matches ASSOCIATE (name => target, ...).
func (p *Parser) MatchAssociate() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" associate (") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.AssociateStmt{Name: p.takeBlockName()}
	st.Loc = at
	for {
		var name string
		if p.match(" %n =>", &name) != Yes {
			p.cur.Restore(cp)
			p.pendingName = st.Name
			return nil, No
		}
		target, m := p.MatchExpr()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.stName = "ASSOCIATE"
			p.syntaxError()
			return nil, Err
		}
		st.Assocs = append(st.Assocs, ast.Association{Name: strings.ToLower(name), Target: target})
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.match(" )%t") != Yes {
		p.stName = "ASSOCIATE"
		p.syntaxError()
		return nil, Err
	}
	return st, Yes
}

// MatchLock matches LOCK (lock-variable [, sync-stats]).
func (p *Parser) MatchLock() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" lock (") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	v, m := p.MatchVariable()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.LockStmt{Var: v}
	st.Loc = at
	if p.MatchChar(',') == Yes {
		specs, m := p.matchStatSpecList("stat", "errmsg", "acquired_lock")
		if m != Yes {
			p.cur.Restore(cp)
			return nil, m
		}
		st.Specs = specs
	}
	if p.match(" )%t") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchUnlock matches UNLOCK (lock-variable [, sync-stats]).
func (p *Parser) MatchUnlock() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" unlock (") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	v, m := p.MatchVariable()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.UnlockStmt{Var: v}
	st.Loc = at
	if p.MatchChar(',') == Yes {
		specs, m := p.matchStatSpecList("stat", "errmsg")
		if m != Yes {
			p.cur.Restore(cp)
			return nil, m
		}
		st.Specs = specs
	}
	if p.match(" )%t") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// matchSyncStats matches the optional "(sync-stat-list)" tail of the
// SYNC statements.
func (p *Parser) matchSyncStats() ([]ast.StatSpec, Match) {
	if p.MatchChar('(') != Yes {
		return nil, No
	}
	specs, m := p.matchStatSpecList("stat", "errmsg")
	if m == Err {
		return nil, Err
	}
	if p.MatchChar(')') != Yes {
		return nil, No
	}
	return specs, Yes
}

// MatchSyncAll matches SYNC ALL [(sync-stats)].
func (p *Parser) MatchSyncAll() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" sync% all") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.SyncAllStmt{}
	st.Loc = at
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	specs, m := p.matchSyncStats()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Specs = specs
	return st, Yes
}

// MatchSyncImages matches SYNC IMAGES (image-set [, sync-stats]).
func (p *Parser) MatchSyncImages() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" sync% images (") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.SyncImagesStmt{}
	st.Loc = at
	if p.MatchChar('*') == Yes {
		st.Star = true
	} else {
		e, m := p.MatchExpr()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Images = e
	}
	if p.MatchChar(',') == Yes {
		specs, m := p.matchStatSpecList("stat", "errmsg")
		if m != Yes {
			p.cur.Restore(cp)
			return nil, m
		}
		st.Specs = specs
	}
	if p.match(" )%t") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchSyncMemory matches SYNC MEMORY [(sync-stats)].
func (p *Parser) MatchSyncMemory() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" sync% memory") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.SyncMemoryStmt{}
	st.Loc = at
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	specs, m := p.matchSyncStats()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Specs = specs
	return st, Yes
}

// MatchEventPost matches EVENT POST (event-var [, sync-stats]).
func (p *Parser) MatchEventPost() (ast.Statement, Match) {
	return p.matchEventStmt(" event% post (", false)
}

// MatchEventWait matches EVENT WAIT (event-var [, specs]).
func (p *Parser) MatchEventWait() (ast.Statement, Match) {
	return p.matchEventStmt(" event% wait (", true)
}

func (p *Parser) matchEventStmt(pattern string, wait bool) (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(pattern) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	v, m := p.MatchVariable()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.cur.Restore(cp)
		return nil, No
	}
	var specs []ast.StatSpec
	if p.MatchChar(',') == Yes {
		kws := []string{"stat", "errmsg"}
		if wait {
			kws = append(kws, "until_count")
		}
		specs, m = p.matchStatSpecList(kws...)
		if m != Yes {
			p.cur.Restore(cp)
			return nil, m
		}
	}
	if p.match(" )%t") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	if wait {
		st := &ast.EventWaitStmt{Var: v, Specs: specs}
		st.Loc = at
		return st, Yes
	}
	st := &ast.EventPostStmt{Var: v, Specs: specs}
	st.Loc = at
	return st, Yes
}

// MatchWhere matches the WHERE statement and the WHERE construct
// header.
func (p *Parser) MatchWhere() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var mask ast.Expression
	if p.match(" where ( %e )", &mask) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.WhereStmt{Mask: mask}
	st.Loc = at
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	assign, m := p.MatchAssignment()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Assign = assign.(*ast.Assignment)
	return st, Yes
}

// MatchElsewhere matches ELSEWHERE [(mask)] [name].
func (p *Parser) MatchElsewhere() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" else where") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.ElsewhereStmt{}
	st.Loc = at
	if p.MatchChar('(') == Yes {
		mask, m := p.MatchExpr()
		if m == Err {
			return nil, Err
		}
		if m == No || p.MatchChar(')') != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Mask = mask
	}
	var name string
	if p.match(" %n", &name) == Yes {
		st.Name = strings.ToLower(name)
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// matchForallIterator matches "name = lo : hi [: stride]".
func (p *Parser) matchForallIterator() (*ast.Iterator, Match) {
	cp := p.cur.Save()
	var name string
	if p.match(" %n =", &name) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	lo, m := p.MatchExpr()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchChar(':') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	hi, m := p.MatchExpr()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.cur.Restore(cp)
		return nil, No
	}
	it := &ast.Iterator{Var: strings.ToLower(name), Start: lo, End: hi}
	if p.MatchChar(':') == Yes {
		stride, m := p.MatchExpr()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.error("Expected a stride in FORALL iterator at %s", p.cur.Where().String())
			p.cur.SkipToEOS()
			return nil, Err
		}
		it.Step = stride
	}
	return it, Yes
}

// matchForallHeader matches "(iter, ..., [mask])" after the FORALL
// keyword.
func (p *Parser) matchForallHeader() (*ast.ForallHeader, Match) {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return nil, No
	}
	h := &ast.ForallHeader{}
	for {
		if it, m := p.matchForallIterator(); m == Err {
			return nil, Err
		} else if m == Yes {
			h.Iters = append(h.Iters, *it)
			if p.MatchChar(',') == Yes {
				continue
			}
			break
		}
		// The mask is the last item.
		mask, m := p.MatchExpr()
		if m == Err {
			return nil, Err
		}
		if m == No || len(h.Iters) == 0 {
			p.cur.Restore(cp)
			return nil, No
		}
		h.Mask = mask
		break
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	if len(h.Iters) == 0 {
		p.cur.Restore(cp)
		return nil, No
	}
	return h, Yes
}

// MatchForall matches the FORALL statement and construct header.
func (p *Parser) MatchForall() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" forall") != Yes {
		return nil, No
	}
	h, m := p.matchForallHeader()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.ForallStmt{Header: *h}
	st.Loc = at
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	if assign, m := p.MatchPointerAssignment(); m == Err {
		return nil, Err
	} else if m == Yes {
		st.Assign = assign
		return st, Yes
	}
	assign, m2 := p.MatchAssignment()
	if m2 == Err {
		return nil, Err
	}
	if m2 == No {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Assign = assign
	return st, Yes
}

// MatchSelectCase matches SELECT CASE (expr).
func (p *Parser) MatchSelectCase() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var e ast.Expression
	if p.match(" select case ( %e )%t", &e) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.SelectCaseStmt{Name: p.takeBlockName(), Expr: e}
	st.Loc = at
	return st, Yes
}

// MatchSelectType matches SELECT TYPE ([name =>] selector).
func (p *Parser) MatchSelectType() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" select type (") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.SelectTypeStmt{Name: p.takeBlockName()}
	st.Loc = at
	var assoc string
	if p.match(" %n =>", &assoc) == Yes {
		st.AssocName = strings.ToLower(assoc)
	}
	sel, m := p.MatchExpr()
	if m == Err {
		return nil, Err
	}
	if m == No || p.match(" )%t") != Yes {
		p.cur.Restore(cp)
		p.pendingName = st.Name
		return nil, No
	}
	st.Selector = sel
	return st, Yes
}

// matchCaseRange matches one case-value-range.
func (p *Parser) matchCaseRange() (*ast.CaseRange, Match) {
	r := &ast.CaseRange{}
	if p.MatchChar(':') == Yes {
		// ":hi"
		hi, m := p.MatchExpr()
		if m != Yes {
			return nil, m
		}
		r.IsRange = true
		r.High = hi
		return r, Yes
	}
	lo, m := p.MatchExpr()
	if m != Yes {
		return nil, m
	}
	r.Low = lo
	if p.MatchChar(':') == Yes {
		r.IsRange = true
		if hi, m := p.MatchExpr(); m == Err {
			return nil, Err
		} else if m == Yes {
			r.High = hi
		}
	}
	return r, Yes
}

// MatchCase matches CASE (ranges) [name] and CASE DEFAULT [name].
func (p *Parser) MatchCase() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" case") != Yes {
		return nil, No
	}
	st := &ast.CaseStmt{}
	st.Loc = at
	if p.match(" default") == Yes {
		st.Default = true
	} else {
		if p.MatchChar('(') != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		for {
			r, m := p.matchCaseRange()
			if m == Err {
				return nil, Err
			}
			if m == No {
				p.cur.Restore(cp)
				return nil, No
			}
			st.Ranges = append(st.Ranges, *r)
			if p.MatchChar(',') == Yes {
				continue
			}
			break
		}
		if p.MatchChar(')') != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
	}
	var name string
	if p.match(" %n", &name) == Yes {
		st.Name = strings.ToLower(name)
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchTypeIs matches TYPE IS (type-spec) [name].
func (p *Parser) MatchTypeIs() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" type is (") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	ts, m := p.MatchTypeSpec()
	if m == Err {
		return nil, Err
	}
	if m == No {
		// A bare name is a derived-type spec here.
		var name string
		if p.match(" %n", &name) != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		ts = &ast.TypeSpec{Basic: ast.TypeDerived, DerivedName: strings.ToLower(name)}
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.TypeIsStmt{Type: *ts}
	st.Loc = at
	var name string
	if p.match(" %n", &name) == Yes {
		st.Name = strings.ToLower(name)
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchClassIs matches CLASS IS (name) [name] and CLASS DEFAULT.
func (p *Parser) MatchClassIs() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" class") != Yes {
		return nil, No
	}
	st := &ast.ClassIsStmt{}
	st.Loc = at
	if p.match(" default") == Yes {
		st.Default = true
	} else {
		var name string
		if p.match(" is ( %n )", &name) != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Type = ast.TypeSpec{Basic: ast.TypeDerived, DerivedName: strings.ToLower(name)}
	}
	var name string
	if p.match(" %n", &name) == Yes {
		st.Name = strings.ToLower(name)
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchAllocate matches an ALLOCATE statement with optional type-spec
// and alloc-opt list.
func (p *Parser) MatchAllocate() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" allocate (") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.AllocateStmt{}
	st.Loc = at
	p.stName = "ALLOCATE"
	tcp := p.cur.Save()
	if ts, m := p.MatchTypeSpec(); m == Err {
		return nil, Err
	} else if m == Yes && p.match(" ::") == Yes {
		st.TypeSpec = ts
	} else {
		p.cur.Restore(tcp)
	}
	for {
		scp := p.cur.Save()
		var kw string
		if p.match(" %n =", &kw) == Yes && p.peekCh() != '=' {
			switch strings.ToLower(kw) {
			case "stat", "errmsg", "source", "mold":
				p.cur.Restore(scp)
				specs, m := p.matchStatSpecList("stat", "errmsg", "source", "mold")
				if m != Yes {
					p.syntaxError()
					return nil, Err
				}
				st.Specs = specs
				if p.match(" )%t") != Yes {
					p.syntaxError()
					return nil, Err
				}
				return st, Yes
			}
		}
		p.cur.Restore(scp)
		obj, m := p.MatchVariable()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Objects = append(st.Objects, obj)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.match(" )%t") != Yes {
		p.syntaxError()
		return nil, Err
	}
	return st, Yes
}

// MatchDeallocate matches a DEALLOCATE statement.
func (p *Parser) MatchDeallocate() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" deallocate (") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.DeallocateStmt{}
	st.Loc = at
	p.stName = "DEALLOCATE"
	for {
		scp := p.cur.Save()
		var kw string
		if p.match(" %n =", &kw) == Yes && p.peekCh() != '=' {
			switch strings.ToLower(kw) {
			case "stat", "errmsg":
				p.cur.Restore(scp)
				specs, m := p.matchStatSpecList("stat", "errmsg")
				if m != Yes {
					p.syntaxError()
					return nil, Err
				}
				st.Specs = specs
				if p.match(" )%t") != Yes {
					p.syntaxError()
					return nil, Err
				}
				return st, Yes
			}
		}
		p.cur.Restore(scp)
		obj, m := p.MatchVariable()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Objects = append(st.Objects, obj)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.match(" )%t") != Yes {
		p.syntaxError()
		return nil, Err
	}
	return st, Yes
}

// MatchNullify matches a NULLIFY statement.
func (p *Parser) MatchNullify() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" nullify (") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.NullifyStmt{}
	st.Loc = at
	for {
		obj, m := p.MatchVariable()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Objects = append(st.Objects, obj)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.match(" )%t") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// matchActionStmt matches the single statements allowed as the body of
// a logical IF.
func (p *Parser) matchActionStmt() (ast.Statement, Match) {
	type recognizer func() (ast.Statement, Match)
	for _, rec := range []recognizer{
		p.MatchAssignment,
		p.MatchPointerAssignment,
		p.MatchCall,
		p.MatchGoto,
		p.MatchAllocate,
		p.MatchDeallocate,
		p.MatchNullify,
		p.MatchPrint,
		p.MatchRead,
		p.MatchWrite,
		p.MatchOpen,
		p.MatchClose,
		p.MatchRewind,
		p.MatchBackspace,
		p.MatchEndfile,
		p.MatchFlushStmt,
		p.MatchWaitStmt,
		p.MatchInquire,
		p.MatchStop,
		p.MatchPause,
		p.MatchReturn,
		p.MatchCycle,
		p.MatchExit,
		p.MatchContinue,
		p.MatchSyncAll,
		p.MatchSyncImages,
		p.MatchSyncMemory,
		p.MatchEventPost,
		p.MatchEventWait,
		p.MatchLock,
		p.MatchUnlock,
		p.MatchWhere,
		p.MatchForall,
		p.MatchAssignStmt,
	} {
		cp := p.cur.Save()
		st, m := rec()
		if m != No {
			return st, m
		}
		p.cur.Restore(cp)
	}
	return nil, No
}
