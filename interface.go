package fmatch

import (
	"github.com/fortgo/fmatch/ast"
)

// MatchInterface matches INTERFACE [generic-spec] and ABSTRACT
// INTERFACE.
func (p *Parser) MatchInterface() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	abstract := false
	if p.match(" abstract% interface%t") == Yes {
		abstract = true
	} else if p.match(" interface") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.InterfaceStmt{Abstract: abstract}
	st.Loc = at
	if abstract {
		return st, Yes
	}
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	spec, m := p.matchGenericSpec()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Spec = spec
	return st, Yes
}

// MatchEndInterface matches END INTERFACE [generic-spec].
func (p *Parser) MatchEndInterface() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" end interface") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.EndInterfaceStmt{}
	st.Loc = at
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	spec, m := p.matchGenericSpec()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Spec = spec
	return st, Yes
}
