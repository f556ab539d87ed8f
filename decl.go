package fmatch

import (
	"strings"

	"github.com/fortgo/fmatch/ast"
	"github.com/fortgo/fmatch/symbol"
	"github.com/fortgo/fmatch/token"
)

// matchKindSpec matches "([kind=] expr)" after a numeric type keyword.
func (p *Parser) matchKindSpec(ts *ast.TypeSpec) Match {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return No
	}
	p.match(" kind =") // optional keyword
	e, m := p.MatchExpr()
	if m == Err {
		return Err
	}
	if m == No || p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return No
	}
	ts.Kind = e
	return Yes
}

// matchOldKind matches the obsolescent "*n" kind spelling.
func (p *Parser) matchOldKind(ts *ast.TypeSpec) Match {
	cp := p.cur.Save()
	if p.MatchChar('*') != Yes {
		return No
	}
	v, _, m := p.MatchSmallLiteralInt()
	if m == Err {
		return Err
	}
	if m == No {
		p.cur.Restore(cp)
		return No
	}
	ts.OldKind = v
	return Yes
}

// matchCharLenValue matches a type-param-value: an expression, '*' or
// ':'. Star and deferred lengths leave Length nil.
func (p *Parser) matchCharLenValue(ts *ast.TypeSpec) Match {
	if p.MatchChar('*') == Yes {
		ts.LenAssumed = true
		return Yes
	}
	if p.MatchChar(':') == Yes {
		return Yes
	}
	e, m := p.MatchExpr()
	if m != Yes {
		return m
	}
	ts.Length = e
	return Yes
}

// matchCharSpec matches the length and kind selectors of a CHARACTER
// type-spec, in both the modern and the star forms.
func (p *Parser) matchCharSpec(ts *ast.TypeSpec) Match {
	cp := p.cur.Save()
	if p.MatchChar('*') == Yes {
		// CHARACTER*10 or CHARACTER*(*). A trailing comma is tolerated.
		if p.MatchChar('(') == Yes {
			if m := p.matchCharLenValue(ts); m != Yes {
				p.cur.Restore(cp)
				return No
			}
			if p.MatchChar(')') != Yes {
				p.cur.Restore(cp)
				return No
			}
		} else {
			v, _, m := p.MatchSmallLiteralInt()
			if m != Yes {
				p.cur.Restore(cp)
				return No
			}
			lit := &ast.IntLit{Value: int64(v)}
			lit.Loc = p.cur.Where()
			ts.Length = lit
		}
		p.MatchChar(',')
		return Yes
	}
	if p.MatchChar('(') != Yes {
		return Yes // plain CHARACTER, default length
	}
	if p.match(" kind =") == Yes {
		if m := p.matchKindValue(ts); m != Yes {
			p.cur.Restore(cp)
			return No
		}
		if p.match(" , len =") == Yes || p.MatchChar(',') == Yes {
			p.match(" len =")
			if m := p.matchCharLenValue(ts); m != Yes {
				p.cur.Restore(cp)
				return No
			}
		}
	} else {
		p.match(" len =")
		if m := p.matchCharLenValue(ts); m != Yes {
			p.cur.Restore(cp)
			return No
		}
		if p.MatchChar(',') == Yes {
			p.match(" kind =")
			if m := p.matchKindValue(ts); m != Yes {
				p.cur.Restore(cp)
				return No
			}
		}
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return No
	}
	return Yes
}

func (p *Parser) matchKindValue(ts *ast.TypeSpec) Match {
	e, m := p.MatchExpr()
	if m != Yes {
		return m
	}
	ts.Kind = e
	return Yes
}

// MatchTypeSpec matches a type specification: an intrinsic type with
// optional kind or length selectors, TYPE(name), CLASS(name) or
// CLASS(*).
func (p *Parser) MatchTypeSpec() (*ast.TypeSpec, Match) {
	ts := &ast.TypeSpec{}
	cp := p.cur.Save()
	switch {
	case p.match(" integer") == Yes:
		ts.Basic = ast.TypeInteger
	case p.match(" double precision") == Yes:
		ts.Basic = ast.TypeDoublePrecision
	case p.match(" double complex") == Yes:
		ts.Basic = ast.TypeDoubleComplex
	case p.match(" real") == Yes:
		ts.Basic = ast.TypeReal
	case p.match(" complex") == Yes:
		ts.Basic = ast.TypeComplex
	case p.match(" character") == Yes:
		ts.Basic = ast.TypeCharacter
	case p.match(" logical") == Yes:
		ts.Basic = ast.TypeLogical
	case p.match(" class ( *") == Yes:
		if p.MatchChar(')') != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		ts.Basic = ast.TypeClassStar
		return ts, Yes
	case p.match(" class (") == Yes || p.match(" type (") == Yes:
		// Which keyword matched is recoverable from the source text, but
		// re-matching from the checkpoint is simpler.
		p.cur.Restore(cp)
		isClass := p.match(" class (") == Yes
		if !isClass {
			p.match(" type (")
		}
		var name string
		at := p.cur.Where()
		if p.match(" %n )", &name) != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		if isClass {
			ts.Basic = ast.TypeClass
		} else {
			ts.Basic = ast.TypeDerived
		}
		ts.DerivedName = strings.ToLower(name)
		sym, _ := p.symtab.Lookup(name, at)
		sym.SetFlavor(symbol.FlavorDerivedType)
		return ts, Yes
	default:
		return nil, No
	}
	switch ts.Basic {
	case ast.TypeCharacter:
		if m := p.matchCharSpec(ts); m != Yes {
			p.cur.Restore(cp)
			return nil, m
		}
	case ast.TypeDoublePrecision, ast.TypeDoubleComplex:
		// No selectors on the DOUBLE forms.
	default:
		if m := p.matchKindSpec(ts); m == Err {
			return nil, Err
		} else if m == No {
			if m := p.matchOldKind(ts); m == Err {
				return nil, Err
			}
		}
	}
	return ts, Yes
}

// matchBindSpec matches "BIND(C [, NAME=expr])".
func (p *Parser) matchBindSpec() (*ast.BindSpec, Match) {
	cp := p.cur.Save()
	if p.match(" bind ( c") != Yes {
		return nil, No
	}
	b := &ast.BindSpec{Lang: "c"}
	if p.match(" , name =") == Yes {
		e, m := p.MatchExpr()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.error("Expected a binding name at %s", p.cur.Where().String())
			p.cur.SkipToEOS()
			return nil, Err
		}
		b.Name = e
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return b, Yes
}

// matchAttrSpec matches one attribute of an attribute list.
func (p *Parser) matchAttrSpec() (ast.Attr, Match) {
	var a ast.Attr
	switch {
	case p.match(" allocatable") == Yes:
		a.Kind = ast.AttrAllocatable
	case p.match(" asynchronous") == Yes:
		a.Kind = ast.AttrAsynchronous
	case p.match(" automatic") == Yes:
		a.Kind = ast.AttrAutomatic
	case p.match(" codimension") == Yes:
		spec, m := p.MatchCoarraySpec()
		if m != Yes {
			return a, m
		}
		a.Kind = ast.AttrCodimension
		a.Spec = spec
	case p.match(" contiguous") == Yes:
		a.Kind = ast.AttrContiguous
	case p.match(" dimension") == Yes:
		spec, m := p.MatchArraySpec()
		if m != Yes {
			return a, m
		}
		a.Kind = ast.AttrDimension
		a.Spec = spec
	case p.match(" external") == Yes:
		a.Kind = ast.AttrExternal
	case p.match(" intent (") == Yes:
		in, m := p.matchIntent()
		if m != Yes {
			return a, m
		}
		a.Kind = ast.AttrIntent
		a.Intent = in
	case p.match(" intrinsic") == Yes:
		a.Kind = ast.AttrIntrinsic
	case p.match(" optional") == Yes:
		a.Kind = ast.AttrOptional
	case p.match(" parameter") == Yes:
		a.Kind = ast.AttrParameter
	case p.match(" pointer") == Yes:
		a.Kind = ast.AttrPointer
	case p.match(" private") == Yes:
		a.Kind = ast.AttrPrivate
	case p.match(" protected") == Yes:
		a.Kind = ast.AttrProtected
	case p.match(" public") == Yes:
		a.Kind = ast.AttrPublic
	case p.match(" save") == Yes:
		a.Kind = ast.AttrSave
	case p.match(" static") == Yes:
		a.Kind = ast.AttrStatic
	case p.match(" target") == Yes:
		a.Kind = ast.AttrTarget
	case p.match(" value") == Yes:
		a.Kind = ast.AttrValue
	case p.match(" volatile") == Yes:
		a.Kind = ast.AttrVolatile
	default:
		if b, m := p.matchBindSpec(); m == Yes {
			a.Kind = ast.AttrBind
			a.Bind = b
		} else {
			return a, m
		}
	}
	return a, Yes
}

// matchIntent parses the body of "INTENT( ... )"; the opening paren
// has been consumed.
func (p *Parser) matchIntent() (ast.Intent, Match) {
	var name string
	if p.match(" %n", &name) != Yes {
		return ast.IntentUnknown, No
	}
	in := ast.IntentUnknown
	switch strings.ToLower(name) {
	case "inout":
		in = ast.IntentInOut
	case "in":
		var out string
		cp := p.cur.Save()
		if p.match(" %n", &out) == Yes && strings.ToLower(out) == "out" {
			in = ast.IntentInOut
		} else {
			p.cur.Restore(cp)
			in = ast.IntentIn
		}
	case "out":
		in = ast.IntentOut
	default:
		return ast.IntentUnknown, No
	}
	if p.MatchChar(')') != Yes {
		return ast.IntentUnknown, No
	}
	return in, Yes
}

// matchEntity matches one entity of a declaration: name, optional
// array-spec, optional character length, optional initializer. The
// initializer forms are only legal after '::'.
func (p *Parser) matchEntity(initOK, isChar bool) (ast.DeclEntity, Match) {
	var e ast.DeclEntity
	name, m := p.matchName()
	if m != Yes {
		return e, m
	}
	e.Name = strings.ToLower(name)
	if as, m := p.MatchArraySpec(); m == Err {
		return e, Err
	} else if m == Yes {
		e.ArraySpec = as
	}
	if isChar && p.MatchChar('*') == Yes {
		if p.MatchChar('(') == Yes {
			if p.MatchChar('*') == Yes {
				e.LenStar = true
			} else {
				le, m := p.MatchExpr()
				if m != Yes {
					return e, No
				}
				e.CharLen = le
			}
			if p.MatchChar(')') != Yes {
				return e, No
			}
		} else {
			v, _, m := p.MatchSmallLiteralInt()
			if m != Yes {
				return e, No
			}
			lit := &ast.IntLit{Value: int64(v)}
			e.CharLen = lit
		}
	}
	if !initOK {
		return e, Yes
	}
	if p.match(" =>") == Yes {
		e.PtrInit = true
		init, m := p.MatchExpr()
		if m == Err {
			return e, Err
		}
		if m == No {
			p.error("Expected a pointer initializer at %s", p.cur.Where().String())
			p.cur.SkipToEOS()
			return e, Err
		}
		e.Init = init
	} else if p.MatchChar('=') == Yes {
		init, m := p.MatchInitExpr()
		if m == Err {
			return e, Err
		}
		if m == No {
			p.error("Expected an initializer at %s", p.cur.Where().String())
			p.cur.SkipToEOS()
			return e, Err
		}
		e.Init = init
	}
	return e, Yes
}

// MatchDataDecl matches a full type declaration statement, with or
// without the '::' separator. Attributes and initializers require it.
func (p *Parser) MatchDataDecl() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	ts, m := p.MatchTypeSpec()
	if m != Yes {
		return nil, m
	}
	d := &ast.TypeDecl{TypeSpec: *ts}
	d.Loc = at
	for p.MatchChar(',') == Yes {
		attr, m := p.matchAttrSpec()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		d.Attrs = append(d.Attrs, attr)
	}
	sep := p.match(" ::") == Yes
	if !sep {
		if len(d.Attrs) > 0 {
			p.cur.Restore(cp)
			return nil, No
		}
		if p.MatchSpace() != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
	}
	isChar := ts.Basic == ast.TypeCharacter
	for {
		ent, m := p.matchEntity(sep, isChar)
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		d.Entities = append(d.Entities, ent)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		if sep {
			p.stName = d.TypeSpec.Basic.String()
			p.syntaxError()
			return nil, Err
		}
		p.cur.Restore(cp)
		return nil, No
	}
	// An entity declared with an array spec can never be a statement
	// function; record the flavor so classification knows.
	for _, ent := range d.Entities {
		if ent.ArraySpec != nil {
			sym, _ := p.symtab.Lookup(ent.Name, at)
			sym.SetFlavor(symbol.FlavorVariable)
		}
	}
	return d, Yes
}

// matchAttrStmt is the shared body of the standalone attribute
// statements. commonOK permits /name/ objects (SAVE, BIND).
func (p *Parser) matchAttrStmt(attr ast.Attr, commonOK, specOK bool) (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	st := &ast.AttrStmt{Attr: attr}
	st.Loc = at
	sep := p.match(" ::") == Yes
	if !sep && p.MatchEOS() == Yes && attr.Kind == ast.AttrSave {
		// Bare SAVE.
		return st, Yes
	}
	for {
		var obj ast.AttrObject
		if commonOK && p.MatchChar('/') == Yes {
			name, m := p.matchName()
			if m != Yes || p.MatchChar('/') != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
			obj.Name = strings.ToLower(name)
			obj.IsCommon = true
		} else {
			name, m := p.matchName()
			if m != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
			obj.Name = strings.ToLower(name)
			if specOK {
				if as, m := p.MatchArraySpec(); m == Err {
					return nil, Err
				} else if m == Yes {
					obj.ArraySpec = as
				}
				if as, m := p.MatchCoarraySpec(); m == Err {
					return nil, Err
				} else if m == Yes {
					obj.CoarraySpec = as
				}
			}
		}
		st.Objects = append(st.Objects, obj)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

func (p *Parser) matchSimpleAttr(word string, kind ast.AttrKind, commonOK, specOK bool) (ast.Statement, Match) {
	cp := p.cur.Save()
	if p.match(word) != Yes {
		return nil, No
	}
	st, m := p.matchAttrStmt(ast.Attr{Kind: kind}, commonOK, specOK)
	if m == No {
		p.cur.Restore(cp)
	}
	return st, m
}

// The standalone attribute statements.

func (p *Parser) MatchAllocatable() (ast.Statement, Match) {
	return p.matchSimpleAttr(" allocatable", ast.AttrAllocatable, false, true)
}

func (p *Parser) MatchAsynchronous() (ast.Statement, Match) {
	return p.matchSimpleAttr(" asynchronous", ast.AttrAsynchronous, false, false)
}

func (p *Parser) MatchContiguous() (ast.Statement, Match) {
	return p.matchSimpleAttr(" contiguous", ast.AttrContiguous, false, false)
}

func (p *Parser) MatchDimension() (ast.Statement, Match) {
	return p.matchSimpleAttr(" dimension", ast.AttrDimension, false, true)
}

func (p *Parser) MatchCodimension() (ast.Statement, Match) {
	return p.matchSimpleAttr(" codimension", ast.AttrCodimension, false, true)
}

func (p *Parser) MatchExternal() (ast.Statement, Match) {
	return p.matchSimpleAttr(" external", ast.AttrExternal, false, false)
}

func (p *Parser) MatchIntrinsicStmt() (ast.Statement, Match) {
	return p.matchSimpleAttr(" intrinsic", ast.AttrIntrinsic, false, false)
}

func (p *Parser) MatchOptional() (ast.Statement, Match) {
	return p.matchSimpleAttr(" optional", ast.AttrOptional, false, false)
}

func (p *Parser) MatchPointerStmt() (ast.Statement, Match) {
	return p.matchSimpleAttr(" pointer", ast.AttrPointer, false, true)
}

func (p *Parser) MatchProtected() (ast.Statement, Match) {
	return p.matchSimpleAttr(" protected", ast.AttrProtected, false, false)
}

func (p *Parser) MatchSave() (ast.Statement, Match) {
	return p.matchSimpleAttr(" save", ast.AttrSave, true, false)
}

func (p *Parser) MatchStatic() (ast.Statement, Match) {
	return p.matchSimpleAttr(" static", ast.AttrStatic, false, false)
}

func (p *Parser) MatchAutomatic() (ast.Statement, Match) {
	return p.matchSimpleAttr(" automatic", ast.AttrAutomatic, false, false)
}

func (p *Parser) MatchTarget() (ast.Statement, Match) {
	return p.matchSimpleAttr(" target", ast.AttrTarget, false, true)
}

func (p *Parser) MatchValueStmt() (ast.Statement, Match) {
	return p.matchSimpleAttr(" value", ast.AttrValue, false, false)
}

func (p *Parser) MatchVolatile() (ast.Statement, Match) {
	return p.matchSimpleAttr(" volatile", ast.AttrVolatile, false, false)
}

// MatchIntentStmt matches the standalone INTENT(...) :: list form.
func (p *Parser) MatchIntentStmt() (ast.Statement, Match) {
	cp := p.cur.Save()
	if p.match(" intent (") != Yes {
		return nil, No
	}
	in, m := p.matchIntent()
	if m != Yes {
		p.cur.Restore(cp)
		return nil, m
	}
	st, m := p.matchAttrStmt(ast.Attr{Kind: ast.AttrIntent, Intent: in}, false, false)
	if m == No {
		p.cur.Restore(cp)
	}
	return st, m
}

// MatchBindCStmt matches the standalone BIND(C[, NAME=...]) statement,
// whose objects may be common blocks.
func (p *Parser) MatchBindCStmt() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	b, m := p.matchBindSpec()
	if m != Yes {
		return nil, m
	}
	st := &ast.BindCStmt{Bind: *b}
	st.Loc = at
	p.match(" ::")
	for {
		var ent ast.BindCEntity
		if p.MatchChar('/') == Yes {
			name, m := p.matchName()
			if m != Yes || p.MatchChar('/') != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
			ent.Name = strings.ToLower(name)
			ent.IsCommon = true
		} else {
			name, m := p.matchName()
			if m != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
			ent.Name = strings.ToLower(name)
		}
		st.Names = append(st.Names, ent)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// matchGenericSpec matches a generic-spec: OPERATOR(op), OPERATOR(.op.),
// ASSIGNMENT(=) or a plain name.
func (p *Parser) matchGenericSpec() (*ast.GenericSpec, Match) {
	cp := p.cur.Save()
	if p.match(" operator (") == Yes {
		if op, m := p.matchIntrinsicOp(); m == Yes {
			if p.MatchChar(')') == Yes {
				return &ast.GenericSpec{Kind: ast.GenericOperator, Op: op}, Yes
			}
			p.cur.Restore(cp)
			return nil, No
		}
		if name, m := p.MatchDefinedOpName(); m == Yes {
			if p.MatchChar(')') == Yes {
				return &ast.GenericSpec{Kind: ast.GenericDefinedOp, Name: name, Op: token.OpUser}, Yes
			}
		} else if m == Err {
			return nil, Err
		}
		p.cur.Restore(cp)
		return nil, No
	}
	if p.match(" assignment ( = )") == Yes {
		return &ast.GenericSpec{Kind: ast.GenericAssignment}, Yes
	}
	name, m := p.matchName()
	if m != Yes {
		return nil, m
	}
	return &ast.GenericSpec{Kind: ast.GenericName, Name: strings.ToLower(name)}, Yes
}

// MatchAccessStmt matches PUBLIC or PRIVATE, bare or with a list of
// access-ids.
func (p *Parser) MatchAccessStmt() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var acc ast.Access
	switch {
	case p.match(" public") == Yes:
		acc = ast.AccessPublic
	case p.match(" private") == Yes:
		acc = ast.AccessPrivate
	default:
		return nil, No
	}
	st := &ast.AccessStmt{Access: acc}
	st.Loc = at
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	p.match(" ::")
	for {
		spec, m := p.matchGenericSpec()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Specs = append(st.Specs, *spec)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchParameterStmt matches PARAMETER (name = expr, ...).
func (p *Parser) MatchParameterStmt() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" parameter (") != Yes {
		return nil, No
	}
	st := &ast.ParameterStmt{}
	st.Loc = at
	p.stName = "PARAMETER"
	for {
		var name string
		if p.match(" %n =", &name) != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		e, m := p.MatchInitExpr()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Consts = append(st.Consts, ast.NamedConstant{Name: strings.ToLower(name), Value: e})
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

// MatchImplicitNone matches IMPLICIT NONE.
func (p *Parser) MatchImplicitNone() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" implicit% none%t") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.ImplicitStmt{None: true}
	st.Loc = at
	return st, Yes
}

// matchLetterSpec matches "(a-c, f, ...)" of an IMPLICIT statement.
func (p *Parser) matchLetterSpec() ([]ast.LetterRange, Match) {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return nil, No
	}
	var ranges []ast.LetterRange
	for {
		p.skipSpace()
		lo := lower(p.peekCh())
		if !isLetter(lo) {
			p.cur.Restore(cp)
			return nil, No
		}
		p.nextCh()
		hi := lo
		if p.MatchChar('-') == Yes {
			p.skipSpace()
			hi = lower(p.peekCh())
			if !isLetter(hi) {
				p.cur.Restore(cp)
				return nil, No
			}
			p.nextCh()
		}
		if hi < lo {
			p.error("Letter range at %s must be in alphabetic order", p.cur.Where().String())
			p.cur.SkipToEOS()
			return nil, Err
		}
		ranges = append(ranges, ast.LetterRange{Lo: byte(lo), Hi: byte(hi)})
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return ranges, Yes
}

// MatchImplicit matches IMPLICIT type(letter-spec) [, ...]. The
// character form needs a second attempt without selectors, since
// "CHARACTER(A-Z)" must read the parens as a letter spec, not a
// length.
func (p *Parser) MatchImplicit() (ast.Statement, Match) {
	if st, m := p.MatchImplicitNone(); m != No {
		return st, m
	}
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" implicit") != Yes {
		return nil, No
	}
	st := &ast.ImplicitStmt{}
	st.Loc = at
	for {
		spec, m := p.matchOneImplicitSpec()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Specs = append(st.Specs, *spec)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

func (p *Parser) matchOneImplicitSpec() (*ast.ImplicitSpec, Match) {
	cp := p.cur.Save()
	ts, m := p.MatchTypeSpec()
	if m == Err {
		return nil, Err
	}
	if m == Yes {
		if ranges, m := p.matchLetterSpec(); m == Err {
			return nil, Err
		} else if m == Yes {
			return &ast.ImplicitSpec{Type: *ts, Ranges: ranges}, Yes
		}
	}
	// Retry with the bare keyword; the parens were the letter spec.
	p.cur.Restore(cp)
	ts = &ast.TypeSpec{}
	switch {
	case p.match(" integer") == Yes:
		ts.Basic = ast.TypeInteger
	case p.match(" double precision") == Yes:
		ts.Basic = ast.TypeDoublePrecision
	case p.match(" double complex") == Yes:
		ts.Basic = ast.TypeDoubleComplex
	case p.match(" real") == Yes:
		ts.Basic = ast.TypeReal
	case p.match(" complex") == Yes:
		ts.Basic = ast.TypeComplex
	case p.match(" character") == Yes:
		ts.Basic = ast.TypeCharacter
	case p.match(" logical") == Yes:
		ts.Basic = ast.TypeLogical
	default:
		return nil, No
	}
	if m := p.matchOldKind(ts); m == Err {
		return nil, Err
	}
	ranges, m := p.matchLetterSpec()
	if m != Yes {
		p.cur.Restore(cp)
		return nil, m
	}
	return &ast.ImplicitSpec{Type: *ts, Ranges: ranges}, Yes
}

// matchDataValue matches one value of a DATA value list, with an
// optional repeat factor "r*".
func (p *Parser) matchDataValue() (ast.DataValue, Match) {
	var dv ast.DataValue
	cp := p.cur.Save()
	if e, m := p.MatchExpr(); m == Err {
		return dv, Err
	} else if m == Yes && p.MatchChar('*') == Yes {
		dv.Repeat = e
	} else {
		p.cur.Restore(cp)
	}
	if e, m := p.MatchLiteralConstant(true); m != No {
		dv.Value = e
		return dv, m
	}
	if e, m := p.MatchNull(); m != No {
		dv.Value = e
		return dv, m
	}
	e, m := p.MatchVariable()
	if m != Yes {
		p.cur.Restore(cp)
		return dv, m
	}
	dv.Value = e
	return dv, Yes
}

// matchDataObject matches one object of a DATA object list: a
// designator or an implied-do group.
func (p *Parser) matchDataObject() (ast.Expression, Match) {
	if e, m := p.matchACImpliedDo(); m != No {
		return e, m
	}
	return p.MatchVariable()
}

// MatchData matches a DATA statement.
func (p *Parser) MatchData() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" data") != Yes {
		return nil, No
	}
	st := &ast.DataStmt{}
	st.Loc = at
	p.stName = "DATA"
	for {
		var set ast.DataSet
		for {
			obj, m := p.matchDataObject()
			if m == Err {
				return nil, Err
			}
			if m == No {
				p.cur.Restore(cp)
				return nil, No
			}
			set.Objects = append(set.Objects, obj)
			if p.MatchChar(',') == Yes {
				continue
			}
			break
		}
		if p.MatchChar('/') != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		for {
			dv, m := p.matchDataValue()
			if m == Err {
				return nil, Err
			}
			if m == No {
				p.syntaxError()
				return nil, Err
			}
			set.Values = append(set.Values, dv)
			if p.MatchChar(',') == Yes {
				continue
			}
			break
		}
		if p.MatchChar('/') != Yes {
			p.syntaxError()
			return nil, Err
		}
		st.Sets = append(st.Sets, set)
		p.MatchChar(',')
		if p.MatchEOS() == Yes {
			return st, Yes
		}
	}
}

// matchCommonName matches the /name/ or // introducing a common block
// group. Shared by COMMON and the DEC STRUCTURE statement.
func (p *Parser) matchCommonName() (string, Match) {
	cp := p.cur.Save()
	if p.MatchChar('/') != Yes {
		return "", No
	}
	if p.MatchChar('/') == Yes {
		return "", Yes // blank common
	}
	name, m := p.matchName()
	if m != Yes || p.MatchChar('/') != Yes {
		p.cur.Restore(cp)
		return "", No
	}
	return strings.ToLower(name), Yes
}

// MatchCommon matches a COMMON statement.
func (p *Parser) MatchCommon() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" common") != Yes {
		return nil, No
	}
	st := &ast.CommonStmt{}
	st.Loc = at
	p.stName = "COMMON"
	for {
		var blk ast.CommonBlock
		if name, m := p.matchCommonName(); m == Yes {
			blk.Name = name
			sym, _ := p.symtab.Lookup(name, at)
			sym.SetFlavor(symbol.FlavorCommon)
		} else if len(st.Blocks) > 0 {
			p.cur.Restore(cp)
			return nil, No
		}
		for {
			var obj ast.CommonObject
			name, m := p.matchName()
			if m != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
			obj.Name = strings.ToLower(name)
			if as, m := p.MatchArraySpec(); m == Err {
				return nil, Err
			} else if m == Yes {
				obj.Spec = as
			}
			blk.Objects = append(blk.Objects, obj)
			if p.MatchChar(',') == Yes {
				if p.peekSig() == '/' {
					break
				}
				continue
			}
			break
		}
		st.Blocks = append(st.Blocks, blk)
		if p.MatchEOS() == Yes {
			return st, Yes
		}
		if p.peekSig() != '/' {
			p.cur.Restore(cp)
			return nil, No
		}
	}
}

// MatchNamelist matches a NAMELIST statement.
func (p *Parser) MatchNamelist() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" namelist") != Yes {
		return nil, No
	}
	st := &ast.NamelistStmt{}
	st.Loc = at
	for {
		name, m := p.matchCommonName()
		if m != Yes || name == "" {
			p.cur.Restore(cp)
			return nil, No
		}
		grp := ast.NamelistGroup{Name: name}
		sym, _ := p.symtab.Lookup(name, at)
		sym.SetFlavor(symbol.FlavorNamelist)
		for {
			obj, m := p.matchName()
			if m != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
			grp.Objects = append(grp.Objects, strings.ToLower(obj))
			if p.MatchChar(',') == Yes {
				if p.peekSig() == '/' {
					break
				}
				continue
			}
			break
		}
		st.Groups = append(st.Groups, grp)
		if p.MatchEOS() == Yes {
			return st, Yes
		}
		if p.peekSig() != '/' {
			p.cur.Restore(cp)
			return nil, No
		}
	}
}

// MatchEquivalence matches an EQUIVALENCE statement.
func (p *Parser) MatchEquivalence() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" equivalence") != Yes {
		return nil, No
	}
	st := &ast.EquivalenceStmt{}
	st.Loc = at
	for {
		if p.MatchChar('(') != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		var set []ast.Expression
		for {
			v, m := p.MatchVariable()
			if m == Err {
				return nil, Err
			}
			if m == No {
				p.cur.Restore(cp)
				return nil, No
			}
			set = append(set, v)
			if p.MatchChar(',') == Yes {
				continue
			}
			break
		}
		if p.MatchChar(')') != Yes || len(set) < 2 {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Sets = append(st.Sets, set)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchStFunction matches a statement function definition
// "name(dummies) = expr". A name already known to be a variable is an
// array element assignment, not a statement function.
func (p *Parser) MatchStFunction() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var name string
	if p.match(" %n (", &name) != Yes {
		return nil, No
	}
	if sym, ok := p.symtab.Find(name); ok && sym.Flavor() == symbol.FlavorVariable {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.StFunction{Name: strings.ToLower(name)}
	st.Loc = at
	if p.MatchChar(')') != Yes {
		for {
			var dummy string
			if p.match(" %n", &dummy) != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
			st.Dummies = append(st.Dummies, strings.ToLower(dummy))
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
	if p.MatchChar('=') != Yes || p.peekCh() == '=' || p.peekCh() == '>' {
		p.cur.Restore(cp)
		return nil, No
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

// matchPrefix collects the subprogram prefix keywords; typeOK permits
// a result type-spec among them.
func (p *Parser) matchPrefix(typeOK bool) (ast.Prefix, Match) {
	var pre ast.Prefix
	p.matchingPrefix = true
	defer func() { p.matchingPrefix = false }()
	for {
		switch {
		case p.match(" pure% ") == Yes:
			pre.Pure = true
		case p.match(" impure% ") == Yes:
			pre.Impure = true
		case p.match(" elemental% ") == Yes:
			pre.Elemental = true
		case p.match(" recursive% ") == Yes:
			pre.Recursive = true
		case p.match(" module% ") == Yes:
			pre.Module = true
		default:
			if typeOK && pre.TypeSpec == nil {
				cp := p.cur.Save()
				if ts, m := p.MatchTypeSpec(); m == Err {
					return pre, Err
				} else if m == Yes {
					if p.MatchSpace() == Yes {
						pre.TypeSpec = ts
						continue
					}
					p.cur.Restore(cp)
				}
			}
			return pre, Yes
		}
	}
}

// matchFormalArglist matches the dummy argument list of a subprogram
// header. starOK permits alternate-return '*' dummies.
func (p *Parser) matchFormalArglist(starOK bool) ([]string, Match) {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return nil, No
	}
	var args []string
	if p.MatchChar(')') == Yes {
		return args, Yes
	}
	for {
		if starOK && p.MatchChar('*') == Yes {
			args = append(args, "*")
		} else {
			name, m := p.matchName()
			if m != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
			args = append(args, strings.ToLower(name))
		}
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return args, Yes
}

// matchSuffix matches RESULT(name) and BIND(C) in either order.
func (p *Parser) matchSuffix(su *ast.Suffix) Match {
	for {
		var res string
		if p.match(" result ( %n )", &res) == Yes {
			su.Result = strings.ToLower(res)
			continue
		}
		if b, m := p.matchBindSpec(); m == Err {
			return Err
		} else if m == Yes {
			su.Bind = b
			continue
		}
		return Yes
	}
}

// MatchFunctionDecl matches a FUNCTION statement header.
func (p *Parser) MatchFunctionDecl() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	pre, m := p.matchPrefix(true)
	if m == Err {
		return nil, Err
	}
	var name string
	if p.match(" function% %n", &name) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.FunctionDecl{Prefix: pre, Name: strings.ToLower(name)}
	st.Loc = at
	args, m := p.matchFormalArglist(false)
	if m != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Args = args
	if p.matchSuffix(&st.Suffix) == Err {
		return nil, Err
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	sym, _ := p.symtab.Lookup(name, at)
	sym.SetFlavor(symbol.FlavorProcedure)
	return st, Yes
}

// MatchSubroutineDecl matches a SUBROUTINE statement header.
func (p *Parser) MatchSubroutineDecl() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	pre, m := p.matchPrefix(false)
	if m == Err {
		return nil, Err
	}
	var name string
	if p.match(" subroutine% %n", &name) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.SubroutineDecl{Prefix: pre, Name: strings.ToLower(name)}
	st.Loc = at
	if args, m := p.matchFormalArglist(true); m == Err {
		return nil, Err
	} else if m == Yes {
		st.Args = args
	}
	if b, m := p.matchBindSpec(); m == Err {
		return nil, Err
	} else if m == Yes {
		st.Bind = b
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	sym, _ := p.symtab.Lookup(name, at)
	sym.SetFlavor(symbol.FlavorProcedure)
	return st, Yes
}

// MatchEntry matches an ENTRY statement.
func (p *Parser) MatchEntry() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var name string
	if p.match(" entry% %n", &name) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.EntryStmt{Name: strings.ToLower(name)}
	st.Loc = at
	if args, m := p.matchFormalArglist(true); m == Err {
		return nil, Err
	} else if m == Yes {
		st.Args = args
	}
	if p.matchSuffix(&st.Suffix) == Err {
		return nil, Err
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchProcedureDecl matches a PROCEDURE declaration statement:
// PROCEDURE([iface]) [, attrs] [::] entity-list. The MODULE PROCEDURE
// form is a different statement.
func (p *Parser) MatchProcedureDecl() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" procedure") != Yes {
		return nil, No
	}
	st := &ast.ProcedureDecl{}
	st.Loc = at
	if p.MatchChar('(') == Yes {
		if p.MatchChar(')') != Yes {
			if ts, m := p.MatchTypeSpec(); m == Err {
				return nil, Err
			} else if m == Yes {
				st.IfaceType = ts
			} else {
				name, m := p.matchName()
				if m != Yes {
					p.cur.Restore(cp)
					return nil, No
				}
				st.Interface = strings.ToLower(name)
			}
			if p.MatchChar(')') != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
		}
	}
	for p.MatchChar(',') == Yes {
		attr, m := p.matchAttrSpec()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Attrs = append(st.Attrs, attr)
	}
	p.match(" ::")
	for {
		var ent ast.ProcEntity
		name, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		ent.Name = strings.ToLower(name)
		if p.match(" =>") == Yes {
			init, m := p.MatchExpr()
			if m == Err {
				return nil, Err
			}
			if m == No {
				p.error("Expected a pointer initializer at %s", p.cur.Where().String())
				p.cur.SkipToEOS()
				return nil, Err
			}
			ent.Init = init
		}
		st.Entities = append(st.Entities, ent)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchModuleProc matches MODULE PROCEDURE name-list inside an
// interface block or a submodule.
func (p *Parser) MatchModuleProc() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" module% procedure") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	p.match(" ::")
	st := &ast.ModuleProcStmt{}
	st.Loc = at
	for {
		name, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Names = append(st.Names, strings.ToLower(name))
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchDerivedTypeStmt matches the TYPE statement that opens a derived
// type definition.
func (p *Parser) MatchDerivedTypeStmt() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" type") != Yes {
		return nil, No
	}
	if p.peekSig() == '(' {
		// TYPE(name) is a type-spec, not a definition.
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.DerivedTypeStmt{}
	st.Loc = at
	seenAttr := false
	for p.MatchChar(',') == Yes {
		switch {
		case p.match(" public") == Yes:
			st.Access = ast.AccessPublic
		case p.match(" private") == Yes:
			st.Access = ast.AccessPrivate
		case p.match(" abstract") == Yes:
			st.Abstract = true
		default:
			var ext string
			if p.match(" extends ( %n )", &ext) == Yes {
				st.Extends = strings.ToLower(ext)
			} else if b, m := p.matchBindSpec(); m == Yes {
				st.Bind = b
			} else if m == Err {
				return nil, Err
			} else {
				p.cur.Restore(cp)
				return nil, No
			}
		}
		seenAttr = true
	}
	if p.match(" ::") != Yes {
		if seenAttr {
			p.cur.Restore(cp)
			return nil, No
		}
		if p.MatchSpace() != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
	}
	name, m := p.matchName()
	if m != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Name = strings.ToLower(name)
	if p.MatchChar('(') == Yes {
		for {
			var param string
			if p.match(" %n", &param) != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
			st.Params = append(st.Params, strings.ToLower(param))
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
	sym, _ := p.symtab.Lookup(name, at)
	sym.SetFlavor(symbol.FlavorDerivedType)
	return st, Yes
}

// The DEC structure extensions, gated on the option.

func (p *Parser) MatchStructure() (ast.Statement, Match) {
	if !p.opts.DECExtensions {
		return nil, No
	}
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" structure") != Yes {
		return nil, No
	}
	name, m := p.matchCommonName()
	if m != Yes || name == "" {
		p.cur.Restore(cp)
		return nil, No
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.StructureStmt{Name: name}
	st.Loc = at
	return st, Yes
}

func (p *Parser) MatchUnion() (ast.Statement, Match) {
	if !p.opts.DECExtensions {
		return nil, No
	}
	at := p.cur.Where()
	if p.match(" union%t") != Yes {
		return nil, No
	}
	st := &ast.UnionStmt{}
	st.Loc = at
	return st, Yes
}

func (p *Parser) MatchMap() (ast.Statement, Match) {
	if !p.opts.DECExtensions {
		return nil, No
	}
	at := p.cur.Where()
	if p.match(" map%t") != Yes {
		return nil, No
	}
	st := &ast.MapStmt{}
	st.Loc = at
	return st, Yes
}

// MatchFinal matches a FINAL binding inside a derived type.
func (p *Parser) MatchFinal() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" final") != Yes {
		return nil, No
	}
	p.match(" ::")
	st := &ast.FinalStmt{}
	st.Loc = at
	for {
		name, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Names = append(st.Names, strings.ToLower(name))
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchGenericBinding matches GENERIC [, access] :: spec => targets
// inside a derived-type CONTAINS section.
func (p *Parser) MatchGenericBinding() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" generic") != Yes {
		return nil, No
	}
	st := &ast.GenericStmt{}
	st.Loc = at
	if p.MatchChar(',') == Yes {
		switch {
		case p.match(" public") == Yes:
			st.Access = ast.AccessPublic
		case p.match(" private") == Yes:
			st.Access = ast.AccessPrivate
		default:
			p.cur.Restore(cp)
			return nil, No
		}
	}
	if p.match(" ::") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	spec, m := p.matchGenericSpec()
	if m != Yes {
		p.cur.Restore(cp)
		return nil, m
	}
	st.Spec = *spec
	if p.match(" =>") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	for {
		name, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Targets = append(st.Targets, strings.ToLower(name))
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchImport matches an IMPORT statement.
func (p *Parser) MatchImport() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" import") != Yes {
		return nil, No
	}
	st := &ast.ImportStmt{}
	st.Loc = at
	if p.MatchEOS() == Yes {
		st.All = true
		return st, Yes
	}
	p.match(" ::")
	for {
		name, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Names = append(st.Names, strings.ToLower(name))
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// matchUseRename matches one entry of a rename or ONLY list.
func (p *Parser) matchUseRename(onlyList bool) (*ast.UseRename, Match) {
	cp := p.cur.Save()
	var r ast.UseRename
	if p.match(" operator (") == Yes {
		name, m := p.MatchDefinedOpName()
		if m != Yes || p.MatchChar(')') != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		r.Op = true
		r.Local = name
		if p.match(" =>") == Yes {
			var use string
			if p.match(" operator (") != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
			use, m = p.MatchDefinedOpName()
			if m != Yes || p.MatchChar(')') != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
			r.Use = use
		} else if !onlyList {
			p.cur.Restore(cp)
			return nil, No
		}
		return &r, Yes
	}
	name, m := p.matchName()
	if m != Yes {
		return nil, m
	}
	r.Local = strings.ToLower(name)
	if p.match(" =>") == Yes {
		use, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		r.Use = strings.ToLower(use)
	} else if !onlyList {
		p.cur.Restore(cp)
		return nil, No
	}
	return &r, Yes
}

// MatchUse matches a USE statement with its rename and ONLY lists.
func (p *Parser) MatchUse() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" use") != Yes {
		return nil, No
	}
	st := &ast.UseStmt{}
	st.Loc = at
	if p.MatchChar(',') == Yes {
		switch {
		case p.match(" intrinsic") == Yes:
			st.Nature = "intrinsic"
		case p.match(" non_intrinsic") == Yes:
			st.Nature = "non_intrinsic"
		default:
			p.cur.Restore(cp)
			return nil, No
		}
		if p.match(" ::") != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
	} else {
		p.match(" ::")
	}
	name, m := p.matchName()
	if m != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Module = strings.ToLower(name)
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	if p.MatchChar(',') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	if p.match(" only :") == Yes {
		st.Only = true
		if p.MatchEOS() == Yes {
			return st, Yes // empty ONLY list
		}
	}
	for {
		r, m := p.matchUseRename(st.Only)
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Renames = append(st.Renames, *r)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// Program unit openers.

func (p *Parser) MatchProgram() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var name string
	if p.match(" program% %n%t", &name) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.ProgramStmt{Name: strings.ToLower(name)}
	st.Loc = at
	p.symtab.NewBlock(name, at)
	return st, Yes
}

func (p *Parser) MatchModule() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var name string
	if p.match(" module% %n%t", &name) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.ModuleStmt{Name: strings.ToLower(name)}
	st.Loc = at
	p.symtab.NewBlock(name, at)
	return st, Yes
}

// MatchSubmodule matches SUBMODULE (ancestor[:parent]) name.
func (p *Parser) MatchSubmodule() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var ancestor string
	if p.match(" submodule ( %n", &ancestor) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.SubmoduleStmt{Ancestor: strings.ToLower(ancestor)}
	st.Loc = at
	if p.MatchChar(':') == Yes {
		var parent string
		if p.match(" %n", &parent) != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Parent = strings.ToLower(parent)
	}
	var name string
	if p.match(" ) %n%t", &name) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Name = strings.ToLower(name)
	p.symtab.NewBlock(name, at)
	return st, Yes
}

func (p *Parser) MatchBlockData() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" block% data") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.BlockDataStmt{}
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

func (p *Parser) MatchContains() (ast.Statement, Match) {
	at := p.cur.Where()
	if p.match(" contains%t") != Yes {
		return nil, No
	}
	st := &ast.ContainsStmt{}
	st.Loc = at
	return st, Yes
}

// MatchSequence matches the SEQUENCE statement of a derived type body.
func (p *Parser) MatchSequence() (ast.Statement, Match) {
	at := p.cur.Where()
	if p.match(" sequence%t") != Yes {
		return nil, No
	}
	st := &ast.SequenceStmt{}
	st.Loc = at
	return st, Yes
}

// endWords maps the END keywords to their kinds, longest spellings
// first where one prefixes another.
var endWords = []struct {
	pattern string
	kind    ast.EndKind
}{
	{" block% data", ast.EndBlockData},
	{" blockdata", ast.EndBlockData},
	{" program", ast.EndProgram},
	{" submodule", ast.EndSubmodule},
	{" module", ast.EndModule},
	{" subroutine", ast.EndSubroutine},
	{" function", ast.EndFunction},
	{" procedure", ast.EndProcedure},
	{" type", ast.EndType},
	{" if", ast.EndIf},
	{" do", ast.EndDo},
	{" select", ast.EndSelect},
	{" where", ast.EndWhere},
	{" forall", ast.EndForall},
	{" associate", ast.EndAssociate},
	{" critical", ast.EndCritical},
	{" block", ast.EndBlock},
	{" structure", ast.EndStructure},
	{" union", ast.EndUnion},
	{" map", ast.EndMap},
}

// MatchEnd matches any END statement. Whether the kind and name agree
// with the enclosing construct is the dispatcher's check.
func (p *Parser) MatchEnd() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" end") != Yes {
		return nil, No
	}
	st := &ast.EndStmt{Kind: ast.EndOnly}
	st.Loc = at
	for _, w := range endWords {
		if p.match(w.pattern) == Yes {
			st.Kind = w.kind
			break
		}
	}
	if st.Kind != ast.EndOnly {
		var name string
		if p.match(" %n", &name) == Yes {
			st.Name = strings.ToLower(name)
		}
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}

// MatchGccAttributes matches the !GCC$ ATTRIBUTES directive body.
func (p *Parser) MatchGccAttributes() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" attributes") != Yes {
		return nil, No
	}
	st := &ast.GccAttributesStmt{}
	st.Loc = at
	for {
		name, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Attrs = append(st.Attrs, strings.ToLower(name))
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.match(" ::") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	for {
		name, m := p.matchName()
		if m != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Names = append(st.Names, strings.ToLower(name))
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return st, Yes
}
