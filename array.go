package fmatch

import (
	"github.com/fortgo/fmatch/ast"
)

// maxRank caps the number of dimensions an array-spec may declare.
const maxRank = 15

// dimShape classifies a single dimension while the full spec kind is
// still undecided.
type dimShape int

const (
	dimUpperOnly dimShape = iota // "n"
	dimExplicit                  // "lo:hi"
	dimAssumed                   // "lo:"
	dimDeferred                  // ":"
	dimStar                      // "*" or "lo:*"
	dimRank                      // ".."
)

func (p *Parser) matchArrayDim() (ast.ArrayBound, dimShape, Match) {
	var b ast.ArrayBound
	cp := p.cur.Save()
	if p.MatchChar('.') == Yes {
		if p.MatchChar('.') == Yes {
			return b, dimRank, Yes
		}
		p.cur.Restore(cp)
	}
	if p.MatchChar('*') == Yes {
		return b, dimStar, Yes
	}
	if e, m := p.MatchExpr(); m == Err {
		return b, 0, Err
	} else if m == Yes {
		b.Lower = e
	}
	if p.MatchChar(':') != Yes {
		if b.Lower == nil {
			return b, 0, No
		}
		b.Upper, b.Lower = b.Lower, nil
		return b, dimUpperOnly, Yes
	}
	if b.Lower == nil {
		// A bare ':' declares a deferred dimension; anything after it
		// belongs to the next alternative.
		if e, m := p.MatchExpr(); m == Err {
			return b, 0, Err
		} else if m == Yes {
			b.Upper = e
			return b, dimExplicit, Yes
		}
		return b, dimDeferred, Yes
	}
	if p.MatchChar('*') == Yes {
		return b, dimStar, Yes
	}
	if e, m := p.MatchExpr(); m == Err {
		return b, 0, Err
	} else if m == Yes {
		b.Upper = e
		return b, dimExplicit, Yes
	}
	return b, dimAssumed, Yes
}

// MatchArraySpec matches a parenthesized array specification and
// classifies it as explicit, assumed-shape, deferred, assumed-size or
// assumed-rank.
func (p *Parser) MatchArraySpec() (*ast.ArraySpec, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.MatchChar('(') != Yes {
		return nil, No
	}
	spec, m := p.matchArraySpecBody(at, ')')
	if m != Yes {
		if m == No {
			p.cur.Restore(cp)
		}
		return nil, m
	}
	return spec, Yes
}

// MatchCoarraySpec matches a bracketed coarray specification. The
// final codimension must be '*' or 'lo:*'.
func (p *Parser) MatchCoarraySpec() (*ast.ArraySpec, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.MatchChar('[') != Yes {
		return nil, No
	}
	spec, m := p.matchArraySpecBody(at, ']')
	if m != Yes {
		if m == No {
			p.cur.Restore(cp)
		}
		return nil, m
	}
	if spec.Kind != ast.ArraySpecAssumedSize && spec.Kind != ast.ArraySpecDeferred {
		p.errorAt(at, "Coarray specification at %s must end in '*' or ':'", at.String())
		p.cur.SkipToEOS()
		return nil, Err
	}
	return spec, Yes
}

func (p *Parser) matchArraySpecBody(at ast.Loc, closer rune) (*ast.ArraySpec, Match) {
	spec := &ast.ArraySpec{}
	var shapes []dimShape
	for {
		b, sh, m := p.matchArrayDim()
		if m == Err {
			return nil, Err
		}
		if m == No {
			return nil, No
		}
		spec.Bounds = append(spec.Bounds, b)
		shapes = append(shapes, sh)
		if len(spec.Bounds) > maxRank {
			p.errorAt(at, "Array specification at %s has more than %d dimensions", at.String(), maxRank)
			p.cur.SkipToEOS()
			return nil, Err
		}
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchChar(closer) != Yes {
		return nil, No
	}
	kind, ok := classifySpec(shapes)
	if !ok {
		p.errorAt(at, "Bad array specification at %s", at.String())
		p.cur.SkipToEOS()
		return nil, Err
	}
	spec.Kind = kind
	return spec, Yes
}

// classifySpec decides the spec kind from the per-dimension shapes.
// Dimensions must agree: explicit bounds cannot mix with deferred
// ones, '*' is only legal in the last slot, '..' must stand alone.
func classifySpec(shapes []dimShape) (ast.ArraySpecKind, bool) {
	last := len(shapes) - 1
	for i, sh := range shapes {
		if sh == dimRank {
			if len(shapes) != 1 {
				return 0, false
			}
			return ast.ArraySpecAssumedRank, true
		}
		if sh == dimStar && i != last {
			return 0, false
		}
	}
	if shapes[last] == dimStar {
		for _, sh := range shapes[:last] {
			if sh != dimExplicit && sh != dimUpperOnly {
				return 0, false
			}
		}
		return ast.ArraySpecAssumedSize, true
	}
	deferred, assumed, explicit := 0, 0, 0
	for _, sh := range shapes {
		switch sh {
		case dimDeferred:
			deferred++
		case dimAssumed:
			assumed++
		default:
			explicit++
		}
	}
	switch {
	case explicit == len(shapes):
		return ast.ArraySpecExplicit, true
	case deferred == len(shapes):
		return ast.ArraySpecDeferred, true
	case explicit == 0:
		return ast.ArraySpecAssumedShape, true
	}
	return 0, false
}

// matchACValue matches one array constructor element: a nested
// implied-do or an expression.
func (p *Parser) matchACValue() (ast.Expression, Match) {
	if e, m := p.matchACImpliedDo(); m != No {
		return e, m
	}
	return p.MatchExpr()
}

// matchACImpliedDo matches "(values, var = start, end [, step])".
func (p *Parser) matchACImpliedDo() (ast.Expression, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.MatchChar('(') != Yes {
		return nil, No
	}
	var vals []ast.Expression
	for {
		if it, m := p.MatchIterator(false); m == Err {
			return nil, Err
		} else if m == Yes {
			if len(vals) == 0 || p.MatchChar(')') != Yes {
				p.cur.Restore(cp)
				return nil, No
			}
			e := &ast.ImpliedDo{Values: vals, Iter: *it}
			e.Loc = at
			return e, Yes
		}
		v, m := p.matchACValue()
		if m == Err {
			return nil, Err
		}
		if m == No || p.MatchChar(',') != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		vals = append(vals, v)
	}
}

// MatchArrayConstructor matches "(/ ... /)" and "[ ... ]" array
// constructors, with an optional embedded type-spec.
func (p *Parser) MatchArrayConstructor() (ast.Expression, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	var closer string
	switch {
	case p.MatchChar('[') == Yes:
		closer = " ]"
	case p.match(" (/") == Yes:
		closer = " /)"
	default:
		return nil, No
	}
	ac := &ast.ArrayCtor{}
	ac.Loc = at
	tcp := p.cur.Save()
	if ts, m := p.MatchTypeSpec(); m == Yes && p.match(" ::") == Yes {
		ac.TypeSpec = ts
	} else if m == Err {
		return nil, Err
	} else {
		p.cur.Restore(tcp)
	}
	if p.match(closer) == Yes {
		if ac.TypeSpec == nil {
			// Only a typed constructor may be empty.
			p.errorAt(at, "Empty array constructor at %s is not allowed", at.String())
			p.cur.SkipToEOS()
			return nil, Err
		}
		return ac, Yes
	}
	for {
		v, m := p.matchACValue()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		ac.Values = append(ac.Values, v)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.match(closer) != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return ac, Yes
}
