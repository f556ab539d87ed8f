package fmatch

import (
	"github.com/fortgo/fmatch/ast"
	"github.com/fortgo/fmatch/token"
)

// The expression grammar is a fixed precedence ladder, lowest binding
// last: primary, level-1 (defined unary), exponentiation, multiplying,
// level-2 (signs, adding), concatenation, relational, .NOT., .AND.,
// .OR., .EQV./.NEQV., defined binary operators.

func unaryExpr(op token.Op, userOp string, operand ast.Expression, at ast.Loc) ast.Expression {
	e := &ast.Unary{Op: op, UserOp: userOp, Operand: operand}
	e.Loc = at
	return e
}

func binaryExpr(op token.Op, userOp string, l, r ast.Expression, at ast.Loc) ast.Expression {
	e := &ast.Binary{Op: op, UserOp: userOp, Left: l, Right: r}
	e.Loc = at
	return e
}

// nextOperator matches one specific intrinsic operator, restoring the
// cursor when a different one (or none) is present.
func (p *Parser) nextOperator(want token.Op) bool {
	cp := p.cur.Save()
	if op, m := p.matchIntrinsicOp(); m == Yes && op == want {
		return true
	}
	p.cur.Restore(cp)
	return false
}

// matchDefinedOperator matches a ".name." spelling that is not an
// intrinsic operator.
func (p *Parser) matchDefinedOperator() (string, Match) {
	return p.MatchDefinedOpName()
}

// matchLevel1 matches [defined-unary-op] primary.
func (p *Parser) matchLevel1() (ast.Expression, Match) {
	at := p.cur.Where()
	uop, m := p.matchDefinedOperator()
	if m == Err {
		return nil, Err
	}
	e, m2 := p.matchPrimary()
	if m2 != Yes {
		return nil, m2
	}
	if m == Yes {
		return unaryExpr(token.OpUser, uop, e, at), Yes
	}
	return e, Yes
}

// matchMultOperand matches level-1 [** mult-operand]; exponentiation
// associates to the right.
func (p *Parser) matchMultOperand() (ast.Expression, Match) {
	e, m := p.matchLevel1()
	if m != Yes {
		return nil, m
	}
	if !p.nextOperator(token.OpPower) {
		return e, Yes
	}
	at := p.cur.Where()
	exp, m := p.matchMultOperand()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.error("Expected exponent in expression at %s", at.String())
		p.cur.SkipToEOS()
		return nil, Err
	}
	return binaryExpr(token.OpPower, "", e, exp, at), Yes
}

func (p *Parser) matchAddOperand() (ast.Expression, Match) {
	e, m := p.matchMultOperand()
	if m != Yes {
		return nil, m
	}
	for {
		cp := p.cur.Save()
		var op token.Op
		switch {
		case p.nextOperator(token.OpTimes):
			op = token.OpTimes
		case p.nextOperator(token.OpDivide):
			op = token.OpDivide
		default:
			return e, Yes
		}
		at := p.cur.Where()
		rhs, m := p.matchMultOperand()
		if m == Err {
			return nil, Err
		}
		if m == No {
			// The operator belongs to the enclosing statement: a bare
			// '/' closes DATA value lists and (/ ... /) constructors.
			p.cur.Restore(cp)
			return e, Yes
		}
		e = binaryExpr(op, "", e, rhs, at)
	}
}

// matchLevel2 matches [+|-] add-operand { +|- add-operand }.
func (p *Parser) matchLevel2() (ast.Expression, Match) {
	at := p.cur.Where()
	sign := token.OpNone
	if p.nextOperator(token.OpPlus) {
		sign = token.OpUPlus
	} else if p.nextOperator(token.OpMinus) {
		sign = token.OpUMinus
	}
	e, m := p.matchAddOperand()
	if m == Err {
		return nil, Err
	}
	if m == No {
		if sign == token.OpNone {
			return nil, No
		}
		p.error("Expected an operand after sign at %s", at.String())
		p.cur.SkipToEOS()
		return nil, Err
	}
	if sign != token.OpNone {
		e = unaryExpr(sign, "", e, at)
	}
	for {
		cp := p.cur.Save()
		var op token.Op
		switch {
		case p.nextOperator(token.OpPlus):
			op = token.OpPlus
		case p.nextOperator(token.OpMinus):
			op = token.OpMinus
		default:
			return e, Yes
		}
		at = p.cur.Where()
		rhs, m := p.matchAddOperand()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return e, Yes
		}
		e = binaryExpr(op, "", e, rhs, at)
	}
}

// matchLevel3 matches level-2 { // level-2 }.
func (p *Parser) matchLevel3() (ast.Expression, Match) {
	e, m := p.matchLevel2()
	if m != Yes {
		return nil, m
	}
	for {
		cp := p.cur.Save()
		if !p.nextOperator(token.OpConcat) {
			return e, Yes
		}
		at := p.cur.Where()
		rhs, m := p.matchLevel2()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return e, Yes
		}
		e = binaryExpr(token.OpConcat, "", e, rhs, at)
	}
}

// matchLevel4 matches level-3 [relop level-3]. Relational operators do
// not chain.
func (p *Parser) matchLevel4() (ast.Expression, Match) {
	e, m := p.matchLevel3()
	if m != Yes {
		return nil, m
	}
	cp := p.cur.Save()
	op, m := p.matchIntrinsicOp()
	if m != Yes || !op.IsRelational() {
		p.cur.Restore(cp)
		return e, Yes
	}
	at := p.cur.Where()
	rhs, m := p.matchLevel3()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.cur.Restore(cp)
		return e, Yes
	}
	return binaryExpr(op, "", e, rhs, at), Yes
}

// matchAndOperand matches [.NOT.] level-4.
func (p *Parser) matchAndOperand() (ast.Expression, Match) {
	at := p.cur.Where()
	negate := p.nextOperator(token.OpNot)
	e, m := p.matchLevel4()
	if m == Err {
		return nil, Err
	}
	if m == No {
		if !negate {
			return nil, No
		}
		p.error("Expected an operand after .NOT. at %s", at.String())
		p.cur.SkipToEOS()
		return nil, Err
	}
	if negate {
		e = unaryExpr(token.OpNot, "", e, at)
	}
	return e, Yes
}

func (p *Parser) matchOrOperand() (ast.Expression, Match) {
	e, m := p.matchAndOperand()
	if m != Yes {
		return nil, m
	}
	for {
		cp := p.cur.Save()
		if !p.nextOperator(token.OpAnd) {
			return e, Yes
		}
		at := p.cur.Where()
		rhs, m := p.matchAndOperand()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return e, Yes
		}
		e = binaryExpr(token.OpAnd, "", e, rhs, at)
	}
}

func (p *Parser) matchEquivOperand() (ast.Expression, Match) {
	e, m := p.matchOrOperand()
	if m != Yes {
		return nil, m
	}
	for {
		cp := p.cur.Save()
		if !p.nextOperator(token.OpOr) {
			return e, Yes
		}
		at := p.cur.Where()
		rhs, m := p.matchOrOperand()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return e, Yes
		}
		e = binaryExpr(token.OpOr, "", e, rhs, at)
	}
}

// matchLevel5 matches equiv-operand { .EQV.|.NEQV. equiv-operand }.
func (p *Parser) matchLevel5() (ast.Expression, Match) {
	e, m := p.matchEquivOperand()
	if m != Yes {
		return nil, m
	}
	for {
		cp := p.cur.Save()
		var op token.Op
		switch {
		case p.nextOperator(token.OpEqv):
			op = token.OpEqv
		case p.nextOperator(token.OpNeqv):
			op = token.OpNeqv
		default:
			return e, Yes
		}
		at := p.cur.Where()
		rhs, m := p.matchEquivOperand()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return e, Yes
		}
		e = binaryExpr(op, "", e, rhs, at)
	}
}

// MatchExpr matches a full expression: level-5 fragments joined by
// defined binary operators.
func (p *Parser) MatchExpr() (ast.Expression, Match) {
	e, m := p.matchLevel5()
	if m != Yes {
		return nil, m
	}
	for {
		cp := p.cur.Save()
		uop, m := p.matchDefinedOperator()
		if m == Err {
			return nil, Err
		}
		if m == No {
			return e, Yes
		}
		at := p.cur.Where()
		rhs, m := p.matchLevel5()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return e, Yes
		}
		e = binaryExpr(token.OpUser, uop, e, rhs, at)
	}
}

// MatchInitExpr matches an expression in an initialization context.
// Whether the result is in fact constant is checked downstream, so the
// grammar is the same as MatchExpr.
func (p *Parser) MatchInitExpr() (ast.Expression, Match) {
	return p.MatchExpr()
}

// MatchScalarExpr matches an expression required to be scalar; rank
// checking is not a matching-time concern.
func (p *Parser) MatchScalarExpr() (ast.Expression, Match) {
	return p.MatchExpr()
}
