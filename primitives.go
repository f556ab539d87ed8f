package fmatch

import (
	"strings"

	"github.com/fortgo/fmatch/ast"
	"github.com/fortgo/fmatch/symbol"
	"github.com/fortgo/fmatch/token"
)

// maxNameLen bounds Fortran names per the 2008 standard.
const maxNameLen = 63

// MatchSpace matches whitespace between tokens. In fixed form blanks
// are insignificant, so it always succeeds there; in free form at
// least one blank is required.
func (p *Parser) MatchSpace() Match {
	if p.opts.Form == FormFixed {
		p.skipSpace()
		return Yes
	}
	c := p.cur.Peek()
	if c != ' ' && c != '\t' {
		return No
	}
	p.skipSpace()
	return Yes
}

// MatchEOS matches the logical end of the statement.
func (p *Parser) MatchEOS() Match {
	cp := p.cur.Save()
	p.skipSpace()
	if p.cur.AtEOS() {
		return Yes
	}
	p.cur.Restore(cp)
	return No
}

// MatchChar matches a single character, skipping leading blanks.
func (p *Parser) MatchChar(want rune) Match {
	cp := p.cur.Save()
	p.skipSpace()
	if p.peekCh() != want {
		p.cur.Restore(cp)
		return No
	}
	p.nextCh()
	return Yes
}

// MatchName matches a Fortran name: a letter followed by letters,
// digits and underscores.
func (p *Parser) MatchName() (string, Match) {
	return p.matchName()
}

func (p *Parser) matchName() (string, Match) {
	cp := p.cur.Save()
	p.skipSpace()
	if !isLetter(p.peekCh()) {
		p.cur.Restore(cp)
		return "", No
	}
	var sb strings.Builder
	for isNameChar(p.peekCh()) {
		sb.WriteRune(p.nextCh())
		if sb.Len() > maxNameLen {
			p.error("Name at %s is too long", p.cur.Where().String())
			p.cur.SkipToEOS()
			return "", Err
		}
	}
	return sb.String(), Yes
}

// MatchSymbol matches a name and enters it in the symbol table.
func (p *Parser) MatchSymbol() (*symbol.Symbol, Match) {
	at := p.cur.Where()
	name, m := p.matchName()
	if m != Yes {
		return nil, m
	}
	sym, _ := p.symtab.Lookup(name, at)
	return sym, Yes
}

// MatchStLabel matches a reference to a statement label: one to five
// digits, nonzero.
func (p *Parser) MatchStLabel() (int, Match) {
	cp := p.cur.Save()
	p.skipSpace()
	if !isDigit(p.peekCh()) {
		p.cur.Restore(cp)
		return 0, No
	}
	at := p.cur.Where()
	value, digits := 0, 0
	for isDigit(p.peekCh()) {
		value = value*10 + int(p.nextCh()-'0')
		if digits++; digits > 5 {
			p.errorAt(at, "Too many digits in statement label at %s", at.String())
			p.cur.SkipToEOS()
			return 0, Err
		}
	}
	if value == 0 {
		p.errorAt(at, "Statement label at %s is zero", at.String())
		p.cur.SkipToEOS()
		return 0, Err
	}
	return value, Yes
}

// MatchLabel matches a construct name definition, "name:". The colon
// must not be part of a "::" separator. The name enters the symbol
// table only once a construct opener claims it; until then the match
// is purely syntactic.
func (p *Parser) MatchLabel() (string, Match) {
	cp := p.cur.Save()
	name, m := p.matchName()
	if m != Yes {
		return "", m
	}
	if p.MatchChar(':') != Yes || p.peekCh() == ':' {
		p.cur.Restore(cp)
		return "", No
	}
	return name, Yes
}

// MatchSmallLiteralInt matches an unsigned digit string that fits in
// an int. digits reports how many digits were consumed.
func (p *Parser) MatchSmallLiteralInt() (value, digits int, m Match) {
	cp := p.cur.Save()
	p.skipSpace()
	if !isDigit(p.peekCh()) {
		p.cur.Restore(cp)
		return 0, 0, No
	}
	at := p.cur.Where()
	for isDigit(p.peekCh()) {
		d := int(p.nextCh() - '0')
		if value > (1<<31-1-d)/10 {
			p.errorAt(at, "Integer too big for its kind at %s", at.String())
			p.cur.SkipToEOS()
			return 0, 0, Err
		}
		value = value*10 + d
		digits++
	}
	return value, digits, Yes
}

// MatchSmallInt matches an expression that must reduce to a small
// integer constant.
func (p *Parser) MatchSmallInt() (int, Match) {
	v, _, m := p.MatchSmallIntExpr()
	return v, m
}

// MatchSmallIntExpr matches an expression, requires it to be a small
// integer constant and returns both the value and the expression.
func (p *Parser) MatchSmallIntExpr() (int, ast.Expression, Match) {
	at := p.cur.Where()
	e, m := p.MatchExpr()
	if m != Yes {
		return 0, nil, m
	}
	v, ok := extractInt(e)
	if !ok {
		p.errorAt(at, "Expected a small integer constant at %s", at.String())
		p.cur.SkipToEOS()
		return 0, nil, Err
	}
	return v, e, Yes
}

// extractInt reduces a constant expression to an int. Only literal
// integers, possibly signed or parenthesized, qualify here.
func extractInt(e ast.Expression) (int, bool) {
	switch x := e.(type) {
	case *ast.IntLit:
		return int(x.Value), true
	case *ast.Paren:
		return extractInt(x.Inner)
	case *ast.Unary:
		v, ok := extractInt(x.Operand)
		if !ok {
			return 0, false
		}
		if x.Op == token.OpUMinus {
			return -v, true
		}
		if x.Op == token.OpUPlus {
			return v, true
		}
	}
	return 0, false
}

// MatchIntrinsicOp matches an intrinsic operator, either its symbolic
// or its dotted spelling.
func (p *Parser) MatchIntrinsicOp() (token.Op, Match) {
	return p.matchIntrinsicOp()
}

func (p *Parser) matchIntrinsicOp() (token.Op, Match) {
	cp := p.cur.Save()
	p.skipSpace()
	switch c := p.peekCh(); c {
	case '*':
		p.nextCh()
		if p.peekCh() == '*' {
			p.nextCh()
			return token.OpPower, Yes
		}
		return token.OpTimes, Yes
	case '/':
		p.nextCh()
		switch p.peekCh() {
		case '/':
			p.nextCh()
			return token.OpConcat, Yes
		case '=':
			p.nextCh()
			return token.OpNE, Yes
		}
		return token.OpDivide, Yes
	case '+':
		p.nextCh()
		return token.OpPlus, Yes
	case '-':
		p.nextCh()
		return token.OpMinus, Yes
	case '=':
		if p.cursorPeek2() == '=' {
			p.nextCh()
			p.nextCh()
			return token.OpEQ, Yes
		}
	case '<':
		p.nextCh()
		if p.peekCh() == '=' {
			p.nextCh()
			return token.OpLE, Yes
		}
		return token.OpLT, Yes
	case '>':
		p.nextCh()
		if p.peekCh() == '=' {
			p.nextCh()
			return token.OpGE, Yes
		}
		return token.OpGT, Yes
	case '.':
		p.nextCh()
		var sb strings.Builder
		for isLetter(p.peekCh()) {
			sb.WriteRune(p.nextCh())
		}
		if sb.Len() > 0 && p.peekCh() == '.' {
			if op := token.LookupDotOp([]byte(sb.String())); op != token.OpNone && op != token.OpUser {
				p.nextCh()
				return op, Yes
			}
		}
	}
	p.cur.Restore(cp)
	return token.OpNone, No
}

// cursorPeek2 peeks one significant character past the current one.
func (p *Parser) cursorPeek2() rune {
	cp := p.cur.Save()
	p.nextCh()
	c := p.peekCh()
	p.cur.Restore(cp)
	return c
}

// MatchDefinedOpName matches ".name." for a user-defined operator.
// Intrinsic spellings and logical literals do not qualify.
func (p *Parser) MatchDefinedOpName() (string, Match) {
	cp := p.cur.Save()
	p.skipSpace()
	at := p.cur.Where()
	if p.peekCh() != '.' {
		p.cur.Restore(cp)
		return "", No
	}
	p.nextCh()
	var sb strings.Builder
	for isLetter(p.peekCh()) || isDigit(p.peekCh()) || p.peekCh() == '_' {
		sb.WriteRune(p.nextCh())
	}
	name := sb.String()
	if name == "" || p.peekCh() != '.' {
		p.cur.Restore(cp)
		return "", No
	}
	p.nextCh()
	for _, r := range name {
		if !isLetter(r) {
			p.errorAt(at, "Defined operator at %s must be a sequence of letters", at.String())
			p.cur.SkipToEOS()
			return "", Err
		}
	}
	if len(name) > maxNameLen {
		p.errorAt(at, "Name at %s is too long", at.String())
		p.cur.SkipToEOS()
		return "", Err
	}
	low := strings.ToLower(name)
	if op := token.LookupDotOp([]byte(name)); op != token.OpNone && op != token.OpUser {
		p.cur.Restore(cp)
		return "", No
	}
	if low == "true" || low == "false" {
		p.cur.Restore(cp)
		return "", No
	}
	return low, Yes
}

// MatchMemberSep matches the separator before a structure component:
// '%', or '.' when DEC structures are enabled and the dot does not
// start an operator.
func (p *Parser) MatchMemberSep() Match {
	cp := p.cur.Save()
	p.skipSpace()
	switch p.peekCh() {
	case '%':
		p.nextCh()
		return Yes
	case '.':
		if !p.opts.DECExtensions {
			break
		}
		if _, m := p.MatchDefinedOpName(); m == Yes {
			p.cur.Restore(cp)
			return No
		}
		p.cur.Restore(cp)
		if _, m := p.matchIntrinsicOp(); m == Yes {
			p.cur.Restore(cp)
			return No
		}
		p.skipSpace()
		p.nextCh()
		after := p.cur.Save()
		var sb strings.Builder
		for isLetter(p.peekCh()) {
			sb.WriteRune(p.nextCh())
		}
		if sb.Len() == 0 {
			break
		}
		low := strings.ToLower(sb.String())
		if p.peekCh() == '.' && (low == "true" || low == "false") {
			p.cur.Restore(cp)
			return No
		}
		p.cur.Restore(after)
		return Yes
	}
	p.cur.Restore(cp)
	return No
}

// MatchIterator matches "var = start, end [, step]". initFlag permits
// the form used in DATA implied-do lists, where the variable may be a
// subobject designator.
func (p *Parser) MatchIterator(initFlag bool) (*ast.Iterator, Match) {
	cp := p.cur.Save()
	var name string
	if m := p.match(" %n =", &name); m != Yes {
		p.cur.Restore(cp)
		return nil, m
	}
	start, m := p.MatchExpr()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.cur.Restore(cp)
		return nil, No
	}
	if p.MatchChar(',') != Yes {
		// "var = expr" with no comma is an assignment, not an iterator.
		p.cur.Restore(cp)
		return nil, No
	}
	end, m := p.MatchExpr()
	if m != Yes {
		p.error("Expected a final value in iterator at %s", p.cur.Where().String())
		p.cur.SkipToEOS()
		return nil, Err
	}
	it := &ast.Iterator{Var: name, Start: start, End: end}
	if p.MatchChar(',') == Yes {
		step, m := p.MatchExpr()
		if m != Yes {
			p.error("Expected a step value in iterator at %s", p.cur.Where().String())
			p.cur.SkipToEOS()
			return nil, Err
		}
		it.Step = step
	}
	_ = initFlag
	return it, Yes
}

// MatchParens verifies that the parentheses in the rest of the
// statement balance. The cursor does not move.
func (p *Parser) MatchParens() Match {
	cp := p.cur.Save()
	depth := 0
	var quote rune
	for !p.cur.AtEOS() {
		c := p.cur.Advance()
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		}
	}
	p.cur.Restore(cp)
	switch {
	case depth > 0:
		p.error("Missing ')' in statement at or before %s", p.cur.Where().String())
		return Err
	case depth < 0:
		p.error("Missing '(' in statement at or before %s", p.cur.Where().String())
		return Err
	}
	return Yes
}
