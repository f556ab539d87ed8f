package fmatch

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fortgo/fmatch/ast"
	"github.com/fortgo/fmatch/symbol"
)

// matchKindSuffix matches the "_kind" tail of a literal. A lone
// underscore with no kind parameter is malformed.
func (p *Parser) matchKindSuffix() (string, Match) {
	cp := p.cur.Save()
	if p.peekCh() != '_' {
		return "", No
	}
	p.nextCh()
	at := p.cur.Where()
	if isDigit(p.peekCh()) {
		var sb strings.Builder
		for isDigit(p.peekCh()) {
			sb.WriteRune(p.nextCh())
		}
		return sb.String(), Yes
	}
	if name, m := p.matchName(); m == Yes {
		return name, Yes
	} else if m == Err {
		return "", Err
	}
	p.cur.Restore(cp)
	p.errorAt(at, "Missing kind-parameter at %s", at.String())
	p.cur.SkipToEOS()
	return "", Err
}

// dotStartsOperator reports whether the '.' at the cursor begins a
// ".letters." operator rather than a decimal point.
func (p *Parser) dotStartsOperator() bool {
	cp := p.cur.Save()
	defer p.cur.Restore(cp)
	if p.peekCh() != '.' {
		return false
	}
	p.nextCh()
	n := 0
	for isLetter(p.peekCh()) {
		p.nextCh()
		n++
	}
	return n > 0 && p.peekCh() == '.'
}

// matchIntegerConstant matches an unsigned integer literal with an
// optional kind suffix.
func (p *Parser) matchIntegerConstant(signOK bool) (ast.Expression, Match) {
	cp := p.cur.Save()
	p.skipSpace()
	at := p.cur.Where()
	neg := false
	if signOK {
		switch p.peekCh() {
		case '-':
			neg = true
			p.nextCh()
		case '+':
			p.nextCh()
		}
		p.skipSpace()
	}
	if !isDigit(p.peekCh()) {
		p.cur.Restore(cp)
		return nil, No
	}
	var v int64
	for isDigit(p.peekCh()) {
		d := int64(p.nextCh() - '0')
		if v > (1<<62)/10 {
			p.errorAt(at, "Integer too big for its kind at %s", at.String())
			p.cur.SkipToEOS()
			return nil, Err
		}
		v = v*10 + d
	}
	kind, m := p.matchKindSuffix()
	if m == Err {
		return nil, Err
	}
	if neg {
		v = -v
	}
	e := &ast.IntLit{Value: v, Kind: kind}
	e.Loc = at
	return e, Yes
}

// matchRealConstant matches a real literal: it needs a decimal point
// or an exponent to be one. A '.' that starts a dotted operator ends
// the literal.
func (p *Parser) matchRealConstant(signOK bool) (ast.Expression, Match) {
	cp := p.cur.Save()
	p.skipSpace()
	at := p.cur.Where()
	var raw strings.Builder
	if signOK {
		switch p.peekCh() {
		case '-', '+':
			raw.WriteRune(p.nextCh())
		}
		p.skipSpace()
	}
	seenDigit, seenDP := false, false
	for {
		c := p.peekCh()
		if isDigit(c) {
			raw.WriteRune(p.nextCh())
			seenDigit = true
			continue
		}
		if c == '.' && !seenDP && !p.dotStartsOperator() {
			raw.WriteRune(p.nextCh())
			seenDP = true
			continue
		}
		break
	}
	if !seenDigit {
		p.cur.Restore(cp)
		return nil, No
	}
	expLetter := lower(p.peekCh())
	hasExp := expLetter == 'e' || expLetter == 'd' || expLetter == 'q'
	if hasExp {
		save := p.cur.Save()
		p.nextCh()
		raw.WriteRune(expLetter)
		switch p.peekCh() {
		case '+', '-':
			raw.WriteRune(p.nextCh())
		}
		if !isDigit(p.peekCh()) {
			// "1.e" with no digits: the letter was not an exponent.
			p.cur.Restore(save)
			hasExp = false
			s := raw.String()
			raw.Reset()
			raw.WriteString(strings.TrimRight(s, "+-edq"))
		} else {
			for isDigit(p.peekCh()) {
				raw.WriteRune(p.nextCh())
			}
		}
	}
	if !seenDP && !hasExp {
		p.cur.Restore(cp)
		return nil, No
	}
	kind, m := p.matchKindSuffix()
	if m == Err {
		return nil, Err
	}
	spelling := raw.String()
	norm := strings.Map(func(r rune) rune {
		if r == 'd' || r == 'q' {
			return 'e'
		}
		return r
	}, spelling)
	val, err := decimal.NewFromString(norm)
	if err != nil {
		p.errorAt(at, "Invalid real literal at %s", at.String())
		p.cur.SkipToEOS()
		return nil, Err
	}
	e := &ast.RealLit{Value: val, Raw: spelling, Kind: kind}
	e.Loc = at
	return e, Yes
}

// matchBozConstant matches B'...', O'...', Z'...' (or X'...') literals.
func (p *Parser) matchBozConstant() (ast.Expression, Match) {
	cp := p.cur.Save()
	p.skipSpace()
	at := p.cur.Where()
	base := 0
	switch lower(p.peekCh()) {
	case 'b':
		base = 2
	case 'o':
		base = 8
	case 'z', 'x':
		base = 16
	default:
		return nil, No
	}
	p.nextCh()
	quote := p.cur.Peek()
	if quote != '\'' && quote != '"' {
		p.cur.Restore(cp)
		return nil, No
	}
	p.cur.Advance()
	var sb strings.Builder
	for {
		c := p.cur.Advance()
		if c == 0 {
			p.errorAt(at, "Unterminated BOZ literal at %s", at.String())
			p.cur.SkipToEOS()
			return nil, Err
		}
		if c == quote {
			break
		}
		sb.WriteRune(c)
	}
	digits := sb.String()
	if digits == "" {
		p.errorAt(at, "Empty set of digits in BOZ literal at %s", at.String())
		p.cur.SkipToEOS()
		return nil, Err
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		p.errorAt(at, "Illegal digit in BOZ literal at %s", at.String())
		p.cur.SkipToEOS()
		return nil, Err
	}
	e := &ast.BOZLit{Value: v, Base: base}
	e.Loc = at
	return e, Yes
}

// matchCharConstant matches a character literal with an optional
// leading kind parameter ("kind_'text'"). Doubled quotes embed the
// delimiter; blanks inside the literal are always significant.
func (p *Parser) matchCharConstant() (ast.Expression, Match) {
	cp := p.cur.Save()
	p.skipSpace()
	at := p.cur.Where()
	kind := ""
	if isLetter(p.peekCh()) || isDigit(p.peekCh()) {
		var sb strings.Builder
		for isNameChar(p.peekCh()) {
			sb.WriteRune(p.nextCh())
		}
		s := sb.String()
		if !strings.HasSuffix(s, "_") {
			p.cur.Restore(cp)
			return nil, No
		}
		kind = strings.TrimSuffix(s, "_")
		if kind == "" {
			p.cur.Restore(cp)
			return nil, No
		}
	}
	quote := p.cur.Peek()
	if quote != '\'' && quote != '"' {
		p.cur.Restore(cp)
		return nil, No
	}
	p.cur.Advance()
	var sb strings.Builder
	for {
		c := p.cur.Advance()
		if c == 0 {
			p.errorAt(at, "Unterminated character literal at %s", at.String())
			p.cur.SkipToEOS()
			return nil, Err
		}
		if c == quote {
			if p.cur.Peek() == quote {
				p.cur.Advance()
				sb.WriteRune(quote)
				continue
			}
			break
		}
		sb.WriteRune(c)
	}
	e := &ast.StringLit{Value: sb.String(), Kind: kind}
	e.Loc = at
	return e, Yes
}

// matchLogicalConstant matches .TRUE. or .FALSE. with an optional kind
// suffix.
func (p *Parser) matchLogicalConstant() (ast.Expression, Match) {
	cp := p.cur.Save()
	p.skipSpace()
	at := p.cur.Where()
	if p.peekCh() != '.' {
		return nil, No
	}
	p.nextCh()
	var sb strings.Builder
	for isLetter(p.peekCh()) {
		sb.WriteRune(p.nextCh())
	}
	if p.peekCh() != '.' {
		p.cur.Restore(cp)
		return nil, No
	}
	value, ok := tokenLogical(sb.String())
	if !ok {
		p.cur.Restore(cp)
		return nil, No
	}
	p.nextCh()
	kind, m := p.matchKindSuffix()
	if m == Err {
		return nil, Err
	}
	e := &ast.LogicalLit{Value: value, Kind: kind}
	e.Loc = at
	return e, Yes
}

func tokenLogical(name string) (bool, bool) {
	switch strings.ToLower(name) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// matchComplexPart matches one half of a complex literal: a signed
// numeric literal or a named constant.
func (p *Parser) matchComplexPart() (ast.Expression, Match) {
	if e, m := p.matchRealConstant(true); m != No {
		return e, m
	}
	if e, m := p.matchIntegerConstant(true); m != No {
		return e, m
	}
	at := p.cur.Where()
	if name, m := p.matchName(); m == Yes {
		e := &ast.VarRef{Name: strings.ToLower(name)}
		e.Loc = at
		return e, Yes
	} else if m == Err {
		return nil, Err
	}
	return nil, No
}

// matchComplexConstant matches "(part, part)".
func (p *Parser) matchComplexConstant() (ast.Expression, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.MatchChar('(') != Yes {
		return nil, No
	}
	re, m := p.matchComplexPart()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchChar(',') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	im, m := p.matchComplexPart()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	e := &ast.ComplexLit{Re: re, Im: im}
	e.Loc = at
	return e, Yes
}

// MatchLiteralConstant matches any literal constant. signOK permits a
// leading sign on numeric literals, which is only legal in a few
// contexts (DATA values, complex parts).
func (p *Parser) MatchLiteralConstant(signOK bool) (ast.Expression, Match) {
	if e, m := p.matchComplexConstant(); m != No {
		return e, m
	}
	if e, m := p.matchBozConstant(); m != No {
		return e, m
	}
	// Character literals go before numeric ones so a kind-prefixed
	// string like 4_'abc' is not mistaken for an integer with a
	// malformed kind suffix.
	if e, m := p.matchCharConstant(); m != No {
		return e, m
	}
	if e, m := p.matchRealConstant(signOK); m != No {
		return e, m
	}
	if e, m := p.matchIntegerConstant(signOK); m != No {
		return e, m
	}
	return p.matchLogicalConstant()
}

// MatchNull matches the NULL([mold]) pointer initializer.
func (p *Parser) MatchNull() (ast.Expression, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" null (") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	e := &ast.Null{}
	e.Loc = at
	if p.MatchChar(')') == Yes {
		return e, Yes
	}
	mold, m := p.MatchVariable()
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	e.Mold = mold
	return e, Yes
}

// matchSection matches one dimension of a subscript list: a plain
// subscript, or a section "lo:hi[:stride]" with any part omitted.
func (p *Parser) matchSection() (*ast.Section, Match) {
	s := &ast.Section{}
	if e, m := p.MatchExpr(); m == Err {
		return nil, Err
	} else if m == Yes {
		s.Start = e
	}
	if p.MatchChar(':') != Yes {
		if s.Start == nil {
			return nil, No
		}
		return s, Yes
	}
	s.Colon = true
	if e, m := p.MatchExpr(); m == Err {
		return nil, Err
	} else if m == Yes {
		s.End = e
	}
	if p.MatchChar(':') == Yes {
		e, m := p.MatchExpr()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.error("Expected a stride after ':' at %s", p.cur.Where().String())
			p.cur.SkipToEOS()
			return nil, Err
		}
		s.Stride = e
	}
	return s, Yes
}

// matchRefTail parses the reference tail of a designator: subscript
// lists, component selections and substring ranges.
func (p *Parser) matchRefTail() ([]ast.Ref, Match) {
	var refs []ast.Ref
	for {
		cp := p.cur.Save()
		if p.MatchChar('(') == Yes {
			ir := &ast.IndexRef{}
			if p.MatchChar(')') == Yes {
				// Empty parens belong to a function reference, which the
				// caller recognizes; back out.
				p.cur.Restore(cp)
				return refs, Yes
			}
			for {
				s, m := p.matchSection()
				if m == Err {
					return nil, Err
				}
				if m == No {
					p.cur.Restore(cp)
					return refs, Yes
				}
				ir.Dims = append(ir.Dims, *s)
				if p.MatchChar(',') == Yes {
					continue
				}
				break
			}
			if p.MatchChar(')') != Yes {
				p.cur.Restore(cp)
				return refs, Yes
			}
			refs = append(refs, ir)
			continue
		}
		if p.MatchMemberSep() == Yes {
			name, m := p.matchName()
			if m == Err {
				return nil, Err
			}
			if m == No {
				p.error("Expected a component name at %s", p.cur.Where().String())
				p.cur.SkipToEOS()
				return nil, Err
			}
			refs = append(refs, &ast.ComponentRef{Name: strings.ToLower(name)})
			continue
		}
		return refs, Yes
	}
}

// MatchVariable matches a designator usable on the left of an
// assignment: name plus subscript, component and substring tails.
func (p *Parser) MatchVariable() (ast.Expression, Match) {
	cp := p.cur.Save()
	p.skipSpace()
	at := p.cur.Where()
	name, m := p.matchName()
	if m != Yes {
		return nil, m
	}
	refs, m := p.matchRefTail()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.cur.Restore(cp)
		return nil, No
	}
	e := &ast.VarRef{Name: strings.ToLower(name), Refs: refs}
	e.Loc = at
	return e, Yes
}

// matchActualArg matches one actual argument: [keyword =] expr, or an
// alternate-return label "*nnn" when subFlag holds.
func (p *Parser) matchActualArg(subFlag bool) (ast.ActualArg, Match) {
	var arg ast.ActualArg
	cp := p.cur.Save()
	var kw string
	if p.match(" %n =", &kw) == Yes && p.peekCh() != '=' {
		arg.Keyword = strings.ToLower(kw)
	} else {
		p.cur.Restore(cp)
	}
	if subFlag && p.MatchChar('*') == Yes {
		lab, m := p.MatchStLabel()
		if m == Err {
			return arg, Err
		}
		if m == Yes {
			arg.AltReturn = lab
			return arg, Yes
		}
		p.cur.Restore(cp)
		return arg, No
	}
	e, m := p.MatchExpr()
	if m != Yes {
		p.cur.Restore(cp)
		return arg, m
	}
	arg.Value = e
	return arg, Yes
}

// MatchActualArglist matches a parenthesized actual argument list.
// subFlag permits alternate-return specifiers.
func (p *Parser) MatchActualArglist(subFlag bool) ([]ast.ActualArg, Match) {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return nil, No
	}
	var args []ast.ActualArg
	if p.MatchChar(')') == Yes {
		return args, Yes
	}
	for {
		arg, m := p.matchActualArg(subFlag)
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		args = append(args, arg)
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

// MatchStructureCtor matches the argument list of a structure
// constructor for an already-consumed type name.
func (p *Parser) MatchStructureCtor(typeName string, at ast.Loc) (ast.Expression, Match) {
	args, m := p.MatchActualArglist(false)
	if m != Yes {
		return nil, m
	}
	e := &ast.StructCtor{TypeName: strings.ToLower(typeName), Args: args}
	e.Loc = at
	return e, Yes
}

// matchRvalue matches a name-headed primary: a designator, a function
// reference or a structure constructor. Which of the three it really
// is often cannot be decided here; designators subsume array elements
// and single-argument function references, so resolution happens
// downstream.
func (p *Parser) matchRvalue() (ast.Expression, Match) {
	cp := p.cur.Save()
	p.skipSpace()
	at := p.cur.Where()
	name, m := p.matchName()
	if m != Yes {
		return nil, m
	}
	if sym, ok := p.symtab.Find(name); ok {
		if sym.Flavor() == symbol.FlavorDerivedType {
			if e, m := p.MatchStructureCtor(name, at); m != No {
				return e, m
			}
		}
		// Assigning through a pointer-valued function result: the
		// name is a known procedure, so the parens are an argument
		// list, not a subscript.
		if p.matchingProcPtrAssignment && sym.Flavor() == symbol.FlavorProcedure {
			if args, m := p.MatchActualArglist(false); m == Err {
				return nil, Err
			} else if m == Yes {
				e := &ast.Call{Name: strings.ToLower(name), Args: args}
				e.Loc = at
				return e, Yes
			}
		}
	}
	// Keyword arguments and empty parens can only be a call.
	save := p.cur.Save()
	if p.MatchChar('(') == Yes {
		isCall := p.MatchChar(')') == Yes
		if !isCall {
			var kw string
			isCall = p.match(" %n =", &kw) == Yes && p.peekCh() != '='
		}
		p.cur.Restore(save)
		if isCall {
			args, m := p.MatchActualArglist(false)
			if m == Err {
				return nil, Err
			}
			if m == Yes {
				e := &ast.Call{Name: strings.ToLower(name), Args: args}
				e.Loc = at
				return e, Yes
			}
		}
	}
	refs, m := p.matchRefTail()
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.cur.Restore(cp)
		return nil, No
	}
	e := &ast.VarRef{Name: strings.ToLower(name), Refs: refs}
	e.Loc = at
	return e, Yes
}

// matchPrimary matches the innermost expression alternatives.
func (p *Parser) matchPrimary() (ast.Expression, Match) {
	if e, m := p.MatchLiteralConstant(false); m != No {
		return e, m
	}
	if e, m := p.MatchArrayConstructor(); m != No {
		return e, m
	}
	if e, m := p.MatchNull(); m != No {
		return e, m
	}
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.MatchChar('(') == Yes {
		inner, m := p.MatchExpr()
		if m == Err {
			return nil, Err
		}
		if m == Yes && p.MatchChar(')') == Yes {
			e := &ast.Paren{Inner: inner}
			e.Loc = at
			return e, Yes
		}
		p.cur.Restore(cp)
	}
	return p.matchRvalue()
}
