package fmatch

import (
	"fmt"

	"github.com/fortgo/fmatch/ast"
	"github.com/fortgo/fmatch/symbol"
	"github.com/fortgo/fmatch/token"
)

// Match is the outcome of a recognizer.
//
//	No  - construct not present; the cursor has been restored and no
//	      output was written.
//	Yes - construct recognized; the cursor sits past it and outputs
//	      are populated.
//	Err - the construct was committed to but is malformed; at least
//	      one diagnostic has been emitted. Callers stop trying
//	      alternatives.
type Match uint8

const (
	No Match = iota
	Yes
	Err
)

func (m Match) String() string {
	switch m {
	case No:
		return "no"
	case Yes:
		return "yes"
	case Err:
		return "error"
	}
	return fmt.Sprintf("Match(%d)", uint8(m))
}

// rule is one speculative parsing step.
type rule func() Match

// seq runs steps left to right. A nil step marks the commit point:
// failures before it restore the cursor and yield No, failures after
// it emit a syntax error and yield Err. what names the construct for
// the diagnostic.
func (p *Parser) seq(what string, steps ...rule) Match {
	cp := p.cur.Save()
	committed := false
	for _, step := range steps {
		if step == nil {
			committed = true
			continue
		}
		switch step() {
		case Yes:
		case Err:
			return Err
		case No:
			if committed {
				p.error("Syntax error in %s", what)
				p.cur.SkipToEOS()
				return Err
			}
			p.cur.Restore(cp)
			return No
		}
	}
	return Yes
}

// alt tries rules in order and keeps the first that says Yes. Err from
// any rule ends the search.
func (p *Parser) alt(rules ...rule) Match {
	for _, r := range rules {
		cp := p.cur.Save()
		switch m := r(); m {
		case Yes, Err:
			return m
		}
		p.cur.Restore(cp)
	}
	return No
}

// opt runs r and treats No as an empty match.
func (p *Parser) opt(r rule) Match {
	cp := p.cur.Save()
	if m := r(); m != No {
		return m
	}
	p.cur.Restore(cp)
	return Yes
}

// skipSpace consumes blanks and tabs.
func (p *Parser) skipSpace() {
	for {
		c := p.cur.Peek()
		if c != ' ' && c != '\t' {
			return
		}
		p.cur.Advance()
	}
}

// peekCh returns the next token character. In fixed form blanks carry
// no meaning outside character context, so they are skipped; in free
// form blanks delimit tokens and the raw character is returned.
func (p *Parser) peekCh() rune {
	if p.opts.Form == FormFixed {
		return p.peekSig()
	}
	return p.cur.Peek()
}

// peekSig returns the next significant character in either form,
// looking past blanks without moving the cursor. Dispatch decisions
// between statements or clauses peek with this, never with peekCh.
func (p *Parser) peekSig() rune {
	n := 0
	for {
		c := p.cur.PeekAt(n)
		if c != ' ' && c != '\t' {
			return c
		}
		n++
	}
}

// nextCh consumes and returns the next significant character.
func (p *Parser) nextCh() rune {
	if p.opts.Form == FormFixed {
		p.skipSpace()
	}
	return p.cur.Advance()
}

func lower(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func isLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isNameChar(r rune) bool { return isLetter(r) || isDigit(r) || r == '_' }

// match interprets a pattern against the statement, filling the
// argument slots left to right. Pattern elements:
//
//	letter   that letter, case-insensitively
//	punct    that character, leading blanks skipped
//	' '      zero or more blanks
//	'% '     at least one blank (free form; any in fixed form)
//	%%       a literal percent sign
//	%n       a name            -> *string
//	%s       a name, entered
//	         in the table      -> **symbol.Symbol
//	%e       an expression     -> *ast.Expression
//	%v       a variable        -> *ast.Expression
//	%l       a statement label -> *int
//	%o       an intrinsic
//	         operator          -> *token.Op
//	%t       end of statement
//	%c       commit: later failures turn into Err
//
// Output slots are written only when the whole pattern matches, so a
// No outcome leaves every argument untouched.
func (p *Parser) match(target string, args ...interface{}) Match {
	cp := p.cur.Save()
	var flush []func()
	argi := 0
	committed := false

	nextArg := func() interface{} {
		if argi >= len(args) {
			panic(fmt.Sprintf("fmatch: pattern %q needs more than %d arguments", target, len(args)))
		}
		a := args[argi]
		argi++
		return a
	}
	fail := func(m Match) Match {
		if m == Err {
			return Err
		}
		if committed {
			p.syntaxError()
			return Err
		}
		p.cur.Restore(cp)
		return No
	}

	pat := []rune(target)
	for i := 0; i < len(pat); i++ {
		pc := pat[i]
		switch {
		case pc == ' ':
			p.skipSpace()

		case pc == '%':
			i++
			if i >= len(pat) {
				panic(fmt.Sprintf("fmatch: trailing %% in pattern %q", target))
			}
			switch pat[i] {
			case ' ':
				if p.MatchSpace() != Yes {
					return fail(No)
				}

			case '%':
				p.skipSpace()
				if p.peekCh() != '%' {
					return fail(No)
				}
				p.nextCh()

			case 'n':
				dst := nextArg().(*string)
				name, m := p.matchName()
				if m != Yes {
					return fail(m)
				}
				flush = append(flush, func() { *dst = name })

			case 's':
				dst := nextArg().(**symbol.Symbol)
				name, m := p.matchName()
				if m != Yes {
					return fail(m)
				}
				at := p.cur.Where()
				flush = append(flush, func() {
					sym, _ := p.symtab.Lookup(name, at)
					*dst = sym
				})

			case 'e':
				dst := nextArg().(*ast.Expression)
				e, m := p.MatchExpr()
				if m != Yes {
					return fail(m)
				}
				flush = append(flush, func() { *dst = e })

			case 'v':
				dst := nextArg().(*ast.Expression)
				v, m := p.MatchVariable()
				if m != Yes {
					return fail(m)
				}
				flush = append(flush, func() { *dst = v })

			case 'l':
				dst := nextArg().(*int)
				lab, m := p.MatchStLabel()
				if m != Yes {
					return fail(m)
				}
				flush = append(flush, func() { *dst = lab })

			case 'o':
				dst := nextArg().(*token.Op)
				op, m := p.matchIntrinsicOp()
				if m != Yes {
					return fail(m)
				}
				flush = append(flush, func() { *dst = op })

			case 't':
				if p.MatchEOS() != Yes {
					return fail(No)
				}

			case 'c':
				committed = true

			default:
				panic(fmt.Sprintf("fmatch: bad directive %%%c in pattern %q", pat[i], target))
			}

		case isLetter(pc):
			if lower(p.peekCh()) != lower(pc) {
				return fail(No)
			}
			p.nextCh()

		default:
			p.skipSpace()
			if p.peekCh() != pc {
				return fail(No)
			}
			p.nextCh()
		}
	}

	for _, f := range flush {
		f()
	}
	return Yes
}

// syntaxError reports a syntax error for the statement being matched
// and discards the rest of it.
func (p *Parser) syntaxError() {
	if p.stName != "" {
		p.error("Syntax error in %s statement", p.stName)
	} else {
		p.error("Syntax error")
	}
	p.cur.SkipToEOS()
}
