package fmatch

import (
	"strings"

	"github.com/fortgo/fmatch/ast"
)

// matchIOSpec matches one control-list item: "keyword = value", a bare
// unit or a bare format. positional tells which bare items are still
// acceptable (0: unit, 1: format in READ/WRITE).
func (p *Parser) matchIOSpec(positional int, labelKeys map[string]bool) (*ast.IOSpec, Match) {
	cp := p.cur.Save()
	var kw string
	if p.match(" %n =", &kw) == Yes && p.peekCh() != '=' {
		kw = strings.ToLower(kw)
		spec := &ast.IOSpec{Keyword: kw}
		if labelKeys[kw] {
			lab, m := p.MatchStLabel()
			if m == Err {
				return nil, Err
			}
			if m == Yes {
				spec.Label = lab
				return spec, Yes
			}
			if kw != "fmt" {
				p.cur.Restore(cp)
				return nil, No
			}
		}
		if (kw == "unit" || kw == "fmt") && p.MatchChar('*') == Yes {
			spec.Star = true
			return spec, Yes
		}
		e, m := p.MatchExpr()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		spec.Value = e
		return spec, Yes
	}
	p.cur.Restore(cp)
	switch positional {
	case 0: // unit
		spec := &ast.IOSpec{Keyword: "unit"}
		if p.MatchChar('*') == Yes {
			spec.Star = true
			return spec, Yes
		}
		e, m := p.MatchExpr()
		if m != Yes {
			return nil, m
		}
		spec.Value = e
		return spec, Yes
	case 1: // format
		spec := &ast.IOSpec{Keyword: "fmt"}
		if lab, m := p.MatchStLabel(); m == Err {
			return nil, Err
		} else if m == Yes {
			spec.Label = lab
			return spec, Yes
		}
		if p.MatchChar('*') == Yes {
			spec.Star = true
			return spec, Yes
		}
		e, m := p.MatchExpr()
		if m != Yes {
			return nil, m
		}
		spec.Value = e
		return spec, Yes
	}
	return nil, No
}

var ioLabelKeys = map[string]bool{
	"err": true, "end": true, "eor": true, "fmt": true,
}

// matchControlList matches "( specs )". fmtOK permits a bare format as
// the second positional item.
func (p *Parser) matchControlList(fmtOK bool) ([]ast.IOSpec, Match) {
	cp := p.cur.Save()
	if p.MatchChar('(') != Yes {
		return nil, No
	}
	var specs []ast.IOSpec
	pos := 0
	for {
		if !fmtOK && pos > 0 {
			pos = -1
		}
		spec, m := p.matchIOSpec(pos, ioLabelKeys)
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		if pos >= 0 {
			pos++
			if pos > 1 {
				pos = -1
			}
		}
		specs = append(specs, *spec)
		if p.MatchChar(',') == Yes {
			continue
		}
		break
	}
	if p.MatchChar(')') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return specs, Yes
}

// matchIOItem matches one element of an I/O list: an implied-do group
// or an expression (output) / variable (input).
func (p *Parser) matchIOItem(input bool) (ast.Expression, Match) {
	if e, m := p.matchACImpliedDo(); m != No {
		return e, m
	}
	if input {
		return p.MatchVariable()
	}
	return p.MatchExpr()
}

func (p *Parser) matchIOList(input bool) ([]ast.Expression, Match) {
	var items []ast.Expression
	for {
		it, m := p.matchIOItem(input)
		if m == Err {
			return nil, Err
		}
		if m == No {
			return nil, No
		}
		items = append(items, it)
		if p.MatchChar(',') == Yes {
			continue
		}
		return items, Yes
	}
}

// MatchRead matches both READ forms: the control-list form and the
// short "READ fmt [, items]" form.
func (p *Parser) MatchRead() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" read") != Yes {
		return nil, No
	}
	st := &ast.ReadStmt{}
	st.Loc = at
	if specs, m := p.matchControlList(true); m == Err {
		return nil, Err
	} else if m == Yes {
		st.Specs = specs
		if p.MatchEOS() == Yes {
			return st, Yes
		}
		p.MatchChar(',')
		items, m := p.matchIOList(true)
		if m == Err {
			return nil, Err
		}
		if m == No || p.MatchEOS() != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Items = items
		return st, Yes
	}
	// READ fmt [, items]: unit defaults to *.
	fmtSpec, m := p.matchIOSpec(1, ioLabelKeys)
	if m != Yes {
		p.cur.Restore(cp)
		return nil, m
	}
	st.Specs = []ast.IOSpec{{Keyword: "unit", Star: true}, *fmtSpec}
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	if p.MatchChar(',') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	items, m := p.matchIOList(true)
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Items = items
	return st, Yes
}

// MatchWrite matches a WRITE statement.
func (p *Parser) MatchWrite() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" write") != Yes {
		return nil, No
	}
	specs, m := p.matchControlList(true)
	if m == Err {
		return nil, Err
	}
	if m == No {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.WriteStmt{Specs: specs}
	st.Loc = at
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	p.MatchChar(',')
	items, m := p.matchIOList(false)
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Items = items
	return st, Yes
}

// MatchPrint matches a PRINT statement.
func (p *Parser) MatchPrint() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" print") != Yes {
		return nil, No
	}
	st := &ast.PrintStmt{}
	st.Loc = at
	st.Format.Keyword = "fmt"
	if lab, m := p.MatchStLabel(); m == Err {
		return nil, Err
	} else if m == Yes {
		st.Format.Label = lab
	} else if p.MatchChar('*') == Yes {
		st.Format.Star = true
	} else {
		e, m := p.MatchExpr()
		if m == Err {
			return nil, Err
		}
		if m == No {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Format.Value = e
	}
	if p.MatchEOS() == Yes {
		return st, Yes
	}
	if p.MatchChar(',') != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	items, m := p.matchIOList(false)
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st.Items = items
	return st, Yes
}

// matchFileOp is the shared body of OPEN, CLOSE, FLUSH, WAIT and the
// file positioning statements: keyword plus control list, or a bare
// unit for the positioning forms.
func (p *Parser) matchFileOp(word string, bareUnitOK bool) ([]ast.IOSpec, ast.Loc, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(word) != Yes {
		return nil, at, No
	}
	if specs, m := p.matchControlList(false); m == Err {
		return nil, at, Err
	} else if m == Yes {
		if p.MatchEOS() != Yes {
			p.cur.Restore(cp)
			return nil, at, No
		}
		return specs, at, Yes
	}
	if !bareUnitOK {
		p.cur.Restore(cp)
		return nil, at, No
	}
	e, m := p.MatchExpr()
	if m == Err {
		return nil, at, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, at, No
	}
	return []ast.IOSpec{{Keyword: "unit", Value: e}}, at, Yes
}

func (p *Parser) MatchOpen() (ast.Statement, Match) {
	specs, at, m := p.matchFileOp(" open", false)
	if m != Yes {
		return nil, m
	}
	st := &ast.OpenStmt{Specs: specs}
	st.Loc = at
	return st, Yes
}

func (p *Parser) MatchClose() (ast.Statement, Match) {
	specs, at, m := p.matchFileOp(" close", false)
	if m != Yes {
		return nil, m
	}
	st := &ast.CloseStmt{Specs: specs}
	st.Loc = at
	return st, Yes
}

func (p *Parser) MatchRewind() (ast.Statement, Match) {
	specs, at, m := p.matchFileOp(" rewind", true)
	if m != Yes {
		return nil, m
	}
	st := &ast.RewindStmt{Specs: specs}
	st.Loc = at
	return st, Yes
}

func (p *Parser) MatchBackspace() (ast.Statement, Match) {
	specs, at, m := p.matchFileOp(" backspace", true)
	if m != Yes {
		return nil, m
	}
	st := &ast.BackspaceStmt{Specs: specs}
	st.Loc = at
	return st, Yes
}

func (p *Parser) MatchEndfile() (ast.Statement, Match) {
	specs, at, m := p.matchFileOp(" end file", true)
	if m != Yes {
		return nil, m
	}
	st := &ast.EndfileStmt{Specs: specs}
	st.Loc = at
	return st, Yes
}

func (p *Parser) MatchFlushStmt() (ast.Statement, Match) {
	specs, at, m := p.matchFileOp(" flush", true)
	if m != Yes {
		return nil, m
	}
	st := &ast.FlushStmt{Specs: specs}
	st.Loc = at
	return st, Yes
}

func (p *Parser) MatchWaitStmt() (ast.Statement, Match) {
	specs, at, m := p.matchFileOp(" wait", false)
	if m != Yes {
		return nil, m
	}
	st := &ast.WaitStmt{Specs: specs}
	st.Loc = at
	return st, Yes
}

// MatchInquire matches both INQUIRE forms: the spec-list form and
// INQUIRE (IOLENGTH=var) items.
func (p *Parser) MatchInquire() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" inquire (") != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	st := &ast.InquireStmt{}
	st.Loc = at
	if p.match(" iolength =") == Yes {
		v, m := p.MatchVariable()
		if m == Err {
			return nil, Err
		}
		if m == No || p.match(" )") != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Length = v
		items, m := p.matchIOList(false)
		if m == Err {
			return nil, Err
		}
		if m == No || p.MatchEOS() != Yes {
			p.cur.Restore(cp)
			return nil, No
		}
		st.Items = items
		return st, Yes
	}
	p.cur.Restore(cp)
	specs, m := p.matchFileOpTail(" inquire")
	if m != Yes {
		return nil, m
	}
	st.Specs = specs
	return st, Yes
}

func (p *Parser) matchFileOpTail(word string) ([]ast.IOSpec, Match) {
	cp := p.cur.Save()
	if p.match(word) != Yes {
		return nil, No
	}
	specs, m := p.matchControlList(false)
	if m == Err {
		return nil, Err
	}
	if m == No || p.MatchEOS() != Yes {
		p.cur.Restore(cp)
		return nil, No
	}
	return specs, Yes
}

// MatchFormat matches a FORMAT statement. The body is kept verbatim
// after a balance check; edit descriptors are not interpreted here.
func (p *Parser) MatchFormat() (ast.Statement, Match) {
	cp := p.cur.Save()
	at := p.cur.Where()
	if p.match(" format") != Yes {
		return nil, No
	}
	p.skipSpace()
	if p.cur.Peek() != '(' {
		p.cur.Restore(cp)
		return nil, No
	}
	if p.MatchParens() == Err {
		return nil, Err
	}
	text := strings.TrimSpace(p.cur.StatementText())
	p.cur.SkipToEOS()
	st := &ast.FormatStmt{Text: text}
	st.Loc = at
	if p.stLabel == 0 {
		p.errorAt(at, "FORMAT statement at %s does not have a statement label", at.String())
		return nil, Err
	}
	return st, Yes
}
