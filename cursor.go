package fmatch

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/fortgo/fmatch/ast"
)

// Form selects the source layout rules used during normalization.
type Form uint8

const (
	FormFree Form = iota
	FormFixed
)

// directive tags a logical statement that came from a sentinel line.
type directive uint8

const (
	dirNone directive = iota
	dirOmp
	dirAcc
	dirGcc
)

// char is one logical source character with its original position.
type char struct {
	r    rune
	line int32
	col  int32
}

// stmtBuf is one logical statement: continuations joined, comments
// stripped, ';' splits applied.
type stmtBuf struct {
	kind  directive
	chars []char
	end   ast.Loc // position just past the last character
}

// Cursor presents the logical character stream of normalized Fortran
// source. A statement is a contiguous run of characters; the end of
// the run is the logical end-of-statement. Checkpoints are cheap value
// snapshots; restoring one discards anything saved after it.
type Cursor struct {
	source string
	stmts  []stmtBuf
	si     int // current statement
	ci     int // position within the statement

	unterm   bool // input ended inside a character literal
	untermAt ast.Loc
}

// Checkpoint is an opaque snapshot of a cursor position.
type Checkpoint struct {
	si, ci int
}

// Reset discards all state and normalizes a new input. Free-form and
// fixed-form layout, line continuations, comments and statement
// separators are resolved here, below the cursor interface.
func (c *Cursor) Reset(source string, r io.Reader, opts Options) error {
	if r == nil {
		return errors.New("nil reader")
	} else if source == "" {
		return errors.New("no source name")
	}
	*c = Cursor{source: source, si: -1}
	n := normalizer{cur: c, opts: opts}
	return n.run(bufio.NewReader(r))
}

// Source returns the name the cursor was reset with.
func (c *Cursor) Source() string { return c.source }

// Unterminated reports a character literal still open when the input
// ended, with the position of its opening quote. The truncated
// statement is kept.
func (c *Cursor) Unterminated() (ast.Loc, bool) { return c.untermAt, c.unterm }

// Statements returns how many logical statements the input normalized to.
func (c *Cursor) Statements() int { return len(c.stmts) }

// Exhausted reports whether every statement has been consumed.
func (c *Cursor) Exhausted() bool { return c.si >= len(c.stmts) }

// NextStatement advances to the following logical statement. A fresh
// cursor sits before the first statement, so the first call lands on
// it. Returns false once the input is exhausted.
func (c *Cursor) NextStatement() bool {
	if c.si < len(c.stmts) {
		c.si++
	}
	c.ci = 0
	return c.si < len(c.stmts)
}

// Rewind restarts the cursor before the first statement.
func (c *Cursor) Rewind() { c.si, c.ci = -1, 0 }

func (c *Cursor) stmt() *stmtBuf {
	if c.si < 0 || c.si >= len(c.stmts) {
		return nil
	}
	return &c.stmts[c.si]
}

// DirectiveKind reports what sentinel, if any, introduced the current
// statement.
func (c *Cursor) directiveKind() directive {
	s := c.stmt()
	if s == nil {
		return dirNone
	}
	return s.kind
}

// Peek returns the current character without consuming it, 0 at the
// logical end-of-statement.
func (c *Cursor) Peek() rune {
	s := c.stmt()
	if s == nil || c.ci >= len(s.chars) {
		return 0
	}
	return s.chars[c.ci].r
}

// PeekAt looks n characters ahead without consuming; PeekAt(0) is Peek.
func (c *Cursor) PeekAt(n int) rune {
	s := c.stmt()
	if s == nil || c.ci+n >= len(s.chars) {
		return 0
	}
	return s.chars[c.ci+n].r
}

// Advance consumes and returns the current character, 0 at EOS.
func (c *Cursor) Advance() rune {
	s := c.stmt()
	if s == nil || c.ci >= len(s.chars) {
		return 0
	}
	r := s.chars[c.ci].r
	c.ci++
	return r
}

// AtEOS reports whether the cursor sits at the logical
// end-of-statement. There is no terminator character to consume.
func (c *Cursor) AtEOS() bool {
	s := c.stmt()
	return s == nil || c.ci >= len(s.chars)
}

// SkipToEOS advances past everything left in the current statement.
// Used for error recovery only.
func (c *Cursor) SkipToEOS() {
	if s := c.stmt(); s != nil {
		c.ci = len(s.chars)
	}
}

// Save returns a checkpoint for the current position.
func (c *Cursor) Save() Checkpoint { return Checkpoint{si: c.si, ci: c.ci} }

// Restore rewinds the cursor to a previously saved checkpoint.
func (c *Cursor) Restore(cp Checkpoint) { c.si, c.ci = cp.si, cp.ci }

// Where returns the source position of the current character, or the
// position just past the statement when at EOS.
func (c *Cursor) Where() ast.Loc {
	s := c.stmt()
	if s == nil {
		if n := len(c.stmts); n > 0 {
			return c.stmts[n-1].end
		}
		return ast.Loc{Source: c.source, Line: 1, Col: 1}
	}
	if c.ci >= len(s.chars) {
		return s.end
	}
	ch := s.chars[c.ci]
	return ast.Loc{Source: c.source, Line: int(ch.line), Col: int(ch.col)}
}

// StatementText renders the remainder of the current statement. Used
// for FORMAT bodies and diagnostics.
func (c *Cursor) StatementText() string {
	s := c.stmt()
	if s == nil {
		return ""
	}
	var sb strings.Builder
	for _, ch := range s.chars[c.ci:] {
		sb.WriteRune(ch.r)
	}
	return sb.String()
}

// normalizer builds the statement buffers. The continuation handling
// follows the same shape as a hand-written Fortran lexer: a '&' (or a
// nonblank in column 6) joins lines transparently, comment lines may
// sit between continuations, and '&' inside comments is literal text.
type normalizer struct {
	cur  *Cursor
	opts Options

	stmt      stmtBuf
	inString  bool
	quote     rune
	quoteLine int32 // where the open literal began
	quoteCol  int32
	pending   bool // previous line ended in a continuation
	lastLine  int32
	lastCol   int32
}

func (n *normalizer) run(r *bufio.Reader) error {
	lineNo := 0
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			lineNo++
			line = strings.TrimRight(line, "\r\n")
			if n.opts.Form == FormFixed {
				n.fixedLine(line, lineNo)
			} else {
				n.freeLine(line, lineNo)
			}
		}
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
	}
	if n.inString {
		n.cur.unterm = true
		n.cur.untermAt = ast.Loc{Source: n.cur.source, Line: int(n.quoteLine), Col: int(n.quoteCol)}
	}
	n.flush()
	return nil
}

func (n *normalizer) put(r rune, line, col int) {
	n.stmt.chars = append(n.stmt.chars, char{r: r, line: int32(line), col: int32(col)})
	n.lastLine, n.lastCol = int32(line), int32(col)
}

func (n *normalizer) flush() {
	blank := true
	for _, ch := range n.stmt.chars {
		if ch.r != ' ' && ch.r != '\t' {
			blank = false
			break
		}
	}
	if !blank {
		n.stmt.end = ast.Loc{Source: n.cur.source, Line: int(n.lastLine), Col: int(n.lastCol) + 1}
		n.cur.stmts = append(n.cur.stmts, n.stmt)
	}
	n.stmt = stmtBuf{}
	n.inString = false
	n.pending = false
}

// sentinel recognizes a directive sentinel in s and returns its kind
// and length. Only sentinels for enabled directive languages match;
// with the language disabled the line stays an ordinary comment.
func (n *normalizer) sentinel(s string) (directive, int) {
	low := strings.ToLower(s)
	switch {
	case n.opts.OpenMP && strings.HasPrefix(low, "$omp"):
		return dirOmp, len("$omp")
	case n.opts.OpenACC && strings.HasPrefix(low, "$acc"):
		return dirAcc, len("$acc")
	case strings.HasPrefix(low, "gcc$"):
		return dirGcc, len("gcc$")
	}
	return dirNone, 0
}

// freeLine normalizes one free-form source line.
func (n *normalizer) freeLine(line string, lineNo int) {
	runes := []rune(line)
	i := 0
	if n.pending {
		n.pending = false
		// Comment-only lines may sit between continuations.
		j := i
		for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t') {
			j++
		}
		if j >= len(runes) {
			n.pending = true
			return
		}
		if runes[j] == '!' && !n.inString {
			if n.stmt.kind != dirNone {
				// A continued directive line must repeat its sentinel.
				kind, sl := n.sentinel(string(runes[j+1:]))
				if kind == n.stmt.kind {
					i = j + 1 + sl
					n.pending = false
					goto scan
				}
			}
			n.pending = true
			return
		}
		i = j
		if runes[i] == '&' && !n.inString {
			i++
		} else if n.inString && runes[i] == '&' {
			i++
		}
		goto scan
	}
	// Fresh line: a leading !$omp / !$acc sentinel opens a directive
	// statement instead of a comment.
	{
		j := 0
		for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t') {
			j++
		}
		if j < len(runes) && runes[j] == '!' {
			kind, sl := n.sentinel(string(runes[j+1:]))
			if kind == dirNone {
				return // whole-line comment
			}
			n.flush()
			n.stmt.kind = kind
			i = j + 1 + sl
		}
	}
scan:
	for ; i < len(runes); i++ {
		r := runes[i]
		col := i + 1
		if n.inString {
			if r == n.quote {
				n.inString = false
			}
			if r == '&' && restIsBlank(runes[i+1:]) {
				// String continues on the next line.
				n.pending = true
				return
			}
			n.put(r, lineNo, col)
			continue
		}
		switch r {
		case '!':
			return // trailing comment ends the line
		case '\'', '"':
			n.inString = true
			n.quote = r
			n.quoteLine, n.quoteCol = int32(lineNo), int32(col)
			n.put(r, lineNo, col)
		case ';':
			kind := n.stmt.kind
			n.flush()
			n.stmt.kind = kind
		case '&':
			if restIsBlankOrComment(runes[i+1:]) {
				n.pending = true
				return
			}
			n.put(r, lineNo, col)
		default:
			n.put(r, lineNo, col)
		}
	}
	if n.inString {
		// Newline inside a string without continuation: keep the quote
		// state so the error surfaces as an unterminated literal.
		return
	}
	if !n.pending {
		n.flush()
	}
}

// fixedLine normalizes one fixed-form source line: columns 1-5 hold
// the label field, column 6 a continuation marker, statement text runs
// from column 7 to the configured width.
func (n *normalizer) fixedLine(line string, lineNo int) {
	width := n.opts.FixedLineWidth
	if width == 0 {
		width = 72
	}
	runes := []rune(line)
	if width > 0 && len(runes) > width {
		runes = runes[:width]
	}
	if restIsBlank(runes) {
		return
	}
	c1 := runes[0]
	isComment := c1 == 'C' || c1 == 'c' || c1 == '*' || c1 == '!'
	kind := dirNone
	if isComment {
		var sl int
		kind, sl = n.sentinel(string(runes[1:]))
		if kind == dirNone {
			return // ordinary comment line
		}
		_ = sl // fixed-form sentinel occupies columns 1-5 by layout
	}
	cont := len(runes) > 5 && runes[5] != ' ' && runes[5] != '0'
	if cont && (n.pending || len(n.stmt.chars) > 0) {
		// Continuation line: columns 7+ append to the open statement.
		n.pending = false
		n.scanFixed(runes, 6, lineNo)
		n.pending = true
		return
	}
	n.flush()
	n.stmt.kind = kind
	if kind != dirNone {
		n.scanFixed(runes, 6, lineNo)
	} else {
		// Label field first, statement text from column 7.
		for i := 0; i < 5 && i < len(runes); i++ {
			if runes[i] != ' ' && runes[i] != '\t' {
				n.put(runes[i], lineNo, i+1)
			}
		}
		if len(n.stmt.chars) > 0 {
			n.put(' ', lineNo, 6)
		}
		n.scanFixed(runes, 6, lineNo)
	}
	n.pending = true
}

func (n *normalizer) scanFixed(runes []rune, from int, lineNo int) {
	for i := from; i < len(runes); i++ {
		r := runes[i]
		col := i + 1
		if n.inString {
			if r == n.quote {
				n.inString = false
			}
			n.put(r, lineNo, col)
			continue
		}
		switch r {
		case '!':
			return
		case '\'', '"':
			n.inString = true
			n.quote = r
			n.quoteLine, n.quoteCol = int32(lineNo), int32(col)
			n.put(r, lineNo, col)
		case ';':
			kind := n.stmt.kind
			n.flush()
			n.stmt.kind = kind
			n.pending = true
		default:
			n.put(r, lineNo, col)
		}
	}
}

func restIsBlank(rest []rune) bool {
	for _, r := range rest {
		if r != ' ' && r != '\t' {
			return false
		}
	}
	return true
}

func restIsBlankOrComment(rest []rune) bool {
	for _, r := range rest {
		if r == '!' {
			return true
		}
		if r != ' ' && r != '\t' {
			return false
		}
	}
	return true
}
