// Package ast declares the record types the matcher populates while
// recognizing Fortran constructs. The records are intentionally
// syntax-level: resolution, typing and constant folding happen in
// downstream consumers that receive these partially-built nodes.
package ast

import (
	"strconv"

	"github.com/fortgo/fmatch/token"
	"github.com/shopspring/decimal"
)

// Loc is a position in the original source text.
type Loc struct {
	Source string
	Line   int
	Col    int
}

func (l Loc) String() string {
	return string(l.AppendString(make([]byte, 0, len(l.Source)+8)))
}

func (l Loc) AppendString(b []byte) []byte {
	b = append(b, l.Source...)
	b = append(b, ':')
	b = strconv.AppendInt(b, int64(l.Line), 10)
	if l.Col > 0 {
		b = append(b, ':')
		b = strconv.AppendInt(b, int64(l.Col), 10)
	}
	return b
}

type Node interface {
	Where() Loc
}

type Expression interface {
	Node
	AppendString(dst []byte) []byte
	expressionNode()
}

// Statement is implemented by every statement record via the embedded
// [Base]. The dispatcher attaches the current statement label through
// SetLabel after a recognizer accepts.
type Statement interface {
	Node
	statementNode()
	SetLabel(n int)
	StmtLabel() int
}

// Base carries the fields shared by every statement record.
type Base struct {
	Loc   Loc
	Label int // statement label, zero when absent
}

func (b *Base) Where() Loc     { return b.Loc }
func (b *Base) statementNode() {}
func (b *Base) SetLabel(n int) { b.Label = n }
func (b *Base) StmtLabel() int { return b.Label }

// ExprBase carries the position shared by every expression record.
type ExprBase struct {
	Loc Loc
}

func (b *ExprBase) Where() Loc      { return b.Loc }
func (b *ExprBase) expressionNode() {}

// String renders an expression in normalized spelling. Structurally
// equal fragments render identically regardless of source spacing.
func String(e Expression) string {
	if e == nil {
		return "<nil>"
	}
	return string(e.AppendString(nil))
}

// IntLit is an integer literal constant with optional kind suffix.
type IntLit struct {
	ExprBase
	Value int64
	Kind  string // kind parameter after '_', empty when absent
}

func (e *IntLit) AppendString(dst []byte) []byte {
	dst = strconv.AppendInt(dst, e.Value, 10)
	if e.Kind != "" {
		dst = append(dst, '_')
		dst = append(dst, e.Kind...)
	}
	return dst
}

// RealLit is a real literal constant. The value is kept exact so that
// kind selection downstream does not lose digits.
type RealLit struct {
	ExprBase
	Value decimal.Decimal
	Raw   string // original spelling, exponent letter included
	Kind  string
}

func (e *RealLit) AppendString(dst []byte) []byte {
	dst = append(dst, e.Value.String()...)
	if e.Kind != "" {
		dst = append(dst, '_')
		dst = append(dst, e.Kind...)
	}
	return dst
}

// ComplexLit is a complex literal constant (re, im).
type ComplexLit struct {
	ExprBase
	Re, Im Expression
}

func (e *ComplexLit) AppendString(dst []byte) []byte {
	dst = append(dst, '(')
	dst = e.Re.AppendString(dst)
	dst = append(dst, ',')
	dst = e.Im.AppendString(dst)
	dst = append(dst, ')')
	return dst
}

// StringLit is a character literal constant, quotes removed and doubled
// quotes collapsed.
type StringLit struct {
	ExprBase
	Value string
	Kind  string // kind prefix before '_', empty when absent
}

func (e *StringLit) AppendString(dst []byte) []byte {
	dst = append(dst, '\'')
	dst = append(dst, e.Value...)
	dst = append(dst, '\'')
	return dst
}

// LogicalLit is .TRUE. or .FALSE. with optional kind suffix.
type LogicalLit struct {
	ExprBase
	Value bool
	Kind  string
}

func (e *LogicalLit) AppendString(dst []byte) []byte {
	if e.Value {
		return append(dst, ".true."...)
	}
	return append(dst, ".false."...)
}

// BOZLit is a binary, octal or hexadecimal literal.
type BOZLit struct {
	ExprBase
	Value uint64
	Base  int // 2, 8 or 16
}

func (e *BOZLit) AppendString(dst []byte) []byte {
	switch e.Base {
	case 2:
		dst = append(dst, "b'"...)
	case 8:
		dst = append(dst, "o'"...)
	default:
		dst = append(dst, "z'"...)
	}
	dst = strconv.AppendUint(dst, e.Value, e.Base)
	dst = append(dst, '\'')
	return dst
}

// Null is the NULL([mold]) pointer initializer.
type Null struct {
	ExprBase
	Mold Expression
}

func (e *Null) AppendString(dst []byte) []byte {
	dst = append(dst, "null("...)
	if e.Mold != nil {
		dst = e.Mold.AppendString(dst)
	}
	return append(dst, ')')
}

// Ref is one step in a data reference chain: component selection,
// array indexing or substring.
type Ref interface {
	refNode()
	AppendString(dst []byte) []byte
}

// ComponentRef selects a derived-type component (a%b).
type ComponentRef struct {
	Name string
}

func (r *ComponentRef) refNode() {}
func (r *ComponentRef) AppendString(dst []byte) []byte {
	dst = append(dst, '%')
	return append(dst, r.Name...)
}

// Section is one dimension of an array reference. Colon is true when a
// range was written, even a degenerate one like (:).
type Section struct {
	Start  Expression
	End    Expression
	Stride Expression
	Colon  bool
}

func (s *Section) AppendString(dst []byte) []byte {
	if s.Start != nil {
		dst = s.Start.AppendString(dst)
	}
	if s.Colon {
		dst = append(dst, ':')
		if s.End != nil {
			dst = s.End.AppendString(dst)
		}
		if s.Stride != nil {
			dst = append(dst, ':')
			dst = s.Stride.AppendString(dst)
		}
	}
	return dst
}

// IndexRef is a parenthesized subscript list (elements or sections).
type IndexRef struct {
	Dims []Section
}

func (r *IndexRef) refNode() {}
func (r *IndexRef) AppendString(dst []byte) []byte {
	dst = append(dst, '(')
	for i := range r.Dims {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = r.Dims[i].AppendString(dst)
	}
	return append(dst, ')')
}

// SubstringRef is a character substring range (i:j).
type SubstringRef struct {
	Start, End Expression
}

func (r *SubstringRef) refNode() {}
func (r *SubstringRef) AppendString(dst []byte) []byte {
	dst = append(dst, '(')
	if r.Start != nil {
		dst = r.Start.AppendString(dst)
	}
	dst = append(dst, ':')
	if r.End != nil {
		dst = r.End.AppendString(dst)
	}
	return append(dst, ')')
}

// VarRef is a variable designator: a name plus reference chain.
type VarRef struct {
	ExprBase
	Name string
	Refs []Ref
}

func (e *VarRef) AppendString(dst []byte) []byte {
	dst = append(dst, e.Name...)
	for _, r := range e.Refs {
		dst = r.AppendString(dst)
	}
	return dst
}

// ActualArg is one entry of an actual argument list. AltReturn is
// nonzero for F77 alternate-return arguments (*label).
type ActualArg struct {
	Keyword   string
	Value     Expression
	AltReturn int
}

// Call is a function reference. Whether the name binds to a function,
// an array or a statement function is not the matcher's concern.
type Call struct {
	ExprBase
	Name string
	Args []ActualArg
}

func (e *Call) AppendString(dst []byte) []byte {
	dst = append(dst, e.Name...)
	dst = append(dst, '(')
	for i, a := range e.Args {
		if i > 0 {
			dst = append(dst, ',')
		}
		if a.Keyword != "" {
			dst = append(dst, a.Keyword...)
			dst = append(dst, '=')
		}
		if a.AltReturn != 0 {
			dst = append(dst, '*')
			dst = strconv.AppendInt(dst, int64(a.AltReturn), 10)
		} else if a.Value != nil {
			dst = a.Value.AppendString(dst)
		}
	}
	return append(dst, ')')
}

// Unary is a unary operator application.
type Unary struct {
	ExprBase
	Op      token.Op
	UserOp  string // set when Op == token.OpUser
	Operand Expression
}

func (e *Unary) AppendString(dst []byte) []byte {
	if e.Op == token.OpUser {
		dst = append(dst, '.')
		dst = append(dst, e.UserOp...)
		dst = append(dst, '.')
	} else {
		dst = append(dst, e.Op.String()...)
	}
	return e.Operand.AppendString(dst)
}

// Binary is a binary operator application.
type Binary struct {
	ExprBase
	Op          token.Op
	UserOp      string
	Left, Right Expression
}

func (e *Binary) AppendString(dst []byte) []byte {
	dst = append(dst, '(')
	dst = e.Left.AppendString(dst)
	if e.Op == token.OpUser {
		dst = append(dst, '.')
		dst = append(dst, e.UserOp...)
		dst = append(dst, '.')
	} else {
		dst = append(dst, e.Op.String()...)
	}
	dst = e.Right.AppendString(dst)
	return append(dst, ')')
}

// Paren preserves explicit parentheses; Fortran forbids reassociating
// through them.
type Paren struct {
	ExprBase
	Inner Expression
}

func (e *Paren) AppendString(dst []byte) []byte {
	dst = append(dst, '(')
	dst = e.Inner.AppendString(dst)
	return append(dst, ')')
}

// Iterator is a do-style control: var = start, end [, step].
type Iterator struct {
	Var   string
	Start Expression
	End   Expression
	Step  Expression
}

// ImpliedDo is an implied-do inside array constructors, DATA and I/O
// item lists.
type ImpliedDo struct {
	ExprBase
	Values []Expression
	Iter   Iterator
}

func (e *ImpliedDo) AppendString(dst []byte) []byte {
	dst = append(dst, '(')
	for _, v := range e.Values {
		dst = v.AppendString(dst)
		dst = append(dst, ',')
	}
	dst = append(dst, e.Iter.Var...)
	dst = append(dst, '=')
	dst = e.Iter.Start.AppendString(dst)
	dst = append(dst, ',')
	dst = e.Iter.End.AppendString(dst)
	if e.Iter.Step != nil {
		dst = append(dst, ',')
		dst = e.Iter.Step.AppendString(dst)
	}
	return append(dst, ')')
}

// ArrayCtor is an array constructor (/ ... /) or [ ... ].
type ArrayCtor struct {
	ExprBase
	TypeSpec *TypeSpec // optional embedded type-spec ::
	Values   []Expression
}

func (e *ArrayCtor) AppendString(dst []byte) []byte {
	dst = append(dst, '[')
	for i, v := range e.Values {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = v.AppendString(dst)
	}
	return append(dst, ']')
}

// StructCtor is a structure constructor TYPE(args). The matcher emits
// it only when the name is known to be a derived type.
type StructCtor struct {
	ExprBase
	TypeName string
	Args     []ActualArg
}

func (e *StructCtor) AppendString(dst []byte) []byte {
	dst = append(dst, e.TypeName...)
	dst = append(dst, '(')
	for i, a := range e.Args {
		if i > 0 {
			dst = append(dst, ',')
		}
		if a.Keyword != "" {
			dst = append(dst, a.Keyword...)
			dst = append(dst, '=')
		}
		if a.Value != nil {
			dst = a.Value.AppendString(dst)
		}
	}
	return append(dst, ')')
}
