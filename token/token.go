package token

import "bytes"

// Op identifies an intrinsic operator recognized inside expressions.
// User-defined operators (.FOO.) carry OpUser plus the operator name,
// which lives on the expression node, not here.
type Op int

// List of all intrinsic operators of the Fortran programming language.
// When adding a new operator add it in between blocks since we use
// comparison functions to check properties of operators.
const (
	// Not to be used in code. Is to catch uninitialized operators.
	OpNone Op = iota

	// Unary arithmetic operators.
	OpUPlus  // unary +
	OpUMinus // unary -

	// Binary arithmetic operators.
	OpPlus   // +
	OpMinus  // -
	OpTimes  // *
	OpDivide // /
	OpPower  // **

	// Character operator.
	OpConcat // //

	// Relational operators. Dot and symbolic spellings share one identity.
	OpEQ // .EQ. or ==
	OpNE // .NE. or /=
	OpLT // .LT. or <
	OpLE // .LE. or <=
	OpGT // .GT. or >
	OpGE // .GE. or >=

	// Logical operators.
	OpNot  // .NOT.
	OpAnd  // .AND.
	OpOr   // .OR.
	OpEqv  // .EQV.
	OpNeqv // .NEQV.

	// User-defined operator placeholder.
	OpUser // .name.

	numOps
)

var opNames = [...]string{
	OpNone:   "<none>",
	OpUPlus:  "+",
	OpUMinus: "-",
	OpPlus:   "+",
	OpMinus:  "-",
	OpTimes:  "*",
	OpDivide: "/",
	OpPower:  "**",
	OpConcat: "//",
	OpEQ:     ".eq.",
	OpNE:     ".ne.",
	OpLT:     ".lt.",
	OpLE:     ".le.",
	OpGT:     ".gt.",
	OpGE:     ".ge.",
	OpNot:    ".not.",
	OpAnd:    ".and.",
	OpOr:     ".or.",
	OpEqv:    ".eqv.",
	OpNeqv:   ".neqv.",
	OpUser:   ".user.",
}

func (op Op) String() string {
	if op < 0 || op >= numOps {
		return "<invalid op>"
	}
	return opNames[op]
}

// IsUnary returns true for the unary spellings of + and - and for .NOT.
func (op Op) IsUnary() bool {
	return op == OpUPlus || op == OpUMinus || op == OpNot
}

// IsArithmetic returns true for the binary arithmetic operators.
func (op Op) IsArithmetic() bool {
	return op >= OpPlus && op <= OpPower
}

// IsRelational returns true for the six comparison operators.
func (op Op) IsRelational() bool {
	return op >= OpEQ && op <= OpGE
}

// IsLogical returns true for .NOT., .AND., .OR., .EQV. and .NEQV.
func (op Op) IsLogical() bool {
	return op >= OpNot && op <= OpNeqv
}

// LookupDotOp returns the operator for the characters between the dots
// of a dot-operator spelling (EQ, AND, ...). Returns OpNone when the
// name is not an intrinsic operator; callers treat that as a candidate
// user-defined operator.
func LookupDotOp(name []byte) Op {
	upper := bytes.ToUpper(name)
	switch string(upper) {
	default:
		return OpNone
	case "EQ":
		return OpEQ
	case "NE":
		return OpNE
	case "LT":
		return OpLT
	case "LE":
		return OpLE
	case "GT":
		return OpGT
	case "GE":
		return OpGE
	case "NOT":
		return OpNot
	case "AND":
		return OpAnd
	case "OR":
		return OpOr
	case "EQV":
		return OpEqv
	case "NEQV":
		return OpNeqv
	}
}

// IsLogicalConstant reports whether the dot-name spells .TRUE. or
// .FALSE. rather than an operator.
func IsLogicalConstant(name []byte) (value, ok bool) {
	upper := bytes.ToUpper(name)
	switch string(upper) {
	case "TRUE":
		return true, true
	case "FALSE":
		return false, true
	}
	return false, false
}
