package ast

import "strconv"

// Assignment is an ordinary assignment statement.
type Assignment struct {
	Base
	LHS Expression
	RHS Expression
}

func (s *Assignment) AppendString(dst []byte) []byte {
	dst = s.LHS.AppendString(dst)
	dst = append(dst, '=')
	return s.RHS.AppendString(dst)
}

// PointerAssignment is lhs => rhs.
type PointerAssignment struct {
	Base
	LHS Expression
	RHS Expression
}

func (s *PointerAssignment) AppendString(dst []byte) []byte {
	dst = s.LHS.AppendString(dst)
	dst = append(dst, "=>"...)
	return s.RHS.AppendString(dst)
}

// ArithmeticIf is the F77 three-way branch IF (e) l1, l2, l3.
type ArithmeticIf struct {
	Base
	Cond      Expression
	NegLabel  int
	ZeroLabel int
	PosLabel  int
}

// LogicalIf is IF (cond) action-stmt.
type LogicalIf struct {
	Base
	Cond Expression
	Body Statement
}

// IfThen is the header of a block IF construct.
type IfThen struct {
	Base
	Name string // construct name, empty when absent
	Cond Expression
}

// ElseIfStmt is ELSE IF (cond) THEN [name].
type ElseIfStmt struct {
	Base
	Cond Expression
	Name string
}

// ElseStmt is ELSE [name].
type ElseStmt struct {
	Base
	Name string
}

// DoStmt is a DO statement header. Exactly one of Iter and While is
// set for counted and DO WHILE loops; both are nil for the infinite
// form.
type DoStmt struct {
	Base
	Name     string
	EndLabel int // terminal statement label of a labeled DO
	Iter     *Iterator
	While    Expression
}

// CycleStmt is CYCLE [name].
type CycleStmt struct {
	Base
	Name string
}

// ExitStmt is EXIT [name].
type ExitStmt struct {
	Base
	Name string
}

// GotoStmt covers the unconditional, computed and assigned GOTO forms.
// Plain: Label set. Computed: Labels plus Selector. Assigned: Selector
// is a variable and Labels optional.
type GotoStmt struct {
	Base
	Label    int
	Labels   []int
	Selector Expression
	Assigned bool
}

func (s *GotoStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "goto "...)
	if s.Label != 0 {
		return strconv.AppendInt(dst, int64(s.Label), 10)
	}
	if len(s.Labels) > 0 {
		dst = append(dst, '(')
		for i, l := range s.Labels {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendInt(dst, int64(l), 10)
		}
		dst = append(dst, ')')
	}
	if s.Selector != nil {
		dst = s.Selector.AppendString(dst)
	}
	return dst
}

// AssignStmt is the deleted-feature ASSIGN label TO var statement.
type AssignStmt struct {
	Base
	TargetLabel int
	Var         string
}

// ReturnStmt is RETURN [alt-return expr].
type ReturnStmt struct {
	Base
	Value Expression
}

// CallStmt is a CALL statement.
type CallStmt struct {
	Base
	Name string
	Args []ActualArg
}

type ContinueStmt struct {
	Base
}

// PauseStmt is the deleted-feature PAUSE [code] statement.
type PauseStmt struct {
	Base
	Code Expression
}

// StopStmt is STOP or ERROR STOP with optional stop code.
type StopStmt struct {
	Base
	ErrorStop bool
	Code      Expression
}

// StatSpec is a STAT=, ERRMSG=, ACQUIRED_LOCK=, UNTIL_COUNT=, SOURCE=
// or MOLD= specifier in image-control and allocation statements.
type StatSpec struct {
	Keyword string
	Value   Expression
}

// CriticalStmt opens a CRITICAL construct.
type CriticalStmt struct {
	Base
	Name  string
	Specs []StatSpec
}

// BlockStmt opens a BLOCK construct.
type BlockStmt struct {
	Base
	Name string
}

// Association is one name => target of an ASSOCIATE statement.
type Association struct {
	Name   string
	Target Expression
}

// AssociateStmt opens an ASSOCIATE construct.
type AssociateStmt struct {
	Base
	Name   string
	Assocs []Association
}

// LockStmt is LOCK (lock-var [, specs]).
type LockStmt struct {
	Base
	Var   Expression
	Specs []StatSpec
}

// UnlockStmt is UNLOCK (lock-var [, specs]).
type UnlockStmt struct {
	Base
	Var   Expression
	Specs []StatSpec
}

type SyncAllStmt struct {
	Base
	Specs []StatSpec
}

// SyncImagesStmt is SYNC IMAGES (image-set). Star means the * form.
type SyncImagesStmt struct {
	Base
	Images Expression
	Star   bool
	Specs  []StatSpec
}

type SyncMemoryStmt struct {
	Base
	Specs []StatSpec
}

// EventPostStmt is EVENT POST (event-var [, specs]).
type EventPostStmt struct {
	Base
	Var   Expression
	Specs []StatSpec
}

// EventWaitStmt is EVENT WAIT (event-var [, specs]).
type EventWaitStmt struct {
	Base
	Var   Expression
	Specs []StatSpec
}

// WhereStmt is the WHERE statement or construct header. Assign is set
// for the single-statement form and nil for the construct.
type WhereStmt struct {
	Base
	Mask   Expression
	Assign *Assignment
}

// ElsewhereStmt is ELSEWHERE [(mask)] [name].
type ElsewhereStmt struct {
	Base
	Mask Expression
	Name string
}

// ForallHeader is the (iter-list [, mask]) control of FORALL.
type ForallHeader struct {
	Iters []Iterator
	Mask  Expression
}

// ForallStmt is the FORALL statement or construct header. Assign is
// set for the single-statement form.
type ForallStmt struct {
	Base
	Header ForallHeader
	Assign Statement
}

// SelectCaseStmt opens a SELECT CASE construct.
type SelectCaseStmt struct {
	Base
	Name string
	Expr Expression
}

// SelectTypeStmt opens a SELECT TYPE construct; AssocName is the
// associate-name of the (name => selector) form.
type SelectTypeStmt struct {
	Base
	Name      string
	AssocName string
	Selector  Expression
}

// CaseRange is one case-value or low:high range.
type CaseRange struct {
	Low     Expression
	High    Expression
	IsRange bool
}

// CaseStmt is CASE (ranges) or CASE DEFAULT.
type CaseStmt struct {
	Base
	Default bool
	Ranges  []CaseRange
	Name    string
}

// TypeIsStmt is TYPE IS (type-spec).
type TypeIsStmt struct {
	Base
	Type TypeSpec
	Name string
}

// ClassIsStmt is CLASS IS (name) or CLASS DEFAULT.
type ClassIsStmt struct {
	Base
	Default bool
	Type    TypeSpec
	Name    string
}

// AllocateStmt is an ALLOCATE statement. Objects keep their shape
// specs inside the variable reference chain.
type AllocateStmt struct {
	Base
	TypeSpec *TypeSpec
	Objects  []Expression
	Specs    []StatSpec
}

// DeallocateStmt is a DEALLOCATE statement.
type DeallocateStmt struct {
	Base
	Objects []Expression
	Specs   []StatSpec
}

// NullifyStmt is a NULLIFY statement.
type NullifyStmt struct {
	Base
	Objects []Expression
}
