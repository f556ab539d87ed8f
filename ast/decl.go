package ast

import "github.com/fortgo/fmatch/token"

// BasicType is the intrinsic type category of a type-spec.
type BasicType int

const (
	TypeUnknown BasicType = iota
	TypeInteger
	TypeReal
	TypeDoublePrecision
	TypeComplex
	TypeDoubleComplex
	TypeLogical
	TypeCharacter
	TypeDerived // TYPE(name)
	TypeClass   // CLASS(name)
	TypeClassStar
)

func (t BasicType) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	case TypeDoublePrecision:
		return "DOUBLE PRECISION"
	case TypeComplex:
		return "COMPLEX"
	case TypeDoubleComplex:
		return "DOUBLE COMPLEX"
	case TypeLogical:
		return "LOGICAL"
	case TypeCharacter:
		return "CHARACTER"
	case TypeDerived:
		return "TYPE"
	case TypeClass:
		return "CLASS"
	case TypeClassStar:
		return "CLASS(*)"
	}
	return "<unknown type>"
}

// TypeSpec is a matched type specification. Kind and Length stay as
// expressions; evaluating them is the resolver's job.
type TypeSpec struct {
	Basic       BasicType
	Kind        Expression
	OldKind     int // nonzero for the obsolescent TYPE*n spelling
	Length      Expression
	LenAssumed  bool // CHARACTER(LEN=*) or CHARACTER*(*)
	DerivedName string
}

// ArraySpecKind distinguishes the shapes an array-spec can declare.
type ArraySpecKind int

const (
	ArraySpecExplicit ArraySpecKind = iota
	ArraySpecAssumedShape
	ArraySpecDeferred
	ArraySpecAssumedSize
	ArraySpecAssumedRank
)

func (k ArraySpecKind) String() string {
	switch k {
	case ArraySpecExplicit:
		return "explicit"
	case ArraySpecAssumedShape:
		return "assumed-shape"
	case ArraySpecDeferred:
		return "deferred"
	case ArraySpecAssumedSize:
		return "assumed-size"
	case ArraySpecAssumedRank:
		return "assumed-rank"
	}
	return "unknown"
}

// ArrayBound holds one dimension of an array-spec.
type ArrayBound struct {
	Lower Expression
	Upper Expression
}

// ArraySpec is a matched array specification. Also used for coarray
// specs, where ArraySpecAssumedSize stands for [*].
type ArraySpec struct {
	Kind   ArraySpecKind
	Bounds []ArrayBound
}

// Rank returns the declared number of dimensions.
func (s *ArraySpec) Rank() int { return len(s.Bounds) }

// Access is an accessibility specifier.
type Access int

const (
	AccessUnknown Access = iota
	AccessPublic
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "PUBLIC"
	case AccessPrivate:
		return "PRIVATE"
	}
	return "<unset access>"
}

// Intent is the INTENT attribute direction.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentIn
	IntentOut
	IntentInOut
)

func (i Intent) String() string {
	switch i {
	case IntentIn:
		return "IN"
	case IntentOut:
		return "OUT"
	case IntentInOut:
		return "INOUT"
	}
	return "<unset intent>"
}

// AttrKind names a declaration attribute.
type AttrKind int

const (
	AttrNone AttrKind = iota
	AttrAllocatable
	AttrAsynchronous
	AttrAutomatic
	AttrBind
	AttrCodimension
	AttrContiguous
	AttrDimension
	AttrExternal
	AttrIntent
	AttrIntrinsic
	AttrOptional
	AttrParameter
	AttrPointer
	AttrPrivate
	AttrProtected
	AttrPublic
	AttrSave
	AttrStatic
	AttrTarget
	AttrValue
	AttrVolatile
)

var attrNames = [...]string{
	AttrNone:         "<none>",
	AttrAllocatable:  "ALLOCATABLE",
	AttrAsynchronous: "ASYNCHRONOUS",
	AttrAutomatic:    "AUTOMATIC",
	AttrBind:         "BIND",
	AttrCodimension:  "CODIMENSION",
	AttrContiguous:   "CONTIGUOUS",
	AttrDimension:    "DIMENSION",
	AttrExternal:     "EXTERNAL",
	AttrIntent:       "INTENT",
	AttrIntrinsic:    "INTRINSIC",
	AttrOptional:     "OPTIONAL",
	AttrParameter:    "PARAMETER",
	AttrPointer:      "POINTER",
	AttrPrivate:      "PRIVATE",
	AttrProtected:    "PROTECTED",
	AttrPublic:       "PUBLIC",
	AttrSave:         "SAVE",
	AttrStatic:       "STATIC",
	AttrTarget:       "TARGET",
	AttrValue:        "VALUE",
	AttrVolatile:     "VOLATILE",
}

func (k AttrKind) String() string {
	if k < 0 || int(k) >= len(attrNames) {
		return "<invalid attr>"
	}
	return attrNames[k]
}

// Attr is one attribute in an attribute list, with its parameters.
type Attr struct {
	Kind   AttrKind
	Intent Intent     // for AttrIntent
	Spec   *ArraySpec // for AttrDimension / AttrCodimension
	Bind   *BindSpec  // for AttrBind
}

// BindSpec is a BIND(C[, NAME=expr]) language binding.
type BindSpec struct {
	Lang string // only "c" today
	Name Expression
}

// DeclEntity is one declared entity of a type declaration statement.
type DeclEntity struct {
	Name      string
	ArraySpec *ArraySpec
	CharLen   Expression
	LenStar   bool // entity-level *(*) length
	Init      Expression
	PtrInit   bool // initializer came via =>
}

// TypeDecl is a full type declaration statement.
type TypeDecl struct {
	Base
	TypeSpec TypeSpec
	Attrs    []Attr
	Entities []DeclEntity
}

// HasAttr reports whether the declaration carries the given attribute.
func (d *TypeDecl) HasAttr(k AttrKind) bool {
	for i := range d.Attrs {
		if d.Attrs[i].Kind == k {
			return true
		}
	}
	return false
}

// AttrObject is one object of a standalone attribute statement. SAVE
// and BIND accept common block names written /name/.
type AttrObject struct {
	Name        string
	IsCommon    bool
	ArraySpec   *ArraySpec
	CoarraySpec *ArraySpec
}

// AttrStmt is a standalone attribute statement such as
// "ALLOCATABLE :: a, b" or "DIMENSION a(10)".
type AttrStmt struct {
	Base
	Attr    Attr
	Objects []AttrObject
}

// AccessStmt is a PUBLIC or PRIVATE statement, possibly listing
// generic specs.
type AccessStmt struct {
	Base
	Access Access
	Specs  []GenericSpec // empty for the bare statement form
}

// NamedConstant is one definition inside a PARAMETER statement.
type NamedConstant struct {
	Name  string
	Value Expression
}

// ParameterStmt is the F77-style PARAMETER (n1=e1, n2=e2) statement.
type ParameterStmt struct {
	Base
	Consts []NamedConstant
}

// LetterRange is an a-z range of an IMPLICIT spec.
type LetterRange struct {
	Lo, Hi byte
}

// ImplicitSpec maps a letter range onto a type.
type ImplicitSpec struct {
	Type   TypeSpec
	Ranges []LetterRange
}

// ImplicitStmt is IMPLICIT NONE or IMPLICIT type(letters), ...
type ImplicitStmt struct {
	Base
	None  bool
	Specs []ImplicitSpec
}

// DataValue is one value of a DATA statement, with optional repeat.
type DataValue struct {
	Repeat Expression
	Value  Expression
}

// DataSet is one object-list / value-list pair of a DATA statement.
type DataSet struct {
	Objects []Expression
	Values  []DataValue
}

// DataStmt is a DATA statement.
type DataStmt struct {
	Base
	Sets []DataSet
}

// CommonObject is one object of a common block, optionally with an
// array-spec in the F77 style.
type CommonObject struct {
	Name string
	Spec *ArraySpec
}

// CommonBlock is one /name/ group of a COMMON statement. The blank
// common has an empty name.
type CommonBlock struct {
	Name    string
	Objects []CommonObject
}

// CommonStmt is a COMMON statement.
type CommonStmt struct {
	Base
	Blocks []CommonBlock
}

// NamelistGroup is one /name/ group of a NAMELIST statement.
type NamelistGroup struct {
	Name    string
	Objects []string
}

// NamelistStmt is a NAMELIST statement.
type NamelistStmt struct {
	Base
	Groups []NamelistGroup
}

// EquivalenceStmt is an EQUIVALENCE statement; each set holds the
// variables of one parenthesized group.
type EquivalenceStmt struct {
	Base
	Sets [][]Expression
}

// StFunction is a statement function definition f(args) = expr.
type StFunction struct {
	Base
	Name    string
	Dummies []string
	Value   Expression
}

// ImportStmt is an IMPORT statement inside an interface body.
type ImportStmt struct {
	Base
	All   bool // bare IMPORT
	Names []string
}

// UseRename is one rename or ONLY entry of a USE statement.
type UseRename struct {
	Local string
	Use   string
	Op    bool // operator(.x.) rename
}

// UseStmt is a USE statement.
type UseStmt struct {
	Base
	Nature  string // "intrinsic", "non_intrinsic" or empty
	Module  string
	Only    bool
	Renames []UseRename
}

// Prefix collects subprogram prefix keywords and an optional function
// result type.
type Prefix struct {
	Pure      bool
	Impure    bool
	Elemental bool
	Recursive bool
	Module    bool
	TypeSpec  *TypeSpec
}

// Suffix is the function suffix: RESULT(name) and/or BIND(C).
type Suffix struct {
	Result string
	Bind   *BindSpec
}

// FunctionDecl is a FUNCTION statement header.
type FunctionDecl struct {
	Base
	Prefix Prefix
	Name   string
	Args   []string
	Suffix Suffix
}

// SubroutineDecl is a SUBROUTINE statement header. A "*" argument is an
// F77 alternate-return dummy.
type SubroutineDecl struct {
	Base
	Prefix Prefix
	Name   string
	Args   []string
	Bind   *BindSpec
}

// EntryStmt is an ENTRY statement.
type EntryStmt struct {
	Base
	Name   string
	Args   []string
	Suffix Suffix
}

// ProcEntity is one entity of a PROCEDURE declaration statement.
type ProcEntity struct {
	Name string
	Init Expression
}

// ProcedureDecl is PROCEDURE([iface]) [, attrs] :: names.
type ProcedureDecl struct {
	Base
	Interface string    // interface name, empty when a type-spec was given
	IfaceType *TypeSpec // PROCEDURE(REAL) form
	Attrs     []Attr
	Entities  []ProcEntity
}

// ModuleProcStmt is a MODULE PROCEDURE statement inside an interface.
type ModuleProcStmt struct {
	Base
	Names []string
}

// GenericStmt is a GENERIC binding inside a derived type.
type GenericStmt struct {
	Base
	Access  Access
	Spec    GenericSpec
	Targets []string
}

// DerivedTypeStmt is a TYPE statement opening a derived type.
type DerivedTypeStmt struct {
	Base
	Name     string
	Access   Access
	Bind     *BindSpec
	Extends  string
	Abstract bool
	Params   []string
}

// StructureStmt is the DEC STRUCTURE /name/ extension.
type StructureStmt struct {
	Base
	Name string
}

// UnionStmt is the DEC UNION extension.
type UnionStmt struct {
	Base
}

// MapStmt is the DEC MAP extension.
type MapStmt struct {
	Base
}

// FinalStmt is a FINAL binding inside a derived type.
type FinalStmt struct {
	Base
	Names []string
}

// BindCEntity is one entity of a standalone BIND statement; common
// blocks are written /name/.
type BindCEntity struct {
	Name     string
	IsCommon bool
}

// BindCStmt is a standalone BIND(C[, NAME=...]) statement.
type BindCStmt struct {
	Base
	Bind  BindSpec
	Names []BindCEntity
}

// GccAttributesStmt is a !GCC$ ATTRIBUTES compiler directive.
type GccAttributesStmt struct {
	Base
	Attrs []string
	Names []string
}

// GenericSpecKind discriminates the forms a generic-spec can take.
type GenericSpecKind int

const (
	GenericName GenericSpecKind = iota
	GenericOperator
	GenericDefinedOp
	GenericAssignment
)

// GenericSpec is a generic-spec: a name, OPERATOR(op), OPERATOR(.op.)
// or ASSIGNMENT(=).
type GenericSpec struct {
	Kind GenericSpecKind
	Name string
	Op   token.Op
}

// InterfaceStmt opens an interface block. Spec is nil for the plain
// INTERFACE form.
type InterfaceStmt struct {
	Base
	Abstract bool
	Spec     *GenericSpec
}

// EndInterfaceStmt closes an interface block.
type EndInterfaceStmt struct {
	Base
	Spec *GenericSpec
}

// Program unit statements.

type ProgramStmt struct {
	Base
	Name string
}

type ModuleStmt struct {
	Base
	Name string
}

// SubmoduleStmt is SUBMODULE (ancestor[:parent]) name.
type SubmoduleStmt struct {
	Base
	Ancestor string
	Parent   string
	Name     string
}

type BlockDataStmt struct {
	Base
	Name string
}

type ContainsStmt struct {
	Base
}

// SequenceStmt is the SEQUENCE statement of a derived type body.
type SequenceStmt struct {
	Base
}

// EndKind classifies what an END statement closes.
type EndKind int

const (
	EndOnly EndKind = iota
	EndProgram
	EndModule
	EndSubmodule
	EndSubroutine
	EndFunction
	EndProcedure
	EndBlockData
	EndType
	EndIf
	EndDo
	EndSelect
	EndWhere
	EndForall
	EndBlock
	EndAssociate
	EndCritical
	EndStructure
	EndUnion
	EndMap
)

var endNames = [...]string{
	EndOnly:       "END",
	EndProgram:    "END PROGRAM",
	EndModule:     "END MODULE",
	EndSubmodule:  "END SUBMODULE",
	EndSubroutine: "END SUBROUTINE",
	EndFunction:   "END FUNCTION",
	EndProcedure:  "END PROCEDURE",
	EndBlockData:  "END BLOCK DATA",
	EndType:       "END TYPE",
	EndIf:         "END IF",
	EndDo:         "END DO",
	EndSelect:     "END SELECT",
	EndWhere:      "END WHERE",
	EndForall:     "END FORALL",
	EndBlock:      "END BLOCK",
	EndAssociate:  "END ASSOCIATE",
	EndCritical:   "END CRITICAL",
	EndStructure:  "END STRUCTURE",
	EndUnion:      "END UNION",
	EndMap:        "END MAP",
}

func (k EndKind) String() string {
	if k < 0 || int(k) >= len(endNames) {
		return "<invalid end>"
	}
	return endNames[k]
}

// EndStmt is any END statement, unit-level or construct-level.
type EndStmt struct {
	Base
	Kind EndKind
	Name string
}
