package ast

// OmpKind identifies an OpenMP directive.
type OmpKind int

const (
	OmpNone OmpKind = iota
	OmpAtomic
	OmpBarrier
	OmpCancel
	OmpCancellationPoint
	OmpCritical
	OmpDeclareReduction
	OmpDeclareSimd
	OmpDeclareTarget
	OmpDistribute
	OmpDistributeParallelDo
	OmpDistributeParallelDoSimd
	OmpDistributeSimd
	OmpDo
	OmpDoSimd
	OmpEndCritical
	OmpEndDirective // generic END pairing, clause-free
	OmpFlush
	OmpMaster
	OmpOrdered
	OmpParallel
	OmpParallelDo
	OmpParallelDoSimd
	OmpParallelSections
	OmpParallelWorkshare
	OmpSection
	OmpSections
	OmpSimd
	OmpSingle
	OmpTarget
	OmpTargetData
	OmpTargetTeams
	OmpTargetTeamsDistribute
	OmpTargetTeamsDistributeParallelDo
	OmpTargetTeamsDistributeParallelDoSimd
	OmpTargetTeamsDistributeSimd
	OmpTargetUpdate
	OmpTask
	OmpTaskgroup
	OmpTaskwait
	OmpTaskyield
	OmpTeams
	OmpTeamsDistribute
	OmpTeamsDistributeParallelDo
	OmpTeamsDistributeParallelDoSimd
	OmpTeamsDistributeSimd
	OmpThreadprivate
	OmpWorkshare
)

// AccKind identifies an OpenACC directive.
type AccKind int

const (
	AccNone AccKind = iota
	AccAtomic
	AccCache
	AccData
	AccDeclare
	AccEnterData
	AccExitData
	AccHostData
	AccKernels
	AccKernelsLoop
	AccLoop
	AccParallel
	AccParallelLoop
	AccRoutine
	AccUpdate
	AccWait
	AccEndDirective
)

// ScheduleKind is the OpenMP SCHEDULE clause selector.
type ScheduleKind int

const (
	ScheduleNone ScheduleKind = iota
	ScheduleStatic
	ScheduleDynamic
	ScheduleGuided
	ScheduleRuntime
	ScheduleAuto
)

func (s ScheduleKind) String() string {
	switch s {
	case ScheduleStatic:
		return "STATIC"
	case ScheduleDynamic:
		return "DYNAMIC"
	case ScheduleGuided:
		return "GUIDED"
	case ScheduleRuntime:
		return "RUNTIME"
	case ScheduleAuto:
		return "AUTO"
	}
	return "<no schedule>"
}

// DefaultKind is the OpenMP DEFAULT clause selector.
type DefaultKind int

const (
	DefaultUnset DefaultKind = iota
	DefaultNone
	DefaultShared
	DefaultPrivate
	DefaultFirstprivate
	DefaultPresent // OpenACC only
)

// ProcBindKind is the OpenMP PROC_BIND clause selector.
type ProcBindKind int

const (
	ProcBindUnset ProcBindKind = iota
	ProcBindMaster
	ProcBindClose
	ProcBindSpread
)

// ListKind indexes the variable lists a directive clause set can hold.
// OpenMP and OpenACC share the substrate; each family permits its own
// subset.
type ListKind int

const (
	ListPrivate ListKind = iota
	ListFirstprivate
	ListLastprivate
	ListShared
	ListCopyin
	ListCopyprivate
	ListUniform
	ListAligned
	ListLinear
	ListDepend
	ListMap
	ListTo
	ListFrom
	ListFlush
	ListThreadprivate
	// OpenACC data lists.
	ListCopy
	ListCopyout
	ListCreate
	ListDelete
	ListPresent
	ListDeviceptr
	ListDeviceResident
	ListUseDevice
	ListHost
	ListSelf
	ListCache
	ListWait

	NumListKinds
)

// Reduction is one REDUCTION(op: vars) clause.
type Reduction struct {
	Op   string // intrinsic operator spelling or procedure name
	Vars []string
}

// DirClauses is the clause set of a directive line. A single record
// serves both directive families; the per-directive clause masks in
// the matcher decide what may be populated.
type DirClauses struct {
	If          Expression
	Final       Expression
	NumThreads  Expression
	Safelen     Expression
	Simdlen     Expression
	ThreadLimit Expression
	NumTeams    Expression
	Device      Expression
	Priority    Expression
	Grainsize   Expression
	NumTasks    Expression
	Collapse    int
	OrderedN    int
	Ordered     bool
	Schedule    ScheduleKind
	Chunk       Expression
	Default     DefaultKind
	ProcBind    ProcBindKind
	Nowait      bool
	Untied      bool
	Mergeable   bool
	Inbranch    bool
	Notinbranch bool
	SeqCst      bool

	// OpenACC-specific controls.
	Async        Expression
	AsyncSet     bool
	NumGangs     Expression
	NumWorkers   Expression
	VectorLength Expression
	Gang         bool
	GangNum      Expression
	Worker       bool
	WorkerNum    Expression
	Vector       bool
	VectorNum    Expression
	Seq          bool
	Independent  bool
	AutoLoop     bool
	Tile         []Expression
	WaitArgs     []Expression

	Lists      [NumListKinds][]string
	Reductions []Reduction
}

// OmpDirective is a matched !$OMP directive line.
type OmpDirective struct {
	Base
	Kind    OmpKind
	Name    string // critical/cancel region name
	Clauses *DirClauses
}

// OmpEndNowait pairs with the NOWAIT-capable END directives.
type OmpEndNowait struct {
	Base
	Kind   OmpKind
	Nowait bool
}

// OmpEndSingle is the END SINGLE directive with its COPYPRIVATE list.
type OmpEndSingle struct {
	Base
	Clauses *DirClauses
}

// AccDirective is a matched !$ACC directive line.
type AccDirective struct {
	Base
	Kind    AccKind
	Name    string
	Clauses *DirClauses
}
