package fmatch

import (
	"io"

	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/fortgo/fmatch/ast"
	"github.com/fortgo/fmatch/symbol"
)

// Options selects source form and language extensions.
type Options struct {
	Form           Form
	FixedLineWidth int  // 0 means the standard 72 columns
	OpenMP         bool // recognize !$OMP sentinels
	OpenACC        bool // recognize !$ACC sentinels
	DECExtensions  bool // STRUCTURE/UNION/MAP, '.' as member separator
}

// blockKind says what an open construct or program unit is, so END
// statements can be checked against it.
type blockKind int

const (
	blockProgram blockKind = iota
	blockModule
	blockSubmodule
	blockBlockData
	blockFunction
	blockSubroutine
	blockInterface
	blockType
	blockStructure
	blockUnion
	blockMap
	blockIf
	blockDo
	blockWhere
	blockForall
	blockSelect
	blockCritical
	blockBlock
	blockAssociate
)

func (k blockKind) String() string {
	switch k {
	case blockProgram:
		return "PROGRAM"
	case blockModule:
		return "MODULE"
	case blockSubmodule:
		return "SUBMODULE"
	case blockBlockData:
		return "BLOCK DATA"
	case blockFunction:
		return "FUNCTION"
	case blockSubroutine:
		return "SUBROUTINE"
	case blockInterface:
		return "INTERFACE"
	case blockType:
		return "TYPE"
	case blockStructure:
		return "STRUCTURE"
	case blockUnion:
		return "UNION"
	case blockMap:
		return "MAP"
	case blockIf:
		return "IF"
	case blockDo:
		return "DO"
	case blockWhere:
		return "WHERE"
	case blockForall:
		return "FORALL"
	case blockSelect:
		return "SELECT"
	case blockCritical:
		return "CRITICAL"
	case blockBlock:
		return "BLOCK"
	case blockAssociate:
		return "ASSOCIATE"
	}
	return "?"
}

func (k blockKind) isUnit() bool {
	switch k {
	case blockProgram, blockModule, blockSubmodule, blockBlockData,
		blockFunction, blockSubroutine:
		return true
	}
	return false
}

// blockEntry is one open construct on the parser's block stack.
type blockEntry struct {
	kind     blockKind
	name     string
	endLabel int  // labeled-DO terminator, 0 otherwise
	execPart bool // unit frames: specification part is over
}

// Parser classifies one statement at a time over a normalized source
// cursor. A Parser is reusable via Reset and not safe for concurrent
// use.
type Parser struct {
	cur    Cursor
	opts   Options
	symtab *symbol.Table
	sink   DiagSink
	blocks *linkedliststack.Stack // of *blockEntry

	errCount int
	suppress bool // gate for secondary diagnostics within one statement

	// Per-statement classification state.
	stName      string // statement keyword for "Syntax error in X" messages
	stLabel     int
	pendingName string // construct name seen as "name:", unclaimed yet
	pendingAt   ast.Loc

	// Mode flags recognizers consult mid-flight.
	matchingPtrAssignment     bool
	matchingProcPtrAssignment bool
	matchingPrefix            bool
}

// NewParser returns a parser over the source named name read from r.
// A nil sink collects diagnostics into an internal CollectSink.
func NewParser(name string, r io.Reader, opts Options, sink DiagSink) (*Parser, error) {
	p := &Parser{}
	if err := p.Reset(name, r, opts, sink); err != nil {
		return nil, err
	}
	return p, nil
}

// Reset re-targets the parser at a new source, dropping all state.
func (p *Parser) Reset(name string, r io.Reader, opts Options, sink DiagSink) error {
	if opts.FixedLineWidth == 0 {
		opts.FixedLineWidth = 72
	}
	if sink == nil {
		sink = &CollectSink{}
	}
	*p = Parser{
		opts:   opts,
		symtab: symbol.NewTable(),
		sink:   sink,
		blocks: linkedliststack.New(),
	}
	if err := p.cur.Reset(name, r, opts); err != nil {
		return err
	}
	if at, ok := p.cur.Unterminated(); ok {
		p.errorAt(at, "Unterminated character constant beginning at %s", at.String())
	}
	return nil
}

// Symbols exposes the symbol table accumulated so far.
func (p *Parser) Symbols() *symbol.Table { return p.symtab }

// ErrCount reports how many error diagnostics have been emitted.
func (p *Parser) ErrCount() int { return p.errCount }

// Sink returns the diagnostic sink the parser reports into.
func (p *Parser) Sink() DiagSink { return p.sink }

// takeBlockName consumes the pending "name:" construct name. Openers
// call it exactly once on their success path; that is the point where
// the name becomes a construct label in the symbol table, so a
// statement that turns out not to open a construct leaves no trace.
func (p *Parser) takeBlockName() string {
	n := p.pendingName
	p.pendingName = ""
	if n != "" {
		sym, _ := p.symtab.Lookup(n, p.pendingAt)
		if !sym.SetFlavor(symbol.FlavorLabel) {
			p.errorAt(p.pendingAt, "Duplicate construct name %q at %s", n, p.pendingAt.String())
		}
	}
	return n
}

func (p *Parser) topBlock() *blockEntry {
	v, ok := p.blocks.Peek()
	if !ok {
		return nil
	}
	return v.(*blockEntry)
}

// unitFrame returns the innermost program-unit frame.
func (p *Parser) unitFrame() *blockEntry {
	it := p.blocks.Iterator()
	for it.Next() {
		if e := it.Value().(*blockEntry); e.kind.isUnit() {
			return e
		}
	}
	return nil
}

// inSpecPart reports whether the current unit is still in its
// specification part.
func (p *Parser) inSpecPart() bool {
	if u := p.unitFrame(); u != nil {
		return !u.execPart
	}
	return true
}

func (p *Parser) pushBlock(kind blockKind, name string, endLabel int) {
	tracer().Debugf("open %s %q", kind, name)
	p.blocks.Push(&blockEntry{kind: kind, name: name, endLabel: endLabel})
}

// Depth reports how many constructs and units are currently open.
func (p *Parser) Depth() int { return p.blocks.Size() }

// NextStatement classifies the next statement of the source. It
// returns No with a nil statement when the source is exhausted, and
// Err when the statement produced diagnostics and was skipped; the
// caller keeps going after Err.
func (p *Parser) NextStatement() (ast.Statement, Match) {
	for p.cur.NextStatement() {
		p.suppress = false
		p.stName = ""
		p.stLabel = 0
		if p.cur.AtEOS() {
			continue
		}
		switch p.cur.directiveKind() {
		case dirOmp:
			st, m := p.MatchOmpDirective()
			if m == No {
				continue
			}
			return st, m
		case dirAcc:
			st, m := p.MatchAccDirective()
			if m == No {
				continue
			}
			return st, m
		case dirGcc:
			st, m := p.MatchGccAttributes()
			if m != Yes {
				p.warning("Unclassifiable GCC directive at %s", p.cur.Where().String())
				p.cur.SkipToEOS()
				continue
			}
			return st, Yes
		}
		st, m := p.nextOrdinary()
		if m == No {
			continue
		}
		return st, m
	}
	return nil, No
}

// nextOrdinary handles one non-directive statement: statement label,
// construct name, classification and block bookkeeping.
func (p *Parser) nextOrdinary() (ast.Statement, Match) {
	at := p.cur.Where()
	if isDigit(p.peekSig()) {
		n, m := p.MatchStLabel()
		if m == Err {
			p.cur.SkipToEOS()
			return nil, Err
		}
		if m == Yes {
			p.stLabel = n
		}
		if p.MatchEOS() == Yes {
			p.error("Statement label without statement at %s", at.String())
			return nil, Err
		}
	}
	nameAt := p.cur.Where()
	if name, m := p.MatchLabel(); m == Err {
		p.cur.SkipToEOS()
		return nil, Err
	} else if m == Yes {
		p.pendingName = name
		p.pendingAt = nameAt
	}

	st, m := p.classify()
	switch m {
	case Err:
		p.pendingName = ""
		return nil, Err
	case No:
		p.error("Unclassifiable statement at %s", at.String())
		p.pendingName = ""
		p.cur.SkipToEOS()
		return nil, Err
	}
	if p.pendingName != "" {
		p.error("Construct name %q not allowed on this statement", p.pendingName)
		p.pendingName = ""
	}
	if p.stLabel != 0 {
		st.SetLabel(p.stLabel)
	}
	p.bookkeep(st)
	return st, Yes
}

// classify runs the candidate recognizers. The common and ambiguous
// forms come first; everything else dispatches on the first letter the
// way a keyword trie would.
func (p *Parser) classify() (ast.Statement, Match) {
	type recognizer func() (ast.Statement, Match)
	try := func(recs ...recognizer) (ast.Statement, Match) {
		for _, rec := range recs {
			cp := p.cur.Save()
			st, m := rec()
			if m != No {
				return st, m
			}
			p.cur.Restore(cp)
		}
		return nil, No
	}

	// A statement function is only plausible in a specification part;
	// everywhere else name(i) = expr is an assignment.
	if p.inSpecPart() {
		if st, m := try(p.MatchStFunction); m != No {
			return st, m
		}
	}
	if st, m := try(
		p.MatchAssignment,
		p.MatchPointerAssignment,
		p.MatchPtrFcnAssign,
		p.MatchFunctionDecl,
		p.MatchSubroutineDecl,
	); m != No {
		return st, m
	}

	switch lower(p.peekSig()) {
	case 'a':
		return try(p.MatchAllocatable, p.MatchAllocate, p.MatchAssignStmt,
			p.MatchAssociate, p.MatchAsynchronous, p.MatchAutomatic,
			p.MatchInterface)
	case 'b':
		return try(p.MatchBackspace, p.MatchBlockData, p.MatchBlockConstruct,
			p.MatchBindCStmt)
	case 'c':
		return try(p.MatchCall, p.MatchClassIs, p.MatchCase, p.MatchClose,
			p.MatchCodimension, p.MatchCommon, p.MatchContains,
			p.MatchContiguous, p.MatchContinue, p.MatchCritical,
			p.MatchCycle, p.MatchDataDecl)
	case 'd':
		return try(p.MatchData, p.MatchDeallocate, p.MatchDimension,
			p.MatchDo, p.MatchDataDecl)
	case 'e':
		return try(p.MatchElsewhere, p.MatchElseIf, p.MatchElse,
			p.MatchEndInterface, p.MatchEndfile, p.MatchEnd, p.MatchEntry,
			p.MatchEquivalence, p.MatchStop, p.MatchEventPost,
			p.MatchEventWait, p.MatchExit, p.MatchExternal)
	case 'f':
		return try(p.MatchFormat, p.MatchFlushStmt, p.MatchForall,
			p.MatchFinal)
	case 'g':
		return try(p.MatchGoto, p.MatchGenericBinding)
	case 'i':
		return try(p.MatchIf, p.MatchImplicitNone, p.MatchImplicit,
			p.MatchImport, p.MatchInterface, p.MatchIntentStmt,
			p.MatchIntrinsicStmt, p.MatchInquire, p.MatchDataDecl)
	case 'l':
		return try(p.MatchLock, p.MatchDataDecl)
	case 'm':
		return try(p.MatchModuleProc, p.MatchModule, p.MatchMap)
	case 'n':
		return try(p.MatchNullify, p.MatchNamelist)
	case 'o':
		return try(p.MatchOpen, p.MatchOptional)
	case 'p':
		return try(p.MatchPrint, p.MatchParameterStmt, p.MatchPause,
			p.MatchPointerStmt, p.MatchProcedureDecl, p.MatchProgram,
			p.MatchProtected, p.MatchAccessStmt)
	case 'r':
		return try(p.MatchRead, p.MatchReturn, p.MatchRewind, p.MatchDataDecl)
	case 's':
		return try(p.MatchSequence, p.MatchSelectCase, p.MatchSelectType,
			p.MatchSave, p.MatchStatic, p.MatchStop, p.MatchStructure,
			p.MatchSubmodule, p.MatchSyncAll, p.MatchSyncImages,
			p.MatchSyncMemory)
	case 't':
		return try(p.MatchTypeIs, p.MatchDerivedTypeStmt, p.MatchDataDecl,
			p.MatchTarget)
	case 'u':
		return try(p.MatchUnlock, p.MatchUse, p.MatchUnion)
	case 'v':
		return try(p.MatchValueStmt, p.MatchVolatile)
	case 'w':
		return try(p.MatchWhere, p.MatchWrite, p.MatchWaitStmt)
	}
	return nil, No
}

// bookkeep maintains the block stack for a freshly accepted statement
// and flips the unit into its execution part when warranted.
func (p *Parser) bookkeep(st ast.Statement) {
	switch s := st.(type) {
	case *ast.ProgramStmt:
		p.pushBlock(blockProgram, s.Name, 0)
	case *ast.ModuleStmt:
		p.pushBlock(blockModule, s.Name, 0)
	case *ast.SubmoduleStmt:
		p.pushBlock(blockSubmodule, s.Name, 0)
	case *ast.BlockDataStmt:
		p.pushBlock(blockBlockData, s.Name, 0)
	case *ast.FunctionDecl:
		p.pushBlock(blockFunction, s.Name, 0)
	case *ast.SubroutineDecl:
		p.pushBlock(blockSubroutine, s.Name, 0)
	case *ast.InterfaceStmt:
		p.pushBlock(blockInterface, "", 0)
	case *ast.EndInterfaceStmt:
		if top := p.topBlock(); top == nil || top.kind != blockInterface {
			p.error("Unexpected END INTERFACE statement")
		} else {
			p.blocks.Pop()
		}
	case *ast.DerivedTypeStmt:
		p.pushBlock(blockType, s.Name, 0)
	case *ast.StructureStmt:
		p.pushBlock(blockStructure, s.Name, 0)
	case *ast.UnionStmt:
		p.pushBlock(blockUnion, "", 0)
	case *ast.MapStmt:
		p.pushBlock(blockMap, "", 0)
	case *ast.ContainsStmt:
		if u := p.unitFrame(); u != nil {
			u.execPart = false
		}
	case *ast.EndStmt:
		p.closeBlock(s)

	case *ast.IfThen:
		p.markExec()
		p.pushBlock(blockIf, s.Name, 0)
	case *ast.DoStmt:
		p.markExec()
		p.pushBlock(blockDo, s.Name, s.EndLabel)
	case *ast.WhereStmt:
		p.markExec()
		if s.Assign == nil {
			p.pushBlock(blockWhere, "", 0)
		}
	case *ast.ForallStmt:
		p.markExec()
		if s.Assign == nil {
			p.pushBlock(blockForall, "", 0)
		}
	case *ast.SelectCaseStmt:
		p.markExec()
		p.pushBlock(blockSelect, s.Name, 0)
	case *ast.SelectTypeStmt:
		p.markExec()
		p.pushBlock(blockSelect, s.Name, 0)
	case *ast.CriticalStmt:
		p.markExec()
		p.pushBlock(blockCritical, s.Name, 0)
	case *ast.BlockStmt:
		p.markExec()
		p.pushBlock(blockBlock, s.Name, 0)
	case *ast.AssociateStmt:
		p.markExec()
		p.pushBlock(blockAssociate, s.Name, 0)

	case *ast.ElseIfStmt:
		p.wantTop(blockIf, "ELSE IF")
	case *ast.ElseStmt:
		p.wantTop(blockIf, "ELSE")
	case *ast.ElsewhereStmt:
		p.wantTop(blockWhere, "ELSEWHERE")
	case *ast.CaseStmt:
		p.wantTop(blockSelect, "CASE")
	case *ast.TypeIsStmt:
		p.wantTop(blockSelect, "TYPE IS")
	case *ast.ClassIsStmt:
		p.wantTop(blockSelect, "CLASS IS")

	case *ast.UseStmt, *ast.ImportStmt, *ast.ImplicitStmt,
		*ast.TypeDecl, *ast.AttrStmt, *ast.AccessStmt,
		*ast.ParameterStmt, *ast.CommonStmt, *ast.NamelistStmt,
		*ast.EquivalenceStmt, *ast.DataStmt, *ast.StFunction,
		*ast.ProcedureDecl, *ast.ModuleProcStmt, *ast.EntryStmt,
		*ast.FormatStmt, *ast.BindCStmt,
		*ast.GenericStmt, *ast.FinalStmt, *ast.SequenceStmt,
		*ast.GccAttributesStmt:
		// Specification statements leave the phase alone.
	default:
		p.markExec()
	}
	// A labeled statement terminates every open labeled DO sharing
	// that label.
	if n := st.StmtLabel(); n != 0 {
		for top := p.topBlock(); top != nil && top.kind == blockDo && top.endLabel == n; top = p.topBlock() {
			tracer().Debugf("close DO at label %d", n)
			p.blocks.Pop()
		}
	}
}

// markExec flips the innermost unit into its execution part; the first
// executable statement of a unit ends the specification part. At file
// scope it opens the implicit main program.
func (p *Parser) markExec() {
	u := p.unitFrame()
	if u == nil {
		p.pushBlock(blockProgram, "", 0)
		u = p.topBlock()
	}
	u.execPart = true
}

func (p *Parser) wantTop(kind blockKind, what string) {
	if top := p.topBlock(); top == nil || top.kind != kind {
		p.error("Unexpected %s statement", what)
	}
}

// endsFor maps END kinds to the block kinds they may close.
var endsFor = map[ast.EndKind][]blockKind{
	ast.EndProgram:    {blockProgram},
	ast.EndModule:     {blockModule},
	ast.EndSubmodule:  {blockSubmodule},
	ast.EndBlockData:  {blockBlockData},
	ast.EndFunction:   {blockFunction},
	ast.EndSubroutine: {blockSubroutine},
	ast.EndProcedure:  {blockFunction, blockSubroutine},
	ast.EndType:       {blockType},
	ast.EndStructure:  {blockStructure},
	ast.EndUnion:      {blockUnion},
	ast.EndMap:        {blockMap},
	ast.EndIf:         {blockIf},
	ast.EndDo:         {blockDo},
	ast.EndSelect:     {blockSelect},
	ast.EndWhere:      {blockWhere},
	ast.EndForall:     {blockForall},
	ast.EndCritical:   {blockCritical},
	ast.EndBlock:      {blockBlock},
	ast.EndAssociate:  {blockAssociate},
}

// closeBlock pops the construct an END statement terminates, checking
// kind and name agreement. A mismatched END is reported and, when the
// kinds disagree entirely, the frame is left in place so a later
// correct END can still close it.
func (p *Parser) closeBlock(s *ast.EndStmt) {
	top := p.topBlock()
	if top == nil {
		p.error("%s statement at %s with nothing to terminate",
			s.Kind.String(), s.Loc.String())
		return
	}
	if s.Kind == ast.EndOnly {
		// Bare END closes program units and, for compatibility with
		// DEC sources, structure blocks.
		if !top.kind.isUnit() && top.kind != blockStructure &&
			top.kind != blockUnion && top.kind != blockMap {
			p.error("END statement at %s cannot close the open %s construct",
				s.Loc.String(), top.kind.String())
			return
		}
		p.blocks.Pop()
		return
	}
	ok := false
	for _, k := range endsFor[s.Kind] {
		if top.kind == k {
			ok = true
			break
		}
	}
	if !ok {
		p.error("Expecting END of %s at %s, got %s",
			top.kind.String(), s.Loc.String(), s.Kind.String())
		return
	}
	if s.Name != "" && top.name != "" && s.Name != top.name {
		p.error("Expected block name %q in %s statement at %s",
			top.name, s.Kind.String(), s.Loc.String())
	} else if s.Name != "" && top.name == "" {
		p.error("Unexpected block name %q in %s statement at %s",
			s.Name, s.Kind.String(), s.Loc.String())
	}
	p.blocks.Pop()
}

// ParseAll drains the source, returning every successfully classified
// statement. Statements that failed to classify are represented by
// their diagnostics alone.
func (p *Parser) ParseAll() []ast.Statement {
	var out []ast.Statement
	for {
		st, m := p.NextStatement()
		if st == nil && m == No {
			return out
		}
		if m == Yes {
			out = append(out, st)
		}
	}
}
