package ast

// IOSpec is one keyword=value control of an I/O statement. Exactly one
// of Value, Label and Star is meaningful: ERR=, END=, EOR= and FMT=
// may name a statement label, FMT= and UNIT= accept *.
type IOSpec struct {
	Keyword string
	Value   Expression
	Label   int
	Star    bool
}

// FindSpec returns the spec with the given keyword, or nil.
func FindSpec(specs []IOSpec, keyword string) *IOSpec {
	for i := range specs {
		if specs[i].Keyword == keyword {
			return &specs[i]
		}
	}
	return nil
}

// OpenStmt is an OPEN statement.
type OpenStmt struct {
	Base
	Specs []IOSpec
}

// CloseStmt is a CLOSE statement.
type CloseStmt struct {
	Base
	Specs []IOSpec
}

// ReadStmt is a READ statement, either control-list or the short
// READ fmt, items form (control list synthesized with UNIT=*).
type ReadStmt struct {
	Base
	Specs []IOSpec
	Items []Expression
}

// WriteStmt is a WRITE statement.
type WriteStmt struct {
	Base
	Specs []IOSpec
	Items []Expression
}

// PrintStmt is a PRINT statement.
type PrintStmt struct {
	Base
	Format IOSpec // FMT spec: label, * or expression
	Items  []Expression
}

// InquireStmt is an INQUIRE statement; the IOLENGTH form sets Length
// and Items instead of Specs.
type InquireStmt struct {
	Base
	Specs  []IOSpec
	Length Expression
	Items  []Expression
}

// RewindStmt is a REWIND statement.
type RewindStmt struct {
	Base
	Specs []IOSpec
}

// BackspaceStmt is a BACKSPACE statement.
type BackspaceStmt struct {
	Base
	Specs []IOSpec
}

// EndfileStmt is an ENDFILE statement.
type EndfileStmt struct {
	Base
	Specs []IOSpec
}

// FlushStmt is a FLUSH statement.
type FlushStmt struct {
	Base
	Specs []IOSpec
}

// WaitStmt is a WAIT statement.
type WaitStmt struct {
	Base
	Specs []IOSpec
}

// FormatStmt keeps the format specification text verbatim; edit
// descriptor interpretation happens at I/O time, not here. The matcher
// only guarantees balanced parentheses.
type FormatStmt struct {
	Base
	Text string
}
