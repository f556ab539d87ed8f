package fmatch

import (
	"fmt"

	"github.com/fortgo/fmatch/ast"
)

// Severity of a diagnostic.
type Severity uint8

const (
	SevError Severity = iota
	SevWarning
)

func (s Severity) String() string {
	if s == SevWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported fault. Recognizers emit diagnostics at the
// point of detection; callers never re-wrap them.
type Diagnostic struct {
	Loc      ast.Loc
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	b := d.Loc.AppendString(nil)
	b = append(b, ": "...)
	b = append(b, d.Severity.String()...)
	b = append(b, ": "...)
	b = append(b, d.Message...)
	return string(b)
}

// DiagSink receives diagnostics as they are produced.
type DiagSink interface {
	Report(Diagnostic)
}

// CollectSink is the default sink: it accumulates diagnostics in order.
type CollectSink struct {
	Diags []Diagnostic
}

func (c *CollectSink) Report(d Diagnostic) { c.Diags = append(c.Diags, d) }

func (p *Parser) report(sev Severity, loc ast.Loc, format string, args ...interface{}) {
	d := Diagnostic{Loc: loc, Severity: sev, Message: fmt.Sprintf(format, args...)}
	if sev == SevError {
		p.errCount++
		// Suppress secondary faults discovered while recovering from the
		// primary one; the dispatcher resets the gate per statement.
		if p.suppress {
			tracer().Debugf("suppressed: %s", d)
			return
		}
		p.suppress = true
	}
	tracer().Errorf("%s", d)
	p.sink.Report(d)
}

// error emits an error diagnostic at the current cursor position.
func (p *Parser) error(format string, args ...interface{}) {
	p.report(SevError, p.cur.Where(), format, args...)
}

// errorAt emits an error diagnostic at loc.
func (p *Parser) errorAt(loc ast.Loc, format string, args ...interface{}) {
	p.report(SevError, loc, format, args...)
}

// warning emits a warning at the current cursor position. Warnings do
// not change match outcomes.
func (p *Parser) warning(format string, args ...interface{}) {
	p.report(SevWarning, p.cur.Where(), format, args...)
}
