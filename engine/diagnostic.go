package engine

import (
	"fmt"

	"go-kontrol/control"
)

// DiagnosticKind classifies a per-binding failure
type DiagnosticKind int

const (
	ResolutionFailed DiagnosticKind = iota
	TargetUnavailable
)

func (k DiagnosticKind) String() string {
	switch k {
	case ResolutionFailed:
		return "resolution failed"
	case TargetUnavailable:
		return "target unavailable"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
}

// Diagnostic reports a non-fatal failure for one binding during a tick
type Diagnostic struct {
	Index   int // position in the slice passed to Tick
	Channel control.Channel
	Target  control.TargetRef
	Kind    DiagnosticKind
	Err     error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("binding %d (%s -> %s): %s: %v", d.Index, d.Channel.Name(), d.Target, d.Kind, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}
