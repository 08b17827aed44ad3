package viterbi

import "errors"

// ErrUnreachable is returned when the target sentinel's accumulated
// log-probability never rises above -Inf: every candidate path through the
// trellis was severed by a missing route (spec.md §7).
var ErrUnreachable = errors.New("viterbi: target unreachable")
