package tui

import "golang.org/x/exp/constraints"

// maxScale bounds the scale the editor will set
const maxScale = 100

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
