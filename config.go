package glyphatlas

import "math"

// SlabConfig configures a SlabAllocator's grid. Zero values mean "use
// the default for this canvas", computed by DefaultSlabSize.
type SlabConfig struct {
	// SlabWidth, SlabHeight are the dimensions of each slab's square
	// grid cell, in pixels. Both default to DefaultSlabSize's result
	// (which is clamped to the canvas size) when zero; a non-zero value
	// larger than the canvas is rejected by Validate, not clamped.
	SlabWidth, SlabHeight int
}

// Validate checks the configuration against the canvas it will be used
// with.
func (c SlabConfig) Validate(canvasW, canvasH int) error {
	if c.SlabWidth < 0 {
		return &SlabConfigError{Field: "SlabWidth", Reason: "must be non-negative"}
	}
	if c.SlabHeight < 0 {
		return &SlabConfigError{Field: "SlabHeight", Reason: "must be non-negative"}
	}
	if c.SlabWidth > canvasW {
		return &SlabConfigError{Field: "SlabWidth", Reason: "must not exceed canvas width"}
	}
	if c.SlabHeight > canvasH {
		return &SlabConfigError{Field: "SlabHeight", Reason: "must not exceed canvas height"}
	}
	return nil
}

// DefaultSlabSize computes the default slab dimensions for a canvas of
// size (canvasW, canvasH) given a device pixel ratio dpr, following
// the formula slabW = 64 << (floor(dpr) - 1), slabH = slabW, clamped
// to the canvas size. dpr is an explicit parameter rather than an
// ambient "active window" lookup — callers that need the host
// display's actual device pixel ratio must read it themselves and
// pass it in; this package never reaches into a process-wide
// singleton.
func DefaultSlabSize(canvasW, canvasH int, dpr float64) (slabW, slabH int) {
	exp := int(math.Floor(dpr)) - 1
	size := 64
	if exp > 0 {
		size <<= exp
	} else if exp < 0 {
		size >>= -exp
	}
	if size < 1 {
		size = 1
	}
	slabW = min(size, canvasW)
	slabH = min(size, canvasH)
	return slabW, slabH
}

// resolveSlabSize fills in zero fields of cfg using DefaultSlabSize.
func resolveSlabSize(cfg SlabConfig, canvasW, canvasH int, dpr float64) (int, int) {
	defW, defH := DefaultSlabSize(canvasW, canvasH, dpr)
	w, h := cfg.SlabWidth, cfg.SlabHeight
	if w == 0 {
		w = defW
	}
	if h == 0 {
		h = defH
	}
	return w, h
}
