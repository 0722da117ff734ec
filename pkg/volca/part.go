package volca

import "strings"

// Sizing constants for one part
const (
	NumSteps       = 16
	NumParams      = 11
	NumMotionLanes = 14
	NumMotionSlots = NumMotionLanes * NumSteps
	MaxSample      = 99
)

// Functions is the bitmask of per-part toggle switches
type Functions uint8

const (
	FlagMotion  Functions = 0x01
	FlagLoop    Functions = 0x02
	FlagReverb  Functions = 0x04
	FlagReverse Functions = 0x08
	FlagMute    Functions = 0x10
)

// Has reports whether every bit of fn is set
func (f Functions) Has(fn Functions) bool {
	return f&fn == fn
}

func (f Functions) String() string {
	var names []string
	for _, fn := range AllFunctions {
		if f.Has(functionBits[fn]) {
			names = append(names, string(fn))
		}
	}
	if names == nil {
		return "none"
	}
	return strings.Join(names, "+")
}

// Part is one track's full programmable state. The params and motion arrays
// are fixed-size and only ever overwritten, never resized, so a Part is
// always encodable. Motion values are stored raw: biased by +128 for every
// parameter except speed, zero meaning no motion on that slot.
type Part struct {
	sample uint8
	steps  uint16
	funcs  Functions
	params [NumParams]uint8
	motion [NumMotionSlots]uint8
}

// defaultParams are the knob positions of a freshly initialized part
var defaultParams = [NumParams]uint8{127, 64, 64, 0, 127, 64, 0, 127, 0, 127, 127}

// DefaultParamValues returns the knob positions every part starts with
func DefaultParamValues() [NumParams]uint8 {
	return defaultParams
}

func (p *Part) init() {
	p.sample = 0
	p.steps = 0
	p.funcs = 0
	p.params = defaultParams
	p.motion = [NumMotionSlots]uint8{}
}

// Sample returns the assigned sample slot number
func (p *Part) Sample() uint8 {
	return p.sample
}

// StepMask returns the raw 16-bit trigger mask, bit n = step n+1
func (p *Part) StepMask() uint16 {
	return p.steps
}

// FunctionFlags returns the raw toggle bitmask
func (p *Part) FunctionFlags() Functions {
	return p.funcs
}

// ParamValues returns the 11 knob values in knob-index order
func (p *Part) ParamValues() [NumParams]uint8 {
	return p.params
}

// MotionData returns the raw 224-byte motion buffer (14 lanes x 16 steps)
func (p *Part) MotionData() [NumMotionSlots]uint8 {
	return p.motion
}

// StepsString renders the trigger mask in x/- notation, one rune per step
func (p *Part) StepsString() string {
	var b strings.Builder
	for i := 0; i < NumSteps; i++ {
		if p.steps&(1<<i) != 0 {
			b.WriteByte('x')
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// motionSlot returns the buffer index for a lane and a 1-indexed step
func motionSlot(lane, step int) int {
	return lane*NumSteps + step - 1
}
