// Package volca models the sequencer and parameter state of the Korg Volca
// Sample: 10 patterns of 10 parts, each part with a 16-step trigger mask,
// 11 knob parameters, 5 function toggles and a 14-lane motion sequence,
// plus the byte-exact binary pattern layout the SYRO encoder consumes.
package volca

import (
	"errors"
	"fmt"
)

// Param identifies one of the 11 knob parameters of a part
type Param string

const (
	ParamLevel       Param = "level"
	ParamPan         Param = "pan"
	ParamSpeed       Param = "speed"
	ParamAmpAttack   Param = "amp_attack"
	ParamAmpDecay    Param = "amp_decay"
	ParamPitchInt    Param = "pitch_int"
	ParamPitchAttack Param = "pitch_attack"
	ParamPitchDecay  Param = "pitch_decay"
	ParamStartPoint  Param = "start_point"
	ParamLength      Param = "length"
	ParamHiCut       Param = "hi_cut"
)

// Function is one of the 5 per-part toggle switches
type Function string

const (
	FuncMotion  Function = "motion"
	FuncLoop    Function = "loop"
	FuncReverb  Function = "reverb"
	FuncReverse Function = "reverse"
	FuncMute    Function = "mute"
)

// Validation errors
var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrUnknownFunction  = errors.New("unknown function")
	ErrInvalidSelector  = errors.New("invalid selector")
	ErrOutOfRange       = errors.New("value out of range")
	ErrMalformedMotion  = errors.New("malformed motion value list")
)

// paramInfo describes one knob parameter: where it lives in the params
// array, where its motion lane(s) start, and the range its values obey.
// Parameters with twoLane occupy a start-value lane and an end-value lane.
type paramInfo struct {
	knobIndex int
	laneBase  int
	twoLane   bool
	min, max  uint8
	def       uint8
}

var paramTable = map[Param]paramInfo{
	ParamLevel:       {knobIndex: 0, laneBase: 0, twoLane: true, min: 0, max: 127, def: 127},
	ParamPan:         {knobIndex: 1, laneBase: 2, twoLane: true, min: 1, max: 127, def: 64},
	ParamSpeed:       {knobIndex: 2, laneBase: 4, twoLane: true, min: 40, max: 88, def: 64},
	ParamAmpAttack:   {knobIndex: 3, laneBase: 6, min: 0, max: 127, def: 0},
	ParamAmpDecay:    {knobIndex: 4, laneBase: 7, min: 0, max: 127, def: 127},
	ParamPitchInt:    {knobIndex: 5, laneBase: 8, min: 1, max: 127, def: 64},
	ParamPitchAttack: {knobIndex: 6, laneBase: 9, min: 0, max: 127, def: 0},
	ParamPitchDecay:  {knobIndex: 7, laneBase: 10, min: 0, max: 127, def: 127},
	ParamStartPoint:  {knobIndex: 8, laneBase: 11, min: 0, max: 127, def: 0},
	ParamLength:      {knobIndex: 9, laneBase: 12, min: 0, max: 127, def: 127},
	ParamHiCut:       {knobIndex: 10, laneBase: 13, min: 0, max: 127, def: 127},
}

// Params lists every knob parameter in knob-index order
var Params = [NumParams]Param{
	ParamLevel, ParamPan, ParamSpeed,
	ParamAmpAttack, ParamAmpDecay,
	ParamPitchInt, ParamPitchAttack, ParamPitchDecay,
	ParamStartPoint, ParamLength, ParamHiCut,
}

var functionBits = map[Function]Functions{
	FuncMotion:  FlagMotion,
	FuncLoop:    FlagLoop,
	FuncReverb:  FlagReverb,
	FuncReverse: FlagReverse,
	FuncMute:    FlagMute,
}

// AllFunctions lists every function toggle in bit order
var AllFunctions = []Function{FuncMotion, FuncLoop, FuncReverb, FuncReverse, FuncMute}

// LookupParam resolves a parameter name, failing for unknown names
func LookupParam(name string) (Param, error) {
	p := Param(name)
	if _, ok := paramTable[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return p, nil
}

// LookupFunction resolves a function name, failing for unknown names
func LookupFunction(name string) (Function, error) {
	f := Function(name)
	if _, ok := functionBits[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return f, nil
}

// ParamRange returns the valid value range for a knob parameter
func ParamRange(p Param) (min, max uint8, err error) {
	info, ok := paramTable[p]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownParameter, p)
	}
	return info.min, info.max, nil
}

func lookupInfo(p Param) (paramInfo, error) {
	info, ok := paramTable[p]
	if !ok {
		return paramInfo{}, fmt.Errorf("%w: %q", ErrUnknownParameter, p)
	}
	return info, nil
}

func checkSelector(name string, n, min, max int) error {
	if n < min || n > max {
		return fmt.Errorf("%w: %s %d not in %d..%d", ErrInvalidSelector, name, n, min, max)
	}
	return nil
}
