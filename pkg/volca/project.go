package volca

import "fmt"

// Project sizing
const (
	NumPatterns     = 10
	PartsPerPattern = 10
)

// Pattern is one of the 10 sequences of a project, holding 10 parts
type Pattern struct {
	parts [PartsPerPattern]Part
}

// PartAt returns the part at the 1-indexed position within the pattern
func (p *Pattern) PartAt(n int) (*Part, error) {
	if err := checkSelector("part", n, 1, PartsPerPattern); err != nil {
		return nil, err
	}
	return &p.parts[n-1], nil
}

// Project owns 10 patterns of 10 parts each and counts the mutations
// applied to each pattern since construction. The counters decide which
// patterns an export serializes; they are never reset.
type Project struct {
	patterns [NumPatterns]Pattern
	dirty    [NumPatterns]int
}

// NewProject returns a project with every part in its default state
func NewProject() *Project {
	p := &Project{}
	for i := range p.patterns {
		for j := range p.patterns[i].parts {
			p.patterns[i].parts[j].init()
		}
	}
	return p
}

// Pattern returns the 1-indexed pattern
func (p *Project) Pattern(n int) (*Pattern, error) {
	if err := checkSelector("pattern", n, 1, NumPatterns); err != nil {
		return nil, err
	}
	return &p.patterns[n-1], nil
}

// Part addresses one part of one pattern, both 1-indexed, and returns a
// handle through which all part-level mutators and accessors operate.
// Mutations through the handle count against the owning pattern.
func (p *Project) Part(pattern, part int) (*PartRef, error) {
	if err := checkSelector("pattern", pattern, 1, NumPatterns); err != nil {
		return nil, err
	}
	if err := checkSelector("part", part, 1, PartsPerPattern); err != nil {
		return nil, err
	}
	return &PartRef{project: p, pattern: pattern - 1, part: part - 1}, nil
}

// ModifiedPatterns returns the 1-indexed numbers of every pattern mutated
// since construction, in ascending order.
func (p *Project) ModifiedPatterns() []int {
	var out []int
	for i, n := range p.dirty {
		if n > 0 {
			out = append(out, i+1)
		}
	}
	return out
}

// MutationCount returns how many mutations pattern n has received
func (p *Project) MutationCount(n int) (int, error) {
	if err := checkSelector("pattern", n, 1, NumPatterns); err != nil {
		return 0, err
	}
	return p.dirty[n-1], nil
}

// PartRef addresses one part of one pattern within a project. It replaces
// the select-then-mutate cursor of the original hardware workflow with an
// explicit handle, so two handles never race over shared selection state.
type PartRef struct {
	project *Project
	pattern int
	part    int
}

// PatternNumber reports the 1-indexed pattern this handle addresses
func (r *PartRef) PatternNumber() int {
	return r.pattern + 1
}

// PartNumber reports the 1-indexed part this handle addresses
func (r *PartRef) PartNumber() int {
	return r.part + 1
}

func (r *PartRef) state() *Part {
	return &r.project.patterns[r.pattern].parts[r.part]
}

func (r *PartRef) touch() {
	r.project.dirty[r.pattern]++
}

// SetSample assigns the sample slot played by this part. Random values
// resolve uniformly over 0..99.
func (r *PartRef) SetSample(v Value) error {
	n, err := resolveSample(v)
	if err != nil {
		return err
	}
	r.state().sample = n
	r.touch()
	return nil
}

// SetFunctions turns the named toggles on. Setting an already-set function
// is a no-op; there is no way to turn a function back off.
func (r *PartRef) SetFunctions(names ...Function) error {
	var add Functions
	for _, name := range names {
		bit, ok := functionBits[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFunction, name)
		}
		add |= bit
	}
	r.state().funcs |= add
	r.touch()
	return nil
}

// SetStep turns the 1-indexed step on
func (r *PartRef) SetStep(step int) error {
	if err := checkSelector("step", step, 1, NumSteps); err != nil {
		return err
	}
	r.state().steps |= 1 << (step - 1)
	r.touch()
	return nil
}

// SetSteps turns on the step for every true flag, first flag = step 1.
// False flags leave existing steps untouched; like SetStep this only ever
// sets bits.
func (r *PartRef) SetSteps(flags []bool) error {
	if len(flags) > NumSteps {
		return fmt.Errorf("%w: %d step flags, at most %d", ErrInvalidSelector, len(flags), NumSteps)
	}
	var mask uint16
	for i, on := range flags {
		if on {
			mask |= 1 << i
		}
	}
	r.state().steps |= mask
	r.touch()
	return nil
}

// SetParam validates and stores one knob value, resolving random requests
// over the parameter's own range.
func (r *PartRef) SetParam(p Param, v Value) error {
	return r.SetParams(map[Param]Value{p: v})
}

// SetParams validates every pair before writing any of them, so a failed
// call leaves the part untouched.
func (r *PartRef) SetParams(values map[Param]Value) error {
	resolved := make(map[int]uint8, len(values))
	for p, v := range values {
		info, err := lookupInfo(p)
		if err != nil {
			return err
		}
		n, err := resolveKnob(p, v)
		if err != nil {
			return err
		}
		resolved[info.knobIndex] = n
	}
	st := r.state()
	for idx, n := range resolved {
		st.params[idx] = n
	}
	r.touch()
	return nil
}

// SetMotion stores the motion control point(s) for one parameter at the
// 1-indexed step. level, pan and speed interpolate between a start and an
// end value and take exactly two values; every other parameter takes
// exactly one. Values are validated and bias-adjusted before any write.
func (r *PartRef) SetMotion(step int, p Param, values ...Value) error {
	if err := checkSelector("step", step, 1, NumSteps); err != nil {
		return err
	}
	info, err := lookupInfo(p)
	if err != nil {
		return err
	}
	want := 1
	if info.twoLane {
		want = 2
	}
	if len(values) != want {
		return fmt.Errorf("%w: %s takes %d motion value(s), got %d", ErrMalformedMotion, p, want, len(values))
	}
	raw := make([]uint8, len(values))
	for i, v := range values {
		raw[i], err = resolveMotion(p, v)
		if err != nil {
			return err
		}
	}
	st := r.state()
	for i, b := range raw {
		st.motion[motionSlot(info.laneBase+i, step)] = b
	}
	r.touch()
	return nil
}

// Sample returns the assigned sample slot
func (r *PartRef) Sample() uint8 {
	return r.state().sample
}

// StepIsOn reports whether the 1-indexed step triggers playback
func (r *PartRef) StepIsOn(step int) (bool, error) {
	if err := checkSelector("step", step, 1, NumSteps); err != nil {
		return false, err
	}
	return r.state().steps&(1<<(step-1)) != 0, nil
}

// FunctionIsOn reports whether the named toggle is set
func (r *PartRef) FunctionIsOn(name Function) (bool, error) {
	bit, ok := functionBits[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return r.state().funcs.Has(bit), nil
}

// Param returns the stored knob value
func (r *PartRef) Param(p Param) (uint8, error) {
	info, err := lookupInfo(p)
	if err != nil {
		return 0, err
	}
	return r.state().params[info.knobIndex], nil
}

// Motion returns the logical motion value(s) at the 1-indexed step: two
// values (start, end) for level, pan and speed, one for every other
// parameter. The stored +128 bias is removed on read, so a value written as
// Fixed(n) reads back as n; zero means no motion is set on that slot.
func (r *PartRef) Motion(step int, p Param) ([]uint8, error) {
	if err := checkSelector("step", step, 1, NumSteps); err != nil {
		return nil, err
	}
	info, err := lookupInfo(p)
	if err != nil {
		return nil, err
	}
	lanes := 1
	if info.twoLane {
		lanes = 2
	}
	out := make([]uint8, lanes)
	st := r.state()
	for i := range out {
		b := st.motion[motionSlot(info.laneBase+i, step)]
		if p != ParamSpeed && b >= 128 {
			b -= 128
		}
		out[i] = b
	}
	return out, nil
}
