// Package songfile reads and writes the YAML project description format:
// patterns of parts with step strings, knob params, function toggles and
// motion control points, applied to a volca.Project through its validating
// mutators.
package songfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/freqport/volcaseq/pkg/volca"
)

// File is the root of a project YAML document
type File struct {
	Patterns []PatternDef `yaml:"patterns"`
}

// PatternDef describes one pattern, 1-indexed
type PatternDef struct {
	Number int       `yaml:"number"`
	Parts  []PartDef `yaml:"parts"`
}

// PartDef describes one part of a pattern. Steps uses one rune per step:
// x/X/1 on, -/./0 off.
type PartDef struct {
	Number    int            `yaml:"number"`
	Sample    *int           `yaml:"sample,omitempty"`
	Steps     string         `yaml:"steps,omitempty"`
	Functions []string       `yaml:"functions,omitempty,flow"`
	Params    map[string]int `yaml:"params,omitempty"`
	Motion    []MotionDef    `yaml:"motion,omitempty"`
}

// MotionDef is one motion assignment: two values (start, end) for level,
// pan and speed, one value for everything else.
type MotionDef struct {
	Step   int    `yaml:"step"`
	Param  string `yaml:"param"`
	Values []int  `yaml:"values,flow"`
}

// Parse decodes a project YAML document
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse project yaml: %w", err)
	}
	return &f, nil
}

// Load reads and parses a project YAML file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the file back to YAML
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// Save writes the file as YAML
func (f *File) Save(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build constructs a fresh project and applies the file to it
func (f *File) Build() (*volca.Project, error) {
	project := volca.NewProject()
	if err := f.Apply(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Apply writes every definition into the project through the validating
// part mutators, so a bad value fails exactly like a bad API call would.
func (f *File) Apply(project *volca.Project) error {
	for _, pat := range f.Patterns {
		for _, part := range pat.Parts {
			ref, err := project.Part(pat.Number, part.Number)
			if err != nil {
				return err
			}
			if err := applyPart(ref, part); err != nil {
				return fmt.Errorf("pattern %d part %d: %w", pat.Number, part.Number, err)
			}
		}
	}
	return nil
}

func applyPart(ref *volca.PartRef, def PartDef) error {
	if def.Sample != nil {
		v, err := intValue(*def.Sample)
		if err != nil {
			return err
		}
		if err := ref.SetSample(v); err != nil {
			return err
		}
	}
	if def.Steps != "" {
		flags, err := parseSteps(def.Steps)
		if err != nil {
			return err
		}
		if err := ref.SetSteps(flags); err != nil {
			return err
		}
	}
	if len(def.Functions) > 0 {
		funcs := make([]volca.Function, len(def.Functions))
		for i, name := range def.Functions {
			fn, err := volca.LookupFunction(name)
			if err != nil {
				return err
			}
			funcs[i] = fn
		}
		if err := ref.SetFunctions(funcs...); err != nil {
			return err
		}
	}
	if len(def.Params) > 0 {
		values := make(map[volca.Param]volca.Value, len(def.Params))
		for name, n := range def.Params {
			p, err := volca.LookupParam(name)
			if err != nil {
				return err
			}
			v, err := intValue(n)
			if err != nil {
				return err
			}
			values[p] = v
		}
		if err := ref.SetParams(values); err != nil {
			return err
		}
	}
	for _, m := range def.Motion {
		p, err := volca.LookupParam(m.Param)
		if err != nil {
			return err
		}
		values := make([]volca.Value, len(m.Values))
		for i, n := range m.Values {
			values[i], err = intValue(n)
			if err != nil {
				return err
			}
		}
		if err := ref.SetMotion(m.Step, p, values...); err != nil {
			return err
		}
	}
	return nil
}

func intValue(n int) (volca.Value, error) {
	if n < 0 || n > 255 {
		return volca.Value{}, fmt.Errorf("%w: %d", volca.ErrOutOfRange, n)
	}
	return volca.Fixed(uint8(n)), nil
}

func parseSteps(s string) ([]bool, error) {
	flags := make([]bool, 0, volca.NumSteps)
	for _, r := range s {
		switch r {
		case 'x', 'X', '1':
			flags = append(flags, true)
		case '-', '.', '0':
			flags = append(flags, false)
		default:
			return nil, fmt.Errorf("invalid step rune %q in %q", r, s)
		}
	}
	return flags, nil
}

// FromProject renders the modified patterns of a project back into a file,
// omitting parts still in their default state and knob values still at
// their defaults.
func FromProject(project *volca.Project) (*File, error) {
	f := &File{}
	defaults := volca.DefaultParamValues()
	for _, n := range project.ModifiedPatterns() {
		pd := PatternDef{Number: n}
		for q := 1; q <= volca.PartsPerPattern; q++ {
			ref, err := project.Part(n, q)
			if err != nil {
				return nil, err
			}
			def, changed, err := partDef(ref, defaults)
			if err != nil {
				return nil, err
			}
			if changed {
				pd.Parts = append(pd.Parts, def)
			}
		}
		f.Patterns = append(f.Patterns, pd)
	}
	return f, nil
}

func partDef(ref *volca.PartRef, defaults [volca.NumParams]uint8) (PartDef, bool, error) {
	def := PartDef{Number: ref.PartNumber()}
	changed := false

	if s := ref.Sample(); s != 0 {
		n := int(s)
		def.Sample = &n
		changed = true
	}

	var steps string
	anyStep := false
	for step := 1; step <= volca.NumSteps; step++ {
		on, err := ref.StepIsOn(step)
		if err != nil {
			return def, false, err
		}
		if on {
			steps += "x"
			anyStep = true
		} else {
			steps += "-"
		}
	}
	if anyStep {
		def.Steps = steps
		changed = true
	}

	for _, fn := range volca.AllFunctions {
		on, err := ref.FunctionIsOn(fn)
		if err != nil {
			return def, false, err
		}
		if on {
			def.Functions = append(def.Functions, string(fn))
			changed = true
		}
	}

	for i, p := range volca.Params {
		v, err := ref.Param(p)
		if err != nil {
			return def, false, err
		}
		if v != defaults[i] {
			if def.Params == nil {
				def.Params = map[string]int{}
			}
			def.Params[string(p)] = int(v)
			changed = true
		}
	}

	for _, p := range volca.Params {
		for step := 1; step <= volca.NumSteps; step++ {
			vals, err := ref.Motion(step, p)
			if err != nil {
				return def, false, err
			}
			set := false
			ints := make([]int, len(vals))
			for i, v := range vals {
				ints[i] = int(v)
				if v != 0 {
					set = true
				}
			}
			if set {
				def.Motion = append(def.Motion, MotionDef{Step: step, Param: string(p), Values: ints})
				changed = true
			}
		}
	}

	return def, changed, nil
}
