package volca

import (
	"errors"
	"testing"
)

func TestPartAddressing(t *testing.T) {
	project := NewProject()

	for p := 1; p <= NumPatterns; p++ {
		for q := 1; q <= PartsPerPattern; q++ {
			ref, err := project.Part(p, q)
			if err != nil {
				t.Fatalf("Part(%d, %d) error = %v", p, q, err)
			}
			if ref.PatternNumber() != p {
				t.Errorf("PatternNumber() = %d, want %d", ref.PatternNumber(), p)
			}
			if ref.PartNumber() != q {
				t.Errorf("PartNumber() = %d, want %d", ref.PartNumber(), q)
			}
		}
	}
}

func TestPartAddressingInvalid(t *testing.T) {
	project := NewProject()

	tests := []struct {
		name          string
		pattern, part int
	}{
		{"pattern zero", 0, 1},
		{"pattern too large", 11, 1},
		{"part zero", 1, 0},
		{"part too large", 1, 11},
		{"negative", -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := project.Part(tt.pattern, tt.part)
			if !errors.Is(err, ErrInvalidSelector) {
				t.Errorf("Part(%d, %d) error = %v, want ErrInvalidSelector", tt.pattern, tt.part, err)
			}
		})
	}
}

func TestSetParamRoundTrip(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	tests := []struct {
		param Param
		value uint8
	}{
		{ParamLevel, 0},
		{ParamLevel, 127},
		{ParamPan, 1},
		{ParamPan, 64},
		{ParamPan, 127},
		{ParamSpeed, 40},
		{ParamSpeed, 88},
		{ParamHiCut, 99},
		{ParamStartPoint, 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.param), func(t *testing.T) {
			if err := ref.SetParam(tt.param, Fixed(tt.value)); err != nil {
				t.Fatalf("SetParam(%s, %d) error = %v", tt.param, tt.value, err)
			}
			got, err := ref.Param(tt.param)
			if err != nil {
				t.Fatalf("Param(%s) error = %v", tt.param, err)
			}
			if got != tt.value {
				t.Errorf("Param(%s) = %d, want %d", tt.param, got, tt.value)
			}
		})
	}
}

func TestSetParamOutOfRange(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	tests := []struct {
		name  string
		param Param
		value uint8
	}{
		{"pan below minimum", ParamPan, 0},
		{"pan above maximum", ParamPan, 128},
		{"pitch_int below minimum", ParamPitchInt, 0},
		{"speed below minimum", ParamSpeed, 39},
		{"speed above maximum", ParamSpeed, 89},
		{"level above maximum", ParamLevel, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ref.SetParam(tt.param, Fixed(tt.value))
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("SetParam(%s, %d) error = %v, want ErrOutOfRange", tt.param, tt.value, err)
			}
		})
	}
}

func TestSetParamUnknown(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	err := ref.SetParam(Param("cutoff"), Fixed(64))
	if !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("SetParam(cutoff) error = %v, want ErrUnknownParameter", err)
	}
}

func TestSetParamsFailFast(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	err := ref.SetParams(map[Param]Value{
		ParamLevel: Fixed(10),
		ParamPan:   Fixed(0), // out of range, whole call must fail
	})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("SetParams error = %v, want ErrOutOfRange", err)
	}

	got, _ := ref.Param(ParamLevel)
	if got != 127 {
		t.Errorf("level = %d after failed SetParams, want untouched default 127", got)
	}
	if n, _ := project.MutationCount(1); n != 0 {
		t.Errorf("MutationCount(1) = %d after failed SetParams, want 0", n)
	}
}

func TestDefaultParams(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(3, 7)

	want := map[Param]uint8{
		ParamLevel:       127,
		ParamPan:         64,
		ParamSpeed:       64,
		ParamAmpAttack:   0,
		ParamAmpDecay:    127,
		ParamPitchInt:    64,
		ParamPitchAttack: 0,
		ParamPitchDecay:  127,
		ParamStartPoint:  0,
		ParamLength:      127,
		ParamHiCut:       127,
	}
	for p, v := range want {
		got, err := ref.Param(p)
		if err != nil {
			t.Fatalf("Param(%s) error = %v", p, err)
		}
		if got != v {
			t.Errorf("default %s = %d, want %d", p, got, v)
		}
	}
}

func TestSetStep(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	if err := ref.SetStep(5); err != nil {
		t.Fatalf("SetStep(5) error = %v", err)
	}

	for step := 1; step <= NumSteps; step++ {
		on, err := ref.StepIsOn(step)
		if err != nil {
			t.Fatalf("StepIsOn(%d) error = %v", step, err)
		}
		if on != (step == 5) {
			t.Errorf("StepIsOn(%d) = %v, want %v", step, on, step == 5)
		}
	}

	if err := ref.SetStep(0); !errors.Is(err, ErrInvalidSelector) {
		t.Errorf("SetStep(0) error = %v, want ErrInvalidSelector", err)
	}
	if err := ref.SetStep(17); !errors.Is(err, ErrInvalidSelector) {
		t.Errorf("SetStep(17) error = %v, want ErrInvalidSelector", err)
	}
}

func TestSetStepsOrOnly(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	if err := ref.SetStep(2); err != nil {
		t.Fatal(err)
	}

	// A false flag must not clear an already-set step
	if err := ref.SetSteps([]bool{true, false, false, true}); err != nil {
		t.Fatalf("SetSteps error = %v", err)
	}

	wantOn := map[int]bool{1: true, 2: true, 4: true}
	for step := 1; step <= NumSteps; step++ {
		on, _ := ref.StepIsOn(step)
		if on != wantOn[step] {
			t.Errorf("StepIsOn(%d) = %v, want %v", step, on, wantOn[step])
		}
	}

	if err := ref.SetSteps(make([]bool, 17)); !errors.Is(err, ErrInvalidSelector) {
		t.Errorf("SetSteps with 17 flags error = %v, want ErrInvalidSelector", err)
	}
}

func TestSetFunctions(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	if err := ref.SetFunctions(FuncReverb); err != nil {
		t.Fatalf("SetFunctions(reverb) error = %v", err)
	}

	for _, fn := range AllFunctions {
		on, err := ref.FunctionIsOn(fn)
		if err != nil {
			t.Fatalf("FunctionIsOn(%s) error = %v", fn, err)
		}
		if on != (fn == FuncReverb) {
			t.Errorf("FunctionIsOn(%s) = %v, want %v", fn, on, fn == FuncReverb)
		}
	}

	// Setting again is a no-op; adding another ORs it in
	if err := ref.SetFunctions(FuncReverb, FuncLoop); err != nil {
		t.Fatal(err)
	}
	if on, _ := ref.FunctionIsOn(FuncLoop); !on {
		t.Error("FunctionIsOn(loop) = false after SetFunctions")
	}
	if on, _ := ref.FunctionIsOn(FuncReverb); !on {
		t.Error("FunctionIsOn(reverb) = false after repeated SetFunctions")
	}

	if err := ref.SetFunctions(Function("echo")); !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("SetFunctions(echo) error = %v, want ErrUnknownFunction", err)
	}
}

func TestFunctionBits(t *testing.T) {
	tests := []struct {
		fn  Function
		bit Functions
	}{
		{FuncMotion, 0x01},
		{FuncLoop, 0x02},
		{FuncReverb, 0x04},
		{FuncReverse, 0x08},
		{FuncMute, 0x10},
	}
	for _, tt := range tests {
		if functionBits[tt.fn] != tt.bit {
			t.Errorf("bit for %s = 0x%02x, want 0x%02x", tt.fn, functionBits[tt.fn], tt.bit)
		}
	}
}

func TestSetSample(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	if err := ref.SetSample(Fixed(99)); err != nil {
		t.Fatalf("SetSample(99) error = %v", err)
	}
	if ref.Sample() != 99 {
		t.Errorf("Sample() = %d, want 99", ref.Sample())
	}

	if err := ref.SetSample(Fixed(100)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SetSample(100) error = %v, want ErrOutOfRange", err)
	}
}

func TestSetSampleRandom(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	for i := 0; i < 50; i++ {
		if err := ref.SetSample(Random()); err != nil {
			t.Fatalf("SetSample(random) error = %v", err)
		}
		if ref.Sample() > MaxSample {
			t.Fatalf("random sample = %d, want <= %d", ref.Sample(), MaxSample)
		}
	}
}

func TestSetParamRandomInRange(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	for i := 0; i < 50; i++ {
		if err := ref.SetParam(ParamSpeed, Random()); err != nil {
			t.Fatalf("SetParam(speed, random) error = %v", err)
		}
		got, _ := ref.Param(ParamSpeed)
		if got < 40 || got > 88 {
			t.Fatalf("random speed = %d, want 40..88", got)
		}

		if err := ref.SetParam(ParamPan, Random()); err != nil {
			t.Fatalf("SetParam(pan, random) error = %v", err)
		}
		got, _ = ref.Param(ParamPan)
		if got < 1 || got > 127 {
			t.Fatalf("random pan = %d, want 1..127", got)
		}
	}
}

func TestMotionRoundTrip(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	if err := ref.SetMotion(3, ParamPan, Fixed(1), Fixed(127)); err != nil {
		t.Fatalf("SetMotion(pan) error = %v", err)
	}
	got, err := ref.Motion(3, ParamPan)
	if err != nil {
		t.Fatalf("Motion(3, pan) error = %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 127 {
		t.Errorf("Motion(3, pan) = %v, want [1 127]", got)
	}

	// Other steps stay untouched
	other, _ := ref.Motion(4, ParamPan)
	if other[0] != 0 || other[1] != 0 {
		t.Errorf("Motion(4, pan) = %v, want [0 0]", other)
	}

	if err := ref.SetMotion(7, ParamHiCut, Fixed(55)); err != nil {
		t.Fatalf("SetMotion(hi_cut) error = %v", err)
	}
	one, err := ref.Motion(7, ParamHiCut)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0] != 55 {
		t.Errorf("Motion(7, hi_cut) = %v, want [55]", one)
	}
}

func TestMotionBias(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	// Non-speed parameters store the +128 bias, speed stays raw
	if err := ref.SetMotion(1, ParamLevel, Fixed(10), Fixed(20)); err != nil {
		t.Fatal(err)
	}
	if err := ref.SetMotion(1, ParamSpeed, Fixed(40), Fixed(88)); err != nil {
		t.Fatal(err)
	}

	part, _ := mustPattern(t, project, 1).PartAt(1)
	raw := part.MotionData()
	if raw[0] != 138 || raw[16] != 148 {
		t.Errorf("level lanes = %d,%d, want biased 138,148", raw[0], raw[16])
	}
	if raw[4*NumSteps] != 40 || raw[5*NumSteps] != 88 {
		t.Errorf("speed lanes = %d,%d, want unbiased 40,88", raw[4*NumSteps], raw[5*NumSteps])
	}
}

func TestMotionLaneAddressing(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	// hi_cut is the last lane; step 16 must land on the last slot
	if err := ref.SetMotion(16, ParamHiCut, Fixed(99)); err != nil {
		t.Fatal(err)
	}
	part, _ := mustPattern(t, project, 1).PartAt(1)
	raw := part.MotionData()
	if raw[NumMotionSlots-1] != 99+128 {
		t.Errorf("slot %d = %d, want %d", NumMotionSlots-1, raw[NumMotionSlots-1], 99+128)
	}
}

func TestMotionValidation(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	tests := []struct {
		name   string
		step   int
		param  Param
		values []Value
		want   error
	}{
		{"pan needs two values", 1, ParamPan, []Value{Fixed(64)}, ErrMalformedMotion},
		{"level needs two values", 1, ParamLevel, []Value{Fixed(64)}, ErrMalformedMotion},
		{"speed needs two values", 1, ParamSpeed, []Value{Fixed(64)}, ErrMalformedMotion},
		{"hi_cut takes one value", 1, ParamHiCut, []Value{Fixed(1), Fixed(2)}, ErrMalformedMotion},
		{"no values", 1, ParamHiCut, nil, ErrMalformedMotion},
		{"zero is out of range", 1, ParamHiCut, []Value{Fixed(0)}, ErrOutOfRange},
		{"above 127", 1, ParamHiCut, []Value{Fixed(128)}, ErrOutOfRange},
		{"bad step", 0, ParamHiCut, []Value{Fixed(5)}, ErrInvalidSelector},
		{"step 17", 17, ParamHiCut, []Value{Fixed(5)}, ErrInvalidSelector},
		{"unknown param", 1, Param("cutoff"), []Value{Fixed(5)}, ErrUnknownParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ref.SetMotion(tt.step, tt.param, tt.values...)
			if !errors.Is(err, tt.want) {
				t.Errorf("SetMotion error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMotionRandom(t *testing.T) {
	project := NewProject()
	ref, _ := project.Part(1, 1)

	for i := 0; i < 50; i++ {
		if err := ref.SetMotion(1, ParamPan, Random(), Random()); err != nil {
			t.Fatal(err)
		}
		got, _ := ref.Motion(1, ParamPan)
		for _, v := range got {
			if v < 1 || v > 127 {
				t.Fatalf("random motion pan = %d, want 1..127", v)
			}
		}

		if err := ref.SetMotion(1, ParamSpeed, Random(), Random()); err != nil {
			t.Fatal(err)
		}
		part, _ := mustPattern(t, project, 1).PartAt(1)
		raw := part.MotionData()
		for _, v := range []uint8{raw[4*NumSteps], raw[5*NumSteps]} {
			if v < 1 || v > 127 {
				t.Fatalf("random motion speed stored = %d, want unbiased 1..127", v)
			}
		}
	}
}

func TestDirtyCounters(t *testing.T) {
	project := NewProject()

	if got := project.ModifiedPatterns(); len(got) != 0 {
		t.Fatalf("fresh project ModifiedPatterns() = %v, want empty", got)
	}

	ref, _ := project.Part(4, 2)
	if err := ref.SetStep(1); err != nil {
		t.Fatal(err)
	}

	got := project.ModifiedPatterns()
	if len(got) != 1 || got[0] != 4 {
		t.Errorf("ModifiedPatterns() = %v, want [4]", got)
	}

	if n, _ := project.MutationCount(4); n != 1 {
		t.Errorf("MutationCount(4) = %d, want 1", n)
	}

	ref2, _ := project.Part(9, 1)
	_ = ref2.SetSample(Fixed(1))
	_ = ref2.SetStep(3)

	got = project.ModifiedPatterns()
	if len(got) != 2 || got[0] != 4 || got[1] != 9 {
		t.Errorf("ModifiedPatterns() = %v, want [4 9]", got)
	}
	if n, _ := project.MutationCount(9); n != 2 {
		t.Errorf("MutationCount(9) = %d, want 2", n)
	}
}

func TestLookupNames(t *testing.T) {
	if _, err := LookupParam("pitch_decay"); err != nil {
		t.Errorf("LookupParam(pitch_decay) error = %v", err)
	}
	if _, err := LookupParam("resonance"); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("LookupParam(resonance) error = %v, want ErrUnknownParameter", err)
	}
	if _, err := LookupFunction("mute"); err != nil {
		t.Errorf("LookupFunction(mute) error = %v", err)
	}
	if _, err := LookupFunction("solo"); !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("LookupFunction(solo) error = %v, want ErrUnknownFunction", err)
	}
}

func mustPattern(t *testing.T, project *Project, n int) *Pattern {
	t.Helper()
	pat, err := project.Pattern(n)
	if err != nil {
		t.Fatalf("Pattern(%d) error = %v", n, err)
	}
	return pat
}
