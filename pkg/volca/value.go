package volca

import (
	"fmt"
	"math/rand/v2"
)

// Value is a knob, sample or motion value: either a fixed number or a
// request for a random draw, resolved against the target's valid range at
// the validation boundary. The zero Value is Fixed(0).
type Value struct {
	random bool
	n      uint8
}

// Fixed returns a concrete value
func Fixed(n uint8) Value {
	return Value{n: n}
}

// Random returns a value resolved to a uniform draw from the valid range of
// whatever it is assigned to
func Random() Value {
	return Value{random: true}
}

// IsRandom reports whether the value is a random request
func (v Value) IsRandom() bool {
	return v.random
}

func (v Value) String() string {
	if v.random {
		return "random"
	}
	return fmt.Sprintf("%d", v.n)
}

// resolveKnob validates v against the parameter's range and resolves random
// requests with a uniform draw from that same range.
func resolveKnob(p Param, v Value) (uint8, error) {
	info, err := lookupInfo(p)
	if err != nil {
		return 0, err
	}
	if v.random {
		return info.min + uint8(rand.IntN(int(info.max-info.min)+1)), nil
	}
	if v.n < info.min || v.n > info.max {
		return 0, fmt.Errorf("%w: %s=%d not in %d..%d", ErrOutOfRange, p, v.n, info.min, info.max)
	}
	return v.n, nil
}

// resolveMotion validates v as a motion control point and returns the raw
// byte to store: motion values live in 1..127 and are biased by +128 for
// every parameter except speed, which the hardware takes unbiased.
func resolveMotion(p Param, v Value) (uint8, error) {
	n := v.n
	if v.random {
		n = uint8(1 + rand.IntN(127))
	} else if n < 1 || n > 127 {
		return 0, fmt.Errorf("%w: motion %s=%d not in 1..127", ErrOutOfRange, p, n)
	}
	if p != ParamSpeed {
		n += 128
	}
	return n, nil
}

// resolveSample validates v as a sample slot number, resolving random
// requests over the full 0..99 slot range.
func resolveSample(v Value) (uint8, error) {
	if v.random {
		return uint8(rand.IntN(MaxSample + 1)), nil
	}
	if v.n > MaxSample {
		return 0, fmt.Errorf("%w: sample %d not in 0..%d", ErrOutOfRange, v.n, MaxSample)
	}
	return v.n, nil
}
