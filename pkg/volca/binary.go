package volca

import (
	"encoding/binary"
	"fmt"
)

// Fixed framing constants of the hardware pattern struct. Every multi-byte
// field in the layout is little-endian.
const (
	PatternHeader uint32 = 0x54535450 // "PTST"
	PatternFooter uint32 = 0x44455450 // "PTED"
	DeviceCode    uint16 = 0x33b8     // volca sample device code
	ActiveSteps   uint16 = 0xffff     // all 16 steps active
)

// Part record layout
const (
	PartRecordSize = 256

	partSampleOffset   = 0  // uint16 sample number
	partStepsOffset    = 2  // uint16 trigger mask
	partReservedOffset = 4  // uint16 zero
	partByteFF         = 6  // fixed 0xff
	partByteZero       = 7  // fixed 0x00
	partLevelDup       = 8  // fixed 0x7f, hardware duplicate of the level knob
	partParamsOffset   = 9  // 11 knob bytes
	partFuncOffset     = 20 // function flag byte
	partPadOffset      = 21 // 11 zero bytes
	partMotionOffset   = 32 // 224 motion bytes
)

// Pattern blob layout
const (
	PatternBlobSize = 2624

	patHeaderOffset = 0    // uint32 header magic
	patDevOffset    = 4    // uint16 device code
	patPad1Offset   = 6    // 2 zero bytes
	patActiveOffset = 8    // uint16 active-step mask
	patPad2Offset   = 10   // 22 zero bytes
	patPartsOffset  = 32   // 10 part records, fixed capacity
	patPartsSize    = PartsPerPattern * PartRecordSize
	patPad3Offset   = patPartsOffset + patPartsSize // 28 zero bytes
	patFooterOffset = PatternBlobSize - 4           // uint32 footer magic
)

// EncodePart serializes one part into its fixed 256-byte hardware record.
// Encoding never fails: the fixed-size arrays in Part make malformed state
// unrepresentable.
func EncodePart(p *Part) []byte {
	buf := make([]byte, PartRecordSize)
	binary.LittleEndian.PutUint16(buf[partSampleOffset:], uint16(p.sample))
	binary.LittleEndian.PutUint16(buf[partStepsOffset:], p.steps)
	buf[partByteFF] = 0xff
	buf[partLevelDup] = 0x7f
	copy(buf[partParamsOffset:], p.params[:])
	buf[partFuncOffset] = byte(p.funcs)
	copy(buf[partMotionOffset:], p.motion[:])
	return buf
}

// EncodePattern serializes one pattern into its fixed 2624-byte blob:
// header framing, the 10 part records, padding and footer. The part region
// has a fixed declared capacity regardless of part record content.
func EncodePattern(p *Pattern) []byte {
	buf := make([]byte, PatternBlobSize)
	binary.LittleEndian.PutUint32(buf[patHeaderOffset:], PatternHeader)
	binary.LittleEndian.PutUint16(buf[patDevOffset:], DeviceCode)
	binary.LittleEndian.PutUint16(buf[patActiveOffset:], ActiveSteps)
	for i := range p.parts {
		rec := EncodePart(&p.parts[i])
		copy(buf[patPartsOffset+i*PartRecordSize:patPartsOffset+(i+1)*PartRecordSize], rec)
	}
	binary.LittleEndian.PutUint32(buf[patFooterOffset:], PatternFooter)
	return buf
}

// DecodePart parses a 256-byte part record back into a Part
func DecodePart(data []byte) (*Part, error) {
	if len(data) != PartRecordSize {
		return nil, fmt.Errorf("part record is %d bytes, want %d", len(data), PartRecordSize)
	}
	sample := binary.LittleEndian.Uint16(data[partSampleOffset:])
	if sample > MaxSample {
		return nil, fmt.Errorf("part record sample %d out of range", sample)
	}
	p := &Part{
		sample: uint8(sample),
		steps:  binary.LittleEndian.Uint16(data[partStepsOffset:]),
		funcs:  Functions(data[partFuncOffset]),
	}
	copy(p.params[:], data[partParamsOffset:partParamsOffset+NumParams])
	copy(p.motion[:], data[partMotionOffset:partMotionOffset+NumMotionSlots])
	return p, nil
}

// DecodePattern parses a 2624-byte pattern blob, checking the framing
// constants, and returns the contained pattern.
func DecodePattern(data []byte) (*Pattern, error) {
	if len(data) != PatternBlobSize {
		return nil, fmt.Errorf("pattern blob is %d bytes, want %d", len(data), PatternBlobSize)
	}
	if got := binary.LittleEndian.Uint32(data[patHeaderOffset:]); got != PatternHeader {
		return nil, fmt.Errorf("bad pattern header 0x%08x", got)
	}
	if got := binary.LittleEndian.Uint32(data[patFooterOffset:]); got != PatternFooter {
		return nil, fmt.Errorf("bad pattern footer 0x%08x", got)
	}
	if got := binary.LittleEndian.Uint16(data[patDevOffset:]); got != DeviceCode {
		return nil, fmt.Errorf("bad device code 0x%04x", got)
	}
	pat := &Pattern{}
	for i := range pat.parts {
		off := patPartsOffset + i*PartRecordSize
		part, err := DecodePart(data[off : off+PartRecordSize])
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i+1, err)
		}
		pat.parts[i] = *part
	}
	return pat, nil
}

// IsPatternBlob reports whether data looks like an encoded pattern
func IsPatternBlob(data []byte) bool {
	return len(data) == PatternBlobSize &&
		binary.LittleEndian.Uint32(data) == PatternHeader
}
