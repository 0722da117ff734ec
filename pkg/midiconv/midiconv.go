// Package midiconv imports Standard MIDI File drum tracks into volca
// patterns: note-on events are quantized to the 16-step grid and mapped to
// parts through a fixed GM percussion table.
package midiconv

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/freqport/volcaseq/pkg/volca"
)

// drumPartMap maps GM percussion note numbers to part numbers
var drumPartMap = map[uint8]int{
	36: 1,  // bass drum
	38: 2,  // snare
	42: 3,  // closed hi-hat
	46: 4,  // open hi-hat
	39: 5,  // hand clap
	45: 6,  // low tom
	48: 7,  // hi-mid tom
	49: 8,  // crash cymbal
	51: 9,  // ride cymbal
	37: 10, // side stick
}

// Importer converts SMF drum data into pattern state
type Importer struct {
	ticksPerQuarter uint16
}

// NewImporter returns an importer with the standard 480 ticks per quarter,
// overridden by the file's own resolution when one is present.
func NewImporter() *Importer {
	return &Importer{ticksPerQuarter: 480}
}

// ImportFile reads a MIDI file and writes its drum hits into the 1-indexed
// pattern of the project.
func (m *Importer) ImportFile(filename string, project *volca.Project, pattern int) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return m.Import(data, project, pattern)
}

// Import parses MIDI data and writes its drum hits into the 1-indexed
// pattern of the project. Steps beyond one bar wrap around the 16-step
// grid. The peak velocity seen per part drives that part's level knob.
func (m *Importer) Import(data []byte, project *volca.Project, pattern int) error {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse MIDI: %w", err)
	}

	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		m.ticksPerQuarter = mt.Resolution()
	}

	// One bar of 16th notes
	ticksPerStep := int64(m.ticksPerQuarter) / 4

	type hit struct {
		steps    [volca.NumSteps]bool
		velocity uint8
	}
	hits := map[int]*hit{}

	for _, track := range s.Tracks {
		var currentTick int64
		for _, ev := range track {
			currentTick += int64(ev.Delta)
			msg := ev.Message
			if len(msg) < 3 {
				continue
			}
			status, note, velocity := msg[0], msg[1], msg[2]
			// Note On (0x90-0x9F) with nonzero velocity
			if status < 0x90 || status > 0x9F || velocity == 0 {
				continue
			}
			part, ok := drumPartMap[note]
			if !ok {
				continue
			}
			step := int(currentTick/ticksPerStep) % volca.NumSteps
			h := hits[part]
			if h == nil {
				h = &hit{}
				hits[part] = h
			}
			h.steps[step] = true
			if velocity > h.velocity {
				h.velocity = velocity
			}
		}
	}

	if len(hits) == 0 {
		return errors.New("no mappable drum notes in MIDI data")
	}

	for part, h := range hits {
		ref, err := project.Part(pattern, part)
		if err != nil {
			return err
		}
		if err := ref.SetSteps(h.steps[:]); err != nil {
			return err
		}
		if err := ref.SetParam(volca.ParamLevel, volca.Fixed(h.velocity&0x7f)); err != nil {
			return err
		}
	}
	return nil
}
