// Package export writes modified patterns to encoded binary files and
// drives the external SYRO encoder over them.
package export

import (
	"fmt"
	"os"

	"github.com/freqport/volcaseq/pkg/syro"
	"github.com/freqport/volcaseq/pkg/volca"
)

// Result reports what an export produced
type Result struct {
	Entries []syro.Entry // one per written pattern file, ascending
	Audio   string       // audio stream path, empty if no encoder ran
}

// Patterns writes one binary file per modified pattern, named
// <base>_p<NN>.bin, and returns the written entries in ascending pattern
// order. Mutation counters are not reset, so re-exporting an unchanged
// project rewrites the same byte-identical files. Files written before a
// failure are left in place.
func Patterns(project *volca.Project, base string) ([]syro.Entry, error) {
	var entries []syro.Entry
	for _, n := range project.ModifiedPatterns() {
		pat, err := project.Pattern(n)
		if err != nil {
			return entries, err
		}
		path := fmt.Sprintf("%s_p%02d.bin", base, n)
		if err := os.WriteFile(path, volca.EncodePattern(pat), 0644); err != nil {
			return entries, fmt.Errorf("failed to write pattern %d: %w", n, err)
		}
		entries = append(entries, syro.Entry{Pattern: n, Path: path})
	}
	return entries, nil
}

// Export writes the modified patterns next to base and, when enc is
// non-nil, invokes the encoder once over all of them to produce the audio
// stream at outPath.
func Export(project *volca.Project, base, outPath string, enc syro.Encoder) (*Result, error) {
	entries, err := Patterns(project, base)
	if err != nil {
		return nil, err
	}
	res := &Result{Entries: entries}
	if enc == nil || len(entries) == 0 {
		return res, nil
	}
	if err := enc.Encode(entries, outPath); err != nil {
		return nil, err
	}
	res.Audio = outPath
	return res, nil
}
