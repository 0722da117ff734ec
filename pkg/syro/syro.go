// Package syro wraps the external Korg SYRO encoder, which turns encoded
// pattern files into a playable audio stream the hardware loads through its
// sync input.
package syro

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ErrUnsupportedPlatform means no SYRO encoder binary exists for this OS
var ErrUnsupportedPlatform = errors.New("no syro encoder available for this platform")

// Entry pairs a 1-indexed pattern number with the file holding its encoded
// blob.
type Entry struct {
	Pattern int
	Path    string
}

// Token renders the per-pattern argument the encoder expects: the pattern
// number zero-padded to two digits, a colon, then the file path.
func (e Entry) Token() string {
	return fmt.Sprintf("p%02d:%s", e.Pattern, e.Path)
}

// Encoder produces one playable audio stream file from a set of encoded
// pattern files. Implementations are invoked once per export with the full
// ordered entry set.
type Encoder interface {
	Encode(entries []Entry, outPath string) error
}

// ExecEncoder runs the stock syro_volcasample_example binary shipped with
// the Korg SYRO SDK. Dir is where the per-platform binaries live; empty
// means the current directory.
type ExecEncoder struct {
	Dir string
}

// binaryName selects the platform-specific encoder executable
func binaryName() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return "syro_volcasample_example_mac", nil
	case "linux":
		return "syro_volcasample_example_linux", nil
	case "windows":
		return "syro_volcasample_example_win.exe", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
	}
}

// Encode invokes the encoder with the output path followed by one token per
// pattern. The output format (16-bit WAV at the hardware's transfer rate)
// is fixed by the encoder itself.
func (e *ExecEncoder) Encode(entries []Entry, outPath string) error {
	bin, err := binaryName()
	if err != nil {
		return err
	}
	args := make([]string, 0, len(entries)+1)
	args = append(args, outPath)
	for _, entry := range entries {
		args = append(args, entry.Token())
	}
	cmd := exec.Command(filepath.Join(e.Dir, bin), args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("syro encoder failed: %w: %s", err, out)
	}
	return nil
}
