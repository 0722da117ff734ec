package syro

import "testing"

func TestEntryToken(t *testing.T) {
	tests := []struct {
		pattern int
		path    string
		want    string
	}{
		{1, "beat_p01.bin", "p01:beat_p01.bin"},
		{3, "x.bin", "p03:x.bin"},
		{10, "out/beat_p10.bin", "p10:out/beat_p10.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := Entry{Pattern: tt.pattern, Path: tt.path}.Token()
			if got != tt.want {
				t.Errorf("Token() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBinaryName(t *testing.T) {
	// The test host is one of the supported platforms, so a name must
	// resolve without ErrUnsupportedPlatform.
	name, err := binaryName()
	if err != nil {
		t.Fatalf("binaryName() error = %v", err)
	}
	if name == "" {
		t.Error("binaryName() returned empty name")
	}
}
