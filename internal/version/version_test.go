package version

import "testing"

func TestString(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() {
		Version, GitCommit = origVersion, origCommit
	}()

	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{"source build", "0.1.0-dev", "unknown", "v0.1.0-dev"},
		{"release build", "1.2.0", "8f3ab91", "v1.2.0 (8f3ab91)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, GitCommit = tt.version, tt.commit
			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
