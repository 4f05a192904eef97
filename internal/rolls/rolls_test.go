package rolls

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"one per line", "101\n102\n103\n", []string{"101", "102", "103"}},
		{"row-major order", "101,102\n103\n104,105,106", []string{"101", "102", "103", "104", "105", "106"}},
		{"whitespace and empty cells", " 101 , ,102\n\n,\n 103", []string{"101", "102", "103"}},
		{"windows line endings", "101\r\n102\r\n", []string{"101", "102"}},
		{"quoted cells", `"101","10 2"`, []string{"101", "10 2"}},
		{"empty input", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Read(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("rolls mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("malformed quotes", func(t *testing.T) {
		t.Parallel()

		if _, err := Read(strings.NewReader(`"101`)); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "rolls.csv")
		if err := os.WriteFile(path, []byte("101,102\n103\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"101", "102", "103"}, got); diff != "" {
			t.Errorf("rolls mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv"))
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound, got %v", err)
		}
	})
}
