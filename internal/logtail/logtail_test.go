package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Fatalf("Read() = %v, want no lines", got)
	}
}

func TestReadMatching(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "jokes.log")
	lines := []string{
		"2026/01/02 10:00:00 collection load finished: loaded(3) (12ms)",
		"2026/01/02 10:00:05 collection delete failed: jokes api delete: not found (status 404)",
		"2026/01/02 10:00:05 collection delete finished: failed(\"Unknown error while deleting joke\") (4ms)",
		"2026/01/02 10:00:09 collection add finished: loaded(4) (30ms)",
		"2026/01/02 10:01:00 collection DELETE finished: loaded(3) (9ms)",
	}
	if err := os.WriteFile(logPath, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		substr   string
		expected []string
	}{
		{"all deletes", 0, "delete", []string{lines[1], lines[2], lines[4]}},
		{"last two deletes", 2, "Delete", []string{lines[2], lines[4]}},
		{"no match", 5, "update", []string{}},
		{"empty filter", 1, "  ", []string{lines[4]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadMatching(logPath, tt.maxLines, tt.substr)
			if err != nil {
				t.Fatalf("ReadMatching() error = %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("ReadMatching() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Fatalf("ReadMatching()[%d] = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}
