package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("Received: 1 #USDT"), 0644))
	}
}

func TestNewFileScanner(t *testing.T) {
	scanner := NewFileScanner("/tmp/test")

	assert.NotNil(t, scanner)
	assert.Equal(t, "/tmp/test", scanner.baseDir)
	assert.Equal(t, ".txt", scanner.ext)
	assert.False(t, scanner.recursive)
}

func TestFileScannerScanEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileScannerScanNonExistentDirectory(t *testing.T) {
	files, err := NewFileScanner("/path/that/does/not/exist").Scan()

	require.NoError(t, err, "missing directories are skipped")
	assert.Empty(t, files)
}

func TestFileScannerScan(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir, "b.txt", "a.txt", "C.TXT", "data.json", "x.report", "sub/d.txt")

	tests := []struct {
		name      string
		recursive bool
		expected  []string
	}{
		{
			name:     "top_level_sorted",
			expected: []string{"C.TXT", "a.txt", "b.txt"},
		},
		{
			name:      "recursive",
			recursive: true,
			expected:  []string{"C.TXT", "a.txt", "b.txt", "sub/d.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := NewFileScanner(tempDir).Recursive(tt.recursive).Scan()
			require.NoError(t, err)

			var rel []string
			for _, f := range files {
				r, err := filepath.Rel(tempDir, f)
				require.NoError(t, err)
				rel = append(rel, filepath.ToSlash(r))
			}
			assert.Equal(t, tt.expected, rel)
		})
	}
}

func TestFileScannerWithExtension(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir, "a.txt", "now.report")

	files, err := NewFileScanner(tempDir).WithExtension("report").Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tempDir, "now.report")}, files)
}

func TestExpandPaths(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir, "dir/2.txt", "dir/1.txt", "single.log")

	files, err := ExpandPaths([]string{
		filepath.Join(tempDir, "single.log"),
		filepath.Join(tempDir, "dir"),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tempDir, "single.log"),
		filepath.Join(tempDir, "dir", "1.txt"),
		filepath.Join(tempDir, "dir", "2.txt"),
	}, files)

	_, err = ExpandPaths([]string{filepath.Join(tempDir, "missing")}, false)
	assert.Error(t, err)
}
