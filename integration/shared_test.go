//go:build basic || database

// Package integration contains end-to-end tests that drive the ctmeta binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends need Docker: go test -tags database ./integration
package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedCtmetaPath holds the path to a shared ctmeta binary built once for all tests.
	sharedCtmetaPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getCtmetaBinary returns the path to the ctmeta binary, building it once if needed.
func getCtmetaBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "ctmeta-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		ctmetaPath := filepath.Join(tempDir, "ctmeta")
		buildCmd := exec.Command("go", "build", "-o", ctmetaPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build ctmeta: %v\n%s", err, out))
		}

		sharedCtmetaPath = ctmetaPath
	})

	return sharedCtmetaPath
}

// runCtmeta runs the binary in dir with HOME pointed at dir so that no user
// config leaks in, and returns stdout.
func runCtmeta(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getCtmetaBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+dir)
	cmd.Env = append(cmd.Env, env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
	}
	return stdout.String(), err
}

// writeFixture lays out parser output and a roster in a fresh directory.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"data/parsed/a.json": `{"file_name":"a.pca","file_path":"S:\\CT_DATA\\FICS\\p1\\a.pca"}`,
		"data/parsed/b.json": `[{"id":"b1","calib_images":{"GainImg":"S:\\Calib\\Materials Lab\\gain.tif"}},{"id":"b2"}]`,
		"users.csv":          "Folder,Email\nFICS,john@x.com\nMaterials Lab,mia@x.com\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}
