package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runEK(t, binaryPath, home, "version")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.NotEmpty(t, stdout)

	stdout, stderr, err = runEK(t, binaryPath, home, "session", "show")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Not signed in.")

	stdout, stderr, err = runEK(t, binaryPath, home, "account", "list")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "accounts: 0")

	_, err = os.Stat(filepath.Join(home, ".entitykit", "state.toml"))
	assert.True(t, err == nil || os.IsNotExist(err))
}

func TestSmokeSwitchUnknownAccountFails(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	_, stderr, err := runEK(t, binaryPath, home, "account", "switch", "user:nobody:tenant:default")
	require.Error(t, err)
	assert.Contains(t, stderr, "account not found")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "ek-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/ek")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build ek binary: %s", string(output))
	return binaryPath
}

func runEK(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"ENTITYKIT_SECRETS_BACKEND=file",
		"ENTITYKIT_API_BASE_URL=http://127.0.0.1:1",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
