//go:build e2e

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// binaryPath returns CARDDELIVERY_BIN or builds the command into a temp dir.
func binaryPath(t *testing.T) string {
	t.Helper()
	if bin := os.Getenv("CARDDELIVERY_BIN"); bin != "" {
		if _, err := os.Stat(bin); err != nil {
			t.Fatalf("CLI binary not found at %s: %v", bin, err)
		}
		return bin
	}
	bin := filepath.Join(t.TempDir(), "carddelivery")
	build := exec.Command("go", "build", "-o", bin, ".")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("go build failed: %v\n%s", err, out)
	}
	return bin
}

func isolatedEnv(dir string) []string {
	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "CARDDELIVERY_") {
			env = append(env, e)
		}
	}
	return append(env,
		fmt.Sprintf("HOME=%s", dir),
		fmt.Sprintf("CARDDELIVERY_CONFIG_DIR=%s", filepath.Join(dir, "carddelivery")),
		"CARDDELIVERY_TIMEZONE=UTC",
	)
}

func run(t *testing.T, bin string, env []string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return string(out), 0
	case errors.As(err, &exitErr):
		return string(out), exitErr.ExitCode()
	default:
		t.Fatalf("Command %v failed to start: %v", args, err)
		return "", -1
	}
}

func mustRun(t *testing.T, bin string, env []string, args ...string) string {
	t.Helper()
	out, code := run(t, bin, env, args...)
	if code != 0 {
		t.Fatalf("Command %v exited %d\nOutput: %s", args, code, out)
	}
	return out
}

func TestEndToEndWorkflow(t *testing.T) {
	bin := binaryPath(t)
	env := isolatedEnv(t.TempDir())

	mustRun(t, bin, env, "init")

	form := []string{"--city", "Казань", "--name", "Петров Пётр", "--phone", "+79001122333", "--agree"}

	out := mustRun(t, bin, env, append([]string{"validate", "--ahead", "3"}, form...)...)
	if !strings.Contains(out, "Form is valid.") {
		t.Errorf("validate output = %s", out)
	}

	out, code := run(t, bin, env, append([]string{"validate", "--ahead", "2"}, form...)...)
	if code != 2 {
		t.Errorf("validate with a too-early date exited %d, want 2\n%s", code, out)
	}

	out = mustRun(t, bin, env, append([]string{"book", "--ahead", "5"}, form...)...)
	if !strings.Contains(out, "Встреча успешно забронирована на") {
		t.Errorf("book output = %s", out)
	}

	out = mustRun(t, bin, env, "history", "list")
	if !strings.Contains(out, "Казань") {
		t.Errorf("history list output = %s", out)
	}

	mustRun(t, bin, env, "backup", "create")
	out = mustRun(t, bin, env, "backup", "list")
	if !strings.Contains(out, "journal-") {
		t.Errorf("backup list output = %s", out)
	}

	out = mustRun(t, bin, env, "doctor")
	if !strings.Contains(out, "All diagnostics passed!") {
		t.Errorf("doctor output = %s", out)
	}

	out = mustRun(t, bin, env, "cities", "suggest", "Ка")
	if !strings.Contains(out, "Казань") {
		t.Errorf("cities suggest output = %s", out)
	}
}
