package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"
)

// The tests below use the test binary itself as a fake annotator. When
// fakeAnnotatorEnv is set, TestMain behaves like gcov instead of running
// the test suite.
const (
	fakeAnnotatorEnv     = "COVGATE_FAKE_ANNOTATOR"
	fakeAnnotatorExitEnv = "COVGATE_FAKE_ANNOTATOR_EXIT"
)

func TestMain(m *testing.M) {
	if os.Getenv(fakeAnnotatorEnv) == "1" {
		os.Exit(runFakeAnnotator(os.Args[1:]))
	}

	os.Exit(m.Run())
}

func runFakeAnnotator(args []string) int {
	switch os.Getenv(fakeAnnotatorExitEnv) {
	case "sleep":
		time.Sleep(10 * time.Second)
		return 0
	case "":
	default:
		code, _ := strconv.Atoi(os.Getenv(fakeAnnotatorExitEnv))
		fmt.Println("stdout: cannot open notes file")
		fmt.Fprintln(os.Stderr, "stderr: annotation failed")

		return code
	}

	artifact := args[len(args)-1]
	name := strings.TrimSuffix(filepath.Base(artifact), ".gcno") + ".gcov"
	content := strings.Join(args, " ") + "\n"

	if err := os.WriteFile(name, []byte(content), 0o600); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}

	fmt.Printf("File '%s'\nCreating '%s'\n", artifact, name)

	return 0
}

func TestLocalAnnotatorAdapter_Annotate_Success(t *testing.T) {
	t.Setenv(fakeAnnotatorEnv, "1")
	t.Setenv(fakeAnnotatorExitEnv, "")

	adapter := NewLocalAnnotatorAdapter()
	workDir := t.TempDir()

	result, err := adapter.Annotate(context.Background(), AnnotateRequest{
		Executable: os.Args[0],
		WorkDir:    workDir,
		Artifact:   "/objects/heap.c.gcno",
	})
	if err != nil {
		t.Fatalf("Annotate() error = %v, output = %s", err, result.Output)
	}

	if result.ExitCode != 0 {
		t.Fatalf("Annotate() exit code = %d, want 0", result.ExitCode)
	}

	if !strings.Contains(result.Output, "Creating 'heap.c.gcov'") {
		t.Fatalf("Annotate() output = %q", result.Output)
	}

	written, err := os.ReadFile(filepath.Join(workDir, "heap.c.gcov"))
	if err != nil {
		t.Fatalf("annotation file was not written to the work dir: %v", err)
	}

	want := "--branch-counts --branch-probabilities --preserve-paths /objects/heap.c.gcno\n"
	if string(written) != want {
		t.Fatalf("annotator received args %q, want %q", string(written), want)
	}
}

func TestLocalAnnotatorAdapter_Annotate_NonZeroExit(t *testing.T) {
	t.Setenv(fakeAnnotatorEnv, "1")
	t.Setenv(fakeAnnotatorExitEnv, "4")

	adapter := NewLocalAnnotatorAdapter()

	result, err := adapter.Annotate(context.Background(), AnnotateRequest{
		Executable: os.Args[0],
		WorkDir:    t.TempDir(),
		Artifact:   "broken.gcno",
	})
	if err != nil {
		t.Fatalf("Annotate() error = %v, want nil for non-zero exit", err)
	}

	if result.ExitCode != 4 {
		t.Fatalf("Annotate() exit code = %d, want 4", result.ExitCode)
	}

	for _, want := range []string{"stdout: cannot open notes file", "stderr: annotation failed"} {
		if !strings.Contains(result.Output, want) {
			t.Fatalf("Annotate() output %q is missing %q", result.Output, want)
		}
	}
}

func TestLocalAnnotatorAdapter_Annotate_MissingExecutable(t *testing.T) {
	adapter := NewLocalAnnotatorAdapter()

	result, err := adapter.Annotate(context.Background(), AnnotateRequest{
		Executable: filepath.Join(t.TempDir(), "no-such-gcov"),
		WorkDir:    t.TempDir(),
		Artifact:   "a.gcno",
	})
	if err == nil {
		t.Fatalf("Annotate() expected error for missing executable")
	}

	if result.ExitCode != -1 {
		t.Fatalf("Annotate() exit code = %d, want -1", result.ExitCode)
	}
}

func TestLocalAnnotatorAdapter_Annotate_Timeout(t *testing.T) {
	t.Setenv(fakeAnnotatorEnv, "1")
	t.Setenv(fakeAnnotatorExitEnv, "sleep")

	adapter := NewLocalAnnotatorAdapter()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := adapter.Annotate(ctx, AnnotateRequest{
		Executable: os.Args[0],
		WorkDir:    t.TempDir(),
		Artifact:   "slow.gcno",
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Annotate() error = %v, want deadline exceeded", err)
	}

	if result.ExitCode != -1 {
		t.Fatalf("Annotate() exit code = %d, want -1", result.ExitCode)
	}
}

func TestLocalAnnotatorAdapter_Annotate_TimeoutKillsWrapperChildren(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell wrappers are not supported on windows")
	}

	wrapper := filepath.Join(t.TempDir(), "gcov-wrapper")
	if err := os.WriteFile(wrapper, []byte("#!/bin/sh\nsleep 8\necho done\n"), 0o755); err != nil {
		t.Fatalf("failed to write wrapper: %v", err)
	}

	adapter := NewLocalAnnotatorAdapter()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := adapter.Annotate(ctx, AnnotateRequest{
		Executable: wrapper,
		WorkDir:    t.TempDir(),
		Artifact:   "slow.gcno",
	})
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Annotate() error = %v, want deadline exceeded", err)
	}

	if result.ExitCode != -1 {
		t.Fatalf("Annotate() exit code = %d, want -1", result.ExitCode)
	}

	if elapsed > 5*time.Second {
		t.Fatalf("Annotate() returned after %s, want prompt return once the deadline passed", elapsed)
	}
}
