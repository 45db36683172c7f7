package hdlcore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// fakeExecCommand runs TestHelperProcess in place of the named program.
func fakeExecCommand(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmdArgs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
	cmd := exec.CommandContext(ctx, os.Args[0], cmdArgs...) // #nosec G204 - helper process for testing
	cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
	return cmd
}

func useFakeExec(t *testing.T) {
	t.Helper()
	orig := execCommandContext
	execCommandContext = fakeExecCommand
	t.Cleanup(func() { execCommandContext = orig })
}

// TestHelperProcess stands in for gcc, ar and verilator.
//
// Programs:
//
//	echo ARGS...    print ARGS to stdout and "warning: ARGS" to stderr
//	pwd             print the working directory
//	env KEY         print the value of KEY
//	fail CODE       print "error" to stderr and exit with CODE
//	verilator ...   print a Verilator root
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			args = args[i+1:]
			break
		}
	}
	if len(args) == 0 {
		os.Exit(2)
	}

	name, rest := args[0], args[1:]
	switch name {
	case "echo":
		fmt.Fprintln(os.Stdout, strings.Join(rest, " "))
		fmt.Fprintln(os.Stderr, "warning: "+strings.Join(rest, " "))
	case "pwd":
		dir, _ := os.Getwd()
		fmt.Fprintln(os.Stdout, dir)
	case "env":
		fmt.Fprintln(os.Stdout, os.Getenv(rest[0]))
	case "fail":
		fmt.Fprintln(os.Stderr, "error")
		code, err := strconv.Atoi(rest[0])
		if err != nil {
			os.Exit(1)
		}
		os.Exit(code)
	case "verilator":
		fmt.Fprintln(os.Stdout, "/opt/verilator/share/verilator")
	default:
		os.Exit(127)
	}
	os.Exit(0)
}

func TestExecLauncherRun(t *testing.T) {
	useFakeExec(t)

	var stdout, stderr bytes.Buffer
	err := ExecLauncher{}.Run(context.Background(), Invocation{
		Command: "echo",
		Args:    []string{"hello", "world"},
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := stdout.String(); got != "hello world\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := stderr.String(); got != "warning: hello world\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestExecLauncherWorkingDirAndEnv(t *testing.T) {
	useFakeExec(t)
	dir := t.TempDir()

	var stdout bytes.Buffer
	if err := (ExecLauncher{}).Run(context.Background(), Invocation{Command: "pwd", Dir: dir, Stdout: &stdout}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	// Resolve symlinked temp dirs, as on macOS
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(stdout.String()))
	if got != want {
		t.Errorf("working dir = %q, want %q", got, want)
	}

	stdout.Reset()
	err := ExecLauncher{}.Run(context.Background(), Invocation{
		Command: "env",
		Args:    []string{"HDLCORE_PROBE"},
		Env:     map[string]string{"HDLCORE_PROBE": "42"},
		Stdout:  &stdout,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "42" {
		t.Errorf("HDLCORE_PROBE = %q, want 42", got)
	}
}

func TestExecLauncherExitCode(t *testing.T) {
	useFakeExec(t)

	err := ExecLauncher{}.Run(context.Background(), Invocation{Command: "fail", Args: []string{"3"}})

	var le *LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("Expected LaunchError, got %v", err)
	}
	if !le.Ran {
		t.Error("Expected the command to have run")
	}
	if le.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", le.ExitCode)
	}
	if !strings.Contains(le.Error(), "exited with code 3") {
		t.Errorf("Unexpected message: %s", le.Error())
	}
}

func TestExecLauncherMissingCommand(t *testing.T) {
	err := ExecLauncher{}.Run(context.Background(), Invocation{Command: "hdlcore-no-such-compiler"})

	var le *LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("Expected LaunchError, got %v", err)
	}
	if le.Ran {
		t.Error("Expected the command not to have run")
	}
}

func TestExecLauncherAppendsToLogs(t *testing.T) {
	useFakeExec(t)
	scratch := t.TempDir()

	for _, word := range []string{"first", "second"} {
		out, err := openAppendLog(scratch, GccOutLog)
		if err != nil {
			t.Fatal(err)
		}
		errLog, err := openAppendLog(scratch, GccErrLog)
		if err != nil {
			t.Fatal(err)
		}
		runErr := ExecLauncher{}.Run(context.Background(), Invocation{Command: "echo", Args: []string{word}, Stdout: out, Stderr: errLog})
		out.Close()
		errLog.Close()
		if runErr != nil {
			t.Fatalf("Run returned error: %v", runErr)
		}
	}

	got, err := os.ReadFile(filepath.Join(scratch, GccErrLog))
	if err != nil {
		t.Fatal(err)
	}
	if want := "warning: first\nwarning: second\n"; string(got) != want {
		t.Errorf("%s = %q, want %q", GccErrLog, got, want)
	}
}

func TestExecLauncherBuildsArchive(t *testing.T) {
	scratch := t.TempDir()

	// echo stands in for gcc and ar
	tc := CToolchain()
	tc.Compiler = "echo"
	toolchains := &Toolchains{}
	toolchains.Register(tc)

	builder := NewVerilatorBuilder(ExecLauncher{}, nil)
	builder.Toolchains = toolchains

	sec := loadVerilator(t, map[string]string{"src_files": "dut.c"})
	config := &BuildConfig{SrcRoot: "/src", Package: "uart", ScratchDir: scratch}

	// ar is not faked by name, so archive through the helper too
	orig := execCommandContext
	execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if name == archiver {
			return fakeExecCommand(ctx, "echo", args...)
		}
		return fakeExecCommand(ctx, name, args...)
	}
	defer func() { execCommandContext = orig }()

	result, err := builder.Build(context.Background(), config, sec)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if result.Archive != "uart.a" {
		t.Errorf("Expected archive uart.a, got %q", result.Archive)
	}

	out, err := os.ReadFile(filepath.Join(scratch, GccOutLog))
	if err != nil {
		t.Fatal(err)
	}
	if want := "-c -std=c99 -I/src /src/uart/dut.c\n"; string(out) != want {
		t.Errorf("%s = %q, want %q", GccOutLog, out, want)
	}
}
