package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/itisl2220/ldconsole"
	"github.com/itisl2220/ldconsole/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubController struct {
	instances []ldconsole.Instance
	listErr   error
	running   bool
	calls     []string
}

func (s *stubController) List(ctx context.Context) ([]ldconsole.Instance, error) {
	s.calls = append(s.calls, "list")
	return s.instances, s.listErr
}

func (s *stubController) Instance(ctx context.Context, index int) (ldconsole.Instance, error) {
	inst, ok := ldconsole.FindIndex(s.instances, index)
	if !ok {
		return ldconsole.Instance{}, ldconsole.ErrInstanceNotFound
	}
	return inst, nil
}

func (s *stubController) FindByName(ctx context.Context, name string) (ldconsole.Instance, error) {
	panic("FindByName not implemented")
}

func (s *stubController) IsRunning(ctx context.Context, index int) (bool, error) {
	s.record("isrunning", index)
	return s.running, nil
}

func (s *stubController) Launch(ctx context.Context, index int) error {
	s.record("launch", index)
	return nil
}

func (s *stubController) Quit(ctx context.Context, index int) error {
	s.record("quit", index)
	return nil
}

func (s *stubController) Reboot(ctx context.Context, index int) error {
	s.record("reboot", index)
	return nil
}

func (s *stubController) Start(ctx context.Context, index int) error {
	return s.Launch(ctx, index)
}

func (s *stubController) Stop(ctx context.Context, index int) error {
	return s.Quit(ctx, index)
}

func (s *stubController) Restart(ctx context.Context, index int) error {
	_ = s.Quit(ctx, index)
	return s.Launch(ctx, index)
}

func (s *stubController) WaitActive(ctx context.Context, index int, active bool) (ldconsole.Instance, error) {
	s.record("wait", index)
	return ldconsole.Instance{Index: index, Name: "waited", IsRunning: 1, PID: 5, VBoxPID: 6}, nil
}

func (s *stubController) Watch(ctx context.Context) (<-chan ldconsole.WatchEvent, ldconsole.WatchCleanupFunc, error) {
	ch := make(chan ldconsole.WatchEvent, 2)
	ch <- ldconsole.WatchEvent{Instances: s.instances}
	ch <- ldconsole.WatchEvent{Err: errors.New("transient")}
	close(ch)
	return ch, func() error { return nil }, nil
}

func (s *stubController) record(op string, index int) {
	s.calls = append(s.calls, op+" "+strconv.Itoa(index))
}

// withStub installs stub as the controller for the duration of the test
func withStub(t *testing.T, stub *stubController) {
	t.Helper()
	orig := newController
	newController = func(cfg *config.Config, log logrus.FieldLogger) ldconsole.Controller {
		return stub
	}
	t.Cleanup(func() { newController = orig })

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LDCTL_DIR", "/ld")
}

// executeCommand runs ldctl with args and returns captured stdout and stderr
func executeCommand(args ...string) (string, string, error) {
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"list", "launch", "quit", "reboot", "restart", "running", "watch", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestListCommand(t *testing.T) {
	stub := &stubController{instances: []ldconsole.Instance{
		{Index: 0, Name: "LDPlayer", IsRunning: 1, PID: 10, VBoxPID: 11, TopWindowHandle: 1, BindWindowHandle: 2},
		{Index: 1, Name: "雷电模拟器-1", PID: -1, VBoxPID: -1},
	}}
	withStub(t, stub)

	out, _, err := executeCommand("list")
	require.NoError(t, err)
	assert.Equal(t,
		"[index=0] name=LDPlayer running=true pid=10 vbox_pid=11 top=1 bind=2\n"+
			"[index=1] name=雷电模拟器-1 running=false pid=-1 vbox_pid=-1 top=0 bind=0\n",
		out)
}

func TestListCommandEmpty(t *testing.T) {
	withStub(t, &stubController{})

	out, _, err := executeCommand("list")
	require.NoError(t, err)
	assert.Equal(t, "No instances\n", out)
}

func TestListCommandJSON(t *testing.T) {
	withStub(t, &stubController{instances: []ldconsole.Instance{{Index: 2, Name: "A", PID: -1, VBoxPID: -1}}})

	out, _, err := executeCommand("list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"index":2,"name":"A","top_window_handle":0,"bind_window_handle":0,"is_running":0,"pid":-1,"vbox_pid":-1}]`, out)
}

func TestListCommandSnapshot(t *testing.T) {
	instances := []ldconsole.Instance{{Index: 0, Name: "LDPlayer", PID: -1, VBoxPID: -1}}
	withStub(t, &stubController{instances: instances})

	path := filepath.Join(t.TempDir(), "snap.json")
	out, _, err := executeCommand("list", "--output", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	got, err := ldconsole.ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, instances, got)
}

func TestListCommandError(t *testing.T) {
	withStub(t, &stubController{listErr: ldconsole.ErrEncoding})

	_, _, err := executeCommand("list")
	require.ErrorIs(t, err, ldconsole.ErrEncoding)
	assert.Contains(t, err.Error(), "list instances")
}

func TestControlCommands(t *testing.T) {
	stub := &stubController{}
	withStub(t, stub)

	for _, args := range [][]string{
		{"launch", "3"},
		{"quit", "3"},
		{"reboot", "1"},
		{"restart", "2"},
	} {
		_, _, err := executeCommand(args...)
		require.NoError(t, err, "ldctl %v", args)
	}

	assert.Equal(t, []string{
		"launch 3",
		"quit 3",
		"reboot 1",
		"quit 2",
		"launch 2",
	}, stub.calls)
}

func TestControlCommandWait(t *testing.T) {
	stub := &stubController{}
	withStub(t, stub)

	out, _, err := executeCommand("launch", "4", "--wait", "1s")
	require.NoError(t, err)
	assert.Equal(t, []string{"launch 4", "wait 4"}, stub.calls)
	assert.Equal(t, "[4] waited running=1 pid=5 vbox_pid=6\n", out)
}

func TestControlCommandBadIndex(t *testing.T) {
	stub := &stubController{}
	withStub(t, stub)

	_, _, err := executeCommand("launch", "abc")
	require.Error(t, err)

	_, _, err = executeCommand("quit", "-1")
	require.Error(t, err)

	_, _, err = executeCommand("launch")
	require.Error(t, err)

	assert.Empty(t, stub.calls)
}

func TestRunningCommand(t *testing.T) {
	stub := &stubController{running: true}
	withStub(t, stub)

	out, _, err := executeCommand("running", "0")
	require.NoError(t, err)
	assert.Equal(t, "0 running\n", out)

	stub.running = false
	out, _, err = executeCommand("running", "0")
	require.NoError(t, err)
	assert.Equal(t, "0 stopped\n", out)
}

func TestWatchCommand(t *testing.T) {
	withStub(t, &stubController{instances: []ldconsole.Instance{{Index: 0, Name: "LDPlayer", PID: -1, VBoxPID: -1}}})

	out, errOut, err := executeCommand("watch")
	require.NoError(t, err)
	assert.Equal(t, "--- 1 instances\n[0] LDPlayer running=0 pid=-1 vbox_pid=-1\n", out)
	assert.Contains(t, errOut, "transient")
}

func TestMissingDir(t *testing.T) {
	withStub(t, &stubController{})
	require.NoError(t, os.Unsetenv("LDCTL_DIR"))

	_, _, err := executeCommand("list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dir")
}

func TestBuiltinCommandsWithoutDir(t *testing.T) {
	withStub(t, &stubController{})
	require.NoError(t, os.Unsetenv("LDCTL_DIR"))

	out, _, err := executeCommand("help")
	require.NoError(t, err)
	assert.Contains(t, out, "ldctl drives the ldconsole.exe manager")

	out, _, err = executeCommand("completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "bash completion")

	_, _, err = executeCommand("__complete", "")
	require.NoError(t, err)
}

func TestDirFlag(t *testing.T) {
	var gotDir string
	orig := newController
	newController = func(cfg *config.Config, log logrus.FieldLogger) ldconsole.Controller {
		gotDir = cfg.Dir
		return &stubController{}
	}
	t.Cleanup(func() { newController = orig })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LDCTL_DIR", "/from/env")

	_, _, err := executeCommand("--dir", "/from/flag", "list")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", gotDir)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := executeCommand("version")
	require.NoError(t, err)
	assert.Equal(t, "ldctl "+ldconsole.Version+" (ldconsole.exe, GBK output)\n", out)
}

func TestParseIndex(t *testing.T) {
	index, err := parseIndex("12")
	require.NoError(t, err)
	assert.Equal(t, 12, index)

	_, err = parseIndex("-3")
	require.Error(t, err)

	_, err = parseIndex("x")
	require.Error(t, err)
}
