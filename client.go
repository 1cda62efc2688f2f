package ldconsole

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client runs ldconsole.exe from a single LDPlayer installation.
// Each call spawns one manager process and blocks until it exits; the
// Client keeps no state between calls and is safe for concurrent use.
type Client struct {
	// InstallDir is the LDPlayer installation directory containing ldconsole.exe
	InstallDir string

	// Timeout bounds each manager invocation; zero means no timeout
	Timeout time.Duration

	// PollInterval is the interval between listings while watching
	PollInterval time.Duration

	// WatchDebounce is the debounce duration for filesystem-triggered listings
	WatchDebounce time.Duration

	// Logger receives debug output of control commands
	Logger logrus.FieldLogger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the timeout for each manager invocation
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.Timeout = d
	}
}

// WithPollInterval sets the listing interval used by Watch
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		c.PollInterval = d
	}
}

// WithWatchDebounce sets the debounce duration for watch events
func WithWatchDebounce(d time.Duration) Option {
	return func(c *Client) {
		c.WatchDebounce = d
	}
}

// WithLogger sets the logger used for command output
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		c.Logger = l
	}
}

// New creates a Client for the installation in installDir.
// The directory is not checked; a missing executable surfaces as an
// *OpError from the first operation.
func New(installDir string, opts ...Option) *Client {
	c := &Client{
		InstallDir:    installDir,
		PollInterval:  DefaultPollInterval,
		WatchDebounce: DefaultWatchDebounce,
		Logger:        logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ConsolePath returns the path of ldconsole.exe for this installation
func (c *Client) ConsolePath() string {
	return ConsolePath(c.InstallDir)
}

// run executes the manager with the arguments for op and returns its stdout.
// The manager's exit status is not treated as a failure: only errors
// starting or waiting on the process are returned.
func (c *Client) run(ctx context.Context, op Operation, index int) ([]byte, error) {
	path := c.ConsolePath()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, op.Args(index)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = PipeWaitDelay

	err := cmd.Run()
	if errors.Is(err, exec.ErrWaitDelay) {
		c.log(op, index).Debug("manager output left open by a child process")
		err = nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &OpError{Op: op, Path: path, Err: err}
		}
		// A killed child reports an ExitError too
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &OpError{Op: op, Path: path, Err: ctxErr}
		}
		c.log(op, index).WithField("exit_code", exitErr.ExitCode()).Debug("manager exited with non-zero status")
	}

	if stderr.Len() > 0 {
		c.log(op, index).WithField("stderr", strings.TrimSpace(stderr.String())).Debug("manager wrote to stderr")
	}

	return stdout.Bytes(), nil
}

// control runs a fire-and-forget instance command
func (c *Client) control(ctx context.Context, op Operation, index int) error {
	out, err := c.run(ctx, op, index)
	if err != nil {
		return err
	}

	c.log(op, index).WithField("output", strings.TrimSpace(string(out))).Debug("manager command finished")
	return nil
}

func (c *Client) log(op Operation, index int) logrus.FieldLogger {
	l := c.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}
	fields := logrus.Fields{"op": op.String(), "path": c.ConsolePath()}
	if op != OpList {
		fields["index"] = index
	}
	return l.WithFields(fields)
}

// List returns all instances known to the manager, in the order it prints them.
// Output that is not valid GBK fails with ErrEncoding and no instances.
func (c *Client) List(ctx context.Context) ([]Instance, error) {
	out, err := c.run(ctx, OpList, 0)
	if err != nil {
		return nil, err
	}

	text, err := DecodeGBK(out)
	if err != nil {
		return nil, err
	}

	return ParseList(text)
}

// Launch starts the instance with the given index.
// The manager's own result is not inspected.
func (c *Client) Launch(ctx context.Context, index int) error {
	return c.control(ctx, OpLaunch, index)
}

// Quit stops the instance with the given index.
// The manager's own result is not inspected.
func (c *Client) Quit(ctx context.Context, index int) error {
	return c.control(ctx, OpQuit, index)
}

// Reboot reboots the instance with the given index
func (c *Client) Reboot(ctx context.Context, index int) error {
	return c.control(ctx, OpReboot, index)
}

// Start is an alias for Launch
func (c *Client) Start(ctx context.Context, index int) error {
	return c.Launch(ctx, index)
}

// Stop is an alias for Quit
func (c *Client) Stop(ctx context.Context, index int) error {
	return c.Quit(ctx, index)
}

// Restart quits and then launches the instance with the given index
func (c *Client) Restart(ctx context.Context, index int) error {
	if err := c.Quit(ctx, index); err != nil {
		return err
	}
	return c.Launch(ctx, index)
}

// IsRunning asks the manager whether the instance with the given index is running
func (c *Client) IsRunning(ctx context.Context, index int) (bool, error) {
	out, err := c.run(ctx, OpIsRunning, index)
	if err != nil {
		return false, err
	}

	text, err := DecodeGBK(out)
	if err != nil {
		return false, err
	}

	return strings.TrimSpace(text) == runningOutput, nil
}

// Instance returns the listed instance with the given index
func (c *Client) Instance(ctx context.Context, index int) (Instance, error) {
	instances, err := c.List(ctx)
	if err != nil {
		return Instance{}, err
	}

	inst, ok := FindIndex(instances, index)
	if !ok {
		return Instance{}, ErrInstanceNotFound
	}
	return inst, nil
}

// FindByName returns the first listed instance with the given name
func (c *Client) FindByName(ctx context.Context, name string) (Instance, error) {
	instances, err := c.List(ctx)
	if err != nil {
		return Instance{}, err
	}

	inst, ok := FindName(instances, name)
	if !ok {
		return Instance{}, ErrInstanceNotFound
	}
	return inst, nil
}
