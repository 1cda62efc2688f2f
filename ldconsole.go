package ldconsole

import (
	"path/filepath"
	"strconv"
	"time"
)

// Installation layout constants
const (
	// ConsoleExecutable is the file name of the manager executable inside an installation directory
	ConsoleExecutable = "ldconsole.exe"

	// VMConfigDir is the installation subdirectory holding per-instance config files
	VMConfigDir = "vms/config"

	// DefaultPollInterval is the default interval between listings while watching
	DefaultPollInterval = 2 * time.Second

	// DefaultWatchDebounce is the default debounce time for filesystem-triggered listings
	DefaultWatchDebounce = 50 * time.Millisecond

	// PipeWaitDelay bounds how long a call waits for stdout to close after
	// the manager exits or is killed. The emulator started by launch may
	// inherit the pipe and keep it open.
	PipeWaitDelay = time.Second
)

// Field defaults substituted when a numeric field of a listing line does not parse
const (
	DefaultIndex      = -1
	DefaultHandle     = 0
	DefaultIsRunning  = 0
	DefaultPID        = -1
	DefaultVBoxPID    = -1
	DefaultDimension  = 0
	indexFlag         = "--index"
	runningOutput     = "running"
	lineSeparator     = "\r\n"
	fieldSeparator    = ","
	requiredFieldsLen = 7
	extendedFieldsLen = 10
)

// File modes
const (
	// FileMode is the default mode for written snapshot files
	FileMode = 0o644
)

// ConsolePath returns the path of the manager executable inside dir.
// The path is composed syntactically; its existence is not checked.
func ConsolePath(dir string) string {
	return filepath.Join(dir, ConsoleExecutable)
}

// Operation represents a manager command
type Operation int

const (
	// OpUnknown represents an unknown operation
	OpUnknown Operation = iota
	// OpList lists all instances
	OpList
	// OpLaunch starts an instance
	OpLaunch
	// OpQuit stops an instance
	OpQuit
	// OpReboot reboots an instance
	OpReboot
	// OpIsRunning queries whether an instance is running
	OpIsRunning
)

// Operation string constants
const (
	opUnknownStr   = "unknown"
	opListStr      = "list"
	opLaunchStr    = "launch"
	opQuitStr      = "quit"
	opRebootStr    = "reboot"
	opIsRunningStr = "isrunning"
)

// String returns the string representation of an Operation
func (op Operation) String() string {
	switch op {
	case OpList:
		return opListStr
	case OpLaunch:
		return opLaunchStr
	case OpQuit:
		return opQuitStr
	case OpReboot:
		return opRebootStr
	case OpIsRunning:
		return opIsRunningStr
	default:
		return opUnknownStr
	}
}

// Command returns the manager command word for this operation.
// Listing uses list2, which prints the comma-separated form.
func (op Operation) Command() string {
	switch op {
	case OpList:
		return "list2"
	case OpLaunch:
		return "launch"
	case OpQuit:
		return "quit"
	case OpReboot:
		return "reboot"
	case OpIsRunning:
		return "isrunning"
	default:
		return ""
	}
}

// Args returns the full argument list for this operation.
// Operations other than OpList address a single instance by index.
func (op Operation) Args(index int) []string {
	if op == OpList {
		return []string{op.Command()}
	}
	return []string{op.Command(), indexFlag, strconv.Itoa(index)}
}
