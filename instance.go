package ldconsole

import (
	"fmt"
	"strconv"
	"strings"
)

// Instance is one emulator instance as reported by the manager's listing.
// It is a snapshot of a single output line and holds no reference to the
// emulator process.
type Instance struct {
	// Index is the ordinal identifier used to address the instance
	Index int `json:"index"`

	// Name is the display name, taken verbatim from the listing
	Name string `json:"name"`

	// TopWindowHandle is the handle of the instance's top-level window
	TopWindowHandle int64 `json:"top_window_handle"`

	// BindWindowHandle is the handle of the bound render window
	BindWindowHandle int64 `json:"bind_window_handle"`

	// IsRunning is 1 when the instance has entered the Android system
	IsRunning int `json:"is_running"`

	// PID is the process id of the emulator process, -1 when not running
	PID int64 `json:"pid"`

	// VBoxPID is the process id of the virtualization helper, -1 when not running
	VBoxPID int64 `json:"vbox_pid"`

	// Width, Height and DPI are only printed by newer manager releases
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	DPI    int `json:"dpi,omitempty"`
}

// Active reports whether the manager flags the instance as running
func (i Instance) Active() bool {
	return i.IsRunning == 1
}

// String returns a human-readable summary of the instance
func (i Instance) String() string {
	return fmt.Sprintf("[%d] %s running=%d pid=%d vbox_pid=%d", i.Index, i.Name, i.IsRunning, i.PID, i.VBoxPID)
}

// ParseList parses decoded list2 output into instances.
//
// Lines are separated by CRLF and empty lines are skipped. Each remaining
// line is split on commas and mapped positionally. Numeric fields that do not
// parse take their field default instead of failing. A line with fewer than
// seven fields yields a *RecordError.
func ParseList(text string) ([]Instance, error) {
	instances := []Instance{}

	line := 0
	for _, raw := range strings.Split(text, lineSeparator) {
		if raw == "" {
			continue
		}
		line++

		fields := strings.Split(raw, fieldSeparator)
		if len(fields) < requiredFieldsLen {
			return nil, &RecordError{Line: line, Fields: len(fields)}
		}

		instances = append(instances, parseFields(fields))
	}

	return instances, nil
}

// parseFields maps a split listing line to an Instance. fields must hold at
// least requiredFieldsLen entries.
func parseFields(fields []string) Instance {
	inst := Instance{
		Index:            int(parseIntOr(fields[0], DefaultIndex, 32)),
		Name:             fields[1],
		TopWindowHandle:  parseIntOr(fields[2], DefaultHandle, 64),
		BindWindowHandle: parseIntOr(fields[3], DefaultHandle, 64),
		IsRunning:        int(parseIntOr(fields[4], DefaultIsRunning, 32)),
		PID:              parseIntOr(fields[5], DefaultPID, 64),
		VBoxPID:          parseIntOr(fields[6], DefaultVBoxPID, 64),
	}

	if len(fields) >= extendedFieldsLen {
		inst.Width = int(parseIntOr(fields[7], DefaultDimension, 32))
		inst.Height = int(parseIntOr(fields[8], DefaultDimension, 32))
		inst.DPI = int(parseIntOr(fields[9], DefaultDimension, 32))
	}

	return inst
}

// parseIntOr parses s as a base-10 integer of the given bit size,
// returning def when s is not a valid number in range.
func parseIntOr(s string, def int64, bitSize int) int64 {
	v, err := strconv.ParseInt(s, 10, bitSize)
	if err != nil {
		return def
	}
	return v
}

// FindIndex returns the instance with the given index
func FindIndex(instances []Instance, index int) (Instance, bool) {
	for _, inst := range instances {
		if inst.Index == index {
			return inst, true
		}
	}
	return Instance{}, false
}

// FindName returns the first instance whose name equals name
func FindName(instances []Instance, name string) (Instance, bool) {
	for _, inst := range instances {
		if inst.Name == name {
			return inst, true
		}
	}
	return Instance{}, false
}
