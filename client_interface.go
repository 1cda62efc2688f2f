package ldconsole

import (
	"context"
)

// Controller is the interface implemented by Client.
// It lets callers substitute a fake manager in their own tests.
type Controller interface {
	// Listing
	List(ctx context.Context) ([]Instance, error)
	Instance(ctx context.Context, index int) (Instance, error)
	FindByName(ctx context.Context, name string) (Instance, error)
	IsRunning(ctx context.Context, index int) (bool, error)

	// Control operations
	Launch(ctx context.Context, index int) error
	Quit(ctx context.Context, index int) error
	Reboot(ctx context.Context, index int) error

	// Aliases
	Start(ctx context.Context, index int) error // Alias for Launch
	Stop(ctx context.Context, index int) error  // Alias for Quit
	Restart(ctx context.Context, index int) error

	WaitActive(ctx context.Context, index int, active bool) (Instance, error)

	// Watch delivers the instance list each time it changes
	// Returns a channel of events and a stop function
	Watch(ctx context.Context) (<-chan WatchEvent, WatchCleanupFunc, error)
}

var _ Controller = (*Client)(nil)
