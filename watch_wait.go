package ldconsole

import (
	"context"
	"errors"
)

// WaitActive blocks until the instance with the given index reports the
// wanted running flag, or the context is done. It returns the matching
// snapshot of the instance.
//
// Example:
//
//	if err := client.Launch(ctx, 0); err != nil {
//	    return err
//	}
//	inst, err := client.WaitActive(ctx, 0, true)
func (c *Client) WaitActive(ctx context.Context, index int, active bool) (Instance, error) {
	// First check current state
	inst, err := c.Instance(ctx, index)
	if err == nil && inst.Active() == active {
		return inst, nil
	}
	if err != nil && !errors.Is(err, ErrInstanceNotFound) {
		return Instance{}, err
	}

	// Watch for changes
	events, cleanup, err := c.Watch(ctx)
	if err != nil {
		return Instance{}, err
	}
	defer func() { _ = cleanup() }()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				if err := ctx.Err(); err != nil {
					return Instance{}, err
				}
				return Instance{}, ErrWatchClosed
			}
			if event.Err != nil {
				return Instance{}, event.Err
			}
			if inst, ok := FindIndex(event.Instances, index); ok && inst.Active() == active {
				return inst, nil
			}
		case <-ctx.Done():
			return Instance{}, ctx.Err()
		}
	}
}
