package ldconsole

// WatchEvent carries the instance list after a change, or a listing error
type WatchEvent struct {
	Instances []Instance
	Err       error
}

// WatchCleanupFunc stops a watch and waits for its goroutine to exit
type WatchCleanupFunc func() error
