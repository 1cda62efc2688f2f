// Package ldconsole controls LDPlayer emulator instances by running the
// ldconsole.exe manager that ships with every LDPlayer installation.
//
// The core functionality centers around the Client type, which lists the
// instances of one installation and starts or stops them by index:
//
//	client := ldconsole.New(`C:\leidian\LDPlayer4`)
//
//	// List instances
//	instances, err := client.List(context.Background())
//	for _, inst := range instances {
//	    fmt.Printf("%d %s running=%v pid=%d\n", inst.Index, inst.Name, inst.Active(), inst.PID)
//	}
//
//	// Start and stop an instance
//	err = client.Launch(context.Background(), 0)
//	err = client.Quit(context.Background(), 0)
//
// # Output Format
//
// The manager prints one instance per CRLF-terminated line as comma-separated
// fields, encoded in GBK:
//
//	index,name,top_window_handle,bind_window_handle,is_running,pid,vbox_pid[,width,height,dpi]
//
// Numeric fields that fail to parse take a per-field default (-1 for index
// and process ids, 0 otherwise) instead of failing the listing. Output that
// is not valid GBK fails the whole listing with ErrEncoding.
//
// # Errors
//
// Failures to start or wait on the manager are returned as *OpError wrapping
// the OS error. The manager's exit status and printed result are never
// interpreted: Launch and Quit succeed once the manager has run.
//
// # Watching
//
// Watch re-lists instances when the installation's instance configs change
// and on a fixed interval, delivering the list whenever it changes.
// WaitActive builds on it to wait for an instance to come up or go down.
package ldconsole
