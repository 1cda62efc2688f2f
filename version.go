package ldconsole

// Version is the current version of the ldconsole library
const Version = "0.3.0"

// VersionInfo contains detailed version information
type VersionInfo struct {
	// Version is the semantic version
	Version string
	// Executable is the manager executable this library drives
	Executable string
	// Encoding is the text encoding expected from the manager
	Encoding string
}

// GetVersion returns the current version information
func GetVersion() VersionInfo {
	return VersionInfo{
		Version:    Version,
		Executable: ConsoleExecutable,
		Encoding:   "GBK",
	}
}
