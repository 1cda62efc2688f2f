//go:build !windows

package ldconsole

import (
	"io/fs"

	"github.com/google/renameio/v2"
)

// writeFileAtomic replaces path with data via a temporary file and rename
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	return renameio.WriteFile(path, data, perm)
}
