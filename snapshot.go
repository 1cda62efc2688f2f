package ldconsole

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteSnapshot writes instances to path as indented JSON.
// The file is replaced atomically so readers never observe a partial list.
func WriteSnapshot(path string, instances []Instance) error {
	if instances == nil {
		instances = []Instance{}
	}

	data, err := json.MarshalIndent(instances, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(path, data, FileMode); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// ReadSnapshot reads instances previously written by WriteSnapshot
func ReadSnapshot(path string) ([]Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var instances []Instance
	if err := json.Unmarshal(data, &instances); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	return instances, nil
}
