//go:build !unix

package mmfile

import (
	"fmt"
	"os"
)

// Map reads the whole backup file at path into memory. The cleanup func
// only drops the reference and never fails.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: read %s: %w", path, err)
	}
	cleanup := func() error {
		data = nil
		return nil
	}
	return data, cleanup, nil
}
