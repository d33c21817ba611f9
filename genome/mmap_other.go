//go:build !unix

package genome

import "os"

// mmapFile falls back to a plain read on platforms without POSIX
// mmap; the loaded Genome is identical either way, since Load only
// ever reads the bytes once while building Text.
func mmapFile(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
