//go:build unix

package genome

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps path read-only rather than copying it into the heap,
// for reference files large enough that a read-only view is worth the
// syscall — the same reasoning that has coregex's simd/prefilter
// packages reach into golang.org/x/sys for platform primitives rather
// than stdlib alone.
func mmapFile(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size == 0 {
		return nil, func() error { return nil }, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("genome: mmap %s: %w", path, err)
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
