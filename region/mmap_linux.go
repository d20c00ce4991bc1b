//go:build linux

// mmap_linux.go — anonymous private mappings for benchmark regions
//
// Mapping outside the Go heap keeps GC metadata off the measured pages and
// makes MADV_HUGEPAGE meaningful (the advice needs a page-aligned range).

package region

import "golang.org/x/sys/unix"

func allocate(n int) ([]byte, bool, error) {
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func adviseHuge(b []byte) error {
	return unix.Madvise(b, unix.MADV_HUGEPAGE)
}

func release(b []byte) error {
	return unix.Munmap(b)
}
