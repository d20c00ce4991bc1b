//go:build !linux

// mmap_stub.go — heap-backed regions where anonymous mmap + madvise are not
// wired. Huge-page advice reports ErrUnsupported.

package region

func allocate(n int) ([]byte, bool, error) {
	return make([]byte, n), false, nil
}

func adviseHuge([]byte) error { return ErrUnsupported }

func release([]byte) error { return nil }
