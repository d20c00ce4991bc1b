//go:build !linux || tinygo

// setaffinity_stub.go - CPU affinity no-op for platforms without
// sched_setaffinity(2): macOS, Windows, BSDs, WASM, TinyGo.
//
// Keeps the API surface identical so callers compile unchanged; every pin
// request reports ErrUnsupported and the run continues unpinned.

package affinity

func setAffinity(int) error { return ErrUnsupported }

func current() ([]int, error) { return nil, ErrUnsupported }

func restoreAffinity() error { return ErrUnsupported }
