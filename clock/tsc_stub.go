//go:build !amd64 || noasm

// tsc_stub.go — no cycle counter binding on this target
//
// Keeps the package building on arm64, RISC-V, WASM and noasm builds.
// Hardware() falls through to the monotonic clock.

package clock

func cycleCounter(float64) Clock { return nil }
