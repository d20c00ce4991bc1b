// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: config.go — Optional TOML defaults
//
// Purpose:
//   - Lets a host keep its preferred sweep bounds, clock frequency and
//     output format in one file instead of repeating flags.
//
// Precedence (lowest first):
//   compiled defaults → config file → environment (CPU_HZ) → flags
//
// Notes:
//   - A missing or malformed file is a warning; the run keeps the defaults.
//   - Only keys present in the file override a default.
// ─────────────────────────────────────────────────────────────────────────────

package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"memlab/constants"
	"memlab/debug"
)

// Latency mirrors the latency subcommand flags.
type Latency struct {
	MinKB   uint64 `toml:"min_kb"`
	MaxMB   uint64 `toml:"max_mb"`
	Stride  uint64 `toml:"stride"`
	Iters   uint64 `toml:"iters"`
	CPU     int    `toml:"cpu"`
	Reps    int    `toml:"reps"`
	Pattern string `toml:"pattern"`
	Seed    uint64 `toml:"seed"`
	Huge    bool   `toml:"huge"`
}

// Bandwidth mirrors the bw subcommand flags plus the traffic costs.
type Bandwidth struct {
	Bytes      uint64  `toml:"bytes"`
	Threads    int     `toml:"threads"`
	Stride     uint64  `toml:"stride"`
	Reps       int     `toml:"reps"`
	Iters      uint64  `toml:"iters"`
	CPU0       int     `toml:"cpu0"`
	Mix        string  `toml:"rw"`
	Pattern    string  `toml:"pattern"`
	Huge       bool    `toml:"huge"`
	ReadBytes  float64 `toml:"read_bytes_per_touch"`
	WriteBytes float64 `toml:"write_bytes_per_touch"`
}

// Kernel mirrors the kernel subcommand flags.
type Kernel struct {
	WSBytes  uint64 `toml:"ws_bytes"`
	Stride   uint64 `toml:"stride"`
	Reps     int    `toml:"reps"`
	CPU      int    `toml:"cpu"`
	PageSpan uint64 `toml:"page_span"`
	Huge     bool   `toml:"huge"`
	Iters    uint64 `toml:"iters"`
}

// Clock holds the frequency used to convert hardware ticks.
type Clock struct {
	Hz float64 `toml:"hz"` // 0 means unset
}

// Output controls row encoding and diagnostics.
type Output struct {
	Format  string `toml:"format"`
	Verbose bool   `toml:"verbose"`
}

// File is the whole configuration.
type File struct {
	Latency   Latency   `toml:"latency"`
	Bandwidth Bandwidth `toml:"bw"`
	Kernel    Kernel    `toml:"kernel"`
	Clock     Clock     `toml:"clock"`
	Output    Output    `toml:"output"`
}

// Defaults returns the compiled-in configuration.
func Defaults() File {
	return File{
		Latency: Latency{
			MinKB:   constants.DefaultLatencyMinKB,
			MaxMB:   constants.DefaultLatencyMaxMB,
			Stride:  constants.DefaultLatencyStride,
			Iters:   constants.DefaultLatencyIters,
			CPU:     constants.NoCPU,
			Reps:    constants.DefaultReps,
			Pattern: "random",
			Seed:    constants.DefaultRingSeed,
		},
		Bandwidth: Bandwidth{
			Bytes:      constants.DefaultBandwidthBytes,
			Threads:    constants.DefaultBandwidthThreads,
			Stride:     constants.DefaultBandwidthStride,
			Reps:       constants.DefaultReps,
			Iters:      constants.DefaultBandwidthIters,
			CPU0:       constants.NoCPU,
			Mix:        "100R",
			Pattern:    "stride",
			ReadBytes:  constants.ReadBytesPerTouch,
			WriteBytes: constants.WriteBytesPerTouch,
		},
		Kernel: Kernel{
			WSBytes:  constants.DefaultKernelWSBytes,
			Stride:   constants.DefaultKernelStride,
			Reps:     constants.DefaultReps,
			CPU:      constants.NoCPU,
			PageSpan: constants.DefaultKernelPageSpan,
			Iters:    constants.DefaultKernelIters,
		},
		Output: Output{Format: "csv"},
	}
}

// Path picks the config file: the --config value, else $MEMLAB_CONFIG, else
// none.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(constants.ConfigPathEnv)
}

// Load decodes path over Defaults. An empty path returns Defaults unchanged.
func Load(path string) File {
	f := Defaults()
	if path == "" {
		return f
	}
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		debug.DropWarning("config ignored, using defaults", debug.Fields{
			"path": path,
			"err":  err,
		})
		return Defaults()
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		debug.DropWarning("config has unknown keys", debug.Fields{
			"path": path,
			"keys": keys,
		})
	}
	debug.DropDebug("config loaded", debug.Fields{"path": path})
	return f
}
