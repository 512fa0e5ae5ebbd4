package lib

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/cfields-hep/lattice/lib/layout"
	"github.com/cfields-hep/lattice/lib/rng"
)

// Config stores the unprocessed values the user assigned to each config
// variable, one struct field per gcfg variable.
type Config struct {
	Lattice struct {
		// Extents is the lattice size, e.g. "4 4 4 8".
		Extents string
		// Scheme is the layout scheme name, e.g. "cb2".
		Scheme string
		// Dim is the expected dimensionality. Zero means "use however
		// many extents were given".
		Dim int
	}
	Run struct {
		// Threads used by the layout self-check. Non-positive means one
		// per core.
		Threads int
		// Profile is the profiling verbosity level.
		Profile int
		// Verbose routes diagnostics to stderr instead of dropping them.
		Verbose bool
	}
	Rng struct {
		// Seed for the default RNG. Zero means the built-in default.
		Seed int64
	}
}

// Args stores configuration information. It is a post-processed version of
// Config.
type Args struct {
	Extents []int
	Dim     int
	Scheme  layout.Scheme
	Threads int
	Profile int
	Verbose bool
	Seed    uint64
}

// ParseCommandLine parses the command line and returns the mode the program
// is being run in and the name of the config file. Expects the arguments in
// the order:
// $ lattice <mode> <config file>
func ParseCommandLine() (mode, configFile string, err error) {
	if len(os.Args) >= 2 && os.Args[1] == "help" {
		return "help", "", nil
	}
	if len(os.Args) != 3 {
		return "", "", fmt.Errorf("Expected arguments of the form "+
			"'lattice <mode> <config file>', got %d arguments.",
			len(os.Args)-1)
	}
	return os.Args[1], os.Args[2], nil
}

// ParseConfigFile parses arguments from a gcfg-formatted config file.
func ParseConfigFile(fileName string) (*Config, error) {
	cfg := &Config{}
	if err := gcfg.ReadFileInto(cfg, fileName); err != nil {
		return nil, fmt.Errorf("Could not read the config file '%s': %v",
			fileName, err)
	}
	return cfg, nil
}

// Process converts the raw user input to a format which is more useful for
// internal functions. Very simple validation is done here; anything that
// needs the geometry itself is deferred to CreateRuntime.
func (cfg *Config) Process() (*Args, error) {
	extents, err := parseExtents(cfg.Lattice.Extents)
	if err != nil {
		return nil, err
	}

	schemeName := cfg.Lattice.Scheme
	if schemeName == "" {
		schemeName = "lexicographic"
	}
	scheme, err := layout.ParseScheme(schemeName)
	if err != nil {
		return nil, err
	}

	dim := cfg.Lattice.Dim
	if dim == 0 {
		dim = len(extents)
	}

	threads := cfg.Run.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	seed := uint64(cfg.Rng.Seed)
	if cfg.Rng.Seed < 0 {
		return nil, fmt.Errorf("The RNG seed must be non-negative, got %d.",
			cfg.Rng.Seed)
	}
	if seed == 0 {
		seed = rng.DefaultSeed
	}

	return &Args{
		Extents: extents,
		Dim:     dim,
		Scheme:  scheme,
		Threads: threads,
		Profile: cfg.Run.Profile,
		Verbose: cfg.Run.Verbose,
		Seed:    seed,
	}, nil
}

// parseExtents parses a whitespace- or comma-separated list of positive
// integers, e.g. "4 4 4 8".
func parseExtents(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("No lattice extents were specified.")
	}

	extents := make([]int, len(fields))
	for i := range fields {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("Could not parse '%s' in the lattice "+
				"extents '%s' as an integer.", fields[i], s)
		}
		extents[i] = n
	}
	return extents, nil
}
