// internal/config/config.go
// Package config parses the value analyzer's command line (spec §6.1)
// into a Config. Flags are parsed by hand over os.Args the way
// sentra/cmd/sentra/main.go and its commands package do it (an
// "-o"/"--output"-style for loop, no flag package, no cobra/pflag)
// rather than through the standard library's flag package, since the
// teacher never reaches for one either.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ikos/internal/ikoserr"
)

// WideningStrategy selects between true widening and widen-as-join, per
// spec §6.1's "-widening-strategy {widen|join}".
type WideningStrategy string

const (
	WideningStrategyWiden WideningStrategy = "widen"
	WideningStrategyJoin  WideningStrategy = "join"
)

// NarrowingStrategy selects between true narrowing and a meet-based
// strategy, per spec §6.1's "-narrowing-strategy {narrow|meet}".
type NarrowingStrategy string

const (
	NarrowingStrategyNarrow NarrowingStrategy = "narrow"
	NarrowingStrategyMeet   NarrowingStrategy = "meet"
)

// ProcStrategy selects inter- vs intra-procedural analysis, per spec
// §6.1's "-proc {inter|intra}".
type ProcStrategy string

const (
	ProcInter ProcStrategy = "inter"
	ProcIntra ProcStrategy = "intra"
)

// GlobalsInit selects how much of the initial memory state for globals
// is modeled, per spec §6.1's "-globals-init {all|skip-big-arrays|skip-strings|none}".
type GlobalsInit string

const (
	GlobalsInitAll           GlobalsInit = "all"
	GlobalsInitSkipBigArrays GlobalsInit = "skip-big-arrays"
	GlobalsInitSkipStrings   GlobalsInit = "skip-strings"
	GlobalsInitNone          GlobalsInit = "none"
)

// checkerTags is the finite set spec §6.1 names for "-a".
var checkerTags = map[string]bool{
	"boa": true, "dbz": true, "nullity": true, "prover": true, "upa": true,
	"uva": true, "sio": true, "uio": true, "shc": true, "poa": true,
	"pcmp": true, "sound": true, "fcall": true, "dca": true, "dfa": true,
	"dbg": true, "watch": true,
}

// domainTags is the finite set of values "-d" accepts, per spec §4.5's
// enumerated list of relational/non-relational numeric domains.
var domainTags = map[string]bool{
	"interval": true, "dbm": true, "gauge": true, "varpacking": true,
	"dbm-congruence": true,
}

// WideningDelayFunction is one "name:K" pair from "-widening-delay-functions".
type WideningDelayFunction struct {
	Function string
	Delay    int
}

// HardwareRange is one "low-high" pair from "-hardware-addresses[-file]".
type HardwareRange struct {
	Low, High uint64
}

// Config is the fully parsed command line, one field per spec §6.1 flag.
type Config struct {
	BundlePath string

	Checkers []string
	Domain   string

	Proc        ProcStrategy
	NumThreads  int
	EntryPoints []string

	WideningDelay          int
	WideningPeriod         int
	WideningDelayFunctions []WideningDelayFunction
	NarrowingIterations    int
	WideningStrategy       WideningStrategy
	NarrowingStrategy      NarrowingStrategy

	NoLiveness              bool
	NoPointer               bool
	NoWideningHints          bool
	NoFixpointCache          bool
	NoChecks                 bool
	EnablePartitioningDomain bool
	GlobalsInit              GlobalsInit

	HardwareAddresses []HardwareRange

	OutputPath string
}

// Default returns the Config spec §6.1 describes when every optional
// flag is omitted.
func Default() Config {
	return Config{
		Proc:                ProcInter,
		NumThreads:          1,
		WideningDelay:       1,
		WideningPeriod:      1,
		// 0 means "iterate until fixpoint" (spec §4.7's narrowing-phase
		// default); only -narrowing-iterations sets a finite cap.
		NarrowingIterations: 0,
		WideningStrategy:    WideningStrategyWiden,
		NarrowingStrategy:   NarrowingStrategyNarrow,
		GlobalsInit:         GlobalsInitAll,
		OutputPath:          "output.db",
	}
}

// Parse reads args (excluding the program name, i.e. os.Args[1:]) into
// a Config, defaulting every flag not given on the command line.
func Parse(args []string) (Config, error) {
	cfg := Default()
	var bundleSeen bool

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-a":
			val, ni, err := flagValue(args, i, "-a")
			if err != nil {
				return Config{}, err
			}
			for _, tag := range strings.Split(val, ",") {
				if !checkerTags[tag] {
					return Config{}, ikoserr.Newf(ikoserr.InvalidInput, "unknown checker tag: %s", tag)
				}
				cfg.Checkers = append(cfg.Checkers, tag)
			}
			i = ni
		case arg == "-d":
			val, ni, err := flagValue(args, i, "-d")
			if err != nil {
				return Config{}, err
			}
			if !domainTags[val] {
				return Config{}, ikoserr.Newf(ikoserr.InvalidInput, "unknown domain: %s", val)
			}
			cfg.Domain = val
			i = ni
		case arg == "-proc":
			val, ni, err := flagValue(args, i, "-proc")
			if err != nil {
				return Config{}, err
			}
			switch val {
			case "inter":
				cfg.Proc = ProcInter
			case "intra":
				cfg.Proc = ProcIntra
			default:
				return Config{}, ikoserr.Newf(ikoserr.InvalidInput, "-proc must be inter or intra, got %s", val)
			}
			i = ni
		case arg == "-j":
			val, ni, err := flagValue(args, i, "-j")
			if err != nil {
				return Config{}, err
			}
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return Config{}, ikoserr.Newf(ikoserr.InvalidInput, "-j must be a positive integer, got %s", val)
			}
			cfg.NumThreads = n
			i = ni
		case arg == "-entry-points":
			val, ni, err := flagValue(args, i, "-entry-points")
			if err != nil {
				return Config{}, err
			}
			cfg.EntryPoints = strings.Split(val, ",")
			i = ni
		case arg == "-widening-delay":
			n, ni, err := flagInt(args, i, "-widening-delay")
			if err != nil {
				return Config{}, err
			}
			cfg.WideningDelay = n
			i = ni
		case arg == "-widening-period":
			n, ni, err := flagInt(args, i, "-widening-period")
			if err != nil {
				return Config{}, err
			}
			cfg.WideningPeriod = n
			i = ni
		case arg == "-widening-delay-functions":
			val, ni, err := flagValue(args, i, "-widening-delay-functions")
			if err != nil {
				return Config{}, err
			}
			fns, err := parseWideningDelayFunctions(val)
			if err != nil {
				return Config{}, err
			}
			cfg.WideningDelayFunctions = fns
			i = ni
		case arg == "-narrowing-iterations":
			n, ni, err := flagInt(args, i, "-narrowing-iterations")
			if err != nil {
				return Config{}, err
			}
			cfg.NarrowingIterations = n
			i = ni
		case arg == "-widening-strategy":
			val, ni, err := flagValue(args, i, "-widening-strategy")
			if err != nil {
				return Config{}, err
			}
			switch val {
			case "widen":
				cfg.WideningStrategy = WideningStrategyWiden
			case "join":
				cfg.WideningStrategy = WideningStrategyJoin
			default:
				return Config{}, ikoserr.Newf(ikoserr.InvalidInput, "-widening-strategy must be widen or join, got %s", val)
			}
			i = ni
		case arg == "-narrowing-strategy":
			val, ni, err := flagValue(args, i, "-narrowing-strategy")
			if err != nil {
				return Config{}, err
			}
			switch val {
			case "narrow":
				cfg.NarrowingStrategy = NarrowingStrategyNarrow
			case "meet":
				cfg.NarrowingStrategy = NarrowingStrategyMeet
			default:
				return Config{}, ikoserr.Newf(ikoserr.InvalidInput, "-narrowing-strategy must be narrow or meet, got %s", val)
			}
			i = ni
		case arg == "-no-liveness":
			cfg.NoLiveness = true
		case arg == "-no-pointer":
			cfg.NoPointer = true
		case arg == "-no-widening-hints":
			cfg.NoWideningHints = true
		case arg == "-no-fixpoint-cache":
			cfg.NoFixpointCache = true
		case arg == "-no-checks":
			cfg.NoChecks = true
		case arg == "-enable-partitioning-domain":
			cfg.EnablePartitioningDomain = true
		case arg == "-globals-init":
			val, ni, err := flagValue(args, i, "-globals-init")
			if err != nil {
				return Config{}, err
			}
			switch val {
			case "all", "skip-big-arrays", "skip-strings", "none":
				cfg.GlobalsInit = GlobalsInit(val)
			default:
				return Config{}, ikoserr.Newf(ikoserr.InvalidInput, "unknown -globals-init value: %s", val)
			}
			i = ni
		case arg == "-hardware-addresses":
			val, ni, err := flagValue(args, i, "-hardware-addresses")
			if err != nil {
				return Config{}, err
			}
			for _, part := range strings.Split(val, ",") {
				r, err := parseHardwareRange(part)
				if err != nil {
					return Config{}, err
				}
				cfg.HardwareAddresses = append(cfg.HardwareAddresses, r)
			}
			i = ni
		case arg == "-hardware-addresses-file":
			path, ni, err := flagValue(args, i, "-hardware-addresses-file")
			if err != nil {
				return Config{}, err
			}
			ranges, err := readHardwareAddressesFile(path)
			if err != nil {
				return Config{}, err
			}
			cfg.HardwareAddresses = append(cfg.HardwareAddresses, ranges...)
			i = ni
		case arg == "-o" || arg == "--output":
			path, ni, err := flagValue(args, i, "-o")
			if err != nil {
				return Config{}, err
			}
			cfg.OutputPath = path
			i = ni
		case strings.HasPrefix(arg, "-"):
			return Config{}, ikoserr.Newf(ikoserr.InvalidInput, "unknown flag: %s", arg)
		default:
			if bundleSeen {
				return Config{}, ikoserr.Newf(ikoserr.InvalidInput, "unexpected positional argument: %s", arg)
			}
			cfg.BundlePath = arg
			bundleSeen = true
		}
	}

	if !bundleSeen {
		return Config{}, ikoserr.New(ikoserr.InvalidInput, "missing required positional argument: path to input IR bundle")
	}
	return cfg, nil
}

// flagValue reads the value following args[i] (a flag at position i that
// takes one argument) and returns it along with the index of that value,
// which Parse's loop resumes scanning after.
func flagValue(args []string, i int, name string) (string, int, error) {
	if i+1 >= len(args) {
		return "", i, ikoserr.Newf(ikoserr.InvalidInput, "%s requires a value", name)
	}
	return args[i+1], i + 1, nil
}

func flagInt(args []string, i int, name string) (int, int, error) {
	val, ni, err := flagValue(args, i, name)
	if err != nil {
		return 0, i, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, i, ikoserr.Newf(ikoserr.InvalidInput, "%s requires an integer, got %s", name, val)
	}
	return n, ni, nil
}

func parseWideningDelayFunctions(val string) ([]WideningDelayFunction, error) {
	var out []WideningDelayFunction
	for _, pair := range strings.Split(val, ",") {
		name, kStr, found := strings.Cut(pair, ":")
		if !found {
			return nil, ikoserr.Newf(ikoserr.InvalidInput, "-widening-delay-functions entry must be name:K, got %s", pair)
		}
		k, err := strconv.Atoi(kStr)
		if err != nil {
			return nil, ikoserr.Newf(ikoserr.InvalidInput, "-widening-delay-functions delay must be an integer, got %s", kStr)
		}
		out = append(out, WideningDelayFunction{Function: name, Delay: k})
	}
	return out, nil
}

func parseHardwareRange(s string) (HardwareRange, error) {
	loStr, hiStr, found := strings.Cut(s, "-")
	if !found {
		return HardwareRange{}, ikoserr.Newf(ikoserr.InvalidInput, "hardware address range must be low-high, got %s", s)
	}
	lo, err := strconv.ParseUint(loStr, 0, 64)
	if err != nil {
		return HardwareRange{}, ikoserr.Newf(ikoserr.InvalidInput, "malformed low address: %s", loStr)
	}
	hi, err := strconv.ParseUint(hiStr, 0, 64)
	if err != nil {
		return HardwareRange{}, ikoserr.Newf(ikoserr.InvalidInput, "malformed high address: %s", hiStr)
	}
	if hi < lo {
		return HardwareRange{}, ikoserr.Newf(ikoserr.InvalidInput, "hardware address range's high < low: %s", s)
	}
	return HardwareRange{Low: lo, High: hi}, nil
}

// readHardwareAddressesFile reads one "low-high" pair per line, per spec
// §6.1's "-hardware-addresses-file <path>".
func readHardwareAddressesFile(path string) ([]HardwareRange, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ikoserr.Newf(ikoserr.InvalidInput, "failed to open hardware addresses file %s: %v", path, err)
	}
	defer f.Close()

	var out []HardwareRange
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r, err := parseHardwareRange(line)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, ikoserr.Newf(ikoserr.InvalidInput, "failed to read hardware addresses file %s: %v", path, err)
	}
	return out, nil
}

// String renders a one-line summary of the bundle, domain, proc, thread
// count and output path.
func (c Config) String() string {
	return fmt.Sprintf("bundle=%s domain=%s proc=%s threads=%d output=%s",
		c.BundlePath, c.Domain, c.Proc, c.NumThreads, c.OutputPath)
}
