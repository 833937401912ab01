package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseRequiresBundlePath(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Error("Parse should reject a command line with no bundle path")
	}
}

func TestParseDefaultsEveryOptionalFlag(t *testing.T) {
	cfg, err := Parse([]string{"prog.bc"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := Default()
	want.BundlePath = "prog.bc"
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Parse(%q) = %+v, want %+v", "prog.bc", cfg, want)
	}
}

func TestParseChecksFlag(t *testing.T) {
	cfg, err := Parse([]string{"prog.bc", "-a", "boa,dbz,nullity"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []string{"boa", "dbz", "nullity"}
	if len(cfg.Checkers) != len(want) {
		t.Fatalf("Checkers = %v, want %v", cfg.Checkers, want)
	}
	for i := range want {
		if cfg.Checkers[i] != want[i] {
			t.Errorf("Checkers[%d] = %s, want %s", i, cfg.Checkers[i], want[i])
		}
	}
}

func TestParseRejectsUnknownChecker(t *testing.T) {
	if _, err := Parse([]string{"prog.bc", "-a", "nonsense"}); err == nil {
		t.Error("Parse should reject an unknown checker tag")
	}
}

func TestParseDomainFlag(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"interval", false},
		{"dbm", false},
		{"gauge", false},
		{"varpacking", false},
		{"dbm-congruence", false},
		{"nonsense", true},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			cfg, err := Parse([]string{"prog.bc", "-d", tc.value})
			if tc.wantErr {
				if err == nil {
					t.Errorf("Parse(-d %s) should have errored", tc.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(-d %s) error: %v", tc.value, err)
			}
			if cfg.Domain != tc.value {
				t.Errorf("Domain = %s, want %s", cfg.Domain, tc.value)
			}
		})
	}
}

func TestParseProcFlag(t *testing.T) {
	cfg, err := Parse([]string{"prog.bc", "-proc", "intra"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Proc != ProcIntra {
		t.Errorf("Proc = %s, want intra", cfg.Proc)
	}
	if _, err := Parse([]string{"prog.bc", "-proc", "nonsense"}); err == nil {
		t.Error("Parse should reject an invalid -proc value")
	}
}

func TestParseJFlag(t *testing.T) {
	cfg, err := Parse([]string{"prog.bc", "-j", "4"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.NumThreads != 4 {
		t.Errorf("NumThreads = %d, want 4", cfg.NumThreads)
	}
	if _, err := Parse([]string{"prog.bc", "-j", "0"}); err == nil {
		t.Error("Parse should reject -j 0")
	}
	if _, err := Parse([]string{"prog.bc", "-j", "nan"}); err == nil {
		t.Error("Parse should reject a non-numeric -j")
	}
}

func TestParseEntryPoints(t *testing.T) {
	cfg, err := Parse([]string{"prog.bc", "-entry-points", "main,init"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(cfg.EntryPoints) != 2 || cfg.EntryPoints[0] != "main" || cfg.EntryPoints[1] != "init" {
		t.Errorf("EntryPoints = %v", cfg.EntryPoints)
	}
}

func TestParseWideningAndNarrowingKnobs(t *testing.T) {
	cfg, err := Parse([]string{
		"prog.bc",
		"-widening-delay", "3",
		"-widening-period", "2",
		"-widening-delay-functions", "main:5,loop:10",
		"-narrowing-iterations", "7",
		"-widening-strategy", "join",
		"-narrowing-strategy", "meet",
	})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.WideningDelay != 3 || cfg.WideningPeriod != 2 || cfg.NarrowingIterations != 7 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.WideningStrategy != WideningStrategyJoin || cfg.NarrowingStrategy != NarrowingStrategyMeet {
		t.Errorf("cfg = %+v", cfg)
	}
	want := []WideningDelayFunction{{Function: "main", Delay: 5}, {Function: "loop", Delay: 10}}
	if len(cfg.WideningDelayFunctions) != len(want) {
		t.Fatalf("WideningDelayFunctions = %v, want %v", cfg.WideningDelayFunctions, want)
	}
	for i := range want {
		if cfg.WideningDelayFunctions[i] != want[i] {
			t.Errorf("WideningDelayFunctions[%d] = %+v, want %+v", i, cfg.WideningDelayFunctions[i], want[i])
		}
	}
}

func TestParseToggleFlags(t *testing.T) {
	cfg, err := Parse([]string{
		"prog.bc", "-no-liveness", "-no-pointer", "-no-widening-hints",
		"-no-fixpoint-cache", "-no-checks", "-enable-partitioning-domain",
	})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !cfg.NoLiveness || !cfg.NoPointer || !cfg.NoWideningHints ||
		!cfg.NoFixpointCache || !cfg.NoChecks || !cfg.EnablePartitioningDomain {
		t.Errorf("cfg = %+v, want every toggle set", cfg)
	}
}

func TestParseGlobalsInit(t *testing.T) {
	cfg, err := Parse([]string{"prog.bc", "-globals-init", "skip-big-arrays"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.GlobalsInit != GlobalsInitSkipBigArrays {
		t.Errorf("GlobalsInit = %s, want skip-big-arrays", cfg.GlobalsInit)
	}
	if _, err := Parse([]string{"prog.bc", "-globals-init", "nonsense"}); err == nil {
		t.Error("Parse should reject an unknown -globals-init value")
	}
}

func TestParseHardwareAddresses(t *testing.T) {
	cfg, err := Parse([]string{"prog.bc", "-hardware-addresses", "0x1000-0x2000,0x3000-0x4000"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []HardwareRange{{Low: 0x1000, High: 0x2000}, {Low: 0x3000, High: 0x4000}}
	if len(cfg.HardwareAddresses) != len(want) {
		t.Fatalf("HardwareAddresses = %v, want %v", cfg.HardwareAddresses, want)
	}
	for i := range want {
		if cfg.HardwareAddresses[i] != want[i] {
			t.Errorf("HardwareAddresses[%d] = %+v, want %+v", i, cfg.HardwareAddresses[i], want[i])
		}
	}
}

func TestParseRejectsHardwareRangeWithHighBelowLow(t *testing.T) {
	if _, err := Parse([]string{"prog.bc", "-hardware-addresses", "0x2000-0x1000"}); err == nil {
		t.Error("Parse should reject a range whose high is below its low")
	}
}

func TestParseHardwareAddressesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "addrs.txt")
	if err := os.WriteFile(path, []byte("0x1000-0x2000\n\n0x5000-0x6000\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Parse([]string{"prog.bc", "-hardware-addresses-file", path})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []HardwareRange{{Low: 0x1000, High: 0x2000}, {Low: 0x5000, High: 0x6000}}
	if len(cfg.HardwareAddresses) != len(want) {
		t.Fatalf("HardwareAddresses = %v, want %v", cfg.HardwareAddresses, want)
	}
}

func TestParseHardwareAddressesFileRejectsMissingPath(t *testing.T) {
	if _, err := Parse([]string{"prog.bc", "-hardware-addresses-file", "/does/not/exist"}); err == nil {
		t.Error("Parse should reject a missing hardware addresses file")
	}
}

func TestParseOutputFlag(t *testing.T) {
	cfg, err := Parse([]string{"prog.bc", "-o", "result.db"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.OutputPath != "result.db" {
		t.Errorf("OutputPath = %s, want result.db", cfg.OutputPath)
	}
	cfg, err = Parse([]string{"prog.bc", "--output", "other.db"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.OutputPath != "other.db" {
		t.Errorf("OutputPath = %s, want other.db", cfg.OutputPath)
	}
}

func TestParseRejectsUnknownFlag(t *testing.T) {
	if _, err := Parse([]string{"prog.bc", "-not-a-real-flag"}); err == nil {
		t.Error("Parse should reject an unrecognized flag")
	}
}

func TestParseRejectsExtraPositionalArgument(t *testing.T) {
	if _, err := Parse([]string{"prog.bc", "extra.bc"}); err == nil {
		t.Error("Parse should reject a second positional argument")
	}
}

func TestParseFlagMissingValueErrors(t *testing.T) {
	if _, err := Parse([]string{"prog.bc", "-a"}); err == nil {
		t.Error("Parse should reject a trailing flag with no value")
	}
}
