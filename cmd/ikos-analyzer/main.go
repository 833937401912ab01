// cmd/ikos-analyzer/main.go
// The value analyzer's entry point (spec §6.1): parse the command line,
// load the bundle, drive the four-pass pipeline, and persist whatever it
// found to a SQLite output database. Grounded on
// sentra/cmd/sentra/main.go's dispatch shape -- a flat main() that reads
// os.Args, calls into one driver function, and translates errors into
// os.Exit codes -- reshaped around spec §6.1's own fixed exit-code table
// instead of sentra's command-per-subcommand dispatch, since this
// analyzer has exactly one mode of operation.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"ikos/internal/ar"
	"ikos/internal/config"
	"ikos/internal/fixpoint"
	"ikos/internal/memory"
	"ikos/internal/output"
	"ikos/internal/pipeline"
	"ikos/internal/varid"
)

// Exit codes from spec §6.1.
const (
	exitSuccess       = 0
	exitDBError       = 1
	exitLoadFailure   = 2
	exitVerifyFailure = 3
	exitImportFailure = 5
	exitTypeCheck     = 7
	exitMissingDebug  = 8
	exitOther         = 9
)

func main() {
	logger := log.New(os.Stderr, "ikos-analyzer: ", 0)

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		logger.Println(err)
		os.Exit(exitOther)
	}

	code := run(cfg, logger)
	os.Exit(code)
}

func run(cfg config.Config, logger *log.Logger) int {
	src, err := os.ReadFile(cfg.BundlePath)
	if err != nil {
		logger.Printf("failed to read bundle %s: %v", cfg.BundlePath, err)
		return exitImportFailure
	}

	vf := varid.NewFactory()
	loadStart := time.Now()
	bundle, err := ar.LoadBundle(string(src), vf)
	loadElapsed := time.Since(loadStart)
	if err != nil {
		logger.Printf("failed to load bundle %s: %v", cfg.BundlePath, err)
		return exitLoadFailure
	}

	db, err := output.Open(cfg.OutputPath)
	if err != nil {
		logger.Printf("failed to open output database %s: %v", cfg.OutputPath, err)
		return exitDBError
	}
	defer db.Close()

	if err := recordConfig(db, cfg); err != nil {
		logger.Println(err)
		return exitDBError
	}
	if err := db.RecordTime("load", loadElapsed); err != nil {
		logger.Println(err)
		return exitDBError
	}

	lf := memory.NewLocFactory()
	opts := pipeline.Options{
		Strategy:    callStrategyFor(cfg.Proc),
		Policy:      fixpoint.Policy{WideningDelay: cfg.WideningDelay, WideningPeriod: cfg.WideningPeriod, NarrowingIterations: cfg.NarrowingIterations},
		DelayFor:    delayForFunc(cfg.WideningDelayFunctions),
		Concurrency: cfg.NumThreads,
		ScalarKind:  scalarKindFor(cfg.Domain, logger),
	}

	analysisStart := time.Now()
	result := pipeline.Run(bundle, vf, lf, opts)
	analysisElapsed := time.Since(analysisStart)
	if err := db.RecordTime("analysis", analysisElapsed); err != nil {
		logger.Println(err)
		return exitDBError
	}

	if err := recordResults(db, bundle, result); err != nil {
		logger.Println(err)
		return exitDBError
	}

	logger.Println(db.Summary())
	return exitSuccess
}

// recordConfig persists the run's effective configuration as rows in
// `settings`, so a run's intended flags are recoverable from the output
// database alone.
func recordConfig(db *output.Database, cfg config.Config) error {
	settings := map[string]string{
		"bundle":             cfg.BundlePath,
		"domain":             cfg.Domain,
		"proc":               string(cfg.Proc),
		"threads":            fmt.Sprintf("%d", cfg.NumThreads),
		"widening-delay":     fmt.Sprintf("%d", cfg.WideningDelay),
		"widening-period":    fmt.Sprintf("%d", cfg.WideningPeriod),
		"narrowing-iters":    fmt.Sprintf("%d", cfg.NarrowingIterations),
		"widening-strategy":  string(cfg.WideningStrategy),
		"narrowing-strategy": string(cfg.NarrowingStrategy),
		"globals-init":       string(cfg.GlobalsInit),
	}
	for k, v := range settings {
		if err := db.SetSetting(k, v); err != nil {
			return err
		}
	}
	for _, checker := range cfg.Checkers {
		if err := db.SetSetting("checker", checker); err != nil {
			return err
		}
	}
	return nil
}

// recordResults flushes the pipeline's per-function findings as
// `results` rows, exercising the check API spec §6.2/§7 describes
// (check_kind/status/message) without implementing any specific
// checker (out of scope per spec's own Non-goals).
func recordResults(db *output.Database, bundle *ar.Bundle, result pipeline.Result) error {
	var rows []output.Result
	for _, fn := range bundle.Functions {
		if fn.IsDecl() {
			continue
		}
		values, ok := result.Values[fn.Name]
		status := output.StatusOK
		message := "no value-analysis result"
		if ok {
			message = values.String()
			if values.IsBottom() {
				status = output.StatusUnreachable
			}
		}
		rows = append(rows, output.Result{
			CheckKind:   "dfa",
			Status:      status,
			StatementID: 0,
			CallContext: fn.Name,
			Message:     message,
		})
	}
	return db.RecordResults(rows)
}

// scalarKindFor maps "-d" onto the Scalars implementation that backs
// component E. varpacking and dbm-congruence have no Scalars adapter
// yet (DESIGN.md records why), so they fall back to interval with a
// logged warning rather than silently pretending to run.
func scalarKindFor(domain string, logger *log.Logger) memory.ScalarKind {
	switch domain {
	case string(memory.ScalarDBM):
		return memory.ScalarDBM
	case string(memory.ScalarGauge):
		return memory.ScalarGauge
	case "varpacking", "dbm-congruence":
		logger.Printf("-d %s has no Scalars adapter yet; falling back to interval", domain)
		return memory.ScalarInterval
	default:
		return memory.ScalarInterval
	}
}

func callStrategyFor(proc config.ProcStrategy) pipeline.CallStrategy {
	if proc == config.ProcIntra {
		return pipeline.ContextInsensitive
	}
	return pipeline.Inline
}

func delayForFunc(overrides []config.WideningDelayFunction) func(string) int {
	byName := make(map[string]int, len(overrides))
	for _, o := range overrides {
		byName[o.Function] = o.Delay
	}
	return func(name string) int {
		if delay, ok := byName[name]; ok {
			return delay
		}
		return 0
	}
}
