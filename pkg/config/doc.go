// Package config validates the run configuration of the forcing engine and
// resolves its processing window.
//
// A configuration is a set of named sections (Input, Output, Retrospective,
// Forecast, Geospatial, Regridding, Interpolation) holding key/value text.
// It may be stored as INI, YAML or TOML; all three share the same layout:
//
//	[Input]
//	InputForcings = [3, 5]
//	InputForcingDirectories = /data/gfs, /data/hrrr
//
// # Resolution
//
// A Resolver reads every section through a Source, checks ranges, array
// lengths and cross-field consistency, selects the run mode and computes the
// processing window:
//
//	cfg, err := config.LoadConfig("forcing.config")
//	if err != nil {
//	    // err is a *config.FieldError; branch on errors.Is(err, config.ErrRange) etc.
//	}
//	fmt.Println(cfg.Mode(), cfg.Window().NumOutputSteps)
//
// Resolution fails fast: the first invalid field aborts it and no *Config is
// produced. A successful resolution yields a Config that cannot be modified.
//
// # Run modes
//
//   - retrospective: RetroFlag = 1, window from BDateProc/EDateProc
//   - realtime: RetroFlag = 0 and a positive LookBack, window computed from
//     the current time by a LookbackFunc
//   - reforecast: RetroFlag = 0 and LookBack = -9999, window from
//     RefcstBDateProc/RefcstEDateProc split into ForecastFrequency cycles
//
// The -9999 sentinel is only recognized while parsing. Resolved values use
// Date.Valid and the ok result of Config.LookBack instead.
//
// # Environment Variable Overrides
//
// Any key may be overridden with FORCING_<SECTION>_<KEY>, for example
// FORCING_OUTPUT_OUTPUTFREQUENCY=60. Environment variables take precedence
// over file values.
//
// # Runtime settings
//
// The optional [Runtime] section configures the tool itself (log level,
// ledger, metrics address). See Settings.
package config
