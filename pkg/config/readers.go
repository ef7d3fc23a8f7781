package config

import (
	"strconv"
	"strings"
)

// Configuration keys, grouped by section.
var (
	keyInputForcings     = fieldSpec{SectionInput, "InputForcings"}
	keyInputDirectories  = fieldSpec{SectionInput, "InputForcingDirectories"}
	keyInputTypes        = fieldSpec{SectionInput, "InputForcingTypes"}
	keyInputMandatory    = fieldSpec{SectionInput, "InputMandatory"}
	keyIgnoredBorders    = fieldSpec{SectionInput, "IgnoredBorderWidths"}
	keyOutputFrequency   = fieldSpec{SectionOutput, "OutputFrequency"}
	keyOutDir            = fieldSpec{SectionOutput, "OutDir"}
	keyRetroFlag         = fieldSpec{SectionRetrospective, "RetroFlag"}
	keyBDateProc         = fieldSpec{SectionRetrospective, "BDateProc"}
	keyEDateProc         = fieldSpec{SectionRetrospective, "EDateProc"}
	keyLookBack          = fieldSpec{SectionForecast, "LookBack"}
	keyRefcstBDateProc   = fieldSpec{SectionForecast, "RefcstBDateProc"}
	keyRefcstEDateProc   = fieldSpec{SectionForecast, "RefcstEDateProc"}
	keyForecastFrequency = fieldSpec{SectionForecast, "ForecastFrequency"}
	keyForecastShift     = fieldSpec{SectionForecast, "ForecastShift"}
	keyForecastHorizons  = fieldSpec{SectionForecast, "ForecastInputHorizons"}
	keyForecastOffsets   = fieldSpec{SectionForecast, "ForecastInputOffsets"}
	keyGeogridIn         = fieldSpec{SectionGeospatial, "GeogridIn"}
	keyRegridOpt         = fieldSpec{SectionRegridding, "RegridOpt"}
)

// maxForecastFrequency limits forecast cycles to daily or sub-daily cadence.
const maxForecastFrequency = 1440

// Per-source arrays, evaluated uniformly by reader.perSource.
var (
	inputMandatorySpec = listSpec{field: keyInputMandatory, check: flag01, optional: true, fill: 1}
	ignoredBordersSpec = listSpec{field: keyIgnoredBorders, check: nonNegative, optional: true, fill: 0}
	horizonsSpec       = listSpec{field: keyForecastHorizons, check: positive}
	offsetsSpec        = listSpec{field: keyForecastOffsets, check: nonNegative}
	regridSpec         = listSpec{field: keyRegridOpt, check: between(int(RegridBilinear), int(RegridConservativeBilinear))}
)

// interpSpecs holds one array per physical variable, in Variables order.
var interpSpecs = func() [numVariables]listSpec {
	var specs [numVariables]listSpec
	for _, v := range Variables {
		specs[v] = listSpec{
			field: fieldSpec{SectionInterpolation, v.Key()},
			check: between(int(InterpNone), int(InterpLinearWeighted)),
		}
	}
	return specs
}()

// readInput reads the Input section and fixes the number of inputs.
func (b *builder) readInput() error {
	codes, err := b.r.intList(keyInputForcings)
	if err != nil {
		return err
	}
	if len(codes) == 0 {
		return newFieldError(KindRange, keyInputForcings.String(), "please choose at least one InputForcings dataset to process")
	}
	for _, c := range codes {
		if !ForcingSource(c).Valid() {
			return newFieldError(KindRange, keyInputForcings.String(), "please specify InputForcings values between %d and %d, got %d", minForcingSource, maxForcingSource, c)
		}
	}
	n := len(codes)

	dirs, err := b.r.stringList(keyInputDirectories)
	if err != nil {
		return err
	}
	if len(dirs) != n {
		return newFieldError(KindArrayLength, keyInputDirectories.String(), "number of InputForcingDirectories (%d) must match the number of InputForcings (%d)", len(dirs), n)
	}
	for _, dir := range dirs {
		if err := requireDir(keyInputDirectories, dir); err != nil {
			return err
		}
	}

	types := make([]string, n)
	if b.r.has(keyInputTypes) {
		types, err = b.r.stringList(keyInputTypes)
		if err != nil {
			return err
		}
		if len(types) != n {
			return newFieldError(KindArrayLength, keyInputTypes.String(), "number of InputForcingTypes (%d) must match the number of InputForcings (%d)", len(types), n)
		}
		for _, t := range types {
			if !SourceType(t).Valid() {
				return newFieldError(KindRange, keyInputTypes.String(), "unknown InputForcingTypes value %q, expected GRIB1, GRIB2 or NETCDF", t)
			}
		}
	}

	mandatory, err := b.r.perSource(inputMandatorySpec, n)
	if err != nil {
		return err
	}
	borders, err := b.r.perSource(ignoredBordersSpec, n)
	if err != nil {
		return err
	}

	inputs := make([]ForcingInput, n)
	for i := range inputs {
		inputs[i] = ForcingInput{
			Source:             ForcingSource(codes[i]),
			Type:               SourceType(types[i]),
			Directory:          dirs[i],
			Mandatory:          mandatory[i] == 1,
			IgnoredBorderWidth: borders[i],
		}
	}
	b.inputs = inputs
	return nil
}

// readOutput reads the Output section.
func (b *builder) readOutput() error {
	freq, err := b.r.intValue(keyOutputFrequency, positive)
	if err != nil {
		return err
	}
	dir, err := b.r.raw(keyOutDir)
	if err != nil {
		return err
	}
	if err := requireDir(keyOutDir, dir); err != nil {
		return err
	}
	b.outputFrequency = freq
	b.outputDir = dir
	return nil
}

// readLookBack returns the LookBack minutes, or ok=false for the sentinel.
func (b *builder) readLookBack() (minutes int, ok bool, err error) {
	s, err := b.r.raw(keyLookBack)
	if err != nil {
		return 0, false, err
	}
	if s == Sentinel {
		return 0, false, nil
	}
	v, perr := strconv.Atoi(s)
	if perr != nil {
		return 0, false, &FieldError{Kind: KindParse, Field: keyLookBack.String(), Message: "improper LookBack value " + strconv.Quote(s), Err: perr}
	}
	if !positive.ok(v) {
		return 0, false, newFieldError(KindRange, keyLookBack.String(), "please specify a positive LookBack or %s for reforecasts, got %d", Sentinel, v)
	}
	return v, true, nil
}

// readForecastFrequency reads the cycle cadence in minutes.
func (b *builder) readForecastFrequency() error {
	freq, err := b.r.intValue(keyForecastFrequency, positive)
	if err != nil {
		return err
	}
	if freq > maxForecastFrequency {
		return newFieldError(KindRange, keyForecastFrequency.String(), "only daily or sub-daily forecast cycles are supported, got %d minutes", freq)
	}
	b.forecastFrequency = freq
	return nil
}

// readForecastArrays reads horizons and offsets and derives the cycle length.
func (b *builder) readForecastArrays() error {
	n := len(b.inputs)
	horizons, err := b.r.perSource(horizonsSpec, n)
	if err != nil {
		return err
	}
	offsets, err := b.r.perSource(offsetsSpec, n)
	if err != nil {
		return err
	}

	cycle := horizons[0]
	for _, h := range horizons[1:] {
		if h > cycle {
			cycle = h
		}
	}
	if cycle%b.outputFrequency != 0 {
		return newFieldError(KindCrossField, keyOutputFrequency.String(), "output time step %d is not an equal divider of the maximum forecast horizon %d", b.outputFrequency, cycle)
	}

	for i := range b.inputs {
		b.inputs[i].Horizon = horizons[i]
		b.inputs[i].Offset = offsets[i]
	}
	b.window.CycleLengthMinutes = cycle
	b.window.NumOutputSteps = cycle / b.outputFrequency
	return nil
}

// readGeospatial checks the geogrid file.
func (b *builder) readGeospatial() error {
	path, err := b.r.raw(keyGeogridIn)
	if err != nil {
		return err
	}
	if err := requireFile(keyGeogridIn, path); err != nil {
		return err
	}
	b.geogrid = path
	return nil
}

// readRegridding reads one regridding method per source.
func (b *builder) readRegridding() error {
	opts, err := b.r.perSource(regridSpec, len(b.inputs))
	if err != nil {
		return err
	}
	for i := range b.inputs {
		b.inputs[i].Regrid = RegridMethod(opts[i])
	}
	return nil
}

// readInterpolation reads one temporal interpolation array per variable.
func (b *builder) readInterpolation() error {
	var parsed [numVariables][]int
	for _, v := range Variables {
		vals, err := b.r.perSource(interpSpecs[v], len(b.inputs))
		if err != nil {
			return err
		}
		parsed[v] = vals
	}
	for i := range b.inputs {
		for _, v := range Variables {
			b.inputs[i].Interp[v] = TemporalInterp(parsed[v][i])
		}
	}
	return nil
}

// knownKeys lists every documented key in configuration order.
var knownKeys = func() []fieldSpec {
	keys := []fieldSpec{
		keyInputForcings, keyInputDirectories, keyInputTypes, keyInputMandatory, keyIgnoredBorders,
		keyOutputFrequency, keyOutDir,
		keyRetroFlag, keyBDateProc, keyEDateProc,
		keyLookBack, keyRefcstBDateProc, keyRefcstEDateProc, keyForecastFrequency, keyForecastShift,
		keyForecastHorizons, keyForecastOffsets,
		keyGeogridIn,
		keyRegridOpt,
	}
	for _, spec := range interpSpecs {
		keys = append(keys, spec.field)
	}
	return append(keys,
		keyLogLevel, keyLogFormat, keyLedgerDriver, keyLedgerPath,
		keyLedgerRetentionDays, keyLedgerPruneSchedule, keyMetricsAddress, keyTrace,
	)
}()

// Sections lists the documented sections in configuration order.
var Sections = []string{
	SectionInput, SectionOutput, SectionRetrospective, SectionForecast,
	SectionGeospatial, SectionRegridding, SectionInterpolation, SectionRuntime,
}

// CanonicalKey returns the documented spelling of key within section. INI
// files are read case-insensitively, so keys may arrive lower-cased. Unknown
// keys are returned unchanged.
func CanonicalKey(section, key string) string {
	for _, f := range knownKeys {
		if strings.EqualFold(f.Section, section) && strings.EqualFold(f.Key, key) {
			return f.Key
		}
	}
	return key
}

// KeyOrder returns the position of section.key in configuration order, or
// -1 for unknown keys.
func KeyOrder(section, key string) int {
	for i, f := range knownKeys {
		if f.Section == section && strings.EqualFold(f.Key, key) {
			return i
		}
	}
	return -1
}
