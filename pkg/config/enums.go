package config

import "fmt"

// RunMode identifies how the processing window is derived.
type RunMode int

const (
	// ModeUnset is the zero value before mode selection.
	ModeUnset RunMode = iota
	// ModeRetrospective processes a fixed historical date range.
	ModeRetrospective
	// ModeRealtime derives the window from the current time and the lookback.
	ModeRealtime
	// ModeReforecast processes a fixed range as a batch of forecast cycles.
	ModeReforecast
)

// String returns the lower-case mode name.
func (m RunMode) String() string {
	switch m {
	case ModeRetrospective:
		return "retrospective"
	case ModeRealtime:
		return "realtime"
	case ModeReforecast:
		return "reforecast"
	default:
		return "unset"
	}
}

// IsForecast reports whether the mode processes forecast cycles.
func (m RunMode) IsForecast() bool {
	return m == ModeRealtime || m == ModeReforecast
}

// ForcingSource is the numeric product code of an input forcing dataset.
type ForcingSource int

// Forcing product codes accepted in InputForcings.
const (
	ForcingUnknown      ForcingSource = 0
	ForcingNLDAS        ForcingSource = 1
	ForcingNARR         ForcingSource = 2
	ForcingGFSGlobal    ForcingSource = 3
	ForcingNAMNestCONUS ForcingSource = 4
	ForcingHRRR         ForcingSource = 5
	ForcingRAP          ForcingSource = 6
	ForcingCFSv2        ForcingSource = 7
	ForcingWRFNestHI    ForcingSource = 8
	ForcingGFSGlobal25  ForcingSource = 9
	ForcingCustom1      ForcingSource = 10

	minForcingSource = ForcingUnknown
	maxForcingSource = ForcingCustom1
)

var forcingSourceNames = map[ForcingSource]string{
	ForcingUnknown:      "UNKNOWN",
	ForcingNLDAS:        "NLDAS",
	ForcingNARR:         "NARR",
	ForcingGFSGlobal:    "GFS_GLOBAL",
	ForcingNAMNestCONUS: "NAM_NEST_CONUS",
	ForcingHRRR:         "HRRR",
	ForcingRAP:          "RAP",
	ForcingCFSv2:        "CFS_V2",
	ForcingWRFNestHI:    "WRF_NEST_HI",
	ForcingGFSGlobal25:  "GFS_GLOBAL_25",
	ForcingCustom1:      "CUSTOM_1",
}

// String returns the product name, e.g. "HRRR".
func (f ForcingSource) String() string {
	if name, ok := forcingSourceNames[f]; ok {
		return name
	}
	return fmt.Sprintf("ForcingSource(%d)", int(f))
}

// Valid reports whether the code is inside the accepted range.
func (f ForcingSource) Valid() bool {
	return f >= minForcingSource && f <= maxForcingSource
}

// RegridMethod selects how a source grid is remapped onto the target grid.
type RegridMethod int

const (
	RegridBilinear             RegridMethod = 1
	RegridNearestNeighbor      RegridMethod = 2
	RegridConservativeBilinear RegridMethod = 3
)

// String returns the method name.
func (r RegridMethod) String() string {
	switch r {
	case RegridBilinear:
		return "ESMF_BILINEAR"
	case RegridNearestNeighbor:
		return "ESMF_NEAREST_NEIGHBOR"
	case RegridConservativeBilinear:
		return "ESMF_CONSERVATIVE_BILINEAR"
	default:
		return fmt.Sprintf("RegridMethod(%d)", int(r))
	}
}

// Valid reports whether the method is supported.
func (r RegridMethod) Valid() bool {
	return r >= RegridBilinear && r <= RegridConservativeBilinear
}

// TemporalInterp selects how a variable is interpolated between source time steps.
type TemporalInterp int

const (
	InterpNone            TemporalInterp = 0
	InterpNearestNeighbor TemporalInterp = 1
	InterpLinearWeighted  TemporalInterp = 2
)

// String returns the method name.
func (t TemporalInterp) String() string {
	switch t {
	case InterpNone:
		return "NONE"
	case InterpNearestNeighbor:
		return "NEAREST_NEIGHBOR"
	case InterpLinearWeighted:
		return "LINEAR_WEIGHT_AVG"
	default:
		return fmt.Sprintf("TemporalInterp(%d)", int(t))
	}
}

// Valid reports whether the method is supported.
func (t TemporalInterp) Valid() bool {
	return t >= InterpNone && t <= InterpLinearWeighted
}

// SourceType is the file format of an input forcing product.
type SourceType string

const (
	SourceGRIB1  SourceType = "GRIB1"
	SourceGRIB2  SourceType = "GRIB2"
	SourceNetCDF SourceType = "NETCDF"
)

// Valid reports whether the type is a known file format. The empty type
// is allowed and means the format is decided downstream.
func (s SourceType) Valid() bool {
	switch s {
	case "", SourceGRIB1, SourceGRIB2, SourceNetCDF:
		return true
	}
	return false
}

// Variable is a physical forcing variable with its own interpolation setting.
type Variable int

const (
	VarTemperature Variable = iota
	VarHumidity
	VarUWind
	VarVWind
	VarShortwave
	VarLongwave
	VarPrecipitation
	VarSurfacePressure

	numVariables
)

// Variables lists every physical variable in configuration order.
var Variables = [numVariables]Variable{
	VarTemperature,
	VarHumidity,
	VarUWind,
	VarVWind,
	VarShortwave,
	VarLongwave,
	VarPrecipitation,
	VarSurfacePressure,
}

var variableKeys = [numVariables]string{
	VarTemperature:     "2mTempTimeInterp",
	VarHumidity:        "2mQTimeInterp",
	VarUWind:           "10mUTimeInterp",
	VarVWind:           "10mVTimeInterp",
	VarShortwave:       "swTimeInterp",
	VarLongwave:        "lwTimeInterp",
	VarPrecipitation:   "precipTimeInterp",
	VarSurfacePressure: "psfcTimeInterp",
}

var variableNames = [numVariables]string{
	VarTemperature:     "T2D",
	VarHumidity:        "Q2D",
	VarUWind:           "U2D",
	VarVWind:           "V2D",
	VarShortwave:       "SWDOWN",
	VarLongwave:        "LWDOWN",
	VarPrecipitation:   "RAINRATE",
	VarSurfacePressure: "PSFC",
}

// String returns the output variable name, e.g. "T2D".
func (v Variable) String() string {
	if v < 0 || v >= numVariables {
		return fmt.Sprintf("Variable(%d)", int(v))
	}
	return variableNames[v]
}

// Key returns the Interpolation section key for the variable.
func (v Variable) Key() string {
	if v < 0 || v >= numVariables {
		return ""
	}
	return variableKeys[v]
}
