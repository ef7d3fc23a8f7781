// Package convert rewrites forcing configurations between the INI, YAML and
// TOML layouts.
//
// All three layouts share the same sections and keys. Converted documents
// list sections and keys in configuration order with their documented
// spelling, and typed layouts carry integers and lists natively:
//
//	Input:
//	  InputForcings: [3, 5]
//	  InputForcingDirectories: [/data/gfs, /data/hrrr]
package convert
