package convert

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Keys whose values stay text even when they look numeric.
var dateKeys = map[string]bool{
	"BDateProc":       true,
	"EDateProc":       true,
	"RefcstBDateProc": true,
	"RefcstEDateProc": true,
}

// Keys holding comma-separated lists of strings.
var stringListKeys = map[string]bool{
	"InputForcingDirectories": true,
	"InputForcingTypes":       true,
}

// typed converts a raw value into the YAML/TOML value it represents:
// an integer, a list of integers, a list of strings, or text.
func typed(key, raw string) any {
	raw = strings.TrimSpace(raw)
	if dateKeys[key] {
		return raw
	}
	if stringListKeys[key] {
		var list []string
		if json.Unmarshal([]byte(raw), &list) == nil {
			return list
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	if strings.HasPrefix(raw, "[") {
		var ints []int64
		if json.Unmarshal([]byte(raw), &ints) == nil {
			return ints
		}
		var strs []string
		if json.Unmarshal([]byte(raw), &strs) == nil {
			return strs
		}
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	return raw
}

// iniValue renders raw as INI text. String lists decoded from YAML or TOML
// arrive as JSON arrays and are written back comma-separated.
func iniValue(key, raw string) string {
	if stringListKeys[key] {
		if list, ok := typed(key, raw).([]string); ok {
			return strings.Join(list, ", ")
		}
	}
	return raw
}
