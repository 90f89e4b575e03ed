package roms

import (
	"fmt"
	"strings"
	"time"
)

var epochLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimeUnits parses a CF time units string such as
// "seconds since 2020-01-01 00:00:00" and returns the number of seconds
// per axis unit and the epoch. Epochs without a zone are UTC.
func ParseTimeUnits(units string) (float64, time.Time, error) {
	unit, ref, ok := strings.Cut(strings.TrimSpace(units), " since ")
	if !ok {
		return 0, time.Time{}, fmt.Errorf("time units %q are not of the form \"<unit> since <epoch>\"", units)
	}

	var scale float64
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "seconds", "second", "secs", "sec", "s":
		scale = 1
	case "minutes", "minute", "mins", "min":
		scale = 60
	case "hours", "hour", "hrs", "hr", "h":
		scale = 3600
	case "days", "day", "d":
		scale = 86400
	default:
		return 0, time.Time{}, fmt.Errorf("unsupported time unit %q", unit)
	}

	ref = strings.TrimSpace(ref)
	ref = strings.TrimSuffix(ref, " UTC")
	for _, layout := range epochLayouts {
		if t, err := time.Parse(layout, ref); err == nil {
			return scale, t.UTC(), nil
		}
	}
	return 0, time.Time{}, fmt.Errorf("unrecognized epoch %q", ref)
}
