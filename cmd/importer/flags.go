package main

import (
	"fmt"
	"time"
)

// parseWindowFlags converts optional RFC 3339 flag values into an import
// window. Parsing happens before any I/O so bad arguments fail fast.
func parseWindowFlags(fromRaw, toRaw string) (*time.Time, *time.Time, error) {
	from, err := parseDatetimeFlag("from-datetime", fromRaw)
	if err != nil {
		return nil, nil, err
	}
	to, err := parseDatetimeFlag("to-datetime", toRaw)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func parseDatetimeFlag(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid -%s value %q: expected RFC 3339, e.g. 2023-04-01T00:00:00Z", name, raw)
	}
	utc := parsed.UTC()
	return &utc, nil
}
