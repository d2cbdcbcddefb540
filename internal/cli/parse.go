package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/llehouerou/notifyd/internal/notify"
)

var errBadFlag = errors.New("invalid value")

// parseID parses a notification id. Zero is never a valid id.
func parseID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: notification id %q", errBadFlag, s)
	}
	return uint32(id), nil
}

func parseUrgency(s string) (notify.Urgency, error) {
	switch strings.ToLower(s) {
	case "low", "0":
		return notify.UrgencyLow, nil
	case "", "normal", "1":
		return notify.UrgencyNormal, nil
	case "critical", "2":
		return notify.UrgencyCritical, nil
	default:
		return 0, fmt.Errorf("%w: urgency %q (want low, normal or critical)", errBadFlag, s)
	}
}

// parseActions turns "key=label" flags into the flat key, label list.
// A flag without "=" uses the key as its label.
func parseActions(flags []string) ([]string, error) {
	var flat []string
	for _, f := range flags {
		key, label, found := strings.Cut(f, "=")
		if key == "" {
			return nil, fmt.Errorf("%w: action %q", errBadFlag, f)
		}
		if !found {
			label = key
		}
		flat = append(flat, key, label)
	}
	return flat, nil
}

// parseHints turns "[TYPE:]NAME=VALUE" flags into typed hints. TYPE is
// int, byte, bool or string (the default).
func parseHints(flags []string) (map[string]any, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	hints := make(map[string]any, len(flags))
	for _, f := range flags {
		spec, value, found := strings.Cut(f, "=")
		if !found {
			return nil, fmt.Errorf("%w: hint %q (want [TYPE:]NAME=VALUE)", errBadFlag, f)
		}
		kind, name, typed := strings.Cut(spec, ":")
		if !typed {
			kind, name = "string", spec
		}
		if name == "" {
			return nil, fmt.Errorf("%w: hint %q has no name", errBadFlag, f)
		}

		var (
			v   any
			err error
		)
		switch kind {
		case "string":
			v = value
		case "int":
			var n int64
			n, err = strconv.ParseInt(value, 10, 32)
			v = int32(n)
		case "byte":
			var n uint64
			n, err = strconv.ParseUint(value, 10, 8)
			v = byte(n)
		case "bool":
			v, err = strconv.ParseBool(value)
		default:
			return nil, fmt.Errorf("%w: hint type %q (want int, byte, bool or string)", errBadFlag, kind)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: hint %s: %w", errBadFlag, name, err)
		}
		hints[name] = v
	}
	return hints, nil
}
