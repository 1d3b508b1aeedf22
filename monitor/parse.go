package monitor

import (
	"strconv"
	"strings"
)

// EventKind is the type of a diagnostic line
type EventKind int

const (
	EventBoot EventKind = iota
	EventSettings
	EventPulse
	EventStatus
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventBoot:
		return "Boot"
	case EventSettings:
		return "Settings"
	case EventPulse:
		return "Pulse"
	case EventStatus:
		return "Status"
	case EventError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Event is a parsed diagnostic line. Only the fields that the line carries are set.
type Event struct {
	Kind EventKind

	// Title is set for EventBoot. Message is set for EventError.
	Title   string
	Message string

	// Action is loaded, initialized, saved or reset for EventSettings
	Action string
	Row    string
	Mode   string
	Value  int

	Low, High int
	Pulse     int
	Quantized int
}

// ParseLine recognizes the firmware diagnostic lines. An optional "[...]" timestamp prefix is
// ignored. The second return is false for anything else, like help output.
func ParseLine(line string) (Event, bool) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "[") {
		end := strings.IndexByte(line, ']')
		if end < 0 {
			return Event{}, false
		}
		line = strings.TrimSpace(line[end+1:])
	}

	switch {
	case strings.HasPrefix(line, "boot "):
		return Event{Kind: EventBoot, Title: strings.TrimPrefix(line, "boot ")}, true
	case strings.HasPrefix(line, "error: "):
		return Event{Kind: EventError, Message: strings.TrimPrefix(line, "error: ")}, true
	case strings.HasPrefix(line, "settings: "):
		return parseSettings(strings.TrimPrefix(line, "settings: "))
	case strings.HasPrefix(line, "pulse="):
		kv, ok := keyValues(line)
		if !ok {
			return Event{}, false
		}
		pulse, err1 := strconv.Atoi(strings.TrimSuffix(kv["pulse"], "us"))
		q, err2 := strconv.Atoi(kv["q"])
		if err1 != nil || err2 != nil {
			return Event{}, false
		}
		return Event{Kind: EventPulse, Pulse: pulse, Quantized: q}, true
	case strings.HasPrefix(line, "status "):
		kv, ok := keyValues(strings.TrimPrefix(line, "status "))
		if !ok {
			return Event{}, false
		}
		e := Event{Kind: EventStatus, Row: kv["row"], Mode: kv["mode"]}
		var err error
		for key, dst := range map[string]*int{"low": &e.Low, "high": &e.High, "pulse": &e.Pulse} {
			*dst, err = strconv.Atoi(kv[key])
			if err != nil {
				return Event{}, false
			}
		}
		return e, true
	}
	return Event{}, false
}

func parseSettings(s string) (Event, bool) {
	action, rest, ok := strings.Cut(s, " ")
	if !ok {
		return Event{}, false
	}
	kv, ok := keyValues(rest)
	if !ok {
		return Event{}, false
	}

	e := Event{Kind: EventSettings, Action: action}
	switch action {
	case "saved":
		if len(kv) != 1 {
			return Event{}, false
		}
		for row, v := range kv {
			n, err := strconv.Atoi(v)
			if err != nil {
				return Event{}, false
			}
			e.Row, e.Value = row, n
		}
		return e, true
	case "loaded", "initialized", "reset":
		low, err1 := strconv.Atoi(kv["low"])
		high, err2 := strconv.Atoi(kv["high"])
		if err1 != nil || err2 != nil {
			return Event{}, false
		}
		e.Low, e.High = low, high
		return e, true
	}
	return Event{}, false
}

// keyValues collects key=value fields. Other fields, like monitor annotations, are skipped.
func keyValues(s string) (map[string]string, bool) {
	kv := map[string]string{}
	for _, f := range strings.Fields(s) {
		k, v, ok := strings.Cut(f, "=")
		if ok {
			kv[k] = v
		}
	}
	return kv, len(kv) > 0
}
