package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"partyrecords/internal/config"
	"partyrecords/internal/record"
)

var ErrUnknownMode = errors.New("unknown record mode")

// A map name is one or two word tokens. Letters include umlauts.
const mapName = `([\p{L}\p{N}_]+\s?[\p{L}\p{N}_]+)`

var (
	timePattern  = regexp.MustCompile(mapName + `\s*:\s*(?:(\d+)\s*min\s*)?(?:(\d+)\s*s\s*)?(\d+)\s*ms`)
	pointPattern = regexp.MustCompile(mapName + `\s*:\s*(\d+)`)
)

// Section finds the record line for a minigame in an export. The minigame name
// is removed from the line and the rest is trimmed. The bool is false when the
// player has no line for the minigame.
func Section(text, minigame string) (string, bool) {
	if minigame == "" {
		return "", false
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, minigame) {
			return strings.TrimSpace(strings.ReplaceAll(line, minigame, "")), true
		}
	}
	return "", false
}

func Parse(mode config.Mode, segment string) ([]record.Entry, error) {
	switch mode {
	case config.ModeTime:
		return ParseTime(segment), nil
	case config.ModePoint:
		return ParsePoint(segment), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// ParseTime extracts "<map>: [m min ][s s ]ms ms" entries as seconds. Entries
// without a millisecond component do not match and are left out.
func ParseTime(segment string) []record.Entry {
	matches := timePattern.FindAllStringSubmatch(segment, -1)
	entries := make([]record.Entry, 0, len(matches))
	for _, m := range matches {
		minutes := atoiOrZero(m[2])
		seconds := atoiOrZero(m[3])
		millis, err := strconv.Atoi(m[4])
		if err != nil {
			continue
		}
		value := float64(minutes*60+seconds) + float64(millis)/1000
		entries = appendEntry(entries, m[1], value)
	}
	return entries
}

// ParsePoint extracts "<map>: <int>" entries.
func ParsePoint(segment string) []record.Entry {
	matches := pointPattern.FindAllStringSubmatch(segment, -1)
	entries := make([]record.Entry, 0, len(matches))
	for _, m := range matches {
		points, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		entries = appendEntry(entries, m[1], float64(points))
	}
	return entries
}

// appendEntry keeps the first position of a repeated map name and the last
// value, the way a keyed assignment would.
func appendEntry(entries []record.Entry, column string, value float64) []record.Entry {
	for i := range entries {
		if entries[i].Column == column {
			entries[i].Value = value
			return entries
		}
	}
	return append(entries, record.Entry{Column: column, Value: value})
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
