package trackinfo

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/handiism/tracktag/internal/model"
)

var lineRe = regexp.MustCompile(`^([A-Za-z]+)(?:\[([0-9]+)\])?=(.*)$`)

const maxLineBytes = 1 << 20

// entry is one assignment of the manifest.
type entry struct {
	line     int
	key      string
	track    int
	hasTrack bool
	value    string
	kind     FieldKind
}

// parseLine checks the grammar of a non-empty, right-trimmed line and the
// values that can be checked without any context.
func parseLine(n int, text string) (entry, error) {
	m := lineRe.FindStringSubmatch(text)
	if m == nil {
		return entry{}, &ParseError{Line: n, Text: text}
	}

	e := entry{
		line:  n,
		key:   strings.ToUpper(m[1]),
		value: strings.TrimSpace(m[3]),
	}
	e.kind = KindOf(e.key)

	if m[2] != "" {
		num, err := strconv.Atoi(m[2])
		if err != nil {
			return entry{}, &ValidationError{Line: n, Msg: fmt.Sprintf("track index %s is out of range", m[2])}
		}
		e.track, e.hasTrack = num, true
	}

	if e.key == model.FieldTrackNumber {
		return entry{}, &ValidationError{Line: n, Msg: "TRACKNUMBER is taken from the track index and cannot be assigned"}
	}
	if e.kind == KindDiscNumber {
		if _, err := parseDisc(e.value); err != nil {
			return entry{}, &ValidationError{Line: n, Msg: err.Error()}
		}
	}
	return e, nil
}

// parseDisc validates a DISCNUMBER value. An empty value means no disc.
func parseDisc(value string) (model.DiscKey, error) {
	if value == "" {
		return model.NoDisc, nil
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return model.NoDisc, fmt.Errorf("DISCNUMBER (%q) must be an integer", value)
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return model.NoDisc, fmt.Errorf("DISCNUMBER (%q) is out of range", value)
	}
	return model.Disc(n), nil
}

// eachEntry calls fn for every assignment in r, in order. Blank lines are
// skipped.
func eachEntry(r io.Reader, fn func(entry) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	n := 0
	for scanner.Scan() {
		n++
		text := scanner.Text()
		if n == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		text = strings.TrimRightFunc(text, unicode.IsSpace)
		if text == "" {
			continue
		}
		e, err := parseLine(n, text)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read trackinfo: %w", err)
	}
	return nil
}
