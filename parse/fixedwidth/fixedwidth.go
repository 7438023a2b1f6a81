// Package fixedwidth is the column-sliced line parsing framework that
// every HRDF file family in package parse is built on. Unlike CSV,
// HRDF rows carry multiple record shapes distinguished only by a
// fixed-position prefix or the overall row length, so a RowMatcher is
// a closed tagged variant rather than an interface with many live
// implementations: there are exactly as many ways to recognize a row
// as there are HRDF file conventions, and that list does not grow at
// runtime.
package fixedwidth

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spkg/bom"
)

// FieldSpec is a 1-based, inclusive column range. Stop == -1 means
// "to the end of the line".
type FieldSpec struct {
	Start int
	Stop  int
}

// Extract slices and trims the field's value out of line. Out-of-range
// columns clamp to the line's actual bounds rather than panicking,
// since trailing fields are often omitted on short rows.
func (f FieldSpec) Extract(line string) string {
	start := f.Start - 1
	if start < 0 {
		start = 0
	}
	if start > len(line) {
		start = len(line)
	}
	stop := len(line)
	if f.Stop != -1 && f.Stop < stop {
		stop = f.Stop
	}
	if stop < start {
		stop = start
	}
	return strings.TrimSpace(line[start:stop])
}

// MatchKind enumerates the ways a RowDefinition may recognize a line.
type MatchKind int

const (
	MatchAlways MatchKind = iota
	MatchPrefix
	MatchRegex
)

// RowMatcher decides whether a given line belongs to a RowDefinition.
// MatchPrefix checks a literal at a fixed 1-based column (the common
// case: a type code in columns 1-2). MatchRegex exists for the rarer
// shapes (e.g. ATTRIBUT's row kinds) that a fixed column prefix cannot
// express.
type RowMatcher struct {
	Kind    MatchKind
	Col     int
	Literal string
	Regex   *regexp.Regexp
}

// Matches reports whether line satisfies the matcher.
func (m RowMatcher) Matches(line string) bool {
	switch m.Kind {
	case MatchAlways:
		return true
	case MatchPrefix:
		start := m.Col - 1
		if start < 0 || start+len(m.Literal) > len(line) {
			return false
		}
		return line[start:start+len(m.Literal)] == m.Literal
	case MatchRegex:
		return m.Regex.MatchString(line)
	default:
		return false
	}
}

// RowDefinition pairs a matcher with the field layout used once it
// matches.
type RowDefinition struct {
	Name    string
	Matcher RowMatcher
	Fields  []FieldSpec
}

// Match returns the first RowDefinition in defs whose matcher accepts
// line, in declaration order (earlier, more specific matchers should
// be listed first).
func Match(defs []RowDefinition, line string) (*RowDefinition, bool) {
	for i := range defs {
		if defs[i].Matcher.Matches(line) {
			return &defs[i], true
		}
	}
	return nil, false
}

// ErrorKind classifies a parsing failure.
type ErrorKind int

const (
	UnknownRowKind ErrorKind = iota
	BadField
	Truncated
)

// Error is the error type surfaced by this package and by the parsers
// built on it, always carrying the offending file and line number.
type Error struct {
	File string
	Line int
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// File holds the line-split, BOM-stripped contents of an HRDF text
// file, ready for repeated scanning.
type File struct {
	Name  string
	lines []string
}

// Open reads path in full, stripping a leading UTF-8 BOM; HRDF
// exports occasionally lead with one.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(bom.NewReader(f))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return &File{Name: path, lines: lines}, nil
}

// Len returns the number of lines in the file.
func (f *File) Len() int { return len(f.lines) }

// Scanner walks a File's lines, tracking a line offset that can be
// saved and restored. GLEIS packs two distinct record sections into
// one physical file with no separator beyond a row-shape change;
// ParsePlatforms remembers the line at which the second section
// begins, and the GLEIS_LV95/GLEIS_WGS passes resume at that line via
// SeekLine rather than re-scanning from the top.
type Scanner struct {
	file *File
	pos  int
}

// Scanner returns a fresh Scanner positioned at the start of the file.
func (f *File) Scanner() *Scanner { return &Scanner{file: f} }

// Offset returns the index of the next line Next will return.
func (s *Scanner) Offset() int { return s.pos }

// SeekLine repositions the scanner to line index n.
func (s *Scanner) SeekLine(n int) { s.pos = n }

// Next returns the next line, its zero-based line number, and whether
// one was available.
func (s *Scanner) Next() (line string, lineNo int, ok bool) {
	if s.pos >= len(s.file.lines) {
		return "", s.pos, false
	}
	line = s.file.lines[s.pos]
	lineNo = s.pos
	s.pos++
	return line, lineNo, true
}

// ParseInt trims and parses raw as a base-10 integer, wrapping any
// failure as a BadField Error anchored to file/lineNo.
func ParseInt(file string, lineNo int, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &Error{File: file, Line: lineNo, Kind: BadField, Err: errors.Wrapf(err, "parsing int %q", raw)}
	}
	return v, nil
}

// ParseFloat trims and parses raw as a float64, wrapping any failure
// as a BadField Error anchored to file/lineNo.
func ParseFloat(file string, lineNo int, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &Error{File: file, Line: lineNo, Kind: BadField, Err: errors.Wrapf(err, "parsing float %q", raw)}
	}
	return v, nil
}

// OptionalInt parses raw as an integer, returning ok=false for a blank
// field instead of an error: many HRDF columns are optional and
// blank-filled rather than omitted.
func OptionalInt(file string, lineNo int, raw string) (v int, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	v, err = ParseInt(file, lineNo, raw)
	return v, err == nil, err
}

var inlineValuePattern = regexp.MustCompile(`^(.*?)<(\d+)>$`)

// ParseInlineValues splits a BAHNHOF-style tagged name field of the
// form "<value1>$<value2><language-or-kind-code>$..." into a map from
// the trailing numeric tag to the ordered list of values sharing it.
func ParseInlineValues(raw string) map[int][]string {
	out := map[int][]string{}
	for _, part := range strings.Split(raw, ">") {
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "$", "")
		segments := strings.SplitN(part, "<", 2)
		if len(segments) != 2 {
			continue
		}
		key, err := strconv.Atoi(segments[1])
		if err != nil {
			continue
		}
		out[key] = append(out[key], segments[0])
	}
	return out
}
