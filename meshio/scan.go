package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const maxLineLength = 64 * 1024 * 1024

// lineScanner yields trimmed, non-empty lines with comments removed and keeps
// the line number for error messages.
type lineScanner struct {
	scanner *bufio.Scanner
	comment string
	lineNum int
}

func newLineScanner(r io.Reader, comment string) *lineScanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &lineScanner{scanner: scanner, comment: comment}
}

// Next returns the next data line, false at EOF or on a read error
func (ls *lineScanner) Next() (string, bool) {
	for ls.scanner.Scan() {
		ls.lineNum++
		line := ls.scanner.Text()
		if ls.comment != "" {
			if ind := strings.Index(line, ls.comment); ind >= 0 {
				line = line[:ind]
			}
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return line, true
	}
	return "", false
}

// MustNext is Next with an error naming what was expected at EOF
func (ls *lineScanner) MustNext(what string) (string, error) {
	line, ok := ls.Next()
	if !ok {
		if err := ls.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("unexpected EOF reading %s", what)
	}
	return line, nil
}

func (ls *lineScanner) Err() error { return ls.scanner.Err() }

// Errorf prefixes the message with the current line number
func (ls *lineScanner) Errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", ls.lineNum, fmt.Sprintf(format, args...))
}

func parseFloats(fields []string) ([]float64, error) {
	R := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", f, err)
		}
		R[i] = v
	}
	return R, nil
}

func parseInts(fields []string) ([]int, error) {
	R := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", f, err)
		}
		R[i] = v
	}
	return R, nil
}

// keywordInt parses the first integer after a "KEY=" prefix
func keywordInt(line, key string) (int, error) {
	fields := strings.Fields(strings.TrimPrefix(line, key))
	if len(fields) == 0 {
		return 0, fmt.Errorf("missing value for %s", key)
	}
	return strconv.Atoi(fields[0])
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
