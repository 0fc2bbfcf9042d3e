// Package jsonutil provides shared helpers for the JSON-lines formats
// the tooling reads and writes: contextual error wrapping and line
// decoding.
package jsonutil

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// UnmarshalLine unmarshals a single JSON line into v. Returns an error if
// the line is blank or cannot be parsed.
func UnmarshalLine(line string, v interface{}) error {
	if strings.TrimSpace(line) == "" {
		return fmt.Errorf("empty JSON line")
	}
	return json.Unmarshal([]byte(line), v)
}

// DecodeLines decodes a JSON-lines stream into a slice, one element per
// line. Blank lines are skipped; a malformed line fails the whole read
// with its line number in the error.
func DecodeLines[T any](r io.Reader, context string) ([]T, error) {
	var out []T
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", context, lineno, err)
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", context, err)
	}
	return out, nil
}
