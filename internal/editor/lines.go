// ABOUTME: Line providers feeding visible rows to the renderer
// ABOUTME: StaticLines serves an in-memory slice; LoadFile reads a file read-only

package editor

import (
	"bytes"
	"fmt"
	"os"
)

// LineProvider supplies the content rows shown from the top of the screen.
type LineProvider interface {
	// VisibleLines returns at most rows lines.
	VisibleLines(rows int) []string
}

// StaticLines is a fixed list of lines.
type StaticLines []string

// VisibleLines returns the first rows lines.
func (l StaticLines) VisibleLines(rows int) []string {
	if rows < 0 {
		rows = 0
	}
	if len(l) > rows {
		return l[:rows]
	}
	return l
}

// LoadFile reads path and splits it into lines. Line endings, including
// CRLF, are stripped; a trailing newline does not add an empty line.
func LoadFile(path string) (StaticLines, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return StaticLines{}, nil
	}

	data = bytes.TrimSuffix(data, []byte("\n"))
	raw := bytes.Split(data, []byte("\n"))
	lines := make(StaticLines, len(raw))
	for i, line := range raw {
		lines[i] = string(bytes.TrimSuffix(line, []byte("\r")))
	}
	return lines, nil
}
