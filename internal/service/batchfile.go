package service

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineLength bounds a single batch file line.
const maxLineLength = 64 * 1024

// ReadBatchFile reads one URL per line. Blank lines and lines starting
// with # are ignored; surrounding whitespace is trimmed.
func ReadBatchFile(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	var urls []string
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		text = strings.TrimSpace(text)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		urls = append(urls, text)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file line %d: %w", line+1, err)
	}

	return urls, nil
}
