package queue

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

const maxLineBytes = 4 * 1024 * 1024

// ReadLines feeds every non-blank line of a JSON Lines stream to fn. Lines
// starting with '#' are comments. It stops at the first fn error or when ctx
// is done.
func ReadLines(ctx context.Context, r io.Reader, fn func(lineNo int, body []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read lines: %w", err)
	}
	return nil
}
