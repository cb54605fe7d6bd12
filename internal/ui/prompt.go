package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type lineResult struct {
	line string
	err  error
}

// LinePrompter reads trimmed lines from an input stream. Reads happen on a
// background goroutine so a prompt can give up when its context ends.
type LinePrompter struct {
	in    io.Reader
	out   io.Writer
	once  sync.Once
	lines chan lineResult
}

// NewLinePrompter creates a prompter reading from in and printing labels to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:    in,
		out:   out,
		lines: make(chan lineResult),
	}
}

// Prompt prints label and waits for the next line. It returns io.EOF once
// input is exhausted and ctx.Err() if ctx ends first.
func (p *LinePrompter) Prompt(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, label)
	p.once.Do(p.start)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return r.line, r.err
	}
}

func (p *LinePrompter) start() {
	go func() {
		defer close(p.lines)
		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			p.lines <- lineResult{line: strings.TrimSpace(scanner.Text())}
		}
		if err := scanner.Err(); err != nil {
			p.lines <- lineResult{err: err}
		}
	}()
}
