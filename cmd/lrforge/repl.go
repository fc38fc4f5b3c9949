package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// lineReader reads one line of REPL input at a time. It is implemented by
// directReader (any io.Reader, no editing) and interactiveReader
// (github.com/chzyer/readline, history, line editing), mirroring the teacher's
// DirectCommandReader/InteractiveCommandReader split.
type lineReader interface {
	ReadLine() (string, error)
	Close() error
}

type directReader struct {
	r *bufio.Reader
}

func newDirectReader(r io.Reader) *directReader {
	return &directReader{r: bufio.NewReader(r)}
}

func (d *directReader) ReadLine() (string, error) {
	line, err := d.r.ReadString('\n')
	return strings.TrimSpace(line), err
}

func (d *directReader) Close() error { return nil }

type interactiveReader struct {
	rl *readline.Instance
}

func newInteractiveReader(prompt string) (*interactiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &interactiveReader{rl: rl}, nil
}

func (i *interactiveReader) ReadLine() (string, error) {
	line, err := i.rl.Readline()
	return strings.TrimSpace(line), err
}

func (i *interactiveReader) Close() error { return i.rl.Close() }
