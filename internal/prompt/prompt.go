// Package prompt blocks on a human at the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputClosed is returned when input ends before a line is read.
var ErrInputClosed = errors.New("input closed before a response was read")

// Terminal reads answers line by line from in and writes prompts to out.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal wraps the given streams, typically os.Stdin and os.Stdout.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Ask prints label and returns the trimmed line typed in reply.
func (t *Terminal) Ask(label string) (string, error) {
	if _, err := fmt.Fprint(t.out, label); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	line, err := t.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// WaitForEnter prints message and blocks until a line is entered. There is
// no timeout: the human may take as long as the CAPTCHA needs.
func (t *Terminal) WaitForEnter(message string) error {
	if _, err := fmt.Fprint(t.out, message); err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}
	_, err := t.readLine()
	return err
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	switch {
	case err == nil:
		return line, nil
	case errors.Is(err, io.EOF) && line != "":
		return line, nil
	case errors.Is(err, io.EOF):
		return "", ErrInputClosed
	default:
		return "", fmt.Errorf("read input: %w", err)
	}
}
