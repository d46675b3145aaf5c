package evaluator

import (
	"bufio"
	"errors"
	"io"
)

// LineReader shows a prompt and reads one line of user input.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

type bufferedReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineReader reads lines from in and writes prompts to out.
func NewLineReader(in io.Reader, out io.Writer) LineReader {
	return &bufferedReader{in: bufio.NewReader(in), out: out}
}

func (r *bufferedReader) ReadLine(prompt string) (string, error) {
	if _, err := io.WriteString(r.out, prompt); err != nil {
		return "", err
	}
	// end of input reads as whatever was left, possibly nothing
	line, err := r.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}
