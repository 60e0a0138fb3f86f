package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter reads answers from the user, one line each. Secrets are read
// without echo when the input is a terminal.
type prompter struct {
	in   *bufio.Reader
	file *os.File
	out  io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.file = f
	}
	return p
}

func (p *prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *prompter) Secret(label string) (string, error) {
	if p.file == nil {
		return p.Line(label)
	}

	fmt.Fprint(p.out, label)
	secret, err := term.ReadPassword(int(p.file.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// fill prompts for every field still empty.
func (p *prompter) fill(fields ...promptField) error {
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		read := p.Line
		if f.secret {
			read = p.Secret
		}
		v, err := read(f.label + ": ")
		if err != nil {
			return fmt.Errorf("read %s: %w", strings.ToLower(f.label), err)
		}
		if f.secret {
			*f.value = v
		} else {
			*f.value = strings.TrimSpace(v)
		}
	}
	return nil
}

type promptField struct {
	label  string
	value  *string
	secret bool
}
