package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hackathon-hub/registration-api/internal/forms"
)

var errUnknownOption = errors.New("unknown option")

// prompter reads answers line by line from the terminal
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// ask prompts for one field until the input parses
func (p *prompter) ask(field *forms.FieldSchema, current forms.Answer, problem string) (forms.Answer, error) {
	for {
		p.printf("\n%s", field.Label)
		if field.Required {
			p.printf(" *")
		}
		p.printf("\n")
		if problem != "" {
			p.printf("  ! %s\n", problem)
		}
		for i, opt := range field.Options {
			p.printf("  %d) %s\n", i+1, opt)
		}
		switch {
		case field.Type.IsList():
			p.printf("  (comma separated)\n")
		case field.Type == forms.FieldDate:
			p.printf("  (YYYY-MM-DD)\n")
		case field.Placeholder != "":
			p.printf("  (%s)\n", field.Placeholder)
		}
		if !current.IsEmpty() {
			p.printf("  [%s]\n", describe(current))
		}
		p.printf("> ")

		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return forms.Answer{}, err
			}
			return forms.Answer{}, io.EOF
		}

		line := strings.TrimSpace(p.in.Text())
		if line == "" && !current.IsEmpty() {
			return current, nil
		}

		answer, err := parseAnswer(field, line)
		if err != nil {
			problem = err.Error()
			continue
		}
		return answer, nil
	}
}

// confirm asks a yes/no question; anything but y or yes is no
func (p *prompter) confirm(question string) bool {
	p.printf("%s [y/N] ", question)
	if !p.in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(p.in.Text())) {
	case "y", "yes", "نعم":
		return true
	}
	return false
}

// parseAnswer turns one line of input into an answer of the field's shape.
// Options may be given by number or by text.
func parseAnswer(field *forms.FieldSchema, line string) (forms.Answer, error) {
	line = strings.TrimSpace(line)

	if !field.Type.HasOptions() {
		return forms.Scalar(line), nil
	}

	if field.Type.IsList() {
		if line == "" {
			return forms.Multi(), nil
		}
		var items []string
		for _, token := range strings.Split(line, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			opt, err := resolveOption(field.Options, token)
			if err != nil {
				return forms.Answer{}, err
			}
			items = append(items, opt)
		}
		return forms.Multi(items...), nil
	}

	if line == "" {
		return forms.Scalar(""), nil
	}
	opt, err := resolveOption(field.Options, line)
	if err != nil {
		return forms.Answer{}, err
	}
	return forms.Scalar(opt), nil
}

func resolveOption(options []string, token string) (string, error) {
	if n, err := strconv.Atoi(token); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], nil
	}
	for _, opt := range options {
		if strings.EqualFold(opt, token) {
			return opt, nil
		}
	}
	return "", fmt.Errorf("%w: %s", errUnknownOption, token)
}

func describe(a forms.Answer) string {
	if a.IsList() {
		return strings.Join(a.Items(), ", ")
	}
	return a.String()
}

// formatCountdown renders a wait as [Nd ]HH:MM:SS
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
