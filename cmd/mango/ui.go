package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errQuit = errors.New("quit")

type ui struct {
	in  *bufio.Scanner
	out io.Writer
}

func newUI(in io.Reader, out io.Writer) *ui {
	return &ui{in: bufio.NewScanner(in), out: out}
}

func (u *ui) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}

func (u *ui) println(args ...any) {
	fmt.Fprintln(u.out, args...)
}

// ask prints prompt and returns the trimmed input line. End of input is
// errQuit.
func (u *ui) ask(prompt string) (string, error) {
	u.printf("%s ", prompt)
	if !u.in.Scan() {
		if err := u.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(u.in.Text()), nil
}

// choose lists options and returns the picked zero-based index. Empty input
// keeps current when current is valid.
func (u *ui) choose(prompt string, options []string, current int) (int, error) {
	for i, o := range options {
		marker := " "
		if i == current {
			marker = "*"
		}
		u.printf(" %s %2d) %s\n", marker, i+1, o)
	}
	for {
		answer, err := u.ask(prompt)
		if err != nil {
			return 0, err
		}
		if answer == "" && current >= 0 && current < len(options) {
			return current, nil
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		u.printf("Pick a number from 1 to %d.\n", len(options))
	}
}

// toggleLoop shows a checklist and lets the user toggle entries by number
// until an empty line. toggle reports a message when a toggle is refused.
func (u *ui) toggleLoop(title string, options []string, selected func(string) bool, toggle func(string) string) error {
	for {
		u.println(title)
		for i, o := range options {
			box := "[ ]"
			if selected(o) {
				box = "[x]"
			}
			u.printf("  %s %2d) %s\n", box, i+1, o)
		}
		answer, err := u.ask("Toggle numbers (e.g. 1 4 7), empty to continue:")
		if err != nil {
			return err
		}
		if answer == "" {
			return nil
		}
		for _, field := range strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == ' ' }) {
			n, err := strconv.Atoi(field)
			if err != nil || n < 1 || n > len(options) {
				u.printf("Ignoring %q.\n", field)
				continue
			}
			if msg := toggle(options[n-1]); msg != "" {
				u.println(msg)
			}
		}
	}
}

// command splits input like "s 3" into a verb and a one-based index.
func command(input string) (verb string, index int) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return "", -1
	}
	index = -1
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil {
			index = n - 1
		}
	}
	return fields[0], index
}
