package command

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank or a '#' comment,
// Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ParseResult{}
	}
	fields := strings.Fields(line)
	res := ParseResult{Command: strings.ToLower(fields[0])}
	if len(fields) > 1 {
		res.Args = fields[1:]
	}
	return res
}

// Arg returns argument i or an error naming the missing argument.
func (p ParseResult) Arg(i int, name string) (string, error) {
	if i >= len(p.Args) {
		return "", fmt.Errorf("missing <%s>", name)
	}
	return p.Args[i], nil
}

// IntArg parses argument i as an integer.
func (p ParseResult) IntArg(i int, name string) (int, error) {
	s, err := p.Arg(i, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("<%s> must be a number, got %q", name, s)
	}
	return n, nil
}

// OptionalIntArg parses argument i as an integer, returning def when absent.
func (p ParseResult) OptionalIntArg(i int, name string, def int) (int, error) {
	if i >= len(p.Args) {
		return def, nil
	}
	return p.IntArg(i, name)
}

// OptionalArg returns argument i, or def when absent.
func (p ParseResult) OptionalArg(i int, def string) string {
	if i >= len(p.Args) {
		return def
	}
	return p.Args[i]
}
