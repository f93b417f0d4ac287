package tui

import "strings"

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// commandAliases maps short forms to their command name.
var commandAliases = map[string]string{
	"q":       "quit",
	"h":       "help",
	"s":       "search",
	"logout":  "signout",
	"linkadd": "add-link",
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	name, args, _ := strings.Cut(input, " ")
	cmd := Command{Name: strings.ToLower(name), Args: strings.TrimSpace(args)}
	if full, ok := commandAliases[cmd.Name]; ok {
		cmd.Name = full
	}
	return cmd
}
