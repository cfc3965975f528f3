package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"greenhouse/host/device"
)

type cliCommand struct {
	Name        string
	Usage       string
	Description string
	MinArgs     int
	MaxArgs     int
	Handler     func(dev *device.Device, out io.Writer, args []string) error
}

var cliCommands map[string]cliCommand

// populated in init to break the initialization cycle through cmdLED
func init() {
	cliCommands = map[string]cliCommand{
		"status": {
			Name:        "status",
			Usage:       "status",
			Description: "Read LED state and climate",
			Handler:     cmdStatus,
		},
		"led": {
			Name:        "led",
			Usage:       "led on|off",
			Description: "Switch the LED",
			MinArgs:     1,
			MaxArgs:     1,
			Handler:     cmdLED,
		},
		"raw": {
			Name:        "raw",
			Usage:       `raw '<text>'  (escapes like \r \n \x1b are expanded)`,
			Description: "Send bytes as-is and print the reply",
			MinArgs:     1,
			MaxArgs:     1,
			Handler:     cmdRaw,
		},
	}
}

func commandNames() []string {
	names := make([]string, 0, len(cliCommands)+2)
	for name := range cliCommands {
		names = append(names, name)
	}
	names = append(names, "help", "quit")
	sort.Strings(names)
	return names
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Available commands:")
	for _, name := range commandNames() {
		if c, ok := cliCommands[name]; ok {
			fmt.Fprintf(out, "  %-10s %s\n             usage: %s\n", c.Name, c.Description, c.Usage)
		}
	}
	fmt.Fprintf(out, "  %-10s %s\n", "help", "Show this help message")
	fmt.Fprintf(out, "  %-10s %s\n", "quit", "Exit the program")
}

// runLine splits an input line and runs the named command
func runLine(dev *device.Device, out io.Writer, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", line, err)
	}
	if len(tokens) == 0 {
		return nil
	}
	return runCommand(dev, out, tokens[0], tokens[1:])
}

func runCommand(dev *device.Device, out io.Writer, name string, args []string) error {
	cmd, ok := cliCommands[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown command %q (type 'help' for available commands)", name)
	}
	if len(args) < cmd.MinArgs || len(args) > cmd.MaxArgs {
		return fmt.Errorf("usage: %s", cmd.Usage)
	}
	return cmd.Handler(dev, out, args)
}

func cmdStatus(dev *device.Device, out io.Writer, _ []string) error {
	report, err := dev.Status()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, report)
	return nil
}

func cmdLED(dev *device.Device, out io.Writer, args []string) error {
	var on bool
	switch strings.ToLower(args[0]) {
	case "on", "1", "true":
		on = true
	case "off", "0", "false":
		on = false
	default:
		return fmt.Errorf("usage: %s", cliCommands["led"].Usage)
	}

	report, err := dev.SetLED(on)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, report)
	return nil
}

func cmdRaw(dev *device.Device, out io.Writer, args []string) error {
	text, err := strconv.Unquote(`"` + strings.ReplaceAll(args[0], `"`, `\"`) + `"`)
	if err != nil {
		return fmt.Errorf("invalid escape in %q: %w", args[0], err)
	}

	lines, err := dev.Raw(text)
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return err
}
