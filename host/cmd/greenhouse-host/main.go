package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"greenhouse/host/config"
	"greenhouse/host/device"
	"greenhouse/host/serial"
	"greenhouse/protocol"
)

var (
	configPath = flag.String("config", "", "TOML config file")
	devicePath = flag.String("device", "", "Serial device path (overrides config)")
	baud       = flag.Int("baud", 0, "Baud rate (overrides config, ignored for USB CDC)")
	loopback   = flag.Bool("loopback", false, "Talk to an in-process controller instead of a board")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *devicePath != "" {
		cfg.Device = *devicePath
	}
	if *baud > 0 {
		cfg.Baud = *baud
	}

	logger := newLogger(cfg.Level())
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	port, err := openPort(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("device", cfg.Device).Msg("failed to connect")
	}

	dev := device.New(port, cfg.ResponseTimeout(), logger)
	defer dev.Close()

	logger.Info().
		Str("device", cfg.Device).
		Bool("loopback", *loopback).
		Str("version", protocol.Version).
		Msg("connected")

	// One-shot mode: run the command given on the command line
	if flag.NArg() > 0 {
		if err := runCommand(dev, os.Stdout, flag.Arg(0), flag.Args()[1:]); err != nil {
			logger.Error().Err(err).Msg("command failed")
			os.Exit(1)
		}
		return
	}

	shell(dev, cfg.HistoryFile, logger)
}

func newLogger(level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func openPort(cfg *config.Config) (serial.Port, error) {
	if *loopback {
		cfg.Device = "loopback"
		return serial.NewLoopback(time.Duration(cfg.ReadTimeoutMS) * time.Millisecond), nil
	}
	return serial.Open(cfg.Serial())
}

// shell runs the interactive prompt until quit, Ctrl-C or Ctrl-D
func shell(dev *device.Device, historyFile string, logger zerolog.Logger) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) (c []string) {
		for _, name := range commandNames() {
			if strings.HasPrefix(name, strings.ToLower(input)) {
				c = append(c, name)
			}
		}
		return
	})

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if err != nil {
			logger.Error().Err(err).Msg("failed to read input")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			saveHistory(line, historyFile, logger)
			return
		case "help", "?":
			printHelp(os.Stdout)
			continue
		}

		if err := runLine(dev, os.Stdout, input); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	saveHistory(line, historyFile, logger)
}

func saveHistory(line *liner.State, historyFile string, logger zerolog.Logger) {
	if historyFile == "" {
		return
	}
	f, err := os.Create(historyFile)
	if err != nil {
		logger.Warn().Err(err).Str("file", historyFile).Msg("failed to save history")
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		logger.Warn().Err(err).Str("file", historyFile).Msg("failed to save history")
	}
}
