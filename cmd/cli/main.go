// Command evasion-engine reads a SimulationInput from a file argument (or
// stdin), runs the simulation, and writes the SimulationLog to stdout.
//
// Settings come from EVASION_* environment variables or a .env file, and
// flags override both.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cxd309/evasion-engine/internal/config"
	"github.com/cxd309/evasion-engine/internal/engine"
)

func main() {
	envFile := os.Getenv("EVASION_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	var (
		format   = flag.String("format", string(cfg.Format), "output encoding: json or msgpack")
		input    = flag.String("input", string(engine.FormatJSON), "input encoding: json or msgpack")
		logLevel = flag.String("log-level", cfg.LogLevel.String(), "log level: debug, info, warn or error")
		pretty   = flag.Bool("pretty", cfg.Pretty, "indent JSON output")
		schema   = flag.Bool("schema", false, "print the input JSON schema and exit")
	)
	flag.Parse()

	if *schema {
		out, err := json.MarshalIndent(engine.InputSchema(), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error building schema: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level: %v\n", err)
		os.Exit(2)
	}
	outFormat, err := engine.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -format: %v\n", err)
		os.Exit(2)
	}
	inFormat, err := engine.ParseFormat(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -input: %v\n", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var data []byte
	if flag.NArg() > 0 {
		data, err = os.ReadFile(flag.Arg(0))
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		logger.Error("reading input", slog.Any("err", err))
		os.Exit(1)
	}

	simInput, err := engine.DecodeInput(data, inFormat)
	if err != nil {
		logger.Error("decoding input", slog.Any("err", err))
		os.Exit(1)
	}
	sim, err := engine.NewSim(simInput, engine.WithLogger(logger))
	if err != nil {
		logger.Error("building simulation", slog.Any("err", err))
		os.Exit(1)
	}
	simLog, err := sim.Run()
	if err != nil {
		logger.Error("simulation error", slog.Any("err", err))
		os.Exit(1)
	}

	out, err := engine.EncodeLog(simLog, outFormat, *pretty)
	if err != nil {
		logger.Error("encoding output", slog.Any("err", err))
		os.Exit(1)
	}
	if _, err := os.Stdout.Write(out); err != nil {
		logger.Error("writing output", slog.Any("err", err))
		os.Exit(1)
	}
	if outFormat == engine.FormatJSON {
		fmt.Println()
	}
}
