package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Format is a wire encoding for simulation input and output.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat resolves a format name. The empty string selects JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unknown format %q", name)
	}
}

// DecodeInput parses a SimulationInput. Msgpack documents use the same field
// names as JSON.
func DecodeInput(data []byte, f Format) (SimulationInput, error) {
	var input SimulationInput
	switch f {
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&input); err != nil {
			return SimulationInput{}, fmt.Errorf("%w: decoding msgpack: %w", ErrInvalidInput, err)
		}
	default:
		if err := json.Unmarshal(data, &input); err != nil {
			return SimulationInput{}, fmt.Errorf("%w: decoding JSON: %w", ErrInvalidInput, err)
		}
	}
	return input, nil
}

// EncodeLog serialises a SimulationLog. pretty only affects JSON.
func EncodeLog(log SimulationLog, f Format, pretty bool) ([]byte, error) {
	switch f {
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(log); err != nil {
			return nil, fmt.Errorf("marshaling output: %w", err)
		}
		return buf.Bytes(), nil
	default:
		var (
			out []byte
			err error
		)
		if pretty {
			out, err = json.MarshalIndent(log, "", "  ")
		} else {
			out, err = json.Marshal(log)
		}
		if err != nil {
			return nil, fmt.Errorf("marshaling output: %w", err)
		}
		return out, nil
	}
}

// Simulate decodes input in format f, runs the simulation and encodes the
// log in the same format.
func Simulate(data []byte, f Format, opts ...Option) ([]byte, error) {
	input, err := DecodeInput(data, f)
	if err != nil {
		return nil, err
	}

	sim, err := NewSim(input, opts...)
	if err != nil {
		return nil, err
	}

	simLog, err := sim.Run()
	if err != nil {
		return nil, err
	}
	return EncodeLog(simLog, f, false)
}

// RunJSON is the entry point shared by the CLI and WASM targets. It accepts
// a JSON-encoded SimulationInput, runs the simulation, and returns a
// JSON-encoded SimulationLog.
func RunJSON(jsonInput string) (string, error) {
	out, err := Simulate([]byte(jsonInput), FormatJSON)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RunMsgpack is RunJSON for msgpack-encoded input and output.
func RunMsgpack(input []byte) ([]byte, error) {
	return Simulate(input, FormatMsgpack)
}
