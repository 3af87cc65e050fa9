package engine

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cxd309/evasion-engine/internal/collision"
	"github.com/cxd309/evasion-engine/internal/evasion"
	"github.com/cxd309/evasion-engine/internal/threat"
)

func loadInput(t *testing.T, name string) SimulationInput {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	input, err := DecodeInput(data, FormatJSON)
	require.NoError(t, err)
	return input
}

func runInput(t *testing.T, input SimulationInput) SimulationLog {
	t.Helper()
	sim, err := NewSim(input)
	require.NoError(t, err)
	log, err := sim.Run()
	require.NoError(t, err)
	return log
}

func TestRunJumpsOverSideShot(t *testing.T) {
	log := runInput(t, loadInput(t, "jump.json"))

	require.Len(t, log.Output, 40)
	assert.Equal(t, evasion.PhaseTracking, log.Output[0].Agent.Phase)
	assert.Equal(t, evasion.ActionJump, log.Output[1].Decision.Action)
	assert.Equal(t, collision.SideLeft, log.Output[1].Decision.Hit.Side)
	assert.False(t, log.Output[1].Agent.Grounded)

	// The arrow crosses the agent's column while it is still in the air.
	assert.Less(t, log.Output[29].Agent.Position.Y(), -15.0)

	assert.Equal(t, Summary{Dodged: 1, Jumps: 1}, log.Summary)
}

func TestRunLogsDecisions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sim, err := NewSim(loadInput(t, "jump.json"), WithLogger(logger))
	require.NoError(t, err)
	_, err = sim.Run()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `decision="jump v=(0.00, -5.01) hit=left@27.50"`)
	assert.Contains(t, buf.String(), "simulation complete")
}

func TestRunStrikeStunsNextTick(t *testing.T) {
	log := runInput(t, loadInput(t, "struck.json"))

	require.Len(t, log.Output, 10)
	for _, row := range log.Output[1:4] {
		assert.Equal(t, evasion.PhaseEvading, row.Agent.Phase, "tick %d", row.Tick)
		assert.Equal(t, evasion.ActionNone, row.Decision.Action, "tick %d", row.Tick)
	}

	struck := log.Output[4]
	assert.Equal(t, 1, struck.Agent.Hits)
	assert.Equal(t, -4.0, struck.Agent.Velocity.X())
	assert.Empty(t, struck.Projectiles)

	stunned := log.Output[5]
	assert.Equal(t, evasion.ActionStunned, stunned.Decision.Action)
	assert.Equal(t, evasion.PhaseStunned, stunned.Agent.Phase)

	assert.Equal(t, Summary{Hits: 1, DamageTaken: 5}, log.Summary)
}

func TestRunIsDeterministic(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "jump.json"))
	require.NoError(t, err)

	first, err := RunJSON(string(data))
	require.NoError(t, err)
	second, err := RunJSON(string(data))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var log SimulationLog
	require.NoError(t, json.Unmarshal([]byte(first), &log))
	assert.Equal(t, "side-shot", log.Meta.SimulationID)
	assert.Equal(t, 1, log.Summary.Jumps)
}

func TestRunMsgpackMatchesJSON(t *testing.T) {
	input := loadInput(t, "struck.json")
	want := runInput(t, input)

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	require.NoError(t, enc.Encode(input))

	out, err := RunMsgpack(buf.Bytes())
	require.NoError(t, err)

	dec := msgpack.NewDecoder(bytes.NewReader(out))
	dec.SetCustomStructTag("json")
	var got SimulationLog
	require.NoError(t, dec.Decode(&got))

	assert.Equal(t, want.Summary, got.Summary)
	require.Len(t, got.Output, len(want.Output))
	assert.Equal(t, want.Output[5].Decision.Action, got.Output[5].Decision.Action)
	assert.Equal(t, want.Output[9].Agent.Position, got.Output[9].Agent.Position)
}

func TestNewSimRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SimulationInput)
		want   error
	}{
		{"no ticks", func(in *SimulationInput) { in.Meta.RunTime = 0 }, ErrInvalidInput},
		{"unknown scoring", func(in *SimulationInput) { in.Scoring.Model = "loudest" }, threat.ErrUnknownScore},
		{"agent extent", func(in *SimulationInput) { in.Agent.Width = -1 }, collision.ErrInvalidExtent},
		{"projectile extent", func(in *SimulationInput) { in.Projectiles[0].Height = -3 }, collision.ErrInvalidExtent},
		{"spawn tick", func(in *SimulationInput) { in.Projectiles[0].SpawnTick = -1 }, ErrInvalidInput},
		{"profile", func(in *SimulationInput) { in.Agent.Profile.StepSpeed = 0 }, evasion.ErrInvalidProfile},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := loadInput(t, "struck.json")
			tc.mutate(&input)
			_, err := NewSim(input)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRunJSONRejectsMalformedInput(t *testing.T) {
	_, err := RunJSON("{not json")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"": FormatJSON, "json": FormatJSON, "msgpack": FormatMsgpack} {
		got, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestInputSchema(t *testing.T) {
	data, err := json.Marshal(InputSchema())
	require.NoError(t, err)

	for _, field := range []string{"simulation_meta", "projectiles", "step_speed", "floor_y"} {
		assert.Contains(t, string(data), `"`+field+`"`)
	}
}
