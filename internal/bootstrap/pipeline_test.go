package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/armory/internal/config"
	"github.com/osse101/armory/internal/domain"
	"github.com/osse101/armory/internal/ecs"
	"github.com/osse101/armory/internal/event"
	"github.com/osse101/armory/internal/script"
)

const weaponsScript = `
function main()
  return {
    Weapon.new_wand(1):level(30):damage_range(20, 30),
    Weapon.new_melee(2):level(10),
    Weapon.new_distance(3):level(30):break_chance(4),
  }
end
`

func writeScript(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func startupConfig(scriptPath string) *config.Config {
	return &config.Config{
		ScriptPath:  scriptPath,
		EntryPoint:  domain.DefaultEntryPoint,
		ExecTimeout: time.Second,
	}
}

func TestRunStartup(t *testing.T) {
	world := ecs.NewWorld()
	var diags bytes.Buffer

	result, err := RunStartup(context.Background(), StartupDependencies{
		Config: startupConfig(writeScript(t, "weapons.lua", weaponsScript)),
		Bus:    event.NewMemoryBus(),
		World:  world,
		Sink:   script.NewWriterSink(&diags),
	})

	require.NoError(t, err)
	assert.Len(t, result.Entities, 3)
	assert.Equal(t, 3, world.Len())
	assert.Empty(t, diags.String())

	_, ok := ecs.GetResource[script.Context](world)
	assert.True(t, ok, "context is kept for later systems")
}

func TestRunStartup_MultipleSources(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.lua")
	main := filepath.Join(dir, "main.lua")
	require.NoError(t, os.WriteFile(base, []byte("function staff(id) return Weapon.new_wand(id):mana(5) end\n"), 0o644))
	require.NoError(t, os.WriteFile(main, []byte("function main() return { staff(7) } end\n"), 0o644))

	world := ecs.NewWorld()
	cfg := startupConfig(base + "," + main)

	result, err := RunStartup(context.Background(), StartupDependencies{
		Config: cfg, Bus: event.NopBus{}, World: world, Sink: script.NewWriterSink(&bytes.Buffer{}),
	})

	require.NoError(t, err)
	require.Len(t, result.Entities, 1)
	mana, ok := ecs.Get[domain.Mana](world, result.Entities[0])
	require.True(t, ok)
	assert.Equal(t, uint32(5), mana.Value)
}

func TestRunStartup_DiagnosticSink(t *testing.T) {
	t.Run("json logs get structured diagnostics", func(t *testing.T) {
		var buf bytes.Buffer
		prev := slog.Default()
		slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
		t.Cleanup(func() { slog.SetDefault(prev) })

		cfg := startupConfig(writeScript(t, "weapons.lua", "Weapon.extra = 1\n"+weaponsScript))
		cfg.LogFormat = "json"

		_, err := RunStartup(context.Background(), StartupDependencies{Config: cfg, Bus: event.NopBus{}, World: ecs.NewWorld()})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"level":"WARN"`)
		assert.Contains(t, buf.String(), `"msg":"assignment modifies the Weapon module"`)
		assert.Contains(t, buf.String(), `"line":1`)
	})

	t.Run("text logs print to stderr", func(t *testing.T) {
		_, ok := diagnosticSink(&config.Config{LogFormat: "text"}).(*script.WriterSink)
		assert.True(t, ok)
	})
}

func TestRunStartup_Failures(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing script file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.lua") },
			wantMsg: ErrMsgFailedLoadScripts,
		},
		{
			name:    "syntax error",
			path:    func(t *testing.T) string { return writeScript(t, "bad.lua", "function main( end") },
			wantErr: domain.ErrCompile,
			wantMsg: ErrMsgFailedCompile,
		},
		{
			name:    "wrong return shape",
			path:    func(t *testing.T) string { return writeScript(t, "shape.lua", "function main() return 1 end") },
			wantErr: domain.ErrDecode,
			wantMsg: ErrMsgFailedMaterialize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := ecs.NewWorld()
			var diags bytes.Buffer

			_, err := RunStartup(context.Background(), StartupDependencies{
				Config: startupConfig(tt.path(t)), Bus: event.NopBus{}, World: world, Sink: script.NewWriterSink(&diags),
			})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, 0, world.Len())
		})
	}
}

func TestHandleStartupError(t *testing.T) {
	ctx := context.Background()
	failure := errors.New("compile failed")

	assert.NoError(t, HandleStartupError(ctx, &config.Config{}, nil))
	assert.NoError(t, HandleStartupError(ctx, &config.Config{AbortOnStartupError: false}, failure), "log and continue")
	assert.ErrorIs(t, HandleStartupError(ctx, &config.Config{AbortOnStartupError: true}, failure), failure)
}
