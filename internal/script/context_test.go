package script

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/armory/internal/domain"
	"github.com/osse101/armory/internal/event"
)

const counterScript = `
function main()
  return { Counter.new(1):add(2), Counter.new(10) }
end
`

func TestNewContext_Success(t *testing.T) {
	sc, err := NewContext(context.Background(),
		sourcesOf(t, "main.lua", counterScript),
		WithModules(counterModule(t)),
		WithSink(quietSink()))

	require.NoError(t, err)
	assert.Equal(t, StateReady, sc.State())
	assert.Equal(t, domain.DefaultEntryPoint, sc.EntryPoint())
	assert.Equal(t, []string{"Counter"}, sc.Runtime().Modules())
	assert.Equal(t, []string{"main.lua"}, sc.Unit().Sources())
	assert.Empty(t, sc.Diagnostics())
}

func TestContext_Lifecycle(t *testing.T) {
	t.Run("starts uninitialized", func(t *testing.T) {
		sc := New()
		assert.Equal(t, StateUninitialized, sc.State())
		assert.Nil(t, sc.Unit())
		assert.Nil(t, sc.Runtime())

		_, err := sc.VM()
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("compiles only once", func(t *testing.T) {
		sc := New(WithModules(counterModule(t)), WithSink(quietSink()))
		require.NoError(t, sc.Compile(context.Background(), sourcesOf(t, "main.lua", counterScript)))

		err := sc.Compile(context.Background(), sourcesOf(t, "main.lua", counterScript))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), ErrMsgAlreadyCompiled)
	})

	t.Run("requires sources", func(t *testing.T) {
		sc := New()
		assert.ErrorIs(t, sc.Compile(context.Background(), nil), domain.ErrInvalidInput)
		assert.ErrorIs(t, sc.Compile(context.Background(), NewSources()), domain.ErrInvalidInput)
		assert.Equal(t, StateUninitialized, sc.State())
	})

	t.Run("bridge registration errors prevent construction", func(t *testing.T) {
		sc := New(WithModules(counterModule(t), counterModule(t)), WithSink(quietSink()))

		err := sc.Compile(context.Background(), sourcesOf(t, "main.lua", counterScript))
		assert.ErrorIs(t, err, domain.ErrBridgeRegistration)
		assert.Equal(t, StateUninitialized, sc.State())
	})
}

func TestContext_CompileFailures(t *testing.T) {
	tests := []struct {
		name     string
		sources  []string
		contains string
		source   string
		line     int
	}{
		{
			name:     "syntax error",
			sources:  []string{"main.lua", "function main()\n  return {\nend"},
			contains: "",
			source:   "main.lua",
		},
		{
			name:     "unknown bridge member",
			sources:  []string{"main.lua", "function main()\n  return { Counter.create(1) }\nend"},
			contains: `Counter has no member "create"`,
			source:   "main.lua",
			line:     2,
		},
		{
			name:     "failure in second source",
			sources:  []string{"lib.lua", "helper = 1", "main.lua", "function main( end"},
			source:   "main.lua",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := new(MockSink)
			sink.On("Emit", mock.Anything, mock.Anything).Return(nil).Once()

			sc := New(WithModules(counterModule(t)), WithSink(sink))
			err := sc.Compile(context.Background(), sourcesOf(t, tt.sources...))

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCompile)
			var cerr *CompileError
			require.True(t, errors.As(err, &cerr))
			require.True(t, cerr.Diagnostics.HasErrors())
			assert.Equal(t, StateCompileFailed, sc.State())
			assert.Nil(t, sc.Unit())

			first := cerr.Diagnostics[0]
			assert.Equal(t, SeverityError, first.Severity)
			assert.Equal(t, tt.source, first.Source)
			if tt.contains != "" {
				assert.Contains(t, first.Message, tt.contains)
			}
			if tt.line != 0 {
				assert.Equal(t, tt.line, first.Line)
			}

			sink.AssertExpectations(t)
			emitted := sink.Calls[0].Arguments.Get(1).(Diagnostics)
			assert.Equal(t, cerr.Diagnostics, emitted, "sink sees the same diagnostics")

			_, err = sc.VM()
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestContext_Warnings(t *testing.T) {
	t.Run("missing entry point is only a warning", func(t *testing.T) {
		sink := new(MockSink)
		sink.On("Emit", mock.Anything, mock.MatchedBy(func(d Diagnostics) bool {
			return len(d) == 1 && d[0].Severity == SeverityWarning
		})).Return(nil).Once()

		sc, err := NewContext(context.Background(),
			sourcesOf(t, "main.lua", "function start() end"),
			WithSink(sink))

		require.NoError(t, err)
		assert.Equal(t, StateReady, sc.State())
		require.Len(t, sc.Diagnostics(), 1)
		assert.Contains(t, sc.Diagnostics()[0].Message, `"main"`)
		sink.AssertExpectations(t)
	})

	t.Run("custom entry point", func(t *testing.T) {
		sink := new(MockSink)
		sc, err := NewContext(context.Background(),
			sourcesOf(t, "main.lua", "function start() end"),
			WithSink(sink), WithEntryPoint("start"))

		require.NoError(t, err)
		assert.Equal(t, "start", sc.EntryPoint())
		sink.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
	})

	t.Run("sink failure does not fail compilation", func(t *testing.T) {
		sink := new(MockSink)
		sink.On("Emit", mock.Anything, mock.Anything).Return(errors.New("closed pipe"))

		_, err := NewContext(context.Background(),
			sourcesOf(t, "main.lua", "Counter = nil\nfunction main() end"),
			WithModules(counterModule(t)), WithSink(sink))

		assert.NoError(t, err)
	})
}

func TestContext_ScriptDefinedMembers(t *testing.T) {
	helpers := "function Counter.staff(n) return Counter.new(n):add(5) end"
	caller := "function main() return { Counter.staff(7) } end"

	tests := []struct {
		name    string
		sources *Sources
	}{
		{"same source", sourcesOf(t, "weapons.lua", helpers+"\n"+caller)},
		{"defined in an earlier source", sourcesOf(t, "helpers.lua", helpers, "main.lua", caller)},
		{"defined in a later source", sourcesOf(t, "main.lua", caller, "helpers.lua", helpers)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := NewContext(context.Background(), tt.sources,
				WithModules(counterModule(t)), WithSink(quietSink()))

			require.NoError(t, err)
			assert.Equal(t, StateReady, sc.State())
			assert.False(t, sc.Diagnostics().HasErrors())
			assert.Equal(t, 1, sc.Diagnostics().Warnings(), "module mutation is still reported")

			vm, err := sc.VM()
			require.NoError(t, err)
			defer vm.Close()
			ret, err := vm.Execute(context.Background(), "main")
			require.NoError(t, err)
			assert.Equal(t, []int{12}, counterValues(t, ret))
		})
	}
}

func TestContext_PublishesCompileEvent(t *testing.T) {
	bus := event.NewMemoryBus()
	var got []event.ScriptCompiledPayloadV1
	bus.Subscribe(event.ScriptCompiled, func(ctx context.Context, evt event.Event) error {
		payload, err := event.DecodePayload[event.ScriptCompiledPayloadV1](evt.Payload)
		require.NoError(t, err)
		got = append(got, payload)
		return nil
	})

	_, err := NewContext(context.Background(),
		sourcesOf(t, "a.lua", "x = 1", "main.lua", "function main() return {} end"),
		WithBus(bus), WithSink(quietSink()))
	require.NoError(t, err)

	_, err = NewContext(context.Background(),
		sourcesOf(t, "main.lua", "function main("),
		WithBus(bus), WithSink(quietSink()))
	require.Error(t, err)

	require.Len(t, got, 2)
	assert.True(t, got[0].Success)
	assert.Equal(t, []string{"a.lua", "main.lua"}, got[0].Sources)
	assert.False(t, got[1].Success)
	assert.Equal(t, 1, got[1].Errors)
}

func TestContext_CancelledCompile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewContext(ctx, sourcesOf(t, "main.lua", counterScript), WithSink(quietSink()))
	assert.ErrorIs(t, err, domain.ErrCompile)
}
