package script

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

// MockSink records emitted diagnostics
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Emit(ctx context.Context, diags Diagnostics) error {
	args := m.Called(ctx, diags)
	return args.Error(0)
}

// counterModule exposes Counter.new(n) returning a userdata with :add(k) and :value()
func counterModule(t *testing.T) *Module {
	t.Helper()

	m, err := NewModule("Counter")
	require.NoError(t, err)
	require.NoError(t, m.Type("test.counter"))

	push := func(L *lua.LState, n int) int {
		ud := L.NewUserData()
		ud.Value = n
		L.SetMetatable(ud, L.GetTypeMetatable("test.counter"))
		L.Push(ud)
		return 1
	}
	require.NoError(t, m.Function("new", func(L *lua.LState) int {
		return push(L, L.CheckInt(1))
	}))
	require.NoError(t, m.Method("add", func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		return push(L, ud.Value.(int)+L.CheckInt(2))
	}))
	require.NoError(t, m.Method("value", func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		L.Push(lua.LNumber(ud.Value.(int)))
		return 1
	}))
	require.NoError(t, m.MetaMethod("__tostring", func(L *lua.LState) int {
		L.Push(lua.LString("Counter"))
		return 1
	}))
	return m
}

func sourcesOf(t *testing.T, pairs ...string) *Sources {
	t.Helper()
	require.Zero(t, len(pairs)%2, "pairs must be name/text")
	s := NewSources()
	for i := 0; i < len(pairs); i += 2 {
		require.NoError(t, s.Insert(pairs[i], pairs[i+1]))
	}
	return s
}

func quietSink() DiagnosticSink {
	return NewWriterSink(io.Discard)
}
