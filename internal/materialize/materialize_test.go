package materialize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/osse101/armory/internal/domain"
	"github.com/osse101/armory/internal/ecs"
	"github.com/osse101/armory/internal/event"
	"github.com/osse101/armory/internal/logger"
	"github.com/osse101/armory/internal/script"
	"github.com/osse101/armory/internal/validation"
	"github.com/osse101/armory/internal/weapon"
)

// MockExecutor is a testify mock of Executor
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(ctx context.Context, entry string) (lua.LValue, error) {
	args := m.Called(ctx, entry)
	lv, _ := args.Get(0).(lua.LValue)
	return lv, args.Error(1)
}

type testingT interface {
	require.TestingT
	Helper()
}

func compile(t testingT, text string, opts ...script.Option) (*script.Context, error) {
	t.Helper()
	mod, err := weapon.Module()
	require.NoError(t, err)

	sources := script.NewSources()
	require.NoError(t, sources.Insert("weapons.lua", text))
	opts = append([]script.Option{
		script.WithModules(mod),
		script.WithSink(script.NewWriterSink(io.Discard)),
	}, opts...)
	return script.NewContext(context.Background(), sources, opts...)
}

func mustCompile(t testingT, text string) *script.Context {
	t.Helper()
	sc, err := compile(t, text)
	require.NoError(t, err)
	return sc
}

const scenario = `
function main()
  return {
    Weapon.new_wand(1):level(30):damage_range(20, 30),
    Weapon.new_melee(2):level(10),
    Weapon.new_distance(3):level(30):break_chance(4),
  }
end
`

func TestStartup_Scenario(t *testing.T) {
	world := ecs.NewWorld()
	svc := NewService(Config{}, nil, nil)

	res, err := svc.Startup(context.Background(), mustCompile(t, scenario), world)
	require.NoError(t, err)
	require.Len(t, res.Entities, 3)
	assert.Equal(t, 3, world.Len())
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Violations)

	a, b, c := res.Entities[0], res.Entities[1], res.Entities[2]

	assert.Equal(t, domain.Weapon{ID: 1, Variant: domain.VariantWand}.WithLevel(30).WithDamageRange(20, 30), readBack(world, a))
	assert.Equal(t, domain.Weapon{ID: 2, Variant: domain.VariantMelee}.WithLevel(10), readBack(world, b))
	assert.Equal(t, domain.Weapon{ID: 3, Variant: domain.VariantDistance}.WithLevel(30).WithBreakChance(4), readBack(world, c))
	assert.False(t, ecs.Has[domain.Mana](world, a), "absent attributes are not attached")
	assert.False(t, ecs.Has[domain.DamageRange](world, c))
}

func TestStartup_StoresContextResource(t *testing.T) {
	world := ecs.NewWorld()
	sc := mustCompile(t, scenario)

	_, err := NewService(Config{}, nil, nil).Startup(context.Background(), sc, world)
	require.NoError(t, err)

	stored, ok := ecs.GetResource[script.Context](world)
	require.True(t, ok)
	assert.Same(t, sc, stored)

	vm, err := stored.VM()
	require.NoError(t, err)
	defer vm.Close()
	_, err = vm.Execute(context.Background(), sc.EntryPoint())
	assert.NoError(t, err, "later systems can create VMs from the stored context")
}

func TestStartup_ScriptDefinedHelper(t *testing.T) {
	sc := mustCompile(t, `
function Weapon.staff(id) return Weapon.new_wand(id):level(5) end
function main() return { Weapon.staff(7) } end
`)
	require.Equal(t, 1, sc.Diagnostics().Warnings())

	world := ecs.NewWorld()
	res, err := NewService(Config{}, nil, nil).Startup(context.Background(), sc, world)
	require.NoError(t, err)
	require.Len(t, res.Entities, 1)
	assert.Equal(t, domain.Weapon{ID: 7, Variant: domain.VariantWand}.WithLevel(5), readBack(world, res.Entities[0]))
}

func TestStartup_Failures(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"non-sequence result", `function main() return 5 end`, domain.ErrDecode},
		{"wrong element type", `function main() return { Weapon.new_wand(1), "sword" } end`, domain.ErrDecode},
		{"table with holes", `function main() return { [1] = Weapon.new_wand(1), [3] = Weapon.new_wand(3) } end`, domain.ErrDecode},
		{"script error", `function main() error("no weapons today") end`, domain.ErrExecution},
		{"moved handle returned", `
function main()
  local w = Weapon.new_wand(1)
  w:level(3)
  return { w }
end`, domain.ErrDecode},
		{"moved handle reused", `
function main()
  local w = Weapon.new_wand(1)
  w:level(3)
  return { w:mana(2) }
end`, domain.ErrExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := ecs.NewWorld()
			res, err := NewService(Config{}, nil, nil).Startup(context.Background(), mustCompile(t, tt.text), world)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			assert.Equal(t, 0, world.Len(), "no partial materialization")
			_, stored := ecs.GetResource[script.Context](world)
			assert.False(t, stored, "failed runs leave the resources untouched")
		})
	}
}

func TestStartup_CompileFailure(t *testing.T) {
	world := ecs.NewWorld()

	sc, err := compile(t, `function main( return {} end`)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCompile)
	assert.Nil(t, sc)

	_, err = NewService(Config{}, nil, nil).Startup(context.Background(), script.New(), world)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "context never reached Ready")
	assert.Equal(t, 0, world.Len())
	_, ok := ecs.GetResource[script.Context](world)
	assert.False(t, ok)
}

func TestStartup_NilArguments(t *testing.T) {
	svc := NewService(Config{}, nil, nil)

	_, err := svc.Startup(context.Background(), nil, ecs.NewWorld())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Startup(context.Background(), mustCompile(t, scenario), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Run(context.Background(), nil, ecs.NewWorld())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStartup_ExecTimeout(t *testing.T) {
	world := ecs.NewWorld()
	svc := NewService(Config{ExecTimeout: 50 * time.Millisecond}, nil, nil)

	_, err := svc.Startup(context.Background(), mustCompile(t, `function main() while true do end end`), world)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExecution)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, world.Len())
}

func TestStartup_AttributePolicy(t *testing.T) {
	const text = `
function main()
  return {
    Weapon.new_wand(1):damage_range(30, 20),
    Weapon.new_distance(2):break_chance(4),
  }
end`

	t.Run("lenient spawns and reports", func(t *testing.T) {
		world := ecs.NewWorld()
		res, err := NewService(Config{}, validation.NewAttributePolicy(false), nil).
			Startup(context.Background(), mustCompile(t, text), world)

		require.NoError(t, err)
		assert.Equal(t, 2, world.Len())
		require.Len(t, res.Violations, 1)
		assert.Equal(t, domain.AttributeDamageRange, res.Violations[0].Attribute)

		dr, ok := ecs.Get[domain.DamageRange](world, res.Entities[0])
		require.True(t, ok)
		assert.Equal(t, domain.DamageRange{Min: 30, Max: 20}, dr, "stored as given")
	})

	t.Run("strict rejects the batch", func(t *testing.T) {
		world := ecs.NewWorld()
		_, err := NewService(Config{}, validation.NewAttributePolicy(true), nil).
			Startup(context.Background(), mustCompile(t, text), world)

		assert.ErrorIs(t, err, domain.ErrDecode)
		assert.ErrorIs(t, err, domain.ErrInvalidAttribute)
		assert.Equal(t, 0, world.Len())
	})
}

func TestStartup_PublishesEvents(t *testing.T) {
	bus := event.NewMemoryBus()
	var materialized []event.WeaponMaterializedPayloadV1
	var executed []event.ScriptExecutedPayloadV1

	bus.Subscribe(event.WeaponMaterialized, func(_ context.Context, evt event.Event) error {
		p, err := event.DecodePayload[event.WeaponMaterializedPayloadV1](evt.Payload)
		materialized = append(materialized, p)
		return err
	})
	bus.Subscribe(event.ScriptExecuted, func(_ context.Context, evt event.Event) error {
		p, err := event.DecodePayload[event.ScriptExecutedPayloadV1](evt.Payload)
		executed = append(executed, p)
		return err
	})

	_, err := NewService(Config{}, nil, bus).Startup(context.Background(), mustCompile(t, scenario), ecs.NewWorld())
	require.NoError(t, err)

	require.Len(t, materialized, 3)
	assert.Equal(t, uint32(1), materialized[0].WeaponID)
	assert.Equal(t, domain.VariantNameWand, materialized[0].Variant)
	assert.Equal(t, []string{domain.AttributeLevel, domain.AttributeDamageRange}, materialized[0].Attributes)
	assert.Equal(t, domain.VariantNameDistance, materialized[2].Variant)

	require.Len(t, executed, 1)
	assert.True(t, executed[0].Success)
	assert.Equal(t, 3, executed[0].Weapons)
	assert.Equal(t, domain.DefaultEntryPoint, executed[0].EntryPoint)
}

func TestRun_WithMockExecutor(t *testing.T) {
	t.Run("uses the configured entry point under a deadline", func(t *testing.T) {
		L := lua.NewState()
		defer L.Close()

		exec := new(MockExecutor)
		exec.On("Execute", mock.MatchedBy(func(ctx context.Context) bool {
			_, hasDeadline := ctx.Deadline()
			return hasDeadline
		}), "spawn_all").Return(lua.LValue(L.NewTable()), nil)

		world := ecs.NewWorld()
		res, err := NewService(Config{EntryPoint: "spawn_all"}, nil, nil).Run(context.Background(), exec, world)

		require.NoError(t, err)
		assert.Empty(t, res.Entities)
		assert.Equal(t, 0, world.Len())
		exec.AssertExpectations(t)
	})

	t.Run("keeps the caller's run id", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Execute", mock.Anything, domain.DefaultEntryPoint).Return(lua.LValue(lua.LNil), nil)

		ctx := logger.WithRunID(context.Background(), "run-42")
		_, err := NewService(Config{}, nil, nil).Run(ctx, exec, ecs.NewWorld())

		assert.ErrorIs(t, err, domain.ErrDecode)
		exec.AssertExpectations(t)
	})

	t.Run("plain executor errors are execution errors", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Execute", mock.Anything, domain.DefaultEntryPoint).Return(nil, errors.New("vm exploded"))

		_, err := NewService(Config{}, nil, nil).Run(context.Background(), exec, ecs.NewWorld())

		assert.ErrorIs(t, err, domain.ErrExecution)
		assert.Contains(t, err.Error(), "vm exploded")
	})
}

func TestSpawn_UnknownVariant(t *testing.T) {
	world := ecs.NewWorld()

	_, err := spawn(world, domain.Weapon{ID: 9, Variant: domain.Variant(42)})

	assert.ErrorIs(t, err, domain.ErrDecode)
	assert.Equal(t, 0, world.Len(), "partial entity is despawned")
}

func TestVMsProduceEqualOutput(t *testing.T) {
	sc := mustCompile(t, scenario)
	svc := NewService(Config{}, nil, nil)

	decodeWith := func() []domain.Weapon {
		vm, err := sc.VM()
		require.NoError(t, err)
		defer vm.Close()

		world := ecs.NewWorld()
		res, err := svc.Run(context.Background(), vm, world)
		require.NoError(t, err)

		out := make([]domain.Weapon, 0, len(res.Entities))
		for _, e := range res.Entities {
			out = append(out, readBack(world, e))
		}
		return out
	}

	assert.Equal(t, decodeWith(), decodeWith())
}

// readBack rebuilds the weapon an entity was materialized from
func readBack(world *ecs.World, e ecs.Entity) domain.Weapon {
	var w domain.Weapon
	if id, ok := ecs.Get[domain.WeaponID](world, e); ok {
		w.ID = id.ID
	}
	switch {
	case ecs.Has[domain.WandWeapon](world, e):
		w.Variant = domain.VariantWand
	case ecs.Has[domain.MeleeWeapon](world, e):
		w.Variant = domain.VariantMelee
	case ecs.Has[domain.DistanceWeapon](world, e):
		w.Variant = domain.VariantDistance
	}
	if v, ok := ecs.Get[domain.Level](world, e); ok {
		w.Level = &v
	}
	if v, ok := ecs.Get[domain.MagicLevel](world, e); ok {
		w.MagicLevel = &v
	}
	if v, ok := ecs.Get[domain.Mana](world, e); ok {
		w.Mana = &v
	}
	if v, ok := ecs.Get[domain.DamageRange](world, e); ok {
		w.DamageRange = &v
	}
	if v, ok := ecs.Get[domain.BreakChance](world, e); ok {
		w.BreakChance = &v
	}
	return w
}

func variantCount(world *ecs.World, e ecs.Entity) int {
	n := 0
	for _, has := range []bool{
		ecs.Has[domain.WandWeapon](world, e),
		ecs.Has[domain.MeleeWeapon](world, e),
		ecs.Has[domain.DistanceWeapon](world, e),
	} {
		if has {
			n++
		}
	}
	return n
}

// genWeapon draws a weapon together with the script expression that builds it
func genWeapon(t *rapid.T, id uint32) (domain.Weapon, string) {
	variant := rapid.SampledFrom([]domain.Variant{
		domain.VariantWand, domain.VariantMelee, domain.VariantDistance,
	}).Draw(t, "variant")

	w := domain.Weapon{ID: id, Variant: variant}
	expr := fmt.Sprintf("Weapon.new_%s(%d)", variant, id)

	if rapid.Bool().Draw(t, "has_level") {
		v := rapid.Uint32().Draw(t, "level")
		w = w.WithLevel(v)
		expr += fmt.Sprintf(":level(%d)", v)
	}
	if rapid.Bool().Draw(t, "has_magic_level") {
		v := rapid.Uint32().Draw(t, "magic_level")
		w = w.WithMagicLevel(v)
		expr += fmt.Sprintf(":magic_level(%d)", v)
	}
	if rapid.Bool().Draw(t, "has_mana") {
		v := rapid.Uint32().Draw(t, "mana")
		w = w.WithMana(v)
		expr += fmt.Sprintf(":mana(%d)", v)
	}
	if rapid.Bool().Draw(t, "has_damage_range") {
		lo := rapid.Uint32().Draw(t, "damage_min")
		hi := rapid.Uint32().Draw(t, "damage_max")
		w = w.WithDamageRange(lo, hi)
		expr += fmt.Sprintf(":damage_range(%d, %d)", lo, hi)
	}
	if rapid.Bool().Draw(t, "has_break_chance") {
		v := rapid.Uint32().Draw(t, "break_chance")
		w = w.WithBreakChance(v)
		expr += fmt.Sprintf(":break_chance(%d)", v)
	}
	return w, expr
}

func TestSparseAttachmentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "weapons")
		want := make([]domain.Weapon, 0, n)
		exprs := make([]string, 0, n)
		for i := 0; i < n; i++ {
			w, expr := genWeapon(t, uint32(i+1))
			want = append(want, w)
			exprs = append(exprs, expr)
		}
		text := fmt.Sprintf("function main()\n  return { %s }\nend\n", strings.Join(exprs, ",\n    "))

		sc, err := compile(t, text)
		require.NoError(t, err)

		world := ecs.NewWorld()
		res, err := NewService(Config{}, nil, nil).Startup(context.Background(), sc, world)
		require.NoError(t, err)

		require.Len(t, res.Entities, n)
		require.Equal(t, n, world.Len())
		for i, e := range res.Entities {
			require.Equal(t, 1, variantCount(world, e), "exactly one variant marker")
			require.Equal(t, want[i], readBack(world, e))
			require.Equal(t, want[i].Attributes(), readBack(world, e).Attributes(), "no spurious attachments")
		}
	})
}
