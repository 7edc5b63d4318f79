package weapon

import (
	"math"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/osse101/armory/internal/domain"
	"github.com/osse101/armory/internal/script"
)

// handle is the userdata payload of a script-side weapon.
// Configuration methods consume the handle they are called on and return a new one.
type handle struct {
	weapon domain.Weapon
	moved  bool
}

func (h *handle) take() domain.Weapon {
	h.moved = true
	return h.weapon
}

// Module returns the Weapon bridge module. It is built once per process.
var Module = sync.OnceValues(buildModule)

func buildModule() (*script.Module, error) {
	m, err := script.NewModule(ModuleName)
	if err != nil {
		return nil, err
	}
	if err := m.Type(TypeName); err != nil {
		return nil, err
	}

	functions := map[string]lua.LGFunction{
		FuncNewWand:     constructor(NewWand),
		FuncNewMelee:    constructor(NewMelee),
		FuncNewDistance: constructor(NewDistance),
	}
	for name, fn := range functions {
		if err := m.Function(name, fn); err != nil {
			return nil, err
		}
	}

	methods := map[string]lua.LGFunction{
		MethodLevel:       setter(domain.Weapon.WithLevel),
		MethodMagicLevel:  setter(domain.Weapon.WithMagicLevel),
		MethodMana:        setter(domain.Weapon.WithMana),
		MethodBreakChance: setter(domain.Weapon.WithBreakChance),
		MethodDamageRange: setDamageRange,
	}
	for name, fn := range methods {
		if err := m.Method(name, fn); err != nil {
			return nil, err
		}
	}

	if err := m.MetaMethod("__tostring", weaponToString); err != nil {
		return nil, err
	}
	return m, nil
}

func constructor(build func(uint32) domain.Weapon) lua.LGFunction {
	return func(L *lua.LState) int {
		id := checkUint32(L, 1)
		return push(L, build(id))
	}
}

func setter(apply func(domain.Weapon, uint32) domain.Weapon) lua.LGFunction {
	return func(L *lua.LState) int {
		h := checkHandle(L, 1)
		v := checkUint32(L, 2)
		return push(L, apply(h.take(), v))
	}
}

func setDamageRange(L *lua.LState) int {
	h := checkHandle(L, 1)
	lo := checkUint32(L, 2)
	hi := checkUint32(L, 3)
	return push(L, h.take().WithDamageRange(lo, hi))
}

func weaponToString(L *lua.LState) int {
	ud := L.CheckUserData(1)
	h, ok := ud.Value.(*handle)
	if !ok {
		L.ArgError(1, ErrMsgWeaponExpected)
	}
	L.Push(lua.LString(h.weapon.String()))
	return 1
}

func push(L *lua.LState, w domain.Weapon) int {
	ud := L.NewUserData()
	ud.Value = &handle{weapon: w}
	L.SetMetatable(ud, L.GetTypeMetatable(TypeName))
	L.Push(ud)
	return 1
}

// checkHandle raises a script error unless argument n is a live weapon handle
func checkHandle(L *lua.LState, n int) *handle {
	ud := L.CheckUserData(n)
	h, ok := ud.Value.(*handle)
	if !ok {
		L.ArgError(n, ErrMsgWeaponExpected)
	}
	if h.moved {
		L.RaiseError(ErrMsgMoved)
	}
	return h
}

// checkUint32 accepts only numbers that are whole and fit in a uint32.
// Numeric strings are rejected.
func checkUint32(L *lua.LState, n int) uint32 {
	lv := L.Get(n)
	num, ok := lv.(lua.LNumber)
	if !ok {
		L.TypeError(n, lua.LTNumber)
	}
	f := float64(num)
	if f != math.Trunc(f) || f < 0 || f > math.MaxUint32 {
		L.ArgError(n, ErrMsgUint32Expected)
	}
	return uint32(f)
}
