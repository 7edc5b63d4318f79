package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/osse101/armory/internal/domain"
)

// Library is a Lua standard library opened into every state
type Library struct {
	Name string
	Open lua.LGFunction
}

// DefaultLibraries are opened when no library set is configured.
// package and base come first, as the other libraries depend on them.
func DefaultLibraries() []Library {
	return []Library{
		{Name: lua.LoadLibName, Open: lua.OpenPackage},
		{Name: lua.BaseLibName, Open: lua.OpenBase},
		{Name: lua.TabLibName, Open: lua.OpenTable},
		{Name: lua.StringLibName, Open: lua.OpenString},
		{Name: lua.MathLibName, Open: lua.OpenMath},
		{Name: lua.CoroutineLibName, Open: lua.OpenCoroutine},
	}
}

// Runtime is the resolved base environment: libraries plus bridge modules.
// It is immutable once built and shared by every VM of a Context.
type Runtime struct {
	libraries []Library
	modules   []*Module
	byName    map[string]*Module
}

func newRuntime(libraries []Library, modules []*Module) (*Runtime, error) {
	if err := checkModules(modules); err != nil {
		return nil, err
	}
	libNames := make(map[string]struct{}, len(libraries))
	for _, lib := range libraries {
		if lib.Name != "" {
			libNames[lib.Name] = struct{}{}
		}
	}
	byName := make(map[string]*Module, len(modules))
	for _, m := range modules {
		if _, ok := libNames[m.name]; ok {
			return nil, fmt.Errorf("%w: %s: %s collides with a standard library", domain.ErrBridgeRegistration, ErrMsgDuplicateModule, m.name)
		}
		byName[m.name] = m
	}
	return &Runtime{
		libraries: append([]Library(nil), libraries...),
		modules:   append([]*Module(nil), modules...),
		byName:    byName,
	}, nil
}

// Modules returns the installed bridge module names in installation order
func (r *Runtime) Modules() []string {
	out := make([]string, len(r.modules))
	for i, m := range r.modules {
		out[i] = m.name
	}
	return out
}

// Libraries returns the opened library names in opening order
func (r *Runtime) Libraries() []string {
	out := make([]string, len(r.libraries))
	for i, lib := range r.libraries {
		out[i] = lib.Name
	}
	return out
}

// newState allocates a fresh state with the runtime's libraries and modules installed
func (r *Runtime) newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range r.libraries {
		L.Push(L.NewFunction(lib.Open))
		L.Push(lua.LString(lib.Name))
		L.Call(1, 0)
	}
	for _, m := range r.modules {
		m.install(L)
	}
	return L
}

// Unit is the compiled, immutable form of a source set: one prototype per source.
// Prototypes are shared read-only across VMs.
type Unit struct {
	names  []string
	protos []*lua.FunctionProto
}

// Sources returns the names of the compiled sources in execution order
func (u *Unit) Sources() []string {
	return append([]string(nil), u.names...)
}

// Len returns the number of compiled sources
func (u *Unit) Len() int {
	return len(u.protos)
}
