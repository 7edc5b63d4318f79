package script

import (
	"fmt"
	"maps"
	"slices"

	lua "github.com/yuin/gopher-lua"

	"github.com/osse101/armory/internal/domain"
)

// Module declares a set of script symbols installed under one global table.
// A module may also declare a userdata type whose values expose methods.
//
// Builder methods are not safe for concurrent use. Build a module once and
// treat it as read-only after it has been handed to a Context.
type Module struct {
	name        string
	typeName    string
	functions   map[string]lua.LGFunction
	methods     map[string]lua.LGFunction
	metamethods map[string]lua.LGFunction
}

// NewModule creates a module installed as the global table name
func NewModule(name string) (*Module, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrBridgeRegistration, ErrMsgEmptyModuleName)
	}
	return &Module{
		name:        name,
		functions:   make(map[string]lua.LGFunction),
		methods:     make(map[string]lua.LGFunction),
		metamethods: make(map[string]lua.LGFunction),
	}, nil
}

// Name returns the global table name
func (m *Module) Name() string { return m.name }

// TypeName returns the userdata type name, or "" when the module declares no type
func (m *Module) TypeName() string { return m.typeName }

// Type declares the userdata type whose metatable carries the module's methods
func (m *Module) Type(typeName string) error {
	if typeName == "" {
		return m.errorf(ErrMsgEmptySymbol)
	}
	if m.typeName != "" {
		return m.errorf("%s: %s", ErrMsgTypeAlreadySet, m.typeName)
	}
	m.typeName = typeName
	return nil
}

// Function registers a function reachable as <module>.<name>
func (m *Module) Function(name string, fn lua.LGFunction) error {
	return m.register(m.functions, name, fn)
}

// Method registers an instance method reachable as value:<name>()
func (m *Module) Method(name string, fn lua.LGFunction) error {
	if m.typeName == "" {
		return m.errorf("%s: %s", ErrMsgMethodWithoutType, name)
	}
	return m.register(m.methods, name, fn)
}

// MetaMethod registers a metamethod such as __tostring on the module's type
func (m *Module) MetaMethod(name string, fn lua.LGFunction) error {
	if m.typeName == "" {
		return m.errorf("%s: %s", ErrMsgMethodWithoutType, name)
	}
	return m.register(m.metamethods, name, fn)
}

// HasFunction reports whether <module>.<name> is registered
func (m *Module) HasFunction(name string) bool {
	_, ok := m.functions[name]
	return ok
}

// Functions returns the registered function names in sorted order
func (m *Module) Functions() []string {
	return slices.Sorted(maps.Keys(m.functions))
}

// Methods returns the registered method names in sorted order
func (m *Module) Methods() []string {
	return slices.Sorted(maps.Keys(m.methods))
}

func (m *Module) register(into map[string]lua.LGFunction, name string, fn lua.LGFunction) error {
	if name == "" {
		return m.errorf(ErrMsgEmptySymbol)
	}
	if fn == nil {
		return m.errorf("%s: %s", ErrMsgNilFunction, name)
	}
	if _, ok := into[name]; ok {
		return m.errorf("%s: %s", ErrMsgDuplicateSymbol, name)
	}
	into[name] = fn
	return nil
}

func (m *Module) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", domain.ErrBridgeRegistration, m.name, fmt.Sprintf(format, args...))
}

// install registers the module in L. Symbols are installed in sorted order so
// every state built from the same modules is laid out identically.
func (m *Module) install(L *lua.LState) {
	if m.typeName != "" {
		mt := L.NewTypeMetatable(m.typeName)
		index := L.NewTable()
		for _, name := range slices.Sorted(maps.Keys(m.methods)) {
			index.RawSetString(name, L.NewFunction(m.methods[name]))
		}
		L.SetField(mt, "__index", index)
		for _, name := range slices.Sorted(maps.Keys(m.metamethods)) {
			L.SetField(mt, name, L.NewFunction(m.metamethods[name]))
		}
	}

	tbl := L.NewTable()
	for _, name := range slices.Sorted(maps.Keys(m.functions)) {
		tbl.RawSetString(name, L.NewFunction(m.functions[name]))
	}
	L.SetGlobal(m.name, tbl)
}

// checkModules validates a module set before any state is built
func checkModules(modules []*Module) error {
	seen := make(map[string]struct{}, len(modules))
	types := make(map[string]struct{}, len(modules))
	for i, m := range modules {
		if m == nil {
			return fmt.Errorf("%w: %s at index %d", domain.ErrBridgeRegistration, ErrMsgNilModule, i)
		}
		if _, ok := seen[m.name]; ok {
			return fmt.Errorf("%w: %s: %s", domain.ErrBridgeRegistration, ErrMsgDuplicateModule, m.name)
		}
		seen[m.name] = struct{}{}
		if m.typeName == "" {
			continue
		}
		if _, ok := types[m.typeName]; ok {
			return fmt.Errorf("%w: %s: type %s", domain.ErrBridgeRegistration, ErrMsgDuplicateSymbol, m.typeName)
		}
		types[m.typeName] = struct{}{}
	}
	return nil
}
