package script

import (
	"context"
	"errors"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/osse101/armory/internal/logger"
)

// VM is one independent execution instance of a compiled unit.
// A VM is not safe for concurrent use; create one per goroutine.
type VM struct {
	mu     sync.Mutex
	state  *lua.LState
	unit   *Unit
	loaded bool
	closed bool
}

func newVM(rt *Runtime, unit *Unit) *VM {
	return &VM{state: rt.newState(), unit: unit}
}

// Execute runs the unit's top-level code on first use, then calls the global
// function entry with no arguments and returns its first result.
// The run observes ctx: cancellation or deadline expiry aborts it.
func (vm *VM) Execute(ctx context.Context, entry string) (lua.LValue, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		return nil, &ExecutionError{EntryPoint: entry, Message: ErrMsgVMClosed}
	}

	log := logger.FromContext(ctx)
	L := vm.state
	L.SetContext(ctx)
	defer L.RemoveContext()

	// Top-level code runs at most once per VM, even if it faults.
	if !vm.loaded {
		vm.loaded = true
		for i, proto := range vm.unit.protos {
			L.Push(L.NewFunctionFromProto(proto))
			if err := L.PCall(0, 0, nil); err != nil {
				log.Error(LogMsgExecuteFailed, "source", vm.unit.names[i], "error", err)
				return nil, fault(ctx, entry, err)
			}
		}
	}

	fn := L.GetGlobal(entry)
	if fn.Type() != lua.LTFunction {
		return nil, &ExecutionError{EntryPoint: entry, Message: ErrMsgEntryNotFunction + ", got " + fn.Type().String()}
	}

	log.Debug(LogMsgExecuteStarted, "entry_point", entry)
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		log.Error(LogMsgExecuteFailed, "entry_point", entry, "error", err)
		return nil, fault(ctx, entry, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases the VM's state. Values already returned stay valid.
func (vm *VM) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	vm.closed = true
	vm.state.Close()
}

func fault(ctx context.Context, entry string, err error) *ExecutionError {
	e := &ExecutionError{EntryPoint: entry, Message: err.Error(), Cause: err}
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		e.Message = apiErr.Object.String()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		e.Cause = ctxErr
	}
	return e
}
