package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

var (
	errNoCommand      = errors.New("no command given")
	errUnknownCommand = errors.New("unknown command")
)

func newRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(&CheckScriptsCommand{})
	registry.Register(&BenchCommand{})
	registry.Register(&DoctorCommand{})
	return registry
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	registry := newRegistry()
	if err := registry.Dispatch(os.Args[1:]); err != nil {
		stdout.line(statusFail, "%v", err)
		if errors.Is(err, errNoCommand) || errors.Is(err, errUnknownCommand) {
			registry.PrintHelp()
		}
		os.Exit(1)
	}
}
