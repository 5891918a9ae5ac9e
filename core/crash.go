package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/market-bubbles/terminal"
)

// CrashHook runs before the terminal reset, typically to finalize the screen and log the panic
type CrashHook func(r any, stack []byte)

var (
	crashMu    sync.Mutex
	crashHooks []CrashHook

	// Swapped by tests
	crashTTY    io.Writer = os.Stdout
	crashStderr io.Writer = os.Stderr
	crashExit             = os.Exit
)

// OnCrash registers a hook for HandleCrash, hooks run in reverse registration order
func OnCrash(h CrashHook) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashHooks = append(crashHooks, h)
}

// HandleCrash is the unified panic handler: run hooks, reset the terminal, print the stack and exit
func HandleCrash(r any) {
	if r == nil {
		return
	}
	stack := debug.Stack()

	crashMu.Lock()
	hooks := make([]CrashHook, len(crashHooks))
	copy(hooks, crashHooks)
	crashMu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		runHook(hooks[i], r, stack)
	}

	// Restore terminal to sane state even if a hook failed
	terminal.EmergencyReset(crashTTY)

	fmt.Fprintf(crashStderr, "\r\n\x1b[31mMARKET-BUBBLES CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(crashStderr, "Stack Trace:\r\n%s\r\n", stack)
	if f, ok := crashStderr.(*os.File); ok {
		_ = f.Sync()
	}

	crashExit(1)
}

// A panicking hook must not skip the reset
func runHook(h CrashHook, r any, stack []byte) {
	defer func() { _ = recover() }()
	h(r, stack)
}

// Recover is deferred at the top of a goroutine body to route panics to HandleCrash
func Recover() {
	if r := recover(); r != nil {
		HandleCrash(r)
	}
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash
func Go(fn func()) {
	go func() {
		defer Recover()
		fn()
	}()
}

// Guard wraps an errgroup body with the same recovery as Go
func Guard(fn func() error) func() error {
	return func() error {
		defer Recover()
		return fn()
	}
}
