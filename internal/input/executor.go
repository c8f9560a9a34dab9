package input

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoExecutor is returned when a command has no registered handler.
var ErrNoExecutor = errors.New("no handler for command")

// Executor runs resolved commands. Execute is called with the handler's
// keystroke lock held and must not feed keystrokes back into the handler.
type Executor interface {
	Execute(cmd Command) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(cmd Command) error

// Execute calls f(cmd).
func (f ExecutorFunc) Execute(cmd Command) error {
	return f(cmd)
}

// Dispatcher is an Executor that routes commands to handlers by id and
// records every command it sees.
type Dispatcher struct {
	mu       sync.Mutex
	commands []Command
	handlers map[string]func(Command) error
	fallback func(Command) error
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		commands: make([]Command, 0),
		handlers: make(map[string]func(Command) error),
	}
}

// Register sets the handler for a command id.
func (d *Dispatcher) Register(commandID string, handler func(Command) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[commandID] = handler
}

// SetFallback sets the handler for commands with no registered handler.
func (d *Dispatcher) SetFallback(handler func(Command) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fallback = handler
}

// Execute records cmd and runs its handler.
func (d *Dispatcher) Execute(cmd Command) error {
	d.mu.Lock()
	d.commands = append(d.commands, cmd)
	handler, ok := d.handlers[cmd.ID]
	if !ok {
		handler = d.fallback
	}
	d.mu.Unlock()

	if handler == nil {
		return fmt.Errorf("%w: %s", ErrNoExecutor, cmd.ID)
	}
	return handler(cmd)
}

// Commands returns all executed commands in order.
func (d *Dispatcher) Commands() []Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	result := make([]Command, len(d.commands))
	copy(result, d.commands)
	return result
}

// Clear removes all recorded commands.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = make([]Command, 0)
}

// Consume delivers commands from the channel to fn until ctx is done or
// the channel is closed.
func Consume(ctx context.Context, commands <-chan Command, fn func(Command)) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			fn(cmd)
		}
	}
}

// Bridge runs a handler's command channel into an executor on its own
// goroutine.
type Bridge struct {
	handler  *Handler
	executor Executor
	onError  func(Command, error)
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewBridge creates a bridge from handler to executor. onError may be nil.
func NewBridge(handler *Handler, executor Executor, onError func(Command, error)) *Bridge {
	return &Bridge{
		handler:  handler,
		executor: executor,
		onError:  onError,
	}
}

// Start begins consuming commands.
func (b *Bridge) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		Consume(ctx, b.handler.Commands(), func(cmd Command) {
			if err := b.executor.Execute(cmd); err != nil && b.onError != nil {
				b.onError(cmd, err)
			}
		})
	}()
}

// Stop stops consuming and waits for the consumer to exit.
func (b *Bridge) Stop() {
	if b.cancel != nil {
		b.cancel()
		b.wg.Wait()
	}
}
