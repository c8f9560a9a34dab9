package input

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestDispatcherRouting(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.Register("file.save", func(cmd Command) error {
		got = append(got, cmd.ID)
		return nil
	})

	if err := d.Execute(Command{ID: "file.save"}); err != nil {
		t.Errorf("Execute(file.save) error = %v", err)
	}
	err := d.Execute(Command{ID: "file.open"})
	if !errors.Is(err, ErrNoExecutor) {
		t.Errorf("Execute(file.open) error = %v, want ErrNoExecutor", err)
	}

	if len(got) != 1 || got[0] != "file.save" {
		t.Errorf("handled = %v", got)
	}
	if n := len(d.Commands()); n != 2 {
		t.Errorf("recorded %d commands, want 2", n)
	}
	d.Clear()
	if n := len(d.Commands()); n != 0 {
		t.Errorf("after Clear recorded %d commands", n)
	}
}

func TestExecutorFunc(t *testing.T) {
	var seen string
	var e Executor = ExecutorFunc(func(cmd Command) error {
		seen = cmd.ID
		return nil
	})
	_ = e.Execute(Command{ID: "x"})
	if seen != "x" {
		t.Errorf("seen = %q, want x", seen)
	}
}

func TestConsumeStopsOnClose(t *testing.T) {
	ch := make(chan Command, 2)
	ch <- Command{ID: "a"}
	ch <- Command{ID: "b"}
	close(ch)

	var got []string
	Consume(context.Background(), ch, func(cmd Command) {
		got = append(got, cmd.ID)
	})
	if len(got) != 2 {
		t.Errorf("consumed %v, want [a b]", got)
	}
}

func TestConsumeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Consume(ctx, make(chan Command), func(Command) {})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Consume did not return after cancel")
	}
}

func TestBridge(t *testing.T) {
	h := NewHandler(testRegistry(), DefaultConfig())
	defer h.Close()

	var (
		mu       sync.Mutex
		executed []string
		failed   []string
	)
	exec := ExecutorFunc(func(cmd Command) error {
		mu.Lock()
		defer mu.Unlock()
		executed = append(executed, cmd.ID)
		if cmd.ID == "edit.copy" {
			return errors.New("clipboard unavailable")
		}
		return nil
	})
	b := NewBridge(h, exec, func(cmd Command, _ error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, cmd.ID)
	})
	b.Start()

	h.HandleKeystroke(ks("Ctrl+s"))
	h.HandleKeystroke(ks("Ctrl+c"))

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := len(executed)
		mu.Unlock()
		if n == 2 || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	b.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(executed) != 2 {
		t.Fatalf("executed = %v, want 2 commands", executed)
	}
	if len(failed) != 1 || failed[0] != "edit.copy" {
		t.Errorf("failed = %v, want [edit.copy]", failed)
	}
}
