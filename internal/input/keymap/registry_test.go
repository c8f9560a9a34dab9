package keymap

import (
	"sync"
	"testing"

	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/when"
)

func TestRegistryRebuildSwapsTable(t *testing.T) {
	var swaps int
	r := NewRegistry([]CommandBinding{
		NewCommandBinding("save", "Ctrl+s"),
	}, OnSwap(func(*Table) { swaps++ }))

	before := r.Table()
	if id, _ := before.Resolve(key.MustDecode("Ctrl+s"), nil); id != "save" {
		t.Fatalf("initial Resolve = %q, want save", id)
	}

	errs := r.Rebuild(map[string]Override{
		"save":    {Keybinding: SetKeybinding(key.MustDecode("Ctrl+d"))},
		"unknown": {Keybinding: RemoveKeybinding()},
	})
	if len(errs) != 1 {
		t.Errorf("Rebuild errors = %v, want 1", errs)
	}

	after := r.Table()
	if after == before {
		t.Fatal("Rebuild should install a new table")
	}
	if id, _ := after.Resolve(key.MustDecode("Ctrl+d"), nil); id != "save" {
		t.Errorf("after Resolve(Ctrl+d) = %q, want save", id)
	}

	// The old snapshot is unchanged.
	if id, _ := before.Resolve(key.MustDecode("Ctrl+s"), nil); id != "save" {
		t.Errorf("old snapshot Resolve(Ctrl+s) = %q, want save", id)
	}
	if swaps != 2 {
		t.Errorf("swaps = %d, want 2", swaps)
	}
	if got := r.Overrides(); len(got) != 2 {
		t.Errorf("len(Overrides) = %d, want 2", len(got))
	}
}

func TestRegistrySetDefaultsKeepsOverrides(t *testing.T) {
	r := NewRegistry(nil)
	r.Rebuild(map[string]Override{"save": {Keybinding: SetKeybinding(key.MustDecode("Ctrl+d"))}})
	if r.Table().Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Table().Len())
	}

	r.SetDefaults([]CommandBinding{NewCommandBinding("save", "Ctrl+s")})
	if id, _ := r.Table().Resolve(key.MustDecode("Ctrl+d"), nil); id != "save" {
		t.Errorf("Resolve(Ctrl+d) = %q, want save", id)
	}
	if got := r.Defaults(); len(got) != 1 {
		t.Errorf("len(Defaults) = %d, want 1", len(got))
	}
}

func TestRegistryConcurrentReaders(t *testing.T) {
	r := NewRegistry(DefaultBindings())
	ctx := when.Snapshot{}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				table := r.Table()
				id, ok := table.Resolve(key.MustDecode("Ctrl+Shift+P"), ctx)
				if !ok || id != "view.commandPalette" {
					t.Errorf("Resolve = %q, %v", id, ok)
					return
				}
			}
		}()
	}
	for j := 0; j < 50; j++ {
		r.Rebuild(map[string]Override{
			"file.save": {Keybinding: SetKeybinding(key.MustDecode("Ctrl+Alt+s"))},
		})
	}
	wg.Wait()
}
