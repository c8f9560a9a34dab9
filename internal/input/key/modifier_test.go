package key

import (
	"testing"
)

func TestModifierHas(t *testing.T) {
	tests := []struct {
		mod    Modifier
		check  Modifier
		expect bool
	}{
		{ModNone, ModCtrl, false},
		{ModCtrl, ModCtrl, true},
		{ModCtrl | ModAlt, ModCtrl, true},
		{ModCtrl | ModAlt, ModAlt, true},
		{ModCtrl | ModAlt, ModShift, false},
		{ModCtrl | ModAlt | ModShift | ModMeta, ModMeta, true},
	}

	for _, tt := range tests {
		if got := tt.mod.Has(tt.check); got != tt.expect {
			t.Errorf("Modifier(%d).Has(%d) = %v, want %v", tt.mod, tt.check, got, tt.expect)
		}
	}
}

func TestModifierWithout(t *testing.T) {
	mod := ModCtrl | ModAlt | ModShift
	mod = mod.Without(ModAlt)
	if mod.HasAlt() {
		t.Error("Without(ModAlt) should remove Alt")
	}
	if !mod.HasCtrl() || !mod.HasShift() {
		t.Error("Without(ModAlt) should keep Ctrl and Shift")
	}
}

func TestNewModifier(t *testing.T) {
	if got := NewModifier(true, false, true, false); got != ModCtrl|ModShift {
		t.Errorf("NewModifier(ctrl, shift) = %v, want Ctrl+Shift", got)
	}
	if got := NewModifier(false, false, false, false); !got.IsEmpty() {
		t.Errorf("NewModifier() = %v, want empty", got)
	}
}

func TestModifierString(t *testing.T) {
	tests := []struct {
		mod  Modifier
		want string
	}{
		{ModNone, ""},
		{ModCtrl, "Ctrl"},
		{ModAlt, "Alt"},
		{ModShift, "Shift"},
		{ModMeta, "Meta"},
		{ModShift | ModCtrl, "Ctrl+Shift"},
		{ModMeta | ModAlt, "Alt+Meta"},
		{ModCtrl | ModAlt | ModShift | ModMeta, "Ctrl+Alt+Shift+Meta"},
	}

	for _, tt := range tests {
		if got := tt.mod.String(); got != tt.want {
			t.Errorf("Modifier(%d).String() = %q, want %q", tt.mod, got, tt.want)
		}
	}
}

func TestModifierFromName(t *testing.T) {
	tests := []struct {
		name string
		want Modifier
	}{
		{"Ctrl", ModCtrl},
		{"control", ModCtrl},
		{"ALT", ModAlt},
		{"option", ModAlt},
		{"Shift", ModShift},
		{"cmd", ModMeta},
		{"Super", ModMeta},
		{"hyper", ModNone},
	}

	for _, tt := range tests {
		if got := ModifierFromName(tt.name); got != tt.want {
			t.Errorf("ModifierFromName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
