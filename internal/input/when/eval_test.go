package when

import (
	"fmt"
	"sync"
	"testing"
)

func TestEvaluate(t *testing.T) {
	ctx := Snapshot{
		"editorFocus":    Bool(true),
		"inputFocus":     Bool(false),
		"resourceLangId": String("go"),
		"emptyString":    String(""),
		"tabCount":       Number(3),
		"zero":           Number(0),
		"numericString":  String("42"),
	}

	tests := []struct {
		clause string
		want   bool
	}{
		{"", true},
		{"editorFocus", true},
		{"inputFocus", false},
		{"!inputFocus", true},
		{"emptyString", false},
		{"resourceLangId", true},
		{"tabCount", true},
		{"zero", false},
		{"missing", false},
		{"!missing", true},
		{"editorFocus && !inputFocus", true},
		{"editorFocus && inputFocus", false},
		{"inputFocus || resourceLangId == go", true},
		{"(inputFocus || editorFocus) && tabCount", true},

		// string context values
		{"resourceLangId == go", true},
		{"resourceLangId == 'go'", true},
		{"resourceLangId == python", false},
		{"resourceLangId != python", true},
		{"numericString == 42", true},
		{"numericString == 41", false},

		// bool context values
		{"editorFocus == true", true},
		{"editorFocus == 'true'", true},
		{"editorFocus == TRUE", true},
		{"editorFocus == 1", true},
		{"inputFocus == false", true},
		{"inputFocus == 0", true},
		{"editorFocus == yes", false},

		// number context values
		{"tabCount == 3", true},
		{"tabCount == '3'", true},
		{"tabCount == 3.0", true},
		{"tabCount != 4", true},
		{"zero == false", true},
		{"tabCount == three", false},

		// missing keys
		{"missing == go", false},
		{"missing != go", true},
		{"missing == false", false},
	}

	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			e, err := Parse(tt.clause)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.clause, err)
			}
			if got := Evaluate(e, ctx); got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.clause, got, tt.want)
			}
		})
	}
}

func TestEvaluateMissingKeySafety(t *testing.T) {
	contexts := []Context{
		nil,
		Empty,
		Snapshot{},
		Snapshot{"y": Bool(true), "X": Bool(true)},
		ContextFunc(func(string) (Value, bool) { return nil, false }),
	}
	e := MustParse("x")
	for i, ctx := range contexts {
		if Evaluate(e, ctx) {
			t.Errorf("context %d: Evaluate(x) = true, want false", i)
		}
	}
}

func TestEvaluateDeterminism(t *testing.T) {
	ctx := Snapshot{"a": Bool(true), "n": Number(1), "s": String("v")}
	clauses := []string{"a && n == 1", "s != v || !a", "missing", "(a || missing) && s"}
	for _, c := range clauses {
		e := MustParse(c)
		first := Evaluate(e, ctx)
		for i := 0; i < 100; i++ {
			if got := Evaluate(e, ctx); got != first {
				t.Fatalf("Evaluate(%q) changed on call %d: %v then %v", c, i, first, got)
			}
		}
	}
}

func TestEvaluateShortCircuit(t *testing.T) {
	var lookups []string
	ctx := ContextFunc(func(name string) (Value, bool) {
		lookups = append(lookups, name)
		return Bool(name == "yes"), true
	})

	Evaluate(MustParse("no && other"), ctx)
	if len(lookups) != 1 {
		t.Errorf("&& lookups = %v, want only the left operand", lookups)
	}

	lookups = nil
	Evaluate(MustParse("yes || other"), ctx)
	if len(lookups) != 1 {
		t.Errorf("|| lookups = %v, want only the left operand", lookups)
	}
}

func TestEvaluateString(t *testing.T) {
	ctx := Snapshot{"a": Bool(true)}
	if !EvaluateString("a", ctx) {
		t.Error("EvaluateString(a) = false, want true")
	}
	if EvaluateString("a &&", ctx) {
		t.Error("unparsable clause should evaluate to false")
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		in   any
		want Value
		ok   bool
	}{
		{true, Bool(true), true},
		{"s", String("s"), true},
		{3, Number(3), true},
		{int64(-2), Number(-2), true},
		{uint8(7), Number(7), true},
		{1.5, Number(1.5), true},
		{Number(9), Number(9), true},
		{nil, nil, false},
		{[]string{"x"}, nil, false},
	}
	for _, tt := range tests {
		got, ok := ValueOf(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ValueOf(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSnapshotFrom(t *testing.T) {
	snap, skipped := SnapshotFrom(map[string]any{
		"editorFocus": true,
		"lang":        "go",
		"count":       int64(2),
		"nested":      map[string]any{"x": 1},
	})
	if len(snap) != 3 {
		t.Errorf("len(snap) = %d, want 3", len(snap))
	}
	if len(skipped) != 1 || skipped[0] != "nested" {
		t.Errorf("skipped = %v, want [nested]", skipped)
	}
	if !EvaluateString("editorFocus && lang == go && count == 2", snap) {
		t.Error("snapshot clause should be true")
	}
}

func TestSnapshotClone(t *testing.T) {
	orig := Snapshot{"a": Bool(true)}
	clone := orig.Clone().Set("a", Bool(false))
	if !orig["a"].Truthy() {
		t.Error("Clone should not share storage")
	}
	if clone["a"].Truthy() {
		t.Error("Set on clone did not apply")
	}
}

func TestCache(t *testing.T) {
	c := NewCache(2)

	e1, err := c.Get("a && b")
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	e2, _ := c.Get("a && b")
	if e1.String() != e2.String() {
		t.Errorf("cached expr differs: %q vs %q", e1, e2)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	if _, err := c.Get("a &&"); err == nil {
		t.Error("Get(invalid) should return error")
	}
	if c.Err("a &&") == nil {
		t.Error("Err(invalid) should be remembered")
	}
	if errs := c.Errors(); len(errs) != 1 {
		t.Errorf("Errors() = %v, want one entry", errs)
	}

	// Touch "a && b" so "a &&" is the eviction candidate.
	c.Get("a && b")
	c.Get("c")
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if errs := c.Errors(); len(errs) != 0 {
		t.Errorf("Errors() after eviction = %v, want none", errs)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestCacheEvaluateFailsClosed(t *testing.T) {
	c := NewCache(0)
	ctx := Snapshot{"a": Bool(true)}
	if c.Evaluate("a ||", ctx) {
		t.Error("invalid clause evaluated true")
	}
	if !c.Evaluate("a", ctx) {
		t.Error("valid clause evaluated false")
	}
	if !c.Evaluate("", ctx) {
		t.Error("empty clause evaluated false")
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := NewCache(8)
	ctx := Snapshot{"k3": Bool(true)}
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				clause := fmt.Sprintf("k%d", (g+i)%16)
				got := c.Evaluate(clause, ctx)
				if want := clause == "k3"; got != want {
					t.Errorf("Evaluate(%q) = %v, want %v", clause, got, want)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}
