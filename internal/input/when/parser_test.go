package when

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "true"},
		{"   ", "true"},
		{"editorFocus", "editorFocus"},
		{"!editorFocus", "!editorFocus"},
		{"!!editorFocus", "!!editorFocus"},
		{"a && b", "a && b"},
		{"a || b", "a || b"},
		{"a || b && c", "a || b && c"},
		{"(a || b) && c", "(a || b) && c"},
		{"!(a && b)", "!(a && b)"},
		{"lang == 'go'", `lang == "go"`},
		{`lang == "go"`, `lang == "go"`},
		{"lang == go", `lang == "go"`},
		{"lang != go", `lang != "go"`},
		{"count == 3", "count == 3"},
		{"count != -1.5", "count != -1.5"},
		{"flag == true", "flag == true"},
		{"flag === false", "flag == false"},
		{"true", "true"},
		{"false || x", "false || x"},
		{"config.editor.wordWrap", "config.editor.wordWrap"},
		{"view == workbench.panel.terminal", `view == "workbench.panel.terminal"`},
		{"$special && _under", "$special && _under"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got := e.String(); got != tt.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	e := MustParse("a || b && !c")
	or, ok := e.(OrExpr)
	if !ok {
		t.Fatalf("top = %T, want OrExpr", e)
	}
	and, ok := or.Right.(AndExpr)
	if !ok {
		t.Fatalf("right = %T, want AndExpr", or.Right)
	}
	if _, ok := and.Right.(NotExpr); !ok {
		t.Errorf("and.Right = %T, want NotExpr", and.Right)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
	}{
		{"a &", 2},
		{"a | b", 2},
		{"a = b", 2},
		{"&& a", 0},
		{"a &&", 4},
		{"a ||", 4},
		{"!", 1},
		{"(a", 0},
		{"a)", 1},
		{"a b", 2},
		{"a ==", 4},
		{"a == &&", 5},
		{"'unterminated", 0},
		{"a == 'x", 5},
		{"a @ b", 2},
		{"-", 0},
		{"()", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.input)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Parse(%q) error %v is not ErrSyntax", tt.input, err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error type = %T, want *ParseError", tt.input, err)
			}
			if pe.Pos != tt.pos {
				t.Errorf("Parse(%q) error pos = %d, want %d (%s)", tt.input, pe.Pos, tt.pos, pe.Message)
			}
		})
	}
}

func TestParseErrorHint(t *testing.T) {
	_, err := Parse("a & b")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T", err)
	}
	want := "a & b\n  ^"
	if got := pe.Hint(); got != want {
		t.Errorf("Hint() = %q, want %q", got, want)
	}
	if !strings.Contains(pe.Error(), "position 2") {
		t.Errorf("Error() = %q, want position", pe.Error())
	}
}

func TestRoundTripString(t *testing.T) {
	clauses := []string{
		"a && (b || c)",
		"!(a == 'x y') || b",
		"count != 0 && !readonly",
		`path == "a\"b"`,
	}
	ctx := Snapshot{"a": Bool(true), "b": Bool(false), "c": Bool(true), "count": Number(2)}
	for _, c := range clauses {
		e1 := MustParse(c)
		e2, err := Parse(e1.String())
		if err != nil {
			t.Fatalf("reparse %q: %v", e1.String(), err)
		}
		if Evaluate(e1, ctx) != Evaluate(e2, ctx) {
			t.Errorf("reparse of %q changed meaning", c)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on invalid clause")
		}
	}()
	MustParse("a &&")
}

func TestValidatePositionHint(t *testing.T) {
	res := Validate("editorTextFocus && focus &")
	if res.IsValid {
		t.Fatal("Validate should reject a lone '&'")
	}
	if want := "unexpected '&' (did you mean '&&'?) at position 25"; res.Error != want {
		t.Errorf("Validate().Error = %q, want %q", res.Error, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"", true},
		{"editorFocus && !inputFocus", true},
		{"a == ", false},
		{"a &", false},
		{"(((", false},
	}
	for _, tt := range tests {
		res := Validate(tt.input)
		if res.IsValid != tt.valid {
			t.Errorf("Validate(%q).IsValid = %v, want %v", tt.input, res.IsValid, tt.valid)
		}
		if tt.valid && res.Error != "" {
			t.Errorf("Validate(%q).Error = %q, want empty", tt.input, res.Error)
		}
		if !tt.valid && !strings.Contains(res.Error, "position") {
			t.Errorf("Validate(%q).Error = %q, want position hint", tt.input, res.Error)
		}
	}
}
