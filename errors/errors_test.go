package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseConvert,
				Kind:     KindTypeMismatch,
				Path:     []string{"V3i", "x"},
				GoType:   "int",
				HostType: "float",
				Detail:   "cannot convert",
			},
			contains: []string{"[convert]", "type_mismatch", "V3i.x", "expected int", "got float", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseIndex,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[index]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseCall,
				Kind:   KindPanic,
				Detail: "native panic",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[call]", "panic", "native panic", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := InvalidValue(PhaseConstruct, "negative length %d", -1)
	if got := err.Message(); got != "negative length -1" {
		t.Errorf("Message() = %q", got)
	}

	typed := ScalarKind(PhaseConvert, []string{"V3i"}, "int", "float")
	if got := typed.Message(); got != typed.Error() {
		t.Errorf("Message() = %q, want full rendering", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseTranslate,
		Kind:  KindUnregistered,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseConvert,
		Kind:  KindTypeMismatch,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseConvert, Kind: KindTypeMismatch}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseIndex, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseConvert, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseConvert, Kind: KindTypeMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseConvert, KindTypeMismatch).
		Path("V3f", "x").
		GoType("float").
		HostType("str").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "float", "str").
		Build()

	if err.Phase != PhaseConvert {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseConvert)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "V3f" || err.Path[1] != "x" {
		t.Errorf("Path = %v, want [V3f x]", err.Path)
	}
	if err.GoType != "float" {
		t.Errorf("GoType = %v, want 'float'", err.GoType)
	}
	if err.HostType != "str" {
		t.Errorf("HostType = %v, want 'str'", err.HostType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected float, got str" {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("ArgumentCount", func(t *testing.T) {
		err := ArgumentCount(PhaseConstruct, "V3f", "0, 1 or 3", 2)
		if err.Kind != KindArgument {
			t.Errorf("Kind = %v, want %v", err.Kind, KindArgument)
		}
		if !strings.Contains(err.Detail, "(2 given)") {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("UnsupportedOperands", func(t *testing.T) {
		err := UnsupportedOperands("+", "V3i", "V3f")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
		want := "unsupported operand type(s) for +: 'V3i' and 'V3f'"
		if err.Detail != want {
			t.Errorf("Detail = %q, want %q", err.Detail, want)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseIndex, []string{"IntArray"}, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		err := LengthMismatch(PhaseOperator, 3, 4)
		if err.Kind != KindLengthMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindLengthMismatch)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseConvert, []string{"val"}, 300, "unsigned char")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
		if err.Value != 300 {
			t.Errorf("Value = %v, want 300", err.Value)
		}
	})

	t.Run("Unregistered", func(t *testing.T) {
		err := Unregistered("native", "CustomExc")
		if err.Kind != KindUnregistered || err.Phase != PhaseTranslate {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
	})

	t.Run("Panic", func(t *testing.T) {
		err := Panic(PhaseCall, "boom")
		if err.Kind != KindPanic {
			t.Errorf("Kind = %v, want %v", err.Kind, KindPanic)
		}
		if !strings.Contains(err.Detail, "boom") {
			t.Errorf("Detail = %v", err.Detail)
		}

		cause := errors.New("wrapped")
		err = Panic(PhaseCall, cause)
		if !errors.Is(err, cause) {
			t.Error("panic with error value should unwrap to it")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseAttribute, "'V3f' object", "w")
		if err.Detail != "'V3f' object has no attribute 'w'" {
			t.Errorf("Detail = %v", err.Detail)
		}
	})
}
