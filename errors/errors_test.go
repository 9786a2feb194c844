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
				Phase:    PhaseArgument,
				Kind:     KindTypeMismatch,
				Argument: "Signal::locking",
				TypeName: "Signal",
				TypeID:   4,
				Detail:   "expected bool, holds string",
			},
			contains: []string{"[argument]", "type_mismatch", "Signal::locking", "Signal(#4)", "expected bool"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLookup,
				Kind:  KindNotFound,
			},
			contains: []string{"[lookup]", "not_found"},
		},
		{
			name: "handle only",
			err: &Error{
				Phase:  PhaseConstruct,
				Kind:   KindNotFound,
				TypeID: 12,
			},
			contains: []string{"[construct]", "type #12"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseManifest,
				Kind:   KindInvalidData,
				Detail: "decode manifest",
				Cause:  errors.New("yaml: line 3"),
			},
			contains: []string{"[manifest]", "invalid_data", "decode manifest", "caused by", "yaml: line 3"},
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

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseManifest,
		Kind:  KindInvalidData,
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
		Phase:    PhaseRegister,
		Kind:     KindNotExtendable,
		TypeName: "List",
	}

	if !err.Is(&Error{Phase: PhaseRegister, Kind: KindNotExtendable}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseLookup, Kind: KindNotExtendable}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseRegister, Kind: KindNotFound}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseRegister, Kind: KindNotExtendable}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}

	wrapped := Wrap(PhaseManifest, KindInvalidData, err, "outer")
	if !Is(wrapped, target) {
		t.Error("Is should see through Cause")
	}
	var got *Error
	if !As(errors.Join(errors.New("other"), err), &got) || got != err {
		t.Error("As should find the structured error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseLifecycle, KindUseAfterFree).
		Type("Output", 7).
		Argument("Output::name").
		Value(42).
		Cause(cause).
		Detail("destroyed %d times", 2).
		Build()

	if err.Phase != PhaseLifecycle {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseLifecycle)
	}
	if err.Kind != KindUseAfterFree {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUseAfterFree)
	}
	if err.TypeName != "Output" || err.TypeID != 7 {
		t.Errorf("Type = %s/%d, want Output/7", err.TypeName, err.TypeID)
	}
	if err.Argument != "Output::name" {
		t.Errorf("Argument = %v", err.Argument)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "destroyed 2 times" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseConstruct, "type", 9)
		if err.Kind != KindNotFound || err.TypeID != 9 {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseArgument, "List::value", "bool", "string")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if !strings.Contains(err.Error(), "List::value") {
			t.Errorf("message %q should name the argument", err.Error())
		}
	})

	t.Run("NotExtendable", func(t *testing.T) {
		err := NotExtendable("Signal", 2)
		if err.Phase != PhaseRegister || err.Kind != KindNotExtendable {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("Cycle", func(t *testing.T) {
		err := Cycle([]string{"A", "B"})
		if err.Kind != KindCycle || !strings.Contains(err.Detail, "A, B") {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("LiveInstance", func(t *testing.T) {
		err := LiveInstance("Device", 3, 11, 2)
		if err.Kind != KindLiveInstances {
			t.Errorf("Kind = %v", err.Kind)
		}
		if !strings.Contains(err.Error(), "instance 11") {
			t.Errorf("message %q should name the instance", err.Error())
		}
	})
}

func TestRecover(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if Recover(nil) != nil {
			t.Error("Recover(nil) should be nil")
		}
	})

	t.Run("runtime error", func(t *testing.T) {
		var got *Error
		func() {
			defer func() { got = Recover(recover()) }()
			panic(Closed(PhaseRegister))
		}()
		if got == nil || got.Kind != KindClosed {
			t.Fatalf("got %v, want closed error", got)
		}
	})

	t.Run("foreign panic", func(t *testing.T) {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("expected foreign panic to propagate, got %v", r)
			}
		}()
		func() {
			defer func() { Recover(recover()) }()
			panic("boom")
		}()
	})
}
