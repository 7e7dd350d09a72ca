package foundation

import (
	"errors"
	"testing"
)

func TestResult(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		result := Ok[int, error](7)
		if !result.IsOk() || result.IsErr() {
			t.Fatal("expected ok result")
		}
		if got := result.Unwrap(); got != 7 {
			t.Errorf("expected 7, got %d", got)
		}
		if got := result.UnwrapOr(-1); got != 7 {
			t.Errorf("expected 7, got %d", got)
		}
	})

	t.Run("err", func(t *testing.T) {
		countErr := errors.New("count failed")
		result := Err[int](countErr)
		if result.IsOk() || !result.IsErr() {
			t.Fatal("expected error result")
		}
		if !errors.Is(result.UnwrapErr(), countErr) {
			t.Error("expected the original error")
		}
		if got := result.UnwrapOr(-1); got != -1 {
			t.Errorf("expected fallback, got %d", got)
		}
	})

	t.Run("from tuple", func(t *testing.T) {
		if r := FromTuple[int, error](3, nil); !r.IsOk() || r.Unwrap() != 3 {
			t.Error("expected ok result from nil error")
		}
		if r := FromTuple(0, errors.New("boom")); !r.IsErr() {
			t.Error("expected error result")
		}
	})

	t.Run("zero count is ok", func(t *testing.T) {
		if r := FromTuple[int, error](0, nil); !r.IsOk() || r.Unwrap() != 0 {
			t.Error("zero is a valid count")
		}
	})
}

func TestResult_Panics(t *testing.T) {
	assertPanics := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		fn()
	}
	assertPanics("Unwrap", func() { Err[int](errors.New("x")).Unwrap() })
	assertPanics("UnwrapErr", func() { Ok[int, error](1).UnwrapErr() })
}
