package ecc

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := ErrInvalidPoint.WithDetails("prefix 0x05")
	if !errors.Is(err, ErrInvalidPoint) {
		t.Fatal("decorated error does not match its sentinel")
	}
	if errors.Is(err, ErrInvalidScalar) {
		t.Fatal("error matched an unrelated sentinel")
	}
}

func TestErrorWithCause(t *testing.T) {
	cause := errors.New("read /dev/urandom: broken pipe")
	err := ErrRandomnessSource.WithCause(cause)
	if !errors.Is(err, ErrRandomnessSource) {
		t.Fatal("wrapped error does not match its sentinel")
	}
	if !errors.Is(err, cause) {
		t.Fatal("wrapped error does not unwrap to its cause")
	}
	// The sentinel itself must stay untouched.
	if ErrRandomnessSource.Cause != nil {
		t.Fatal("WithCause mutated the sentinel")
	}
}

func TestErrorWithContext(t *testing.T) {
	err := ErrInvalidScalarLength.
		WithContext("want", 32).
		WithContext("got", 31)
	ctx := GetErrorContext(err)
	if ctx["want"] != 32 || ctx["got"] != 31 {
		t.Fatalf("context not carried: %v", ctx)
	}
	if len(GetErrorContext(ErrInvalidScalarLength)) != 0 {
		t.Fatal("WithContext mutated the sentinel")
	}
}

func TestErrorCategoryAndSeverity(t *testing.T) {
	if !IsErrorCategory(ErrInvalidPoint, ErrorCategoryValidation) {
		t.Fatal("ErrInvalidPoint is not categorized as validation")
	}
	if !IsErrorCategory(ErrDegenerateResult, ErrorCategoryDerivation) {
		t.Fatal("ErrDegenerateResult is not categorized as derivation")
	}
	if !IsErrorSeverity(ErrRandomnessSource, ErrorSeverityCritical) {
		t.Fatal("ErrRandomnessSource is not critical")
	}
	if IsErrorCategory(errors.New("plain"), ErrorCategoryValidation) {
		t.Fatal("plain error matched a category")
	}
}

func TestErrorRecoverable(t *testing.T) {
	if IsRecoverableError(ErrRandomnessSource) {
		t.Fatal("critical error reported as recoverable")
	}
	if !IsRecoverableError(ErrInvalidPointLength) {
		t.Fatal("medium-severity error reported as unrecoverable")
	}
}

func TestWrapError(t *testing.T) {
	inner := fmt.Errorf("limb count mismatch")
	err := WrapError(inner, ErrorCategoryInternal, ErrorSeverityCritical, "FIELD_STATE", "field element corrupted")
	if !errors.Is(err, inner) {
		t.Fatal("wrapped error lost its cause")
	}
	if !IsErrorCategory(err, ErrorCategoryInternal) {
		t.Fatal("wrapped error lost its category")
	}
}
