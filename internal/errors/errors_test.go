package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	plain := New(ErrorTypeValidation, SeverityHigh, "bad threshold")
	if plain.Error() != "bad threshold" {
		t.Errorf("Error() = %q", plain.Error())
	}

	wrapped := Wrap(fmt.Errorf("exit status 128"), ErrorTypeGit, SeverityHigh, "git log failed")
	if wrapped.Error() != "git log failed: exit status 128" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, ErrorTypeGit, SeverityHigh, "ignored") != nil {
		t.Error("Wrap(nil) must return nil")
	}
}

func TestUnwrapAndIs(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NetworkError(cause, "clone failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause must survive errors.Is")
	}
	if !stderrors.Is(err, &Error{Type: ErrorTypeNetwork}) {
		t.Error("category matching must work through errors.Is")
	}
	if stderrors.Is(err, &Error{Type: ErrorTypeDatabase}) {
		t.Error("different categories must not match")
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(ConfigError("missing token")) {
		t.Error("config errors are fatal")
	}
	if IsFatal(ValidationError("bad flag")) {
		t.Error("validation errors are not fatal")
	}
	if IsFatal(fmt.Errorf("plain")) {
		t.Error("untyped errors are not fatal")
	}
	if IsFatal(nil) {
		t.Error("nil is not fatal")
	}
}

func TestGetTypeAndSeverity(t *testing.T) {
	err := GitError(fmt.Errorf("boom"), "blame failed")
	if GetType(err) != ErrorTypeGit {
		t.Errorf("GetType() = %v", GetType(err))
	}
	if GetSeverity(err) != SeverityHigh {
		t.Errorf("GetSeverity() = %v", GetSeverity(err))
	}
	if GetType(fmt.Errorf("plain")) != ErrorTypeInternal {
		t.Error("untyped errors default to internal")
	}
	if GetSeverity(fmt.Errorf("plain")) != SeverityMedium {
		t.Error("untyped errors default to medium severity")
	}
}

func TestWithContextAndDetail(t *testing.T) {
	err := ValidationError("threshold out of range").
		WithContext("threshold", 1.5).
		WithContext("flag", "--threshold")

	detail := err.DetailedString()
	for _, want := range []string{"[HIGH]", "[VALIDATION]", "threshold out of range", "--threshold"} {
		if !strings.Contains(detail, want) {
			t.Errorf("DetailedString() missing %q in %q", want, detail)
		}
	}
}
