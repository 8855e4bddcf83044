package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := New(CategoryToolCheck, SeverityFatal, "screen not found")
	if e.Error() != "toolcheck (fatal): screen not found" {
		t.Errorf("unexpected format: %s", e.Error())
	}

	cause := stderrors.New("exit status 128")
	wrapped := Wrap(cause, CategoryVersion, SeverityFatal, "describe failed")
	if wrapped.Error() != "version (fatal): describe failed: exit status 128" {
		t.Errorf("unexpected format: %s", wrapped.Error())
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("expected wrapped cause to unwrap")
	}
}

func TestWithContext(t *testing.T) {
	e := New(CategoryFileSystem, SeverityFatal, "data directory missing").
		WithContext("dir", "profiles").
		WithContext("base", "/src/pscreen")

	if e.Context["dir"] != "profiles" || e.Context["base"] != "/src/pscreen" {
		t.Errorf("context not recorded: %+v", e.Context)
	}
}
