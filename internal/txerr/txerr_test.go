package txerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	e := New(KindElementNotFound, "elem_123")
	if e.Error() != "element-not-found: elem_123" {
		t.Errorf("Error() = %q", e.Error())
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(KindPTYError, cause, "spawn failed")
	if !errors.Is(e, cause) {
		t.Errorf("errors.Is should see through to the cause")
	}
}

func TestKindOfThroughFmtWrap(t *testing.T) {
	e := New(KindSessionNotFound, "abc")
	wrapped := fmt.Errorf("while listing: %w", e)
	if KindOf(wrapped) != KindSessionNotFound {
		t.Errorf("KindOf did not see through fmt.Errorf wrapping")
	}
}

func TestKindOfUnknown(t *testing.T) {
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Errorf("KindOf of a plain error should be KindUnknown")
	}
}

func TestToolCodeFor(t *testing.T) {
	if ToolCodeFor(KindInvalidInput) != ToolInvalidParams {
		t.Errorf("invalid-input should map to invalid-params")
	}
	if ToolCodeFor(KindPTYError) != ToolInternalError {
		t.Errorf("pty-error should map to internal-error")
	}
}
