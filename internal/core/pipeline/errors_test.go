package pipeline

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := Errf(KindLowSignal, nil, "sparse")
	if KindOf(base) != KindLowSignal {
		t.Errorf("kind = %q", KindOf(base))
	}

	wrapped := fmt.Errorf("handler: %w", base)
	if KindOf(wrapped) != KindLowSignal {
		t.Errorf("wrapped kind = %q", KindOf(wrapped))
	}

	if KindOf(errors.New("raw")) != KindInternal {
		t.Error("unclassified error should report internal")
	}
}

func TestMessageOfHidesInternalDetail(t *testing.T) {
	internal := Errf(KindInternal, errors.New("nil pointer in dispatcher"), "unhandled generation type")
	if msg := MessageOf(internal); msg != "something went wrong during processing" {
		t.Errorf("internal message leaked: %q", msg)
	}

	visible := Errf(KindEmptyContent, nil, "no text content could be extracted from the file")
	if msg := MessageOf(visible); msg != "no text content could be extracted from the file" {
		t.Errorf("message = %q", msg)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("bucket gone")
	err := Errf(KindStorage, cause, "failed to store the original file")
	if !errors.Is(err, cause) {
		t.Error("cause not reachable via errors.Is")
	}
}
