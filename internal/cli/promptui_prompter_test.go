package cli

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestPromptUISelect(t *testing.T) {
	stdin := bytes.NewBufferString("")
	pu := NewPromptUIWithIO(stdin, &nopWriteCloser{Writer: bytes.NewBuffer(nil)})
	_, _, err := pu.Select("choose", menuItems, "")
	if err == nil || !errors.Is(err, ErrPromptCancelled) {
		t.Fatalf("expected selection cancellation error")
	}
}

func TestPromptUIPrompt(t *testing.T) {
	stdin := bytes.NewBufferString("")
	pu := NewPromptUIWithIO(stdin, &nopWriteCloser{Writer: bytes.NewBuffer(nil)})
	if _, err := pu.Prompt("enter"); err == nil || !errors.Is(err, ErrPromptCancelled) {
		t.Fatalf("expected prompt cancellation error")
	}
}

func TestPromptUIConfirmCancelledDeclines(t *testing.T) {
	stdin := bytes.NewBufferString("")
	pu := NewPromptUIWithIO(stdin, &nopWriteCloser{Writer: bytes.NewBuffer(nil)})
	if ok, err := pu.Confirm("overwrite?", false); err == nil || !errors.Is(err, ErrPromptCancelled) || ok {
		t.Fatalf("expected confirm cancellation, got ok=%v err=%v", ok, err)
	}
}

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"YES", true},
		{"  Yes  ", true},
		{"", false},
		{"n", false},
		{"no", false},
		{"yep", false},
		{"ye", false},
		{"1", false},
	}
	for _, tt := range tests {
		if got := IsAffirmative(tt.answer); got != tt.want {
			t.Errorf("IsAffirmative(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}
}

func TestPrefixSearcher(t *testing.T) {
	search := prefixSearcher(menuItems)
	if !search("2", menuDisable) {
		t.Error("expected '2' to match the disable entry")
	}
	if search("2", menuEnable) {
		t.Error("expected '2' not to match the enable entry")
	}
	if !search("", menuExit) {
		t.Error("empty input should match everything")
	}
}

func TestMenuSelectStartsInSearchMode(t *testing.T) {
	pu := NewPromptUIWithIO(strings.NewReader(""), &nopWriteCloser{Writer: bytes.NewBuffer(nil)})
	sel := pu.newSelect("Available actions", menuItems, menuHelp)
	if !sel.StartInSearchMode {
		t.Fatal("menu should accept a typed number without pressing '/' first")
	}
	if sel.Searcher == nil || !sel.Searcher("3", menuHelp) {
		t.Fatal("typing '3' should match the help entry")
	}
	if sel.CursorPos != menuHelp {
		t.Errorf("cursor = %d, want %d", sel.CursorPos, menuHelp)
	}
}

func TestToReadCloserPassthrough(t *testing.T) {
	reader := io.NopCloser(strings.NewReader("data"))
	if toReadCloser(reader) != reader {
		t.Fatalf("expected toReadCloser to return original read closer")
	}
	rc := toReadCloser(strings.NewReader("data"))
	if err := rc.Close(); err != nil {
		t.Fatalf("expected close to succeed: %v", err)
	}
}

func TestToWriteCloserPassthrough(t *testing.T) {
	buf := &bytes.Buffer{}
	writer := nopWriteCloser{Writer: buf}
	if toWriteCloser(writer) != writer {
		t.Fatalf("expected toWriteCloser to return original write closer")
	}
	if _, err := toWriteCloser(buf).Write([]byte("hi")); err != nil {
		t.Fatalf("expected wrapped writer to accept data: %v", err)
	}
}

func TestNewPromptUIDefaults(t *testing.T) {
	pu := NewPromptUI()
	if pu == nil {
		t.Fatalf("expected prompt UI instance")
	}
	nop := nopWriteCloser{Writer: bytes.NewBuffer(nil)}
	if err := nop.Close(); err != nil {
		t.Fatalf("close should not error: %v", err)
	}
}
