package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

const (
	// defaultMenuSize is the number of items visible in selection menus
	defaultMenuSize = 10
)

type PromptUI struct {
	stdin  io.ReadCloser
	stdout io.WriteCloser
}

func NewPromptUI() *PromptUI {
	return &PromptUI{stdin: os.Stdin, stdout: os.Stdout}
}

func NewPromptUIWithIO(stdin io.Reader, stdout io.Writer) *PromptUI {
	pu := &PromptUI{stdin: os.Stdin, stdout: os.Stdout}
	if stdin != nil {
		pu.stdin = toReadCloser(stdin)
	}
	if stdout != nil {
		pu.stdout = toWriteCloser(stdout)
	}
	return pu
}

func (p *PromptUI) Select(label string, items []string, defaultValue string) (int, string, error) {
	cursor := 0
	if defaultValue != "" {
		for i, item := range items {
			if item == defaultValue {
				cursor = i
				break
			}
		}
	}

	selectPrompt := p.newSelect(label, items, cursor)
	idx, value, err := selectPrompt.Run()
	if err != nil {
		return idx, value, fmt.Errorf("%w: %v", ErrPromptCancelled, err)
	}
	return idx, value, nil
}

// newSelect builds a menu that starts in search mode, so typing a menu number
// filters the list at once; Enter picks the highlighted item.
func (p *PromptUI) newSelect(label string, items []string, cursor int) *promptui.Select {
	return &promptui.Select{
		Label:             label,
		Items:             items,
		Size:              defaultMenuSize,
		HideHelp:          true,
		CursorPos:         cursor,
		Searcher:          prefixSearcher(items),
		StartInSearchMode: true,
		Stdin:             p.stdin,
		Stdout:            p.stdout,
	}
}

func (p *PromptUI) Prompt(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:  label,
		Stdin:  p.stdin,
		Stdout: p.stdout,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPromptCancelled, err)
	}
	return value, nil
}

// Confirm asks a yes/no question. promptui's IsConfirm mode only accepts a
// bare "y", so the answer is read as free text and parsed by IsAffirmative.
func (p *PromptUI) Confirm(label string, defaultYes bool) (bool, error) {
	prompt := promptui.Prompt{
		Label:  label,
		Stdin:  p.stdin,
		Stdout: p.stdout,
	}
	result, err := prompt.Run()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPromptCancelled, err)
	}
	if strings.TrimSpace(result) == "" {
		return defaultYes, nil
	}
	return IsAffirmative(result), nil
}

// IsAffirmative reports whether an answer is "y" or "yes", ignoring case and
// surrounding whitespace.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// prefixSearcher matches menu items by the number or text typed so far.
func prefixSearcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		input = strings.TrimSpace(input)
		if input == "" {
			return true
		}
		return strings.HasPrefix(strings.ToLower(items[index]), strings.ToLower(input))
	}
}

func toReadCloser(r io.Reader) io.ReadCloser {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}

func toWriteCloser(w io.Writer) io.WriteCloser {
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}
	return nopWriteCloser{Writer: w}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
