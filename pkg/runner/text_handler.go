package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
)

// MaxToolResultPreview is how many characters of a tool result are printed.
const MaxToolResultPreview = 100

// TextHandler prints a transcript:
//
//	👤 User: ...
//	🤖 Agent: [Calling tool: get_weather]
//	🔧 Tool Result: ...
//	🤖 Agent: ...
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	// EchoUser prints user messages too. Interactive sessions leave it off
	// since the user just typed them.
	EchoUser bool
	Prompt   string
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithEchoUser prints user messages in the transcript.
func WithEchoUser(echo bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.EchoUser = echo
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	fmt.Fprint(h.Writer, h.Prompt)

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := h.Reader.ReadString('\n')
		// A final line without newline still counts.
		if err == io.EOF && text != "" {
			err = nil
		}
		ch <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return strings.TrimRight(res.text, "\r\n"), res.err
	}
}

func (h *TextHandler) Output(_ context.Context, appended []domain.Message) error {
	for _, m := range appended {
		if line, ok := h.format(m); ok {
			if _, err := fmt.Fprintln(h.Writer, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *TextHandler) Notice(_ context.Context, err error) error {
	_, werr := fmt.Fprintf(h.Writer, "⚠️  %v\n", err)
	return werr
}

func (h *TextHandler) format(m domain.Message) (string, bool) {
	switch m.Role {
	case domain.RoleUser:
		if !h.EchoUser {
			return "", false
		}
		return "\n👤 User: " + m.Content, true
	case domain.RoleAssistant:
		if m.HasToolCalls() {
			return "🤖 Agent: [Calling tool: " + m.ToolCalls[0].Name + "]", true
		}
		return "🤖 Agent: " + h.render(m.Content), true
	case domain.RoleTool:
		return "🔧 Tool Result: " + Preview(m.Content, MaxToolResultPreview), true
	}
	return "", false
}

func (h *TextHandler) render(content string) string {
	if h.Renderer == nil {
		return content
	}
	out, err := h.Renderer(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(out)
}

// Preview cuts s to limit characters, adding an ellipsis when it was longer.
func Preview(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
