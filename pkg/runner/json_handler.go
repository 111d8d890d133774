package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
)

// JSONHandler implements IOHandler with JSON Lines.
//
// Each input line is either a JSON string, an object {"input": "..."}, or raw
// text. Each invocation emits one line {"messages": [...]}.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

type jsonInput struct {
	Input string `json:"input"`
}

type jsonOutput struct {
	Messages []domain.Message `json:"messages,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := h.Reader.ReadString('\n')
	if err != nil && !(err == io.EOF && text != "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return s, nil
	}
	var obj jsonInput
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj.Input != "" {
		return obj.Input, nil
	}
	return text, nil
}

func (h *JSONHandler) Output(_ context.Context, appended []domain.Message) error {
	return h.Encoder.Encode(jsonOutput{Messages: appended})
}

func (h *JSONHandler) Notice(_ context.Context, err error) error {
	return h.Encoder.Encode(jsonOutput{Error: err.Error()})
}
