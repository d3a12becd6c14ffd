package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
)

// JSONHandler implements IOHandler over JSON lines.
// Every Output is one Response object per line; system messages are {"system": "..."}.
// Input lines may be a JSON event object, a JSON string holding a text command, or plain text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder

	mu sync.Mutex // guards Encoder
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
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

type systemMessage struct {
	System string `json:"system"`
}

func (h *JSONHandler) encode(v any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(v)
}

func (h *JSONHandler) Output(ctx context.Context, resp *Response) error {
	if resp == nil {
		return nil
	}
	return h.encode(resp)
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := h.Reader.ReadString('\n')
		ch <- result{text: text, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-ch:
	}

	if res.err != nil && (res.err != io.EOF || strings.TrimSpace(res.text) == "") {
		return "", res.err
	}

	text := strings.TrimSpace(res.text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	return SanitizeInput(text)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.encode(systemMessage{System: msg})
}
