package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/itinerary"
)

// TextHandler implements the interactive text interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// Prompt is printed before every read. Empty disables it.
	Prompt string

	// Hints prints the commands available on the current screen after each view.
	Hints bool

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrompt overrides the "> " prompt.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// WithHints toggles the per-screen command hints.
func WithHints(enabled bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.Hints = enabled
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
		Hints:  true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// initPump starts the reader goroutine once, so a blocked read never outlives a cancelled Input.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, resp *Response) error {
	if resp == nil {
		return nil
	}

	content := resp.View.Markdown
	if resp.Itinerary != nil {
		content = itinerary.Markdown(resp.Itinerary)
	}
	if h.Renderer != nil {
		if rendered, err := h.Renderer(content); err == nil {
			content = rendered
		}
	}
	if _, err := fmt.Fprintln(h.Writer, strings.TrimSpace(content)); err != nil {
		return err
	}

	if h.Hints && resp.Itinerary == nil {
		if hint := Hint(resp.View); hint != "" {
			fmt.Fprintf(h.Writer, "\n%s\n", hint)
		}
	}
	return nil
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			if h.Prompt != "" {
				fmt.Fprint(h.Writer, h.Prompt)
			}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := SanitizeInput(res.text)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}

// Hint lists the text commands matching the events allowed on the view's screen.
func Hint(v domain.View) string {
	var cmds []string
	for _, kind := range v.Allowed {
		switch kind {
		case domain.EventStart:
			cmds = append(cmds, "start")
		case domain.EventAdvance:
			cmds = append(cmds, "next")
		case domain.EventRetreat:
			cmds = append(cmds, "back")
		case domain.EventSetField:
			cmds = append(cmds, "set <field> <value>")
		case domain.EventToggleInterest:
			cmds = append(cmds, "toggle <tag>")
		case domain.EventEdit:
			cmds = append(cmds, "edit")
		case domain.EventRestart:
			cmds = append(cmds, "restart")
		}
	}
	if v.Screen == domain.ScreenReviewing {
		cmds = append(cmds, "itinerary")
	}
	if len(cmds) == 0 {
		return ""
	}
	return "Commands: " + strings.Join(append(cmds, "help", "quit"), " | ")
}
