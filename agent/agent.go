// Package agent reviews the trade journal with Gemini.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// ReviewPrompt is the first question of a review.
const ReviewPrompt = "Review my trade journal. What went well, what went wrong, and what should I change?"

// Agent is the review session.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Print       func(w io.Writer, markdown string) // prints answers, plain text by default
	Facilitator *Expert
	Experts     []*Expert
}

// New creates an Agent reading questions from r and writing answers to w.
func New(w io.Writer, r io.Reader, model string, current SnapshotFunc, log zerolog.Logger) *Agent {
	log = log.With().Str("component", "agent").Logger()
	experts := []*Expert{NewJournalist(model, current), NewTrader(model)}
	for _, e := range experts {
		e.Log = log
	}
	facilitator := NewReviewer(model, experts...)
	facilitator.Log = log
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Print:       func(w io.Writer, s string) { fmt.Fprintln(w, s) },
		Experts:     experts,
		Facilitator: facilitator,
	}
}

// Start opens every chat session.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

// Review asks the facilitator for a single review of the journal.
func (a *Agent) Review(ctx context.Context, client *genai.Client) (string, error) {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return "", err
		}
	}
	content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: ReviewPrompt})
	if err != nil {
		return "", err
	}
	return text(content), nil
}

const prompt = "review> "

// Run starts the interactive session, answering prompts first.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to the trade journal review. Type 'bye' to exit.")
	for {
		fmt.Fprint(a.w, prompt)
		var input string
		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		a.Print(a.w, text(content))
	}
}
