package resolver

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"clipwright/internal/logging"
	"clipwright/internal/router"
	"clipwright/internal/services"
)

// ErrNoResolver reports free text given when no language model is configured.
var ErrNoResolver = fmt.Errorf("%w: natural language requires an llm api key", services.ErrConfiguration)

// Plan is an ordered list of instructions plus a reply for the user.
type Plan struct {
	Reply string               `json:"reply"`
	Steps []router.Instruction `json:"steps"`
}

// Empty reports whether the plan has no steps.
func (p Plan) Empty() bool {
	return len(p.Steps) == 0
}

// Resolver turns an utterance into a plan.
type Resolver interface {
	Resolve(ctx context.Context, utterance string) (Plan, error)
}

// Completer issues a JSON chat completion. *Client satisfies it.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Lines resolves utterances written as instructions, one per line.
type Lines struct{}

// Resolve parses every non-blank line with router.ParseLine.
func (Lines) Resolve(_ context.Context, utterance string) (Plan, error) {
	return ParseLines(utterance)
}

// ParseLines parses a multi-line instruction listing. The first bad line
// aborts with its line number.
func ParseLines(text string) (Plan, error) {
	var plan Plan
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		in, ok, err := router.ParseLine(scanner.Text())
		if err != nil {
			return Plan{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if ok {
			plan.Steps = append(plan.Steps, in)
		}
	}
	if err := scanner.Err(); err != nil {
		return Plan{}, fmt.Errorf("read instructions: %w", err)
	}
	plan.Reply = fmt.Sprintf("%d instruction(s) parsed.", len(plan.Steps))
	return plan, nil
}

// LLM resolves free text with a chat model.
type LLM struct {
	completer Completer
	logger    *slog.Logger
	prompt    string
}

// NewLLM builds a model-backed resolver.
func NewLLM(completer Completer, logger *slog.Logger) *LLM {
	return &LLM{
		completer: completer,
		logger:    logging.NewComponentLogger(logger, "resolver"),
		prompt:    SystemPrompt(),
	}
}

type llmStep struct {
	Domain  string `json:"domain"`
	Command string `json:"command"`
	Args    string `json:"args"`
}

type llmPlan struct {
	Reply string    `json:"reply"`
	Steps []llmStep `json:"steps"`
}

// Resolve asks the model for a plan and normalizes its domains.
func (r *LLM) Resolve(ctx context.Context, utterance string) (Plan, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return Plan{Reply: UnknownReply}, nil
	}
	logger := logging.WithContext(ctx, r.logger)
	content, err := r.completer.CompleteJSON(ctx, r.prompt, utterance)
	if err != nil {
		return Plan{}, services.Wrap(services.ErrExternalTool, "resolver", "complete", "language model request failed", err)
	}
	var raw llmPlan
	if err := DecodeJSON(content, &raw); err != nil {
		return Plan{}, services.Wrap(services.ErrExternalTool, "resolver", "decode", "language model returned malformed plan", err)
	}
	plan, err := normalizePlan(raw)
	if err != nil {
		logging.WarnWithContext(logger, "plan rejected", "plan_invalid",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "rephrase the request"),
		)
		return Plan{}, err
	}
	logger.Info("plan resolved",
		logging.EventType("plan_resolved"),
		logging.Int("steps", len(plan.Steps)),
	)
	return plan, nil
}

func normalizePlan(raw llmPlan) (Plan, error) {
	plan := Plan{Reply: strings.TrimSpace(raw.Reply)}
	for i, step := range raw.Steps {
		name := strings.TrimSpace(step.Command)
		if name == "" {
			continue
		}
		if name == router.RenderCommand || name == "render" {
			plan.Steps = append(plan.Steps, router.Instruction{Command: router.RenderCommand})
			continue
		}
		in := router.Instruction{Command: name, Args: strings.TrimSpace(step.Args)}
		if strings.TrimSpace(step.Domain) != "" {
			domain, err := router.ParseDomain(step.Domain)
			if err != nil {
				return Plan{}, fmt.Errorf("step %d: %w", i+1, err)
			}
			in.Domain = domain
		} else if domain, ok := router.DomainOf(name); ok {
			in.Domain = domain
		} else {
			return Plan{}, fmt.Errorf("step %d: %w: %q", i+1, router.ErrUnknownCommand, name)
		}
		plan.Steps = append(plan.Steps, in)
	}
	if plan.Empty() {
		plan.Reply = UnknownReply
	} else if plan.Reply == "" {
		plan.Reply = fmt.Sprintf("%d step(s) planned.", len(plan.Steps))
	}
	return plan, nil
}

// Auto parses direct instructions and falls back to the model for free text.
type Auto struct {
	fallback Resolver
}

// NewAuto builds a resolver that tries Lines first. fallback may be nil, in
// which case free text fails with ErrNoResolver.
func NewAuto(fallback Resolver) *Auto {
	return &Auto{fallback: fallback}
}

// Resolve implements Resolver.
func (a *Auto) Resolve(ctx context.Context, utterance string) (Plan, error) {
	plan, err := ParseLines(utterance)
	if err == nil && !plan.Empty() {
		return plan, nil
	}
	if strings.TrimSpace(utterance) == "" {
		return Plan{Reply: UnknownReply}, nil
	}
	if a.fallback == nil {
		// Text with an argument list was meant as an instruction.
		if err != nil && strings.Contains(utterance, "(") {
			return Plan{}, err
		}
		return Plan{}, ErrNoResolver
	}
	return a.fallback.Resolve(ctx, utterance)
}
