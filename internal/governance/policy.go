package governance

import (
	"context"
	"fmt"
	"regexp"
)

// Effect defines the result of a policy evaluation.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Request contains the context of a planning request to be evaluated.
type Request struct {
	Task   string
	ChatID string
}

// Result contains the outcome of a policy evaluation.
type Result struct {
	Effect Effect
	Reason string
}

// PolicyEngine screens incoming tasks before they reach the model.
type PolicyEngine interface {
	Evaluate(ctx context.Context, req Request) (Result, error)
}

// DefaultPolicyEngine denies tasks matching any registered pattern and
// allows everything else.
type DefaultPolicyEngine struct {
	DeniedPatterns []*regexp.Regexp
}

func NewDefaultPolicyEngine() *DefaultPolicyEngine {
	return &DefaultPolicyEngine{
		DeniedPatterns: make([]*regexp.Regexp, 0),
	}
}

func (e *DefaultPolicyEngine) DenyTask(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	e.DeniedPatterns = append(e.DeniedPatterns, re)
	return nil
}

func (e *DefaultPolicyEngine) Evaluate(ctx context.Context, req Request) (Result, error) {
	for _, re := range e.DeniedPatterns {
		if re.MatchString(req.Task) {
			return Result{
				Effect: EffectDeny,
				Reason: fmt.Sprintf("Task matches restricted pattern: %s", re.String()),
			}, nil
		}
	}

	return Result{
		Effect: EffectAllow,
		Reason: "Approved by default policy",
	}, nil
}
