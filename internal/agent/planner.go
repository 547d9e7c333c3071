package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/governance"
	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/observability"
	"github.com/tmc/langchaingo/llms"
)

// StatusPlanned is the only task status the planner writes today.
const StatusPlanned = "planned"

// DecisionStore is the slice of the store the planner needs.
type DecisionStore interface {
	Record(task, decision, reasoning string) (int64, error)
	UpsertPlan(task string, steps []string, status string) error
}

// Result is what one planning invocation produces.
type Result struct {
	Steps      []string `json:"steps"`
	Reasoning  string   `json:"reasoning"`
	DecisionID int64    `json:"decision_id"`
}

// Planner turns a task description into a stored 3-5 step plan with a single
// model call. The model client is injected so tests can substitute a double.
type Planner struct {
	Model  llms.Model
	Store  DecisionStore
	Policy governance.PolicyEngine
	Log    *observability.Logger
}

func NewPlanner(model llms.Model, store DecisionStore, policy governance.PolicyEngine, logger *observability.Logger) *Planner {
	return &Planner{
		Model:  model,
		Store:  store,
		Policy: policy,
		Log:    logger,
	}
}

// PlanTask builds the planner prompt for task, asks the model, extracts the
// plan and persists both the decision record and the plan. Model and storage
// errors propagate to the caller; unparsable model output does not, because
// ExtractPlan always yields a valid plan.
func (p *Planner) PlanTask(ctx context.Context, task string) (*Result, error) {
	if p.Policy != nil {
		res, err := p.Policy.Evaluate(ctx, governance.Request{Task: task})
		if err != nil {
			return nil, err
		}
		if p.Log != nil {
			p.Log.LogPolicyCheck(task, string(res.Effect), res.Reason)
		}
		if res.Effect == governance.EffectDeny {
			return nil, fmt.Errorf("task rejected by policy: %s", res.Reason)
		}
	}

	prompt := plannerPrompt(task)
	completion, err := llms.GenerateFromSinglePrompt(ctx, p.Model, prompt)
	if err != nil {
		return nil, err
	}
	if p.Log != nil {
		p.Log.LogLLM(task, prompt, completion)
	}

	steps := ExtractPlan(strings.TrimSpace(completion))
	reasoning := fmt.Sprintf("Generated %d actionable steps based on task requirements", len(steps))
	decision := fmt.Sprintf("Plan Generated: %d steps", len(steps))

	id, err := p.Store.Record(task, decision, reasoning)
	if err != nil {
		return nil, err
	}
	if p.Log != nil {
		p.Log.LogDecision(task, decision, reasoning)
	}
	if err := p.Store.UpsertPlan(task, steps, StatusPlanned); err != nil {
		return nil, err
	}

	if p.Log != nil {
		p.Log.LogPlan(task, steps, reasoning)
	}

	return &Result{Steps: steps, Reasoning: reasoning, DecisionID: id}, nil
}
