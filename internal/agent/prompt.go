package agent

import "fmt"

// plannerPromptTemplate is the single fixed prompt of the system. The
// trailing scaffold nudges the model toward plain "N." numbering instead of
// markdown or nested lists.
const plannerPromptTemplate = `WORKER MODE: Plan this task like a software engineer.

Task: %s

Return ONLY a clean numbered list of 3-5 actionable steps:
1.
2.
3.
4.
5. `

func plannerPrompt(task string) string {
	return fmt.Sprintf(plannerPromptTemplate, task)
}
