package agent

import "strings"

// FillerStep pads a plan that came back with fewer than three usable steps.
const FillerStep = "Review and validate implementation"

const (
	minSteps = 3
	maxSteps = 5

	// The "N." numbering marker has to appear this early in a line for the
	// line to count as a numbered item.
	markerWindow = 10

	// Anything at or below this length after stripping the marker is a
	// placeholder ("1.", "2. TBD"), not a step.
	minStepLen = 10
)

// ExtractPlan turns raw model output into a normalized plan of three to five
// steps. The model is asked for a clean numbered list but does not always
// comply, so the heuristic favors precision: a line must start with a digit,
// carry a '.' marker near the front, and have meaningful text after it.
// Whatever falls short is dropped, and the result is padded with FillerStep
// up to the three-step minimum. Malformed input never causes an error; the
// worst case is a plan of three filler steps.
func ExtractPlan(raw string) []string {
	var plan []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] < '0' || line[0] > '9' || len(line) <= 5 {
			continue
		}

		window := line
		if len(window) > markerWindow {
			window = window[:markerWindow]
		}
		dot := strings.Index(window, ".")
		if dot < 0 {
			continue
		}

		step := strings.TrimSpace(line[dot+1:])
		if len(step) <= minStepLen {
			continue
		}

		plan = append(plan, step)
		if len(plan) >= maxSteps {
			break
		}
	}

	for len(plan) < minSteps {
		plan = append(plan, FillerStep)
	}

	return plan
}
