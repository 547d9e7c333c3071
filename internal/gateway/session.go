package gateway

import (
	"fmt"
	"sync"

	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/agent"
)

// SessionState tracks where the chat display is in the plan cycle.
type SessionState string

const (
	SessionIdle          SessionState = "idle"
	SessionTaskSubmitted SessionState = "task-submitted"
	SessionPlanRendered  SessionState = "plan-rendered"
)

// ChatMessage is one entry of the rendered conversation.
type ChatMessage struct {
	Role string // "user" or "agent"
	Text string
}

// Session holds the chat display state for the web gateway: the message
// transcript, the task currently in flight and the last rendered plan. It
// cycles idle -> task-submitted -> plan-rendered -> idle; rendering the
// plan-rendered state completes the cycle.
type Session struct {
	mu          sync.Mutex
	state       SessionState
	pendingTask string
	lastTask    string
	lastResult  *agent.Result
	messages    []ChatMessage
}

func NewSession() *Session {
	return &Session{state: SessionIdle}
}

// SubmitTask moves the session from idle to task-submitted and records the
// user's message.
func (s *Session) SubmitTask(task string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionTaskSubmitted {
		return fmt.Errorf("a task is already being planned: %s", s.pendingTask)
	}
	s.state = SessionTaskSubmitted
	s.pendingTask = task
	s.messages = append(s.messages, ChatMessage{Role: "user", Text: task})
	return nil
}

// RenderPlan records the planning outcome and moves to plan-rendered.
func (s *Session) RenderPlan(task string, result *agent.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SessionPlanRendered
	s.pendingTask = ""
	s.lastTask = task
	s.lastResult = result
	s.messages = append(s.messages, ChatMessage{Role: "agent", Text: "Task planned successfully"})
}

// Fail records a planning failure and returns the session to idle.
func (s *Session) Fail(task string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SessionIdle
	s.pendingTask = ""
	s.messages = append(s.messages, ChatMessage{Role: "agent", Text: fmt.Sprintf("Planning failed: %v", err)})
}

// Append adds an agent-side message outside the plan cycle.
func (s *Session) Append(role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, ChatMessage{Role: role, Text: text})
}

// SessionView is an immutable snapshot handed to the renderer.
type SessionView struct {
	State      SessionState
	Messages   []ChatMessage
	LastTask   string
	LastResult *agent.Result
}

// Snapshot returns the current display state. Taking a snapshot of a
// rendered plan completes the cycle back to idle; the transcript and the
// last plan stay visible.
func (s *Session) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := SessionView{
		State:      s.state,
		Messages:   append([]ChatMessage(nil), s.messages...),
		LastTask:   s.lastTask,
		LastResult: s.lastResult,
	}
	if s.state == SessionPlanRendered {
		s.state = SessionIdle
	}
	return view
}
