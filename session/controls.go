package session

import (
	"context"
	"fmt"
)

// Action is one of the user-facing controls.
type Action uint8

const (
	ActionStartCapture Action = iota
	ActionStopCapture
	ActionStartAnalysis
	ActionStopAnalysis
)

var actionLabels = [...]string{
	ActionStartCapture:  "Start Camera",
	ActionStopCapture:   "Stop Camera",
	ActionStartAnalysis: "Start Analysis",
	ActionStopAnalysis:  "Stop Analysis",
}

func (a Action) String() string {
	if int(a) < len(actionLabels) {
		return actionLabels[a]
	}
	return fmt.Sprintf("Action(%d)", a)
}

// Control is an action offered in the current state.
type Control struct {
	Action  Action
	Enabled bool
}

// Controls lists the actions that make sense for st, in display order.
// Analysis controls appear only while capturing, and starting analysis
// stays disabled until the source is ready.
func (st Status) Controls() []Control {
	if !st.Capturing {
		return []Control{{Action: ActionStartCapture, Enabled: true}}
	}
	out := []Control{{Action: ActionStopCapture, Enabled: true}}
	if st.Analyzing {
		return append(out, Control{Action: ActionStopAnalysis, Enabled: true})
	}
	return append(out, Control{Action: ActionStartAnalysis, Enabled: st.Ready})
}

// Do performs a.
func (s *Session) Do(ctx context.Context, a Action) error {
	switch a {
	case ActionStartCapture:
		return s.StartCapture(ctx)
	case ActionStopCapture:
		s.StopCapture()
	case ActionStartAnalysis:
		return s.StartAnalysis(ctx)
	case ActionStopAnalysis:
		s.StopAnalysis()
	default:
		return fmt.Errorf("session: unknown action %d", a)
	}
	return nil
}

// Toggle flips capture (capture true) or analysis (capture false) and
// returns the action taken.
func (s *Session) Toggle(ctx context.Context, capture bool) (Action, error) {
	st := s.Status()
	var a Action
	switch {
	case capture && st.Capturing:
		a = ActionStopCapture
	case capture:
		a = ActionStartCapture
	case st.Analyzing:
		a = ActionStopAnalysis
	default:
		a = ActionStartAnalysis
	}
	return a, s.Do(ctx, a)
}
