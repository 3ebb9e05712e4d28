package core

import "testing"

func TestTerminal(t *testing.T) {
	tests := []struct {
		state JobState
		want  bool
	}{
		{StatePending, false},
		{StateInProgress, false},
		{StateCompleted, true},
		{StateFailed, true},
		{StateUnknown, false},
	}

	for _, tt := range tests {
		if got := tt.state.Terminal(); got != tt.want {
			t.Errorf("Terminal(%s) = %v, expected %v", tt.state, got, tt.want)
		}
	}
}
