package purchase

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusCreated, StatusPaid, true},
		{StatusCreated, StatusFailed, true},
		{StatusPaid, StatusSettled, true},
		{StatusPaid, StatusFailed, true},
		{StatusSettled, StatusFulfilled, true},
		{StatusFulfilled, StatusRefunded, true},
		{StatusFulfilled, StatusFailed, false},
		{StatusCreated, StatusSettled, false},
		{StatusRefunded, StatusPaid, false},
		{StatusFailed, StatusPaid, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
