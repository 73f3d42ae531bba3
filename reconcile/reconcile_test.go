package reconcile

import "testing"

func TestEvaluateBalanced(t *testing.T) {
	run := Evaluate(10000, 10000, true, nil, 1000)
	if run.Status != StatusBalanced {
		t.Errorf("got %s, want balanced", run.Status)
	}
	if run.AlertTriggered {
		t.Error("balanced run should not trigger an alert")
	}
}

func TestEvaluateDeficitTriggersAlert(t *testing.T) {
	run := Evaluate(10000, 9950, true, nil, 1000)
	if run.Status != StatusDeficit {
		t.Errorf("got %s, want deficit", run.Status)
	}
	if !run.AlertTriggered {
		t.Error("deficit beyond threshold must trigger an alert")
	}
}

func TestEvaluateSurplus(t *testing.T) {
	run := Evaluate(10000, 10050, true, nil, 1000)
	if run.Status != StatusSurplus {
		t.Errorf("got %s, want surplus", run.Status)
	}
}

func TestEvaluateInsolvencyAlwaysAlerts(t *testing.T) {
	run := Evaluate(10000, 10000, false, nil, 1000)
	if !run.AlertTriggered {
		t.Error("insolvency must always trigger an alert even with zero drift")
	}
}
