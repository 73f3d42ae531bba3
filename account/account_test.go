package account

import "testing"

func TestEmergentAccounts(t *testing.T) {
	op := EmergentOperating("agent-1")
	res := EmergentReserve("agent-1")

	if !op.IsEmergentOperating() {
		t.Error("expected operating account to report IsEmergentOperating")
	}
	if !res.IsEmergentReserve() {
		t.Error("expected reserve account to report IsEmergentReserve")
	}
	if op.EmergentID() != "agent-1" {
		t.Errorf("EmergentID: got %s, want agent-1", op.EmergentID())
	}
	if res.EmergentID() != "agent-1" {
		t.Errorf("EmergentID: got %s, want agent-1", res.EmergentID())
	}
	if !op.IsEmergent() || !res.IsEmergent() {
		t.Error("expected both wallets to report IsEmergent")
	}
}

func TestClassifyBucket(t *testing.T) {
	tests := []struct {
		acct Account
		want Bucket
	}{
		{Account("user_123"), BucketUser},
		{Platform, BucketPlatform},
		{Reserves, BucketPlatform},
		{EmergentOperating("a"), BucketEmergent},
		{EmergentReserve("a"), BucketEmergent},
	}
	for _, tt := range tests {
		if got := ClassifyBucket(tt.acct); got != tt.want {
			t.Errorf("ClassifyBucket(%s): got %s, want %s", tt.acct, got, tt.want)
		}
	}
}

func TestIsSystem(t *testing.T) {
	if !Platform.IsSystem() {
		t.Error("expected Platform to be a system account")
	}
	if Account("user_abc").IsSystem() {
		t.Error("expected user account not to be a system account")
	}
}
