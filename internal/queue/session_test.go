package queue

import "testing"

func TestSessionKey_NamespacedPerSession(t *testing.T) {
	a := sessionKey("session-1")
	b := sessionKey("session-2")
	if a == b {
		t.Fatal("expected distinct sessions to produce distinct keys")
	}
	if a != "dspm:known_entities:session-1" {
		t.Errorf("unexpected key format: %s", a)
	}
}
