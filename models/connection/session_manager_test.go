package connection

import (
	"reflect"
	"testing"
)

func TestSessionManagerRegistry(t *testing.T) {
	asm := NewArmadaSessionManager()

	if _, err := asm.FindSession(3); err == nil {
		t.Fatalf("expected: error\tgot: nil")
	}

	for _, id := range []int{4, 0, 2} {
		asm.Register(id, &Session{id: "s"})
	}

	expected := []int{0, 2, 4}
	if ids := asm.PlayerIds(); !reflect.DeepEqual(ids, expected) {
		t.Fatalf("expected: %v\tgot: %v", expected, ids)
	}

	if session := asm.Remove(2); session == nil {
		t.Fatalf("expected: session\tgot: nil")
	}
	if session := asm.Remove(2); session != nil {
		t.Fatalf("expected: nil\tgot: %v", session)
	}
	if _, err := asm.FindSession(2); err == nil {
		t.Fatalf("expected: error\tgot: nil")
	}
}

func TestCommunicateUnknownPlayer(t *testing.T) {
	asm := NewArmadaSessionManager()
	if err := asm.Communicate(7, NewMessage[NoPayload](CodeWaiting)); err == nil {
		t.Fatalf("expected: error\tgot: nil")
	}
}

func TestIsConnClosed(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "closed", err: NewConnErr(ConnClosed), expected: true},
		{name: "loop break", err: NewConnErr(ConnLoopBreak).AddDesc("write failed"), expected: true},
		{name: "retry", err: NewConnErr(ConnLoopRetry), expected: false},
		{name: "nil", err: nil, expected: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsConnClosed(test.err); got != test.expected {
				t.Fatalf("expected: %v\tgot: %v", test.expected, got)
			}
		})
	}
}
