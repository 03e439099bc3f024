package platform

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestPortFromNameIsStable(t *testing.T) {
	first := portFromName("Pomodoro")
	if first != portFromName("Pomodoro") {
		t.Error("port should be deterministic")
	}
	if first < 20000 || first > 39999 {
		t.Errorf("port %d out of range", first)
	}
}

func TestSecondInstanceActivatesFirst(t *testing.T) {
	name := fmt.Sprintf("pomodoro-test-%d", time.Now().UnixNano())
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("port unavailable: %v", err)
	}
	defer guard.Release()

	activated := make(chan struct{}, 1)
	guard.Serve(func() { activated <- struct{}{} })

	if _, err := AcquireSingleInstance(name); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("first instance was not activated")
	}
}

func TestReleaseFreesPort(t *testing.T) {
	name := fmt.Sprintf("pomodoro-release-%d", time.Now().UnixNano())
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("port unavailable: %v", err)
	}
	guard.Serve(nil)
	if err := guard.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	again, err := AcquireSingleInstance(name)
	if err != nil {
		t.Fatalf("expected to reacquire, got %v", err)
	}
	_ = again.Release()
}
