package main

import (
	"fmt"
	"testing"
)

func TestSingleUploadFlow(t *testing.T) {
	s := NewSessions()
	s.BeginSingle(1)

	action, _ := s.HandleMedia(1, MediaEntry{FileID: "f1", Kind: KindVideo})
	if action != actionStoreSingle {
		t.Fatalf("action = %v, want actionStoreSingle", action)
	}

	// Back to idle: the next media is ignored.
	action, _ = s.HandleMedia(1, MediaEntry{FileID: "f2", Kind: KindVideo})
	if action != actionIgnored {
		t.Errorf("action after completion = %v, want actionIgnored", action)
	}
}

func TestPackageUploadFlow(t *testing.T) {
	s := NewSessions()
	s.BeginPackage(1)

	a1, c1 := s.HandleMedia(1, MediaEntry{FileID: "a", Kind: KindVideo})
	a2, c2 := s.HandleMedia(1, MediaEntry{FileID: "b", Kind: KindPhoto})
	if a1 != actionBuffered || c1 != 1 {
		t.Errorf("first media: action=%v count=%d, want buffered/1", a1, c1)
	}
	if a2 != actionBuffered || c2 != 2 {
		t.Errorf("second media: action=%v count=%d, want buffered/2", a2, c2)
	}

	buf, collecting, ok := s.FinishPackage(1)
	if !collecting || !ok {
		t.Fatalf("FinishPackage = collecting=%v ok=%v, want true/true", collecting, ok)
	}
	if len(buf) != 2 || buf[0].FileID != "a" || buf[1].FileID != "b" {
		t.Errorf("buffer = %+v, want [a b] in order", buf)
	}

	// State is idle again, buffer cleared.
	if action, _ := s.HandleMedia(1, MediaEntry{FileID: "c"}); action != actionIgnored {
		t.Error("media after finish should be ignored")
	}
	if _, collecting, _ := s.FinishPackage(1); collecting {
		t.Error("second finish should find nothing to finish")
	}
}

func TestFinishEmptyPackage(t *testing.T) {
	s := NewSessions()
	s.BeginPackage(1)

	buf, collecting, ok := s.FinishPackage(1)
	if !collecting || ok || buf != nil {
		t.Fatalf("empty finish = %v,%v,%v; want nil,true,false", buf, collecting, ok)
	}

	// State must remain collecting_package so the admin can keep adding.
	if action, count := s.HandleMedia(1, MediaEntry{FileID: "a"}); action != actionBuffered || count != 1 {
		t.Errorf("media after empty finish: action=%v count=%d, want buffered/1", action, count)
	}
}

func TestFinishWithoutPackage(t *testing.T) {
	s := NewSessions()

	if _, collecting, _ := s.FinishPackage(1); collecting {
		t.Error("finish with no session should report nothing to finish")
	}

	s.BeginSingle(1)
	if _, collecting, _ := s.FinishPackage(1); collecting {
		t.Error("finish while collecting single should report nothing to finish")
	}
}

func TestDemoUploadFlow(t *testing.T) {
	s := NewSessions()
	s.BeginDemo(1)

	action, _ := s.HandleMedia(1, MediaEntry{FileID: "f1", Kind: KindVideo})
	if action != actionStoreDemo {
		t.Fatalf("action = %v, want actionStoreDemo", action)
	}
	s.SetPendingCode(1, "code42")

	// No caption taken before one is pending for the right state.
	code, ok := s.TakeCaptionCode(1)
	if !ok || code != "code42" {
		t.Fatalf("TakeCaptionCode = %q,%v; want code42,true", code, ok)
	}

	// Pop-once: a second text is not a caption anymore.
	if _, ok := s.TakeCaptionCode(1); ok {
		t.Error("second TakeCaptionCode should fail")
	}
}

func TestTakeCaptionCodeWrongState(t *testing.T) {
	s := NewSessions()
	if _, ok := s.TakeCaptionCode(1); ok {
		t.Error("no session: should not yield a caption code")
	}

	s.BeginPackage(1)
	s.SetPendingCode(1, "leak")
	if _, ok := s.TakeCaptionCode(1); ok {
		t.Error("collecting_package: should not yield a caption code")
	}
}

func TestBeginPackageResetsBuffer(t *testing.T) {
	s := NewSessions()
	s.BeginPackage(1)
	s.HandleMedia(1, MediaEntry{FileID: "stale"})

	s.BeginPackage(1)
	if _, count := s.HandleMedia(1, MediaEntry{FileID: "fresh"}); count != 1 {
		t.Errorf("count = %d, want 1 (buffer reset on re-begin)", count)
	}
}

func TestSessionsSweep(t *testing.T) {
	s := NewSessions()
	for i := 0; i < sweepLimit; i++ {
		s.BeginSingle(int64(i))
	}
	s.Sweep()
	if got := s.Len(); got != sweepLimit {
		t.Fatalf("sweep at limit cleared table: len = %d", got)
	}

	s.BeginSingle(int64(sweepLimit))
	s.Sweep()
	if got := s.Len(); got != 0 {
		t.Errorf("sweep above limit: len = %d, want 0", got)
	}
}

func TestPendingDeliveries(t *testing.T) {
	p := NewPendingDeliveries()

	p.Set(1, "codeA")
	p.Set(1, "codeB") // later request wins

	code, ok := p.Take(1)
	if !ok || code != "codeB" {
		t.Errorf("Take = %q,%v; want codeB,true", code, ok)
	}

	// Pop-then-act: a double recheck finds nothing.
	if _, ok := p.Take(1); ok {
		t.Error("second Take should find nothing")
	}
}

func TestPendingDeliveriesSweep(t *testing.T) {
	p := NewPendingDeliveries()
	for i := 0; i <= sweepLimit; i++ {
		p.Set(int64(i), fmt.Sprintf("code%d", i))
	}
	p.Sweep()
	if got := p.Len(); got != 0 {
		t.Errorf("sweep above limit: len = %d, want 0", got)
	}
}
