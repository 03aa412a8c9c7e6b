package main

import "sync"

// Upload states for the admin session.
type uploadState int

const (
	stateIdle uploadState = iota
	stateCollectingSingle
	stateCollectingPackage
	stateCollectingDemoVideo
	stateAwaitingDemoCaption
)

// mediaAction tells the handler what a media arrival did to the session.
type mediaAction int

const (
	actionIgnored     mediaAction = iota // no collecting state active
	actionStoreSingle                    // store as single item, emit link
	actionBuffered                       // appended to the package buffer
	actionStoreDemo                      // store item, then wait for caption
)

// session is one admin upload in progress. Transient, never persisted.
type session struct {
	state       uploadState
	buffer      []MediaEntry
	pendingCode string
}

// sweepLimit bounds the transient tables. Above it the periodic sweep
// clears the whole table — a blunt eviction that drops in-flight sessions,
// accepted to keep memory flat.
const sweepLimit = 200

// Sessions tracks per-admin upload state machines.
type Sessions struct {
	mu sync.Mutex
	m  map[int64]*session
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]*session)}
}

// get must be called with mu held.
func (s *Sessions) get(userID int64) *session {
	sess, ok := s.m[userID]
	if !ok {
		sess = &session{}
		s.m[userID] = sess
	}
	return sess
}

// BeginSingle puts the session into collecting_single.
func (s *Sessions) BeginSingle(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(userID)
	sess.state = stateCollectingSingle
	sess.pendingCode = ""
}

// BeginPackage puts the session into collecting_package with an empty buffer.
func (s *Sessions) BeginPackage(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(userID)
	sess.state = stateCollectingPackage
	sess.buffer = nil
	sess.pendingCode = ""
}

// BeginDemo puts the session into collecting_demo_video.
func (s *Sessions) BeginDemo(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(userID)
	sess.state = stateCollectingDemoVideo
	sess.pendingCode = ""
}

// HandleMedia advances the state machine on media arrival and reports the
// side effect the caller must perform. count is the buffer size after an
// append. Media outside any collecting state is ignored.
func (s *Sessions) HandleMedia(userID int64, entry MediaEntry) (action mediaAction, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[userID]
	if !ok {
		return actionIgnored, 0
	}
	switch sess.state {
	case stateCollectingSingle:
		sess.state = stateIdle
		return actionStoreSingle, 0
	case stateCollectingPackage:
		sess.buffer = append(sess.buffer, entry)
		return actionBuffered, len(sess.buffer)
	case stateCollectingDemoVideo:
		sess.state = stateAwaitingDemoCaption
		return actionStoreDemo, 0
	default:
		return actionIgnored, 0
	}
}

// SetPendingCode remembers the code minted for a demo video so the caption
// that follows can attach to it.
func (s *Sessions) SetPendingCode(userID int64, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(userID).pendingCode = code
}

// TakeCaptionCode pops the pending demo code if the session is waiting for
// a caption. Returns false for any other state.
func (s *Sessions) TakeCaptionCode(userID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[userID]
	if !ok || sess.state != stateAwaitingDemoCaption || sess.pendingCode == "" {
		return "", false
	}
	code := sess.pendingCode
	sess.pendingCode = ""
	sess.state = stateIdle
	return code, true
}

// FinishPackage ends collecting_package. With an empty buffer it reports
// failure and leaves the state unchanged so the admin can keep adding. When
// not collecting a package at all, ok is false and buf is nil.
func (s *Sessions) FinishPackage(userID int64) (buf []MediaEntry, collecting, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, exists := s.m[userID]
	if !exists || sess.state != stateCollectingPackage {
		return nil, false, false
	}
	if len(sess.buffer) == 0 {
		return nil, true, false
	}
	buf = sess.buffer
	sess.buffer = nil
	sess.state = stateIdle
	return buf, true, true
}

// Sweep clears the whole table once it grows past the limit.
func (s *Sessions) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.m) > sweepLimit {
		s.m = make(map[int64]*session)
	}
}

// Len reports the table size (used by tests and the sweep).
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// PendingDeliveries remembers, per user, the content code requested before
// the membership gate stopped them, so a successful recheck resumes exactly
// that delivery. Pop-then-act: a second recheck finds nothing.
type PendingDeliveries struct {
	mu sync.Mutex
	m  map[int64]string
}

func NewPendingDeliveries() *PendingDeliveries {
	return &PendingDeliveries{m: make(map[int64]string)}
}

func (p *PendingDeliveries) Set(userID int64, code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[userID] = code
}

func (p *PendingDeliveries) Take(userID int64) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	code, ok := p.m[userID]
	if ok {
		delete(p.m, userID)
	}
	return code, ok
}

func (p *PendingDeliveries) Sweep() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.m) > sweepLimit {
		p.m = make(map[int64]string)
	}
}

func (p *PendingDeliveries) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}
