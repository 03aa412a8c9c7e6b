package main

import (
	"log/slog"
	"time"
)

// Scheduler fires one-shot message deletions after the visibility window.
// Timers are independent: one firing, failing, or being dropped never
// affects another. There is no cancellation and no persistence — timers
// pending at shutdown are simply lost, leaving those messages undeleted.
type Scheduler struct {
	delay  time.Duration
	delete func(chatID int64, messageID int) error
}

func NewScheduler(delay time.Duration, deleteFn func(chatID int64, messageID int) error) *Scheduler {
	return &Scheduler{delay: delay, delete: deleteFn}
}

// ScheduleDelete registers exactly one deletion of (chatID, messageID)
// after the configured delay. The attempt is best-effort: already-deleted,
// no-permission and network failures are all swallowed without retry.
func (s *Scheduler) ScheduleDelete(chatID int64, messageID int) {
	time.AfterFunc(s.delay, func() {
		if err := s.delete(chatID, messageID); err != nil {
			slog.Debug("scheduler: delete failed", "chat", chatID, "msg", messageID, "err", err)
		}
	})
}
