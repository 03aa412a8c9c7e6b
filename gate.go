package main

import "log/slog"

// Membership failure policies. fail_closed treats a lookup error on any
// channel as "not a member"; fail_open skips the channel that errored and
// keeps checking the rest. Default is fail_closed.
const (
	FailClosed = "fail_closed"
	FailOpen   = "fail_open"
)

// isAllowedStatus reports whether a chat-member status passes the gate.
func isAllowedStatus(status string) bool {
	return status == "member" || status == "administrator" || status == "creator"
}

// checkMembership reports whether the user belongs to every channel in the
// list. An empty list always passes. lookup resolves the user's status in
// one channel; how its errors count is decided by failPolicy.
func checkMembership(channels []string, userID int64, failPolicy string, lookup func(channel string, userID int64) (string, error)) bool {
	for _, ch := range channels {
		status, err := lookup(ch, userID)
		if err != nil {
			slog.Error("gate: membership lookup failed", "channel", ch, "user", userID, "err", err)
			if failPolicy == FailOpen {
				continue
			}
			return false
		}
		if !isAllowedStatus(status) {
			return false
		}
	}
	return true
}
