package domain

import "strings"

// revertMarker is the message fragment EVM backends attach to reverted
// calls. Geth, anvil and hardhat all use it, with or without a reason.
const revertMarker = "execution reverted"

// RevertReason reports whether err represents an EVM execution revert
// and extracts the reason string when the backend attached one.
func RevertReason(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	msg := err.Error()
	idx := strings.Index(strings.ToLower(msg), revertMarker)
	if idx == -1 {
		return "", false
	}

	reason := msg[idx+len(revertMarker):]
	reason = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(reason), ":"))
	return reason, true
}
