package admin

import (
	"strings"
	"unicode/utf8"

	"timeshare/internal/apperr"
	"timeshare/internal/profile"
)

const MinStatusReasonLength = 5

// StatusChange validates an account status update. Non-active statuses need a
// reason; going back to active clears it.
func StatusChange(rawStatus, rawReason string) (profile.AccountStatus, *string, error) {
	status, err := profile.ParseAccountStatus(strings.TrimSpace(rawStatus))
	if err != nil {
		return "", nil, apperr.Invalid("VALIDATION_FAILED", "status must be one of: active, on_hold, banned")
	}
	if status == profile.AccountActive {
		return status, nil, nil
	}
	reason := strings.TrimSpace(rawReason)
	if utf8.RuneCountInString(reason) < MinStatusReasonLength {
		return "", nil, apperr.Invalid("REASON_TOO_SHORT", "Please provide a reason of at least 5 characters.")
	}
	return status, &reason, nil
}
