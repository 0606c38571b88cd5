package adminaction

type ActionType string

const (
	ActionVerifyBooking    ActionType = "VERIFY_BOOKING"
	ActionRefundBooking    ActionType = "REFUND_BOOKING"
	ActionSetAccountStatus ActionType = "SET_ACCOUNT_STATUS"
)

type TargetType string

const (
	TargetBooking TargetType = "booking"
	TargetProfile TargetType = "profile"
)
