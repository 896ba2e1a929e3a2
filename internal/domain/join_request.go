package domain

type JoinRequestStatus string

const (
	JoinRequestStatusPending  JoinRequestStatus = "PENDING"
	JoinRequestStatusApproved JoinRequestStatus = "APPROVED"
	JoinRequestStatusRejected JoinRequestStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transitions.
func (s JoinRequestStatus) Terminal() bool {
	return s == JoinRequestStatusApproved || s == JoinRequestStatusRejected
}

// CanTransitionTo reports whether the lifecycle allows moving from s to
// next. The only legal moves are PENDING to APPROVED and PENDING to
// REJECTED.
func (s JoinRequestStatus) CanTransitionTo(next JoinRequestStatus) bool {
	return s == JoinRequestStatusPending && next.Terminal()
}

type JoinRequest struct {
	ID        int32             `json:"id"`
	UserID    int32             `json:"user_id"`
	GroupID   int32             `json:"group_id"`
	Status    JoinRequestStatus `json:"status"`
	CreatedOn string            `json:"created_on"`
}
