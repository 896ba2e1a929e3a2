package domain

// Membership records current group belonging. A user holds at most one at
// a time, and a group holds at most MaxCapacity of them; both limits are
// enforced by the store (unique index on user_id, capacity-guarded insert).
type Membership struct {
	UserID    int32  `json:"user_id"`
	GroupID   int32  `json:"group_id"`
	CreatedOn string `json:"created_on"`
}
