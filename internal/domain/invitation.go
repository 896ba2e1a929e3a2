package domain

// Invitation is an advisory record of an invite issued to an email address
// for a private group. Admission happens via the group's invite code, not
// via this record; at most one exists per (group, invitee email).
type Invitation struct {
	ID           int32  `json:"id"`
	GroupID      int32  `json:"group_id"`
	InviteeEmail string `json:"invitee_email"`
	CreatedBy    int32  `json:"created_by"`
	CreatedOn    string `json:"created_on"`
}
