package domain

type GroupVisibility string

const (
	GroupVisibilityPublic  GroupVisibility = "PUBLIC"
	GroupVisibilityPrivate GroupVisibility = "PRIVATE"
)

const (
	MinGroupCapacity int32 = 2
	MaxGroupCapacity int32 = 1000
)

type Group struct {
	ID          int32           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	MaxCapacity int32           `json:"max_capacity"`
	Visibility  GroupVisibility `json:"visibility"`
	InviteCode  *string         `json:"invite_code,omitempty"` // set iff visibility is PRIVATE
	OwnerID     int32           `json:"owner_id"`
	CreatedOn   string          `json:"created_on"`
	UpdatedOn   string          `json:"updated_on"`
	MemberCount int32           `json:"member_count"` // populated on reads
}

// GroupSpec is the caller-supplied shape for creating a group.
type GroupSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	MaxCapacity int32           `json:"max_capacity"`
	Visibility  GroupVisibility `json:"visibility"`
}

func (s *GroupSpec) Validate() error {
	if s.MaxCapacity < MinGroupCapacity || s.MaxCapacity > MaxGroupCapacity {
		return ErrInvalidCapacity
	}
	if s.Name == "" {
		return &Error{Kind: KindInvalidArgument, Message: "group name is required"}
	}
	if s.Visibility != GroupVisibilityPublic && s.Visibility != GroupVisibilityPrivate {
		return &Error{Kind: KindInvalidArgument, Message: "visibility must be PUBLIC or PRIVATE"}
	}
	return nil
}
