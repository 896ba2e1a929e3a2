package service

import (
	"context"

	"huddleup-backend/internal/domain"
)

// GroupService coordinates every group and membership operation. It owns
// the permission checks and the one-group-per-user rule; capacity and
// lifecycle guards are enforced together with the store's atomic writes.
type GroupService interface {
	CreateGroup(ctx context.Context, actor domain.Actor, spec domain.GroupSpec) (*domain.Group, error)
	SearchPublicGroups(ctx context.Context, nameFilter string, page, limit int32) ([]domain.Group, int32, error)
	RequestToJoin(ctx context.Context, actor domain.Actor, groupID int32) (*domain.JoinRequest, error)
	ApproveJoinRequest(ctx context.Context, actor domain.Actor, requestID int32) error
	RejectJoinRequest(ctx context.Context, actor domain.Actor, requestID int32) error
	InviteUserToPrivateGroup(ctx context.Context, actor domain.Actor, groupID int32, inviteeEmail string) (string, error)
	JoinPrivateGroup(ctx context.Context, actor domain.Actor, inviteCode string) (*domain.Group, error)
	RemoveMember(ctx context.Context, actor domain.Actor, groupID, targetUserID int32) error
	LeaveGroup(ctx context.Context, actor domain.Actor) error
	GetMyGroup(ctx context.Context, actor domain.Actor) (*domain.Group, error)
	ListGroupMembers(ctx context.Context, actor domain.Actor, groupID int32) ([]domain.Membership, error)
	ListPendingJoinRequests(ctx context.Context, actor domain.Actor, groupID int32) ([]domain.JoinRequest, error)
}

// EmailService delivers outbound notifications. Delivery is best-effort;
// membership operations never fail on a send error.
type EmailService interface {
	SendGroupInvitation(ctx context.Context, toEmail, groupName, inviteCode, invitedBy string) error
}
