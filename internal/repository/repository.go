package repository

import (
	"context"

	"huddleup-backend/internal/domain"
)

type GroupRepository interface {
	// CreateWithOwner persists the group and enrolls its owner as the first
	// ACTIVE member in a single transaction; a group is never visible
	// without its owner membership.
	CreateWithOwner(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id int32) (*domain.Group, error)
	GetByInviteCode(ctx context.Context, code string) (*domain.Group, error)
	SearchPublic(ctx context.Context, nameFilter string, page, limit int32) ([]domain.Group, int32, error)
}

type MembershipRepository interface {
	// Enroll inserts an ACTIVE membership guarded, in one transaction, by
	// the group's capacity and by the one-group-per-user unique index.
	// Returns domain.ErrCapacityExceeded or domain.ErrAlreadyMember when a
	// guard fails.
	Enroll(ctx context.Context, userID, groupID int32) error
	GetActiveByUser(ctx context.Context, userID int32) (*domain.Membership, error)
	Get(ctx context.Context, userID, groupID int32) (*domain.Membership, error)
	CountActive(ctx context.Context, groupID int32) (int32, error)
	ListByGroup(ctx context.Context, groupID int32) ([]domain.Membership, error)
	Delete(ctx context.Context, userID, groupID int32) error
}

type JoinRequestRepository interface {
	// Create inserts a PENDING request, guarded by the partial unique index
	// that allows at most one PENDING request per (user, group) pair.
	// Returns domain.ErrDuplicateRequest on violation.
	Create(ctx context.Context, req *domain.JoinRequest) error
	GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error)
	GetByUserAndGroup(ctx context.Context, userID, groupID int32) (*domain.JoinRequest, error)
	// UpdateStatus moves a request from one status to another atomically;
	// it returns domain.ErrAlreadyProcessed when the request is no longer
	// in the expected from status.
	UpdateStatus(ctx context.Context, id int32, from, to domain.JoinRequestStatus) error
	// ApproveAndEnroll sets the request APPROVED and inserts the membership
	// in a single transaction, so neither effect can commit without the
	// other. Capacity and one-group-per-user guards apply as in Enroll.
	ApproveAndEnroll(ctx context.Context, requestID, userID, groupID int32) error
	ListPendingByGroup(ctx context.Context, groupID int32) ([]domain.JoinRequest, error)
	DeleteProcessedBefore(ctx context.Context, cutoff string) (int64, error)
}

type InvitationRepository interface {
	// Create records an invite, guarded by the unique constraint allowing
	// one per (group, email). Returns domain.ErrDuplicateInvitation on
	// violation.
	Create(ctx context.Context, inv *domain.Invitation) error
	DeleteCreatedBefore(ctx context.Context, cutoff string) (int64, error)
}
