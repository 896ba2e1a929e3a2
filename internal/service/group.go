package service

import (
	"context"
	"fmt"

	"huddleup-backend/internal/domain"
	"huddleup-backend/internal/logger"
	"huddleup-backend/internal/repository"
)

type groupService struct {
	groupRepo  repository.GroupRepository
	memberRepo repository.MembershipRepository
	reqRepo    repository.JoinRequestRepository
	inviteRepo repository.InvitationRepository
	codeGen    *InviteCodeGenerator
	emailSvc   EmailService
}

func NewGroupService(
	groupRepo repository.GroupRepository,
	memberRepo repository.MembershipRepository,
	reqRepo repository.JoinRequestRepository,
	inviteRepo repository.InvitationRepository,
	codeGen *InviteCodeGenerator,
	emailSvc EmailService,
) GroupService {
	return &groupService{
		groupRepo:  groupRepo,
		memberRepo: memberRepo,
		reqRepo:    reqRepo,
		inviteRepo: inviteRepo,
		codeGen:    codeGen,
		emailSvc:   emailSvc,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, actor domain.Actor, spec domain.GroupSpec) (*domain.Group, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.memberRepo.GetActiveByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadyMember
	}

	group := &domain.Group{
		Name:        spec.Name,
		Description: spec.Description,
		MaxCapacity: spec.MaxCapacity,
		Visibility:  spec.Visibility,
		OwnerID:     actor.ID,
	}
	if spec.Visibility == domain.GroupVisibilityPrivate {
		code, err := s.codeGen.Generate(ctx)
		if err != nil {
			return nil, err
		}
		group.InviteCode = &code
	}

	// Owner enrollment happens in the same transaction as the insert; the
	// unique index on user_id closes the race this pre-check leaves open.
	if err := s.groupRepo.CreateWithOwner(ctx, group); err != nil {
		return nil, err
	}
	group.MemberCount = 1
	return group, nil
}

func (s *groupService) SearchPublicGroups(ctx context.Context, nameFilter string, page, limit int32) ([]domain.Group, int32, error) {
	return s.groupRepo.SearchPublic(ctx, nameFilter, page, limit)
}

func (s *groupService) RequestToJoin(ctx context.Context, actor domain.Actor, groupID int32) (*domain.JoinRequest, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Visibility != domain.GroupVisibilityPublic {
		return nil, domain.ErrPrivateGroupJoin
	}

	existing, err := s.memberRepo.GetActiveByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadyMember
	}

	count, err := s.memberRepo.CountActive(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	if count >= group.MaxCapacity {
		return nil, domain.ErrCapacityExceeded
	}

	pending, err := s.reqRepo.GetByUserAndGroup(ctx, actor.ID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pending request: %w", err)
	}
	if pending != nil {
		return nil, domain.ErrDuplicateRequest
	}

	req := &domain.JoinRequest{
		UserID:  actor.ID,
		GroupID: groupID,
		Status:  domain.JoinRequestStatusPending,
	}
	if err := s.reqRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ApproveJoinRequest re-validates the requester's situation at approval
// time: both the one-group-per-user rule and the capacity limit may have
// changed since the request was filed. A requester who joined elsewhere
// consumes the request (auto-reject); a full group leaves it PENDING for
// the owner to retry or reject.
func (s *groupService) ApproveJoinRequest(ctx context.Context, actor domain.Actor, requestID int32) error {
	req, err := s.validateOwnedRequest(ctx, actor, requestID)
	if err != nil {
		return err
	}

	existing, err := s.memberRepo.GetActiveByUser(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("failed to check requester membership: %w", err)
	}
	if existing != nil {
		return s.rejectStaleRequest(ctx, req.ID)
	}

	err = s.reqRepo.ApproveAndEnroll(ctx, req.ID, req.UserID, req.GroupID)
	if domain.IsKind(err, domain.KindAlreadyMember) {
		// The requester joined another group between the pre-check and the
		// commit; the transaction rolled back, so the request is still
		// PENDING and can be consumed the same way.
		return s.rejectStaleRequest(ctx, req.ID)
	}
	return err
}

// rejectStaleRequest consumes a request whose user joined elsewhere and
// reports the conflict to the approving owner.
func (s *groupService) rejectStaleRequest(ctx context.Context, requestID int32) error {
	if err := s.reqRepo.UpdateStatus(ctx, requestID, domain.JoinRequestStatusPending, domain.JoinRequestStatusRejected); err != nil {
		return err
	}
	return domain.ErrRequesterConflict
}

func (s *groupService) RejectJoinRequest(ctx context.Context, actor domain.Actor, requestID int32) error {
	req, err := s.validateOwnedRequest(ctx, actor, requestID)
	if err != nil {
		return err
	}
	return s.reqRepo.UpdateStatus(ctx, req.ID, domain.JoinRequestStatusPending, domain.JoinRequestStatusRejected)
}

func (s *groupService) InviteUserToPrivateGroup(ctx context.Context, actor domain.Actor, groupID int32, inviteeEmail string) (string, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return "", err
	}
	if group.OwnerID != actor.ID {
		return "", domain.ErrNotOwner
	}
	if group.Visibility != domain.GroupVisibilityPrivate {
		return "", domain.ErrNotPrivateGroup
	}
	if group.InviteCode == nil {
		return "", fmt.Errorf("private group %d is missing its invite code", group.ID)
	}

	count, err := s.memberRepo.CountActive(ctx, groupID)
	if err != nil {
		return "", fmt.Errorf("failed to count members: %w", err)
	}
	if count >= group.MaxCapacity {
		return "", domain.ErrCapacityExceeded
	}

	inv := &domain.Invitation{
		GroupID:      groupID,
		InviteeEmail: inviteeEmail,
		CreatedBy:    actor.ID,
	}
	if err := s.inviteRepo.Create(ctx, inv); err != nil {
		return "", err
	}

	// Delivery belongs to the email collaborator; a send failure must not
	// undo the recorded invitation.
	if err := s.emailSvc.SendGroupInvitation(ctx, inviteeEmail, group.Name, *group.InviteCode, actor.Email); err != nil {
		logger.Warn("Failed to send invitation email", "group_id", groupID, "invitee", inviteeEmail, "error", err)
	}

	return *group.InviteCode, nil
}

func (s *groupService) JoinPrivateGroup(ctx context.Context, actor domain.Actor, inviteCode string) (*domain.Group, error) {
	group, err := s.groupRepo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}

	existing, err := s.memberRepo.GetActiveByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadyMember
	}

	if err := s.memberRepo.Enroll(ctx, actor.ID, group.ID); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) RemoveMember(ctx context.Context, actor domain.Actor, groupID, targetUserID int32) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID != actor.ID {
		return domain.ErrNotOwner
	}
	if targetUserID == actor.ID {
		return domain.ErrSelfRemoval
	}

	membership, err := s.memberRepo.Get(ctx, targetUserID, groupID)
	if err != nil {
		return fmt.Errorf("failed to look up membership: %w", err)
	}
	if membership == nil {
		return domain.ErrMembershipNotFound
	}
	return s.memberRepo.Delete(ctx, targetUserID, groupID)
}

func (s *groupService) LeaveGroup(ctx context.Context, actor domain.Actor) error {
	membership, err := s.memberRepo.GetActiveByUser(ctx, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to look up membership: %w", err)
	}
	if membership == nil {
		return domain.ErrNotAMember
	}

	group, err := s.groupRepo.GetByID(ctx, membership.GroupID)
	if err != nil {
		return err
	}
	if group.OwnerID == actor.ID {
		return domain.ErrOwnerCannotLeave
	}
	return s.memberRepo.Delete(ctx, actor.ID, membership.GroupID)
}

func (s *groupService) GetMyGroup(ctx context.Context, actor domain.Actor) (*domain.Group, error) {
	membership, err := s.memberRepo.GetActiveByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up membership: %w", err)
	}
	if membership == nil {
		return nil, nil
	}

	group, err := s.groupRepo.GetByID(ctx, membership.GroupID)
	if err != nil {
		return nil, err
	}
	count, err := s.memberRepo.CountActive(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	group.MemberCount = count
	return group, nil
}

func (s *groupService) ListGroupMembers(ctx context.Context, actor domain.Actor, groupID int32) ([]domain.Membership, error) {
	if err := s.validateOwnedGroup(ctx, actor, groupID); err != nil {
		return nil, err
	}
	return s.memberRepo.ListByGroup(ctx, groupID)
}

func (s *groupService) ListPendingJoinRequests(ctx context.Context, actor domain.Actor, groupID int32) ([]domain.JoinRequest, error) {
	if err := s.validateOwnedGroup(ctx, actor, groupID); err != nil {
		return nil, err
	}
	return s.reqRepo.ListPendingByGroup(ctx, groupID)
}

func (s *groupService) validateOwnedGroup(ctx context.Context, actor domain.Actor, groupID int32) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID != actor.ID {
		return domain.ErrNotOwner
	}
	return nil
}

func (s *groupService) validateOwnedRequest(ctx context.Context, actor domain.Actor, requestID int32) (*domain.JoinRequest, error) {
	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != actor.ID {
		return nil, domain.ErrNotOwner
	}
	if req.Status.Terminal() {
		return nil, domain.ErrAlreadyProcessed
	}
	return req, nil
}
