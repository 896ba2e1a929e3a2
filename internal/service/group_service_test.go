package service

import (
	"context"
	"testing"

	"huddleup-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceMocks struct {
	groups   *MockGroupRepo
	members  *MockMembershipRepo
	requests *MockJoinRequestRepo
	invites  *MockInvitationRepo
	email    *MockEmailService
}

func newTestService() (GroupService, *serviceMocks) {
	m := &serviceMocks{
		groups:   new(MockGroupRepo),
		members:  new(MockMembershipRepo),
		requests: new(MockJoinRequestRepo),
		invites:  new(MockInvitationRepo),
		email:    new(MockEmailService),
	}
	svc := NewGroupService(m.groups, m.members, m.requests, m.invites, NewInviteCodeGenerator(m.groups), m.email)
	return svc, m
}

var (
	owner     = domain.Actor{ID: 1, Email: "owner@test.com"}
	requester = domain.Actor{ID: 2, Email: "requester@test.com"}
)

func publicGroup(id, ownerID, capacity int32) *domain.Group {
	return &domain.Group{
		ID:          id,
		Name:        "Hikers",
		MaxCapacity: capacity,
		Visibility:  domain.GroupVisibilityPublic,
		OwnerID:     ownerID,
	}
}

func privateGroup(id, ownerID, capacity int32, code string) *domain.Group {
	g := publicGroup(id, ownerID, capacity)
	g.Visibility = domain.GroupVisibilityPrivate
	g.InviteCode = &code
	return g
}

func TestGroupService_CreateGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("PublicSuccess", func(t *testing.T) {
		svc, m := newTestService()
		m.members.On("GetActiveByUser", ctx, owner.ID).Return(nil, nil)
		m.groups.On("CreateWithOwner", ctx, mock.AnythingOfType("*domain.Group")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Group).ID = 10
		}).Return(nil)

		group, err := svc.CreateGroup(ctx, owner, domain.GroupSpec{
			Name:        "Hikers",
			MaxCapacity: 5,
			Visibility:  domain.GroupVisibilityPublic,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(10), group.ID)
		assert.Nil(t, group.InviteCode)
		assert.Equal(t, int32(1), group.MemberCount)
		m.groups.AssertExpectations(t)
	})

	t.Run("PrivateGetsInviteCode", func(t *testing.T) {
		svc, m := newTestService()
		m.members.On("GetActiveByUser", ctx, owner.ID).Return(nil, nil)
		m.groups.On("GetByInviteCode", ctx, mock.AnythingOfType("string")).Return(nil, domain.ErrInviteCodeNotFound)
		m.groups.On("CreateWithOwner", ctx, mock.AnythingOfType("*domain.Group")).Return(nil)

		group, err := svc.CreateGroup(ctx, owner, domain.GroupSpec{
			Name:        "Secret",
			MaxCapacity: 2,
			Visibility:  domain.GroupVisibilityPrivate,
		})
		require.NoError(t, err)
		require.NotNil(t, group.InviteCode)
		assert.Len(t, *group.InviteCode, 8)
	})

	t.Run("AlreadyMember", func(t *testing.T) {
		svc, m := newTestService()
		m.members.On("GetActiveByUser", ctx, owner.ID).Return(&domain.Membership{UserID: owner.ID, GroupID: 3}, nil)

		_, err := svc.CreateGroup(ctx, owner, domain.GroupSpec{
			Name:        "Another",
			MaxCapacity: 5,
			Visibility:  domain.GroupVisibilityPublic,
		})
		assert.True(t, domain.IsKind(err, domain.KindAlreadyMember))
	})

	t.Run("CapacityOutOfBounds", func(t *testing.T) {
		svc, _ := newTestService()
		for _, capacity := range []int32{0, 1, 1001} {
			_, err := svc.CreateGroup(ctx, owner, domain.GroupSpec{
				Name:        "Bad",
				MaxCapacity: capacity,
				Visibility:  domain.GroupVisibilityPublic,
			})
			assert.True(t, domain.IsKind(err, domain.KindInvalidArgument), "capacity %d", capacity)
		}
	})
}

func TestGroupService_RequestToJoin(t *testing.T) {
	ctx := context.Background()
	group := publicGroup(10, owner.ID, 5)

	t.Run("Success", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(nil, nil)
		m.members.On("CountActive", ctx, group.ID).Return(int32(1), nil)
		m.requests.On("GetByUserAndGroup", ctx, requester.ID, group.ID).Return(nil, nil)
		m.requests.On("Create", ctx, mock.AnythingOfType("*domain.JoinRequest")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.JoinRequest).ID = 99
		}).Return(nil)

		req, err := svc.RequestToJoin(ctx, requester, group.ID)
		require.NoError(t, err)
		assert.Equal(t, int32(99), req.ID)
		assert.Equal(t, domain.JoinRequestStatusPending, req.Status)
	})

	t.Run("GroupNotFound", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, int32(404)).Return(nil, domain.ErrGroupNotFound)

		_, err := svc.RequestToJoin(ctx, requester, 404)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})

	t.Run("PrivateGroupForbidden", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, int32(11)).Return(privateGroup(11, owner.ID, 5, "ABCD1234"), nil)

		_, err := svc.RequestToJoin(ctx, requester, 11)
		assert.True(t, domain.IsKind(err, domain.KindForbidden))
	})

	t.Run("AtCapacity", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(nil, nil)
		m.members.On("CountActive", ctx, group.ID).Return(group.MaxCapacity, nil)

		_, err := svc.RequestToJoin(ctx, requester, group.ID)
		assert.True(t, domain.IsKind(err, domain.KindCapacityExceeded))
	})

	t.Run("DuplicateRequest", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(nil, nil)
		m.members.On("CountActive", ctx, group.ID).Return(int32(1), nil)
		m.requests.On("GetByUserAndGroup", ctx, requester.ID, group.ID).Return(&domain.JoinRequest{ID: 7, Status: domain.JoinRequestStatusPending}, nil)

		_, err := svc.RequestToJoin(ctx, requester, group.ID)
		assert.True(t, domain.IsKind(err, domain.KindDuplicateRequest))
	})
}

func TestGroupService_ApproveJoinRequest(t *testing.T) {
	ctx := context.Background()
	group := publicGroup(10, owner.ID, 5)
	pending := &domain.JoinRequest{ID: 99, UserID: requester.ID, GroupID: group.ID, Status: domain.JoinRequestStatusPending}

	t.Run("Success", func(t *testing.T) {
		svc, m := newTestService()
		m.requests.On("GetByID", ctx, pending.ID).Return(pending, nil)
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(nil, nil)
		m.requests.On("ApproveAndEnroll", ctx, pending.ID, requester.ID, group.ID).Return(nil)

		err := svc.ApproveJoinRequest(ctx, owner, pending.ID)
		require.NoError(t, err)
		m.requests.AssertExpectations(t)
	})

	t.Run("NotOwner", func(t *testing.T) {
		svc, m := newTestService()
		m.requests.On("GetByID", ctx, pending.ID).Return(pending, nil)
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)

		err := svc.ApproveJoinRequest(ctx, requester, pending.ID)
		assert.True(t, domain.IsKind(err, domain.KindForbidden))
	})

	t.Run("AlreadyProcessed", func(t *testing.T) {
		svc, m := newTestService()
		processed := &domain.JoinRequest{ID: 99, UserID: requester.ID, GroupID: group.ID, Status: domain.JoinRequestStatusRejected}
		m.requests.On("GetByID", ctx, processed.ID).Return(processed, nil)
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)

		err := svc.ApproveJoinRequest(ctx, owner, processed.ID)
		assert.True(t, domain.IsKind(err, domain.KindAlreadyProcessed))
	})

	t.Run("RequesterJoinedElsewhereAutoRejects", func(t *testing.T) {
		svc, m := newTestService()
		m.requests.On("GetByID", ctx, pending.ID).Return(pending, nil)
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(&domain.Membership{UserID: requester.ID, GroupID: 77}, nil)
		m.requests.On("UpdateStatus", ctx, pending.ID, domain.JoinRequestStatusPending, domain.JoinRequestStatusRejected).Return(nil)

		err := svc.ApproveJoinRequest(ctx, owner, pending.ID)
		assert.True(t, domain.IsKind(err, domain.KindConflict))
		// The request was consumed, not left dangling.
		m.requests.AssertCalled(t, "UpdateStatus", ctx, pending.ID, domain.JoinRequestStatusPending, domain.JoinRequestStatusRejected)
	})

	t.Run("RaceLostAtCommitAutoRejects", func(t *testing.T) {
		// The requester joined another group between the pre-check and the
		// commit; the store reports it via the unique index.
		svc, m := newTestService()
		m.requests.On("GetByID", ctx, pending.ID).Return(pending, nil)
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(nil, nil)
		m.requests.On("ApproveAndEnroll", ctx, pending.ID, requester.ID, group.ID).Return(domain.ErrAlreadyMember)
		m.requests.On("UpdateStatus", ctx, pending.ID, domain.JoinRequestStatusPending, domain.JoinRequestStatusRejected).Return(nil)

		err := svc.ApproveJoinRequest(ctx, owner, pending.ID)
		assert.True(t, domain.IsKind(err, domain.KindConflict))
	})

	t.Run("GroupFullLeavesRequestPending", func(t *testing.T) {
		svc, m := newTestService()
		m.requests.On("GetByID", ctx, pending.ID).Return(pending, nil)
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(nil, nil)
		m.requests.On("ApproveAndEnroll", ctx, pending.ID, requester.ID, group.ID).Return(domain.ErrCapacityExceeded)

		err := svc.ApproveJoinRequest(ctx, owner, pending.ID)
		assert.True(t, domain.IsKind(err, domain.KindCapacityExceeded))
		m.requests.AssertNotCalled(t, "UpdateStatus", ctx, pending.ID, domain.JoinRequestStatusPending, domain.JoinRequestStatusRejected)
	})
}

func TestGroupService_RejectJoinRequest(t *testing.T) {
	ctx := context.Background()
	group := publicGroup(10, owner.ID, 5)

	t.Run("Success", func(t *testing.T) {
		svc, m := newTestService()
		pending := &domain.JoinRequest{ID: 99, UserID: requester.ID, GroupID: group.ID, Status: domain.JoinRequestStatusPending}
		m.requests.On("GetByID", ctx, pending.ID).Return(pending, nil)
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.requests.On("UpdateStatus", ctx, pending.ID, domain.JoinRequestStatusPending, domain.JoinRequestStatusRejected).Return(nil)

		assert.NoError(t, svc.RejectJoinRequest(ctx, owner, pending.ID))
	})

	t.Run("SecondRejectFails", func(t *testing.T) {
		svc, m := newTestService()
		rejected := &domain.JoinRequest{ID: 99, UserID: requester.ID, GroupID: group.ID, Status: domain.JoinRequestStatusRejected}
		m.requests.On("GetByID", ctx, rejected.ID).Return(rejected, nil)
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)

		err := svc.RejectJoinRequest(ctx, owner, rejected.ID)
		assert.True(t, domain.IsKind(err, domain.KindAlreadyProcessed))
	})
}

func TestGroupService_InviteUserToPrivateGroup(t *testing.T) {
	ctx := context.Background()
	group := privateGroup(20, owner.ID, 5, "CODE1234")

	t.Run("Success", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("CountActive", ctx, group.ID).Return(int32(2), nil)
		m.invites.On("Create", ctx, mock.AnythingOfType("*domain.Invitation")).Return(nil)
		m.email.On("SendGroupInvitation", ctx, "friend@test.com", group.Name, "CODE1234", owner.Email).Return(nil)

		code, err := svc.InviteUserToPrivateGroup(ctx, owner, group.ID, "friend@test.com")
		require.NoError(t, err)
		assert.Equal(t, "CODE1234", code)
		m.email.AssertExpectations(t)
	})

	t.Run("EmailFailureDoesNotFailOperation", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("CountActive", ctx, group.ID).Return(int32(2), nil)
		m.invites.On("Create", ctx, mock.AnythingOfType("*domain.Invitation")).Return(nil)
		m.email.On("SendGroupInvitation", ctx, "friend@test.com", group.Name, "CODE1234", owner.Email).Return(assert.AnError)

		code, err := svc.InviteUserToPrivateGroup(ctx, owner, group.ID, "friend@test.com")
		require.NoError(t, err)
		assert.Equal(t, "CODE1234", code)
	})

	t.Run("NotOwner", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)

		_, err := svc.InviteUserToPrivateGroup(ctx, requester, group.ID, "friend@test.com")
		assert.True(t, domain.IsKind(err, domain.KindForbidden))
	})

	t.Run("PublicGroupForbidden", func(t *testing.T) {
		svc, m := newTestService()
		pub := publicGroup(21, owner.ID, 5)
		m.groups.On("GetByID", ctx, pub.ID).Return(pub, nil)

		_, err := svc.InviteUserToPrivateGroup(ctx, owner, pub.ID, "friend@test.com")
		assert.True(t, domain.IsKind(err, domain.KindForbidden))
	})

	t.Run("DuplicateInvitation", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("CountActive", ctx, group.ID).Return(int32(2), nil)
		m.invites.On("Create", ctx, mock.AnythingOfType("*domain.Invitation")).Return(domain.ErrDuplicateInvitation)

		_, err := svc.InviteUserToPrivateGroup(ctx, owner, group.ID, "friend@test.com")
		assert.True(t, domain.IsKind(err, domain.KindConflict))
	})

	t.Run("AtCapacity", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("CountActive", ctx, group.ID).Return(group.MaxCapacity, nil)

		_, err := svc.InviteUserToPrivateGroup(ctx, owner, group.ID, "friend@test.com")
		assert.True(t, domain.IsKind(err, domain.KindCapacityExceeded))
	})
}

func TestGroupService_JoinPrivateGroup(t *testing.T) {
	ctx := context.Background()
	group := privateGroup(20, owner.ID, 2, "CODE1234")

	t.Run("Success", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByInviteCode", ctx, "CODE1234").Return(group, nil)
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(nil, nil)
		m.members.On("Enroll", ctx, requester.ID, group.ID).Return(nil)

		joined, err := svc.JoinPrivateGroup(ctx, requester, "CODE1234")
		require.NoError(t, err)
		assert.Equal(t, group.ID, joined.ID)
	})

	t.Run("BadCode", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByInviteCode", ctx, "WRONG").Return(nil, domain.ErrInviteCodeNotFound)

		_, err := svc.JoinPrivateGroup(ctx, requester, "WRONG")
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})

	t.Run("CapacityRaceSurfacedByStore", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByInviteCode", ctx, "CODE1234").Return(group, nil)
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(nil, nil)
		m.members.On("Enroll", ctx, requester.ID, group.ID).Return(domain.ErrCapacityExceeded)

		_, err := svc.JoinPrivateGroup(ctx, requester, "CODE1234")
		assert.True(t, domain.IsKind(err, domain.KindCapacityExceeded))
	})
}

func TestGroupService_RemoveMember(t *testing.T) {
	ctx := context.Background()
	group := publicGroup(10, owner.ID, 5)

	t.Run("Success", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("Get", ctx, requester.ID, group.ID).Return(&domain.Membership{UserID: requester.ID, GroupID: group.ID}, nil)
		m.members.On("Delete", ctx, requester.ID, group.ID).Return(nil)

		assert.NoError(t, svc.RemoveMember(ctx, owner, group.ID, requester.ID))
	})

	t.Run("SelfRemoval", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)

		err := svc.RemoveMember(ctx, owner, group.ID, owner.ID)
		assert.True(t, domain.IsKind(err, domain.KindSelfRemoval))
	})

	t.Run("TargetNotAMember", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("Get", ctx, requester.ID, group.ID).Return(nil, nil)

		err := svc.RemoveMember(ctx, owner, group.ID, requester.ID)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})
}

func TestGroupService_LeaveGroup(t *testing.T) {
	ctx := context.Background()
	group := publicGroup(10, owner.ID, 5)

	t.Run("Success", func(t *testing.T) {
		svc, m := newTestService()
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(&domain.Membership{UserID: requester.ID, GroupID: group.ID}, nil)
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("Delete", ctx, requester.ID, group.ID).Return(nil)

		assert.NoError(t, svc.LeaveGroup(ctx, requester))
	})

	t.Run("OwnerCannotLeave", func(t *testing.T) {
		svc, m := newTestService()
		m.members.On("GetActiveByUser", ctx, owner.ID).Return(&domain.Membership{UserID: owner.ID, GroupID: group.ID}, nil)
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)

		err := svc.LeaveGroup(ctx, owner)
		assert.True(t, domain.IsKind(err, domain.KindOwnerCannotLeave))
	})

	t.Run("NotAMember", func(t *testing.T) {
		svc, m := newTestService()
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(nil, nil)

		err := svc.LeaveGroup(ctx, requester)
		assert.True(t, domain.IsKind(err, domain.KindNotAMember))
	})
}

func TestGroupService_GetMyGroup(t *testing.T) {
	ctx := context.Background()
	group := publicGroup(10, owner.ID, 5)

	t.Run("ResolvesMembershipThenGroup", func(t *testing.T) {
		svc, m := newTestService()
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(&domain.Membership{UserID: requester.ID, GroupID: group.ID}, nil)
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		m.members.On("CountActive", ctx, group.ID).Return(int32(3), nil)

		got, err := svc.GetMyGroup(ctx, requester)
		require.NoError(t, err)
		assert.Equal(t, group.ID, got.ID)
		assert.Equal(t, int32(3), got.MemberCount)
	})

	t.Run("NoMembership", func(t *testing.T) {
		svc, m := newTestService()
		m.members.On("GetActiveByUser", ctx, requester.ID).Return(nil, nil)

		got, err := svc.GetMyGroup(ctx, requester)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestGroupService_OwnerOnlyReads(t *testing.T) {
	ctx := context.Background()
	group := publicGroup(10, owner.ID, 5)

	t.Run("ListMembersForbiddenForNonOwner", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)

		_, err := svc.ListGroupMembers(ctx, requester, group.ID)
		assert.True(t, domain.IsKind(err, domain.KindForbidden))
	})

	t.Run("ListPendingRequestsInCreationOrder", func(t *testing.T) {
		svc, m := newTestService()
		m.groups.On("GetByID", ctx, group.ID).Return(group, nil)
		queue := []domain.JoinRequest{
			{ID: 1, UserID: 5, GroupID: group.ID, Status: domain.JoinRequestStatusPending},
			{ID: 2, UserID: 6, GroupID: group.ID, Status: domain.JoinRequestStatusPending},
		}
		m.requests.On("ListPendingByGroup", ctx, group.ID).Return(queue, nil)

		got, err := svc.ListPendingJoinRequests(ctx, owner, group.ID)
		require.NoError(t, err)
		assert.Equal(t, queue, got)
	})
}
