package postgres

import (
	"database/sql"
	"errors"

	"huddleup-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.GroupRepository
	repository.MembershipRepository
	repository.JoinRequestRepository
	repository.InvitationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		GroupRepository:       NewGroupRepository(db),
		MembershipRepository:  NewMembershipRepository(db),
		JoinRequestRepository: NewJoinRequestRepository(db),
		InvitationRepository:  NewInvitationRepository(db),
	}
}

// isUniqueViolation reports whether err is a unique-constraint violation,
// optionally on the named constraint. The unique indexes are the durable
// backing of the membership invariants, so these violations are expected
// outcomes, not faults.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
