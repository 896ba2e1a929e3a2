package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"huddleup-backend/internal/domain"
	"huddleup-backend/internal/repository"
)

type membershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

// enrollTx runs the capacity-guarded insert inside an existing transaction.
// The FOR UPDATE on the group row serializes concurrent admissions into the
// same group; the unique index on memberships.user_id backs the
// one-group-per-user invariant.
func enrollTx(ctx context.Context, tx *sql.Tx, userID, groupID int32) error {
	var maxCapacity int32
	err := tx.QueryRowContext(ctx, `SELECT max_capacity FROM groups WHERE id = $1 FOR UPDATE`, groupID).Scan(&maxCapacity)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrGroupNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock group row: %w", err)
	}

	var count int32
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM memberships WHERE group_id = $1`, groupID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count memberships: %w", err)
	}
	if count >= maxCapacity {
		return domain.ErrCapacityExceeded
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO memberships (user_id, group_id, created_on) VALUES ($1, $2, $3)`, userID, groupID, time.Now())
	if isUniqueViolation(err, "memberships_user_id_key") {
		return domain.ErrAlreadyMember
	}
	if err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	return nil
}

func (r *membershipRepository) Enroll(ctx context.Context, userID, groupID int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := enrollTx(ctx, tx, userID, groupID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *membershipRepository) GetActiveByUser(ctx context.Context, userID int32) (*domain.Membership, error) {
	m := &domain.Membership{}
	query := `SELECT user_id, group_id, created_on FROM memberships WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&m.UserID, &m.GroupID, &m.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *membershipRepository) Get(ctx context.Context, userID, groupID int32) (*domain.Membership, error) {
	m := &domain.Membership{}
	query := `SELECT user_id, group_id, created_on FROM memberships WHERE user_id = $1 AND group_id = $2`
	err := r.db.QueryRowContext(ctx, query, userID, groupID).Scan(&m.UserID, &m.GroupID, &m.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *membershipRepository) CountActive(ctx context.Context, groupID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memberships WHERE group_id = $1`, groupID).Scan(&count)
	return count, err
}

func (r *membershipRepository) ListByGroup(ctx context.Context, groupID int32) ([]domain.Membership, error) {
	query := `SELECT user_id, group_id, created_on FROM memberships WHERE group_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.UserID, &m.GroupID, &m.CreatedOn); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *membershipRepository) Delete(ctx context.Context, userID, groupID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM memberships WHERE user_id = $1 AND group_id = $2`, userID, groupID)
	return err
}
