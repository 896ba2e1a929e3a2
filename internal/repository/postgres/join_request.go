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

type joinRequestRepository struct {
	db *sql.DB
}

func NewJoinRequestRepository(db *sql.DB) repository.JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

func (r *joinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	query := `INSERT INTO join_requests (user_id, group_id, status, created_on)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, req.UserID, req.GroupID, req.Status, time.Now()).Scan(&req.ID)
	if isUniqueViolation(err, "uq_join_requests_pending") {
		return domain.ErrDuplicateRequest
	}
	return err
}

func (r *joinRequestRepository) GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error) {
	req := &domain.JoinRequest{}
	query := `SELECT id, user_id, group_id, status, created_on FROM join_requests WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&req.ID, &req.UserID, &req.GroupID, &req.Status, &req.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *joinRequestRepository) GetByUserAndGroup(ctx context.Context, userID, groupID int32) (*domain.JoinRequest, error) {
	req := &domain.JoinRequest{}
	query := `SELECT id, user_id, group_id, status, created_on FROM join_requests
	          WHERE user_id = $1 AND group_id = $2 AND status = 'PENDING'`
	err := r.db.QueryRowContext(ctx, query, userID, groupID).Scan(&req.ID, &req.UserID, &req.GroupID, &req.Status, &req.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *joinRequestRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.JoinRequestStatus) error {
	if !from.CanTransitionTo(to) {
		return domain.ErrAlreadyProcessed
	}
	res, err := r.db.ExecContext(ctx, `UPDATE join_requests SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAlreadyProcessed
	}
	return nil
}

func (r *joinRequestRepository) ApproveAndEnroll(ctx context.Context, requestID, userID, groupID int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE join_requests SET status = $1 WHERE id = $2 AND status = $3`,
		domain.JoinRequestStatusApproved, requestID, domain.JoinRequestStatusPending)
	if err != nil {
		return fmt.Errorf("failed to update join request status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAlreadyProcessed
	}

	// Rolls back the APPROVED update if the capacity or one-group-per-user
	// guard fails, so a request can never end APPROVED without a membership.
	if err := enrollTx(ctx, tx, userID, groupID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *joinRequestRepository) ListPendingByGroup(ctx context.Context, groupID int32) ([]domain.JoinRequest, error) {
	query := `SELECT id, user_id, group_id, status, created_on FROM join_requests
	          WHERE group_id = $1 AND status = 'PENDING' ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.JoinRequest
	for rows.Next() {
		var req domain.JoinRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.GroupID, &req.Status, &req.CreatedOn); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *joinRequestRepository) DeleteProcessedBefore(ctx context.Context, cutoff string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM join_requests WHERE status IN ('APPROVED', 'REJECTED') AND created_on < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
