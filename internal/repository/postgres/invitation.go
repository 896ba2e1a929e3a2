package postgres

import (
	"context"
	"database/sql"
	"time"

	"huddleup-backend/internal/domain"
	"huddleup-backend/internal/repository"
)

type invitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) repository.InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `INSERT INTO invitations (group_id, invitee_email, created_by, created_on)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, inv.GroupID, inv.InviteeEmail, inv.CreatedBy, time.Now()).Scan(&inv.ID)
	if isUniqueViolation(err, "uq_invitations_group_email") {
		return domain.ErrDuplicateInvitation
	}
	return err
}

func (r *invitationRepository) DeleteCreatedBefore(ctx context.Context, cutoff string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE created_on < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
