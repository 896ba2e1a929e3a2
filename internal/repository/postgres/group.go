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

type groupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

const groupColumns = `id, name, description, max_capacity, visibility, invite_code, owner_id, created_on, updated_on`

func (r *groupRepository) CreateWithOwner(ctx context.Context, g *domain.Group) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	query := `INSERT INTO groups (name, description, max_capacity, visibility, invite_code, owner_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`
	err = tx.QueryRowContext(ctx, query, g.Name, g.Description, g.MaxCapacity, g.Visibility, g.InviteCode, g.OwnerID, now).Scan(&g.ID)
	if isUniqueViolation(err, "groups_invite_code_key") {
		// Lost a race against a concurrent group creation that drew the
		// same code; surfaced as a generation failure since the code length
		// makes this astronomically rare.
		return domain.ErrCodeGeneration
	}
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO memberships (user_id, group_id, created_on) VALUES ($1, $2, $3)`, g.OwnerID, g.ID, now)
	if isUniqueViolation(err, "memberships_user_id_key") {
		return domain.ErrAlreadyMember
	}
	if err != nil {
		return fmt.Errorf("failed to enroll owner: %w", err)
	}
	return tx.Commit()
}

func (r *groupRepository) GetByID(ctx context.Context, id int32) (*domain.Group, error) {
	g := &domain.Group{}
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.Description, &g.MaxCapacity, &g.Visibility, &g.InviteCode, &g.OwnerID, &g.CreatedOn, &g.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *groupRepository) GetByInviteCode(ctx context.Context, code string) (*domain.Group, error) {
	g := &domain.Group{}
	query := `SELECT ` + groupColumns + ` FROM groups WHERE invite_code = $1`
	err := r.db.QueryRowContext(ctx, query, code).Scan(&g.ID, &g.Name, &g.Description, &g.MaxCapacity, &g.Visibility, &g.InviteCode, &g.OwnerID, &g.CreatedOn, &g.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInviteCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *groupRepository) SearchPublic(ctx context.Context, nameFilter string, page, limit int32) ([]domain.Group, int32, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int32
	countQuery := `SELECT COUNT(*) FROM groups WHERE visibility = 'PUBLIC' AND name ILIKE $1`
	if err := r.db.QueryRowContext(ctx, countQuery, "%"+nameFilter+"%").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT g.id, g.name, g.description, g.max_capacity, g.visibility, g.invite_code, g.owner_id, g.created_on, g.updated_on,
	                 (SELECT COUNT(*) FROM memberships m WHERE m.group_id = g.id) AS member_count
	          FROM groups g
	          WHERE g.visibility = 'PUBLIC' AND g.name ILIKE $1
	          ORDER BY g.created_on DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, "%"+nameFilter+"%", limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.MaxCapacity, &g.Visibility, &g.InviteCode, &g.OwnerID, &g.CreatedOn, &g.UpdatedOn, &g.MemberCount); err != nil {
			return nil, 0, err
		}
		groups = append(groups, g)
	}
	return groups, total, rows.Err()
}
