package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"huddleup-backend/internal/domain"
	"huddleup-backend/internal/repository"
)

const (
	inviteCodeLength  = 8
	inviteCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts   = 5
)

// InviteCodeGenerator produces short globally-unique invite codes for
// private groups. Uniqueness is probed against existing groups before a
// code is handed out; the unique index on groups.invite_code remains the
// final arbiter for codes drawn concurrently.
type InviteCodeGenerator struct {
	groups repository.GroupRepository
}

func NewInviteCodeGenerator(groups repository.GroupRepository) *InviteCodeGenerator {
	return &InviteCodeGenerator{groups: groups}
}

func (g *InviteCodeGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode(inviteCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to draw invite code: %w", err)
		}

		_, err = g.groups.GetByInviteCode(ctx, code)
		if domain.IsKind(err, domain.KindNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check invite code uniqueness: %w", err)
		}
		// Collision; draw again.
	}
	return "", domain.ErrCodeGeneration
}

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = inviteCodeCharset[int(b)%len(inviteCodeCharset)]
	}
	return string(buf), nil
}
