// Package users stores registered accounts. Emails are unique and compared
// exactly as given.
package users

import (
	"context"

	"github.com/dmitrijs2005/credkeeper/internal/server/models"
)

type Repository interface {
	// CreateIfAbsent inserts user unless its email is taken, in one atomic
	// step. On success the returned user carries the assigned ID and
	// CreatedAt. A taken email yields common.ErrorAlreadyExists.
	CreateIfAbsent(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByEmail returns common.ErrorNotFound when no user has email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
