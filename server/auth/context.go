package auth

import (
	"context"

	"github.com/hrygo/kotoba/store"
)

type userContextKey struct{}

// SetUserInContext stores the authenticated user in the context.
func SetUserInContext(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user from the context, or nil
// when the request is unauthenticated.
func UserFromContext(ctx context.Context) *store.User {
	user, ok := ctx.Value(userContextKey{}).(*store.User)
	if !ok {
		return nil
	}
	return user
}
