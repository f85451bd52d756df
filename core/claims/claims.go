package claims

import (
	"context"
	"errors"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

var (
	ErrMissing   = errors.New("claim value missing from context")
	ErrForbidden = errors.New("actor may not act on this resource")
)

type Claims struct {
	UserID string
	Role   string
}

func (c Claims) Admin() bool {
	return c.Role == RoleAdmin
}

// Owns reports whether the actor may act on a record created by ownerID:
// either as its creator or as an admin.
func (c Claims) Owns(ownerID string) bool {
	return c.Admin() || (c.UserID != "" && c.UserID == ownerID)
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, ErrMissing
	}
	return v, nil
}

func IsAdmin(ctx context.Context) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}

	return c.Admin()
}
