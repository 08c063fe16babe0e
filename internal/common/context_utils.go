package common

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey      contextKey = "user_id"
	HubIDKey       contextKey = "hub_id"
	PermissionsKey contextKey = "permissions"
)

// WithSession stores the authenticated session on ctx.
func WithSession(ctx context.Context, userID, hubID uuid.UUID, permissions []string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, HubIDKey, hubID)
	return context.WithValue(ctx, PermissionsKey, permissions)
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetHubIDFromContext extracts the hub ID from the request context
func GetHubIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	hubID, ok := ctx.Value(HubIDKey).(uuid.UUID)
	return hubID, ok && hubID != uuid.Nil
}

func GetPermissionsFromContext(ctx context.Context) []string {
	perms, _ := ctx.Value(PermissionsKey).([]string)
	return perms
}

// HasPermission reports whether the session in ctx was granted permission.
// "*" grants everything.
func HasPermission(ctx context.Context, permission string) bool {
	for _, p := range GetPermissionsFromContext(ctx) {
		if p == permission || p == "*" {
			return true
		}
	}
	return false
}

// ParseID parses a path identifier. Anything that is not a UUID is reported
// as absent so callers can answer it like a missing row.
func ParseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
