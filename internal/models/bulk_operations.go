package models

import (
	"strings"

	"github.com/google/uuid"
)

// BulkAction is the operation applied by a bulk request.
type BulkAction string

const (
	BulkActivate   BulkAction = "activate"
	BulkDeactivate BulkAction = "deactivate"
	BulkDelete     BulkAction = "delete"
)

// BulkRequest is a set of ids plus the action to apply to them.
type BulkRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Action BulkAction  `json:"action"`
}

// ParseBulkIDs splits a comma separated id list. Blank entries, malformed
// ids and duplicates are dropped.
func ParseBulkIDs(raw string) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
