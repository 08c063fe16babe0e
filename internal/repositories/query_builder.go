package repositories

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"patientrecords/internal/models"
)

// listSQL builds the hub-scoped, soft-delete aware statements shared by the
// list, count and export paths of a table.
type listSQL struct {
	table         string
	columns       string
	searchColumns []string
}

// where returns the base predicate. $1 is always the hub id and, when a
// search term is present, $2 is the escaped ILIKE pattern.
func (s listSQL) where(hubID uuid.UUID, search string) (string, []any) {
	clause := "WHERE hub_id = $1 AND is_deleted = false"
	args := []any{hubID}

	if search != "" && len(s.searchColumns) > 0 {
		matches := make([]string, len(s.searchColumns))
		for i, col := range s.searchColumns {
			matches[i] = col + " ILIKE $2"
		}
		clause += " AND (" + strings.Join(matches, " OR ") + ")"
		args = append(args, "%"+escapeLike(search)+"%")
	}
	return clause, args
}

// orderBy appends id so rows with equal sort keys keep a stable order
// across pages.
func orderBy(column string, dir models.SortDirection) string {
	direction := "ASC"
	if dir == models.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id ASC", column, direction)
}

func (s listSQL) count(hubID uuid.UUID, search string) (string, []any) {
	where, args := s.where(hubID, search)
	return fmt.Sprintf("SELECT COUNT(*) FROM %s %s", s.table, where), args
}

func (s listSQL) page(hubID uuid.UUID, q models.ListQuery, sortColumn string) (string, []any) {
	where, args := s.where(hubID, q.Search)
	n := len(args)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s LIMIT $%d OFFSET $%d",
		s.columns, s.table, where, orderBy(sortColumn, q.SortDir), n+1, n+2)
	return query, append(args, q.PerPage, q.Offset())
}

// stream is the unpaginated variant used by exports.
func (s listSQL) stream(hubID uuid.UUID, q models.ListQuery, sortColumn string) (string, []any) {
	where, args := s.where(hubID, q.Search)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s", s.columns, s.table, where, orderBy(sortColumn, q.SortDir))
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes the search term match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
