// Package repository implements tenant-scoped data access on gorm.
package repository

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	errMissingScope = errors.New("tenant scope is required")
	columnPattern   = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)
	likeEscaper     = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// storeScope filters by the tenant scope and fails the statement when the
// scope is empty, so no tenant-scoped query can run unfiltered.
func storeScope(scope tenant.Scope) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !scope.Valid() {
			_ = db.AddError(errMissingScope)
			return db
		}
		return db.Where("store_id = ?", scope.StoreID)
	}
}

type condition struct {
	sql  string
	args []interface{}
}

// Query is a typed filter over a single table. Column names must be plain
// identifiers; values are always bound as parameters.
type Query struct {
	conds []condition
	order []string
	page  int
	limit int
	err   error
}

// NewQuery starts an empty query
func NewQuery() *Query {
	return &Query{}
}

func (q *Query) column(name string) bool {
	if !columnPattern.MatchString(name) {
		q.err = fmt.Errorf("invalid column %q", name)
		return false
	}
	return true
}

// Eq matches column = value exactly.
func (q *Query) Eq(column string, value interface{}) *Query {
	if q.column(column) {
		q.conds = append(q.conds, condition{column + " = ?", []interface{}{value}})
	}
	return q
}

// EqIf adds Eq only when value is non-empty.
func (q *Query) EqIf(column string, value string) *Query {
	if value == "" {
		return q
	}
	return q.Eq(column, value)
}

// EqFold matches column = value ignoring case.
func (q *Query) EqFold(column string, value string) *Query {
	if q.column(column) {
		q.conds = append(q.conds, condition{"LOWER(" + column + ") = LOWER(?)", []interface{}{value}})
	}
	return q
}

// ContainsFold matches rows where any of the columns contains term ignoring
// case. An empty term adds nothing.
func (q *Query) ContainsFold(term string, columns ...string) *Query {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"

	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, c := range columns {
		if !q.column(c) {
			return q
		}
		parts = append(parts, "LOWER("+c+`) LIKE ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	q.conds = append(q.conds, condition{"(" + strings.Join(parts, " OR ") + ")", args})
	return q
}

// Between restricts column to [from, to]. Nil bounds are open.
func (q *Query) Between(column string, from, to *time.Time) *Query {
	if !q.column(column) {
		return q
	}
	if from != nil {
		q.conds = append(q.conds, condition{column + " >= ?", []interface{}{*from}})
	}
	if to != nil {
		q.conds = append(q.conds, condition{column + " <= ?", []interface{}{*to}})
	}
	return q
}

// OrderBy appends a sort key. desc selects descending order.
func (q *Query) OrderBy(column string, desc bool) *Query {
	if q.column(column) {
		if desc {
			q.order = append(q.order, column+" DESC")
		} else {
			q.order = append(q.order, column+" ASC")
		}
	}
	return q
}

// Paginate selects a 1-based page. Out of range values fall back to defaults.
func (q *Query) Paginate(page, limit int) *Query {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	q.page, q.limit = page, limit
	return q
}

// Where applies the filter conditions only.
func (q *Query) Where(db *gorm.DB) *gorm.DB {
	if q.err != nil {
		_ = db.AddError(q.err)
		return db
	}
	for _, c := range q.conds {
		db = db.Where(c.sql, c.args...)
	}
	return db
}

// Apply applies conditions, ordering and pagination.
func (q *Query) Apply(db *gorm.DB) *gorm.DB {
	db = q.Where(db)
	for _, o := range q.order {
		db = db.Order(o)
	}
	if q.limit > 0 {
		db = db.Offset((q.page - 1) * q.limit).Limit(q.limit)
	}
	return db
}

// Page describes one page of a listing
type Page struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

func (q *Query) pageInfo(total int64) Page {
	p := Page{Total: total, Page: q.page, Limit: q.limit}
	if q.limit > 0 {
		p.Pages = (total + int64(q.limit) - 1) / int64(q.limit)
	}
	return p
}

// translate converts gorm errors into application errors. notFound is the
// message used when the record does not exist.
func translate(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound("%s", notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &apperror.Error{Kind: apperror.KindConflict, Message: "duplicate key", Err: err}
	case errors.Is(err, errMissingScope):
		return apperror.BadRequest("store not specified")
	default:
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperror.Internal(err, "database error")
	}
}
