// Package query builds the paginated feed queries shared by every
// read-aggregation pipeline: filter, join the owning users, project public
// fields, order, paginate, and count the full match independently of the page.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize applies when a request omits the page size.
	DefaultPageSize = 10
	// MaxPageSize caps the number of items a single page may return.
	MaxPageSize = 100
)

// ErrInvalidPage indicates a non-positive or non-numeric pagination input.
// Bad input is rejected, never silently clamped.
var ErrInvalidPage = errors.New("page and limit must be positive integers")

// PageRequest captures 1-based pagination parameters.
type PageRequest struct {
	Number int
	Size   int
}

// ParsePage interprets raw page/limit query values, applying defaults for
// omitted values and rejecting anything that is not a positive integer.
func ParsePage(rawPage, rawSize string) (PageRequest, error) {
	p := PageRequest{Number: 1, Size: DefaultPageSize}

	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil {
			return PageRequest{}, ErrInvalidPage
		}
		p.Number = n
	}

	if rawSize != "" {
		n, err := strconv.Atoi(rawSize)
		if err != nil {
			return PageRequest{}, ErrInvalidPage
		}
		p.Size = n
	}

	if err := p.Validate(); err != nil {
		return PageRequest{}, err
	}
	return p, nil
}

// Validate rejects non-positive page numbers and sizes, and sizes above the cap.
func (p PageRequest) Validate() error {
	if p.Number < 1 || p.Size < 1 || p.Size > MaxPageSize {
		return ErrInvalidPage
	}
	return nil
}

// Offset returns the row offset for the page.
func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// Pipeline assembles a SELECT and its matching COUNT over the same filter and
// joins. Conditions use ? placeholders which are renumbered to $n across the
// whole statement.
type Pipeline struct {
	table   string
	columns []string
	joins   []string
	wheres  []string
	args    []any
	orderBy string
	paged   bool
	page    PageRequest
}

// From starts a pipeline over the named table (optionally aliased).
func From(table string) *Pipeline {
	return &Pipeline{table: table}
}

// Select sets the projected columns for the item query.
func (p *Pipeline) Select(columns ...string) *Pipeline {
	p.columns = append(p.columns, columns...)
	return p
}

// Join appends a join clause, e.g. "JOIN users u ON u.id = v.owner_id".
func (p *Pipeline) Join(clause string) *Pipeline {
	p.joins = append(p.joins, clause)
	return p
}

// Where appends a filter condition. Conditions are combined with AND.
func (p *Pipeline) Where(condition string, args ...any) *Pipeline {
	p.wheres = append(p.wheres, condition)
	p.args = append(p.args, args...)
	return p
}

// OrderBy sets the ordering key. Recency sorts pass desc=true (newest first).
func (p *Pipeline) OrderBy(column string, desc bool) *Pipeline {
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	p.orderBy = fmt.Sprintf("%s %s", column, direction)
	return p
}

// Paginate applies the validated page to the item query. The count query is
// unaffected so totals always cover the full match.
func (p *Pipeline) Paginate(page PageRequest) *Pipeline {
	p.paged = true
	p.page = page
	return p
}

// SQL renders the item query and its ordered argument list.
func (p *Pipeline) SQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(p.columns) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(p.columns, ", "))
	}
	p.writeFromWhere(&b)
	if p.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(p.orderBy)
	}
	if p.paged {
		fmt.Fprintf(&b, " LIMIT %d OFFSET %d", p.page.Size, p.page.Offset())
	}
	return numberPlaceholders(b.String()), p.args
}

// CountSQL renders the total-count query sharing the pipeline's filter and
// joins but ignoring ordering and pagination.
func (p *Pipeline) CountSQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*)")
	p.writeFromWhere(&b)
	return numberPlaceholders(b.String()), p.args
}

func (p *Pipeline) writeFromWhere(b *strings.Builder) {
	b.WriteString(" FROM ")
	b.WriteString(p.table)
	for _, join := range p.joins {
		b.WriteString(" ")
		b.WriteString(join)
	}
	if len(p.wheres) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(p.wheres, " AND "))
	}
}

func numberPlaceholders(sql string) string {
	var b strings.Builder
	n := 0
	for _, r := range sql {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
