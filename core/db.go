package core

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

type (
	// DBExecutor is satisfied by both *sqlx.DB and *sqlx.Tx.
	DBExecutor interface {
		sqlx.ExtContext
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	// Transactor runs fn inside a unit of work scoped to a single request.
	// The work is committed when fn returns nil and rolled back otherwise (panics included).
	// exec is nil for stores that have no SQL connection.
	Transactor interface {
		InTx(ctx context.Context, fn func(exec DBExecutor) error) error
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderByClause joins orderings keeping only the allowed fields. It ends with `tiebreaker ASC`
// unless the tiebreaker was ordered explicitly, so that pagination stays stable.
func OrderByClause(ordering []DBOrdering, allowed map[string]string, tiebreaker string, defaults ...DBOrdering) string {
	orderList := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		col, ok := allowed[ord.Field]
		if !ok {
			continue
		}
		orderList = append(orderList, DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		if col == tiebreaker {
			return strings.Join(orderList, ", ") // the tiebreaker is unique
		}
	}
	if len(orderList) == 0 {
		for _, ord := range defaults {
			if ord.Field != tiebreaker {
				orderList = append(orderList, ord.String())
			}
		}
	}
	orderList = append(orderList, DBOrdering{Field: tiebreaker, Ascending: true}.String())
	return strings.Join(orderList, ", ")
}

// Page is a 1-based page of fixed size.
type Page struct {
	Number int
	Size   int
}

// NewPage normalizes number and size: number < 1 becomes 1; size < 1 means "everything".
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 0 {
		size = 0
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	if p.Size == 0 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Limit returns the page size; 0 means no limit.
func (p Page) Limit() int {
	return p.Size
}

// Slice returns the [start, end) bounds of the page within a collection of n items.
func (p Page) Slice(n int) (start, end int) {
	if p.Size == 0 {
		return 0, n
	}
	start = p.Offset()
	if start > n {
		start = n
	}
	end = start + p.Size
	if end > n {
		end = n
	}
	return start, end
}
