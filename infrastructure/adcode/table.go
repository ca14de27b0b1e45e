package adcode

import (
	"context"
	_ "embed"
	"slices"
	"strings"
	"sync"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
	"github.com/miyamo2/amap-flomo-mcp/domain/repository"
)

//go:embed data/adcode.csv
var embeddedTable string

// Table is an immutable, in-memory administrative division table.
type Table struct {
	rows []model.Location

	// byCode maps a code to the index of its first row.
	byCode map[string]int
}

func newTable(rows []model.Location) *Table {
	t := &Table{
		rows:   rows,
		byCode: make(map[string]int, len(rows)),
	}
	for i, r := range rows {
		if _, ok := t.byCode[r.Code]; ok {
			continue
		}
		t.byCode[r.Code] = i
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in source order.
func (t *Table) Rows() []model.Location {
	return slices.Clone(t.rows)
}

// Embedded loads the table bundled with the binary.
func Embedded() (*Table, error) {
	return Load(strings.NewReader(embeddedTable))
}

// Source returns a loader for path, or for the bundled table when path is empty.
func Source(path string) func() (*Table, error) {
	if path == "" {
		return Embedded
	}
	return func() (*Table, error) {
		return Open(path)
	}
}

// compatibility check
var _ repository.Division = (*Lazy)(nil)

// Lazy loads a Table on first use and shares it for the life of the process.
//
// A failed load is remembered; every later call returns the same error.
type Lazy struct {
	load func() (*Table, error)
}

// NewLazy returns a Lazy backed by load.
func NewLazy(load func() (*Table, error)) *Lazy {
	return &Lazy{
		load: sync.OnceValues(load),
	}
}

// Table returns the loaded table.
func (l *Lazy) Table() (*Table, error) {
	return l.load()
}

// GetByCode See: repository.Division#GetByCode
func (l *Lazy) GetByCode(ctx context.Context, code string) (*model.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := l.load()
	if err != nil {
		return nil, err
	}
	loc, ok := t.Get(code)
	if !ok {
		return nil, nil
	}
	loc = t.composed(loc)
	return &loc, nil
}

// Match See: repository.Division#Match
func (l *Lazy) Match(ctx context.Context, name string) (*model.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := l.load()
	if err != nil {
		return nil, err
	}
	loc, ok := t.Match(name)
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

// Search See: repository.Division#Search
func (l *Lazy) Search(ctx context.Context, query string) ([]model.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := l.load()
	if err != nil {
		return nil, err
	}
	return t.Search(query), nil
}
