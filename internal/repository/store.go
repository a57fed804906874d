package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Entity constrains stored records to structs that expose their identifier.
// Identifiers are assigned by the store on insert when absent.
type Entity[T any] interface {
	*T
	EntityID() string
	SetEntityID(id string)
}

// QueryObserver receives timing for every store query. Implemented by the
// metrics recorder; nil observers are ignored.
type QueryObserver interface {
	ObserveStoreQuery(table, op string, duration time.Duration)
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

const chunkSize = 100

// Store is a generic typed accessor over a single table. It owns no state
// beyond the connection; every call re-queries the database and is atomic
// only with respect to the single row it touches.
type Store[T any, P Entity[T]] struct {
	db          *sqlx.DB
	table       string
	columns     []string
	indexed     map[string]struct{}
	selectList  string
	insertQuery string
	logger      *zap.Logger
	observer    QueryObserver
}

// NewStore constructs a store over the given table. columns lists every
// column in insert order; indexed whitelists the columns FindBy may filter on.
func NewStore[T any, P Entity[T]](db *sqlx.DB, table string, columns, indexed []string, logger *zap.Logger, observer QueryObserver) *Store[T, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	idx := make(map[string]struct{}, len(indexed))
	for _, col := range indexed {
		idx[col] = struct{}{}
	}
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		placeholders[i] = ":" + col
	}
	return &Store[T, P]{
		db:          db,
		table:       table,
		columns:     columns,
		indexed:     idx,
		selectList:  strings.Join(columns, ", "),
		insertQuery: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(placeholders, ", ")),
		logger:      logger,
		observer:    observer,
	}
}

func (s *Store[T, P]) observe(op string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveStoreQuery(s.table, op, time.Since(start))
	}
}

// GetAll returns every row of the table.
func (s *Store[T, P]) GetAll(ctx context.Context) ([]T, error) {
	defer s.observe("get_all", time.Now())
	query := fmt.Sprintf("SELECT %s FROM %s", s.selectList, s.table)
	var out []T
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	return out, nil
}

// GetByID returns one row by identifier. sql.ErrNoRows is returned unwrapped
// so callers can distinguish absence from infrastructure failure.
func (s *Store[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	defer s.observe("get_by_id", time.Now())
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", s.selectList, s.table)
	var out T
	if err := s.db.GetContext(ctx, &out, query, id); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByIDs returns the rows matching the given identifiers. Absent entries
// are dropped, not reported.
func (s *Store[T, P]) GetByIDs(ctx context.Context, ids []string) ([]T, error) {
	defer s.observe("get_by_ids", time.Now())
	if len(ids) == 0 {
		return nil, nil
	}
	var out []T
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]
		placeholders := make([]string, len(chunk))
		args := make([]interface{}, len(chunk))
		for i, id := range chunk {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = id
		}
		query := fmt.Sprintf("SELECT %s FROM %s WHERE id IN (%s)", s.selectList, s.table, strings.Join(placeholders, ","))
		var batch []T
		if err := s.db.SelectContext(ctx, &batch, query, args...); err != nil {
			return nil, fmt.Errorf("select %s by ids: %w", s.table, err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

// Add inserts one row, assigning a fresh identifier when the item carries
// none, and returns the identifier.
func (s *Store[T, P]) Add(ctx context.Context, item P) (string, error) {
	defer s.observe("add", time.Now())
	if item.EntityID() == "" {
		item.SetEntityID(uuid.NewString())
	}
	if _, err := s.db.NamedExecContext(ctx, s.insertQuery, item); err != nil {
		return "", fmt.Errorf("insert %s: %w", s.table, err)
	}
	return item.EntityID(), nil
}

// BulkAdd inserts the given rows one by one and returns their identifiers.
// There is no transactional guarantee across rows.
func (s *Store[T, P]) BulkAdd(ctx context.Context, items []P) ([]string, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id, err := s.Add(ctx, item)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Update applies the given partial changes to one row and returns the number
// of rows updated (0 when the id is unknown). Column names are validated
// against the table's column list.
func (s *Store[T, P]) Update(ctx context.Context, id string, changes map[string]interface{}) (int64, error) {
	defer s.observe("update", time.Now())
	if len(changes) == 0 {
		return 0, nil
	}
	cols := make([]string, 0, len(changes))
	for col := range changes {
		if !s.hasColumn(col) {
			return 0, fmt.Errorf("update %s: unknown column %q", s.table, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	assignments := make([]string, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, changes[col])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", s.table, strings.Join(assignments, ", "), len(cols)+1)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", s.table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update %s rows affected: %w", s.table, err)
	}
	return affected, nil
}

// Delete removes one row by identifier. Deleting an absent row is not an
// error.
func (s *Store[T, P]) Delete(ctx context.Context, id string) error {
	defer s.observe("delete", time.Now())
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.table, err)
	}
	return nil
}

// BulkDelete removes the rows matching the given identifiers.
func (s *Store[T, P]) BulkDelete(ctx context.Context, ids []string) error {
	defer s.observe("bulk_delete", time.Now())
	if len(ids) == 0 {
		return nil
	}
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]
		placeholders := make([]string, len(chunk))
		args := make([]interface{}, len(chunk))
		for i, id := range chunk {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = id
		}
		query := fmt.Sprintf("DELETE FROM %s WHERE id IN (%s)", s.table, strings.Join(placeholders, ","))
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("bulk delete %s: %w", s.table, err)
		}
	}
	return nil
}

// Count returns the total number of rows.
func (s *Store[T, P]) Count(ctx context.Context) (int, error) {
	defer s.observe("count", time.Now())
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	var total int
	if err := s.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return total, nil
}

// GetPaginated returns one page ordered by identifier. Page and size below 1
// are clamped to 1.
func (s *Store[T, P]) GetPaginated(ctx context.Context, page, pageSize int) (*Page[T], error) {
	defer s.observe("paginate", time.Now())
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id LIMIT %d OFFSET %d", s.selectList, s.table, pageSize, offset)
	var data []T
	if err := s.db.SelectContext(ctx, &data, query); err != nil {
		return nil, fmt.Errorf("paginate %s: %w", s.table, err)
	}

	return &Page[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// FindBy returns the rows matching every given equality filter. Filter
// columns must be whitelisted as indexed at construction.
func (s *Store[T, P]) FindBy(ctx context.Context, filters map[string]interface{}) ([]T, error) {
	defer s.observe("find_by", time.Now())
	if len(filters) == 0 {
		return s.GetAll(ctx)
	}
	cols := make([]string, 0, len(filters))
	for col := range filters {
		if _, ok := s.indexed[col]; !ok {
			return nil, fmt.Errorf("find %s: column %q is not indexed", s.table, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	conditions := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, col := range cols {
		conditions[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args[i] = filters[col]
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", s.selectList, s.table, strings.Join(conditions, " AND "))
	var out []T
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("find %s: %w", s.table, err)
	}
	return out, nil
}

func (s *Store[T, P]) hasColumn(col string) bool {
	for _, c := range s.columns {
		if c == col {
			return true
		}
	}
	return false
}
