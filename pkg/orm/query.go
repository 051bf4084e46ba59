// Package orm is a thin, chainable wrapper around GORM.
//
// Repositories build queries through this package instead of touching
// *gorm.DB directly, which keeps query latency metrics and the cache hook
// in one place. Transaction-scoped work wraps the tx handle with orm.Tx:
//
//	orm.Transaction(func(tx *gorm.DB) error {
//	    q := orm.Tx(tx)
//	    ...
//	})
package orm

import (
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"gorm.io/gorm"
)

// Cacher is implemented by pkg/cache; wired at boot by the kernel so orm
// and cache do not import each other.
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is the cache backend used by Query.Cache. Nil disables caching.
var CacheStore Cacher

type Query struct {
	db *gorm.DB
}

// DB starts a query against the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Tx starts a query scoped to an open transaction.
func Tx(tx *gorm.DB) *Query {
	return &Query{db: tx}
}

// Transaction runs fn inside a database transaction. Any error returned by
// fn rolls the whole transaction back.
func Transaction(fn func(tx *gorm.DB) error) error {
	return database.DB.Transaction(fn)
}

// Gorm exposes the underlying handle for the rare query the wrapper does
// not cover (migrations, raw SQL).
func (q *Query) Gorm() *gorm.DB { return q.db }

// ── Builders ─────────────────────────────────────────────────────────────────

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

// Preload eagerly loads an association (e.g. "Items.Product").
func (q *Query) Preload(assoc string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(assoc, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

// ── Finishers ────────────────────────────────────────────────────────────────

func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Count(n).Error
}

func (q *Query) Create(value interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(value).Error
}

func (q *Query) Save(value interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Save(value).Error
}

func (q *Query) Update(column string, value interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Update(column, value).Error
}

func (q *Query) Delete(value interface{}, conds ...interface{}) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return q.db.Delete(value, conds...).Error
}

// ── Cache-through read ───────────────────────────────────────────────────────

// Cache fills dest from the cache when possible, otherwise runs the query
// and stores the result under key for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.Get(dest); err != nil {
		return err
	}

	if CacheStore != nil {
		_ = CacheStore.Set(key, dest, ttl)
	}
	return nil
}

// ── Pagination ───────────────────────────────────────────────────────────────

// Pagination describes one page of a result set.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// GetWithPagination runs a count plus a windowed find and returns page
// metadata. page is 1-based; limit is clamped to [1,100].
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var total int64
	if err := q.Count(&total); err != nil {
		return Pagination{}, err
	}

	defer metrics.ObserveDBQuery("select", time.Now())
	offset := (page - 1) * limit
	if err := q.db.Offset(offset).Limit(limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}
