// Package orm is a thin chainable query layer over GORM with optional
// read-through caching via pkg/kv.
package orm

import (
	"time"

	"gorm.io/gorm"

	"github.com/dnguyen-dev/bistro/pkg/database"
	"github.com/dnguyen-dev/bistro/pkg/kv"
)

// Query wraps a *gorm.DB; every chain method returns a fresh Query so partial
// chains can be reused safely.
type Query struct {
	db *gorm.DB
}

// DB starts a query chain on the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// With starts a chain on an explicit *gorm.DB (transactions, tests).
func With(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

func (q *Query) Updates(values interface{}) error {
	return q.db.Updates(values).Error
}

// Cache answers the query from the KV store when possible, falling back to
// the database and populating the store on a miss.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if kv.Get(key, dest) {
		return nil
	}
	if err := q.db.Find(dest).Error; err != nil {
		return err
	}
	kv.Set(key, dest, ttl) //nolint:errcheck
	return nil
}
