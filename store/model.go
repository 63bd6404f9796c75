// Package store is the reference datastore/query-executor: a minimal
// gorm-backed implementation of rpc.Engine sufficient to exercise the
// dispatch core end-to-end in tests (spec.md Non-goals: "query-language
// syntax/parser completeness, storage engine durability ... are explicitly
// out of scope; the reference store engine exists only to exercise the
// dispatch core in tests"). It is not, and is not meant to be, a real
// multi-model query engine.
package store

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Record is the single physical table every logical "table" and "thing"
// maps onto, grounded on the teacher's model.Base row shape (model/model.go)
// trimmed to what a generic, schemaless reference engine needs.
type Record struct {
	Table string `gorm:"primaryKey;type:varchar(128)"`
	ID    string `gorm:"primaryKey;type:varchar(128)"`
	Data  string `gorm:"type:text"` // JSON-encoded field map

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Record) fields() (map[string]any, error) {
	if r.Data == "" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(r.Data), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Record) setFields(m map[string]any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	r.Data = string(b)
	return nil
}

// Subscription is the row backing a Live/Kill query subscription.
type Subscription struct {
	ID    string `gorm:"primaryKey;type:varchar(64)"`
	Table string `gorm:"type:varchar(128)"`
}

// AutoMigrate creates the reference engine's tables, mirroring the
// teacher's Migrate(true) Design() convention (internal/model/iam/user.go).
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Record{}, &Subscription{})
}
