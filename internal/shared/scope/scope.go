// Package scope holds reusable gorm query scopes.
package scope

import "gorm.io/gorm"

// NotDeleted excludes soft-deleted rows of table. The filter is applied
// explicitly at every call site; no ORM hook rewrites queries.
func NotDeleted(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".is_deleted = ?", false)
	}
}

// Paginate applies LIMIT/OFFSET for 1-based pages. Non-positive values
// disable pagination.
func Paginate(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || limit <= 0 {
			return db
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
