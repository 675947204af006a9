package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// scopeOrganizations applies the caller's read predicate to a query.
// all means a platform operator: no restriction. An empty id set for a
// non-operator matches nothing rather than everything.
func scopeOrganizations(db *gorm.DB, orgIDs []uuid.UUID, all bool) *gorm.DB {
	if all {
		return db
	}
	if len(orgIDs) == 0 {
		return db.Where("1 = 0")
	}
	return db.Where("organization_id IN ?", orgIDs)
}
