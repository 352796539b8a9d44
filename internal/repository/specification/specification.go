package specification

import "gorm.io/gorm"

// Specification narrows a query over the turn archive or the knowledge
// chunks. Repositories apply them in order.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
