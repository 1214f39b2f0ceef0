// Package repository declares the persistence contracts used by services.
// Implementations live in subpackages (postgres). Lookups that match no row
// return sql.ErrNoRows so callers can map it to their own not-found error.
package repository

// PageQuery holds limit/offset pagination parameters. A zero Limit means no limit.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
