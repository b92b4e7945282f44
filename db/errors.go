package db

import "errors"

var (
	// ErrNotFound is returned for lookup misses: tag, prefix or user info.
	ErrNotFound = errors.New("db: not found")
	// ErrTagExists is returned when creating a tag whose (guild, name) pair
	// is already taken.
	ErrTagExists = errors.New("db: tag already exists")
	// ErrForbidden is returned when the requester is neither the tag owner
	// nor an administrator.
	ErrForbidden = errors.New("db: forbidden")
	// ErrQueryTooShort is returned by tag search for queries under three
	// characters. Distinct from an empty result.
	ErrQueryTooShort = errors.New("db: search query too short")
)
