package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrParentNotFound = errors.New("referenced record not found")
)

// validation errors
var (
	ErrInvalidRecord   = errors.New("invalid record")
	ErrInvalidCategory = errors.New("invalid product category")
	ErrInvalidID       = errors.New("invalid record id")
)

// admin registry errors
var (
	ErrUnknownEntity = errors.New("unknown entity type")
)
