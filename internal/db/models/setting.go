// Package models contains database model definitions.
package models

import (
	"time"
)

// Setting represents a configuration setting stored in the database.
//
// IsProtected and IsDynamic are pointers so that rows created before the
// classification lists existed can be told apart from rows explicitly
// flagged false; the manager reconciles unset flags on initialization.
type Setting struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"unique"`
	Value       string
	CreatedDate time.Time `gorm:"autoCreateTime"`
	UpdatedDate time.Time `gorm:"autoUpdateTime"`
	IsProtected *bool
	IsDynamic   *bool
}

// Protected reports the IsProtected flag, treating unset as false.
func (s *Setting) Protected() bool {
	return s.IsProtected != nil && *s.IsProtected
}

// Dynamic reports the IsDynamic flag, treating unset as false.
func (s *Setting) Dynamic() bool {
	return s.IsDynamic != nil && *s.IsDynamic
}

// BoolPtr returns a pointer to b, for filling the flag columns.
func BoolPtr(b bool) *bool {
	return &b
}
