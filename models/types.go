package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StringList is an ordered list of strings stored in a json column.
type StringList = datatypes.JSONSlice[string]

// NewStringList copies s, mapping nil to an empty list so the column and the
// API both carry [] rather than null.
func NewStringList(s []string) StringList {
	if s == nil {
		return StringList{}
	}
	return append(StringList{}, s...)
}

func newID() string {
	return uuid.New().String()
}
