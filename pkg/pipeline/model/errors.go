package model

import "github.com/pkg/errors"

var (
	ErrEmptyID            = errors.New("id must be set")
	ErrDuplicateID        = errors.New("id already exists in collection")
	ErrNotFound           = errors.New("entity not found")
	ErrCollectionMismatch = errors.New("entity does not belong to collection")
	ErrUnknownCollection  = errors.New("unknown collection")
	ErrFieldNotApplicable = errors.New("field does not apply to collection")
	ErrUnknownKind        = errors.New("unknown kind")
	ErrUnknownConfigKey   = errors.New("unknown config key")
	ErrInvalidConfigValue = errors.New("invalid config value")
	ErrInvalidDataType    = errors.New("invalid column data type")
	ErrNotDatabase        = errors.New("entity is not a database entity")
	ErrAccessModeConflict = errors.New("table_name and sql_query are mutually exclusive")
	ErrSettingsMismatch   = errors.New("settings do not match entity kind")
)
