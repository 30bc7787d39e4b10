package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON is a map-backed jsonb column type
type JSON map[string]interface{}

// Value implements driver.Valuer for writing jsonb columns
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(j)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON column: %w", err)
	}
	return string(bytes), nil
}

// Scan implements sql.Scanner for reading jsonb columns
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSON column: %T", value)
	}

	if len(bytes) == 0 {
		*j = nil
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// GormDataType tells GORM which column type to use
func (JSON) GormDataType() string {
	return "jsonb"
}
