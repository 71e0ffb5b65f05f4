package types

import (
	"database/sql/driver"
	"encoding/json"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"migration-estimator/internal/errors"
)

// AnswerValue is the raw JSON of one questionnaire field.
// SQLite stores it in a TEXT column so scalar answers keep their JSON text
// instead of being coerced to numbers by column affinity.
type AnswerValue json.RawMessage

// Value implements driver.Valuer
func (v AnswerValue) Value() (driver.Value, error) {
	if len(v) == 0 {
		return "null", nil
	}
	if !json.Valid(v) {
		return nil, errors.Newf(errors.TypeValidation, "answer value is not valid JSON: %q", string(v))
	}
	return string(v), nil
}

// Scan implements sql.Scanner. Numeric driver values are accepted for rows
// written into a numeric-affinity column.
func (v *AnswerValue) Scan(src interface{}) error {
	switch s := src.(type) {
	case nil:
		*v = AnswerValue("null")
	case []byte:
		*v = append(AnswerValue(nil), s...)
	case string:
		*v = AnswerValue(s)
	case int64:
		*v = AnswerValue(strconv.FormatInt(s, 10))
	case float64:
		*v = AnswerValue(strconv.FormatFloat(s, 'f', -1, 64))
	case bool:
		*v = AnswerValue(strconv.FormatBool(s))
	default:
		return errors.Newf(errors.TypeStorage, "unsupported answer value type %T", src)
	}
	return nil
}

// MarshalJSON writes the stored JSON unchanged
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return json.RawMessage(v).MarshalJSON()
}

// UnmarshalJSON keeps a copy of b
func (v *AnswerValue) UnmarshalJSON(b []byte) error {
	*v = append(AnswerValue(nil), b...)
	return nil
}

// String returns the JSON text
func (v AnswerValue) String() string {
	return string(v)
}

// GormDataType gorm common data type
func (AnswerValue) GormDataType() string {
	return "json"
}

// GormDBDataType gorm db data type
func (AnswerValue) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}
