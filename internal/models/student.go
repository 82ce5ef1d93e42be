package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. It travels as
// YYYY-MM-DD over the wire and maps to a nullable DATE column.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Format(dateLayout), nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case time.Time:
		d.Time = v.UTC().Truncate(24 * time.Hour)
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	default:
		return fmt.Errorf("unsupported date source %T", src)
	}
}

func (d *Date) parse(s string) error {
	// Postgres DATE comes back bare, SQLite may append a zero time part
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("failed to scan date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

type Student struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name" validate:"required"`
	LastName  string `db:"last_name" json:"last_name" validate:"required"`
	Email     string `db:"email" json:"email" validate:"required,email"`
	DOB       *Date  `db:"dob" json:"dob,omitempty"`
}

func (s *Student) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}
