package model

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date that marshals as YYYY-MM-DD in JSON.
// Only the date part is meaningful; the time part is always midnight UTC.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}
	d.Time = t
	return nil
}

// Contact represents a single contact entry owned by a user
type Contact struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Birthday    Date   `json:"birthday"`
	Description string `json:"description"`
	UserID      int    `json:"-"` // Ownership is implicit in the authenticated request
}

// ContactRequest is used for creating a contact and for the full-replace update
type ContactRequest struct {
	FirstName   string `json:"first_name" binding:"required,max=100"`
	LastName    string `json:"last_name" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email,max=150"`
	PhoneNumber string `json:"phone_number" binding:"required,max=20"`
	Birthday    Date   `json:"birthday" binding:"required"`
	Description string `json:"description" binding:"max=1500"` // Defaults to "" when omitted
}
