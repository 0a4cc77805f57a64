package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestDaysUntilBirthday_Today(t *testing.T) {
	today := date(2025, time.June, 15)
	birthday := date(1990, time.June, 15)

	assert.Equal(t, 0, DaysUntilBirthday(birthday, today))
}

func TestDaysUntilBirthday_LaterThisYear(t *testing.T) {
	today := date(2025, time.June, 15)
	birthday := date(1990, time.June, 20)

	assert.Equal(t, 5, DaysUntilBirthday(birthday, today))
}

func TestDaysUntilBirthday_AlreadyPassed(t *testing.T) {
	today := date(2025, time.June, 15)
	birthday := date(1990, time.June, 10)

	// Wraps to next year: Jun 10 2026 is 360 days after Jun 15 2025
	assert.Equal(t, 360, DaysUntilBirthday(birthday, today))
}

func TestDaysUntilBirthday_YearWrap(t *testing.T) {
	// Dec 28 looking at a Dec 30 birthday stays in the current year
	today := date(2025, time.December, 28)
	assert.Equal(t, 2, DaysUntilBirthday(date(1985, time.December, 30), today))

	// A Jan 2 birthday is evaluated against next year, not as long passed
	assert.Equal(t, 5, DaysUntilBirthday(date(1985, time.January, 2), today))
}

func TestDaysUntilBirthday_LeapDayNonLeapYear(t *testing.T) {
	// 2025 is not a leap year: Feb 29 normalizes to Mar 1
	birthday := date(1996, time.February, 29)

	assert.Equal(t, 1, DaysUntilBirthday(birthday, date(2025, time.February, 28)))
	assert.Equal(t, 0, DaysUntilBirthday(birthday, date(2025, time.March, 1)))
}

func TestDaysUntilBirthday_LeapDayLeapYear(t *testing.T) {
	// 2028 is a leap year: Feb 29 stays Feb 29
	birthday := date(1996, time.February, 29)

	assert.Equal(t, 1, DaysUntilBirthday(birthday, date(2028, time.February, 28)))
	assert.Equal(t, 0, DaysUntilBirthday(birthday, date(2028, time.February, 29)))
}

func TestDaysUntilBirthday_IgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2025, time.June, 15, 23, 45, 0, 0, time.UTC)
	birthday := date(1990, time.June, 16)

	assert.Equal(t, 1, DaysUntilBirthday(birthday, today))
}

func TestBirthdayWithinDays(t *testing.T) {
	today := date(2025, time.December, 28)

	tests := []struct {
		name     string
		birthday time.Time
		days     int
		want     bool
	}{
		{"same day zero window", date(1990, time.December, 28), 0, true},
		{"tomorrow zero window", date(1990, time.December, 29), 0, false},
		{"dec 30 within a week", date(1990, time.December, 30), 7, true},
		{"jan 2 within a week across new year", date(1990, time.January, 2), 7, true},
		{"jan 5 outside the week", date(1990, time.January, 5), 7, false},
		{"months away", date(1990, time.June, 1), 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BirthdayWithinDays(tt.birthday, today, tt.days))
		})
	}
}
