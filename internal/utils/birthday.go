package utils

import "time"

// DaysUntilBirthday returns the number of days from today until the next
// occurrence of the given birthday, ignoring the stored year.
//
// The birthday is re-anchored to today's year first; if that date has already
// passed, it is re-anchored to next year instead, so windows that cross New
// Year still see early-January birthdays. Feb 29 normalizes to Mar 1 in
// non-leap years via time.Date, applied the same way for both candidate years.
func DaysUntilBirthday(birthday, today time.Time) int {
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	next := time.Date(todayDate.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(todayDate) {
		next = time.Date(todayDate.Year()+1, birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	}

	return int(next.Sub(todayDate).Hours() / 24)
}

// BirthdayWithinDays reports whether the birthday's next occurrence falls
// within the inclusive window [0, days] counted from today.
func BirthdayWithinDays(birthday, today time.Time, days int) bool {
	diff := DaysUntilBirthday(birthday, today)
	return diff >= 0 && diff <= days
}
