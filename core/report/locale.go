package report

import (
	"fmt"
	"time"
)

var months = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

var weekdays = [...]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}

// DayLabel renders t as "02 Jan" with Indonesian month names.
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%02d %s", t.Day(), months[t.Month()-1])
}

func WeekdayLabel(t time.Time) string {
	return weekdays[t.Weekday()]
}

// FormatDateTime renders t the way Indonesian locales print a timestamp.
func FormatDateTime(t time.Time) string {
	return t.Format("02/01/2006, 15.04.05")
}
