package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday — фиксированный перечислимый тип дня недели.
// Нумерация совпадает с time.Weekday (воскресенье = 0).
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [...]string{
	"SUNDAY", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY",
}

// AllWeekdays перечисляет дни недели в порядке понедельник..воскресенье.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) String() string {
	if d < Sunday || d > Saturday {
		return "UNKNOWN"
	}
	return weekdayNames[d]
}

// ParseWeekday разбирает английское название дня недели без учёта регистра.
func ParseWeekday(s string) (Weekday, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range weekdayNames {
		if n == name {
			return Weekday(i), nil
		}
	}
	return Sunday, fmt.Errorf("неизвестный день недели: %q", s)
}

// WeekdayOf возвращает день недели для момента времени.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}
