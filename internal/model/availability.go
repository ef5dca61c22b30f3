package model

import (
	"fmt"
	"time"
)

// Weekday рабочий день недели. Выходные не поддерживаются.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// Weekdays фиксированный порядок дней для расписаний
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// ParseWeekday принимает только точное совпадение с регистром
func ParseWeekday(s string) (Weekday, error) {
	for _, d := range Weekdays {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid weekday %q", s)
}

// WeekdayOf возвращает рабочий день для даты, false для выходных
func WeekdayOf(t time.Time) (Weekday, bool) {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return "", false
	default:
		return Weekday(t.Weekday().String()), true
	}
}

// Availability строка counselor_availability
type Availability struct {
	ID            int64   `json:"id"`
	CounselorID   string  `json:"counselor_id"`
	Day           Weekday `json:"available_days"`
	TimeScheduled *string `json:"time_scheduled"` // nil - доступен весь день
}

// Slot возвращает строку слота, NULL превращается в пустую строку
func (a *Availability) Slot() string {
	if a.TimeScheduled == nil {
		return ""
	}
	return *a.TimeScheduled
}

// CounselorScheduleEntry консультант в расписании на конкретный день
type CounselorScheduleEntry struct {
	CounselorID    string   `json:"counselor_id"`
	Name           string   `json:"name"`
	Degree         string   `json:"degree"`
	ProfilePicture *string  `json:"profile_picture"`
	TimeSlots      []string `json:"time_slots"`
	DisplayName    string   `json:"display_name"`
}

// AvailableCounselor консультант, доступный в запрошенное время
type AvailableCounselor struct {
	CounselorID    string   `json:"counselor_id"`
	Name           string   `json:"name"`
	Degree         string   `json:"degree"`
	Email          string   `json:"email"`
	ContactNumber  string   `json:"contact_number"`
	ProfilePicture *string  `json:"profile_picture"`
	TimeSlots      []string `json:"time_slots"` // все слоты дня, не только совпавший
	DisplayName    string   `json:"display_name"`
}

// WeeklySchedule расписание всех консультантов по дням
type WeeklySchedule struct {
	Schedules       map[Weekday][]CounselorScheduleEntry `json:"schedules"`
	TotalCounselors int                                  `json:"total_counselors"`
}

// AvailableCounselors результат поиска по дню и времени
type AvailableCounselors struct {
	Counselors     []AvailableCounselor `json:"counselors"`
	Day            Weekday              `json:"day"`
	Time           string               `json:"time"`
	TotalAvailable int                  `json:"total_available"`
}
