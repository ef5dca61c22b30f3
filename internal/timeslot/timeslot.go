// Package timeslot разбирает строки слотов доступности консультантов
// и отвечает на вопрос "попадает ли время T в слот S".
//
// Слот бывает четырёх видов: пустой (весь день), одиночное время ("09:00" или "9:00 AM"),
// диапазон ("09:00-17:00") и список через запятую ("09:00,10:00").
package timeslot

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	twelveHourRe = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	dayHourRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseMinutes переводит "H:MM", "HH:MM" или "H:MM AM|PM" в минуты от полуночи.
// Второе значение false означает "не удалось разобрать" - это не ошибка,
// вызывающий код должен откатиться к строковому сравнению.
func ParseMinutes(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	if m := twelveHourRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, false
		}

		switch {
		case strings.EqualFold(m[3], "PM") && hour != 12:
			hour += 12
		case strings.EqualFold(m[3], "AM") && hour == 12:
			hour = 0
		}
		return hour*60 + minute, true
	}

	if m := dayHourRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return 0, false
		}
		return hour*60 + minute, true
	}

	return 0, false
}

// HourOf возвращает час (0-23) для строки времени
func HourOf(text string) (int, bool) {
	minutes, ok := ParseMinutes(text)
	if !ok {
		return 0, false
	}
	return minutes / 60, true
}

// Within проверяет, попадает ли requested в слот консультанта.
// Функция тотальная: любой вход даёт true или false.
func Within(requested, slot string) bool {
	// Пустой слот - консультант доступен весь день
	if slot == "" {
		return true
	}

	if strings.Contains(slot, "-") {
		return withinRange(requested, slot)
	}

	if slot == requested {
		return true
	}

	if strings.Contains(slot, ",") {
		for _, t := range strings.Split(slot, ",") {
			if strings.TrimSpace(t) == requested {
				return true
			}
		}
		return false
	}

	return false
}

// withinRange обрабатывает диапазон "start-end", обе границы включительно.
// Всё после второго "-" отбрасывается.
func withinRange(requested, slot string) bool {
	parts := strings.Split(slot, "-")
	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[1])

	reqMin, okReq := ParseMinutes(requested)
	startMin, okStart := ParseMinutes(start)
	endMin, okEnd := ParseMinutes(end)
	if okReq && okStart && okEnd {
		return reqMin >= startMin && reqMin <= endMin
	}

	// Legacy: при неразбираемых границах сравниваем строки лексически.
	// Для 12-часовых строк с AM/PM результат ненадёжен.
	return requested >= start && requested <= end
}

// NonEmpty возвращает слоты без пустых значений
func NonEmpty(slots []string) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AnyWithin возвращает true, если хотя бы один слот покрывает время
func AnyWithin(requested string, slots []string) bool {
	for _, s := range slots {
		if Within(requested, s) {
			return true
		}
	}
	return false
}
