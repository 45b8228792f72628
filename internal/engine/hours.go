package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidWorkingHours = errors.New("invalid working hours")

// ParseWorkingHours разбирает строку вида "08:00-15:00".
// Разделитель: дефис или en dash ("08:00–15:00"); минуты отбрасываются,
// окно считается с точностью до часа.
func ParseWorkingHours(s string) (WorkingWindow, error) {
	parts := strings.Split(strings.ReplaceAll(s, "–", "-"), "-")
	if len(parts) != 2 {
		return WorkingWindow{}, fmt.Errorf("%w: %q", ErrInvalidWorkingHours, s)
	}

	start, err := parseHour(parts[0])
	if err != nil {
		return WorkingWindow{}, fmt.Errorf("%w: start: %w", ErrInvalidWorkingHours, err)
	}
	end, err := parseHour(parts[1])
	if err != nil {
		return WorkingWindow{}, fmt.Errorf("%w: end: %w", ErrInvalidWorkingHours, err)
	}

	w := WorkingWindow{StartHour: start, EndHour: end}
	if !w.Valid() {
		return WorkingWindow{}, fmt.Errorf("%w: window %02d-%02d is empty or out of range", ErrInvalidWorkingHours, start, end)
	}
	return w, nil
}

// parseHour берет только часы; минуты не разбираются вовсе.
func parseHour(s string) (int, error) {
	hh, _, _ := strings.Cut(strings.TrimSpace(s), ":")
	hour, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil {
		return 0, err
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour %d out of range", hour)
	}
	return hour, nil
}

// FormatWindow возвращает окно в том же формате "HH:MM-HH:MM".
func FormatWindow(w WorkingWindow) string {
	return fmt.Sprintf("%02d:00-%02d:00", w.StartHour, w.EndHour)
}
