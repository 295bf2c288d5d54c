package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// timeLayout формат времени HH:MM
const timeLayout = "15:04"

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")
)

// TimeString время суток в формате "HH:MM" (например, "09:30").
// Используется для рабочих часов и сравнения времени без привязки к дате.
type TimeString string

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" в TimeString.
// Принимается только каноничная форма с ведущими нулями ("09:00", не "9:00").
func NewTimeStringFromString(s string) (TimeString, error) {
	if _, err := parseMinutes(s); err != nil {
		return "", err
	}
	return TimeString(s), nil
}

// parseMinutes разбирает каноничную форму "HH:MM" в минуты с начала суток
func parseMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
	}

	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || mins > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	return hours*60 + mins, nil
}

// UnmarshalJSON нормализует время к каноничной форме "HH:MM": внешние сервисы
// присылают и не дополненные нулями значения ("9:00"), а сравнения - строковые.
func (ts *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == "" {
		*ts = ""
		return nil
	}

	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	*ts = TimeString(t.Format(timeLayout))
	return nil
}

// String возвращает строковое представление времени
func (ts TimeString) String() string {
	return string(ts)
}

// IsZero возвращает true, если время не задано
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// Validate проверяет корректность формата времени
func (ts TimeString) Validate() error {
	_, err := parseMinutes(string(ts))
	return err
}

// Minutes возвращает количество минут с начала суток
func (ts TimeString) Minutes() (int, error) {
	return parseMinutes(string(ts))
}

// AddMinutes возвращает время, сдвинутое на minutes минут вперёд.
// Переход через полночь не поддерживается - возвращается ошибка.
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := ts.Minutes()
	if err != nil {
		return "", err
	}

	total += minutes
	if total < 0 || total >= 24*60 {
		return "", fmt.Errorf("%w: %q + %d minutes is out of day range", ErrInvalidTimeString, string(ts), minutes)
	}

	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore возвращает true, если ts строго раньше other
func (ts TimeString) IsBefore(other TimeString) bool {
	return string(ts) < string(other)
}

// IsAfter возвращает true, если ts строго позже other
func (ts TimeString) IsAfter(other TimeString) bool {
	return string(ts) > string(other)
}
