package analytics

import (
	"strings"
	"time"
)

// Раскладки ISO-8601 в порядке проверки. Дробные секунды после секунд Go принимает сам.
var isoLayouts = []struct {
	layout    string
	hasOffset bool
}{
	{"2006-01-02T15:04:05-07:00", true},
	{"2006-01-02T15:04:05-0700", true},
	{"2006-01-02T15:04-07:00", true},
	{"2006-01-02T15:04-0700", true},
	{"2006-01-02T15-07:00", true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02T15", false},
	{"2006-01-02", false},
}

// ParseInstant нормализует метку времени в UTC.
// Пустая строка даёт ok == false без ошибки; нераспознанная - *ParseError.
// Без смещения время считается UTC, не локальным.
func ParseInstant(raw string) (t time.Time, ok bool, err error) {
	t, ok, err = parseWithOffset(raw)
	return t.UTC(), ok, err
}

// parseWithOffset разбирает метку, сохраняя смещение, с которым её записали.
func parseWithOffset(raw string) (time.Time, bool, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return time.Time{}, false, nil
	}
	if strings.HasSuffix(cleaned, "Z") {
		cleaned = cleaned[:len(cleaned)-1] + "+00:00"
	}
	// Разделитель даты и времени может быть пробелом.
	if len(cleaned) > 10 && cleaned[10] == ' ' {
		cleaned = cleaned[:10] + "T" + cleaned[11:]
	}
	for _, l := range isoLayouts {
		var parsed time.Time
		var perr error
		if l.hasOffset {
			parsed, perr = time.Parse(l.layout, cleaned)
		} else {
			parsed, perr = time.ParseInLocation(l.layout, cleaned, time.UTC)
		}
		if perr == nil {
			return parsed, true, nil
		}
	}
	return time.Time{}, false, &ParseError{Value: raw}
}

// parseLenient - режим массовой обработки: битая или пустая метка делает запись «без даты».
func parseLenient(raw string) (time.Time, bool) {
	t, ok, err := ParseInstant(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, ok
}

// FormatInstant печатает момент в UTC с явным смещением +00:00;
// микросекунды выводятся только если они ненулевые.
func FormatInstant(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/1000 == 0 {
		return t.Format("2006-01-02T15:04:05-07:00")
	}
	return t.Format("2006-01-02T15:04:05.000000-07:00")
}
