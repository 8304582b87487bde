package booking

import (
	"fmt"
	"time"

	"tablebook/models"
)

var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

var weekdaysShort = [...]string{"вс", "пн", "вт", "ср", "чт", "пт", "сб"}

// FormatDateTitle renders an ISO date as "21 октября, ср". Unparsable values are returned as is.
func FormatDateTitle(raw string, loc *time.Location) string {
	value := raw
	if len(value) > 10 {
		value = value[:10]
	}
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return raw
	}
	return fmt.Sprintf("%d %s, %s", d.Day(), monthsGenitive[d.Month()-1], weekdaysShort[d.Weekday()])
}

// toSelectableDates maps raw backend dates to picker values.
func toSelectableDates(raw []string, loc *time.Location) []models.Selectable {
	out := make([]models.Selectable, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.Selectable{Title: FormatDateTitle(r, loc), Value: r})
	}
	return out
}
