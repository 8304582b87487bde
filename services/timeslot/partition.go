// Package timeslot buckets bookable slots into morning, day and evening windows.
package timeslot

import (
	"time"

	"tablebook/models"
)

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDatetime parses the datetime formats the backend emits. Values without a zone are read in loc.
func ParseDatetime(value string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsValid reports whether both endpoints of the slot parse.
func IsValid(slot models.TimeSlot) bool {
	_, okStart := ParseDatetime(slot.StartDatetime, time.UTC)
	_, okEnd := ParseDatetime(slot.EndDatetime, time.UTC)
	return okStart && okEnd
}

// Classify returns the partition of a valid slot by the local hour of its start.
func Classify(slot models.TimeSlot, loc *time.Location) (models.Partition, bool) {
	if !IsValid(slot) {
		return "", false
	}
	start, _ := ParseDatetime(slot.StartDatetime, loc)
	if loc != nil {
		start = start.In(loc)
	}
	return partitionForHour(start.Hour()), true
}

func partitionForHour(hour int) models.Partition {
	switch {
	case hour >= 8 && hour < 12:
		return models.PartitionMorning
	case hour >= 12 && hour < 18:
		return models.PartitionDay
	default:
		return models.PartitionEvening
	}
}

// Filter keeps the valid slots of one partition, preserving order.
func Filter(slots []models.TimeSlot, partition models.Partition, loc *time.Location) []models.TimeSlot {
	out := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if p, ok := Classify(slot, loc); ok && p == partition {
			out = append(out, slot)
		}
	}
	return out
}

// Split groups valid slots by partition. Invalid slots are dropped.
func Split(slots []models.TimeSlot, loc *time.Location) map[models.Partition][]models.TimeSlot {
	out := make(map[models.Partition][]models.TimeSlot, len(models.Partitions))
	for _, slot := range slots {
		if p, ok := Classify(slot, loc); ok {
			out[p] = append(out[p], slot)
		}
	}
	return out
}

// Available lists the non-empty partitions in display order.
func Available(slots []models.TimeSlot, loc *time.Location) []models.Partition {
	groups := Split(slots, loc)
	out := make([]models.Partition, 0, len(models.Partitions))
	for _, p := range models.Partitions {
		if len(groups[p]) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// ShortTime formats the start of a slot as HH:MM in loc.
func ShortTime(slot models.TimeSlot, loc *time.Location) (string, bool) {
	start, ok := ParseDatetime(slot.StartDatetime, loc)
	if !ok {
		return "", false
	}
	if loc != nil {
		start = start.In(loc)
	}
	return start.Format("15:04"), true
}

// Same reports whether two slots describe the same interval.
func Same(a, b models.TimeSlot) bool {
	return a.StartDatetime == b.StartDatetime && a.EndDatetime == b.EndDatetime
}

// Contains reports whether slot is one of slots.
func Contains(slots []models.TimeSlot, slot models.TimeSlot) bool {
	for _, s := range slots {
		if Same(s, slot) {
			return true
		}
	}
	return false
}
