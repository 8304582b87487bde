package models

// TimeSlot is a bookable interval as returned by the backend.
type TimeSlot struct {
	StartDatetime string `json:"start_datetime"`
	EndDatetime   string `json:"end_datetime"`
}

// Partition buckets slots for display by local start hour.
type Partition string

const (
	PartitionMorning Partition = "morning"
	PartitionDay     Partition = "day"
	PartitionEvening Partition = "evening"
)

// Partitions lists all partitions in display order.
var Partitions = []Partition{PartitionMorning, PartitionDay, PartitionEvening}

// Valid reports whether p is one of the known partitions.
func (p Partition) Valid() bool {
	switch p {
	case PartitionMorning, PartitionDay, PartitionEvening:
		return true
	}
	return false
}

// PartitionView is what the slot picker renders: the toggles to show and the active subset.
type PartitionView struct {
	Available []Partition `json:"available"`
	Active    Partition   `json:"active,omitempty"`
	Slots     []TimeSlot  `json:"slots"`
}
