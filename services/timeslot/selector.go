package timeslot

import (
	"time"

	"tablebook/models"
)

// Selector holds which partition toggle is active in the slot picker.
type Selector struct {
	Active   models.Partition
	lastSlot *models.TimeSlot
	loc      *time.Location
}

// NewSelector creates a selector classifying hours in loc.
func NewSelector(loc *time.Location) *Selector {
	return &Selector{loc: loc}
}

// Sync reconciles the active partition with the loaded slots and the selected slot.
// A newly selected slot pulls the toggle to its own partition; otherwise the first
// non-empty partition is picked when the current one has nothing to show.
func (s *Selector) Sync(slots []models.TimeSlot, selected *models.TimeSlot) {
	if selected != nil && (s.lastSlot == nil || !Same(*s.lastSlot, *selected)) {
		slot := *selected
		s.lastSlot = &slot
		if p, ok := Classify(slot, s.loc); ok {
			s.Active = p
			return
		}
	}
	if selected == nil {
		s.lastSlot = nil
	}

	available := Available(slots, s.loc)
	if len(available) == 0 {
		s.Active = ""
		return
	}
	if selected != nil && s.Active != "" {
		return
	}
	for _, p := range available {
		if p == s.Active {
			return
		}
	}
	s.Active = available[0]
}

// Select switches the toggle manually.
func (s *Selector) Select(p models.Partition) bool {
	if !p.Valid() {
		return false
	}
	s.Active = p
	return true
}

// View returns the buttons to render and the slots of the active partition.
func (s *Selector) View(slots []models.TimeSlot) models.PartitionView {
	view := models.PartitionView{
		Available: Available(slots, s.loc),
		Active:    s.Active,
		Slots:     []models.TimeSlot{},
	}
	if s.Active != "" {
		view.Slots = Filter(slots, s.Active, s.loc)
	}
	return view
}

// Restore sets the selector state from a persisted snapshot.
func (s *Selector) Restore(active models.Partition, selected *models.TimeSlot) {
	s.Active = active
	if selected != nil {
		slot := *selected
		s.lastSlot = &slot
	}
}
