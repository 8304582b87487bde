package booking

import (
	"fmt"
	"strings"

	"tablebook/models"
	"tablebook/services/timeslot"
)

// Updatable field names accepted by UpdateField.
const (
	FieldUserName      = "user_name"
	FieldUserPhone     = "user_phone"
	FieldUserEmail     = "user_email"
	FieldCommentary    = "commentary"
	FieldPreOrder      = "pre_order"
	FieldCertificateID = "certificate_id"
)

// clearSlots drops the slot list and the selection that depended on it, so the next
// Refresh reloads it.
func (o *Orchestrator) clearSlots() {
	o.slots = nil
	o.slotsError = false
	o.requestedSlots = ""
	o.form.SelectedTimeSlot = nil
	o.pendingSlot = nil
	o.selector.Sync(nil, nil)
}

func (o *Orchestrator) mutate(fn func() error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrSessionClosed
	}
	if err := fn(); err != nil {
		return err
	}
	o.enforcePreOrder()
	o.touch()
	return nil
}

// SelectRestaurant sets the restaurant; nil clears it. The time slot is always reset.
func (o *Orchestrator) SelectRestaurant(r *models.Selectable) error {
	return o.mutate(func() error {
		prev := o.form.Restaurant
		if r != nil && r.Value == "" {
			r = nil
		}
		if r != nil {
			v := *r
			o.form.Restaurant = &v
		} else {
			o.form.Restaurant = nil
		}
		if !sameSelectable(prev, o.form.Restaurant) {
			o.dates = nil
			o.requestedDates = ""
		}
		o.clearSlots()
		return nil
	})
}

// SelectDate sets the date; nil clears it. The time slot is always reset.
func (o *Orchestrator) SelectDate(d *models.Selectable) error {
	return o.mutate(func() error {
		if d != nil && d.Value == "" {
			d = nil
		}
		if d != nil {
			v := *d
			if v.Title == "" {
				v.Title = o.dateTitle(v.Value)
			}
			o.form.Date = &v
		} else {
			o.form.Date = nil
		}
		o.clearSlots()
		return nil
	})
}

func (o *Orchestrator) dateTitle(value string) string {
	for _, d := range o.dates {
		if d.Value == value {
			return d.Title
		}
	}
	return FormatDateTitle(value, o.opts.Location)
}

// SetGuestCount changes the number of adults. A different count invalidates the slot list.
func (o *Orchestrator) SetGuestCount(n int) error {
	return o.mutate(func() error {
		if n < 0 {
			return invalidValue("guest_count", n)
		}
		if n != o.form.GuestCount {
			o.form.GuestCount = n
			o.clearSlots()
		}
		return nil
	})
}

// SetChildrenCount changes the number of children.
func (o *Orchestrator) SetChildrenCount(n int) error {
	return o.mutate(func() error {
		if n < 0 {
			return invalidValue("children_count", n)
		}
		o.form.ChildrenCount = n
		return nil
	})
}

// SelectTimeSlot picks one of the loaded slots; nil clears the selection.
func (o *Orchestrator) SelectTimeSlot(slot *models.TimeSlot) error {
	return o.mutate(func() error {
		if slot == nil {
			o.form.SelectedTimeSlot = nil
			o.selector.Sync(o.slots, nil)
			return nil
		}
		if !timeslot.Contains(o.slots, *slot) {
			return ErrUnknownTimeSlot
		}
		s := *slot
		o.form.SelectedTimeSlot = &s
		o.selector.Sync(o.slots, o.form.SelectedTimeSlot)
		return nil
	})
}

// SetConfirmation picks how the restaurant confirms the booking.
func (o *Orchestrator) SetConfirmation(c models.Confirmation) error {
	return o.mutate(func() error {
		if !c.Valid() {
			return invalidValue("confirmation", c)
		}
		o.form.Confirmation = c
		return nil
	})
}

// SelectPartition switches the slot picker toggle.
func (o *Orchestrator) SelectPartition(p models.Partition) error {
	return o.mutate(func() error {
		if !o.selector.Select(p) {
			return invalidValue("partition", p)
		}
		return nil
	})
}

// DismissPopup hides the submit popup.
func (o *Orchestrator) DismissPopup() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.popup = ""
}

// UpdateField merges a single free-form field.
func (o *Orchestrator) UpdateField(name string, value any) error {
	return o.mutate(func() error {
		switch name {
		case FieldUserName, FieldUserPhone, FieldUserEmail, FieldCommentary:
			s, ok := value.(string)
			if !ok {
				return invalidValue(name, value)
			}
			o.setText(name, s)
		case FieldPreOrder:
			b, ok := value.(bool)
			if !ok {
				return invalidValue(name, value)
			}
			o.form.PreOrder = b
		case FieldCertificateID:
			switch v := value.(type) {
			case nil:
				o.form.CertificateID = nil
			case string:
				if strings.TrimSpace(v) == "" {
					o.form.CertificateID = nil
				} else {
					o.form.CertificateID = &v
				}
			default:
				return invalidValue(name, value)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		return nil
	})
}

func (o *Orchestrator) setText(name, value string) {
	switch name {
	case FieldUserName:
		o.form.UserName = value
	case FieldUserPhone:
		o.form.UserPhone = value
	case FieldUserEmail:
		o.form.UserEmail = value
	case FieldCommentary:
		o.form.Commentary = value
	}
}

func sameSelectable(a, b *models.Selectable) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Value == b.Value
}
