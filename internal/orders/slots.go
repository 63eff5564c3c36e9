package orders

import "time"

const (
	pickupLeadTime = 30 * time.Minute
	pickupStep     = 15 * time.Minute
	pickupSlots    = 12
)

// PickupSlots lists the next pickup times offered to a customer: the first
// 15-minute boundary at least 30 minutes from now, then eleven more at
// 15-minute steps. Slots are advisory; submission does not enforce them.
func PickupSlots(now time.Time) []string {
	first := now.UTC().Add(pickupLeadTime)
	if rounded := first.Truncate(pickupStep); !rounded.Equal(first) {
		first = rounded.Add(pickupStep)
	}

	slots := make([]string, 0, pickupSlots)
	for i := 0; i < pickupSlots; i++ {
		slots = append(slots, first.Add(time.Duration(i)*pickupStep).Format(time.RFC3339))
	}
	return slots
}
