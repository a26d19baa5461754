package services

import (
	"fmt"

	"sporttrack/models"
)

// AvailabilityRequest is a proposed booking (or a proposed new shape for an
// existing one, in which case ExcludeID carries its id so it does not
// compete with itself).
type AvailabilityRequest struct {
	Items     []models.ReservationItem `json:"items"`
	Date      string                   `json:"date"`
	StartTime string                   `json:"startTime"`
	EndTime   string                   `json:"endTime"`
	ExcludeID string                   `json:"excludeReservationId,omitempty"`
}

type AvailabilityResult struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// Overlaps reports whether two half-open [start, end) windows intersect.
// Windows that merely touch (one ends exactly when the other starts) do not
// overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// CheckAvailability decides whether the requested quantities fit the stock
// left over by the active reservations that overlap the requested window on
// the same date. Demand from multiple overlapping reservations for the same
// item is additive.
//
// Linear scan over the day's active reservations; fine at club scale.
func CheckAvailability(items []models.Item, reservations []models.Reservation, req AvailabilityRequest) AvailabilityResult {
	byID := make(map[string]models.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	var overlapping []models.Reservation
	for _, r := range reservations {
		if r.ID == req.ExcludeID || r.Status != models.ReservationActive || r.Date != req.Date {
			continue
		}
		if Overlaps(req.StartTime, req.EndTime, r.StartTime, r.EndTime) {
			overlapping = append(overlapping, r)
		}
	}

	for _, want := range req.Items {
		it, ok := byID[want.ItemID]
		if !ok {
			return AvailabilityResult{Error: "item not found"}
		}

		reserved := 0
		for _, r := range overlapping {
			for _, booked := range r.Items {
				if booked.ItemID == want.ItemID {
					reserved += booked.Quantity
				}
			}
		}

		free := it.Quantity - reserved
		if want.Quantity > free {
			return AvailabilityResult{
				Error: fmt.Sprintf("insufficient stock for %q in this time slot, available: %d", it.Name, free),
			}
		}
	}
	return AvailabilityResult{Available: true}
}
