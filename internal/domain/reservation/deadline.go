package reservation

import "time"

// DeadlineStatus classifies a pending reservation against its deposit
// deadline.
type DeadlineStatus string

const (
	DeadlineOnTime  DeadlineStatus = "ON_TIME"
	DeadlineWarning DeadlineStatus = "WARNING"
	DeadlineOverdue DeadlineStatus = "OVERDUE"
)

// DepositDeadline is the moment the manual bank transfer must have arrived.
func (r *Reservation) DepositDeadline(deadlineHours int) time.Time {
	return r.CreatedAt.Add(time.Duration(deadlineHours) * time.Hour)
}

// GraceBoundary aligns the auto-cancel cutoff with business hours so that a
// deadline ticking over at night does not cancel a reservation nobody could
// have confirmed. Deadlines before 09:00 stretch to 09:00 the same day, before
// 18:00 to 18:00 the same day, later ones to 09:00 the next day.
func GraceBoundary(deadline time.Time) time.Time {
	y, m, d := deadline.Date()
	loc := deadline.Location()
	switch {
	case deadline.Hour() < 9:
		return time.Date(y, m, d, 9, 0, 0, 0, loc)
	case deadline.Hour() < 18:
		return time.Date(y, m, d, 18, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 9, 0, 0, 0, loc).AddDate(0, 0, 1)
	}
}

// ClassifyDeadline buckets a pending reservation. Non-pending reservations are
// always on time; they left the deposit flow.
func (r *Reservation) ClassifyDeadline(deadlineHours int, now time.Time) DeadlineStatus {
	if r.Status != StatusPending {
		return DeadlineOnTime
	}
	deadline := r.DepositDeadline(deadlineHours)
	if now.Before(deadline) {
		return DeadlineOnTime
	}
	if !now.After(GraceBoundary(deadline)) {
		return DeadlineWarning
	}
	return DeadlineOverdue
}
