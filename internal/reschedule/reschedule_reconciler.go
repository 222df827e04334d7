package reschedule

import (
	"fmt"
	"time"

	"go-leave/internal/leave"
	rescheduleerrors "go-leave/internal/reschedule/errors"
	"go-leave/internal/shared/workday"
)

// Outcome is the date range a set of proposed dates resolves to.
type Outcome struct {
	DateFrom    time.Time
	DateTo      time.Time
	WorkingDays int
	Dates       leave.DateList
}

func (o Outcome) Range() leave.DateRange {
	return leave.DateRange{
		DateFrom:  o.DateFrom.Format(workday.DateLayout),
		DateTo:    o.DateTo.Format(workday.DateLayout),
		TotalDays: o.WorkingDays,
	}
}

// Reconcile sorts the proposed dates and derives the new range. Weekend dates
// stay in the list and the range but are not counted.
func Reconcile(proposed []string) (Outcome, error) {
	if len(proposed) == 0 {
		return Outcome{}, rescheduleerrors.ErrNoProposedDates
	}

	seen := make(map[string]struct{}, len(proposed))
	parsed := make([]time.Time, 0, len(proposed))
	for _, v := range proposed {
		d, err := workday.Parse(v)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: %q", rescheduleerrors.ErrInvalidDate, v)
		}
		key := d.Format(workday.DateLayout)
		if _, dup := seen[key]; dup {
			return Outcome{}, fmt.Errorf("%w: %s", rescheduleerrors.ErrDuplicateDate, key)
		}
		seen[key] = struct{}{}
		parsed = append(parsed, d)
	}

	sorted := workday.Sorted(parsed)
	dates := make(leave.DateList, len(sorted))
	for i, d := range sorted {
		dates[i] = d.Format(workday.DateLayout)
	}

	return Outcome{
		DateFrom:    sorted[0],
		DateTo:      sorted[len(sorted)-1],
		WorkingDays: workday.Count(sorted),
		Dates:       dates,
	}, nil
}

// HistoryFor builds the record appended to the leave's reschedule history.
func HistoryFor(l leave.LeaveRequest, r RescheduleRequest, out Outcome, stamp Stamp) leave.HistoryRecord {
	return leave.HistoryRecord{
		RescheduleID: r.ID.String(),
		OriginalDates: leave.DateRange{
			DateFrom:  l.DateFrom.Format(workday.DateLayout),
			DateTo:    l.DateTo.Format(workday.DateLayout),
			TotalDays: l.TotalDays,
		},
		NewDates:      out.Range(),
		RescheduledAt: stamp.At,
		Reason:        r.Reason,
		ApprovedBy:    stamp.ApproverID.String(),
		ApproverRole:  string(stamp.Role),
		Remarks:       stamp.Remarks,
	}
}
