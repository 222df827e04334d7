package leave

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateList is a JSONB array of YYYY-MM-DD strings.
type DateList []string

func (d *DateList) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	raw, err := jsonBytes(src, "DateList")
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, d)
}

func (d DateList) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(d))
	return string(b), err
}

type DateRange struct {
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
	TotalDays int    `json:"total_days"`
}

// HistoryRecord is one applied reschedule. Records are only ever appended.
type HistoryRecord struct {
	RescheduleID  string    `json:"reschedule_id"`
	OriginalDates DateRange `json:"original_dates"`
	NewDates      DateRange `json:"new_dates"`
	RescheduledAt time.Time `json:"rescheduled_at"`
	Reason        string    `json:"reason"`
	ApprovedBy    string    `json:"approved_by"`
	ApproverRole  string    `json:"approver_role"`
	Remarks       string    `json:"remarks"`
}

// History is the JSONB reschedule_history column.
type History []HistoryRecord

func (h *History) Scan(src interface{}) error {
	if src == nil {
		*h = History{}
		return nil
	}
	raw, err := jsonBytes(src, "History")
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, h)
}

func (h History) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]HistoryRecord(h))
	return string(b), err
}

func jsonBytes(src interface{}, typeName string) ([]byte, error) {
	switch v := src.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("%s.Scan: unsupported type %T", typeName, src)
	}
}
