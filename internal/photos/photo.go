package photos

import "time"

// Photo is a progress photo record. FilePath is an opaque reference
// into the disk store, never interpreted at this layer. MeasurementID
// is a weak reference: the measurement it points to may have been
// deleted, lookups treat a dangling reference as absent.
type Photo struct {
	ID            int       `json:"id"`
	UserID        int       `json:"userId"`
	FilePath      string    `json:"filePath"`
	Category      string    `json:"category,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	MeasurementID *int      `json:"measurementId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PhotoUpdate struct {
	Category      *string `json:"category,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	MeasurementID *int    `json:"measurementId,omitempty"`
}

func (u PhotoUpdate) fields() map[string]any {
	fields := make(map[string]any)
	if u.Category != nil {
		fields["category"] = *u.Category
	}
	if u.Notes != nil {
		fields["notes"] = *u.Notes
	}
	if u.MeasurementID != nil {
		fields["measurementId"] = *u.MeasurementID
	}
	return fields
}
