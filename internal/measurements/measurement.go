package measurements

import "time"

// Measurement is a single body measurement record, e.g. weight or bicep
// circumference. Type is an open-ended label, not an enum.
type Measurement struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Type      string    `json:"measurementType"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"createdAt"`
}

// MeasurementWithChange augments a measurement with the delta to the
// chronologically previous measurement of the same type. The oldest
// record of a type has no previous neighbour and carries no change at
// all - never a zero.
type MeasurementWithChange struct {
	Measurement
	Change *float64 `json:"change,omitempty"`
}

// MeasurementUpdate is a sparse patch: nil fields are left untouched on
// the stored record. The record id is not patchable.
type MeasurementUpdate struct {
	Type      *string    `json:"measurementType,omitempty"`
	Value     *float64   `json:"value,omitempty"`
	Unit      *string    `json:"unit,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (u MeasurementUpdate) fields() map[string]any {
	fields := make(map[string]any)
	if u.Type != nil {
		fields["measurementType"] = *u.Type
	}
	if u.Value != nil {
		fields["value"] = *u.Value
	}
	if u.Unit != nil {
		fields["unit"] = *u.Unit
	}
	if u.CreatedAt != nil {
		fields["createdAt"] = *u.CreatedAt
	}
	return fields
}
