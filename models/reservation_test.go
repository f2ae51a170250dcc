package models

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

// NOTE: the cascade delete filters reservations with a raw column name. This
// pins that name to whatever gorm actually derives from the model, so a field
// rename cannot silently leave the cascade deleting nothing.
func Test_reservationEventColumn_matches_model(t *testing.T) {
	s, err := schema.Parse(&Reservation{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("schema.Parse: %v", err)
	}
	field := s.LookUpField("ScheduleEventId")
	if field == nil {
		t.Fatal("Reservation has no ScheduleEventId field")
	}
	if field.DBName != reservationEventColumn {
		t.Errorf("reservationEventColumn = %q, model column is %q", reservationEventColumn, field.DBName)
	}
}
