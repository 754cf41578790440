package model

import (
	"huddle/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldRoomIdentifier = "room_identifier"
	FieldUserID         = "user_id"
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
)

type Booking struct {
	ID             int64     `db:"id"`
	RoomIdentifier string    `db:"room_identifier"`
	UserID         int64     `db:"user_id"`
	UserIdentifier string    `db:"user_identifier" table:"users" column:"user_identifier"`
	StartTime      time.Time `db:"start_time"`
	EndTime        time.Time `db:"end_time"`
	model.Metadata
}

// GetJoinQuery resolves the owning user's identifier alongside each booking.
func (Booking) GetJoinQuery() string {
	return "JOIN users ON users.id = bookings.user_id"
}
