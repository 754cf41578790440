package dto

import (
	"huddle/internal/domains/booking/model"
	"huddle/internal/domains/booking/schedule"
	"huddle/shared/constant"
	gDto "huddle/shared/dto"
	gModel "huddle/shared/model"
	"huddle/shared/timezone"
	"time"
)

// BookingRequest is the shared body shape for booking creation and update.
type BookingRequest struct {
	RoomIdentifier  string `json:"room_identifier"  validate:"required,macrocase"`
	BookingTime     string `json:"booking_time"     validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=10"`
}

// ApplyDefaults fills the documented duration default of 60 minutes.
func (r *BookingRequest) ApplyDefaults() {
	if r.DurationMinutes == 0 {
		r.DurationMinutes = constant.DefaultBookingDurationMinutes
	}
}

func (r *BookingRequest) ToModel(interval schedule.Interval, userID int64, userIdentifier string) model.Booking {
	return model.Booking{
		RoomIdentifier: r.RoomIdentifier,
		UserID:         userID,
		UserIdentifier: userIdentifier,
		StartTime:      interval.Start,
		EndTime:        interval.End,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userIdentifier,
			ModifiedBy: userIdentifier,
		},
	}
}

// ScheduleUpdate carries the mutable booking columns for update statements.
type ScheduleUpdate struct {
	RoomIdentifier string    `db:"room_identifier"`
	StartTime      time.Time `db:"start_time"`
	EndTime        time.Time `db:"end_time"`
}

type BookingResponse struct {
	ID             int64  `json:"id"`
	RoomIdentifier string `json:"room_identifier"`
	UserID         int64  `json:"user_id"`
	UserIdentifier string `json:"user_identifier"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomIdentifier = model.RoomIdentifier
	r.UserID = model.UserID
	r.UserIdentifier = model.UserIdentifier
	r.StartTime = timezone.Format(model.StartTime, constant.DateTimeFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateTimeFormat)
	r.Metadata.FromModel(model.Metadata)
}

func FromModels(models []model.Booking) []BookingResponse {
	responses := make([]BookingResponse, len(models))
	for i, mod := range models {
		responses[i].FromModel(mod)
	}

	return responses
}
