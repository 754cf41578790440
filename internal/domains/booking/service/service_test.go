package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"huddle/infras/otel/mocks"
	authModel "huddle/internal/domains/auth/model"
	bookingMocks "huddle/internal/domains/booking/mocks"
	"huddle/internal/domains/booking/model"
	"huddle/internal/domains/booking/model/dto"
	"huddle/internal/domains/booking/repository"
	"huddle/internal/domains/booking/service"
	"huddle/shared/failure"
	gModel "huddle/shared/model"
	"huddle/shared/timezone"
)

var alice = authModel.Principal{
	UserID:         1,
	UserIdentifier: "alice",
}

func storedBooking(id int64, room string, start, end time.Time) model.Booking {
	return model.Booking{
		ID:             id,
		RoomIdentifier: room,
		UserID:         alice.UserID,
		UserIdentifier: alice.UserIdentifier,
		StartTime:      start,
		EndTime:        end,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  alice.UserIdentifier,
			ModifiedBy: alice.UserIdentifier,
		},
	}
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockOtel)

	start, _ := timezone.Parse("2006-01-02 15:04", "2025-11-20 14:00")
	end := start.Add(time.Hour)

	tests := []struct {
		name      string
		req       dto.BookingRequest
		setupMock func()
		wantErr   bool
		wantMsg   string
	}{
		{
			name: "successful creation with default duration",
			req: dto.BookingRequest{
				RoomIdentifier: "EVEREST",
				BookingTime:    "2025-11-20 14:00",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					HasConflict(gomock.Any(), "EVEREST", start, end, int64(0)).
					Return(false, nil)

				mockRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(int64(7), nil)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking(7, "EVEREST", start, end), nil)
			},
			wantErr: false,
		},
		{
			name: "overlap detected by pre-check",
			req: dto.BookingRequest{
				RoomIdentifier:  "EVEREST",
				BookingTime:     "2025-11-20 14:00",
				DurationMinutes: 60,
			},
			setupMock: func() {
				mockRepo.EXPECT().
					HasConflict(gomock.Any(), "EVEREST", start, end, int64(0)).
					Return(true, nil)
			},
			wantErr: true,
			wantMsg: "booking overlaps with an existing booking for room EVEREST",
		},
		{
			name: "overlap detected by store constraint",
			req: dto.BookingRequest{
				RoomIdentifier:  "EVEREST",
				BookingTime:     "2025-11-20 14:00",
				DurationMinutes: 60,
			},
			setupMock: func() {
				mockRepo.EXPECT().
					HasConflict(gomock.Any(), "EVEREST", start, end, int64(0)).
					Return(false, nil)

				mockRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(int64(0), repository.ErrScheduleConflict)
			},
			wantErr: true,
			wantMsg: "booking overlaps with an existing booking for room EVEREST",
		},
		{
			name: "invalid time never reaches the repository",
			req: dto.BookingRequest{
				RoomIdentifier:  "EVEREST",
				BookingTime:     "2025-11-20 14:05",
				DurationMinutes: 60,
			},
			setupMock: func() {},
			wantErr:   true,
			wantMsg:   "minutes must be in 10-minute increments (00, 10, 20, 30, 40, 50)",
		},
		{
			name: "repository error",
			req: dto.BookingRequest{
				RoomIdentifier:  "EVEREST",
				BookingTime:     "2025-11-20 14:00",
				DurationMinutes: 60,
			},
			setupMock: func() {
				mockRepo.EXPECT().
					HasConflict(gomock.Any(), "EVEREST", start, end, int64(0)).
					Return(false, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(context.Background(), alice, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantMsg != "" {
					assert.EqualError(t, err, tt.wantMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(7), res.ID)
				assert.Equal(t, "EVEREST", res.RoomIdentifier)
				assert.Equal(t, alice.UserIdentifier, res.UserIdentifier)
				assert.Equal(t, "2025-11-20T14:00:00", res.StartTime)
				assert.Equal(t, "2025-11-20T15:00:00", res.EndTime)
			}
		})
	}
}

func TestBookingService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockOtel)

	oldStart, _ := timezone.Parse("2006-01-02 15:04", "2025-11-20 09:00")
	oldEnd := oldStart.Add(time.Hour)
	newStart, _ := timezone.Parse("2006-01-02 15:04", "2025-11-20 14:00")
	newEnd := newStart.Add(30 * time.Minute)

	req := dto.BookingRequest{
		RoomIdentifier:  "EVEREST",
		BookingTime:     "2025-11-20 14:00",
		DurationMinutes: 30,
	}

	tests := []struct {
		name      string
		id        int64
		setupMock func()
		wantErr   bool
		wantCode  int
		wantMsg   string
	}{
		{
			name: "successful reschedule excludes itself from the conflict scan",
			id:   7,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking(7, "EVEREST", oldStart, oldEnd), nil)

				mockRepo.EXPECT().
					HasConflict(gomock.Any(), "EVEREST", newStart, newEnd, int64(7)).
					Return(false, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking(7, "EVEREST", newStart, newEnd), nil)
			},
			wantErr: false,
		},
		{
			name: "booking not found",
			id:   99,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "foreign booking is forbidden and never mutated",
			id:   7,
			setupMock: func() {
				foreign := storedBooking(7, "EVEREST", oldStart, oldEnd)
				foreign.UserID = 2
				foreign.UserIdentifier = "mallory"

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(foreign, nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name: "reschedule into an occupied slot",
			id:   7,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking(7, "EVEREST", oldStart, oldEnd), nil)

				mockRepo.EXPECT().
					HasConflict(gomock.Any(), "EVEREST", newStart, newEnd, int64(7)).
					Return(true, nil)
			},
			wantErr: true,
			wantMsg: "booking overlaps with an existing booking for room EVEREST",
		},
		{
			name: "store constraint catches a racing reschedule",
			id:   7,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking(7, "EVEREST", oldStart, oldEnd), nil)

				mockRepo.EXPECT().
					HasConflict(gomock.Any(), "EVEREST", newStart, newEnd, int64(7)).
					Return(false, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(repository.ErrScheduleConflict)
			},
			wantErr: true,
			wantMsg: "booking overlaps with an existing booking for room EVEREST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Update(context.Background(), alice, tt.id, req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				if tt.wantMsg != "" {
					assert.EqualError(t, err, tt.wantMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "2025-11-20T14:00:00", res.StartTime)
				assert.Equal(t, "2025-11-20T14:30:00", res.EndTime)
			}
		})
	}
}

func TestBookingService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockOtel)

	start, _ := timezone.Parse("2006-01-02 15:04", "2025-11-20 14:00")
	end := start.Add(time.Hour)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful deletion",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedBooking(7, "EVEREST", start, end), nil)

				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "booking not found",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "foreign booking is forbidden",
			setupMock: func() {
				foreign := storedBooking(7, "EVEREST", start, end)
				foreign.UserID = 2

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(foreign, nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(context.Background(), alice, 7)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Listing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockOtel)

	start, _ := timezone.Parse("2006-01-02 15:04", "2025-11-20 14:00")
	end := start.Add(time.Hour)

	t.Run("room listing returns the day's bookings", func(t *testing.T) {
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{storedBooking(7, "EVEREST", start, end)}, nil)

		res, err := svc.ListByRoomAndDate(context.Background(), "EVEREST", "2025-11-20")

		assert.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, "EVEREST", res[0].RoomIdentifier)
	})

	t.Run("room listing with no bookings returns an empty slice", func(t *testing.T) {
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{}, nil)

		res, err := svc.ListByRoomAndDate(context.Background(), "EVEREST", "2025-11-20")

		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})

	t.Run("room listing rejects invalid room identifier", func(t *testing.T) {
		_, err := svc.ListByRoomAndDate(context.Background(), "everest", "2025-11-20")

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("room listing rejects malformed date", func(t *testing.T) {
		_, err := svc.ListByRoomAndDate(context.Background(), "EVEREST", "20-11-2025")

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("user listing narrows to room when given", func(t *testing.T) {
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{storedBooking(7, "EVEREST", start, end)}, nil)

		res, err := svc.ListByUserAndDate(context.Background(), alice, "EVEREST", "2025-11-20")

		assert.NoError(t, err)
		assert.Len(t, res, 1)
	})

	t.Run("user listing without room narrowing", func(t *testing.T) {
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{}, nil)

		res, err := svc.ListByUserAndDate(context.Background(), alice, "", "2025-11-20")

		assert.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("date listing covers every room", func(t *testing.T) {
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{
				storedBooking(7, "EVEREST", start, end),
				storedBooking(8, "K2_NORTH", start, end),
			}, nil)

		res, err := svc.ListByDate(context.Background(), "2025-11-20")

		assert.NoError(t, err)
		assert.Len(t, res, 2)
	})

	t.Run("repository error is surfaced", func(t *testing.T) {
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error"))

		_, err := svc.ListByDate(context.Background(), "2025-11-20")

		assert.Error(t, err)
	})
}
