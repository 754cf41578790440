package schedule_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"huddle/internal/domains/booking/schedule"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name            string
		roomIdentifier  string
		bookingTime     string
		durationMinutes int
		wantErr         bool
		wantErrMsg      string
		wantStart       string
		wantEnd         string
	}{
		{
			name:            "valid one hour booking",
			roomIdentifier:  "EVEREST",
			bookingTime:     "2025-11-20 14:00",
			durationMinutes: 60,
			wantStart:       "2025-11-20 14:00",
			wantEnd:         "2025-11-20 15:00",
		},
		{
			name:            "valid booking on ten minute mark",
			roomIdentifier:  "K2_NORTH",
			bookingTime:     "2025-11-20 09:50",
			durationMinutes: 10,
			wantStart:       "2025-11-20 09:50",
			wantEnd:         "2025-11-20 10:00",
		},
		{
			name:            "duration crossing midnight",
			roomIdentifier:  "ROOM_42",
			bookingTime:     "2025-11-20 23:30",
			durationMinutes: 60,
			wantStart:       "2025-11-20 23:30",
			wantEnd:         "2025-11-21 00:30",
		},
		{
			name:            "lowercase room identifier",
			roomIdentifier:  "everest",
			bookingTime:     "2025-11-20 14:00",
			durationMinutes: 60,
			wantErr:         true,
			wantErrMsg:      "room_identifier must be in MACRO_CASE (uppercase letters, numbers, and underscores)",
		},
		{
			name:            "room identifier with dash",
			roomIdentifier:  "ROOM-1",
			bookingTime:     "2025-11-20 14:00",
			durationMinutes: 60,
			wantErr:         true,
			wantErrMsg:      "room_identifier must be in MACRO_CASE (uppercase letters, numbers, and underscores)",
		},
		{
			name:            "empty room identifier",
			roomIdentifier:  "",
			bookingTime:     "2025-11-20 14:00",
			durationMinutes: 60,
			wantErr:         true,
		},
		{
			name:            "malformed booking time",
			roomIdentifier:  "EVEREST",
			bookingTime:     "2025/11/20 14:00",
			durationMinutes: 60,
			wantErr:         true,
			wantErrMsg:      `booking_time must be in "YYYY-MM-DD HH:MM" format`,
		},
		{
			name:            "booking time with seconds",
			roomIdentifier:  "EVEREST",
			bookingTime:     "2025-11-20 14:00:00",
			durationMinutes: 60,
			wantErr:         true,
		},
		{
			name:            "start off the ten minute grid",
			roomIdentifier:  "EVEREST",
			bookingTime:     "2025-11-20 14:05",
			durationMinutes: 60,
			wantErr:         true,
			wantErrMsg:      "minutes must be in 10-minute increments (00, 10, 20, 30, 40, 50)",
		},
		{
			name:            "duration off the ten minute grid",
			roomIdentifier:  "EVEREST",
			bookingTime:     "2025-11-20 14:00",
			durationMinutes: 45,
			wantErr:         true,
			wantErrMsg:      "duration_minutes must be a positive multiple of 10",
		},
		{
			name:            "negative duration",
			roomIdentifier:  "EVEREST",
			bookingTime:     "2025-11-20 14:00",
			durationMinutes: -10,
			wantErr:         true,
			wantErrMsg:      "duration_minutes must be a positive multiple of 10",
		},
		{
			name:            "zero duration",
			roomIdentifier:  "EVEREST",
			bookingTime:     "2025-11-20 14:00",
			durationMinutes: 0,
			wantErr:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interval, err := schedule.Normalize(tt.roomIdentifier, tt.bookingTime, tt.durationMinutes)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantErrMsg != "" {
					assert.EqualError(t, err, tt.wantErrMsg)
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStart, interval.Start.Format(schedule.TimeLayout))
			assert.Equal(t, tt.wantEnd, interval.End.Format(schedule.TimeLayout))
		})
	}
}

func TestValidRoomIdentifier(t *testing.T) {
	tests := []struct {
		room string
		want bool
	}{
		{"EVEREST", true},
		{"K2_NORTH", true},
		{"ROOM_42", true},
		{"42", true},
		{"_", true},
		{"", false},
		{"everest", false},
		{"Everest", false},
		{"ROOM-1", false},
		{"ROOM 1", false},
		{"SALLE_À_MANGER", false},
	}

	for _, tt := range tests {
		t.Run(tt.room, func(t *testing.T) {
			assert.Equal(t, tt.want, schedule.ValidRoomIdentifier(tt.room))
		})
	}
}

func TestOverlaps(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2025, 11, 20, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{
			name:   "identical intervals",
			aStart: at(14, 0), aEnd: at(15, 0),
			bStart: at(14, 0), bEnd: at(15, 0),
			want: true,
		},
		{
			name:   "partial overlap",
			aStart: at(14, 0), aEnd: at(15, 0),
			bStart: at(14, 30), bEnd: at(15, 30),
			want: true,
		},
		{
			name:   "containment",
			aStart: at(14, 0), aEnd: at(16, 0),
			bStart: at(14, 30), bEnd: at(15, 0),
			want: true,
		},
		{
			name:   "back to back is not an overlap",
			aStart: at(14, 0), aEnd: at(15, 0),
			bStart: at(15, 0), bEnd: at(16, 0),
			want: false,
		},
		{
			name:   "back to back reversed",
			aStart: at(15, 0), aEnd: at(16, 0),
			bStart: at(14, 0), bEnd: at(15, 0),
			want: false,
		},
		{
			name:   "disjoint",
			aStart: at(9, 0), aEnd: at(10, 0),
			bStart: at(14, 0), bEnd: at(15, 0),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schedule.Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// symmetric
			assert.Equal(t, tt.want, schedule.Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

// The single inequality pair must agree with the spelled-out three-case
// overlap definition for arbitrary grid-aligned intervals.
func TestOverlapsMatchesCaseAnalysis(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	day := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)

	slot := func() (time.Time, time.Time) {
		start := day.Add(time.Duration(rng.Intn(138)) * 10 * time.Minute)
		end := start.Add(time.Duration(1+rng.Intn(6)) * 10 * time.Minute)

		return start, end
	}

	for range 1000 {
		aStart, aEnd := slot()
		bStart, bEnd := slot()

		startsInside := !bStart.Before(aStart) && bStart.Before(aEnd)
		endsInside := bEnd.After(aStart) && !bEnd.After(aEnd)
		covers := !bStart.After(aStart) && !bEnd.Before(aEnd)
		want := startsInside || endsInside || covers

		assert.Equal(t, want, schedule.Overlaps(aStart, aEnd, bStart, bEnd),
			"a=[%v,%v) b=[%v,%v)", aStart, aEnd, bStart, bEnd)
	}
}

func TestDayWindow(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		wantErr   bool
		wantStart string
		wantEnd   string
	}{
		{
			name:      "regular day",
			date:      "2025-11-20",
			wantStart: "2025-11-20 00:00",
			wantEnd:   "2025-11-21 00:00",
		},
		{
			name:      "month boundary",
			date:      "2025-11-30",
			wantStart: "2025-11-30 00:00",
			wantEnd:   "2025-12-01 00:00",
		},
		{
			name:    "malformed date",
			date:    "20-11-2025",
			wantErr: true,
		},
		{
			name:    "date with time",
			date:    "2025-11-20 14:00",
			wantErr: true,
		},
		{
			name:    "empty date",
			date:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := schedule.DayWindow(tt.date)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStart, start.Format(schedule.TimeLayout))
			assert.Equal(t, tt.wantEnd, end.Format(schedule.TimeLayout))
		})
	}
}
