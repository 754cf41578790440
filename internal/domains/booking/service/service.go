package service

import (
	"context"
	"errors"
	"fmt"
	"huddle/infras/otel"
	authModel "huddle/internal/domains/auth/model"
	"huddle/internal/domains/booking/model"
	"huddle/internal/domains/booking/model/dto"
	"huddle/internal/domains/booking/repository"
	"huddle/internal/domains/booking/schedule"
	"huddle/shared"
	"huddle/shared/constant"
	gDto "huddle/shared/dto"
	"huddle/shared/failure"

	"github.com/rs/zerolog/log"
)

type Booking interface {
	Create(ctx context.Context, principal authModel.Principal, req dto.BookingRequest) (dto.BookingResponse, error)
	Update(ctx context.Context, principal authModel.Principal, id int64, req dto.BookingRequest) (dto.BookingResponse, error)
	Delete(ctx context.Context, principal authModel.Principal, id int64) error
	ListByRoomAndDate(ctx context.Context, roomIdentifier, date string) ([]dto.BookingResponse, error)
	ListByUserAndDate(ctx context.Context, principal authModel.Principal, roomIdentifier, date string) ([]dto.BookingResponse, error)
	ListByDate(ctx context.Context, date string) ([]dto.BookingResponse, error)
}

type serviceImpl struct {
	bookingRepo repository.Booking
	otel        otel.Otel
}

func New(bookingRepo repository.Booking, otel otel.Otel) Booking {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, principal authModel.Principal, req dto.BookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	req.ApplyDefaults()

	interval, err := schedule.Normalize(req.RoomIdentifier, req.BookingTime, req.DurationMinutes)
	if err != nil {
		return res, err
	}

	if err := s.rejectOverlap(ctx, req.RoomIdentifier, interval, 0); err != nil {
		return res, err
	}

	id, err := s.bookingRepo.Create(ctx, req.ToModel(interval, principal.UserID, principal.UserIdentifier))
	if err != nil {
		// The exclusion constraint catches the writer that lost a race the
		// pre-check could not see.
		if errors.Is(err, repository.ErrScheduleConflict) {
			return res, overlapFailure(req.RoomIdentifier)
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	return s.getByID(ctx, id)
}

func (s *serviceImpl) Update(ctx context.Context, principal authModel.Principal, id int64, req dto.BookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.requireOwned(ctx, principal, id)
	if err != nil {
		return res, err
	}

	req.ApplyDefaults()

	interval, err := schedule.Normalize(req.RoomIdentifier, req.BookingTime, req.DurationMinutes)
	if err != nil {
		return res, err
	}

	// The booking's own interval never conflicts with itself.
	if err := s.rejectOverlap(ctx, req.RoomIdentifier, interval, booking.ID); err != nil {
		return res, err
	}

	update := shared.TransformFields(dto.ScheduleUpdate{
		RoomIdentifier: req.RoomIdentifier,
		StartTime:      interval.Start,
		EndTime:        interval.End,
	}, principal.UserIdentifier)

	if err := s.bookingRepo.Update(ctx, update, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if errors.Is(err, repository.ErrScheduleConflict) {
			return res, overlapFailure(req.RoomIdentifier)
		}

		log.Error().Err(err).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	return s.getByID(ctx, id)
}

func (s *serviceImpl) Delete(ctx context.Context, principal authModel.Principal, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err := s.requireOwned(ctx, principal, id); err != nil {
		return err
	}

	if err := s.bookingRepo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	return nil
}

func (s *serviceImpl) ListByRoomAndDate(ctx context.Context, roomIdentifier, date string) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListByRoomAndDate")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !schedule.ValidRoomIdentifier(roomIdentifier) {
		return res, failure.BadRequestFromString(schedule.MsgInvalidRoomIdentifier)
	}

	filter, err := dayFilter(date)
	if err != nil {
		return res, err
	}

	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldRoomIdentifier,
		Operator: gDto.FilterOperatorEq,
		Value:    roomIdentifier,
		Table:    model.TableName,
	})

	return s.list(ctx, filter, orderByStartTime())
}

// ListByUserAndDate returns the principal's own bookings for the day,
// optionally narrowed to a single room.
func (s *serviceImpl) ListByUserAndDate(ctx context.Context, principal authModel.Principal, roomIdentifier, date string) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListByUserAndDate")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err := dayFilter(date)
	if err != nil {
		return res, err
	}

	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldUserID,
		Operator: gDto.FilterOperatorEq,
		Value:    principal.UserID,
		Table:    model.TableName,
	})

	if roomIdentifier != "" {
		if !schedule.ValidRoomIdentifier(roomIdentifier) {
			return res, failure.BadRequestFromString(schedule.MsgInvalidRoomIdentifier)
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldRoomIdentifier,
			Operator: gDto.FilterOperatorEq,
			Value:    roomIdentifier,
			Table:    model.TableName,
		})
	}

	return s.list(ctx, filter, orderByStartTime())
}

func (s *serviceImpl) ListByDate(ctx context.Context, date string) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListByDate")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err := dayFilter(date)
	if err != nil {
		return res, err
	}

	return s.list(ctx, filter, gDto.QueryParams{
		SortBy:  fmt.Sprintf("%s.%s, %s.%s", model.TableName, model.FieldRoomIdentifier, model.TableName, model.FieldStartTime),
		SortDir: gDto.SortDirAsc,
	})
}

func (s *serviceImpl) list(ctx context.Context, filter gDto.FilterGroup, params gDto.QueryParams) ([]dto.BookingResponse, error) {
	bookings, err := s.bookingRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings")

		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return dto.FromModels(bookings), nil
}

func (s *serviceImpl) getByID(ctx context.Context, id int64) (res dto.BookingResponse, err error) {
	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, failure.NotFound("booking not found")
	}

	res.FromModel(booking)

	return res, nil
}

// requireOwned loads the booking and enforces that only its creator may
// mutate it. Someone else's booking is reported as forbidden, not hidden.
func (s *serviceImpl) requireOwned(ctx context.Context, principal authModel.Principal, id int64) (model.Booking, error) {
	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return booking, failure.NotFound("booking not found")
	}

	if booking.UserID != principal.UserID {
		return booking, failure.Forbidden("you can only modify your own bookings")
	}

	return booking, nil
}

func (s *serviceImpl) rejectOverlap(ctx context.Context, roomIdentifier string, interval schedule.Interval, excludeID int64) error {
	conflict, err := s.bookingRepo.HasConflict(ctx, roomIdentifier, interval.Start, interval.End, excludeID)
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking overlap")

		return fmt.Errorf("failed to check booking overlap: %w", err)
	}

	if conflict {
		return overlapFailure(roomIdentifier)
	}

	return nil
}

func overlapFailure(roomIdentifier string) error {
	return failure.BadRequestFromString(
		fmt.Sprintf("booking overlaps with an existing booking for room %s", roomIdentifier))
}

func dayFilter(date string) (gDto.FilterGroup, error) {
	dayStart, dayEnd, err := schedule.DayWindow(date)
	if err != nil {
		return gDto.FilterGroup{}, err
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStartTime,
				ArgName:  "day_start",
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    dayStart,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStartTime,
				ArgName:  "day_end",
				Operator: gDto.FilterOperatorLess,
				Value:    dayEnd,
				Table:    model.TableName,
			},
		},
	}, nil
}

func orderByStartTime() gDto.QueryParams {
	return gDto.QueryParams{
		SortBy:  fmt.Sprintf("%s.%s", model.TableName, model.FieldStartTime),
		SortDir: gDto.SortDirAsc,
	}
}
