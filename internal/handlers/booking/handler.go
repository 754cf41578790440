package booking

import (
	"net/http"
	"strconv"

	"huddle/infras/otel"
	"huddle/internal/domains/booking/model/dto"
	"huddle/internal/domains/booking/service"
	"huddle/shared"
	"huddle/shared/constant"
	"huddle/shared/failure"
	"huddle/shared/validator"
	"huddle/transport/http/middleware"
	"huddle/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service        service.Booking
	authMiddleware middleware.Auth
	otel           otel.Otel
}

func New(service service.Booking, authMiddleware middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service:        service,
		authMiddleware: authMiddleware,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Use(handler.authMiddleware.Auth)

		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Put("/{id}", handler.UpdateBooking)
		routerGroup.Delete("/{id}", handler.DeleteBooking)
	})
}

// CreateBooking reserves a room interval for the authenticated user.
// @Summary Create a new booking
// @Description Book a room starting at booking_time for duration_minutes (default 60).
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.BookingRequest true "Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Created booking"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		err := failure.Unauthorized("Invalid token claims")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.BookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, principal, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetBookings lists bookings for a day.
// @Summary List bookings for a date
// @Description List bookings for the given date, optionally narrowed to a room or to the caller's own bookings.
// @Tags Booking
// @Accept json
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param room_identifier query string false "Room identifier (MACRO_CASE)"
// @Param my_bookings query boolean false "Only the caller's bookings"
// @Success 200 {object} response.Data[dto.BookingResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		err := failure.Unauthorized("Invalid token claims")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	date := r.URL.Query().Get(constant.RequestParamDate)
	if date == "" {
		err := failure.BadRequestFromString("date query parameter is required")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	roomIdentifier := r.URL.Query().Get(constant.RequestParamRoomIdentifier)

	mine := false
	if v := shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamMyBookings)); v != nil {
		mine = *v
	}

	var (
		res []dto.BookingResponse
		err error
	)

	switch {
	case mine:
		res, err = handler.service.ListByUserAndDate(ctx, principal, roomIdentifier, date)
	case roomIdentifier != "":
		res, err = handler.service.ListByRoomAndDate(ctx, roomIdentifier, date)
	default:
		res, err = handler.service.ListByDate(ctx, date)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateBooking reschedules a booking owned by the authenticated user.
// @Summary Update a booking
// @Description Replace the room and interval of an existing booking.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path integer true "Booking ID"
// @Param request body dto.BookingRequest true "Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/bookings/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		err := failure.Unauthorized("Invalid token claims")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	id, err := handler.bookingID(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.BookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, principal, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking updated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteBooking cancels a booking owned by the authenticated user.
// @Summary Delete a booking
// @Description Cancel an existing booking, freeing its interval.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path integer true "Booking ID"
// @Success 204 "Booking deleted"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooking")
	defer scope.End()

	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		err := failure.Unauthorized("Invalid token claims")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	id, err := handler.bookingID(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, principal, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking deleted successfully")

	response.WithNoContent(w)
}

func (handler *Handler) bookingID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, constant.RequestParamID), 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.BadRequestFromString("id must be a positive integer")
	}

	return id, nil
}
