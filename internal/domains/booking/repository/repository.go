package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"huddle/infras/otel"
	"huddle/infras/postgres"
	"huddle/internal/domains/booking/model"
	"huddle/shared/constant"
	gDto "huddle/shared/dto"
	"huddle/shared/logger"
	gRepo "huddle/shared/repository"
	"time"

	"github.com/lib/pq"
)

// ErrScheduleConflict is returned when an insert or update loses the
// no-overlap race. The bookings table carries an exclusion constraint over
// (room_identifier, tsrange(start_time, end_time)), so of two concurrent
// writes for intersecting intervals in the same room, exactly one commits.
var ErrScheduleConflict = errors.New("booking interval conflicts with an existing booking")

type Booking interface {
	Create(ctx context.Context, model model.Booking) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	HasConflict(ctx context.Context, roomIdentifier string, start, end time.Time, excludeID int64) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Create inserts a new booking and returns the store-assigned id. A
// store-level exclusion violation surfaces as ErrScheduleConflict.
func (r *repositoryImpl) Create(ctx context.Context, booking model.Booking) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".Create")
	defer scope.End()

	query := `INSERT INTO bookings (room_identifier, user_id, start_time, end_time, created_at, modified_at, created_by, modified_by)
		VALUES (:room_identifier, :user_id, :start_time, :end_time, :created_at, :modified_at, :created_by, :modified_by)
		RETURNING id`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := r.db.Write.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	var id int64

	err = prepare.GetContext(ctx, &id, booking)
	if err != nil {
		if translated := translateConflict(err); translated != nil {
			return 0, translated
		}

		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to insert data (%s): %w", model.EntityName, err)
	}

	return id, nil
}

// HasConflict reports whether any stored booking for the room intersects the
// half-open candidate interval [start, end). excludeID of zero means no
// exclusion; a booking never conflicts with itself on update.
func (r *repositoryImpl) HasConflict(ctx context.Context, roomIdentifier string, start, end time.Time, excludeID int64) (bool, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomIdentifier,
				Operator: gDto.FilterOperatorEq,
				Value:    roomIdentifier,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStartTime,
				ArgName:  "candidate_end",
				Operator: gDto.FilterOperatorLess,
				Value:    end,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldEndTime,
				ArgName:  "candidate_start",
				Operator: gDto.FilterOperatorGreater,
				Value:    start,
				Table:    model.TableName,
			},
		},
	}

	if excludeID != 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldID,
			ArgName:  "exclude_id",
			Operator: gDto.FilterOperatorNotEq,
			Value:    excludeID,
			Table:    model.TableName,
		})
	}

	return r.Exist(ctx, filter) //nolint:wrapcheck
}

// Update applies the given columns, translating exclusion violations into
// ErrScheduleConflict.
func (r *repositoryImpl) Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error {
	err := r.Repository.Update(ctx, req, filter)
	if err != nil {
		if translated := translateConflict(err); translated != nil {
			return translated
		}

		return err //nolint:wrapcheck
	}

	return nil
}

func translateConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeExclusionViolation {
		return fmt.Errorf("failed to write data (%s): %w", model.EntityName, ErrScheduleConflict)
	}

	return nil
}
