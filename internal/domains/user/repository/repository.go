package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"huddle/infras/otel"
	"huddle/infras/postgres"
	"huddle/internal/domains/user/model"
	"huddle/shared/constant"
	gDto "huddle/shared/dto"
	"huddle/shared/logger"
	gRepo "huddle/shared/repository"

	"github.com/lib/pq"
)

// ErrDuplicateIdentifier is returned when an insert loses the uniqueness race
// on user_identifier. The users table carries a unique constraint, so two
// concurrent registrations for the same identifier resolve to exactly one row.
var ErrDuplicateIdentifier = errors.New("user identifier already taken")

type User interface {
	Create(ctx context.Context, model model.User) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Create inserts a new user and returns the store-assigned id.
func (r *repositoryImpl) Create(ctx context.Context, user model.User) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".Create")
	defer scope.End()

	query := `INSERT INTO users (user_identifier, hashed_password, created_at, modified_at, created_by, modified_by)
		VALUES (:user_identifier, :hashed_password, :created_at, :modified_at, :created_by, :modified_by)
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

	err = prepare.GetContext(ctx, &id, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return 0, fmt.Errorf("failed to insert data (%s): %w", model.EntityName, ErrDuplicateIdentifier)
		}

		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to insert data (%s): %w", model.EntityName, err)
	}

	return id, nil
}
