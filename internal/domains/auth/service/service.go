package service

import (
	"context"
	"errors"
	"fmt"
	"huddle/infras/jwt"
	"huddle/infras/otel"
	authModel "huddle/internal/domains/auth/model"
	"huddle/internal/domains/auth/model/dto"
	userModel "huddle/internal/domains/user/model"
	userRepo "huddle/internal/domains/user/repository"
	"huddle/shared"
	"huddle/shared/constant"
	gDto "huddle/shared/dto"
	"huddle/shared/failure"
	"huddle/shared/password"

	"github.com/rs/zerolog/log"
)

const (
	msgIdentifierTaken    = "user identifier already registered"
	msgInvalidCredentials = "incorrect user identifier or password"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	Me(ctx context.Context, principal authModel.Principal) (dto.UserResponse, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	identifierFilter := identifierFilter(req.UserIdentifier)

	exists, err := s.userRepo.Exist(ctx, identifierFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, failure.BadRequestFromString(msgIdentifierTaken)
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.userRepo.Create(ctx, req.ToUserModel(hashedPassword))
	if err != nil {
		// The unique index decides the winner of concurrent registrations;
		// the loser sees the same error as the sequential duplicate.
		if errors.Is(err, userRepo.ErrDuplicateIdentifier) {
			return res, failure.BadRequestFromString(msgIdentifierTaken)
		}

		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	res.ID = id
	res.UserIdentifier = req.UserIdentifier

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, identifierFilter(req.UserIdentifier))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	// Unknown identifier and wrong password are indistinguishable to the
	// caller.
	if user.ID == 0 {
		log.Warn().Str("user_identifier", req.UserIdentifier).Msg("login attempt with unknown identifier")

		return res, failure.Unauthorized(msgInvalidCredentials)
	}

	if err := password.Verify(req.Password, user.HashedPassword); err != nil {
		log.Warn().Str("user_identifier", req.UserIdentifier).Msg("login attempt with wrong password")

		return res, failure.Unauthorized(msgInvalidCredentials)
	}

	token, err := s.jwtService.Generate(user.ID, user.UserIdentifier)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate access token")

		return res, fmt.Errorf("failed to generate access token: %w", err)
	}

	res.FromToken(token)

	return res, nil
}

// Me resolves the request principal back to its stored user. A principal
// whose user has vanished is treated as an invalid credential.
func (s *serviceImpl) Me(ctx context.Context, principal authModel.Principal) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Me")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, shared.FilterByID(principal.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == 0 {
		return res, failure.Unauthorized(msgInvalidCredentials)
	}

	res.FromModel(user)

	return res, nil
}

func identifierFilter(userIdentifier string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldUserIdentifier,
				Operator: gDto.FilterOperatorEq,
				Value:    userIdentifier,
				Table:    userModel.TableName,
			},
		},
	}
}
