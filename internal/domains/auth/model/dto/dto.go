package dto

import (
	"huddle/infras/jwt"
	userModel "huddle/internal/domains/user/model"
	gModel "huddle/shared/model"
	"huddle/shared/timezone"
)

type RegisterRequest struct {
	UserIdentifier string `json:"user_identifier" validate:"required,min=3,max=50"`
	Password       string `json:"password"        validate:"required,min=6"`
}

func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	return userModel.User{
		UserIdentifier: r.UserIdentifier,
		HashedPassword: hashedPassword,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  r.UserIdentifier,
			ModifiedBy: r.UserIdentifier,
		},
	}
}

type LoginRequest struct {
	UserIdentifier string `json:"user_identifier" validate:"required"`
	Password       string `json:"password"        validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (t *TokenResponse) FromToken(token *jwt.Token) {
	t.AccessToken = token.AccessToken
	t.TokenType = token.TokenType
}

type UserResponse struct {
	ID             int64  `json:"id"`
	UserIdentifier string `json:"user_identifier"`
}

func (u *UserResponse) FromModel(model userModel.User) {
	u.ID = model.ID
	u.UserIdentifier = model.UserIdentifier
}
