package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"huddle/infras/jwt"
	"huddle/internal/domains/auth/model/dto"
	userModel "huddle/internal/domains/user/model"
	"huddle/shared/validator"
)

func TestRegisterRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.RegisterRequest
		wantErr bool
	}{
		{
			name:    "valid request",
			req:     dto.RegisterRequest{UserIdentifier: "alice", Password: "secret1"},
			wantErr: false,
		},
		{
			name:    "identifier with punctuation is accepted",
			req:     dto.RegisterRequest{UserIdentifier: "a.b", Password: "secret1"},
			wantErr: false,
		},
		{
			name:    "identifier too short",
			req:     dto.RegisterRequest{UserIdentifier: "ab", Password: "secret1"},
			wantErr: true,
		},
		{
			name:    "identifier too long",
			req:     dto.RegisterRequest{UserIdentifier: "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", Password: "secret1"},
			wantErr: true,
		},
		{
			name:    "password too short",
			req:     dto.RegisterRequest{UserIdentifier: "alice", Password: "12345"},
			wantErr: true,
		},
		{
			name:    "missing password",
			req:     dto.RegisterRequest{UserIdentifier: "alice"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	req := dto.RegisterRequest{
		UserIdentifier: "alice",
		Password:       "secret1",
	}

	user := req.ToUserModel("hashed-password")

	assert.Equal(t, userModel.User{
		UserIdentifier: "alice",
		HashedPassword: "hashed-password",
		Metadata:       user.Metadata,
	}, user)
	assert.Equal(t, "alice", user.Metadata.CreatedBy)
	assert.False(t, user.Metadata.CreatedAt.IsZero())
}

func TestTokenResponse_FromToken(t *testing.T) {
	token := &jwt.Token{
		AccessToken: "test-access-token",
		TokenType:   "bearer",
		ExpiresIn:   86400,
	}

	var response dto.TokenResponse
	response.FromToken(token)

	assert.Equal(t, token.AccessToken, response.AccessToken)
	assert.Equal(t, token.TokenType, response.TokenType)
}

func TestUserResponse_FromModel(t *testing.T) {
	user := userModel.User{
		ID:             1,
		UserIdentifier: "alice",
		HashedPassword: "hashed-password",
	}

	var response dto.UserResponse
	response.FromModel(user)

	assert.Equal(t, user.ID, response.ID)
	assert.Equal(t, user.UserIdentifier, response.UserIdentifier)
}
