package model

import "huddle/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID             = "id"
	FieldUserIdentifier = "user_identifier"
	FieldHashedPassword = "hashed_password"
)

type User struct {
	ID             int64  `db:"id"`
	UserIdentifier string `db:"user_identifier"`
	HashedPassword string `db:"hashed_password"`
	model.Metadata
}
