package repository

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/academic-hub/internal/models"
)

type csvUserRepository struct {
	table *csvTable
}

func NewCSVUserRepository(path string, logger zerolog.Logger) UserRepository {
	return &csvUserRepository{
		table: newCSVTable(path, userColumns, "", logger),
	}
}

func (r *csvUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.table.mutate(func(rows []record) ([]record, error) {
		for _, row := range rows {
			if row["username"] == user.Username {
				return nil, ErrAlreadyExists
			}
		}
		return append(rows, userToRecord(user)), nil
	})
}

func (r *csvUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	rows, err := r.table.read()
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if row["username"] == username {
			user := recordToUser(row)
			return &user, nil
		}
	}

	return nil, nil
}

func (r *csvUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.table.read()
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, recordToUser(row))
	}
	return users, nil
}

func userToRecord(u *models.User) record {
	return record{
		"username":   u.Username,
		"password":   u.PasswordHash,
		"created_at": formatTime(u.CreatedAt),
	}
}

func recordToUser(row record) models.User {
	return models.User{
		Username:     row["username"],
		PasswordHash: row["password"],
		CreatedAt:    parseTime(row["created_at"]),
	}
}
