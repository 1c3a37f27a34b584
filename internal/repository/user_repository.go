package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, telegram_id, email, username, first_name, last_name, bio, is_tutor,
	subjects, availability, timezone, average_rating, review_count, created_at, updated_at`

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(db base.DBTX) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(db)}
}

// WithTx возвращает копию репозитория, работающую внутри транзакции
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	return NewUserRepository(tx)
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.Email,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.IsTutor,
		&user.Subjects,
		&user.Availability,
		&user.Timezone,
		&user.AverageRating,
		&user.ReviewCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if user.Subjects == nil {
		user.Subjects = []string{}
	}
	if user.Availability == nil {
		user.Availability = []model.AvailabilitySlot{}
	}
	return &user, nil
}

func (r *UserRepository) getOne(ctx context.Context, op, query string, args ...any) (*model.User, error) {
	user, err := scanUser(r.QueryRow(ctx, query, args...))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.Subjects == nil {
		user.Subjects = []string{}
	}
	if user.Availability == nil {
		user.Availability = []model.AvailabilitySlot{}
	}
	if user.Timezone == "" {
		user.Timezone = "UTC"
	}

	query := `
		INSERT INTO users (telegram_id, email, username, first_name, last_name, bio, is_tutor, subjects, availability, timezone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		user.TelegramID,
		user.Email,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.IsTutor,
		user.Subjects,
		user.Availability,
		user.Timezone,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, "get user by id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByIDForUpdate locks the user row until the surrounding transaction ends.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, "lock user", `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return r.getOne(ctx, "get user by telegram id", `SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID)
}

// GetByEmail получает пользователя по email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

// GetByIDs получает пользователей по списку ID
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	rows, err := r.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}

	users, err := base.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return users, nil
}

// ListTutors returns tutors, optionally teaching subject, best rated first.
func (r *UserRepository) ListTutors(ctx context.Context, subject string, limit, offset int) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_tutor = TRUE
		  AND ($1 = '' OR EXISTS (SELECT 1 FROM unnest(subjects) s WHERE lower(s) = lower($1)))
		ORDER BY average_rating DESC, review_count DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.Query(ctx, query, subject, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}

	tutors, err := base.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("scan tutor: %w", err)
	}
	return tutors, nil
}

// UpdateProfile обновляет данные профиля
func (r *UserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET username = $1, first_name = $2, last_name = $3, bio = $4, timezone = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Timezone,
		user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("user not found")
		}
		return fmt.Errorf("update user profile: %w", err)
	}

	return nil
}

// SetTutor включает роль тьютора
func (r *UserRepository) SetTutor(ctx context.Context, id int64, isTutor bool) error {
	n, err := r.ExecAffected(ctx, `UPDATE users SET is_tutor = $1, updated_at = now() WHERE id = $2`, isTutor, id)
	if err != nil {
		return fmt.Errorf("set tutor: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// UpdateSubjects заменяет список предметов
func (r *UserRepository) UpdateSubjects(ctx context.Context, id int64, subjects []string) error {
	n, err := r.ExecAffected(ctx, `UPDATE users SET subjects = $1, updated_at = now() WHERE id = $2`, subjects, id)
	if err != nil {
		return fmt.Errorf("update subjects: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// UpdateAvailability заменяет недельное расписание доступности
func (r *UserRepository) UpdateAvailability(ctx context.Context, id int64, slots []model.AvailabilitySlot) error {
	if slots == nil {
		slots = []model.AvailabilitySlot{}
	}
	n, err := r.ExecAffected(ctx, `UPDATE users SET availability = $1, updated_at = now() WHERE id = $2`, slots, id)
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// UpdateRating stores the aggregated rating.
func (r *UserRepository) UpdateRating(ctx context.Context, id int64, average float64, count int) error {
	n, err := r.ExecAffected(ctx,
		`UPDATE users SET average_rating = $1, review_count = $2, updated_at = now() WHERE id = $3`,
		average, count, id)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}
