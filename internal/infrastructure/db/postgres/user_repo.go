package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/farmassist/auth-service/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone_number, location, farm_name, farm_size, farm_type, created_at, updated_at`

// ---------- helpers ----------

func scanUserRow(row *sql.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Email,
		&ur.PasswordHash,
		&ur.FirstName,
		&ur.LastName,
		&ur.PhoneNumber,
		&ur.Location,
		&ur.FarmName,
		&ur.FarmSize,
		&ur.FarmType,
		&ur.CreatedAt,
		&ur.UpdatedAt,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:           ur.ID,
		Email:        ur.Email,
		PasswordHash: ur.PasswordHash,
		FirstName:    ur.FirstName,
		LastName:     ur.LastName,
		PhoneNumber:  ur.PhoneNumber,
		Location:     ur.Location,
		FarmName:     ur.FarmName,
		FarmSize:     ur.FarmSize,
		FarmType:     ur.FarmType,
		CreatedAt:    ur.CreatedAt,
		UpdatedAt:    ur.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;`

	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;`

	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation {
			// not a uuid, so it cannot name a row
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

// Create inserts the user in a single statement. The users_email_key
// constraint decides races between concurrent registrations.
func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = domain.NormalizeEmail(u.Email)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	const q = `INSERT INTO users (id, email, password_hash, first_name, last_name, phone_number, location, farm_name, farm_size, farm_type)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING ` + userColumns + `;`

	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q,
		u.ID, u.Email, u.PasswordHash,
		u.FirstName, u.LastName, u.PhoneNumber, u.Location,
		u.FarmName, u.FarmSize, u.FarmType,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}
