package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shrimpsizemoose/kardemumma/internal/models"
	"github.com/shrimpsizemoose/kardemumma/internal/store"
)

// uniqueViolation is the Postgres error code for duplicate key values
const uniqueViolation = "23505"

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn, migrationsDir string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
		},
		ConstraintErr: mapConstraintErr,
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, nil)
}

func mapConstraintErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return store.ErrDuplicateEmail
	}
	return nil
}

func (s *PostgresStore) CreateStudent(student *models.Student) (int64, error) {
	var id int64
	err := s.DB.QueryRow(`
		INSERT INTO students (first_name, last_name, email, dob)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, student.FirstName, student.LastName, student.Email, student.DOB).Scan(&id)
	if err != nil {
		if mapped := mapConstraintErr(err); mapped != nil {
			return 0, mapped
		}
		return 0, fmt.Errorf("failed to create student: %w", err)
	}

	return id, nil
}
