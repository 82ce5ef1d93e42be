package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/shrimpsizemoose/kardemumma/internal/models"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrDuplicateEmail  = errors.New("email already registered")
)

type StudentStore interface {
	Close() error
	ApplyMigrations(dir string) error

	CreateStudent(student *models.Student) (int64, error)
	GetStudent(id int64) (*models.Student, error)
	GetStudentByEmail(email string) (*models.Student, error)
	ListStudents() ([]models.Student, error)
	UpdateStudent(id int64, student *models.Student) error
	DeleteStudent(id int64) error
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB *sqlx.DB

	// Converter rewrites ? placeholders into the driver's dialect
	Converter func(string) string

	// ConstraintErr maps driver constraint violations to store sentinels,
	// returning nil for errors it does not recognise
	ConstraintErr func(error) error
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) GetStudent(id int64) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT id, first_name, last_name, email, dob
		FROM students
		WHERE id = ?
	`)

	err := s.DB.Get(&student, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

func (s *BaseStore) GetStudentByEmail(email string) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT id, first_name, last_name, email, dob
		FROM students
		WHERE email = ?
	`)

	err := s.DB.Get(&student, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student by email: %w", err)
	}
	return &student, nil
}

func (s *BaseStore) ListStudents() ([]models.Student, error) {
	students := make([]models.Student, 0)
	err := s.DB.Select(&students, `
		SELECT id, first_name, last_name, email, dob
		FROM students
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return students, nil
}

// UpdateStudent replaces every field of an existing row
func (s *BaseStore) UpdateStudent(id int64, student *models.Student) error {
	query := s.Converter(`
		UPDATE students
		SET first_name = ?, last_name = ?, email = ?, dob = ?
		WHERE id = ?
	`)

	result, err := s.DB.Exec(query,
		student.FirstName,
		student.LastName,
		student.Email,
		student.DOB,
		id,
	)
	if err != nil {
		if mapped := s.ConstraintErr(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update student: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrStudentNotFound
	}

	return nil
}

func (s *BaseStore) DeleteStudent(id int64) error {
	query := s.Converter(`DELETE FROM students WHERE id = ?`)

	result, err := s.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrStudentNotFound
	}

	return nil
}
