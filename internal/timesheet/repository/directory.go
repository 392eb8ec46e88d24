package repository

import (
	"context"
	"database/sql"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/pkg/database"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
)

// DirectoryRepository reads the employee and project directories. These
// tables are owned by the host system; this module only looks them up.
type DirectoryRepository struct {
	db *database.DB
}

// NewDirectoryRepository creates a new directory repository
func NewDirectoryRepository(db *database.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// EmployeeByID looks up an employee by ID.
func (r *DirectoryRepository) EmployeeByID(ctx context.Context, id string) (*domain.Employee, error) {
	var emp domain.Employee

	err := r.db.GetContext(ctx, &emp,
		`SELECT id, employee_name, status FROM employees WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, err
	}

	return &emp, nil
}

// EmployeeByName looks up an employee by display name. This is how the
// external-worker placeholder is resolved.
func (r *DirectoryRepository) EmployeeByName(ctx context.Context, name string) (*domain.Employee, error) {
	var emp domain.Employee

	err := r.db.GetContext(ctx, &emp,
		`SELECT id, employee_name, status FROM employees WHERE employee_name = $1 LIMIT 1`, name)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, err
	}

	return &emp, nil
}

// ProjectByID looks up a project by ID.
func (r *DirectoryRepository) ProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	var proj domain.Project

	err := r.db.GetContext(ctx, &proj,
		`SELECT id, project_name, status FROM projects WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("project")
	}
	if err != nil {
		return nil, err
	}

	return &proj, nil
}
