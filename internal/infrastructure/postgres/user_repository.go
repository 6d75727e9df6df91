package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL. Los roles viven en user_roles.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userSelect = `
	SELECT u.id, u.company_id, u.full_name, u.email, u.password_hash, u.department,
	       u.approver_id, u.store_id, u.employee_code, u.created_at,
	       COALESCE(array_agg(ur.role ORDER BY ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}') AS roles
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id`

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u                                  entity.User
		companyID, approverID, storeID, ec *string
	)
	if err := row.Scan(
		&u.ID, &companyID, &u.FullName, &u.Email, &u.PasswordHash, &u.Department,
		&approverID, &storeID, &ec, &u.CreatedAt, &u.Roles,
	); err != nil {
		return nil, err
	}
	u.CompanyID = derefString(companyID)
	u.ApproverID = derefString(approverID)
	u.StoreID = derefString(storeID)
	u.EmployeeCode = derefString(ec)
	return &u, nil
}

func (r *UserRepo) getOne(ctx context.Context, where string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, userSelect+" WHERE "+where+" GROUP BY u.id", args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Create inserta el usuario y sus roles en una sola sentencia.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	const query = `
	WITH nu AS (
	    INSERT INTO users (id, company_id, full_name, email, password_hash, department,
	                       approver_id, store_id, employee_code, created_at)
	    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	    RETURNING id
	)
	INSERT INTO user_roles (user_id, role)
	SELECT nu.id, unnest($11::text[]) FROM nu`
	_, err := r.q.Exec(ctx, query,
		u.ID, nullIfEmpty(u.CompanyID), u.FullName, u.Email, u.PasswordHash, u.Department,
		nullIfEmpty(u.ApproverID), nullIfEmpty(u.StoreID), nullIfEmpty(u.EmployeeCode), u.CreatedAt,
		u.Roles,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "u.id = $1", id)
}

// GetByEmail busca por email (sin distinguir mayúsculas) dentro de la empresa; companyID vacío = plataforma.
func (r *UserRepo) GetByEmail(ctx context.Context, companyID, email string) (*entity.User, error) {
	return r.getOne(ctx, "u.company_id IS NOT DISTINCT FROM $1::uuid AND lower(u.email) = lower($2)",
		nullIfEmpty(companyID), email)
}

// GetByEmployeeCode busca por código de empleado dentro de la empresa.
func (r *UserRepo) GetByEmployeeCode(ctx context.Context, companyID, code string) (*entity.User, error) {
	return r.getOne(ctx, "u.company_id = $1 AND u.employee_code = $2", companyID, code)
}

// Update actualiza datos y sincroniza roles: borra los que ya no aplican e inserta los nuevos.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	const query = `
	WITH upd AS (
	    UPDATE users SET full_name = $3, email = $4, department = $5, approver_id = $6,
	                     store_id = $7, employee_code = $8
	    WHERE id = $1 AND company_id = $2
	    RETURNING id
	), del AS (
	    DELETE FROM user_roles
	    WHERE user_id IN (SELECT id FROM upd) AND role <> ALL($9::text[])
	)
	INSERT INTO user_roles (user_id, role)
	SELECT upd.id, unnest($9::text[]) FROM upd
	ON CONFLICT DO NOTHING`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.CompanyID, u.FullName, u.Email, u.Department,
		nullIfEmpty(u.ApproverID), nullIfEmpty(u.StoreID), nullIfEmpty(u.EmployeeCode), u.Roles,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	if _, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ListByCompany usuarios de la empresa por nombre.
func (r *UserRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, userSelect+" WHERE u.company_id = $1 GROUP BY u.id ORDER BY u.full_name", companyID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Delete elimina un usuario de la empresa.
func (r *UserRepo) Delete(ctx context.Context, companyID, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.Conflict("el usuario tiene reportes de gastos registrados")
		}
		return false, fmt.Errorf("delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
