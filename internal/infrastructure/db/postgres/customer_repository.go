package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cursomc/commerce-api/internal/core/domain"
	"github.com/cursomc/commerce-api/internal/core/ports"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

const customerColumns = `c.id, c.name, c.email, c.document, c.type, c.password_hash, c.roles, c.phones, c.created_at, c.updated_at`

// sortColumns maps the public sort field names to columns. Anything else is
// rejected so that sort input never reaches the SQL text.
var sortColumns = map[string]string{
	"id":        "c.id",
	"name":      "c.name",
	"nome":      "c.name",
	"email":     "c.email",
	"document":  "c.document",
	"type":      "c.type",
	"createdAt": "c.created_at",
}

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers c WHERE c.id = $1`, id)
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers c WHERE c.email = $1`, email)
}

func (r *CustomerRepository) findOne(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	if err := r.loadAddresses(ctx, []*domain.Customer{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts the customer and its addresses in one transaction.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const customerInsert = `INSERT INTO customers (name, email, document, type, password_hash, roles, phones, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	stored := *c
	if err := tx.QueryRow(ctx, customerInsert,
		c.Name,
		c.Email,
		c.Document,
		int(c.Type),
		c.PasswordHash,
		rolesToStrings(c.Roles),
		nonNil(c.Phones),
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&stored.ID); err != nil {
		return nil, translate(err)
	}

	stored.Addresses = make([]domain.Address, len(c.Addresses))
	const addressInsert = `INSERT INTO addresses (customer_id, street, number, complement, district, zip_code, city_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	for i, a := range c.Addresses {
		if err := tx.QueryRow(ctx, addressInsert,
			stored.ID, a.Street, a.Number, a.Complement, a.District, a.ZipCode, a.CityID,
		).Scan(&a.ID); err != nil {
			return nil, translate(err)
		}
		stored.Addresses[i] = a
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	const query = `UPDATE customers SET name = $2, email = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Email, c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrCustomerNotFound
	}
	return r.FindByID(ctx, c.ID)
}

// DeleteByID removes the customer; addresses cascade, orders block the delete.
func (r *CustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	return r.list(ctx, `SELECT `+customerColumns+` FROM customers c ORDER BY c.id`)
}

func (r *CustomerRepository) FindPage(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Customer], error) {
	orderBy, err := orderClause(req.SortField, req.Direction)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(1) FROM customers`).Scan(&total); err != nil {
		return nil, err
	}

	query := `SELECT ` + customerColumns + ` FROM customers c ` + orderBy + ` LIMIT $1 OFFSET $2`
	content, err := r.list(ctx, query, req.Size, req.Offset())
	if err != nil {
		return nil, err
	}
	return domain.NewPage(content, req, total), nil
}

func (r *CustomerRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Customer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadAddresses(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomerRepository) loadAddresses(ctx context.Context, customers []*domain.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	ids := make([]int64, len(customers))
	byID := make(map[int64]*domain.Customer, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
		byID[c.ID] = c
		c.Addresses = []domain.Address{}
	}

	const query = `SELECT id, customer_id, street, number, complement, district, zip_code, city_id
		FROM addresses WHERE customer_id = ANY($1) ORDER BY id`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Address
		var customerID int64
		if err := rows.Scan(&a.ID, &customerID, &a.Street, &a.Number, &a.Complement, &a.District, &a.ZipCode, &a.CityID); err != nil {
			return err
		}
		if c, ok := byID[customerID]; ok {
			c.Addresses = append(c.Addresses, a)
		}
	}
	return rows.Err()
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		c     domain.Customer
		ctype int
		roles []string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Document, &ctype, &c.PasswordHash, &roles, &c.Phones, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Type = domain.CustomerType(ctype)
	for _, s := range roles {
		if role, ok := domain.ParseRole(s); ok {
			c.Roles = append(c.Roles, role)
		}
	}
	return &c, nil
}

// orderClause builds the ORDER BY clause from a whitelisted field.
func orderClause(field string, dir domain.SortDirection) (string, error) {
	col, ok := sortColumns[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSortField, field)
	}
	d := "ASC"
	if dir == domain.SortDesc {
		d = "DESC"
	}
	// Tie-break on id so pages are stable.
	if col == "c.id" {
		return "ORDER BY c.id " + d, nil
	}
	return fmt.Sprintf("ORDER BY %s %s, c.id %s", col, d, d), nil
}

// translate maps constraint violations onto domain errors.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		if strings.Contains(pgErr.ConstraintName, "email") {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		if pgErr.TableName == "addresses" {
			return fmt.Errorf("%w: unknown city", domain.ErrValidation)
		}
		return fmt.Errorf("%w: %s", domain.ErrIntegrityViolation, pgErr.ConstraintName)
	}
	return err
}

func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
