package postgres

import (
	"context"

	"lawdesk-backend/internal/database"
	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/repository"
)

const officeColumns = `id, name, address, inn, ogrn, contact_phone, work_phone2, website, owner_id, created_at, updated_at`

type officeRepository struct {
	db database.Handler
}

func NewOfficeRepository(db database.Handler) repository.OfficeRepository {
	return &officeRepository{db: db}
}

func (r *officeRepository) Create(ctx context.Context, o *domain.Office) error {
	query := `INSERT INTO offices (name, address, inn, ogrn, contact_phone, work_phone2, website, owner_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		o.Name, o.Address, o.INN, o.OGRN, o.ContactPhone, o.WorkPhone2, o.Website, o.OwnerID,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return mapError(err)
}

func (r *officeRepository) GetByID(ctx context.Context, id int32) (*domain.Office, error) {
	o := &domain.Office{}
	query := `SELECT ` + officeColumns + ` FROM offices WHERE id = $1`
	if err := r.db.GetContext(ctx, o, query, id); err != nil {
		return nil, mapError(err)
	}
	return o, nil
}

func (r *officeRepository) List(ctx context.Context) ([]domain.Office, error) {
	offices := []domain.Office{}
	query := `SELECT o.id, o.name, o.address, o.inn, o.ogrn, o.contact_phone, o.work_phone2, o.website,
	                 o.owner_id, o.created_at, o.updated_at,
	                 (SELECT COUNT(*) FROM users u WHERE u.office_id = o.id) AS employee_count
	          FROM offices o
	          ORDER BY o.name, o.id`
	if err := r.db.SelectContext(ctx, &offices, query); err != nil {
		return nil, mapError(err)
	}
	return offices, nil
}

func (r *officeRepository) Update(ctx context.Context, o *domain.Office) error {
	query := `UPDATE offices
	          SET name = $1, address = $2, inn = $3, ogrn = $4, contact_phone = $5,
	              work_phone2 = $6, website = $7, updated_at = NOW()
	          WHERE id = $8 RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		o.Name, o.Address, o.INN, o.OGRN, o.ContactPhone, o.WorkPhone2, o.Website, o.ID,
	).Scan(&o.UpdatedAt)
	return mapError(err)
}
