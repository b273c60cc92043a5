package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/obracore/inventario-obras/internal/domain"
	"github.com/obracore/inventario-obras/internal/domain/entity"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

var _ repository.SiteRepository = (*SiteRepo)(nil)

// SiteRepo implementación de SiteRepository sobre PostgreSQL.
type SiteRepo struct {
	q Querier
}

// NewSiteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSiteRepository(q Querier) *SiteRepo {
	return &SiteRepo{q: q}
}

const siteColumns = `id, code, name, address, active, created_at`

// Create registra una obra nueva. Código duplicado devuelve ErrDuplicate.
func (r *SiteRepo) Create(site *entity.Site) error {
	if site.ID == "" {
		site.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sites (id, code, name, address, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		site.ID, site.Code, site.Name, site.Address, site.Active, site.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create site: %w", err)
	}
	return nil
}

// GetByID devuelve la obra o nil si no existe.
func (r *SiteRepo) GetByID(id string) (*entity.Site, error) {
	var s entity.Site
	err := r.q.QueryRow(context.Background(),
		`SELECT `+siteColumns+` FROM sites WHERE id = $1`, id,
	).Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.Active, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return &s, nil
}

// List lista las obras ordenadas por código.
func (r *SiteRepo) List(limit, offset int) ([]*entity.Site, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+siteColumns+` FROM sites ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()
	var list []*entity.Site
	for rows.Next() {
		var s entity.Site
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.Active, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
