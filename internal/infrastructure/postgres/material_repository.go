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

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `id, code, name, unit, category, created_at`

// Create registra un material nuevo. Código duplicado devuelve ErrDuplicate.
func (r *MaterialRepo) Create(material *entity.Material) error {
	if material.ID == "" {
		material.ID = uuid.New().String()
	}
	query := `
		INSERT INTO materials (id, code, name, unit, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		material.ID, material.Code, material.Name, material.Unit, material.Category, material.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// GetByID devuelve el material o nil si no existe.
func (r *MaterialRepo) GetByID(id string) (*entity.Material, error) {
	var m entity.Material
	err := r.q.QueryRow(context.Background(),
		`SELECT `+materialColumns+` FROM materials WHERE id = $1`, id,
	).Scan(&m.ID, &m.Code, &m.Name, &m.Unit, &m.Category, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &m, nil
}

// List lista los materiales ordenados por código.
func (r *MaterialRepo) List(limit, offset int) ([]*entity.Material, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+materialColumns+` FROM materials ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(&m.ID, &m.Code, &m.Name, &m.Unit, &m.Category, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
