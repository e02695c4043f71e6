package cadastro

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// RepositorioGorm é o backend de persistência local (Postgres via GORM).
type RepositorioGorm struct {
	db *gorm.DB
}

func NewRepositorioGorm(db *gorm.DB) *RepositorioGorm {
	return &RepositorioGorm{db: db}
}

var _ Store = (*RepositorioGorm)(nil)

func (r *RepositorioGorm) Salvar(ctx context.Context, c *Cadastro) (string, error) {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return "", ErrWhatsAppJaCadastrado
		}
		return "", err
	}
	c.RegistroID = fmt.Sprint(c.ID)
	return c.RegistroID, nil
}

func (r *RepositorioGorm) ExistePorWhatsApp(ctx context.Context, whatsapp string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&Cadastro{}).
		Where("whatsapp = ?", whatsapp).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *RepositorioGorm) Listar(ctx context.Context, filtro Filtro) ([]Cadastro, error) {
	q := r.db.WithContext(ctx).Model(&Cadastro{}).Order("created_at DESC")
	if filtro.Categoria != "" {
		q = q.Where("categoria = ?", filtro.Categoria)
	}
	if filtro.Status != "" {
		q = q.Where("status = ?", filtro.Status)
	}
	if filtro.Limite > 0 {
		q = q.Limit(filtro.Limite)
	}

	var cadastros []Cadastro
	if err := q.Find(&cadastros).Error; err != nil {
		return nil, err
	}
	for i := range cadastros {
		cadastros[i].RegistroID = fmt.Sprint(cadastros[i].ID)
	}
	return cadastros, nil
}

func (r *RepositorioGorm) Contar(ctx context.Context) (Estatisticas, error) {
	var stats Estatisticas
	if err := r.db.WithContext(ctx).Model(&Cadastro{}).Count(&stats.Total).Error; err != nil {
		return Estatisticas{}, err
	}
	if err := r.db.WithContext(ctx).Model(&Cadastro{}).Where("tipo = ?", "PF").Count(&stats.PF).Error; err != nil {
		return Estatisticas{}, err
	}
	if err := r.db.WithContext(ctx).Model(&Cadastro{}).Where("tipo = ?", "PJ").Count(&stats.PJ).Error; err != nil {
		return Estatisticas{}, err
	}
	return stats, nil
}
