package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

// similarMaxDistance distancia de edición máxima para sugerir una categoría parecida.
const similarMaxDistance = 2

// CategoryUseCase catálogo de categorías de gasto por empresa.
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	audit *audit.Recorder
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, rec *audit.Recorder) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, audit: rec}
}

// List todas las categorías de la empresa.
func (uc *CategoryUseCase) List(ctx context.Context, actor entity.Actor) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	return toCategoryList(list), nil
}

// ListActive categorías activas para el formulario de ítems.
func (uc *CategoryUseCase) ListActive(ctx context.Context, actor entity.Actor) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListActive(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	return toCategoryList(list), nil
}

// Get una categoría de la empresa.
func (uc *CategoryUseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// Create da de alta una categoría y devuelve nombres parecidos ya existentes como aviso.
func (uc *CategoryUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CategoryRequest) (*dto.CategorySaveResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("el nombre de la categoría es obligatorio")
	}
	existing, err := uc.repo.List(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.Name == name {
			return nil, domain.ErrDuplicate
		}
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	c := &entity.ExpenseCategory{
		ID: uuid.New().String(), CompanyID: actor.CompanyID, Name: name, IsActive: active, CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, audit.Entry{ActionType: "category_created", TargetType: "category", TargetID: c.ID,
		Message: "Categoría '" + name + "' creada"})
	return &dto.CategorySaveResponse{Category: toCategoryResponse(c), Similar: SimilarNames(name, existing)}, nil
}

// Update cambia nombre y estado.
func (uc *CategoryUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.CategoryRequest) (*dto.CategorySaveResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("el nombre de la categoría es obligatorio")
	}
	c, err := uc.repo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if other, err := uc.repo.GetByName(ctx, actor.CompanyID, name); err != nil {
		return nil, err
	} else if other != nil && other.ID != id {
		return nil, domain.ErrDuplicate
	}
	c.Name = name
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, audit.Entry{ActionType: "category_updated", TargetType: "category", TargetID: c.ID,
		Message: "Categoría '" + name + "' actualizada"})
	return &dto.CategorySaveResponse{Category: toCategoryResponse(c)}, nil
}

// Delete elimina la categoría. Los ítems históricos conservan el nombre como texto.
func (uc *CategoryUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	ok, err := uc.repo.Delete(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	uc.audit.Record(ctx, actor, audit.Entry{ActionType: "category_deleted", TargetType: "category", TargetID: id,
		Message: "Categoría eliminada"})
	return nil
}

// SimilarNames nombres existentes a distancia de edición ≤ 2 sin distinguir mayúsculas, excluyendo el nombre idéntico.
func SimilarNames(name string, existing []*entity.ExpenseCategory) []string {
	target := strings.ToLower(name)
	var out []string
	for _, c := range existing {
		if c.Name == name {
			continue
		}
		if levenshtein.ComputeDistance(target, strings.ToLower(c.Name)) <= similarMaxDistance {
			out = append(out, c.Name)
		}
	}
	return out
}

func toCategoryList(list []*entity.ExpenseCategory) []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

func toCategoryResponse(c *entity.ExpenseCategory) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Name: c.Name, IsActive: c.IsActive, CreatedAt: c.CreatedAt}
}
