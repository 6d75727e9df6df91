package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

// CompanyUseCase administración de empresas (solo platform_admin) y lectura de tiendas.
type CompanyUseCase struct {
	repo   repository.CompanyRepository
	stores repository.StoreRepository
	audit  *audit.Recorder
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, stores repository.StoreRepository, rec *audit.Recorder) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, stores: stores, audit: rec}
}

func validateCompany(in dto.CompanyRequest) (name, code string, err error) {
	name = strings.TrimSpace(in.Name)
	code = entity.NormalizeCompanyCode(in.Code)
	if name == "" || code == "" {
		return "", "", domain.Invalid("nombre y código son obligatorios")
	}
	if !entity.ValidCompanyCode(code) {
		return "", "", domain.Invalid("el código solo admite A-Z, 0-9, guion y guion bajo")
	}
	return name, code, nil
}

// Create crea una empresa. Devuelve domain.ErrDuplicate si el código ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CompanyRequest) (*dto.CompanyResponse, error) {
	name, code, err := validateCompany(in)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	company := &entity.Company{ID: uuid.New().String(), Name: name, Code: code, CreatedAt: time.Now()}
	if err := uc.repo.Create(ctx, company); err != nil {
		uc.audit.Record(ctx, actor, audit.Entry{Platform: true, ActionType: "company_create_failed", TargetType: "company",
			Message: fmt.Sprintf("No se pudo crear la empresa %s: %v", code, err)})
		return nil, err
	}
	uc.audit.Record(ctx, actor, audit.Entry{Platform: true, ActionType: "company_created", TargetType: "company",
		TargetID: company.ID, Message: fmt.Sprintf("Empresa '%s' (%s) creada", name, code)})
	return toCompanyResponse(company), nil
}

// Update cambia nombre y código.
func (uc *CompanyUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.CompanyRequest) (*dto.CompanyResponse, error) {
	name, code, err := validateCompany(in)
	if err != nil {
		return nil, err
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if other, err := uc.repo.GetByCode(ctx, code); err != nil {
		return nil, err
	} else if other != nil && other.ID != id {
		return nil, domain.ErrDuplicate
	}
	company.Name, company.Code = name, code
	if err := uc.repo.Update(ctx, company); err != nil {
		uc.audit.Record(ctx, actor, audit.Entry{Platform: true, ActionType: "company_update_failed", TargetType: "company",
			TargetID: id, Message: err.Error()})
		return nil, err
	}
	uc.audit.Record(ctx, actor, audit.Entry{Platform: true, ActionType: "company_updated", TargetType: "company",
		TargetID: id, Message: fmt.Sprintf("Empresa '%s' (%s) actualizada", name, code)})
	return toCompanyResponse(company), nil
}

// Delete elimina una empresa. Una empresa con datos asociados devuelve ErrConflict.
func (uc *CompanyUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	ok, err := uc.repo.Delete(ctx, id)
	if err == nil && !ok {
		err = domain.ErrNotFound
	}
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.audit.Record(ctx, actor, audit.Entry{Platform: true, ActionType: "company_delete_failed", TargetType: "company",
				TargetID: id, Message: err.Error()})
		}
		return err
	}
	uc.audit.Record(ctx, actor, audit.Entry{Platform: true, ActionType: "company_deleted", TargetType: "company",
		TargetID: id, Message: "Empresa eliminada"})
	return nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

// List lista todas las empresas.
func (uc *CompanyUseCase) List(ctx context.Context) ([]dto.CompanyResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCompanyResponse(c))
	}
	return items, nil
}

// ListStores tiendas activas de la empresa del actor.
func (uc *CompanyUseCase) ListStores(ctx context.Context, actor entity.Actor) ([]dto.StoreResponse, error) {
	list, err := uc.stores.ListActive(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StoreResponse{ID: s.ID, Name: s.Name})
	}
	return out, nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{ID: c.ID, Name: c.Name, Code: c.Code, CreatedAt: c.CreatedAt}
}
