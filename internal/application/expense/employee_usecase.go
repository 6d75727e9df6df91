package expense

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

// allowedReceiptExt extensiones aceptadas para comprobantes.
var allowedReceiptExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".pdf": true}

// ReceiptUpload archivo recibido en la billetera de comprobantes.
type ReceiptUpload struct {
	Filename string
	Size     int64
	Body     io.Reader
	Notes    string
}

// EmployeeUseCase captura de reportes por parte del empleado.
type EmployeeUseCase struct {
	reports    repository.ExpenseReportRepository
	receipts   repository.ReceiptRepository
	categories repository.CategoryRepository
	stores     repository.StoreRepository
	users      repository.UserRepository
	tx         repository.TxRunner
	storage    ReceiptStorage
	audit      *audit.Recorder
	obs        TransitionObserver
	maxUpload  int64
	now        func() time.Time
}

// EmployeeDeps dependencias del caso de uso del empleado.
type EmployeeDeps struct {
	Reports        repository.ExpenseReportRepository
	Receipts       repository.ReceiptRepository
	Categories     repository.CategoryRepository
	Stores         repository.StoreRepository
	Users          repository.UserRepository
	Tx             repository.TxRunner
	Storage        ReceiptStorage
	Audit          *audit.Recorder
	Observer       TransitionObserver
	MaxUploadBytes int64
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(d EmployeeDeps) *EmployeeUseCase {
	obs := d.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	maxUpload := d.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &EmployeeUseCase{
		reports:    d.Reports,
		receipts:   d.Receipts,
		categories: d.Categories,
		stores:     d.Stores,
		users:      d.Users,
		tx:         d.Tx,
		storage:    d.Storage,
		audit:      d.Audit,
		obs:        obs,
		maxUpload:  maxUpload,
		now:        time.Now,
	}
}

// CreateDraft crea un reporte en borrador para el actor.
func (uc *EmployeeUseCase) CreateDraft(ctx context.Context, actor entity.Actor, in dto.CreateReportRequest) (*dto.ReportResponse, error) {
	title := strings.TrimSpace(in.Title)
	reportType := strings.TrimSpace(in.ReportType)
	if title == "" || reportType == "" || in.StartDate == "" || in.EndDate == "" || in.StoreID == "" {
		return nil, domain.Invalid("todos los campos son obligatorios")
	}
	start, err := dto.ParseDate(in.StartDate)
	if err != nil {
		return nil, domain.Invalid("fecha de inicio inválida")
	}
	end, err := dto.ParseDate(in.EndDate)
	if err != nil {
		return nil, domain.Invalid("fecha de fin inválida")
	}
	if end.Before(start) {
		return nil, domain.Invalid("la fecha de fin no puede ser anterior a la de inicio")
	}
	store, err := uc.stores.GetByID(ctx, actor.CompanyID, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil || !store.IsActive {
		return nil, domain.Invalid("tienda inválida")
	}

	r := &entity.ExpenseReport{
		ID:          uuid.New().String(),
		CompanyID:   actor.CompanyID,
		UserID:      actor.UserID,
		StoreID:     store.ID,
		ReportType:  reportType,
		Title:       title,
		TravelStart: start,
		TravelEnd:   end,
		Status:      entity.StatusDraft,
		CreatedAt:   uc.now(),
		StoreName:   store.Name,
	}
	if err := uc.reports.CreateReport(ctx, r); err != nil {
		uc.audit.Record(ctx, actor, audit.Entry{
			ActionType: "report_create_failed",
			TargetType: "report",
			Message:    fmt.Sprintf("No se pudo crear el reporte '%s': %v", title, err),
		})
		return nil, err
	}
	uc.audit.Record(ctx, actor, audit.Entry{
		ActionType: "report_created",
		TargetType: "report",
		TargetID:   r.ID,
		Message:    fmt.Sprintf("Reporte '%s' creado en borrador", title),
	})
	out := ToReportResponse(r, nil)
	return &out, nil
}

// ownDraft carga el reporte del actor y exige que siga en borrador.
func (uc *EmployeeUseCase) ownDraft(ctx context.Context, actor entity.Actor, reportID string) (*entity.ExpenseReport, error) {
	r, err := uc.ownReport(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}
	if r.Status != entity.StatusDraft {
		return nil, domain.Conflict("solo se pueden modificar reportes en borrador")
	}
	return r, nil
}

func (uc *EmployeeUseCase) ownReport(ctx context.Context, actor entity.Actor, reportID string) (*entity.ExpenseReport, error) {
	r, err := uc.reports.GetReport(ctx, actor.CompanyID, reportID)
	if err != nil {
		return nil, err
	}
	if r == nil || r.UserID != actor.UserID || r.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// AddItem agrega un ítem al borrador. Si trae ReceiptID, el comprobante se asigna en la misma transacción.
func (uc *EmployeeUseCase) AddItem(ctx context.Context, actor entity.Actor, reportID string, in dto.AddItemRequest) (*dto.ItemResponse, error) {
	r, err := uc.ownDraft(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}
	itemDate, err := dto.ParseDate(in.ItemDate)
	if err != nil {
		return nil, domain.Invalid("fecha del ítem inválida")
	}
	if !in.Amount.IsPositive() {
		return nil, domain.Invalid("el monto debe ser mayor a cero")
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.Invalid("medio de pago inválido")
	}
	category := strings.TrimSpace(in.Category)
	cat, err := uc.categories.GetByName(ctx, actor.CompanyID, category)
	if err != nil {
		return nil, err
	}
	if cat == nil || !cat.IsActive {
		return nil, domain.Invalid("categoría inválida")
	}

	item := &entity.ExpenseItem{
		ID:            uuid.New().String(),
		ReportID:      r.ID,
		ItemDate:      itemDate,
		Category:      cat.Name,
		Description:   strings.TrimSpace(in.Description),
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
	}
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Reports.AddItem(ctx, item); err != nil {
			return err
		}
		if in.ReceiptID == "" {
			return nil
		}
		url, err := repos.Receipts.Assign(ctx, actor.CompanyID, actor.UserID, in.ReceiptID, item.ID)
		if err != nil {
			return err
		}
		item.ReceiptURL = url
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, actor, audit.Entry{
		ActionType: "expense_item_added",
		TargetType: "report",
		TargetID:   r.ID,
		Message:    fmt.Sprintf("Ítem de %s agregado al reporte (%s)", item.Amount.StringFixed(2), item.Category),
	})
	out := toItemResponse(*item)
	return &out, nil
}

// DeleteItem elimina un ítem del borrador y libera su comprobante.
func (uc *EmployeeUseCase) DeleteItem(ctx context.Context, actor entity.Actor, reportID, itemID string) error {
	r, err := uc.ownDraft(ctx, actor, reportID)
	if err != nil {
		return err
	}
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Receipts.UnassignItem(ctx, itemID); err != nil {
			return err
		}
		ok, err := repos.Reports.DeleteItem(ctx, r.ID, itemID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.audit.Record(ctx, actor, audit.Entry{
		ActionType: "expense_item_deleted",
		TargetType: "report",
		TargetID:   r.ID,
		Message:    "Ítem " + itemID + " eliminado del reporte",
	})
	return nil
}

// Submit envía el borrador a aprobación: total = suma de ítems, aprobador = el asignado al empleado.
func (uc *EmployeeUseCase) Submit(ctx context.Context, actor entity.Actor, reportID string) (*dto.ReportResponse, error) {
	r, err := uc.ownDraft(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}
	items, err := uc.reports.ListItems(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.Invalid("agregue al menos un ítem antes de enviar")
	}
	user, err := uc.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrSession
	}
	if user.ApproverID == "" {
		return nil, domain.ErrNoApprover
	}

	total := entity.SumItems(items)
	at := uc.now()
	ok, err := uc.reports.Submit(ctx, r.ID, total, user.ApproverID, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Conflict("el reporte ya fue enviado")
	}
	uc.obs.ObserveTransition(entity.StatusDraft, entity.StatusPendingApproval)
	uc.audit.Record(ctx, actor, audit.Entry{
		ActionType: "report_submitted",
		TargetType: "report",
		TargetID:   r.ID,
		Message:    fmt.Sprintf("Reporte enviado a aprobación por %s", total.StringFixed(2)),
	})

	r.Status = entity.StatusPendingApproval
	r.TotalAmount = total
	r.ApproverID = user.ApproverID
	r.SubmittedAt = &at
	r.IsRead = false
	out := ToReportResponse(r, items)
	return &out, nil
}

// ListMine reportes del actor: borradores, luego rechazos no leídos, luego los más recientes.
func (uc *EmployeeUseCase) ListMine(ctx context.Context, actor entity.Actor) ([]dto.ReportResponse, error) {
	list, err := uc.reports.ListByUser(ctx, actor.CompanyID, actor.UserID)
	if err != nil {
		return nil, err
	}
	return ToReportList(list), nil
}

// GetMine reporte propio con sus ítems.
func (uc *EmployeeUseCase) GetMine(ctx context.Context, actor entity.Actor, reportID string) (*dto.ReportResponse, error) {
	r, err := uc.ownReport(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}
	items, err := uc.reports.ListItems(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	out := ToReportResponse(r, items)
	return &out, nil
}

// MarkRejectionRead marca leída la notificación de rechazo.
func (uc *EmployeeUseCase) MarkRejectionRead(ctx context.Context, actor entity.Actor, reportID string) error {
	return uc.reports.MarkRead(ctx, actor.CompanyID, actor.UserID, reportID)
}

// UploadReceipt guarda un comprobante en la billetera del actor.
func (uc *EmployeeUseCase) UploadReceipt(ctx context.Context, actor entity.Actor, up ReceiptUpload) (*dto.ReceiptResponse, error) {
	rc, err := uc.uploadReceipt(ctx, actor, up)
	if err != nil {
		uc.audit.Record(ctx, actor, audit.Entry{
			ActionType: "receipt_save_failed",
			TargetType: "receipt",
			Message:    fmt.Sprintf("No se pudo guardar el comprobante '%s': %v", up.Filename, err),
		})
		return nil, err
	}
	uc.audit.Record(ctx, actor, audit.Entry{
		ActionType: "receipt_saved_to_wallet",
		TargetType: "receipt",
		TargetID:   rc.ID,
		Message:    "Comprobante guardado en la billetera",
	})
	return &dto.ReceiptResponse{ID: rc.ID, ReceiptURL: rc.ReceiptURL, Notes: rc.Notes, UploadedAt: rc.UploadedAt}, nil
}

func (uc *EmployeeUseCase) uploadReceipt(ctx context.Context, actor entity.Actor, up ReceiptUpload) (*entity.Receipt, error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if !allowedReceiptExt[ext] {
		return nil, domain.Invalid("formato no permitido: use JPG, JPEG, PNG o PDF")
	}
	if up.Size > uc.maxUpload {
		return nil, domain.Invalid(fmt.Sprintf("el archivo supera el máximo de %d MB", uc.maxUpload>>20))
	}
	if up.Body == nil {
		return nil, domain.Invalid("archivo vacío")
	}
	url, err := uc.storage.Save(ctx, actor.CompanyID, actor.UserID, ext, up.Body)
	if err != nil {
		return nil, err
	}
	rc := &entity.Receipt{
		ID:         uuid.New().String(),
		CompanyID:  actor.CompanyID,
		UserID:     actor.UserID,
		ReceiptURL: url,
		Notes:      strings.TrimSpace(up.Notes),
		UploadedAt: uc.now(),
	}
	if err := uc.receipts.Create(ctx, rc); err != nil {
		return nil, err
	}
	return rc, nil
}

// ListUnassignedReceipts comprobantes del actor aún sin ítem.
func (uc *EmployeeUseCase) ListUnassignedReceipts(ctx context.Context, actor entity.Actor) ([]dto.ReceiptResponse, error) {
	list, err := uc.receipts.ListUnassigned(ctx, actor.CompanyID, actor.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceiptResponse, 0, len(list))
	for _, rc := range list {
		out = append(out, dto.ReceiptResponse{ID: rc.ID, ReceiptURL: rc.ReceiptURL, Notes: rc.Notes, UploadedAt: rc.UploadedAt})
	}
	return out, nil
}
