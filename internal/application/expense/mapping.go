package expense

import (
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
)

// ToReportResponse mapea un reporte (y opcionalmente sus ítems) al DTO de salida.
func ToReportResponse(r *entity.ExpenseReport, items []entity.ExpenseItem) dto.ReportResponse {
	out := dto.ReportResponse{
		ID:             r.ID,
		Title:          r.Title,
		ReportType:     r.ReportType,
		StartDate:      r.TravelStart.Format(dto.DateLayout),
		EndDate:        r.TravelEnd.Format(dto.DateLayout),
		Status:         r.Status,
		StatusLabel:    entity.StatusLabel(r.Status),
		StatusBadge:    entity.StatusBadge(r.Status),
		TotalAmount:    r.TotalAmount,
		ApprovedAmount: r.ApprovedAmount,
		AdminComments:  r.AdminComments,
		IsRead:         r.IsRead,
		EmployeeID:     r.UserID,
		EmployeeName:   r.EmployeeName,
		Department:     r.Department,
		StoreName:      r.StoreName,
		CompanyID:      r.CompanyID,
		CreatedAt:      r.CreatedAt,
		SubmittedAt:    r.SubmittedAt,
		ApprovedAt:     r.ApprovedAt,
		PaidAt:         r.PaidAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, toItemResponse(it))
	}
	return out
}

// ToReportList mapea una lista sin ítems.
func ToReportList(list []*entity.ExpenseReport) []dto.ReportResponse {
	out := make([]dto.ReportResponse, 0, len(list))
	for _, r := range list {
		out = append(out, ToReportResponse(r, nil))
	}
	return out
}

func toItemResponse(it entity.ExpenseItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:            it.ID,
		ItemDate:      it.ItemDate.Format(dto.DateLayout),
		Category:      it.Category,
		Description:   it.Description,
		Amount:        it.Amount,
		PaymentMethod: it.PaymentMethod,
		ReceiptURL:    it.ReceiptURL,
	}
}
