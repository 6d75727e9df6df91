package export_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gastos-api/internal/application/analytics"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/export"
	"github.com/jhoicas/Gastos-api/internal/application/mocks"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

var accounts = entity.Actor{UserID: "acc-1", CompanyID: "c-1", Roles: []string{entity.RoleAccounts}}

type fakeEncoder struct{ got export.Table }

func (e *fakeEncoder) Encode(t export.Table) ([]byte, error) {
	e.got = t
	return []byte("ok"), nil
}
func (e *fakeEncoder) ContentType() string { return "text/csv" }
func (e *fakeEncoder) Extension() string   { return "csv" }

type fakePDF struct {
	report    export.ReportDocument
	anomalies export.AnomalyDocument
}

func (p *fakePDF) RenderReport(_ context.Context, doc export.ReportDocument) ([]byte, error) {
	p.report = doc
	return []byte("%PDF-report"), nil
}

func (p *fakePDF) RenderAnomalies(_ context.Context, doc export.AnomalyDocument) ([]byte, error) {
	p.anomalies = doc
	return []byte("%PDF-anomalies"), nil
}

type env struct {
	reports   *mocks.ExpenseReportRepository
	companies *mocks.CompanyRepository
	anomalies *mocks.AnomalyRepository
	analytics *mocks.AnalyticsRepository
	enc       *fakeEncoder
	pdf       *fakePDF
	uc        *export.UseCase
}

func newEnv() *env {
	e := &env{
		reports:   new(mocks.ExpenseReportRepository),
		companies: new(mocks.CompanyRepository),
		anomalies: new(mocks.AnomalyRepository),
		analytics: new(mocks.AnalyticsRepository),
		enc:       &fakeEncoder{},
		pdf:       &fakePDF{},
	}
	e.companies.On("GetByID", mock.Anything, "c-1").Return(&entity.Company{ID: "c-1", Name: "Acme"}, nil)
	e.uc = export.NewUseCase(export.Deps{
		Reports:        e.reports,
		Companies:      e.companies,
		Anomalies:      analytics.NewAnomalyUseCase(e.anomalies, e.analytics, nil, nil),
		Encoders:       map[string]export.TableEncoder{export.FormatCSV: e.enc},
		PDF:            e.pdf,
		CurrencySymbol: "Rs.",
	})
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado
// ──────────────────────────────────────────────────────────────────────────────

func TestReportsTable_Columnas(t *testing.T) {
	approved := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tbl := export.ReportsTable([]*entity.ExpenseReport{{
		EmployeeName: "Ana", Department: "Ventas", Title: "Viaje", ReportType: "travel",
		Status: entity.StatusPendingVerification, TotalAmount: decimal.RequireFromString("100"),
		ApprovedAmount: decimal.RequireFromString("90"), ApprovedAt: &approved,
	}})

	require.Len(t, tbl.Rows, 1)
	assert.Len(t, tbl.Headers, 10)
	row := tbl.Rows[0]
	assert.Equal(t, "Pending Verification", row[5])
	assert.Equal(t, "", row[4], "sin fecha de envío")
	assert.Equal(t, "2026-03-10", row[8])
	assert.Equal(t, "", row[9])
}

func TestExportReports_FormatoPorDefecto(t *testing.T) {
	e := newEnv()
	e.reports.On("ListReports", mock.Anything, repository.ReportFilter{CompanyID: "c-1", Status: "paid"}).
		Return([]*entity.ExpenseReport{{Title: "Viaje", Status: entity.StatusPaid}}, nil)

	f, err := e.uc.ExportReports(context.Background(), accounts, dto.ReportsQuery{Status: "paid"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(f.Name, "expense_report_"))
	assert.True(t, strings.HasSuffix(f.Name, ".csv"))
	assert.Equal(t, "text/csv", f.ContentType)
	assert.Len(t, e.enc.got.Rows, 1)
}

func TestExportReports_FormatoDesconocido(t *testing.T) {
	e := newEnv()
	_, err := e.uc.ExportReports(context.Background(), accounts, dto.ReportsQuery{Format: "ods"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestReportPDF_Permisos(t *testing.T) {
	e := newEnv()
	e.reports.On("GetReport", mock.Anything, "c-1", "r-1").
		Return(&entity.ExpenseReport{ID: "r-1", CompanyID: "c-1", UserID: "emp-1", ApproverID: "apr-1", Status: entity.StatusPaid}, nil)
	e.reports.On("ListItems", mock.Anything, "r-1").Return([]entity.ExpenseItem{{ID: "i-1", Category: "Travel"}}, nil)

	other := entity.Actor{UserID: "emp-2", CompanyID: "c-1", Roles: []string{entity.RoleEmployee}}
	_, err := e.uc.ReportPDF(context.Background(), other, "r-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	owner := entity.Actor{UserID: "emp-1", CompanyID: "c-1", Roles: []string{entity.RoleEmployee}}
	f, err := e.uc.ReportPDF(context.Background(), owner, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.Equal(t, "Acme", e.pdf.report.CompanyName)
	assert.Equal(t, "Rs.", e.pdf.report.CurrencySymbol)
	assert.Len(t, e.pdf.report.Report.Items, 1)
}

func TestReportPDF_Inexistente(t *testing.T) {
	e := newEnv()
	e.reports.On("GetReport", mock.Anything, "c-1", "r-x").Return(nil, nil)
	_, err := e.uc.ReportPDF(context.Background(), accounts, "r-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnomalyPDF(t *testing.T) {
	e := newEnv()
	e.anomalies.On("ListCandidates", mock.Anything, mock.Anything).Return(nil, nil)
	e.anomalies.On("CategoryStats", mock.Anything, "c-1").Return(nil, nil)
	e.analytics.On("ListDepartments", mock.Anything, "c-1").Return([]string{"Ventas"}, nil)

	f, err := e.uc.AnomalyPDF(context.Background(), accounts, dto.AnomalyQuery{Start: "2026-03-01", End: "2026-03-31"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(f.Name, "anomaly_report_"))
	assert.Equal(t, "Acme", e.pdf.anomalies.CompanyName)
	assert.Equal(t, []string{"Ventas"}, e.pdf.anomalies.Result.Departments)
}
