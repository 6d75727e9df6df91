// Package mocks implementaciones testify/mock de los puertos de repositorio para tests de casos de uso.
package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/Gastos-api/internal/domain/anomaly"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

var (
	_ repository.UserRepository          = (*UserRepository)(nil)
	_ repository.CompanyRepository       = (*CompanyRepository)(nil)
	_ repository.StoreRepository         = (*StoreRepository)(nil)
	_ repository.CategoryRepository      = (*CategoryRepository)(nil)
	_ repository.ExpenseReportRepository = (*ExpenseReportRepository)(nil)
	_ repository.ReceiptRepository       = (*ReceiptRepository)(nil)
	_ repository.AuditLogRepository      = (*AuditLogRepository)(nil)
	_ repository.PettyCashRepository     = (*PettyCashRepository)(nil)
	_ repository.ReferralRepository      = (*ReferralRepository)(nil)
	_ repository.AnalyticsRepository     = (*AnalyticsRepository)(nil)
	_ repository.AnomalyRepository       = (*AnomalyRepository)(nil)
	_ repository.TxRunner                = (*TxRunner)(nil)
)

// ─── Users / Companies / Stores ───────────────────────────────────────────────

type UserRepository struct{ mock.Mock }

func (m *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, companyID, email string) (*entity.User, error) {
	args := m.Called(ctx, companyID, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *UserRepository) GetByEmployeeCode(ctx context.Context, companyID, code string) (*entity.User, error) {
	args := m.Called(ctx, companyID, code)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *UserRepository) ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error) {
	args := m.Called(ctx, companyID)
	l, _ := args.Get(0).([]*entity.User)
	return l, args.Error(1)
}

func (m *UserRepository) Delete(ctx context.Context, companyID, id string) (bool, error) {
	args := m.Called(ctx, companyID, id)
	return args.Bool(0), args.Error(1)
}

type CompanyRepository struct{ mock.Mock }

func (m *CompanyRepository) Create(ctx context.Context, c *entity.Company) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CompanyRepository) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Company)
	return c, args.Error(1)
}

func (m *CompanyRepository) GetByCode(ctx context.Context, code string) (*entity.Company, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*entity.Company)
	return c, args.Error(1)
}

func (m *CompanyRepository) List(ctx context.Context) ([]*entity.Company, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]*entity.Company)
	return l, args.Error(1)
}

func (m *CompanyRepository) Update(ctx context.Context, c *entity.Company) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CompanyRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type StoreRepository struct{ mock.Mock }

func (m *StoreRepository) GetByID(ctx context.Context, companyID, id string) (*entity.Store, error) {
	args := m.Called(ctx, companyID, id)
	s, _ := args.Get(0).(*entity.Store)
	return s, args.Error(1)
}

func (m *StoreRepository) ListActive(ctx context.Context, companyID string) ([]*entity.Store, error) {
	args := m.Called(ctx, companyID)
	l, _ := args.Get(0).([]*entity.Store)
	return l, args.Error(1)
}

// ─── Categories / Audit ───────────────────────────────────────────────────────

type CategoryRepository struct{ mock.Mock }

func (m *CategoryRepository) List(ctx context.Context, companyID string) ([]*entity.ExpenseCategory, error) {
	args := m.Called(ctx, companyID)
	l, _ := args.Get(0).([]*entity.ExpenseCategory)
	return l, args.Error(1)
}

func (m *CategoryRepository) ListActive(ctx context.Context, companyID string) ([]*entity.ExpenseCategory, error) {
	args := m.Called(ctx, companyID)
	l, _ := args.Get(0).([]*entity.ExpenseCategory)
	return l, args.Error(1)
}

func (m *CategoryRepository) GetByID(ctx context.Context, companyID, id string) (*entity.ExpenseCategory, error) {
	args := m.Called(ctx, companyID, id)
	c, _ := args.Get(0).(*entity.ExpenseCategory)
	return c, args.Error(1)
}

func (m *CategoryRepository) GetByName(ctx context.Context, companyID, name string) (*entity.ExpenseCategory, error) {
	args := m.Called(ctx, companyID, name)
	c, _ := args.Get(0).(*entity.ExpenseCategory)
	return c, args.Error(1)
}

func (m *CategoryRepository) Create(ctx context.Context, c *entity.ExpenseCategory) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CategoryRepository) Update(ctx context.Context, c *entity.ExpenseCategory) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CategoryRepository) Delete(ctx context.Context, companyID, id string) (bool, error) {
	args := m.Called(ctx, companyID, id)
	return args.Bool(0), args.Error(1)
}

type AuditLogRepository struct{ mock.Mock }

func (m *AuditLogRepository) Insert(ctx context.Context, l *entity.AuditLog) error {
	return m.Called(ctx, l).Error(0)
}

func (m *AuditLogRepository) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	args := m.Called(ctx, f)
	l, _ := args.Get(0).([]*entity.AuditLog)
	return l, args.Error(1)
}

// Actions tipos de acción insertados, en orden.
func (m *AuditLogRepository) Actions() []string {
	var out []string
	for _, c := range m.Calls {
		if c.Method != "Insert" {
			continue
		}
		if l, ok := c.Arguments.Get(1).(*entity.AuditLog); ok {
			out = append(out, l.ActionType)
		}
	}
	return out
}

// ─── Reports / Receipts ───────────────────────────────────────────────────────

type ExpenseReportRepository struct{ mock.Mock }

func (m *ExpenseReportRepository) CreateReport(ctx context.Context, r *entity.ExpenseReport) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ExpenseReportRepository) GetReport(ctx context.Context, companyID, id string) (*entity.ExpenseReport, error) {
	args := m.Called(ctx, companyID, id)
	r, _ := args.Get(0).(*entity.ExpenseReport)
	return r, args.Error(1)
}

func (m *ExpenseReportRepository) ListByUser(ctx context.Context, companyID, userID string) ([]*entity.ExpenseReport, error) {
	args := m.Called(ctx, companyID, userID)
	l, _ := args.Get(0).([]*entity.ExpenseReport)
	return l, args.Error(1)
}

func (m *ExpenseReportRepository) ListReviewQueue(ctx context.Context, f repository.ReviewQueueFilter) ([]*entity.ExpenseReport, error) {
	args := m.Called(ctx, f)
	l, _ := args.Get(0).([]*entity.ExpenseReport)
	return l, args.Error(1)
}

func (m *ExpenseReportRepository) ListReports(ctx context.Context, f repository.ReportFilter) ([]*entity.ExpenseReport, error) {
	args := m.Called(ctx, f)
	l, _ := args.Get(0).([]*entity.ExpenseReport)
	return l, args.Error(1)
}

func (m *ExpenseReportRepository) ListItems(ctx context.Context, reportID string) ([]entity.ExpenseItem, error) {
	args := m.Called(ctx, reportID)
	l, _ := args.Get(0).([]entity.ExpenseItem)
	return l, args.Error(1)
}

func (m *ExpenseReportRepository) AddItem(ctx context.Context, item *entity.ExpenseItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *ExpenseReportRepository) DeleteItem(ctx context.Context, reportID, itemID string) (bool, error) {
	args := m.Called(ctx, reportID, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *ExpenseReportRepository) Submit(ctx context.Context, reportID string, total decimal.Decimal, approverID string, at time.Time) (bool, error) {
	args := m.Called(ctx, reportID, total, approverID, at)
	return args.Bool(0), args.Error(1)
}

func (m *ExpenseReportRepository) ApplyDecision(ctx context.Context, d repository.Decision) (bool, error) {
	args := m.Called(ctx, d)
	return args.Bool(0), args.Error(1)
}

func (m *ExpenseReportRepository) MarkRead(ctx context.Context, companyID, userID, reportID string) error {
	return m.Called(ctx, companyID, userID, reportID).Error(0)
}

func (m *ExpenseReportRepository) ListPayouts(ctx context.Context, companyID string) ([]repository.PayoutRow, error) {
	args := m.Called(ctx, companyID)
	l, _ := args.Get(0).([]repository.PayoutRow)
	return l, args.Error(1)
}

func (m *ExpenseReportRepository) MarkPaid(ctx context.Context, companyID, reportID string, at time.Time) (bool, error) {
	args := m.Called(ctx, companyID, reportID, at)
	return args.Bool(0), args.Error(1)
}

type ReceiptRepository struct{ mock.Mock }

func (m *ReceiptRepository) Create(ctx context.Context, r *entity.Receipt) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ReceiptRepository) ListUnassigned(ctx context.Context, companyID, userID string) ([]*entity.Receipt, error) {
	args := m.Called(ctx, companyID, userID)
	l, _ := args.Get(0).([]*entity.Receipt)
	return l, args.Error(1)
}

func (m *ReceiptRepository) Assign(ctx context.Context, companyID, userID, receiptID, itemID string) (string, error) {
	args := m.Called(ctx, companyID, userID, receiptID, itemID)
	return args.String(0), args.Error(1)
}

func (m *ReceiptRepository) UnassignItem(ctx context.Context, itemID string) error {
	return m.Called(ctx, itemID).Error(0)
}

// ─── Petty cash ───────────────────────────────────────────────────────────────

type PettyCashRepository struct{ mock.Mock }

func (m *PettyCashRepository) GetWalletByUser(ctx context.Context, companyID, userID string) (*entity.PettyCashWallet, error) {
	args := m.Called(ctx, companyID, userID)
	w, _ := args.Get(0).(*entity.PettyCashWallet)
	return w, args.Error(1)
}

func (m *PettyCashRepository) GetWalletByID(ctx context.Context, companyID, id string) (*entity.PettyCashWallet, error) {
	args := m.Called(ctx, companyID, id)
	w, _ := args.Get(0).(*entity.PettyCashWallet)
	return w, args.Error(1)
}

func (m *PettyCashRepository) ListWallets(ctx context.Context, companyID string) ([]*entity.PettyCashWallet, error) {
	args := m.Called(ctx, companyID)
	l, _ := args.Get(0).([]*entity.PettyCashWallet)
	return l, args.Error(1)
}

func (m *PettyCashRepository) CreateWallet(ctx context.Context, w *entity.PettyCashWallet) error {
	return m.Called(ctx, w).Error(0)
}

func (m *PettyCashRepository) AdjustBalance(ctx context.Context, walletID string, delta decimal.Decimal) error {
	return m.Called(ctx, walletID, delta).Error(0)
}

func (m *PettyCashRepository) AddTransaction(ctx context.Context, t *entity.PettyCashTransaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *PettyCashRepository) BalanceBefore(ctx context.Context, walletID string, t time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, walletID, t)
	d, _ := args.Get(0).(decimal.Decimal)
	return d, args.Error(1)
}

func (m *PettyCashRepository) ListTransactions(ctx context.Context, walletID string, start, end time.Time) ([]*entity.PettyCashTransaction, error) {
	args := m.Called(ctx, walletID, start, end)
	l, _ := args.Get(0).([]*entity.PettyCashTransaction)
	return l, args.Error(1)
}

// ─── Referrals ────────────────────────────────────────────────────────────────

type ReferralRepository struct{ mock.Mock }

func (m *ReferralRepository) CreateReferrer(ctx context.Context, r *entity.Referrer) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ReferralRepository) GetReferrerByID(ctx context.Context, id string) (*entity.Referrer, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*entity.Referrer)
	return r, args.Error(1)
}

func (m *ReferralRepository) GetReferrerByMobile(ctx context.Context, mobile string) (*entity.Referrer, error) {
	args := m.Called(ctx, mobile)
	r, _ := args.Get(0).(*entity.Referrer)
	return r, args.Error(1)
}

func (m *ReferralRepository) ListReferrers(ctx context.Context, companyID string) ([]*entity.Referrer, error) {
	args := m.Called(ctx, companyID)
	l, _ := args.Get(0).([]*entity.Referrer)
	return l, args.Error(1)
}

func (m *ReferralRepository) AddPoints(ctx context.Context, referrerID string, points int) error {
	return m.Called(ctx, referrerID, points).Error(0)
}

func (m *ReferralRepository) ReferrerStats(ctx context.Context, referrerID string) (*repository.ReferrerStats, error) {
	args := m.Called(ctx, referrerID)
	s, _ := args.Get(0).(*repository.ReferrerStats)
	return s, args.Error(1)
}

func (m *ReferralRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *ReferralRepository) CreateReferral(ctx context.Context, r *entity.Referral) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ReferralRepository) GetReferral(ctx context.Context, companyID, id string) (*entity.Referral, error) {
	args := m.Called(ctx, companyID, id)
	r, _ := args.Get(0).(*entity.Referral)
	return r, args.Error(1)
}

func (m *ReferralRepository) ListReferrals(ctx context.Context, f repository.ReferralFilter) ([]*entity.Referral, error) {
	args := m.Called(ctx, f)
	l, _ := args.Get(0).([]*entity.Referral)
	return l, args.Error(1)
}

func (m *ReferralRepository) ListByReferrer(ctx context.Context, referrerID string) ([]*entity.Referral, error) {
	args := m.Called(ctx, referrerID)
	l, _ := args.Get(0).([]*entity.Referral)
	return l, args.Error(1)
}

func (m *ReferralRepository) UpdateReferral(ctx context.Context, r *entity.Referral, fromStatus string) (bool, error) {
	args := m.Called(ctx, r, fromStatus)
	return args.Bool(0), args.Error(1)
}

func (m *ReferralRepository) AddChange(ctx context.Context, c *entity.ReferralChange) error {
	return m.Called(ctx, c).Error(0)
}

func (m *ReferralRepository) ListChanges(ctx context.Context, referralID string) ([]*entity.ReferralChange, error) {
	args := m.Called(ctx, referralID)
	l, _ := args.Get(0).([]*entity.ReferralChange)
	return l, args.Error(1)
}

// ─── Analytics / Anomalies ────────────────────────────────────────────────────

type AnalyticsRepository struct{ mock.Mock }

func (m *AnalyticsRepository) labeled(args mock.Arguments) ([]repository.LabeledTotal, error) {
	l, _ := args.Get(0).([]repository.LabeledTotal)
	return l, args.Error(1)
}

func (m *AnalyticsRepository) TotalsByCategory(ctx context.Context, companyID string, start, end time.Time) ([]repository.LabeledTotal, error) {
	return m.labeled(m.Called(ctx, companyID, start, end))
}

func (m *AnalyticsRepository) TotalsByDepartment(ctx context.Context, companyID string, start, end time.Time) ([]repository.LabeledTotal, error) {
	return m.labeled(m.Called(ctx, companyID, start, end))
}

func (m *AnalyticsRepository) TotalsByPaymentMethod(ctx context.Context, companyID string, start, end time.Time) ([]repository.LabeledTotal, error) {
	return m.labeled(m.Called(ctx, companyID, start, end))
}

func (m *AnalyticsRepository) MonthlyPaid(ctx context.Context, companyID string, months int) ([]repository.LabeledTotal, error) {
	return m.labeled(m.Called(ctx, companyID, months))
}

func (m *AnalyticsRepository) StatusCounts(ctx context.Context, companyID string) ([]repository.LabeledTotal, error) {
	return m.labeled(m.Called(ctx, companyID))
}

func (m *AnalyticsRepository) ItemSummary(ctx context.Context, f repository.ReportFilter, groupBy string) ([]repository.LabeledTotal, error) {
	return m.labeled(m.Called(ctx, f, groupBy))
}

func (m *AnalyticsRepository) ListDepartments(ctx context.Context, companyID string) ([]string, error) {
	args := m.Called(ctx, companyID)
	l, _ := args.Get(0).([]string)
	return l, args.Error(1)
}

type AnomalyRepository struct{ mock.Mock }

func (m *AnomalyRepository) ListCandidates(ctx context.Context, f repository.AnomalyFilter) ([]anomaly.Candidate, error) {
	args := m.Called(ctx, f)
	l, _ := args.Get(0).([]anomaly.Candidate)
	return l, args.Error(1)
}

func (m *AnomalyRepository) CategoryStats(ctx context.Context, companyID string) (map[string]anomaly.CategoryStats, error) {
	args := m.Called(ctx, companyID)
	s, _ := args.Get(0).(map[string]anomaly.CategoryStats)
	return s, args.Error(1)
}

// ─── Tx ───────────────────────────────────────────────────────────────────────

// TxRunner ejecuta fn directamente con los repos configurados. Committed/RolledBack
// reflejan el resultado de la última llamada.
type TxRunner struct {
	Repos      repository.TxRepos
	Committed  bool
	RolledBack bool
}

func (t *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	err := fn(t.Repos)
	t.Committed = err == nil
	t.RolledBack = err != nil
	return err
}
