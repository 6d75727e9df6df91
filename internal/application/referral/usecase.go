// Package referral contiene el portal de referidores (registro, login, panel y envío de
// prospectos) y la gestión de referidos por parte del staff.
package referral

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/auth"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
	"github.com/jhoicas/Gastos-api/pkg/jwt"
)

const (
	// MobileLength dígitos exactos de un celular de referidor.
	MobileLength = 10
	// MinPasswordLength largo mínimo de la contraseña de un referidor.
	MinPasswordLength = 6
	// CodePrefix prefijo de los códigos de referido.
	CodePrefix = "FFD-R-"

	maxCodeAttempts = 10
)

// Acciones de la bitácora de referidos.
const (
	ActionCreated           = "REFERRAL_CREATED"
	ActionStatusChange      = "Status Change"
	ActionPurchaseAmount    = "Purchase Amount Update"
	ActionPoints            = "Points Update"
	ActionLastContact       = "Last Contact Date"
	ActionLastVisit         = "Last Visit Date"
	ActionStaffNotes        = "Staff Notes Update"
	ActionPointsTransferred = "Points Transferred"
)

// UseCase casos de uso de referidos.
type UseCase struct {
	repo      repository.ReferralRepository
	companies repository.CompanyRepository
	stores    repository.StoreRepository
	tx        repository.TxRunner
	audit     *audit.Recorder
	jwtCfg    auth.JWTConfig
	newCode   func() (string, error)
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ReferralRepository, companies repository.CompanyRepository, stores repository.StoreRepository,
	tx repository.TxRunner, rec *audit.Recorder, jwtCfg auth.JWTConfig) *UseCase {
	return &UseCase{
		repo: repo, companies: companies, stores: stores, tx: tx, audit: rec, jwtCfg: jwtCfg,
		newCode: randomCode, now: time.Now,
	}
}

// NormalizeMobile deja solo los dígitos del número.
func NormalizeMobile(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// randomCode CodePrefix + 5 caracteres hexadecimales en mayúscula.
func randomCode() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return CodePrefix + strings.ToUpper(hex.EncodeToString(b)[:5]), nil
}

// ── Portal del referidor ──────────────────────────────────────────────────────

// Register da de alta un referidor en la empresa del código indicado.
func (uc *UseCase) Register(ctx context.Context, in dto.ReferrerRegisterRequest) (*dto.ReferrerResponse, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, domain.Invalid("el nombre es obligatorio")
	}
	mobile := NormalizeMobile(in.MobileNumber)
	if len(mobile) != MobileLength {
		return nil, domain.Invalid(fmt.Sprintf("el celular debe tener exactamente %d dígitos", MobileLength))
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < MinPasswordLength {
		return nil, domain.Invalid(fmt.Sprintf("la contraseña debe tener al menos %d caracteres", MinPasswordLength))
	}
	if password != strings.TrimSpace(in.ConfirmPassword) {
		return nil, domain.Invalid("las contraseñas no coinciden")
	}
	code := entity.NormalizeCompanyCode(in.CompanyCode)
	if code == "" {
		return nil, domain.Invalid("el código de empresa es obligatorio")
	}
	company, err := uc.companies.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("referral: empresa: %w", err)
	}
	if company == nil {
		return nil, domain.Invalid("código de empresa desconocido")
	}

	existing, err := uc.repo.GetReferrerByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el celular ya está registrado", domain.ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("referral: hash: %w", err)
	}
	r := &entity.Referrer{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		FullName:     name,
		MobileNumber: mobile,
		PasswordHash: string(hash),
		CreatedAt:    uc.now(),
	}
	if err := uc.repo.CreateReferrer(ctx, r); err != nil {
		return nil, err
	}
	out := toReferrerResponse(r)
	return &out, nil
}

// Login autentica por celular y emite un token de sujeto referrer.
func (uc *UseCase) Login(ctx context.Context, in dto.ReferrerLoginRequest) (*dto.ReferrerLoginResponse, error) {
	mobile := NormalizeMobile(in.MobileNumber)
	if mobile == "" || in.Password == "" {
		return nil, domain.Invalid("celular y contraseña son obligatorios")
	}
	r, err := uc.repo.GetReferrerByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(strings.TrimSpace(in.Password))); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		Kind:      jwt.KindReferrer,
		UserID:    r.ID,
		CompanyID: r.CompanyID,
		Name:      r.FullName,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("referral: token: %w", err)
	}
	return &dto.ReferrerLoginResponse{Token: token, Referrer: toReferrerResponse(r)}, nil
}

// Dashboard saldo de puntos, métricas y prospectos del referidor en sesión.
func (uc *UseCase) Dashboard(ctx context.Context, referrerID string) (*dto.ReferrerDashboardResponse, error) {
	r, err := uc.repo.GetReferrerByID(ctx, referrerID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrSession
	}
	stats, err := uc.repo.ReferrerStats(ctx, referrerID)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByReferrer(ctx, referrerID)
	if err != nil {
		return nil, err
	}
	out := &dto.ReferrerDashboardResponse{
		PointsBalance: r.TotalPointsBalance,
		Referrals:     toReferralList(list),
	}
	if stats != nil {
		out.TotalReferrals = stats.TotalReferrals
		out.SuccessfulReferrals = stats.SuccessfulReferrals
		out.PendingPoints = stats.PendingPoints
	}
	return out, nil
}

// AddReferral registra un prospecto en estado Pending con código único y entrada REFERRAL_CREATED.
func (uc *UseCase) AddReferral(ctx context.Context, referrerID string, in dto.AddReferralRequest) (*dto.ReferralResponse, error) {
	name := strings.TrimSpace(in.InviteeName)
	contact := strings.TrimSpace(in.InviteeContact)
	if name == "" || contact == "" {
		return nil, domain.Invalid("el nombre y el contacto del invitado son obligatorios")
	}
	if in.InviteeAge < 0 {
		return nil, domain.Invalid("la edad no puede ser negativa")
	}
	r, err := uc.repo.GetReferrerByID(ctx, referrerID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrSession
	}
	storeID := strings.TrimSpace(in.StoreID)
	if storeID != "" {
		s, err := uc.stores.GetByID(ctx, r.CompanyID, storeID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, domain.Invalid("tienda inválida")
		}
	}

	ref := &entity.Referral{
		ID:              uuid.New().String(),
		CompanyID:       r.CompanyID,
		ReferrerID:      r.ID,
		StoreID:         storeID,
		InviteeName:     name,
		InviteeContact:  contact,
		InviteeAddress:  strings.TrimSpace(in.InviteeAddress),
		InviteeAge:      in.InviteeAge,
		InviteeGender:   strings.TrimSpace(in.InviteeGender),
		InterestedItems: strings.TrimSpace(in.InterestedItems),
		Remarks:         strings.TrimSpace(in.Remarks),
		Status:          entity.ReferralPending,
		CreatedAt:       uc.now(),
	}

	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		code, err := uc.uniqueCode(ctx, repos.Referrals)
		if err != nil {
			return err
		}
		ref.ReferralCode = code
		if err := repos.Referrals.CreateReferral(ctx, ref); err != nil {
			return err
		}
		return repos.Referrals.AddChange(ctx, &entity.ReferralChange{
			ID:         uuid.New().String(),
			ReferralID: ref.ID,
			ReferrerID: r.ID,
			Action:     ActionCreated,
			NewValue:   fmt.Sprintf("El referidor %s registró a %s (%s) con el código %s.", r.FullName, name, contact, code),
			CreatedAt:  ref.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	ref.ReferrerName = r.FullName
	ref.ReferrerMobile = r.MobileNumber
	out := toReferralResponse(ref)
	return &out, nil
}

// uniqueCode genera códigos hasta encontrar uno libre.
func (uc *UseCase) uniqueCode(ctx context.Context, repo repository.ReferralRepository) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := uc.newCode()
		if err != nil {
			return "", fmt.Errorf("referral: código: %w", err)
		}
		exists, err := repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("referral: no se pudo generar un código único")
}

// ── Staff ─────────────────────────────────────────────────────────────────────

// seesAllStores admin y accounts ven todas las tiendas; el resto solo la propia.
func seesAllStores(actor entity.Actor) bool {
	return actor.Has(entity.RoleAdmin, entity.RoleAccounts, entity.RolePlatformAdmin)
}

// ListReferrals referidos de la empresa, filtrados por la tienda del actor cuando corresponde.
func (uc *UseCase) ListReferrals(ctx context.Context, actor entity.Actor, status string) ([]dto.ReferralResponse, error) {
	f := repository.ReferralFilter{CompanyID: actor.CompanyID, Status: strings.TrimSpace(status)}
	if f.Status != "" && !entity.ValidReferralStatus(f.Status) {
		return nil, domain.Invalid("estado de referido desconocido: " + f.Status)
	}
	if !seesAllStores(actor) {
		if actor.StoreID == "" {
			return []dto.ReferralResponse{}, nil
		}
		f.StoreID = actor.StoreID
	}
	list, err := uc.repo.ListReferrals(ctx, f)
	if err != nil {
		return nil, err
	}
	return toReferralList(list), nil
}

func (uc *UseCase) load(ctx context.Context, actor entity.Actor, id string) (*entity.Referral, error) {
	ref, err := uc.repo.GetReferral(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, domain.ErrNotFound
	}
	if !seesAllStores(actor) && ref.StoreID != actor.StoreID {
		return nil, domain.ErrForbidden
	}
	return ref, nil
}

// GetReferral referido con su bitácora.
func (uc *UseCase) GetReferral(ctx context.Context, actor entity.Actor, id string) (*dto.ReferralDetailResponse, error) {
	ref, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	changes, err := uc.repo.ListChanges(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.ReferralDetailResponse{
		Referral: toReferralResponse(ref),
		History:  make([]dto.ReferralChangeResponse, 0, len(changes)),
	}
	for _, c := range changes {
		out.History = append(out.History, dto.ReferralChangeResponse{
			Action: c.Action, OldValue: c.OldValue, NewValue: c.NewValue, ActorName: c.ActorName, CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}

// UpdateReferral aplica los cambios del staff y los registra en la bitácora. Sin diferencias
// devuelve domain.ErrNoChanges. Pasar a Points Awarded acredita los puntos al referidor una sola vez:
// la actualización exige que el estado no haya cambiado desde la lectura.
func (uc *UseCase) UpdateReferral(ctx context.Context, actor entity.Actor, id string, in dto.UpdateReferralRequest) (*dto.ReferralDetailResponse, error) {
	status := strings.TrimSpace(in.Status)
	if !entity.ValidReferralStatus(status) {
		return nil, domain.Invalid("estado de referido desconocido: " + status)
	}
	if in.PurchaseAmount.IsNegative() || in.PointsEarned < 0 {
		return nil, domain.Invalid("el monto y los puntos no pueden ser negativos")
	}
	lastContact, err := optionalDate(in.LastContactDate, "last_contact_date")
	if err != nil {
		return nil, err
	}
	lastVisit, err := optionalDate(in.LastVisitDate, "last_visit_date")
	if err != nil {
		return nil, err
	}

	ref, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	notes := strings.TrimSpace(in.StaffNotes)
	var changes []entity.ReferralChange
	add := func(action, oldV, newV string) {
		changes = append(changes, entity.ReferralChange{Action: action, OldValue: oldV, NewValue: newV})
	}
	if status != ref.Status {
		add(ActionStatusChange, ref.Status, status)
	}
	if !in.PurchaseAmount.Equal(ref.PurchaseAmount) {
		add(ActionPurchaseAmount, ref.PurchaseAmount.StringFixed(2), in.PurchaseAmount.StringFixed(2))
	}
	if in.PointsEarned != ref.PointsEarned {
		add(ActionPoints, strconv.Itoa(ref.PointsEarned), strconv.Itoa(in.PointsEarned))
	}
	if formatDate(lastContact) != formatDate(ref.LastContactDate) {
		add(ActionLastContact, formatDate(ref.LastContactDate), formatDate(lastContact))
	}
	if formatDate(lastVisit) != formatDate(ref.LastVisitDate) {
		add(ActionLastVisit, formatDate(ref.LastVisitDate), formatDate(lastVisit))
	}
	if notes != ref.StaffNotes {
		add(ActionStaffNotes, "...", "...")
	}
	if len(changes) == 0 {
		return nil, domain.ErrNoChanges
	}

	fromStatus := ref.Status
	awarding := status == entity.ReferralPointsAwarded && fromStatus != entity.ReferralPointsAwarded
	now := uc.now()
	if awarding {
		ref.PointsAwardedAt = &now
	}
	ref.Status = status
	ref.PurchaseAmount = in.PurchaseAmount
	ref.PointsEarned = in.PointsEarned
	ref.LastContactDate = lastContact
	ref.LastVisitDate = lastVisit
	ref.StaffNotes = notes
	ref.UpdatedByUserID = actor.UserID

	if awarding && ref.PointsEarned > 0 {
		add(ActionPointsTransferred, "N/A", fmt.Sprintf("%d puntos acreditados al referidor %s", ref.PointsEarned, ref.ReferrerID))
	}

	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		ok, err := repos.Referrals.UpdateReferral(ctx, ref, fromStatus)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Conflict("el referido cambió de estado; recargue e intente de nuevo")
		}
		if awarding && ref.PointsEarned > 0 {
			if err := repos.Referrals.AddPoints(ctx, ref.ReferrerID, ref.PointsEarned); err != nil {
				return err
			}
		}
		for i := range changes {
			c := changes[i]
			c.ID = uuid.New().String()
			c.ReferralID = ref.ID
			c.UserID = actor.UserID
			c.CreatedAt = now
			if err := repos.Referrals.AddChange(ctx, &c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, actor, audit.Entry{
		ActionType: "referral_updated", TargetType: "referral", TargetID: ref.ID,
		Message: fmt.Sprintf("Referido %s actualizado (%d cambios)", ref.ReferralCode, len(changes)),
	})
	return uc.GetReferral(ctx, actor, ref.ID)
}

// ListReferrers referidores de la empresa con el total de prospectos enviados.
func (uc *UseCase) ListReferrers(ctx context.Context, actor entity.Actor) ([]dto.ReferrerResponse, error) {
	list, err := uc.repo.ListReferrers(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReferrerResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReferrerResponse(r))
	}
	return out, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func optionalDate(s, field string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := dto.ParseDate(s)
	if err != nil {
		return nil, domain.Invalid(field + " inválida, formato esperado YYYY-MM-DD")
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dto.DateLayout)
}

func toReferrerResponse(r *entity.Referrer) dto.ReferrerResponse {
	return dto.ReferrerResponse{
		ID:                 r.ID,
		FullName:           r.FullName,
		MobileNumber:       r.MobileNumber,
		TotalPointsBalance: r.TotalPointsBalance,
		TotalLeads:         r.TotalLeads,
		CreatedAt:          r.CreatedAt,
	}
}

func toReferralList(list []*entity.Referral) []dto.ReferralResponse {
	out := make([]dto.ReferralResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReferralResponse(r))
	}
	return out
}

func toReferralResponse(r *entity.Referral) dto.ReferralResponse {
	return dto.ReferralResponse{
		ID:              r.ID,
		ReferralCode:    r.ReferralCode,
		ReferrerID:      r.ReferrerID,
		ReferrerName:    r.ReferrerName,
		ReferrerMobile:  r.ReferrerMobile,
		StoreID:         r.StoreID,
		StoreName:       r.StoreName,
		InviteeName:     r.InviteeName,
		InviteeContact:  r.InviteeContact,
		InviteeAddress:  r.InviteeAddress,
		InviteeAge:      r.InviteeAge,
		InviteeGender:   r.InviteeGender,
		InterestedItems: r.InterestedItems,
		Remarks:         r.Remarks,
		Status:          r.Status,
		PurchaseAmount:  r.PurchaseAmount,
		PointsEarned:    r.PointsEarned,
		PointsAwardedAt: r.PointsAwardedAt,
		LastContactDate: r.LastContactDate,
		LastVisitDate:   r.LastVisitDate,
		StaffNotes:      r.StaffNotes,
		CreatedAt:       r.CreatedAt,
	}
}
