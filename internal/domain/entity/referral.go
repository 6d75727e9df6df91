package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un referido.
const (
	ReferralPending       = "Pending"
	ReferralContacted     = "Contacted"
	ReferralPurchased     = "Purchased"
	ReferralPointsAwarded = "Points Awarded"
	ReferralExpired       = "Expired"
	ReferralRejected      = "Rejected"
)

// ReferralStatuses vocabulario aceptado en la actualización de referidos.
var ReferralStatuses = []string{
	ReferralPending, ReferralContacted, ReferralPurchased,
	ReferralPointsAwarded, ReferralExpired, ReferralRejected,
}

// ValidReferralStatus indica si s pertenece al vocabulario.
func ValidReferralStatus(s string) bool {
	for _, v := range ReferralStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Referrer fuente externa de prospectos con su propio login por celular.
type Referrer struct {
	ID                 string
	CompanyID          string
	FullName           string
	MobileNumber       string
	PasswordHash       string
	TotalPointsBalance int
	CreatedAt          time.Time
	TotalLeads         int // solo lectura
}

// Referral prospecto enviado por un referidor.
type Referral struct {
	ID               string
	CompanyID        string
	ReferrerID       string
	StoreID          string
	InviteeName      string
	InviteeContact   string
	InviteeAddress   string
	InviteeAge       int
	InviteeGender    string
	InterestedItems  string
	Remarks          string
	ReferralCode     string
	Status           string
	PurchaseAmount   decimal.Decimal
	PointsEarned     int
	PointsAwardedAt  *time.Time
	LastContactDate  *time.Time
	LastVisitDate    *time.Time
	StaffNotes       string
	UpdatedByUserID  string
	CreatedAt        time.Time

	ReferrerName   string // solo lectura
	ReferrerMobile string // solo lectura
	StoreName      string // solo lectura
}

// ReferralChange entrada de la bitácora de cambios de un referido.
type ReferralChange struct {
	ID         string
	ReferralID string
	UserID     string
	ReferrerID string
	Action     string
	OldValue   string
	NewValue   string
	CreatedAt  time.Time
	ActorName  string // solo lectura
}
