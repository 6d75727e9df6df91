package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferrerRegisterRequest alta de referidor.
type ReferrerRegisterRequest struct {
	CompanyCode     string `json:"company_code"`
	FullName        string `json:"full_name"`
	MobileNumber    string `json:"mobile_number"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ReferrerLoginRequest login por celular.
type ReferrerLoginRequest struct {
	MobileNumber string `json:"mobile_number"`
	Password     string `json:"password"`
}

// ReferrerResponse referidor.
type ReferrerResponse struct {
	ID                 string    `json:"id"`
	FullName           string    `json:"full_name"`
	MobileNumber       string    `json:"mobile_number"`
	TotalPointsBalance int       `json:"total_points_balance"`
	TotalLeads         int       `json:"total_leads"`
	CreatedAt          time.Time `json:"created_at"`
}

// ReferrerLoginResponse token de referidor.
type ReferrerLoginResponse struct {
	Token    string           `json:"token"`
	Referrer ReferrerResponse `json:"referrer"`
}

// AddReferralRequest prospecto enviado por un referidor.
type AddReferralRequest struct {
	InviteeName     string `json:"invitee_name"`
	InviteeContact  string `json:"invitee_contact"`
	InviteeAddress  string `json:"invitee_address"`
	InviteeAge      int    `json:"invitee_age"`
	InviteeGender   string `json:"invitee_gender"`
	InterestedItems string `json:"interested_items"`
	Remarks         string `json:"remarks"`
	StoreID         string `json:"store_id"`
}

// UpdateReferralRequest campos que edita el staff.
type UpdateReferralRequest struct {
	Status          string          `json:"status"`
	PurchaseAmount  decimal.Decimal `json:"purchase_amount"`
	PointsEarned    int             `json:"points_earned"`
	LastContactDate string          `json:"last_contact_date"`
	LastVisitDate   string          `json:"last_visit_date"`
	StaffNotes      string          `json:"staff_notes"`
}

// ReferralResponse referido.
type ReferralResponse struct {
	ID              string          `json:"id"`
	ReferralCode    string          `json:"referral_code"`
	ReferrerID      string          `json:"referrer_id"`
	ReferrerName    string          `json:"referrer_name"`
	ReferrerMobile  string          `json:"referrer_mobile"`
	StoreID         string          `json:"store_id,omitempty"`
	StoreName       string          `json:"store_name,omitempty"`
	InviteeName     string          `json:"invitee_name"`
	InviteeContact  string          `json:"invitee_contact"`
	InviteeAddress  string          `json:"invitee_address,omitempty"`
	InviteeAge      int             `json:"invitee_age,omitempty"`
	InviteeGender   string          `json:"invitee_gender,omitempty"`
	InterestedItems string          `json:"interested_items,omitempty"`
	Remarks         string          `json:"remarks,omitempty"`
	Status          string          `json:"status"`
	PurchaseAmount  decimal.Decimal `json:"purchase_amount"`
	PointsEarned    int             `json:"points_earned"`
	PointsAwardedAt *time.Time      `json:"points_awarded_at,omitempty"`
	LastContactDate *time.Time      `json:"last_contact_date,omitempty"`
	LastVisitDate   *time.Time      `json:"last_visit_date,omitempty"`
	StaffNotes      string          `json:"staff_notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ReferralChangeResponse entrada de la bitácora del referido.
type ReferralChangeResponse struct {
	Action    string    `json:"action"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ActorName string    `json:"actor_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ReferralDetailResponse referido con su bitácora.
type ReferralDetailResponse struct {
	Referral ReferralResponse         `json:"referral"`
	History  []ReferralChangeResponse `json:"history"`
}

// ReferrerDashboardResponse panel del referidor.
type ReferrerDashboardResponse struct {
	PointsBalance       int                `json:"points_balance"`
	TotalReferrals      int                `json:"total_referrals"`
	SuccessfulReferrals int                `json:"successful_referrals"`
	PendingPoints       int                `json:"pending_points"`
	Referrals           []ReferralResponse `json:"referrals"`
}
