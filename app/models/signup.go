package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	STATUS_PENDING_PAYMENT = "pending_payment"
	STATUS_PAID            = "paid"
	STATUS_CANCELED        = "canceled"

	VERIFICATION_NONE      = "none"
	VERIFICATION_SUBMITTED = "submitted"
	VERIFICATION_APPROVED  = "approved"
	VERIFICATION_REJECTED  = "rejected"

	PLAN_BASIC    = "basic"
	PLAN_STANDARD = "standard"
	PLAN_PREMIUM  = "premium"

	BILLING_MONTHLY = "monthly"
	BILLING_ANNUAL  = "annual"
)

// Signup is the subscription record created at signup time and driven through
// its lifecycle by the PayFast notification receiver and the cancellation
// flow. The PfPaymentID/PfPaymentStatus/SignatureValid/PfToken fields are only
// ever written by the notification receiver, never from user-facing requests.
type Signup struct {
	ID                 string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Plan               string          `gorm:"type:varchar(50);not null" json:"plan" validate:"required,oneof=basic standard premium"`
	BillingInterval    string          `gorm:"type:varchar(16);not null" json:"billing_interval" validate:"required,oneof=monthly annual"`
	Price              decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Name               string          `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Email              string          `gorm:"type:varchar(200);not null;index" json:"email" validate:"required,email,min=5,max=200"`
	Phone              string          `gorm:"type:varchar(30);default:''" json:"phone" validate:"max=30"`
	AddressLine        string          `gorm:"type:varchar(255);default:''" json:"address_line" validate:"max=255"`
	City               string          `gorm:"type:varchar(100);default:''" json:"city" validate:"max=100"`
	PostalCode         string          `gorm:"type:varchar(20);default:''" json:"postal_code" validate:"max=20"`
	Status             string          `gorm:"type:varchar(32);not null;default:'pending_payment';index" json:"status"`
	VerificationStatus string          `gorm:"type:varchar(32);not null;default:'none'" json:"verification_status"`
	UploadToken        string          `gorm:"type:varchar(100);default:''" json:"-"`
	PfPaymentID        string          `gorm:"type:varchar(100);default:''" json:"pf_payment_id"`
	PfPaymentStatus    string          `gorm:"type:varchar(50);default:''" json:"pf_payment_status"`
	SignatureValid     bool            `gorm:"default:false" json:"signature_valid"`
	PfToken            string          `gorm:"type:varchar(100);default:''" json:"-"`
	CanceledAt         *time.Time      `gorm:"type:timestamp;default:null" json:"canceled_at,omitempty"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Signup) Validate() error {
	v := validator.New()

	return v.Struct(s)
}

// CreateSignup builds a new pending signup with a fresh correlation id and
// the price derived from the chosen plan and billing interval.
func CreateSignup(plan, billing, name, email, phone, addressLine, city, postalCode string) (*Signup, error) {
	price, err := PlanPrice(plan, billing)
	if err != nil {
		return nil, err
	}

	s := &Signup{
		ID:                 uuid.New().String(),
		Plan:               plan,
		BillingInterval:    billing,
		Price:              price,
		Name:               name,
		Email:              email,
		Phone:              phone,
		AddressLine:        addressLine,
		City:               city,
		PostalCode:         postalCode,
		Status:             STATUS_PENDING_PAYMENT,
		VerificationStatus: VERIFICATION_NONE,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// NewUploadToken issues the opaque token that scopes the document upload flow
// once a signup is paid. It is unrelated to the payment signature.
func NewUploadToken() string {
	return uuid.New().String() + uuid.New().String()[:8]
}
