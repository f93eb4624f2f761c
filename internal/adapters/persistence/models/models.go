package models

import (
	"time"

	"quickcred-backend/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FullName    string         `gorm:"size:100;not null" json:"full_name"`
	Email       string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone       string         `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	Role        domain.Role    `gorm:"size:20;default:'USER'" json:"role"`
	CreditScore int            `gorm:"default:0" json:"credit_score"`
	KYCStatus   string         `gorm:"size:20;default:'PENDING'" json:"kyc_status"`
	IsVerified  bool           `gorm:"default:false" json:"is_verified"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID          uint        `json:"id"`
	FullName    string      `json:"full_name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Role        domain.Role `json:"role"`
	CreditScore int         `json:"credit_score"`
	KYCStatus   string      `json:"kyc_status"`
	IsVerified  bool        `json:"is_verified"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		CreditScore: u.CreditScore,
		KYCStatus:   u.KYCStatus,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Origination Tables
// ============================================================

// Application represents loan_applications table
type Application struct {
	ID                 uint                     `gorm:"primaryKey" json:"id"`
	UserID             uint                     `gorm:"not null;index" json:"user_id"`
	LoanAmount         float64                  `gorm:"type:decimal(15,2);not null" json:"loan_amount"`
	RepaymentPeriod    int                      `gorm:"not null" json:"repayment_period"`
	Status             domain.ApplicationStatus `gorm:"size:20;not null;default:'SUBMITTED';index" json:"status"`
	ProcessingFeePaid  bool                     `gorm:"default:false" json:"processing_fee_paid"`
	ProcessingProgress int                      `gorm:"default:0" json:"processing_progress"`
	ProgressNote       string                   `gorm:"type:text" json:"progress_note"`
	RejectionReason    string                   `gorm:"type:text" json:"rejection_reason"`
	CreatedAt          time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time                `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt           `gorm:"index" json:"-"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Loan *Loan `gorm:"foreignKey:ApplicationID" json:"loan,omitempty"`
}

func (Application) TableName() string {
	return "loan_applications"
}

// ApplicationResponse DTO
type ApplicationResponse struct {
	ID                 uint                     `json:"id"`
	UserID             uint                     `json:"user_id"`
	ApplicantName      string                   `json:"applicant_name,omitempty"`
	LoanAmount         float64                  `json:"loan_amount"`
	RepaymentPeriod    int                      `json:"repayment_period"`
	Status             domain.ApplicationStatus `json:"status"`
	ProcessingFeePaid  bool                     `json:"processing_fee_paid"`
	ProcessingProgress int                      `json:"processing_progress"`
	ProgressNote       string                   `json:"progress_note,omitempty"`
	RejectionReason    string                   `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

func (a *Application) ToResponse() *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:                 a.ID,
		UserID:             a.UserID,
		LoanAmount:         a.LoanAmount,
		RepaymentPeriod:    a.RepaymentPeriod,
		Status:             a.Status,
		ProcessingFeePaid:  a.ProcessingFeePaid,
		ProcessingProgress: a.ProcessingProgress,
		ProgressNote:       a.ProgressNote,
		RejectionReason:    a.RejectionReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.User != nil {
		resp.ApplicantName = a.User.FullName
	}

	return resp
}

// Loan represents loans table.
// One loan per application, enforced by the unique index on application_id.
type Loan struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	ApplicationID      uint              `gorm:"uniqueIndex;not null" json:"application_id"`
	UserID             uint              `gorm:"not null;index" json:"user_id"`
	PrincipalAmount    float64           `gorm:"type:decimal(15,2);not null" json:"principal_amount"`
	InterestRate       float64           `gorm:"type:decimal(6,4);not null" json:"interest_rate"`
	TotalInterest      float64           `gorm:"type:decimal(15,2);not null" json:"total_interest"`
	TotalRepayment     float64           `gorm:"type:decimal(15,2);not null" json:"total_repayment"`
	MonthlyInstallment float64           `gorm:"type:decimal(15,2);not null" json:"monthly_installment"`
	StartDate          time.Time         `gorm:"not null" json:"start_date"`
	EndDate            time.Time         `gorm:"not null" json:"end_date"`
	Status             domain.LoanStatus `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Application *Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Repayments  []Repayment  `gorm:"foreignKey:LoanID" json:"repayments,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// LoanResponse DTO
type LoanResponse struct {
	ID                 uint              `json:"id"`
	ApplicationID      uint              `json:"application_id"`
	UserID             uint              `json:"user_id"`
	BorrowerName       string            `json:"borrower_name,omitempty"`
	PrincipalAmount    float64           `json:"principal_amount"`
	InterestRate       float64           `json:"interest_rate"`
	TotalInterest      float64           `json:"total_interest"`
	TotalRepayment     float64           `json:"total_repayment"`
	MonthlyInstallment float64           `json:"monthly_installment"`
	StartDate          time.Time         `json:"start_date"`
	EndDate            time.Time         `json:"end_date"`
	Status             domain.LoanStatus `json:"status"`
	CreatedAt          time.Time         `json:"created_at"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:                 l.ID,
		ApplicationID:      l.ApplicationID,
		UserID:             l.UserID,
		PrincipalAmount:    l.PrincipalAmount,
		InterestRate:       l.InterestRate,
		TotalInterest:      l.TotalInterest,
		TotalRepayment:     l.TotalRepayment,
		MonthlyInstallment: l.MonthlyInstallment,
		StartDate:          l.StartDate,
		EndDate:            l.EndDate,
		Status:             l.Status,
		CreatedAt:          l.CreatedAt,
	}

	if l.User != nil {
		resp.BorrowerName = l.User.FullName
	}

	return resp
}

// Repayment represents repayments table (installment schedule, one row per month)
type Repayment struct {
	ID            uint                   `gorm:"primaryKey" json:"id"`
	LoanID        uint                   `gorm:"not null;index" json:"loan_id"`
	InstallmentNo int                    `gorm:"not null" json:"installment_no"`
	Amount        float64                `gorm:"type:decimal(15,2);not null" json:"amount"`
	DueDate       time.Time              `gorm:"not null;index" json:"due_date"`
	PaidAt        *time.Time             `json:"paid_at"`
	Status        domain.RepaymentStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	CreatedAt     time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time              `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Loan *Loan `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
}

func (Repayment) TableName() string {
	return "repayments"
}

// Charge represents charges table (fees attached to an application)
type Charge struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	ApplicationID uint                `gorm:"not null;index" json:"application_id"`
	Type          domain.ChargeType   `gorm:"size:30;not null" json:"type"`
	Amount        float64             `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status        domain.ChargeStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	PaidAt        *time.Time          `json:"paid_at"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Application *Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}

func (Charge) TableName() string {
	return "charges"
}

// Notification represents notifications table.
// Append-only; rows are written best-effort on state transitions,
// never retried and never deduplicated.
type Notification struct {
	ID            uint                    `gorm:"primaryKey" json:"id"`
	UserID        uint                    `gorm:"not null;index" json:"user_id"`
	ApplicationID *uint                   `gorm:"index" json:"application_id"`
	LoanID        *uint                   `gorm:"index" json:"loan_id"`
	Type          domain.NotificationType `gorm:"size:20;not null" json:"type"`
	Title         string                  `gorm:"size:150;not null" json:"title"`
	Message       string                  `gorm:"type:text;not null" json:"message"`
	Persistent    bool                    `gorm:"default:false" json:"persistent"`
	IsRead        bool                    `gorm:"default:false" json:"is_read"`
	CreatedAt     time.Time               `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Settings represents the singleton settings row (id = 1)
type Settings struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	InterestRateDefault  float64   `gorm:"type:decimal(6,4);not null" json:"interest_rate_default"`
	ProcessingFeePercent float64   `gorm:"type:decimal(6,4);not null" json:"processing_fee_percent"`
	MinLoan              float64   `gorm:"type:decimal(15,2);not null" json:"min_loan"`
	MaxLoan              float64   `gorm:"type:decimal(15,2);not null" json:"max_loan"`
	MaxMonths            int       `gorm:"not null" json:"max_months"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Settings) TableName() string {
	return "settings"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Settings{},
		&Application{},
		&Loan{},
		&Repayment{},
		&Charge{},
		&Notification{},
	)
}
