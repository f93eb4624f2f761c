package domain

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ApplicationStatus represents the lifecycle status of a loan application
type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "SUBMITTED"
	StatusApproved  ApplicationStatus = "APPROVED"
	StatusRejected  ApplicationStatus = "REJECTED"
	StatusReview    ApplicationStatus = "REVIEW"
)

// allowedTransitions maps each status to the statuses it may move to.
// APPROVED and REJECTED are terminal.
var allowedTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusSubmitted: {StatusApproved, StatusRejected, StatusReview},
	StatusReview:    {StatusApproved, StatusRejected},
}

// CanTransition reports whether an application may move from one status to another
func CanTransition(from, to ApplicationStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is a known application status
func IsValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusSubmitted, StatusApproved, StatusRejected, StatusReview:
		return true
	}
	return false
}

// LoanStatus represents the status of a disbursed loan
type LoanStatus string

const (
	LoanActive    LoanStatus = "ACTIVE"
	LoanCompleted LoanStatus = "COMPLETED"
	LoanDefaulted LoanStatus = "DEFAULTED"
)

// RepaymentStatus represents the status of a scheduled installment
type RepaymentStatus string

const (
	RepaymentPending RepaymentStatus = "PENDING"
	RepaymentPaid    RepaymentStatus = "PAID"
	RepaymentOverdue RepaymentStatus = "OVERDUE"
)

// ChargeType and ChargeStatus describe fees attached to an application
type ChargeType string

const (
	ChargeProcessingFee ChargeType = "PROCESSING_FEE"
)

type ChargeStatus string

const (
	ChargePending ChargeStatus = "PENDING"
	ChargePaid    ChargeStatus = "PAID"
)

// NotificationType classifies notification rows
type NotificationType string

const (
	NotifySuccess NotificationType = "SUCCESS"
	NotifyError   NotificationType = "ERROR"
	NotifyInfo    NotificationType = "INFO"
)

// KYC statuses
const (
	KYCPending  = "PENDING"
	KYCVerified = "VERIFIED"
	KYCRejected = "REJECTED"
)
