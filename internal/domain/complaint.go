package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
	ComplaintStatusRejected   ComplaintStatus = "Rejected"
)

// ComplaintCategory enumerates the kinds of grievances a policy holder can file.
type ComplaintCategory string

const (
	CategoryClaimIssue            ComplaintCategory = "Claim Issue"
	CategoryPremiumPayment        ComplaintCategory = "Premium Payment"
	CategoryPolicyDocument        ComplaintCategory = "Policy Document"
	CategoryUpdatePersonalDetails ComplaintCategory = "Update Personal Details"
	CategoryOther                 ComplaintCategory = "Other"
)

// Department identifies the unit a complaint is routed to.
type Department string

const (
	DepartmentFinance        Department = "Finance Department"
	DepartmentClaims         Department = "Claims Department"
	DepartmentAdministrative Department = "Administrative Department"
	DepartmentGeneralSupport Department = "General Support"
)

// ComplaintPriority enumerates triage urgency.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "Low"
	PriorityMedium ComplaintPriority = "Medium"
	PriorityHigh   ComplaintPriority = "High"
)

// ComplaintOwner carries the owner identity fields safe to expose.
type ComplaintOwner struct {
	ID    string
	Name  string
	Email string
}

// Complaint is the aggregate for a filed grievance.
type Complaint struct {
	ID            string
	ReferenceKey  string
	UserID        string
	PolicyNumber  string
	Category      ComplaintCategory
	Title         string
	Description   string
	Status        ComplaintStatus
	Department    Department
	Priority      ComplaintPriority
	AdminResponse *string
	Owner         *ComplaintOwner
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidCategory reports set membership for the category enum.
func ValidCategory(c ComplaintCategory) bool {
	switch c {
	case CategoryClaimIssue, CategoryPremiumPayment, CategoryPolicyDocument,
		CategoryUpdatePersonalDetails, CategoryOther:
		return true
	}
	return false
}

// ValidStatus reports set membership for the status enum.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress,
		ComplaintStatusResolved, ComplaintStatusRejected:
		return true
	}
	return false
}

// Triage derives the responsible department and urgency from the category.
// The mapping is fixed: payment and claim issues route to their dedicated
// departments at high priority, document requests go to administration, and
// everything else lands in general support.
func Triage(category ComplaintCategory) (Department, ComplaintPriority) {
	switch category {
	case CategoryPremiumPayment:
		return DepartmentFinance, PriorityHigh
	case CategoryClaimIssue:
		return DepartmentClaims, PriorityHigh
	case CategoryPolicyDocument:
		return DepartmentAdministrative, PriorityMedium
	default:
		return DepartmentGeneralSupport, PriorityLow
	}
}
