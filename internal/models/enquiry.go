package models

// EnquiryStatus is the read/unread lifecycle of an enquiry.
type EnquiryStatus string

const (
	EnquiryNew  EnquiryStatus = "new"
	EnquiryRead EnquiryStatus = "read"
)

// CanTransitionTo reports whether moving from s to next is allowed.
// Enquiries start new and only ever move to read.
func (s EnquiryStatus) CanTransitionTo(next EnquiryStatus) bool {
	if s == next {
		return true
	}
	return s == EnquiryNew && next == EnquiryRead
}

// UserType identifies who submitted an enquiry.
type UserType string

const (
	UserTypeClient    UserType = "client"
	UserTypeISV       UserType = "isv"
	UserTypeReseller  UserType = "reseller"
	UserTypeAnonymous UserType = "anonymous"
)

// Enquiry is an inbound contact-form submission.
// Optional fields are pointers because the backend omits or nulls them.
type Enquiry struct {
	EnquiryID   string        `json:"enquiry_id"`
	FullName    *string       `json:"full_name"`
	Email       *string       `json:"email"`
	Phone       *string       `json:"phone,omitempty"`
	CompanyName *string       `json:"company_name"`
	UserType    UserType      `json:"user_type"`
	Message     *string       `json:"message"`
	Status      EnquiryStatus `json:"status"`
	CreatedAt   string        `json:"created_at"`
}
