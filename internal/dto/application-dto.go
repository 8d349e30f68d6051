package dto

// MembershipApplication is the raw signup submission. Field names follow
// the public form payload.
type MembershipApplication struct {
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	DateOfBirth           string `json:"dob"`
	AddressLine1          string `json:"addressLine1"`
	AddressLine2          string `json:"addressLine2,omitempty"`
	City                  string `json:"city"`
	Postcode              string `json:"postcode"`
	EmergencyContactName  string `json:"emergencyName"`
	EmergencyContactPhone string `json:"emergencyPhone"`
	InsuranceProvider     string `json:"insuranceProvider"`
	PolicyNumber          string `json:"policyNo"`
	Experience            string `json:"experience"`
	MedicalInfo           string `json:"medicalInfo,omitempty"`
	AcceptTerms           bool   `json:"acceptTerms"`
	AcceptSafety          bool   `json:"acceptSafety"`
}

func (a MembershipApplication) FullName() string {
	return a.FirstName + " " + a.LastName
}

// SignupResult reports how far the signup workflow got. EmailSent is false
// when the account exists but the welcome email could not be delivered.
type SignupResult struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	EmailSent bool   `json:"email_sent"`
}
