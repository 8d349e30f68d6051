package dto

// UpdateProfile is a PATCH-style payload: nil means "leave unchanged".
type UpdateProfile struct {
	FullName              *string `json:"full_name,omitempty"`
	PhoneNumber           *string `json:"phone_number,omitempty"`
	DateOfBirth           *string `json:"date_of_birth,omitempty"`
	AddressLine1          *string `json:"address_line1,omitempty"`
	AddressLine2          *string `json:"address_line2,omitempty"`
	City                  *string `json:"city,omitempty"`
	Postcode              *string `json:"postcode,omitempty"`
	EmergencyContactName  *string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string `json:"emergency_contact_phone,omitempty"`
	InsuranceCompany      *string `json:"insurance_company,omitempty"`
	InsurancePolicyNumber *string `json:"insurance_policy_number,omitempty"`
	CyclingExperience     *string `json:"cycling_experience,omitempty"`
	MedicalConditions     *string `json:"medical_conditions,omitempty"`
}

type ProfileResponse struct {
	AccountID         string `json:"account_id"`
	Email             string `json:"email"`
	FullName          string `json:"full_name"`
	PhoneNumber       string `json:"phone_number"`
	CyclingExperience string `json:"cycling_experience"`
	CreatedAt         string `json:"created_at"`
}

// EmergencyContactRow is the admin dashboard's view of a member.
type EmergencyContactRow struct {
	AccountID             string `json:"account_id"`
	FullName              string `json:"full_name"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
}
