package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	ExperienceBeginner     = "beginner"
	ExperienceRecreational = "recreational"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
	ExperienceCompetitive  = "competitive"
)

// MemberProfile is the one-per-account member record. AccountID is the
// identity backend's UUID; the row is created by the signup workflow and
// mutated afterwards by self-service profile edit.
type MemberProfile struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	AccountID string `gorm:"type:varchar(64);uniqueIndex;not null" json:"account_id"`
	Email     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`

	FullName    string `gorm:"type:varchar(200);not null" json:"full_name"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`
	DateOfBirth string `gorm:"type:varchar(10)" json:"date_of_birth"`

	AddressLine1 string `gorm:"type:varchar(200)" json:"address_line1"`
	AddressLine2 string `gorm:"type:varchar(200)" json:"address_line2,omitempty"`
	City         string `gorm:"type:varchar(100)" json:"city"`
	Postcode     string `gorm:"type:varchar(10)" json:"postcode"`

	EmergencyContactName  string `gorm:"type:varchar(100)" json:"emergency_contact_name"`
	EmergencyContactPhone string `gorm:"type:varchar(20)" json:"emergency_contact_phone"`

	InsuranceCompany      string `gorm:"type:varchar(200)" json:"insurance_company"`
	InsurancePolicyNumber string `gorm:"type:varchar(100)" json:"insurance_policy_number"`

	CyclingExperience string `gorm:"type:varchar(20)" json:"cycling_experience"`
	MedicalConditions string `gorm:"type:varchar(1000)" json:"medical_conditions,omitempty"`

	TermsAcceptedAt  *time.Time `json:"terms_accepted_at,omitempty"`
	SafetyAcceptedAt *time.Time `json:"safety_accepted_at,omitempty"`

	// one-time login code, stored hashed like a verification token
	LoginCodeHash      string     `json:"-"`
	LoginCodeExpiresAt *time.Time `json:"-"`
	LoginCodeSentAt    *time.Time `json:"-"`

	gorm.Model
}
