package services

import (
	"errors"
	"strings"
	"time"

	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"github.com/stortfordearlybirds/membership-service/internal/dto"
	"github.com/stortfordearlybirds/membership-service/internal/repository"
)

type MemberService interface {
	GetProfile(accountID string) (*domain.MemberProfile, error)
	UpdateProfile(accountID string, input dto.UpdateProfile) (*domain.MemberProfile, error)
	IsAdmin(accountID string) (bool, error)
	ListEmergencyContacts() ([]dto.EmergencyContactRow, error)
}

type memberService struct {
	profileRepo repository.ProfileRepository
	memberRoles repository.MemberRoleRepository
}

func NewMemberService(profileRepo repository.ProfileRepository, memberRoles repository.MemberRoleRepository) MemberService {
	return &memberService{
		profileRepo: profileRepo,
		memberRoles: memberRoles,
	}
}

func (m *memberService) GetProfile(accountID string) (*domain.MemberProfile, error) {
	if accountID == "" {
		return nil, errors.New("invalid account_id")
	}
	return m.profileRepo.FindByAccountID(accountID)
}

// UpdateProfile applies a PATCH-style edit: only non-nil fields change, and
// every changed field passes the same bounds as the application form.
func (m *memberService) UpdateProfile(accountID string, input dto.UpdateProfile) (*domain.MemberProfile, error) {
	profile, err := m.GetProfile(accountID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}

	setBounded(fields, "full_name", input.FullName, MaxNameLen*2, true, &profile.FullName)
	setBounded(fields, "phone_number", input.PhoneNumber, MaxPhoneLen, true, &profile.PhoneNumber)
	setBounded(fields, "address_line1", input.AddressLine1, MaxAddressLen, true, &profile.AddressLine1)
	setBounded(fields, "address_line2", input.AddressLine2, MaxAddressLen, false, &profile.AddressLine2)
	setBounded(fields, "city", input.City, MaxCityLen, true, &profile.City)
	setBounded(fields, "postcode", input.Postcode, MaxPostcodeLen, true, &profile.Postcode)
	setBounded(fields, "emergency_contact_name", input.EmergencyContactName, MaxNameLen, true, &profile.EmergencyContactName)
	setBounded(fields, "emergency_contact_phone", input.EmergencyContactPhone, MaxPhoneLen, true, &profile.EmergencyContactPhone)
	setBounded(fields, "insurance_company", input.InsuranceCompany, MaxInsurerLen, true, &profile.InsuranceCompany)
	setBounded(fields, "insurance_policy_number", input.InsurancePolicyNumber, MaxPolicyLen, true, &profile.InsurancePolicyNumber)
	setBounded(fields, "medical_conditions", input.MedicalConditions, MaxMedicalLen, false, &profile.MedicalConditions)

	if input.DateOfBirth != nil {
		dob := strings.TrimSpace(*input.DateOfBirth)
		if _, err := time.Parse(dateOfBirthLayout, dob); err != nil {
			fields["date_of_birth"] = "must be a date (YYYY-MM-DD)"
		} else {
			profile.DateOfBirth = dob
		}
	}

	if input.CyclingExperience != nil {
		exp := strings.ToLower(strings.TrimSpace(*input.CyclingExperience))
		if !experienceLevels[exp] {
			fields["cycling_experience"] = "invalid experience level"
		} else {
			profile.CyclingExperience = exp
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if err := m.profileRepo.SaveProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func setBounded(fields map[string]string, name string, value *string, max int, required bool, dst *string) {
	if value == nil {
		return
	}
	v := strings.TrimSpace(*value)
	if required && v == "" {
		fields[name] = "cannot be empty"
		return
	}
	if len(v) > max {
		fields[name] = "too long"
		return
	}
	*dst = v
}

func (m *memberService) IsAdmin(accountID string) (bool, error) {
	if accountID == "" {
		return false, errors.New("invalid account_id")
	}
	return m.memberRoles.HasRole(accountID, domain.RoleAdmin)
}

func (m *memberService) ListEmergencyContacts() ([]dto.EmergencyContactRow, error) {
	return m.profileRepo.ListEmergencyContacts()
}
