package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"github.com/stortfordearlybirds/membership-service/internal/dto"
)

// Field limits shared by the form boundary and the notification boundary.
const (
	MaxNameLen        = 100
	MaxEmailLen       = 255
	MaxPhoneLen       = 20
	MaxAddressLen     = 200
	MaxCityLen        = 100
	MaxPostcodeLen    = 10
	MaxInsurerLen     = 200
	MaxPolicyLen      = 100
	MaxMedicalLen     = 1000
	dateOfBirthLayout = "2006-01-02"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var experienceLevels = map[string]bool{
	domain.ExperienceBeginner:     true,
	domain.ExperienceRecreational: true,
	domain.ExperienceIntermediate: true,
	domain.ExperienceAdvanced:     true,
	domain.ExperienceCompetitive:  true,
}

// ValidateApplication trims and checks a submitted application. It returns
// the normalized copy and a per-field error map; an empty map means valid.
// Pure function: it runs at the form boundary and again at any server-side
// boundary that accepts the same payload.
func ValidateApplication(app dto.MembershipApplication) (dto.MembershipApplication, map[string]string) {
	fields := map[string]string{}

	app.FirstName = strings.TrimSpace(app.FirstName)
	app.LastName = strings.TrimSpace(app.LastName)
	app.Email = strings.ToLower(strings.TrimSpace(app.Email))
	app.Phone = strings.TrimSpace(app.Phone)
	app.DateOfBirth = strings.TrimSpace(app.DateOfBirth)
	app.AddressLine1 = strings.TrimSpace(app.AddressLine1)
	app.AddressLine2 = strings.TrimSpace(app.AddressLine2)
	app.City = strings.TrimSpace(app.City)
	app.Postcode = strings.TrimSpace(app.Postcode)
	app.EmergencyContactName = strings.TrimSpace(app.EmergencyContactName)
	app.EmergencyContactPhone = strings.TrimSpace(app.EmergencyContactPhone)
	app.InsuranceProvider = strings.TrimSpace(app.InsuranceProvider)
	app.PolicyNumber = strings.TrimSpace(app.PolicyNumber)
	app.Experience = strings.ToLower(strings.TrimSpace(app.Experience))
	app.MedicalInfo = strings.TrimSpace(app.MedicalInfo)

	requireBounded(fields, "firstName", app.FirstName, MaxNameLen)
	requireBounded(fields, "lastName", app.LastName, MaxNameLen)

	switch {
	case app.Email == "":
		fields["email"] = "required"
	case len(app.Email) > MaxEmailLen:
		fields["email"] = "too long"
	case !emailPattern.MatchString(app.Email):
		fields["email"] = "invalid email format"
	}

	requireBounded(fields, "phone", app.Phone, MaxPhoneLen)

	if app.DateOfBirth == "" {
		fields["dob"] = "required"
	} else if _, err := time.Parse(dateOfBirthLayout, app.DateOfBirth); err != nil {
		fields["dob"] = "must be a date (YYYY-MM-DD)"
	}

	requireBounded(fields, "addressLine1", app.AddressLine1, MaxAddressLen)
	if len(app.AddressLine2) > MaxAddressLen {
		fields["addressLine2"] = "too long"
	}
	requireBounded(fields, "city", app.City, MaxCityLen)
	requireBounded(fields, "postcode", app.Postcode, MaxPostcodeLen)

	requireBounded(fields, "emergencyName", app.EmergencyContactName, MaxNameLen)
	requireBounded(fields, "emergencyPhone", app.EmergencyContactPhone, MaxPhoneLen)
	requireBounded(fields, "insuranceProvider", app.InsuranceProvider, MaxInsurerLen)
	requireBounded(fields, "policyNo", app.PolicyNumber, MaxPolicyLen)

	if app.Experience == "" {
		fields["experience"] = "required"
	} else if !experienceLevels[app.Experience] {
		fields["experience"] = "must be one of beginner, recreational, intermediate, advanced, competitive"
	}

	if len(app.MedicalInfo) > MaxMedicalLen {
		fields["medicalInfo"] = "too long"
	}

	if !app.AcceptTerms {
		fields["acceptTerms"] = "you must accept the terms and conditions"
	}
	if !app.AcceptSafety {
		fields["acceptSafety"] = "you must accept the safety guidelines"
	}

	return app, fields
}

func requireBounded(fields map[string]string, name, value string, max int) {
	if value == "" {
		fields[name] = "required"
		return
	}
	if len(value) > max {
		fields[name] = "too long"
	}
}

// ValidateApplicationLengths re-checks field sizes only. The notification
// boundary accepts the same payload as the form but without the consent
// flags, so it enforces bounds and email shape and nothing else.
func ValidateApplicationLengths(app dto.MembershipApplication) string {
	switch {
	case len(app.FirstName) > MaxNameLen:
		return "First name too long"
	case len(app.LastName) > MaxNameLen:
		return "Last name too long"
	case !emailPattern.MatchString(app.Email):
		return "Invalid email format"
	case len(app.Email) > MaxEmailLen:
		return "Email too long"
	case len(app.Phone) > MaxPhoneLen:
		return "Phone number too long"
	case len(app.AddressLine1) > MaxAddressLen || len(app.AddressLine2) > MaxAddressLen:
		return "Address too long"
	case len(app.City) > MaxCityLen:
		return "City too long"
	case len(app.Postcode) > MaxPostcodeLen:
		return "Postcode too long"
	case len(app.EmergencyContactName) > MaxNameLen:
		return "Emergency contact name too long"
	case len(app.EmergencyContactPhone) > MaxPhoneLen:
		return "Emergency phone too long"
	case len(app.InsuranceProvider) > MaxInsurerLen:
		return "Insurance provider name too long"
	case len(app.PolicyNumber) > MaxPolicyLen:
		return "Policy number too long"
	case len(app.MedicalInfo) > MaxMedicalLen:
		return "Medical info too long"
	}
	return ""
}

// ExperienceLabel expands an experience code for email rendering.
func ExperienceLabel(code string) string {
	switch code {
	case domain.ExperienceBeginner:
		return "Beginner - New to cycling"
	case domain.ExperienceRecreational:
		return "Recreational - Casual cycling"
	case domain.ExperienceIntermediate:
		return "Intermediate - Regular rider"
	case domain.ExperienceAdvanced:
		return "Advanced - Experienced cyclist"
	case domain.ExperienceCompetitive:
		return "Competitive - Racing experience"
	default:
		return code
	}
}
