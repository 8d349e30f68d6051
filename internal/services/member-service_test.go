package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stortfordearlybirds/membership-service/internal/dto"
	"github.com/stortfordearlybirds/membership-service/internal/repository"
)

func strPtr(s string) *string { return &s }

func newMemberFixture() (*fakeProfileRepo, MemberService) {
	profiles := newFakeProfileRepo()
	return profiles, NewMemberService(profiles, &fakeMemberRoles{})
}

func TestGetProfile(t *testing.T) {
	profiles, svc := newMemberFixture()
	seedProfile(profiles, "alice@example.com")

	p, err := svc.GetProfile("acc-123")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Email != "alice@example.com" {
		t.Errorf("email = %q", p.Email)
	}

	if _, err := svc.GetProfile("acc-missing"); !errors.Is(err, repository.ErrProfileNotFound) {
		t.Errorf("missing profile err = %v", err)
	}
}

func TestUpdateProfilePatchesOnlyProvidedFields(t *testing.T) {
	profiles, svc := newMemberFixture()
	p := seedProfile(profiles, "alice@example.com")
	p.PhoneNumber = "07700900000"
	p.City = "Bishop's Stortford"

	updated, err := svc.UpdateProfile("acc-123", dto.UpdateProfile{
		PhoneNumber: strPtr(" 07700911111 "),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.PhoneNumber != "07700911111" {
		t.Errorf("phone = %q, want trimmed new value", updated.PhoneNumber)
	}
	if updated.City != "Bishop's Stortford" {
		t.Errorf("city changed to %q without being provided", updated.City)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	tests := []struct {
		name  string
		input dto.UpdateProfile
		field string
	}{
		{"empty required", dto.UpdateProfile{FullName: strPtr("  ")}, "full_name"},
		{"long phone", dto.UpdateProfile{PhoneNumber: strPtr(strings.Repeat("9", 21))}, "phone_number"},
		{"bad dob", dto.UpdateProfile{DateOfBirth: strPtr("next tuesday")}, "date_of_birth"},
		{"bad experience", dto.UpdateProfile{CyclingExperience: strPtr("pro-tour")}, "cycling_experience"},
		{"long medical", dto.UpdateProfile{MedicalConditions: strPtr(strings.Repeat("m", 1001))}, "medical_conditions"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			profiles, svc := newMemberFixture()
			seedProfile(profiles, "alice@example.com")

			_, err := svc.UpdateProfile("acc-123", tc.input)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Fields[tc.field] == "" {
				t.Errorf("fields = %v, want entry for %q", ve.Fields, tc.field)
			}
		})
	}
}

func TestUpdateProfileClearsOptionalField(t *testing.T) {
	profiles, svc := newMemberFixture()
	p := seedProfile(profiles, "alice@example.com")
	p.MedicalConditions = "asthma"

	updated, err := svc.UpdateProfile("acc-123", dto.UpdateProfile{
		MedicalConditions: strPtr(""),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.MedicalConditions != "" {
		t.Errorf("medical = %q, want cleared", updated.MedicalConditions)
	}
}

func TestIsAdminRequiresAccountID(t *testing.T) {
	_, svc := newMemberFixture()
	if _, err := svc.IsAdmin(""); err == nil {
		t.Error("expected error for empty account id")
	}
}
