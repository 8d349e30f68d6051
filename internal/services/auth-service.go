package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/stortfordearlybirds/membership-service/internal/dto"
	"github.com/stortfordearlybirds/membership-service/internal/helper"
	"github.com/stortfordearlybirds/membership-service/internal/interfaces"
	"github.com/stortfordearlybirds/membership-service/internal/repository"
	"github.com/stortfordearlybirds/membership-service/pkg/password"
)

const (
	loginCodeTTL      = 60 * time.Minute
	loginCodeCooldown = 60 * time.Second
)

var codePattern = regexp.MustCompile(`^\d{6}$`)

type AuthService interface {
	SendLoginCode(ctx context.Context, email string) error
	VerifyLoginCode(ctx context.Context, email, code string) (*dto.LoginResponse, error)
}

type authService struct {
	profileRepo repository.ProfileRepository
	mailer      interfaces.Mailer
	auth        helper.Auth
	now         func() time.Time
}

func NewAuthService(profileRepo repository.ProfileRepository, mailer interfaces.Mailer, auth helper.Auth) AuthService {
	return &authService{
		profileRepo: profileRepo,
		mailer:      mailer,
		auth:        auth,
		now:         time.Now,
	}
}

// SendLoginCode issues a one-time 6-digit code. Only the sha256 of the code
// is stored; re-requests inside the cooldown window are throttled with a
// message the client can parse into a countdown.
func (a *authService) SendLoginCode(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrUnknownMember
	}

	profile, err := a.profileRepo.FindByEmail(email)
	if err != nil {
		return ErrUnknownMember
	}

	now := a.now()
	if profile.LoginCodeSentAt != nil {
		elapsed := now.Sub(*profile.LoginCodeSentAt)
		if elapsed < loginCodeCooldown {
			wait := int((loginCodeCooldown - elapsed + time.Second - 1) / time.Second)
			return fmt.Errorf("%w: For security purposes, you can only request this after %d seconds.", ErrRateLimited, wait)
		}
	}

	code, err := password.SixDigitCode()
	if err != nil {
		return fmt.Errorf("failed to generate login code: %w", err)
	}

	exp := now.Add(loginCodeTTL)
	profile.LoginCodeHash = sha256Hex(code)
	profile.LoginCodeExpiresAt = &exp
	profile.LoginCodeSentAt = &now

	if err := a.profileRepo.SaveProfile(profile); err != nil {
		return fmt.Errorf("failed to store login code: %w", err)
	}

	if _, err := a.mailer.SendLoginCodeEmail(ctx, email, code); err != nil {
		log.Printf("auth: login code email failed for %s: %v", email, err)
		// the code never reached the member; roll the cooldown back so a
		// retry is not locked out for the full window
		profile.LoginCodeHash = ""
		profile.LoginCodeExpiresAt = nil
		profile.LoginCodeSentAt = nil
		if saveErr := a.profileRepo.SaveProfile(profile); saveErr != nil {
			log.Printf("auth: could not clear unsent login code for %s: %v", email, saveErr)
		}
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return nil
}

// VerifyLoginCode checks a submitted code and, on success, clears it and
// returns a signed session token.
func (a *authService) VerifyLoginCode(ctx context.Context, email, code string) (*dto.LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)

	if email == "" || !codePattern.MatchString(code) {
		return nil, ErrInvalidLoginCode
	}

	profile, err := a.profileRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidLoginCode
	}

	if profile.LoginCodeHash == "" || profile.LoginCodeExpiresAt == nil {
		return nil, ErrInvalidLoginCode
	}
	if a.now().After(*profile.LoginCodeExpiresAt) {
		return nil, ErrInvalidLoginCode
	}

	submitted := sha256Hex(code)
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(profile.LoginCodeHash)) != 1 {
		return nil, ErrInvalidLoginCode
	}

	profile.LoginCodeHash = ""
	profile.LoginCodeExpiresAt = nil
	if err := a.profileRepo.SaveProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to clear login code: %w", err)
	}

	token, err := a.auth.GenerateToken(profile.AccountID, profile.Email)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User: dto.ProfileResponse{
			AccountID:         profile.AccountID,
			Email:             profile.Email,
			FullName:          profile.FullName,
			PhoneNumber:       profile.PhoneNumber,
			CyclingExperience: profile.CyclingExperience,
			CreatedAt:         profile.CreatedAt.Format(time.RFC3339),
		},
	}, nil
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
