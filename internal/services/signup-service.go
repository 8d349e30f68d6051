package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/stortfordearlybirds/membership-service/internal/clients/identity"
	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"github.com/stortfordearlybirds/membership-service/internal/dto"
	"github.com/stortfordearlybirds/membership-service/internal/helper"
	"github.com/stortfordearlybirds/membership-service/internal/interfaces"
	"github.com/stortfordearlybirds/membership-service/internal/repository"
	"github.com/stortfordearlybirds/membership-service/pkg/password"
)

type SignupService interface {
	SubmitApplication(ctx context.Context, app dto.MembershipApplication) (*dto.SignupResult, error)
}

type signupService struct {
	idp         interfaces.IdentityProvider
	profileRepo repository.ProfileRepository
	roleRepo    repository.RoleRepository
	memberRoles repository.MemberRoleRepository
	auditRepo   repository.AuditRepository
	mailer      interfaces.Mailer

	// producer feeds the reconciliation topic; events carries the
	// fire-and-forget application_received notifications
	producer interfaces.ProducerHandler
	events   interfaces.ProducerHandler

	reconcileTopicKey []byte
}

func NewSignupService(
	idp interfaces.IdentityProvider,
	profileRepo repository.ProfileRepository,
	roleRepo repository.RoleRepository,
	memberRoles repository.MemberRoleRepository,
	auditRepo repository.AuditRepository,
	mailer interfaces.Mailer,
	producer interfaces.ProducerHandler,
	events interfaces.ProducerHandler,
) SignupService {
	return &signupService{
		idp:               idp,
		profileRepo:       profileRepo,
		roleRepo:          roleRepo,
		memberRoles:       memberRoles,
		auditRepo:         auditRepo,
		mailer:            mailer,
		producer:          producer,
		events:            events,
		reconcileTopicKey: []byte("membership.reconcile"),
	}
}

// SubmitApplication runs the application workflow as an explicit saga:
// validate -> generate credential -> provision identity -> insert profile ->
// assign role -> send welcome email. Each step gates the next. A failure
// after the identity exists is repaired inline (delete the orphan account)
// or queued for the reconciliation worker, and is always reported as a
// failure class distinct from a pre-identity failure.
func (s *signupService) SubmitApplication(ctx context.Context, app dto.MembershipApplication) (*dto.SignupResult, error) {
	app, fields := ValidateApplication(app)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// duplicate check against our own rows first: cheaper than a failed
	// sign-up and catches re-submissions while the backend is down
	if _, err := s.profileRepo.FindByEmail(app.Email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
	}

	tempPassword, err := password.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
	}

	accountID, err := s.idp.SignUp(ctx, app.Email, tempPassword, app.FullName())
	if err != nil {
		if errors.Is(err, identity.ErrDuplicateEmail) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
	}

	if err := s.insertProfile(app, accountID); err != nil {
		log.Printf("signup: profile insert failed for %s: %v", accountID, err)
		s.compensateAccount(ctx, accountID, app.Email, "profile insert failed")
		if helper.IsDuplicateKey(err) {
			// lost the race on the email unique constraint: first writer wins
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("%w: profile: %v", ErrPersistenceFailed, err)
	}

	if err := s.assignMemberRole(accountID); err != nil {
		log.Printf("signup: role assign failed for %s: %v", accountID, err)
		// account and profile stay: a role-less account has no capabilities,
		// so the safe fix is a queued retry rather than deleting everything
		s.queueReconcile(dto.ReconcileTask{
			Task:      dto.ReconcileAssignRole,
			AccountID: accountID,
			Email:     app.Email,
			RoleCode:  domain.RoleMember,
			Reason:    err.Error(),
		})
		return nil, fmt.Errorf("%w: role: %v", ErrPersistenceFailed, err)
	}

	s.publishApplicationReceived(accountID, app)

	result := &dto.SignupResult{AccountID: accountID, Email: app.Email, EmailSent: true}

	if _, err := s.mailer.SendWelcomeEmail(ctx, app.Email, app.FullName(), tempPassword); err != nil {
		// the account is real now; never roll it back over a missing email
		result.EmailSent = false
		s.audit("system", "welcome_email_failed", accountID, err.Error())
		return result, ErrNotificationFailed
	}

	return result, nil
}

func (s *signupService) insertProfile(app dto.MembershipApplication, accountID string) error {
	now := time.Now()
	profile := &domain.MemberProfile{
		AccountID:             accountID,
		Email:                 app.Email,
		FullName:              app.FullName(),
		PhoneNumber:           app.Phone,
		DateOfBirth:           app.DateOfBirth,
		AddressLine1:          app.AddressLine1,
		AddressLine2:          app.AddressLine2,
		City:                  app.City,
		Postcode:              app.Postcode,
		EmergencyContactName:  app.EmergencyContactName,
		EmergencyContactPhone: app.EmergencyContactPhone,
		InsuranceCompany:      app.InsuranceProvider,
		InsurancePolicyNumber: app.PolicyNumber,
		CyclingExperience:     app.Experience,
		MedicalConditions:     app.MedicalInfo,
		TermsAcceptedAt:       &now,
		SafetyAcceptedAt:      &now,
	}

	_, err := s.profileRepo.CreateProfile(profile)
	return err
}

func (s *signupService) assignMemberRole(accountID string) error {
	role, err := s.roleRepo.FindByCode(domain.RoleMember)
	if err != nil {
		return err
	}
	return s.memberRoles.Assign(accountID, role.ID)
}

// compensateAccount deletes the identity created earlier in the saga. If the
// delete also fails the orphan is queued for the reconciliation worker.
func (s *signupService) compensateAccount(ctx context.Context, accountID, email, reason string) {
	if err := s.idp.DeleteAccount(ctx, accountID); err != nil {
		log.Printf("signup: compensation delete failed for %s: %v", accountID, err)
		s.queueReconcile(dto.ReconcileTask{
			Task:      dto.ReconcileDeleteAccount,
			AccountID: accountID,
			Email:     email,
			Reason:    reason,
		})
		s.audit("system", "compensation_queued", accountID, reason)
		return
	}
	s.audit("system", "account_compensated", accountID, reason)
}

func (s *signupService) queueReconcile(task dto.ReconcileTask) {
	if s.producer == nil {
		log.Printf("signup: no producer, reconcile task dropped: %+v", task)
		return
	}
	payload, err := json.Marshal(task)
	if err != nil {
		log.Printf("signup: marshal reconcile task: %v", err)
		return
	}
	if err := s.producer.PublishMessage(s.reconcileTopicKey, payload); err != nil {
		log.Printf("signup: publish reconcile task: %v", err)
	}
}

func (s *signupService) publishApplicationReceived(accountID string, app dto.MembershipApplication) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(dto.ApplicationReceivedEvent{
		AccountID: accountID,
		Email:     app.Email,
		FullName:  app.FullName(),
	})
	if err != nil {
		return
	}
	_ = s.events.PublishMessage([]byte("membership.application_received"), payload)
}

func (s *signupService) audit(actor, action, accountID, note string) {
	if s.auditRepo == nil {
		return
	}
	entry := &domain.AuditLog{
		Actor:     actor,
		Action:    action,
		Entity:    "account",
		EntityRef: accountID,
	}
	if note != "" {
		entry.Note = &note
	}
	if err := s.auditRepo.Record(entry); err != nil {
		log.Printf("signup: audit write failed: %v", err)
	}
}
