package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stortfordearlybirds/membership-service/internal/clients/identity"
	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"github.com/stortfordearlybirds/membership-service/internal/dto"
	"github.com/stortfordearlybirds/membership-service/internal/repository"
)

type fakeIdentity struct {
	signUpErr   error
	deleteErr   error
	signUpCalls int
	deleteCalls int
	deletedIDs  []string
}

func (f *fakeIdentity) SignUp(_ context.Context, _, _, _ string) (string, error) {
	f.signUpCalls++
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return "acc-123", nil
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, accountID string) error {
	f.deleteCalls++
	f.deletedIDs = append(f.deletedIDs, accountID)
	return f.deleteErr
}

type fakeProfileRepo struct {
	byEmail   map[string]*domain.MemberProfile
	createErr error
	saveErr   error
	created   []*domain.MemberProfile
	deleted   []string
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byEmail: map[string]*domain.MemberProfile{}}
}

func (f *fakeProfileRepo) CreateProfile(p *domain.MemberProfile) (*domain.MemberProfile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, p)
	f.byEmail[p.Email] = p
	return p, nil
}

func (f *fakeProfileRepo) FindByAccountID(accountID string) (*domain.MemberProfile, error) {
	for _, p := range f.byEmail {
		if p.AccountID == accountID {
			return p, nil
		}
	}
	return nil, repository.ErrProfileNotFound
}

func (f *fakeProfileRepo) FindByEmail(email string) (*domain.MemberProfile, error) {
	if p, ok := f.byEmail[email]; ok {
		return p, nil
	}
	return nil, repository.ErrProfileNotFound
}

func (f *fakeProfileRepo) SaveProfile(p *domain.MemberProfile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.byEmail[p.Email] = p
	return nil
}

func (f *fakeProfileRepo) DeleteByAccountID(accountID string) error {
	f.deleted = append(f.deleted, accountID)
	for email, p := range f.byEmail {
		if p.AccountID == accountID {
			delete(f.byEmail, email)
		}
	}
	return nil
}

func (f *fakeProfileRepo) ListEmergencyContacts() ([]dto.EmergencyContactRow, error) {
	return nil, nil
}

type fakeRoleRepo struct {
	findErr error
}

func (f *fakeRoleRepo) FindByCode(code string) (*domain.Role, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return &domain.Role{Code: code, Name: code}, nil
}

func (f *fakeRoleRepo) List() ([]domain.Role, error) { return nil, nil }

type fakeMemberRoles struct {
	assignErr error
	assigned  []string
}

func (f *fakeMemberRoles) Assign(accountID string, _ uint) error {
	if f.assignErr != nil {
		return f.assignErr
	}
	f.assigned = append(f.assigned, accountID)
	return nil
}

func (f *fakeMemberRoles) HasRole(_ string, _ string) (bool, error) { return false, nil }

func (f *fakeMemberRoles) GetRolesByAccountID(_ string) ([]domain.Role, error) { return nil, nil }

type fakeAuditRepo struct {
	entries []*domain.AuditLog
}

func (f *fakeAuditRepo) Record(entry *domain.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) ListByEntityRef(_ string) ([]domain.AuditLog, error) {
	return nil, nil
}

type sentMail struct {
	to   string
	kind string
}

type fakeMailer struct {
	welcomeErr error
	codeErr    error
	appErr     error
	sent       []sentMail
	lastCode   string
}

func (f *fakeMailer) SendWelcomeEmail(_ context.Context, to, _, _ string) (string, error) {
	if f.welcomeErr != nil {
		return "", f.welcomeErr
	}
	f.sent = append(f.sent, sentMail{to: to, kind: "welcome"})
	return "msg-1", nil
}

func (f *fakeMailer) SendLoginCodeEmail(_ context.Context, to, code string) (string, error) {
	if f.codeErr != nil {
		return "", f.codeErr
	}
	f.sent = append(f.sent, sentMail{to: to, kind: "code"})
	f.lastCode = code
	return "msg-2", nil
}

func (f *fakeMailer) SendApplicationEmail(_ context.Context, app dto.MembershipApplication) (string, error) {
	if f.appErr != nil {
		return "", f.appErr
	}
	f.sent = append(f.sent, sentMail{to: app.Email, kind: "application"})
	return "msg-3", nil
}

type published struct {
	key   string
	value []byte
}

type fakeProducer struct {
	publishErr error
	messages   []published
}

func (f *fakeProducer) PublishMessage(key, value []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.messages = append(f.messages, published{key: string(key), value: value})
	return nil
}

func (f *fakeProducer) reconcileTasks(t *testing.T) []dto.ReconcileTask {
	t.Helper()
	var tasks []dto.ReconcileTask
	for _, m := range f.messages {
		if m.key != "membership.reconcile" {
			continue
		}
		var task dto.ReconcileTask
		if err := json.Unmarshal(m.value, &task); err != nil {
			t.Fatalf("bad reconcile payload: %v", err)
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func validApplication() dto.MembershipApplication {
	return dto.MembershipApplication{
		FirstName:             "Alice",
		LastName:              "Harper",
		Email:                 "alice@example.com",
		Phone:                 "07700900000",
		DateOfBirth:           "1990-04-12",
		AddressLine1:          "1 Mill Lane",
		City:                  "Bishop's Stortford",
		Postcode:              "CM23 2AB",
		EmergencyContactName:  "Bob Harper",
		EmergencyContactPhone: "07700900001",
		InsuranceProvider:     "British Cycling",
		PolicyNumber:          "BC-001122",
		Experience:            "intermediate",
		AcceptTerms:           true,
		AcceptSafety:          true,
	}
}

type signupFixture struct {
	idp      *fakeIdentity
	profiles *fakeProfileRepo
	roles    *fakeRoleRepo
	links    *fakeMemberRoles
	audit    *fakeAuditRepo
	mailer   *fakeMailer
	producer *fakeProducer
	events   *fakeProducer
	svc      SignupService
}

func newSignupFixture() *signupFixture {
	f := &signupFixture{
		idp:      &fakeIdentity{},
		profiles: newFakeProfileRepo(),
		roles:    &fakeRoleRepo{},
		links:    &fakeMemberRoles{},
		audit:    &fakeAuditRepo{},
		mailer:   &fakeMailer{},
		producer: &fakeProducer{},
		events:   &fakeProducer{},
	}
	f.svc = NewSignupService(f.idp, f.profiles, f.roles, f.links, f.audit, f.mailer, f.producer, f.events)
	return f
}

func TestSubmitApplicationHappyPath(t *testing.T) {
	f := newSignupFixture()

	result, err := f.svc.SubmitApplication(context.Background(), validApplication())
	if err != nil {
		t.Fatalf("SubmitApplication: %v", err)
	}
	if result.AccountID != "acc-123" {
		t.Errorf("account id = %q, want acc-123", result.AccountID)
	}
	if !result.EmailSent {
		t.Error("EmailSent = false, want true")
	}
	if len(f.profiles.created) != 1 {
		t.Fatalf("profiles created = %d, want 1", len(f.profiles.created))
	}

	p := f.profiles.created[0]
	if p.Email != "alice@example.com" || p.FullName != "Alice Harper" {
		t.Errorf("profile = %q/%q", p.Email, p.FullName)
	}
	if p.TermsAcceptedAt == nil || p.SafetyAcceptedAt == nil {
		t.Error("consent timestamps not recorded")
	}
	if len(f.links.assigned) != 1 || f.links.assigned[0] != "acc-123" {
		t.Errorf("role assignments = %v", f.links.assigned)
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0].kind != "welcome" {
		t.Errorf("mail = %v", f.mailer.sent)
	}
	if len(f.events.messages) != 1 || f.events.messages[0].key != "membership.application_received" {
		t.Errorf("events = %v", f.events.messages)
	}
	if len(f.producer.messages) != 0 {
		t.Errorf("reconcile tasks queued on a clean signup: %v", f.producer.messages)
	}
}

func TestSubmitApplicationInvalidSkipsProvisioning(t *testing.T) {
	f := newSignupFixture()
	app := validApplication()
	app.Email = "not-an-email"
	app.AcceptTerms = false

	_, err := f.svc.SubmitApplication(context.Background(), app)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if ve.Fields["email"] == "" || ve.Fields["acceptTerms"] == "" {
		t.Errorf("fields = %v", ve.Fields)
	}
	if f.idp.signUpCalls != 0 {
		t.Errorf("sign-up calls = %d, want 0", f.idp.signUpCalls)
	}
	if len(f.profiles.created) != 0 {
		t.Errorf("profiles created = %d, want 0", len(f.profiles.created))
	}
}

func TestSubmitApplicationDuplicateEmail(t *testing.T) {
	t.Run("existing profile row", func(t *testing.T) {
		f := newSignupFixture()
		f.profiles.byEmail["alice@example.com"] = &domain.MemberProfile{Email: "alice@example.com"}

		_, err := f.svc.SubmitApplication(context.Background(), validApplication())
		if !errors.Is(err, ErrDuplicateAccount) {
			t.Fatalf("err = %v, want ErrDuplicateAccount", err)
		}
		if f.idp.signUpCalls != 0 {
			t.Errorf("sign-up calls = %d, want 0", f.idp.signUpCalls)
		}
	})

	t.Run("backend rejects email", func(t *testing.T) {
		f := newSignupFixture()
		f.idp.signUpErr = identity.ErrDuplicateEmail

		_, err := f.svc.SubmitApplication(context.Background(), validApplication())
		if !errors.Is(err, ErrDuplicateAccount) {
			t.Fatalf("err = %v, want ErrDuplicateAccount", err)
		}
	})
}

func TestSubmitApplicationProfileFailureCompensates(t *testing.T) {
	f := newSignupFixture()
	f.profiles.createErr = errors.New("disk on fire")

	_, err := f.svc.SubmitApplication(context.Background(), validApplication())
	if !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("err = %v, want ErrPersistenceFailed", err)
	}
	if f.idp.deleteCalls != 1 || f.idp.deletedIDs[0] != "acc-123" {
		t.Errorf("compensation deletes = %v", f.idp.deletedIDs)
	}
	if got := f.producer.reconcileTasks(t); len(got) != 0 {
		t.Errorf("reconcile tasks = %v, want none after successful compensation", got)
	}
}

func TestSubmitApplicationProfileRaceReportsDuplicate(t *testing.T) {
	f := newSignupFixture()
	f.profiles.createErr = errors.New(`duplicate key value violates unique constraint "idx_member_profiles_email"`)

	_, err := f.svc.SubmitApplication(context.Background(), validApplication())
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("err = %v, want ErrDuplicateAccount", err)
	}
	// first writer wins; this account was the loser and must be removed
	if f.idp.deleteCalls != 1 {
		t.Errorf("compensation deletes = %d, want 1", f.idp.deleteCalls)
	}
}

func TestSubmitApplicationCompensationFailureQueuesReconcile(t *testing.T) {
	f := newSignupFixture()
	f.profiles.createErr = errors.New("disk on fire")
	f.idp.deleteErr = errors.New("backend down")

	_, err := f.svc.SubmitApplication(context.Background(), validApplication())
	if !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("err = %v, want ErrPersistenceFailed", err)
	}

	tasks := f.producer.reconcileTasks(t)
	if len(tasks) != 1 {
		t.Fatalf("reconcile tasks = %d, want 1", len(tasks))
	}
	if tasks[0].Task != dto.ReconcileDeleteAccount || tasks[0].AccountID != "acc-123" {
		t.Errorf("task = %+v", tasks[0])
	}
}

func TestSubmitApplicationRoleFailureKeepsAccount(t *testing.T) {
	f := newSignupFixture()
	f.links.assignErr = errors.New("deadlock")

	_, err := f.svc.SubmitApplication(context.Background(), validApplication())
	if !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("err = %v, want ErrPersistenceFailed", err)
	}
	if f.idp.deleteCalls != 0 {
		t.Errorf("account deleted after role failure, deletes = %d", f.idp.deleteCalls)
	}

	tasks := f.producer.reconcileTasks(t)
	if len(tasks) != 1 || tasks[0].Task != dto.ReconcileAssignRole {
		t.Fatalf("reconcile tasks = %+v, want one assign_role", tasks)
	}
	if tasks[0].RoleCode != domain.RoleMember {
		t.Errorf("role code = %q, want %q", tasks[0].RoleCode, domain.RoleMember)
	}
}

func TestSubmitApplicationEmailFailureKeepsAccount(t *testing.T) {
	f := newSignupFixture()
	f.mailer.welcomeErr = errors.New("provider 500")

	result, err := f.svc.SubmitApplication(context.Background(), validApplication())
	if !errors.Is(err, ErrNotificationFailed) {
		t.Fatalf("err = %v, want ErrNotificationFailed", err)
	}
	if result == nil {
		t.Fatal("result = nil, want partial result")
	}
	if result.EmailSent {
		t.Error("EmailSent = true, want false")
	}
	if result.AccountID != "acc-123" {
		t.Errorf("account id = %q", result.AccountID)
	}
	if f.idp.deleteCalls != 0 {
		t.Error("account deleted over a failed email")
	}
	if len(f.profiles.deleted) != 0 {
		t.Error("profile deleted over a failed email")
	}
}
