package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"github.com/stortfordearlybirds/membership-service/internal/dto"
	"github.com/stortfordearlybirds/membership-service/internal/repository"
)

type stubIdentity struct {
	deleteErr  error
	deletedIDs []string
}

func (s *stubIdentity) SignUp(_ context.Context, _, _, _ string) (string, error) {
	return "", errors.New("not used")
}

func (s *stubIdentity) DeleteAccount(_ context.Context, accountID string) error {
	s.deletedIDs = append(s.deletedIDs, accountID)
	return s.deleteErr
}

type stubProfileRepo struct {
	deleted []string
}

func (s *stubProfileRepo) CreateProfile(p *domain.MemberProfile) (*domain.MemberProfile, error) {
	return p, nil
}

func (s *stubProfileRepo) FindByAccountID(string) (*domain.MemberProfile, error) {
	return nil, repository.ErrProfileNotFound
}

func (s *stubProfileRepo) FindByEmail(string) (*domain.MemberProfile, error) {
	return nil, repository.ErrProfileNotFound
}

func (s *stubProfileRepo) SaveProfile(*domain.MemberProfile) error { return nil }

func (s *stubProfileRepo) DeleteByAccountID(accountID string) error {
	s.deleted = append(s.deleted, accountID)
	return nil
}

func (s *stubProfileRepo) ListEmergencyContacts() ([]dto.EmergencyContactRow, error) {
	return nil, nil
}

type stubRoleRepo struct{}

func (stubRoleRepo) FindByCode(code string) (*domain.Role, error) {
	return &domain.Role{ID: 7, Code: code}, nil
}

func (stubRoleRepo) List() ([]domain.Role, error) { return nil, nil }

type stubMemberRoles struct {
	assigned []uint
}

func (s *stubMemberRoles) Assign(_ string, roleID uint) error {
	s.assigned = append(s.assigned, roleID)
	return nil
}

func (s *stubMemberRoles) HasRole(string, string) (bool, error) { return false, nil }

func (s *stubMemberRoles) GetRolesByAccountID(string) ([]domain.Role, error) { return nil, nil }

type stubAudit struct {
	actions []string
}

func (s *stubAudit) Record(entry *domain.AuditLog) error {
	s.actions = append(s.actions, entry.Action)
	return nil
}

func (s *stubAudit) ListByEntityRef(string) ([]domain.AuditLog, error) { return nil, nil }

func taskJSON(t *testing.T, task dto.ReconcileTask) string {
	t.Helper()
	b, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}
	return string(b)
}

func TestHandleMessageDeleteAccount(t *testing.T) {
	idp := &stubIdentity{}
	profiles := &stubProfileRepo{}
	audit := &stubAudit{}
	r := NewReconciler(idp, profiles, stubRoleRepo{}, &stubMemberRoles{}, audit)

	msg := taskJSON(t, dto.ReconcileTask{
		Task:      dto.ReconcileDeleteAccount,
		AccountID: "acc-9",
		Email:     "alice@example.com",
		Reason:    "profile insert failed",
	})
	if err := r.HandleMessage(msg); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(idp.deletedIDs) != 1 || idp.deletedIDs[0] != "acc-9" {
		t.Errorf("identity deletes = %v", idp.deletedIDs)
	}
	if len(profiles.deleted) != 1 || profiles.deleted[0] != "acc-9" {
		t.Errorf("profile deletes = %v", profiles.deleted)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "reconciled_delete" {
		t.Errorf("audit = %v", audit.actions)
	}
}

func TestHandleMessageDeleteAccountBackendDown(t *testing.T) {
	idp := &stubIdentity{deleteErr: errors.New("backend down")}
	profiles := &stubProfileRepo{}
	r := NewReconciler(idp, profiles, stubRoleRepo{}, &stubMemberRoles{}, &stubAudit{})

	msg := taskJSON(t, dto.ReconcileTask{Task: dto.ReconcileDeleteAccount, AccountID: "acc-9"})
	if err := r.HandleMessage(msg); err == nil {
		t.Fatal("expected error so the message is retried")
	}
	if len(profiles.deleted) != 0 {
		t.Errorf("profile deleted while identity delete failed: %v", profiles.deleted)
	}
}

func TestHandleMessageAssignRole(t *testing.T) {
	links := &stubMemberRoles{}
	r := NewReconciler(&stubIdentity{}, &stubProfileRepo{}, stubRoleRepo{}, links, &stubAudit{})

	msg := taskJSON(t, dto.ReconcileTask{
		Task:      dto.ReconcileAssignRole,
		AccountID: "acc-9",
		RoleCode:  domain.RoleMember,
	})
	if err := r.HandleMessage(msg); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(links.assigned) != 1 || links.assigned[0] != 7 {
		t.Errorf("assigned = %v", links.assigned)
	}

	// redelivery runs the same idempotent assign again without error
	if err := r.HandleMessage(msg); err != nil {
		t.Fatalf("redelivered HandleMessage: %v", err)
	}
}

func TestHandleMessageAssignRoleDefaultsToMember(t *testing.T) {
	links := &stubMemberRoles{}
	r := NewReconciler(&stubIdentity{}, &stubProfileRepo{}, stubRoleRepo{}, links, &stubAudit{})

	msg := taskJSON(t, dto.ReconcileTask{Task: dto.ReconcileAssignRole, AccountID: "acc-9"})
	if err := r.HandleMessage(msg); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(links.assigned) != 1 {
		t.Errorf("assigned = %v", links.assigned)
	}
}

func TestHandleMessageBadPayload(t *testing.T) {
	r := NewReconciler(&stubIdentity{}, &stubProfileRepo{}, stubRoleRepo{}, &stubMemberRoles{}, &stubAudit{})

	if err := r.HandleMessage("{not json"); err == nil {
		t.Error("expected error for malformed payload")
	}
	// unknown tasks are dropped, not retried forever
	if err := r.HandleMessage(`{"task":"mystery"}`); err != nil {
		t.Errorf("unknown task: %v", err)
	}
}
