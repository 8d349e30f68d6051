package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"github.com/stortfordearlybirds/membership-service/internal/dto"
	"github.com/stortfordearlybirds/membership-service/internal/interfaces"
	"github.com/stortfordearlybirds/membership-service/internal/repository"
)

// Reconciler drains the reconciliation topic and repairs half-created signup
// state: orphan identities whose inline compensation failed, and accounts
// missing their member role. Every task is idempotent so redelivery is safe.
type Reconciler struct {
	idp         interfaces.IdentityProvider
	profileRepo repository.ProfileRepository
	roleRepo    repository.RoleRepository
	memberRoles repository.MemberRoleRepository
	auditRepo   repository.AuditRepository
}

func NewReconciler(
	idp interfaces.IdentityProvider,
	profileRepo repository.ProfileRepository,
	roleRepo repository.RoleRepository,
	memberRoles repository.MemberRoleRepository,
	auditRepo repository.AuditRepository,
) *Reconciler {
	return &Reconciler{
		idp:         idp,
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
		memberRoles: memberRoles,
		auditRepo:   auditRepo,
	}
}

func (r *Reconciler) HandleMessage(message string) error {
	var task dto.ReconcileTask
	if err := json.Unmarshal([]byte(message), &task); err != nil {
		log.Printf("reconciler: invalid task payload: %s", message)
		return err
	}

	switch task.Task {
	case dto.ReconcileDeleteAccount:
		return r.deleteAccount(task)
	case dto.ReconcileAssignRole:
		return r.assignRole(task)
	default:
		log.Printf("reconciler: unknown task %q", task.Task)
		return nil
	}
}

func (r *Reconciler) deleteAccount(task dto.ReconcileTask) error {
	if err := r.idp.DeleteAccount(context.Background(), task.AccountID); err != nil {
		return fmt.Errorf("reconcile delete_account %s: %w", task.AccountID, err)
	}
	// clear any profile row the failed signup may have left behind
	if err := r.profileRepo.DeleteByAccountID(task.AccountID); err != nil {
		return fmt.Errorf("reconcile delete_account %s: profile: %w", task.AccountID, err)
	}
	r.audit("reconciled_delete", task)
	log.Printf("reconciler: removed orphan account %s", task.AccountID)
	return nil
}

func (r *Reconciler) assignRole(task dto.ReconcileTask) error {
	code := task.RoleCode
	if code == "" {
		code = domain.RoleMember
	}

	role, err := r.roleRepo.FindByCode(code)
	if err != nil {
		return fmt.Errorf("reconcile assign_role %s: %w", task.AccountID, err)
	}
	if err := r.memberRoles.Assign(task.AccountID, role.ID); err != nil {
		return fmt.Errorf("reconcile assign_role %s: %w", task.AccountID, err)
	}
	r.audit("reconciled_role", task)
	log.Printf("reconciler: assigned %s to account %s", code, task.AccountID)
	return nil
}

func (r *Reconciler) audit(action string, task dto.ReconcileTask) {
	if r.auditRepo == nil {
		return
	}
	note := task.Reason
	entry := &domain.AuditLog{
		Actor:     "reconciler",
		Action:    action,
		Entity:    "account",
		EntityRef: task.AccountID,
	}
	if note != "" {
		entry.Note = &note
	}
	if err := r.auditRepo.Record(entry); err != nil {
		log.Printf("reconciler: audit write failed: %v", err)
	}
}
