package operations

import (
	"context"
	"testing"

	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/platform/project"
	"go.trackdeck.dev/internal/platform/user"
)

type stubProjectRepo struct {
	project.Repository
	byID map[string]*project.Project
}

func (s *stubProjectRepo) FindByID(ctx context.Context, id string) (*project.Project, error) {
	return s.byID[id], nil
}

type stubUserRepo struct {
	user.Repository
	byID map[string]*user.User
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	return s.byID[id], nil
}

// recordingUnitOfWork captures commits so failure-path tests can assert
// no mutation was attempted.
type recordingUnitOfWork struct {
	committed bool
	aggregate any
}

func (r *recordingUnitOfWork) Commit(ctx context.Context, aggregate any, event common.DomainEvent, command any) common.Result[common.DomainEvent] {
	r.committed = true
	r.aggregate = aggregate
	// Commit outcome is covered by integration tests; unit tests only
	// assert whether the use case reached the commit.
	return common.Failure[common.DomainEvent](common.InternalError("TEST_SENTINEL", "sentinel", nil))
}

func (r *recordingUnitOfWork) CommitDelete(ctx context.Context, aggregate any, event common.DomainEvent, command any) common.Result[common.DomainEvent] {
	return r.Commit(ctx, aggregate, event, command)
}

func (r *recordingUnitOfWork) CommitAll(ctx context.Context, aggregates []any, event common.DomainEvent, command any) common.Result[common.DomainEvent] {
	r.committed = true
	return common.Failure[common.DomainEvent](common.InternalError("TEST_SENTINEL", "sentinel", nil))
}

func memberFixtures() (*stubProjectRepo, *stubUserRepo) {
	projects := &stubProjectRepo{byID: map[string]*project.Project{
		"proj-1": {
			ID:      "proj-1",
			Key:     "ABC",
			OwnerID: "owner-1",
			Members: []project.Member{
				{UserID: "user-2", Role: project.MemberRoleEditor},
			},
		},
	}}
	users := &stubUserRepo{byID: map[string]*user.User{
		"user-2": {ID: "user-2", IsActive: true},
		"user-3": {ID: "user-3", IsActive: true},
	}}
	return projects, users
}

func execCtx() *common.ExecutionContext {
	return common.NewExecutionContext("owner-1")
}

func TestAddMemberDuplicateRejected(t *testing.T) {
	projects, users := memberFixtures()
	uow := &recordingUnitOfWork{}
	uc := NewAddMemberUseCase(projects, users, uow)

	result := uc.Execute(context.Background(), AddMemberCommand{
		ProjectID: "proj-1",
		UserID:    "user-2",
	}, execCtx())

	if result.IsSuccess() {
		t.Fatal("expected failure")
	}
	if result.Error().Code != common.ErrCodeAlreadyExists {
		t.Errorf("code = %q, want %q", result.Error().Code, common.ErrCodeAlreadyExists)
	}
	if uow.committed {
		t.Error("rejected command must not reach commit")
	}
}

func TestAddMemberDefaultsToAssignee(t *testing.T) {
	projects, users := memberFixtures()
	uow := &recordingUnitOfWork{}
	uc := NewAddMemberUseCase(projects, users, uow)

	uc.Execute(context.Background(), AddMemberCommand{
		ProjectID: "proj-1",
		UserID:    "user-3",
	}, execCtx())

	if !uow.committed {
		t.Fatal("expected commit for valid add")
	}
	p := uow.aggregate.(*project.Project)
	if got := p.MemberRole("user-3"); got != project.MemberRoleAssignee {
		t.Errorf("role = %q, want assignee", got)
	}
}

func TestAddMemberUnknownUser(t *testing.T) {
	projects, users := memberFixtures()
	uow := &recordingUnitOfWork{}
	uc := NewAddMemberUseCase(projects, users, uow)

	result := uc.Execute(context.Background(), AddMemberCommand{
		ProjectID: "proj-1",
		UserID:    "ghost",
	}, execCtx())

	if result.Error() == nil || result.Error().Code != common.ErrCodeUserNotFound {
		t.Errorf("expected USER_NOT_FOUND, got %v", result.Error())
	}
}

func TestAddMemberInvalidRole(t *testing.T) {
	projects, users := memberFixtures()
	uc := NewAddMemberUseCase(projects, users, &recordingUnitOfWork{})

	result := uc.Execute(context.Background(), AddMemberCommand{
		ProjectID: "proj-1",
		UserID:    "user-3",
		Role:      "owner",
	}, execCtx())

	if result.Error() == nil || result.Error().Kind != common.ErrorKindValidation {
		t.Errorf("expected validation error, got %v", result.Error())
	}
}

func TestRemoveMemberAbsentIsNotFound(t *testing.T) {
	projects, _ := memberFixtures()
	uow := &recordingUnitOfWork{}
	uc := NewRemoveMemberUseCase(projects, uow)

	result := uc.Execute(context.Background(), RemoveMemberCommand{
		ProjectID: "proj-1",
		UserID:    "user-3",
	}, execCtx())

	if result.Error() == nil || result.Error().Code != common.ErrCodeMemberNotFound {
		t.Errorf("expected MEMBER_NOT_FOUND, got %v", result.Error())
	}
	if uow.committed {
		t.Error("absent member removal must not reach commit")
	}
}

func TestRemoveMemberPresent(t *testing.T) {
	projects, _ := memberFixtures()
	uow := &recordingUnitOfWork{}
	uc := NewRemoveMemberUseCase(projects, uow)

	uc.Execute(context.Background(), RemoveMemberCommand{
		ProjectID: "proj-1",
		UserID:    "user-2",
	}, execCtx())

	if !uow.committed {
		t.Fatal("expected commit for valid removal")
	}
	p := uow.aggregate.(*project.Project)
	if p.HasMember("user-2") {
		t.Error("member still present after removal")
	}
}

func TestUpdateMemberRole(t *testing.T) {
	projects, _ := memberFixtures()
	uow := &recordingUnitOfWork{}
	uc := NewUpdateMemberUseCase(projects, uow)

	uc.Execute(context.Background(), UpdateMemberCommand{
		ProjectID: "proj-1",
		UserID:    "user-2",
		Role:      project.MemberRoleAdmin,
	}, execCtx())

	if !uow.committed {
		t.Fatal("expected commit")
	}
	p := uow.aggregate.(*project.Project)
	if got := p.MemberRole("user-2"); got != project.MemberRoleAdmin {
		t.Errorf("role = %q, want admin", got)
	}
}
