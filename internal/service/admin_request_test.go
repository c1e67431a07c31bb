package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/repository"
)

type fakeAdminRepo struct {
	mu       sync.Mutex
	requests map[string]domain.AdminRequest
	owners   map[string]domain.Owner
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{
		requests: make(map[string]domain.AdminRequest),
		owners:   make(map[string]domain.Owner),
	}
}

func (f *fakeAdminRepo) CreateRequest(_ context.Context, request domain.AdminRequest) (domain.AdminRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.requests {
		if existing.RequesterID == request.RequesterID {
			return domain.AdminRequest{}, repository.ErrAdminRequestExists
		}
	}
	f.requests[request.ID] = request

	return request, nil
}

func (f *fakeAdminRepo) FindRequestByID(_ context.Context, id string) (domain.AdminRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	request, ok := f.requests[id]
	if !ok {
		return domain.AdminRequest{}, repository.ErrAdminRequestNotFound
	}

	return request, nil
}

func (f *fakeAdminRepo) FindRequestByRequester(_ context.Context, principal string) (domain.AdminRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, request := range f.requests {
		if request.RequesterID == principal {
			return request, nil
		}
	}

	return domain.AdminRequest{}, repository.ErrAdminRequestNotFound
}

func (f *fakeAdminRepo) FindAllRequests(_ context.Context) ([]domain.AdminRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.AdminRequest
	for _, request := range f.requests {
		result = append(result, request)
	}

	return result, nil
}

func (f *fakeAdminRepo) FindPendingRequests(_ context.Context) ([]domain.AdminRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.AdminRequest
	for _, request := range f.requests {
		if request.Status == domain.AdminRequestPending {
			result = append(result, request)
		}
	}

	return result, nil
}

func (f *fakeAdminRepo) UpdateRequest(_ context.Context, request domain.AdminRequest) (domain.AdminRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.requests[request.ID]; !ok {
		return domain.AdminRequest{}, repository.ErrAdminRequestNotFound
	}
	f.requests[request.ID] = request

	return request, nil
}

func (f *fakeAdminRepo) DeleteRequest(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.requests[id]; !ok {
		return repository.ErrAdminRequestNotFound
	}
	delete(f.requests, id)

	return nil
}

func (f *fakeAdminRepo) CreateOwner(_ context.Context, owner domain.Owner) (domain.Owner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.owners[owner.Principal]; ok {
		return domain.Owner{}, repository.ErrOwnerExists
	}
	f.owners[owner.Principal] = owner

	return owner, nil
}

func (f *fakeAdminRepo) FindOwner(_ context.Context, principal string) (domain.Owner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	owner, ok := f.owners[principal]
	if !ok {
		return domain.Owner{}, repository.ErrOwnerNotFound
	}

	return owner, nil
}

func (f *fakeAdminRepo) FindAllOwners(_ context.Context) ([]domain.Owner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Owner
	for _, owner := range f.owners {
		result = append(result, owner)
	}

	return result, nil
}

func (f *fakeAdminRepo) UpdateOwner(_ context.Context, owner domain.Owner) (domain.Owner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.owners[owner.Principal]; !ok {
		return domain.Owner{}, repository.ErrOwnerNotFound
	}
	f.owners[owner.Principal] = owner

	return owner, nil
}

func (f *fakeAdminRepo) DeleteOwner(_ context.Context, principal string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.owners[principal]; !ok {
		return repository.ErrOwnerNotFound
	}
	delete(f.owners, principal)

	return nil
}

func (f *fakeAdminRepo) CountSuperAdmins(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, owner := range f.owners {
		if owner.Role == domain.RoleSuperAdmin {
			count++
		}
	}

	return count, nil
}

// bootstrapRepo returns a repo with "root" installed as the bootstrap
// super admin, mirroring what the server does on startup.
func bootstrapRepo(t *testing.T) *fakeAdminRepo {
	t.Helper()

	repo := newFakeAdminRepo()
	_, err := NewOwnerService(repo).Bootstrap(context.Background(), "root", "Bootstrap Admin")
	require.NoError(t, err)

	return repo
}

func TestSubmitRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending request with a req_ id", func(t *testing.T) {
		svc := NewAdminRequestService(bootstrapRepo(t))

		created, err := svc.SubmitRequest(ctx, "bob", "Bob", "I run the weekly football group")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(created.ID, "req_"))
		assert.Equal(t, domain.AdminRequestPending, created.Status)
		assert.Equal(t, "bob", created.RequesterID)
		assert.Nil(t, created.ProcessedAt)
	})

	t.Run("reason must be at least 10 characters", func(t *testing.T) {
		svc := NewAdminRequestService(bootstrapRepo(t))

		_, err := svc.SubmitRequest(ctx, "bob", "Bob", "short")

		var ve ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Reason must be at least 10 characters", ve.Error())
	})

	t.Run("name is required", func(t *testing.T) {
		svc := NewAdminRequestService(bootstrapRepo(t))

		_, err := svc.SubmitRequest(ctx, "bob", "  ", "I run the weekly football group")

		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("one request per principal", func(t *testing.T) {
		svc := NewAdminRequestService(bootstrapRepo(t))

		_, err := svc.SubmitRequest(ctx, "bob", "Bob", "I run the weekly football group")
		require.NoError(t, err)

		_, err = svc.SubmitRequest(ctx, "bob", "Bob", "I run the weekly football group")
		assert.ErrorIs(t, err, ErrAdminRequestExists)
	})

	t.Run("owners cannot apply", func(t *testing.T) {
		svc := NewAdminRequestService(bootstrapRepo(t))

		_, err := svc.SubmitRequest(ctx, "root", "Root", "I would like even more access")

		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestApproveRequest(t *testing.T) {
	ctx := context.Background()

	submit := func(t *testing.T, repo *fakeAdminRepo, principal string) domain.AdminRequest {
		t.Helper()
		request, err := NewAdminRequestService(repo).SubmitRequest(ctx, principal, "Bob", "I run the weekly football group")
		require.NoError(t, err)

		return request
	}

	t.Run("super admin approves and the requester becomes an owner", func(t *testing.T) {
		repo := bootstrapRepo(t)
		svc := NewAdminRequestService(repo)
		request := submit(t, repo, "bob")

		approved, err := svc.ApproveRequest(ctx, "root", request.ID, domain.RoleAdmin)
		require.NoError(t, err)

		assert.Equal(t, domain.AdminRequestApproved, approved.Status)
		require.NotNil(t, approved.ProcessedBy)
		assert.Equal(t, "root", *approved.ProcessedBy)

		owner, err := NewOwnerService(repo).GetOwner(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, owner.Role)
		assert.ElementsMatch(t, domain.DefaultPermissions(domain.RoleAdmin), owner.Permissions)
	})

	t.Run("non-owner cannot approve", func(t *testing.T) {
		repo := bootstrapRepo(t)
		svc := NewAdminRequestService(repo)
		request := submit(t, repo, "bob")

		_, err := svc.ApproveRequest(ctx, "mallory", request.ID, domain.RoleAdmin)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("moderators lack the manage-owners permission", func(t *testing.T) {
		repo := bootstrapRepo(t)
		svc := NewAdminRequestService(repo)
		_, err := NewOwnerService(repo).AddOwner(ctx, "root", "mod", "Mod", domain.RoleModerator, nil)
		require.NoError(t, err)
		request := submit(t, repo, "bob")

		_, err = svc.ApproveRequest(ctx, "mod", request.ID, domain.RoleModerator)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("only super admins grant the super admin role", func(t *testing.T) {
		repo := bootstrapRepo(t)
		svc := NewAdminRequestService(repo)
		_, err := repo.CreateOwner(ctx, domain.Owner{
			Principal:   "ops",
			Name:        "Ops",
			Role:        domain.RoleAdmin,
			Permissions: []domain.Permission{domain.PermManageOwners},
			CreatedBy:   "root",
		})
		require.NoError(t, err)
		request := submit(t, repo, "bob")

		_, err = svc.ApproveRequest(ctx, "ops", request.ID, domain.RoleSuperAdmin)
		assert.ErrorIs(t, err, ErrPermissionDenied)

		approved, err := svc.ApproveRequest(ctx, "root", request.ID, domain.RoleSuperAdmin)
		require.NoError(t, err)
		assert.Equal(t, domain.AdminRequestApproved, approved.Status)
	})

	t.Run("a request is processed exactly once", func(t *testing.T) {
		repo := bootstrapRepo(t)
		svc := NewAdminRequestService(repo)
		request := submit(t, repo, "bob")

		_, err := svc.ApproveRequest(ctx, "root", request.ID, domain.RoleAdmin)
		require.NoError(t, err)

		_, err = svc.ApproveRequest(ctx, "root", request.ID, domain.RoleAdmin)
		assert.ErrorIs(t, err, ErrAdminRequestProcessed)
	})

	t.Run("unknown request", func(t *testing.T) {
		svc := NewAdminRequestService(bootstrapRepo(t))

		_, err := svc.ApproveRequest(ctx, "root", "req_missing", domain.RoleAdmin)
		assert.ErrorIs(t, err, ErrAdminRequestNotFound)
	})
}

func TestRejectRequest(t *testing.T) {
	ctx := context.Background()
	repo := bootstrapRepo(t)
	svc := NewAdminRequestService(repo)

	request, err := svc.SubmitRequest(ctx, "bob", "Bob", "I run the weekly football group")
	require.NoError(t, err)

	reason := "Not enough history on the platform"
	rejected, err := svc.RejectRequest(ctx, "root", request.ID, &reason)
	require.NoError(t, err)

	assert.Equal(t, domain.AdminRequestRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, reason, *rejected.RejectionReason)

	_, err = NewOwnerService(repo).GetOwner(ctx, "bob")
	assert.ErrorIs(t, err, ErrOwnerNotFound)

	_, err = svc.RejectRequest(ctx, "root", request.ID, nil)
	assert.ErrorIs(t, err, ErrAdminRequestProcessed)
}

func TestCancelRequest(t *testing.T) {
	ctx := context.Background()
	repo := bootstrapRepo(t)
	svc := NewAdminRequestService(repo)

	t.Run("withdraws an own pending request", func(t *testing.T) {
		_, err := svc.SubmitRequest(ctx, "bob", "Bob", "I run the weekly football group")
		require.NoError(t, err)

		require.NoError(t, svc.CancelRequest(ctx, "bob"))

		_, err = svc.GetMyRequest(ctx, "bob")
		assert.ErrorIs(t, err, ErrAdminRequestNotFound)
	})

	t.Run("processed requests stay on record", func(t *testing.T) {
		request, err := svc.SubmitRequest(ctx, "carol", "Carol", "I run the weekly padel league")
		require.NoError(t, err)
		_, err = svc.RejectRequest(ctx, "root", request.ID, nil)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.CancelRequest(ctx, "carol"), ErrAdminRequestProcessed)
	})
}

func TestDeleteRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("frees the requester to apply again", func(t *testing.T) {
		repo := bootstrapRepo(t)
		svc := NewAdminRequestService(repo)

		request, err := svc.SubmitRequest(ctx, "bob", "Bob", "I run the weekly football group")
		require.NoError(t, err)
		_, err = svc.RejectRequest(ctx, "root", request.ID, nil)
		require.NoError(t, err)

		_, err = svc.SubmitRequest(ctx, "bob", "Bob", "I run the weekly football group")
		assert.ErrorIs(t, err, ErrAdminRequestExists)

		require.NoError(t, svc.DeleteRequest(ctx, "root", request.ID))

		_, err = svc.SubmitRequest(ctx, "bob", "Bob", "I run the weekly football group")
		assert.NoError(t, err)
	})

	t.Run("only super admins may delete", func(t *testing.T) {
		repo := bootstrapRepo(t)
		svc := NewAdminRequestService(repo)

		request, err := svc.SubmitRequest(ctx, "bob", "Bob", "I run the weekly football group")
		require.NoError(t, err)

		_, err = repo.CreateOwner(ctx, domain.Owner{
			Principal:   "ops",
			Name:        "Ops",
			Role:        domain.RoleAdmin,
			Permissions: []domain.Permission{domain.PermManageOwners},
			CreatedBy:   "root",
		})
		require.NoError(t, err)

		assert.ErrorIs(t, svc.DeleteRequest(ctx, "ops", request.ID), ErrPermissionDenied)
	})

	t.Run("unknown request", func(t *testing.T) {
		svc := NewAdminRequestService(bootstrapRepo(t))

		assert.ErrorIs(t, svc.DeleteRequest(ctx, "root", "req_missing"), ErrAdminRequestNotFound)
	})
}

func TestListRequests(t *testing.T) {
	ctx := context.Background()
	repo := bootstrapRepo(t)
	svc := NewAdminRequestService(repo)

	first, err := svc.SubmitRequest(ctx, "bob", "Bob", "I run the weekly football group")
	require.NoError(t, err)
	_, err = svc.SubmitRequest(ctx, "carol", "Carol", "I run the weekly padel league")
	require.NoError(t, err)
	_, err = svc.ApproveRequest(ctx, "root", first.ID, domain.RoleModerator)
	require.NoError(t, err)

	t.Run("listing needs manage-owners", func(t *testing.T) {
		_, err := svc.ListRequests(ctx, "carol")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("pending excludes processed requests", func(t *testing.T) {
		all, err := svc.ListRequests(ctx, "root")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		pending, err := svc.ListPendingRequests(ctx, "root")
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "carol", pending[0].RequesterID)
	})
}
