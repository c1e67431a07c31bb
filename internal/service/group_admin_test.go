package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/repository"
)

type fakeGroupAdminRepo struct {
	mu     sync.Mutex
	admins map[string]domain.GroupAdmin
}

func newFakeGroupAdminRepo() *fakeGroupAdminRepo {
	return &fakeGroupAdminRepo{
		admins: make(map[string]domain.GroupAdmin),
	}
}

func groupAdminKey(groupID uint64, principal string) string {
	return fmt.Sprintf("%d/%s", groupID, principal)
}

func (f *fakeGroupAdminRepo) Create(_ context.Context, admin domain.GroupAdmin) (domain.GroupAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := groupAdminKey(admin.GroupID, admin.Principal)
	if _, ok := f.admins[key]; ok {
		return domain.GroupAdmin{}, repository.ErrGroupAdminExists
	}
	f.admins[key] = admin

	return admin, nil
}

func (f *fakeGroupAdminRepo) Find(_ context.Context, groupID uint64, principal string) (domain.GroupAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	admin, ok := f.admins[groupAdminKey(groupID, principal)]
	if !ok {
		return domain.GroupAdmin{}, repository.ErrGroupAdminNotFound
	}

	return admin, nil
}

func (f *fakeGroupAdminRepo) FindByGroup(_ context.Context, groupID uint64) ([]domain.GroupAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.GroupAdmin
	for _, a := range f.admins {
		if a.GroupID == groupID {
			result = append(result, a)
		}
	}

	return result, nil
}

func (f *fakeGroupAdminRepo) FindByPrincipal(_ context.Context, principal string) ([]domain.GroupAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.GroupAdmin
	for _, a := range f.admins {
		if a.Principal == principal {
			result = append(result, a)
		}
	}

	return result, nil
}

func (f *fakeGroupAdminRepo) UpdatePermissions(_ context.Context, groupID uint64, principal string, permissions []domain.GroupPermission) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := groupAdminKey(groupID, principal)
	admin, ok := f.admins[key]
	if !ok {
		return repository.ErrGroupAdminNotFound
	}
	admin.Permissions = permissions
	f.admins[key] = admin

	return nil
}

func (f *fakeGroupAdminRepo) Delete(_ context.Context, groupID uint64, principal string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := groupAdminKey(groupID, principal)
	if _, ok := f.admins[key]; !ok {
		return repository.ErrGroupAdminNotFound
	}
	delete(f.admins, key)

	return nil
}

func TestAddGroupAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("platform owner with manage-groups adds", func(t *testing.T) {
		svc := NewGroupAdminService(newFakeGroupAdminRepo(), bootstrapRepo(t))

		created, err := svc.AddGroupAdmin(ctx, "root", 1, "bob", "Bob",
			[]domain.GroupPermission{domain.GroupPermManageMembers})
		require.NoError(t, err)

		assert.Equal(t, uint64(1), created.GroupID)
		assert.Equal(t, "bob", created.Principal)
		assert.Equal(t, "root", created.AddedBy)
	})

	t.Run("group admin with manage-members adds", func(t *testing.T) {
		svc := NewGroupAdminService(newFakeGroupAdminRepo(), bootstrapRepo(t))

		_, err := svc.AddGroupAdmin(ctx, "root", 1, "bob", "Bob",
			[]domain.GroupPermission{domain.GroupPermManageMembers})
		require.NoError(t, err)

		created, err := svc.AddGroupAdmin(ctx, "bob", 1, "carol", "Carol",
			[]domain.GroupPermission{domain.GroupPermModerateContent})
		require.NoError(t, err)
		assert.Equal(t, "bob", created.AddedBy)
	})

	t.Run("group admin without manage-members is denied", func(t *testing.T) {
		svc := NewGroupAdminService(newFakeGroupAdminRepo(), bootstrapRepo(t))

		_, err := svc.AddGroupAdmin(ctx, "root", 1, "bob", "Bob",
			[]domain.GroupPermission{domain.GroupPermModerateContent})
		require.NoError(t, err)

		_, err = svc.AddGroupAdmin(ctx, "bob", 1, "carol", "Carol",
			[]domain.GroupPermission{domain.GroupPermModerateContent})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("admins of one group hold no power over another", func(t *testing.T) {
		svc := NewGroupAdminService(newFakeGroupAdminRepo(), bootstrapRepo(t))

		_, err := svc.AddGroupAdmin(ctx, "root", 1, "bob", "Bob",
			[]domain.GroupPermission{domain.GroupPermManageMembers})
		require.NoError(t, err)

		_, err = svc.AddGroupAdmin(ctx, "bob", 2, "carol", "Carol",
			[]domain.GroupPermission{domain.GroupPermModerateContent})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("outsiders are denied", func(t *testing.T) {
		svc := NewGroupAdminService(newFakeGroupAdminRepo(), bootstrapRepo(t))

		_, err := svc.AddGroupAdmin(ctx, "mallory", 1, "bob", "Bob",
			[]domain.GroupPermission{domain.GroupPermManageMembers})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("one entry per group and principal", func(t *testing.T) {
		svc := NewGroupAdminService(newFakeGroupAdminRepo(), bootstrapRepo(t))

		_, err := svc.AddGroupAdmin(ctx, "root", 1, "bob", "Bob",
			[]domain.GroupPermission{domain.GroupPermManageMembers})
		require.NoError(t, err)

		_, err = svc.AddGroupAdmin(ctx, "root", 1, "bob", "Bob",
			[]domain.GroupPermission{domain.GroupPermModerateContent})
		assert.ErrorIs(t, err, ErrGroupAdminExists)
	})

	t.Run("permissions must be named and valid", func(t *testing.T) {
		svc := NewGroupAdminService(newFakeGroupAdminRepo(), bootstrapRepo(t))

		var ve ValidationError

		_, err := svc.AddGroupAdmin(ctx, "root", 1, "bob", "Bob", nil)
		assert.ErrorAs(t, err, &ve)

		_, err = svc.AddGroupAdmin(ctx, "root", 1, "bob", "Bob",
			[]domain.GroupPermission{"RuleTheWorld"})
		assert.ErrorAs(t, err, &ve)
	})
}

func TestRemoveGroupAdmin(t *testing.T) {
	ctx := context.Background()
	svc := NewGroupAdminService(newFakeGroupAdminRepo(), bootstrapRepo(t))

	_, err := svc.AddGroupAdmin(ctx, "root", 1, "bob", "Bob",
		[]domain.GroupPermission{domain.GroupPermModerateContent})
	require.NoError(t, err)

	t.Run("moderators cannot remove", func(t *testing.T) {
		assert.ErrorIs(t, svc.RemoveGroupAdmin(ctx, "bob", 1, "bob"), ErrPermissionDenied)
	})

	t.Run("platform owner removes", func(t *testing.T) {
		require.NoError(t, svc.RemoveGroupAdmin(ctx, "root", 1, "bob"))

		roles, err := svc.GetMyGroupRoles(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, roles)
	})

	t.Run("unknown admin", func(t *testing.T) {
		err := svc.RemoveGroupAdmin(ctx, "root", 1, "nobody")
		assert.ErrorIs(t, err, ErrGroupAdminNotFound)
	})
}

func TestUpdateGroupPermissions(t *testing.T) {
	ctx := context.Background()
	svc := NewGroupAdminService(newFakeGroupAdminRepo(), bootstrapRepo(t))

	_, err := svc.AddGroupAdmin(ctx, "root", 1, "bob", "Bob",
		[]domain.GroupPermission{domain.GroupPermModerateContent})
	require.NoError(t, err)

	t.Run("replaces the permission set", func(t *testing.T) {
		updated, err := svc.UpdateGroupPermissions(ctx, "root", 1, "bob",
			[]domain.GroupPermission{domain.GroupPermManageEvents, domain.GroupPermViewGroupAnalytics})
		require.NoError(t, err)
		assert.Equal(t,
			[]domain.GroupPermission{domain.GroupPermManageEvents, domain.GroupPermViewGroupAnalytics},
			updated.Permissions)
	})

	t.Run("unknown permission is rejected", func(t *testing.T) {
		_, err := svc.UpdateGroupPermissions(ctx, "root", 1, "bob",
			[]domain.GroupPermission{"RuleTheWorld"})

		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("unknown admin", func(t *testing.T) {
		_, err := svc.UpdateGroupPermissions(ctx, "root", 1, "nobody",
			[]domain.GroupPermission{domain.GroupPermModerateContent})
		assert.ErrorIs(t, err, ErrGroupAdminNotFound)
	})
}

func TestListGroupAdmins(t *testing.T) {
	ctx := context.Background()
	svc := NewGroupAdminService(newFakeGroupAdminRepo(), bootstrapRepo(t))

	_, err := svc.AddGroupAdmin(ctx, "root", 1, "bob", "Bob",
		[]domain.GroupPermission{domain.GroupPermViewGroupAnalytics})
	require.NoError(t, err)
	_, err = svc.AddGroupAdmin(ctx, "root", 2, "carol", "Carol",
		[]domain.GroupPermission{domain.GroupPermManageMembers})
	require.NoError(t, err)

	t.Run("platform owner lists any group", func(t *testing.T) {
		admins, err := svc.ListGroupAdmins(ctx, "root", 1)
		require.NoError(t, err)
		assert.Len(t, admins, 1)
	})

	t.Run("group admin with analytics lists their own group", func(t *testing.T) {
		admins, err := svc.ListGroupAdmins(ctx, "bob", 1)
		require.NoError(t, err)
		assert.Len(t, admins, 1)
	})

	t.Run("other groups stay hidden", func(t *testing.T) {
		_, err := svc.ListGroupAdmins(ctx, "bob", 2)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestGetMyGroupRoles(t *testing.T) {
	ctx := context.Background()
	svc := NewGroupAdminService(newFakeGroupAdminRepo(), bootstrapRepo(t))

	_, err := svc.AddGroupAdmin(ctx, "root", 1, "bob", "Bob",
		[]domain.GroupPermission{domain.GroupPermModerateContent})
	require.NoError(t, err)
	_, err = svc.AddGroupAdmin(ctx, "root", 2, "bob", "Bob",
		[]domain.GroupPermission{domain.GroupPermManageEvents})
	require.NoError(t, err)

	roles, err := svc.GetMyGroupRoles(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	none, err := svc.GetMyGroupRoles(ctx, "mallory")
	require.NoError(t, err)
	assert.Empty(t, none)
}
