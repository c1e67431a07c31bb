package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tal3a-app/tal3a-api/internal/domain"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	svc := NewOwnerService(newFakeAdminRepo())

	created, err := svc.Bootstrap(ctx, "root", "Bootstrap Admin")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleSuperAdmin, created.Role)
	assert.Equal(t, "root", created.CreatedBy)
	assert.ElementsMatch(t, domain.AllPermissions(), created.Permissions)
	assert.True(t, created.IsBootstrap())

	// Startup runs this every time; the second call is a no-op.
	again, err := svc.Bootstrap(ctx, "root", "Someone Else")
	require.NoError(t, err)
	assert.Equal(t, created.Name, again.Name)

	owners, err := svc.ListOwners(ctx, "root")
	require.NoError(t, err)
	assert.Len(t, owners, 1)
}

func TestAddOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the role's permission set", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))

		created, err := svc.AddOwner(ctx, "root", "bob", "Bob", domain.RoleAdmin, nil)
		require.NoError(t, err)

		assert.Equal(t, "root", created.CreatedBy)
		assert.ElementsMatch(t, domain.DefaultPermissions(domain.RoleAdmin), created.Permissions)
		assert.False(t, created.IsBootstrap())
	})

	t.Run("admins cannot manage owners", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))
		_, err := svc.AddOwner(ctx, "root", "bob", "Bob", domain.RoleAdmin, nil)
		require.NoError(t, err)

		_, err = svc.AddOwner(ctx, "bob", "carol", "Carol", domain.RoleModerator, nil)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("permissions outside the role are rejected", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))

		_, err := svc.AddOwner(ctx, "root", "bob", "Bob", domain.RoleModerator,
			[]domain.Permission{domain.PermModerateContent, domain.PermManageOwners})

		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("existing owners cannot be added twice", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))
		_, err := svc.AddOwner(ctx, "root", "bob", "Bob", domain.RoleAdmin, nil)
		require.NoError(t, err)

		_, err = svc.AddOwner(ctx, "root", "bob", "Bob", domain.RoleAdmin, nil)
		assert.ErrorIs(t, err, ErrOwnerExists)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))

		_, err := svc.AddOwner(ctx, "root", "bob", "Bob", domain.OwnerRole("King"), nil)

		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestRemoveOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("removes a regular owner", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))
		_, err := svc.AddOwner(ctx, "root", "bob", "Bob", domain.RoleAdmin, nil)
		require.NoError(t, err)

		require.NoError(t, svc.RemoveOwner(ctx, "root", "bob"))

		_, err = svc.GetOwner(ctx, "bob")
		assert.ErrorIs(t, err, ErrOwnerNotFound)
	})

	t.Run("nobody removes themselves", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))

		assert.ErrorIs(t, svc.RemoveOwner(ctx, "root", "root"), ErrCannotRemoveSelf)
	})

	t.Run("the bootstrap super admin stays", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))
		_, err := svc.AddOwner(ctx, "root", "bob", "Bob", domain.RoleSuperAdmin, nil)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.RemoveOwner(ctx, "bob", "root"), ErrCannotRemoveBootstrap)
	})

	t.Run("admins cannot remove super admins", func(t *testing.T) {
		repo := newFakeAdminRepo()
		svc := NewOwnerService(repo)
		_, err := svc.Bootstrap(ctx, "root", "Bootstrap Admin")
		require.NoError(t, err)
		_, err = svc.AddOwner(ctx, "root", "sa", "Second Admin", domain.RoleSuperAdmin, nil)
		require.NoError(t, err)

		// Grant bob manage-owners directly to isolate the role check.
		_, err = repo.CreateOwner(ctx, domain.Owner{
			Principal:   "bob",
			Name:        "Bob",
			Role:        domain.RoleAdmin,
			Permissions: []domain.Permission{domain.PermManageOwners},
			CreatedBy:   "root",
		})
		require.NoError(t, err)

		assert.ErrorIs(t, svc.RemoveOwner(ctx, "bob", "sa"), ErrPermissionDenied)
	})

	t.Run("the remaining super admin cannot be removed", func(t *testing.T) {
		repo := newFakeAdminRepo()
		svc := NewOwnerService(repo)

		_, err := repo.CreateOwner(ctx, domain.Owner{
			Principal:   "sa1",
			Name:        "First",
			Role:        domain.RoleSuperAdmin,
			Permissions: domain.AllPermissions(),
			CreatedBy:   "someone-else",
		})
		require.NoError(t, err)
		_, err = repo.CreateOwner(ctx, domain.Owner{
			Principal:   "sa2",
			Name:        "Second",
			Role:        domain.RoleSuperAdmin,
			Permissions: domain.AllPermissions(),
			CreatedBy:   "someone-else",
		})
		require.NoError(t, err)

		require.NoError(t, svc.RemoveOwner(ctx, "sa1", "sa2"))

		// With sa2 gone, sa1 is the only super admin left; no remaining
		// owner may take it out.
		_, err = repo.CreateOwner(ctx, domain.Owner{
			Principal:   "bob",
			Name:        "Bob",
			Role:        domain.RoleAdmin,
			Permissions: domain.DefaultPermissions(domain.RoleAdmin),
			CreatedBy:   "sa1",
		})
		require.NoError(t, err)
		assert.ErrorIs(t, svc.RemoveOwner(ctx, "bob", "sa1"), ErrPermissionDenied)
	})
}

func TestUpdatePermissions(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the permission set", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))
		_, err := svc.AddOwner(ctx, "root", "bob", "Bob", domain.RoleAdmin, nil)
		require.NoError(t, err)

		updated, err := svc.UpdatePermissions(ctx, "root", "bob",
			[]domain.Permission{domain.PermViewAnalytics})
		require.NoError(t, err)
		assert.Equal(t, []domain.Permission{domain.PermViewAnalytics}, updated.Permissions)
	})

	t.Run("grants outside the role are rejected", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))
		_, err := svc.AddOwner(ctx, "root", "bob", "Bob", domain.RoleAdmin, nil)
		require.NoError(t, err)

		_, err = svc.UpdatePermissions(ctx, "root", "bob",
			[]domain.Permission{domain.PermManageOwners})

		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("you cannot change your own permissions", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))
		_, err := svc.AddOwner(ctx, "root", "sa", "Second Admin", domain.RoleSuperAdmin, nil)
		require.NoError(t, err)

		_, err = svc.UpdatePermissions(ctx, "sa", "sa",
			[]domain.Permission{domain.PermViewAnalytics})
		assert.ErrorIs(t, err, ErrCannotEditSelf)
	})

	t.Run("the bootstrap super admin is protected", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))
		_, err := svc.AddOwner(ctx, "root", "sa", "Second Admin", domain.RoleSuperAdmin, nil)
		require.NoError(t, err)

		_, err = svc.UpdatePermissions(ctx, "sa", "root",
			[]domain.Permission{domain.PermViewAnalytics})
		assert.ErrorIs(t, err, ErrCannotEditBootstrap)
	})

	t.Run("an empty set is invalid", func(t *testing.T) {
		svc := NewOwnerService(bootstrapRepo(t))
		_, err := svc.AddOwner(ctx, "root", "bob", "Bob", domain.RoleAdmin, nil)
		require.NoError(t, err)

		_, err = svc.UpdatePermissions(ctx, "root", "bob", nil)

		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestListOwners(t *testing.T) {
	ctx := context.Background()
	svc := NewOwnerService(bootstrapRepo(t))

	_, err := svc.AddOwner(ctx, "root", "mod", "Mod", domain.RoleModerator, nil)
	require.NoError(t, err)

	t.Run("any owner can list", func(t *testing.T) {
		owners, err := svc.ListOwners(ctx, "mod")
		require.NoError(t, err)
		assert.Len(t, owners, 2)
	})

	t.Run("non-owners are denied", func(t *testing.T) {
		_, err := svc.ListOwners(ctx, "mallory")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}
