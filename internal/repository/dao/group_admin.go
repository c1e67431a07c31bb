package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrGroupAdminNotFound = errors.New("group admin not found")
	ErrGroupAdminExists   = errors.New("group admin already exists")
)

type GroupAdmin struct {
	ID          uint64   `gorm:"primaryKey"`
	GroupID     uint64   `gorm:"not null;uniqueIndex:idx_group_admin"`
	Principal   string   `gorm:"not null;uniqueIndex:idx_group_admin;index"`
	Name        string   `gorm:"not null"`
	Permissions []string `gorm:"serializer:json"`
	AddedAt     time.Time
	AddedBy     string `gorm:"not null"`
}

type GroupAdminDAO struct {
	db *gorm.DB
}

func NewGroupAdminDAO(db *gorm.DB) *GroupAdminDAO {
	return &GroupAdminDAO{
		db: db,
	}
}

func (d *GroupAdminDAO) Insert(ctx context.Context, admin GroupAdmin) (GroupAdmin, error) {
	result := d.db.WithContext(ctx).Create(&admin)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return GroupAdmin{}, ErrGroupAdminExists
		}

		return GroupAdmin{}, result.Error
	}

	return admin, nil
}

func (d *GroupAdminDAO) Find(ctx context.Context, groupID uint64, principal string) (GroupAdmin, error) {
	var admin GroupAdmin

	result := d.db.WithContext(ctx).
		Where("group_id = ? AND principal = ?", groupID, principal).
		First(&admin)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return GroupAdmin{}, ErrGroupAdminNotFound
		}

		return GroupAdmin{}, result.Error
	}

	return admin, nil
}

func (d *GroupAdminDAO) FindByGroup(ctx context.Context, groupID uint64) ([]GroupAdmin, error) {
	var admins []GroupAdmin

	result := d.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("added_at ASC").
		Find(&admins)
	if result.Error != nil {
		return nil, result.Error
	}

	return admins, nil
}

func (d *GroupAdminDAO) FindByPrincipal(ctx context.Context, principal string) ([]GroupAdmin, error) {
	var admins []GroupAdmin

	result := d.db.WithContext(ctx).
		Where("principal = ?", principal).
		Order("group_id ASC").
		Find(&admins)
	if result.Error != nil {
		return nil, result.Error
	}

	return admins, nil
}

func (d *GroupAdminDAO) UpdatePermissions(ctx context.Context, groupID uint64, principal string, permissions []string) error {
	result := d.db.WithContext(ctx).
		Model(&GroupAdmin{}).
		Where("group_id = ? AND principal = ?", groupID, principal).
		Update("permissions", permissions)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupAdminNotFound
	}

	return nil
}

func (d *GroupAdminDAO) Delete(ctx context.Context, groupID uint64, principal string) error {
	result := d.db.WithContext(ctx).
		Where("group_id = ? AND principal = ?", groupID, principal).
		Delete(&GroupAdmin{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupAdminNotFound
	}

	return nil
}
