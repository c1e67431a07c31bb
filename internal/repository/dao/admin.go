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
	ErrAdminRequestNotFound = errors.New("admin request not found")
	ErrAdminRequestExists   = errors.New("admin request already exists")
	ErrOwnerNotFound        = errors.New("owner not found")
	ErrOwnerExists          = errors.New("owner already exists")
)

type AdminRequest struct {
	ID              string `gorm:"primaryKey"`
	RequesterID     string `gorm:"not null;uniqueIndex"`
	Name            string `gorm:"not null"`
	Reason          string `gorm:"not null"`
	Status          string `gorm:"not null;default:Pending"`
	RequestedAt     time.Time
	ProcessedAt     *time.Time
	ProcessedBy     *string
	RejectionReason *string
}

type Owner struct {
	Principal   string   `gorm:"primaryKey"`
	Name        string   `gorm:"not null"`
	Role        string   `gorm:"not null"`
	Permissions []string `gorm:"serializer:json"`
	CreatedAt   time.Time
	CreatedBy   string `gorm:"not null"`
}

type AdminDAO struct {
	db *gorm.DB
}

func NewAdminDAO(db *gorm.DB) *AdminDAO {
	return &AdminDAO{
		db: db,
	}
}

func (d *AdminDAO) InsertRequest(ctx context.Context, request AdminRequest) (AdminRequest, error) {
	result := d.db.WithContext(ctx).Create(&request)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return AdminRequest{}, ErrAdminRequestExists
		}

		return AdminRequest{}, result.Error
	}

	return request, nil
}

func (d *AdminDAO) FindRequestByID(ctx context.Context, id string) (AdminRequest, error) {
	var request AdminRequest

	result := d.db.WithContext(ctx).Where("id = ?", id).First(&request)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return AdminRequest{}, ErrAdminRequestNotFound
		}

		return AdminRequest{}, result.Error
	}

	return request, nil
}

func (d *AdminDAO) FindRequestByRequester(ctx context.Context, principal string) (AdminRequest, error) {
	var request AdminRequest

	result := d.db.WithContext(ctx).Where("requester_id = ?", principal).First(&request)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return AdminRequest{}, ErrAdminRequestNotFound
		}

		return AdminRequest{}, result.Error
	}

	return request, nil
}

func (d *AdminDAO) FindAllRequests(ctx context.Context) ([]AdminRequest, error) {
	var requests []AdminRequest

	result := d.db.WithContext(ctx).Order("requested_at DESC").Find(&requests)
	if result.Error != nil {
		return nil, result.Error
	}

	return requests, nil
}

func (d *AdminDAO) FindPendingRequests(ctx context.Context) ([]AdminRequest, error) {
	var requests []AdminRequest

	result := d.db.WithContext(ctx).
		Where("status = ?", "Pending").
		Order("requested_at ASC").
		Find(&requests)
	if result.Error != nil {
		return nil, result.Error
	}

	return requests, nil
}

func (d *AdminDAO) UpdateRequest(ctx context.Context, request AdminRequest) (AdminRequest, error) {
	result := d.db.WithContext(ctx).Save(&request)
	if result.Error != nil {
		return AdminRequest{}, result.Error
	}

	return request, nil
}

func (d *AdminDAO) DeleteRequest(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&AdminRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAdminRequestNotFound
	}

	return nil
}

func (d *AdminDAO) InsertOwner(ctx context.Context, owner Owner) (Owner, error) {
	result := d.db.WithContext(ctx).Create(&owner)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Owner{}, ErrOwnerExists
		}

		return Owner{}, result.Error
	}

	return owner, nil
}

func (d *AdminDAO) FindOwner(ctx context.Context, principal string) (Owner, error) {
	var owner Owner

	result := d.db.WithContext(ctx).Where("principal = ?", principal).First(&owner)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Owner{}, ErrOwnerNotFound
		}

		return Owner{}, result.Error
	}

	return owner, nil
}

func (d *AdminDAO) FindAllOwners(ctx context.Context) ([]Owner, error) {
	var owners []Owner

	result := d.db.WithContext(ctx).Order("created_at ASC").Find(&owners)
	if result.Error != nil {
		return nil, result.Error
	}

	return owners, nil
}

func (d *AdminDAO) UpdateOwner(ctx context.Context, owner Owner) (Owner, error) {
	result := d.db.WithContext(ctx).Save(&owner)
	if result.Error != nil {
		return Owner{}, result.Error
	}

	return owner, nil
}

func (d *AdminDAO) DeleteOwner(ctx context.Context, principal string) error {
	result := d.db.WithContext(ctx).Where("principal = ?", principal).Delete(&Owner{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOwnerNotFound
	}

	return nil
}

func (d *AdminDAO) CountSuperAdmins(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Owner{}).
		Where("role = ?", "SuperAdmin").
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
