package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type SubmitAdminRequest struct {
	Name   string `json:"name" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

func (req *SubmitAdminRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Reason, validation.Required, validation.Length(10, 1000)),
	)
}

type ApproveAdminRequest struct {
	Role string `json:"role" binding:"required"`
}

func (req *ApproveAdminRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Role, validation.Required, validation.In("SuperAdmin", "Admin", "Moderator")),
	)
}

type RejectAdminRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func (req *RejectAdminRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Length(0, 1000)),
	)
}

type AddOwnerRequest struct {
	Principal   string   `json:"principal" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Role        string   `json:"role" binding:"required"`
	Permissions []string `json:"permissions,omitempty"`
}

func (req *AddOwnerRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Principal, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Role, validation.Required, validation.In("SuperAdmin", "Admin", "Moderator")),
	)
}

type UpdateOwnerPermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

func (req *UpdateOwnerPermissionsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Permissions, validation.Required),
	)
}

type MintTokenRequest struct {
	Principal string `json:"principal" binding:"required"`
}

func (req *MintTokenRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Principal, validation.Required, validation.Length(1, 128)),
	)
}
