package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type AddGroupAdminRequest struct {
	Principal   string   `json:"principal" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions" binding:"required"`
}

func (req *AddGroupAdminRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Principal, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Permissions, validation.Required),
	)
}

type UpdateGroupPermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

func (req *UpdateGroupPermissionsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Permissions, validation.Required),
	)
}
