package group

import (
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/web/handler"
)

// nameInput is the payload for create and rename.
type nameInput struct {
	Name string `json:"name" validate:"required,min=1,max=150"`
}

// setPermissionsInput carries the full replacement grant set.
type setPermissionsInput struct {
	Permissions []uint64 `json:"permissions"`
}

// detail is the retrieve shape: the summary plus the full permission list.
type detail struct {
	handler.GroupSummary
	Permissions []handler.PermissionDetail `json:"permissions"`
}

func newDetail(g *models.Group, permissions []models.Permission) detail {
	return detail{
		GroupSummary: handler.NewGroupSummary(g),
		Permissions:  handler.NewPermissionDetails(permissions),
	}
}
