package handler

import (
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
)

// GroupSummary is the nested read-only shape of a group inside other
// responses (and the list shape of the group collection itself).
type GroupSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PermissionDetail is the serialized shape of a permission.
type PermissionDetail struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Codename    string `json:"codename"`
	ContentType string `json:"content_type"`
}

// NewGroupSummary serializes a single group.
func NewGroupSummary(g *models.Group) GroupSummary {
	return GroupSummary{ID: g.ID, Name: g.Name}
}

// NewGroupSummaries serializes a group list. Always returns a non-nil slice
// so empty relations encode as [] rather than null.
func NewGroupSummaries(groups []models.Group) []GroupSummary {
	out := make([]GroupSummary, 0, len(groups))
	for i := range groups {
		out = append(out, NewGroupSummary(&groups[i]))
	}

	return out
}

// NewPermissionDetail serializes a single permission.
func NewPermissionDetail(p *models.Permission) PermissionDetail {
	return PermissionDetail{
		ID:          p.ID,
		Name:        p.Name,
		Codename:    p.Codename,
		ContentType: p.ContentType,
	}
}

// NewPermissionDetails serializes a permission list. Always returns a non-nil
// slice so empty relations encode as [] rather than null.
func NewPermissionDetails(permissions []models.Permission) []PermissionDetail {
	out := make([]PermissionDetail, 0, len(permissions))
	for i := range permissions {
		out = append(out, NewPermissionDetail(&permissions[i]))
	}

	return out
}
