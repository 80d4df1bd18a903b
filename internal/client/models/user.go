// Package models holds the client-side identity and theming records
// exchanged with the dashboard API and kept in local storage.
package models

import "strings"

// Plan is the tenant's subscription tier.
type Plan string

const (
	PlanBasic      Plan = "BASIC"
	PlanPro        Plan = "PRO"
	PlanEnterprise Plan = "ENTERPRISE"
)

// ParsePlan normalises a plan name; unknown or empty values map to PlanBasic.
func ParsePlan(s string) Plan {
	switch p := Plan(strings.ToUpper(strings.TrimSpace(s))); p {
	case PlanBasic, PlanPro, PlanEnterprise:
		return p
	default:
		return PlanBasic
	}
}

// User is the authenticated identity as reported by the API.
type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	TenantID   int64  `json:"tenant_id"`
	TenantName string `json:"tenant_name,omitempty"`
	Plan       Plan   `json:"plan,omitempty"`
	Role       string `json:"role,omitempty"`
}

// Merge returns a copy of u with every non-zero field of profile laid over it.
// Login responses carry a partial user; the profile call is authoritative.
func (u *User) Merge(profile *User) *User {
	var merged User
	if u != nil {
		merged = *u
	}
	if profile == nil {
		return &merged
	}
	if profile.ID != 0 {
		merged.ID = profile.ID
	}
	if profile.Name != "" {
		merged.Name = profile.Name
	}
	if profile.Email != "" {
		merged.Email = profile.Email
	}
	if profile.TenantID != 0 {
		merged.TenantID = profile.TenantID
	}
	if profile.TenantName != "" {
		merged.TenantName = profile.TenantName
	}
	if profile.Plan != "" {
		merged.Plan = profile.Plan
	}
	if profile.Role != "" {
		merged.Role = profile.Role
	}
	return &merged
}
