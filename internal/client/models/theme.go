package models

// ThemePalette is a named set of five colour expressions for one tenant.
type ThemePalette struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
}

type TenantInfo struct {
	Plan string `json:"plan"`
}

// TenantTheme is the payload of GET /tenant/theme.
type TenantTheme struct {
	Tenant *TenantInfo    `json:"tenant"`
	Themes []ThemePalette `json:"themes"`
}

// ResolvedPlan returns the tenant plan, BASIC when absent or unknown.
func (t *TenantTheme) ResolvedPlan() Plan {
	if t == nil || t.Tenant == nil {
		return PlanBasic
	}
	return ParsePlan(t.Tenant.Plan)
}
