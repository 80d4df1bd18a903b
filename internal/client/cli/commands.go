package cli

import (
	"context"
	"fmt"
	"time"
)

// Whoami prints the signed-in user and when the token expires, if known.
func (a *App) Whoami(ctx context.Context) error {
	id := a.session.Current()
	if !id.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	u := id.User
	fmt.Fprintln(a.out, a.style.Heading().Render(displayName(u.Name, u.Email)))
	fmt.Fprintf(a.out, "  email:  %s\n", u.Email)
	if u.TenantName != "" {
		fmt.Fprintf(a.out, "  tenant: %s (#%d)\n", u.TenantName, u.TenantID)
	} else {
		fmt.Fprintf(a.out, "  tenant: #%d\n", u.TenantID)
	}
	if u.Role != "" {
		fmt.Fprintf(a.out, "  role:   %s\n", u.Role)
	}
	if exp, ok := id.ExpiresAt(); ok {
		fmt.Fprintf(a.out, "  token expires: %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

// ShowPlan prints the tenant plan. Anonymous sessions are always BASIC.
func (a *App) ShowPlan(ctx context.Context) error {
	fmt.Fprintf(a.out, "Plan: %s\n", a.themes.Plan())
	return nil
}

// ListThemes prints the tenant palettes, marking the active one. Palettes
// kept from a previous session are not shown to anonymous users.
func (a *App) ListThemes(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	themes := a.themes.AvailableThemes()
	if len(themes) == 0 {
		fmt.Fprintln(a.out, "No themes available")
		return nil
	}

	active, hasActive := a.themes.Palette()
	for _, p := range themes {
		mark := " "
		if hasActive && p.ID == active.ID {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %s %-12s %s\n", mark, Swatch(p), p.ID, a.style.Muted().Render(p.Name))
	}
	return nil
}

// SelectTheme activates the palette with the given id. Unknown ids fall
// back to the first palette.
func (a *App) SelectTheme(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	if len(a.themes.AvailableThemes()) == 0 {
		fmt.Fprintln(a.out, "No themes available")
		return nil
	}

	a.themes.SetPaletteByID(id)
	active, _ := a.themes.Palette()
	if active.ID != id {
		fmt.Fprintf(a.out, "Unknown theme %q, using %s\n", id, active.ID)
		return nil
	}
	fmt.Fprintf(a.out, "Theme set to %s\n", active.ID)
	return nil
}
