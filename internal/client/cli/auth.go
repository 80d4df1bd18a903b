package cli

import (
	"context"
	"fmt"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and signs in. Only the user-facing part of
// a failure is printed; the session store logs the cause.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		fmt.Fprintln(a.out, "Login failed:", err.Error())
		return err
	}

	a.settleTheme(ctx)

	u := a.session.Current().User
	fmt.Fprintf(a.out, "Welcome, %s\n", displayName(u.Name, u.Email))
	return nil
}

// Logout signs out locally. It never fails.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
