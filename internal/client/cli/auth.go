package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ontrackhq/ontrack/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for an email, nickname, and password and attempts
// to create a new account.
//
// On success the user is bannered to log in; registration does not start a
// session by itself. The password byte slice is securely wiped before
// returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	nickname, err := getSimpleText(a.reader, "Enter nickname", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Register(ctx, email, password, nickname); err != nil {
		return a.report(ctx, err)
	}

	a.banner.Success("Account created, you can log in now")
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
//
// On success the friend service learns the user's own id (so search results
// exclude it) and the dashboard is loaded straight away. The password is
// securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, password); err != nil {
		return a.report(ctx, err)
	}

	profile, _ := a.session.Current()
	a.friends.SetSelf(profile.ID)
	a.banner.Success(fmt.Sprintf("Welcome, %s!", profile.Nickname))

	return a.Dashboard(ctx)
}

// Logout discards the saved token and drops back to the anonymous state.
// It never fails.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.friends.SetSelf(0)
	a.banner.Success("Logged out")
	return nil
}
