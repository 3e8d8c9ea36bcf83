package cli

import (
	"context"

	"github.com/dmitrijs2005/fashionfinder/internal/client/session"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
)

func (a *App) credentials() (string, string, error) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}
	if email == "" {
		return "", "", common.NewValidationError("email is required")
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

func (a *App) register(ctx context.Context, _ []string) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	signedIn, err := a.session.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	if signedIn {
		a.printf("Account created, you are logged in\n")
	} else {
		a.printf("Account created, check %s to confirm it\n", email)
	}
	return nil
}

func (a *App) login(ctx context.Context, _ []string) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	if err := a.session.SignIn(ctx, email, password); err != nil {
		return err
	}
	a.printf("Login successful\n")
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	// the local session is gone even when the remote revoke fails
	err := a.session.SignOut(ctx)
	a.printf("Logged out\n")
	return err
}

func (a *App) resetPassword(ctx context.Context, _ []string) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := a.session.ResetPassword(ctx, email); err != nil {
		return err
	}
	a.printf("Recovery email sent to %s\n", email)
	return nil
}

func (a *App) whoami(_ context.Context, _ []string) error {
	snap := a.session.Current()
	if snap.State != session.Authenticated {
		a.printf("Not logged in (%s)\n", snap.State)
		return nil
	}
	a.printf("%s (%s)\n", snap.Email, snap.UserID)
	return nil
}
