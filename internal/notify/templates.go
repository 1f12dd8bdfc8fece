package notify

import (
	"fmt"

	"github.com/edvin/siteprovision/internal/model"
)

// Render produces the subject and body for a notification. Templates are
// fixed per kind; only the site URL, admin username, per-user username, and
// failure reason vary.
func Render(n model.Notification) (subject, body string) {
	switch n.Kind {
	case model.NotifyInProgress:
		subject = fmt.Sprintf("Your site %s is being set up", n.SiteURL)
		body = fmt.Sprintf(
			"Hi %s,\n\nWe have started setting up your new site at %s. "+
				"You will receive another message as soon as it is ready.\n",
			n.AdminUsername, n.SiteURL)

	case model.NotifyUserCredentialSetup:
		subject = fmt.Sprintf("Your account on %s", n.SiteURL)
		body = fmt.Sprintf(
			"Hi %s,\n\nAn account with the username %q is being created for you on %s. "+
				"Use the password reset link on the login page to choose your password.\n",
			n.Username, n.Username, n.SiteURL)

	case model.NotifySuccess:
		subject = fmt.Sprintf("Your site %s is ready", n.SiteURL)
		body = fmt.Sprintf(
			"Hi %s,\n\nYour new site is now live at %s. "+
				"Log in with the username %q.\n",
			n.AdminUsername, n.SiteURL, n.AdminUsername)

	case model.NotifyFailure:
		subject = fmt.Sprintf("Setting up %s failed", n.SiteURL)
		body = fmt.Sprintf(
			"Hi %s,\n\nSetting up your site at %s did not complete:\n\n    %s\n\n"+
				"Our operations team has been notified.\n",
			n.AdminUsername, n.SiteURL, n.Reason)

	default:
		subject = fmt.Sprintf("Update for %s", n.SiteURL)
		body = fmt.Sprintf("Hi %s,\n\nThere is an update for your site at %s.\n",
			n.AdminUsername, n.SiteURL)
	}
	return subject, body
}
