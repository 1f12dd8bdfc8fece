package model

// Notification kinds dispatched by the provisioning pipeline.
const (
	NotifyInProgress          = "in_progress"
	NotifyUserCredentialSetup = "user_credential_setup"
	NotifySuccess             = "success"
	NotifyFailure             = "failure"
)

// Notification is one outbound mail dispatch. Delivery is best-effort and
// never feeds back into the job's outcome.
type Notification struct {
	Kind      string `json:"kind"`
	Recipient string `json:"recipient"`

	SiteURL       string `json:"siteUrl"`
	AdminUsername string `json:"adminUsername"`
	// Username is set for user credential setup notifications.
	Username string `json:"username,omitempty"`
	// Reason carries the failure reason for failure notifications.
	Reason string `json:"reason,omitempty"`
}
