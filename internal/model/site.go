package model

// SiteUser is an additional account to provision on a new site. Order of
// users in a request is preserved through step arguments and notifications.
type SiteUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	// Password may be empty: credentials for created accounts are set
	// later through the reset-link flow, not transmitted directly.
	Password string `json:"password,omitempty"`
}

// ProvisionRequest is a validated request to provision one site.
type ProvisionRequest struct {
	Subdomain     string     `json:"subdomain"`
	SiteTitle     string     `json:"siteTitle"`
	AdminUsername string     `json:"adminUsername"`
	AdminEmail    string     `json:"adminEmail"`
	Users         []SiteUser `json:"users,omitempty"`
	// LogoPath is the filesystem path of an already-stored logo upload,
	// empty when the request carried no logo. The job owns the file until
	// cleanup removes it.
	LogoPath string `json:"-"`
}
