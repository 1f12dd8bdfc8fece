package provision

import "github.com/edvin/siteprovision/internal/model"

// Pipeline step names. Each resolves to a program of the same name in the
// scripts directory and they always run in this order.
const (
	StepCreateSite             = "create-site"
	StepInstallApplication     = "install-application"
	StepConfigureApplication   = "configure-application"
	StepScheduleRecurringTasks = "schedule-recurring-tasks"
)

// BuildSteps composes the fixed four-step pipeline for a request.
//
// configure-application receives the subdomain and title, the logo path
// when one was uploaded, and then one (username, email, role, password)
// tuple per requested user in request order. A missing password is passed
// as an empty string: account passwords are set through the reset-link
// flow, never transmitted.
func BuildSteps(req *model.ProvisionRequest) []*model.StepResult {
	configureArgs := []string{req.Subdomain, req.SiteTitle}
	if req.LogoPath != "" {
		configureArgs = append(configureArgs, req.LogoPath)
	}
	for _, u := range req.Users {
		configureArgs = append(configureArgs, u.Username, u.Email, u.Role, u.Password)
	}

	return []*model.StepResult{
		{
			Name:   StepCreateSite,
			Args:   []string{req.Subdomain},
			Status: model.StatusPending,
		},
		{
			Name:   StepInstallApplication,
			Args:   []string{req.Subdomain, req.SiteTitle, req.AdminUsername, req.AdminEmail},
			Status: model.StatusPending,
		},
		{
			Name:   StepConfigureApplication,
			Args:   configureArgs,
			Status: model.StatusPending,
		},
		{
			Name:   StepScheduleRecurringTasks,
			Args:   []string{req.Subdomain},
			Status: model.StatusPending,
		},
	}
}
