package billing

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/notification"
	"github.com/darasahub/darasa/core/user"
)

var errUnknownPlan = errors.New("unknown plan")

type Service struct {
	users  *user.Service
	notifs *notification.Service
	mail   core.EmailService
	conf   *core.Config
}

func NewService(usrSvc *user.Service, notifSvc *notification.Service, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		users:  usrSvc,
		notifs: notifSvc,
		mail:   mailSvc,
		conf:   conf,
	}
}

func (svc *Service) Plans() []Plan {
	return Plans
}

// Checkout registers a student on the chosen plan. It is registration with a
// plan label attached; premium entitlement follows the plan.
func (svc *Service) Checkout(ctx context.Context, c Checkout) (user.User, error) {
	plan, ok := PlanByName(c.Plan)
	if !ok {
		return user.User{}, core.NewValidationError(errUnknownPlan)
	}

	// checkout has no username field; fall back to the email like NewUser does
	usr, err := svc.users.Create(ctx, user.NewUser{
		Name:            c.Name,
		Username:        c.Email,
		Email:           c.Email,
		Password:        c.Password,
		PasswordConfirm: c.PasswordConfirm,
		Roles:           []string{user.RoleStudent},
		ClassID:         c.ClassID,
	})
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}

	usr, err = svc.users.SetPremium(ctx, usr.ID, plan.Premium, plan.Name)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting plan")
	}

	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Welcome to " + svc.conf.AppName,
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nYour %s account is ready on the %s plan. Happy studying!",
			usr.Name, svc.conf.AppName, plan.Title,
		),
	})

	if _, err = svc.notifs.Notify(ctx, usr.ID, "Welcome!",
		fmt.Sprintf("You are on the %s plan.", plan.Title)); err != nil {
		return usr, errors.Wrap(err, "creating welcome notification")
	}
	return usr, nil
}

// ChangePlan switches an existing user's plan; premium is recomputed from the
// new plan.
func (svc *Service) ChangePlan(ctx context.Context, usr user.User, cp ChangePlan) (user.User, error) {
	plan, ok := PlanByName(cp.Plan)
	if !ok {
		return user.User{}, core.NewValidationError(errUnknownPlan)
	}

	usr, err := svc.users.SetPremium(ctx, usr.ID, plan.Premium, plan.Name)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting plan")
	}

	if _, err = svc.notifs.Notify(ctx, usr.ID, "Plan updated",
		fmt.Sprintf("You are now on the %s plan.", plan.Title)); err != nil {
		return usr, errors.Wrap(err, "creating plan notification")
	}
	return usr, nil
}
