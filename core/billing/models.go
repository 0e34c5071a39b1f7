package billing

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/user"
)

// Plan names
const (
	PlanBasic      = "basic"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Billing cycles
const (
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

// Plan is a static catalog entry; pro and enterprise grant premium access.
type Plan struct {
	Name              string   `json:"name"`
	Title             string   `json:"title"`
	MonthlyPriceCents int      `json:"monthly_price_cents"`
	YearlyPriceCents  int      `json:"yearly_price_cents"`
	Features          []string `json:"features"`
	Premium           bool     `json:"premium"`
}

var Plans = []Plan{
	{
		Name:              PlanBasic,
		Title:             "Basic",
		MonthlyPriceCents: 0,
		YearlyPriceCents:  0,
		Features: []string{
			"Browse classes and subjects",
			"Free notes and lectures",
			"Community reviews",
		},
	},
	{
		Name:              PlanPro,
		Title:             "Pro",
		MonthlyPriceCents: 900,
		YearlyPriceCents:  9000,
		Features: []string{
			"Everything in Basic",
			"Premium notes and lectures",
			"Unlimited quizzes with scoring",
		},
		Premium: true,
	},
	{
		Name:              PlanEnterprise,
		Title:             "Enterprise",
		MonthlyPriceCents: 2900,
		YearlyPriceCents:  29000,
		Features: []string{
			"Everything in Pro",
			"School-wide dashboards",
			"Priority support",
		},
		Premium: true,
	},
}

// PlanByName returns the catalog entry for a plan name.
func PlanByName(name string) (Plan, bool) {
	for _, p := range Plans {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}

// Checkout is the signup-with-plan request. There are deliberately no card
// fields in this schema; payment collection is out of scope and nothing
// card-like is ever accepted or stored.
type Checkout struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Plan            string `json:"plan" validate:"required,oneof=basic pro enterprise"`
	BillingCycle    string `json:"billing_cycle" validate:"required,oneof=monthly yearly"`
	ClassID         *string `json:"class_id"`
}

func (c *Checkout) Validate(ctx context.Context, validate *validator.Validate, usrSvc *user.Service) error {
	c.Name = core.CleanString(c.Name)
	c.Email = core.CleanString(c.Email, true /* lower */)

	if err := validate.Struct(c); err != nil {
		return err
	}
	return usrSvc.CheckUniqueness(ctx, c.Email, c.Email)
}

type ChangePlan struct {
	Plan         string `json:"plan" validate:"required,oneof=basic pro enterprise"`
	BillingCycle string `json:"billing_cycle" validate:"omitempty,oneof=monthly yearly"`
}

func (cp *ChangePlan) Validate(validate *validator.Validate) error {
	return validate.Struct(cp)
}
