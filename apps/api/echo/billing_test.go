package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	emailsvc "github.com/darasahub/darasa/services/email"

	"github.com/darasahub/darasa/core/billing"
	"github.com/darasahub/darasa/core/user"
)

func Test_billingApi_plans(t *testing.T) {
	env := newTestEnv(t)

	tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, billing.Plans)}
	req, rec := newRequest(http.MethodGet, "/v1/billing/plans")
	env.server.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_billingApi_checkout(t *testing.T) {
	env := newTestEnv(t)

	checkout := func(plan, email string) []byte {
		return marchallObj(t, billing.Checkout{
			Name:            "New Student",
			Email:           email,
			Password:        "LolC@t123",
			PasswordConfirm: "LolC@t123",
			Plan:            plan,
			BillingCycle:    billing.CycleMonthly,
		})
	}

	t.Run("unknown plan", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/checkout", checkout("platinum", "lol@test.cd"))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; wantCode %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("pro checkout grants premium and logs in", func(t *testing.T) {
		emailsvc.ClearSentMessages()

		req, rec := newRequest(http.MethodPost, "/v1/auth/checkout", checkout(billing.PlanPro, "pro@test.cd"))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var resp CheckoutResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling CheckoutResponse failed: %v", err)
		}
		if resp.Token == "" {
			t.Error("token is empty")
		}
		if !resp.User.IsPremium || resp.User.Plan != billing.PlanPro {
			t.Errorf("user = %+v; want premium on plan %q", resp.User, billing.PlanPro)
		}
		if !resp.User.IsStudent() {
			t.Errorf("user roles = %v; want student", resp.User.Roles)
		}

		// welcome email + welcome notification
		if len(emailsvc.SentMessages) != 1 {
			t.Errorf("len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
		}
		notifs, err := env.notifSvc.QueryForUser(context.Background(), resp.User.ID)
		if err != nil {
			t.Fatalf("QueryForUser() failed: %v", err)
		}
		if len(notifs) != 1 || notifs[0].Title != "Welcome!" {
			t.Errorf("unexpected notifications: %+v", notifs)
		}

		// the returned token works
		req, rec = newAuthRequest(http.MethodGet, "/v1/users/me", resp.Token)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("me with checkout token: code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
	})

	t.Run("basic checkout stays free", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/checkout", checkout(billing.PlanBasic, "basic@test.cd"))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var resp CheckoutResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling CheckoutResponse failed: %v", err)
		}
		if resp.User.IsPremium {
			t.Errorf("basic plan user is premium: %+v", resp.User)
		}
	})

	t.Run("usernames default to the email", func(t *testing.T) {
		var usernames []string
		for _, email := range []string{"first@test.cd", "second@test.cd"} {
			req, rec := newRequest(http.MethodPost, "/v1/auth/checkout", checkout(billing.PlanBasic, email))
			env.server.ServeHTTP(rec, req)
			if rec.Code != http.StatusCreated {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
			}
			var resp CheckoutResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshalling CheckoutResponse failed: %v", err)
			}
			if resp.User.Username != email {
				t.Errorf("username = %q; want %q", resp.User.Username, email)
			}
			usernames = append(usernames, resp.User.Username)
		}
		if usernames[0] == usernames[1] {
			t.Errorf("both checkout users got username %q", usernames[0])
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/checkout", checkout(billing.PlanBasic, "basic@test.cd"))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; wantCode %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})
}

func Test_billingApi_upgrade(t *testing.T) {
	env := newTestEnv(t)
	student := env.createStudent(t, "awe", false)

	t.Run("requires auth", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/billing/upgrade", []byte(`{"plan": "pro"}`))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %v; wantCode %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("upgrade to pro", func(t *testing.T) {
		req, rec := newAuthRequest(
			http.MethodPost, "/v1/billing/upgrade", getToken(t, student), []byte(`{"plan": "pro", "billing_cycle": "yearly"}`))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var usr user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
			t.Fatalf("unmarshalling User failed: %v", err)
		}
		if !usr.IsPremium || usr.Plan != billing.PlanPro {
			t.Errorf("user = %+v; want premium on plan %q", usr, billing.PlanPro)
		}
	})

	t.Run("downgrade to basic", func(t *testing.T) {
		req, rec := newAuthRequest(
			http.MethodPost, "/v1/billing/upgrade", getToken(t, student), []byte(`{"plan": "basic"}`))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var usr user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
			t.Fatalf("unmarshalling User failed: %v", err)
		}
		if usr.IsPremium || usr.Plan != billing.PlanBasic {
			t.Errorf("user = %+v; want free on plan %q", usr, billing.PlanBasic)
		}
	})
}
