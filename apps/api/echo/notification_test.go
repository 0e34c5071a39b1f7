package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasahub/darasa/core/notification"
)

func Test_notificationApi(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createStudent(t, "awe", false)
	other := env.createStudent(t, "nosy", false)

	ctx := context.Background()
	notif, err := env.notifSvc.Notify(ctx, owner.ID, "Welcome!", "You are on the Basic plan.")
	if err != nil {
		t.Fatalf("Notify() failed: %v", err)
	}

	t.Run("requires auth", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/notifications/me")
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %v; wantCode %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("owner lists their notifications", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, notif)}
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications/me", getToken(t, owner))
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("other users see nothing", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications/me", getToken(t, other))
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("other users cannot mark it read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/"+notif.ID+"/read", getToken(t, other))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v; wantCode %v; body %s", rec.Code, http.StatusNotFound, rec.Body.String())
		}
	})

	t.Run("owner marks it read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/"+notif.ID+"/read", getToken(t, owner))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var got notification.Notification
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling Notification failed: %v", err)
		}
		if !got.IsRead() {
			t.Error("notification not marked read")
		}

		// marking again keeps the original read time
		req, rec = newAuthRequest(http.MethodPost, "/v1/notifications/"+notif.ID+"/read", getToken(t, owner))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("re-read: code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var again notification.Notification
		if err := json.Unmarshal(rec.Body.Bytes(), &again); err != nil {
			t.Fatalf("unmarshalling Notification failed: %v", err)
		}
		if again.ReadAt == nil || !again.ReadAt.Equal(*got.ReadAt) {
			t.Errorf("read time changed: %v -> %v", got.ReadAt, again.ReadAt)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		req, rec := newAuthRequest(
			http.MethodPost, "/v1/notifications/d90287e2-fe07-4a7e-9ba8-c22eb500a601/read", getToken(t, owner))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v; wantCode %v", rec.Code, http.StatusNotFound)
		}
	})
}
