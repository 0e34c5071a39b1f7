package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasahub/darasa/core/review"
)

func Test_reviewApi(t *testing.T) {
	env := newTestEnv(t)
	student := env.createStudent(t, "awe", false)

	t.Run("create requires auth", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/reviews", []byte(`{"rating": 5, "comment": "Great!"}`))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %v; wantCode %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("rating is bounded", func(t *testing.T) {
		for _, body := range []string{
			`{"rating": 0, "comment": "Meh"}`,
			`{"rating": 6, "comment": "Too good"}`,
			`{"rating": 3}`,
		} {
			req, rec := newAuthRequest(http.MethodPost, "/v1/reviews", getToken(t, student), []byte(body))
			env.server.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("body %s: code = %v; wantCode %v", body, rec.Code, http.StatusBadRequest)
			}
		}
	})

	reviews := make([]review.Review, 0, 4)
	t.Run("create", func(t *testing.T) {
		for _, body := range []string{
			`{"rating": 5, "comment": "Great!"}`,
			`{"rating": 4, "comment": "Solid."}`,
			`{"rating": 3, "comment": "Okay."}`,
			`{"rating": 5, "comment": "My kids love it."}`,
		} {
			req, rec := newAuthRequest(http.MethodPost, "/v1/reviews", getToken(t, student), []byte(body))
			env.server.ServeHTTP(rec, req)
			if rec.Code != http.StatusCreated {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
			}
			var rev review.Review
			if err := json.Unmarshal(rec.Body.Bytes(), &rev); err != nil {
				t.Fatalf("unmarshalling Review failed: %v", err)
			}
			if rev.AuthorName != student.Name || rev.UserID != student.ID {
				t.Errorf("unexpected review author: %+v", rev)
			}
			reviews = append(reviews, rev)
		}
	})

	t.Run("query lists everything", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/reviews")
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var got []review.Review
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling reviews failed: %v", err)
		}
		if len(got) != len(reviews) {
			t.Errorf("len(reviews) = %d; want %d", len(got), len(reviews))
		}
	})

	t.Run("latest defaults to three", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/reviews/latest")
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var got []review.Review
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling reviews failed: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("len(reviews) = %d; want 3", len(got))
		}
	})

	t.Run("latest honors count", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/reviews/latest?count=1")
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var got []review.Review
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling reviews failed: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("len(reviews) = %d; want 1", len(got))
		}
	})
}
