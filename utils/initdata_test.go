package utils

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"
)

func signedInitData(t *testing.T, token string, authDate time.Time, startParam string) string {
	t.Helper()
	values := url.Values{}
	values.Set("query_id", "AAH1")
	values.Set("user", `{"id":42,"first_name":"Анна","last_name":"Иванова","username":"anna"}`)
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	if startParam != "" {
		values.Set("start_param", startParam)
	}
	values.Set("hash", SignInitData(values, token))
	return values.Encode()
}

func TestParseInitData(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	const token = "123:ABC"

	t.Run("valid", func(t *testing.T) {
		raw := signedInitData(t, token, now.Add(-time.Minute), "restaurantId_77")
		data, err := ParseInitData(raw, token, time.Hour, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if data.User.ID != 42 || data.User.FirstName != "Анна" {
			t.Errorf("unexpected user: %+v", data.User)
		}
		if data.StartParam != "restaurantId_77" {
			t.Errorf("StartParam = %q", data.StartParam)
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		raw := signedInitData(t, token, now, "")
		if _, err := ParseInitData(raw, "other", time.Hour, now); !errors.Is(err, ErrInitDataHash) {
			t.Errorf("expected ErrInitDataHash, got %v", err)
		}
	})

	t.Run("tampered field", func(t *testing.T) {
		values, _ := url.ParseQuery(signedInitData(t, token, now, ""))
		values.Set("user", `{"id":1,"first_name":"Mallory"}`)
		if _, err := ParseInitData(values.Encode(), token, time.Hour, now); !errors.Is(err, ErrInitDataHash) {
			t.Errorf("expected ErrInitDataHash, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		raw := signedInitData(t, token, now.Add(-2*time.Hour), "")
		if _, err := ParseInitData(raw, token, time.Hour, now); !errors.Is(err, ErrInitDataExpired) {
			t.Errorf("expected ErrInitDataExpired, got %v", err)
		}
	})

	t.Run("missing hash", func(t *testing.T) {
		if _, err := ParseInitData("auth_date=1", token, 0, now); !errors.Is(err, ErrInitDataInvalid) {
			t.Errorf("expected ErrInitDataInvalid, got %v", err)
		}
	})
}
