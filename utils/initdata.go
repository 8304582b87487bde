package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInitDataHash    = errors.New("init data signature mismatch")
	ErrInitDataExpired = errors.New("init data expired")
	ErrInitDataInvalid = errors.New("init data malformed")
)

// WebAppUser is the "user" object Telegram puts into Mini App init data.
type WebAppUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// WebAppInitData is the verified content of Telegram.WebApp.initData.
type WebAppInitData struct {
	QueryID    string
	User       WebAppUser
	StartParam string
	AuthDate   time.Time
}

// ParseInitData verifies the signature of a Mini App init data string against the bot token
// and decodes it. A zero maxAge disables the freshness check.
func ParseInitData(raw, botToken string, maxAge time.Duration, now time.Time) (*WebAppInitData, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitDataInvalid, err)
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, fmt.Errorf("%w: missing hash", ErrInitDataInvalid)
	}
	if !hmac.Equal([]byte(hash), []byte(SignInitData(values, botToken))) {
		return nil, ErrInitDataHash
	}

	authUnix, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad auth_date", ErrInitDataInvalid)
	}
	authDate := time.Unix(authUnix, 0)
	if maxAge > 0 && now.Sub(authDate) > maxAge {
		return nil, ErrInitDataExpired
	}

	data := &WebAppInitData{
		QueryID:    values.Get("query_id"),
		StartParam: values.Get("start_param"),
		AuthDate:   authDate,
	}
	if rawUser := values.Get("user"); rawUser != "" {
		if err := json.Unmarshal([]byte(rawUser), &data.User); err != nil {
			return nil, fmt.Errorf("%w: bad user: %v", ErrInitDataInvalid, err)
		}
	}
	if data.User.ID == 0 {
		return nil, fmt.Errorf("%w: missing user", ErrInitDataInvalid)
	}
	return data, nil
}

// SignInitData computes the hex hash Telegram expects for the given fields (hash itself excluded).
func SignInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
