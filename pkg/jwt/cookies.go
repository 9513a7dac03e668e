// Package jwt holds the cookie names and shapes used for shopper and manager
// sessions.
package jwt

import (
	"net/http"
	"time"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	sessionPath = "/"
)

func sessionCookie(name, value string, expires time.Time) *http.Cookie {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     sessionPath,
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionCookies returns the access and refresh cookies, in that order.
func SessionCookies(access string, accessExp time.Time, refresh string, refreshExp time.Time) []*http.Cookie {
	return []*http.Cookie{
		sessionCookie(AccessCookie, access, accessExp),
		sessionCookie(RefreshCookie, refresh, refreshExp),
	}
}

// ExpiredSession returns cookies that make the browser drop both tokens.
func ExpiredSession() []*http.Cookie {
	return []*http.Cookie{
		sessionCookie(AccessCookie, "", time.Unix(0, 0)),
		sessionCookie(RefreshCookie, "", time.Unix(0, 0)),
	}
}
