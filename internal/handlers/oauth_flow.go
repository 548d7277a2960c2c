package handlers

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"eggadventure/internal/security"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// GoogleOAuth holds the Google sign-in configuration
type GoogleOAuth struct {
	Config *oauth2.Config
}

// NewGoogleOAuth creates the Google OAuth configuration. Returns a
// disabled value when the client credentials are not set.
func NewGoogleOAuth(clientID, clientSecret string) *GoogleOAuth {
	return &GoogleOAuth{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email"},
		},
	}
}

// Enabled reports whether Google sign-in is configured
func (g *GoogleOAuth) Enabled() bool {
	return g != nil && g.Config.ClientID != "" && g.Config.ClientSecret != ""
}

// StartGoogleOAuth initiates the Google sign-in flow
func (h *AuthHandler) StartGoogleOAuth(w http.ResponseWriter, r *http.Request) {
	if !h.googleOAuth.Enabled() {
		respondWithError(w, http.StatusBadRequest, "Google sign-in not configured", "", nil)
		return
	}

	state := security.GenerateSessionID()
	nonce := security.GenerateSessionID()

	h.setTempCookie(w, r, "oauth_state", state, 10*time.Minute)
	h.setTempCookie(w, r, "oauth_nonce", nonce, 10*time.Minute)

	config := *h.googleOAuth.Config
	config.RedirectURL = h.oauthRedirectURL(r)

	authURL := config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("nonce", nonce),
	)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// GoogleOAuthCallback completes the Google sign-in flow
func (h *AuthHandler) GoogleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if !h.googleOAuth.Enabled() {
		respondWithError(w, http.StatusBadRequest, "Google sign-in not configured", "", nil)
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing authorization code", "", nil)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		respondWithError(w, http.StatusBadRequest, "Invalid OAuth state", "", nil)
		return
	}

	nonce := ""
	if cookie, err := r.Cookie("oauth_nonce"); err == nil {
		nonce = cookie.Value
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config := *h.googleOAuth.Config
	config.RedirectURL = h.oauthRedirectURL(r)

	token, err := config.Exchange(ctx, code)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to exchange OAuth code", "OAuth code exchange failed", err)
		return
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		respondWithError(w, http.StatusBadRequest, "Missing Google id_token", "", nil)
		return
	}

	claims, err := parseGoogleIDToken(ctx, idToken, config.ClientID, nonce)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Google sign-in failed", "Google id_token rejected", err)
		return
	}

	h.clearTempCookie(w, r, "oauth_state")
	h.clearTempCookie(w, r, "oauth_nonce")

	session, _, err := h.authService.OAuthLogin(r.Context(), "google", claims.Subject, claims.Email)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) oauthRedirectURL(r *http.Request) string {
	baseURL := strings.TrimSpace(h.oauthRedirectBaseURL)
	if baseURL == "" {
		scheme := "http"
		if security.IsSecureRequest(r) {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return strings.TrimRight(baseURL, "/") + "/auth/google/callback"
}

func (h *AuthHandler) setTempCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *AuthHandler) clearTempCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

type googleTokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Nonce         string `json:"nonce"`
}

type googleJWK struct {
	Keys []googleJWKKey `json:"keys"`
}

type googleJWKKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type googleParsedClaims struct {
	Subject string
	Email   string
}

func parseGoogleIDToken(ctx context.Context, idToken, clientID, nonce string) (googleParsedClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}))
	claims := &googleTokenClaims{}

	parsedToken, err := parser.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing key id")
		}
		return fetchGooglePublicKey(ctx, kid)
	})
	if err != nil || !parsedToken.Valid {
		return googleParsedClaims{}, errors.New("invalid Google token")
	}

	if claims.Issuer != "https://accounts.google.com" && claims.Issuer != "accounts.google.com" {
		return googleParsedClaims{}, errors.New("invalid Google issuer")
	}
	if !audienceContains(claims.Audience, clientID) {
		return googleParsedClaims{}, errors.New("invalid Google audience")
	}
	if nonce != "" && claims.Nonce != "" && claims.Nonce != nonce {
		return googleParsedClaims{}, errors.New("invalid Google nonce")
	}
	if claims.Email == "" {
		return googleParsedClaims{}, errors.New("Google email not available")
	}

	return googleParsedClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
	}, nil
}

func audienceContains(audience jwt.ClaimStrings, value string) bool {
	for _, entry := range audience {
		if entry == value {
			return true
		}
	}
	return false
}

func fetchGooglePublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, googleJWKSURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("failed to fetch Google public keys")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var jwk googleJWK
	if err := json.Unmarshal(body, &jwk); err != nil {
		return nil, err
	}

	for _, key := range jwk.Keys {
		if key.Kid != kid {
			continue
		}
		if key.Kty != "RSA" {
			return nil, errors.New("unexpected key type")
		}
		modulusBytes, err := base64.RawURLEncoding.DecodeString(key.N)
		if err != nil {
			return nil, err
		}
		exponentBytes, err := base64.RawURLEncoding.DecodeString(key.E)
		if err != nil {
			return nil, err
		}
		exponent := 0
		for _, b := range exponentBytes {
			exponent = exponent*256 + int(b)
		}
		return &rsa.PublicKey{
			N: new(big.Int).SetBytes(modulusBytes),
			E: exponent,
		}, nil
	}

	return nil, errors.New("Google public key not found")
}
