package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session cookie contract shared with the frontend.
const (
	sessionCookie = "af_session"
	sessionTTL    = 24 * time.Hour
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
}

// handleLogin checks the password and plants the session cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		problem(w, http.StatusBadRequest, "Corpo inválido", `envie um JSON com o campo "password"`)
		return
	}
	if req.Password == "" || req.Password != s.env.Password {
		problem(w, http.StatusUnauthorized, "Senha incorreta", "")
		return
	}

	now := time.Now()
	expires := now.Add(sessionTTL)
	claims := jwt.RegisteredClaims{
		Subject:   "user",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.env.SessionSecret))
	if err != nil {
		s.log.WithError(err).Error("signing session token")
		problem(w, http.StatusInternalServerError, "Erro interno", "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{Token: "ok", Expires: expires.Unix()})
}

// requireSession rejects requests that do not carry a valid session
// cookie.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			problem(w, http.StatusUnauthorized, "Não autenticado", "")
			return
		}
		if _, err := jwt.Parse(cookie.Value, s.sessionKey); err != nil {
			problem(w, http.StatusUnauthorized, "Token inválido ou expirado", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) sessionKey(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return []byte(s.env.SessionSecret), nil
}
