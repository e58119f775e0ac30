package server

import (
	"fmt"
	"net/http"

	"daotask/internal/auth"
)

func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.tokenHash == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok || !s.verifyToken(token) {
			err := makeAPIError(http.StatusUnauthorized, "unauthorized", ErrCodeUnauthorized, fmt.Errorf("unauthorized"))
			s.writeErrorReq(w, r, http.StatusUnauthorized, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// verifyToken checks token against the configured hash. Tokens that passed
// once are remembered so bcrypt runs once per distinct token.
func (s *Server) verifyToken(token string) bool {
	if _, ok := s.verifiedTokens.Load(token); ok {
		return true
	}
	if !auth.VerifyToken(s.tokenHash, token) {
		return false
	}
	s.verifiedTokens.Store(token, struct{}{})
	return true
}
