package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"daotask/internal/store"
)

const (
	allowRemoteEnvKey = "DAOTASK_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
)

// Options configures a Server.
type Options struct {
	ProjectPrefix string
	// APITokenHash is a bcrypt hash; when set every request except /health
	// must carry the matching bearer token.
	APITokenHash string
	Limits       Limits
}

// Server wraps HTTP handlers for the daotask API.
type Server struct {
	addr           string
	store          store.TaskStore
	projectPrefix  string
	service        *TaskService
	logger         *slog.Logger
	tokenHash      string
	verifiedTokens sync.Map
}

// New creates a new server instance.
func New(addr string, taskStore store.TaskStore, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:          addr,
		store:         taskStore,
		projectPrefix: opts.ProjectPrefix,
		service:       NewTaskService(taskStore, opts.ProjectPrefix, opts.Limits),
		logger:        logger,
		tokenHash:     strings.TrimSpace(opts.APITokenHash),
	}
}

// Handler returns the router with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr, "auth", s.tokenHash != "")
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
