package telemetry

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Server pushes periodic JSON Snapshots to every connected websocket
// client, gated by a JWT bearer token on the upgrade request. It runs
// entirely on its own goroutine(s), reading only from a Publisher.
type Server struct {
	publisher *Publisher
	secret    []byte
	every     time.Duration
	log       zerolog.Logger
	upgrader  websocket.Upgrader
}

// NewServer builds a Server that authenticates upgrade requests with
// HS256 JWTs signed by secret, and pushes a snapshot every `every`.
func NewServer(publisher *Publisher, secret string, every time.Duration, log zerolog.Logger) *Server {
	return &Server{
		publisher: publisher,
		secret:    []byte(secret),
		every:     every,
		log:       log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// authenticate validates the bearer token carried in the Authorization
// header (or an "access_token" query parameter, since browsers cannot
// set headers on a websocket handshake).
func (s *Server) authenticate(r *http.Request) bool {
	if len(s.secret) == 0 {
		return true // admin auth disabled
	}
	tok := r.URL.Query().Get("access_token")
	if tok == "" {
		auth := r.Header.Get("Authorization")
		tok = strings.TrimPrefix(auth, "Bearer ")
	}
	if tok == "" {
		return false
	}
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	return err == nil && parsed.Valid
}

// ServeHTTP upgrades an authenticated request to a websocket and
// streams snapshots to it until the connection closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.authenticate(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("telemetry: websocket upgrade failed")
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(s.every)
	defer ticker.Stop()
	for range ticker.C {
		data, err := json.Marshal(s.publisher.Latest())
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// ListenAndServe starts an HTTP server exposing the snapshot feed at
// /ws, blocking until it errors or the process is asked to stop.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	return http.ListenAndServe(addr, mux)
}
