// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/c2FmZQ/storage/crypto"
	"github.com/rs/cors"

	"github.com/JayGriffiths12/piss-up-cup-score/backend/career"
	"github.com/JayGriffiths12/piss-up-cup-score/backend/export"
	"github.com/JayGriffiths12/piss-up-cup-score/backend/scoring"
)

func generateETag(data []byte) string {
	return fmt.Sprintf("\"%x\"", sha256.Sum256(data))
}

func busyResponse(w http.ResponseWriter, retryAfter string) {
	w.Header().Set("Retry-After", retryAfter)
	http.Error(w, "Too Many Requests: Server is busy", http.StatusTooManyRequests)
}

const retryAfterAction = "2"

// Options represent server options.
type Options struct {
	Addr        string
	Cert        *tls.Certificate
	DataDir     string
	UseMockAuth bool
	Debug       bool
	Storage     *storage.Storage
	MasterKey   crypto.MasterKey
	Listener    net.Listener

	// Documents overrides the file document store, e.g. with a PGStore.
	Documents DocumentStore
	Metrics   *Metrics

	// Auth Options
	AuthCookieName string
	AuthJWKSURL    string
	RequireLogin   bool
	Scorers        []string

	// AllowedOrigins enables CORS for a separately hosted scoring UI.
	AllowedOrigins []string
}

// Server represents the running server instance.
type Server struct {
	httpServer *http.Server
	stop       context.CancelFunc
}

// Shutdown stops accepting requests, then stops the session.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.stop()
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	return nil
}

// StartServer starts the web server and registers the API handlers.
func StartServer(opts Options) (*Server, error) {
	ctx, stop := context.WithCancel(context.Background())
	_, handler := NewServerHandler(ctx, opts)

	httpServer := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if opts.Cert != nil {
		httpServer.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{*opts.Cert},
		}
	}

	go func() {
		var err error
		if opts.Listener != nil {
			if httpServer.TLSConfig != nil {
				log.Printf("Starting HTTPS server on provided listener %s...", opts.Listener.Addr())
				err = httpServer.ServeTLS(opts.Listener, "", "")
			} else {
				log.Printf("Starting HTTP server on provided listener %s...", opts.Listener.Addr())
				err = httpServer.Serve(opts.Listener)
			}
		} else {
			log.Printf("Server starting on port %s...\n", opts.Addr)
			if opts.Cert != nil {
				err = httpServer.ListenAndServeTLS("", "")
			} else if _, statErr := os.Stat("certs/cert.pem"); statErr == nil {
				log.Println("Starting HTTPS server using certs/cert.pem...")
				err = httpServer.ListenAndServeTLS("certs/cert.pem", "certs/key.pem")
			} else {
				log.Println("Starting HTTP server...")
				err = httpServer.ListenAndServe()
			}
		}

		if err != nil && !errors.Is(err, net.ErrClosed) && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return &Server{httpServer: httpServer, stop: stop}, nil
}

// actionStatus maps an action error to an HTTP status code.
func actionStatus(err error) int {
	switch {
	case errors.Is(err, ErrBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrNoMatch):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidAction),
		errors.Is(err, scoring.ErrInvalidRuns),
		errors.Is(err, scoring.ErrInvalidTeam),
		errors.Is(err, scoring.ErrUnknownDismissal):
		return http.StatusBadRequest
	case errors.Is(err, ErrDoubleFinalization),
		errors.Is(err, ErrMatchInProgress),
		errors.Is(err, scoring.ErrSelectionMissing),
		errors.Is(err, scoring.ErrRosterEmpty),
		errors.Is(err, scoring.ErrMatchComplete),
		errors.Is(err, scoring.ErrAwaitingSetup),
		errors.Is(err, scoring.ErrAlreadyStarted),
		errors.Is(err, scoring.ErrUnknownPlayer),
		errors.Is(err, scoring.ErrSamePlayer),
		errors.Is(err, scoring.ErrFreeHitDismissal),
		errors.Is(err, scoring.ErrNothingToUndo),
		errors.Is(err, scoring.ErrInvalidTransition):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// NewServerHandler creates the session and the HTTP handler for the server.
// The session runs until ctx is cancelled.
func NewServerHandler(ctx context.Context, opts Options) (*Session, http.Handler) {
	if opts.DataDir == "" {
		opts.DataDir = "data"
	}
	if opts.Storage == nil {
		opts.Storage = storage.New(opts.DataDir, opts.MasterKey)
	}
	docs := opts.Documents
	if docs == nil {
		docs = NewFileStore(opts.DataDir, opts.Storage)
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	debugf := func(string, ...any) {}
	if opts.Debug {
		debugf = func(f string, a ...any) {
			log.Printf("[DEBUG BACKEND] "+f, a...)
		}
	}

	session := NewSession(docs, metrics, debugf)
	go session.Run(ctx)

	policy := NewAccessPolicy(opts.RequireLogin, opts.Scorers)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		userId := getUserID(r)
		writeJSON(w, map[string]any{
			"id":       userId,
			"canScore": policy.Access(userId) >= AccessWrite,
			"version":  CurrentAppVersion,
		})
	})

	mux.HandleFunc("GET /api/match", func(w http.ResponseWriter, r *http.Request) {
		m, err := session.Snapshot(r.Context())
		if err != nil {
			http.Error(w, err.Error(), actionStatus(err))
			return
		}
		data, err := json.Marshal(m)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		etag := generateETag(data)
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("GET /api/scoreboard", func(w http.ResponseWriter, r *http.Request) {
		m, err := session.Snapshot(r.Context())
		if err != nil {
			http.Error(w, err.Error(), actionStatus(err))
			return
		}
		writeJSON(w, m.Scoreboard())
	})

	mux.HandleFunc("POST /api/action", func(w http.ResponseWriter, r *http.Request) {
		userId := getUserID(r)
		if policy.Access(userId) < AccessWrite {
			if userId == "" {
				http.Error(w, "Unauthenticated: Login required", http.StatusForbidden)
			} else {
				http.Error(w, "Forbidden: You are not a scorer", http.StatusForbidden)
			}
			return
		}

		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxActionBody))
		if err != nil {
			http.Error(w, "Bad Request: Body too large", http.StatusBadRequest)
			return
		}
		action, err := ValidateAction(raw)
		if err != nil {
			log.Printf("Invalid action payload from user %s: %v", maskEmail(userId), err)
			http.Error(w, "Bad Request: Malformed action: "+err.Error(), http.StatusBadRequest)
			return
		}

		res, err := session.Do(r.Context(), action, userId)
		if err != nil {
			if errors.Is(err, ErrBusy) {
				busyResponse(w, retryAfterAction)
				return
			}
			status := actionStatus(err)
			if status == http.StatusInternalServerError {
				log.Printf("Error processing action %s: %v", action.Type, err)
			}
			http.Error(w, err.Error(), status)
			return
		}
		writeJSON(w, res)
	})

	mux.HandleFunc("GET /api/history", func(w http.ResponseWriter, r *http.Request) {
		entries := session.History().Search(r.Context(), r.URL.Query().Get("q"))
		out := make([]HistorySummary, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Summary())
		}
		writeJSON(w, out)
	})

	mux.HandleFunc("GET /api/history/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if !isValidUUID(id) {
			http.Error(w, "Invalid match ID", http.StatusBadRequest)
			return
		}
		e, ok := session.History().Get(r.Context(), id)
		if !ok {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		writeJSON(w, e)
	})

	careerRecords := func(w http.ResponseWriter, r *http.Request) (career.Records, bool) {
		records, err := session.Careers().All(r.Context())
		if err != nil {
			log.Printf("Error loading career records: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return nil, false
		}
		return records, true
	}

	mux.HandleFunc("GET /api/career", func(w http.ResponseWriter, r *http.Request) {
		records, ok := careerRecords(w, r)
		if !ok {
			return
		}
		writeJSON(w, records.Leaderboard())
	})

	mux.HandleFunc("GET /api/career.csv", func(w http.ResponseWriter, r *http.Request) {
		records, ok := careerRecords(w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="career.csv"`)
		if err := export.WriteCareerCSV(w, records); err != nil {
			log.Printf("Error writing career CSV: %v", err)
		}
	})

	// Importing merges the uploaded totals into the existing careers.
	mux.HandleFunc("POST /api/career.csv", func(w http.ResponseWriter, r *http.Request) {
		userId := getUserID(r)
		if policy.Access(userId) < AccessWrite {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		records, err := export.ReadCareerCSV(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
			return
		}
		for _, rec := range records.Sorted() {
			if err := session.Careers().Upsert(r.Context(), rec.Name, rec.Totals); err != nil {
				log.Printf("Error importing career for %s: %v", rec.Name, err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
		}
		log.Printf("[SESSION] %s imported %d career records", maskEmail(userId), len(records))
		writeJSON(w, map[string]int{"imported": len(records)})
	})

	mux.HandleFunc("GET /api/career.txt", func(w http.ResponseWriter, r *http.Request) {
		records, ok := careerRecords(w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := export.WriteCareerTable(w, records); err != nil {
			log.Printf("Error writing career table: %v", err)
		}
	})

	matchText := func(write func(io.Writer, *scoring.Match) error) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			m, err := session.Snapshot(r.Context())
			if err != nil {
				http.Error(w, err.Error(), actionStatus(err))
				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			if err := write(w, m); err != nil {
				log.Printf("Error writing match text: %v", err)
			}
		}
	}
	mux.HandleFunc("GET /api/summary.txt", matchText(export.WriteSummary))
	mux.HandleFunc("GET /api/scorecard.txt", matchText(export.WriteScorecard))

	mux.HandleFunc("/api/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWS(session, w, r, debugf)
	})

	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		if opts.UseMockAuth {
			http.SetCookie(w, &http.Cookie{
				Name:  mockAuthCookieName,
				Value: "test@example.com",
				Path:  "/",
			})
		} else if userId := getUserID(r); userId == "" || !isValidEmail(userId) {
			http.Error(w, "Forbidden: Invalid User ID", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Login successful.\n"))
	})

	// Mock SSO endpoints for local development
	if opts.UseMockAuth {
		mux.HandleFunc("/.sso/{$}", ssoStatusHandler)
		mux.HandleFunc("/.sso/logout", ssoLogoutHandler)
	}

	handler := http.Handler(mux)
	if opts.UseMockAuth {
		handler = mockAuthMiddleware(handler)
	} else {
		handler = jwtAuthMiddleware(opts, handler)
	}
	handler = loggingMiddleware(handler, debugf)
	handler = securityMiddleware(handler)
	handler = cacheControlMiddleware(handler)
	if len(opts.AllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}).Handler(handler)
	}

	return session, handler
}

// cacheControlMiddleware keeps API responses out of shared caches.
func cacheControlMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/.sso/") {
			w.Header().Set("Cache-Control", "private, no-cache, no-transform")
		}
		next.ServeHTTP(w, r)
	})
}

// securityMiddleware adds HTTP security headers to responses.
func securityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// ssoStatusHandler returns the current user status.
func ssoStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	userId := getUserID(r)
	if userId == "" {
		w.Write([]byte("null\n"))
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"email": userId,
		"name":  "Test User",
	})
}

// ssoLogoutHandler logs the user out (clears cookie).
func ssoLogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:    mockAuthCookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
	w.WriteHeader(http.StatusOK)
}

// loggingMiddleware logs the method and URL path of every incoming request.
func loggingMiddleware(next http.Handler, debugf func(string, ...any)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		debugf("Received request: %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
