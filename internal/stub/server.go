package stub

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/rideflow/rideflow/internal/middleware"
	"github.com/rideflow/rideflow/internal/observability"
	"github.com/rideflow/rideflow/pkg/validate"
)

// Server implements the gateway REST and realtime surface over a Store.
type Server struct {
	store   Store
	tokens  *JWTManager
	revoker Revoker
	hub     *Hub
	apiKey  string
	ttl     time.Duration
}

func NewServer(store Store, tokens *JWTManager, revoker Revoker, apiKey string, ttl time.Duration) *Server {
	return &Server{
		store:   store,
		tokens:  tokens,
		revoker: revoker,
		hub:     NewHub(),
		apiKey:  apiKey,
		ttl:     ttl,
	}
}

// Router builds the full HTTP surface:
//
//	POST /auth/v1/signup
//	POST /auth/v1/signin
//	POST /auth/v1/signout
//	POST /auth/v1/recover
//	GET|POST          /rest/v1/{collection}
//	GET|PATCH|DELETE  /rest/v1/{collection}/{id}
//	GET /realtime/v1/auth   (websocket)
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	auth := r.PathPrefix("/auth/v1").Subrouter()
	auth.HandleFunc("/signup", s.handleSignUp).Methods(http.MethodPost)
	auth.HandleFunc("/signin", s.handleSignIn).Methods(http.MethodPost)
	auth.HandleFunc("/signout", s.handleSignOut).Methods(http.MethodPost)
	auth.HandleFunc("/recover", s.handleRecover).Methods(http.MethodPost)

	rest := r.PathPrefix("/rest/v1").Subrouter()
	rest.Use(s.requireSession)
	rest.HandleFunc("/{collection}", s.handleList).Methods(http.MethodGet)
	rest.HandleFunc("/{collection}", s.handleCreate).Methods(http.MethodPost)
	rest.HandleFunc("/{collection}/{id}", s.handleGet).Methods(http.MethodGet)
	rest.HandleFunc("/{collection}/{id}", s.handlePatch).Methods(http.MethodPatch)
	rest.HandleFunc("/{collection}/{id}", s.handleDelete).Methods(http.MethodDelete)

	r.HandleFunc("/realtime/v1/auth", s.handleRealtime).Methods(http.MethodGet)

	return middleware.CORS(middleware.RequestLogger(middleware.Recoverer(s.requireAPIKey(r))))
}

// ─── Middleware ─────────────────────────────────────────────

type ctxKey int

const claimsKey ctxKey = 0

// requireAPIKey rejects requests without the shared project key. The key
// rides in X-Api-Key, or in the apikey query parameter for websocket
// dials where headers are awkward.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Api-Key")
		if key == "" {
			key = r.URL.Query().Get("apikey")
		}
		if key != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid_api_key", "missing or invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, token, ok := s.bearerClaims(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid_token", "missing or invalid bearer token")
			return
		}
		if revoked, err := s.revoker.IsRevoked(r.Context(), token); err != nil || revoked {
			writeError(w, http.StatusUnauthorized, "invalid_token", "token has been revoked")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func (s *Server) bearerClaims(r *http.Request) (*TokenClaims, string, bool) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return nil, "", false
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, "", false
	}
	return claims, token, true
}

func sessionClaims(r *http.Request) *TokenClaims {
	claims, _ := r.Context().Value(claimsKey).(*TokenClaims)
	return claims
}

// ─── Auth handlers ──────────────────────────────────────────

type credentialsRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "malformed JSON body")
		return
	}
	if msg := validate.Email(req.Email); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_email", msg)
		return
	}
	if msg := validate.LoginPassword(req.Password); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_password", msg)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "hash password")
		return
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Metadata:     req.Metadata,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email_taken", "an account with this email already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	s.seedAccount(r.Context(), user)
	s.writeSession(w, http.StatusCreated, user)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "malformed JSON body")
		return
	}
	user, err := s.store.UserByEmail(r.Context(), req.Email)
	if err == nil {
		err = bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password))
	}
	if err != nil {
		// One answer for unknown email and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}
	s.writeSession(w, http.StatusOK, user)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	claims, token, ok := s.bearerClaims(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing or invalid bearer token")
		return
	}
	if err := s.revoker.Revoke(r.Context(), token, s.ttl); err != nil {
		log.Printf("[stub] revoke failed: %v", err)
	}
	s.hub.Push(claims.Subject, "SIGNED_OUT", nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "malformed JSON body")
		return
	}
	// Whether the address exists stays private; the answer is the same.
	log.Printf("[stub] password recovery requested for %s", req.Email)
	writeJSON(w, map[string]string{"status": "recovery email sent"})
}

type wireUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (s *Server) writeSession(w http.ResponseWriter, status int, user User) {
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "issue token")
		return
	}
	writeJSONStatus(w, status, map[string]any{
		"access_token":  token,
		"refresh_token": uuid.NewString(),
		"user":          wireUser{ID: user.ID, Email: user.Email},
	})
}

// ─── Record handlers ────────────────────────────────────────

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListRecords(r.Context(), mux.Vars(r)["collection"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, records)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rec, err := s.store.GetRecord(r.Context(), vars["collection"], vars["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, rec)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "malformed JSON body")
		return
	}
	if rec.ID() == "" {
		rec["id"] = uuid.NewString()
	}
	if err := s.store.CreateRecord(r.Context(), mux.Vars(r)["collection"], rec); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, rec)
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var patch Record
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "malformed JSON body")
		return
	}

	// The credentials pseudo-collection is the password-change endpoint,
	// not stored records.
	if vars["collection"] == "credentials" {
		s.changePassword(w, r, vars["id"], patch)
		return
	}

	rec, err := s.store.UpdateRecord(r.Context(), vars["collection"], vars["id"], patch)
	if err != nil {
		// First write to a per-user singleton collection becomes a create.
		if errors.Is(err, ErrRecordNotFound) {
			patch["id"] = vars["id"]
			if createErr := s.store.CreateRecord(r.Context(), vars["collection"], patch); createErr == nil {
				writeJSON(w, patch)
				return
			}
		}
		writeStoreError(w, err)
		return
	}
	writeJSON(w, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.store.DeleteRecord(r.Context(), vars["collection"], vars["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	// Deleting a profile is account deletion: drop the user and end every
	// session.
	if vars["collection"] == "profiles" {
		if err := s.store.DeleteUser(r.Context(), vars["id"]); err != nil && !errors.Is(err, ErrUserNotFound) {
			log.Printf("[stub] delete user %s: %v", vars["id"], err)
		}
		s.hub.Push(vars["id"], "SIGNED_OUT", nil)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request, userID string, patch Record) {
	claims := sessionClaims(r)
	if claims == nil || claims.Subject != userID {
		writeError(w, http.StatusForbidden, "forbidden", "cannot change another user's password")
		return
	}
	current, _ := patch["current_password"].(string)
	next, _ := patch["new_password"].(string)
	if msg := validate.NewPassword(current, next, next); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_password", msg)
		return
	}

	user, err := s.store.UserByID(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(current)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "current password is incorrect")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "hash password")
		return
	}
	if err := s.store.UpdateUserPassword(r.Context(), userID, hash); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "password updated"})
}

// ─── Realtime ───────────────────────────────────────────────

func (s *Server) handleRealtime(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if claims, _, ok := s.bearerClaims(r); ok {
		userID = claims.Subject
	}
	observability.RealtimeConnectionsTotal.Inc()
	s.hub.Attach(w, r, userID)
}

// ─── Helpers ────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[stub] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRecordNotFound), errors.Is(err, ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrRecordExists), errors.Is(err, ErrEmailTaken):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
