package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *HTTPServer) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// public
	api.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/password-strength", s.handlePasswordStrength).Methods(http.MethodPost)

	// bearer token required
	private := api.NewRoute().Subrouter()
	private.Use(s.requireAuth)

	private.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)
	private.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	private.HandleFunc("/auth/totp/setup", s.handleTOTPSetup).Methods(http.MethodPost)
	private.HandleFunc("/auth/totp/verify", s.handleTOTPVerify).Methods(http.MethodPost)
	private.HandleFunc("/auth/totp/disable", s.handleTOTPDisable).Methods(http.MethodPost)

	private.HandleFunc("/settings", s.handleUpdateSettings).Methods(http.MethodPatch)
	private.HandleFunc("/account", s.handleDeleteAccount).Methods(http.MethodDelete)

	private.HandleFunc("/categories", s.handleListCategories).Methods(http.MethodGet)
	private.HandleFunc("/categories", s.handleCreateCategory).Methods(http.MethodPost)
	private.HandleFunc("/categories/{id}", s.handleUpdateCategory).Methods(http.MethodPut)
	private.HandleFunc("/categories/{id}", s.handleDeleteCategory).Methods(http.MethodDelete)

	private.HandleFunc("/vault", s.handleListEntries).Methods(http.MethodGet)
	private.HandleFunc("/vault", s.handleCreateEntry).Methods(http.MethodPost)
	private.HandleFunc("/vault/{id}", s.handleUpdateEntry).Methods(http.MethodPut)
	private.HandleFunc("/vault/{id}", s.handleDeleteEntry).Methods(http.MethodDelete)

	private.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)
	private.HandleFunc("/import", s.handleImport).Methods(http.MethodPost)

	return r
}
