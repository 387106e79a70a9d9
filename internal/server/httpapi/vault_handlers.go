package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/pivault/internal/server/models"
	"github.com/dmitrijs2005/pivault/internal/server/services"
	"github.com/gorilla/mux"
)

type categoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

type entryRequest struct {
	EncryptedData string `json:"encrypted_data"`
	Nonce         string `json:"nonce"`
	CategoryID    string `json:"category_id"`
}

type entryResponse struct {
	ID            string    `json:"id"`
	EncryptedData string    `json:"encrypted_data"`
	Nonce         string    `json:"nonce"`
	CategoryID    string    `json:"category_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func categoryToResponse(c *models.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Icon: c.Icon, CreatedAt: c.CreatedAt}
}

func entryToResponse(e *models.VaultEntry) entryResponse {
	return entryResponse{
		ID:            e.ID,
		EncryptedData: e.EncryptedData,
		Nonce:         e.Nonce,
		CategoryID:    e.CategoryID,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func (s *HTTPServer) handleListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.vault.ListCategories(r.Context(), subjectID(r))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	out := make([]categoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, categoryToResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
		return
	}
	category, err := s.vault.CreateCategory(r.Context(), subjectID(r), req.Name, req.Icon)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryToResponse(category))
}

func (s *HTTPServer) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
		return
	}
	category, err := s.vault.UpdateCategory(r.Context(), subjectID(r), mux.Vars(r)["id"], req.Name, req.Icon)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryToResponse(category))
}

func (s *HTTPServer) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.vault.DeleteCategory(r.Context(), subjectID(r), mux.Vars(r)["id"]); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "category_deleted"})
}

func (s *HTTPServer) handleListEntries(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category_id")
	list, err := s.vault.ListEntries(r.Context(), subjectID(r), categoryID)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	out := make([]entryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, entryToResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
		return
	}
	entry, err := s.vault.CreateEntry(r.Context(), subjectID(r), req.CategoryID, req.EncryptedData, req.Nonce)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(entry))
}

func (s *HTTPServer) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
		return
	}
	entry, err := s.vault.UpdateEntry(r.Context(), subjectID(r), mux.Vars(r)["id"], req.CategoryID, req.EncryptedData, req.Nonce)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(entry))
}

func (s *HTTPServer) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.vault.DeleteEntry(r.Context(), subjectID(r), mux.Vars(r)["id"]); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "entry_deleted"})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.vault.Export(r.Context(), subjectID(r))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *HTTPServer) handleImport(w http.ResponseWriter, r *http.Request) {
	var data services.ExportData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
		return
	}
	result, err := s.vault.Import(r.Context(), subjectID(r), &data, clientInfo(r))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":             "import_complete",
		"imported_entries":    result.ImportedEntries,
		"imported_categories": result.ImportedCategories,
	})
}
