package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"lendgate/internal/models"
	"lendgate/internal/store"
)

type applicationBody struct {
	ProductCode string          `json:"product_code"`
	Amount      int64           `json:"amount"`
	TermMonths  int             `json:"term_months"`
	Details     json.RawMessage `json:"details,omitempty"`
}

type documentBody struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	SHA256      string `json:"sha256,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

type statusBody struct {
	Status string `json:"status"`
}

// handleCreateApplication submits a loan application for the signed-in
// profile after validating it against the product's limits.
func (a *API) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	profile := profileFrom(r.Context())

	var body applicationBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	product, err := a.db.GetProductByCode(r.Context(), body.ProductCode)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondError(w, http.StatusBadRequest, codeBadRequest, "unknown product")
			return
		}
		a.log.Error().Err(err).Msg("load product")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not load product")
		return
	}
	if !product.Active {
		respondError(w, http.StatusBadRequest, codeBadRequest, "product is not available")
		return
	}
	if body.Amount < product.MinAmount || body.Amount > product.MaxAmount {
		respondError(w, http.StatusBadRequest, codeBadRequest, "amount outside product limits")
		return
	}
	if body.TermMonths <= 0 || body.TermMonths > product.MaxTermMonths {
		respondError(w, http.StatusBadRequest, codeBadRequest, "term outside product limits")
		return
	}

	details := datatypes.JSON([]byte(`{}`))
	if len(body.Details) > 0 {
		details = datatypes.JSON(body.Details)
	}

	app := models.LoanApplication{
		ProfileID:  profile.ID,
		ProductID:  product.ID,
		Amount:     body.Amount,
		TermMonths: body.TermMonths,
		Status:     models.StatusSubmitted,
		Details:    details,
	}
	if err := a.db.CreateApplication(r.Context(), &app); err != nil {
		a.log.Error().Err(err).Msg("create application")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not submit application")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "application": app})
}

// handleListApplications returns the signed-in profile's applications.
func (a *API) handleListApplications(w http.ResponseWriter, r *http.Request) {
	profile := profileFrom(r.Context())

	apps, err := a.db.ListApplications(r.Context(), profile.ID)
	if err != nil {
		a.log.Error().Err(err).Msg("list applications")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not load applications")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "applications": apps})
}

// handleCreateDocument registers a KYC document on an application and returns
// a presigned upload URL.
func (a *API) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	if a.docs == nil {
		respondError(w, http.StatusServiceUnavailable, codeUnavailable, "document storage is not configured")
		return
	}
	profile := profileFrom(r.Context())

	appID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid application id")
		return
	}

	var body documentBody
	if err := decodeJSON(r, &body); err != nil || body.FileName == "" {
		respondError(w, http.StatusBadRequest, codeBadRequest, "file_name is required")
		return
	}

	app, err := a.db.GetApplication(r.Context(), appID, profile.ID)
	if err != nil {
		if errors.Is(err, store.ErrApplicationNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "application not found")
			return
		}
		a.log.Error().Err(err).Msg("load application")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not load application")
		return
	}

	doc := models.KYCDocument{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		FileName:      body.FileName,
		ContentType:   body.ContentType,
		SHA256:        body.SHA256,
		Size:          body.Size,
	}
	doc.ObjectKey = fmt.Sprintf("applications/%s/%s/%s", app.ID, doc.ID, body.FileName)

	uploadURL, err := a.docs.PresignUpload(r.Context(), doc.ObjectKey, body.ContentType)
	if err != nil {
		a.log.Error().Err(err).Msg("presign upload")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not prepare upload")
		return
	}

	if err := a.db.CreateDocument(r.Context(), &doc); err != nil {
		a.log.Error().Err(err).Msg("create document")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not record document")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"document":   doc,
		"upload_url": uploadURL,
	})
}

// handleGetDocument returns a presigned download URL for a document.
func (a *API) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if a.docs == nil {
		respondError(w, http.StatusServiceUnavailable, codeUnavailable, "document storage is not configured")
		return
	}
	profile := profileFrom(r.Context())

	appID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid application id")
		return
	}
	docID, err := uuid.Parse(chi.URLParam(r, "docID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid document id")
		return
	}

	if _, err := a.db.GetApplication(r.Context(), appID, profile.ID); err != nil {
		if errors.Is(err, store.ErrApplicationNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "application not found")
			return
		}
		a.log.Error().Err(err).Msg("load application")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not load application")
		return
	}

	doc, err := a.db.GetDocument(r.Context(), docID, appID)
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "document not found")
			return
		}
		a.log.Error().Err(err).Msg("load document")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not load document")
		return
	}

	downloadURL, err := a.docs.PresignDownload(r.Context(), doc.ObjectKey)
	if err != nil {
		a.log.Error().Err(err).Msg("presign download")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not prepare download")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"document":     doc,
		"download_url": downloadURL,
	})
}

// handleAdminListApplications serves the review queue for the back office.
func (a *API) handleAdminListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := a.db.ListAllApplications(r.Context())
	if err != nil {
		a.log.Error().Err(err).Msg("list applications")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not load applications")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "applications": apps})
}

// handleAdminUpdateApplication moves an application through review.
func (a *API) handleAdminUpdateApplication(w http.ResponseWriter, r *http.Request) {
	appID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid application id")
		return
	}

	var body statusBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	status := models.ApplicationStatus(body.Status)
	switch status {
	case models.StatusInReview, models.StatusApproved, models.StatusRejected:
	default:
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid status")
		return
	}

	if err := a.db.UpdateApplicationStatus(r.Context(), appID, status); err != nil {
		if errors.Is(err, store.ErrApplicationNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "application not found")
			return
		}
		a.log.Error().Err(err).Msg("update application")
		respondError(w, http.StatusInternalServerError, codeServerError, "could not update application")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
