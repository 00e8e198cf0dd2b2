package http

import (
	"log/slog"
	"net/http"

	"github.com/AayushAcharya189/SportGear/internal/service"
	"github.com/AayushAcharya189/SportGear/pkg/httputil"
	"github.com/AayushAcharya189/SportGear/pkg/validator"
)

// ContactHandler serves the contact form endpoints.
type ContactHandler struct {
	contact *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a contact handler.
func NewContactHandler(contact *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contact: contact, logger: logger}
}

// Submit handles POST /api/v1/contact. Public; no account required.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var input service.ContactInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	msg, err := h.contact.Submit(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: msg})
}

// List handles GET /api/v1/contact. Admin only.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	messages, total, err := h.contact.ListMessages(r.Context(), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK,
		httputil.NewPaginatedResponse(messages, total, page, perPage))
}
