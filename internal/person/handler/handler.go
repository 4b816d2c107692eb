package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rehome/internal/links"
	"rehome/internal/person/models"
	"rehome/internal/person/service"
	"rehome/internal/platform/middleware"
	"rehome/pkg/domain"
	dErrors "rehome/pkg/domain-errors"
	"rehome/pkg/platform/httputil"
)

// Service defines the person operations the handler exposes.
type Service interface {
	Register(ctx context.Context, params service.RegisterParams) (*models.Person, error)
	Get(ctx context.Context, caller domain.Caller, id domain.PersonID) (*models.Person, error)
	SetAdvertisementDefaults(ctx context.Context, caller domain.Caller, id domain.PersonID, address domain.PickupAddress, email domain.EmailAddress, phone domain.PhoneNumber) (*models.Person, error)
	AddCat(ctx context.Context, caller domain.Caller, personID domain.PersonID, params service.CatParams) (*models.Cat, error)
	UpdateCat(ctx context.Context, caller domain.Caller, personID domain.PersonID, catID domain.CatID, params service.CatParams) (*models.Cat, error)
	RemoveCat(ctx context.Context, caller domain.Caller, personID domain.PersonID, catID domain.CatID) error
	Delete(ctx context.Context, caller domain.Caller, personID domain.PersonID) error
}

// Handler handles person and cat endpoints.
type Handler struct {
	logger  *slog.Logger
	persons Service
	tokens  middleware.TokenValidator
}

// New creates a new person Handler.
func New(persons Service, logger *slog.Logger, tokens middleware.TokenValidator) *Handler {
	return &Handler{
		logger:  logger,
		persons: persons,
		tokens:  tokens,
	}
}

// Register registers the person routes with the chi router. Process-wide
// middleware (recovery, request ids, logging) is mounted by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(g chi.Router) {
		g.Use(middleware.Timeout(30 * time.Second))
		g.Use(middleware.ContentTypeJSON)

		g.Post("/persons", h.handleRegister)

		g.Group(func(a chi.Router) {
			a.Use(middleware.RequireAuth(h.tokens, h.logger))
			a.Get("/persons/{personID}", h.handleGet)
			a.Put("/persons/{personID}/advert-defaults", h.handleSetDefaults)
			a.Delete("/persons/{personID}", h.handleDelete)
			a.Post("/persons/{personID}/cats", h.handleAddCat)
			a.Put("/persons/{personID}/cats/{catID}", h.handleUpdateCat)
			a.Delete("/persons/{personID}/cats/{catID}", h.handleRemoveCat)
		})
	})
}

type registerRequest struct {
	IdentityID string `json:"identity_id"`
	Nickname   string `json:"nickname"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role,omitempty"`
}

type addressPayload struct {
	Country  string `json:"country"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zip_code"`
	City     string `json:"city"`
	Street   string `json:"street,omitempty"`
	Building string `json:"building,omitempty"`
}

func (p addressPayload) toDomain() (domain.PickupAddress, error) {
	if p == (addressPayload{}) {
		return domain.PickupAddress{}, nil
	}
	return domain.NewPickupAddress(p.Country, p.State, p.ZipCode, p.City, p.Street, p.Building)
}

type defaultsRequest struct {
	PickupAddress addressPayload `json:"pickup_address"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
}

type catRequest struct {
	Name                   string `json:"name"`
	AdditionalRequirements string `json:"additional_requirements,omitempty"`
	MedicalHelpUrgency     string `json:"medical_help_urgency"`
	AgeCategory            string `json:"age_category"`
	Behavior               string `json:"behavior"`
	HealthStatus           string `json:"health_status"`
	IsCastrated            bool   `json:"is_castrated"`
}

func (c catRequest) toParams() service.CatParams {
	return service.CatParams{
		Name:                   c.Name,
		AdditionalRequirements: c.AdditionalRequirements,
		MedicalHelpUrgency:     c.MedicalHelpUrgency,
		AgeCategory:            c.AgeCategory,
		Behavior:               c.Behavior,
		HealthStatus:           c.HealthStatus,
		IsCastrated:            c.IsCastrated,
	}
}

type personResponse struct {
	*models.Person
	Links []links.Link `json:"_links"`
}

func (h *Handler) personResponse(r *http.Request, person *models.Person) personResponse {
	caller := middleware.GetCaller(r.Context())
	return personResponse{
		Person: person,
		Links:  links.Generate(links.KindPerson, links.StateDefault, "/persons/"+person.ID.String(), person.ID, caller),
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "invalid register request",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	person, err := h.persons.Register(r.Context(), service.RegisterParams{
		IdentityID: req.IdentityID,
		Nickname:   req.Nickname,
		Email:      req.Email,
		Phone:      req.Phone,
		Role:       req.Role,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, h.personResponse(r, person))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	personID, err := domain.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	person, err := h.persons.Get(r.Context(), middleware.GetCaller(r.Context()), personID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.personResponse(r, person))
}

func (h *Handler) handleSetDefaults(w http.ResponseWriter, r *http.Request) {
	personID, err := domain.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req defaultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	address, err := req.PickupAddress.toDomain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	email, err := domain.ParseEmailAddress(req.Email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	phone, err := domain.ParsePhoneNumber(req.Phone)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	person, err := h.persons.SetAdvertisementDefaults(r.Context(), middleware.GetCaller(r.Context()), personID, address, email, phone)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.personResponse(r, person))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	personID, err := domain.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.persons.Delete(r.Context(), middleware.GetCaller(r.Context()), personID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddCat(w http.ResponseWriter, r *http.Request) {
	personID, err := domain.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req catRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	cat, err := h.persons.AddCat(r.Context(), middleware.GetCaller(r.Context()), personID, req.toParams())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, cat)
}

func (h *Handler) handleUpdateCat(w http.ResponseWriter, r *http.Request) {
	personID, err := domain.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	catID, err := domain.ParseCatID(chi.URLParam(r, "catID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req catRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	cat, err := h.persons.UpdateCat(r.Context(), middleware.GetCaller(r.Context()), personID, catID, req.toParams())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cat)
}

func (h *Handler) handleRemoveCat(w http.ResponseWriter, r *http.Request) {
	personID, err := domain.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	catID, err := domain.ParseCatID(chi.URLParam(r, "catID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.persons.RemoveCat(r.Context(), middleware.GetCaller(r.Context()), personID, catID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
