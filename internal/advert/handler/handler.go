package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rehome/internal/advert/models"
	"rehome/internal/advert/service"
	"rehome/internal/advert/store/thumbnail"
	"rehome/internal/links"
	"rehome/internal/platform/middleware"
	"rehome/pkg/domain"
	dErrors "rehome/pkg/domain-errors"
	"rehome/pkg/platform/httputil"
)

// Service defines the advertisement operations the handler exposes.
type Service interface {
	Create(ctx context.Context, caller domain.Caller, ownerID domain.PersonID, params service.CreateParams) (*models.Advertisement, error)
	Get(ctx context.Context, id domain.AdvertisementID) (*models.Advertisement, error)
	ListByPerson(ctx context.Context, caller domain.Caller, personID domain.PersonID) ([]*models.Advertisement, error)
	Update(ctx context.Context, caller domain.Caller, id domain.AdvertisementID, params service.UpdateParams) (*models.Advertisement, error)
	ReplaceCats(ctx context.Context, caller domain.Caller, id domain.AdvertisementID, catIDs []domain.CatID) (*models.Advertisement, error)
	Close(ctx context.Context, caller domain.Caller, id domain.AdvertisementID) (*models.Advertisement, error)
	Expire(ctx context.Context, caller domain.Caller, id domain.AdvertisementID) (*models.Advertisement, error)
	SweepExpired(ctx context.Context, caller domain.Caller) (int, error)
	Refresh(ctx context.Context, caller domain.Caller, id domain.AdvertisementID) (*models.Advertisement, error)
	Delete(ctx context.Context, caller domain.Caller, id domain.AdvertisementID) error
	UploadThumbnail(ctx context.Context, caller domain.Caller, id domain.AdvertisementID, contentType string, data []byte) error
	GetThumbnail(ctx context.Context, id domain.AdvertisementID) (thumbnail.Image, error)
	HasThumbnail(ctx context.Context, id domain.AdvertisementID) (bool, error)
}

// Handler handles advertisement endpoints.
type Handler struct {
	logger  *slog.Logger
	adverts Service
	tokens  middleware.TokenValidator
}

// New creates a new advertisement Handler.
func New(adverts Service, logger *slog.Logger, tokens middleware.TokenValidator) *Handler {
	return &Handler{
		logger:  logger,
		adverts: adverts,
		tokens:  tokens,
	}
}

// Register registers the advertisement routes with the chi router.
// Process-wide middleware (recovery, request ids, logging) is mounted by the
// caller.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(g chi.Router) {
		g.Use(middleware.Timeout(30 * time.Second))

		// Public reads. The caller, when present, shapes the hypermedia links.
		g.Group(func(p chi.Router) {
			p.Use(middleware.OptionalAuth(h.tokens, h.logger))
			p.Get("/advertisements/{advertisementID}", h.handleGet)
			p.Get("/advertisements/{advertisementID}/thumbnail", h.handleGetThumbnail)
		})

		g.Group(func(a chi.Router) {
			a.Use(middleware.RequireAuth(h.tokens, h.logger))
			a.Put("/advertisements/{advertisementID}/thumbnail", h.handleUploadThumbnail)

			a.Group(func(j chi.Router) {
				j.Use(middleware.ContentTypeJSON)
				j.Post("/advertisements", h.handleCreate)
				j.Put("/advertisements/{advertisementID}", h.handleUpdate)
				j.Delete("/advertisements/{advertisementID}", h.handleDelete)
				j.Put("/advertisements/{advertisementID}/cats", h.handleReplaceCats)
				j.Post("/advertisements/{advertisementID}/close", h.handleClose)
				j.Post("/advertisements/{advertisementID}/expire", h.handleExpire)
				j.Post("/advertisements/{advertisementID}/refresh", h.handleRefresh)
				j.Post("/advertisements/sweep", h.handleSweep)
				j.Get("/persons/{personID}/advertisements", h.handleListByPerson)
			})
		})
	})
}

type createRequest struct {
	CatIDs        []string       `json:"cat_ids"`
	Description   string         `json:"description,omitempty"`
	PickupAddress addressPayload `json:"pickup_address"`
	Email         string         `json:"email,omitempty"`
	Phone         string         `json:"phone,omitempty"`
}

type updateRequest struct {
	Description   string         `json:"description,omitempty"`
	PickupAddress addressPayload `json:"pickup_address"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
}

type replaceCatsRequest struct {
	CatIDs []string `json:"cat_ids"`
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

type advertisementResponse struct {
	*models.Advertisement
	Links []links.Link `json:"_links"`
}

type sweepResponse struct {
	Expired int `json:"expired"`
}

func parseCatIDs(raw []string) ([]domain.CatID, error) {
	ids := make([]domain.CatID, 0, len(raw))
	for _, s := range raw {
		id, err := domain.ParseCatID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// advertisementResponse embeds the hypermedia links for the caller's view of
// the advertisement in its current lifecycle state.
func (h *Handler) advertisementResponse(r *http.Request, advert *models.Advertisement) advertisementResponse {
	caller := middleware.GetCaller(r.Context())
	state := links.State(advert.Status)
	if advert.Status == models.StatusActive && caller.CanMutate(advert.PersonID) {
		if ok, err := h.adverts.HasThumbnail(r.Context(), advert.ID); err == nil && !ok {
			state = links.StateThumbnailNotUploaded
		}
	}
	basePath := "/advertisements/" + advert.ID.String()
	return advertisementResponse{
		Advertisement: advert,
		Links:         links.Generate(links.KindAdvertisement, state, basePath, advert.PersonID, caller),
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "invalid create advertisement request",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	catIDs, err := parseCatIDs(req.CatIDs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	address, err := req.PickupAddress.toDomain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	caller := middleware.GetCaller(r.Context())
	advert, err := h.adverts.Create(r.Context(), caller, caller.PersonID, service.CreateParams{
		CatIDs:      catIDs,
		Description: req.Description,
		Address:     address,
		Email:       req.Email,
		Phone:       req.Phone,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, h.advertisementResponse(r, advert))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	advertID, err := domain.ParseAdvertisementID(chi.URLParam(r, "advertisementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	advert, err := h.adverts.Get(r.Context(), advertID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.advertisementResponse(r, advert))
}

func (h *Handler) handleListByPerson(w http.ResponseWriter, r *http.Request) {
	personID, err := domain.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	adverts, err := h.adverts.ListByPerson(r.Context(), middleware.GetCaller(r.Context()), personID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]advertisementResponse, 0, len(adverts))
	for _, advert := range adverts {
		out = append(out, h.advertisementResponse(r, advert))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	advertID, err := domain.ParseAdvertisementID(chi.URLParam(r, "advertisementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	address, err := req.PickupAddress.toDomain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	advert, err := h.adverts.Update(r.Context(), middleware.GetCaller(r.Context()), advertID, service.UpdateParams{
		Description: req.Description,
		Address:     address,
		Email:       req.Email,
		Phone:       req.Phone,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.advertisementResponse(r, advert))
}

func (h *Handler) handleReplaceCats(w http.ResponseWriter, r *http.Request) {
	advertID, err := domain.ParseAdvertisementID(chi.URLParam(r, "advertisementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req replaceCatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	catIDs, err := parseCatIDs(req.CatIDs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	advert, err := h.adverts.ReplaceCats(r.Context(), middleware.GetCaller(r.Context()), advertID, catIDs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.advertisementResponse(r, advert))
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.adverts.Close)
}

func (h *Handler) handleExpire(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.adverts.Expire)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.adverts.Refresh)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, domain.Caller, domain.AdvertisementID) (*models.Advertisement, error)) {
	advertID, err := domain.ParseAdvertisementID(chi.URLParam(r, "advertisementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	advert, err := op(r.Context(), middleware.GetCaller(r.Context()), advertID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.advertisementResponse(r, advert))
}

func (h *Handler) handleSweep(w http.ResponseWriter, r *http.Request) {
	expired, err := h.adverts.SweepExpired(r.Context(), middleware.GetCaller(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sweepResponse{Expired: expired})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	advertID, err := domain.ParseAdvertisementID(chi.URLParam(r, "advertisementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.adverts.Delete(r.Context(), middleware.GetCaller(r.Context()), advertID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUploadThumbnail(w http.ResponseWriter, r *http.Request) {
	advertID, err := domain.ParseAdvertisementID(chi.URLParam(r, "advertisementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read request body"))
		return
	}

	err = h.adverts.UploadThumbnail(r.Context(), middleware.GetCaller(r.Context()), advertID,
		r.Header.Get("Content-Type"), data)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetThumbnail(w http.ResponseWriter, r *http.Request) {
	advertID, err := domain.ParseAdvertisementID(chi.URLParam(r, "advertisementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	img, err := h.adverts.GetThumbnail(r.Context(), advertID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write thumbnail response",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
	}
}
