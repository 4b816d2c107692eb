package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rehome/internal/advert/models"
	"rehome/internal/advert/store/thumbnail"
	"rehome/internal/audit"
	"rehome/internal/events"
	personmodels "rehome/internal/person/models"
	"rehome/internal/platform/metrics"
	"rehome/internal/platform/middleware"
	"rehome/internal/uow"
	"rehome/pkg/domain"
	dErrors "rehome/pkg/domain-errors"
	"rehome/pkg/platform/sentinel"
)

// AdvertisementStore is the read surface for advertisements. Writes go
// through the unit of work.
type AdvertisementStore interface {
	GetByID(ctx context.Context, id domain.AdvertisementID) (*models.Advertisement, error)
	ListByPersonID(ctx context.Context, personID domain.PersonID) ([]*models.Advertisement, error)
	ListActiveExpiringBefore(ctx context.Context, now time.Time) ([]*models.Advertisement, error)
}

// PersonStore loads the owner aggregate. Cat assignment always happens
// through the owner, never by writing cat rows directly.
type PersonStore interface {
	GetByID(ctx context.Context, id domain.PersonID) (*personmodels.Person, error)
}

// ThumbnailStore holds uploaded advertisement images.
type ThumbnailStore interface {
	Put(ctx context.Context, id domain.AdvertisementID, img thumbnail.Image) error
	Get(ctx context.Context, id domain.AdvertisementID) (thumbnail.Image, error)
	Exists(ctx context.Context, id domain.AdvertisementID) (bool, error)
	Remove(ctx context.Context, id domain.AdvertisementID) error
}

// ChangeSaver commits aggregate changes atomically and dispatches the events
// they raised.
type ChangeSaver interface {
	Save(ctx context.Context, change uow.Change) (int, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

const (
	maxThumbnailBytes = 2 << 20
)

var allowedThumbnailTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Service orchestrates the advertisement lifecycle.
type Service struct {
	adverts    AdvertisementStore
	persons    PersonStore
	thumbnails ThumbnailStore
	saver      ChangeSaver

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	now            func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service.
func New(adverts AdvertisementStore, persons PersonStore, thumbnails ThumbnailStore, saver ChangeSaver, opts ...Option) *Service {
	s := &Service{
		adverts:    adverts,
		persons:    persons,
		thumbnails: thumbnails,
		saver:      saver,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the raw advertisement input. Contact details left
// empty fall back to the owner's stored defaults.
type CreateParams struct {
	CatIDs      []domain.CatID
	Description string
	Address     domain.PickupAddress
	Email       string
	Phone       string
}

func (s *Service) Create(ctx context.Context, caller domain.Caller, ownerID domain.PersonID, params CreateParams) (*models.Advertisement, error) {
	if !caller.CanMutate(ownerID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to publish for this person")
	}
	person, err := s.loadPerson(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	email, phone, err := resolveContacts(person, params.Email, params.Phone)
	if err != nil {
		return nil, err
	}
	address := params.Address
	if address.IsZero() {
		address = person.DefaultPickupAddress
	}

	now := s.now()
	advert, err := models.New(domain.NewAdvertisementID(), person, params.CatIDs,
		params.Description, address, email, phone, now)
	if err != nil {
		return nil, err
	}

	change := uow.Change{
		UpdatePersons:        []*personmodels.Person{person},
		InsertAdvertisements: []*models.Advertisement{advert},
	}
	if _, err := s.saver.Save(ctx, change); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create advertisement")
	}

	s.logAudit(ctx, audit.ActionAdvertisementCreated, caller,
		"advertisement_id", advert.ID, "person_id", ownerID)
	if s.metrics != nil {
		s.metrics.AdvertisementsCreated.Inc()
	}
	return advert, nil
}

func resolveContacts(person *personmodels.Person, rawEmail, rawPhone string) (domain.EmailAddress, domain.PhoneNumber, error) {
	email := person.DefaultAdvertEmail
	if rawEmail != "" {
		var err error
		if email, err = domain.ParseEmailAddress(rawEmail); err != nil {
			return "", "", err
		}
	}
	if email == "" {
		email = person.Email
	}

	phone := person.DefaultAdvertPhone
	if rawPhone != "" {
		var err error
		if phone, err = domain.ParsePhoneNumber(rawPhone); err != nil {
			return "", "", err
		}
	}
	if phone == "" {
		phone = person.Phone
	}
	return email, phone, nil
}

// Get returns the advertisement. Reads are public; the representation shown
// to a caller is shaped at the transport layer.
func (s *Service) Get(ctx context.Context, id domain.AdvertisementID) (*models.Advertisement, error) {
	return s.loadAdvert(ctx, id)
}

func (s *Service) ListByPerson(ctx context.Context, caller domain.Caller, personID domain.PersonID) ([]*models.Advertisement, error) {
	if !caller.CanMutate(personID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to list this person's advertisements")
	}
	adverts, err := s.adverts.ListByPersonID(ctx, personID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list advertisements")
	}
	return adverts, nil
}

// UpdateParams carries the mutable advertisement details.
type UpdateParams struct {
	Description string
	Address     domain.PickupAddress
	Email       string
	Phone       string
}

func (s *Service) Update(ctx context.Context, caller domain.Caller, id domain.AdvertisementID, params UpdateParams) (*models.Advertisement, error) {
	advert, err := s.loadAdvert(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanMutate(advert.PersonID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to modify this advertisement")
	}

	email, err := domain.ParseEmailAddress(params.Email)
	if err != nil {
		return nil, err
	}
	phone, err := domain.ParsePhoneNumber(params.Phone)
	if err != nil {
		return nil, err
	}
	if err := advert.UpdateDetails(params.Description, params.Address, email, phone, s.now()); err != nil {
		return nil, err
	}

	if _, err := s.saver.Save(ctx, uow.Change{UpdateAdvertisements: []*models.Advertisement{advert}}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save advertisement")
	}
	return advert, nil
}

// ReplaceCats swaps the advertisement's assigned cat set in one step and
// re-derives the priority score from the new set.
func (s *Service) ReplaceCats(ctx context.Context, caller domain.Caller, id domain.AdvertisementID, catIDs []domain.CatID) (*models.Advertisement, error) {
	advert, err := s.loadAdvert(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanMutate(advert.PersonID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to modify this advertisement")
	}
	person, err := s.loadPerson(ctx, advert.PersonID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, catID := range person.AssignedCatIDs(advert.ID) {
		if err := person.UnassignCatFromAdvertisement(catID); err != nil {
			return nil, err
		}
	}
	for _, catID := range catIDs {
		if err := person.AssignCatToAdvertisement(advert.ID, catID); err != nil {
			return nil, err
		}
	}
	score, err := person.HighestPriorityScore(person.AssignedCatIDs(advert.ID))
	if err != nil {
		return nil, err
	}
	if err := advert.SetPriorityScore(score, now); err != nil {
		return nil, err
	}

	change := uow.Change{
		UpdatePersons:        []*personmodels.Person{person},
		UpdateAdvertisements: []*models.Advertisement{advert},
	}
	if _, err := s.saver.Save(ctx, change); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save advertisement")
	}
	return advert, nil
}

// Close ends the advertisement after a successful adoption. The raised event
// marks the assigned cats adopted once the close is committed.
func (s *Service) Close(ctx context.Context, caller domain.Caller, id domain.AdvertisementID) (*models.Advertisement, error) {
	advert, err := s.loadAdvert(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanMutate(advert.PersonID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to close this advertisement")
	}
	if err := advert.Close(s.now()); err != nil {
		return nil, err
	}

	if _, err := s.saver.Save(ctx, uow.Change{UpdateAdvertisements: []*models.Advertisement{advert}}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save advertisement")
	}

	s.logAudit(ctx, audit.ActionAdvertisementClosed, caller, "advertisement_id", id)
	if s.metrics != nil {
		s.metrics.AdvertisementsClosed.Inc()
	}
	return advert, nil
}

// Expire marks an overdue advertisement expired. Restricted to the job and
// admin roles; the scheduled sweep is the usual caller.
func (s *Service) Expire(ctx context.Context, caller domain.Caller, id domain.AdvertisementID) (*models.Advertisement, error) {
	if !caller.IsJob() && !caller.IsAdmin() {
		return nil, dErrors.New(dErrors.CodeForbidden, "expiring advertisements requires the job or admin role")
	}
	advert, err := s.loadAdvert(ctx, id)
	if err != nil {
		return nil, err
	}

	wasActive := advert.Status == models.StatusActive
	if err := advert.Expire(s.now()); err != nil {
		return nil, err
	}
	if !wasActive || advert.Status != models.StatusExpired {
		// Not yet due. Nothing changed, nothing to save.
		return advert, nil
	}

	if _, err := s.saver.Save(ctx, uow.Change{UpdateAdvertisements: []*models.Advertisement{advert}}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save advertisement")
	}

	s.logAudit(ctx, audit.ActionAdvertisementExpired, caller, "advertisement_id", id)
	if s.metrics != nil {
		s.metrics.AdvertisementsExpired.Inc()
	}
	return advert, nil
}

// SweepExpired expires every active advertisement whose deadline has passed
// and returns how many were expired.
func (s *Service) SweepExpired(ctx context.Context, caller domain.Caller) (int, error) {
	if !caller.IsJob() && !caller.IsAdmin() {
		return 0, dErrors.New(dErrors.CodeForbidden, "sweeping advertisements requires the job or admin role")
	}

	now := s.now()
	due, err := s.adverts.ListActiveExpiringBefore(ctx, now)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list overdue advertisements")
	}

	expired := 0
	for _, advert := range due {
		if err := advert.Expire(now); err != nil {
			s.logger.ErrorContext(ctx, "failed to expire advertisement",
				"advertisement_id", advert.ID.String(), "error", err)
			continue
		}
		if advert.Status != models.StatusExpired {
			continue
		}
		if _, err := s.saver.Save(ctx, uow.Change{UpdateAdvertisements: []*models.Advertisement{advert}}); err != nil {
			s.logger.ErrorContext(ctx, "failed to save expired advertisement",
				"advertisement_id", advert.ID.String(), "error", err)
			continue
		}
		expired++
		if s.metrics != nil {
			s.metrics.AdvertisementsExpired.Inc()
		}
	}

	s.logAudit(ctx, audit.ActionExpirySweep, caller, "expired", expired)
	return expired, nil
}

// Refresh extends the expiry window and reactivates an expired advertisement.
func (s *Service) Refresh(ctx context.Context, caller domain.Caller, id domain.AdvertisementID) (*models.Advertisement, error) {
	advert, err := s.loadAdvert(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanMutate(advert.PersonID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to refresh this advertisement")
	}
	if err := advert.Refresh(s.now()); err != nil {
		return nil, err
	}

	if _, err := s.saver.Save(ctx, uow.Change{UpdateAdvertisements: []*models.Advertisement{advert}}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save advertisement")
	}
	return advert, nil
}

// RecalculatePriorityScore re-derives the advertisement's score from the
// current state of its assigned cats. Invoked after a cat update.
func (s *Service) RecalculatePriorityScore(ctx context.Context, id domain.AdvertisementID) error {
	advert, err := s.loadAdvert(ctx, id)
	if err != nil {
		return err
	}
	person, err := s.loadPerson(ctx, advert.PersonID)
	if err != nil {
		return err
	}
	if err := advert.ValidateOwnership(person.ID); err != nil {
		return err
	}

	catIDs := person.AssignedCatIDs(advert.ID)
	if len(catIDs) == 0 {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("advertisement %s has no assigned cats", advert.ID))
	}
	score, err := person.HighestPriorityScore(catIDs)
	if err != nil {
		return err
	}
	if err := advert.SetPriorityScore(score, s.now()); err != nil {
		return err
	}

	if _, err := s.saver.Save(ctx, uow.Change{UpdateAdvertisements: []*models.Advertisement{advert}}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save advertisement")
	}
	return nil
}

// Delete removes the advertisement. The raised event releases the assigned
// cats on the owner side after the removal is committed.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id domain.AdvertisementID) error {
	advert, err := s.loadAdvert(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanMutate(advert.PersonID) {
		return dErrors.New(dErrors.CodeForbidden, "not allowed to delete this advertisement")
	}

	advert.AnnounceDeletion()

	if _, err := s.saver.Save(ctx, uow.Change{RemoveAdvertisements: []*models.Advertisement{advert}}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete advertisement")
	}
	if err := s.thumbnails.Remove(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove thumbnail",
			"advertisement_id", id.String(), "error", err)
	}
	s.logAudit(ctx, audit.ActionAdvertisementDeleted, caller, "advertisement_id", id)
	return nil
}

// UploadThumbnail stores the advertisement image, replacing any previous one.
func (s *Service) UploadThumbnail(ctx context.Context, caller domain.Caller, id domain.AdvertisementID, contentType string, data []byte) error {
	advert, err := s.loadAdvert(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanMutate(advert.PersonID) {
		return dErrors.New(dErrors.CodeForbidden, "not allowed to modify this advertisement")
	}
	if !allowedThumbnailTypes[contentType] {
		return dErrors.New(dErrors.CodeValidation, "thumbnail must be a JPEG, PNG or WebP image")
	}
	if len(data) == 0 {
		return dErrors.New(dErrors.CodeValidation, "thumbnail cannot be empty")
	}
	if len(data) > maxThumbnailBytes {
		return dErrors.New(dErrors.CodeValidation, "thumbnail exceeds the 2 MiB limit")
	}

	if err := s.thumbnails.Put(ctx, id, thumbnail.Image{ContentType: contentType, Data: data}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store thumbnail")
	}
	if s.metrics != nil {
		s.metrics.ThumbnailsUploaded.Inc()
	}
	return nil
}

func (s *Service) GetThumbnail(ctx context.Context, id domain.AdvertisementID) (thumbnail.Image, error) {
	img, err := s.thumbnails.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return thumbnail.Image{}, dErrors.New(dErrors.CodeNotFound, "thumbnail not uploaded")
		}
		return thumbnail.Image{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load thumbnail")
	}
	return img, nil
}

// HasThumbnail reports whether an image has been uploaded. Drives the
// hypermedia state shown to the owner.
func (s *Service) HasThumbnail(ctx context.Context, id domain.AdvertisementID) (bool, error) {
	ok, err := s.thumbnails.Exists(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check thumbnail")
	}
	return ok, nil
}

// HandlePersonDeleted takes down every advertisement the removed person
// still had published. Registered on the event dispatcher.
func (s *Service) HandlePersonDeleted(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.PersonDeleted)
	if !ok {
		return nil
	}
	adverts, err := s.adverts.ListByPersonID(ctx, ev.PersonID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list advertisements")
	}

	for _, advert := range adverts {
		if _, err := s.saver.Save(ctx, uow.Change{RemoveAdvertisements: []*models.Advertisement{advert}}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove advertisement")
		}
		if err := s.thumbnails.Remove(ctx, advert.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to remove thumbnail",
				"advertisement_id", advert.ID.String(), "error", err)
		}
	}
	return nil
}

func (s *Service) loadAdvert(ctx context.Context, id domain.AdvertisementID) (*models.Advertisement, error) {
	advert, err := s.adverts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "advertisement not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load advertisement")
	}
	return advert, nil
}

func (s *Service) loadPerson(ctx context.Context, id domain.PersonID) (*personmodels.Person, error) {
	person, err := s.persons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
	}
	return person, nil
}

func (s *Service) logAudit(ctx context.Context, action string, caller domain.Caller, attributes ...any) {
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", action, "log_type", "audit")
	s.logger.InfoContext(ctx, action, args...)

	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		PersonID: caller.PersonID.String(),
		Role:     caller.Role.String(),
		Action:   action,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err)
	}
}
