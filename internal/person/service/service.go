package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rehome/internal/audit"
	"rehome/internal/events"
	"rehome/internal/person/models"
	"rehome/internal/platform/metrics"
	"rehome/internal/platform/middleware"
	"rehome/internal/uow"
	"rehome/pkg/domain"
	dErrors "rehome/pkg/domain-errors"
	"rehome/pkg/platform/sentinel"
)

// PersonStore is the read surface for person aggregates. Writes go through
// the unit of work.
type PersonStore interface {
	GetByID(ctx context.Context, id domain.PersonID) (*models.Person, error)
	GetByIdentityID(ctx context.Context, identityID string) (*models.Person, error)
}

// ChangeSaver commits aggregate changes atomically and dispatches the events
// they raised.
type ChangeSaver interface {
	Save(ctx context.Context, change uow.Change) (int, error)
}

// AdvertRescorer re-derives an advertisement's priority score from the
// current state of its assigned cats. Implemented by the advertisement
// service; consumed here so cat updates can propagate without a package
// cycle.
type AdvertRescorer interface {
	RecalculatePriorityScore(ctx context.Context, advertID domain.AdvertisementID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service orchestrates person registration, cat management and profile
// defaults.
type Service struct {
	persons  PersonStore
	saver    ChangeSaver
	calc     models.PriorityCalculator
	rescorer AdvertRescorer

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
func New(persons PersonStore, saver ChangeSaver, calc models.PriorityCalculator, rescorer AdvertRescorer, opts ...Option) *Service {
	s := &Service{
		persons:  persons,
		saver:    saver,
		calc:     calc,
		rescorer: rescorer,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterParams carries the raw registration input. Value objects are
// parsed here so handlers stay thin.
type RegisterParams struct {
	IdentityID string
	Nickname   string
	Email      string
	Phone      string
	Role       string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.Person, error) {
	email, err := domain.ParseEmailAddress(params.Email)
	if err != nil {
		return nil, err
	}
	phone, err := domain.ParsePhoneNumber(params.Phone)
	if err != nil {
		return nil, err
	}
	role := domain.RoleUser
	if params.Role != "" {
		if role, err = domain.ParseRole(params.Role); err != nil {
			return nil, err
		}
	}

	person, err := models.NewPerson(domain.NewPersonID(), params.IdentityID, params.Nickname, email, phone, role, s.now())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if _, err := s.saver.Save(ctx, uow.Change{InsertPersons: []*models.Person{person}}); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "person already registered for this identity")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register person")
	}

	s.logAudit(ctx, audit.ActionPersonRegistered, person.ID.String(), "person_id", person.ID)
	if s.metrics != nil {
		s.metrics.PersonsRegistered.Inc()
	}
	return person, nil
}

func (s *Service) Get(ctx context.Context, caller domain.Caller, id domain.PersonID) (*models.Person, error) {
	if !caller.CanMutate(id) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to view this person")
	}
	return s.load(ctx, id)
}

// GetByIdentity resolves the person bound to an external identity. Used by
// login flows to map tokens onto profiles.
func (s *Service) GetByIdentity(ctx context.Context, identityID string) (*models.Person, error) {
	person, err := s.persons.GetByIdentityID(ctx, identityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
	}
	return person, nil
}

func (s *Service) SetAdvertisementDefaults(ctx context.Context, caller domain.Caller, id domain.PersonID, address domain.PickupAddress, email domain.EmailAddress, phone domain.PhoneNumber) (*models.Person, error) {
	if !caller.CanMutate(id) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to modify this person")
	}
	person, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	person.SetAdvertisementDefaults(address, email, phone, s.now())

	if _, err := s.saver.Save(ctx, uow.Change{UpdatePersons: []*models.Person{person}}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save person")
	}
	return person, nil
}

// CatParams carries raw cat attribute input; enums are parsed here.
type CatParams struct {
	Name                   string
	AdditionalRequirements string
	MedicalHelpUrgency     string
	AgeCategory            string
	Behavior               string
	HealthStatus           string
	IsCastrated            bool
}

type catAttributes struct {
	urgency  models.MedicalHelpUrgency
	age      models.AgeCategory
	behavior models.Behavior
	health   models.HealthStatus
}

func parseCatAttributes(params CatParams) (catAttributes, error) {
	var attrs catAttributes
	var err error
	if attrs.urgency, err = models.ParseMedicalHelpUrgency(params.MedicalHelpUrgency); err != nil {
		return attrs, err
	}
	if attrs.age, err = models.ParseAgeCategory(params.AgeCategory); err != nil {
		return attrs, err
	}
	if attrs.behavior, err = models.ParseBehavior(params.Behavior); err != nil {
		return attrs, err
	}
	if attrs.health, err = models.ParseHealthStatus(params.HealthStatus); err != nil {
		return attrs, err
	}
	return attrs, nil
}

func (s *Service) AddCat(ctx context.Context, caller domain.Caller, personID domain.PersonID, params CatParams) (*models.Cat, error) {
	if !caller.CanMutate(personID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to modify this person")
	}
	attrs, err := parseCatAttributes(params)
	if err != nil {
		return nil, err
	}
	person, err := s.load(ctx, personID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cat, err := models.NewCat(domain.NewCatID(), params.Name, params.AdditionalRequirements,
		attrs.urgency, attrs.age, attrs.behavior, attrs.health, params.IsCastrated, s.calc, now)
	if err != nil {
		return nil, err
	}
	if err := person.AddCat(cat); err != nil {
		return nil, err
	}

	if _, err := s.saver.Save(ctx, uow.Change{UpdatePersons: []*models.Person{person}}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save person")
	}
	if s.metrics != nil {
		s.metrics.CatsRegistered.Inc()
	}
	return cat, nil
}

// UpdateCat replaces a cat's attributes, recomputes its priority score and
// propagates the change to the advertisement the cat is assigned to, if any.
func (s *Service) UpdateCat(ctx context.Context, caller domain.Caller, personID domain.PersonID, catID domain.CatID, params CatParams) (*models.Cat, error) {
	if !caller.CanMutate(personID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to modify this person")
	}
	attrs, err := parseCatAttributes(params)
	if err != nil {
		return nil, err
	}
	person, err := s.load(ctx, personID)
	if err != nil {
		return nil, err
	}
	cat, err := person.Cat(catID)
	if err != nil {
		return nil, err
	}

	err = cat.UpdateAttributes(params.AdditionalRequirements,
		attrs.urgency, attrs.age, attrs.behavior, attrs.health, params.IsCastrated, s.calc, s.now())
	if err != nil {
		return nil, err
	}

	if _, err := s.saver.Save(ctx, uow.Change{UpdatePersons: []*models.Person{person}}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save person")
	}

	if cat.AdvertisementID != nil && s.rescorer != nil {
		if err := s.rescorer.RecalculatePriorityScore(ctx, *cat.AdvertisementID); err != nil {
			s.logger.ErrorContext(ctx, "failed to rescore advertisement after cat update",
				"advertisement_id", cat.AdvertisementID.String(),
				"cat_id", catID.String(),
				"error", err,
			)
		}
	}
	return cat, nil
}

func (s *Service) RemoveCat(ctx context.Context, caller domain.Caller, personID domain.PersonID, catID domain.CatID) error {
	if !caller.CanMutate(personID) {
		return dErrors.New(dErrors.CodeForbidden, "not allowed to modify this person")
	}
	person, err := s.load(ctx, personID)
	if err != nil {
		return err
	}
	if err := person.RemoveCat(catID); err != nil {
		return err
	}

	if _, err := s.saver.Save(ctx, uow.Change{UpdatePersons: []*models.Person{person}}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save person")
	}
	return nil
}

// Delete removes the person. The raised event lets the advertisement side
// take down everything the person still had published.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, personID domain.PersonID) error {
	if !caller.CanMutate(personID) {
		return dErrors.New(dErrors.CodeForbidden, "not allowed to delete this person")
	}
	person, err := s.load(ctx, personID)
	if err != nil {
		return err
	}

	person.AnnounceDeletion()

	if _, err := s.saver.Save(ctx, uow.Change{RemovePersons: []*models.Person{person}}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete person")
	}
	s.logAudit(ctx, audit.ActionPersonDeleted, caller.PersonID.String(), "person_id", personID)
	return nil
}

// HandleAdvertisementClosed marks the closed advertisement's cats adopted.
// Registered on the event dispatcher.
func (s *Service) HandleAdvertisementClosed(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.AdvertisementClosed)
	if !ok {
		return nil
	}
	person, err := s.load(ctx, ev.PersonID)
	if err != nil {
		return err
	}

	person.MarkAssignedCatsAdopted(ev.AdvertisementID, s.now())

	if _, err := s.saver.Save(ctx, uow.Change{UpdatePersons: []*models.Person{person}}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save person")
	}
	return nil
}

// HandleAdvertisementDeleted releases the cats that were assigned to the
// removed advertisement. Registered on the event dispatcher.
func (s *Service) HandleAdvertisementDeleted(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.AdvertisementDeleted)
	if !ok {
		return nil
	}
	person, err := s.load(ctx, ev.PersonID)
	if err != nil {
		// The owner may already be gone when the delete cascades from
		// a person removal.
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil
		}
		return err
	}

	person.UnassignCatsFromRemovedAdvertisement(ev.AdvertisementID, s.now())

	if _, err := s.saver.Save(ctx, uow.Change{UpdatePersons: []*models.Person{person}}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save person")
	}
	return nil
}

func (s *Service) load(ctx context.Context, id domain.PersonID) (*models.Person, error) {
	person, err := s.persons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
	}
	return person, nil
}

func (s *Service) logAudit(ctx context.Context, action string, actorID string, attributes ...any) {
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", action, "log_type", "audit")
	s.logger.InfoContext(ctx, action, args...)

	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		PersonID: actorID,
		Action:   action,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err)
	}
}
