package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/jiak99/tour-scheduler/backend/internal/config"
	"github.com/jiak99/tour-scheduler/backend/internal/daylock"
	"github.com/jiak99/tour-scheduler/backend/internal/domain"
	"github.com/jiak99/tour-scheduler/backend/internal/repository"
	"github.com/jiak99/tour-scheduler/backend/internal/scheduler"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	locker      *daylock.Locker
	rules       scheduler.Rules

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		locker:      daylock.NewLocker(rdb, time.Duration(cfg.Redis.LockExpiration)*time.Second),
		rules:       RulesFromConfig(cfg),

		Mux: chi.NewRouter(),
	}, nil
}

// RulesFromConfig binds the scheduling rule knobs to their configured values.
func RulesFromConfig(cfg *config.Config) scheduler.Rules {
	return scheduler.Rules{
		MinBufferMinutes:      cfg.Scheduling.MinBufferMinutes,
		LongBreakGapMinutes:   cfg.Scheduling.LongBreakGapMinutes,
		MaxToursPerDay:        cfg.Scheduling.MaxToursPerDay,
		MaxConsecutiveTours:   cfg.Scheduling.MaxConsecutiveTours,
		MinKitchenStaff:       cfg.Scheduling.MinKitchenStaff,
		MinServingStaff:       cfg.Scheduling.MinServingStaff,
		CoverageSampleMinutes: cfg.Scheduling.CoverageSampleMinutes,
	}
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// everything below requires a login
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/guides", func(r chi.Router) {
			r.Get("/", h.GetAllGuides)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateGuide)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.guideInfo)
				r.Get("/", h.GetGuide)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateGuide)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteGuide)
				r.Get("/availability", h.GetGuideAvailability)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Put("/availability", h.PutGuideAvailability)
			})
		})

		r.Route("/restaurant-staff", func(r chi.Router) {
			r.Get("/", h.GetAllRestaurantStaff)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateRestaurantStaff)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffInfo)
				r.Get("/", h.GetRestaurantStaff)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateRestaurantStaff)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteRestaurantStaff)
				r.Get("/availability", h.GetStaffAvailability)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Put("/availability", h.PutStaffAvailability)
			})
		})

		r.Route("/tour-slots", func(r chi.Router) {
			r.Get("/", h.GetAllTourSlots)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/generate", h.GenerateTourSlots)
		})

		r.Route("/tour-days", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/generate-month", h.GenerateTourMonth)
			r.Route("/{date}", func(r chi.Router) {
				r.Use(h.dateParam)
				r.Get("/", h.GetTourDay)
				r.Get("/validation", h.ValidateTourDay)
				r.Get("/can-publish", h.CanPublishTourDay)
				r.Group(func(r chi.Router) {
					r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
					r.Post("/", h.MaterializeTourDay)
					r.Put("/sessions/{sessionID}", h.UpdateTourSession)
					r.Put("/sessions/{sessionID}/assignment", h.AssignTourSession)
					r.Get("/sessions/{sessionID}/eligible-guides", h.GetEligibleGuides)
					r.Put("/standby", h.SetStandbyGuide)
					r.Post("/auto-assign", h.AutoAssignTourDay)
					r.Post("/clear", h.ClearTourDay)
					r.Post("/publish", h.PublishTourDay)
					r.Post("/unpublish", h.UnpublishTourDay)
				})
			})
		})

		r.Route("/restaurant-days", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/generate-month", h.GenerateRestaurantMonth)
			r.Route("/{date}", func(r chi.Router) {
				r.Use(h.dateParam)
				r.Get("/", h.GetRestaurantDay)
				r.Get("/validation", h.ValidateRestaurantDay)
				r.Get("/can-publish", h.CanPublishRestaurantDay)
				r.Group(func(r chi.Router) {
					r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
					r.Post("/", h.MaterializeRestaurantDay)
					r.Put("/shifts/{shiftID}/assignment", h.AssignStaffShift)
					r.Post("/auto-assign", h.AutoAssignRestaurantDay)
					r.Post("/clear", h.ClearRestaurantDay)
					r.Post("/publish", h.PublishRestaurantDay)
					r.Post("/unpublish", h.UnpublishRestaurantDay)
				})
			})
		})
	})
}
