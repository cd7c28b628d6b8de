package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/nimbus-crew/rosterd/backend/internal/config"
	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"github.com/nimbus-crew/rosterd/backend/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	adminOnly := h.RequiredRole([]domain.Role{domain.RoleAdmin})

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		// 员工自助登记
		r.Route("/my-registrations", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyRegistrations)
			r.With(h.preventInactiveUser).Post("/week-plan", h.SubmitWeekPlan)
		})

		// 审批和管理员直接写入路径
		r.Route("/registrations", func(r chi.Router) {
			r.Use(adminOnly)
			r.Use(h.myInfo)
			r.Get("/", h.ListRegistrations)
			r.Post("/bulk-approve", h.BulkApprove)
			r.Post("/bulk-reject", h.BulkRejectForUser)
			r.Post("/quick-add", h.QuickAddRegistration)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.registrationInfo)
				r.Post("/approve", h.ApproveRegistration)
				r.Post("/reject", h.RejectRegistration)
				r.Patch("/", h.QuickEditRegistration)
				r.Delete("/", h.QuickDeleteRegistration)
			})
		})

		// 周班表聚合视图，所有登录用户可见
		r.Get("/schedule", h.GetWeekSchedule)

		r.Route("/quota-policy", func(r chi.Router) {
			r.Get("/", h.GetQuotaPolicy)
			r.With(adminOnly).Patch("/", h.UpdateQuotaPolicy)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(adminOnly).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo) // 员工可以看到同事的基本信息，用于班表展示
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(adminOnly).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(adminOnly).Delete("/", h.DeleteUser)
				r.With(adminOnly).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/work-shifts", func(r chi.Router) {
			r.With(adminOnly).Post("/", h.CreateWorkShift)
			r.Get("/", h.GetAllWorkShifts)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.workShiftInfo)
				r.Get("/", h.GetWorkShift)
				r.With(adminOnly).Patch("/", h.UpdateWorkShift)
				r.With(adminOnly).Delete("/", h.DeleteWorkShift)
			})
		})

		r.Route("/positions", func(r chi.Router) {
			r.With(adminOnly).Post("/", h.CreatePosition)
			r.Get("/", h.GetAllPositions)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.positionInfo)
				r.Get("/", h.GetPosition)
				r.With(adminOnly).Patch("/", h.UpdatePosition)
				r.With(adminOnly).Delete("/", h.DeletePosition)
			})
		})
	})
}
