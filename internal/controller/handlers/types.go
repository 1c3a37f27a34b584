package handlers

import (
	"github.com/Freeeeeet/peer_tutoring/internal/controller/state"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService    *service.UserService
	requestService *service.RequestService
	sessionService *service.SessionService
	reviewService  *service.ReviewService
	alertService   *service.AlertService
	messageService *service.MessageService
	reportService  *service.ReportService
	stateManager   *state.Manager
	logger         *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	requestService *service.RequestService,
	sessionService *service.SessionService,
	reviewService *service.ReviewService,
	alertService *service.AlertService,
	messageService *service.MessageService,
	reportService *service.ReportService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:    userService,
		requestService: requestService,
		sessionService: sessionService,
		reviewService:  reviewService,
		alertService:   alertService,
		messageService: messageService,
		reportService:  reportService,
		stateManager:   stateManager,
		logger:         logger,
	}
}
