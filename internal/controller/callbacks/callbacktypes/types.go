package callbacktypes

import (
	"github.com/Freeeeeet/peer_tutoring/internal/controller/state"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"go.uber.org/zap"
)

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	Start(telegramID int64, state state.UserState, data map[string]interface{})
	ClearState(telegramID int64)
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService    *service.UserService
	RequestService *service.RequestService
	SessionService *service.SessionService
	ReviewService  *service.ReviewService
	AlertService   *service.AlertService
	MessageService *service.MessageService
	StateManager   StateManager
	Logger         *zap.Logger
}
