package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/callbacks/common"
	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleSessions обрабатывает команду /sessions
func (h *Handlers) HandleSessions(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	sessions, err := h.sessionService.ListUpcoming(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list upcoming sessions", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}
	h.sendSessions(ctx, b, update.Message.Chat.ID, user, sessions, "📅 Предстоящих занятий нет")
}

// HandleHistory обрабатывает команду /history
func (h *Handlers) HandleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	sessions, err := h.sessionService.ListPast(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list past sessions", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}
	h.sendSessions(ctx, b, update.Message.Chat.ID, user, sessions, "🗂 Прошедших занятий нет")
}

func (h *Handlers) sendSessions(ctx context.Context, b *bot.Bot, chatID int64, viewer *model.User, sessions []*model.TutoringSession, empty string) {
	if len(sessions) == 0 {
		h.sendMessage(ctx, b, chatID, empty)
		return
	}
	if len(sessions) > maxListed {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("Показаны первые %d из %d. Полный список: /export", maxListed, len(sessions)))
		sessions = sessions[:maxListed]
	}

	now := time.Now()
	loc := viewer.Location()
	for _, s := range sessions {
		h.send(ctx, b, chatID, common.SessionCard(s, viewer.ID, loc), common.SessionKeyboard(s, viewer.ID, now))
	}
}

// HandleExport обрабатывает команду /export - выгрузка занятий в xlsx
func (h *Handlers) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	var buf bytes.Buffer
	if err := h.reportService.ExportSessions(ctx, user.ID, &buf); err != nil {
		h.logger.Error("Failed to export sessions", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	_, err := b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: fmt.Sprintf("sessions-%s.xlsx", time.Now().Format("2006-01-02")),
			Data:     &buf,
		},
		Caption: "📊 Ваши занятия",
	})
	if err != nil {
		h.logger.Error("Failed to send export", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}
