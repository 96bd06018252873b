package api

import (
	"context"
	"net/http"

	"connekt/internal/middle"
	"connekt/models"
	"connekt/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/swag"
	"go.uber.org/zap"
)

type SendMailRequest struct {
	RecipientUsername string `json:"recipientUsername"`
	Subject           string `json:"subject"`
	Body              string `json:"body"`
}

type ListMailResponse struct {
	Mails []models.MailMessage `json:"mails"`
}

func handleSendMail(mail service.MailService, identity service.IdentityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middle.CallerID(r.Context())
		if caller == "" {
			writeError(w, errUnauthenticated)
			return
		}
		var req SendMailRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.RecipientUsername == "" {
			writeError(w, service.Invalid("recipientUsername is required"))
			return
		}

		profile, err := identity.GetProfile(r.Context(), caller)
		if err != nil {
			logger.Error("failed to load sender profile", zap.String("uid", caller), zap.Error(err))
			writeError(w, err)
			return
		}
		sender := service.Sender{ID: caller}
		if profile != nil {
			sender.Username = swag.StringValue(profile.Username)
			sender.Name = profile.DisplayName
		}
		logger.Info("received send mail request", zap.String("sender_id", caller), zap.String("recipient", req.RecipientUsername))

		if err := mail.Send(r.Context(), sender, req.RecipientUsername, req.Subject, req.Body); err != nil {
			logger.Error("failed to send mail", zap.String("sender_id", caller), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse)
	}
}

func handleInbox(mail service.MailService, logger *zap.Logger) http.HandlerFunc {
	return handleMailFolder(mail.Inbox, logger)
}

func handleSent(mail service.MailService, logger *zap.Logger) http.HandlerFunc {
	return handleMailFolder(mail.Sent, logger)
}

func handleMailFolder(list func(ctx context.Context, uid string) ([]models.MailMessage, error), logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middle.CallerID(r.Context())
		if caller == "" {
			writeError(w, errUnauthenticated)
			return
		}
		mails, err := list(r.Context(), caller)
		if err != nil {
			logger.Error("failed to list mail", zap.String("uid", caller), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ListMailResponse{Mails: mails})
	}
}

func handleMarkRead(mail service.MailService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if middle.CallerID(r.Context()) == "" {
			writeError(w, errUnauthenticated)
			return
		}

		mailID := chi.URLParam(r, "mailId")
		if err := mail.MarkAsRead(r.Context(), mailID); err != nil {
			logger.Error("failed to mark mail read", zap.String("mail_id", mailID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse)
	}
}
