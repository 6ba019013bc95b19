package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/victorstella/desafio-mailerweb-ino/internal/application"
	"github.com/victorstella/desafio-mailerweb-ino/internal/logging"
)

var (
	errBadRequestBody   = errors.New("Formato de requisição inválido.")
	errInvalidRoomID    = errors.New("Identificador de sala inválido.")
	errInvalidBookingID = errors.New("Identificador de reserva inválido.")
	errMissingToken     = errors.New("As credenciais de autenticação não foram fornecidas.")
	errInvalidToken     = errors.New("Token inválido.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	detail := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			detail = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Detail: detail})
}

// handleServiceError maps application sentinels and validation errors onto the
// API's status codes and Portuguese user facing messages.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Detail: errInvalidToken.Error()})
	case errors.Is(err, application.ErrRoomNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Detail: "Sala não encontrada."})
	case errors.Is(err, application.ErrBookingNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Detail: "Reserva não encontrada."})
	case errors.Is(err, application.ErrOverlap):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			Detail: "Já existe uma reserva ativa que se sobrepõe a este período.",
		})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Detail: "Já existe uma sala com este nome."})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
				Detail: "Dados inválidos.",
				Errors: localizeValidationErrors(vErr),
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Detail: "Erro interno do servidor."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Dados inválidos."
	case http.StatusUnauthorized:
		return "As credenciais de autenticação não foram fornecidas."
	case http.StatusNotFound:
		return "Não encontrado."
	case http.StatusConflict:
		return "A requisição conflita com o estado atual do recurso."
	default:
		return "Erro interno do servidor."
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "name is required":
		return "O nome da sala é obrigatório."
	case "name must be at most 60 characters":
		return "O nome da sala deve ter no máximo 60 caracteres."
	case "capacity must be positive":
		return "A capacidade deve ser um número inteiro positivo."
	case "title is required":
		return "O título é obrigatório."
	case "title must be at most 120 characters":
		return "O título deve ter no máximo 120 caracteres."
	case "start and end are required":
		return "É necessário definir horários de início e término."
	case "start must be before end":
		return "O horário de início deve ser anterior ao de término."
	case "duration must be at least 15 minutes":
		return "A duração mínima é de 15 minutos."
	case "duration must be at most 8 hours":
		return "A duração máxima é de 8 horas."
	default:
		return message
	}
}

type errorResponse struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}
