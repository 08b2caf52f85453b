package web

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/dukex/ikas-actions/pkg/action"
	"github.com/dukex/ikas-actions/pkg/credentials"
	"github.com/dukex/ikas-actions/pkg/i18n"
	"github.com/dukex/ikas-actions/pkg/ikas"
)

// ActionPathPrefixes are the route prefixes answered with the action envelope.
var ActionPathPrefixes = []string{"/api/actions/", "/api/ikas/actions/"}

// classifyActionError turns any failure of an action request into an
// *action.Error. Locale is applied when err does not carry one.
func classifyActionError(err error, locale string) *action.Error {
	var actionErr *action.Error
	if errors.As(err, &actionErr) {
		if actionErr.Locale == "" && locale != "" {
			copied := *actionErr
			copied.Locale = locale

			return &copied
		}

		return actionErr
	}

	kind := action.KindInternal

	switch {
	case credentials.IsNotFound(err):
		kind = action.KindNotFound
	case errors.Is(err, ikas.ErrOrderNotFound):
		kind = action.KindNotFound
	case errors.Is(err, ikas.ErrUpstream):
		kind = action.KindUpstreamFailure
	}

	return &action.Error{Kind: kind, Locale: locale, Err: err}
}

// describeActionError returns the localized message key and the
// machine-oriented reason of err.
func describeActionError(err *action.Error) (i18n.Key, string) {
	switch {
	case errors.Is(err, action.ErrMissingFields):
		return i18n.ErrorMissingFields, "Missing required fields"
	case errors.Is(err, action.ErrMissingActionRunID):
		return i18n.ErrorMissingFields, "Missing actionRunId"
	case errors.Is(err, action.ErrMissingIDList):
		return i18n.ErrorMissingFields, "Missing idList"
	case errors.Is(err, action.ErrInvalidDataFormat):
		return i18n.ErrorFailed, "Invalid data format"
	case errors.Is(err, action.ErrSecretNotConfigured):
		return i18n.ErrorFailed, "Server configuration error"
	case errors.Is(err, action.ErrInvalidSignature):
		return i18n.ErrorInvalidSignature, "Invalid signature"
	case errors.Is(err, credentials.ErrNotFound):
		return i18n.ErrorUnauthorized, "Auth token not found"
	case errors.Is(err, ikas.ErrOrderNotFound):
		return i18n.ErrorOrderNotFound, "Order not found"
	case err.Kind == action.KindUpstreamFailure:
		return i18n.ErrorFailed, "Failed to fetch order"
	default:
		return i18n.ErrorFailed, "Failed to process action"
	}
}

func actionError(c fiber.Ctx, err *action.Error) error {
	key, reason := describeActionError(err)

	return c.Status(err.Kind.Status()).JSON(ActionErrorResponse{
		Success: false,
		Message: i18n.T(key, err.Locale),
		Error:   reason,
	})
}

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, problemType, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, problemType, detail string) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// dashboardLocale returns the locale of a dashboard request from its
// Accept-Language header.
func dashboardLocale(c fiber.Ctx) string {
	return string(i18n.FromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage)))
}

// handleServiceError maps order service errors of dashboard routes to
// problems with localized details. failed is the message of upstream and
// internal failures.
func handleServiceError(c fiber.Ctx, err error, failed i18n.Key) error {
	locale := dashboardLocale(c)

	switch {
	case credentials.IsNotFound(err):
		return notFound(c, "credential_not_found", i18n.T(i18n.ErrorUnableToAuthenticate, locale))
	case errors.Is(err, ikas.ErrOrderNotFound):
		return notFound(c, "order_not_found", i18n.T(i18n.ErrorDashboardOrderNotFound, locale))
	case errors.Is(err, ikas.ErrUpstream):
		return internalError(c, "upstream_failure", i18n.T(failed, locale))
	default:
		return internalError(c, "internal_error", i18n.T(failed, locale))
	}
}

func isActionPath(path string) bool {
	for _, prefix := range ActionPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// ErrorHandler is the fiber error handler. Errors escaping action routes
// (including recovered panics) keep the action envelope; other routes get a
// problem document.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
			if isActionPath(c.Path()) {
				return c.Status(fiberErr.Code).JSON(ActionErrorResponse{
					Success: false,
					Message: i18n.T(i18n.ErrorFailed, ""),
					Error:   fiberErr.Message,
				})
			}

			problem := problems.NewStatusProblem(fiberErr.Code).
				WithInstance(c.Path()).
				WithDetail(fiberErr.Message)

			return c.Status(fiberErr.Code).JSON(problem)
		}

		logger.ErrorContext(c.Context(), "Unhandled request error", "path", c.Path(), "error", err)

		if isActionPath(c.Path()) {
			return actionError(c, &action.Error{Kind: action.KindInternal, Err: err})
		}

		problem := problems.NewStatusProblem(500).
			WithInstance(c.Path()).
			WithType("internal_error").
			WithDetail("unexpected error")

		return c.Status(fiber.StatusInternalServerError).JSON(problem)
	}
}
