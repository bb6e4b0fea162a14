package prospect

import (
	"errors"
	"strings"
	"unicode/utf8"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

const (
	msgInvalidList     = "La lista está vacía o el ID es incorrecto"
	msgNoMatches       = "No se encontraron registros con los criterios indicados"
	msgRateLimited     = "Se alcanzó el límite de peticiones o de créditos del directorio"
	msgUpstream        = "Error de comunicación con el directorio"
	msgNoActiveSession = "No hay una sesión de importación activa"

	msgEnrichmentStopped = "Enriquecimiento detenido, el resto de registros se importó sin enriquecer"
)

// FailureMessage turns an error into the operator-facing text stored on the job.
// The cases stay distinct so the history tells apart a wrong list id, an upstream
// outage, a credit limit and a lost session.
func FailureMessage(err error) string {
	var (
		listErr     *domain.InvalidListError
		rateErr     *domain.RateLimitedError
		upstreamErr *domain.UpstreamError
	)

	switch {
	case errors.As(err, &listErr):
		return truncateReason(msgInvalidList + " (lista " + listErr.ListID + ", tipo " + string(listErr.ListType) + ")")
	case errors.Is(err, domain.ErrNoMatches):
		return msgNoMatches
	case errors.As(err, &rateErr):
		return truncateReason(withDetail(msgRateLimited, rateErr.Message))
	case errors.As(err, &upstreamErr):
		return truncateReason(withDetail(msgUpstream, upstreamErr.Message))
	case errors.Is(err, ErrNoActiveSession):
		return msgNoActiveSession
	}
	return truncateReason(err.Error())
}

func withDetail(message, detail string) string {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return message
	}
	return message + ": " + detail
}

func truncateReason(reason string) string {
	const maxLen = 1000
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) <= maxLen {
		return reason
	}
	return string([]rune(reason)[:maxLen])
}
