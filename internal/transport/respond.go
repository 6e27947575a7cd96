package transport

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Landing pages per role
const (
	AdminHomePath    = "/admin_home/"
	CustomerHomePath = "/customer/home/"
)

// responder holds what every handler needs to answer a request
type responder struct {
	renderer *Renderer
	logger   *zap.Logger
}

func (rs responder) render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	rs.renderer.Render(w, r, status, name, page)
}

// fail maps store errors to responses; anything unknown is a 500
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrCartNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "not found")
	default:
		rs.logger.Error(msg,
			zap.Error(err),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID parses a uuid route parameter; malformed ids are reported as 404
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusFound)
}

func homeFor(identity domain.Identity) string {
	if identity.IsStaff() {
		return AdminHomePath
	}
	return CustomerHomePath
}
