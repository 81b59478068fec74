package middleware

import (
	"net/http"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/user"
	"github.com/gate-garments/hrms-backend-go/internal/handler/http/response"
)

// AdminOnly must run after AuthRequired.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if !actor.IsAdmin() {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
