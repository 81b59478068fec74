package middleware

import (
	"context"
	"net/http"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/user"
	"github.com/gate-garments/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// AuthRequired rejects requests without a valid access token and stores the
// caller as an auth.Actor on the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			actor, err := actorFromClaims(claims)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey{}, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

func actorFromClaims(claims map[string]interface{}) (auth.Actor, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return auth.Actor{}, auth.ErrInvalidToken
	}
	roleStr, ok := claims["role"].(string)
	if !ok || !user.Role(roleStr).IsValid() {
		return auth.Actor{}, auth.ErrInvalidToken
	}

	actor := auth.Actor{UserID: userID, Role: user.Role(roleStr)}
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		actor.EmployeeID = &employeeID
	}
	return actor, nil
}

// ActorFromContext returns the caller stored by AuthRequired.
func ActorFromContext(ctx context.Context) (auth.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(auth.Actor)
	return actor, ok
}

// WithActor is used by tests to bypass token verification.
func WithActor(ctx context.Context, actor auth.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}
