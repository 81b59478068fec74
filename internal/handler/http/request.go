package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/handler/http/middleware"
	"github.com/gate-garments/hrms-backend-go/internal/handler/http/response"
)

// actorOrReject writes 401 and returns false when the request carries no actor.
func actorOrReject(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
	}
	return actor, ok
}

// decodeOrReject decodes the JSON body into dst, writing 400 on failure.
func decodeOrReject(w http.ResponseWriter, r *http.Request, op string, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// positiveQueryInt ignores missing, malformed and non-positive values.
func positiveQueryInt(r *http.Request, key string) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
