package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/config"
	"github.com/damienaltman42/sb1-u3qtxy/controllers"
	"github.com/damienaltman42/sb1-u3qtxy/controllers/auth"
	"github.com/damienaltman42/sb1-u3qtxy/metrics"
	"github.com/damienaltman42/sb1-u3qtxy/middleware"
	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/services"
	"github.com/damienaltman42/sb1-u3qtxy/utils"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const serviceName = "roulette-api"

// Deps is everything the router needs. Objects may be nil.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	Services *services.Services
	Issuer   *utils.TokenIssuer
	Guard    *middleware.LoginGuard
	Objects  utils.ObjectStore
	Metrics  *metrics.Metrics
	// Ping reports storage health for /health.
	Ping func(ctx context.Context) error
}

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "healthy", http.StatusOK
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}
		utils.WriteJSON(w, code, utils.APIResponse{
			Success: code == http.StatusOK,
			Message: status,
			Data: map[string]interface{}{
				"status":    status,
				"timestamp": time.Now().Unix(),
				"service":   serviceName,
			},
		})
	}
}

// InitRouter builds the HTTP surface. The returned stop func releases the
// rate limiters' background workers.
func InitRouter(d Deps) (*mux.Router, func()) {
	r := mux.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(d.Config.HTTP.AllowedOrigins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"}),
			handlers.ExposedHeaders([]string{"X-Request-ID", "Retry-After", "Content-Disposition"}),
			handlers.AllowCredentials(),
		)(next)
	})
	if d.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(d.Metrics))
	}

	// catch-all OPTIONS handler for CORS preflight
	r.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	r.Handle("/health", healthHandler(d.Ping)).Methods(http.MethodGet)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)
	}

	trusted := d.Config.HTTP.TrustedProxies
	authLimiter := middleware.NewIPRateLimiter(20, time.Minute, trusted)
	codeLimiter := middleware.NewIPRateLimiter(30, time.Minute, trusted)
	stop := func() {
		authLimiter.Stop()
		codeLimiter.Stop()
	}

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(d.Issuer)(h)
	}
	creatorOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(d.Issuer)(middleware.RequireRole(models.RoleCreator)(h))
	}

	authCtrl := auth.NewController(d.Services.Users, d.Issuer, d.Guard, d.Log)
	userCtrl := controllers.NewUserController(d.Services, d.Objects, d.Log)
	rouletteCtrl := controllers.NewRouletteController(d.Services, d.Log)
	codeCtrl := controllers.NewAccessCodeController(d.Services, d.Config.AppPublicURL, d.Metrics, d.Log)
	likeCtrl := controllers.NewLikeController(d.Services, d.Metrics, d.Log)
	winCtrl := controllers.NewWinController(d.Services, d.Metrics, d.Log)
	linkCtrl := controllers.NewSocialLinkController(d.Services, d.Log)

	// Auth
	r.Handle("/auth/register", authLimiter.Middleware(http.HandlerFunc(authCtrl.Register))).Methods(http.MethodPost)
	r.Handle("/auth/login", authLimiter.Middleware(http.HandlerFunc(authCtrl.Login))).Methods(http.MethodPost)
	r.Handle("/auth/logout", protected(authCtrl.Logout)).Methods(http.MethodPost)

	// Users
	r.Handle("/users/me", protected(userCtrl.Me)).Methods(http.MethodGet)
	r.Handle("/users/me", protected(userCtrl.UpdateMe)).Methods(http.MethodPut)
	r.Handle("/users/me/avatar", protected(userCtrl.UploadAvatar)).Methods(http.MethodPut)
	r.HandleFunc("/users/{id}", userCtrl.Public).Methods(http.MethodGet)

	// Roulettes; /roulettes/my must be registered before /roulettes/{id}
	r.HandleFunc("/roulettes", rouletteCtrl.List).Methods(http.MethodGet)
	r.Handle("/roulettes", creatorOnly(rouletteCtrl.Create)).Methods(http.MethodPost)
	r.Handle("/roulettes/my", protected(rouletteCtrl.Mine)).Methods(http.MethodGet)
	r.HandleFunc("/roulettes/{id}", rouletteCtrl.Get).Methods(http.MethodGet)
	r.Handle("/roulettes/{id}", protected(rouletteCtrl.Update)).Methods(http.MethodPut)
	r.Handle("/roulettes/{id}", protected(rouletteCtrl.Delete)).Methods(http.MethodDelete)
	r.Handle("/roulettes/{id}/access-codes", protected(rouletteCtrl.ListCodes)).Methods(http.MethodGet)
	r.Handle("/roulettes/{id}/access-codes/export", protected(rouletteCtrl.ExportCodes)).Methods(http.MethodGet)
	r.Handle("/roulettes/{id}/spin", codeLimiter.Middleware(protected(winCtrl.Spin))).Methods(http.MethodPost)

	// Access codes
	r.Handle("/access-codes", protected(codeCtrl.Issue)).Methods(http.MethodPost)
	r.Handle("/access-codes/verify", codeLimiter.Middleware(http.HandlerFunc(codeCtrl.Verify))).Methods(http.MethodPost)
	r.Handle("/access-codes/{id}/use", codeLimiter.Middleware(http.HandlerFunc(codeCtrl.Use))).Methods(http.MethodPost)
	r.Handle("/access-codes/{id}/qr", protected(codeCtrl.QR)).Methods(http.MethodGet)
	r.Handle("/access-codes/{id}", protected(codeCtrl.Revoke)).Methods(http.MethodDelete)

	// Likes
	r.Handle("/likes", protected(likeCtrl.List)).Methods(http.MethodGet)
	r.Handle("/likes/{rouletteId}", protected(likeCtrl.Like)).Methods(http.MethodPost)
	r.Handle("/likes/{rouletteId}", protected(likeCtrl.Unlike)).Methods(http.MethodDelete)

	// Wins
	r.Handle("/wins", protected(winCtrl.Record)).Methods(http.MethodPost)
	r.Handle("/wins", protected(winCtrl.List)).Methods(http.MethodGet)
	r.Handle("/wins/{id}/claim", protected(winCtrl.Claim)).Methods(http.MethodPost)

	// Social links
	r.Handle("/social-links", protected(linkCtrl.List)).Methods(http.MethodGet)
	r.Handle("/social-links", protected(linkCtrl.Create)).Methods(http.MethodPost)
	r.Handle("/social-links/{id}", protected(linkCtrl.Update)).Methods(http.MethodPut)
	r.Handle("/social-links/{id}", protected(linkCtrl.Delete)).Methods(http.MethodDelete)

	return r, stop
}
