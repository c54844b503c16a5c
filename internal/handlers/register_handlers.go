package handlers

import (
	"net/http"

	"github.com/SscSPs/pricing_admin_backend/cmd/docs"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/middleware"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// publicLimiter guards the unauthenticated storefront routes; nil disables limiting.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	publicLimiter gin.HandlerFunc,
) error {
	if err := registerValidators(); err != nil {
		return err
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupPublicRoutes(r, services, publicLimiter)
	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the admin /api/v1 group behind JWT auth.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	var opts []jwt.ParserOption
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, opts...))

	registerCurrencyRoutes(v1, services.Currency)
	registerRateRoutes(v1, services.RateFetch, services.Audit)
	registerCountryRoutes(v1, services.Country, services.Tax)
	registerProductRoutes(v1, services)
	registerPricingRoutes(v1, services.ProductPrice, services.Recalculation)
	registerAuditRoutes(v1, services.Audit)
}

// setupPublicRoutes exposes price quotes to storefronts without authentication.
func setupPublicRoutes(r *gin.Engine, services *portssvc.ServiceContainer, limiter gin.HandlerFunc) {
	public := r.Group("/api/public")
	if limiter != nil {
		public.Use(limiter)
	}
	public.GET("/prices/:productID", func(c *gin.Context) {
		writeQuote(c, services.PriceResolver)
	})
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
