// Package httpapi exposes accounts and the product catalog over HTTP (gin).
package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/assets"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/gin-gonic/gin"
)

// presigner is implemented by backends that serve assets from elsewhere.
type presigner interface {
	PresignGet(ctx context.Context, key string) (string, error)
}

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Users    UserService
	Products ProductService
	Assets   assets.Backend
	Metrics  *Metrics
	Logger   logging.Logger

	// CORSOrigins lists browser origins allowed to call the API; empty allows any.
	CORSOrigins []string
}

// NewRouter builds the engine. Access checks are attached per route.
func NewRouter(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	logger := d.Logger.With("module", "http")
	if d.Metrics == nil {
		d.Metrics = NewMetrics()
	}

	r := gin.New()
	r.Use(RequestID(), Recovery(logger), AccessLog(logger), Instrument(d.Metrics), CORS(d.CORSOrigins))
	r.MaxMultipartMemory = maxFormBytes

	authn := Authenticate(d.Users, logger)
	admin := RequireRole(models.RoleAdmin, logger)

	ah := NewAuthHandler(d.Users, logger)
	r.POST("/auth/register", ah.Register)
	r.POST("/auth/login", ah.Login)
	r.GET("/auth/profile", authn, ah.Profile)

	ph := NewProductHandler(d.Products, logger)
	r.GET("/products", ph.List)
	r.GET("/products/:id", ph.Get)
	r.POST("/products", authn, admin, ph.Create)
	r.PUT("/products/:id", authn, admin, ph.Update)
	r.DELETE("/products/:id", authn, admin, ph.Delete)

	mountAssets(r, d.Assets, logger)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}

// mountAssets serves stored images at assets.URLPrefix: straight from disk
// for the local backend, via a redirect to a presigned URL otherwise.
func mountAssets(r *gin.Engine, b assets.Backend, logger logging.Logger) {
	prefix := strings.TrimSuffix(assets.URLPrefix, "/")

	switch backend := b.(type) {
	case *assets.LocalBackend:
		r.Static(prefix, backend.Dir())
	case presigner:
		r.GET(prefix+"/*key", func(c *gin.Context) {
			key, ok := assets.KeyFromRef(assets.URLPrefix + strings.TrimPrefix(c.Param("key"), "/"))
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			url, err := backend.PresignGet(c.Request.Context(), key)
			if err != nil {
				abortWithError(c, logger, err)
				return
			}
			c.Redirect(http.StatusFound, url)
		})
	}
}
