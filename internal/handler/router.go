package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"library-backend/internal/domain/access"
	"library-backend/internal/handler/api"
	"library-backend/internal/handler/middleware"
	"library-backend/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Engine             *gin.Engine
	Config             config.Config
	Logger             *middleware.Logger
	AuthMiddleware     *middleware.AuthMiddleware
	RateLimiter        *middleware.RateLimiter
	AuthHandler        *api.AuthHandler
	BookHandler        *api.BookHandler
	CirculationHandler *api.CirculationHandler
	UserHandler        *api.UserHandler
}

func NewRouter(p RouterParams) {
	setupMiddleware(p.Engine, p.Config, p.Logger)
	setupRoutes(p)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(p RouterParams) {
	engine := p.Engine
	authn := p.AuthMiddleware.RequireAuth()
	requireAny := p.AuthMiddleware.RequireAnyRole

	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := engine.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			limited := auth.Group("")
			limited.Use(p.RateLimiter.Middleware())
			addRoutes(limited, []route{
				{Method: http.MethodPost, Path: "/register", Handler: p.AuthHandler.Register},
				{Method: http.MethodPost, Path: "/login", Handler: p.AuthHandler.Login},
			})

			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: p.AuthHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: p.AuthHandler.Me, Mw: []gin.HandlerFunc{authn}},
			})
		}

		books := v1.Group("/books")
		books.Use(authn)
		{
			addRoutes(books, []route{
				{Method: http.MethodPost, Path: "", Handler: p.BookHandler.Create, Mw: []gin.HandlerFunc{requireAny(access.CreateBookRoles...)}},
				{Method: http.MethodGet, Path: "", Handler: p.BookHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: p.BookHandler.Get},
				{Method: http.MethodPut, Path: "/:id", Handler: p.BookHandler.Update, Mw: []gin.HandlerFunc{requireAny(access.UpdateBookRoles...)}},
				{Method: http.MethodDelete, Path: "/:id", Handler: p.BookHandler.Disable, Mw: []gin.HandlerFunc{requireAny(access.DisableBookRoles...)}},
				{Method: http.MethodGet, Path: "/:id/reservations", Handler: p.BookHandler.History},
				{Method: http.MethodPost, Path: "/:id/reserve", Handler: p.CirculationHandler.Reserve, Mw: []gin.HandlerFunc{requireAny(access.CirculationRoles...)}},
				{Method: http.MethodPost, Path: "/:id/return", Handler: p.CirculationHandler.Return, Mw: []gin.HandlerFunc{requireAny(access.CirculationRoles...)}},
			})
		}

		users := v1.Group("/users")
		users.Use(authn)
		{
			addRoutes(users, []route{
				{Method: http.MethodPost, Path: "", Handler: p.UserHandler.Create, Mw: []gin.HandlerFunc{requireAny(access.AdminRoles...)}},
				{Method: http.MethodGet, Path: "", Handler: p.UserHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: p.UserHandler.Get},
				{Method: http.MethodPut, Path: "/:id", Handler: p.UserHandler.Update},
				{Method: http.MethodDelete, Path: "/:id", Handler: p.UserHandler.Disable},
				{Method: http.MethodPost, Path: "/:id/disable", Handler: p.UserHandler.Disable},
				{Method: http.MethodGet, Path: "/:id/reservations", Handler: p.UserHandler.History},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
