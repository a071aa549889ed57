// Package api assembles the HTTP surface of the agent.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/lottopool/lottopool/internal/api/handler"
	"github.com/lottopool/lottopool/internal/api/middleware"
	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"

	_ "github.com/lottopool/lottopool/docs"
)

// Deps are the services the routes are bound to.
type Deps struct {
	Log          zerolog.Logger
	JWTSecret    string
	Auth         ports.AuthService
	Pools        ports.PoolService
	PoolFeed     handler.PoolFeed
	Groups       ports.GroupService
	Participants ports.ParticipantService
	Invites      ports.InviteService
	Health       *handler.HealthHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(d.Log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("lottopool"))

	authn := middleware.Auth(d.JWTSecret)
	admin := middleware.AdminOnly()

	auth := handler.NewAuthHandler(d.Auth)
	pools := handler.NewPoolHandler(d.Pools, d.PoolFeed)
	groups := handler.NewGroupHandler(d.Groups)
	participants := handler.NewParticipantHandler(d.Participants)
	invites := handler.NewInviteHandler(d.Invites)

	e.POST("/auth/login", auth.Login)
	e.POST("/auth/register", auth.Register)
	e.POST("/auth/accounts", auth.CreateAccount, authn, middleware.RBAC(domain.RoleSaaSAdmin))
	e.POST("/auth/logout", auth.Logout, authn)
	e.GET("/auth/me", auth.Me, authn)

	v1 := e.Group("/v1")
	v1.GET("/lotteries", handler.Lotteries)

	// Invites are opened from a shared link, before the guest has an account.
	inv := v1.Group("/invites")
	inv.GET("/resolve", invites.Resolve)
	inv.GET("/:groupId", invites.Start)
	inv.PUT("/:groupId/fields", invites.SaveFields)
	inv.POST("/:groupId/next", invites.Next)
	inv.POST("/:groupId/back", invites.Back)
	inv.POST("/:groupId/submit", invites.Submit)

	p := v1.Group("/pools", authn)
	p.GET("", pools.List)
	p.GET("/events", pools.Events)
	p.GET("/:id/summary", pools.Summary)
	p.POST("", pools.Create, admin)
	p.PATCH("/:id", pools.Update, admin)
	p.PUT("/:id/status", pools.SetStatus, admin)
	p.POST("/:id/participants/:participantId/payment", pools.TogglePayment, admin)
	p.POST("/:id/tickets/:ticketId/receipt", pools.AttachReceipt, admin)
	v1.GET("/me/pools", pools.MyPools, authn)

	g := v1.Group("/groups", authn)
	g.GET("", groups.List)
	g.GET("/:id", groups.Get)
	g.POST("", groups.Create, admin)
	g.PATCH("/:id", groups.Update, admin)
	g.POST("/:id/participants", groups.AddParticipant, admin)

	pt := v1.Group("/participants", authn)
	pt.GET("", participants.List)
	pt.POST("", participants.Create, admin)
	pt.PATCH("/:id", participants.Update, admin)

	e.GET("/health", d.Health.Liveness)
	e.GET("/health/ready", d.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
