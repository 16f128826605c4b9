package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/microshell/internal/domain/menu"
	"github.com/GriffinCanCode/microshell/internal/domain/registry"
	"github.com/GriffinCanCode/microshell/internal/domain/routes"
	"github.com/GriffinCanCode/microshell/internal/domain/session"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/probe"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
	"github.com/GriffinCanCode/microshell/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// MenuSource supplies the current navigation descriptor
type MenuSource interface {
	Current() []types.NavItem
	Loaded() (time.Time, uint64)
}

// Options wires the handlers to the shell components
type Options struct {
	Registry *registry.Manager
	Menu     MenuSource
	Router   *routes.Router
	Sessions *session.Manager
	Prober   *probe.Prober
	// Reload reloads the descriptor and recompiles the route table
	Reload  func(ctx context.Context) error
	Metrics *HandlerMetrics
	Tracer  *tracing.Tracer
	Logger  *zap.Logger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *registry.Manager
	menu     MenuSource
	router   *routes.Router
	sessions *session.Manager
	prober   *probe.Prober
	reload   func(ctx context.Context) error
	metrics  *HandlerMetrics
	tracer   *tracing.Tracer
	logger   *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(opts Options) *Handlers {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewHandlerMetrics(nil)
	}
	return &Handlers{
		registry: opts.Registry,
		menu:     opts.Menu,
		router:   opts.Router,
		sessions: opts.Sessions,
		prober:   opts.Prober,
		reload:   opts.Reload,
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		logger:   opts.Logger,
	}
}

// Root handles liveness
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "microshell",
		"version": Version,
	})
}

// Health reports registry, session, route table and descriptor state
func (h *Handlers) Health(c *gin.Context) {
	loadedAt, reloads := h.menu.Loaded()
	table := h.router.Table()

	status := "healthy"
	records := 0
	if table == nil || reloads == 0 {
		status = "degraded"
	}
	if table != nil {
		records = table.Len()
	}

	body := gin.H{
		"status":   status,
		"registry": h.registry.Stats(),
		"sessions": h.sessions.Stats(),
		"routes":   gin.H{"records": records},
		"descriptor": gin.H{
			"loaded_at": loadedAt,
			"reloads":   reloads,
		},
	}
	if h.prober != nil {
		body["breakers"] = h.prober.Breakers()
	}
	c.JSON(http.StatusOK, body)
}

// ListApps lists registered applications
func (h *Handlers) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"apps":   h.registry.List(),
		"stats":  h.registry.Stats(),
		"policy": h.registry.Policy(),
	})
}

// AppsHealth probes every sub-application entry
func (h *Handlers) AppsHealth(c *gin.Context) {
	if h.prober == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "entry probing disabled"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "apps.probe")
	results := h.prober.Probe(ctx, h.registry.List())
	tracing.End(span, nil)

	summary := map[probe.Status]int{}
	for _, r := range results {
		summary[r.Status]++
	}
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"summary": summary,
	})
}

// ListRoutes returns the compiled route table in match order
func (h *Handlers) ListRoutes(c *gin.Context) {
	table := h.router.Table()
	if table == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "route table not compiled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"routes": table.Routes(),
		"paths":  table.Paths(),
		"count":  table.Len(),
	})
}

// ResolveRoute resolves ?path= against the route table
func (h *Handlers) ResolveRoute(c *gin.Context) {
	path := c.Query("path")
	if err := utils.ValidatePath(path, "path"); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.router.Resolve(path))
}

// GetMenu returns the side menu built from the current descriptor
func (h *Handlers) GetMenu(c *gin.Context) {
	c.JSON(http.StatusOK, h.menuBody())
}

// ReloadMenu reloads the descriptor and recompiles routes. A failed
// reload keeps the previous descriptor and table serving.
func (h *Handlers) ReloadMenu(c *gin.Context) {
	if h.reload == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "reload not configured"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "menu.reload")
	err := h.reload(ctx)
	tracing.End(span, err)
	if err != nil {
		h.logger.Warn("Menu reload failed", zap.Error(err))
		abortWithError(c, err)
		return
	}

	body := h.menuBody()
	if table := h.router.Table(); table != nil {
		body["routes"] = table.Len()
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handlers) menuBody() gin.H {
	loadedAt, reloads := h.menu.Loaded()
	return gin.H{
		"menu":      menu.Build(h.menu.Current()),
		"loaded_at": loadedAt,
		"reloads":   reloads,
	}
}
