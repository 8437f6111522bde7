package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
)

// Route binds an HTTP method and path to a named handler.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// Routes is the HTTP surface of the API.
var Routes = []Route{
	{http.MethodGet, "/services", GetAllServices},
	{http.MethodGet, "/services/:pk", GetService},
	{http.MethodGet, "/orders", GetAllOrders},
	{http.MethodGet, "/orders/stats", OrdersStats},
	{http.MethodGet, "/orders/:pk", GetOrder},
	{http.MethodPost, "/orders", CreateOrder},
	{http.MethodPut, "/orders/:pk", UpdateOrder},
	{http.MethodPatch, "/orders/:pk", UpdateOrder},
	{http.MethodDelete, "/orders/:pk", DeleteOrder},
}

type routerConfig struct {
	serviceName string
	logger      *slog.Logger
	metrics     *Metrics
}

type RouterOption func(*routerConfig)

// WithTracing enables otelgin spans under serviceName.
func WithTracing(serviceName string) RouterOption {
	return func(c *routerConfig) {
		c.serviceName = serviceName
	}
}

func WithAccessLog(logger *slog.Logger) RouterOption {
	return func(c *routerConfig) {
		c.logger = logger
	}
}

// WithMetrics records request metrics and serves them on GET /metrics.
func WithMetrics(m *Metrics) RouterOption {
	return func(c *routerConfig) {
		c.metrics = m
	}
}

// NewRouter builds the gin engine serving api.
func NewRouter(api *API, opts ...RouterOption) *gin.Engine {
	cfg := routerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.serviceName != "" {
		router.Use(otelgin.Middleware(cfg.serviceName))
	}
	router.Use(RequestID(), AccessLog(cfg.logger))
	if cfg.metrics != nil {
		router.Use(cfg.metrics.Handler())
		router.GET("/metrics", cfg.metrics.Exposer())
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for _, route := range Routes {
		h, ok := api.Handler(route.Handler)
		if !ok {
			continue
		}
		router.Handle(route.Method, route.Path, ginHandler(h))
	}
	return router
}

// ginHandler adapts a Handler to gin: params, the first value of each query
// parameter and the raw body go in; the envelope comes out as is.
func ginHandler(h Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := Request{}
		if len(c.Params) > 0 {
			req.PathParameters = make(map[string]string, len(c.Params))
			for _, p := range c.Params {
				req.PathParameters[p.Key] = p.Value
			}
		}
		if query := c.Request.URL.Query(); len(query) > 0 {
			req.QueryStringParameters = make(map[string]string, len(query))
			for key := range query {
				req.QueryStringParameters[key] = query.Get(key)
			}
		}
		if c.Request.Body != nil {
			payload, err := io.ReadAll(c.Request.Body)
			if err != nil {
				status, body := apierrors.Render(err)
				c.Data(status, gin.MIMEJSON, body)
				return
			}
			if len(payload) > 0 {
				body := string(payload)
				req.Body = &body
			}
		}

		resp, err := h(c.Request.Context(), req)
		if err != nil {
			status, body := apierrors.Render(err)
			c.Data(status, gin.MIMEJSON, body)
			return
		}
		if resp.Body == nil {
			c.Status(resp.StatusCode)
			return
		}
		c.Data(resp.StatusCode, gin.MIMEJSON, []byte(*resp.Body))
	}
}
