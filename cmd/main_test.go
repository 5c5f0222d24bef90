package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/pldash/internal/app"
	"github.com/okian/pldash/internal/config"
	"github.com/okian/pldash/pkg/logger"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		t.Setenv("PLDASH_ADDR", ":8181")
		t.Setenv("PLDASH_LIVE_CHECK_ENABLED", "false")
		t.Setenv("PLDASH_FEI_PRECISION", "2")

		convey.Convey("When testing configuration loading", func() {
			cfg, err := config.Load(context.Background())

			convey.Convey("Then configuration should be loadable", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8181")
				convey.So(cfg.LiveCheckEnabled, convey.ShouldBeFalse)
				convey.So(cfg.FEIPrecision, convey.ShouldEqual, 2)
			})

			convey.Convey("And the HTTP server uses the configured address", func() {
				srv := newHTTPServer(cfg, http.NotFoundHandler())
				convey.So(srv.Addr, convey.ShouldEqual, ":8181")
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
			})
		})
	})
}

func TestServiceOptions(t *testing.T) {
	convey.Convey("Given a configuration", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.LiveCheckEnabled = false
		cfg.FEIPrecision = 2

		convey.Convey("When the service is built from it", func() {
			svc := app.New(serviceOptions(cfg, logger.Nop())...)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop(ctx)

			convey.Convey("Then the configured FEI precision applies", func() {
				req, err := svc.ResolveRequest(ctx, "2020-21", []string{"Manchester City"})
				convey.So(err, convey.ShouldBeNil)
				view, err := svc.View(ctx, req)
				convey.So(err, convey.ShouldBeNil)
				convey.So(view.Rows[0].FEI, convey.ShouldAlmostEqual, 0.21, 1e-9)
			})

			convey.Convey("And the live check stays disabled", func() {
				convey.So(svc.LiveStatus(ctx).Enabled, convey.ShouldBeFalse)
			})
		})
	})
}

func TestHandlerWiring(t *testing.T) {
	convey.Convey("Given the full handler", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.LiveCheckEnabled = false

		svc := app.New(serviceOptions(cfg, logger.Nop())...)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop(ctx)

		h := newHandler(ctx, cfg, svc, logger.Nop())

		for _, route := range []string{"/api/seasons", "/api/view", "/openapi.yaml", "/api-docs", "/dashboard", "/healthz", "/stats"} {
			convey.Convey("Then "+route+" is served", func() {
				req := httptest.NewRequest(http.MethodGet, route, nil)
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("X-Request-ID"), convey.ShouldNotBeEmpty)
			})
		}

		convey.Convey("Then the MCP endpoint answers initialize", func() {
			body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"test","version":"0.0.1"}}}`
			req := httptest.NewRequest(http.MethodPost, cfg.MCPPath, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json, text/event-stream")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "pldash")
		})
	})
}

func TestSystemMetricsUpdater(t *testing.T) {
	convey.Convey("Given a short-lived context", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		convey.Convey("Then the updater returns when it is done", func() {
			convey.So(func() {
				startSystemMetricsUpdater(ctx)
			}, convey.ShouldNotPanic)
		})
	})
}
