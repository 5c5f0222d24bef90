package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pldash/internal/adapters/http/api"
	service "github.com/okian/pldash/internal/app"
	"github.com/okian/pldash/internal/domain/aggregate"
	"github.com/okian/pldash/internal/domain/export"
	"github.com/okian/pldash/internal/domain/insight"
	"github.com/okian/pldash/internal/domain/model"
	"github.com/okian/pldash/internal/domain/types"
	"github.com/okian/pldash/pkg/logger"
)

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

// failingDeps wraps a working service and fails View with err.
type failingDeps struct {
	api.Dependencies
	err error
}

func (f *failingDeps) View(context.Context, model.FilterRequest) (aggregate.View, error) {
	return aggregate.View{}, f.err
}

func (f *failingDeps) Insights(context.Context, model.FilterRequest) (insight.Result, error) {
	return insight.Result{}, f.err
}

func (f *failingDeps) Export(context.Context, io.Writer, export.Format, model.FilterRequest) error {
	return f.err
}

func newService() *service.Service {
	svc := service.New(service.WithLogger(logger.Nop()))
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func newHandler(deps api.Dependencies, stats api.StatsProvider) http.Handler {
	mux := http.NewServeMux()
	api.NewServer(deps, stats, logger.Nop()).Register(context.Background(), mux)
	return api.Handler(mux, []string{"*"})
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder, v any) {
	So(json.Unmarshal(w.Body.Bytes(), v), ShouldBeNil)
}

func TestServer_Register(t *testing.T) {
	Convey("Given an API server over the built-in dataset", t, func() {
		svc := newService()
		defer svc.Stop(context.Background())
		h := newHandler(svc, &mockStatsProvider{stats: map[string]any{"started": true}})

		Convey("And health endpoint should expose metrics", func() {
			w := get(h, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "pldash_analytics")
		})

		Convey("And stats endpoint should be accessible", func() {
			w := get(h, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("And dashboard endpoint should serve the page", func() {
			w := get(h, "/dashboard")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := w.Body.String()
			So(body, ShouldContainSubstring, `id="season-select"`)
			So(body, ShouldContainSubstring, `id="fei-table"`)
		})

		Convey("And the root should redirect to the dashboard", func() {
			w := get(h, "/")
			So(w.Code, ShouldEqual, http.StatusFound)
			So(w.Header().Get("Location"), ShouldEqual, "/dashboard")
		})

		Convey("And unknown api routes should return 404", func() {
			w := get(h, "/api/unknown")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			var e map[string]string
			decode(w, &e)
			So(e["code"], ShouldEqual, "not_found")
		})

		Convey("And every response should carry a request id", func() {
			w := get(h, "/api/seasons")
			_, err := uuid.Parse(w.Header().Get(api.RequestIDHeader))
			So(err, ShouldBeNil)
		})

		Convey("And a valid incoming request id should be echoed", func() {
			id := uuid.NewString()
			req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
			req.Header.Set(api.RequestIDHeader, id)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, id)
		})

		Convey("And CORS preflight should be answered", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/view", nil)
			req.Header.Set("Origin", "http://example.com")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
		})
	})
}

func TestAnalyticsRoutes(t *testing.T) {
	Convey("Given an API server over the built-in dataset", t, func() {
		svc := newService()
		defer svc.Stop(context.Background())
		h := newHandler(svc, svc)

		Convey("When listing seasons", func() {
			w := get(h, "/api/seasons")

			Convey("Then the current season is the latest one", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var info types.SeasonsInfo
				decode(w, &info)
				So(info.Current, ShouldEqual, "2024-25")
				So(info.Seasons, ShouldHaveLength, 5)
				So(info.Teams, ShouldContain, "Arsenal")
			})
		})

		Convey("When requesting the view without parameters", func() {
			w := get(h, "/api/view")

			Convey("Then every team of the current season is aggregated", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var view aggregate.View
				decode(w, &view)
				So(view.Season, ShouldEqual, "2024-25")
				So(view.HasPerformanceData, ShouldBeTrue)
				So(view.Rows, ShouldHaveLength, 6)
				So(view.KPIs.TotalRevenue, ShouldAlmostEqual, 3553.0, 1e-9)
			})
		})

		Convey("When requesting a historical view of two teams", func() {
			w := get(h, "/api/view?season=2020-21&teams=Tottenham,Arsenal")

			Convey("Then the rows follow the canonical order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var view aggregate.View
				decode(w, &view)
				So(view.HasPerformanceData, ShouldBeFalse)
				So(view.Rows, ShouldHaveLength, 2)
				So(view.Rows[0].Team, ShouldEqual, "Arsenal")
				So(view.Rows[1].Team, ShouldEqual, "Tottenham")
			})
		})

		Convey("When the teams parameter is present but blank", func() {
			w := get(h, "/api/view?teams=")

			Convey("Then an empty selection notice is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var n types.EmptyNotice
				decode(w, &n)
				So(n.Empty, ShouldBeTrue)
				So(n.Message, ShouldEqual, types.EmptySelectionMessage)
				So(n.Mismatches, ShouldBeEmpty)
			})
		})

		Convey("When every selected team is unknown", func() {
			w := get(h, "/api/dashboard?teams=Nobody")

			Convey("Then the notice names the dropped team", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var n types.EmptyNotice
				decode(w, &n)
				So(n.Empty, ShouldBeTrue)
				So(n.Season, ShouldEqual, "2024-25")
				So(n.Mismatches, ShouldResemble, []aggregate.Mismatch{
					{Team: "Nobody", Missing: aggregate.MissingFinancial},
				})
			})
		})

		Convey("When the season is unknown", func() {
			w := get(h, "/api/insights?season=1999-00")

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var e map[string]string
				decode(w, &e)
				So(e["code"], ShouldEqual, "unknown_season")
			})
		})

		Convey("When requesting insights", func() {
			w := get(h, "/api/insights?season=2020-21")

			Convey("Then warnings and recommendations are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res insight.Result
				decode(w, &res)
				So(res.Warnings, ShouldHaveLength, 11)
				So(res.Recommendations, ShouldHaveLength, 7)
			})
		})

		Convey("When requesting the dashboard", func() {
			w := get(h, "/api/dashboard?teams=Arsenal,Manchester%20City")

			Convey("Then all panels are populated", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var d types.Dashboard
				decode(w, &d)
				So(d.QuickStats.TeamsAnalyzed, ShouldEqual, 2)
				So(d.FEITable, ShouldHaveLength, 2)
				So(d.Trends.Teams, ShouldHaveLength, 2)
				So(d.Trends.Seasons, ShouldHaveLength, 5)
				So(d.Live.Enabled, ShouldBeFalse)
			})
		})

		Convey("When requesting trends for one team", func() {
			w := get(h, "/api/trends?teams=Arsenal")

			Convey("Then the history of that team is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var tr aggregate.Trends
				decode(w, &tr)
				So(tr.Teams, ShouldHaveLength, 1)
				So(tr.Teams[0].Team, ShouldEqual, "Arsenal")
				So(*tr.Teams[0].Revenue[0], ShouldAlmostEqual, 388.0, 1e-9)
			})
		})

		Convey("When requesting a breakdown", func() {
			Convey("Then a selected team is split by stream", func() {
				w := get(h, "/api/breakdown?team=Arsenal")
				So(w.Code, ShouldEqual, http.StatusOK)
				var bd aggregate.RevenueBreakdown
				decode(w, &bd)
				So(bd.Matchday, ShouldAlmostEqual, 108.7, 1e-9)
				So(bd.Broadcasting, ShouldAlmostEqual, 215.9, 1e-9)
				So(bd.Commercial, ShouldAlmostEqual, 201.3, 1e-9)
			})

			Convey("Then a team outside the selection is not found", func() {
				w := get(h, "/api/breakdown?team=Arsenal&teams=Chelsea")
				So(w.Code, ShouldEqual, http.StatusNotFound)
				var e map[string]string
				decode(w, &e)
				So(e["code"], ShouldEqual, "team_not_in_view")
			})

			Convey("Then a missing team parameter is rejected", func() {
				w := get(h, "/api/breakdown")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var e map[string]string
				decode(w, &e)
				So(e["code"], ShouldEqual, "bad_request")
				So(e["message"], ShouldEqual, "bad request: missing team parameter")
				So(errors.Is(api.ErrMissingTeam, api.ErrBadRequest), ShouldBeTrue)
			})
		})

		Convey("When exporting", func() {
			Convey("Then csv is served as an attachment", func() {
				w := get(h, "/api/export?season=2020-21&teams=Arsenal")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, export.FormatCSV.ContentType())
				So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "premier_league_analytics.csv")
				So(w.Body.String(), ShouldContainSubstring, "Arsenal,8.2,201.8,177.8,388,-12.9,2020-21,0.302")
			})

			Convey("Then xlsx is served with the spreadsheet type", func() {
				w := get(h, "/api/export?format=xlsx")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, ".xlsx")
				So(w.Body.Len(), ShouldBeGreaterThan, 0)
			})

			Convey("Then an unknown format is rejected", func() {
				w := get(h, "/api/export?format=pdf")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var e map[string]string
				decode(w, &e)
				So(e["code"], ShouldEqual, "unsupported_format")
			})
		})

		Convey("When reading the live status", func() {
			w := get(h, "/api/status")

			Convey("Then a disabled check reports static data", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				decode(w, &body)
				So(body["enabled"], ShouldEqual, false)
				So(body["source"], ShouldEqual, "static")
			})
		})
	})
}

func TestErrorMapping(t *testing.T) {
	Convey("Given a dependency that fails", t, func() {
		svc := newService()
		defer svc.Stop(context.Background())

		cases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{"division by zero", model.ErrDivisionByZero, http.StatusInternalServerError, "division_by_zero"},
			{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
			{"empty selection", model.ErrEmptySelection, http.StatusOK, ""},
		}

		for _, tc := range cases {
			Convey("When the failure is "+tc.name, func() {
				h := newHandler(&failingDeps{Dependencies: svc, err: tc.err}, svc)

				for _, route := range []string{"/api/view", "/api/insights", "/api/export"} {
					w := get(h, route)
					So(w.Code, ShouldEqual, tc.status)
					var body map[string]any
					decode(w, &body)
					if tc.code != "" {
						So(body["code"], ShouldEqual, tc.code)
					} else {
						So(body["empty"], ShouldEqual, true)
					}
				}
			})
		}
	})
}
