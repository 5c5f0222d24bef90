package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pldash/internal/domain/types"
)

func TestParseFlags(t *testing.T) {
	Convey("Given report flags", t, func() {
		var stderr bytes.Buffer

		Convey("When teams is omitted", func() {
			opts, err := parseFlags([]string{"-season", "2020-21"}, &stderr)

			Convey("Then every team is selected", func() {
				So(err, ShouldBeNil)
				So(opts.season, ShouldEqual, "2020-21")
				So(opts.teams, ShouldBeNil)
				So(opts.format, ShouldEqual, formatText)
			})
		})

		Convey("When teams is given but blank", func() {
			opts, err := parseFlags([]string{"-teams", ""}, &stderr)

			Convey("Then the selection is empty", func() {
				So(err, ShouldBeNil)
				So(opts.teams, ShouldNotBeNil)
				So(opts.teams, ShouldBeEmpty)
			})
		})

		Convey("When teams lists names", func() {
			opts, err := parseFlags([]string{"-teams", "Arsenal, Chelsea"}, &stderr)

			Convey("Then the names are trimmed", func() {
				So(err, ShouldBeNil)
				So(opts.teams, ShouldResemble, []string{"Arsenal", "Chelsea"})
			})
		})

		Convey("When the format is unknown", func() {
			_, err := parseFlags([]string{"-format", "pdf"}, &stderr)

			Convey("Then parsing fails", func() {
				So(err, ShouldWrap, errUnknownFormat)
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given the report command", t, func() {
		t.Setenv("PLDASH_LIVE_CHECK_ENABLED", "false")
		ctx := context.Background()
		var stdout, stderr bytes.Buffer

		Convey("When printing the text report of the current season", func() {
			err := run(ctx, nil, &stdout, &stderr)

			Convey("Then KPIs, the FEI table and insights are printed", func() {
				So(err, ShouldBeNil)
				out := stdout.String()
				So(out, ShouldContainSubstring, "2024-25")
				So(out, ShouldContainSubstring, "£3553.0m")
				So(out, ShouldContainSubstring, "Manchester City")
				So(out, ShouldContainSubstring, "Warnings")
				So(out, ShouldContainSubstring, "Recommendations")
			})
		})

		Convey("When printing csv for one historical team", func() {
			err := run(ctx, []string{"-season", "2020-21", "-teams", "Arsenal", "-format", "csv"}, &stdout, &stderr)

			Convey("Then the export rows are printed", func() {
				So(err, ShouldBeNil)
				So(stdout.String(), ShouldContainSubstring, "Arsenal,8.2,201.8,177.8,388,-12.9,2020-21,0.302")
			})
		})

		Convey("When writing json to a file", func() {
			path := filepath.Join(t.TempDir(), "report.json")
			err := run(ctx, []string{"-format", "json", "-output", path}, &stdout, &stderr)

			Convey("Then the dashboard is written", func() {
				So(err, ShouldBeNil)
				b, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				var d types.Dashboard
				So(json.Unmarshal(b, &d), ShouldBeNil)
				So(d.QuickStats.TeamsAnalyzed, ShouldEqual, 6)
			})
		})

		Convey("When the selection is empty", func() {
			err := run(ctx, []string{"-teams", ""}, &stdout, &stderr)

			Convey("Then the notice is printed", func() {
				So(err, ShouldBeNil)
				So(strings.TrimSpace(stdout.String()), ShouldEqual, types.EmptySelectionMessage)
			})
		})

		Convey("When only unknown teams are selected as json", func() {
			err := run(ctx, []string{"-format", "json", "-teams", "Nobody"}, &stdout, &stderr)

			Convey("Then the notice lists the dropped team", func() {
				So(err, ShouldBeNil)
				var n types.EmptyNotice
				So(json.Unmarshal(stdout.Bytes(), &n), ShouldBeNil)
				So(n.Empty, ShouldBeTrue)
				So(n.Mismatches, ShouldHaveLength, 1)
				So(n.Mismatches[0].Team, ShouldEqual, "Nobody")
			})
		})

		Convey("When the season is unknown", func() {
			err := run(ctx, []string{"-season", "1999-00"}, &stdout, &stderr)

			Convey("Then the command fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
