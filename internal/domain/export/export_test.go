package export

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/okian/pldash/internal/adapters/repository"
	"github.com/okian/pldash/internal/domain/aggregate"
	"github.com/okian/pldash/internal/domain/model"
	"github.com/okian/pldash/internal/domain/scoring"
)

func scoredView(season string, teams ...string) aggregate.View {
	ctx := context.Background()
	store := repository.NewStaticStore()
	if len(teams) == 0 {
		teams = store.Teams(ctx)
	}
	view, err := aggregate.BuildView(ctx, store, model.FilterRequest{Season: season, Teams: teams})
	convey.So(err, convey.ShouldBeNil)
	view.Rows, err = scoring.NewScorer().ScoreRows(view.Rows)
	convey.So(err, convey.ShouldBeNil)
	return view
}

func TestCSV(t *testing.T) {
	convey.Convey("Given the scored current season", t, func() {
		view := scoredView("2024-25")

		var buf bytes.Buffer
		convey.So(WriteCSV(&buf, view), convey.ShouldBeNil)
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

		convey.Convey("Then the header carries the performance columns", func() {
			convey.So(lines, convey.ShouldHaveLength, 7)
			convey.So(lines[0], convey.ShouldEqual,
				"Team,Matches_Played,Wins,Draws,Losses,Goals_Scored,Goals_Conceded,Points,Goal_Difference,"+
					"Matchday_Revenue,Broadcasting_Revenue,Commercial_Revenue,Total_Revenue,Revenue_Growth,Season,FEI")
			convey.So(lines[1], convey.ShouldEqual,
				"Manchester City,10,7,2,1,22,8,23,14,82.5,325.3,358.7,766.5,4.5,2024-25,0.49")
		})

		convey.Convey("Then reading it back yields the same rows", func() {
			rows, hasPerf, err := ReadCSV(&buf)
			convey.So(err, convey.ShouldBeNil)
			convey.So(hasPerf, convey.ShouldBeTrue)
			convey.So(rows, convey.ShouldResemble, view.Rows)
		})
	})

	convey.Convey("Given a historical season", t, func() {
		view := scoredView("2020-21", "Arsenal")

		var buf bytes.Buffer
		convey.So(WriteCSV(&buf, view), convey.ShouldBeNil)

		convey.Convey("Then performance columns are omitted", func() {
			convey.So(buf.String(), convey.ShouldEqual,
				"Team,Matchday_Revenue,Broadcasting_Revenue,Commercial_Revenue,Total_Revenue,Revenue_Growth,Season,FEI\n"+
					"Arsenal,8.2,201.8,177.8,388,-12.9,2020-21,0.302\n")
		})

		convey.Convey("Then the round trip reports no performance data", func() {
			rows, hasPerf, err := ReadCSV(&buf)
			convey.So(err, convey.ShouldBeNil)
			convey.So(hasPerf, convey.ShouldBeFalse)
			convey.So(rows, convey.ShouldResemble, view.Rows)
		})
	})

	convey.Convey("Given malformed input", t, func() {
		convey.Convey("When the header is unknown", func() {
			_, _, err := ReadCSV(strings.NewReader("Name,Value\nx,1\n"))
			convey.So(errors.Is(err, ErrMalformedCSV), convey.ShouldBeTrue)
		})

		convey.Convey("When the input is empty", func() {
			_, _, err := ReadCSV(strings.NewReader(""))
			convey.So(errors.Is(err, ErrMalformedCSV), convey.ShouldBeTrue)
		})

		convey.Convey("When a number does not parse", func() {
			in := strings.Join(Header(false), ",") + "\nArsenal,x,1,1,3,1,2020-21,0.1\n"
			_, _, err := ReadCSV(strings.NewReader(in))
			convey.So(errors.Is(err, ErrMalformedCSV), convey.ShouldBeTrue)
		})
	})
}

func TestMsgpack(t *testing.T) {
	convey.Convey("Given the scored current season", t, func() {
		view := scoredView("2024-25")

		var buf bytes.Buffer
		convey.So(WriteMsgpack(&buf, view), convey.ShouldBeNil)

		convey.Convey("Then the rows decode unchanged", func() {
			rows, err := ReadMsgpack(&buf)
			convey.So(err, convey.ShouldBeNil)
			convey.So(rows, convey.ShouldResemble, view.Rows)
		})
	})
}

func TestXLSX(t *testing.T) {
	convey.Convey("Given the scored current season", t, func() {
		view := scoredView("2024-25", "Arsenal", "Tottenham")

		var buf bytes.Buffer
		convey.So(WriteXLSX(&buf, view), convey.ShouldBeNil)

		convey.Convey("Then the workbook has one sheet with the CSV columns", func() {
			f, err := excelize.OpenReader(&buf)
			convey.So(err, convey.ShouldBeNil)
			defer f.Close()

			convey.So(f.GetSheetList(), convey.ShouldResemble, []string{SheetName})
			rows, err := f.GetRows(SheetName)
			convey.So(err, convey.ShouldBeNil)
			convey.So(rows, convey.ShouldHaveLength, 3)
			convey.So(rows[0], convey.ShouldResemble, Header(true))
			convey.So(rows[1][0], convey.ShouldEqual, "Arsenal")
			convey.So(rows[2][len(rows[2])-1], convey.ShouldEqual, "0.913")
		})
	})
}

func TestFormat(t *testing.T) {
	convey.Convey("ParseFormat", t, func() {
		f, err := ParseFormat("")
		convey.So(err, convey.ShouldBeNil)
		convey.So(f, convey.ShouldEqual, FormatCSV)

		f, err = ParseFormat("XLSX")
		convey.So(err, convey.ShouldBeNil)
		convey.So(f.FileName(), convey.ShouldEqual, "premier_league_analytics.xlsx")

		_, err = ParseFormat("pdf")
		convey.So(errors.Is(err, ErrUnsupportedFormat), convey.ShouldBeTrue)
	})

	convey.Convey("Write rejects unknown formats", t, func() {
		var buf bytes.Buffer
		err := Write(&buf, Format("pdf"), aggregate.View{})
		convey.So(errors.Is(err, ErrUnsupportedFormat), convey.ShouldBeTrue)
		convey.So(FormatCSV.ContentType(), convey.ShouldEqual, "text/csv")
	})
}
