package api

import (
	"net/http"
	"strings"

	"github.com/samber/lo"
)

// selection is the raw season/team selection of a request.
type selection struct {
	season string
	teams  []string
}

// parseSelection reads season and teams from the query. A missing teams
// parameter yields nil; a present but blank one yields an empty selection.
// Repeated and comma separated values are both accepted.
func parseSelection(r *http.Request) selection {
	q := r.URL.Query()
	sel := selection{season: strings.TrimSpace(q.Get("season"))}
	values, ok := q["teams"]
	if !ok {
		return sel
	}
	sel.teams = []string{}
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				sel.teams = append(sel.teams, name)
			}
		}
	}
	sel.teams = lo.Uniq(sel.teams)
	return sel
}
