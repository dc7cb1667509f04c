package page

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/models"
	"github.com/dmitrijs2005/expertprofile/internal/timex"
)

const (
	NotSetYet      = "Not Set Yet"
	SelectDays     = "Select Days"
	Loading        = "Loading..."
	UnsyncedNotice = `! Unsynced changes: type "reload" to discard or "retry" to resubmit`
)

var funcs = template.FuncMap{
	"orNotSet": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return NotSetYet
		}
		return s
	},
	"rate": func(r models.Rate) string {
		if r.IsZero() {
			return NotSetYet
		}
		return r.String() + " SOL/hr"
	},
	"rateInput": func(r models.Rate) string {
		if r.IsZero() {
			return ""
		}
		return r.String()
	},
	"days": func(set []models.WeekDay) string {
		return models.JoinWeekDays(models.SortWeekDays(set), ", ")
	},
	"daysLabel": func(set []models.WeekDay) string {
		if len(set) == 0 {
			return SelectDays
		}
		return models.JoinWeekDays(models.SortWeekDays(set), ", ")
	},
	"checked": func(set []models.WeekDay, d models.WeekDay) string {
		if models.ContainsWeekDay(set, d) {
			return "[x]"
		}
		return "[ ]"
	},
	"chips": func(tags []string) string {
		out := make([]string, len(tags))
		for i, t := range tags {
			out[i] = "[" + t + "]"
		}
		return strings.Join(out, " ")
	},
	"memberSince": func(t time.Time) string { return t.Format("02 Jan 2006") },
	"join":        strings.Join,
	"allDays":     func() []models.WeekDay { return models.WeekDays },
	"unsynced":    func() string { return UnsyncedNotice },
}

var viewTmpl = template.Must(template.New("view").Funcs(funcs).Parse(
	`Profile                                   [Edit]
Basic information
  Name:     {{.U.Name}}
  Email:    {{.U.Email}}
  Username: {{.U.Username}}
  Member since {{memberSince .U.CreatedAt}}
Wallet
  {{orNotSet .U.WalletAddress}}
Expert profile
  Hourly rate: {{rate .P.HourlyRate}}
  Selected Days: {{days .P.AvailableWeekDays}}
  Selected Time Slots: {{.Start}} - {{.End}}
  Tags: {{chips .P.Tags}}
{{if .Unsynced}}{{unsynced}}
{{end}}`))

var editTmpl = template.Must(template.New("edit").Funcs(funcs).Parse(
	`Profile (editing)                         [Save]
  Name:        {{.S.Name}}
  Wallet:      {{.S.WalletAddress}}
  Hourly rate: {{rateInput .S.HourlyRate}} SOL
  Days:        {{daysLabel .S.WeekDays}}
{{range allDays}}    {{checked $.S.WeekDays .}} {{.}}
{{end}}  From: {{.S.Start}}   To: {{.S.End}}
  Tags: {{chips .S.Tags}}
{{if .Suggestions}}  Suggestions: {{join .Suggestions ", "}}
{{end}}`))

type viewData struct {
	U        *models.UserInfo
	P        *models.ExpertProfile
	Start    timex.TimeOfDay
	End      timex.TimeOfDay
	Unsynced bool
}

type editData struct {
	S           *SessionView
	Suggestions []string
}

// Render draws v. It depends on nothing but v.
func Render(w io.Writer, v View) error {
	switch st := v.State.(type) {
	case Loaded:
		if v.Mode == Editing && v.Session != nil {
			return editTmpl.Execute(w, editData{S: v.Session, Suggestions: v.Suggestions})
		}
		p := st.User.ExpertProfile
		if p == nil {
			p = &models.ExpertProfile{}
		}
		return viewTmpl.Execute(w, viewData{U: st.User, P: p, Start: v.Start, End: v.End, Unsynced: v.Unsynced})
	case NotLoaded, nil:
		_, err := fmt.Fprintln(w, Loading)
		return err
	default:
		return fmt.Errorf("unknown load state %T", st)
	}
}
