package dashboard

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"healthpredict-web/models"
)

// Placeholder texts shown in place of data.
const (
	LoadingText        = "Loading..."
	ErrorText          = "Error loading data."
	NoBreakdownText    = "No predictions logged yet."
	NoRecentText       = "No recent activity."
	NoAssessmentsText  = "No assessments yet."
	NoCategoryDataText = "No data yet"
)

// Fixed status card categories, in display order.
const (
	CategoryHeart      = "Heart Disease"
	CategoryDiabetes   = "Diabetes"
	CategoryParkinsons = "Parkinson's"
)

var (
	statusCategories = []string{CategoryHeart, CategoryDiabetes, CategoryParkinsons}

	adminColumns = []string{"Name", "Type", "Outcome", "Date"}
	userColumns  = []string{"Type", "Outcome", "Date"}
)

// BindAdmin projects an admin snapshot into its render tree.
func BindAdmin(snap *models.AdminSnapshot, clock Clock) models.AdminDashboard {
	return models.AdminDashboard{
		TotalUsers: models.Text{Value: strconv.Itoa(snap.TotalUsers)},
		Breakdown:  bindBreakdown(snap.PredictionBreakdown),
		Recent:     bindRecent(snap.RecentPredictions, clock),
	}
}

func bindBreakdown(breakdown map[string]int) models.List {
	if len(breakdown) == 0 {
		return models.List{Items: []models.ListItem{{Label: NoBreakdownText, Placeholder: true}}}
	}

	keys := make([]string, 0, len(breakdown))
	for k := range breakdown {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]models.ListItem, 0, len(keys))
	for _, k := range keys {
		items = append(items, models.ListItem{Label: Capitalize(k), Value: strconv.Itoa(breakdown[k])})
	}
	return models.List{Items: items}
}

func bindRecent(records []models.PredictionRecord, clock Clock) models.Table {
	if len(records) == 0 {
		return placeholderTable(adminColumns, NoRecentText)
	}

	rows := make([]models.Row, 0, len(records))
	for _, p := range records {
		rows = append(rows, models.Row{Cells: []models.Cell{
			{Text: p.Fullname},
			{Text: Capitalize(p.Type), Badge: true},
			{Text: p.Outcome},
			{Text: clock.Local(p.Timestamp), Muted: true},
		}})
	}
	return models.Table{Columns: adminColumns, Rows: rows}
}

// BindUser projects a user snapshot into its render tree.
func BindUser(snap *models.UserSnapshot, clock Clock) models.UserDashboard {
	return models.UserDashboard{
		WellnessScore: models.Text{Value: snap.WellnessScore},
		StatusCards:   bindStatusCards(snap.Predictions, clock),
		History:       bindHistory(snap.Predictions, clock),
	}
}

// bindStatusCards keeps the first record seen per fixed category. Records
// are not re-sorted; the backend returns them most recent first.
func bindStatusCards(records []models.PredictionRecord, clock Clock) []models.StatusCard {
	latest := make(map[string]models.PredictionRecord, len(statusCategories))
	for _, p := range records {
		category, ok := NormalizeCategory(p.Type)
		if !ok {
			continue
		}
		if _, seen := latest[category]; !seen {
			latest[category] = p
		}
	}

	cards := make([]models.StatusCard, 0, len(statusCategories))
	for _, category := range statusCategories {
		p, ok := latest[category]
		if !ok {
			cards = append(cards, models.StatusCard{Category: category, Outcome: NoCategoryDataText})
			continue
		}
		cards = append(cards, models.StatusCard{
			Category:  category,
			Outcome:   p.Outcome,
			Timestamp: clock.Local(p.Timestamp),
			HasData:   true,
		})
	}
	return cards
}

func bindHistory(records []models.PredictionRecord, clock Clock) models.Table {
	if len(records) == 0 {
		return placeholderTable(userColumns, NoAssessmentsText)
	}

	rows := make([]models.Row, 0, len(records))
	for _, p := range records {
		rows = append(rows, models.Row{Cells: []models.Cell{
			{Text: Capitalize(p.Type), Badge: true},
			{Text: p.Outcome},
			{Text: clock.Local(p.Timestamp), Muted: true},
		}})
	}
	return models.Table{Columns: userColumns, Rows: rows}
}

// LoadingAdmin is the admin tree before any fetch has succeeded.
func LoadingAdmin() models.AdminDashboard {
	return placeholderAdmin(LoadingText)
}

// FailedAdmin replaces every loading placeholder with the error text.
func FailedAdmin() models.AdminDashboard {
	return placeholderAdmin(ErrorText)
}

func placeholderAdmin(text string) models.AdminDashboard {
	return models.AdminDashboard{
		TotalUsers: models.Text{Value: text, Placeholder: true},
		Breakdown:  models.List{Items: []models.ListItem{{Label: text, Placeholder: true}}},
		Recent:     placeholderTable(adminColumns, text),
	}
}

// LoadingUser is the user tree before any fetch has succeeded.
func LoadingUser() models.UserDashboard {
	cards := make([]models.StatusCard, 0, len(statusCategories))
	for _, category := range statusCategories {
		cards = append(cards, models.StatusCard{Category: category, Outcome: LoadingText})
	}
	return models.UserDashboard{
		WellnessScore: models.Text{Value: LoadingText, Placeholder: true},
		StatusCards:   cards,
		History:       placeholderTable(userColumns, LoadingText),
	}
}

func placeholderTable(columns []string, text string) models.Table {
	return models.Table{
		Columns: columns,
		Rows: []models.Row{{
			Cells:       []models.Cell{{Text: text}},
			Placeholder: true,
			Span:        len(columns),
		}},
	}
}

// Capitalize upper-cases the first rune of s and leaves the rest as is.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// NormalizeCategory maps a free-form prediction type onto one of the fixed
// status card categories.
func NormalizeCategory(label string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}

	switch b.String() {
	case "heart", "heartdisease":
		return CategoryHeart, true
	case "diabetes":
		return CategoryDiabetes, true
	case "parkinson", "parkinsons", "parkinsonsdisease":
		return CategoryParkinsons, true
	default:
		return "", false
	}
}
