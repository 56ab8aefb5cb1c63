package dailymodel

// Field names one answer slot of the daily form.
type Field string

const (
	FieldQ1   Field = "q1"
	FieldQ2   Field = "q2"
	FieldQ3   Field = "q3"
	FieldMood Field = "mood"
)

// Question is a free-text prompt of the daily form.
type Question struct {
	Field Field
	Text  string
}

var Questions = []Question{
	{Field: FieldQ1, Text: "Comment s'est passée votre journée ?"},
	{Field: FieldQ2, Text: "Qu'avez-vous accompli aujourd'hui ?"},
	{Field: FieldQ3, Text: "Comment vous sentez-vous ce soir ?"},
}

// QuestionFor returns the prompt bound to a question field.
func QuestionFor(field Field) (Question, bool) {
	for _, q := range Questions {
		if q.Field == field {
			return q, true
		}
	}
	return Question{}, false
}

var Moods = []string{
	"😊 Heureux",
	"😢 Triste",
	"😴 Fatigué",
	"😡 Frustré",
	"🤩 Excité",
}

// Advisor is a persona the backend can use to write an evaluation.
type Advisor struct {
	ID   int
	Name string
}

var Advisors = []Advisor{
	{ID: 0, Name: "Sean McGuire"},
	{ID: 1, Name: "The Ancient One"},
	{ID: 2, Name: "Nelson Mandela"},
	{ID: 3, Name: "Iroh"},
	{ID: 4, Name: "Mulan"},
	{ID: 5, Name: "Ghandalf"},
	{ID: 6, Name: "Oprah Winfrey"},
	{ID: 7, Name: "Maitre Yoda"},
	{ID: 8, Name: "Tyrion Lannister"},
	{ID: 9, Name: "Tupac Shakur"},
}

func AdvisorByID(id int) (Advisor, bool) {
	for _, a := range Advisors {
		if a.ID == id {
			return a, true
		}
	}
	return Advisor{}, false
}
