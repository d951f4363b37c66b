package domain

type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single-choice"
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionScale          QuestionType = "scale"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionSingleChoice, QuestionMultipleChoice, QuestionScale:
		return true
	}
	return false
}

// MaxOptionValue es el valor maximo de una opcion; define el maximo por pregunta al puntuar.
const MaxOptionValue = 10

type Question struct {
	ID       string       `json:"id"`
	Category Category     `json:"category"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Options  []Option     `json:"options"`
}

type Option struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
	Trait string `json:"trait,omitempty"` // solo interests/personality
}

// AcceptsValue indica si value corresponde a alguna opcion de la pregunta.
// Una pregunta sin opciones acepta cualquier valor en [0, MaxOptionValue].
func (q Question) AcceptsValue(value int) bool {
	if len(q.Options) == 0 {
		return value >= 0 && value <= MaxOptionValue
	}
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}
