package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"careerpath/internal/domain"
)

var (
	ErrUnknownQuestion    = errors.New("unknown question")
	ErrInvalidAnswerValue = errors.New("answer value not offered by question")
	ErrSessionCompleted   = errors.New("assessment already completed")
)

// QuestionBank es la vista del catalogo que usan las transiciones de sesion.
type QuestionBank interface {
	Questions() []domain.Question
	Question(id string) (domain.Question, bool)
	QuestionsByCategory(category domain.Category) []domain.Question
}

// StartSession crea una sesion posicionada en la primera pregunta de la
// primera categoria con preguntas.
func StartSession(userID string, bank QuestionBank, now time.Time) domain.AssessmentSession {
	s := domain.AssessmentSession{
		ID:              uuid.NewString(),
		UserID:          userID,
		Answers:         []domain.Answer{},
		CurrentCategory: domain.Categories()[0],
		StartedAt:       now,
		UpdatedAt:       now,
	}
	for _, c := range domain.Categories() {
		if len(bank.QuestionsByCategory(c)) > 0 {
			s.CurrentCategory = c
			break
		}
	}
	return s
}

// Answer registra (o reemplaza) la respuesta a questionID. La categoria se
// toma siempre de la pregunta. La sesion recibida no se modifica.
func Answer(s domain.AssessmentSession, bank QuestionBank, questionID string, value int, now time.Time) (domain.AssessmentSession, error) {
	if s.Completed {
		return s, ErrSessionCompleted
	}
	q, ok := bank.Question(questionID)
	if !ok {
		return s, ErrUnknownQuestion
	}
	if !q.AcceptsValue(value) {
		return s, ErrInvalidAnswerValue
	}

	ans := domain.Answer{
		QuestionID: q.ID,
		Category:   q.Category,
		Value:      value,
		AnsweredAt: now,
	}
	answers := make([]domain.Answer, 0, len(s.Answers)+1)
	replaced := false
	for _, a := range s.Answers {
		if a.QuestionID == q.ID {
			answers = append(answers, ans)
			replaced = true
			continue
		}
		answers = append(answers, a)
	}
	if !replaced {
		answers = append(answers, ans)
	}
	s.Answers = answers
	s.UpdatedAt = now
	return s, nil
}

// Next avanza dentro de la categoria actual y luego a la siguiente categoria
// con preguntas. Devuelve false (sin cambios) si ya esta en la ultima.
func Next(s domain.AssessmentSession, bank QuestionBank, now time.Time) (domain.AssessmentSession, bool) {
	if s.CurrentIndex+1 < len(bank.QuestionsByCategory(s.CurrentCategory)) {
		s.CurrentIndex++
		s.UpdatedAt = now
		return s, true
	}
	cats := domain.Categories()
	for i := categoryPosition(s.CurrentCategory) + 1; i < len(cats); i++ {
		if len(bank.QuestionsByCategory(cats[i])) > 0 {
			s.CurrentCategory = cats[i]
			s.CurrentIndex = 0
			s.UpdatedAt = now
			return s, true
		}
	}
	return s, false
}

// Previous es la inversa de Next; al cambiar de categoria queda en su ultima pregunta.
func Previous(s domain.AssessmentSession, bank QuestionBank, now time.Time) (domain.AssessmentSession, bool) {
	if s.CurrentIndex > 0 {
		s.CurrentIndex--
		s.UpdatedAt = now
		return s, true
	}
	cats := domain.Categories()
	for i := categoryPosition(s.CurrentCategory) - 1; i >= 0; i-- {
		if qs := bank.QuestionsByCategory(cats[i]); len(qs) > 0 {
			s.CurrentCategory = cats[i]
			s.CurrentIndex = len(qs) - 1
			s.UpdatedAt = now
			return s, true
		}
	}
	return s, false
}

// CurrentQuestion devuelve la pregunta en la posicion actual de la sesion.
func CurrentQuestion(s domain.AssessmentSession, bank QuestionBank) (domain.Question, bool) {
	qs := bank.QuestionsByCategory(s.CurrentCategory)
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(qs) {
		return domain.Question{}, false
	}
	return qs[s.CurrentIndex], true
}

// Progress devuelve preguntas respondidas (del banco actual) sobre el total.
func Progress(s domain.AssessmentSession, bank QuestionBank) (answered, total int) {
	total = len(bank.Questions())
	seen := make(map[string]struct{}, len(s.Answers))
	for _, a := range s.Answers {
		if _, ok := bank.Question(a.QuestionID); !ok {
			continue
		}
		seen[a.QuestionID] = struct{}{}
	}
	return len(seen), total
}

func categoryPosition(c domain.Category) int {
	for i, cat := range domain.Categories() {
		if cat == c {
			return i
		}
	}
	return -1
}
