package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"careerpath/internal/domain"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	questionsFile = "questions.yaml"
	careersFile   = "careers.yaml"
	roadmapsFile  = "roadmaps.yaml"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

type questionsDoc struct {
	Questions []questionFile `yaml:"questions"`
}

type questionFile struct {
	ID       string       `yaml:"id"`
	Category string       `yaml:"category"`
	Type     string       `yaml:"type"`
	Text     string       `yaml:"text"`
	Options  []optionFile `yaml:"options"`
}

type optionFile struct {
	Text  string `yaml:"text"`
	Value int    `yaml:"value"`
	Trait string `yaml:"trait"`
}

type careersDoc struct {
	Careers []careerFile `yaml:"careers"`
}

type careerFile struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	RequiredSkills  []string `yaml:"required_skills"`
	SalaryRange     string   `yaml:"salary_range"`
	GrowthPotential string   `yaml:"growth_potential"`
	Icon            string   `yaml:"icon"`
}

type roadmapsDoc struct {
	Roadmaps map[string][]stepFile `yaml:"roadmaps"`
}

type stepFile struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Duration    string         `yaml:"duration"`
	Resources   []resourceFile `yaml:"resources"`
}

type resourceFile struct {
	Type     string `yaml:"type"`
	Title    string `yaml:"title"`
	URL      string `yaml:"url"`
	Platform string `yaml:"platform"`
}

// Load parsea el catalogo embebido en el binario.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return load(sub, sub)
}

// LoadDir lee los tres archivos desde dir; los que falten se toman del catalogo embebido.
func LoadDir(dir string) (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Clean(dir)); err != nil {
		return nil, fmt.Errorf("catalog dir: %w", err)
	}
	return load(os.DirFS(dir), sub)
}

func load(primary, fallback fs.FS) (*Catalog, error) {
	var qd questionsDoc
	if err := readYAML(primary, fallback, questionsFile, &qd); err != nil {
		return nil, err
	}
	var cd careersDoc
	if err := readYAML(primary, fallback, careersFile, &cd); err != nil {
		return nil, err
	}
	var rd roadmapsDoc
	if err := readYAML(primary, fallback, roadmapsFile, &rd); err != nil {
		return nil, err
	}

	c := &Catalog{
		questionIdx: make(map[string]int, len(qd.Questions)),
		careerIdx:   make(map[string]int, len(cd.Careers)),
		roadmaps:    make(map[string][]domain.RoadmapStep, len(rd.Roadmaps)),
	}
	for _, qf := range qd.Questions {
		q, err := qf.toDomain()
		if err != nil {
			return nil, err
		}
		if _, dup := c.questionIdx[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrInvalidCatalog, q.ID)
		}
		c.questionIdx[q.ID] = len(c.questions)
		c.questions = append(c.questions, q)
	}
	for _, cf := range cd.Careers {
		career, err := cf.toDomain()
		if err != nil {
			return nil, err
		}
		key := NormalizeKey(career.ID)
		if _, dup := c.careerIdx[key]; dup {
			return nil, fmt.Errorf("%w: duplicate career id %q", ErrInvalidCatalog, career.ID)
		}
		c.careerIdx[key] = len(c.careers)
		c.careers = append(c.careers, career)
	}
	if len(c.careers) == 0 {
		return nil, fmt.Errorf("%w: no careers defined", ErrInvalidCatalog)
	}
	for key, files := range rd.Roadmaps {
		steps, err := stepsToDomain(key, files)
		if err != nil {
			return nil, err
		}
		c.roadmaps[NormalizeKey(key)] = steps
	}
	return c, nil
}

func readYAML(primary, fallback fs.FS, name string, out any) error {
	data, err := fs.ReadFile(primary, name)
	if errors.Is(err, fs.ErrNotExist) && fallback != nil {
		data, err = fs.ReadFile(fallback, name)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (qf questionFile) toDomain() (domain.Question, error) {
	id := strings.TrimSpace(qf.ID)
	if id == "" {
		return domain.Question{}, fmt.Errorf("%w: question without id", ErrInvalidCatalog)
	}
	category, err := domain.ParseCategory(qf.Category)
	if err != nil {
		return domain.Question{}, fmt.Errorf("%w: question %q: %v", ErrInvalidCatalog, id, err)
	}
	qType := domain.QuestionType(qf.Type)
	if qType == "" {
		qType = domain.QuestionSingleChoice
	}
	if !qType.Valid() {
		return domain.Question{}, fmt.Errorf("%w: question %q: unknown type %q", ErrInvalidCatalog, id, qf.Type)
	}
	if len(qf.Options) == 0 {
		return domain.Question{}, fmt.Errorf("%w: question %q has no options", ErrInvalidCatalog, id)
	}
	options := make([]domain.Option, 0, len(qf.Options))
	for _, of := range qf.Options {
		if of.Value < 0 || of.Value > domain.MaxOptionValue {
			return domain.Question{}, fmt.Errorf("%w: question %q: option value %d out of range", ErrInvalidCatalog, id, of.Value)
		}
		options = append(options, domain.Option{Text: of.Text, Value: of.Value, Trait: of.Trait})
	}
	return domain.Question{
		ID:       id,
		Category: category,
		Text:     strings.TrimSpace(qf.Text),
		Type:     qType,
		Options:  options,
	}, nil
}

func (cf careerFile) toDomain() (domain.Career, error) {
	id := strings.TrimSpace(cf.ID)
	if id == "" || strings.TrimSpace(cf.Title) == "" {
		return domain.Career{}, fmt.Errorf("%w: career requires id and title", ErrInvalidCatalog)
	}
	growth := domain.GrowthPotential(cf.GrowthPotential)
	if !growth.Valid() {
		return domain.Career{}, fmt.Errorf("%w: career %q: unknown growth potential %q", ErrInvalidCatalog, id, cf.GrowthPotential)
	}
	return domain.Career{
		ID:              id,
		Title:           strings.TrimSpace(cf.Title),
		Description:     strings.TrimSpace(cf.Description),
		RequiredSkills:  append([]string(nil), cf.RequiredSkills...),
		SalaryRange:     cf.SalaryRange,
		GrowthPotential: growth,
		Icon:            cf.Icon,
	}, nil
}

func stepsToDomain(key string, files []stepFile) ([]domain.RoadmapStep, error) {
	seen := make(map[string]struct{}, len(files))
	steps := make([]domain.RoadmapStep, 0, len(files))
	for _, sf := range files {
		if sf.ID == "" {
			return nil, fmt.Errorf("%w: roadmap %q has a step without id", ErrInvalidCatalog, key)
		}
		if _, dup := seen[sf.ID]; dup {
			return nil, fmt.Errorf("%w: roadmap %q: duplicate step id %q", ErrInvalidCatalog, key, sf.ID)
		}
		seen[sf.ID] = struct{}{}
		resources := make([]domain.Resource, 0, len(sf.Resources))
		for _, rf := range sf.Resources {
			rt := domain.ResourceType(rf.Type)
			if !rt.Valid() {
				return nil, fmt.Errorf("%w: roadmap %q: unknown resource type %q", ErrInvalidCatalog, key, rf.Type)
			}
			resources = append(resources, domain.Resource{Type: rt, Title: rf.Title, URL: rf.URL, Platform: rf.Platform})
		}
		steps = append(steps, domain.RoadmapStep{
			ID:          sf.ID,
			Title:       sf.Title,
			Description: sf.Description,
			Duration:    sf.Duration,
			Resources:   resources,
		})
	}
	return steps, nil
}
