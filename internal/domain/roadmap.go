package domain

type ResourceType string

const (
	ResourceCourse        ResourceType = "course"
	ResourceBook          ResourceType = "book"
	ResourceProject       ResourceType = "project"
	ResourceCertification ResourceType = "certification"
	ResourceMentorship    ResourceType = "mentorship"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceCourse, ResourceBook, ResourceProject, ResourceCertification, ResourceMentorship:
		return true
	}
	return false
}

type Resource struct {
	Type     ResourceType `json:"type"`
	Title    string       `json:"title"`
	URL      string       `json:"url,omitempty"`
	Platform string       `json:"platform,omitempty"`
}

type RoadmapStep struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	Resources   []Resource `json:"resources"`
	Completed   bool       `json:"completed"`
}

// CloneSteps copia los pasos para que marcar uno como completado no toque la tabla estatica.
func CloneSteps(steps []RoadmapStep) []RoadmapStep {
	if steps == nil {
		return nil
	}
	out := make([]RoadmapStep, len(steps))
	for i, s := range steps {
		out[i] = s
		out[i].Resources = append([]Resource(nil), s.Resources...)
	}
	return out
}
