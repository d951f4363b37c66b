// Command assessment_check corre el pipeline completo de assessment sin base de
// datos: responde cada pregunta del catalogo con una fuente aleatoria sembrada
// e imprime el resultado como JSON.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"careerpath/internal/catalog"
	"careerpath/internal/domain"
)

func main() {
	var (
		seed       = flag.Int64("seed", 1, "semilla del random source (0 = entropia)")
		topN       = flag.Int("top", 5, "cantidad de recomendaciones")
		catalogDir = flag.String("catalog", "", "directorio con questions.yaml, careers.yaml y roadmaps.yaml")
		userType   = flag.String("user-type", "", "students, graduates, professionals o career-changers")
		experience = flag.String("experience", "", "entry, mid o senior")
		skills     = flag.String("skills", "", "skills separadas por coma")
		interests  = flag.String("interests", "", "intereses separados por coma")
	)
	flag.Parse()

	cat, err := catalog.Load()
	if *catalogDir != "" {
		cat, err = catalog.LoadDir(*catalogDir)
	}
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	profile := domain.CareerProfile{
		UserType:   domain.UserType(strings.ToLower(strings.TrimSpace(*userType))),
		Experience: domain.ExperienceLevel(strings.ToLower(strings.TrimSpace(*experience))),
		Interests:  splitList(*interests),
		Skills:     splitList(*skills),
	}
	if !profile.UserType.Valid() || !profile.Experience.Valid() {
		log.Fatalf("invalid profile: user-type=%q experience=%q", *userType, *experience)
	}

	report, err := simulate(cat, *seed, *topN, profile, time.Now().UTC())
	if err != nil {
		log.Fatalf("simulate: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("encode report: %v", err)
	}
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
