package research

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alejandrodnm/edgebot/internal/domain"
)

// Decode lee un documento de picks y lo convierte en oportunidades.
// defaultCategory se usa para picks sin categoría.
func Decode(r io.Reader, defaultCategory string) ([]domain.Opportunity, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc picksFile
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("research.Decode: parse JSON: %w", err)
	}

	opps, err := mapPicks(doc.Picks, defaultCategory)
	if err != nil {
		return nil, fmt.Errorf("research.Decode: %w", err)
	}
	return opps, nil
}

// FileSource implementa ports.OpportunitySource leyendo uno o más archivos de picks.
type FileSource struct {
	paths   []string
	workers int
}

// NewFileSource crea un FileSource para las rutas dadas.
func NewFileSource(paths ...string) *FileSource {
	return &FileSource{paths: paths}
}

// LoadOpportunities lee los archivos y filtra por categoría.
func (f *FileSource) LoadOpportunities(ctx context.Context, categories []string) ([]domain.Opportunity, error) {
	opps, err := LoadFiles(ctx, f.paths, f.workers)
	if err != nil {
		return nil, err
	}

	filtered := FilterCategories(opps, categories)
	slog.Debug("research files loaded",
		"files", len(f.paths),
		"picks", len(opps),
		"in_categories", len(filtered),
	)
	return filtered, nil
}

// decodeFile abre y decodifica un único archivo de picks.
func decodeFile(path string) ([]domain.Opportunity, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("research.decodeFile: open %q: %w", path, err)
	}
	defer fh.Close()

	opps, err := Decode(fh, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return opps, nil
}

// FilterCategories conserva las oportunidades cuya categoría está en la lista
// (sin distinguir mayúsculas). Lista vacía = todas.
func FilterCategories(opps []domain.Opportunity, categories []string) []domain.Opportunity {
	if len(categories) == 0 {
		return opps
	}
	want := make(map[string]bool, len(categories))
	for _, c := range categories {
		want[strings.ToLower(strings.TrimSpace(c))] = true
	}
	out := make([]domain.Opportunity, 0, len(opps))
	for _, o := range opps {
		if want[strings.ToLower(o.Category)] {
			out = append(out, o)
		}
	}
	return out
}
