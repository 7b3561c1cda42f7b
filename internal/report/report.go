package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/osteele/liquid"

	"github.com/salonops/repeat-insight/internal/analytics"
	"github.com/salonops/repeat-insight/internal/pkg/logger"
)

// Generator renders the plain-text analysis report from a Liquid template.
type Generator struct {
	engine *liquid.Engine
	dir    string
}

// New creates a report generator writing files under dir.
func New(dir string) *Generator {
	engine := liquid.NewEngine()

	// One-decimal percentage/mean formatting: {{ rate | pct1 }}
	engine.RegisterFilter("pct1", func(v interface{}) string {
		switch x := v.(type) {
		case float64:
			return strconv.FormatFloat(x, 'f', 1, 64)
		case int:
			return strconv.FormatFloat(float64(x), 'f', 1, 64)
		default:
			return fmt.Sprintf("%v", v)
		}
	})

	return &Generator{engine: engine, dir: dir}
}

// Render produces the report text for one analysis result.
func (g *Generator) Render(result *analytics.AnalysisResult) (string, error) {
	// Bind through JSON so the template sees the same keys as the API.
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	var bindings map[string]interface{}
	if err := json.Unmarshal(data, &bindings); err != nil {
		return "", fmt.Errorf("bind result: %w", err)
	}

	out, err := g.engine.ParseAndRenderString(reportTemplate, bindings)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}

// Generate renders the report and writes it to a timestamped file,
// returning the file path.
func (g *Generator) Generate(result *analytics.AnalysisResult) (string, error) {
	text, err := g.Render(result)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	name := fmt.Sprintf("repeat-analysis-%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(g.dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	logger.Info("report written", "path", path)
	return path, nil
}
