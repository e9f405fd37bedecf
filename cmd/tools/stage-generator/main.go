// cmd/tools/stage-generator/main.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
)

// StageData holds data for templates
type StageData struct {
	Module      string
	Name        string
	PackageName string
	Group       string
	Description string
}

var stageName = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

var groups = map[string]bool{
	"ingest":    true,
	"scoring":   true,
	"reporting": true,
}

const configTemplate = `// internal/stages/{{ .Group }}/{{ .Name }}/config.go
package {{ .PackageName }}

type Config struct {
	Enabled bool
}

func DefaultConfig() *Config {
	return &Config{Enabled: true}
}

func (c *Config) Validate() error {
	return nil
}
`

const modelsTemplate = `// internal/stages/{{ .Group }}/{{ .Name }}/models.go
package {{ .PackageName }}

import (
	"{{ .Module }}/internal/common/logger"
	"{{ .Module }}/internal/models"
)

type Input struct {
	RecordSet *models.RecordSet
}

type Output struct {
	RecordSet *models.RecordSet
}

type ServiceDependencies struct {
	Logger logger.Logger
}
`

const serviceTemplate = `// internal/stages/{{ .Group }}/{{ .Name }}/service.go
package {{ .PackageName }}

import (
	"context"

	apperrors "{{ .Module }}/internal/common/errors"
	"{{ .Module }}/internal/common/logger"
)

const (
	StageName = "{{ .Name }}"
)

type Service struct {
	config *Config
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

{{ if .Description }}// Execute {{ .Description }}
{{ end }}func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input == nil || input.RecordSet == nil {
		return nil, apperrors.NewInvalidInputError("record set is required")
	}

	// TODO: implement {{ .Name }}
	s.logger.Debug("stage executed", map[string]interface{}{
		"records": len(input.RecordSet.Records),
	})
	return &Output{RecordSet: input.RecordSet}, nil
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"{{ .Module }}/internal/common/logger"
	"{{ .Module }}/internal/models"
)

func TestExecute(t *testing.T) {
	svc := NewService(ServiceDependencies{Logger: logger.NewTestLogger(t)}, DefaultConfig())

	records := []models.EvaluationRecord{
		{Candidate: "Kim"},
	}
	out, err := svc.Execute(context.Background(), &Input{RecordSet: &models.RecordSet{Records: records}})
	require.NoError(t, err)
	assert.Len(t, out.RecordSet.Records, 1)
}

func TestExecute_RequiresRecords(t *testing.T) {
	svc := NewService(ServiceDependencies{Logger: logger.NewTestLogger(t)}, DefaultConfig())

	_, err := svc.Execute(context.Background(), &Input{})
	assert.Error(t, err)
}
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("stage-generator", flag.ContinueOnError)
	fs.SetOutput(out)
	name := fs.String("name", "", "Stage name (e.g., rank-candidates)")
	group := fs.String("group", "scoring", "Stage group: ingest, scoring or reporting")
	description := fs.String("description", "", "One-line description used as the Execute doc comment")
	outputDir := fs.String("output", "./internal/stages/", "Root directory for stage packages")
	module := fs.String("module", "", "Module path (read from go.mod when empty)")
	force := fs.Bool("force", false, "Overwrite an existing stage package")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *name == "" {
		fmt.Fprintln(out, "Usage: stage-generator -name <stage> [-group <group>] [-description <text>] [-output <dir>]")
		fmt.Fprintln(out, "\nExample:")
		fmt.Fprintln(out, "  go run ./cmd/tools/stage-generator -name rank-candidates -group scoring")
		return 1
	}

	mod := *module
	if mod == "" {
		var err error
		if mod, err = modulePath("go.mod"); err != nil {
			fmt.Fprintf(out, "Error reading module path: %v\n", err)
			return 1
		}
	}

	data := StageData{
		Module:      mod,
		Name:        *name,
		PackageName: strings.ReplaceAll(*name, "-", ""),
		Group:       *group,
	}
	if desc := strings.TrimSpace(*description); desc != "" {
		data.Description = strings.TrimSuffix(desc, ".") + "."
	}

	dir, files, err := generate(data, *outputDir, *force)
	if err != nil {
		fmt.Fprintf(out, "Error generating stage: %v\n", err)
		return 1
	}
	for _, f := range files {
		fmt.Fprintf(out, "✓ Generated %s\n", f)
	}

	fmt.Fprintf(out, "\n✅ Stage scaffold generated successfully at: %s\n", dir)
	fmt.Fprintf(out, "\nNext steps:\n")
	fmt.Fprintf(out, "  1. Implement the stage in service.go\n")
	fmt.Fprintf(out, "  2. Add its settings to internal/common/config and internal/pipeline/config.go\n")
	fmt.Fprintf(out, "  3. Run it from internal/pipeline via p.stage(ctx, %s.StageName, ...)\n", data.PackageName)
	return 0
}

func generate(data StageData, root string, force bool) (string, []string, error) {
	if !stageName.MatchString(data.Name) {
		return "", nil, fmt.Errorf("invalid stage name %q: use lower-case words joined by hyphens", data.Name)
	}
	if !groups[data.Group] {
		return "", nil, fmt.Errorf("unknown group %q", data.Group)
	}

	dir := filepath.Join(root, data.Group, data.Name)
	if _, err := os.Stat(dir); err == nil && !force {
		return "", nil, fmt.Errorf("%s already exists (use -force to overwrite)", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create directory: %w", err)
	}

	templates := []struct {
		file string
		text string
	}{
		{"config.go", configTemplate},
		{"models.go", modelsTemplate},
		{"service.go", serviceTemplate},
		{"service_test.go", testTemplate},
	}

	var written []string
	for _, t := range templates {
		tmpl, err := template.New(t.file).Parse(t.text)
		if err != nil {
			return "", nil, fmt.Errorf("parse template %s: %w", t.file, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", nil, fmt.Errorf("execute template %s: %w", t.file, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return "", nil, fmt.Errorf("format %s: %w", t.file, err)
		}

		path := filepath.Join(dir, t.file)
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return "", nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return dir, written, nil
}

func modulePath(goMod string) (string, error) {
	data, err := os.ReadFile(goMod)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module ")), nil
		}
	}
	return "", fmt.Errorf("no module directive in %s", goMod)
}
