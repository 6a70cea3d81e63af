package generator

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/jakoblorz/go-codestart/internal/models"
)

const nextStepsTemplate = `{{- $p := .Project -}}
{{- if eq .Target "GITHUB" -}}
Your project {{ $p.ArtifactID | quote }} has been pushed to GitHub.

  Repository: {{ .Repository.URL }}

Clone it and start coding:

  git clone {{ .Repository.CloneURL }}
  cd {{ .Repository.Name }}
{{- else if .Path -}}
Your project {{ $p.ArtifactID | quote }} is ready in {{ .Path }}.

Start coding:

  cd {{ .Path }}
{{- else if eq .Target "DOWNLOAD" -}}
Your project {{ $p.ArtifactID | quote }} has been saved to {{ .Archive }}.

Unzip it and start coding:

  unzip {{ .Archive | base }}
  cd {{ $p.ArtifactID }}
{{- else -}}
Your project {{ $p.ArtifactID | quote }} is ready to download.

  Download: {{ .DownloadURL }}
  Share:    {{ .ShareURL }}

Unzip it and start coding:

  cd {{ $p.ArtifactID }}
{{- end }}
  {{ .DevCommand }}

{{ if .Extensions -}}
Extensions ({{ len .Extensions }}):
{{ range .Extensions }}  - {{ .Name }}{{ if .Guide }} ({{ .Guide }}){{ end }}
{{ end }}
{{ end -}}
{{- if $p.NoCode -}}
No starter code was generated.
{{ else -}}
Starter code is included for extensions that provide it.
{{ end -}}
Build tool: {{ $p.BuildTool.Label }}{{ if $p.JavaVersion }}, Java {{ $p.JavaVersion }}{{ end }}
`

var nextSteps = template.Must(template.New("next-steps").Funcs(sprig.TxtFuncMap()).Parse(nextStepsTemplate))

// devCommand is the command that starts the project in dev mode
func devCommand(bt models.BuildTool) string {
	switch bt {
	case models.BuildToolGradle, models.BuildToolGradleKotlinDSL:
		return "./gradlew quarkusDev"
	default:
		return "./mvnw quarkus:dev"
	}
}

type nextStepsData struct {
	*Result
	Project    *models.ProjectDefinition
	DevCommand string
	Extensions []models.Extension
}

// NextSteps renders the instructions printed after a project was generated.
func NextSteps(result *Result, p *models.ProjectDefinition, extensions []models.Extension) (string, error) {
	var buf bytes.Buffer
	err := nextSteps.Execute(&buf, nextStepsData{
		Result:     result,
		Project:    p,
		DevCommand: devCommand(p.BuildTool),
		Extensions: extensions,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render next steps: %w", err)
	}
	return buf.String(), nil
}
