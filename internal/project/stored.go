package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/storage"
)

// StoreKey is the fixed key of the remembered project.
const StoreKey = "codestart:default-project"

// ErrMalformedRecord is returned when the stored project cannot be used.
var ErrMalformedRecord = errors.New("stored project is malformed")

// storedProject holds only the fields a user customised. The stream is
// deliberately not remembered so a new session starts on the recommended
// stream.
type storedProject struct {
	GroupID     string   `json:"groupId,omitempty"`
	ArtifactID  string   `json:"artifactId,omitempty"`
	Version     string   `json:"version,omitempty"`
	ClassName   string   `json:"className,omitempty"`
	Path        string   `json:"path,omitempty"`
	BuildTool   string   `json:"buildTool,omitempty"`
	JavaVersion string   `json:"javaVersion,omitempty"`
	NoCode      *bool    `json:"noCode,omitempty"`
	Extensions  []string `json:"extensions,omitempty"`
}

func toStored(p *models.ProjectDefinition) storedProject {
	def := models.NewDefaultProject()
	pick := func(v, d string) string {
		if v == d {
			return ""
		}
		return v
	}

	sp := storedProject{
		GroupID:     pick(p.GroupID, def.GroupID),
		ArtifactID:  pick(p.ArtifactID, def.ArtifactID),
		Version:     pick(p.Version, def.Version),
		ClassName:   p.ClassName,
		Path:        p.Path,
		BuildTool:   pick(p.BuildTool.String(), def.BuildTool.String()),
		JavaVersion: p.JavaVersion,
		Extensions:  p.Extensions.Sorted(),
	}
	if p.NoCode {
		noCode := true
		sp.NoCode = &noCode
	}
	return sp
}

func fromStored(sp storedProject) (*models.ProjectDefinition, error) {
	p := models.NewDefaultProject()

	check := func(field, v string, valid func(string) bool, dst *string) error {
		if v == "" {
			return nil
		}
		if !valid(v) {
			return fmt.Errorf("%w: invalid %s %q", ErrMalformedRecord, field, v)
		}
		*dst = v
		return nil
	}
	if err := check("groupId", sp.GroupID, ValidGroupID, &p.GroupID); err != nil {
		return nil, err
	}
	if err := check("artifactId", sp.ArtifactID, ValidArtifactID, &p.ArtifactID); err != nil {
		return nil, err
	}
	if err := check("version", sp.Version, ValidVersion, &p.Version); err != nil {
		return nil, err
	}
	if err := check("className", sp.ClassName, ValidClassName, &p.ClassName); err != nil {
		return nil, err
	}
	if err := check("path", sp.Path, ValidPath, &p.Path); err != nil {
		return nil, err
	}
	if err := check("javaVersion", sp.JavaVersion, ValidJavaVersion, &p.JavaVersion); err != nil {
		return nil, err
	}
	if sp.BuildTool != "" {
		bt, err := models.ParseBuildTool(sp.BuildTool)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		p.BuildTool = bt
	}
	if sp.NoCode != nil {
		p.NoCode = *sp.NoCode
	}
	p.Extensions = models.NewExtensionSet(sp.Extensions...)

	return p, nil
}

// LoadStored reads the remembered project. It returns nil, nil when
// nothing is stored and ErrMalformedRecord when the record is unusable.
func LoadStored(store storage.Store) (*models.ProjectDefinition, error) {
	data, ok, err := store.Get(StoreKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored project: %w", err)
	}
	if !ok {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var sp storedProject
	if err := dec.Decode(&sp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return fromStored(sp)
}

// SaveStored remembers p as the starting point of the next session.
func SaveStored(store storage.Store, p *models.ProjectDefinition) error {
	data, err := json.Marshal(toStored(p))
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	if err := store.Set(StoreKey, data); err != nil {
		return fmt.Errorf("failed to store project: %w", err)
	}
	return nil
}

// Reset forgets the remembered project and returns the defaults.
func Reset(store storage.Store) (*models.ProjectDefinition, error) {
	if err := store.Remove(StoreKey); err != nil {
		return nil, fmt.Errorf("failed to reset stored project: %w", err)
	}
	return models.NewDefaultProject(), nil
}
