package project

import (
	"regexp"
	"strings"

	"github.com/jakoblorz/go-codestart/internal/models"
)

var (
	groupIDPattern     = regexp.MustCompile(`^([a-zA-Z_$][a-zA-Z\d_$]*\.)*[a-zA-Z_$][a-zA-Z\d_$]*$`)
	artifactIDPattern  = regexp.MustCompile(`^[a-z][a-z0-9-._]*$`)
	versionPattern     = regexp.MustCompile(`^\S+$`)
	classNamePattern   = groupIDPattern
	pathPattern        = regexp.MustCompile(`^/([a-z0-9\-._~%!$&'()*+,;=:@]+/?)*$`)
	javaVersionPattern = regexp.MustCompile(`^(?:1\.)?(\d+)(?:\..*)?$`)
)

// FieldError names an invalid project field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func ValidGroupID(v string) bool    { return groupIDPattern.MatchString(v) }
func ValidArtifactID(v string) bool { return artifactIDPattern.MatchString(v) }
func ValidVersion(v string) bool    { return versionPattern.MatchString(v) }
func ValidClassName(v string) bool  { return classNamePattern.MatchString(v) }
func ValidPath(v string) bool       { return pathPattern.MatchString(v) }

// ValidJavaVersion accepts "17", "1.8" and "21.0.2" style versions.
func ValidJavaVersion(v string) bool { return javaVersionPattern.MatchString(v) }

// NormalizeJavaVersion reduces a java version to its feature release,
// "1.8" -> "8", "21.0.2" -> "21". Invalid input is returned unchanged.
func NormalizeJavaVersion(v string) string {
	m := javaVersionPattern.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return v
	}
	return m[1]
}

// Validate lists every invalid field of p. Optional fields (class name,
// path, java version) are only checked when set. A nil result means the
// project can be generated.
func Validate(p *models.ProjectDefinition) []FieldError {
	var errs []FieldError
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	if !ValidGroupID(p.GroupID) {
		add("groupId", "must be a valid java package name, e.g. org.acme")
	}
	if !ValidArtifactID(p.ArtifactID) {
		add("artifactId", "must start with a lowercase letter and contain only a-z, 0-9, '-', '.' or '_'")
	}
	if !ValidVersion(p.Version) {
		add("version", "must not be empty or contain whitespace")
	}
	if !p.BuildTool.IsValid() {
		add("buildTool", "must be MAVEN, GRADLE or GRADLE_KOTLIN_DSL")
	}
	if p.ClassName != "" && !ValidClassName(p.ClassName) {
		add("className", "must be a fully qualified java class name")
	}
	if p.Path != "" && !ValidPath(p.Path) {
		add("path", "must be an absolute lowercase URL path, e.g. /hello")
	}
	if p.JavaVersion != "" && !ValidJavaVersion(p.JavaVersion) {
		add("javaVersion", "must be a java version, e.g. 17")
	}

	return errs
}

// IsValid reports whether Validate finds nothing.
func IsValid(p *models.ProjectDefinition) bool {
	return len(Validate(p)) == 0
}
