package catalog

import "regexp"

var shortcutPrefix = regexp.MustCompile(`^([^:]+:)?(quarkus-)?`)

// Shortcut strips the group prefix and the product artifact prefix from an
// extension id: "io.quarkus:quarkus-arc" becomes "arc".
func Shortcut(id string) string {
	return shortcutPrefix.ReplaceAllString(id, "")
}
