package entity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// KeyPattern matches the displayed license key format: SK- followed by the
// 32 uppercase hex characters of a dash-stripped UUID.
var KeyPattern = regexp.MustCompile(`^SK-[A-Z0-9]{32}$`)

// GenerateKey produces a collision-resistant license key in display format.
func GenerateKey() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "SK-" + strings.ToUpper(raw)
}
