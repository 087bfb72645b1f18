// Where: internal/recipe/fingerprint.go
// What: Stable fingerprint for a resolved recipe.
// Why: Label built images so rebuilds and prunes can be correlated.
package recipe

import (
	"crypto/sha256"
	"encoding/hex"

	"gopkg.in/yaml.v3"
)

// Fingerprint returns a short stable digest of the resolved recipe. Equal
// recipes produce equal fingerprints; any field change produces a new one.
func Fingerprint(rec Recipe) (string, error) {
	payload, err := yaml.Marshal(rec)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:8]), nil
}
