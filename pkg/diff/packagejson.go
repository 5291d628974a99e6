package diff

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/depreport/pkg/errors"
)

// PackageJSON is the part of a package.json manifest that is diffed.
type PackageJSON struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// ParsePackageJSON decodes a manifest. Empty input is an empty manifest,
// which is how a file that does not exist on one side of a diff is treated.
func ParsePackageJSON(data []byte) (*PackageJSON, error) {
	var pkg PackageJSON
	if len(bytes.TrimSpace(data)) == 0 {
		return &pkg, nil
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDiffRead, err, "parse package.json")
	}
	return &pkg, nil
}
