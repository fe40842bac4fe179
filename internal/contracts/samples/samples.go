// Package samples holds implementation contracts used to exercise proxies:
// two versions of a value store sharing a storage layout, and an
// implementation whose initializer re-enters the factory.
package samples

import (
	"github.com/trebuchet-org/proxyforge/internal/chain"
)

// Artifacts returns every sample implementation.
func Artifacts() []*chain.Artifact {
	return []*chain.Artifact{MockV1Artifact, MockV2Artifact, ReentrantUpgraderArtifact}
}
