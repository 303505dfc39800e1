package snapshot

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	V1OABPrefix = "v1/oab"

	BrowseFileName   = "browse.oab"
	RDNFileName      = "rdndx.oab"
	ANRFileName      = "anrdx.oab"
	ManifestFileName = "manifest.cbor"
	SealFileName     = "manifest.sth" // signed manifest
)

// GenerationPrefix returns the folder holding every object of generation.
func GenerationPrefix(generation uuid.UUID) string {
	return fmt.Sprintf("%s/%s/", V1OABPrefix, generation)
}

// GenerationPath returns the path of the named object of generation.
func GenerationPath(generation uuid.UUID, name string) string {
	return GenerationPrefix(generation) + name
}
