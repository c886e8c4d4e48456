package helpers

import "github.com/cyphera/cyphera-vault/internal/constants"

// IsValidStage reports whether stage names a known deployment environment.
func IsValidStage(stage string) bool {
	switch stage {
	case constants.ProdEnvironment, constants.DevEnvironment, constants.LocalEnvironment, constants.TestEnvironment:
		return true
	default:
		return false
	}
}
