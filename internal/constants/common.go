package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment  = "prod"
	DevEnvironment   = "dev"
	LocalEnvironment = "local"
	TestEnvironment  = "test"

	// Service name attached to structured logs
	ServiceName = "cyphera-vault"
)

// Unit precision
const (
	// CollateralDecimals is the precision of the collateral asset (lamports per whole unit).
	CollateralDecimals = 9
	// LamportsPerUnit is one whole collateral unit in smallest units.
	LamportsPerUnit = 1_000_000_000
)

// Request headers
const (
	SignerHeader    = "X-Signer"
	SignatureHeader = "X-Signature"
	TimestampHeader = "X-Timestamp"
)
