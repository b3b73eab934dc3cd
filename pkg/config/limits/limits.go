/*
Package limits contains hardcoded absolute ceilings that no
configuration can raise, as opposed to the tunable bounds carried in
ProtocolConfiguration.
*/
package limits

const (
	// MaxScriptElementSizeCeiling is the largest MaxScriptElementSize a
	// configuration may request.
	MaxScriptElementSizeCeiling = 520
	// MaxStackDepthCeiling is the largest MaxStackDepth a configuration
	// may request.
	MaxStackDepthCeiling = 1000
	// MaxMultisigPublicKeysCeiling is the largest MaxMultisigPublicKeys
	// a configuration may request.
	MaxMultisigPublicKeysCeiling = 20
)
