// Package password provides Argon2id password hashing and verification with
// PHC-format encoded hashes. Each hash embeds its own parameters and salt, so
// verification does not depend on the currently configured costs.
package password
