// Package configs manages Rimu's user configuration.
//
// Configuration lives in a TOML file under the user config directory
// (os.UserConfigDir()/rimu/config.toml). It records the user's email,
// a stable UUID generated on first run, an optional gpg binary
// override, and default signer/recipient fingerprints. Operation
// history lives separately under the user data directory.
package configs
