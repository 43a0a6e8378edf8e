// Package secrets resolves ${secret:name} references in the carrier
// credentials at startup.
//
// Instead of placing the carrier password in the YAML file, reference it:
//
//	carrier:
//	  username: "${secret:speedy-username}"
//	  password: "${secret:speedy-password}"
//
//	security:
//	  secrets:
//	    dir: /run/secrets
//
// Each reference is looked up in security.secrets.dir (one file per
// secret, trailing newline removed) and then in the environment as
// COURIER_SECRET_<NAME> with hyphens turned into underscores.
//
// Resolution happens once, before the credential resolver is built; the
// resolved values are never logged.
package secrets
