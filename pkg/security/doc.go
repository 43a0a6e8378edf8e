/*
Package security groups the listener and credential security of courier.

Subpackages:

  - tls: HTTPS listener with a certificate that reloads when the key pair
    changes on disk
  - secrets: resolves ${secret:name} references in the carrier credentials
    from mounted secret files or COURIER_SECRET_* variables
*/
package security
