// Courier is a credential-injecting forwarding proxy for the Speedy carrier
// API.
//
// Callers send shipment, lookup and label requests without carrier
// credentials; courier wraps each payload in the carrier's request envelope
// with the process-wide account, forwards it and classifies the answer.
//
// Usage:
//
//	# Start with defaults and COURIER_* environment variables
//	courier run
//
//	# Start with a configuration file
//	courier run --config /etc/courier/courier.yaml
//
//	# Check a configuration file
//	courier validate --config courier.yaml
//
//	# Show version information
//	courier version
package main

import "os"

func main() {
	os.Exit(Execute())
}
