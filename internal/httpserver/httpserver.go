package httpserver

import (
	"fmt"
	"net"
)

// Listen binds the first free port in [startPort, startPort+maxAttempts).
// Returns the listener and the port it actually bound.
func Listen(startPort, maxAttempts int) (net.Listener, int, error) {
	for port := startPort; port < startPort+maxAttempts; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			return ln, port, nil
		}
	}
	return nil, 0, fmt.Errorf("no free port in range %d-%d", startPort, startPort+maxAttempts-1)
}
