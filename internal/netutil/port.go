package netutil

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// SelectDebugPort picks a usable remote-debugging port: the preferred port
// when free, otherwise the first free candidate when autoFallback is set.
// A port already in use by a browser is the launcher's concern, not ours;
// "usable" here means listenable.
func SelectDebugPort(address string, preferred int, candidates []int, autoFallback bool) (int, error) {
	if preferred > 0 {
		ok, err := IsPortFree(address, preferred)
		if err != nil {
			return 0, err
		}
		if ok {
			return preferred, nil
		}
		if !autoFallback {
			return 0, fmt.Errorf("preferred debug port in use: %d", preferred)
		}
	}

	for _, port := range candidates {
		ok, err := IsPortFree(address, port)
		if err != nil {
			return 0, err
		}
		if ok {
			return port, nil
		}
	}

	return 0, errors.New("no available debug ports")
}

// IsPortFree returns true when the port can be listened on at address.
func IsPortFree(address string, port int) (bool, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return false, nil
	}
	if closeErr := ln.Close(); closeErr != nil {
		return false, closeErr
	}
	return true, nil
}
