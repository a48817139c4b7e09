//go:build windows

package main

import "errors"

func startAsDaemon() error {
	return errors.New("-daemon is not supported on windows, run the server as a service instead")
}
