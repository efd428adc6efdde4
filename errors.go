package main

import (
	"github.com/pkg/errors"
)

// Every failure is fatal; the two classes only say where it came from.
var (
	errInitialization = errors.New("initialization failure")
	errTransport      = errors.New("transport failure")
)

// initFailure reads "<what>: <err>: initialization failure"
func initFailure(err error, format string, args ...interface{}) error {
	return errors.Wrapf(errInitialization, format+": %v", append(args, err)...)
}

func transportFailure(err error, format string, args ...interface{}) error {
	return errors.Wrapf(errTransport, format+": %v", append(args, err)...)
}

func isInitFailure(err error) bool {
	return errors.Cause(err) == errInitialization
}

func isTransportFailure(err error) bool {
	return errors.Cause(err) == errTransport
}
