// Package version reports the build version of an initkit application.
// It is the default service version when the configuration sets none.
//
//	go build -ldflags "-X github.com/kbukum/initkit/version.Version=1.0.0"
package version
