// Package version reports the memoscribe build.
//
// Values come from -ldflags at link time and fall back to the VCS stamps the
// Go toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/memoscribe/version.Version=1.2.0"
package version
