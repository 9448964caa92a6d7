// Package env classifies the runtime hosting the client so persistence
// strategies can be picked at construction time.
package env

import "regexp"

type Environment int

const (
	Browser Environment = iota
	NativeDesktop
	NativeMobile
)

// mobileUA matches the mobile OS tokens the original shell checks for.
var mobileUA = regexp.MustCompile(`(?i)android|iphone|ipad|ipod`)

// Detect is a pure function of two signals: whether a native bridge is
// present and the reported user agent. It holds no state and is queried once
// per operation that needs environment-specific behavior.
func Detect(nativeBridge bool, userAgent string) Environment {
	if !nativeBridge {
		return Browser
	}
	if mobileUA.MatchString(userAgent) {
		return NativeMobile
	}
	return NativeDesktop
}

func (e Environment) String() string {
	switch e {
	case NativeDesktop:
		return "native-desktop"
	case NativeMobile:
		return "native-mobile"
	default:
		return "browser"
	}
}

// Native reports whether a native shell is available at all.
func (e Environment) Native() bool {
	return e == NativeDesktop || e == NativeMobile
}
