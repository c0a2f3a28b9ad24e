package config

import "strings"

const globalDomain = "NSGlobalDomain"

// EffectiveDomainKey resolves a flattened config domain and key into
// the (domain, key) pair the preference store understands:
//
//	dock + tilesize                  -> com.apple.dock, tilesize
//	NSGlobalDomain + fnState         -> NSGlobalDomain, fnState
//	NSGlobalDomain.com.apple.mouse + linear -> NSGlobalDomain, com.apple.mouse.linear
func EffectiveDomainKey(domain, key string) (string, string) {
	if domain == globalDomain {
		return globalDomain, key
	}
	if rest, ok := strings.CutPrefix(domain, globalDomain+"."); ok {
		if rest == "" {
			return globalDomain, key
		}
		return globalDomain, rest + "." + key
	}
	return "com.apple." + domain, key
}

// NeedsDomainCheck reports whether apply should verify the domain
// exists before writing to it. NSGlobalDomain always exists.
func NeedsDomainCheck(effectiveDomain string) bool {
	return effectiveDomain != globalDomain
}
