// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package shapedecl

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FormatChecker reports whether a string satisfies a named format.
type FormatChecker func(s string) bool

var formats = map[string]FormatChecker{
	"date-time": isDateTime,
	"date":      isDate,
	"time":      isTime,
	"duration":  isDuration,
	"email":     isEmail,
	"hostname":  isHostname,
	"ipv4":      isIPv4,
	"ipv6":      isIPv6,
	"uuid":      isUUID,
	"uri":       isURI,
}

// LookupFormat returns the checker for a format name. Normalize
// rejects names this function does not know.
func LookupFormat(name string) (FormatChecker, bool) {
	f, ok := formats[name]
	return f, ok
}

// FormatNames returns all known format names, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isDateTime(s string) bool {
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

func isDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

var timeLayouts = []string{
	"15:04:05Z07:00",
	"15:04:05.999999999Z07:00",
	"15:04:05",
	"15:04:05.999999999",
}

func isTime(s string) bool {
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

var durationRe = regexp.MustCompile(`^P(?:\d+W|(?:\d+Y)?(?:\d+M)?(?:\d+D)?(?:T(?:\d+H)?(?:\d+M)?(?:\d+(?:\.\d+)?S)?)?)$`)

func isDuration(s string) bool {
	// The regexp admits a bare "P" and a trailing "T" with no
	// components; ISO 8601 does not.
	if s == "P" || strings.HasSuffix(s, "T") {
		return false
	}
	return durationRe.MatchString(s)
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func isHostname(s string) bool {
	if s == "" || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			case c == '-':
				if i == 0 || i == len(label)-1 {
					return false
				}
			default:
				return false
			}
		}
	}
	return true
}

func isIPv4(s string) bool {
	if strings.Contains(s, ":") {
		return false
	}
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}

func isIPv6(s string) bool {
	if !strings.Contains(s, ":") {
		return false
	}
	return net.ParseIP(s) != nil
}

func isUUID(s string) bool {
	// Canonical 8-4-4-4-12 form only; uuid.Parse alone also admits
	// braced, URN, and undashed encodings.
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func isURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != ""
}
