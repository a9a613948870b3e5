package rdf

import "strings"

// IsQNameLocal reports whether value can be used as the local part of a qname.
func IsQNameLocal(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return value[len(value)-1] != '.'
}

// SplitQName splits "prefix:local" into its parts. The prefix may be empty;
// values that look like absolute IRIs ("scheme://...") are rejected.
func SplitQName(qname string) (prefix, local string, ok bool) {
	idx := strings.IndexByte(qname, ':')
	if idx < 0 || strings.HasPrefix(qname[idx+1:], "//") {
		return "", "", false
	}
	prefix, local = qname[:idx], qname[idx+1:]
	for i := 0; i < len(prefix); i++ {
		if !isNameChar(prefix[i]) {
			return "", "", false
		}
	}
	if local != "" && !IsQNameLocal(local) {
		return "", "", false
	}
	return prefix, local, true
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || (ch >= '0' && ch <= '9') || ch == '-' || ch == '.'
}
