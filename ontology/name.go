package ontology

import (
	"strings"
	"unicode"
)

// LocalName extracts the local part of a URI, using the fragment delimiter
// when present and the last path segment otherwise.
func LocalName(uri string) string {
	if i := strings.LastIndex(uri, "#"); i >= 0 {
		return uri[i+1:]
	}
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// Normalize converts an ontology local name into its three identifier forms:
// the type identifier ("E21_Person" -> "E21Person"), the safe name with
// underscores preserved ("E21_Person", hyphens folded to underscores), and
// the code, the first underscore-delimited segment ("E21").
func Normalize(local string) (ident, safeName, code string) {
	parts := strings.Split(strings.ReplaceAll(local, "-", "_"), "_")

	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}

	return b.String(), strings.Join(parts, "_"), parts[0]
}

// IsInverseCode reports whether a property code marks an inverse declaration.
// The CRM names inverse properties with a trailing "i" on the code, as in
// "P74i_is_current_or_former_residence_of".
func IsInverseCode(code string) bool {
	return len(code) > 1 && strings.HasSuffix(code, "i")
}

// BaseCode strips the inverse marker from a property code ("P74i" -> "P74").
func BaseCode(code string) string {
	if IsInverseCode(code) {
		return code[:len(code)-1]
	}
	return code
}
