// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"fmt"
	"strings"
)

// wrapModule wraps a script body as a loader module:
//
//	forge.define("name", ["dep.js", ...], function (dep, ...) {
//	    <body>
//	    return {export1: export1, ...};
//	});
//
// The loader bootstrap (see pkg/store) resolves each dependency name and
// passes its module object as the matching positional argument. Imports may
// carry an "as alias" suffix selecting the argument name; otherwise the
// argument name is derived from the dependency name.
func wrapModule(name, body string, imports, exports []string) string {
	depNames := make([]string, 0, len(imports))
	argNames := make([]string, 0, len(imports))
	for _, imp := range imports {
		dep, alias, ok := strings.Cut(imp, " as ")
		dep = strings.TrimSpace(dep)
		depNames = append(depNames, fmt.Sprintf("%q", dep))
		if ok {
			argNames = append(argNames, strings.TrimSpace(alias))
		} else {
			argNames = append(argNames, argName(dep))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "forge.define(%q, [%s], function (%s) {\n",
		name, strings.Join(depNames, ", "), strings.Join(argNames, ", "))
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	if len(exports) > 0 {
		pairs := make([]string, len(exports))
		for i, e := range exports {
			pairs[i] = fmt.Sprintf("%s: %s", e, e)
		}
		fmt.Fprintf(&b, "return {%s};\n", strings.Join(pairs, ", "))
	} else {
		b.WriteString("return {};\n")
	}
	b.WriteString("});\n")
	return b.String()
}

// argName derives a JS identifier from a dependency name: the kind suffix is
// dropped and remaining separators become underscores, so "ui.widgets.js"
// yields "ui_widgets".
func argName(dep string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(dep, ".js"), ".css")
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', '/':
			return '_'
		default:
			return r
		}
	}, base)
}
