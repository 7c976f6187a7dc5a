// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"fmt"
	"strings"

	"assetforge/internal/export"
	"assetforge/pkg/asset"
)

// pageTemplate is the fixed document skeleton. The single substitution point
// receives the ordered style tags followed by the script tags.
const pageTemplate = `<!doctype html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
</head>

<body id='body'>

ASSET-HOOK

</body>
</html>
`

// livePathPrefix is where a running server exposes asset files.
const livePathPrefix = "/assets"

// Page composes the initial document and renders the full HTML page for a
// live client. Flips the session to served; see ComposeInitialDocument.
func (s *Session) Page(ctx context.Context, includeStyleReset bool, mode asset.LinkMode) (string, error) {
	doc, err := s.ComposeInitialDocument(ctx, includeStyleReset)
	if err != nil {
		return "", err
	}
	// file:// remotes only make sense for exports; a browser pointed at a
	// live server cannot resolve them.
	for _, d := range append(append([]Deliverable{}, doc.Styles...), doc.Scripts...) {
		if a, ok := d.(*asset.Asset); ok && strings.HasPrefix(a.RemoteURI(), "file://") {
			return "", fmt.Errorf("asset %q: file:// assets can only be used when exporting", a.Name())
		}
	}
	return s.renderPage(ctx, doc, mode, false)
}

// PageForExport composes the export document (with the command replay asset)
// and renders a page that runs without a server.
func (s *Session) PageForExport(ctx context.Context, commands []string, mode asset.LinkMode) (string, error) {
	doc, err := s.ComposeExportDocument(ctx, commands, true)
	if err != nil {
		return "", err
	}
	return s.renderPage(ctx, doc, mode, true)
}

// renderPage substitutes the ordered tags into the skeleton: styles first,
// scripts second. In embed mode a table-of-contents comment listing every
// included asset is prepended.
func (s *Session) renderPage(ctx context.Context, doc *Document, mode asset.LinkMode, forExport bool) (string, error) {
	prefix := livePathPrefix
	localScope := s.id
	if forExport {
		prefix = export.AssetsDir
		// Match the layout Session.Export writes.
		if s.appName != "" {
			localScope = s.appName
		}
	}

	var tags []string
	for _, group := range [][]Deliverable{doc.Styles, doc.Scripts} {
		for _, d := range group {
			tag, err := s.renderTag(ctx, d, mode, prefix, localScope)
			if err != nil {
				return "", err
			}
			tags = append(tags, tag)
		}
		tags = append(tags, "") // blank line between style and script blocks
	}

	title := s.appName
	if title == "" {
		title = "assetforge app"
	}
	page := fmt.Sprintf(pageTemplate, title)

	if mode == asset.LinkEmbed {
		var names []string
		for _, d := range append(append([]Deliverable{}, doc.Styles...), doc.Scripts...) {
			names = append(names, "- "+d.Name())
		}
		toc := "<!-- Contents:\n\n" + strings.Join(names, "\n") + "\n\n-->"
		tags = append([]string{toc}, tags...)
		return strings.Replace(page, "ASSET-HOOK", strings.Join(tags, "\n\n\n"), 1), nil
	}
	return strings.Replace(page, "ASSET-HOOK", strings.Join(tags, "\n"), 1), nil
}

// renderTag renders one deliverable's tag. Synthetic "embed/" assets are
// always inlined; session-local assets link under the session scope, shared
// ones under the shared scope.
func (s *Session) renderTag(ctx context.Context, d Deliverable, mode asset.LinkMode, prefix, localScope string) (string, error) {
	if mode == asset.LinkEmbed || strings.HasPrefix(d.Name(), "embed/") {
		return d.Tag(ctx, "{}", asset.LinkEmbed)
	}
	scope := export.SharedScope
	if s.IsLocal(d.Name()) {
		scope = localScope
	}
	return d.Tag(ctx, prefix+"/"+scope+"/{}", mode)
}
