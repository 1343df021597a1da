// Package http provides optional HTTP adapters for translatable entities.
//
// Routes mount under the configured base path (default /api):
//   - Entities: /entities/{kind}, /entities/{kind}/{id}
//
// AcceptLanguage parses the request header once and stores the ranges on the
// request context; handlers read them back through the acceptlang package.
// Host applications can register handlers on their own mux/router as needed.
package http
