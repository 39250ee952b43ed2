// Package fetch retrieves a target domain's landing page over HTTPS.
//
// The fetcher identifies itself with a descriptive User-Agent, enforces
// a response body size limit, and decodes the body to UTF-8 based on
// the declared charset so that downstream signal extraction always
// sees normalized text.
package fetch
