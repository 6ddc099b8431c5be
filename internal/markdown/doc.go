// Package markdown loads content files into pipeline documents. Front matter
// becomes document attributes and the remaining body is kept as raw bytes under
// the "contents" attribute until the generator renders it with goldmark.
package markdown
