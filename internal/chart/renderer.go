package chart

import "encoding/base64"

// Renderer turns a chart description into an encoded image.
type Renderer interface {
	Render(c Chart) ([]byte, error)
	ContentType() string
}

// EncodeBase64 is the text-safe form embedded as a data URI.
func EncodeBase64(img []byte) string {
	return base64.StdEncoding.EncodeToString(img)
}

func DataURI(r Renderer, img []byte) string {
	return "data:" + r.ContentType() + ";base64," + EncodeBase64(img)
}
