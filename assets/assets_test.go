package assets

import (
	"bytes"
	"testing"
)

func TestRender(t *testing.T) {
	out, err := Render("Egypt Heritage Sites")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{"Egypt Heritage Sites", "measure-distance", "/api/measure/click", "leaflet"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("rendered page lacks %q", want)
		}
	}
	if bytes.Contains(out, []byte("{{")) {
		t.Error("template placeholders left in output")
	}
	if len(out) >= len(indexTemplate)+len(styleCSS)+len(scriptJS)+len(locateSVG) {
		t.Error("output was not minified")
	}
}

func TestFavicon(t *testing.T) {
	if !bytes.HasPrefix(Favicon, []byte("<svg")) {
		t.Error("favicon is not an SVG document")
	}
}
