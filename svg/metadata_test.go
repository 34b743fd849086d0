package svg

import (
	"bytes"
	"testing"

	"github.com/tdewolff/test"
)

func TestStrip(t *testing.T) {
	svgTests := []struct {
		svg      string
		expected string
	}{
		{`<?xml version="1.0" encoding="UTF-8"?><svg/>`, "<svg/>"},
		{`<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "svg11.dtd"><svg/>`, "<svg/>"},
		{"<svg><metadata><rdf:RDF></rdf:RDF></metadata></svg>", "<svg></svg>"},
		{`<svg xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" inkscape:version="1.0"><inkscape:grid/></svg>`, "<svg></svg>"},
		{`<svg><sodipodi:namedview pagecolor="#ffffff"></sodipodi:namedview><rect/></svg>`, "<svg><rect/></svg>"},

		// empty containers
		{"<svg><defs></defs></svg>", "<svg></svg>"},
		{"<svg><defs> </defs></svg>", "<svg></svg>"},
		{"<svg><defs/></svg>", "<svg></svg>"},
		{"<svg><defs><linearGradient/></defs></svg>", "<svg><defs><linearGradient/></defs></svg>"},
		{`<svg><defs id="d"></defs></svg>`, `<svg><defs id="d"></defs></svg>`},

		// removing metadata exposes an empty container
		{"<svg><defs><metadata/></defs></svg>", "<svg></svg>"},

		// namespace declarations
		{`<svg xmlns:xlink="http://www.w3.org/1999/xlink"><rect/></svg>`, "<svg><rect/></svg>"},
		{`<svg xmlns:xlink="http://www.w3.org/1999/xlink"><use xlink:href="#a"/></svg>`, `<svg xmlns:xlink="http://www.w3.org/1999/xlink"><use xlink:href="#a"/></svg>`},
		{`<svg xmlns="http://www.w3.org/2000/svg"/>`, `<svg xmlns="http://www.w3.org/2000/svg"/>`},

		// xml:space is dropped only when the document has no text content
		{`<svg xml:space="preserve"><rect/></svg>`, "<svg><rect/></svg>"},
		{`<svg xml:space="preserve"><text>hi</text></svg>`, `<svg xml:space="preserve"><text>hi</text></svg>`},
	}
	for _, tt := range svgTests {
		t.Run(tt.svg, func(t *testing.T) {
			o := &Stripper{}
			w := &bytes.Buffer{}
			err := o.Optimize(w, bytes.NewBufferString(tt.svg))
			test.Minify(t, tt.svg, err, w.String(), tt.expected)
		})
	}
}

func TestStripZeroRules(t *testing.T) {
	input := `<?xml version="1.0"?><svg><metadata>m</metadata></svg>`
	o := &Stripper{Rules: &Rules{}}
	w := &bytes.Buffer{}
	err := o.Optimize(w, bytes.NewBufferString(input))
	test.Error(t, err)
	test.String(t, w.String(), input, "the zero rule set must delete nothing")
}

func TestStripCustomRules(t *testing.T) {
	o := &Stripper{Rules: &Rules{
		Elements:      []string{"desc"},
		EmptyElements: []string{"g"},
	}}
	w := &bytes.Buffer{}
	err := o.Optimize(w, bytes.NewBufferString("<svg><desc>d</desc><g></g><metadata>m</metadata></svg>"))
	test.Error(t, err)
	test.String(t, w.String(), "<svg><metadata>m</metadata></svg>")
}
