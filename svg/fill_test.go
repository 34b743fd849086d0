package svg

import (
	"bytes"
	"testing"

	"github.com/tdewolff/test"
)

func TestFillRemover(t *testing.T) {
	svgTests := []struct {
		svg      string
		expected string
	}{
		{`<rect fill="red"/>`, "<rect/>"},
		{`<rect fill="red" stroke="blue"/>`, `<rect stroke="blue"/>`},
		{`<rect stroke="blue" fill="red" width="5"/>`, `<rect stroke="blue" width="5"/>`},
		{`<svg fill="none"><path fill="#fff"/></svg>`, "<svg><path/></svg>"},

		// "fill" outside of attribute positions stays
		{"<text>fill</text>", "<text>fill</text>"},
		{"<style>.a{fill:red}</style>", "<style>.a{fill:red}</style>"},
		{`<rect style="fill:red"/>`, `<rect style="fill:red"/>`},
		{`<rect fill-opacity="1"/>`, `<rect fill-opacity="1"/>`},
		{"<!-- fill=\"red\" -->", "<!-- fill=\"red\" -->"},
	}
	for _, tt := range svgTests {
		t.Run(tt.svg, func(t *testing.T) {
			o := &FillRemover{}
			w := &bytes.Buffer{}
			err := o.Optimize(w, bytes.NewBufferString(tt.svg))
			test.Minify(t, tt.svg, err, w.String(), tt.expected)
		})
	}
}
