// Package svgc composes SVG optimization stages into a per-file pipeline.
// A stage is anything that rewrites SVG bytes; hard stages abort processing
// of the file on error while soft stages (such as an external optimizer)
// report the error as a warning and pass their input through unchanged.
package svgc

import (
	"bytes"
	"io"
)

// A Stage transforms SVG content, it reads from r and writes to w.
type Stage interface {
	Optimize(w io.Writer, r io.Reader) error
}

// StageFunc implements Stage with a plain function.
type StageFunc func(w io.Writer, r io.Reader) error

// Optimize calls f.
func (f StageFunc) Optimize(w io.Writer, r io.Reader) error {
	return f(w, r)
}

type stage struct {
	Stage
	soft bool
}

// Pipeline runs stages in registration order over byte buffers. Each stage
// receives the previous stage's full output, so a failing stage never leaks
// partial writes into the result.
type Pipeline struct {
	stages []stage
}

// New returns a new Pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// Add appends a hard stage: its error aborts the pipeline.
func (p *Pipeline) Add(s Stage) {
	p.stages = append(p.stages, stage{s, false})
}

// AddSoft appends a soft stage: its error is returned as a warning and the
// stage's input is passed through unchanged.
func (p *Pipeline) AddSoft(s Stage) {
	p.stages = append(p.stages, stage{s, true})
}

// Len returns the number of registered stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Bytes runs the pipeline over b and returns the result together with the
// warnings raised by soft stages. On a hard stage error the input bytes are
// returned unchanged.
func (p *Pipeline) Bytes(b []byte) ([]byte, []error, error) {
	var warnings []error
	orig := b
	for _, s := range p.stages {
		w := bytes.NewBuffer(make([]byte, 0, len(b)))
		if err := s.Optimize(w, bytes.NewReader(b)); err != nil {
			if s.soft {
				warnings = append(warnings, err)
				continue
			}
			return orig, warnings, err
		}
		b = w.Bytes()
	}
	return b, warnings, nil
}

// String runs the pipeline over s, see Bytes.
func (p *Pipeline) String(s string) (string, []error, error) {
	b, warnings, err := p.Bytes([]byte(s))
	return string(b), warnings, err
}
