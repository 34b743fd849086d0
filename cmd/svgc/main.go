package main

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/djherbis/atime"
	"github.com/dustin/go-humanize"
	"github.com/tdewolff/argp"

	"github.com/pasabanov/svgc"
	"github.com/pasabanov/svgc/svg"
	"github.com/pasabanov/svgc/svgo"
	"github.com/pasabanov/svgc/svgz"
)

// Version is the current svgc version.
var Version = "built from source"

var (
	recursive  bool
	removeFill bool
	useSvgo    bool
	useSvgz    bool
	noDefault  bool
	keep       bool
	preserve   bool
	quiet      bool
	verbose    int
	watch      bool
	version    bool

	pipeline *svgc.Pipeline
)

// Loggers.
var (
	Error   *log.Logger
	Warning *log.Logger
	Info    *log.Logger
)

// Task is one SVG file to process.
type Task struct {
	src string
}

// Outcome is the result of processing one file.
type Outcome struct {
	Src      string
	Dst      string // differs from Src when the container was written
	Before   int64
	After    int64
	Warnings []error
	Err      error
}

func main() {
	// os.Exit doesn't execute pending defer calls, this is fixed by encapsulating run()
	os.Exit(run())
}

func run() int {
	var inputs []string

	f := argp.New("svgc")
	f.AddRest(&inputs, "paths", "Input files or directories, only .svg files are processed")
	f.AddOpt(&recursive, "r", "recursive", "Recursively process directories")
	f.AddOpt(&removeFill, "f", "remove-fill", "Remove fill=\"...\" attributes")
	f.AddOpt(&useSvgo, "o", "svgo", "Optimize with the external svgo tool when available")
	f.AddOpt(&useSvgz, "z", "svgz", "Compress the result into a sibling .svgz file")
	f.AddOpt(&noDefault, "n", "no-default", "Skip the default optimizations")
	f.AddOpt(&keep, "k", "keep", "Keep the uncompressed file when writing .svgz")
	f.AddOpt(&preserve, "p", "preserve", "Preserve mode and timestamps of rewritten files")
	f.AddOpt(&quiet, "q", "quiet", "Quiet mode, only hard failures are reported")
	f.AddOpt(argp.Count{I: &verbose}, "v", "verbose", "Verbose mode")
	f.AddOpt(&watch, "w", "watch", "Watch files and reprocess upon changes")
	f.AddOpt(&version, "", "version", "Version")
	f.Parse()

	Error = log.New(os.Stderr, "ERROR: ", 0)
	Warning = log.New(io.Discard, "", 0)
	Info = log.New(io.Discard, "", 0)
	if !quiet {
		Warning = log.New(os.Stderr, "WARNING: ", 0)
		if 0 < verbose {
			Info = log.New(os.Stderr, "INFO: ", 0)
		}
	}

	if version {
		if !quiet {
			fmt.Printf("svgc %s\n", Version)
		}
		return 0
	}

	if noDefault && !useSvgo && !useSvgz {
		if !quiet {
			fmt.Println("no action specified, files are left unmodified")
		}
		return 0
	}

	pipeline = svgc.New()
	if !noDefault {
		pipeline.Add(&svg.Minifier{RemoveFill: removeFill})
	}
	if useSvgo {
		if opt, err := svgo.Find(); err != nil {
			Warning.Println(err)
		} else {
			Info.Println("using svgo at", opt.Path)
			pipeline.AddSoft(opt)
		}
	}

	tasks, fails := createTasks(NewFS(), inputs)
	if len(tasks) == 0 && !watch {
		if 0 < fails {
			return 1
		}
		return 0
	}

	numWorkers := runtime.NumCPU()
	if 0 < verbose {
		numWorkers = 1
	} else if numWorkers < 4 {
		numWorkers = 4
	}

	chanTasks := make(chan Task, 20)
	chanOutcomes := make(chan Outcome, 20)

	var wg sync.WaitGroup
	for n := 0; n < numWorkers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range chanTasks {
				chanOutcomes <- process(t)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(chanOutcomes)
	}()

	// outcomes are aggregated by a single goroutine
	collected := make(chan int)
	go func() {
		summary := Summary{}
		for o := range chanOutcomes {
			summary.Collect(o)
		}
		summary.Print()
		collected <- summary.fails
	}()

	start := time.Now()
	if !watch {
		for _, t := range tasks {
			chanTasks <- t
		}
	} else {
		watcher, err := NewWatcher(recursive)
		if err != nil {
			Error.Println(err)
			return 1
		}
		defer watcher.Close()
		changes := watcher.Run()

		for _, input := range inputs {
			if err := watcher.AddPath(input); err != nil {
				Warning.Println(err)
			}
		}
		for _, t := range tasks {
			ignoreOwnWrites(watcher, t)
			chanTasks <- t
		}

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		for changes != nil {
			select {
			case <-c:
				watcher.Close()
			case file, ok := <-changes:
				if !ok {
					changes = nil
					break
				}
				file = filepath.Clean(file)
				if !isSVGPath(file) {
					break
				}
				t := Task{file}
				ignoreOwnWrites(watcher, t)
				chanTasks <- t
			}
		}
	}
	close(chanTasks)
	fails += <-collected

	if !watch {
		Info.Println("finished in", time.Since(start))
	}
	if 0 < fails {
		return 1
	}
	return 0
}

func ignoreOwnWrites(watcher *Watcher, t Task) {
	watcher.Ignore(t.src)
	if useSvgz {
		watcher.Ignore(svgz.ContainerPath(t.src))
	}
}

// isSVGPath matches the .svg extension case-insensitively.
func isSVGPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".svg")
}

// createTasks expands the path arguments into tasks, one per SVG file.
// Nonexistent or unreadable arguments are hard failures; directory entries
// that do not match are silently skipped.
func createTasks(fsys fs.FS, inputs []string) ([]Task, int) {
	fails := 0
	seen := map[string]bool{}
	var tasks []Task
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			tasks = append(tasks, Task{path})
		}
	}

	for _, input := range inputs {
		input = filepath.Clean(input)
		info, err := fs.Stat(fsys, input)
		if err != nil {
			Error.Printf("%s: %v", input, err)
			fails++
			continue
		}
		if !info.IsDir() {
			if !isSVGPath(input) {
				Warning.Println("not an svg file or directory, omitting", input)
				continue
			}
			add(input)
			continue
		}
		if recursive {
			err := fs.WalkDir(fsys, input, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					if path == input {
						return err
					}
					return nil // unreadable entries are skipped
				}
				if !d.IsDir() && isSVGPath(path) {
					add(path)
				}
				return nil
			})
			if err != nil {
				Error.Printf("%s: %v", input, err)
				fails++
			}
		} else {
			entries, err := fs.ReadDir(fsys, input)
			if err != nil {
				Error.Printf("%s: %v", input, err)
				fails++
				continue
			}
			for _, entry := range entries {
				if !entry.IsDir() && isSVGPath(entry.Name()) {
					add(filepath.Join(input, entry.Name()))
				}
			}
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].src < tasks[j].src })
	return tasks, fails
}

// process runs the configured pipeline over one file. Optimizer problems are
// warnings, everything else fails the file without affecting other tasks.
func process(t Task) Outcome {
	o := Outcome{Src: t.src, Dst: t.src}

	info, err := os.Stat(t.src)
	if err != nil {
		o.Err = err
		return o
	}
	b, err := readFile(t.src)
	if err != nil {
		o.Err = err
		return o
	}
	o.Before = int64(len(b))

	out, warnings, err := pipeline.Bytes(b)
	o.Warnings = warnings
	if err != nil {
		o.Err = err
		return o
	}

	if !bytes.Equal(out, b) {
		if err := overwriteFile(t.src, out, info.Mode().Perm()); err != nil {
			o.Err = err
			return o
		}
	}
	o.After = int64(len(out))

	if useSvgz {
		zb, err := svgz.CompressBytes(out)
		if err != nil {
			o.Err = fmt.Errorf("compress %q: %w", t.src, err)
			return o
		}
		dst := svgz.ContainerPath(t.src)
		if err := writeFile(dst, zb, info.Mode().Perm()); err != nil {
			o.Err = err
			return o
		}
		o.Dst = dst
		o.After = int64(len(zb))
		if !keep {
			if err := os.Remove(t.src); err != nil {
				o.Err = err
				return o
			}
		}
	}

	if preserve {
		preserveAttributes(info, o.Dst)
		if useSvgz && keep && o.Dst != t.src {
			preserveAttributes(info, t.src)
		}
	}
	Info.Println("processed", t.src)
	return o
}

func preserveAttributes(src os.FileInfo, dst string) {
	if err := os.Chmod(dst, src.Mode().Perm()); err != nil {
		Warning.Println(err)
	}
	if err := os.Chtimes(dst, atime.Get(src), src.ModTime()); err != nil {
		Warning.Println(err)
	}
}

// Summary aggregates outcomes for final reporting; it is only touched by the
// collector goroutine.
type Summary struct {
	processed int
	fails     int
	before    int64
	after     int64
}

// Collect reports one outcome and adds it to the totals.
func (s *Summary) Collect(o Outcome) {
	for _, warn := range o.Warnings {
		Warning.Printf("%s: %v", o.Src, warn)
	}
	if o.Err != nil {
		Error.Printf("%s: %v", o.Src, o.Err)
		s.fails++
		return
	}
	s.processed++
	s.before += o.Before
	s.after += o.After
	if !quiet {
		name := o.Src
		if o.Dst != o.Src {
			name = o.Src + " -> " + o.Dst
		}
		fmt.Printf("%s: %s -> %s (-%.1f%%)\n", name,
			humanize.Bytes(uint64(o.Before)), humanize.Bytes(uint64(o.After)), shrinkage(o.Before, o.After))
	}
}

// Print writes the totals line.
func (s *Summary) Print() {
	if quiet || s.processed < 2 {
		return
	}
	fmt.Printf("total: %s -> %s (-%.1f%%)\n",
		humanize.Bytes(uint64(s.before)), humanize.Bytes(uint64(s.after)), shrinkage(s.before, s.after))
}

// shrinkage returns how much smaller after is than before in percent, never
// negative.
func shrinkage(before, after int64) float64 {
	if before <= 0 || before <= after {
		return 0
	}
	return float64(before-after) / float64(before) * 100
}
