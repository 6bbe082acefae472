package reporter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/yaklabco/xml1/internal/ui/pretty"
	"github.com/yaklabco/xml1/pkg/embedded"
	"github.com/yaklabco/xml1/pkg/fsutil"
	"github.com/yaklabco/xml1/pkg/langdetect"
	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/runner"
	"github.com/yaklabco/xml1/pkg/scan"
)

// eventFlushSize is the buffered dump size that triggers a write.
const eventFlushSize = 32 * 1024

// EventDumper writes the event stream of documents, one event per line.
type EventDumper struct {
	styles    *pretty.Styles
	engine    scan.Engine
	markup    markup.Options
	extractor *embedded.Extractor
}

// NewEventDumper creates a dumper that scans with the given engine and options.
func NewEventDumper(styles *pretty.Styles, engine scan.Engine, opts markup.Options) *EventDumper {
	return &EventDumper{
		styles:    styles,
		engine:    engine,
		markup:    opts,
		extractor: embedded.NewExtractor(),
	}
}

// Dump writes the events of doc to w. Markdown documents are dumped one
// embedded fragment at a time with offsets in document coordinates.
//
// A syntax error ends the dump with an error line; it is returned with its
// offset in document coordinates.
func (d *EventDumper) Dump(ctx context.Context, w io.Writer, doc string, format langdetect.Format) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if !format.Embedded() {
		if err := d.dumpSource(ctx, w, buf, doc, 0); err != nil {
			return err
		}
		return flush(w, buf)
	}

	frags, err := d.extractor.Extract(ctx, doc)
	if err != nil {
		return err
	}
	for _, frag := range frags {
		header := "# " + frag.Kind.String() + " fragment at " + strconv.Itoa(frag.Offset)
		buf.B = append(buf.B, d.styles.Dim.Render(header)...)
		buf.B = append(buf.B, '\n')
		if err := d.dumpSource(ctx, w, buf, frag.Source, frag.Offset); err != nil {
			return err
		}
	}
	return flush(w, buf)
}

func (d *EventDumper) dumpSource(ctx context.Context, w io.Writer, buf *bytebufferpool.ByteBuffer, src string, base int) error {
	source := scan.New(d.engine, src, d.markup)
	for {
		ev, err := source.Next()
		if err != nil {
			var syntaxErr *markup.SyntaxError
			if errors.As(err, &syntaxErr) {
				syntaxErr = markup.NewSyntaxError(syntaxErr.Offset+base, syntaxErr.Char, syntaxErr.Err)
				buf.B = d.styles.AppendError(buf.B, syntaxErr.Offset, pretty.SyntaxMessage(syntaxErr))
				err = syntaxErr
			}
			if flushErr := flush(w, buf); flushErr != nil {
				return flushErr
			}
			return err
		}
		if ev.Kind == markup.EndOfInput {
			return nil
		}

		buf.B = d.styles.AppendEvent(buf.B, base+source.Offset(), ev)
		if buf.Len() >= eventFlushSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := flush(w, buf); err != nil {
				return err
			}
		}
	}
}

// flush writes the buffered dump and empties the buffer.
func flush(w io.Writer, buf *bytebufferpool.ByteBuffer) error {
	if buf.Len() == 0 {
		return nil
	}
	_, err := w.Write(buf.B)
	buf.Reset()
	if err != nil {
		return fmt.Errorf("write events: %w", err)
	}
	return nil
}

// EventsReporter dumps the event stream of every scanned file.
type EventsReporter struct {
	opts   Options
	styles *pretty.Styles
	dumper *EventDumper
	bw     *bufio.Writer
}

// NewEventsReporter creates a new events reporter.
func NewEventsReporter(opts Options) *EventsReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)
	return &EventsReporter{
		opts:   opts,
		styles: styles,
		dumper: NewEventDumper(styles, opts.Engine, opts.Markup),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. Files are reread; unreadable files and
// duplicates are listed without events.
func (r *EventsReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	headers := len(result.Files) > 1
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		path := r.opts.displayPath(file.Path)
		if headers {
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader("==> "+path+" <==", r.opts.fileNote(file)))
		}

		switch {
		case file.Error != nil:
			fmt.Fprintln(r.bw, r.styles.Info.Render("error: "+file.Error.Error()))
			continue
		case file.DuplicateOf != "":
			continue
		}

		content, _, readErr := fsutil.ReadFile(ctx, file.Path)
		if readErr != nil {
			fmt.Fprintln(r.bw, r.styles.Info.Render("error: "+readErr.Error()))
			continue
		}

		dumpErr := r.dumper.Dump(ctx, r.bw, string(content), file.Format)
		var syntaxErr *markup.SyntaxError
		if dumpErr != nil && !errors.As(dumpErr, &syntaxErr) {
			return 0, dumpErr
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return countFindings(result), nil
}
