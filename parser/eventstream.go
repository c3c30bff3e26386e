package parser

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/aclements/perfscript"
	"github.com/aclements/perfscript/cursor"
	"github.com/aclements/perfscript/symtab"
)

const defaultMaxSamples = 50000

// errTruncatedHeader is returned when the stream ends mid-header, before
// a pid/tid field ever appears.
var errTruncatedHeader = errors.New("truncated event header: no pid/tid field found")

// Option configures an EventStreamParser at construction time.
type Option func(*EventStreamParser)

// WithSymbolIndex installs a symbol index for unknown-frame resolution.
func WithSymbolIndex(idx *symtab.SymbolIndex) Option {
	return func(p *EventStreamParser) { p.index = idx }
}

// WithFilter restricts emitted events to those whose event name matches
// re.
func WithFilter(re *regexp.Regexp) Option {
	return func(p *EventStreamParser) { p.filter = re }
}

// WithMaxSamples overrides the default cap of 50000 emitted events.
func WithMaxSamples(n int) Option {
	return func(p *EventStreamParser) { p.maxSamples = n }
}

// EventStreamParser is a lazy, single-threaded iterator over a
// perf-script textual stream, using the same pull shape as the rest of
// this repo: Next advances, Event and Err read the result.
//
// Typical usage is:
//
//	p := parser.NewEventStreamParser(r)
//	for p.Next() {
//	    ev := p.Event()
//	    ...
//	}
//	if err := p.Err(); err != nil { ... }
type EventStreamParser struct {
	c   *cursor.ByteCursor
	err error

	index      *symtab.SymbolIndex
	filter     *regexp.Regexp
	maxSamples int

	event      perfscript.Event
	eventCount int
	primed     bool
	capped     bool
}

// NewEventStreamParser returns a parser reading from r.
func NewEventStreamParser(r io.Reader, opts ...Option) *EventStreamParser {
	p := &EventStreamParser{
		c:          cursor.New(r),
		maxSamples: defaultMaxSamples,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetSymbolIndex installs idx for unknown-frame resolution; pass nil to
// disable resolution.
func (p *EventStreamParser) SetSymbolIndex(idx *symtab.SymbolIndex) { p.index = idx }

// SetFilter restricts emitted events to those whose event name matches
// re; pass nil to match everything.
func (p *EventStreamParser) SetFilter(re *regexp.Regexp) { p.filter = re }

// SetMaxSamples overrides the emitted-event cap.
func (p *EventStreamParser) SetMaxSamples(n int) { p.maxSamples = n }

// EventCount returns the cumulative number of events emitted so far. Not
// safe to call concurrently with Next.
func (p *EventStreamParser) EventCount() int { return p.eventCount }

// Err returns the first error encountered, if any.
func (p *EventStreamParser) Err() error { return p.err }

// Event returns the event produced by the most recent call to Next.
func (p *EventStreamParser) Event() perfscript.Event { return p.event }

// Next advances to the next event, skipping events the filter rejects.
// It returns false at end of stream, on error, or once the sample cap
// has been exceeded. The event whose count first exceeds the cap is
// still returned, since it was already fully parsed by the time the
// count crosses the line; EventCount is bounded above by maxSamples+1,
// and always equals the number of events Next has actually yielded.
func (p *EventStreamParser) Next() bool {
	if p.err != nil {
		return false
	}
	if !p.primed {
		skipPreamble(p.c)
		p.primed = true
	}
	if p.capped {
		return false
	}

	for {
		if p.c.EndOfStream() {
			return false
		}

		hdr, kind, err := p.readHeader()
		if err != nil {
			p.err = err
			return false
		}

		if p.filter != nil && !p.filter.MatchString(hdr.EventName) {
			skipToEndOfSample(p.c)
			continue
		}

		if kind == perfscript.KindScheduler {
			sw, err := p.readSchedulerPayload()
			if err != nil {
				p.err = err
				return false
			}
			hdr.Frames, err = p.readFrames(hdr.PID, hdr.TID, hdr.Command)
			if err != nil {
				p.err = err
				return false
			}
			p.event = &perfscript.SchedulerEvent{EventHeader: hdr, Switch: sw}
		} else {
			frames, err := p.readFrames(hdr.PID, hdr.TID, hdr.Command)
			if err != nil {
				p.err = err
				return false
			}
			hdr.Frames = frames
			p.event = &perfscript.CPUEvent{EventHeader: hdr}
		}

		p.eventCount++
		if p.eventCount > p.maxSamples {
			p.capped = true
		}
		return true
	}
}

// skipPreamble advances past a UTF-8 BOM and any leading #-comment
// lines.
func skipPreamble(c *cursor.ByteCursor) {
	if c.Current() == 0xEF && c.Peek(1) == 0xBB && c.Peek(2) == 0xBF {
		c.Advance()
		c.Advance()
		c.Advance()
	}
	for {
		c.SkipWhitespace()
		if c.EndOfStream() || c.Current() != '#' {
			return
		}
		c.SkipUntil('\n')
		if !c.EndOfStream() {
			c.Advance()
		}
	}
}

// readHeader parses one event's header line, leaving the cursor
// positioned at the start of the next line if the kind is Cpu (the
// event detail and the line's newline are consumed), or restored to the
// start of event_detail if the kind is Scheduler (so the scheduler
// payload reader sees the whole detail text).
func (p *EventStreamParser) readHeader() (perfscript.EventHeader, perfscript.EventKind, error) {
	c := p.c
	var hdr perfscript.EventHeader

	var commandWords []string
	for {
		c.SkipWhitespace()
		if c.EndOfStream() {
			return hdr, 0, &cursor.FormatFailure{Offset: c.Offset(), Err: errTruncatedHeader}
		}
		if isASCIIDigit(c.Current()) {
			break
		}
		commandWords = append(commandWords, c.ReadASCIIWhile(func(b byte) bool {
			return b != ' ' && b != '\n'
		}))
	}
	hdr.Command = strings.Join(commandWords, " ")

	pid, err := c.ReadIntDecimal()
	if err != nil {
		return hdr, 0, err
	}
	hdr.PID = pid
	c.Advance() // '/'
	tid, err := c.ReadIntDecimal()
	if err != nil {
		return hdr, 0, err
	}
	hdr.TID = tid

	c.SkipWhitespace()
	c.Advance() // '['
	cpu, err := c.ReadIntDecimal()
	if err != nil {
		return hdr, 0, err
	}
	hdr.CPU = uint32(cpu)
	c.Advance() // ']'

	c.SkipWhitespace()
	secs := c.ReadASCIIUntil(':')
	f, err := strconv.ParseFloat(secs, 64)
	if err != nil {
		return hdr, 0, &cursor.FormatFailure{Offset: c.Offset(), Err: err}
	}
	hdr.TimeMsec = f * 1000
	c.Advance() // ':'

	c.SkipWhitespace()
	hdr.TimeProperty = -1
	if isASCIIDigit(c.Current()) {
		tp, err := c.ReadIntDecimal()
		if err != nil {
			return hdr, 0, err
		}
		hdr.TimeProperty = tp
	}
	c.SkipWhitespace()
	hdr.EventName = c.ReadASCIIUntil(':')
	c.Advance() // ':'

	tok := c.Mark()
	hdr.EventDetail = strings.TrimSpace(c.ReadASCIIUntil('\n'))

	kind := perfscript.KindCPU
	if strings.HasPrefix(hdr.EventDetail, "sched_switch") {
		kind = perfscript.KindScheduler
		// Leave the scheduler payload unconsumed so
		// ScheduleSwitchReader can parse it directly from the mark.
		c.Restore(tok)
	} else if !c.EndOfStream() && c.Current() == '\n' {
		c.Advance()
	}
	return hdr, kind, nil
}

func (p *EventStreamParser) readSchedulerPayload() (perfscript.ScheduleSwitch, error) {
	c := p.c
	var reader ScheduleSwitchReader
	sw, err := reader.Read(c)
	if err != nil {
		return sw, err
	}
	c.SkipUntil('\n')
	if !c.EndOfStream() {
		c.Advance()
	}
	return sw, nil
}

// readFrames reads stack-frame lines until end-of-sample and appends the
// synthetic ThreadFrame and ProcessFrame.
func (p *EventStreamParser) readFrames(pid, tid int32, command string) ([]perfscript.Frame, error) {
	c := p.c
	fr := FrameReader{Index: p.index, PID: pid}

	var frames []perfscript.Frame
	for !endOfSample(c) {
		f, err := fr.ReadFrame(c)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
		if !c.EndOfStream() && c.Current() == '\n' {
			c.Advance()
		}
	}
	if !c.EndOfStream() && c.Current() == '\n' {
		c.Advance()
	}

	frames = append(frames, perfscript.ThreadFrame{ID: tid, Name: "Thread"})
	frames = append(frames, perfscript.ProcessFrame{Name: command})
	return frames, nil
}

// endOfSample reports whether c is positioned at the blank line or
// stream end that terminates a sample's frame list. Callers check it at
// the start of a line, so a blank line shows up as a current byte of
// '\n' (or the '\r' of a "\r\n" ending).
func endOfSample(c *cursor.ByteCursor) bool {
	if c.EndOfStream() {
		return true
	}
	switch c.Current() {
	case 0, '\n', '\r':
		return true
	}
	return false
}

// skipToEndOfSample discards the rest of a filtered-out event's frame
// lines.
func skipToEndOfSample(c *cursor.ByteCursor) {
	for !endOfSample(c) {
		c.SkipUntil('\n')
		if !c.EndOfStream() {
			c.Advance()
		}
	}
	if !c.EndOfStream() && c.Current() == '\n' {
		c.Advance()
	}
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
