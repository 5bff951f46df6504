package compound

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"strconv"
	"strings"

	perr "chemload/internal/platform/errors"
	"chemload/internal/platform/logger"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const (
	// DefaultMaxLineBytes bounds one line; longer lines are parse errors
	DefaultMaxLineBytes = 32 * 1024 * 1024
	initialBufBytes     = 512 * 1024
	sampleRawMax        = 256 // max bytes of the first line to log
)

// Options configures one Reader
type Options struct {
	Layout       Layout
	Compression  Compression
	Encoding     string // WHATWG label, e.g. "windows-1252"; empty or utf-8 means no decoding
	MaxLineBytes int
}

// Stats summarises what a Reader consumed so far
type Stats struct {
	Records int
	Lines   int   // physical lines scanned, blank ones included
	Bytes   int64 // decompressed bytes read
	Digest  uint64
}

// Reader streams Records from a compressed source, single pass
type Reader struct {
	name    string
	layout  Layout
	src     io.ReadCloser
	dec     io.Closer
	counter *countingReader
	sc      *bufio.Scanner
	hash    *xxh3.Hasher
	maxLine int

	err     error
	records int
	lines   int
	sampled bool // logs exactly one sample line per source
}

// Open acquires src and stacks decompression, charset decoding and line scanning on it
func Open(src Source, opts Options) (*Reader, error) {
	layout, err := ParseLayout(string(opts.Layout))
	if err != nil {
		return nil, err
	}
	comp, err := ParseCompression(string(opts.Compression))
	if err != nil {
		return nil, err
	}
	maxLine := opts.MaxLineBytes
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}
	transformer, err := textDecoder(opts.Encoding)
	if err != nil {
		return nil, err
	}

	rc, err := src.acquire()
	if err != nil {
		return nil, err
	}
	body, dec, err := decompress(rc, comp)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}

	counter := &countingReader{r: body}
	var text io.Reader = counter
	if transformer != nil {
		text = transform.NewReader(counter, transformer)
	}

	rd := &Reader{
		name:    src.Name(),
		layout:  layout,
		src:     rc,
		dec:     dec,
		counter: counter,
		hash:    xxh3.New(),
		maxLine: maxLine,
	}
	rd.sc = bufio.NewScanner(text)
	rd.sc.Buffer(make([]byte, min(initialBufBytes, maxLine)), maxLine)
	rd.sc.Split(rd.splitLines)
	return rd, nil
}

// splitLines is bufio.ScanLines except that an unterminated final line cut
// short by a read error surfaces the error instead of a partial record
func (rd *Reader) splitLines(data []byte, atEOF bool) (int, []byte, error) {
	advance, token, err := bufio.ScanLines(data, atEOF)
	if atEOF && len(data) > 0 && advance == len(data) && data[len(data)-1] != '\n' {
		if rerr := rd.counter.err; rerr != nil && !errors.Is(rerr, io.EOF) {
			return 0, nil, rerr
		}
	}
	return advance, token, err
}

func textDecoder(label string) (transform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8", "ascii", "us-ascii":
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "compound: unknown encoding %q", label)
	}
	return enc.NewDecoder(), nil
}

// Layout returns the line layout this reader parses
func (rd *Reader) Layout() Layout { return rd.layout }

// Next returns the next record; io.EOF when done
// after any error every later call returns the same error
func (rd *Reader) Next() (Record, error) {
	if rd.err != nil {
		return Record{}, rd.err
	}
	for {
		if !rd.sc.Scan() {
			rd.err = rd.scanErr()
			return Record{}, rd.err
		}
		rd.lines++
		line := rd.sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := ParseLine(rd.layout, rd.lines, line)
		if err != nil {
			rd.err = err
			return Record{}, err
		}
		rd.records++
		_, _ = rd.hash.WriteString(line)
		_, _ = rd.hash.Write([]byte{'\n'})

		if !rd.sampled {
			rd.sampled = true
			l := logger.Named("compound")
			l.Debug().
				Str("source", rd.name).
				Int("line_bytes", len(line)).
				Str("sample_raw", truncate(line, sampleRawMax)).
				Msg("compound: sample line")
		}
		return rec, nil
	}
}

func (rd *Reader) scanErr() error {
	err := rd.sc.Err()
	switch {
	case err == nil:
		return io.EOF
	case errors.Is(err, bufio.ErrTooLong):
		return &ParseError{Line: rd.lines + 1, Reason: "line exceeds " + strconv.Itoa(rd.maxLine) + " bytes"}
	default:
		return perr.Wrapf(err, perr.ErrorCodeIO, "compound: read %s", rd.name)
	}
}

// All exposes the remaining records as a sequence
// it stops after the first error, which is yielded with a zero Record; io.EOF is not yielded
func (rd *Reader) All() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := rd.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the decoder and the underlying stream
func (rd *Reader) Close() error {
	var first error
	if rd.dec != nil {
		if err := rd.dec.Close(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			first = err
		}
		rd.dec = nil
	}
	if rd.src != nil {
		if err := rd.src.Close(); err != nil && first == nil {
			first = err
		}
		rd.src = nil
	}
	if rd.err == nil {
		rd.err = perr.IOf("compound: reader closed")
	}
	return first
}

// Stats returns counters and the digest of accepted lines so far
func (rd *Reader) Stats() Stats {
	return Stats{
		Records: rd.records,
		Lines:   rd.lines,
		Bytes:   rd.counter.n,
		Digest:  rd.hash.Sum64(),
	}
}

// countingReader counts decompressed bytes and remembers the last read error
type countingReader struct {
	r   io.Reader
	n   int64
	err error
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if err != nil {
		c.err = err
	}
	return n, err
}
