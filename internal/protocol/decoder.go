package protocol

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/openlistings/concierge/pkg/logging"
)

// Decoder turns a newline-delimited JSON byte stream into a lazy sequence
// of events. It is pull-based and not restartable: once Next returns a
// non-nil error the stream is finished.
type Decoder struct {
	r      *bufio.Reader
	logger *logging.Logger
	err    error
}

// NewDecoder wraps r. A nil logger discards diagnostics.
func NewDecoder(r io.Reader, logger *logging.Logger) *Decoder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Decoder{r: bufio.NewReader(r), logger: logger}
}

// Next returns the next event from the stream. io.EOF signals a clean end.
//
// Blank lines are skipped. A line that is not valid JSON is dropped with a
// diagnostic and decoding continues with the following line. Bytes left
// without a trailing newline when the source ends are discarded; a partial
// event is never flushed.
func (d *Decoder) Next() (Event, error) {
	if d.err != nil {
		return Event{}, d.err
	}

	for {
		line, err := d.r.ReadString('\n')
		if err != nil {
			// Any unterminated remainder in line is an incomplete
			// event and is dropped.
			if err == io.EOF && strings.TrimSpace(line) != "" {
				d.logger.Debug("protocol: discarding unterminated trailing bytes", "len", len(line))
			}
			d.err = err
			return Event{}, d.err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var ev Event
		if uerr := json.Unmarshal([]byte(line), &ev); uerr != nil {
			d.logger.Warn("protocol: dropping malformed stream line", "error", uerr)
			continue
		}
		return ev, nil
	}
}
