package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const maxValueLogSize = 256

// DebugLogger writes verbose request traces. A nil *DebugLogger is valid and
// discards everything.
type DebugLogger struct {
	out io.Writer
	mu  sync.Mutex
}

func NewDebugLogger(out io.Writer) *DebugLogger {
	return &DebugLogger{out: out}
}

func (d *DebugLogger) LogRequest(submissionID string, req *http.Request) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("\n[%s] >>> REQUEST\n", submissionID))
	buf.WriteString(fmt.Sprintf("  %s %s://%s%s\n", req.Method, req.URL.Scheme, req.URL.Host, req.URL.Path))

	if raw := req.URL.RawQuery; raw != "" {
		buf.WriteString("  Params:\n")
		for _, pair := range strings.Split(raw, "&") {
			key, value, _ := strings.Cut(pair, "=")
			buf.WriteString(fmt.Sprintf("    %s = %s\n", unescape(key), truncateValue(unescape(value))))
		}
	}

	if len(req.Header) > 0 {
		buf.WriteString("  Headers:\n")
		for name, values := range req.Header {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", name, strings.Join(values, ", ")))
		}
	}
	fmt.Fprint(d.out, buf.String())
}

// LogDelivered records that the request left the client. The response is not
// inspected, so only the elapsed time is known.
func (d *DebugLogger) LogDelivered(submissionID string, duration time.Duration) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "[%s] <<< DELIVERED (%s)\n", submissionID, duration.Round(time.Millisecond))
}

func (d *DebugLogger) LogError(submissionID string, errMsg string, duration time.Duration) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "[%s] !!! ERROR (%s)\n  %s\n",
		submissionID, duration.Round(time.Millisecond), errMsg)
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

func truncateValue(v string) string {
	if len(v) <= maxValueLogSize {
		return v
	}
	return v[:maxValueLogSize] + fmt.Sprintf("... (truncated, %d bytes total)", len(v))
}
