package meshdata

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger 创建输出到 stderr 的日志，级别为 debug/info/warn/error
func NewLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "meshconvert",
	})
	l.SetLevel(lvl)
	return l, nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
