package logging

import (
	"io"
	"strings"

	"github.com/labstack/gommon/log"
)

const header = `{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}","file":"${short_file}","line":"${line}"}`

// New はプロセス共通のロガーを生成します。echo のロガーとしてそのまま設定できます。
func New(prefix, level string, out io.Writer) *log.Logger {
	l := log.New(prefix)
	l.SetHeader(header)
	l.SetLevel(ParseLevel(level))
	if out != nil {
		l.SetOutput(out)
	}
	return l
}

// ParseLevel は設定値をログレベルに変換します。未知の値は INFO です。
func ParseLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
