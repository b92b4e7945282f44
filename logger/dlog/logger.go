// Package dlog is the bot wide logger: a slog fanout writing a colorized
// pretty stream to stdout plus text and json files under logs/, with the
// files archived daily.
package dlog

import (
	"io"
	"log/slog"
	"os"

	"github.com/JamesNgai/qtbot/logger/dlog/prettylog"
	"github.com/robfig/cron/v3"
	slogmulti "github.com/samber/slog-multi"
)

var Log *slog.Logger

var archiver = &Archiver{dir: "logs"}

func init() {
	setup()
	Log = createLogger()

	spec := os.Getenv("ARCHIVE_CRON")
	if spec == "" {
		spec = "0 0 * * *"
	}
	c := cron.New()
	entryID, err := c.AddFunc(spec, archiver.process)
	if err != nil {
		panic(err)
	}
	c.Start()
	Debug("created archive cron", "entryID", entryID)
}

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

func setup() {
	if err := os.MkdirAll("logs", os.ModePerm); err != nil {
		panic(err)
	}
}

func createLogger() *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}

	return slog.New(slogmulti.Fanout(
		prettylog.NewHandler(&DualWriter{stdout: os.Stdout, file: openLog("logs/pretty.log")}, opts),
		slog.NewTextHandler(openLog("logs/default.txt"), opts),
		slog.NewJSONHandler(openLog("logs/default.json"), opts),
	))
}

func openLog(name string) *os.File {
	f, err := os.OpenFile(name, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		panic(err)
	}
	return f
}

// DualWriter mirrors everything to stdout and the pretty log file.
type DualWriter struct {
	stdout *os.File
	file   io.Writer
}

func (t *DualWriter) Write(p []byte) (n int, err error) {
	n, err = t.stdout.Write(p)
	if err != nil {
		return n, err
	}
	return t.file.Write(p)
}
